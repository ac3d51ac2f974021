package boot

import (
	"github.com/redox-os/bootloader/internal/bootfail"
	"github.com/redox-os/bootloader/internal/firmware"
)

// PasswordReader reads one password line from the console, honoring
// Backspace and terminating on Enter (spec.md §4.5 state 3). The default
// implementation reads through firmware.OS.GetKey and draws nothing while
// the password is typed: firmware.OS has no character-output call, so
// typed characters are not echoed, not even as '*'. Tests substitute a
// scripted reader.
type PasswordReader interface {
	ReadPassword(os firmware.OS) []byte
}

// consolePasswordReader is the production PasswordReader.
type consolePasswordReader struct{}

// DefaultPasswordReader reads a password from the console via GetKey.
var DefaultPasswordReader PasswordReader = consolePasswordReader{}

func (consolePasswordReader) ReadPassword(os firmware.OS) []byte {
	var buf []byte
	for {
		ev := os.GetKey()
		switch ev.Key {
		case firmware.KeyEnter:
			return buf
		case firmware.KeyBackspace:
			if len(buf) > 0 {
				buf = buf[:len(buf)-1]
			}
		case firmware.KeyChar:
			buf = append(buf, byte(ev.Char))
		}
	}
}

// openFilesystem drives states 2-3 (spec.md §4.5): try opening RedoxFS
// with no password; on PasswordRejected, prompt up to MaxPasswordAttempts
// times. An empty password is treated as no password. Every other
// failure (FilesystemNotFound or otherwise) is fatal.
func (o *Orchestrator) openFilesystem() (firmware.Filesystem, []byte) {
	reader := o.cfg.Password
	if reader == nil {
		reader = DefaultPasswordReader
	}

	fs, err := o.cfg.OS.Filesystem(nil)
	if err == nil {
		return fs, nil
	}
	if !bootfail.Is(err, bootfail.PasswordRejected) {
		o.halt(bootfail.New(bootfail.FilesystemNotFound, "no RedoxFS volume found", err))
	}

	for attempt := 0; attempt < MaxPasswordAttempts; attempt++ {
		password := reader.ReadPassword(o.cfg.OS)
		if len(password) == 0 {
			password = nil
		}
		fs, err := o.cfg.OS.Filesystem(password)
		if err == nil {
			return fs, password
		}
		if !bootfail.Is(err, bootfail.PasswordRejected) {
			o.halt(bootfail.New(bootfail.FilesystemNotFound, "filesystem open failed after password", err))
		}
		o.log("password rejected, %d attempt(s) remaining", MaxPasswordAttempts-attempt-1)
	}
	o.halt(bootfail.New(bootfail.PasswordRejected, "password attempts exhausted", nil))
	return nil, nil
}
