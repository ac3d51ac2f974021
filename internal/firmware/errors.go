package firmware

import "github.com/redox-os/bootloader/internal/bootfail"

// ErrNoEnt reports that the candidate device holds no RedoxFS volume;
// the orchestrator's FilesystemProbe state treats this as "try the next
// candidate", not fatal (spec.md §4.5, §7).
func ErrNoEnt(device string) error {
	return bootfail.New(bootfail.FilesystemNotFound, "no RedoxFS volume on "+device, nil)
}

// ErrNoKey reports that the volume is encrypted and the supplied
// password (possibly none) did not unlock it. The orchestrator's
// PasswordPrompt state retries this up to 10 times before treating it as
// fatal (spec.md §4.5, §7).
func ErrNoKey(device string) error {
	return bootfail.New(bootfail.PasswordRejected, "password rejected for "+device, nil)
}

// IsNoEnt/IsNoKey classify an error returned from Filesystem.
func IsNoEnt(err error) bool { return bootfail.Is(err, bootfail.FilesystemNotFound) }
func IsNoKey(err error) bool { return bootfail.Is(err, bootfail.PasswordRejected) }
