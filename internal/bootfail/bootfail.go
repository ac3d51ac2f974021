// Package bootfail implements the error taxonomy and panic propagation
// policy of spec.md §7.
//
// Every bootloader failure except ENOENT during filesystem probing and
// a rejected password (retried up to the attempt limit) is fatal: it
// propagates to Panic, which prints to every configured sink and halts.
// The halt loop itself belongs to the out-of-scope panic handler, so Panic
// calls a firmware-supplied Halt function instead of looping on hlt/wfi.
package bootfail

import (
	"errors"
	"fmt"

	"github.com/redox-os/bootloader/internal/bootlog"
)

// Kind enumerates the abstract error kinds from spec.md §7.
type Kind int

const (
	// FirmwareCall: the underlying BIOS/UEFI service returned non-success.
	FirmwareCall Kind = iota
	// FilesystemNotFound: no partition contained a valid RedoxFS header.
	FilesystemNotFound
	// PasswordRejected: an encrypted volume refused the supplied password.
	PasswordRejected
	// CorruptImage: the kernel lacks ELF magic or initfs lacks "RedoxFtw".
	CorruptImage
	// ResourceExhaustion: an allocation failed or AreaTable overflowed.
	ResourceExhaustion
	// UnsupportedConfig: an unusable video mode or unknown ELF class/data.
	UnsupportedConfig
)

func (k Kind) String() string {
	switch k {
	case FirmwareCall:
		return "FirmwareCall"
	case FilesystemNotFound:
		return "FilesystemNotFound"
	case PasswordRejected:
		return "PasswordRejected"
	case CorruptImage:
		return "CorruptImage"
	case ResourceExhaustion:
		return "ResourceExhaustion"
	case UnsupportedConfig:
		return "UnsupportedConfig"
	default:
		return "Unknown"
	}
}

// Error wraps an underlying cause with its taxonomy Kind. It supports
// errors.Is/errors.As via Unwrap, matching the rest of the pack's plain
// stdlib-error convention (no third-party errors package is used anywhere
// in the retrieved pack; see DESIGN.md).
type Error struct {
	Kind  Kind
	Msg   string
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds an *Error of the given Kind.
func New(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Msg: msg, Cause: cause}
}

// Is reports whether the first *Error in err's chain has the given Kind;
// any further *Error values wrapped beneath it are not examined.
func Is(err error, kind Kind) bool {
	var be *Error
	if errors.As(err, &be) {
		return be.Kind == kind
	}
	return false
}

// Halter performs the non-returning halt the firmware-specific panic
// handler provides (hlt/wfi loop, watchdog reset, etc). It is supplied by
// the adapter, never implemented by this package.
type Halter func()

// Panic prints err to every sink and then calls halt. It never returns;
// callers should treat it like a call to a diverging function.
func Panic(sinks []bootlog.Sink, halt Halter, err error) {
	for _, s := range sinks {
		if s == nil {
			continue
		}
		s.Writef("BOOTLOADER PANIC: %v", err)
	}
	if halt != nil {
		halt()
	}
	// If halt returns (it must not on real firmware), block forever rather
	// than let control fall through into undefined memory.
	select {}
}
