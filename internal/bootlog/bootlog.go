// Package bootlog gives the core a hardware-free logging seam.
//
// The VGA text writer, the 16550 UART driver, and whatever glues them
// together are external collaborators (see spec.md §1); this package only
// defines the interface the core writes through, so the same orchestration
// code runs against a real console on hardware and against a buffer in
// tests.
package bootlog

import "fmt"

// Sink receives formatted boot-time log lines. Implementations are not
// required to be safe for concurrent use; the bootloader is single-threaded.
type Sink interface {
	Writef(format string, args ...any)
}

// Discard is a Sink that drops everything. Useful as the default in tests
// and in code paths that run before a real console is wired up.
var Discard Sink = discard{}

type discard struct{}

func (discard) Writef(string, ...any) {}

// Buffer is a Sink that accumulates formatted lines, one per call, for
// assertions in tests.
type Buffer struct {
	Lines []string
}

func (b *Buffer) Writef(format string, args ...any) {
	b.Lines = append(b.Lines, fmt.Sprintf(format, args...))
}
