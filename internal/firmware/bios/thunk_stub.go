//go:build 386 || amd64

package bios

// RealModeThunk is the externally supplied real-mode trampoline
// ThunkStub names: it switches to real mode, loads the frame from
// THUNK_STACK_ADDR-64, executes `int interruptNo`, and restores
// protected/long mode before returning. Declared without a body and
// implemented in hand-written assembly, the same convention internal/asm
// uses for JumpToKernel — the assembly itself is out of scope for this
// core (spec.md §4.2, §1).
func RealModeThunk(interruptNo uint8)
