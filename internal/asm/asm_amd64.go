//go:build amd64

// Package asm declares the architecture-specific primitives the core
// needs and cannot express in portable Go: port I/O, control-register
// and MSR access, cache/TLB maintenance, and the final non-returning
// jump to the kernel entry point. Each function is declared without a
// body and implemented in hand-written assembly, the same convention
// gopher-os uses for its kernel/cpu package (cpu_amd64.go declares
// EnableInterrupts/DisableInterrupts/SwitchPDT/etc with no Go body). The
// assembly bodies themselves are out of scope for this core the same way
// the BIOS real-mode thunk stub is (spec.md §4.2): they are a fixed,
// tiny, architecture-mandated contract that this package only names.
package asm

// InB/OutB are byte port I/O, used by the legacy PIC/keyboard controller
// paths the BIOS adapter depends on indirectly through firmware calls.
func InB(port uint16) uint8
func OutB(port uint16, val uint8)

// DisableInterrupts/EnableInterrupts wrap cli/sti.
func DisableInterrupts()
func EnableInterrupts()

// Halt executes hlt in a loop; used only by the out-of-scope panic
// handler, declared here so bootfail.Halter implementations have
// something concrete to wrap on this architecture.
func Halt()

// WriteCR3 installs the new top-level page table physical address.
func WriteCR3(root uintptr)

// ReadCR4/WriteCR4 and ReadEFER/WriteEFER touch the control bits
// kernelentry must set before the jump: PAE, global pages, NX, long mode.
func ReadCR4() uint64
func WriteCR4(v uint64)
func ReadEFER() uint64
func WriteEFER(v uint64)

// WriteCR0 sets/clears PG and WP.
func ReadCR0() uint64
func WriteCR0(v uint64)

// JumpToKernel performs the final indirect jump: loads rsp from
// newStack, puts argsPtr in the SysV first-argument register (RDI), and
// jumps to entry. It never returns.
func JumpToKernel(entry uintptr, argsPtr uintptr, newStack uintptr)
