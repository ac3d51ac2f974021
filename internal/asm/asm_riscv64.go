//go:build riscv64

package asm

// DisableInterrupts/EnableInterrupts wrap csrci/csrsi sstatus, 2.
func DisableInterrupts()
func EnableInterrupts()

func Halt() // wfi loop

// WriteSATP installs the Sv48 root table and mode field, after an
// SFENCE.VMA (spec.md §4.6).
func WriteSATP(v uint64)

// ReadHartID returns the hart ID captured from a0 at entry (the RISC-V
// EFI boot protocol also reports it; kernelentry cross-checks the two,
// spec.md §8 scenario 4).
func ReadHartID() uint64

// JumpToKernel loads newStack into SP, puts argsPtr in A0, and jumps to
// entry. It never returns.
func JumpToKernel(entry uintptr, argsPtr uintptr, newStack uintptr)
