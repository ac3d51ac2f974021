//go:build arm64

package asm

// DisableInterrupts/EnableInterrupts wrap msr daifset/daifclr #2.
func DisableInterrupts()
func EnableInterrupts()

func Halt() // wfi loop

// WriteTTBR1/WriteTTBR0 install the kernel/identity translation table
// base registers.
func WriteTTBR1(root uintptr)
func WriteTTBR0(root uintptr)

func WriteMAIR(v uint64)
func WriteTCR(v uint64)
func ReadSCTLR() uint64
func WriteSCTLR(v uint64)

// ReadMMFR0 returns ID_AA64MMFR0_EL1, whose PARange field (bits 0..3)
// the aarch64 paging builder ORs into TCR_EL1 bits 32..35.
func ReadMMFR0() uint64

// InvalidateTLBAll issues "tlbi vmalle1" + "dsb sy" + "isb".
func InvalidateTLBAll()

// JumpToKernel loads newStack into SP, puts argsPtr in X0 (AAPCS64), and
// branches to entry. It never returns.
func JumpToKernel(entry uintptr, argsPtr uintptr, newStack uintptr)
