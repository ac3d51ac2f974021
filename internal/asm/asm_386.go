//go:build 386

package asm

func InB(port uint16) uint8
func OutB(port uint16, val uint8)

func DisableInterrupts()
func EnableInterrupts()
func Halt()

// WriteCR3 installs the new page directory physical address.
func WriteCR3(root uintptr)

func ReadCR4() uint32
func WriteCR4(v uint32)

func ReadCR0() uint32
func WriteCR0(v uint32)

// JumpToKernel loads newStack, puts argsPtr in EAX (the core's chosen
// 32-bit handoff register, since x86 cdecl takes args on the stack and
// the kernel instead reads it from a register by convention here), and
// jumps to entry.
func JumpToKernel(entry uintptr, argsPtr uintptr, newStack uintptr)
