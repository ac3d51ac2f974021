//go:build amd64

package kernelentry

import "github.com/redox-os/bootloader/internal/asm"

const (
	cr4PAE    = 1 << 5
	cr4PGE    = 1 << 7
	cr4OSXSAVE = 1 << 18

	eferLME = 1 << 8
	eferNX  = 1 << 11

	cr0PG = 1 << 31
	cr0WP = 1 << 16
)

// Enter assembles the x86_64 handoff transition (spec.md §4.6 steps 2,
// 3, 4, 5, 6): interrupts off, PAE/PGE/OSXSAVE in CR4, long mode + NX in
// EFER, then CR3, WP + paging in CR0, activateRuntimeMap (UEFI's
// SetVirtualAddressMap; nil on BIOS), the new stack, and the final jump.
func Enter(root uintptr, entry uintptr, argsPtr uintptr, stack uintptr, activateRuntimeMap func()) Transition {
	return Transition{
		Root: root, Entry: entry, Args: argsPtr, Stack: stack,
		commit: func() {
			asm.DisableInterrupts()

			cr4 := asm.ReadCR4()
			asm.WriteCR4(cr4 | cr4PAE | cr4PGE | cr4OSXSAVE)

			efer := asm.ReadEFER()
			asm.WriteEFER(efer | eferLME | eferNX)

			asm.WriteCR3(root)

			cr0 := asm.ReadCR0()
			asm.WriteCR0(cr0 | cr0PG | cr0WP)

			if activateRuntimeMap != nil {
				activateRuntimeMap()
			}

			asm.JumpToKernel(entry, argsPtr, stack)
		},
	}
}
