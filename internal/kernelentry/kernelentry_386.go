//go:build 386

package kernelentry

import "github.com/redox-os/bootloader/internal/asm"

const (
	cr4PSE = 1 << 4
	cr0PG  = 1 << 31
)

// Enter assembles the x86 (PAE-less) handoff transition (spec.md §4.6):
// interrupts off, PSE in CR4 (so the PD's 4 MiB identity pages are
// legal), CR3, paging enable in CR0, activateRuntimeMap (UEFI's
// SetVirtualAddressMap; nil on BIOS), then the stack switch and jump.
func Enter(root uintptr, entry uintptr, argsPtr uintptr, stack uintptr, activateRuntimeMap func()) Transition {
	return Transition{
		Root: root, Entry: entry, Args: argsPtr, Stack: stack,
		commit: func() {
			asm.DisableInterrupts()
			asm.WriteCR4(asm.ReadCR4() | cr4PSE)
			asm.WriteCR3(root)
			asm.WriteCR0(asm.ReadCR0() | cr0PG)
			if activateRuntimeMap != nil {
				activateRuntimeMap()
			}
			asm.JumpToKernel(entry, argsPtr, stack)
		},
	}
}
