//go:build riscv64

package kernelentry

import (
	"github.com/redox-os/bootloader/internal/asm"
	"github.com/redox-os/bootloader/internal/paging"
)

// Enter assembles the Sv48 handoff transition: SATP is built from the
// root's physical page number and the Sv48 mode field (spec.md §4.4,
// §4.6), written only inside Commit so the SFENCE.VMA/SATP-write pair
// happens at the actual point of no return. activateRuntimeMap is UEFI's
// SetVirtualAddressMap call; nil on BIOS-equivalent platforms, which
// RISC-V has none of, but the signature stays uniform across arches.
func Enter(root uintptr, entry uintptr, argsPtr uintptr, stack uintptr, activateRuntimeMap func()) Transition {
	satp := paging.Satp(uint64(root))
	return Transition{
		Root: root, Entry: entry, Args: argsPtr, Stack: stack,
		commit: func() {
			asm.DisableInterrupts()
			asm.WriteSATP(satp)
			if activateRuntimeMap != nil {
				activateRuntimeMap()
			}
			asm.JumpToKernel(entry, argsPtr, stack)
		},
	}
}
