//go:build arm64

package kernelentry

import "github.com/redox-os/bootloader/internal/asm"

// mairValue, tcrBase, and the SCTLR set/clear masks are the exact
// constants spec.md §4.4 names for aarch64 stage-1 EL1 setup.
const (
	mairValue = 0x0000_0000_0000_44FF
	tcrBase   = 0x0000_0010_8510_0510

	sctlrClearMask = 0 |
		1<<25 | // EE
		1<<24 | // EOE
		1<<21 | // IESB
		1<<19 | // WXN
		1<<9 | // UMA
		1<<7 | // ITD
		1<<6 | // THEE
		1<<1 // A

	sctlrSetMask = 0 |
		1<<29 | // LSMAOE
		1<<28 | // nTLSMD
		1<<26 | // UCI
		1<<23 | // SPAN
		1<<22 | // nTWW (reserved-as-one on some revisions; named per spec.md)
		1<<16 | // nTWI
		1<<15 | // UCT
		1<<14 | // DZE
		1<<12 | // I
		1<<8 | // SED
		1<<4 | // SA0
		1<<3 | // SA
		1<<2 | // C
		1<<0 | // M
		1<<20 // CP15BEN

	parangeShift = 32
	parangeMask  = 0xF
)

// Enter assembles the aarch64 handoff transition. TTBR1_EL1 takes the
// kernel/identity root (spec.md §4.4's single-root design: entries 0/256
// and 510 all live under one L0 table); TCR_EL1's PARange field is read
// from ID_AA64MMFR0_EL1 at assembly time, so the only register Commit
// reads is SCTLR_EL1, for its read-modify-write.
func Enter(root uintptr, entry uintptr, argsPtr uintptr, stack uintptr, activateRuntimeMap func()) Transition {
	parange := (asm.ReadMMFR0() & parangeMask) << parangeShift
	tcr := tcrBase | parange

	return Transition{
		Root: root, Entry: entry, Args: argsPtr, Stack: stack,
		commit: func() {
			asm.DisableInterrupts()

			asm.WriteMAIR(mairValue)
			asm.WriteTCR(tcr)

			sctlr := asm.ReadSCTLR()
			sctlr &^= sctlrClearMask
			sctlr |= sctlrSetMask
			asm.WriteSCTLR(sctlr)

			asm.WriteTTBR1(root)
			asm.WriteTTBR0(root)
			asm.InvalidateTLBAll()

			if activateRuntimeMap != nil {
				activateRuntimeMap()
			}

			asm.JumpToKernel(entry, argsPtr, stack)
		},
	}
}
