package bios

import "github.com/redox-os/bootloader/internal/hwdesc"

// ebdaPointerAddr is the real-mode address of the word holding the EBDA
// segment, shifted left 4 to give its physical address (spec.md §4.3).
const ebdaPointerAddr = 0x40E

// eSegmentStart and eSegmentEnd bound the second region the BIOS RSDP
// search must cover when the EBDA doesn't hold it (spec.md §4.3).
const (
	eSegmentStart = 0xE0000
	eSegmentEnd   = 0x100000
)

// rsdpScanStep is the alignment the ACPI spec guarantees the RSDP sits on.
const rsdpScanStep = 16

// maxRsdpProbe is large enough to read either RSDP revision (hwdesc.ValidateRSDP
// needs up to 36 bytes for revision ≥2) without any prior knowledge of which.
const maxRsdpProbe = 36

// ScanRSDP walks the EBDA's first 1 KiB and then the 0xE0000-0xFFFFF
// E-segment, both 16-byte aligned, looking for a signature that
// hwdesc.ValidateRSDP accepts (spec.md §4.3). It returns the physical
// address and validated length of the first match.
func ScanRSDP(mem LowMemory) (addr uint32, length int, ok bool) {
	var ebdaSeg [2]byte
	mem.ReadAt(ebdaPointerAddr, ebdaSeg[:])
	ebda := uint32(ebdaSeg[0]) | uint32(ebdaSeg[1])<<8
	if ebdaBase := ebda << 4; ebdaBase != 0 {
		if addr, length, ok = scanRange(mem, ebdaBase, ebdaBase+1024); ok {
			return addr, length, true
		}
	}
	return scanRange(mem, eSegmentStart, eSegmentEnd)
}

func scanRange(mem LowMemory, start, end uint32) (addr uint32, length int, ok bool) {
	for a := start; a+maxRsdpProbe <= end; a += rsdpScanStep {
		var probe [maxRsdpProbe]byte
		mem.ReadAt(a, probe[:])
		if length, ok := hwdesc.ValidateRSDP(probe[:]); ok {
			return a, length, true
		}
	}
	return 0, 0, false
}
