package hwdesc

import (
	"encoding/binary"
)

// dtbMagic is the flattened-device-tree header magic, big-endian.
const dtbMagic = 0xD00DFEED

// DTBSize reads totalsize from a Flattened Device Tree header (spec.md
// §4.3/§8: "hwdesc() returns DeviceTree(ptr, len) with len = fdt.totalsize").
func DTBSize(blob []byte) (size uint32, ok bool) {
	if len(blob) < 8 || binary.BigEndian.Uint32(blob[0:4]) != dtbMagic {
		return 0, false
	}
	return binary.BigEndian.Uint32(blob[4:8]), true
}

// SocRange is the parent-base and size of one (child-base, parent-base,
// size) triple parsed from a /soc/ranges property, in the same units
// (usually bytes) the DTB encodes; ParseSocRanges keeps every triple
// whose size is nonzero.
type SocRange struct {
	Base uint64
	Size uint64
}

// DeviceRangeFunc builds a predicate over the given ranges, assignable to
// the aarch64 paging builder's paging.DeviceRangeFunc: any physical
// address falling within [Base, Base+Size) of any range is reported as a
// device region (spec.md §4.4's DTB-driven MAIR selection).
func DeviceRangeFunc(ranges []SocRange) func(phys uint64) bool {
	return func(phys uint64) bool {
		for _, r := range ranges {
			if phys >= r.Base && phys < r.Base+r.Size {
				return true
			}
		}
		return false
	}
}

// ParseSocRanges decodes a /soc/ranges property's raw cell data assuming
// #address-cells = #size-cells = 2 (64-bit, the common QEMU virt layout),
// which is the only layout the orchestrator needs to support (spec.md
// §4.4's aarch64 open question resolves to the QEMU virt machine).
// cells holds the raw triples back to back (the empty "ranges;" 1:1
// identity form some device trees use is represented by an empty slice by
// the caller, which ParseSocRanges treats as zero ranges since there is
// then nothing to distinguish from RAM).
func ParseSocRanges(cells []byte) []SocRange {
	const stride = 6 * 4 // child(2) + parent(2) + size(2) 32-bit cells
	var out []SocRange
	for off := 0; off+stride <= len(cells); off += stride {
		parentHi := binary.BigEndian.Uint32(cells[off+8:])
		parentLo := binary.BigEndian.Uint32(cells[off+12:])
		sizeHi := binary.BigEndian.Uint32(cells[off+16:])
		sizeLo := binary.BigEndian.Uint32(cells[off+20:])
		base := uint64(parentHi)<<32 | uint64(parentLo)
		size := uint64(sizeHi)<<32 | uint64(sizeLo)
		if size == 0 {
			continue
		}
		out = append(out, SocRange{Base: base, Size: size})
	}
	return out
}
