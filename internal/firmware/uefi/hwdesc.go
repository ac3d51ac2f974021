package uefi

import (
	"github.com/redox-os/bootloader/internal/firmware"
	"github.com/redox-os/bootloader/internal/hwdesc"
)

// ConfigTableReader is the seam over the firmware's
// EFI_SYSTEM_TABLE.ConfigurationTable array plus a way to read bytes at
// a physical address (the real implementation dereferences the table
// pointer directly; tests read from a plain map).
type ConfigTableReader interface {
	Entries() []ConfigTableEntry
	ReadAt(addr uintptr, n int) []byte
}

// HwDesc locates the ACPI RSDP (preferring the v2 GUID) or, failing
// that, a DTB blob from the firmware's configuration table (spec.md
// §4.3: "on ARM/RISC-V prefer DTB... on x86 prefer ACPI"). preferDTB
// selects which family is tried first; the other is still used as a
// fallback if present.
func HwDesc(r ConfigTableReader, preferDTB bool) firmware.HwDesc {
	tryACPI := func() (firmware.HwDesc, bool) {
		var v1 firmware.HwDesc
		haveV1 := false
		for _, e := range r.Entries() {
			if e.Guid != AcpiV2Guid && e.Guid != AcpiV1Guid {
				continue
			}
			// ACPI RSDP revision 2 needs up to 36 bytes to validate its
			// extended checksum; read generously and let ValidateRSDP
			// determine the true length.
			blob := r.ReadAt(e.Table, 36)
			length, ok := hwdesc.ValidateRSDP(blob)
			if !ok {
				continue
			}
			d := firmware.HwDesc{Kind: firmware.HwDescAcpi, Base: uint64(e.Table), Size: uint64(length)}
			if e.Guid == AcpiV2Guid {
				return d, true
			}
			if !haveV1 {
				v1, haveV1 = d, true
			}
		}
		return v1, haveV1
	}

	tryDTB := func() (firmware.HwDesc, bool) {
		for _, e := range r.Entries() {
			if e.Guid != DtbGuid {
				continue
			}
			hdr := r.ReadAt(e.Table, 8)
			size, ok := hwdesc.DTBSize(hdr)
			if !ok {
				continue
			}
			return firmware.HwDesc{Kind: firmware.HwDescDeviceTree, Base: uint64(e.Table), Size: uint64(size)}, true
		}
		return firmware.HwDesc{}, false
	}

	first, second := tryACPI, tryDTB
	if preferDTB {
		first, second = tryDTB, tryACPI
	}
	if d, ok := first(); ok {
		return d
	}
	if d, ok := second(); ok {
		return d
	}
	return firmware.HwDesc{Kind: firmware.HwDescNotFound}
}
