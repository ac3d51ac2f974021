package uefi

import (
	"testing"

	"github.com/redox-os/bootloader/internal/firmware"
)

type fakeConfigTableReader struct {
	entries []ConfigTableEntry
	blobs   map[uintptr][]byte
}

func (f *fakeConfigTableReader) Entries() []ConfigTableEntry { return f.entries }

func (f *fakeConfigTableReader) ReadAt(addr uintptr, n int) []byte {
	b := f.blobs[addr]
	if len(b) > n {
		return b[:n]
	}
	return b
}

func buildRSDPv1Blob() []byte {
	b := make([]byte, 20)
	copy(b, "RSD PTR ")
	var sum byte
	for _, c := range b[:20] {
		sum += c
	}
	b[8] = byte(-sum)
	return b
}

func TestHwDescFindsACPIOverDTBByDefault(t *testing.T) {
	rsdp := buildRSDPv1Blob()
	r := &fakeConfigTableReader{
		entries: []ConfigTableEntry{
			{Guid: AcpiV1Guid, Table: 0x1000},
		},
		blobs: map[uintptr][]byte{0x1000: rsdp},
	}
	d := HwDesc(r, false)
	if d.Kind != firmware.HwDescAcpi {
		t.Fatalf("expected HwDescAcpi, got %v", d.Kind)
	}
	if d.Base != 0x1000 {
		t.Fatalf("expected base 0x1000, got %#x", d.Base)
	}
}

func TestHwDescPrefersDTBWhenRequested(t *testing.T) {
	dtb := make([]byte, 8)
	dtb[0], dtb[1], dtb[2], dtb[3] = 0xD0, 0x0D, 0xFE, 0xED
	dtb[4], dtb[5], dtb[6], dtb[7] = 0, 0, 0x1, 0x0 // totalsize = 256

	r := &fakeConfigTableReader{
		entries: []ConfigTableEntry{
			{Guid: AcpiV1Guid, Table: 0x1000},
			{Guid: DtbGuid, Table: 0x2000},
		},
		blobs: map[uintptr][]byte{
			0x1000: buildRSDPv1Blob(),
			0x2000: dtb,
		},
	}
	d := HwDesc(r, true)
	if d.Kind != firmware.HwDescDeviceTree {
		t.Fatalf("expected HwDescDeviceTree, got %v", d.Kind)
	}
	if d.Size != 256 {
		t.Fatalf("expected size 256, got %d", d.Size)
	}
}

func TestHwDescFallsBackWhenPreferredKindAbsent(t *testing.T) {
	r := &fakeConfigTableReader{
		entries: []ConfigTableEntry{
			{Guid: AcpiV1Guid, Table: 0x1000},
		},
		blobs: map[uintptr][]byte{0x1000: buildRSDPv1Blob()},
	}
	d := HwDesc(r, true)
	if d.Kind != firmware.HwDescAcpi {
		t.Fatalf("expected fallback to ACPI, got %v", d.Kind)
	}
}

func TestHwDescNotFoundWhenNoEntriesValidate(t *testing.T) {
	r := &fakeConfigTableReader{entries: nil, blobs: map[uintptr][]byte{}}
	d := HwDesc(r, false)
	if d.Kind != firmware.HwDescNotFound {
		t.Fatalf("expected HwDescNotFound, got %v", d.Kind)
	}
}
