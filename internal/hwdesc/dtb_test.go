package hwdesc

import (
	"encoding/binary"
	"testing"
)

func TestDTBSizeReadsTotalsize(t *testing.T) {
	var hdr [16]byte
	binary.BigEndian.PutUint32(hdr[0:], dtbMagic)
	binary.BigEndian.PutUint32(hdr[4:], 0x1234)

	size, ok := DTBSize(hdr[:])
	if !ok || size != 0x1234 {
		t.Fatalf("DTBSize: size=%d ok=%v", size, ok)
	}
}

func TestDTBSizeRejectsBadMagic(t *testing.T) {
	var hdr [16]byte
	if _, ok := DTBSize(hdr[:]); ok {
		t.Fatalf("expected rejection of zeroed header")
	}
}

func buildRangesCell(entries []SocRange) []byte {
	var out []byte
	for _, e := range entries {
		var entry [24]byte
		binary.BigEndian.PutUint32(entry[8:], uint32(e.Base>>32))
		binary.BigEndian.PutUint32(entry[12:], uint32(e.Base))
		binary.BigEndian.PutUint32(entry[16:], uint32(e.Size>>32))
		binary.BigEndian.PutUint32(entry[20:], uint32(e.Size))
		out = append(out, entry[:]...)
	}
	return out
}

func TestParseSocRangesAndDeviceRangeFunc(t *testing.T) {
	want := []SocRange{
		{Base: 0x0900_0000, Size: 0x1000},
		{Base: 0x1000_0000, Size: 0x2000_0000},
	}
	cells := buildRangesCell(want)
	got := ParseSocRanges(cells)
	if len(got) != len(want) {
		t.Fatalf("got %d ranges, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("range %d: got %+v want %+v", i, got[i], want[i])
		}
	}

	isDevice := DeviceRangeFunc(got)
	if !isDevice(0x0900_0010) {
		t.Fatalf("expected 0x09000010 to be a device address")
	}
	if isDevice(0x4000_0000) {
		t.Fatalf("expected RAM address to not be classified as device")
	}
}

func TestParseSocRangesSkipsZeroSizeEntries(t *testing.T) {
	cells := buildRangesCell([]SocRange{{Base: 0x1000, Size: 0}})
	if got := ParseSocRanges(cells); len(got) != 0 {
		t.Fatalf("expected zero-size entries to be dropped, got %v", got)
	}
}
