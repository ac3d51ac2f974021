package elfhdr

import (
	"encoding/binary"
	"testing"

	"github.com/redox-os/bootloader/internal/bootfail"
)

func build64(order binary.ByteOrder, entry uint64) []byte {
	h := make([]byte, 64)
	copy(h[:4], magic[:])
	h[4] = byte(Class64)
	if order == binary.BigEndian {
		h[5] = byte(DataBig)
	} else {
		h[5] = byte(DataLittle)
	}
	order.PutUint64(h[entryOffset:], entry)
	return h
}

func build32(order binary.ByteOrder, entry uint32) []byte {
	h := make([]byte, 52)
	copy(h[:4], magic[:])
	h[4] = byte(Class32)
	if order == binary.BigEndian {
		h[5] = byte(DataBig)
	} else {
		h[5] = byte(DataLittle)
	}
	order.PutUint32(h[entryOffset:], entry)
	return h
}

func TestEntryPoint64LittleEndian(t *testing.T) {
	h := build64(binary.LittleEndian, 0xFFFF_FFFF_8000_1000)
	entry, err := EntryPoint(h)
	if err != nil {
		t.Fatalf("EntryPoint: %v", err)
	}
	if entry != 0xFFFF_FFFF_8000_1000 {
		t.Fatalf("got 0x%x", entry)
	}
}

func TestEntryPoint32BigEndian(t *testing.T) {
	h := build32(binary.BigEndian, 0x0010_0000)
	entry, err := EntryPoint(h)
	if err != nil {
		t.Fatalf("EntryPoint: %v", err)
	}
	if entry != 0x0010_0000 {
		t.Fatalf("got 0x%x", entry)
	}
}

func TestEntryPointRejectsBadMagic(t *testing.T) {
	h := build64(binary.LittleEndian, 0x1000)
	h[0] = 0x00
	if _, err := EntryPoint(h); !bootfail.Is(err, bootfail.CorruptImage) {
		t.Fatalf("expected CorruptImage, got %v", err)
	}
}

func TestEntryPointRejectsUnknownClass(t *testing.T) {
	h := build64(binary.LittleEndian, 0x1000)
	h[4] = 9
	if _, err := EntryPoint(h); !bootfail.Is(err, bootfail.UnsupportedConfig) {
		t.Fatalf("expected UnsupportedConfig, got %v", err)
	}
}

func TestEntryPointRejectsTruncatedHeader(t *testing.T) {
	h := build64(binary.LittleEndian, 0x1000)[:16]
	if _, err := EntryPoint(h); !bootfail.Is(err, bootfail.CorruptImage) {
		t.Fatalf("expected CorruptImage for truncated header, got %v", err)
	}
}
