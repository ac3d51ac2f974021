package bios

import (
	"encoding/binary"
	"testing"

	"github.com/redox-os/bootloader/internal/areatable"
)

type e820Entry struct {
	base, length uint64
	kind         uint32
}

type scriptedE820Caller struct {
	entries []e820Entry
	idx     int
	lowMem  LowMemory
}

func (c *scriptedE820Caller) Call(in RegisterFrame) (RegisterFrame, bool) {
	if c.idx >= len(c.entries) {
		return RegisterFrame{}, true
	}
	e := c.entries[c.idx]
	var buf [e820EntrySize]byte
	binary.LittleEndian.PutUint64(buf[0:], e.base)
	binary.LittleEndian.PutUint64(buf[8:], e.length)
	binary.LittleEndian.PutUint32(buf[16:], e.kind)
	c.lowMem.WriteAt(MemoryMapAddr, buf[:])
	c.idx++

	continuation := uint32(c.idx)
	if c.idx >= len(c.entries) {
		continuation = 0
	}
	return RegisterFrame{EAX: 0x534D4150, EBX: continuation}, false
}

func TestMemMapCollectFoldsE820IntoAreaTable(t *testing.T) {
	mem := NewFakeLowMemory()
	caller := &scriptedE820Caller{
		entries: []e820Entry{
			{base: 0, length: 0x9000, kind: e820TypeUsable},
			{base: 0x9000, length: 0x1000, kind: e820TypeReserved},
			{base: 0x100000, length: 0x1000000, kind: e820TypeUsable},
		},
		lowMem: mem,
	}
	m := NewMemMap(caller, mem)

	table, err := m.Collect()
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if table.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", table.Len())
	}
	entries := table.Entries()
	if entries[0].Kind != areatable.Free || entries[0].Size != 0x9000 {
		t.Fatalf("entry 0 mismatch: %+v", entries[0])
	}
	if entries[1].Kind != areatable.Reserved {
		t.Fatalf("entry 1 mismatch: %+v", entries[1])
	}
}

func TestMemMapCollectFailsOnUnsupportedE820(t *testing.T) {
	mem := NewFakeLowMemory()
	caller := &scriptedE820Caller{entries: nil, lowMem: mem}
	m := NewMemMap(caller, mem)

	if _, err := m.Collect(); err == nil {
		t.Fatalf("expected error when E820 fails on the first call")
	}
}
