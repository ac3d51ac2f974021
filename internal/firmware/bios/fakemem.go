package bios

// FakeLowMemory is a []byte-backed LowMemory used in tests, representing
// the first megabyte of physical address space the BIOS low-memory
// layout (spec.md §4.2) lives in.
type FakeLowMemory struct {
	arena [1 << 20]byte
}

func NewFakeLowMemory() *FakeLowMemory { return &FakeLowMemory{} }

func (m *FakeLowMemory) ReadAt(addr uint32, buf []byte) {
	copy(buf, m.arena[addr:int(addr)+len(buf)])
}

func (m *FakeLowMemory) WriteAt(addr uint32, buf []byte) {
	copy(m.arena[addr:int(addr)+len(buf)], buf)
}
