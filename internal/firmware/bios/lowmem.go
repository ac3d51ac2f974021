package bios

import "unsafe"

// RealLowMemory implements LowMemory over the live low-memory region
// directly: like the bootloader heap, it sits below paging so physical
// and virtual addresses coincide (spec.md §4.2).
type RealLowMemory struct{}

func (RealLowMemory) ReadAt(addr uint32, buf []byte) {
	copy(buf, unsafe.Slice((*byte)(unsafe.Pointer(uintptr(addr))), len(buf)))
}

func (RealLowMemory) WriteAt(addr uint32, buf []byte) {
	copy(unsafe.Slice((*byte)(unsafe.Pointer(uintptr(addr))), len(buf)), buf)
}
