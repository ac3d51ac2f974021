// Package archsetup wires firmware.OS and paging.Builder together: the
// physical-memory view and bump allocator both adapters share, plus one
// build-tagged file per architecture selecting the concrete paging
// builder. cmd/bootloader-bios and cmd/bootloader-uefi both import this
// instead of duplicating the wiring.
package archsetup

import (
	"unsafe"

	"github.com/redox-os/bootloader/internal/firmware"
)

// PhysMemory implements both paging.Memory and boot.Memory directly over
// physical addresses: pre-paging, physical and virtual addresses
// coincide (spec.md §4.4).
type PhysMemory struct{}

func (PhysMemory) Read64(phys uint64) uint64 {
	return *(*uint64)(unsafe.Pointer(uintptr(phys)))
}

func (PhysMemory) Write64(phys uint64, v uint64) {
	*(*uint64)(unsafe.Pointer(uintptr(phys))) = v
}

func (PhysMemory) Zero(phys uint64, size uint64) {
	b := unsafe.Slice((*byte)(unsafe.Pointer(uintptr(phys))), size)
	for i := range b {
		b[i] = 0
	}
}

func (PhysMemory) Write(phys uint64, data []byte) {
	b := unsafe.Slice((*byte)(unsafe.Pointer(uintptr(phys))), len(data))
	copy(b, data)
}

// PageAllocator adapts firmware.OS.AllocZeroedPageAligned to
// paging.Allocator's single-page contract.
type PageAllocator struct {
	OS firmware.OS
}

func (a PageAllocator) AllocPage() (uint64, error) {
	return a.OS.AllocZeroedPageAligned(firmware.PageSize), nil
}
