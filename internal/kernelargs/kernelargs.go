// Package kernelargs defines the handoff record passed to the kernel at
// the very end of boot (spec.md §3, §6). The record is conceptually
// repr(C, packed(8)); Go has no packed-struct attribute, so the wire
// encoding is produced explicitly with encoding/binary rather than relied
// upon from struct layout, the same way the teacher hand-packs
// hardware-facing records for virtio and PCI instead of trusting Go's
// struct layout (see virtio_gpu.go / pci_qemu.go in the retrieved pack).
package kernelargs

import "encoding/binary"

// FieldCount is the number of uint64 fields in the wire record.
const FieldCount = 12

// Size is the encoded size of Args in bytes.
const Size = FieldCount * 8

// Args is the physical-address handoff record. Field order is the wire
// order: changing it changes the ABI the kernel expects.
type Args struct {
	KernelBase uint64
	KernelSize uint64

	StackBase uint64
	StackSize uint64

	EnvBase uint64
	EnvSize uint64

	// AcpiRsdpBase/AcpiRsdpSize stage whichever hardware descriptor the
	// firmware adapter found: an ACPI RSDP blob or a flattened device
	// tree share this one field pair (spec.md §3, §4.6's single
	// "hardware descriptor" slot), never both at once.
	AcpiRsdpBase uint64
	AcpiRsdpSize uint64

	AreasBase uint64
	AreasSize uint64

	BootstrapBase uint64
	BootstrapSize uint64
}

// Validate checks the invariants from spec.md §3: every field is a valid
// physical address pairing, kernel_size is nonzero, and areas_size is a
// multiple of the area entry size (passed in by the caller, which owns the
// AreaTable entry layout).
func (a *Args) Validate(areaEntrySize uint64) error {
	if a.KernelSize == 0 {
		return errKernelSizeZero
	}
	if areaEntrySize != 0 && a.AreasSize%areaEntrySize != 0 {
		return errAreasSizeMisaligned
	}
	return nil
}

// Encode writes the packed wire representation of a into buf, which must
// be at least Size bytes. It returns the number of bytes written.
func (a *Args) Encode(buf []byte) int {
	if len(buf) < Size {
		panic("kernelargs: buffer too small")
	}
	fields := [FieldCount]uint64{
		a.KernelBase, a.KernelSize,
		a.StackBase, a.StackSize,
		a.EnvBase, a.EnvSize,
		a.AcpiRsdpBase, a.AcpiRsdpSize,
		a.AreasBase, a.AreasSize,
		a.BootstrapBase, a.BootstrapSize,
	}
	for i, v := range fields {
		binary.LittleEndian.PutUint64(buf[i*8:], v)
	}
	return Size
}

// Decode is the inverse of Encode; used by tests to round-trip the wire
// format without a live kernel.
func Decode(buf []byte) Args {
	if len(buf) < Size {
		panic("kernelargs: buffer too small")
	}
	get := func(i int) uint64 { return binary.LittleEndian.Uint64(buf[i*8:]) }
	return Args{
		KernelBase: get(0), KernelSize: get(1),
		StackBase: get(2), StackSize: get(3),
		EnvBase: get(4), EnvSize: get(5),
		AcpiRsdpBase: get(6), AcpiRsdpSize: get(7),
		AreasBase: get(8), AreasSize: get(9),
		BootstrapBase: get(10), BootstrapSize: get(11),
	}
}
