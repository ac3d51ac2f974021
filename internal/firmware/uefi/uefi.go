// Package uefi implements the UEFI firmware adapter (spec.md §4.3):
// disk priority via device-path walk, GOP video enumeration with
// framebuffer-base dedup, EDID-Active probing, and ACPI/DTB config-table
// lookup. It is modeled with raw struct overlays over firmware tables,
// the same idiom the teacher uses for virtio and PCI config space
// (virtio_gpu.go, pci_qemu.go): there is no hosted-OS UEFI application
// library in the retrieved pack suited to an in-process boot-services
// binding, so the raw-table walk itself is necessarily built on
// unsafe/fixed-offset field access rather than a third-party library.
//
// Every algorithm that sits on top of the raw table walk (disk priority
// ordering, GOP dedup, memory-map classification and the runtime-region
// filter) is expressed against small interfaces so it can be tested on a
// host CPU without any firmware present, the same seam BiosDisk/BiosMemMap
// use over Int13hCaller/LowMemory.
package uefi

// Guid is EFI_GUID's 16-byte wire layout.
type Guid [16]byte

// Well-known configuration-table GUIDs (spec.md §4.3).
var (
	AcpiV1Guid = Guid{0xeb, 0x9d, 0x2d, 0x30, 0x2d, 0x88, 0x11, 0xd3, 0x9a, 0x16, 0x0, 0x90, 0x27, 0x3f, 0xc1, 0x4d}
	AcpiV2Guid = Guid{0x8e, 0xdc, 0xd, 0x30, 0xaf, 0x3, 0x5d, 0xa9, 0xbf, 0x9, 0x6, 0xaf, 0xc8, 0xe8, 0xee, 0x81}
	DtbGuid    = Guid{0xb1, 0xb6, 0x21, 0xd5, 0xf1, 0x9c, 0x41, 0xa5, 0x83, 0xa, 0xf7, 0x5f, 0x59, 0xd1, 0xb7, 0x23}
)

// ConfigTableEntry is one EFI_CONFIGURATION_TABLE entry.
type ConfigTableEntry struct {
	Guid  Guid
	Table uintptr
}
