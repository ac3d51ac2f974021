package uefi

import "github.com/redox-os/bootloader/internal/areatable"

// EFI_MEMORY_TYPE values the classifier cares about (UEFI spec §7.2).
const (
	efiReservedMemoryType = 0
	efiLoaderCode         = 1
	efiLoaderData         = 2
	efiBootServicesCode   = 3
	efiBootServicesData   = 4
	efiRuntimeServicesCode = 5
	efiRuntimeServicesData = 6
	efiConventionalMemory = 7
	efiUnusableMemory     = 8
	efiACPIReclaimMemory  = 9
	efiACPIMemoryNVS      = 10
	efiMemoryMappedIO     = 11
	efiMemoryMappedIOPortSpace = 12
	efiPalCode            = 13
)

// efiMemoryRuntime is EFI_MEMORY_RUNTIME, bit 63 of a descriptor's
// Attribute field: the descriptor must be mapped by SetVirtualAddressMap
// (spec.md §6's SUPPLEMENTED FEATURES note).
const efiMemoryRuntime = uint64(1) << 63

// Descriptor mirrors EFI_MEMORY_DESCRIPTOR's fields relevant to
// classification and the runtime filter.
type Descriptor struct {
	Type          uint32
	PhysicalStart uint64
	VirtualStart  uint64
	NumberOfPages uint64
	Attribute     uint64
}

func (d Descriptor) sizeBytes() uint64 { return d.NumberOfPages * 4096 }

// MemoryMapProvider is the seam over GetMemoryMap: the real
// implementation calls EFI_BOOT_SERVICES.GetMemoryMap and walks the
// returned buffer at DescriptorSize strides; tests supply a literal
// descriptor slice.
type MemoryMapProvider interface {
	GetMemoryMap() (descriptors []Descriptor, mapKey uint64, err error)
}

// MemMap folds a UEFI memory map into an areatable.Table and separately
// reports the subset that must be included in the SetVirtualAddressMap
// call.
type MemMap struct {
	provider MemoryMapProvider

	// lastDescs/lastMapKey cache the raw descriptors and map key from
	// the most recent Collect call: ExitBootServices and
	// SetVirtualAddressMap must both use the map key and descriptor set
	// from the same GetMemoryMap invocation (any intervening allocation
	// invalidates the map key), so OS captures these once at NewOS time
	// rather than calling GetMemoryMap again later.
	lastDescs  []Descriptor
	lastMapKey uint64
}

func NewMemMap(provider MemoryMapProvider) *MemMap { return &MemMap{provider: provider} }

// Collect returns the classified AreaTable and the firmware's map key
// (required by ExitBootServices). It also caches the raw descriptors and
// map key for LastDescriptors/LastMapKey.
func (m *MemMap) Collect() (*areatable.Table, uint64, error) {
	descs, mapKey, err := m.provider.GetMemoryMap()
	if err != nil {
		return nil, 0, err
	}
	table := areatable.New(areatable.DefaultCapacity)
	for _, d := range descs {
		if d.sizeBytes() == 0 {
			continue
		}
		if err := table.Append(areatable.Entry{
			Base: d.PhysicalStart,
			Size: d.sizeBytes(),
			Kind: classify(d.Type),
		}); err != nil {
			return nil, 0, err
		}
	}
	m.lastDescs = descs
	m.lastMapKey = mapKey
	return table, mapKey, nil
}

// LastDescriptors returns the raw descriptor slice from the most recent
// Collect call, for RuntimeRegions filtering ahead of SetVirtualAddressMap.
func (m *MemMap) LastDescriptors() []Descriptor { return m.lastDescs }

// LastMapKey returns the map key from the most recent Collect call, for
// ExitBootServices.
func (m *MemMap) LastMapKey() uint64 { return m.lastMapKey }

// RuntimeRegions filters descs down to only the EFI_MEMORY_RUNTIME
// entries (spec.md §6: "only regions with the EFI_MEMORY_RUNTIME
// attribute bit set are included in the virtual map passed to
// firmware, not the whole map").
func RuntimeRegions(descs []Descriptor) []Descriptor {
	var out []Descriptor
	for _, d := range descs {
		if d.Attribute&efiMemoryRuntime != 0 {
			out = append(out, d)
		}
	}
	return out
}

func classify(t uint32) areatable.Kind {
	switch t {
	case efiConventionalMemory, efiLoaderCode, efiLoaderData, efiBootServicesCode, efiBootServicesData:
		return areatable.Free
	case efiACPIReclaimMemory:
		return areatable.Reclaim
	default:
		return areatable.Reserved
	}
}
