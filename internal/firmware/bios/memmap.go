package bios

import (
	"encoding/binary"

	"github.com/redox-os/bootloader/internal/areatable"
	"github.com/redox-os/bootloader/internal/bootfail"
)

// e820EntrySize is the on-the-wire size of a single E820 entry as the
// BIOS writes it (spec.md §4.2): base(8) + length(8) + type(4), ignoring
// the optional ACPI 3.0 extended attributes word some BIOSes append.
const e820EntrySize = 20

// e820 region types (spec.md §4.2).
const (
	e820TypeUsable   = 1
	e820TypeReserved = 2
	e820TypeACPI     = 3
	e820TypeNVS      = 4
	e820TypeBad      = 5
)

// MemMap repeatedly issues INT 15h, EAX=E820h until the continuation
// value wraps to zero, staging each entry through the fixed low-memory
// buffer and folding it into an areatable.Table.
type MemMap struct {
	caller Int13hCaller
	lowMem LowMemory
}

// NewMemMap binds a MemMap to the low-memory staging buffer and caller.
func NewMemMap(caller Int13hCaller, lowMem LowMemory) *MemMap {
	return &MemMap{caller: caller, lowMem: lowMem}
}

// Collect walks the E820 list and returns it as an areatable.Table
// (spec.md §4.3's AreaTable, populated from the firmware-specific memory
// map format).
func (m *MemMap) Collect() (*areatable.Table, error) {
	table := areatable.New(areatable.DefaultCapacity)

	const magic = 0x534D4150 // "SMAP"
	var continuation uint32
	for i := 0; ; i++ {
		in := RegisterFrame{
			EAX: 0xE820,
			EDX: magic,
			ECX: e820EntrySize,
			EDI: uint32(MemoryMapAddr),
			EBX: continuation,
		}
		out, carry := m.caller.Call(in)
		if carry && i == 0 {
			return nil, bootfail.New(bootfail.FirmwareCall, "bios memmap: E820 unsupported", nil)
		}
		if carry {
			break
		}
		if out.EAX != magic {
			return nil, bootfail.New(bootfail.FirmwareCall, "bios memmap: E820 signature mismatch", nil)
		}

		var buf [e820EntrySize]byte
		m.lowMem.ReadAt(MemoryMapAddr, buf[:])
		base := binary.LittleEndian.Uint64(buf[0:])
		length := binary.LittleEndian.Uint64(buf[8:])
		kind := binary.LittleEndian.Uint32(buf[16:])

		if length > 0 {
			if err := table.Append(areatable.Entry{
				Base: base,
				Size: length,
				Kind: e820KindToAreaKind(kind),
			}); err != nil {
				return nil, err
			}
		}

		continuation = out.EBX
		if continuation == 0 {
			break
		}
	}
	return table, nil
}

// e820KindToAreaKind folds the firmware's five-way E820 taxonomy down to
// areatable's three live kinds: only type 1 ("usable") becomes Free, and
// reclaimable ACPI tables are tracked as Reclaim so the kernel can take
// them back after parsing; anything else (reserved, NVS, or bad) is
// Reserved.
func e820KindToAreaKind(t uint32) areatable.Kind {
	switch t {
	case e820TypeUsable:
		return areatable.Free
	case e820TypeACPI:
		return areatable.Reclaim
	default:
		return areatable.Reserved
	}
}
