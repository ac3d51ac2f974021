// Package elfhdr decodes only the ELF magic and entry point (spec.md
// §1's in-scope slice of "ELF parsing": "reading the 64-bit/32-bit entry
// point and magic check"). Section/program header parsing, relocation,
// and symbol tables belong to the kernel's own loader and are out of
// scope here.
package elfhdr

import (
	"encoding/binary"

	"github.com/redox-os/bootloader/internal/bootfail"
)

// magic is the 4-byte ELF identification prefix (spec.md §4.5 step 7).
var magic = [4]byte{0x7F, 'E', 'L', 'F'}

// Class is EI_CLASS: 32- or 64-bit.
type Class uint8

const (
	Class32 Class = 1
	Class64 Class = 2
)

// Data is EI_DATA: the byte order of the rest of the header.
type Data uint8

const (
	DataLittle Data = 1
	DataBig    Data = 2
)

// entryOffset is the fixed byte offset of e_entry in both the 32-bit and
// 64-bit ELF header layouts (spec.md §4.5: "decode entry point from
// offset 0x18").
const entryOffset = 0x18

// EntryPoint validates the ELF magic and decodes the entry point from a
// raw header buffer (must contain at least the first 28 bytes, enough
// for the 32-bit e_entry field; 64-bit headers need the first 32 bytes).
func EntryPoint(header []byte) (entry uint64, err error) {
	if len(header) < 20 || header[0] != magic[0] || header[1] != magic[1] || header[2] != magic[2] || header[3] != magic[3] {
		return 0, bootfail.New(bootfail.CorruptImage, "kernel image missing ELF magic", nil)
	}

	class := Class(header[4])
	data := Data(header[5])

	var order binary.ByteOrder
	switch data {
	case DataLittle:
		order = binary.LittleEndian
	case DataBig:
		order = binary.BigEndian
	default:
		return 0, bootfail.New(bootfail.UnsupportedConfig, "kernel image has unknown ELF data encoding", nil)
	}

	switch class {
	case Class32:
		if len(header) < entryOffset+4 {
			return 0, bootfail.New(bootfail.CorruptImage, "kernel image header truncated before e_entry", nil)
		}
		return uint64(order.Uint32(header[entryOffset:])), nil
	case Class64:
		if len(header) < entryOffset+8 {
			return 0, bootfail.New(bootfail.CorruptImage, "kernel image header truncated before e_entry", nil)
		}
		return order.Uint64(header[entryOffset:]), nil
	default:
		return 0, bootfail.New(bootfail.UnsupportedConfig, "kernel image has unknown ELF class", nil)
	}
}
