// Package hwdesc implements the hardware-descriptor validation shared by
// both firmware adapters (spec.md §4.3, §4.5): ACPI RSDP signature and
// checksum verification, and Device Tree Blob size/ranges parsing. The
// scanning strategy itself (BIOS EBDA/E-segment walk vs. UEFI config
// table lookup) is adapter-specific; this package only validates a
// candidate blob once a scanner has found one.
package hwdesc

import "bytes"

// rsdpSignature is the fixed 8-byte ACPI RSDP signature (spec.md §4.3).
var rsdpSignature = []byte("RSD PTR ")

// RsdpV1Size is the size of the ACPI 1.0 RSDP structure.
const RsdpV1Size = 20

// ValidateRSDP checks the signature, the first-20-byte checksum, and
// (for revision 2+) the extended checksum over the full structure.
// length reports how many bytes of blob belong to the RSDP: 20 for
// revision 0/1, or the structure's own Length field for revision ≥2.
func ValidateRSDP(blob []byte) (length int, ok bool) {
	if len(blob) < RsdpV1Size || !bytes.Equal(blob[:8], rsdpSignature) {
		return 0, false
	}
	if !checksumZero(blob[:RsdpV1Size]) {
		return 0, false
	}

	revision := blob[15]
	if revision < 2 {
		return RsdpV1Size, true
	}

	if len(blob) < 36 {
		return 0, false
	}
	extLength := int(leUint32(blob[20:24]))
	if extLength < RsdpV1Size || len(blob) < extLength {
		return 0, false
	}
	if !checksumZero(blob[:extLength]) {
		return 0, false
	}
	return extLength, true
}

func checksumZero(b []byte) bool {
	var sum byte
	for _, c := range b {
		sum += c
	}
	return sum == 0
}

func leUint32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}
