package bios

import "github.com/redox-os/bootloader/internal/areatable"

// oneMiB is the address the bootloader heap must contain (spec.md §4.2:
// "the largest Free entry that contains the address 1 MiB").
const oneMiB = 1 << 20

// SelectHeap picks the bootloader's own allocation arena out of the
// firmware memory map: the largest Free region that spans 1 MiB, so the
// heap sits above the BIOS low-memory structures and the loaded stage-2
// image but below anything else usable.
func SelectHeap(table *areatable.Table) (base, size uint64, ok bool) {
	var bestSize uint64
	for _, e := range table.Entries() {
		if e.Kind != areatable.Free {
			continue
		}
		if e.Base > oneMiB || e.Base+e.Size <= oneMiB {
			continue
		}
		if e.Size > bestSize {
			base, bestSize, ok = e.Base, e.Size, true
		}
	}
	return base, bestSize, ok
}
