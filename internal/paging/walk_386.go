//go:build 386

package paging

// Walk386 resolves a virtual address through a page directory built by
// X86Builder.Create, for use in tests (see WalkAmd64's doc comment for
// why this exists).
func (b *X86Builder) Walk386(pd uint64, virt uint32) (phys uint32, ok bool) {
	index := pdIndex386(virt)
	entry := b.read32(pd + index*8)
	if entry&flagPresent386 == 0 {
		return 0, false
	}
	if entry&flagPageSize386 != 0 {
		base := entry &^ (fourMiB - 1)
		return base + (virt % fourMiB), true
	}
	pt := uint64(entry &^ 0xFFF)
	ptIndex := uint64(virt%fourMiB) / PageSize
	pte := b.read32(pt + ptIndex*8)
	if pte&flagPresent386 == 0 {
		return 0, false
	}
	base := pte &^ 0xFFF
	return base + uint32(virt)%PageSize, true
}
