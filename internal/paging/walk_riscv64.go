//go:build riscv64

package paging

// WalkRiscv64 resolves a virtual address through root for use in tests
// (see WalkAmd64's doc comment).
func (b *Riscv64Builder) WalkRiscv64(root uint64, virt uint64) (phys uint64, ok bool) {
	rootIndex := (virt >> 39) & 0x1FF
	rootE := b.mem.Read64(root + rootIndex*pteSizeRV64)
	if rootE&pteV == 0 {
		return 0, false
	}
	l1 := ppnDecode(rootE)

	l1Index := (virt >> 30) & 0x1FF
	l1e := b.mem.Read64(l1 + l1Index*pteSizeRV64)
	if l1e&pteV == 0 {
		return 0, false
	}
	if l1e&pteRWX != 0 {
		base := ppnDecode(l1e)
		return base + (virt & (gib - 1)), true
	}
	l2 := ppnDecode(l1e)

	l2Index := (virt >> 21) & 0x1FF
	l2e := b.mem.Read64(l2 + l2Index*pteSizeRV64)
	if l2e&pteV == 0 {
		return 0, false
	}
	if l2e&pteRWX != 0 {
		base := ppnDecode(l2e)
		return base + (virt & (2*mib - 1)), true
	}
	l3 := ppnDecode(l2e)

	l3Index := (virt >> 12) & 0x1FF
	l3e := b.mem.Read64(l3 + l3Index*pteSizeRV64)
	if l3e&pteV == 0 {
		return 0, false
	}
	base := ppnDecode(l3e)
	return base + (virt & (PageSize - 1)), true
}
