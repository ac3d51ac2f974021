//go:build riscv64

// riscv64 Sv48, 4-level paging builder (spec.md §4.4).
package paging

const (
	pteCountRV64 = 512
	pteSizeRV64  = 8

	pteV = 1 << 0
	pteR = 1 << 1
	pteW = 1 << 2
	pteX = 1 << 3
	pteRWX = pteR | pteW | pteX

	rootIdentityLow  = 0
	rootIdentityHigh = 256
	rootKernel       = 510

	physOffsetRV64     = 0xFFFF_8000_0000_0000
	kernelVirtBaseRV64  = 0xFFFF_FF00_0000_0000

	identityGibCountRV64 = 8

	// SATP MODE field for Sv48 (spec.md §4.4, §8 scenario 4).
	satpModeSv48 = uint64(9) << 60
)

// ppnEncode packs a page-aligned physical address into PTE bits[53:10],
// i.e. phys>>2 when phys's low 12 bits are zero (spec.md §4.4: "entries
// encode addr >> 2 | RWX | VALID").
func ppnEncode(phys uint64) uint64 { return phys >> 2 }

func ppnDecode(entry uint64) uint64 { return (entry &^ 0x3FF) << 2 }

// Riscv64Builder implements Builder for riscv64 Sv48.
type Riscv64Builder struct {
	mem   Memory
	alloc Allocator
}

func NewRiscv64Builder(mem Memory, alloc Allocator) *Riscv64Builder {
	return &Riscv64Builder{mem: mem, alloc: alloc}
}

func (b *Riscv64Builder) PhysOffset() uint64     { return physOffsetRV64 }
func (b *Riscv64Builder) KernelVirtBase() uint64 { return kernelVirtBaseRV64 }

func (b *Riscv64Builder) allocTable() (uint64, error) {
	phys, err := b.alloc.AllocPage()
	if err != nil {
		return 0, wrapAlloc(err)
	}
	return phys, nil
}

// Create builds a root table whose entries 0 and 256 share one L1 table
// of 1 GiB leaf entries covering IdentityBytes, and entry 510 links an
// L1->L2->L3 chain mapping the kernel image to 4 KiB leaves.
func (b *Riscv64Builder) Create(kernelPhys, kernelSize uint64) (uint64, error) {
	root, err := b.allocTable()
	if err != nil {
		return 0, err
	}

	l1Identity, err := b.buildIdentityL1()
	if err != nil {
		return 0, err
	}
	b.mem.Write64(root+rootIdentityLow*pteSizeRV64, ppnEncode(l1Identity)|pteV)
	b.mem.Write64(root+rootIdentityHigh*pteSizeRV64, ppnEncode(l1Identity)|pteV)

	l1Kernel, err := b.buildKernelL1(kernelPhys, kernelSize)
	if err != nil {
		return 0, err
	}
	b.mem.Write64(root+rootKernel*pteSizeRV64, ppnEncode(l1Kernel)|pteV)

	return root, nil
}

func (b *Riscv64Builder) buildIdentityL1() (uint64, error) {
	l1, err := b.allocTable()
	if err != nil {
		return 0, err
	}
	for g := 0; g < identityGibCountRV64; g++ {
		phys := uint64(g) * gib
		b.mem.Write64(l1+uint64(g)*pteSizeRV64, ppnEncode(phys)|pteV|pteRWX)
	}
	return l1, nil
}

func (b *Riscv64Builder) buildKernelL1(kernelPhys, kernelSize uint64) (uint64, error) {
	l1, err := b.allocTable()
	if err != nil {
		return 0, err
	}
	l2, err := b.allocTable()
	if err != nil {
		return 0, err
	}
	b.mem.Write64(l1, ppnEncode(l2)|pteV)

	size := RoundUpPage(kernelSize)
	npages := size / PageSize

	var l3 uint64
	for i := uint64(0); i < npages; i++ {
		l2Index := i / pteCountRV64
		l3Index := i % pteCountRV64
		if l3Index == 0 {
			var err error
			l3, err = b.allocTable()
			if err != nil {
				return 0, err
			}
			b.mem.Write64(l2+l2Index*pteSizeRV64, ppnEncode(l3)|pteV)
		}
		phys := kernelPhys + i*PageSize
		b.mem.Write64(l3+l3Index*pteSizeRV64, ppnEncode(phys)|pteV|pteRWX)
	}
	return l1, nil
}

// Framebuffer extends root's kernel L1 slot with 4 KiB-leaf L2->L3
// chains when phys is above the identity ceiling, or is a no-op
// returning phys+PhysOffset otherwise (spec.md §4.4, §8).
func (b *Riscv64Builder) Framebuffer(root uint64, phys, size uint64) (uint64, error) {
	if phys+size <= IdentityBytes {
		return physOffsetRV64 + phys, nil
	}

	rootE := b.mem.Read64(root + rootKernel*pteSizeRV64)
	l1 := ppnDecode(rootE)

	size = RoundUpPage(size)
	npages := size / PageSize

	l1Index := (phys / gib) % pteCountRV64
	l1e := b.mem.Read64(l1 + l1Index*pteSizeRV64)
	l2 := ppnDecode(l1e)
	if l2 == 0 {
		var err error
		l2, err = b.allocTable()
		if err != nil {
			return 0, err
		}
		b.mem.Write64(l1+l1Index*pteSizeRV64, ppnEncode(l2)|pteV)
	}

	globalBase := phys / PageSize
	var l3 uint64
	var lastL2Index uint64 = ^uint64(0)
	for i := uint64(0); i < npages; i++ {
		global := globalBase + i
		l2Index := (global / pteCountRV64) % pteCountRV64
		l3Index := global % pteCountRV64
		if l2Index != lastL2Index {
			l2e := b.mem.Read64(l2 + l2Index*pteSizeRV64)
			l3 = ppnDecode(l2e)
			if l3 == 0 {
				var err error
				l3, err = b.allocTable()
				if err != nil {
					return 0, err
				}
				b.mem.Write64(l2+l2Index*pteSizeRV64, ppnEncode(l3)|pteV)
			}
			lastL2Index = l2Index
		}
		p := phys + i*PageSize
		b.mem.Write64(l3+l3Index*pteSizeRV64, ppnEncode(p)|pteV|pteRWX)
	}

	offsetInGib := phys % gib
	return kernelVirtBaseRV64 + l1Index*gib + offsetInGib, nil
}

// Satp builds the SATP register value for root: mode field 9 (Sv48) in
// bits 63:60, PPN in bits 43:0 (spec.md §4.4, §8 scenario 4).
func Satp(root uint64) uint64 {
	return satpModeSv48 | (root >> 12)
}
