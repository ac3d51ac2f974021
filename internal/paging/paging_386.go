//go:build 386

// x86 (PAE-less, 32-bit) paging builder (spec.md §4.4).
package paging

const (
	pdEntries386  = 1024
	pteSize386    = 4
	fourMiB       = 4 << 20
	identityGib   = 1 << 30
	physOffset386 = 0x8000_0000
	kernelVirt386 = 0xC000_0000
	fbVirt386     = 0xD000_0000

	flagPresent386  = 1 << 0
	flagWritable386 = 1 << 1
	flagPageSize386 = 1 << 7 // PSE 4 MiB leaf
)

func pdIndex386(virt uint32) uint64 { return uint64(virt / fourMiB) }

// X86Builder implements Builder for plain (non-PAE) x86.
type X86Builder struct {
	mem   Memory
	alloc Allocator
}

func NewX86Builder(mem Memory, alloc Allocator) *X86Builder {
	return &X86Builder{mem: mem, alloc: alloc}
}

func (b *X86Builder) PhysOffset() uint64     { return physOffset386 }
func (b *X86Builder) KernelVirtBase() uint64 { return kernelVirt386 }

func (b *X86Builder) allocTable() (uint64, error) {
	phys, err := b.alloc.AllocPage()
	if err != nil {
		return 0, wrapAlloc(err)
	}
	return phys, nil
}

func (b *X86Builder) write32(phys uint64, v uint32) {
	// Memory.Write64 always writes 8 bytes; a 32-bit entry occupies the
	// low 4 bytes of its own dedicated 8-byte slot so both builders can
	// share one Memory interface without the x86 builder double-packing
	// two 32-bit entries per Read64/Write64 call.
	b.mem.Write64(phys, uint64(v))
}

func (b *X86Builder) read32(phys uint64) uint32 {
	return uint32(b.mem.Read64(phys))
}

// Create installs a single page directory: the first 256 entries (1 GiB
// / 4 MiB) identity-map low physical memory with 4 MiB PSE pages,
// mirrored starting at the PHYS_OFFSET386 index; the kernel is mapped
// starting at pdIndex386(kernelVirt386) through 4 KiB page tables sized
// to kernelSize.
func (b *X86Builder) Create(kernelPhys, kernelSize uint64) (uint64, error) {
	pd, err := b.allocTable()
	if err != nil {
		return 0, err
	}

	identityEntries := uint64(identityGib / fourMiB)
	mirrorBase := pdIndex386(physOffset386)
	for i := uint64(0); i < identityEntries; i++ {
		phys := uint32(i * fourMiB)
		entry := phys | flagPresent386 | flagWritable386 | flagPageSize386
		b.write32(pd+i*8, entry)
		b.write32(pd+(mirrorBase+i)*8, entry)
	}

	if err := b.mapKernel(pd, kernelPhys, kernelSize); err != nil {
		return 0, err
	}
	return pd, nil
}

func (b *X86Builder) mapKernel(pd uint64, kernelPhys, kernelSize uint64) error {
	size := RoundUpPage(kernelSize)
	npages := size / PageSize
	baseIndex := pdIndex386(kernelVirt386)

	var pt uint64
	const ptesPerTable = 1024
	for i := uint64(0); i < npages; i++ {
		pdOffset := i / ptesPerTable
		ptIndex := i % ptesPerTable
		if ptIndex == 0 {
			var err error
			pt, err = b.allocTable()
			if err != nil {
				return err
			}
			b.write32(pd+(baseIndex+pdOffset)*8, uint32(pt)|flagPresent386|flagWritable386)
		}
		phys := kernelPhys + i*PageSize
		b.write32(pt+ptIndex*8, uint32(phys)|flagPresent386|flagWritable386)
	}
	return nil
}

// Framebuffer maps phys at the fixed virtual address fbVirt386, or
// returns physOffset386+phys untouched when the region already falls
// inside the 1 GiB identity map.
func (b *X86Builder) Framebuffer(root uint64, phys, size uint64) (uint64, error) {
	if phys+size <= identityGib {
		return physOffset386 + phys, nil
	}

	size = RoundUpPage(size)
	npages := size / PageSize
	baseIndex := pdIndex386(fbVirt386)

	var pt uint64
	const ptesPerTable = 1024
	for i := uint64(0); i < npages; i++ {
		pdOffset := i / ptesPerTable
		ptIndex := i % ptesPerTable
		if ptIndex == 0 {
			entry := b.read32(root + (baseIndex+pdOffset)*8)
			if entry&flagPresent386 == 0 {
				var err error
				pt, err = b.allocTable()
				if err != nil {
					return 0, err
				}
				b.write32(root+(baseIndex+pdOffset)*8, uint32(pt)|flagPresent386|flagWritable386)
			} else {
				pt = uint64(entry &^ 0xFFF)
			}
		}
		p := phys + i*PageSize
		b.write32(pt+ptIndex*8, uint32(p)|flagPresent386|flagWritable386)
	}
	return fbVirt386, nil
}
