// Package paging builds architecture-specific multi-level page tables for
// the kernel handoff (spec.md §4.4). Each builder is parameterized over a
// Memory view and a PageAllocator so it can run against either real
// physical memory (via unsafe.Pointer on target hardware) or a
// []byte-backed fake in tests, the same mock-physical-memory shape
// gopher-os uses in kernel/mem/pmm/allocator/bootmem_test.go and
// kernel/mem/vmm/walk_test.go to test page-table code on a host CPU.
package paging

// Memory is a byte-addressable view of physical memory, scoped to what
// the paging builders need: reading/writing 8-byte table entries and
// zeroing a freshly allocated frame. Real implementations dereference
// unsafe.Pointer(uintptr(phys)); test implementations index into a
// []byte arena.
type Memory interface {
	Read64(phys uint64) uint64
	Write64(phys uint64, v uint64)
	Zero(phys uint64, size uint64)
}

// Allocator is the out-of-scope linked-list allocator's contract (spec.md
// §1): the builders only ever call AllocPage to get a fresh zeroed,
// page-aligned frame. Production code wires this to the real allocator;
// tests wire it to a simple bump allocator over a fake arena.
type Allocator interface {
	AllocPage() (phys uint64, err error)
}

// PageSize is the fixed page granularity (spec.md §3).
const PageSize = 4096

const (
	gib = 1 << 30
	mib = 1 << 20
)

// IdentityBytes is the size of the identity-mapped low physical range
// the x86_64, aarch64 and riscv64 builders install (spec.md §4.4: "the
// root installs an identity map of the first 8 GiB of physical memory").
// The 32-bit x86 builder identity-maps only the first 1 GiB.
const IdentityBytes = 8 << 30

// Builder is the common contract every architecture's page-table
// constructor satisfies (spec.md §4.4).
type Builder interface {
	// Create allocates and fills page-table frames mapping the identity
	// region and the kernel image at the architecture's high-half
	// virtual base, returning the root table's physical address.
	Create(kernelPhys, kernelSize uint64) (root uint64, err error)

	// Framebuffer extends an existing table (built by Create) to map a
	// framebuffer region, returning its virtual address. If phys+size
	// fits within the identity-mapped low range (IdentityBytes; 1 GiB on
	// 32-bit x86), it is a no-op
	// that returns phys+PhysOffset without allocating (spec.md §4.4,
	// §8's idempotence property).
	Framebuffer(root uint64, phys, size uint64) (virt uint64, err error)

	// KernelVirtBase is the architecture's high-half kernel virtual
	// base address, used by callers to compute kernel_virt_base+k for
	// the testable walk invariant in spec.md §8.
	KernelVirtBase() uint64

	// PhysOffset is the architecture's identity-region virtual base.
	PhysOffset() uint64
}

func ceilDiv(a, b uint64) uint64 { return (a + b - 1) / b }

// RoundUpPage rounds size up to the next multiple of PageSize.
func RoundUpPage(size uint64) uint64 { return ceilDiv(size, PageSize) * PageSize }
