package bios

import (
	"unsafe"

	"github.com/redox-os/bootloader/internal/areatable"
	"github.com/redox-os/bootloader/internal/bootfail"
	"github.com/redox-os/bootloader/internal/firmware"
)

// RedoxFSOpener mounts a RedoxFS volume over a block device (spec.md §1:
// "the RedoxFS parser... deliberately out of scope... specify only their
// contracts"). password is nil for an unlocked attempt.
type RedoxFSOpener func(dev *Disk, password []byte) (firmware.Filesystem, error)

// OS is the concrete firmware.OS for legacy BIOS (spec.md §4.2): a bump
// allocator over the heap SelectHeap identifies, INT 13h disk access,
// VBE video, and the EBDA/E-segment RSDP scan, all driven through one
// shared real-mode thunk.
type OS struct {
	name string

	mem     LowMemory
	disk    *Disk
	vbe     *Vbe
	console *Console

	areas    *areatable.Table
	heapNext uint64
	heapEnd  uint64

	openFS RedoxFSOpener

	hwDescCache *firmware.HwDesc
}

// NewOS collects the E820 map, selects the bootloader heap out of it, and
// returns an OS ready to serve AllocZeroedPageAligned. name is a label
// such as "x86/BIOS" or "x86_64/BIOS".
func NewOS(name string, mem LowMemory, disk *Disk, vbe *Vbe, console *Console, memmap *MemMap, openFS RedoxFSOpener) (*OS, error) {
	table, err := memmap.Collect()
	if err != nil {
		return nil, err
	}
	base, size, ok := SelectHeap(table)
	if !ok {
		return nil, bootfail.New(bootfail.ResourceExhaustion, "bios: no Free region spans 1 MiB for the bootloader heap", nil)
	}
	return &OS{
		name:     name,
		mem:      mem,
		disk:     disk,
		vbe:      vbe,
		console:  console,
		areas:    table,
		heapNext: base,
		heapEnd:  base + size,
		openFS:   openFS,
	}, nil
}

func (o *OS) Name() string { return o.name }

// AllocZeroedPageAligned bumps the heap pointer and zeroes the region via
// direct physical access: pre-paging, physical and virtual addresses
// coincide (spec.md §4.2). Heap exhaustion panics with a *bootfail.Error;
// the cmd entry point recovers it and calls the real halt routine. Every
// allocation is recorded in the area table as Reclaim so the kernel can
// tell page tables and other bootloader carve-outs apart from memory the
// firmware still reports as Free (spec.md §3, §4.5).
func (o *OS) AllocZeroedPageAligned(size uint64) uint64 {
	n := firmware.PageSize * ((size + firmware.PageSize - 1) / firmware.PageSize)
	if o.heapNext+n > o.heapEnd {
		panic(bootfail.New(bootfail.ResourceExhaustion, "bios: bootloader heap exhausted", nil))
	}
	base := o.heapNext
	o.heapNext += n
	zeroPhys(base, n)
	if err := o.areas.Append(areatable.Entry{Base: base, Size: n, Kind: areatable.Reclaim}); err != nil {
		panic(bootfail.New(bootfail.ResourceExhaustion, "bios: area table at capacity recording allocation", err))
	}
	return base
}

func (o *OS) Areas() *areatable.Table { return o.areas }

// FinalizeMemoryMap is a no-op on BIOS: there is no boot-services/
// runtime-services distinction to tear down (spec.md §4.6 step 1 is
// UEFI-only).
func (o *OS) FinalizeMemoryMap() {}

// ActivateRuntimeMap is a no-op on BIOS: SetVirtualAddressMap has no
// legacy-BIOS equivalent (spec.md §4.6 step 4 is UEFI-only).
func (o *OS) ActivateRuntimeMap() {}

// Filesystem tries the single BIOS boot drive; BIOS has no device
// enumeration analog to UEFI's handle list (spec.md §4.2), so there is
// only ever one candidate.
func (o *OS) Filesystem(password []byte) (firmware.Filesystem, error) {
	return o.openFS(o.disk, password)
}

// HwDesc scans for the RSDP once and caches the result; BIOS has no DTB
// source, so failure to find an RSDP is simply HwDescNotFound.
func (o *OS) HwDesc() firmware.HwDesc {
	if o.hwDescCache != nil {
		return *o.hwDescCache
	}
	result := firmware.HwDesc{Kind: firmware.HwDescNotFound}
	if addr, length, ok := ScanRSDP(o.mem); ok {
		blob := make([]byte, length)
		o.mem.ReadAt(addr, blob)
		dst := o.AllocZeroedPageAligned(uint64(length))
		writePhys(dst, blob)
		result = firmware.HwDesc{Kind: firmware.HwDescAcpi, Base: dst, Size: uint64(length)}
	}
	o.hwDescCache = &result
	return result
}

// VideoOutputs always reports one: the single VBE-controlled display
// BIOS exposes (spec.md §4.2).
func (o *OS) VideoOutputs() int { return 1 }

func (o *OS) VideoModes(i int) firmware.VideoOutput {
	modes, err := o.vbe.Enumerate()
	if err != nil {
		return firmware.VideoOutput{}
	}
	width, height, ok := o.vbe.ProbeEDID()
	return firmware.VideoOutput{Modes: modes, PreferredWidth: width, PreferredHeigh: height, HasPreferred: ok}
}

func (o *OS) SetVideoMode(i int, mode *firmware.VideoMode) error {
	return o.vbe.SetMode(*mode)
}

func (o *OS) GetKey() firmware.KeyEvent { return o.console.GetKey() }

func (o *OS) ClearText()                  { o.console.ClearText() }
func (o *OS) GetTextPosition() (int, int) { return o.console.GetTextPosition() }
func (o *OS) SetTextPosition(x, y int)    { o.console.SetTextPosition(x, y) }
func (o *OS) SetTextHighlight(on bool)    { o.console.SetTextHighlight(on) }

var _ firmware.OS = (*OS)(nil)

// zeroPhys and writePhys reach physical memory directly: below paging,
// physical address equals virtual address (spec.md §4.2).
func zeroPhys(base, n uint64) {
	b := unsafe.Slice((*byte)(unsafe.Pointer(uintptr(base))), n)
	for i := range b {
		b[i] = 0
	}
}

func writePhys(base uint64, data []byte) {
	b := unsafe.Slice((*byte)(unsafe.Pointer(uintptr(base))), len(data))
	copy(b, data)
}
