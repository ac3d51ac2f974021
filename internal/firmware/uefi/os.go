package uefi

import (
	"unsafe"

	"github.com/redox-os/bootloader/internal/areatable"
	"github.com/redox-os/bootloader/internal/bootfail"
	"github.com/redox-os/bootloader/internal/firmware"
)

// RedoxFSOpener mounts a RedoxFS volume over a block device (spec.md §1:
// the RedoxFS parser itself is out of scope, only its contract is
// specified here).
type RedoxFSOpener func(dev *Disk, password []byte) (firmware.Filesystem, error)

// BootServices is the seam over the handful of EFI_BOOT_SERVICES calls
// the core needs directly: page allocation and disarming the watchdog
// that would otherwise reset the machine mid-boot (spec.md §4.3).
type BootServices interface {
	// AllocatePages allocates n contiguous 4 KiB pages via
	// AllocateMaxAddress, capped below 4 GiB, as EfiRuntimeServicesData
	// (spec.md §4.3's SUPPLEMENTED FEATURES note on allocation type).
	AllocatePages(n uint64) (uint64, error)
	// DisableWatchdog calls SetWatchdogTimer(0, 0, 0, NULL).
	DisableWatchdog() error
	// ExitBootServices(mapKey) hands exclusive ownership of memory and
	// the remaining runtime services to the bootloader (spec.md §4.6
	// step 1). Any failure is fatal.
	ExitBootServices(mapKey uint64) error
	// SetVirtualAddressMap installs descs as the firmware's
	// runtime-services virtual mapping (spec.md §4.6 step 4). Must only
	// be called after ExitBootServices has succeeded.
	SetVirtualAddressMap(descs []Descriptor) error
}

// DeviceHandle pairs a BlockDevice's priority metadata with its live
// protocol instance.
type DeviceHandle struct {
	BlockDevice
	IO BlockIO
}

// OS is the concrete firmware.OS for UEFI (spec.md §4.3): device-path
// priority ordering over the discovered block devices, GOP video with
// framebuffer dedup, and ACPI/DTB config-table lookup, all driven
// through the firmware's own boot services rather than a real-mode
// thunk.
type OS struct {
	name string

	bs      BootServices
	devices []DeviceHandle
	openFS  RedoxFSOpener

	gop      GopProvider
	outputs  []firmware.VideoOutput
	activate []func(*firmware.VideoMode) error
	gopLoaded bool

	cfg       ConfigTableReader
	preferDTB bool

	console Console

	areas *areatable.Table

	// descs/mapKey are the raw descriptor set and map key from the same
	// GetMemoryMap call areas was classified from; FinalizeMemoryMap and
	// ActivateRuntimeMap both need the exact pairing ExitBootServices
	// requires (spec.md §4.6 steps 1 and 4).
	descs  []Descriptor
	mapKey uint64
}

// NewOS collects the firmware memory map once and returns an OS ready to
// serve the orchestrator. devices should already be discovered via
// LocateHandle/HandleProtocol on EFI_BLOCK_IO_PROTOCOL; NewOS reorders
// them with OrderCandidates.
func NewOS(name string, bs BootServices, memmap *MemMap, devices []DeviceHandle, openFS RedoxFSOpener, gop GopProvider, cfg ConfigTableReader, preferDTB bool, console Console) (*OS, error) {
	table, _, err := memmap.Collect()
	if err != nil {
		return nil, err
	}
	return &OS{
		name:      name,
		bs:        bs,
		devices:   orderedDevices(devices),
		openFS:    openFS,
		gop:       gop,
		cfg:       cfg,
		preferDTB: preferDTB,
		console:   console,
		areas:     table,
		descs:     memmap.LastDescriptors(),
		mapKey:    memmap.LastMapKey(),
	}, nil
}

func orderedDevices(devices []DeviceHandle) []DeviceHandle {
	plain := make([]BlockDevice, len(devices))
	byHandle := make(map[uintptr]DeviceHandle, len(devices))
	for i, d := range devices {
		plain[i] = d.BlockDevice
		byHandle[d.Handle] = d
	}
	ordered := OrderCandidates(plain)
	out := make([]DeviceHandle, len(ordered))
	for i, bd := range ordered {
		out[i] = byHandle[bd.Handle]
	}
	return out
}

func (o *OS) Name() string { return o.name }

// AllocZeroedPageAligned allocates through BootServices and zeroes the
// result directly: UEFI runs with an identity map, so physical and
// virtual addresses coincide here too (spec.md §4.3). The allocation is
// recorded in the area table as Reclaim so the kernel can tell
// bootloader carve-outs (page tables, staged blobs) apart from memory
// the firmware still reports as Free (spec.md §3, §4.5).
func (o *OS) AllocZeroedPageAligned(size uint64) uint64 {
	n := (size + firmware.PageSize - 1) / firmware.PageSize
	base, err := o.bs.AllocatePages(n)
	if err != nil {
		panic(bootfail.New(bootfail.ResourceExhaustion, "uefi: AllocatePages failed", err))
	}
	zeroPhys(base, n*firmware.PageSize)
	if err := o.areas.Append(areatable.Entry{Base: base, Size: n * firmware.PageSize, Kind: areatable.Reclaim}); err != nil {
		panic(bootfail.New(bootfail.ResourceExhaustion, "uefi: area table at capacity recording allocation", err))
	}
	return base
}

func (o *OS) Areas() *areatable.Table { return o.areas }

// FinalizeMemoryMap calls ExitBootServices with the map key captured at
// NewOS time (spec.md §4.6 step 1). Any failure is fatal.
func (o *OS) FinalizeMemoryMap() {
	if err := o.bs.ExitBootServices(o.mapKey); err != nil {
		panic(bootfail.New(bootfail.FirmwareCall, "uefi: ExitBootServices failed", err))
	}
}

// ActivateRuntimeMap calls SetVirtualAddressMap with only the
// EFI_MEMORY_RUNTIME descriptors from the same memory map
// FinalizeMemoryMap exited boot services with (spec.md §4.6 step 4). It
// must run after FinalizeMemoryMap and with interrupts disabled;
// kernelentry's Commit closure enforces that ordering.
func (o *OS) ActivateRuntimeMap() {
	if err := o.bs.SetVirtualAddressMap(RuntimeRegions(o.descs)); err != nil {
		panic(bootfail.New(bootfail.FirmwareCall, "uefi: SetVirtualAddressMap failed", err))
	}
}

// Filesystem tries each device in priority order (ESP, then its
// siblings, then the rest). It returns at once on a PasswordRejected
// error; otherwise, if every candidate fails, it returns the last error
// (spec.md §4.3, §4.5).
func (o *OS) Filesystem(password []byte) (firmware.Filesystem, error) {
	if len(o.devices) == 0 {
		return nil, firmware.ErrNoEnt("uefi: no block devices discovered")
	}
	var lastErr error
	for _, d := range o.devices {
		fs, err := o.openFS(NewDisk(d.IO), password)
		if err == nil {
			return fs, nil
		}
		lastErr = err
		if firmware.IsNoKey(err) {
			return nil, err
		}
	}
	return nil, lastErr
}

func (o *OS) HwDesc() firmware.HwDesc { return HwDesc(o.cfg, o.preferDTB) }

func (o *OS) loadGop() {
	if o.gopLoaded {
		return
	}
	o.outputs, o.activate = EnumerateWithActivation(o.gop)
	o.gopLoaded = true
}

func (o *OS) VideoOutputs() int {
	o.loadGop()
	return len(o.outputs)
}

func (o *OS) VideoModes(i int) firmware.VideoOutput {
	o.loadGop()
	return o.outputs[i]
}

func (o *OS) SetVideoMode(i int, mode *firmware.VideoMode) error {
	o.loadGop()
	if i >= len(o.activate) || o.activate[i] == nil {
		return bootfail.New(bootfail.FirmwareCall, "uefi: no activation function for output", nil)
	}
	return o.activate[i](mode)
}

func (o *OS) GetKey() firmware.KeyEvent { return o.console.GetKey() }

func (o *OS) ClearText()                  { o.console.ClearText() }
func (o *OS) GetTextPosition() (int, int) { return o.console.GetTextPosition() }
func (o *OS) SetTextPosition(x, y int)    { o.console.SetTextPosition(x, y) }
func (o *OS) SetTextHighlight(on bool)    { o.console.SetTextHighlight(on) }

var _ firmware.OS = (*OS)(nil)

func zeroPhys(base, n uint64) {
	b := unsafe.Slice((*byte)(unsafe.Pointer(uintptr(base))), n)
	for i := range b {
		b[i] = 0
	}
}
