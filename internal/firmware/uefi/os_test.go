package uefi

import (
	"runtime"
	"testing"
	"unsafe"

	"github.com/redox-os/bootloader/internal/firmware"
)

type fakeMemMapProvider struct{}

func (fakeMemMapProvider) GetMemoryMap() ([]Descriptor, uint64, error) {
	return []Descriptor{{Type: efiConventionalMemory, PhysicalStart: 0x100000, NumberOfPages: 16}}, 0x42, nil
}

type fakeBootServices struct {
	nextBase uint64
	failNext bool

	exitedMapKey    uint64
	exitCalled      bool
	exitFails       bool
	virtualMapDescs []Descriptor
	virtualMapFails bool
}

func (b *fakeBootServices) AllocatePages(n uint64) (uint64, error) {
	if b.failNext {
		return 0, bootTestErr{}
	}
	base := b.nextBase
	b.nextBase += n * firmware.PageSize
	return base, nil
}

func (b *fakeBootServices) DisableWatchdog() error { return nil }

func (b *fakeBootServices) ExitBootServices(mapKey uint64) error {
	if b.exitFails {
		return bootTestErr{}
	}
	b.exitCalled = true
	b.exitedMapKey = mapKey
	return nil
}

func (b *fakeBootServices) SetVirtualAddressMap(descs []Descriptor) error {
	if b.virtualMapFails {
		return bootTestErr{}
	}
	b.virtualMapDescs = descs
	return nil
}

type bootTestErr struct{}

func (bootTestErr) Error() string { return "allocate failed" }

type fakeConsole struct{ keys []firmware.KeyEvent }

func (c *fakeConsole) GetKey() firmware.KeyEvent {
	k := c.keys[0]
	c.keys = c.keys[1:]
	return k
}
func (c *fakeConsole) ClearText()                  {}
func (c *fakeConsole) GetTextPosition() (int, int) { return 0, 0 }
func (c *fakeConsole) SetTextPosition(x, y int)    {}
func (c *fakeConsole) SetTextHighlight(on bool)    {}

func newTestOS(t *testing.T, devices []DeviceHandle, openFS RedoxFSOpener) *OS {
	t.Helper()
	os, _ := newTestOSWithBootServices(t, devices, openFS)
	return os
}

func newTestOSWithBootServices(t *testing.T, devices []DeviceHandle, openFS RedoxFSOpener) (*OS, *fakeBootServices) {
	t.Helper()
	bs := &fakeBootServices{}
	memmap := NewMemMap(fakeMemMapProvider{})
	gop := &fakeGopProvider{}
	cfg := &fakeConfigTableReader{entries: nil, blobs: map[uintptr][]byte{}}
	os, err := NewOS("x86_64/UEFI", bs, memmap, devices, openFS, gop, cfg, false, &fakeConsole{})
	if err != nil {
		t.Fatalf("NewOS: %v", err)
	}
	return os, bs
}

func TestOSFiltersToESPFirstWhenOpeningFilesystem(t *testing.T) {
	devices := []DeviceHandle{
		{BlockDevice: BlockDevice{Handle: 1}, IO: &fakeBlockIO{}},
		{BlockDevice: BlockDevice{Handle: 2, IsESP: true}, IO: &fakeBlockIO{}},
	}
	os := newTestOS(t, devices, func(dev *Disk, password []byte) (firmware.Filesystem, error) {
		return nil, firmware.ErrNoEnt("probe")
	})
	_, err := os.Filesystem(nil)
	if !firmware.IsNoEnt(err) {
		t.Fatalf("expected FilesystemNotFound, got %v", err)
	}
	if os.devices[0].Handle != 2 {
		t.Fatalf("expected ESP handle first, got %d", os.devices[0].Handle)
	}
}

func TestOSAllocZeroedPageAlignedRoundsUpToPages(t *testing.T) {
	os, bs := newTestOSWithBootServices(t, nil, nil)
	// AllocZeroedPageAligned zeroes the pages it is handed, so the fake
	// boot services allocate from a real, page-aligned buffer.
	backing := make([]byte, 4*firmware.PageSize)
	start := alignUp(uint64(uintptr(unsafe.Pointer(&backing[0]))), firmware.PageSize)
	bs.nextBase = start
	base := os.AllocZeroedPageAligned(1)
	if base != start {
		t.Fatalf("expected first allocation at base %#x, got %#x", start, base)
	}
	second := os.AllocZeroedPageAligned(firmware.PageSize + 1)
	if second != start+firmware.PageSize {
		t.Fatalf("expected second allocation one page after %#x, got %#x", start, second)
	}
	runtime.KeepAlive(backing)
}

func TestOSFinalizeMemoryMapUsesMapKeyFromCollect(t *testing.T) {
	os, bs := newTestOSWithBootServices(t, nil, nil)
	os.FinalizeMemoryMap()
	if !bs.exitCalled {
		t.Fatal("expected ExitBootServices to be called")
	}
	if bs.exitedMapKey != 0x42 {
		t.Fatalf("expected map key 0x42, got %#x", bs.exitedMapKey)
	}
}

func TestOSFinalizeMemoryMapPanicsOnFailure(t *testing.T) {
	os, bs := newTestOSWithBootServices(t, nil, nil)
	bs.exitFails = true
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on ExitBootServices failure")
		}
	}()
	os.FinalizeMemoryMap()
}

func TestOSActivateRuntimeMapFiltersToRuntimeDescriptors(t *testing.T) {
	os, bs := newTestOSWithBootServices(t, nil, nil)
	os.descs = []Descriptor{
		{PhysicalStart: 0x1000, NumberOfPages: 1, Attribute: efiMemoryRuntime},
		{PhysicalStart: 0x2000, NumberOfPages: 1, Attribute: 0},
	}
	os.ActivateRuntimeMap()
	if len(bs.virtualMapDescs) != 1 || bs.virtualMapDescs[0].PhysicalStart != 0x1000 {
		t.Fatalf("expected only the runtime descriptor to be passed, got %+v", bs.virtualMapDescs)
	}
}

func TestOSVideoModesDelegatesToGopEnumeration(t *testing.T) {
	called := false
	devices := []DeviceHandle{}
	os := newTestOS(t, devices, nil)
	os.gop = &fakeGopProvider{handles: []GopHandle{
		{FramebufferBase: 0x1000, Modes: []firmware.VideoMode{{Width: 640, Height: 480}}, Activate: func(m *firmware.VideoMode) error {
			called = true
			return nil
		}},
	}}
	if os.VideoOutputs() != 1 {
		t.Fatalf("expected 1 output, got %d", os.VideoOutputs())
	}
	mode := os.VideoModes(0).Modes[0]
	if err := os.SetVideoMode(0, &mode); err != nil {
		t.Fatalf("SetVideoMode: %v", err)
	}
	if !called {
		t.Fatal("expected activation function to be invoked")
	}
}
