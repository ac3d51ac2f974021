package bios

import (
	"testing"

	"github.com/redox-os/bootloader/internal/firmware"
)

// e820Caller scripts a single-entry E820 map large enough to select a
// heap, matching the shape memmap_test.go already exercises.
type e820Caller struct {
	lowMem *FakeLowMemory
}

func (c *e820Caller) Call(in RegisterFrame) (RegisterFrame, bool) {
	if in.EAX != 0xE820 {
		return RegisterFrame{}, true
	}
	var buf [e820EntrySize]byte
	putU64(buf[0:], 0x80000)
	putU64(buf[8:], 0x200000)
	putU32(buf[16:], 1) // usable
	c.lowMem.WriteAt(MemoryMapAddr, buf[:])
	return RegisterFrame{EAX: 0x534D4150, EBX: 0}, false
}

func newTestBiosOS(t *testing.T, openFS RedoxFSOpener) *OS {
	t.Helper()
	mem := NewFakeLowMemory()
	caller := &e820Caller{lowMem: mem}
	memmap := NewMemMap(caller, mem)
	disk := NewDisk(0x80, caller, mem)
	vbe := NewVbe(caller, mem)
	console := NewConsole(caller, caller)

	os, err := NewOS("x86/BIOS", mem, disk, vbe, console, memmap, openFS)
	if err != nil {
		t.Fatalf("NewOS: %v", err)
	}
	return os
}

func TestNewOSSelectsHeapFromMemoryMap(t *testing.T) {
	os := newTestBiosOS(t, nil)
	if os.heapNext != 0x80000 || os.heapEnd != 0x80000+0x200000 {
		t.Fatalf("unexpected heap range: [%#x, %#x)", os.heapNext, os.heapEnd)
	}
}

func TestOSFilesystemDelegatesToOpener(t *testing.T) {
	called := false
	os := newTestBiosOS(t, func(dev *Disk, password []byte) (firmware.Filesystem, error) {
		called = true
		return nil, nil
	})
	if _, err := os.Filesystem(nil); err != nil {
		t.Fatalf("Filesystem: %v", err)
	}
	if !called {
		t.Fatal("expected opener to be called")
	}
}

func TestOSVideoOutputsIsAlwaysOne(t *testing.T) {
	os := newTestBiosOS(t, nil)
	if os.VideoOutputs() != 1 {
		t.Fatalf("expected 1 video output, got %d", os.VideoOutputs())
	}
}

func TestOSHwDescNotFoundWhenNoRSDPPresent(t *testing.T) {
	os := newTestBiosOS(t, nil)
	d := os.HwDesc()
	if d.Kind != firmware.HwDescNotFound {
		t.Fatalf("expected HwDescNotFound, got %v", d.Kind)
	}
}
