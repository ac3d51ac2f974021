package fake

import (
	"io"
	"testing"

	"github.com/redox-os/bootloader/internal/firmware"
)

func TestOSAllocZeroedPageAlignedRoundsUpAndTracksUsage(t *testing.T) {
	o := New(1 << 16)
	a := o.AllocZeroedPageAligned(1)
	b := o.AllocZeroedPageAligned(firmware.PageSize + 1)
	if a != 0 {
		t.Fatalf("expected first allocation at 0, got %d", a)
	}
	if b != firmware.PageSize {
		t.Fatalf("expected second allocation at one page, got %d", b)
	}
}

func TestOSAllocZeroedPageAlignedPanicsOnExhaustion(t *testing.T) {
	o := New(firmware.PageSize)
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on arena exhaustion")
		}
	}()
	o.AllocZeroedPageAligned(firmware.PageSize + 1)
}

func TestFilesystemFindNodeAndRead(t *testing.T) {
	fs := NewFilesystem()
	fs.AddNode(0, "boot", 1)
	fs.AddFile(1, "kernel", 2, []byte("hello kernel"))

	boot, err := fs.FindNode(0, "boot")
	if err != nil || boot != 1 {
		t.Fatalf("FindNode(boot): %v, %d", err, boot)
	}
	kernel, err := fs.FindNode(boot, "kernel")
	if err != nil || kernel != 2 {
		t.Fatalf("FindNode(kernel): %v, %d", err, kernel)
	}

	r, err := fs.OpenReader(kernel)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(data) != "hello kernel" {
		t.Fatalf("got %q", data)
	}
}

func TestFilesystemFindNodeMissingIsNoEnt(t *testing.T) {
	fs := NewFilesystem()
	if _, err := fs.FindNode(0, "missing"); !firmware.IsNoEnt(err) {
		t.Fatalf("expected IsNoEnt, got %v", err)
	}
}

func TestOSGetKeyConsumesScriptInOrder(t *testing.T) {
	o := New(4096)
	o.Keys = []firmware.KeyEvent{{Key: firmware.KeyChar, Char: 'a'}, {Key: firmware.KeyEnter}}
	if k := o.GetKey(); k.Key != firmware.KeyChar || k.Char != 'a' {
		t.Fatalf("unexpected first key: %+v", k)
	}
	if k := o.GetKey(); k.Key != firmware.KeyEnter {
		t.Fatalf("unexpected second key: %+v", k)
	}
}

var _ firmware.Filesystem = (*Filesystem)(nil)
