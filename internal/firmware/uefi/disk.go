package uefi

import (
	"unsafe"

	"github.com/redox-os/bootloader/internal/bootfail"
)

// logicalBlockSize is the fixed RedoxFS logical block size the wrapper
// reconstitutes regardless of the underlying device's own block size
// (spec.md §4.3: "the wrapper reconstitutes RedoxFS's 4 KiB logical
// blocks").
const logicalBlockSize = 4096

// BlockIO is the seam over EFI_BLOCK_IO_PROTOCOL.ReadBlocks: the real
// implementation calls through the protocol's function pointer against a
// live handle; tests back it with a plain byte-slice device.
type BlockIO interface {
	ReadBlocks(lba uint64, buf []byte) error
	MediaBlockSize() uint32
	IoAlign() uint32
}

// Disk reconstitutes RedoxFS's fixed 4 KiB logical blocks on top of a
// device whose native block size may be smaller (512) and which may
// require an aligned bounce buffer (spec.md §4.3's IoAlign note).
type Disk struct {
	dev BlockIO
}

func NewDisk(dev BlockIO) *Disk { return &Disk{dev: dev} }

// ReadAt reads len(buf)/logicalBlockSize logical blocks starting at
// logicalBlock into buf.
func (d *Disk) ReadAt(logicalBlock uint64, buf []byte) error {
	if len(buf)%logicalBlockSize != 0 {
		return bootfail.New(bootfail.FirmwareCall, "efi disk read: buffer is not logical-block aligned", nil)
	}
	nativeSize := uint64(d.dev.MediaBlockSize())
	if nativeSize == 0 {
		return bootfail.New(bootfail.FirmwareCall, "efi disk: zero native block size reported", nil)
	}
	if logicalBlockSize%nativeSize != 0 {
		return bootfail.New(bootfail.UnsupportedConfig, "efi disk: native block size does not divide 4 KiB", nil)
	}
	nativeLBA := logicalBlock * (logicalBlockSize / nativeSize)

	align := uint64(d.dev.IoAlign())
	if align <= 1 {
		return d.dev.ReadBlocks(nativeLBA, buf)
	}

	// Bounce through an aligned scratch buffer; a real implementation
	// allocates this once from boot-services memory at the required
	// alignment, not on every call, but the read semantics are identical.
	scratch := make([]byte, len(buf)+int(align))
	base := uint64(uintptr(unsafe.Pointer(&scratch[0])))
	off := alignUp(base, align) - base
	aligned := scratch[off : off+uint64(len(buf))]
	if err := d.dev.ReadBlocks(nativeLBA, aligned); err != nil {
		return err
	}
	copy(buf, aligned)
	return nil
}

func alignUp(v, align uint64) uint64 {
	return (v + align - 1) &^ (align - 1)
}
