// Package firmware defines the capability interface the core calls into
// (spec.md §4.1). It is the single seam between platform-specific
// firmware code (BIOS, UEFI) and the boot orchestrator: the same
// orchestration logic in internal/boot runs unmodified against either
// concrete adapter, or against internal/firmware/fake in tests.
package firmware

import (
	"io"

	"github.com/redox-os/bootloader/internal/areatable"
)

// PageSize is the fixed page granularity the whole core works in.
const PageSize = 4096

// VideoMode mirrors spec.md §3's OsVideoMode. Base is meaningful only
// after SetVideoMode has activated the mode; Stride is pixels per
// scanline. Only 32-bit linear framebuffers are modeled; modes whose
// width is not a multiple of 4 must be filtered out by the enumerator
// before they reach the orchestrator.
type VideoMode struct {
	ID     uint32
	Width  uint32
	Height uint32
	Stride uint32
	Base   uint64
}

// PixelArea is used to sort modes by area, largest first, for the
// ModeSelect grid (spec.md §4.5.4).
func (m VideoMode) PixelArea() uint64 { return uint64(m.Width) * uint64(m.Height) }

// Valid32bpp reports whether m is usable: 32bpp implied by the adapter,
// width a multiple of 4 (spec.md §3).
func (m VideoMode) Valid32bpp() bool { return m.Width%4 == 0 }

// HwDescKind tags the OsHwDesc union (spec.md §3).
type HwDescKind int

const (
	HwDescNotFound HwDescKind = iota
	HwDescAcpi
	HwDescDeviceTree
)

// HwDesc is the tagged union {Acpi(base,size) | DeviceTree(base,size) |
// NotFound}. A discovered blob is always copied to a page-aligned
// allocation owned by the bootloader (Base), so the kernel receives it in
// a known mapped region.
type HwDesc struct {
	Kind HwDescKind
	Base uint64
	Size uint64
}

// Key is the blocking keystroke read result from GetKey.
type Key int

const (
	KeyOther Key = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyEnter
	KeyBackspace
	KeyDelete
	KeyChar
)

// KeyEvent pairs a Key with the literal rune for KeyChar.
type KeyEvent struct {
	Key  Key
	Char rune
}

// VideoOutput lets the orchestrator enumerate and activate modes on one
// display output without the firmware package needing to expose an
// iterator type; Modes is materialized once per ModeSelect state entry,
// matching the "restartable only by constructing a fresh enumerator"
// design note in spec.md §9 (BIOS VBE and UEFI GOP QueryMode are both
// stateful firmware operations).
type VideoOutput struct {
	Modes          []VideoMode
	PreferredWidth uint32
	PreferredHeigh uint32
	HasPreferred   bool
}

// OS is the firmware adapter trait of spec.md §4.1.
type OS interface {
	// Name is a human label, e.g. "x86/BIOS" or "aarch64/UEFI".
	Name() string

	// AllocZeroedPageAligned allocates ceil(size/PageSize) pages,
	// zero-initialized. It never returns an error: firmware allocation
	// failure is unconditionally fatal (spec.md §4.1), so implementations
	// call bootfail.Panic themselves on OOM. Implementations also record
	// the allocation into the shared AreaTable as Reclaim when
	// appropriate (page-table frames) via the Areas accessor below.
	AllocZeroedPageAligned(size uint64) uint64

	// Areas returns the single shared AreaTable this adapter and the
	// orchestrator both append to.
	Areas() *areatable.Table

	// FinalizeMemoryMap finalizes the firmware memory map ahead of
	// handoff (spec.md §4.6 step 1): on UEFI this calls
	// ExitBootServices(map_key); BIOS has no boot-services/runtime-
	// services split, so it is a no-op. Any failure is fatal;
	// implementations panic a *bootfail.Error themselves, the same
	// convention AllocZeroedPageAligned uses for OOM.
	FinalizeMemoryMap()

	// ActivateRuntimeMap completes the UEFI-only SetVirtualAddressMap
	// call (spec.md §4.6 step 4). kernelentry invokes it from inside the
	// Commit closure, after page tables are installed and interrupts are
	// disabled, immediately before the final jump. A no-op on BIOS.
	ActivateRuntimeMap()

	// Filesystem attempts to open the RedoxFS volume on the first
	// eligible block device, trying password if non-nil. Returns
	// (handle, nil) on success; on failure returns a *bootfail.Error of
	// Kind FilesystemNotFound (ENOENT-equivalent, caller should try the
	// next candidate) or PasswordRejected (ENOKEY-equivalent).
	Filesystem(password []byte) (Filesystem, error)

	// HwDesc locates and copies the firmware's hardware descriptor.
	HwDesc() HwDesc

	// VideoOutputs returns the number of distinct display outputs.
	VideoOutputs() int

	// VideoModes enumerates the modes available on output i, already
	// filtered to 32bpp/width%4==0 (spec.md §4.4's "modes whose width is
	// not a multiple of 4 are filtered out").
	VideoModes(i int) VideoOutput

	// SetVideoMode activates mode on output i, mutating base/width/
	// height/stride in place with the values the firmware actually
	// activated.
	SetVideoMode(i int, mode *VideoMode) error

	// GetKey performs a blocking keystroke read.
	GetKey() KeyEvent

	// Console cursor control.
	ClearText()
	GetTextPosition() (x, y int)
	SetTextPosition(x, y int)
	SetTextHighlight(on bool)
}

// Filesystem is the consumer-side contract for the external RedoxFS
// parser library (spec.md §1: "deliberately out of scope... specify
// only their contracts"). The core only needs to find a node by path and
// read its contents.
type Filesystem interface {
	// FindNode resolves a single path component under parent (0 for
	// root), RedoxFS-style; the orchestrator calls it once per path
	// segment to walk e.g. "boot" then "kernel".
	FindNode(parent uint64, name string) (node uint64, err error)

	// OpenReader returns a stream of the node's file contents.
	OpenReader(node uint64) (io.ReadCloser, error)

	// UUID returns the filesystem's 16-byte UUID for REDOXFS_UUID.
	UUID() [16]byte

	// BlockSize returns REDOXFS_BLOCK, the LBA of the superblock (0 if
	// the filesystem was opened from a live in-memory disk image).
	BlockSize() uint64
}
