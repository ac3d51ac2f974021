// Package fake provides a scriptable firmware.OS used by the boot
// orchestrator's state-machine tests, grounded in gopher-os's practice
// of testing hal-level orchestration against fakes rather than real
// hardware (kernel/hal/hal.go plus its _test.go siblings).
package fake

import (
	"io"

	"github.com/redox-os/bootloader/internal/areatable"
	"github.com/redox-os/bootloader/internal/firmware"
)

// OS is a fully in-memory firmware.OS. Every method reads from or
// appends to exported scripting fields so a test can drive a specific
// sequence of orchestrator decisions without any platform code.
type OS struct {
	NameValue string

	// Pages is a bump allocator over a plain byte arena; AllocZeroedPageAligned
	// panics if it would exceed len(Pages).
	Pages    []byte
	pagesUse uint64

	AreaTable *areatable.Table

	// FilesystemFunc lets a test script ENOENT/ENOKEY/success sequences
	// across repeated calls, e.g. to model trying several disks.
	FilesystemFunc func(password []byte) (firmware.Filesystem, error)

	HwDescValue firmware.HwDesc

	Outputs []firmware.VideoOutput

	// SetVideoModeFunc records/validates the activated mode; if nil,
	// SetVideoMode fills in a synthetic Base.
	SetVideoModeFunc func(i int, mode *firmware.VideoMode) error

	// Keys is consumed in order by GetKey; once exhausted GetKey panics,
	// which a test should never hit if it sized Keys correctly.
	Keys []firmware.KeyEvent
	keyIdx int

	TextX, TextY int
	Highlighted  bool
}

// New builds an OS with a page arena of size pageArenaBytes and a fresh
// AreaTable of areatable.DefaultCapacity.
func New(pageArenaBytes int) *OS {
	return &OS{
		Pages:     make([]byte, pageArenaBytes),
		AreaTable: areatable.New(areatable.DefaultCapacity),
	}
}

func (o *OS) Name() string {
	if o.NameValue == "" {
		return "fake"
	}
	return o.NameValue
}

func (o *OS) AllocZeroedPageAligned(size uint64) uint64 {
	n := firmware.PageSize * ((size + firmware.PageSize - 1) / firmware.PageSize)
	if o.pagesUse+n > uint64(len(o.Pages)) {
		panic("fake.OS: page arena exhausted")
	}
	base := o.pagesUse
	o.pagesUse += n
	if err := o.AreaTable.Append(areatable.Entry{Base: base, Size: n, Kind: areatable.Reclaim}); err != nil {
		panic("fake.OS: area table at capacity recording allocation")
	}
	return base
}

func (o *OS) Areas() *areatable.Table { return o.AreaTable }

// FinalizeMemoryMap and ActivateRuntimeMap are no-ops: orchestrator
// tests exercise firmware-neutral state transitions only, never the
// UEFI-specific ExitBootServices/SetVirtualAddressMap sequence.
func (o *OS) FinalizeMemoryMap()  {}
func (o *OS) ActivateRuntimeMap() {}

func (o *OS) Filesystem(password []byte) (firmware.Filesystem, error) {
	if o.FilesystemFunc == nil {
		return nil, firmware.ErrNoEnt("fake")
	}
	return o.FilesystemFunc(password)
}

func (o *OS) HwDesc() firmware.HwDesc { return o.HwDescValue }

func (o *OS) VideoOutputs() int { return len(o.Outputs) }

func (o *OS) VideoModes(i int) firmware.VideoOutput { return o.Outputs[i] }

func (o *OS) SetVideoMode(i int, mode *firmware.VideoMode) error {
	if o.SetVideoModeFunc != nil {
		return o.SetVideoModeFunc(i, mode)
	}
	mode.Base = o.AllocZeroedPageAligned(uint64(mode.Width) * uint64(mode.Height) * 4)
	return nil
}

func (o *OS) GetKey() firmware.KeyEvent {
	if o.keyIdx >= len(o.Keys) {
		panic("fake.OS: GetKey called beyond scripted Keys")
	}
	k := o.Keys[o.keyIdx]
	o.keyIdx++
	return k
}

func (o *OS) ClearText()                    { o.TextX, o.TextY = 0, 0 }
func (o *OS) GetTextPosition() (int, int)   { return o.TextX, o.TextY }
func (o *OS) SetTextPosition(x, y int)      { o.TextX, o.TextY = x, y }
func (o *OS) SetTextHighlight(on bool)      { o.Highlighted = on }

var _ firmware.OS = (*OS)(nil)

// Filesystem is a scriptable firmware.Filesystem backed by an in-memory
// path tree and byte contents, for KernelLoad/InitfsLoad tests.
type Filesystem struct {
	UUIDValue  [16]byte
	BlockValue uint64

	// Nodes maps "parentNode/name" to a resolved node id; Files maps
	// node id to its full contents.
	Nodes map[string]uint64
	Files map[uint64][]byte
}

func NewFilesystem() *Filesystem {
	return &Filesystem{Nodes: map[string]uint64{}, Files: map[uint64][]byte{}}
}

// AddNode registers that name is resolvable under parent, yielding the
// given node id. AddFile additionally stores its contents under that id.
func (f *Filesystem) AddNode(parent uint64, name string, node uint64) {
	f.Nodes[f.key(parent, name)] = node
}

func (f *Filesystem) AddFile(parent uint64, name string, node uint64, contents []byte) {
	f.AddNode(parent, name, node)
	f.Files[node] = contents
}

func (f *Filesystem) key(parent uint64, name string) string {
	return itoa(parent) + "/" + name
}

func (f *Filesystem) FindNode(parent uint64, name string) (uint64, error) {
	node, ok := f.Nodes[f.key(parent, name)]
	if !ok {
		return 0, firmware.ErrNoEnt(name)
	}
	return node, nil
}

func (f *Filesystem) OpenReader(node uint64) (io.ReadCloser, error) {
	data, ok := f.Files[node]
	if !ok {
		return nil, firmware.ErrNoEnt("node")
	}
	return &byteReader{data: data}, nil
}

func (f *Filesystem) UUID() [16]byte { return f.UUIDValue }
func (f *Filesystem) BlockSize() uint64 { return f.BlockValue }

type byteReader struct {
	data []byte
	pos  int
}

func (r *byteReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	n := copy(p, r.data[r.pos:])
	r.pos += n
	return n, nil
}

func (r *byteReader) Close() error { return nil }

func itoa(v uint64) string {
	if v == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}
