package uefi

import "github.com/redox-os/bootloader/internal/firmware"

// GopHandle is one discovered GraphicsOutput protocol instance: its
// queryable modes and, if present, the display's EDID-reported preferred
// resolution (spec.md §4.3: "EDID comes from the EDID-Active protocol
// when present, else the current mode").
type GopHandle struct {
	Modes           []firmware.VideoMode
	FramebufferBase uint64
	PreferredWidth  uint32
	PreferredHeight uint32
	HasPreferred    bool

	// Activate calls SetMode on the live protocol instance this handle
	// came from. nil in tests that only exercise enumeration.
	Activate func(mode *firmware.VideoMode) error
}

// GopProvider is the seam over LocateHandle/HandleProtocol +
// QueryMode + the EDID-Active protocol; the real implementation walks
// live UEFI handles, tests supply a literal handle list.
type GopProvider interface {
	Handles() []GopHandle
}

// Enumerate returns one firmware.VideoOutput per distinct framebuffer
// base, suppressing duplicate handles that report the same base (spec.md
// §4.3: "duplicates (same framebuffer base as another handle) are
// suppressed"), already filtered to 32bpp/width%4==0 modes.
func Enumerate(p GopProvider) []firmware.VideoOutput {
	outputs, _ := enumerate(p)
	return outputs
}

// EnumerateWithActivation is Enumerate plus the per-output activation
// closure the concrete OS adapter needs for SetVideoMode, since
// firmware.VideoOutput itself carries no handle back to the live
// protocol instance.
func EnumerateWithActivation(p GopProvider) ([]firmware.VideoOutput, []func(*firmware.VideoMode) error) {
	return enumerate(p)
}

func enumerate(p GopProvider) ([]firmware.VideoOutput, []func(*firmware.VideoMode) error) {
	seen := map[uint64]bool{}
	var outputs []firmware.VideoOutput
	var activate []func(*firmware.VideoMode) error
	for _, h := range p.Handles() {
		if h.FramebufferBase != 0 && seen[h.FramebufferBase] {
			continue
		}
		if h.FramebufferBase != 0 {
			seen[h.FramebufferBase] = true
		}

		var modes []firmware.VideoMode
		for _, m := range h.Modes {
			if m.Valid32bpp() {
				modes = append(modes, m)
			}
		}
		outputs = append(outputs, firmware.VideoOutput{
			Modes:          modes,
			PreferredWidth: h.PreferredWidth,
			PreferredHeigh: h.PreferredHeight,
			HasPreferred:   h.HasPreferred,
		})
		activate = append(activate, h.Activate)
	}
	return outputs, activate
}
