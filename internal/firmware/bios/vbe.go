package bios

import (
	"encoding/binary"

	"github.com/redox-os/bootloader/internal/bootfail"
	"github.com/redox-os/bootloader/internal/bootlog"
	"github.com/redox-os/bootloader/internal/firmware"
)

// maxVbeModes defensively bounds the mode list walk: the walk stops
// after 256 entries even if no 0xFFFF terminator has been seen.
const maxVbeModes = 256

const vbeModeListTerminator = 0xFFFF

// vbeSignature is the 4-byte "VESA" signature a conforming VBE BIOS
// returns in the Controller Info block.
const vbeSignature = "VESA"

// Vbe implements the VESA BIOS Extensions video mode enumeration of
// spec.md §4.2: fetch the Controller Info block, walk its mode list,
// fetch each mode's Mode Info block, and probe EDID for the preferred
// resolution.
type Vbe struct {
	caller Int13hCaller
	lowMem LowMemory
	sink   bootlog.Sink
}

// NewVbe binds a Vbe to the low-memory staging buffers and caller.
func NewVbe(caller Int13hCaller, lowMem LowMemory) *Vbe {
	return &Vbe{caller: caller, lowMem: lowMem}
}

// Enumerate returns every linear-framebuffer-capable VBE mode.
func (v *Vbe) Enumerate() ([]firmware.VideoMode, error) {
	var req [512]byte
	copy(req[:4], vbeSignature)
	v.lowMem.WriteAt(VbeCardInfoAddr, req[:])

	in := RegisterFrame{EAX: 0x4F00, EDI: uint32(VbeCardInfoAddr)}
	out, carry := v.caller.Call(in)
	if carry || (out.EAX&0xFFFF) != 0x004F {
		return nil, bootfail.New(bootfail.FirmwareCall, "bios vbe: controller info query failed", nil)
	}

	var info [512]byte
	v.lowMem.ReadAt(VbeCardInfoAddr, info[:])
	if string(info[:4]) != vbeSignature {
		return nil, bootfail.New(bootfail.FirmwareCall, "bios vbe: missing VESA signature", nil)
	}

	// VideoModePtr is a real-mode far pointer (segment:offset) at offset
	// 14 into the Controller Info block.
	modeOff := binary.LittleEndian.Uint16(info[14:])
	modeSeg := binary.LittleEndian.Uint16(info[16:])
	modeListAddr := uint32(modeSeg)<<4 + uint32(modeOff)

	var modeList [maxVbeModes * 2]byte
	v.lowMem.ReadAt(modeListAddr, modeList[:])

	var modes []firmware.VideoMode
	sawTerminator := false
	for i := 0; i < maxVbeModes; i++ {
		modeNum := binary.LittleEndian.Uint16(modeList[i*2:])
		if modeNum == vbeModeListTerminator {
			sawTerminator = true
			break
		}
		m, ok, err := v.queryMode(modeNum)
		if err != nil {
			return nil, err
		}
		if ok {
			modes = append(modes, m)
		}
	}
	if !sawTerminator && v.sink != nil {
		v.sink.Writef("bios vbe: %s: mode list exceeded %d entries without a 0xFFFF terminator", bootfail.UnsupportedConfig, maxVbeModes)
	}
	return modes, nil
}

// SetSink installs the log sink used to report the defensive mode-list
// cap being hit; nil (the zero value) silently drops the warning.
func (v *Vbe) SetSink(sink bootlog.Sink) { v.sink = sink }

func (v *Vbe) queryMode(modeNum uint16) (firmware.VideoMode, bool, error) {
	in := RegisterFrame{EAX: 0x4F01, ECX: uint32(modeNum), EDI: uint32(VbeModeInfoAddr)}
	out, carry := v.caller.Call(in)
	if carry || (out.EAX&0xFFFF) != 0x004F {
		return firmware.VideoMode{}, false, nil
	}

	var info [256]byte
	v.lowMem.ReadAt(VbeModeInfoAddr, info[:])

	attrs := binary.LittleEndian.Uint16(info[0:])
	const (
		attrSupported       = 1 << 0
		attrLinearFramebuffer = 1 << 7
	)
	if attrs&attrSupported == 0 || attrs&attrLinearFramebuffer == 0 {
		return firmware.VideoMode{}, false, nil
	}

	width := binary.LittleEndian.Uint16(info[18:])
	height := binary.LittleEndian.Uint16(info[20:])
	bpp := info[25]
	physBase := binary.LittleEndian.Uint32(info[40:])
	pitch := binary.LittleEndian.Uint16(info[16:])

	if bpp != 32 {
		return firmware.VideoMode{}, false, nil
	}

	mode := firmware.VideoMode{
		ID:     uint32(modeNum) | 0x4000, // LFB request bit (spec.md §4.2)
		Width:  uint32(width),
		Height: uint32(height),
		Stride: uint32(pitch) / 4,
		Base:   uint64(physBase),
	}
	if !mode.Valid32bpp() {
		return firmware.VideoMode{}, false, nil
	}
	return mode, true, nil
}

// ProbeEDID reads the attached display's preferred timing via INT 10h,
// AX=4F15h (Display Identification). It returns ok=false if no monitor
// EDID is available, which is common on headless/virtualized BIOSes.
func (v *Vbe) ProbeEDID() (width, height uint32, ok bool) {
	in := RegisterFrame{EAX: 0x4F15, EBX: 1, EDI: uint32(VbeEdidAddr)}
	out, carry := v.caller.Call(in)
	if carry || (out.EAX&0xFFFF) != 0x004F {
		return 0, 0, false
	}

	var edid [128]byte
	v.lowMem.ReadAt(VbeEdidAddr, edid[:])

	// Detailed Timing Descriptor #1 begins at offset 54: bytes 2 and 4 hold
	// the low 8 bits and high nibble of the 12-bit horizontal active pixel
	// count; bytes 5 and 7 analogously encode vertical active lines.
	hActive := uint32(edid[56]) | uint32(edid[58]&0xF0)<<4
	vActive := uint32(edid[59]) | uint32(edid[61]&0xF0)<<4
	if hActive == 0 || vActive == 0 {
		return 0, 0, false
	}
	return hActive, vActive, true
}

// SetMode activates mode via INT 10h, AX=4F02h. mode.ID already carries
// the LFB request bit set during Enumerate.
func (v *Vbe) SetMode(mode firmware.VideoMode) error {
	in := RegisterFrame{EAX: 0x4F02, EBX: mode.ID}
	out, carry := v.caller.Call(in)
	if carry || (out.EAX&0xFFFF) != 0x004F {
		return bootfail.New(bootfail.FirmwareCall, "bios vbe: set mode failed", nil)
	}
	return nil
}
