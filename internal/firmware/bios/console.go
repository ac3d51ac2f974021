package bios

import "github.com/redox-os/bootloader/internal/firmware"

// Console implements the text-mode cursor/key operations over INT 10h
// (video services) and INT 16h (keyboard services), the BIOS analog of
// spec.md §4.1's console contract.
type Console struct {
	video    Int13hCaller // bound to INT 10h
	keyboard Int13hCaller // bound to INT 16h
}

// NewConsole binds a Console to the two real-mode callers it needs.
func NewConsole(video, keyboard Int13hCaller) *Console {
	return &Console{video: video, keyboard: keyboard}
}

// GetKey issues INT 16h, AH=00h and translates the returned scancode/
// ASCII pair into a firmware.KeyEvent.
func (c *Console) GetKey() firmware.KeyEvent {
	out, _ := c.keyboard.Call(RegisterFrame{EAX: 0x0000})
	ascii := byte(out.EAX)
	scancode := byte(out.EAX >> 8)

	switch scancode {
	case 0x48:
		return firmware.KeyEvent{Key: firmware.KeyUp}
	case 0x50:
		return firmware.KeyEvent{Key: firmware.KeyDown}
	case 0x4B:
		return firmware.KeyEvent{Key: firmware.KeyLeft}
	case 0x4D:
		return firmware.KeyEvent{Key: firmware.KeyRight}
	case 0x53:
		return firmware.KeyEvent{Key: firmware.KeyDelete}
	}
	switch ascii {
	case '\r':
		return firmware.KeyEvent{Key: firmware.KeyEnter}
	case 0x08:
		return firmware.KeyEvent{Key: firmware.KeyBackspace}
	case 0:
		return firmware.KeyEvent{Key: firmware.KeyOther}
	default:
		return firmware.KeyEvent{Key: firmware.KeyChar, Char: rune(ascii)}
	}
}

// ClearText issues INT 10h, AH=06h (scroll window up entire screen) over
// the standard 80x25 text page and homes the cursor.
func (c *Console) ClearText() {
	c.video.Call(RegisterFrame{EAX: 0x0600, EBX: 0x0700, ECX: 0x0000, EDX: 0x184F})
	c.SetTextPosition(0, 0)
}

// GetTextPosition issues INT 10h, AH=03h.
func (c *Console) GetTextPosition() (x, y int) {
	out, _ := c.video.Call(RegisterFrame{EAX: 0x0300})
	return int(out.EDX & 0xFF), int((out.EDX >> 8) & 0xFF)
}

// SetTextPosition issues INT 10h, AH=02h.
func (c *Console) SetTextPosition(x, y int) {
	c.video.Call(RegisterFrame{EAX: 0x0200, EDX: uint32(y)<<8 | uint32(x)})
}

// SetTextHighlight writes one blank at the cursor via INT 10h, AH=09h,
// with the reverse-video attribute when on and the normal attribute when
// off; characters written afterwards do not inherit the attribute.
func (c *Console) SetTextHighlight(on bool) {
	attr := uint32(0x07)
	if on {
		attr = 0x70
	}
	c.video.Call(RegisterFrame{EAX: 0x0900 | 0x20, EBX: attr, ECX: 1})
}
