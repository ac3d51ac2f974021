package bios

import (
	"testing"

	"github.com/redox-os/bootloader/internal/firmware"
)

type scriptedConsoleCaller struct {
	calls []RegisterFrame
	resp  []RegisterFrame
	idx   int
}

func (c *scriptedConsoleCaller) Call(in RegisterFrame) (RegisterFrame, bool) {
	c.calls = append(c.calls, in)
	out := c.resp[c.idx]
	c.idx++
	return out, false
}

func TestConsoleGetKeyTranslatesArrowScancode(t *testing.T) {
	kb := &scriptedConsoleCaller{resp: []RegisterFrame{{EAX: 0x4800}}}
	c := NewConsole(&scriptedConsoleCaller{}, kb)

	ev := c.GetKey()
	if ev.Key != firmware.KeyUp {
		t.Fatalf("expected KeyUp, got %v", ev.Key)
	}
}

func TestConsoleGetKeyTranslatesPrintableChar(t *testing.T) {
	kb := &scriptedConsoleCaller{resp: []RegisterFrame{{EAX: 0x1E61}}} // 'a'
	c := NewConsole(&scriptedConsoleCaller{}, kb)

	ev := c.GetKey()
	if ev.Key != firmware.KeyChar || ev.Char != 'a' {
		t.Fatalf("expected KeyChar 'a', got %v %q", ev.Key, ev.Char)
	}
}

func TestConsoleSetTextPositionEncodesRowColumn(t *testing.T) {
	video := &scriptedConsoleCaller{resp: []RegisterFrame{{}}}
	c := NewConsole(video, &scriptedConsoleCaller{})

	c.SetTextPosition(5, 3)
	got := video.calls[0]
	if got.EAX != 0x0200 || got.EDX != 0x0305 {
		t.Fatalf("unexpected frame: %+v", got)
	}
}
