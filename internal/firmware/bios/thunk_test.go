package bios

import "testing"

func TestFrameSaveLoadRoundTrip(t *testing.T) {
	mem := NewFakeLowMemory()
	f := NewFrame(mem)

	r := RegisterFrame{
		EDI: 1, ESI: 2, EBP: 3, ESP: 4,
		EBX: 5, EDX: 6, ECX: 7, EAX: 8,
		EFlags: 0x202,
		ES:     0x1000, DS: 0x2000,
	}
	f.Save(r)
	got := f.Load()
	if got != r {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, r)
	}
}

func TestFrameWithInvokesStubAndReturnsMutatedFrame(t *testing.T) {
	mem := NewFakeLowMemory()
	f := NewFrame(mem)

	var calledInt uint8
	stub := func(interruptNo uint8) {
		calledInt = interruptNo
		// Simulate the BIOS call clearing CF (bit 0 of EFLAGS) to
		// indicate success, and returning a byte count in EAX.
		fr := f.Load()
		fr.EAX = 0x2a
		fr.EFlags &^= 1
		f.Save(fr)
	}

	in := RegisterFrame{EAX: 0x4200}
	out := f.With(in, 0x13, stub)

	if calledInt != 0x13 {
		t.Fatalf("expected stub to be called with interrupt 0x13, got 0x%x", calledInt)
	}
	if out.EAX != 0x2a {
		t.Fatalf("expected mutated EAX 0x2a, got 0x%x", out.EAX)
	}
}
