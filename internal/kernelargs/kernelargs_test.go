package kernelargs

import "testing"

func TestEncodeDecodeRoundTrip(t *testing.T) {
	a := Args{
		KernelBase: 0x100000, KernelSize: 0x20000,
		StackBase: 0x200000, StackSize: 0x20000,
		EnvBase: 0x300000, EnvSize: 0x1000,
		AcpiRsdpBase: 0x400000, AcpiRsdpSize: 0x24,
		AreasBase: 0x500000, AreasSize: 0x180,
		BootstrapBase: 0x600000, BootstrapSize: 0x4000,
	}

	buf := make([]byte, Size)
	if n := a.Encode(buf); n != Size {
		t.Fatalf("Encode returned %d, want %d", n, Size)
	}

	got := Decode(buf)
	if got != a {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, a)
	}
}

func TestValidate(t *testing.T) {
	base := Args{KernelSize: 0x1000, AreasSize: 0x30}
	if err := base.Validate(0x18); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}

	zeroKernel := base
	zeroKernel.KernelSize = 0
	if err := zeroKernel.Validate(0x18); err == nil {
		t.Fatal("expected error for zero kernel size")
	}

	misaligned := base
	misaligned.AreasSize = 0x31
	if err := misaligned.Validate(0x18); err == nil {
		t.Fatal("expected error for misaligned areas_size")
	}
}

func TestEncodePanicsOnShortBuffer(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on short buffer")
		}
	}()
	var a Args
	a.Encode(make([]byte, Size-1))
}
