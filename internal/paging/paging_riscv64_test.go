//go:build riscv64

package paging

import "testing"

func newRiscv64Fixture(t *testing.T) *Riscv64Builder {
	t.Helper()
	mem := NewFakeMemory(4 << 20)
	alloc := NewFakeAllocator(mem, 0, 4<<20)
	return NewRiscv64Builder(mem, alloc)
}

func TestRiscv64IdentityMapCoversEightGiB(t *testing.T) {
	b := newRiscv64Fixture(t)
	root, err := b.Create(0x20_0000_0000, 0x3000)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	for _, p := range []uint64{0, 1 << 20, 1 << 30, (8 << 30) - gib} {
		got, ok := b.WalkRiscv64(root, physOffsetRV64+p)
		if !ok {
			t.Fatalf("identity walk at +0x%x: not mapped", p)
		}
		if got != p {
			t.Fatalf("identity walk at +0x%x (1GiB leaf): got 0x%x, want 0x%x", p, got, p)
		}
	}
}

func TestRiscv64KernelMapping(t *testing.T) {
	b := newRiscv64Fixture(t)
	kernelPhys := uint64(0x20_0000_0000)
	root, err := b.Create(kernelPhys, 2*PageSize+1)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	for _, k := range []uint64{0, PageSize, PageSize + 9} {
		got, ok := b.WalkRiscv64(root, kernelVirtBaseRV64+k)
		if !ok {
			t.Fatalf("kernel walk at +0x%x: not mapped", k)
		}
		if want := kernelPhys + k; got != want {
			t.Fatalf("kernel walk at +0x%x: got 0x%x want 0x%x", k, got, want)
		}
	}
}

func TestRiscv64SatpModeField(t *testing.T) {
	satp := Satp(0x1234_5000)
	if mode := satp >> 60; mode != 9 {
		t.Fatalf("expected SATP mode 9 (Sv48), got %d", mode)
	}
}
