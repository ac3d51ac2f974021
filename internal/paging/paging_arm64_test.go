//go:build arm64

package paging

import "testing"

func newArm64Fixture(t *testing.T) *Arm64Builder {
	t.Helper()
	mem := NewFakeMemory(4 << 20)
	alloc := NewFakeAllocator(mem, 0, 4<<20)
	return NewArm64Builder(mem, alloc, nil)
}

func TestArm64IdentityMapCoversEightGiB(t *testing.T) {
	b := newArm64Fixture(t)
	root, err := b.Create(0x20_0000_0000, 0x3000)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	for _, p := range []uint64{0, 1 << 20, 1 << 30, (8 << 30) - (2 << 20)} {
		got, ok := b.WalkArm64(root, physOffsetArm64+p)
		if !ok || got != p {
			t.Fatalf("identity walk at +0x%x: got (0x%x, %v)", p, got, ok)
		}
	}
}

func TestArm64KernelMapping(t *testing.T) {
	b := newArm64Fixture(t)
	kernelPhys := uint64(0x20_0000_0000)
	root, err := b.Create(kernelPhys, 2*PageSize+5)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	for _, k := range []uint64{0, PageSize, PageSize + 3} {
		got, ok := b.WalkArm64(root, kernelVirtBaseArm64+k)
		if !ok {
			t.Fatalf("kernel walk at +0x%x: not mapped", k)
		}
		if want := kernelPhys + k; got != want {
			t.Fatalf("kernel walk at +0x%x: got 0x%x want 0x%x", k, got, want)
		}
	}
}

func TestArm64DeviceRangeGetsDeviceAttributes(t *testing.T) {
	mem := NewFakeMemory(4 << 20)
	alloc := NewFakeAllocator(mem, 0, 4<<20)
	devBase := uint64(1 << 30) // 1 GiB "device" range, matches one identity GiB exactly
	b := NewArm64Builder(mem, alloc, func(phys uint64) bool {
		return phys >= devBase && phys < devBase+gib
	})
	root, err := b.Create(0x20_0000_0000, PageSize)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	l1Index := (devBase / gib) % pteCountArm64
	l0e := mem.Read64(root + l0IdentityLow*pteSizeArm64)
	l1 := l0e &^ 0xFFF
	l1e := mem.Read64(l1 + l1Index*pteSizeArm64)
	l2 := l1e &^ 0xFFF
	l2e := mem.Read64(l2)
	if l2e&(0x7<<attrAttrIdxShift) != attrIdxDevice<<attrAttrIdxShift {
		t.Fatalf("expected device MAIR index on device range, got entry 0x%x", l2e)
	}
}
