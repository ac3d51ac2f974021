package boot

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/redox-os/bootloader/internal/firmware"
	"github.com/redox-os/bootloader/internal/firmware/fake"
)

func TestHex16FormatsSixteenLowercaseDigits(t *testing.T) {
	require.Equal(t, "0000000000000200", hex16(0x200))
	require.Equal(t, "ffffffffffffffff", hex16(^uint64(0)))
}

func TestAssembleEnvIncludesAcpiAndFramebufferLines(t *testing.T) {
	os := fake.New(1 << 20)
	o := newOrchestratorWithOS(os)

	out := o.assembleEnv(envInputs{
		bootMode: "x86_64/UEFI",
		hwDesc:   firmware.HwDesc{Kind: firmware.HwDescAcpi, Base: 0x1000, Size: 36},
		fb0: SelectedOutput{
			HasMode: true,
			Mode:    firmware.VideoMode{Width: 1024, Height: 768, Stride: 1024, Base: 0xE0000000},
		},
		fbVirt: 0xFFFF8000E0000000,
		outputs: []SelectedOutput{
			{HasMode: true, Mode: firmware.VideoMode{Width: 640, Height: 480, Stride: 640, Base: 0xF0000000}},
		},
	})

	s := string(out)
	require.True(t, strings.HasPrefix(s, "BOOT_MODE=x86_64/UEFI\n"))
	require.Contains(t, s, "RSDP_ADDR=0000000000001000 RSDP_SIZE=0000000000000024")
	require.Contains(t, s, "FRAMEBUFFER_WIDTH=0000000000000400 FRAMEBUFFER_HEIGHT=0000000000000300")
	require.Contains(t, s, "FRAMEBUFFER1=0xf0000000,640,480,640")
}

func TestAssembleEnvZeroesPasswordAfterStaging(t *testing.T) {
	os := fake.New(1 << 20)
	o := newOrchestratorWithOS(os)

	password := []byte("secret")
	out := o.assembleEnv(envInputs{bootMode: "bios", password: password})

	require.Contains(t, string(out), "REDOXFS_PASSWORD_SIZE=0000000000000006")
	for _, b := range password {
		require.Zero(t, b)
	}
}
