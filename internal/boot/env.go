package boot

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/redox-os/bootloader/internal/firmware"
)

// envInputs collects everything EnvAssemble (spec.md §4.5 state 10, §6)
// needs to write out the environment lines.
type envInputs struct {
	bootMode string
	hwDesc   firmware.HwDesc

	haveLiveDisk bool
	liveBase     uint64
	liveSize     uint64

	redoxfsBlock uint64
	redoxfsUUID  [16]byte

	password []byte

	hartID func() uint64

	fb0     SelectedOutput
	fbVirt  uint64
	outputs []SelectedOutput
}

// hex16 formats a value as 16 lowercase zero-padded hex digits (spec.md
// §6: "All hex fields are 16 lowercase digits, zero-padded").
func hex16(v uint64) string { return fmt.Sprintf("%016x", v) }

// assembleEnv writes the exact key set of spec.md §6 to a UTF-8
// newline-terminated buffer. When a password is present, assembleEnv
// copies it into a fresh page-aligned staging allocation, records that
// allocation's address/size in the environment, and then zeroes the
// caller's copy, so the environment text never holds the bytes themselves.
func (o *Orchestrator) assembleEnv(in envInputs) []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "BOOT_MODE=%s\n", in.bootMode)

	switch in.hwDesc.Kind {
	case firmware.HwDescAcpi:
		fmt.Fprintf(&b, "RSDP_ADDR=%s RSDP_SIZE=%s\n", hex16(in.hwDesc.Base), hex16(in.hwDesc.Size))
	case firmware.HwDescDeviceTree:
		fmt.Fprintf(&b, "DTB_ADDR=%s DTB_SIZE=%s\n", hex16(in.hwDesc.Base), hex16(in.hwDesc.Size))
	}

	if in.haveLiveDisk {
		fmt.Fprintf(&b, "DISK_LIVE_ADDR=%s DISK_LIVE_SIZE=%s\n", hex16(in.liveBase), hex16(in.liveSize))
	}

	block := in.redoxfsBlock
	if in.haveLiveDisk {
		block = 0
	}
	fmt.Fprintf(&b, "REDOXFS_BLOCK=%s REDOXFS_UUID=%s\n", hex16(block), uuid.UUID(in.redoxfsUUID).String())

	if in.password != nil {
		passAddr := o.cfg.OS.AllocZeroedPageAligned(uint64(len(in.password)))
		o.cfg.Mem.Write(passAddr, in.password)
		fmt.Fprintf(&b, "REDOXFS_PASSWORD_ADDR=%s REDOXFS_PASSWORD_SIZE=%s\n", hex16(passAddr), hex16(uint64(len(in.password))))
		zero(in.password)
	}

	if in.hartID != nil {
		fmt.Fprintf(&b, "BOOT_HART_ID=%s\n", hex16(in.hartID()))
	}

	if in.fb0.HasMode {
		m := in.fb0.Mode
		fmt.Fprintf(&b, "FRAMEBUFFER_ADDR=%s FRAMEBUFFER_VIRT=%s\n", hex16(m.Base), hex16(in.fbVirt))
		fmt.Fprintf(&b, "FRAMEBUFFER_WIDTH=%s FRAMEBUFFER_HEIGHT=%s FRAMEBUFFER_STRIDE=%s\n",
			hex16(uint64(m.Width)), hex16(uint64(m.Height)), hex16(uint64(m.Stride)))
	}

	for i, out := range in.outputs {
		if !out.HasMode {
			continue
		}
		fmt.Fprintf(&b, "FRAMEBUFFER%d=0x%x,%d,%d,%d\n", i+1, out.Mode.Base, out.Mode.Width, out.Mode.Height, out.Mode.Stride)
	}

	return []byte(b.String())
}

// zero overwrites the staging copy of the password this function was
// handed after its address has been committed to the environment: the
// bytes now live solely in the page-aligned allocation the kernel will
// read, matching spec.md §4.5 state 3's "survives across the exec
// boundary" staging-buffer design.
func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
