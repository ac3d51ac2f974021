//go:build arm64

package archsetup

import "github.com/redox-os/bootloader/internal/paging"

// NewBuilder returns the aarch64 page-table builder. No device ranges
// are pre-declared: the framebuffer is the only non-RAM region this
// core ever maps, and Framebuffer already tags it explicitly (spec.md
// §4.4).
func NewBuilder(mem paging.Memory, alloc paging.Allocator) paging.Builder {
	return paging.NewArm64Builder(mem, alloc, func(phys uint64) bool { return false })
}
