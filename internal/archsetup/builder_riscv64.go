//go:build riscv64

package archsetup

import "github.com/redox-os/bootloader/internal/paging"

// NewBuilder returns the riscv64 (Sv48) page-table builder (spec.md
// §4.4).
func NewBuilder(mem paging.Memory, alloc paging.Allocator) paging.Builder {
	return paging.NewRiscv64Builder(mem, alloc)
}
