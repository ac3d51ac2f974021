//go:build 386

package archsetup

import "github.com/redox-os/bootloader/internal/paging"

// NewBuilder returns the x86 (PAE-less) page-table builder (spec.md §4.4).
func NewBuilder(mem paging.Memory, alloc paging.Allocator) paging.Builder {
	return paging.NewX86Builder(mem, alloc)
}
