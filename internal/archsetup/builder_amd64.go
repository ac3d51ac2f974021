//go:build amd64

package archsetup

import "github.com/redox-os/bootloader/internal/paging"

// NewBuilder returns the x86_64 page-table builder (spec.md §4.4).
func NewBuilder(mem paging.Memory, alloc paging.Allocator) paging.Builder {
	return paging.NewAmd64Builder(mem, alloc)
}
