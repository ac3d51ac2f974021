package paging

import (
	"errors"

	"github.com/redox-os/bootloader/internal/bootfail"
)

var (
	errOutOfFakeMemory       = errors.New("paging: fake allocator exhausted its arena")
	errFramebufferNotAligned = errors.New("paging: framebuffer physical address is not 2 MiB aligned")
)

// wrapAlloc turns any allocator failure into the ResourceExhaustion kind
// required by spec.md §7: "any allocation failure aborts the entire boot
// with a panic; partial tables are not rolled back."
func wrapAlloc(err error) error {
	if err == nil {
		return nil
	}
	return bootfail.New(bootfail.ResourceExhaustion, "page table frame allocation failed", err)
}
