package boot

import "github.com/redox-os/bootloader/internal/bootfail"

// installLiveDisk runs the optional state 6 (spec.md §4.5): read the
// entire filesystem image into memory, publish it as the live disk so
// later reads are satisfied from RAM, and record the region as Reserved
// (the image stays resident for the life of the boot, unlike a page-table
// frame the kernel may reclaim).
func (o *Orchestrator) installLiveDisk() (base, size uint64) {
	data, err := o.cfg.LiveDisk.ReadWhole()
	if err != nil {
		o.halt(bootfail.New(bootfail.FirmwareCall, "live disk read failed", err))
	}

	base = o.cfg.OS.AllocZeroedPageAligned(uint64(len(data)))
	o.cfg.Mem.Write(base, data)
	o.cfg.LiveDisk.Install(base, uint64(len(data)))
	return base, uint64(len(data))
}
