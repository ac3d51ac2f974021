package boot

import (
	"io"

	"github.com/redox-os/bootloader/internal/bootfail"
	"github.com/redox-os/bootloader/internal/elfhdr"
	"github.com/redox-os/bootloader/internal/firmware"
	"github.com/redox-os/bootloader/internal/paging"
)

// chunkSize is the read granularity spec.md §4.5 states 7/8 name ("read
// entire file in 1 MiB chunks").
const chunkSize = 1 << 20

// initfsMagic is the 8-byte signature InitfsLoad checks for (spec.md
// §4.5 state 8, §7's CorruptImage kind).
var initfsMagic = [8]byte{'R', 'e', 'd', 'o', 'x', 'F', 't', 'w'}

// readWholeNode resolves name under the "boot" directory and reads its
// entire contents in chunkSize batches.
func (o *Orchestrator) readWholeNode(fs firmware.Filesystem, name string) []byte {
	bootNode, err := fs.FindNode(0, bootPath)
	if err != nil {
		o.halt(bootfail.New(bootfail.FilesystemNotFound, "no /boot directory", err))
	}
	node, err := fs.FindNode(bootNode, name)
	if err != nil {
		o.halt(bootfail.New(bootfail.FilesystemNotFound, "missing /boot/"+name, err))
	}
	r, err := fs.OpenReader(node)
	if err != nil {
		o.halt(bootfail.New(bootfail.FirmwareCall, "failed to open /boot/"+name, err))
	}
	defer r.Close()

	var out []byte
	buf := make([]byte, chunkSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			out = append(out, buf[:n]...)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			o.halt(bootfail.New(bootfail.FirmwareCall, "read failed on /boot/"+name, err))
		}
	}
	return out
}

// loadKernel implements state 7: locate /boot/kernel, validate its ELF
// header, copy it to a fresh allocation, and decode its entry point.
func (o *Orchestrator) loadKernel(fs firmware.Filesystem) (base, size, entry uint64) {
	data := o.readWholeNode(fs, kernelName)
	entry, err := elfhdr.EntryPoint(data)
	if err != nil {
		o.halt(err)
	}

	base = o.cfg.OS.AllocZeroedPageAligned(uint64(len(data)))
	o.cfg.Mem.Write(base, data)
	return base, uint64(len(data)), entry
}

// loadInitfs implements state 8: locate /boot/initfs, verify the
// "RedoxFtw" magic, and copy it (rounded up to a page) to a fresh
// allocation.
func (o *Orchestrator) loadInitfs(fs firmware.Filesystem) (base, size uint64) {
	data := o.readWholeNode(fs, initfsName)
	if len(data) < len(initfsMagic) || [8]byte(data[:8]) != initfsMagic {
		o.halt(bootfail.New(bootfail.CorruptImage, "initfs missing RedoxFtw magic", nil))
	}

	rounded := paging.RoundUpPage(uint64(len(data)))
	base = o.cfg.OS.AllocZeroedPageAligned(rounded)
	o.cfg.Mem.Write(base, data)
	return base, rounded
}
