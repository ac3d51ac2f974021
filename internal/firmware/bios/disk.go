package bios

import (
	"github.com/redox-os/bootloader/internal/bootfail"
)

// maxSectorsPerRead bounds each LBA batch: "chunk the buffer into ≤127-
// sector batches" (spec.md §4.2).
const maxSectorsPerRead = 127

const sectorSize = 512

// Int13hCaller issues a BIOS INT 13h call and reports the resulting
// register frame plus whether the carry flag was set (the BIOS
// disk-service failure convention). It is the thin seam over Frame.With
// so Disk can be unit tested against a scripted responder instead of a
// live thunk.
type Int13hCaller interface {
	Call(in RegisterFrame) (out RegisterFrame, carry bool)
}

// liveDisk, when non-nil, is consulted by ReadAt before any BIOS call is
// made at all (spec.md §6's SUPPLEMENTED FEATURES note: the live-disk
// short-circuit must be the first branch, not a fallback). It models the
// single process-wide "live disk" slice spec.md §4.2 and §4.5 describe.
type liveDiskRegion struct {
	startBlock uint64
	data       []byte // full filesystem image, block 0 at data[0]
}

// Disk implements INT 13h extended (LBA) reads with a CHS fallback
// (spec.md §4.2).
type Disk struct {
	drive uint8
	caller Int13hCaller
	lowMem LowMemory

	eddProbed    bool
	eddAvailable bool

	live *liveDiskRegion
}

// NewDisk binds a Disk to BIOS drive number drive (e.g. 0x80 for the
// first hard disk).
func NewDisk(drive uint8, caller Int13hCaller, lowMem LowMemory) *Disk {
	return &Disk{drive: drive, caller: caller, lowMem: lowMem}
}

// InstallLiveDisk installs the global live-disk image starting at
// startBlock (spec.md §4.5 LiveDisk state). Subsequent reads fully
// contained within it are satisfied from memory.
func (d *Disk) InstallLiveDisk(startBlock uint64, data []byte) {
	d.live = &liveDiskRegion{startBlock: startBlock, data: data}
}

// ReadAt reads len(buf)/sectorSize sectors starting at block into buf.
// len(buf) must be a multiple of sectorSize.
func (d *Disk) ReadAt(block uint64, buf []byte) error {
	if len(buf)%sectorSize != 0 {
		return bootfail.New(bootfail.FirmwareCall, "bios disk read: buffer is not sector-aligned", nil)
	}

	if d.live != nil {
		nsectors := uint64(len(buf) / sectorSize)
		if block >= d.live.startBlock {
			rel := block - d.live.startBlock
			end := rel + nsectors
			if end*sectorSize <= uint64(len(d.live.data)) {
				copy(buf, d.live.data[rel*sectorSize:end*sectorSize])
				return nil
			}
		}
	}

	d.probeEDD()

	remaining := buf
	cur := block
	for len(remaining) > 0 {
		n := len(remaining) / sectorSize
		if n > maxSectorsPerRead {
			n = maxSectorsPerRead
		}
		chunk := remaining[:n*sectorSize]
		var err error
		if d.eddAvailable {
			err = d.readLBA(cur, uint8(n), chunk)
		} else {
			err = d.readCHS(cur, uint8(n), chunk)
		}
		if err != nil {
			return err
		}
		remaining = remaining[n*sectorSize:]
		cur += uint64(n)
	}
	return nil
}

// WriteAt always fails: general-purpose disk writes are a non-goal
// (spec.md §1, §7).
func (d *Disk) WriteAt(block uint64, buf []byte) error {
	return bootfail.New(bootfail.FirmwareCall, "bios disk: writes are not supported", nil)
}

// probeEDD issues AH=41h (spec.md §4.2) once per Disk instance, since
// distinct BIOS drive numbers can have different EDD support (spec.md
// §6's SUPPLEMENTED FEATURES note) — it must not be cached globally.
func (d *Disk) probeEDD() {
	if d.eddProbed {
		return
	}
	d.eddProbed = true
	in := RegisterFrame{EAX: 0x4100, EBX: 0x55AA, EDX: uint32(d.drive)}
	out, carry := d.caller.Call(in)
	d.eddAvailable = !carry && (out.EBX&0xFFFF) == 0xAA55
}

func (d *Disk) readLBA(block uint64, count uint8, out []byte) error {
	// Disk Address Packet: size(1)=0x10, reserved(1)=0, count(2), buffer
	// offset:segment(4), LBA(8).
	var dap [16]byte
	dap[0] = 0x10
	dap[2] = count
	// Real-mode far pointer into the fixed disk buffer; segment is 0,
	// offset is DiskBiosAddr (the buffer is below 1 MiB by construction).
	putU32(dap[4:], uint32(DiskBiosAddr))
	putU64(dap[8:], block)
	d.lowMem.WriteAt(DiskAddressPacketAddr, dap[:])

	in := RegisterFrame{EAX: 0x4200, EDX: uint32(d.drive), ESI: uint32(DiskAddressPacketAddr)}
	_, carry := d.caller.Call(in)
	if carry {
		return bootfail.New(bootfail.FirmwareCall, "bios disk: INT 13h AH=42h failed", nil)
	}
	d.lowMem.ReadAt(DiskBiosAddr, out)
	return nil
}

func (d *Disk) readCHS(block uint64, count uint8, out []byte) error {
	geometry, err := d.geometry()
	if err != nil {
		return err
	}
	cyl, head, sector := lbaToCHS(block, geometry)

	in := RegisterFrame{
		EAX: 0x0200 | uint32(count),
		ECX: uint32(cyl)<<8 | uint32(sector),
		EDX: uint32(d.drive) | uint32(head)<<8,
		EBX: uint32(DiskBiosAddr),
	}
	_, carry := d.caller.Call(in)
	if carry {
		return bootfail.New(bootfail.FirmwareCall, "bios disk: INT 13h AH=02h failed", nil)
	}
	d.lowMem.ReadAt(DiskBiosAddr, out)
	return nil
}

// chsGeometry is the drive geometry fetched via AH=08h.
type chsGeometry struct {
	sectorsPerTrack uint8
	heads           uint8
}

func (d *Disk) geometry() (chsGeometry, error) {
	in := RegisterFrame{EAX: 0x0800, EDX: uint32(d.drive)}
	out, carry := d.caller.Call(in)
	if carry {
		return chsGeometry{}, bootfail.New(bootfail.FirmwareCall, "bios disk: INT 13h AH=08h failed", nil)
	}
	return chsGeometry{
		sectorsPerTrack: uint8(out.ECX & 0x3F),
		heads:           uint8((out.EDX >> 8) & 0xFF),
	}, nil
}

func lbaToCHS(lba uint64, g chsGeometry) (cyl uint16, head uint8, sector uint8) {
	spt := uint64(g.sectorsPerTrack)
	heads := uint64(g.heads)
	if spt == 0 {
		spt = 63
	}
	if heads == 0 {
		heads = 255
	}
	sector = uint8(lba%spt) + 1
	temp := lba / spt
	head = uint8(temp % heads)
	cyl = uint16(temp / heads)
	return
}

func putU64(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
}
