// Package bios implements the BIOS firmware adapter: the real-mode
// thunk, INT 13h disk access, E820 memory map, and VBE video enumeration
// (spec.md §4.2). Everything here runs under protected/long mode and
// only ever reaches real mode by handing control to an externally
// supplied stub — the stub's assembly body is out of scope (spec.md
// §1, §4.2): "the stub is provided externally and is NOT part of the
// core spec."
package bios

import "encoding/binary"

// Fixed low-memory addresses (spec.md §4.2). These are absolute physical
// addresses; the stage-1 loader leaves them untouched until stage-2
// finishes.
const (
	DiskBiosAddr          = 0x0000_1000 // 64 KiB real-mode disk buffer
	VbeCardInfoAddr       = 0x0000_9000 // 512 bytes
	VbeModeInfoAddr       = 0x0000_9200 // 256 bytes
	VbeEdidAddr           = 0x0000_9300 // 128 bytes
	MemoryMapAddr         = 0x0000_9380 // 24-byte E820 entry staging
	DiskAddressPacketAddr = 0x0000_93A0 // 16 bytes (LBA DAP)
	ThunkStackAddr        = 0x0000_7C00 // grows downward
	VgaAddr               = 0x000B_8000 // text buffer

	diskBufSize = 64 * 1024
)

// RegisterFrame is the packed 32-bit general-purpose register image plus
// a segment selector saved/restored around a real-mode call (spec.md
// §3's ThunkFrame). Field order matches the wire layout the stub expects.
type RegisterFrame struct {
	EDI, ESI, EBP, ESP uint32
	EBX, EDX, ECX, EAX uint32
	// Flags captured/restored across the mode switch (e.g. CF for the
	// BIOS call's success/failure convention).
	EFlags uint32
	ES, DS uint16
	_      uint16 // trailing pad word; the encoded frame is frameSize (42) bytes
}

// frameSize is the encoded size of RegisterFrame.
const frameSize = 4*9 + 2*2 + 2

// ThunkStub is the externally supplied C-ABI trampoline: it switches to
// real mode, loads the frame from the fixed stack offset, executes
// `int interruptNo`, re-saves the frame, and returns to protected mode.
// Its assembly implementation is out of scope for this core (spec.md
// §4.2).
type ThunkStub func(interruptNo uint8)

// LowMemory is the byte-addressable view of the fixed low-memory region
// the thunk subsystem owns. Production code backs this with unsafe
// access to physical addresses below 1 MiB; tests back it with a plain
// []byte arena, the same testable-without-hardware shape paging.Memory
// uses.
type LowMemory interface {
	ReadAt(addr uint32, buf []byte)
	WriteAt(addr uint32, buf []byte)
}

// Frame manages the single shared thunk stack slot.
type Frame struct {
	mem LowMemory
}

// NewFrame binds a Frame to the fixed low-memory region.
func NewFrame(mem LowMemory) *Frame { return &Frame{mem: mem} }

// frameOffset is the fixed low-memory slot just below ThunkStackAddr,
// spec.md §4.2: "writes the frame to THUNK_STACK_ADDR − 64".
const frameOffset = ThunkStackAddr - 64

// Save writes r to the fixed low-memory slot.
func (f *Frame) Save(r RegisterFrame) {
	var buf [frameSize]byte
	putU32(buf[0:], r.EDI)
	putU32(buf[4:], r.ESI)
	putU32(buf[8:], r.EBP)
	putU32(buf[12:], r.ESP)
	putU32(buf[16:], r.EBX)
	putU32(buf[20:], r.EDX)
	putU32(buf[24:], r.ECX)
	putU32(buf[28:], r.EAX)
	putU32(buf[32:], r.EFlags)
	binary.LittleEndian.PutUint16(buf[36:], r.ES)
	binary.LittleEndian.PutUint16(buf[38:], r.DS)
	f.mem.WriteAt(frameOffset, buf[:])
}

// Load reads the frame back from the fixed low-memory slot.
func (f *Frame) Load() RegisterFrame {
	var buf [frameSize]byte
	f.mem.ReadAt(frameOffset, buf[:])
	return RegisterFrame{
		EDI: getU32(buf[0:]), ESI: getU32(buf[4:]), EBP: getU32(buf[8:]), ESP: getU32(buf[12:]),
		EBX: getU32(buf[16:]), EDX: getU32(buf[20:]), ECX: getU32(buf[24:]), EAX: getU32(buf[28:]),
		EFlags: getU32(buf[32:]),
		ES:     binary.LittleEndian.Uint16(buf[36:]),
		DS:     binary.LittleEndian.Uint16(buf[38:]),
	}
}

// With saves r, invokes stub for interruptNo, and reads the possibly
// mutated frame back (spec.md §4.2).
func (f *Frame) With(r RegisterFrame, interruptNo uint8, stub ThunkStub) RegisterFrame {
	f.Save(r)
	stub(interruptNo)
	return f.Load()
}

func putU32(b []byte, v uint32) { binary.LittleEndian.PutUint32(b, v) }
func getU32(b []byte) uint32    { return binary.LittleEndian.Uint32(b) }
