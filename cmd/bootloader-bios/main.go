//go:build 386 || amd64

// Command bootloader-bios is the legacy-BIOS stage-2 entry point
// (spec.md §4.2): it wires the concrete bios.OS adapter to the
// platform-neutral orchestrator and commits the handoff transition it
// returns.
package main

import (
	"github.com/redox-os/bootloader/internal/archsetup"
	"github.com/redox-os/bootloader/internal/asm"
	"github.com/redox-os/bootloader/internal/boot"
	"github.com/redox-os/bootloader/internal/bootfail"
	"github.com/redox-os/bootloader/internal/bootlog"
	"github.com/redox-os/bootloader/internal/firmware"
	"github.com/redox-os/bootloader/internal/firmware/bios"
)

// bootDrive is the BIOS drive number the stage-1 loader handed control
// from; 0x80 is the first hard disk on every BIOS this core targets.
const bootDrive = 0x80

// redoxfsOpen mounts a RedoxFS volume over a BIOS disk. The parser
// itself is out of scope for this core (spec.md §1): it is declared
// without a body and supplied by the external RedoxFS binding this
// bootloader links against, the same convention internal/asm uses for
// hand-written assembly.
func redoxfsOpen(dev *bios.Disk, password []byte) (firmware.Filesystem, error)

func main() {
	mem := bios.RealLowMemory{}
	frame := bios.NewFrame(mem)

	diskCaller := bios.NewRealCaller(frame, bios.RealModeThunk, 0x13)
	memmapCaller := bios.NewRealCaller(frame, bios.RealModeThunk, 0x15)
	vbeCaller := bios.NewRealCaller(frame, bios.RealModeThunk, 0x10)
	keyboardCaller := bios.NewRealCaller(frame, bios.RealModeThunk, 0x16)

	disk := bios.NewDisk(bootDrive, diskCaller, mem)
	memmap := bios.NewMemMap(memmapCaller, mem)
	vbe := bios.NewVbe(vbeCaller, mem)
	console := bios.NewConsole(vbeCaller, keyboardCaller)

	os, err := bios.NewOS("x86/BIOS", mem, disk, vbe, console, memmap, redoxfsOpen)
	if err != nil {
		bootfail.Panic(nil, asm.Halt, err)
		return
	}

	run(os)
}

// run builds the orchestrator and recovers the Go panic the boot package
// uses to signal a fatal condition (see boot.Orchestrator.halt), turning
// it into the real halt sequence this firmware provides.
func run(os firmware.OS) {
	defer func() {
		if r := recover(); r != nil {
			haltOnPanic(r)
		}
	}()

	alloc := archsetup.PageAllocator{OS: os}
	builder := archsetup.NewBuilder(archsetup.PhysMemory{}, alloc)

	orch := boot.New(boot.Config{
		OS:       os,
		Mem:      archsetup.PhysMemory{},
		Paging:   builder,
		Sink:     bootlog.Discard,
		Password: boot.DefaultPasswordReader,
	})
	result := orch.Run()
	result.Transition.Commit()
}

func haltOnPanic(r any) {
	err, ok := r.(error)
	if !ok {
		err = bootfail.New(bootfail.FirmwareCall, "unrecoverable boot failure", nil)
	}
	bootfail.Panic(nil, asm.Halt, err)
}
