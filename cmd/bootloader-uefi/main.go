// Command bootloader-uefi is the UEFI stage-2 entry point (spec.md
// §4.3): it wires the concrete uefi.OS adapter to the platform-neutral
// orchestrator and commits the handoff transition it returns. It builds
// for every architecture this core supports; the paging builder and
// ACPI/DTB preference both resolve per-GOARCH through internal/archsetup.
package main

import (
	"github.com/redox-os/bootloader/internal/archsetup"
	"github.com/redox-os/bootloader/internal/boot"
	"github.com/redox-os/bootloader/internal/bootfail"
	"github.com/redox-os/bootloader/internal/bootlog"
	"github.com/redox-os/bootloader/internal/firmware"
	"github.com/redox-os/bootloader/internal/firmware/uefi"
)

// redoxfsOpen mounts a RedoxFS volume over a UEFI block device. Out of
// scope for this core (spec.md §1); supplied by the external RedoxFS
// binding this bootloader links against.
func redoxfsOpen(dev *uefi.Disk, password []byte) (firmware.Filesystem, error)

// discoverBootServices, discoverBlockDevices, discoverGop,
// discoverConfigTable, and discoverConsole reach through
// EFI_SYSTEM_TABLE to the live boot-services function pointers and
// protocol instances. That table walk has no host-testable shape (see
// uefi.go's package doc) and is out of scope the same way the BIOS
// real-mode thunk is: each is declared without a body and supplied
// externally.
func discoverBootServices() uefi.BootServices
func discoverBlockDevices() []uefi.DeviceHandle
func discoverGop() uefi.GopProvider
func discoverConfigTable() uefi.ConfigTableReader
func discoverConsole() uefi.Console
func discoverMemoryMap() uefi.MemoryMapProvider

// watchdogHalt disarms on entry and spins forever on a fatal panic; a
// real implementation loops on a firmware-provided stall/no-op, since
// UEFI offers no universal halt instruction equivalent to BIOS's hlt
// until ExitBootServices has run.
func watchdogHalt()

func main() {
	bs := discoverBootServices()
	if err := bs.DisableWatchdog(); err != nil {
		bootfail.Panic(nil, watchdogHalt, err)
		return
	}

	memmap := uefi.NewMemMap(discoverMemoryMap())

	os, err := uefi.NewOS(
		"UEFI",
		bs,
		memmap,
		discoverBlockDevices(),
		redoxfsOpen,
		discoverGop(),
		discoverConfigTable(),
		archsetup.PreferDeviceTree(),
		discoverConsole(),
	)
	if err != nil {
		bootfail.Panic(nil, watchdogHalt, err)
		return
	}

	run(os)
}

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
	bootfail.Panic(nil, watchdogHalt, err)
}
