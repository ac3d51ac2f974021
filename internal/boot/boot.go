// Package boot implements the platform-neutral boot orchestrator
// (spec.md §4.5): the state sequence (states 1-11) that opens the RedoxFS volume,
// runs the video mode picker, loads the kernel and initfs, builds page
// tables, assembles the environment, and produces the final handoff
// transition. Every firmware-specific capability is reached through
// firmware.OS, so this package runs unmodified against the BIOS adapter,
// the UEFI adapter, or internal/firmware/fake in tests — the same
// "orchestration logic tested against a fake hal" shape gopher-os uses
// for kernel/hal/hal.go.
package boot

import (
	"github.com/redox-os/bootloader/internal/areatable"
	"github.com/redox-os/bootloader/internal/bootfail"
	"github.com/redox-os/bootloader/internal/bootlog"
	"github.com/redox-os/bootloader/internal/firmware"
	"github.com/redox-os/bootloader/internal/kernelargs"
	"github.com/redox-os/bootloader/internal/kernelentry"
	"github.com/redox-os/bootloader/internal/paging"
)

// StackSize is the fixed kernel initial-stack allocation (spec.md §4.5
// state 5: "allocate 128 KiB stack").
const StackSize = 128 * 1024

// EnvBufferSize is the maximum size of the assembled environment
// (spec.md §6: "up to 64 KiB").
const EnvBufferSize = 64 * 1024

// MaxPasswordAttempts bounds the PasswordPrompt state (spec.md §4.5
// state 3, §7's PasswordRejected kind).
const MaxPasswordAttempts = 10

// bootPath/kernelName/initfsName are the fixed RedoxFS paths the
// KernelLoad/InitfsLoad states resolve (spec.md §4.5 states 7-8).
const (
	bootPath    = "boot"
	kernelName  = "kernel"
	initfsName  = "initfs"
)

// Memory is the seam the orchestrator uses to populate the physical
// pages firmware.OS hands back from AllocZeroedPageAligned: on real
// hardware, before paging is installed, physical addresses are directly
// addressable, so the concrete implementation simply copies through
// unsafe.Pointer(uintptr(phys)); tests write into a fake.OS's Pages
// arena at the same offsets AllocZeroedPageAligned returned.
type Memory interface {
	Write(phys uint64, data []byte)
}

// LiveDisk is the optional state-6 hook (spec.md §4.5 state 6): loading
// the whole RedoxFS image into RAM and installing it so subsequent disk
// reads are satisfied from memory. It is feature-gated per spec. Neither
// cmd/ entry point sets it, and no adapter type implements it: the BIOS
// read path's own live-disk hook, bios.Disk.InstallLiveDisk, has a
// different signature.
type LiveDisk interface {
	// ReadWhole returns the entire backing disk image.
	ReadWhole() ([]byte, error)
	// Install publishes base/size as the live-disk region so future reads
	// are satisfied from RAM instead of firmware calls.
	Install(base uint64, size uint64)
}

// Config parameterizes one orchestrator run with everything that varies
// per architecture/firmware combination.
type Config struct {
	OS     firmware.OS
	Mem    Memory
	Paging paging.Builder
	Sink   bootlog.Sink

	// LiveDisk is nil unless the live-disk feature is enabled for this
	// build (spec.md §4.5 state 6 is explicitly "optional, feature-gated").
	LiveDisk LiveDisk

	// HartID is non-nil only on RISC-V builds, returning the boot hart id
	// for the BOOT_HART_ID environment line (spec.md §6).
	HartID func() uint64

	// Password supplies the single keyboard-driven password prompt
	// implementation; tests substitute a scripted reader.
	Password PasswordReader
}

// Orchestrator runs one boot attempt to completion or panic.
type Orchestrator struct {
	cfg Config
}

func New(cfg Config) *Orchestrator { return &Orchestrator{cfg: cfg} }

func (o *Orchestrator) log(format string, args ...any) {
	if o.cfg.Sink != nil {
		o.cfg.Sink.Writef(format, args...)
	}
}

// halt converts a fatal boot error into a Go panic carrying the
// *bootfail.Error, rather than calling bootfail.Panic directly: the
// actual hlt/wfi halt loop is a property of the running firmware, so
// only the cmd/ entry points recover this panic and call bootfail.Panic
// with the real Halter. This keeps every internal package's fatal paths
// exercisable with recover()/testify's require.Panics instead of
// blocking forever inside a test.
func (o *Orchestrator) halt(err error) {
	o.log("BOOTLOADER PANIC: %v", err)
	panic(err)
}

// Result is everything the Handoff state (spec.md §4.5 state 11)
// needs besides the architecture-specific register writes kernelentry
// performs.
type Result struct {
	Args       kernelargs.Args
	ArgsPhys   uint64
	Transition kernelentry.Transition
}

// Run drives states 1 (Init is the caller's responsibility: by the time
// Run is called, firmware.OS already has console/heap set up) through
// 11, returning the assembled Result. Every failure except retryable
// password rejection is fatal (spec.md §7): Run signals that with a Go
// panic carrying a *bootfail.Error (see halt), which the cmd/ entry
// point recovers and turns into the real bootfail.Panic halt sequence.
func (o *Orchestrator) Run() Result {
	fs, password := o.openFilesystem()

	fb0, outputs := o.selectModes()

	stackBase := o.cfg.OS.AllocZeroedPageAligned(StackSize)

	var liveBase, liveSize uint64
	haveLiveDisk := false
	if o.cfg.LiveDisk != nil {
		liveBase, liveSize = o.installLiveDisk()
		haveLiveDisk = true
	}

	kernelBase, kernelSize, entryPoint := o.loadKernel(fs)
	initfsBase, initfsSize := o.loadInitfs(fs)

	root, err := o.cfg.Paging.Create(kernelBase, kernelSize)
	if err != nil {
		o.halt(bootfail.New(bootfail.ResourceExhaustion, "paging create failed", err))
	}

	var fbVirt uint64
	if fb0.HasMode {
		fbVirt, err = o.cfg.Paging.Framebuffer(root, fb0.Mode.Base, fbFootprint(fb0.Mode))
		if err != nil {
			o.halt(bootfail.New(bootfail.ResourceExhaustion, "framebuffer mapping failed", err))
		}
	}

	hw := o.cfg.OS.HwDesc()

	envBytes := o.assembleEnv(envInputs{
		bootMode:     o.cfg.OS.Name(),
		hwDesc:       hw,
		liveBase:     liveBase,
		liveSize:     liveSize,
		haveLiveDisk: haveLiveDisk,
		redoxfsBlock: fs.BlockSize(),
		redoxfsUUID:  fs.UUID(),
		password:     password,
		hartID:       o.cfg.HartID,
		fb0:          fb0,
		fbVirt:       fbVirt,
		outputs:      outputs,
	})
	envBase := o.cfg.OS.AllocZeroedPageAligned(uint64(len(envBytes)))
	o.cfg.Mem.Write(envBase, envBytes)

	areaBytes := o.cfg.OS.Areas().Bytes()
	areasBase := o.cfg.OS.AllocZeroedPageAligned(uint64(len(areaBytes)))
	o.cfg.Mem.Write(areasBase, areaBytes)

	args := kernelargs.Args{
		KernelBase: kernelBase, KernelSize: kernelSize,
		StackBase: stackBase, StackSize: StackSize,
		EnvBase: envBase, EnvSize: uint64(len(envBytes)),
		AreasBase: areasBase, AreasSize: uint64(len(areaBytes)),
		BootstrapBase: initfsBase, BootstrapSize: initfsSize,
	}
	if hw.Kind == firmware.HwDescAcpi || hw.Kind == firmware.HwDescDeviceTree {
		args.AcpiRsdpBase, args.AcpiRsdpSize = hw.Base, hw.Size
	}

	if err := args.Validate(areatable.EntrySize); err != nil {
		o.halt(bootfail.New(bootfail.ResourceExhaustion, "kernel args failed validation", err))
	}

	argBuf := make([]byte, kernelargs.Size)
	args.Encode(argBuf)
	argsPhys := o.cfg.OS.AllocZeroedPageAligned(kernelargs.Size)
	o.cfg.Mem.Write(argsPhys, argBuf)

	o.cfg.OS.FinalizeMemoryMap()

	stackTop := uintptr(stackBase + StackSize + o.cfg.Paging.PhysOffset())
	transition := kernelentry.Enter(uintptr(root), uintptr(entryPoint), uintptr(argsPhys), stackTop, o.cfg.OS.ActivateRuntimeMap)

	return Result{Args: args, ArgsPhys: argsPhys, Transition: transition}
}

func fbFootprint(m firmware.VideoMode) uint64 {
	return uint64(m.Stride) * uint64(m.Height) * 4
}
