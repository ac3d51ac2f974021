package uefi

import "github.com/redox-os/bootloader/internal/firmware"

// Console is the seam over EFI_SIMPLE_TEXT_INPUT_PROTOCOL and
// EFI_SIMPLE_TEXT_OUTPUT_PROTOCOL (spec.md §4.3). The real implementation
// calls through the protocol's function pointers; it has no host-testable
// shape of its own (same "no hosted-OS UEFI application library" gap
// uefi.go's package doc notes for the raw table walk), so this package
// only defines the contract the orchestrator consumes.
type Console interface {
	GetKey() firmware.KeyEvent
	ClearText()
	GetTextPosition() (x, y int)
	SetTextPosition(x, y int)
	SetTextHighlight(on bool)
}
