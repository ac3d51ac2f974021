//go:build 386 || amd64

package archsetup

// PreferDeviceTree reports whether this architecture looks for a DTB
// config-table entry before ACPI (spec.md §4.3: "on ARM/RISC-V prefer
// DTB... on x86 prefer ACPI").
func PreferDeviceTree() bool { return false }
