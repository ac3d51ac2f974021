package uefi

// BlockDevice is the device-path metadata used to order candidate
// block devices before RedoxFS probing (spec.md §1: "discovering a
// RedoxFS filesystem on an attached block device").
type BlockDevice struct {
	Handle          uintptr
	IsESP           bool
	ParentHandle    uintptr // the whole-disk handle this partition's path descends from, 0 if not a partition
	DevicePathDepth int     // number of device-path nodes; OrderCandidates does not read it
}

// OrderCandidates ranks block devices the order they should be probed
// for a RedoxFS superblock: the EFI System Partition's own handle first
// (the loader usually sits right next to the RedoxFS partition it
// should boot), then any other partition sharing the ESP's parent disk,
// then every remaining device in the order the firmware enumerated
// them. This mirrors a device-path walk: ESP handle -> sibling
// partitions -> remaining devices.
func OrderCandidates(devices []BlockDevice) []BlockDevice {
	var espParent uintptr
	haveESP := false
	for _, d := range devices {
		if d.IsESP {
			espParent = d.ParentHandle
			haveESP = true
			break
		}
	}

	var esp, siblings, rest []BlockDevice
	for _, d := range devices {
		switch {
		case d.IsESP:
			esp = append(esp, d)
		case haveESP && d.ParentHandle != 0 && d.ParentHandle == espParent:
			siblings = append(siblings, d)
		default:
			rest = append(rest, d)
		}
	}

	out := make([]BlockDevice, 0, len(devices))
	out = append(out, esp...)
	out = append(out, siblings...)
	out = append(out, rest...)
	return out
}
