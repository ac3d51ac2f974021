package boot

import (
	"github.com/redox-os/bootloader/internal/firmware"
	"github.com/redox-os/bootloader/internal/modepicker"
)

// SelectedOutput is one display output's chosen mode, or the lack of
// one when the output reported zero valid modes (spec.md §4.5 state 4:
// "skip (output without modes)").
type SelectedOutput struct {
	Mode   firmware.VideoMode
	HasMode bool
}

// selectModes runs the ModeSelect state (spec.md §4.5 state 4) across
// every video output. Output 0 gets the interactive grid and its
// selection is activated via SetVideoMode, since only it participates in
// framebuffer mapping; the remaining outputs are preselected (EDID
// preferred, else largest by area) but not interactively navigated —
// they are only recorded as FRAMEBUFFERn env lines, never mapped.
func (o *Orchestrator) selectModes() (fb0 SelectedOutput, rest []SelectedOutput) {
	n := o.cfg.OS.VideoOutputs()
	if n == 0 {
		return SelectedOutput{}, nil
	}

	out0 := o.cfg.OS.VideoModes(0)
	fb0 = o.runInteractiveGrid(0, out0)

	rest = make([]SelectedOutput, 0, n-1)
	for i := 1; i < n; i++ {
		out := o.cfg.OS.VideoModes(i)
		if len(out.Modes) == 0 {
			rest = append(rest, SelectedOutput{})
			continue
		}
		id, ok := preferredID(out)
		grid := modepicker.NewGrid(out.Modes, id, ok)
		rest = append(rest, SelectedOutput{Mode: grid.Current(), HasMode: true})
	}
	return fb0, rest
}

// runInteractiveGrid drives the Left/Right/Up/Down/Enter navigation of
// spec.md §4.5 state 4 for a single output, then activates the
// committed mode via SetVideoMode.
func (o *Orchestrator) runInteractiveGrid(i int, out firmware.VideoOutput) SelectedOutput {
	if len(out.Modes) == 0 {
		return SelectedOutput{}
	}

	id, ok := preferredID(out)
	grid := modepicker.NewGrid(out.Modes, id, ok)
	for {
		ev := o.cfg.OS.GetKey()
		switch ev.Key {
		case firmware.KeyLeft:
			grid.MoveLeft()
		case firmware.KeyRight:
			grid.MoveRight()
		case firmware.KeyUp:
			grid.MoveUp()
		case firmware.KeyDown:
			grid.MoveDown()
		case firmware.KeyEnter:
			mode := grid.Current()
			if err := o.cfg.OS.SetVideoMode(i, &mode); err != nil {
				o.halt(err)
			}
			return SelectedOutput{Mode: mode, HasMode: true}
		}
	}
}

// preferredID maps a VideoOutput's EDID-reported preferred width/height
// back to the mode id NewGrid preselects against; ok is false if no mode
// matches the reported resolution.
func preferredID(out firmware.VideoOutput) (id uint32, ok bool) {
	if !out.HasPreferred {
		return 0, false
	}
	for _, m := range out.Modes {
		if m.Width == out.PreferredWidth && m.Height == out.PreferredHeigh {
			return m.ID, true
		}
	}
	return 0, false
}
