// Package modepicker renders the ModeSelect grid (spec.md §4.5 state 4):
// a 12-row x N-column grid of mode cells, 20 characters each, sorted by
// pixel area descending, with the current selection highlighted. It
// draws to an in-memory backbuffer with gg.Context and blits the result
// into the firmware's linear framebuffer, the same gg-context-then-flush
// shape the teacher uses to draw onto a Bochs framebuffer
// (gg_circle_qemu.go's initGGContext/flushGGToFramebuffer).
package modepicker

import (
	"fmt"
	"image"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/redox-os/bootloader/internal/firmware"
)

// Rows is the fixed grid height (spec.md §4.5 state 4: "12 rows").
const Rows = 12

// CellWidthChars is the fixed cell width in character cells.
const CellWidthChars = 20

// charWidthPx/charHeightPx size one text cell using basicfont.Face7x13's
// fixed advance and line height.
const (
	charWidthPx  = 7
	charHeightPx = 13
	cellPaddingPx = 4
)

func cellWidthPx() int  { return CellWidthChars*charWidthPx + cellPaddingPx*2 }
func cellHeightPx() int { return charHeightPx + cellPaddingPx*2 }

// Grid lays out modes into Rows rows and however many columns are needed,
// column-major (so Up/Down within a column and Left/Right by Rows per
// spec.md §4.5 state 4 both move to adjacent grid cells).
type Grid struct {
	Modes    []firmware.VideoMode
	Selected int
}

// NewGrid sorts modes by pixel area descending and preselects the
// EDID-preferred mode if one is named by preferredID, else index 0.
func NewGrid(modes []firmware.VideoMode, preferredID uint32, hasPreferred bool) *Grid {
	sorted := append([]firmware.VideoMode(nil), modes...)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j].PixelArea() > sorted[j-1].PixelArea(); j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}
	sel := 0
	if hasPreferred {
		for i, m := range sorted {
			if m.ID == preferredID {
				sel = i
				break
			}
		}
	}
	return &Grid{Modes: sorted, Selected: sel}
}

// MoveLeft/MoveRight jump by Rows (one column); MoveUp/MoveDown move by
// one, wrapping within the current column (spec.md §4.5 state 4).
func (g *Grid) MoveLeft()  { g.moveColumn(-1) }
func (g *Grid) MoveRight() { g.moveColumn(1) }

func (g *Grid) moveColumn(delta int) {
	if len(g.Modes) == 0 {
		return
	}
	next := g.Selected + delta*Rows
	if next < 0 || next >= len(g.Modes) {
		return
	}
	g.Selected = next
}

func (g *Grid) MoveUp()   { g.moveRow(-1) }
func (g *Grid) MoveDown() { g.moveRow(1) }

func (g *Grid) moveRow(delta int) {
	if len(g.Modes) == 0 {
		return
	}
	col := g.Selected / Rows
	row := g.Selected % Rows
	colStart := col * Rows
	colLen := Rows
	if colStart+colLen > len(g.Modes) {
		colLen = len(g.Modes) - colStart
	}
	row = ((row+delta)%colLen + colLen) % colLen
	g.Selected = colStart + row
}

// Current returns the mode at the selection cursor.
func (g *Grid) Current() firmware.VideoMode { return g.Modes[g.Selected] }

// Render draws the grid to a width x height RGBA backbuffer.
func Render(g *Grid, width, height int) *image.RGBA {
	ctx := gg.NewContext(width, height)
	ctx.SetRGB(0, 0, 0)
	ctx.Clear()
	ctx.SetFontFace(basicfont.Face7x13)

	for i, m := range g.Modes {
		row := i % Rows
		col := i / Rows
		x := float64(col * cellWidthPx())
		y := float64(row * cellHeightPx())

		if i == g.Selected {
			ctx.SetRGB(0.2, 0.4, 0.8)
			ctx.DrawRectangle(x, y, float64(cellWidthPx()), float64(cellHeightPx()))
			ctx.Fill()
			ctx.SetRGB(1, 1, 1)
		} else {
			ctx.SetRGB(0.8, 0.8, 0.8)
		}

		label := fmt.Sprintf("%dx%d", m.Width, m.Height)
		ctx.DrawString(label, x+cellPaddingPx, y+cellPaddingPx+charHeightPx)
	}

	img, _ := ctx.Image().(*image.RGBA)
	return img
}

// Blit copies an RGBA backbuffer into a 32bpp linear framebuffer whose
// byte order is BGRX (the same convention the teacher's Bochs
// framebuffer uses, flushGGToFramebuffer in gg_circle_qemu.go).
// fbStride is in pixels, matching firmware.VideoMode.Stride.
func Blit(img *image.RGBA, fb []byte, fbStride uint32) {
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()
	for y := 0; y < h; y++ {
		srcRow := img.Pix[y*img.Stride:]
		dstRow := fb[y*int(fbStride)*4:]
		for x := 0; x < w; x++ {
			si := x * 4
			di := x * 4
			r := srcRow[si+0]
			gC := srcRow[si+1]
			b := srcRow[si+2]
			dstRow[di+0] = b
			dstRow[di+1] = gC
			dstRow[di+2] = r
			dstRow[di+3] = 0
		}
	}
}
