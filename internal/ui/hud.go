//go:build ebiten

package ui

import (
	"fmt"
	"image"
	"image/color"

	"powder-ca/pkg/sims/powder"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

// HUD renders the control panel to the right of the world view.
type HUD struct {
	*Panel

	world        *powder.World
	width        int
	panel        *ebiten.Image
	lastHeight   int
	panelOffsetX int

	pixel *ebiten.Image
}

// NewHUD constructs a HUD for the world and panel width.
func NewHUD(w *powder.World, width int) *HUD {
	width = max(width, 0)
	h := &HUD{Panel: NewPanel(w, width), world: w, width: width}
	if width > 0 {
		h.pixel = ebiten.NewImage(1, 1)
		h.pixel.Fill(color.White)
	}
	return h
}

// Update refreshes the parameter values and handles clicks on the panel. It
// reports whether the click was consumed so the host does not paint under it.
func (h *HUD) Update(panelOffsetX int) bool {
	if h == nil {
		return false
	}
	h.panelOffsetX = panelOffsetX
	h.Refresh(h.world.Parameters())
	if !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return false
	}
	mx, my := ebiten.CursorPosition()
	if mx < h.panelOffsetX {
		return false
	}
	return h.Click(mx-h.panelOffsetX, my)
}

// Draw paints the HUD anchored to the right edge of the world view.
func (h *HUD) Draw(screen *ebiten.Image, offsetX int, scale int) {
	if h == nil || h.width <= 0 {
		return
	}
	_, height := h.world.Dimensions()
	height *= max(scale, 1)
	if height <= 0 {
		return
	}
	if h.panel == nil || h.lastHeight != height {
		h.panel = ebiten.NewImage(h.width, height)
		h.lastHeight = height
	}
	h.panel.Fill(color.RGBA{R: 16, G: 16, B: 20, A: 255})
	h.drawControls()
	h.drawStats()
	h.drawSwatches()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}

var (
	textColor   = color.RGBA{R: 220, G: 220, B: 230, A: 255}
	mutedColor  = color.RGBA{R: 160, G: 160, B: 170, A: 255}
	headerColor = color.RGBA{R: 200, G: 200, B: 210, A: 255}
)

func (h *HUD) drawControls() {
	face := basicfont.Face7x13
	text.Draw(h.panel, "Powder Controls", face, panelPadding, panelPadding+headerBaseline, headerColor)
	for i := range h.controls {
		state := &h.controls[i]
		y := state.top + labelBaseline
		text.Draw(h.panel, state.control.Label, face, panelPadding, y, textColor)
		col := textColor
		if !state.hasValue {
			col = mutedColor
		}
		bounds := text.BoundString(face, state.value)
		x := state.minusRect.Min.X - buttonGap - bounds.Dx()
		text.Draw(h.panel, state.value, face, x, y, col)

		h.drawButton(state.minusRect, "-", h.canAdjust(state, -1))
		h.drawButton(state.plusRect, "+", h.canAdjust(state, 1))
	}
}

func (h *HUD) drawStats() {
	face := basicfont.Face7x13
	st := h.world.Stats()
	y := controlsTop + len(h.controls)*lineHeight + 14
	text.Draw(h.panel, fmt.Sprintf("tick %d  mass %d", st.Tick, st.Mass), face, panelPadding, y, mutedColor)
	name := "-"
	if e, ok := h.world.Elements().Lookup(h.Selected()); ok {
		name = e.Name
	}
	text.Draw(h.panel, "brush: "+name, face, panelPadding, y+16, textColor)
}

func (h *HUD) drawSwatches() {
	palette := h.world.Palette()
	for i, s := range h.swatches {
		col := palette[powder.PaletteIndex(powder.Cell{Element: s.id})]
		if i == h.selected {
			h.fillRect(s.rect.Inset(-2), color.RGBA{R: 240, G: 240, B: 240, A: 255})
		}
		h.fillRect(s.rect, col)
	}
}

func (h *HUD) drawButton(rect image.Rectangle, label string, enabled bool) {
	bg := color.RGBA{R: 54, G: 56, B: 64, A: 255}
	fg := color.RGBA{R: 230, G: 230, B: 240, A: 255}
	if !enabled {
		bg = color.RGBA{R: 32, G: 34, B: 40, A: 255}
		fg = color.RGBA{R: 120, G: 120, B: 130, A: 255}
	}
	h.fillRect(rect, bg)

	face := basicfont.Face7x13
	bounds := text.BoundString(face, label)
	x := rect.Min.X + (rect.Dx()-bounds.Dx())/2
	y := rect.Min.Y + (rect.Dy()-bounds.Dy())/2 + bounds.Dy()
	text.Draw(h.panel, label, face, x, y, fg)
}

func (h *HUD) fillRect(rect image.Rectangle, col color.RGBA) {
	if h.pixel == nil {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(rect.Dx()), float64(rect.Dy()))
	op.GeoM.Translate(float64(rect.Min.X), float64(rect.Min.Y))
	op.ColorScale.ScaleWithColor(col)
	h.panel.DrawImage(h.pixel, op)
}
