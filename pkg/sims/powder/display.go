package powder

import (
	"image/color"

	"github.com/crazy3lf/colorconv"
)

// Display frames encode each cell as one palette index: the element id in the
// upper six bits and two bits of variant jitter below. Live charge overrides
// the element colour.
const (
	variantBits  = 2
	variantMask  = 1<<variantBits - 1
	paletteSpark = 255
	// paletteOverflow is shared by element ids that do not fit in six bits.
	paletteOverflow = 252

	maxPaletteElement = paletteOverflow >> variantBits
)

// PaletteIndex returns the display value for a cell.
func PaletteIndex(c Cell) uint8 {
	if c.Element == Empty {
		return 0
	}
	if c.Charge.Energized() {
		return paletteSpark
	}
	if int(c.Element) >= maxPaletteElement {
		return paletteOverflow
	}
	return uint8(c.Element)<<variantBits | c.Seed&variantMask
}

// PaletteElement decodes the element id from a display value. Spark and
// overflow entries report ok == false.
func PaletteElement(idx uint8) (ElementID, bool) {
	if idx == paletteSpark || idx >= paletteOverflow {
		return Empty, false
	}
	return ElementID(idx >> variantBits), true
}

// Palette returns 256 colours matching PaletteIndex, built from the element
// table's HSV values with a small brightness jitter per variant.
func (w *World) Palette() []color.RGBA {
	w.paletteOnce.Do(func() {
		w.palette = BuildPalette(w.table)
	})
	return w.palette
}

// BuildPalette renders the display palette for a table.
func BuildPalette(t *ElementTable) []color.RGBA {
	palette := make([]color.RGBA, 256)
	palette[0] = color.RGBA{R: 12, G: 12, B: 16, A: 255}
	for _, e := range t.All() {
		if e.ID == Empty || int(e.ID) >= maxPaletteElement {
			continue
		}
		for v := 0; v <= variantMask; v++ {
			val := e.Val * (0.9 + 0.05*float64(v))
			palette[int(e.ID)<<variantBits|v] = hsv(e.Hue, e.Sat, min(val, 1))
		}
	}
	palette[paletteOverflow] = color.RGBA{R: 128, G: 0, B: 128, A: 255}
	palette[paletteSpark] = color.RGBA{R: 255, G: 250, B: 170, A: 255}
	return palette
}

func hsv(h, s, v float64) color.RGBA {
	r, g, b, err := colorconv.HSVToRGB(h, s, v)
	if err != nil {
		return color.RGBA{R: 255, G: 0, B: 255, A: 255}
	}
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// glyph returns the text-mode glyph for a cell. Actors alternate between an
// upper- and lower-case figure as their animation clock advances.
func (w *World) glyph(c Cell) rune {
	e := w.table.Get(c.Element)
	if e.Category == CategoryActor && (c.Life/6)%2 != 0 {
		switch e.Glyph {
		case 'Y':
			return 'y'
		case 'T':
			return 't'
		}
	}
	return e.Glyph
}

// Glyph returns the text-mode glyph at (x, y), or a space outside the grid.
func (w *World) Glyph(x, y int) rune {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed || !w.grid.InBounds(x, y) {
		return ' '
	}
	return w.glyph(w.grid.cells[w.grid.index(x, y)])
}

// Glyphs fills dst with the glyph of every cell in row-major order.
func (w *World) Glyphs(dst []rune) []rune {
	w.mu.RLock()
	defer w.mu.RUnlock()
	n := len(w.grid.cells)
	if cap(dst) < n {
		dst = make([]rune, n)
	}
	dst = dst[:n]
	for i, c := range w.grid.cells {
		dst[i] = w.glyph(c)
	}
	return dst
}

// Temperatures copies the temperature field into dst.
func (w *World) Temperatures(dst []float32) []float32 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	n := len(w.grid.cells)
	if cap(dst) < n {
		dst = make([]float32, n)
	}
	dst = dst[:n]
	for i, c := range w.grid.cells {
		dst[i] = c.Temp
	}
	return dst
}

// Charges copies the charge field into dst.
func (w *World) Charges(dst []ChargeState) []ChargeState {
	w.mu.RLock()
	defer w.mu.RUnlock()
	n := len(w.grid.cells)
	if cap(dst) < n {
		dst = make([]ChargeState, n)
	}
	dst = dst[:n]
	for i, c := range w.grid.cells {
		dst[i] = c.Charge
	}
	return dst
}
