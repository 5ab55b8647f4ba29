// Package render converts world state into RGBA pixel buffers.
package render

import (
	"image/color"

	"powder-ca/pkg/sims/powder"

	"github.com/crazy3lf/colorconv"
)

// FillPalette converts palette indices into RGBA pixels in buf. When the
// palette is empty the buffer is cleared to transparent black.
func FillPalette(buf []byte, cells []uint8, palette []color.RGBA) {
	if len(palette) == 0 {
		clear(buf[:len(cells)*4])
		return
	}

	last := len(palette) - 1
	for i, c := range cells {
		idx := int(c)
		if idx > last {
			idx = last
		}
		base := i * 4
		col := palette[idx]
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}

// Heat range shown by FillHeat. Temperatures outside it saturate.
const (
	HeatMin = -50
	HeatMax = 1200
)

// FillHeat writes a translucent heat map: blue for cold through red for hot.
// Cells within a degree of ambient stay transparent.
func FillHeat(buf []byte, temps []float32, ambient float32) {
	for i, t := range temps {
		base := i * 4
		d := t - ambient
		if d > -1 && d < 1 {
			buf[base+0], buf[base+1], buf[base+2], buf[base+3] = 0, 0, 0, 0
			continue
		}
		n := (float64(t) - HeatMin) / (HeatMax - HeatMin)
		n = min(max(n, 0), 1)
		r, g, b, err := colorconv.HSVToRGB(240*(1-n), 0.9, 1)
		if err != nil {
			r, g, b = 255, 0, 255
		}
		buf[base+0] = r
		buf[base+1] = g
		buf[base+2] = b
		buf[base+3] = 150
	}
}

// FillCharge highlights energized cells: white while discharging, a dim
// violet during cooldown.
func FillCharge(buf []byte, charges []powder.ChargeState) {
	for i, s := range charges {
		base := i * 4
		var col color.RGBA
		switch s {
		case powder.ChargeConducting:
			col = color.RGBA{R: 255, G: 240, B: 120, A: 200}
		case powder.ChargeDischarging:
			col = color.RGBA{R: 255, G: 255, B: 255, A: 230}
		case powder.ChargeCooldown:
			col = color.RGBA{R: 120, G: 80, B: 200, A: 140}
		}
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}
