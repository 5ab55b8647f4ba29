//go:build ebiten

package ui

import (
	"powder-ca/internal/render"
	"powder-ca/pkg/sims/powder"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Overlay draws the temperature and charge fields on top of the world.
type Overlay struct {
	world      *powder.World
	scale      int
	showHeat   bool
	showCharge bool

	painter *render.GridPainter
	temps   []float32
	charges []powder.ChargeState
}

// NewOverlay constructs an overlay for the world.
func NewOverlay(w *powder.World, scale int) *Overlay {
	return &Overlay{world: w, scale: scale}
}

// Update toggles layers: T for heat, C for charge.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyT) {
		o.showHeat = !o.showHeat
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		o.showCharge = !o.showCharge
	}
}

// Draw renders the enabled layers onto screen.
func (o *Overlay) Draw(screen *ebiten.Image) {
	if !o.showHeat && !o.showCharge {
		return
	}
	w, h := o.world.Dimensions()
	if w <= 0 || h <= 0 {
		return
	}
	if o.painter == nil {
		o.painter = render.NewGridPainter(w, h)
	} else if pw, ph := o.painter.Size(); pw != w || ph != h {
		o.painter = render.NewGridPainter(w, h)
	}
	if o.showHeat {
		o.temps = o.world.Temperatures(o.temps)
		render.FillHeat(o.painter.Buffer(), o.temps, o.world.Ambient())
		o.painter.BlitBuffer(screen, o.scale)
	}
	if o.showCharge {
		o.charges = o.world.Charges(o.charges)
		render.FillCharge(o.painter.Buffer(), o.charges)
		o.painter.BlitBuffer(screen, o.scale)
	}
}
