//go:build !ebiten

package ui

import "powder-ca/pkg/sims/powder"

// HUD wraps the panel state in headless builds; it never draws.
type HUD struct {
	*Panel
}

// NewHUD returns a HUD whose panel still tracks brush selection.
func NewHUD(w *powder.World, width int) *HUD { return &HUD{Panel: NewPanel(w, width)} }

// Update is a no-op in the headless build.
func (h *HUD) Update(int) bool { return false }

// Draw is a no-op in the headless build.
func (h *HUD) Draw(any, int, int) {}

// Overlay is a no-op placeholder used when the ebiten build tag is absent.
type Overlay struct{}

// NewOverlay constructs a stub overlay.
func NewOverlay(*powder.World, int) *Overlay { return &Overlay{} }

// Update is a no-op in headless builds.
func (o *Overlay) Update() {}

// Draw is a no-op placeholder.
func (o *Overlay) Draw(any) {}
