package powder

import "fmt"

// Scenes lists the layouts LoadScene understands.
func Scenes() []string { return []string{"empty", "demo", "circuit"} }

// LoadScene replaces the grid contents with a named layout.
//
//	empty    nothing at all
//	demo     a walled basin with sand, water, oil, wood, a fire and a few people
//	circuit  a wire run from a powered end to a gunpowder charge
func (w *World) LoadScene(name string) error {
	if !w.mu.TryLock() {
		return ErrBusy
	}
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	var build func()
	switch name {
	case "empty":
		build = func() {}
	case "demo":
		build = w.demoScene
	case "circuit":
		build = w.circuitScene
	default:
		return fmt.Errorf("%w: %q", ErrUnknownScene, name)
	}
	w.grid.fill(Cell{Temp: w.ambient()})
	w.pending = w.pending[:0]
	build()
	w.rebuildDisplay()
	w.log.Debugf("powder: loaded scene %q", name)
	return nil
}

// put writes a fresh cell, silently skipping coordinates off the grid.
func (w *World) put(x, y int, id ElementID) {
	if w.grid.InBounds(x, y) && w.table.Valid(id) {
		w.grid.cells[w.grid.index(x, y)] = w.spawn(id, w.host.Uint8())
	}
}

func (w *World) rect(x0, y0, x1, y1 int, id ElementID) {
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			w.put(x, y, id)
		}
	}
}

func (w *World) demoScene() {
	width, height := w.grid.Dimensions()
	floor := height - 1
	w.rect(0, floor, width-1, floor, Wall)
	w.rect(0, height/3, 0, floor, Wall)
	w.rect(width-1, height/3, width-1, floor, Wall)

	// Basin of water with an oil slick, left third.
	third := width / 3
	w.rect(1, floor-height/6, third, floor-1, Water)
	w.rect(1, floor-height/6-2, third, floor-height/6-1, Oil)
	w.rect(third+1, floor-height/4, third+1, floor-1, Stone)

	// Sand heap in the middle, a timber stack with a fire on the right.
	mid := width / 2
	for dy := 0; dy < height/5; dy++ {
		w.rect(mid-dy, floor-height/5+dy, mid+dy, floor-height/5+dy, Sand)
	}
	w.rect(width-third, floor-4, width-3, floor-1, Wood)
	w.put(width-third, floor-5, Fire)

	// Dirt with a few seedlings and people wandering the ledge.
	w.rect(third+2, floor-1, mid-height/5, floor-1, Dirt)
	for x := third + 3; x < mid-height/5; x += 4 {
		w.put(x, floor-2, Plant)
	}
	w.put(third+4, floor-3, Human)
	w.put(third+6, floor-3, Human)
	w.put(width-third-4, floor-1, Zombie)
}

func (w *World) circuitScene() {
	width, height := w.grid.Dimensions()
	row := height / 2
	w.rect(0, height-1, width-1, height-1, Wall)
	w.rect(2, row+1, width-3, row+1, Stone)
	w.rect(2, row, width-6, row, Wire)
	w.rect(width-5, row-1, width-3, row, Gunpowder)
	w.rect(width/2, height-4, width/2+4, height-2, Water)
	if w.grid.InBounds(2, row) {
		i := w.grid.index(2, row)
		w.grid.cells[i].Charge = ChargeConducting
	}
}
