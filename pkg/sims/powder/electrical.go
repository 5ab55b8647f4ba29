package powder

// electricalPass advances every charged cell exactly one state:
//
//	conducting  -> discharging (and charges idle conductive neighbours)
//	discharging -> cooldown
//	cooldown    -> cooldown with one tick less, then none
//
// A signal therefore travels one cell per tick, and a cell that just fired
// cannot be recharged until its cooldown runs out. Every cell written here is
// marked in w.shifted so the reaction pass leaves its charge alone.
func (w *World) electricalPass(tick uint64) int {
	g := w.grid
	cooldown := uint8(min(max(w.params.Cooldown, 0), 255))
	discharges := 0
	clear(w.shifted)

	for i := range g.cells {
		c := g.cells[i]
		if c.Charge == ChargeNone || g.claimed(i) {
			continue
		}
		x, y := g.coords(i)
		if !w.table.Get(c.Element).Conductive() {
			c.Charge, c.Timer = ChargeNone, 0
			g.write(i, c)
			continue
		}
		switch c.Charge {
		case ChargeConducting:
			c.Charge = ChargeDischarging
			if !g.write(i, c) {
				continue
			}
			discharges++
			w.emit(EventDischarge, x, y, tick)
			w.propagate(x, y)
		case ChargeDischarging:
			c.Charge, c.Timer = ChargeCooldown, cooldown
			if cooldown == 0 {
				c.Charge = ChargeNone
			}
			g.write(i, c)
		case ChargeCooldown:
			if c.Timer <= 1 {
				c.Charge, c.Timer = ChargeNone, 0
			} else {
				c.Timer--
			}
			g.write(i, c)
		default:
			c.Charge, c.Timer = ChargeNone, 0
			g.write(i, c)
		}
	}

	for _, ch := range g.changes {
		w.shifted[ch.Index] = true
	}
	w.commit(PassElectrical)
	return discharges
}

// propagate charges the idle conductive 8-neighbours of (x, y).
func (w *World) propagate(x, y int) {
	g := w.grid
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if (dx == 0 && dy == 0) || !g.InBounds(x+dx, y+dy) {
				continue
			}
			j := g.index(x+dx, y+dy)
			n := g.cells[j]
			if n.Charge != ChargeNone || !w.table.Get(n.Element).Conductive() {
				continue
			}
			n.Charge = ChargeConducting
			g.write(j, n)
		}
	}
}
