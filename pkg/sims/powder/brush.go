package powder

import (
	"fmt"

	"powder-ca/pkg/core"
)

// Blast products in percent of the roll: fire, then smoke, the rest gas.
const (
	blastFire  = 50
	blastSmoke = 80

	blastSmokeLife = 20
)

// PlaceBrush fills the disc of radius r around (cx, cy) with fresh cells of
// element id. Parts of the disc outside the grid are skipped. Lightning drops
// a bolt from (cx, cy) instead of painting a disc.
func (w *World) PlaceBrush(cx, cy, r int, id ElementID) error {
	if !w.mu.TryLock() {
		return ErrBusy
	}
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	if !w.table.Valid(id) {
		return fmt.Errorf("%w: id %d", ErrInvalidElement, id)
	}
	if id == Lightning {
		return w.strikeAt(cx, cy)
	}
	g := w.grid
	r = g.clampRadius(r)
	r2 := r * r
	for y := max(cy-r, 0); y <= min(cy+r, g.h-1); y++ {
		for x := max(cx-r, 0); x <= min(cx+r, g.w-1); x++ {
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy > r2 {
				continue
			}
			g.write(g.index(x, y), w.spawn(id, w.host.Uint8()))
		}
	}
	w.commit(PassHost)
	w.rebuildDisplay()
	return nil
}

// Strike drops a lightning bolt from (x, y). The bolt falls through empty and
// gas cells, fills its path with lightning and charges a conductor it lands on.
func (w *World) Strike(x, y int) error {
	if !w.mu.TryLock() {
		return ErrBusy
	}
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	return w.strikeAt(x, y)
}

func (w *World) strikeAt(x, y int) error {
	g := w.grid
	if !g.InBounds(x, y) {
		return fmt.Errorf("%w: strike at (%d,%d)", ErrOutOfBounds, x, y)
	}
	if !w.table.Valid(Lightning) {
		return fmt.Errorf("%w: table has no lightning", ErrInvalidElement)
	}
	end := y
	for end+1 < g.h {
		below := g.cells[g.index(x, end+1)].Element
		if below != Empty && w.table.Get(below).Category != CategoryGas {
			break
		}
		end++
	}
	for yy := y; yy <= end; yy++ {
		g.write(g.index(x, yy), w.spawn(Lightning, w.host.Uint8()))
	}
	if end+1 < g.h {
		j := g.index(x, end+1)
		c := g.cells[j]
		if c.Charge == ChargeNone && w.table.Get(c.Element).Conductive() {
			c.Charge = ChargeConducting
			g.write(j, c)
		}
	}
	w.commit(PassHost)
	w.rebuildDisplay()
	w.pending = append(w.pending, Event{Kind: EventStrike, X: x, Y: end, Tick: w.tick})
	return nil
}

// Explode detonates a blast of radius r centred on (cx, cy).
func (w *World) Explode(cx, cy, r int) error {
	if !w.mu.TryLock() {
		return ErrBusy
	}
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	if !w.grid.InBounds(cx, cy) {
		return fmt.Errorf("%w: explosion at (%d,%d)", ErrOutOfBounds, cx, cy)
	}
	w.blast(cx, cy, r, w.host)
	w.commit(PassHost)
	w.rebuildDisplay()
	w.pending = append(w.pending, Event{Kind: EventExplosion, X: cx, Y: cy, Tick: w.tick})
	return nil
}

// blast turns every unclaimed, non blast-proof cell within radius into fire,
// smoke or gas and returns how many cells it claimed. Products missing from
// the table leave empty cells.
func (w *World) blast(cx, cy, radius int, rng *core.RNG) int {
	g := w.grid
	radius = g.clampRadius(radius)
	r2 := radius * radius
	n := 0
	for y := max(cy-radius, 0); y <= min(cy+radius, g.h-1); y++ {
		for x := max(cx-radius, 0); x <= min(cx+radius, g.w-1); x++ {
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy > r2 {
				continue
			}
			j := g.index(x, y)
			if g.claimed(j) || w.table.Get(g.cells[j].Element).BlastProof {
				continue
			}
			var nc Cell
			switch roll := rng.IntRange(1, 100); {
			case roll <= blastFire:
				nc = w.spawn(Fire, rng.Uint8())
				nc.Life = int16(15 + rng.IntRange(0, 10))
			case roll <= blastSmoke:
				nc = w.spawn(Smoke, rng.Uint8())
				nc.Life = blastSmokeLife
			default:
				nc = w.spawn(Gas, rng.Uint8())
				nc.Life = blastSmokeLife
			}
			if g.write(j, nc) {
				n++
			}
		}
	}
	return n
}
