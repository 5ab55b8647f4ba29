package powder

import (
	"math"

	"powder-ca/pkg/core"
)

// jumpChance is the percent chance an actor hops onto a ledge it walks into.
const jumpChance = 70

type sighting struct {
	x, y  int
	found bool
}

// moveActor runs the behaviour state machine of a human or zombie and issues
// its movement intent. Combat and infection happen in the reaction pass.
func (w *World) moveActor(x, y, i int, c Cell, tick uint64, rng *core.RNG) bool {
	if c.Life < math.MaxInt16 {
		c.Life++
	}

	// Gravity beats intent.
	if w.walk(i, c, x, y+1) {
		return true
	}

	dir := -1
	if rng.Bool() {
		dir = 1
	}
	sight := w.params.ActorSight

	switch c.Element {
	case Human:
		threat := w.nearest(x, y, sight, func(id ElementID, e *Element) bool {
			return id == Zombie || e.Hazard
		})
		switch {
		case !threat.found:
			c.Mood = ActorIdle
		case adjacent(x, y, threat) && w.grid.at(threat.x, threat.y).Element == Zombie:
			c.Mood = ActorEngaging
		default:
			c.Mood = ActorFleeing
			dir = away(x, threat.x, dir)
		}
	case Zombie:
		prey := w.nearest(x, y, sight, func(id ElementID, _ *Element) bool { return id == Human })
		switch {
		case !prey.found:
			c.Mood = ActorIdle
		case adjacent(x, y, prey):
			c.Mood = ActorEngaging
		default:
			c.Mood = ActorSeeking
			dir = -away(x, prey.x, -dir)
		}
	}

	if c.Mood == ActorEngaging || (c.Mood == ActorIdle && !rng.Chance(50)) {
		w.grid.write(i, c)
		return false
	}
	if w.walk(i, c, x+dir, y) {
		return true
	}
	if w.open(x+dir, y-1) && w.open(x, y-1) && rng.Chance(jumpChance) && w.walk(i, c, x, y-1) {
		return true
	}
	if w.walk(i, c, x-dir, y) {
		return true
	}
	w.grid.write(i, c)
	return false
}

// walk moves an actor into an empty or gas cell.
func (w *World) walk(i int, c Cell, tx, ty int) bool {
	if !w.open(tx, ty) {
		return false
	}
	j := w.grid.index(tx, ty)
	if w.grid.claimed(j) {
		return false
	}
	return w.swap(i, j, c, w.grid.cells[j])
}

func (w *World) open(x, y int) bool {
	if !w.grid.InBounds(x, y) {
		return false
	}
	t := w.grid.cells[w.grid.index(x, y)]
	return t.Element == Empty || w.table.Get(t.Element).Category == CategoryGas
}

// nearest finds the closest matching cell within Chebyshev radius r. Ties go
// to the first match in row-major order.
func (w *World) nearest(x, y, r int, match func(ElementID, *Element) bool) sighting {
	best := sighting{}
	bestDist := r + 1
	g := w.grid
	r = g.clampRadius(r)
	for ny := max(y-r, 0); ny <= min(y+r, g.h-1); ny++ {
		for nx := max(x-r, 0); nx <= min(x+r, g.w-1); nx++ {
			if nx == x && ny == y {
				continue
			}
			id := g.cells[g.index(nx, ny)].Element
			if id == Empty || !match(id, w.table.Get(id)) {
				continue
			}
			d := max(abs(nx-x), abs(ny-y))
			if d < bestDist {
				bestDist = d
				best = sighting{x: nx, y: ny, found: true}
			}
		}
	}
	return best
}

func adjacent(x, y int, s sighting) bool {
	return s.found && abs(s.x-x) <= 1 && abs(s.y-y) <= 1
}

// away returns the x direction pointing from tx towards x, or fallback when
// they share a column.
func away(x, tx, fallback int) int {
	switch {
	case tx < x:
		return 1
	case tx > x:
		return -1
	default:
		return fallback
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
