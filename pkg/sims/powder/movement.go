package powder

import "powder-ca/pkg/core"

// Independent random streams per pass, so adding a roll to one pass never
// shifts the outcomes of another.
const (
	streamMovement uint8 = 1
	streamReaction uint8 = 2
)

// gasDrift is the percent chance a gas tries to drift sideways before rising.
const gasDrift = 25

// movementPass resolves gravity and buoyancy for every mobile cell once.
// Targets are judged against the committed grid; every accepted move claims
// both its source and its destination, so no coordinate gets two writers.
// Actors go first so their intents take priority over falling matter.
func (w *World) movementPass(tick uint64) int {
	rng := core.TickRNG(w.cfg.Seed, tick, streamMovement)
	moves := 0
	g := w.grid

	w.scan(tick, func(x, y, i int) {
		c := g.cells[i]
		if c.Element == Empty || g.claimed(i) || w.table.Get(c.Element).Category != CategoryActor {
			return
		}
		w.guard(PassMovement, x, y, func() {
			if w.moveActor(x, y, i, c, tick, rng) {
				moves++
			}
		})
	})

	w.scan(tick, func(x, y, i int) {
		c := g.cells[i]
		if c.Element == Empty || g.claimed(i) {
			return
		}
		e := w.table.Get(c.Element)
		if !e.Moves() || e.Category == CategoryActor {
			return
		}
		w.guard(PassMovement, x, y, func() {
			if w.moveCell(x, y, i, c, e, tick, rng) {
				moves++
			}
		})
	})

	w.commit(PassMovement)
	return moves
}

func (w *World) moveCell(x, y, i int, c Cell, e *Element, tick uint64, rng *core.RNG) bool {
	if e.FallPeriod > 1 {
		if int(c.Phase)+1 < e.FallPeriod {
			c.Phase++
			w.grid.write(i, c)
			return false
		}
		c.Phase = 0
	}
	flip := (c.Seed^uint8(tick))&1 == 1

	var moved bool
	switch e.Category {
	case CategoryPowder:
		moved = w.fall(x, y, i, c, e, flip, false)
	case CategoryLiquid:
		moved = w.fall(x, y, i, c, e, flip, false) || w.spread(x, y, i, c, e, flip, false)
	case CategoryGas:
		if rng.Chance(gasDrift) {
			moved = w.spread(x, y, i, c, e, flip, true) || w.fall(x, y, i, c, e, flip, true)
		} else {
			moved = w.fall(x, y, i, c, e, flip, true) || w.spread(x, y, i, c, e, flip, true)
		}
	case CategoryEnergy:
		moved = rng.Chance(50) && w.tryMove(i, c, e, x, y-1, true)
	}
	if !moved && e.FallPeriod > 1 {
		// Blocked: restart the pacing count.
		w.grid.write(i, c)
	}
	return moved
}

// fall tries straight down (up when rising), then both diagonals in an order
// picked by the cell's jitter.
func (w *World) fall(x, y, i int, c Cell, e *Element, flip, rising bool) bool {
	dy := 1
	if rising {
		dy = -1
	}
	if w.tryMove(i, c, e, x, y+dy, rising) {
		return true
	}
	dx := 1
	if flip {
		dx = -1
	}
	return w.tryMove(i, c, e, x+dx, y+dy, rising) || w.tryMove(i, c, e, x-dx, y+dy, rising)
}

// spread slides a fluid sideways up to its diffusion distance. The slide stops
// at the first blocked or claimed cell and after entering any non-empty cell.
func (w *World) spread(x, y, i int, c Cell, e *Element, flip, rising bool) bool {
	if e.Diffusion <= 0 {
		return false
	}
	g := w.grid
	dirs := [2]int{1, -1}
	if flip {
		dirs = [2]int{-1, 1}
	}
	for _, d := range dirs {
		best := -1
		for s := 1; s <= e.Diffusion; s++ {
			tx := x + d*s
			if !g.InBounds(tx, y) {
				break
			}
			j := g.index(tx, y)
			if g.claimed(j) || !w.displaces(e, g.cells[j], rising) {
				break
			}
			best = j
			if g.cells[j].Element != Empty {
				break
			}
		}
		if best >= 0 {
			return w.swap(i, best, c, g.cells[best])
		}
	}
	return false
}

func (w *World) tryMove(i int, c Cell, e *Element, tx, ty int, rising bool) bool {
	g := w.grid
	if !g.InBounds(tx, ty) {
		return false
	}
	j := g.index(tx, ty)
	if g.claimed(j) {
		return false
	}
	t := g.cells[j]
	if !w.displaces(e, t, rising) {
		return false
	}
	return w.swap(i, j, c, t)
}

// displaces reports whether mover may trade places with target. Sinking
// movers displace lighter fluids; rising ones displace heavier gases.
func (w *World) displaces(mover *Element, target Cell, rising bool) bool {
	if target.Element == Empty {
		return true
	}
	te := w.table.Get(target.Element)
	if !te.Fluid() {
		return false
	}
	if rising {
		return te.Category == CategoryGas && te.Density > mover.Density
	}
	return te.Density < mover.Density
}

// swap stages mover at j and displaced at i, claiming both.
func (w *World) swap(i, j int, mover, displaced Cell) bool {
	g := w.grid
	if i == j || g.claimed(i) || g.claimed(j) {
		return false
	}
	g.claim(i)
	g.claim(j)
	g.stage(j, mover)
	g.stage(i, displaced)
	return true
}
