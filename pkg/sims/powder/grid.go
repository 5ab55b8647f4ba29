package powder

import "fmt"

// Change is one staged write recorded by a pass.
type Change struct {
	Index int
	Cell  Cell
}

// Grid owns the cell buffer. Passes never mutate it in place: they claim a
// coordinate, stage the new value, and every staged value lands at once on
// commit. Reads during a pass therefore always see the previous commit.
type Grid struct {
	w, h  int
	cells []Cell

	// claims holds the epoch in which each index was last claimed; bumping
	// the epoch clears every claim in O(1).
	claims  []uint32
	epoch   uint32
	changes []Change

	boundary Cell
}

// NewGrid allocates a w*h grid of empty cells at the given temperature.
// Reads outside the grid return boundary.
func NewGrid(w, h int, boundary Cell, ambient float32) *Grid {
	g := &Grid{
		w:        w,
		h:        h,
		cells:    make([]Cell, w*h),
		claims:   make([]uint32, w*h),
		epoch:    1,
		boundary: boundary,
	}
	g.fill(Cell{Temp: ambient})
	return g
}

// Dimensions returns the grid width and height.
func (g *Grid) Dimensions() (int, int) { return g.w, g.h }

// InBounds reports whether (x, y) addresses a cell.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.w && y < g.h
}

// Get returns the committed cell at (x, y).
func (g *Grid) Get(x, y int) (Cell, error) {
	if !g.InBounds(x, y) {
		return Cell{}, fmt.Errorf("%w: (%d,%d) in %dx%d", ErrOutOfBounds, x, y, g.w, g.h)
	}
	return g.cells[y*g.w+x], nil
}

// Set writes a cell directly. It is meant for host mutations between ticks;
// passes use claim/stage instead.
func (g *Grid) Set(x, y int, c Cell) error {
	if !g.InBounds(x, y) {
		return fmt.Errorf("%w: (%d,%d) in %dx%d", ErrOutOfBounds, x, y, g.w, g.h)
	}
	g.cells[y*g.w+x] = c
	return nil
}

// Changes exposes the writes staged since the last commit.
func (g *Grid) Changes() []Change { return g.changes }

func (g *Grid) index(x, y int) int { return y*g.w + x }

func (g *Grid) coords(i int) (int, int) { return i % g.w, i / g.w }

// at is the boundary-aware read used by passes.
func (g *Grid) at(x, y int) Cell {
	if !g.InBounds(x, y) {
		return g.boundary
	}
	return g.cells[y*g.w+x]
}

// maxRadius keeps r*r far from overflow. Disc scans clip their bounds to the
// grid, so their cost never exceeds one pass over the cells.
const maxRadius = 1 << 20

func (g *Grid) clampRadius(r int) int {
	return min(max(r, 0), maxRadius)
}

func (g *Grid) claimed(i int) bool { return g.claims[i] == g.epoch }

// claim reserves index i for a single writer this pass. It reports false when
// another writer already holds it.
func (g *Grid) claim(i int) bool {
	if g.claims[i] == g.epoch {
		return false
	}
	g.claims[i] = g.epoch
	return true
}

// stage records a write to an index the caller has claimed.
func (g *Grid) stage(i int, c Cell) {
	g.changes = append(g.changes, Change{Index: i, Cell: c})
}

// write claims and stages in one step.
func (g *Grid) write(i int, c Cell) bool {
	if !g.claim(i) {
		return false
	}
	g.stage(i, c)
	return true
}

// rollback drops the writes staged from mark onwards and frees their claims
// so other writers may still take those cells this pass.
func (g *Grid) rollback(mark int) {
	for _, ch := range g.changes[mark:] {
		g.claims[ch.Index] = g.epoch - 1
	}
	g.changes = g.changes[:mark]
}

// commit applies staged writes, releases claims and returns the write count.
func (g *Grid) commit() int {
	n := len(g.changes)
	for _, ch := range g.changes {
		g.cells[ch.Index] = ch.Cell
	}
	g.changes = g.changes[:0]
	g.epoch++
	if g.epoch == 0 {
		for i := range g.claims {
			g.claims[i] = 0
		}
		g.epoch = 1
	}
	return n
}

func (g *Grid) fill(c Cell) {
	for i := range g.cells {
		g.cells[i] = c
	}
}

// count returns the number of non-empty cells.
func (g *Grid) count() int {
	n := 0
	for i := range g.cells {
		if g.cells[i].Element != Empty {
			n++
		}
	}
	return n
}
