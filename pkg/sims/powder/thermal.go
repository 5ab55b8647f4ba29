package powder

import "golang.org/x/sync/errgroup"

// thermalPass injects heat from burning cells and then runs one explicit
// diffusion step. All reads come from w.temps and all writes go to w.next, so
// the result does not depend on visiting order or on how rows are split
// between workers.
func (w *World) thermalPass() {
	g := w.grid
	cells := g.cells
	temps := w.temps
	for i := range cells {
		temps[i] = cells[i].Temp
	}
	w.injectHeat()

	workers := w.params.Workers
	if workers > 1 && g.h >= 2*workers {
		var eg errgroup.Group
		band := (g.h + workers - 1) / workers
		for y0 := 0; y0 < g.h; y0 += band {
			y1 := min(y0+band, g.h)
			eg.Go(func() error {
				w.diffuseRows(y0, y1)
				return nil
			})
		}
		_ = eg.Wait()
	} else {
		w.diffuseRows(0, g.h)
	}

	for i := range cells {
		cells[i].Temp = w.next[i]
	}
}

// injectHeat adds each source's output to itself and to every non-empty,
// non-static neighbour.
func (w *World) injectHeat() {
	g := w.grid
	scale := float32(w.params.HeatScale)
	for i, c := range g.cells {
		if c.Element == Empty {
			continue
		}
		e := w.table.Get(c.Element)
		if e.HeatOutput <= 0 {
			continue
		}
		heat := e.HeatOutput * scale
		w.temps[i] += heat
		x, y := g.coords(i)
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if (dx == 0 && dy == 0) || !g.InBounds(x+dx, y+dy) {
					continue
				}
				j := g.index(x+dx, y+dy)
				if w.table.Get(g.cells[j].Element).FixedTemperature() {
					continue
				}
				w.temps[j] += heat
			}
		}
	}
}

// diffuseRows computes T' = T + k*(mean(N4) - T) for rows [y0, y1). Cells
// outside the grid read as ambient. Empty and static cells are pinned to
// ambient unless air diffusion is on, in which case empty cells diffuse too.
func (w *World) diffuseRows(y0, y1 int) {
	g := w.grid
	amb := w.ambient()
	air := w.params.AirDiffusion
	for y := y0; y < y1; y++ {
		for x := 0; x < g.w; x++ {
			i := y*g.w + x
			e := w.table.Get(g.cells[i].Element)
			if e.FixedTemperature() && !(air && e.Category == CategoryEmpty) {
				w.next[i] = amb
				continue
			}
			var sum float32
			for _, d := range [4][2]int{{0, -1}, {-1, 0}, {1, 0}, {0, 1}} {
				nx, ny := x+d[0], y+d[1]
				if g.InBounds(nx, ny) {
					sum += w.temps[ny*g.w+nx]
				} else {
					sum += amb
				}
			}
			t := w.temps[i]
			w.next[i] = clampTemp(t + e.HeatConductivity*(sum/4-t))
		}
	}
}
