package powder

import "powder-ca/pkg/core"

// Reaction chances in percent.
const (
	conductorSpark = 5
	contactMelt    = 25
	quenchSteam    = 50
	acidConsumed   = 25
	acidSalting    = 30
	acidToxic      = 30
	acidSteam      = 9
	gasDischarge   = 35
	chlorinePoison = 35
	plantGrowth    = 2
	infection      = 70
	humanStrike    = 35
	humanBurn      = 60
	steamCondense  = 15
	smokeSettle    = 8

	smokeLife  = 15
	corpseFire = 15
	strikeRing = 2
	gasBlast   = 4
	seaweedGap = 2
)

// hood summarises the 8-neighbourhood of a cell as seen at the start of the
// reaction pass.
type hood struct {
	fire, lava, water, acid, steam, chlorine bool
	human, zombie                            bool
	hazard                                   bool
	dissolvable                              bool
	// discharging is set when a neighbour fired this tick.
	discharging bool
	// shocked is set when a neighbouring electrolyte carries live charge.
	shocked bool
}

// reactor evaluates the rule set for one reaction pass. Every cell decides
// its own fate; byproducts and blasts claim neighbouring coordinates and the
// first claim wins.
type reactor struct {
	w    *World
	g    *Grid
	rng  *core.RNG
	tick uint64

	explosions int
}

func (w *World) reactionPass(tick uint64) (int, int) {
	r := &reactor{w: w, g: w.grid, rng: core.TickRNG(w.cfg.Seed, tick, streamReaction), tick: tick}
	w.markStrikes()

	w.scan(tick, func(x, y, i int) {
		c := r.g.cells[i]
		if c.Element == Empty || r.g.claimed(i) {
			return
		}
		w.guard(PassReaction, x, y, func() { r.react(x, y, i, c) })
	})

	return w.commit(PassReaction), r.explosions
}

// markStrikes flags every cell within reach of a lightning cell.
func (w *World) markStrikes() {
	g := w.grid
	clear(w.strike)
	if !w.table.Valid(Lightning) {
		return
	}
	for i, c := range g.cells {
		if c.Element != Lightning {
			continue
		}
		x, y := g.coords(i)
		for dy := -strikeRing; dy <= strikeRing; dy++ {
			for dx := -strikeRing; dx <= strikeRing; dx++ {
				if (dx != 0 || dy != 0) && g.InBounds(x+dx, y+dy) {
					w.strike[g.index(x+dx, y+dy)] = true
				}
			}
		}
	}
}

func (r *reactor) survey(x, y int) hood {
	var h hood
	g := r.g
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if (dx == 0 && dy == 0) || !g.InBounds(x+dx, y+dy) {
				continue
			}
			n := g.cells[g.index(x+dx, y+dy)]
			ne := r.w.table.Get(n.Element)
			switch n.Element {
			case Empty:
				continue
			case Fire:
				h.fire = true
			case Lava:
				h.lava = true
			case Water, SaltWater:
				h.water = true
			case Acid:
				h.acid = true
			case Steam:
				h.steam = true
			case Chlorine:
				h.chlorine = true
			case Human:
				h.human = true
			case Zombie:
				h.zombie = true
			}
			if ne.Hazard {
				h.hazard = true
			}
			if ne.Dissolvable {
				h.dissolvable = true
			}
			if n.Charge == ChargeDischarging {
				h.discharging = true
			}
			if ne.Conductivity == ConductElectrolyte && n.Charge.Energized() {
				h.shocked = true
			}
		}
	}
	return h
}

// react applies the first matching rule group, in priority order.
func (r *reactor) react(x, y, i int, c Cell) {
	e := r.w.table.Get(c.Element)
	h := r.survey(x, y)
	switch {
	case r.electrical(x, y, i, c, e, h):
	case r.combustion(x, y, i, c, e, h):
	case r.phase(i, c, e, h):
	case r.chemistry(x, y, i, c, e, h):
	default:
		r.decay(i, c, e)
	}
}

func (r *reactor) electrical(x, y, i int, c Cell, e *Element, h hood) bool {
	struck := r.w.strike[i]
	if e.Category == CategoryActor && (h.discharging || h.shocked || struck) {
		return r.kill(i, c)
	}
	if c.Element == Gas && (struck || (h.discharging && r.rng.Chance(gasDischarge))) {
		return r.detonate(x, y, gasBlast)
	}
	if struck {
		switch {
		case r.chargeable(i, c, e):
			c.Charge = ChargeConducting
			return r.g.write(i, c)
		case e.Flammable():
			return r.ignite(x, y, i, c, e)
		}
	}
	if h.discharging && e.Flammable() {
		return r.ignite(x, y, i, c, e)
	}
	return false
}

func (r *reactor) combustion(x, y, i int, c Cell, e *Element, h hood) bool {
	if c.Element == Fire {
		if h.water {
			return r.becomeWithLife(i, c, Smoke, smokeLife)
		}
		c.Life--
		if c.Life <= 0 {
			return r.becomeWithLife(i, c, Smoke, smokeLife)
		}
		return r.g.write(i, c)
	}
	if e.Flammable() {
		if (h.fire || h.lava) && r.rng.Chance(e.Flammability*r.w.params.FireSpread/100) {
			return r.ignite(x, y, i, c, e)
		}
		if e.IgnitionPoint > 0 && c.Temp >= e.IgnitionPoint {
			return r.ignite(x, y, i, c, e)
		}
	}
	if e.Conductivity == ConductMetal && r.chargeable(i, c, e) && h.fire && r.rng.Chance(conductorSpark) {
		c.Charge = ChargeConducting
		return r.g.write(i, c)
	}
	return false
}

func (r *reactor) phase(i int, c Cell, e *Element, h hood) bool {
	if (c.Element == Sand || c.Element == Snow) && h.lava {
		return r.become(i, c, Glass)
	}
	switch {
	case e.Melt.Defined() && c.Temp >= e.Melt.At:
		return r.become(i, c, e.Melt.Into)
	case e.Boil.Defined() && c.Temp >= e.Boil.At:
		return r.become(i, c, e.Boil.Into)
	case e.Freeze.Defined() && c.Temp <= e.Freeze.At:
		return r.become(i, c, e.Freeze.Into)
	case e.Melt.Defined() && (h.fire || h.lava || h.steam) && r.rng.Chance(contactMelt):
		return r.become(i, c, e.Melt.Into)
	}
	switch c.Element {
	case Water, SaltWater:
		if h.lava {
			if r.rng.Chance(quenchSteam) {
				return r.become(i, c, Steam)
			}
			return r.become(i, c, Stone)
		}
	case Lava:
		if h.water {
			return r.become(i, c, Stone)
		}
	}
	return false
}

func (r *reactor) chemistry(x, y, i int, c Cell, e *Element, h hood) bool {
	if e.Dissolvable && h.acid && r.rng.Chance(r.w.params.AcidStrength) {
		if r.rng.Chance(acidToxic) {
			return r.become(i, c, ToxicGas)
		}
		return r.become(i, c, Empty)
	}

	switch c.Element {
	case Water:
		if h.acid && r.rng.Chance(acidSteam) {
			return r.becomeWithLife(i, c, Steam, int16(gasLife))
		}
	case Acid:
		if h.dissolvable && r.rng.Chance(acidConsumed) {
			return r.become(i, c, Empty)
		}
		if h.water && r.rng.Chance(acidSalting) {
			return r.become(i, c, SaltWater)
		}
	case Dirt:
		if h.water {
			return r.become(i, c, WetDirt)
		}
	case WetDirt:
		if h.water {
			if c.Life < wetDirtLife {
				c.Life = wetDirtLife
				return r.g.write(i, c)
			}
			return true
		}
	case Plant:
		if h.chlorine && r.rng.Chance(chlorinePoison) {
			return r.become(i, c, ToxicGas)
		}
		if r.g.at(x, y+1).Element == WetDirt && r.rng.Chance(plantGrowth) {
			return r.grow(x, y-1, Plant, Empty)
		}
	case Seaweed:
		if above := r.g.at(x, y-1).Element; (above == Water || above == SaltWater) && r.rng.Chance(plantGrowth) {
			return r.grow(x, y-1, Seaweed, above)
		}
	case Sand:
		return r.seedSeaweed(x, y, i, c)
	case Human:
		if h.hazard {
			return r.kill(i, c)
		}
		if h.zombie && r.rng.Chance(infection) {
			return r.become(i, c, Zombie)
		}
	case Zombie:
		if h.hazard {
			return r.kill(i, c)
		}
		if h.human && r.rng.Chance(humanStrike) {
			if r.rng.Chance(humanBurn) {
				return r.becomeWithLife(i, c, Fire, int16(r.rng.IntRange(10, 20)))
			}
			return r.become(i, c, Ash)
		}
	}
	return false
}

// seedSeaweed ages sand lying under still water and eventually sprouts
// seaweed above it, unless seaweed already grows close by.
func (r *reactor) seedSeaweed(x, y, i int, c Cell) bool {
	if r.g.at(x, y-1).Element != Water {
		if c.Life == 0 {
			return false
		}
		c.Life = 0
		return r.g.write(i, c)
	}
	c.Life++
	if c.Life > seaweedSeed {
		c.Life = 0
		if !r.near(x, y, seaweedGap, Seaweed) {
			r.grow(x, y-1, Seaweed, Water)
		}
	}
	return r.g.write(i, c)
}

func (r *reactor) decay(i int, c Cell, e *Element) bool {
	switch {
	case e.Category == CategoryGas:
		c.Life--
		if c.Life > 0 {
			return r.g.write(i, c)
		}
		switch {
		case c.Element == Steam && r.rng.Chance(steamCondense):
			return r.become(i, c, Water)
		case c.Element == Smoke && r.rng.Chance(smokeSettle):
			return r.become(i, c, Ash)
		}
		return r.become(i, c, Empty)
	case c.Element == Lava:
		c.Life++
		if int(c.Life) > lavaMaxAge {
			return r.become(i, c, Stone)
		}
		return r.g.write(i, c)
	case c.Element == Lightning:
		c.Life--
		if c.Life <= 0 {
			return r.become(i, c, Empty)
		}
		return r.g.write(i, c)
	case c.Element == WetDirt:
		c.Life--
		if c.Life <= 0 {
			return r.become(i, c, Dirt)
		}
		return r.g.write(i, c)
	}
	return false
}

// chargeable reports whether an idle conductor may start conducting. A cell
// the electrical pass already moved this tick has to wait for the next one.
func (r *reactor) chargeable(i int, c Cell, e *Element) bool {
	return e.Conductive() && c.Charge == ChargeNone && !r.w.shifted[i]
}

func (r *reactor) become(i int, c Cell, id ElementID) bool {
	return r.g.write(i, r.w.transform(c, id))
}

func (r *reactor) becomeWithLife(i int, c Cell, id ElementID, life int16) bool {
	nc := r.w.transform(c, id)
	nc.Life = life
	return r.g.write(i, nc)
}

// kill turns an actor into its remains: humans leave ash, zombies burn.
func (r *reactor) kill(i int, c Cell) bool {
	if c.Element == Human {
		return r.become(i, c, Ash)
	}
	return r.becomeWithLife(i, c, Fire, corpseFire)
}

// ignite sets a flammable cell alight, or detonates it if it is explosive.
func (r *reactor) ignite(x, y, i int, c Cell, e *Element) bool {
	if e.ExplosionRadius > 0 {
		return r.detonate(x, y, e.ExplosionRadius)
	}
	life := fireLife
	if e.BurnFuel > 0 {
		life = e.BurnFuel + r.rng.IntRange(0, 10)
	}
	if !r.becomeWithLife(i, c, Fire, int16(life)) {
		return false
	}
	r.w.emit(EventIgnition, x, y, r.tick)
	return true
}

func (r *reactor) detonate(x, y, radius int) bool {
	if r.w.blast(x, y, radius, r.rng) == 0 {
		return false
	}
	r.explosions++
	r.w.emit(EventExplosion, x, y, r.tick)
	return true
}

// grow spawns id at (x, y) when that cell currently holds over.
func (r *reactor) grow(x, y int, id, over ElementID) bool {
	if !r.g.InBounds(x, y) || !r.w.table.Valid(id) {
		return false
	}
	j := r.g.index(x, y)
	if r.g.claimed(j) || r.g.cells[j].Element != over {
		return false
	}
	nc := r.w.spawn(id, r.rng.Uint8())
	nc.Temp = r.g.cells[j].Temp
	return r.g.write(j, nc)
}

func (r *reactor) near(x, y, radius int, id ElementID) bool {
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if r.g.InBounds(x+dx, y+dy) && r.g.cells[r.g.index(x+dx, y+dy)].Element == id {
				return true
			}
		}
	}
	return false
}
