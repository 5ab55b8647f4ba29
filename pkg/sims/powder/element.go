package powder

import (
	"fmt"
	"strings"
)

// ElementID identifies a material in an ElementTable.
type ElementID uint8

// The closed set of materials known to the default table. Reaction rules refer
// to these ids; a custom table may retune their properties or omit the tail.
const (
	Empty ElementID = iota
	// powders
	Sand
	Gunpowder
	Ash
	Snow
	// liquids
	Water
	SaltWater
	Oil
	Ethanol
	Acid
	Lava
	Mercury
	// solids / terrain
	Stone
	Glass
	Wall
	Wood
	Plant
	Metal
	Wire
	Ice
	Coal
	Dirt
	WetDirt
	Seaweed
	// gases
	Smoke
	Steam
	Gas
	ToxicGas
	Hydrogen
	Chlorine
	// energy
	Fire
	Lightning
	// actors
	Human
	Zombie

	elementCount
)

// ElementCount is the number of materials in the default table.
const ElementCount = int(elementCount)

// Category is the display and movement class of an element.
type Category uint8

const (
	CategoryEmpty Category = iota
	CategoryPowder
	CategoryLiquid
	CategoryGas
	CategorySolid
	CategoryStatic
	CategoryEnergy
	CategoryActor
)

func (c Category) String() string {
	switch c {
	case CategoryEmpty:
		return "empty"
	case CategoryPowder:
		return "powder"
	case CategoryLiquid:
		return "liquid"
	case CategoryGas:
		return "gas"
	case CategorySolid:
		return "solid"
	case CategoryStatic:
		return "static"
	case CategoryEnergy:
		return "energy"
	case CategoryActor:
		return "actor"
	default:
		return "unknown"
	}
}

// Conductivity classifies how an element carries charge.
type Conductivity uint8

const (
	ConductNone Conductivity = iota
	// ConductMetal carries charge (wire, metal, mercury).
	ConductMetal
	// ConductElectrolyte carries charge and shocks actors touching it.
	ConductElectrolyte
)

// Transition is a temperature-triggered phase change. Into == Empty disables it.
type Transition struct {
	At   float32
	Into ElementID
}

// Defined reports whether the transition is active.
func (t Transition) Defined() bool { return t.Into != Empty }

// Element is the immutable descriptor of one material. Behaviour is data:
// the passes read these fields and never dispatch on element-specific code
// beyond the rule set in reaction.go.
type Element struct {
	ID       ElementID
	Name     string
	Glyph    rune
	Category Category

	// Density orders displacement: a mover may swap into a fluid with a
	// strictly lower density (or, rising gases, strictly higher).
	Density int
	// FallPeriod paces movement: the cell moves once every FallPeriod ticks.
	FallPeriod int
	// Diffusion is how many cells a liquid or gas may slide sideways per tick.
	Diffusion int

	HeatConductivity float32
	BaseTemp         float32
	// Ambient elements spawn at the world's ambient temperature.
	Ambient    bool
	HeatOutput float32

	// Flammability is the percent chance per tick to ignite beside fire or lava.
	Flammability    int
	IgnitionPoint   float32
	BurnFuel        int
	ExplosionRadius int

	Melt   Transition
	Freeze Transition
	Boil   Transition

	Conductivity Conductivity
	Dissolvable  bool
	BlastProof   bool
	Hazard       bool

	// Life seeds Cell.Life when the element is placed or spawned.
	Life int

	Hue, Sat, Val float64
}

// Moves reports whether the movement scheduler considers the element.
func (e *Element) Moves() bool {
	switch e.Category {
	case CategoryPowder, CategoryLiquid, CategoryGas, CategoryEnergy, CategoryActor:
		return true
	}
	return false
}

// Fluid reports whether the element can be displaced by a denser mover.
func (e *Element) Fluid() bool {
	return e.Category == CategoryLiquid || e.Category == CategoryGas
}

// Flammable reports whether the element can catch fire.
func (e *Element) Flammable() bool {
	return e.Flammability > 0 || e.IgnitionPoint > 0
}

// Conductive reports whether charge can propagate through the element.
func (e *Element) Conductive() bool { return e.Conductivity != ConductNone }

// FixedTemperature reports whether the thermal pass pins the element to the
// ambient temperature instead of diffusing it.
func (e *Element) FixedTemperature() bool {
	return e.Category == CategoryEmpty || e.Category == CategoryStatic
}

var inert = Element{Name: "Unknown", Glyph: '?', Category: CategoryStatic, Density: 999, Ambient: true}

// ElementTable is a read-only registry of element descriptors. It is built
// once and shared by every pass and every world that uses it.
type ElementTable struct {
	elems  []Element
	byName map[string]ElementID
}

// NewElementTable validates the descriptors and builds a table. Ids must be
// dense from zero, id 0 must be the empty category and names must be unique.
func NewElementTable(elems []Element) (*ElementTable, error) {
	if len(elems) == 0 || len(elems) > 256 {
		return nil, fmt.Errorf("%w: table needs 1..256 elements, got %d", ErrInvalidElement, len(elems))
	}
	t := &ElementTable{
		elems:  make([]Element, len(elems)),
		byName: make(map[string]ElementID, len(elems)),
	}
	copy(t.elems, elems)
	for i := range t.elems {
		e := &t.elems[i]
		if int(e.ID) != i {
			return nil, fmt.Errorf("%w: descriptor %q at index %d has id %d", ErrInvalidElement, e.Name, i, e.ID)
		}
		key := normalizeName(e.Name)
		if key == "" {
			return nil, fmt.Errorf("%w: descriptor %d has no name", ErrInvalidElement, i)
		}
		if _, dup := t.byName[key]; dup {
			return nil, fmt.Errorf("%w: duplicate element name %q", ErrInvalidElement, e.Name)
		}
		t.byName[key] = e.ID
		if e.FallPeriod <= 0 {
			e.FallPeriod = 1
		}
		if e.HeatConductivity < 0 {
			e.HeatConductivity = 0
		}
		if e.HeatConductivity > 1 {
			e.HeatConductivity = 1
		}
	}
	if t.elems[0].Category != CategoryEmpty {
		return nil, fmt.Errorf("%w: element 0 must be the empty category", ErrInvalidElement)
	}
	for i := range t.elems {
		e := &t.elems[i]
		for _, tr := range []Transition{e.Melt, e.Freeze, e.Boil} {
			if int(tr.Into) >= len(t.elems) {
				return nil, fmt.Errorf("%w: %s transitions into unknown id %d", ErrInvalidElement, e.Name, tr.Into)
			}
		}
	}
	return t, nil
}

// DefaultElements returns the standard material table.
func DefaultElements() *ElementTable {
	t, err := NewElementTable(defaultDescriptors())
	if err != nil {
		panic(err)
	}
	return t
}

// Len returns the number of descriptors.
func (t *ElementTable) Len() int { return len(t.elems) }

// Valid reports whether id names a descriptor in the table.
func (t *ElementTable) Valid(id ElementID) bool { return int(id) < len(t.elems) }

// Lookup returns the descriptor for id.
func (t *ElementTable) Lookup(id ElementID) (*Element, bool) {
	if !t.Valid(id) {
		return nil, false
	}
	return &t.elems[id], true
}

// Get returns the descriptor for id, or an inert placeholder for unknown ids
// so pass code never has to special-case corrupt cells.
func (t *ElementTable) Get(id ElementID) *Element {
	if !t.Valid(id) {
		return &inert
	}
	return &t.elems[id]
}

// ByName resolves a case-insensitive element name ("salt water", "salt_water").
func (t *ElementTable) ByName(name string) (ElementID, bool) {
	id, ok := t.byName[normalizeName(name)]
	return id, ok
}

// All returns a copy of every descriptor in id order.
func (t *ElementTable) All() []Element {
	out := make([]Element, len(t.elems))
	copy(out, t.elems)
	return out
}

func normalizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.NewReplacer(" ", "", "_", "", "-", "").Replace(name)
	return name
}

func defaultDescriptors() []Element {
	amb := func(e Element) Element {
		e.Ambient = true
		return e
	}
	return []Element{
		amb(Element{ID: Empty, Name: "Empty", Glyph: ' ', Category: CategoryEmpty, HeatConductivity: 0.1, Val: 0}),

		amb(Element{ID: Sand, Name: "Sand", Glyph: '.', Category: CategoryPowder, Density: 150, HeatConductivity: 0.2,
			Dissolvable: true, Hue: 45, Sat: 0.55, Val: 0.86}),
		amb(Element{ID: Gunpowder, Name: "Gunpowder", Glyph: '%', Category: CategoryPowder, Density: 140, HeatConductivity: 0.2,
			Flammability: 40, IgnitionPoint: 250, ExplosionRadius: 5, Hue: 0, Sat: 0, Val: 0.32}),
		amb(Element{ID: Ash, Name: "Ash", Glyph: ';', Category: CategoryPowder, Density: 95, FallPeriod: 2, HeatConductivity: 0.15,
			Dissolvable: true, Hue: 0, Sat: 0, Val: 0.6}),
		{ID: Snow, Name: "Snow", Glyph: ',', Category: CategoryPowder, Density: 90, FallPeriod: 2, HeatConductivity: 0.25,
			BaseTemp: -5, Melt: Transition{At: 0, Into: Water}, Hue: 200, Sat: 0.05, Val: 0.97},

		amb(Element{ID: Water, Name: "Water", Glyph: '~', Category: CategoryLiquid, Density: 100, Diffusion: 3, HeatConductivity: 0.3,
			Freeze: Transition{At: -5, Into: Ice}, Boil: Transition{At: 100, Into: Steam}, Conductivity: ConductElectrolyte,
			Hue: 210, Sat: 0.8, Val: 0.85}),
		amb(Element{ID: SaltWater, Name: "Salt Water", Glyph: ':', Category: CategoryLiquid, Density: 103, Diffusion: 3, HeatConductivity: 0.3,
			Freeze: Transition{At: -21, Into: Ice}, Boil: Transition{At: 102, Into: Steam}, Conductivity: ConductElectrolyte,
			Hue: 195, Sat: 0.6, Val: 0.85}),
		amb(Element{ID: Oil, Name: "Oil", Glyph: 'o', Category: CategoryLiquid, Density: 90, Diffusion: 2, HeatConductivity: 0.15,
			Flammability: 100, IgnitionPoint: 250, BurnFuel: 15, Hue: 30, Sat: 0.7, Val: 0.3}),
		amb(Element{ID: Ethanol, Name: "Ethanol", Glyph: 'e', Category: CategoryLiquid, Density: 85, Diffusion: 3, HeatConductivity: 0.2,
			Flammability: 100, IgnitionPoint: 200, BurnFuel: 10, Boil: Transition{At: 78, Into: Gas}, Hue: 180, Sat: 0.25, Val: 0.9}),
		amb(Element{ID: Acid, Name: "Acid", Glyph: 'a', Category: CategoryLiquid, Density: 110, Diffusion: 2, HeatConductivity: 0.3,
			Hazard: true, Hue: 95, Sat: 0.9, Val: 0.9}),
		{ID: Lava, Name: "Lava", Glyph: 'L', Category: CategoryLiquid, Density: 160, FallPeriod: 2, Diffusion: 1, HeatConductivity: 0.05,
			BaseTemp: 1200, HeatOutput: 25, Freeze: Transition{At: 700, Into: Stone}, Hazard: true, Hue: 15, Sat: 0.95, Val: 1},
		amb(Element{ID: Mercury, Name: "Mercury", Glyph: 'm', Category: CategoryLiquid, Density: 200, Diffusion: 2, HeatConductivity: 0.6,
			Boil: Transition{At: 357, Into: ToxicGas}, Conductivity: ConductMetal, Hue: 220, Sat: 0.05, Val: 0.75}),

		amb(Element{ID: Stone, Name: "Stone", Glyph: '#', Category: CategorySolid, Density: 999, HeatConductivity: 0.2,
			Dissolvable: true, BlastProof: true, Hue: 0, Sat: 0, Val: 0.5}),
		amb(Element{ID: Glass, Name: "Glass", Glyph: '=', Category: CategorySolid, Density: 999, HeatConductivity: 0.2,
			Dissolvable: true, BlastProof: true, Hue: 180, Sat: 0.15, Val: 0.85}),
		amb(Element{ID: Wall, Name: "Wall", Glyph: '@', Category: CategoryStatic, Density: 999, BlastProof: true, Hue: 0, Sat: 0, Val: 0.3}),
		amb(Element{ID: Wood, Name: "Wood", Glyph: 'w', Category: CategorySolid, Density: 999, HeatConductivity: 0.1,
			Flammability: 40, IgnitionPoint: 300, BurnFuel: 15, Dissolvable: true, Hue: 28, Sat: 0.65, Val: 0.45}),
		amb(Element{ID: Plant, Name: "Plant", Glyph: 'p', Category: CategorySolid, Density: 999, HeatConductivity: 0.1,
			Flammability: 40, IgnitionPoint: 250, BurnFuel: 10, Dissolvable: true, Hue: 120, Sat: 0.7, Val: 0.6}),
		amb(Element{ID: Metal, Name: "Metal", Glyph: 'M', Category: CategorySolid, Density: 999, HeatConductivity: 0.8,
			Conductivity: ConductMetal, Dissolvable: true, BlastProof: true, Hue: 210, Sat: 0.1, Val: 0.65}),
		amb(Element{ID: Wire, Name: "Wire", Glyph: '-', Category: CategorySolid, Density: 999, HeatConductivity: 0.8,
			Conductivity: ConductMetal, Dissolvable: true, BlastProof: true, Hue: 25, Sat: 0.8, Val: 0.7}),
		{ID: Ice, Name: "Ice", Glyph: 'I', Category: CategorySolid, Density: 999, HeatConductivity: 0.25, BaseTemp: -10,
			Melt: Transition{At: 0, Into: Water}, BlastProof: true, Hue: 190, Sat: 0.3, Val: 0.95},
		amb(Element{ID: Coal, Name: "Coal", Glyph: 'c', Category: CategorySolid, Density: 999, HeatConductivity: 0.15,
			Flammability: 40, IgnitionPoint: 400, BurnFuel: 25, Dissolvable: true, Hue: 0, Sat: 0, Val: 0.15}),
		amb(Element{ID: Dirt, Name: "Dirt", Glyph: 'd', Category: CategorySolid, Density: 999, HeatConductivity: 0.15,
			Dissolvable: true, Hue: 30, Sat: 0.6, Val: 0.35}),
		amb(Element{ID: WetDirt, Name: "Wet Dirt", Glyph: 'D', Category: CategorySolid, Density: 999, HeatConductivity: 0.25,
			Dissolvable: true, Life: wetDirtLife, Hue: 28, Sat: 0.6, Val: 0.25}),
		amb(Element{ID: Seaweed, Name: "Seaweed", Glyph: 'v', Category: CategorySolid, Density: 999, HeatConductivity: 0.15,
			Flammability: 40, IgnitionPoint: 300, BurnFuel: 10, Dissolvable: true, Hue: 150, Sat: 0.7, Val: 0.45}),

		amb(Element{ID: Smoke, Name: "Smoke", Glyph: '^', Category: CategoryGas, Density: 3, Diffusion: 1, HeatConductivity: 0.05,
			Life: gasLife, Hue: 0, Sat: 0, Val: 0.4}),
		{ID: Steam, Name: "Steam", Glyph: '"', Category: CategoryGas, Density: 2, Diffusion: 2, HeatConductivity: 0.1,
			BaseTemp: 110, Life: gasLife, Hue: 200, Sat: 0.1, Val: 0.85},
		amb(Element{ID: Gas, Name: "Gas", Glyph: '`', Category: CategoryGas, Density: 1, Diffusion: 2, HeatConductivity: 0.05,
			Flammability: 100, BurnFuel: 2, Life: gasLife, Hue: 60, Sat: 0.2, Val: 0.7}),
		amb(Element{ID: ToxicGas, Name: "Toxic Gas", Glyph: 'x', Category: CategoryGas, Density: 4, Diffusion: 1, HeatConductivity: 0.05,
			Hazard: true, Life: gasLife, Hue: 85, Sat: 0.8, Val: 0.6}),
		amb(Element{ID: Hydrogen, Name: "Hydrogen", Glyph: '\'', Category: CategoryGas, Density: 1, Diffusion: 3, HeatConductivity: 0.1,
			Flammability: 100, ExplosionRadius: 4, Life: gasLife, Hue: 240, Sat: 0.15, Val: 0.9}),
		amb(Element{ID: Chlorine, Name: "Chlorine", Glyph: 'X', Category: CategoryGas, Density: 5, FallPeriod: 2, Diffusion: 1,
			HeatConductivity: 0.05, Hazard: true, Life: gasLife, Hue: 70, Sat: 0.7, Val: 0.75}),

		{ID: Fire, Name: "Fire", Glyph: '*', Category: CategoryEnergy, Density: 0, HeatConductivity: 0.3, BaseTemp: 600,
			HeatOutput: 40, Hazard: true, Life: fireLife, Hue: 20, Sat: 0.95, Val: 1},
		{ID: Lightning, Name: "Lightning", Glyph: '|', Category: CategoryStatic, Density: 999, BaseTemp: 3000,
			Hazard: true, Life: lightningLife, Hue: 55, Sat: 0.6, Val: 1},

		{ID: Human, Name: "Human", Glyph: 'Y', Category: CategoryActor, Density: 120, HeatConductivity: 0.1, BaseTemp: 37,
			Hue: 120, Sat: 0.5, Val: 0.9},
		{ID: Zombie, Name: "Zombie", Glyph: 'T', Category: CategoryActor, Density: 120, HeatConductivity: 0.1, BaseTemp: 20,
			Hue: 0, Sat: 0.8, Val: 0.7},
	}
}
