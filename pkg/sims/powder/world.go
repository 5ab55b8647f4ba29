package powder

import (
	"fmt"
	"hash/fnv"
	"image/color"
	"math"
	"sync"

	"powder-ca/pkg/core"
)

// Pass identifies a stage of the tick pipeline.
type Pass uint8

const (
	PassMovement Pass = iota + 1
	PassThermal
	PassElectrical
	PassReaction
	PassHost
)

func (p Pass) String() string {
	switch p {
	case PassMovement:
		return "movement"
	case PassThermal:
		return "thermal"
	case PassElectrical:
		return "electrical"
	case PassReaction:
		return "reaction"
	case PassHost:
		return "host"
	default:
		return "unknown"
	}
}

// Stats summarises the last completed tick.
type Stats struct {
	Tick       uint64
	Mass       int
	Moves      int
	Reactions  int
	Discharges int
	Explosions int
	// Faults counts cells whose update panicked since the world was created.
	Faults int
}

// World is a falling-sand simulation. It owns its grid exclusively; hosts
// reach it only through the methods below.
//
// Mutations (SetCell, PlaceBrush, Energize, Strike, Explode, Clear, Resize,
// LoadScene) never wait for a tick: while Step holds the world they return
// ErrBusy. Reads wait for the tick's final commit.
type World struct {
	mu sync.RWMutex

	cfg    Config
	params Params
	table  *ElementTable
	log    Logger

	grid     *Grid
	tick     uint64
	closed   bool
	boundary Cell

	temps []float32
	next  []float32
	// strike marks cells within reach of a lightning bolt this tick.
	strike []bool
	// shifted marks cells the electrical pass moved this tick; no later pass
	// may change their charge again before the next tick.
	shifted []bool

	host    *core.RNG
	display *core.ByteGrid

	paletteOnce sync.Once
	palette     []color.RGBA

	events []Event
	// pending holds events raised by host calls; they join the next tick's list.
	pending []Event
	stats   Stats
	faults  int

	// observer sees every staged change list just before it commits.
	observer func(Pass, []Change)
}

// Create builds a world with default tunables.
func Create(width, height int, seed int64, opts ...Option) (*World, error) {
	cfg := DefaultConfig()
	cfg.Width = width
	cfg.Height = height
	cfg.Seed = seed
	for _, opt := range opts {
		opt(&cfg)
	}
	return NewWithConfig(cfg)
}

// New returns a world with the provided dimensions using defaults. It panics
// on invalid dimensions; use Create for an error instead.
func New(w, h int) *World {
	world, err := Create(w, h, DefaultConfig().Seed)
	if err != nil {
		panic(err)
	}
	return world
}

// NewWithConfig returns a world configured from the provided options.
func NewWithConfig(cfg Config) (*World, error) {
	p := cfg.Params
	if p.MaxWidth <= 0 {
		p.MaxWidth = DefaultConfig().Params.MaxWidth
	}
	if p.MaxHeight <= 0 {
		p.MaxHeight = DefaultConfig().Params.MaxHeight
	}
	if err := checkDimensions(cfg.Width, cfg.Height, p); err != nil {
		return nil, err
	}
	if p.Workers <= 0 {
		p.Workers = 1
	}
	p.ActorSight = min(max(p.ActorSight, 0), MaxActorSight)
	cfg.Params = p
	if cfg.Elements == nil {
		cfg.Elements = DefaultElements()
	}
	if cfg.Logger == nil {
		cfg.Logger = NewNoOpLogger()
	}

	w := &World{
		cfg:    cfg,
		params: p,
		table:  cfg.Elements,
		log:    cfg.Logger,
		host:   core.NewRNG(cfg.Seed),
	}
	w.boundary = w.boundaryCell()
	w.allocate(cfg.Width, cfg.Height)
	w.log.Infof("powder: created %dx%d world (seed %d, %d elements)", cfg.Width, cfg.Height, cfg.Seed, w.table.Len())
	return w, nil
}

func checkDimensions(width, height int, p Params) error {
	if width <= 0 || height <= 0 || width > p.MaxWidth || height > p.MaxHeight {
		return fmt.Errorf("%w: %dx%d (max %dx%d)", ErrInvalidDimensions, width, height, p.MaxWidth, p.MaxHeight)
	}
	return nil
}

func (w *World) allocate(width, height int) {
	w.grid = NewGrid(width, height, w.boundary, w.ambient())
	n := width * height
	w.temps = make([]float32, n)
	w.next = make([]float32, n)
	w.strike = make([]bool, n)
	w.shifted = make([]bool, n)
	if w.display == nil {
		w.display = core.NewByteGrid(width, height)
	} else {
		w.display.Resize(width, height)
	}
}

func (w *World) boundaryCell() Cell {
	if w.params.Boundary == "empty" || !w.table.Valid(Wall) {
		return Cell{Element: Empty, Temp: w.ambient()}
	}
	return Cell{Element: Wall, Temp: w.ambient()}
}

func (w *World) ambient() float32 { return float32(w.params.AmbientTemp) }

// Name returns the simulation identifier.
func (w *World) Name() string { return "powder" }

// Size reports the grid dimensions.
func (w *World) Size() core.Size {
	width, height := w.Dimensions()
	return core.Size{W: width, H: height}
}

// Dimensions returns the grid width and height.
func (w *World) Dimensions() (int, int) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return 0, 0
	}
	return w.grid.Dimensions()
}

// Elements exposes the element table the world was built with.
func (w *World) Elements() *ElementTable { return w.table }

// Tick returns the number of completed ticks.
func (w *World) Tick() uint64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.tick
}

// Cells exposes the display frame: one palette index per cell. The slice is
// rewritten by Step and mutations; hosts on other goroutines should use Frame.
func (w *World) Cells() []uint8 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.display.Cells()
}

// Frame copies the display frame into dst, growing it when needed.
func (w *World) Frame(dst []uint8) []uint8 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	src := w.display.Cells()
	if cap(dst) < len(src) {
		dst = make([]uint8, len(src))
	}
	dst = dst[:len(src)]
	copy(dst, src)
	return dst
}

// GetCell returns a read-only snapshot of the cell at (x, y).
func (w *World) GetCell(x, y int) (CellView, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return CellView{}, ErrClosed
	}
	c, err := w.grid.Get(x, y)
	if err != nil {
		return CellView{}, err
	}
	return c.view(), nil
}

// SetCell places a fresh cell of the given element at (x, y). Empty clears it.
func (w *World) SetCell(x, y int, id ElementID) error {
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
	if err := w.grid.Set(x, y, w.spawn(id, w.host.Uint8())); err != nil {
		return err
	}
	w.paint(x, y)
	return nil
}

// Energize seeds conduction at (x, y), acting as a powered source.
func (w *World) Energize(x, y int) error {
	if !w.mu.TryLock() {
		return ErrBusy
	}
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	c, err := w.grid.Get(x, y)
	if err != nil {
		return err
	}
	if !w.table.Get(c.Element).Conductive() {
		return fmt.Errorf("%w: %s does not conduct", ErrInvalidElement, w.table.Get(c.Element).Name)
	}
	if c.Charge != ChargeNone {
		return nil
	}
	c.Charge = ChargeConducting
	_ = w.grid.Set(x, y, c)
	w.paint(x, y)
	return nil
}

// Clear empties every cell. The tick counter is kept.
func (w *World) Clear() error {
	if !w.mu.TryLock() {
		return ErrBusy
	}
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	w.grid.fill(Cell{Temp: w.ambient()})
	w.events = w.events[:0]
	w.pending = w.pending[:0]
	w.rebuildDisplay()
	w.log.Debugf("powder: cleared at tick %d", w.tick)
	return nil
}

// Resize reallocates the grid, keeping the overlapping region.
func (w *World) Resize(width, height int) error {
	if !w.mu.TryLock() {
		return ErrBusy
	}
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	if err := checkDimensions(width, height, w.params); err != nil {
		return err
	}
	old := w.grid
	w.allocate(width, height)
	ow, oh := old.Dimensions()
	for y := 0; y < oh && y < height; y++ {
		for x := 0; x < ow && x < width; x++ {
			w.grid.cells[w.grid.index(x, y)] = old.cells[old.index(x, y)]
		}
	}
	w.rebuildDisplay()
	w.log.Debugf("powder: resized %dx%d -> %dx%d", ow, oh, width, height)
	return nil
}

// Reset clears the grid and rewinds the tick counter. A non-zero seed
// replaces the configured one. Unlike mutations, Reset waits for a running
// tick to finish.
func (w *World) Reset(seed int64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if seed != 0 {
		w.cfg.Seed = seed
	}
	w.host = core.NewRNG(w.cfg.Seed)
	w.tick = 0
	w.grid.fill(Cell{Temp: w.ambient()})
	w.events = w.events[:0]
	w.pending = w.pending[:0]
	w.stats = Stats{Faults: w.stats.Faults}
	w.rebuildDisplay()
	w.log.Debugf("powder: reset with seed %d", w.cfg.Seed)
}

// Destroy releases the grid. Later calls fail with ErrClosed or do nothing.
func (w *World) Destroy() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.closed = true
	w.grid = NewGrid(0, 0, w.boundary, w.ambient())
	w.temps, w.next, w.strike, w.shifted = nil, nil, nil, nil
	w.events, w.pending = nil, nil
	w.display.Resize(1, 1)
	w.log.Debugf("powder: destroyed at tick %d", w.tick)
}

// Events returns the events produced by the last tick.
func (w *World) Events() []Event {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]Event, len(w.events))
	copy(out, w.events)
	return out
}

// Stats returns counters for the last completed tick.
func (w *World) Stats() Stats {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.stats
}

// Mass counts the non-empty cells.
func (w *World) Mass() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.grid.count()
}

// Count returns how many cells hold the given element.
func (w *World) Count(id ElementID) int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	n := 0
	for i := range w.grid.cells {
		if w.grid.cells[i].Element == id {
			n++
		}
	}
	return n
}

// Hash digests the full grid state with FNV-1a. Equal hashes across two runs
// mean the runs stayed bit-identical.
func (w *World) Hash() uint64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	h := fnv.New64a()
	var buf [16]byte
	for _, c := range w.grid.cells {
		bits := math.Float32bits(c.Temp)
		buf[0] = byte(c.Element)
		buf[1] = byte(bits)
		buf[2] = byte(bits >> 8)
		buf[3] = byte(bits >> 16)
		buf[4] = byte(bits >> 24)
		buf[5] = byte(c.Charge)
		buf[6] = c.Timer
		buf[7] = c.Phase
		buf[8] = byte(c.Life)
		buf[9] = byte(uint16(c.Life) >> 8)
		buf[10] = c.Seed
		buf[11] = byte(c.Mood)
		_, _ = h.Write(buf[:12])
	}
	return h.Sum64()
}

// Step advances the world by exactly one tick.
func (w *World) Step() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.step()
}

func (w *World) step() {
	tick := w.tick + 1
	w.events = append(w.events[:0], w.pending...)
	w.pending = w.pending[:0]
	w.faults = 0

	moves := w.movementPass(tick)
	w.thermalPass()
	discharges := w.electricalPass(tick)
	reactions, explosions := w.reactionPass(tick)

	w.tick = tick
	w.stats = Stats{
		Tick:       tick,
		Mass:       w.grid.count(),
		Moves:      moves,
		Reactions:  reactions,
		Discharges: discharges,
		Explosions: explosions,
		Faults:     w.stats.Faults + w.faults,
	}
	w.rebuildDisplay()
}

// commit hands the staged changes to the observer and applies them.
func (w *World) commit(p Pass) int {
	if w.observer != nil {
		w.observer(p, w.grid.Changes())
	}
	return w.grid.commit()
}

// guard runs one cell's update and contains any panic to that cell: staged
// writes made before the fault are dropped, their claims released, and the
// tick continues.
func (w *World) guard(p Pass, x, y int, fn func()) {
	mark := len(w.grid.changes)
	defer func() {
		if r := recover(); r != nil {
			w.grid.rollback(mark)
			w.faults++
			if w.faults == 1 {
				w.log.Warnf("powder: tick %d %s pass: cell (%d,%d) faulted: %v", w.tick+1, p, x, y, r)
			}
		}
	}()
	fn()
}

// scan visits every cell bottom-up, sweeping left to right on even ticks and
// right to left on odd ones.
func (w *World) scan(tick uint64, visit func(x, y, i int)) {
	width, height := w.grid.w, w.grid.h
	for y := height - 1; y >= 0; y-- {
		row := y * width
		if tick%2 == 0 {
			for x := 0; x < width; x++ {
				visit(x, y, row+x)
			}
		} else {
			for x := width - 1; x >= 0; x-- {
				visit(x, y, row+x)
			}
		}
	}
}

// spawn builds a fresh cell of element id. Ids outside the table spawn an
// empty cell.
func (w *World) spawn(id ElementID, seed uint8) Cell {
	if id == Empty || !w.table.Valid(id) {
		return Cell{Temp: w.ambient()}
	}
	e := w.table.Get(id)
	c := Cell{Element: id, Life: int16(e.Life), Seed: seed}
	if e.Ambient {
		c.Temp = w.ambient()
	} else {
		c.Temp = e.BaseTemp
	}
	return c
}

// transform turns c into element id in place. The cell keeps its temperature
// unless the new element is a heat source, which starts at least at its base.
// Ids outside the table leave an empty cell.
func (w *World) transform(c Cell, id ElementID) Cell {
	if id == Empty || !w.table.Valid(id) {
		return Cell{Temp: c.Temp}
	}
	e := w.table.Get(id)
	out := Cell{Element: id, Temp: c.Temp, Life: int16(e.Life), Seed: c.Seed}
	if e.HeatOutput > 0 && out.Temp < e.BaseTemp {
		out.Temp = e.BaseTemp
	}
	if e.Conductive() {
		out.Charge = c.Charge
		out.Timer = c.Timer
	}
	return out
}

func (w *World) emit(kind EventKind, x, y int, tick uint64) {
	if len(w.events) >= maxEvents {
		return
	}
	w.events = append(w.events, Event{Kind: kind, X: x, Y: y, Tick: tick})
}

func (w *World) rebuildDisplay() {
	out := w.display.Cells()
	for i, c := range w.grid.cells {
		out[i] = PaletteIndex(c)
	}
}

func (w *World) paint(x, y int) {
	i := w.grid.index(x, y)
	w.display.Cells()[i] = PaletteIndex(w.grid.cells[i])
}

func init() {
	core.Register("powder", func(cfg map[string]string) core.Sim {
		w, err := NewWithConfig(FromMap(cfg))
		if err != nil {
			w, _ = NewWithConfig(DefaultConfig())
		}
		return w
	})
}
