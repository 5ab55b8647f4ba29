package powder

// ChargeState is the electrical state machine of a conductive cell:
// none -> conducting -> discharging -> cooldown -> none.
type ChargeState uint8

const (
	ChargeNone ChargeState = iota
	ChargeConducting
	ChargeDischarging
	ChargeCooldown
)

func (s ChargeState) String() string {
	switch s {
	case ChargeNone:
		return "none"
	case ChargeConducting:
		return "conducting"
	case ChargeDischarging:
		return "discharging"
	case ChargeCooldown:
		return "cooldown"
	default:
		return "invalid"
	}
}

// Energized reports whether the state carries a live signal.
func (s ChargeState) Energized() bool {
	return s == ChargeConducting || s == ChargeDischarging
}

// ActorState is the behaviour mode of a human or zombie cell.
type ActorState uint8

const (
	ActorIdle ActorState = iota
	ActorSeeking
	ActorFleeing
	ActorEngaging
)

func (s ActorState) String() string {
	switch s {
	case ActorIdle:
		return "idle"
	case ActorSeeking:
		return "seeking"
	case ActorFleeing:
		return "fleeing"
	case ActorEngaging:
		return "engaging"
	default:
		return "invalid"
	}
}

// Cell is the full simulation state of one grid slot.
type Cell struct {
	Element ElementID
	Temp    float32
	Charge  ChargeState
	// Timer counts down the remaining cooldown ticks.
	Timer uint8
	// Phase paces falling for elements with a FallPeriod above one.
	Phase uint8
	// Life is fuel for fire, lifetime for gases, wetness for dirt, age for
	// lava and the animation clock for actors.
	Life int16
	// Seed is per-cell jitter fixed at creation.
	Seed uint8
	Mood ActorState
}

// CellView is the read-only snapshot handed to hosts.
type CellView struct {
	Element ElementID
	Temp    float32
	Charge  ChargeState
}

func (c Cell) view() CellView {
	return CellView{Element: c.Element, Temp: c.Temp, Charge: c.Charge}
}

const (
	gasLife       = 25
	fireLife      = 20
	lightningLife = 2
	wetDirtLife   = 300
	lavaMaxAge    = 200
	seaweedSeed   = 220

	minTemp float32 = -273
	maxTemp float32 = 3000
)

func clampTemp(t float32) float32 {
	if t < minTemp {
		return minTemp
	}
	if t > maxTemp {
		return maxTemp
	}
	return t
}
