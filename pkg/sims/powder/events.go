package powder

// EventKind classifies something hosts may want to react to (sound, flashes).
type EventKind uint8

const (
	// EventDischarge fires when a conducting cell starts discharging.
	EventDischarge EventKind = iota + 1
	// EventIgnition fires when a cell catches fire.
	EventIgnition
	// EventExplosion fires at the centre of a blast.
	EventExplosion
	// EventStrike fires where a lightning bolt lands.
	EventStrike
)

func (k EventKind) String() string {
	switch k {
	case EventDischarge:
		return "discharge"
	case EventIgnition:
		return "ignition"
	case EventExplosion:
		return "explosion"
	case EventStrike:
		return "strike"
	default:
		return "unknown"
	}
}

// Event is one externally visible occurrence during a tick.
type Event struct {
	Kind EventKind
	X, Y int
	Tick uint64
}

// maxEvents caps the per-tick event list; counters in Stats keep the totals.
const maxEvents = 4096
