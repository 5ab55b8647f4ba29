package stream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"powder-ca/pkg/core"
	"powder-ca/pkg/sims/powder"

	"github.com/gorilla/websocket"
)

// Frame is the message pushed to websocket clients after every tick.
type Frame struct {
	Tick   uint64  `json:"tick"`
	W      int     `json:"w"`
	H      int     `json:"h"`
	Cells  []int   `json:"cells"`
	Events []Event `json:"events,omitempty"`
}

// Event mirrors powder.Event for the wire.
type Event struct {
	Kind string `json:"kind"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

// Command is a client request. Ops: paint, energize, strike, explode, clear,
// scene.
type Command struct {
	Op      string `json:"op"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	R       int    `json:"r"`
	Element string `json:"element,omitempty"`
	Scene   string `json:"scene,omitempty"`
}

// ErrUnknownOp is returned for commands the server does not understand.
var ErrUnknownOp = errors.New("stream: unknown op")

// ErrRadius is returned for brush and blast radii outside [0, MaxRadius].
var ErrRadius = errors.New("stream: radius out of range")

// MaxRadius bounds the radius a client may request for paint and explode.
const MaxRadius = 32

type job struct {
	fn    func() error
	reply chan error
}

// Server owns the tick loop of one world. All mutations are funnelled through
// the loop so they land between ticks and never see powder.ErrBusy.
type Server struct {
	world    *powder.World
	hub      *Hub
	log      powder.Logger
	interval time.Duration
	upgrader websocket.Upgrader
	jobs     chan job
	latest   atomic.Pointer[[]byte]
	frame    []uint8
}

// Option configures a Server.
type Option func(*Server)

// WithLogger injects a logger.
func WithLogger(l powder.Logger) Option {
	return func(s *Server) { s.log = l }
}

// WithInterval sets the tick period.
func WithInterval(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.interval = d
		}
	}
}

// NewServer creates a server for world. Call Run to start ticking.
func NewServer(world *powder.World, opts ...Option) *Server {
	s := &Server{
		world:    world,
		hub:      NewHub(),
		log:      powder.NewNoOpLogger(),
		interval: time.Second / 30,
		jobs:     make(chan job, 64),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Hub exposes the client set.
func (s *Server) Hub() *Hub { return s.hub }

// Handler returns the HTTP routes:
//
//	GET  /ws        frame stream, accepts Command messages
//	GET  /params    parameter snapshot
//	POST /params    {"key": ..., "value": ...}
//	GET  /elements  element names, glyphs and palette indices
//	GET  /healthz
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/params", s.handleParams)
	mux.HandleFunc("/elements", s.handleElements)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

// Run steps the world every interval and broadcasts each frame until ctx is
// cancelled. Queued mutations are applied between ticks.
func (s *Server) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	s.publish()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case j := <-s.jobs:
			err := j.fn()
			if j.reply != nil {
				j.reply <- err
			} else if err != nil {
				s.log.Warnf("stream: %v", err)
			}
		case <-ticker.C:
			s.world.Step()
			s.publish()
		}
	}
}

// Close disconnects all clients.
func (s *Server) Close() error { return s.hub.Close() }

// Apply executes a command against the world immediately. Run calls it
// between ticks; callers outside the loop may get powder.ErrBusy.
func (s *Server) Apply(cmd Command) error {
	w := s.world
	op := strings.ToLower(cmd.Op)
	if (op == "paint" || op == "explode") && (cmd.R < 0 || cmd.R > MaxRadius) {
		return fmt.Errorf("%w: %d", ErrRadius, cmd.R)
	}
	switch op {
	case "paint":
		id, ok := w.Elements().ByName(cmd.Element)
		if !ok {
			return fmt.Errorf("%w: %q", powder.ErrInvalidElement, cmd.Element)
		}
		return w.PlaceBrush(cmd.X, cmd.Y, cmd.R, id)
	case "energize":
		return w.Energize(cmd.X, cmd.Y)
	case "strike":
		return w.Strike(cmd.X, cmd.Y)
	case "explode":
		return w.Explode(cmd.X, cmd.Y, cmd.R)
	case "clear":
		return w.Clear()
	case "scene":
		return w.LoadScene(cmd.Scene)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOp, cmd.Op)
	}
}

func (s *Server) enqueue(fn func() error) bool {
	select {
	case s.jobs <- job{fn: fn}:
		return true
	default:
		return false
	}
}

// call runs fn on the tick loop and waits for its result.
func (s *Server) call(ctx context.Context, fn func() error) error {
	j := job{fn: fn, reply: make(chan error, 1)}
	select {
	case s.jobs <- j:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-j.reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Server) publish() {
	msg, err := s.encodeFrame(s.world.Events())
	if err != nil {
		s.log.Errorf("stream: encode frame: %v", err)
		return
	}
	s.latest.Store(&msg)
	s.hub.Broadcast(msg)
}

func (s *Server) encodeFrame(events []powder.Event) ([]byte, error) {
	w, h := s.world.Dimensions()
	s.frame = s.world.Frame(s.frame)
	f := Frame{Tick: s.world.Tick(), W: w, H: h, Cells: make([]int, len(s.frame))}
	for i, v := range s.frame {
		f.Cells[i] = int(v)
	}
	for _, ev := range events {
		f.Events = append(f.Events, Event{Kind: ev.Kind.String(), X: ev.X, Y: ev.Y})
	}
	return json.Marshal(f)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warnf("stream: websocket upgrade: %v", err)
		return
	}
	s.hub.Register(conn)
	defer s.hub.Unregister(conn)
	s.log.Debugf("stream: client connected from %s", r.RemoteAddr)

	if msg := s.latest.Load(); msg != nil {
		if err := s.hub.Send(conn, *msg); err != nil {
			return
		}
	}

	for {
		var cmd Command
		if err := conn.ReadJSON(&cmd); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Debugf("stream: read: %v", err)
			}
			return
		}
		if !s.enqueue(func() error { return s.Apply(cmd) }) {
			s.log.Warnf("stream: command queue full, dropped %q", cmd.Op)
		}
	}
}

type paramRequest struct {
	Key   string  `json:"key"`
	Value float64 `json:"value"`
}

func (s *Server) handleParams(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, s.world.Parameters())
	case http.MethodPost:
		defer r.Body.Close()
		var req paramRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
			return
		}
		param, ok := s.world.Parameters().Lookup(req.Key)
		if !ok {
			http.Error(w, "unknown parameter", http.StatusBadRequest)
			return
		}
		var applied bool
		err := s.call(r.Context(), func() error {
			switch param.Type {
			case core.ParamTypeInt:
				applied = s.world.SetIntParameter(req.Key, int(req.Value))
			case core.ParamTypeFloat:
				applied = s.world.SetFloatParameter(req.Key, req.Value)
			}
			return nil
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		if !applied {
			http.Error(w, "parameter not adjustable to that value", http.StatusBadRequest)
			return
		}
		writeJSON(w, s.world.Parameters())
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

type elementInfo struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Glyph   string `json:"glyph"`
	Palette int    `json:"palette"`
	Color   string `json:"color"`
}

func (s *Server) handleElements(w http.ResponseWriter, r *http.Request) {
	palette := s.world.Palette()
	var out []elementInfo
	for _, e := range s.world.Elements().All() {
		idx := powder.PaletteIndex(powder.Cell{Element: e.ID})
		c := palette[idx]
		out = append(out, elementInfo{
			ID:      int(e.ID),
			Name:    e.Name,
			Glyph:   string(e.Glyph),
			Palette: int(idx),
			Color:   fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B),
		})
	}
	writeJSON(w, out)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "cannot encode: "+err.Error(), http.StatusInternalServerError)
	}
}
