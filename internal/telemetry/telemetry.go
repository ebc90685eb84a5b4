// Package telemetry carries fire-and-forget gameplay notifications.
//
// Games emit Events into a Sink and never consume a return value. Sinks fan out
// to the structured log, the SQLite event table and the spectator feed.
package telemetry

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Kind names what happened.
type Kind string

const (
	KindStart     Kind = "start"
	KindMove      Kind = "move"
	KindCollect   Kind = "collect"
	KindCollapse  Kind = "collapse"
	KindRoom      Kind = "room"
	KindWin       Kind = "win"
	KindLose      Kind = "lose"
	KindRestart   Kind = "restart"
	KindLoadError Kind = "load_error"
	KindPush      Kind = "push"
	KindLevel     Kind = "level"
)

// Event is a single gameplay notification.
type Event struct {
	Session string    `json:"session"`
	Game    string    `json:"game"`
	Kind    Kind      `json:"kind"`
	Room    string    `json:"room,omitempty"`
	X       int       `json:"x"`
	Y       int       `json:"y"`
	Detail  string    `json:"detail,omitempty"`
	At      time.Time `json:"at"`
}

// Sink receives events. Record must not block the caller for long.
type Sink interface {
	Record(Event)
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(Event)

// Record calls f(e).
func (f SinkFunc) Record(e Event) { f(e) }

type discard struct{}

func (discard) Record(Event) {}

// Discard drops every event.
var Discard Sink = discard{}

type multi []Sink

func (m multi) Record(e Event) {
	for _, s := range m {
		s.Record(e)
	}
}

// Multi returns a sink that forwards to every non-nil sink in order.
func Multi(sinks ...Sink) Sink {
	out := make(multi, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	switch len(out) {
	case 0:
		return Discard
	case 1:
		return out[0]
	}
	return out
}

var (
	defaultMu   sync.RWMutex
	defaultSink Sink = Discard
)

// SetDefault installs the sink games pick up on their next Reset.
// A nil sink restores Discard.
func SetDefault(s Sink) {
	if s == nil {
		s = Discard
	}
	defaultMu.Lock()
	defaultSink = s
	defaultMu.Unlock()
}

// Default returns the sink installed with SetDefault.
func Default() Sink {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultSink
}

// NewSessionID returns a fresh random session identifier.
func NewSessionID() string {
	return uuid.NewString()
}

// Recorder stamps events with a session id, game id and time before
// forwarding them.
type Recorder struct {
	Session string
	Game    string
	Sink    Sink
	Now     func() time.Time
}

// NewRecorder creates a recorder with a fresh session id.
func NewRecorder(game string, sink Sink) *Recorder {
	if sink == nil {
		sink = Discard
	}
	return &Recorder{
		Session: NewSessionID(),
		Game:    game,
		Sink:    sink,
		Now:     time.Now,
	}
}

// Emit fills in the recorder fields and forwards the event.
func (r *Recorder) Emit(e Event) {
	if r == nil {
		return
	}
	e.Session = r.Session
	e.Game = r.Game
	if e.At.IsZero() {
		e.At = r.Now()
	}
	r.Sink.Record(e)
}

// Memory keeps events in memory. Useful in tests.
type Memory struct {
	mu     sync.Mutex
	events []Event
}

// Record appends e.
func (m *Memory) Record(e Event) {
	m.mu.Lock()
	m.events = append(m.events, e)
	m.mu.Unlock()
}

// Events returns a copy of the recorded events.
func (m *Memory) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Event, len(m.events))
	copy(out, m.events)
	return out
}

// Kinds returns the kinds of the recorded events in order.
func (m *Memory) Kinds() []Kind {
	evs := m.Events()
	out := make([]Kind, len(evs))
	for i, e := range evs {
		out[i] = e.Kind
	}
	return out
}
