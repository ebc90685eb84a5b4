package telemetry

import (
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
)

// Async forwards events to another sink on a background goroutine.
// When the buffer is full new events are dropped rather than blocking
// the game loop.
type Async struct {
	next    Sink
	ch      chan Event
	done    chan struct{}
	once    sync.Once
	mu      sync.RWMutex
	closed  bool
	dropped atomic.Int64
}

// NewAsync starts a forwarder with the given buffer size.
func NewAsync(next Sink, buffer int) *Async {
	if buffer <= 0 {
		buffer = 256
	}
	a := &Async{
		next: next,
		ch:   make(chan Event, buffer),
		done: make(chan struct{}),
	}
	go a.run()
	return a
}

func (a *Async) run() {
	defer close(a.done)
	for e := range a.ch {
		a.next.Record(e)
	}
}

// Record queues e without blocking.
func (a *Async) Record(e Event) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		a.dropped.Add(1)
		return
	}
	select {
	case a.ch <- e:
	default:
		a.dropped.Add(1)
	}
}

// Dropped returns the number of events lost to a full buffer or after Close.
func (a *Async) Dropped() int64 {
	return a.dropped.Load()
}

// Close stops accepting events and waits until the queued ones are delivered.
func (a *Async) Close() {
	a.once.Do(func() {
		a.mu.Lock()
		a.closed = true
		close(a.ch)
		a.mu.Unlock()
	})
	<-a.done
}

// LogSink writes events to a structured logger at debug level,
// and outcomes (win, lose, load errors) at info level.
type LogSink struct {
	Logger *log.Logger
}

// NewLogSink wraps logger. A nil logger uses the package default.
func NewLogSink(logger *log.Logger) *LogSink {
	if logger == nil {
		logger = log.Default()
	}
	return &LogSink{Logger: logger}
}

// Record logs e.
func (s *LogSink) Record(e Event) {
	kv := []any{
		"session", e.Session,
		"game", e.Game,
		"room", e.Room,
		"x", e.X,
		"y", e.Y,
	}
	if e.Detail != "" {
		kv = append(kv, "detail", e.Detail)
	}
	switch e.Kind {
	case KindLoadError:
		s.Logger.Error(string(e.Kind), kv...)
	case KindWin, KindLose, KindStart, KindRestart:
		s.Logger.Info(string(e.Kind), kv...)
	default:
		s.Logger.Debug(string(e.Kind), kv...)
	}
}
