package rooms

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/roomwalk/internal/session"
	"github.com/vovakirdan/roomwalk/internal/world"
)

// Loader decodes rooms in the background.
//
// RequestRoom starts a goroutine per room and returns at once; finished rooms
// queue up until the game drains them with Poll on its own goroutine. Decoded
// rooms are cached in their pristine form and every delivery is a fresh clone,
// so a restart gets untouched rooms without touching the disk again.
type Loader struct {
	fsys    fs.FS
	layout  Layout
	palette Palette
	logger  *log.Logger

	mu    sync.Mutex
	cache map[world.RoomCoord]*world.Room

	results chan session.Result
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithPalette overrides DefaultPalette.
func WithPalette(p Palette) LoaderOption {
	return func(l *Loader) { l.palette = p }
}

// WithLogger sets the logger used for load failures.
func WithLogger(logger *log.Logger) LoaderOption {
	return func(l *Loader) { l.logger = logger }
}

// NewLoader creates a loader reading layout files from fsys.
func NewLoader(fsys fs.FS, layout Layout, opts ...LoaderOption) (*Loader, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(context.Background())
	l := &Loader{
		fsys:    fsys,
		layout:  layout,
		palette: DefaultPalette,
		logger:  log.New(io.Discard),
		cache:   make(map[world.RoomCoord]*world.Room),
		results: make(chan session.Result, 2*layout.W*layout.H),
		ctx:     ctx,
		cancel:  cancel,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Layout returns the maze layout.
func (l *Loader) Layout() Layout { return l.layout }

// RequestRoom implements session.RoomRequester.
func (l *Loader) RequestRoom(req session.Request) {
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		room, err := l.Load(req.Coord)
		if err != nil {
			l.logger.Warn("room load failed", "room", req.Coord, "error", err)
		}
		res := session.Result{Gen: req.Gen, Coord: req.Coord, Room: room, Err: err}
		select {
		case l.results <- res:
		case <-l.ctx.Done():
		}
	}()
}

// Poll returns every result that has arrived so far without blocking.
func (l *Loader) Poll() []session.Result {
	var out []session.Result
	for {
		select {
		case r := <-l.results:
			out = append(out, r)
		default:
			return out
		}
	}
}

// Results exposes the raw result channel.
func (l *Loader) Results() <-chan session.Result {
	return l.results
}

// Load decodes the room at rc, using the cache when possible.
// The returned room is the caller's to mutate.
func (l *Loader) Load(rc world.RoomCoord) (*world.Room, error) {
	l.mu.Lock()
	cached, ok := l.cache[rc]
	l.mu.Unlock()
	if ok {
		return cached.Clone(), nil
	}

	name, ok := l.layout.File(rc)
	if !ok {
		return nil, fmt.Errorf("rooms: room %v outside layout", rc)
	}
	f, err := l.fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("rooms: open %s: %w", name, err)
	}
	defer f.Close()

	room, err := l.palette.Decode(name, f, l.layout.RoomW, l.layout.RoomH)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.cache[rc] = room
	l.mu.Unlock()
	return room.Clone(), nil
}

// LoadAll decodes every room synchronously and reports all failures joined.
func (l *Loader) LoadAll(ctx context.Context) (map[world.RoomCoord]*world.Room, error) {
	out := make(map[world.RoomCoord]*world.Room, l.layout.W*l.layout.H)
	var errs []error
	for _, rc := range l.layout.Coords() {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		room, err := l.Load(rc)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out[rc] = room
	}
	return out, errors.Join(errs...)
}

// Close abandons undelivered results and waits for loads in flight.
func (l *Loader) Close() {
	l.cancel()
	l.wg.Wait()
}
