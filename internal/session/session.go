// Package session drives one play-through of a room maze.
//
// A Session owns the World, the countdown and the status message queue, and
// moves through NotStarted → Playing → {Won, Lost}. Rooms arrive
// asynchronously through a RoomRequester; the session starts playing as soon
// as the start room is in. All methods must be called from a single goroutine.
package session

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/roomwalk/internal/core"
	"github.com/vovakirdan/roomwalk/internal/telemetry"
	"github.com/vovakirdan/roomwalk/internal/world"
)

// State is the session lifecycle state.
type State int

const (
	NotStarted State = iota
	Playing
	Won
	Lost
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not started"
	case Playing:
		return "playing"
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return "unknown"
	}
}

// Over reports whether the session has ended.
func (s State) Over() bool {
	return s == Won || s == Lost
}

// Config describes the maze and the clock.
type Config struct {
	Game         string // telemetry game id
	MazeW, MazeH int
	RoomW, RoomH int
	StartRoom    world.RoomCoord
	StartPos     core.Point
	Seconds      int // countdown length
	MessageEvery int // seconds between narration lines
	StartMessage string

	PointsPerItem   int // score per collectible on escape
	PointsPerSecond int // score per second left on escape
}

// DefaultConfig matches the embedded three-by-two pyramid.
func DefaultConfig() Config {
	return Config{
		Game:         "pyramid",
		MazeW:        3,
		MazeH:        2,
		RoomW:        16,
		RoomH:        16,
		StartRoom:    world.RoomCoord{X: 1, Y: 1},
		StartPos:     core.Pt(8, 8),
		Seconds:      120,
		MessageEvery: 5,
		StartMessage: MsgStart,

		PointsPerItem:   50,
		PointsPerSecond: 1,
	}
}

// Validate checks that the config describes a playable maze.
func (c Config) Validate() error {
	if c.MazeW <= 0 || c.MazeH <= 0 {
		return fmt.Errorf("session: invalid maze size %dx%d", c.MazeW, c.MazeH)
	}
	if c.RoomW <= 0 || c.RoomH <= 0 {
		return fmt.Errorf("session: invalid room size %dx%d", c.RoomW, c.RoomH)
	}
	if c.StartRoom.X < 0 || c.StartRoom.X >= c.MazeW || c.StartRoom.Y < 0 || c.StartRoom.Y >= c.MazeH {
		return fmt.Errorf("session: start room %v outside %dx%d maze", c.StartRoom, c.MazeW, c.MazeH)
	}
	if c.StartPos.X < 0 || c.StartPos.X >= c.RoomW || c.StartPos.Y < 0 || c.StartPos.Y >= c.RoomH {
		return fmt.Errorf("session: start position %v outside %dx%d room", c.StartPos, c.RoomW, c.RoomH)
	}
	if c.Seconds <= 0 {
		return errors.New("session: countdown must be positive")
	}
	if c.MessageEvery <= 0 {
		return errors.New("session: message cadence must be positive")
	}
	return nil
}

// Request asks for one room of a given generation.
type Request struct {
	Gen   int
	Coord world.RoomCoord
}

// Result answers a Request. Exactly one of Room and Err is set.
type Result struct {
	Gen   int
	Coord world.RoomCoord
	Room  *world.Room
	Err   error
}

// RoomRequester starts loading a room. The result must be handed back through
// Session.RoomLoaded on the session's goroutine; it may happen before
// RequestRoom returns.
type RoomRequester interface {
	RequestRoom(Request)
}

// RequesterFunc adapts a function to a RoomRequester.
type RequesterFunc func(Request)

// RequestRoom calls f(r).
func (f RequesterFunc) RequestRoom(r Request) { f(r) }

// Session is one play-through.
type Session struct {
	cfg Config
	req RoomRequester
	rec *telemetry.Recorder

	gen     int
	state   State
	world   *world.World
	totals  world.Counters
	loadErr error

	remaining int
	lostMsg   string
	message   string
	queue     []string
	msgTicks  int
}

// New creates a session. Call Start to request the rooms.
func New(cfg Config, req RoomRequester, sink telemetry.Sink) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, errors.New("session: nil room requester")
	}
	s := &Session{
		cfg: cfg,
		req: req,
		rec: telemetry.NewRecorder(cfg.Game, sink),
	}
	s.reset()
	return s, nil
}

// ID returns the telemetry session id.
func (s *Session) ID() string { return s.rec.Session }

// Config returns the session config.
func (s *Session) Config() Config { return s.cfg }

// State returns the lifecycle state.
func (s *Session) State() State { return s.state }

// World returns the live world. Callers must not move the player directly.
func (s *Session) World() *world.World { return s.world }

// Remaining returns the seconds left on the countdown.
func (s *Session) Remaining() int { return s.remaining }

// Totals returns the collectibles held by all loaded rooms before play.
func (s *Session) Totals() world.Counters { return s.totals }

// LoadErr returns the first fatal room loading error, if any.
func (s *Session) LoadErr() error { return s.loadErr }

// Gen returns the current load generation.
func (s *Session) Gen() int { return s.gen }

func (s *Session) reset() {
	maze := world.NewMaze(s.cfg.MazeW, s.cfg.MazeH, s.cfg.RoomW, s.cfg.RoomH)
	s.world = world.New(maze, s.cfg.StartRoom, s.cfg.StartPos)
	s.state = NotStarted
	s.totals = world.Counters{}
	s.loadErr = nil
	s.remaining = s.cfg.Seconds
	s.lostMsg = ""
	s.message = s.cfg.StartMessage
	s.queue = nil
	s.msgTicks = 0
}

// Start requests every room of the maze.
func (s *Session) Start() {
	s.requestAll()
}

// Restart throws away the current play-through, reloads every room and
// restarts the countdown. Results of earlier requests are ignored from now on.
func (s *Session) Restart() {
	s.gen++
	s.reset()
	s.emit(telemetry.KindRestart, "")
	s.requestAll()
}

func (s *Session) requestAll() {
	gen := s.gen
	for _, rc := range s.world.Maze.Coords() {
		// A synchronous requester may restart us from inside RoomLoaded.
		if s.gen != gen {
			return
		}
		s.req.RequestRoom(Request{Gen: gen, Coord: rc})
	}
}

// RoomLoaded installs a finished room. Stale results are dropped and reported
// as false.
func (s *Session) RoomLoaded(r Result) bool {
	if r.Gen != s.gen {
		return false
	}
	maze := s.world.Maze
	if r.Err != nil {
		s.fail(r.Coord, r.Err)
		return true
	}
	if maze.Loaded(r.Coord) {
		return true
	}
	if err := maze.Put(r.Coord, r.Room); err != nil {
		s.fail(r.Coord, err)
		return true
	}
	got := r.Room.Collectibles()
	for i := range s.totals {
		s.totals[i] += got[i]
	}
	s.maybeBegin()
	return true
}

// fail records the first fatal load error.
func (s *Session) fail(rc world.RoomCoord, err error) {
	if s.loadErr != nil {
		return
	}
	s.loadErr = fmt.Errorf("session: room %v: %w", rc, err)
	e := s.event(telemetry.KindLoadError, err.Error())
	e.Room = rc.String()
	s.rec.Emit(e)
}

func (s *Session) maybeBegin() {
	if s.state != NotStarted || s.loadErr != nil {
		return
	}
	room := s.world.Maze.Room(s.cfg.StartRoom)
	if room == nil {
		return
	}
	if !room.At(s.cfg.StartPos).Walkable() {
		s.fail(s.cfg.StartRoom, fmt.Errorf("start position %v is a wall", s.cfg.StartPos))
		return
	}
	s.state = Playing
	s.emit(telemetry.KindStart, "")
}

// Move attempts a step. Outside Playing nothing happens.
func (s *Session) Move(d core.Dir) world.MoveResult {
	if s.state != Playing {
		p := s.world.Player
		return world.MoveResult{Room: p.Room, Pos: p.Pos}
	}

	res := s.world.Move(d)
	if !res.Moved {
		return res
	}
	s.emit(telemetry.KindMove, d.String())
	if res.RoomChanged {
		s.emit(telemetry.KindRoom, "")
	}

	switch res.Effect {
	case world.EffectCollect:
		s.message = collectMessage(res.Item)
		s.emit(telemetry.KindCollect, res.Item.String())
	case world.EffectCollapse:
		s.emit(telemetry.KindCollapse, "")
	case world.EffectExit:
		s.win()
	}
	return res
}

func (s *Session) win() {
	s.state = Won
	s.world.Player.GameOver = true
	// Rooms still loading would make a partial haul look complete.
	total := s.totals
	if !s.world.Maze.Complete() {
		total = world.Counters{}
	}
	lines := Narration(s.world.Player.Counters, total)
	s.message, s.queue = lines[0], lines[1:]
	s.msgTicks = 0
	s.emit(telemetry.KindWin, lines[0])
}

func (s *Session) lose(msg, reason string) {
	s.state = Lost
	s.world.Player.GameOver = true
	s.lostMsg = msg
	s.queue = nil
	s.emit(telemetry.KindLose, reason)
}

// Surrender ends a running session as lost. Reports whether it did anything.
func (s *Session) Surrender() bool {
	if s.state != Playing {
		return false
	}
	s.lose(MsgSurrender, "surrender")
	return true
}

// Tick advances the clock by one second. The countdown only runs while
// playing; the narration queue keeps advancing after the game ends.
func (s *Session) Tick() {
	if s.state == Playing {
		s.remaining--
		if s.remaining <= 0 {
			s.remaining = 0
			s.lose(MsgTimeUp, "timeout")
		}
	}

	if len(s.queue) > 0 {
		s.msgTicks++
		if s.msgTicks >= s.cfg.MessageEvery {
			s.message, s.queue = s.queue[0], s.queue[1:]
			s.msgTicks = 0
		}
	}
}

// Status returns the single status line.
func (s *Session) Status() string {
	switch s.state {
	case NotStarted:
		if s.loadErr != nil {
			return "Could not load the maze: " + s.loadErr.Error()
		}
		return MsgLoading
	case Playing:
		return FormatClock(s.remaining) + "     " + s.message
	case Lost:
		return s.lostMsg
	default:
		return s.message
	}
}

// Ending returns the end picture to show.
func (s *Session) Ending() Ending {
	switch s.state {
	case Won:
		return EndingFor(s.world.Player.Counters)
	case Lost:
		return EndingLost
	default:
		return EndingNone
	}
}

// Score is zero unless the player escaped.
func (s *Session) Score() int {
	if s.state != Won {
		return 0
	}
	return s.cfg.PointsPerItem*s.world.Player.Counters.Total() + s.cfg.PointsPerSecond*s.remaining
}

// Snapshot is a read-only view for renderers and tests.
type Snapshot struct {
	State     State
	Room      world.RoomCoord
	Pos       core.Point
	Collected world.Counters
	Totals    world.Counters
	Remaining int
	Status    string
	Ending    Ending
	Loaded    int
	Rooms     int
	LoadErr   error
}

// Snapshot captures the current session state.
func (s *Session) Snapshot() Snapshot {
	p := s.world.Player
	m := s.world.Maze
	return Snapshot{
		State:     s.state,
		Room:      p.Room,
		Pos:       p.Pos,
		Collected: p.Counters,
		Totals:    s.totals,
		Remaining: s.remaining,
		Status:    s.Status(),
		Ending:    s.Ending(),
		Loaded:    m.LoadedCount(),
		Rooms:     m.W * m.H,
		LoadErr:   s.loadErr,
	}
}

func (s *Session) event(kind telemetry.Kind, detail string) telemetry.Event {
	p := s.world.Player
	return telemetry.Event{
		Kind:   kind,
		Room:   p.Room.String(),
		X:      p.Pos.X,
		Y:      p.Pos.Y,
		Detail: detail,
	}
}

func (s *Session) emit(kind telemetry.Kind, detail string) {
	s.rec.Emit(s.event(kind, detail))
}
