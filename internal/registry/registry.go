// Package registry lets games announce themselves from init so the CLI, the
// picker and the SSH server can list and build them by id.
package registry

import (
	"cmp"
	"fmt"
	"slices"
	"sync"

	"github.com/vovakirdan/roomwalk/internal/core"
)

// Game is driven by the platform one tick at a time. Games never see the
// terminal: they get input frames and draw into a core.Screen.
type Game interface {
	ID() string    // stable key for the CLI and the scores table
	Title() string // display name

	// Reset starts a fresh round sized to cfg.
	Reset(cfg core.RuntimeConfig)

	// Step advances exactly one tick.
	Step(in core.InputFrame) core.StepResult

	// Render draws the current state. dst is cleared by the game itself.
	Render(dst *core.Screen)

	State() core.GameState
}

// Closer is a game holding background resources, such as a room loader.
type Closer interface {
	Close()
}

// Resizer is a game that follows a terminal resize without a Reset.
type Resizer interface {
	Resize(w, h int)
}

// Describer is a game with a one-line pitch for listings.
type Describer interface {
	Description() string
}

// Release closes g when it is a Closer.
func Release(g Game) {
	if c, ok := g.(Closer); ok {
		c.Close()
	}
}

// GameInfo is what listings show about a game.
type GameInfo struct {
	ID          string
	Title       string
	Description string
}

// Factory builds a new game instance.
type Factory func() Game

type entry struct {
	build Factory
	info  GameInfo
}

var (
	mu    sync.RWMutex
	games = map[string]entry{}
)

// Register adds a game. It builds one throwaway instance to read the title
// and pitch, and panics on a duplicate id.
func Register(id string, build Factory) {
	g := build()
	info := GameInfo{ID: id, Title: g.Title()}
	if d, ok := g.(Describer); ok {
		info.Description = d.Description()
	}
	Release(g)

	mu.Lock()
	defer mu.Unlock()
	if _, dup := games[id]; dup {
		panic(fmt.Sprintf("registry: game %q already registered", id))
	}
	games[id] = entry{build: build, info: info}
}

// List returns every registered game ordered by id.
func List() []GameInfo {
	mu.RLock()
	out := make([]GameInfo, 0, len(games))
	for _, e := range games {
		out = append(out, e.info)
	}
	mu.RUnlock()

	slices.SortFunc(out, func(a, b GameInfo) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

// Create builds a new instance of the game registered as id.
func Create(id string) (Game, error) {
	mu.RLock()
	e, ok := games[id]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("registry: unknown game %q", id)
	}
	return e.build(), nil
}

// Exists reports whether id is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()
	_, ok := games[id]
	return ok
}
