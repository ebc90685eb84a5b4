package storage

import (
	"fmt"
	"time"

	"github.com/vovakirdan/roomwalk/internal/telemetry"
)

// RecordEvent stores a telemetry event.
func (s *Store) RecordEvent(e telemetry.Event) error {
	at := e.At
	if at.IsZero() {
		at = time.Now()
	}
	_, err := s.db.Exec(
		`INSERT INTO events (session_id, game_id, kind, room, x, y, detail, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Session, e.Game, string(e.Kind), e.Room, e.X, e.Y, e.Detail, at.UTC(),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot record event: %w", err)
	}
	return nil
}

// Record implements telemetry.Sink. Errors are dropped; telemetry is
// fire-and-forget.
func (s *Store) Record(e telemetry.Event) {
	_ = s.RecordEvent(e)
}

var _ telemetry.Sink = (*Store)(nil)

// EventsForSession returns the events of one session in recording order.
func (s *Store) EventsForSession(sessionID string) ([]telemetry.Event, error) {
	rows, err := s.db.Query(
		`SELECT session_id, game_id, kind, room, x, y, detail, created_at
		 FROM events
		 WHERE session_id = ?
		 ORDER BY id`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query events: %w", err)
	}
	defer rows.Close()

	var events []telemetry.Event
	for rows.Next() {
		var e telemetry.Event
		var kind string
		var at any
		if err := rows.Scan(&e.Session, &e.Game, &kind, &e.Room, &e.X, &e.Y, &e.Detail, &at); err != nil {
			return nil, fmt.Errorf("storage: cannot scan event: %w", err)
		}
		e.Kind = telemetry.Kind(kind)
		e.At = parseTime(at)
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return events, nil
}

// EventCounts returns how many events of each kind a game has produced.
func (s *Store) EventCounts(gameID string) (map[telemetry.Kind]int, error) {
	rows, err := s.db.Query(
		`SELECT kind, COUNT(*) FROM events WHERE game_id = ? GROUP BY kind`,
		gameID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot count events: %w", err)
	}
	defer rows.Close()

	counts := make(map[telemetry.Kind]int)
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, fmt.Errorf("storage: cannot scan event count: %w", err)
		}
		counts[telemetry.Kind(kind)] = n
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return counts, nil
}
