package store

import (
	"database/sql"
	"errors"
	"time"
)

// Event is one dispatched action as recorded in the history.
type Event struct {
	ID      string
	Action  string
	Outcome string
	// X, Y is the hand centre when the action fired.
	X, Y int
	Area float64
	// Snapshot is an optional JPEG thumbnail of the annotated frame.
	Snapshot []byte
	// SinkError is the action sink's error message, empty on success.
	SinkError string
	CreatedAt time.Time
}

// EventRepository provides access to the events table.
type EventRepository struct {
	db *sql.DB
}

// Events returns the event repository for this store.
func (s *Store) Events() *EventRepository {
	return &EventRepository{db: s.db}
}

const eventColumns = `id, action, outcome, x, y, area, sink_error, created_at`

// Create inserts an event. CreatedAt is set to now when zero.
func (r *EventRepository) Create(e *Event) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	e.CreatedAt = e.CreatedAt.UTC()

	_, err := r.db.Exec(
		`INSERT INTO events (id, action, outcome, x, y, area, snapshot, sink_error, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Action, e.Outcome, e.X, e.Y, e.Area, e.Snapshot, e.SinkError, e.CreatedAt,
	)
	return err
}

// GetByID retrieves an event, without its snapshot.
func (r *EventRepository) GetByID(id string) (*Event, error) {
	e := &Event{}
	err := r.db.QueryRow(
		`SELECT `+eventColumns+` FROM events WHERE id = ?`,
		id,
	).Scan(&e.ID, &e.Action, &e.Outcome, &e.X, &e.Y, &e.Area, &e.SinkError, &e.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

// Snapshot returns the JPEG stored with an event. It returns ErrNotFound
// when the event does not exist or has no snapshot.
func (r *EventRepository) Snapshot(id string) ([]byte, error) {
	var data []byte
	err := r.db.QueryRow(`SELECT snapshot FROM events WHERE id = ?`, id).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if len(data) == 0 {
		return nil, ErrNotFound
	}
	return data, nil
}

// List returns up to limit events, newest first. An empty action lists all
// actions; limit <= 0 means no limit.
func (r *EventRepository) List(action string, limit int) ([]*Event, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := r.db.Query(
		`SELECT `+eventColumns+` FROM events
		 WHERE (? = '' OR action = ?)
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`,
		action, action, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		e := &Event{}
		if err := rows.Scan(&e.ID, &e.Action, &e.Outcome, &e.X, &e.Y, &e.Area, &e.SinkError, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

// CountByAction returns how many events each action has.
func (r *EventRepository) CountByAction() (map[string]int, error) {
	rows, err := r.db.Query(`SELECT action, COUNT(*) FROM events GROUP BY action`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var action string
		var n int
		if err := rows.Scan(&action, &n); err != nil {
			return nil, err
		}
		counts[action] = n
	}
	return counts, rows.Err()
}

// Delete removes an event by its ID.
func (r *EventRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// Prune keeps the newest keep events and deletes the rest.
func (r *EventRepository) Prune(keep int) (int64, error) {
	result, err := r.db.Exec(
		`DELETE FROM events WHERE rowid NOT IN (
			SELECT rowid FROM events ORDER BY created_at DESC, rowid DESC LIMIT ?
		)`,
		keep,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
