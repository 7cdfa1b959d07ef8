package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/stadiumhouse/blueline/internal/store"
)

// EventRepository handles calendar event data access
type EventRepository struct {
	db *store.Database
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *store.Database) *EventRepository {
	return &EventRepository{db: db}
}

// Create inserts a new event and returns its ID
func (r *EventRepository) Create(ctx context.Context, event *store.Event) (int, error) {
	query := `
		INSERT INTO events (event_title, event_date, event_type, description,
			location, image_url, is_featured, status, allow_rsvp, source_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING event_id
	`

	var eventID int
	err := r.db.DB().QueryRowContext(ctx, query,
		event.EventTitle, event.EventDate, event.EventType, event.Description,
		event.Location, event.ImageURL, event.IsFeatured, event.Status,
		event.AllowRSVP, event.SourceKey,
	).Scan(&eventID)
	if err != nil {
		return 0, fmt.Errorf("inserting event: %w", err)
	}

	return eventID, nil
}

// ExistsBySourceKey reports whether an event with the given source key exists.
// Used by the schedule materializer when idempotent inserts are enabled.
func (r *EventRepository) ExistsBySourceKey(ctx context.Context, key string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM events WHERE source_key = $1)`

	var exists bool
	if err := r.db.DB().QueryRowContext(ctx, query, key).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking source key: %w", err)
	}

	return exists, nil
}

// GetByID finds an event by ID
func (r *EventRepository) GetByID(ctx context.Context, eventID int) (*store.Event, error) {
	query := `
		SELECT event_id, event_title, event_date, event_type, description,
			location, image_url, is_featured, status, allow_rsvp, source_key,
			created_at, updated_at
		FROM events
		WHERE event_id = $1
	`

	event := &store.Event{}
	err := r.db.DB().QueryRowContext(ctx, query, eventID).Scan(
		&event.EventID, &event.EventTitle, &event.EventDate, &event.EventType,
		&event.Description, &event.Location, &event.ImageURL, &event.IsFeatured,
		&event.Status, &event.AllowRSVP, &event.SourceKey,
		&event.CreatedAt, &event.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("event not found: %d", eventID)
	}
	if err != nil {
		return nil, fmt.Errorf("querying event: %w", err)
	}

	return event, nil
}

// GetUpcoming returns published events from now forward, soonest first
func (r *EventRepository) GetUpcoming(ctx context.Context, limit int) ([]*store.Event, error) {
	query := `
		SELECT event_id, event_title, event_date, event_type, description,
			location, image_url, is_featured, status, allow_rsvp, source_key,
			created_at, updated_at
		FROM events
		WHERE status = 'published' AND event_date >= NOW()
		ORDER BY event_date
		LIMIT $1
	`

	return r.queryEvents(ctx, query, limit)
}

// GetByDateRange returns events of any status within [start, end)
func (r *EventRepository) GetByDateRange(ctx context.Context, start, end time.Time) ([]*store.Event, error) {
	query := `
		SELECT event_id, event_title, event_date, event_type, description,
			location, image_url, is_featured, status, allow_rsvp, source_key,
			created_at, updated_at
		FROM events
		WHERE event_date >= $1 AND event_date < $2
		ORDER BY event_date
	`

	return r.queryEvents(ctx, query, start, end)
}

// Update modifies the mutable fields of an event
func (r *EventRepository) Update(ctx context.Context, event *store.Event) error {
	query := `
		UPDATE events
		SET event_title = $2, event_date = $3, event_type = $4, description = $5,
			location = $6, image_url = $7, is_featured = $8, status = $9,
			allow_rsvp = $10, updated_at = NOW()
		WHERE event_id = $1
	`

	result, err := r.db.DB().ExecContext(ctx, query,
		event.EventID, event.EventTitle, event.EventDate, event.EventType,
		event.Description, event.Location, event.ImageURL, event.IsFeatured,
		event.Status, event.AllowRSVP,
	)
	if err != nil {
		return fmt.Errorf("updating event: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("event not found: %d", event.EventID)
	}

	return nil
}

// Delete removes an event
func (r *EventRepository) Delete(ctx context.Context, eventID int) error {
	result, err := r.db.DB().ExecContext(ctx, `DELETE FROM events WHERE event_id = $1`, eventID)
	if err != nil {
		return fmt.Errorf("deleting event: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("event not found: %d", eventID)
	}

	return nil
}

// PublishDueDrafts flips draft events whose date falls within the publish
// window to published, returning how many were updated.
func (r *EventRepository) PublishDueDrafts(ctx context.Context, window time.Duration) (int64, error) {
	query := `
		UPDATE events
		SET status = 'published', updated_at = NOW()
		WHERE status = 'draft' AND event_date <= NOW() + $1::interval
	`

	result, err := r.db.DB().ExecContext(ctx, query, fmt.Sprintf("%d seconds", int(window.Seconds())))
	if err != nil {
		return 0, fmt.Errorf("publishing due drafts: %w", err)
	}

	return result.RowsAffected()
}

func (r *EventRepository) queryEvents(ctx context.Context, query string, args ...interface{}) ([]*store.Event, error) {
	rows, err := r.db.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer rows.Close()

	var events []*store.Event
	for rows.Next() {
		event := &store.Event{}
		err := rows.Scan(
			&event.EventID, &event.EventTitle, &event.EventDate, &event.EventType,
			&event.Description, &event.Location, &event.ImageURL, &event.IsFeatured,
			&event.Status, &event.AllowRSVP, &event.SourceKey,
			&event.CreatedAt, &event.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		events = append(events, event)
	}

	return events, rows.Err()
}
