package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/stadiumhouse/blueline/internal/store"
)

// FeedbackRepository handles guest feedback data access
type FeedbackRepository struct {
	db *store.Database
}

// NewFeedbackRepository creates a new feedback repository
func NewFeedbackRepository(db *store.Database) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

// Create inserts a new feedback row. The caller assigns the UUID.
func (r *FeedbackRepository) Create(ctx context.Context, fb *store.Feedback) error {
	query := `
		INSERT INTO feedback (feedback_id, guest_name, guest_email, rating,
			message, status)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.DB().ExecContext(ctx, query,
		fb.FeedbackID, fb.GuestName, fb.GuestEmail, fb.Rating,
		fb.Message, fb.Status,
	)
	if err != nil {
		return fmt.Errorf("inserting feedback: %w", err)
	}

	return nil
}

// GetByID finds a feedback entry by its UUID
func (r *FeedbackRepository) GetByID(ctx context.Context, feedbackID string) (*store.Feedback, error) {
	query := `
		SELECT feedback_id, guest_name, guest_email, rating, message,
			ai_response, status, created_at, updated_at
		FROM feedback
		WHERE feedback_id = $1
	`

	fb := &store.Feedback{}
	err := r.db.DB().QueryRowContext(ctx, query, feedbackID).Scan(
		&fb.FeedbackID, &fb.GuestName, &fb.GuestEmail, &fb.Rating, &fb.Message,
		&fb.AIResponse, &fb.Status, &fb.CreatedAt, &fb.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("feedback not found: %s", feedbackID)
	}
	if err != nil {
		return nil, fmt.Errorf("querying feedback: %w", err)
	}

	return fb, nil
}

// GetRecent returns recent feedback, optionally filtered by status
func (r *FeedbackRepository) GetRecent(ctx context.Context, status string, limit int) ([]*store.Feedback, error) {
	query := `
		SELECT feedback_id, guest_name, guest_email, rating, message,
			ai_response, status, created_at, updated_at
		FROM feedback
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.DB().QueryContext(ctx, query, status, limit)
	if err != nil {
		return nil, fmt.Errorf("querying feedback: %w", err)
	}
	defer rows.Close()

	var entries []*store.Feedback
	for rows.Next() {
		fb := &store.Feedback{}
		err := rows.Scan(
			&fb.FeedbackID, &fb.GuestName, &fb.GuestEmail, &fb.Rating, &fb.Message,
			&fb.AIResponse, &fb.Status, &fb.CreatedAt, &fb.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning feedback: %w", err)
		}
		entries = append(entries, fb)
	}

	return entries, rows.Err()
}

// SetAIResponse records the model-drafted reply and marks the entry responded
func (r *FeedbackRepository) SetAIResponse(ctx context.Context, feedbackID, response string) error {
	query := `
		UPDATE feedback
		SET ai_response = $2, status = 'responded', updated_at = NOW()
		WHERE feedback_id = $1
	`

	result, err := r.db.DB().ExecContext(ctx, query, feedbackID, response)
	if err != nil {
		return fmt.Errorf("setting ai response: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("feedback not found: %s", feedbackID)
	}

	return nil
}
