package repository

import (
	"context"
	"fmt"

	"github.com/stadiumhouse/blueline/internal/store"
)

// NoticeRepository handles admin notice data access
type NoticeRepository struct {
	db *store.Database
}

// NewNoticeRepository creates a new notice repository
func NewNoticeRepository(db *store.Database) *NoticeRepository {
	return &NoticeRepository{db: db}
}

// GetActive returns all notices that are active and not dismissed
func (r *NoticeRepository) GetActive(ctx context.Context) ([]*store.Notice, error) {
	query := `
		SELECT notice_id, message, active, dismissed_at, created_at
		FROM notices
		WHERE active = true AND dismissed_at IS NULL
		ORDER BY created_at DESC
	`

	rows, err := r.db.DB().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying notices: %w", err)
	}
	defer rows.Close()

	var notices []*store.Notice
	for rows.Next() {
		n := &store.Notice{}
		if err := rows.Scan(&n.NoticeID, &n.Message, &n.Active, &n.DismissedAt, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning notice: %w", err)
		}
		notices = append(notices, n)
	}

	return notices, rows.Err()
}

// Dismiss records dismissal of a notice
func (r *NoticeRepository) Dismiss(ctx context.Context, noticeID int) error {
	query := `
		UPDATE notices
		SET dismissed_at = NOW()
		WHERE notice_id = $1 AND dismissed_at IS NULL
	`

	result, err := r.db.DB().ExecContext(ctx, query, noticeID)
	if err != nil {
		return fmt.Errorf("dismissing notice: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("notice not found or already dismissed: %d", noticeID)
	}

	return nil
}
