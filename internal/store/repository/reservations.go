package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/stadiumhouse/blueline/internal/store"
)

// ReservationRepository handles table reservation data access
type ReservationRepository struct {
	db *store.Database
}

// NewReservationRepository creates a new reservation repository
func NewReservationRepository(db *store.Database) *ReservationRepository {
	return &ReservationRepository{db: db}
}

// Create inserts a new reservation and returns its ID
func (r *ReservationRepository) Create(ctx context.Context, res *store.Reservation) (int, error) {
	query := `
		INSERT INTO reservations (guest_name, guest_email, guest_phone,
			party_size, reserved_at, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING reservation_id
	`

	var reservationID int
	err := r.db.DB().QueryRowContext(ctx, query,
		res.GuestName, res.GuestEmail, res.GuestPhone,
		res.PartySize, res.ReservedAt, res.Status, res.Notes,
	).Scan(&reservationID)
	if err != nil {
		return 0, fmt.Errorf("inserting reservation: %w", err)
	}

	return reservationID, nil
}

// GetByID finds a reservation by ID
func (r *ReservationRepository) GetByID(ctx context.Context, reservationID int) (*store.Reservation, error) {
	query := `
		SELECT reservation_id, guest_name, guest_email, guest_phone,
			party_size, reserved_at, status, notes, created_at, updated_at
		FROM reservations
		WHERE reservation_id = $1
	`

	res := &store.Reservation{}
	err := r.db.DB().QueryRowContext(ctx, query, reservationID).Scan(
		&res.ReservationID, &res.GuestName, &res.GuestEmail, &res.GuestPhone,
		&res.PartySize, &res.ReservedAt, &res.Status, &res.Notes,
		&res.CreatedAt, &res.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("reservation not found: %d", reservationID)
	}
	if err != nil {
		return nil, fmt.Errorf("querying reservation: %w", err)
	}

	return res, nil
}

// GetUpcoming returns reservations from now forward, optionally filtered by status
func (r *ReservationRepository) GetUpcoming(ctx context.Context, status string, limit int) ([]*store.Reservation, error) {
	query := `
		SELECT reservation_id, guest_name, guest_email, guest_phone,
			party_size, reserved_at, status, notes, created_at, updated_at
		FROM reservations
		WHERE reserved_at >= NOW() AND ($1 = '' OR status = $1)
		ORDER BY reserved_at
		LIMIT $2
	`

	rows, err := r.db.DB().QueryContext(ctx, query, status, limit)
	if err != nil {
		return nil, fmt.Errorf("querying reservations: %w", err)
	}
	defer rows.Close()

	var reservations []*store.Reservation
	for rows.Next() {
		res := &store.Reservation{}
		err := rows.Scan(
			&res.ReservationID, &res.GuestName, &res.GuestEmail, &res.GuestPhone,
			&res.PartySize, &res.ReservedAt, &res.Status, &res.Notes,
			&res.CreatedAt, &res.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning reservation: %w", err)
		}
		reservations = append(reservations, res)
	}

	return reservations, rows.Err()
}

// UpdateStatus changes a reservation's status
func (r *ReservationRepository) UpdateStatus(ctx context.Context, reservationID int, status string) error {
	query := `
		UPDATE reservations
		SET status = $2, updated_at = NOW()
		WHERE reservation_id = $1
	`

	result, err := r.db.DB().ExecContext(ctx, query, reservationID, status)
	if err != nil {
		return fmt.Errorf("updating reservation status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("reservation not found: %d", reservationID)
	}

	return nil
}

// ExpireStale marks pending reservations older than the hold time as expired,
// returning how many were updated.
func (r *ReservationRepository) ExpireStale(ctx context.Context, holdTime time.Duration) (int64, error) {
	query := `
		UPDATE reservations
		SET status = 'expired', updated_at = NOW()
		WHERE status = 'pending' AND created_at < NOW() - $1::interval
	`

	result, err := r.db.DB().ExecContext(ctx, query, fmt.Sprintf("%d seconds", int(holdTime.Seconds())))
	if err != nil {
		return 0, fmt.Errorf("expiring stale reservations: %w", err)
	}

	return result.RowsAffected()
}
