package service

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/stadiumhouse/blueline/internal/publisher"
	"github.com/stadiumhouse/blueline/internal/store"
	"github.com/stadiumhouse/blueline/internal/store/repository"
	"github.com/stadiumhouse/blueline/internal/webhook"
)

// MaxPartySize is the largest party the floor can seat without a call.
const MaxPartySize = 20

// ReservationService handles table reservation business logic
type ReservationService struct {
	repo       *repository.ReservationRepository
	publisher  *publisher.RedisPublisher
	webhooks   *webhook.Sender
	webhookURL string
}

// NewReservationService creates a new reservation service. Publisher, sender
// and webhookURL may be zero (deliveries are skipped).
func NewReservationService(db *store.Database, pub *publisher.RedisPublisher, sender *webhook.Sender, webhookURL string) *ReservationService {
	return &ReservationService{
		repo:       repository.NewReservationRepository(db),
		publisher:  pub,
		webhooks:   sender,
		webhookURL: webhookURL,
	}
}

// ReservationRequest is the inbound reservation payload.
type ReservationRequest struct {
	GuestName  string    `json:"guest_name"`
	GuestEmail string    `json:"guest_email"`
	GuestPhone string    `json:"guest_phone"`
	PartySize  int       `json:"party_size"`
	ReservedAt time.Time `json:"reserved_at"`
	Notes      string    `json:"notes"`
}

// Create validates and stores a reservation, then notifies the admin stream
// and the configured webhook. Notification failures are logged, not returned;
// the reservation is already durable at that point.
func (s *ReservationService) Create(ctx context.Context, req ReservationRequest) (*store.Reservation, error) {
	name := strings.TrimSpace(req.GuestName)
	email := strings.TrimSpace(req.GuestEmail)

	if name == "" || email == "" {
		return nil, fmt.Errorf("guest name and email are required")
	}
	if req.PartySize < 1 || req.PartySize > MaxPartySize {
		return nil, fmt.Errorf("party size must be between 1 and %d, got %d", MaxPartySize, req.PartySize)
	}
	if req.ReservedAt.Before(time.Now()) {
		return nil, fmt.Errorf("reservation time must be in the future")
	}

	res := &store.Reservation{
		GuestName:  name,
		GuestEmail: email,
		PartySize:  req.PartySize,
		ReservedAt: req.ReservedAt,
		Status:     store.ReservationStatusPending,
	}
	if phone := strings.TrimSpace(req.GuestPhone); phone != "" {
		res.GuestPhone = sql.NullString{String: phone, Valid: true}
	}
	if notes := strings.TrimSpace(req.Notes); notes != "" {
		res.Notes = sql.NullString{String: notes, Valid: true}
	}

	id, err := s.repo.Create(ctx, res)
	if err != nil {
		return nil, err
	}
	res.ReservationID = id

	if s.publisher != nil {
		if err := s.publisher.PublishReservation(ctx, res); err != nil {
			log.Printf("[reservations] publish failed for reservation %d: %v", id, err)
		}
	}
	if s.webhooks != nil && s.webhookURL != "" {
		if err := s.webhooks.Send(ctx, s.webhookURL, "reservation.created", res); err != nil {
			log.Printf("[reservations] webhook failed for reservation %d: %v", id, err)
		}
	}

	return res, nil
}

// GetUpcoming returns upcoming reservations for the admin dashboard
func (s *ReservationService) GetUpcoming(ctx context.Context, status string, limit int) ([]*store.Reservation, error) {
	return s.repo.GetUpcoming(ctx, status, limit)
}

// UpdateStatus transitions a reservation between statuses
func (s *ReservationService) UpdateStatus(ctx context.Context, reservationID int, status string) error {
	switch status {
	case store.ReservationStatusConfirmed, store.ReservationStatusCancelled:
	default:
		return fmt.Errorf("invalid status transition to %q", status)
	}

	return s.repo.UpdateStatus(ctx, reservationID, status)
}

// ExpireStale marks pending reservations past the hold time as expired
func (s *ReservationService) ExpireStale(ctx context.Context, holdTime time.Duration) (int64, error) {
	return s.repo.ExpireStale(ctx, holdTime)
}
