// Package feedback handles guest feedback intake and AI-drafted responses.
package feedback

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"github.com/stadiumhouse/blueline/internal/completion"
	"github.com/stadiumhouse/blueline/internal/publisher"
	"github.com/stadiumhouse/blueline/internal/store"
	"github.com/stadiumhouse/blueline/internal/store/repository"
)

const responsePrompt = `You are the manager of %s, a neighborhood sports bar.
A guest left the following feedback (rated %d out of 5):

%s

Write a short, warm reply (2-4 sentences). Thank them, address their specific
points, and if the rating is 3 or below, apologize and invite them back.
Reply with the message text only.`

// Service validates, sanitizes and stores feedback, and drafts replies with
// the completion model. Drafts are stored for staff review, never sent
// automatically.
type Service struct {
	repo      *repository.FeedbackRepository
	completer completion.Client
	publisher *publisher.RedisPublisher
	venueName string
	sanitizer *bluemonday.Policy
}

// NewService creates a feedback service. The publisher may be nil.
func NewService(db *store.Database, completer completion.Client, pub *publisher.RedisPublisher, venueName string) *Service {
	return &Service{
		repo:      repository.NewFeedbackRepository(db),
		completer: completer,
		publisher: pub,
		venueName: venueName,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// Submission is the inbound feedback payload.
type Submission struct {
	GuestName  string `json:"guest_name"`
	GuestEmail string `json:"guest_email"`
	Rating     int    `json:"rating"`
	Message    string `json:"message"`
}

// Submit validates and stores a feedback entry, returning the stored row.
func (s *Service) Submit(ctx context.Context, sub Submission) (*store.Feedback, error) {
	name := strings.TrimSpace(sub.GuestName)
	message := strings.TrimSpace(s.sanitizer.Sanitize(sub.Message))

	if name == "" || message == "" {
		return nil, fmt.Errorf("guest name and message are required")
	}
	if sub.Rating < 1 || sub.Rating > 5 {
		return nil, fmt.Errorf("rating must be between 1 and 5, got %d", sub.Rating)
	}

	fb := &store.Feedback{
		FeedbackID: uuid.NewString(),
		GuestName:  name,
		Rating:     sub.Rating,
		Message:    message,
		Status:     store.FeedbackStatusNew,
	}
	if email := strings.TrimSpace(sub.GuestEmail); email != "" {
		fb.GuestEmail = sql.NullString{String: email, Valid: true}
	}

	if err := s.repo.Create(ctx, fb); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		if err := s.publisher.PublishFeedback(ctx, fb); err != nil {
			log.Printf("[feedback] publish failed for %s: %v", fb.FeedbackID, err)
		}
	}

	return fb, nil
}

// DraftResponse asks the model for a reply to the given feedback entry and
// stores it as the AI draft.
func (s *Service) DraftResponse(ctx context.Context, feedbackID string) (string, error) {
	fb, err := s.repo.GetByID(ctx, feedbackID)
	if err != nil {
		return "", err
	}

	prompt := fmt.Sprintf(responsePrompt, s.venueName, fb.Rating, fb.Message)
	draft, err := s.completer.Complete(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("drafting response: %w", err)
	}

	draft = strings.TrimSpace(draft)
	if draft == "" {
		return "", fmt.Errorf("model returned an empty response")
	}

	if err := s.repo.SetAIResponse(ctx, feedbackID, draft); err != nil {
		return "", err
	}

	return draft, nil
}

// Recent returns recent feedback entries for the admin dashboard.
func (s *Service) Recent(ctx context.Context, status string, limit int) ([]*store.Feedback, error) {
	return s.repo.GetRecent(ctx, status, limit)
}
