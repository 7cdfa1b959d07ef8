// Package notice holds the process-wide admin notice state. Notices are read
// from the store once at startup; afterwards the only way they change is
// through the explicit Dismiss call, which persists before mutating the
// in-memory view. No implicit persistence happens anywhere else.
package notice

import (
	"context"
	"fmt"
	"sync"

	"github.com/stadiumhouse/blueline/internal/store"
	"github.com/stadiumhouse/blueline/internal/store/repository"
)

// State is the in-memory view of active notices.
type State struct {
	repo *repository.NoticeRepository

	mu     sync.RWMutex
	active []*store.Notice
}

// Load reads the active notices once and returns the initialized state.
func Load(ctx context.Context, repo *repository.NoticeRepository) (*State, error) {
	notices, err := repo.GetActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading notices: %w", err)
	}

	return &State{repo: repo, active: notices}, nil
}

// Active returns the current active notices.
func (s *State) Active() []*store.Notice {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*store.Notice, len(s.active))
	copy(out, s.active)
	return out
}

// Dismiss persists the dismissal and then drops the notice from the in-memory
// view. If persistence fails the view is left untouched.
func (s *State) Dismiss(ctx context.Context, noticeID int) error {
	if err := s.repo.Dismiss(ctx, noticeID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.active[:0]
	for _, n := range s.active {
		if n.NoticeID != noticeID {
			kept = append(kept, n)
		}
	}
	s.active = kept

	return nil
}
