package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/stadiumhouse/blueline/internal/cache"
	"github.com/stadiumhouse/blueline/internal/publisher"
	"github.com/stadiumhouse/blueline/internal/store"
	"github.com/stadiumhouse/blueline/internal/store/repository"
)

// EventService handles calendar event business logic
type EventService struct {
	eventRepo *repository.EventRepository
	cache     *cache.RedisCache
	publisher *publisher.RedisPublisher
}

// NewEventService creates a new event service. Cache and publisher may be nil
// (the CLI runs without Redis).
func NewEventService(db *store.Database, rc *cache.RedisCache, pub *publisher.RedisPublisher) *EventService {
	return &EventService{
		eventRepo: repository.NewEventRepository(db),
		cache:     rc,
		publisher: pub,
	}
}

// GetEvent retrieves an event by ID
func (s *EventService) GetEvent(ctx context.Context, eventID int) (*store.Event, error) {
	return s.eventRepo.GetByID(ctx, eventID)
}

// ExistsBySourceKey reports whether an event with the given source key exists
func (s *EventService) ExistsBySourceKey(ctx context.Context, key string) (bool, error) {
	return s.eventRepo.ExistsBySourceKey(ctx, key)
}

// GetUpcoming returns upcoming published events, served from cache when warm
func (s *EventService) GetUpcoming(ctx context.Context, limit int) ([]*store.Event, error) {
	cacheKey := fmt.Sprintf("%s:%d", cache.KeyUpcomingEvents, limit)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey); err == nil {
			var events []*store.Event
			if err := json.Unmarshal([]byte(cached), &events); err == nil {
				return events, nil
			}
		}
	}

	events, err := s.eventRepo.GetUpcoming(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("fetching upcoming events: %w", err)
	}

	if s.cache != nil {
		if data, err := json.Marshal(events); err == nil {
			if err := s.cache.Set(ctx, cacheKey, data, cache.UpcomingEventsTTL); err != nil {
				log.Printf("[events] cache set failed: %v", err)
			}
		}
	}

	return events, nil
}

// GetByDateRange returns events within [start, end)
func (s *EventService) GetByDateRange(ctx context.Context, start, end time.Time) ([]*store.Event, error) {
	return s.eventRepo.GetByDateRange(ctx, start, end)
}

// Create inserts an event, invalidates the upcoming cache and publishes the
// created record
func (s *EventService) Create(ctx context.Context, event *store.Event) (int, error) {
	eventID, err := s.eventRepo.Create(ctx, event)
	if err != nil {
		return 0, err
	}
	event.EventID = eventID

	s.invalidateUpcoming(ctx)

	if s.publisher != nil {
		if err := s.publisher.PublishEventCreated(ctx, event); err != nil {
			log.Printf("[events] publish failed for event %d: %v", eventID, err)
		}
	}

	return eventID, nil
}

// Update modifies an event and invalidates the upcoming cache
func (s *EventService) Update(ctx context.Context, event *store.Event) error {
	if err := s.eventRepo.Update(ctx, event); err != nil {
		return err
	}
	s.invalidateUpcoming(ctx)
	return nil
}

// Delete removes an event and invalidates the upcoming cache
func (s *EventService) Delete(ctx context.Context, eventID int) error {
	if err := s.eventRepo.Delete(ctx, eventID); err != nil {
		return err
	}
	s.invalidateUpcoming(ctx)
	return nil
}

func (s *EventService) invalidateUpcoming(ctx context.Context) {
	if s.cache == nil {
		return
	}
	// Limits vary per caller, so clear the common ones.
	keys := make([]string, 0, 4)
	for _, limit := range []int{5, 10, 20, 50} {
		keys = append(keys, fmt.Sprintf("%s:%d", cache.KeyUpcomingEvents, limit))
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		log.Printf("[events] cache invalidation failed: %v", err)
	}
}
