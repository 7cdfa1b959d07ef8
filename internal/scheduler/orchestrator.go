package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/stadiumhouse/blueline/internal/store"
	"github.com/stadiumhouse/blueline/internal/store/repository"
)

// Config holds the background job configuration
type Config struct {
	// DraftPublishInterval is how often due draft events are published.
	DraftPublishInterval time.Duration
	// DraftPublishWindow is how far ahead of its date a draft goes live.
	DraftPublishWindow time.Duration
	// ReservationExpiryInterval is how often stale reservations are swept.
	ReservationExpiryInterval time.Duration
	// ReservationHoldTime is how long a pending reservation is held before
	// it expires.
	ReservationHoldTime time.Duration
}

// DefaultConfig returns the default job configuration
func DefaultConfig() *Config {
	return &Config{
		DraftPublishInterval:      5 * time.Minute,
		DraftPublishWindow:        14 * 24 * time.Hour,
		ReservationExpiryInterval: 10 * time.Minute,
		ReservationHoldTime:       24 * time.Hour,
	}
}

// Orchestrator runs the periodic maintenance jobs: publishing due draft
// events and expiring stale reservations.
type Orchestrator struct {
	eventRepo       *repository.EventRepository
	reservationRepo *repository.ReservationRepository
	config          *Config
	cancel          context.CancelFunc
}

// NewOrchestrator creates a new background job orchestrator
func NewOrchestrator(db *store.Database, config *Config) *Orchestrator {
	if config == nil {
		config = DefaultConfig()
	}

	return &Orchestrator{
		eventRepo:       repository.NewEventRepository(db),
		reservationRepo: repository.NewReservationRepository(db),
		config:          config,
	}
}

// Start begins all scheduled tasks and blocks until the context is cancelled
func (o *Orchestrator) Start(ctx context.Context) {
	log.Printf("Background jobs started (draft publish every %v, reservation sweep every %v)",
		o.config.DraftPublishInterval, o.config.ReservationExpiryInterval)

	ctx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	go o.runDraftPublisher(ctx)
	go o.runReservationSweeper(ctx)

	<-ctx.Done()
	log.Println("Background jobs stopping...")
}

// Stop cancels all running tasks
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
}

// runDraftPublisher publishes draft events whose date enters the window
func (o *Orchestrator) runDraftPublisher(ctx context.Context) {
	ticker := time.NewTicker(o.config.DraftPublishInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			count, err := o.eventRepo.PublishDueDrafts(ctx, o.config.DraftPublishWindow)
			if err != nil {
				log.Printf("[jobs] draft publish failed: %v", err)
				continue
			}
			if count > 0 {
				log.Printf("[jobs] published %d due draft event(s)", count)
			}
		}
	}
}

// runReservationSweeper expires pending reservations past the hold time
func (o *Orchestrator) runReservationSweeper(ctx context.Context) {
	ticker := time.NewTicker(o.config.ReservationExpiryInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			count, err := o.reservationRepo.ExpireStale(ctx, o.config.ReservationHoldTime)
			if err != nil {
				log.Printf("[jobs] reservation sweep failed: %v", err)
				continue
			}
			if count > 0 {
				log.Printf("[jobs] expired %d stale reservation(s)", count)
			}
		}
	}
}
