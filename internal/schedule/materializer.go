package schedule

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/stadiumhouse/blueline/internal/metrics"
	"github.com/stadiumhouse/blueline/internal/store"
)

// EventCreator is the slice of the event store the materializer needs.
// *repository.EventRepository satisfies it.
type EventCreator interface {
	Create(ctx context.Context, event *store.Event) (int, error)
	ExistsBySourceKey(ctx context.Context, key string) (bool, error)
}

// MaterializerConfig holds the per-run flags. All fields are explicit and
// typed; defaults are what you get from the zero value plus DefaultLocation.
type MaterializerConfig struct {
	// IsFeatured is applied uniformly to every event created in the run.
	IsFeatured bool
	// SaveAsDraft creates events with status "draft" instead of "published".
	SaveAsDraft bool
	// Location is the timezone game times are interpreted in. Nil means
	// time.Local.
	Location *time.Location
	// UseSourceKeys enables idempotent inserts: each event carries a key
	// derived from team, date and opponent, and records whose key already
	// exists are skipped. Off by default; without it, re-running a batch
	// after a partial failure creates duplicate events.
	UseSourceKeys bool
}

// Result is the aggregate outcome of one materialization run. Every selected
// input record lands in exactly one counter: Success+Failed+Skipped equals
// the selected count. Skipped stays zero unless source keys are enabled, in
// which case it counts already-materialized records.
type Result struct {
	Success int `json:"success"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped,omitempty"`
}

// Materializer converts operator-approved parsed games into durable events.
type Materializer struct {
	events EventCreator
}

// NewMaterializer creates a materializer over the given event store.
func NewMaterializer(events EventCreator) *Materializer {
	return &Materializer{events: events}
}

// Materialize creates one event per selected game, strictly sequentially so a
// single malformed record's failure is isolated from its siblings. Record
// failures are logged and counted, never propagated; the caller only sees the
// aggregate result. There is no transactionality across the batch.
func (m *Materializer) Materialize(ctx context.Context, team *store.Team, games []ParsedGame, cfg MaterializerConfig) Result {
	var result Result

	for _, game := range games {
		if !game.Selected {
			continue
		}

		if cfg.UseSourceKeys {
			key := SourceKey(team.Name, game.Date, game.Opponent)
			exists, err := m.events.ExistsBySourceKey(ctx, key)
			if err != nil {
				log.Printf("[materializer] source key check failed for %q on %s: %v", game.Opponent, game.Date, err)
				result.Failed++
				continue
			}
			if exists {
				log.Printf("[materializer] skipping %q on %s (already materialized)", game.Opponent, game.Date)
				result.Skipped++
				continue
			}
		}

		event, err := m.buildEvent(team, game, cfg)
		if err != nil {
			log.Printf("[materializer] bad record %s (%q on %s): %v", game.ID, game.Opponent, game.Date, err)
			result.Failed++
			continue
		}

		if _, err := m.events.Create(ctx, event); err != nil {
			log.Printf("[materializer] insert failed for %q on %s: %v", game.Opponent, game.Date, err)
			result.Failed++
			continue
		}

		result.Success++
	}

	metrics.EventsMaterialized.Add(float64(result.Success))
	metrics.MaterializeFailures.Add(float64(result.Failed))

	return result
}

// buildEvent derives the durable event row from one parsed game.
func (m *Materializer) buildEvent(team *store.Team, game ParsedGame, cfg MaterializerConfig) (*store.Event, error) {
	when, err := CombineLocal(game.Date, game.Time, cfg.Location)
	if err != nil {
		return nil, err
	}

	title := game.Title
	if title == "" {
		title = Title(team.Name, game.Opponent, game.Location)
	}

	status := store.EventStatusPublished
	if cfg.SaveAsDraft {
		status = store.EventStatusDraft
	}

	event := &store.Event{
		EventTitle:  title,
		EventDate:   when,
		EventType:   team.EventType, // taken verbatim from the team, not re-derived per game
		Description: sql.NullString{String: Description(team.Name, game.Opponent, game.Location), Valid: true},
		Location:    "on-site",
		ImageURL:    team.ImageURL,
		IsFeatured:  cfg.IsFeatured,
		Status:      status,
		AllowRSVP:   false, // RSVP is always disabled for schedule-generated events
	}

	if cfg.UseSourceKeys {
		event.SourceKey = sql.NullString{String: SourceKey(team.Name, game.Date, game.Opponent), Valid: true}
	}

	return event, nil
}

// Title synthesizes the display title: "<team> vs <opponent>" at home,
// "<team> @ <opponent>" away.
func Title(team, opponent, location string) string {
	if location == LocationAway {
		return fmt.Sprintf("%s @ %s", team, opponent)
	}
	return fmt.Sprintf("%s vs %s", team, opponent)
}

// Description synthesizes the event blurb, choosing the verb by venue.
func Description(team, opponent, location string) string {
	verb := "host"
	if location == LocationAway {
		verb = "visit"
	}
	return fmt.Sprintf("Watch the %s %s the %s!", team, verb, opponent)
}

// SourceKey derives the idempotency key for a game: a short hash of the
// team, date and opponent, case-insensitive on names.
func SourceKey(team, date, opponent string) string {
	payload := strings.ToLower(strings.TrimSpace(team)) + "|" + date + "|" + strings.ToLower(strings.TrimSpace(opponent))
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:8])
}
