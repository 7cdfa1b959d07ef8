package service

import (
	"context"
	"fmt"

	"github.com/stadiumhouse/blueline/internal/schedule"
	"github.com/stadiumhouse/blueline/internal/store"
	"github.com/stadiumhouse/blueline/internal/store/repository"
)

// ScheduleService wires the schedule pipeline end to end: interpreter →
// enricher → (operator review) → materializer.
type ScheduleService struct {
	interpreter  schedule.Interpreter
	materializer *schedule.Materializer
	teamRepo     *repository.TeamRepository
}

// The materializer writes through EventService so schedule-generated events
// invalidate the upcoming cache and reach the admin event stream, same as
// manual creates.
var _ schedule.EventCreator = (*EventService)(nil)

// NewScheduleService creates a schedule service
func NewScheduleService(db *store.Database, events *EventService, interpreter schedule.Interpreter) *ScheduleService {
	return &ScheduleService{
		interpreter:  interpreter,
		materializer: schedule.NewMaterializer(events),
		teamRepo:     repository.NewTeamRepository(db),
	}
}

// Parse runs the interpreter over the raw text and enriches the result. The
// returned games are a proposal for operator review; nothing durable happens
// here.
func (s *ScheduleService) Parse(ctx context.Context, scheduleText, teamName string) (*schedule.ParseResult, error) {
	result, err := s.interpreter.Interpret(ctx, scheduleText, teamName)
	if err != nil {
		return nil, err
	}

	result.Games = schedule.Enrich(result.Games)
	return result, nil
}

// Materialize creates events for the operator-approved games. Per-record
// failures are absorbed into the result counts; only batch-level problems
// (unknown team) return an error.
func (s *ScheduleService) Materialize(ctx context.Context, teamID int, games []schedule.ParsedGame, cfg schedule.MaterializerConfig) (schedule.Result, error) {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return schedule.Result{}, fmt.Errorf("looking up team: %w", err)
	}

	return s.materializer.Materialize(ctx, team, games, cfg), nil
}
