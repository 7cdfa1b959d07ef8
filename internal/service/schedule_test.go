package service

import (
	"context"
	"testing"

	"github.com/stadiumhouse/blueline/internal/schedule"
)

type fakeInterpreter struct {
	result *schedule.ParseResult
	err    error
}

func (f *fakeInterpreter) Interpret(ctx context.Context, scheduleText, teamName string) (*schedule.ParseResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func TestScheduleServiceParseEnriches(t *testing.T) {
	svc := NewScheduleService(nil, NewEventService(nil, nil, nil), &fakeInterpreter{
		result: &schedule.ParseResult{
			Games: []schedule.ParsedGame{
				{Date: "2026-02-03", Opponent: "Seattle", Location: "home"},
			},
		},
	})

	result, err := svc.Parse(context.Background(), "vs Seattle Feb 3", "Portland Thunder")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	game := result.Games[0]
	if !game.Selected || game.ID == "" || game.Time != schedule.DefaultGameTime {
		t.Errorf("game not enriched: %+v", game)
	}
}

func TestScheduleServiceParsePropagatesErrors(t *testing.T) {
	svc := NewScheduleService(nil, NewEventService(nil, nil, nil), &fakeInterpreter{
		err: schedule.ErrInvalidResponse,
	})

	if _, err := svc.Parse(context.Background(), "vs Seattle", "Portland Thunder"); err == nil {
		t.Error("expected interpreter error to propagate")
	}
}
