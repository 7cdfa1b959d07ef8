package schedule

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/stadiumhouse/blueline/internal/completion"
	"github.com/stadiumhouse/blueline/internal/metrics"
)

// interpreterPrompt fixes the extraction contract: a bare JSON array, opponent
// names stripped of "vs"/"@" prefixes, and the year-inference rule for
// schedules that omit the year.
const interpreterPrompt = `You are a sports schedule extraction engine.

Given a team name and a pasted block of schedule text, extract every game into
a JSON array. Each element must have exactly these fields:
  "date": "YYYY-MM-DD"
  "time": "HH:MM" in 24-hour local time, or "" if the text gives no time
  "opponent": the opposing team name with any "vs", "vs.", "@" or "at" prefix removed
  "location": "home" if the game is at %[1]s's venue, "away" otherwise
  "title": "%[1]s vs <opponent>" for home games, "%[1]s @ <opponent>" for away games

Today's date is %[2]s. If a date omits the year, assume a month earlier than
the current month belongs to next year, otherwise the current year.

Output the JSON array only. No prose, no markdown, no code fences.

Team: %[1]s
Schedule text:
%[3]s`

// Interpreter converts raw schedule text into structured game records. It is
// a black box with no determinism guarantee: the same text can yield slightly
// different titles across calls, so output is a proposal for operator review,
// never auto-committed.
type Interpreter interface {
	Interpret(ctx context.Context, scheduleText, teamName string) (*ParseResult, error)
}

// TextInterpreter drives a chat-completion client with the fixed extraction
// prompt and parses the reply.
type TextInterpreter struct {
	client  completion.Client
	limiter *rate.Limiter
	now     func() time.Time
}

// NewTextInterpreter creates an interpreter over the given completion client.
// rps caps outbound model calls; zero or negative disables limiting.
func NewTextInterpreter(client completion.Client, rps float64) *TextInterpreter {
	var limiter *rate.Limiter
	if rps > 0 {
		limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
	return &TextInterpreter{
		client:  client,
		limiter: limiter,
		now:     time.Now,
	}
}

// Interpret sends the schedule text to the model and parses the JSON array it
// returns. Empty input is rejected before any external call. Transport
// failures surface as ErrInterpreterUnavailable, unparseable replies as
// ErrInvalidResponse; both are batch-fatal with no partial results.
func (ti *TextInterpreter) Interpret(ctx context.Context, scheduleText, teamName string) (*ParseResult, error) {
	if strings.TrimSpace(scheduleText) == "" || strings.TrimSpace(teamName) == "" {
		return nil, ErrMissingInput
	}

	if ti.limiter != nil {
		if err := ti.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInterpreterUnavailable, err)
		}
	}

	today := ti.now().Format("2006-01-02")
	prompt := fmt.Sprintf(interpreterPrompt, teamName, today, scheduleText)

	raw, err := ti.client.Complete(ctx, prompt)
	if err != nil {
		metrics.InterpreterCalls.WithLabelValues("transport_error").Inc()
		return nil, fmt.Errorf("%w: %v", ErrInterpreterUnavailable, err)
	}

	games, err := parseGames(raw, ti.now())
	if err != nil {
		metrics.InterpreterCalls.WithLabelValues("invalid_response").Inc()
		return nil, err
	}

	metrics.InterpreterCalls.WithLabelValues("ok").Inc()
	return &ParseResult{Games: games, RawResponse: raw}, nil
}

// parseGames strips optional code fences, unmarshals the array, and
// normalizes each date with the year-inference rule as a local backstop for
// models that echo year-less dates through.
func parseGames(raw string, now time.Time) ([]ParsedGame, error) {
	cleaned := stripCodeFences(raw)

	var games []ParsedGame
	if err := json.Unmarshal([]byte(cleaned), &games); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	for i := range games {
		if normalized, err := NormalizeDate(games[i].Date, now); err == nil {
			games[i].Date = normalized
		}
	}

	return games, nil
}

// stripCodeFences removes a leading ```/```json line and a trailing ``` line
// if the model wrapped its output despite instructions.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	if idx := strings.Index(s, "\n"); idx >= 0 {
		s = s[idx+1:]
	} else {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
