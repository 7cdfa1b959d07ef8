package schedule

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

// fakeCompleter returns a canned reply or error and records the prompt.
type fakeCompleter struct {
	reply  string
	err    error
	prompt string
}

func (f *fakeCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	f.prompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func TestInterpretMissingInput(t *testing.T) {
	ti := NewTextInterpreter(&fakeCompleter{}, 0)

	tests := []struct {
		name     string
		text     string
		teamName string
	}{
		{"empty text", "", "Portland Thunder"},
		{"whitespace text", "   \n\t", "Portland Thunder"},
		{"empty team", "vs Seattle Feb 3", ""},
		{"both empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ti.Interpret(context.Background(), tt.text, tt.teamName)
			if !errors.Is(err, ErrMissingInput) {
				t.Errorf("got %v, want ErrMissingInput", err)
			}
		})
	}
}

func TestInterpretTransportError(t *testing.T) {
	ti := NewTextInterpreter(&fakeCompleter{err: errors.New("connection refused")}, 0)

	result, err := ti.Interpret(context.Background(), "vs Seattle Feb 3", "Portland Thunder")
	if !errors.Is(err, ErrInterpreterUnavailable) {
		t.Errorf("got %v, want ErrInterpreterUnavailable", err)
	}
	if result != nil {
		t.Errorf("expected no partial result, got %+v", result)
	}
}

func TestInterpretInvalidResponse(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{"prose", "I found two games in the schedule you pasted."},
		{"object not array", `{"date": "2026-02-03"}`},
		{"truncated array", `[{"date": "2026-02-03"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ti := NewTextInterpreter(&fakeCompleter{reply: tt.reply}, 0)
			result, err := ti.Interpret(context.Background(), "vs Seattle Feb 3", "Portland Thunder")
			if !errors.Is(err, ErrInvalidResponse) {
				t.Errorf("got %v, want ErrInvalidResponse", err)
			}
			if result != nil {
				t.Errorf("expected no partial result, got %+v", result)
			}
		})
	}
}

func TestInterpretSuccess(t *testing.T) {
	fake := &fakeCompleter{reply: `[
		{"date": "2026-02-03", "time": "19:00", "opponent": "Seattle", "location": "home", "title": "Portland Thunder vs Seattle"},
		{"date": "2026-02-10", "time": "", "opponent": "Tacoma", "location": "away", "title": "Portland Thunder @ Tacoma"}
	]`}
	ti := NewTextInterpreter(fake, 0)

	result, err := ti.Interpret(context.Background(), "vs Seattle Feb 3 7pm\n@ Tacoma Feb 10", "Portland Thunder")
	if err != nil {
		t.Fatalf("Interpret error: %v", err)
	}

	if len(result.Games) != 2 {
		t.Fatalf("got %d games, want 2", len(result.Games))
	}
	if result.Games[0].Opponent != "Seattle" || result.Games[0].Location != LocationHome {
		t.Errorf("game 0 = %+v", result.Games[0])
	}
	if result.Games[1].Opponent != "Tacoma" || result.Games[1].Location != LocationAway {
		t.Errorf("game 1 = %+v", result.Games[1])
	}
	if result.RawResponse != fake.reply {
		t.Error("raw response not preserved")
	}

	// The prompt carries the team name and the pasted text verbatim.
	if !strings.Contains(fake.prompt, "Portland Thunder") {
		t.Error("prompt missing team name")
	}
	if !strings.Contains(fake.prompt, "@ Tacoma Feb 10") {
		t.Error("prompt missing schedule text")
	}
}

func TestInterpretCodeFencedReply(t *testing.T) {
	reply := "```json\n[{\"date\": \"2026-02-03\", \"opponent\": \"Seattle\", \"location\": \"home\"}]\n```"
	ti := NewTextInterpreter(&fakeCompleter{reply: reply}, 0)

	result, err := ti.Interpret(context.Background(), "vs Seattle Feb 3", "Portland Thunder")
	if err != nil {
		t.Fatalf("Interpret error: %v", err)
	}
	if len(result.Games) != 1 || result.Games[0].Opponent != "Seattle" {
		t.Errorf("got %+v", result.Games)
	}
}

func TestInterpretNormalizesYearlessDates(t *testing.T) {
	// The model ignored the year rule and echoed a bare month/day; the
	// local backstop resolves it against "today".
	ti := NewTextInterpreter(&fakeCompleter{
		reply: `[{"date": "January 10", "opponent": "Seattle", "location": "home"}]`,
	}, 0)
	ti.now = func() time.Time {
		return time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)
	}

	result, err := ti.Interpret(context.Background(), "vs Seattle Jan 10", "Portland Thunder")
	if err != nil {
		t.Fatalf("Interpret error: %v", err)
	}
	if got := result.Games[0].Date; got != "2027-01-10" {
		t.Errorf("date = %q, want 2027-01-10", got)
	}
}

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"no fences", `[{"a":1}]`, `[{"a":1}]`},
		{"json fence", "```json\n[1,2]\n```", "[1,2]"},
		{"bare fence", "```\n[1,2]\n```", "[1,2]"},
		{"surrounding whitespace", "  \n```json\n[1]\n```\n  ", "[1]"},
		{"single line fence", "```json[1]```", "[1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripCodeFences(tt.input); got != tt.want {
				t.Errorf("stripCodeFences(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
