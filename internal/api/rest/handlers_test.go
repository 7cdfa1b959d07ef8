package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"

	"github.com/stadiumhouse/blueline/internal/schedule"
	"github.com/stadiumhouse/blueline/internal/service"
)

// fakeInterpreter satisfies schedule.Interpreter with a canned result.
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

// fakeFetcher satisfies ScheduleFetcher.
type fakeFetcher struct {
	text string
	err  error
}

func (f *fakeFetcher) FetchScheduleText(ctx context.Context, url string) (string, error) {
	return f.text, f.err
}

func scheduleHandler(interp schedule.Interpreter, fetcher ScheduleFetcher) *Handler {
	return &Handler{
		scheduleService: service.NewScheduleService(nil, nil, interp),
		fetcher:         fetcher,
	}
}

func TestParseScheduleSuccess(t *testing.T) {
	h := scheduleHandler(&fakeInterpreter{result: &schedule.ParseResult{
		Games: []schedule.ParsedGame{
			{Date: "2026-02-03", Opponent: "Seattle", Location: "home"},
		},
		RawResponse: "[...]",
	}}, nil)

	body := `{"schedule_text": "vs Seattle Feb 3", "team_name": "Portland Thunder"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/schedule/parse", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.ParseSchedule(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var result schedule.ParseResult
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(result.Games) != 1 {
		t.Fatalf("got %d games, want 1", len(result.Games))
	}
	// The handler path runs enrichment: defaults filled, record selected.
	game := result.Games[0]
	if !game.Selected || game.Time != schedule.DefaultGameTime || game.ID == "" {
		t.Errorf("game not enriched: %+v", game)
	}
}

func TestParseScheduleErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"missing input", schedule.ErrMissingInput, http.StatusBadRequest},
		{"interpreter down", schedule.ErrInterpreterUnavailable, http.StatusBadGateway},
		{"invalid response", schedule.ErrInvalidResponse, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := scheduleHandler(&fakeInterpreter{err: tt.err}, nil)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/schedule/parse",
				strings.NewReader(`{"schedule_text": "x", "team_name": "y"}`))
			rec := httptest.NewRecorder()

			h.ParseSchedule(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestParseScheduleBadBody(t *testing.T) {
	h := scheduleHandler(&fakeInterpreter{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/schedule/parse", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	h.ParseSchedule(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestMaterializeScheduleValidation(t *testing.T) {
	h := scheduleHandler(&fakeInterpreter{}, nil)

	tests := []struct {
		name string
		body string
	}{
		{"missing team_id", `{"games": [{"date": "2026-02-03"}]}`},
		{"missing games", `{"team_id": 1}`},
		{"bad body", `{nope`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/schedule/materialize", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			h.MaterializeSchedule(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestFetchScheduleDisabled(t *testing.T) {
	h := scheduleHandler(&fakeInterpreter{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/schedule/fetch",
		strings.NewReader(`{"url": "https://example.com", "team_name": "Portland Thunder"}`))
	rec := httptest.NewRecorder()

	h.FetchSchedule(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestFetchScheduleRunsPipeline(t *testing.T) {
	h := scheduleHandler(
		&fakeInterpreter{result: &schedule.ParseResult{
			Games: []schedule.ParsedGame{{Date: "2026-02-03", Opponent: "Seattle", Location: "home"}},
		}},
		&fakeFetcher{text: "Feb 3 vs Seattle 7:00 PM"},
	)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/schedule/fetch",
		strings.NewReader(`{"url": "https://example.com/schedule", "team_name": "Portland Thunder"}`))
	rec := httptest.NewRecorder()

	h.FetchSchedule(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
}

func TestQueryInt(t *testing.T) {
	tests := []struct {
		query string
		want  int
	}{
		{"", 20},
		{"limit=5", 5},
		{"limit=100", 100},
		{"limit=101", 20}, // over max falls back to default
		{"limit=0", 20},
		{"limit=-3", 20},
		{"limit=abc", 20},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/events?"+tt.query, nil)
		if got := queryInt(req, "limit", 20, 100); got != tt.want {
			t.Errorf("queryInt(%q) = %d, want %d", tt.query, got, tt.want)
		}
	}
}

func TestPathInt(t *testing.T) {
	req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/api/v1/events/42", nil),
		map[string]string{"eventID": "42"})

	got, err := pathInt(req, "eventID")
	if err != nil || got != 42 {
		t.Errorf("pathInt = %d, %v", got, err)
	}

	bad := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/api/v1/events/abc", nil),
		map[string]string{"eventID": "abc"})
	if _, err := pathInt(bad, "eventID"); err == nil {
		t.Error("expected error for non-numeric ID")
	}
}

func TestEventFromRequestDefaults(t *testing.T) {
	event := eventFromRequest(&eventRequest{
		EventTitle: "Trivia Night",
		EventType:  "trivia",
	})

	if event.Location != "on-site" {
		t.Errorf("location = %q, want on-site", event.Location)
	}
	if event.Status != "published" {
		t.Errorf("status = %q, want published", event.Status)
	}
	if event.Description.Valid {
		t.Error("empty description should be null")
	}
}
