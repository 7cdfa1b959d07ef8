package schedule

import (
	"context"
	"testing"
)

// TestPipelineEndToEnd runs the full parse → enrich → materialize flow over a
// canned interpreter reply, the way the materialize endpoint drives it.
func TestPipelineEndToEnd(t *testing.T) {
	ti := NewTextInterpreter(&fakeCompleter{reply: `[
		{"date": "2026-02-03", "time": "19:00", "opponent": "Seattle", "location": "home", "title": "Portland Thunder vs Seattle"},
		{"date": "2026-02-10", "time": "", "opponent": "Tacoma", "location": "away", "title": "Portland Thunder @ Tacoma"}
	]`}, 0)

	result, err := ti.Interpret(context.Background(), "vs Seattle Feb 3 7pm\n@ Tacoma Feb 10", "Portland Thunder")
	if err != nil {
		t.Fatalf("Interpret error: %v", err)
	}

	games := Enrich(result.Games)

	store := &fakeEventStore{}
	outcome := NewMaterializer(store).Materialize(context.Background(), testTeam(), games, MaterializerConfig{})

	if outcome.Success != 2 || outcome.Failed != 0 {
		t.Fatalf("outcome = %+v, want 2 created", outcome)
	}
	if len(store.created) != 2 {
		t.Fatalf("store has %d events, want 2", len(store.created))
	}

	if store.created[0].EventTitle != "Portland Thunder vs Seattle" {
		t.Errorf("home title = %q", store.created[0].EventTitle)
	}
	if store.created[1].EventTitle != "Portland Thunder @ Tacoma" {
		t.Errorf("away title = %q", store.created[1].EventTitle)
	}
	for i, e := range store.created {
		if e.Status != "published" {
			t.Errorf("event %d status = %q, want published", i, e.Status)
		}
	}
}
