package schedule

import "testing"

func TestEnrich(t *testing.T) {
	games := []ParsedGame{
		{Date: "2026-04-02", Time: "19:30", Opponent: "LA Galaxy", Location: LocationHome},
		{Date: "2026-04-09", Opponent: "Seattle"}, // no time, no location
		{Date: "2026-04-16", Time: "12:00", Opponent: "Tacoma", Location: LocationAway},
	}

	enriched := Enrich(games)

	if len(enriched) != len(games) {
		t.Fatalf("got %d games, want %d", len(enriched), len(games))
	}

	seen := make(map[string]bool)
	for i, game := range enriched {
		if game.ID == "" {
			t.Errorf("game %d has empty ID", i)
		}
		if seen[game.ID] {
			t.Errorf("duplicate ID %q in batch", game.ID)
		}
		seen[game.ID] = true

		if !game.Selected {
			t.Errorf("game %d not selected", i)
		}
		if game.Time == "" {
			t.Errorf("game %d has empty time", i)
		}
		if game.Location == "" {
			t.Errorf("game %d has empty location", i)
		}
	}

	// Explicit values survive; only gaps are filled.
	if enriched[0].Time != "19:30" {
		t.Errorf("explicit time overwritten: got %q", enriched[0].Time)
	}
	if enriched[1].Time != DefaultGameTime {
		t.Errorf("missing time: got %q, want %q", enriched[1].Time, DefaultGameTime)
	}
	if enriched[1].Location != LocationHome {
		t.Errorf("missing location: got %q, want %q", enriched[1].Location, LocationHome)
	}
	if enriched[2].Location != LocationAway {
		t.Errorf("away location overwritten: got %q", enriched[2].Location)
	}
}

func TestEnrichMalformedRecordPassesThrough(t *testing.T) {
	// Enrich is total: a record with no opponent is still enriched and
	// selected, failure is deferred to review or materialization.
	enriched := Enrich([]ParsedGame{{Date: "2026-04-02"}})

	if len(enriched) != 1 {
		t.Fatalf("got %d games, want 1", len(enriched))
	}
	if !enriched[0].Selected {
		t.Error("malformed record should still be selected")
	}
	if enriched[0].Opponent != "" {
		t.Errorf("opponent invented: %q", enriched[0].Opponent)
	}
}

func TestEnrichEmpty(t *testing.T) {
	if got := Enrich(nil); len(got) != 0 {
		t.Errorf("Enrich(nil) = %v, want empty", got)
	}
}
