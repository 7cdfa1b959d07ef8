package schedule

import (
	"fmt"
	"time"
)

// Enrich assigns each interpreter record a batch-unique ID (index plus
// generation timestamp; uniqueness is per-process, not global), fills the
// default time and location where the model omitted them, and marks every
// record selected for review.
//
// It is a pure, total transform: a malformed record (say, missing opponent)
// passes through unchanged, deferring failure to the materializer or to the
// operator reviewing the batch.
func Enrich(games []ParsedGame) []ParsedGame {
	stamp := time.Now().UnixMilli()

	enriched := make([]ParsedGame, len(games))
	for i, game := range games {
		game.ID = fmt.Sprintf("game-%d-%d", i, stamp)
		if game.Time == "" {
			game.Time = DefaultGameTime
		}
		if game.Location == "" {
			game.Location = LocationHome
		}
		game.Selected = true
		enriched[i] = game
	}

	return enriched
}
