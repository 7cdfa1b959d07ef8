package schedule

import "errors"

// Game locations
const (
	LocationHome = "home"
	LocationAway = "away"
)

// DefaultGameTime is assumed when the source text doesn't mention one.
const DefaultGameTime = "19:00"

// Pipeline error taxonomy. Transport and parse failures are batch-fatal and
// abort before any event is created; they are kept distinct so callers can
// report them differently.
var (
	// ErrMissingInput means the schedule text or team name was empty.
	ErrMissingInput = errors.New("schedule text and team name are required")

	// ErrInterpreterUnavailable wraps network/auth/non-2xx failures from the
	// completion API.
	ErrInterpreterUnavailable = errors.New("interpreter request failed")

	// ErrInvalidResponse means the interpreter answered but the payload was
	// not a parseable JSON array.
	ErrInvalidResponse = errors.New("interpreter returned an invalid response")
)

// ParsedGame is a single candidate calendar event extracted from free-text
// schedule input. It lives in memory for one parse batch only; the subset
// with Selected=true is projected into durable events by the Materializer.
type ParsedGame struct {
	// ID is unique within one parse batch, not globally.
	ID       string `json:"id"`
	Date     string `json:"date"` // YYYY-MM-DD
	Time     string `json:"time,omitempty"`
	Opponent string `json:"opponent"`
	Location string `json:"location"` // "home" or "away"
	Title    string `json:"title"`
	// Selected defaults to true and is only ever flipped by operator review,
	// never by the pipeline itself.
	Selected bool `json:"selected"`
}

// ParseResult is the interpreter output returned to callers: the structured
// games plus the raw model text for operator inspection.
type ParseResult struct {
	Games       []ParsedGame `json:"games"`
	RawResponse string       `json:"raw_response"`
}
