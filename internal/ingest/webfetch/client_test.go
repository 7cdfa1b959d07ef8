package webfetch

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

// TestConcurrentFetchesAreSpaced drives the rate limiter from several
// goroutines at once, the way simultaneous fetch requests reach a shared
// client through the HTTP handlers.
func TestConcurrentFetchesAreSpaced(t *testing.T) {
	interval := 40 * time.Millisecond
	client := &Client{limiter: rate.NewLimiter(rate.Every(interval), 1)}

	start := time.Now()

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := client.waitTurn(context.Background()); err != nil {
				t.Errorf("waitTurn error: %v", err)
			}
		}()
	}
	wg.Wait()

	// One slot is available immediately; the other two must wait a full
	// interval each.
	if elapsed := time.Since(start); elapsed < 2*interval {
		t.Errorf("three turns granted in %v, want at least %v", elapsed, 2*interval)
	}
}

func TestWaitTurnHonorsContext(t *testing.T) {
	client := &Client{limiter: rate.NewLimiter(rate.Every(time.Hour), 1)}

	// Drain the initial slot so the next wait would block.
	if err := client.waitTurn(context.Background()); err != nil {
		t.Fatalf("first waitTurn error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := client.waitTurn(ctx); err == nil {
		t.Error("expected error from expired context")
	}
}

func TestExtractText(t *testing.T) {
	html := `<html><head>
		<style>body { color: red; }</style>
		<script>console.log("tracking");</script>
	</head><body>
		<h1>2026 Schedule</h1>
		<noscript>Enable JavaScript</noscript>
		<table>
			<tr><td>  Feb 3  </td><td>vs Seattle</td><td>7:00 PM</td></tr>
			<tr><td>Feb 10</td><td>@ Tacoma</td><td>TBD</td></tr>
		</table>
	</body></html>`

	text, err := ExtractText(html)
	if err != nil {
		t.Fatalf("ExtractText error: %v", err)
	}

	for _, want := range []string{"2026 Schedule", "Feb 3", "vs Seattle", "@ Tacoma"} {
		if !strings.Contains(text, want) {
			t.Errorf("text missing %q:\n%s", want, text)
		}
	}

	for _, banned := range []string{"console.log", "color: red", "Enable JavaScript"} {
		if strings.Contains(text, banned) {
			t.Errorf("text contains %q, should be stripped:\n%s", banned, text)
		}
	}

	if strings.Contains(text, "  Feb 3  ") {
		t.Error("line whitespace not trimmed")
	}
}

func TestExtractTextEmptyBody(t *testing.T) {
	text, err := ExtractText("<html><body></body></html>")
	if err != nil {
		t.Fatalf("ExtractText error: %v", err)
	}
	if text != "" {
		t.Errorf("text = %q, want empty", text)
	}
}
