package feedback

import (
	"context"
	"strings"
	"testing"

	"github.com/microcosm-cc/bluemonday"
)

func validationService() *Service {
	// No repo wired; these tests only exercise paths that fail before the
	// store is touched.
	return &Service{
		venueName: "The Blue Line",
		sanitizer: bluemonday.StrictPolicy(),
	}
}

func TestSubmitValidation(t *testing.T) {
	svc := validationService()

	tests := []struct {
		name string
		sub  Submission
	}{
		{"missing name", Submission{Rating: 4, Message: "Great wings"}},
		{"missing message", Submission{GuestName: "Ana", Rating: 4}},
		{"whitespace message", Submission{GuestName: "Ana", Rating: 4, Message: "   "}},
		{"rating too low", Submission{GuestName: "Ana", Rating: 0, Message: "Great wings"}},
		{"rating too high", Submission{GuestName: "Ana", Rating: 6, Message: "Great wings"}},
		{"markup-only message", Submission{GuestName: "Ana", Rating: 4, Message: "<script>alert(1)</script>"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Submit(context.Background(), tt.sub); err == nil {
				t.Errorf("Submit(%+v) succeeded, want validation error", tt.sub)
			}
		})
	}
}

func TestSanitizerStripsMarkup(t *testing.T) {
	svc := validationService()

	got := strings.TrimSpace(svc.sanitizer.Sanitize(`Loved the <b>wings</b><script>alert(1)</script>!`))
	if strings.Contains(got, "<") {
		t.Errorf("markup survived sanitization: %q", got)
	}
	if !strings.Contains(got, "wings") {
		t.Errorf("text content lost: %q", got)
	}
}
