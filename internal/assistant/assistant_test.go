package assistant

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestReplyScript(t *testing.T) {
	a := New(0)

	tests := []struct {
		name     string
		question string
		contains string
	}{
		{name: "saving advice", question: "How can I save money?", contains: "₹2,500"},
		{name: "unusual spending", question: "Any unusual activity?", contains: "Unusual spending"},
		{name: "fraud keyword", question: "is there fraud on my account", contains: "Unusual spending"},
		{name: "budget status", question: "How is my budget?", contains: "82%"},
		{name: "fallback", question: "hello there", contains: "suggestions"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := a.Reply(tt.question)
			if !strings.Contains(got, tt.contains) {
				t.Errorf("Reply(%q) = %q, want it to contain %q", tt.question, got, tt.contains)
			}
		})
	}
}

func TestRespondHonoursContext(t *testing.T) {
	a := New(time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := a.Respond(ctx, "hello"); err != context.Canceled {
		t.Errorf("Respond on cancelled context: got %v, want context.Canceled", err)
	}
}

func TestRespondAfterDelay(t *testing.T) {
	a := New(time.Millisecond)
	got, err := a.Respond(context.Background(), "budget please")
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if !strings.Contains(got, "82%") {
		t.Errorf("Respond = %q, want budget reply", got)
	}
}
