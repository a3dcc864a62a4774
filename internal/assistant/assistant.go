// Package assistant provides the scripted chat helper shown on the
// dashboard. Replies are canned and keyword-driven; the think delay is
// artificial, matching the rest of the demo's simulated latency.
package assistant

import (
	"context"
	"strings"
	"time"
)

// DefaultThinkDelay matches the original widget's reply delay.
const DefaultThinkDelay = 700 * time.Millisecond

// Assistant answers banking questions from a fixed script.
type Assistant struct {
	thinkDelay time.Duration
}

// New creates an assistant with the given artificial reply delay.
// A zero delay answers immediately.
func New(thinkDelay time.Duration) *Assistant {
	return &Assistant{thinkDelay: thinkDelay}
}

// Reply returns the scripted answer for a question, immediately.
func (a *Assistant) Reply(question string) string {
	q := strings.ToLower(question)
	switch {
	case strings.Contains(q, "save"):
		return "You can save ₹2,500 this month by reducing dining out and subscriptions."
	case strings.Contains(q, "unusual"), strings.Contains(q, "fraud"):
		return "Unusual spending detected in Food category — ₹2,400 on Oct 19 at Grocery Mart."
	case strings.Contains(q, "budget"):
		return "Your Food budget is at 82% of the target. Consider trimming snacks."
	default:
		return "Here are some suggestions: set a weekly budget, enable alerts for large spends, and review subscriptions."
	}
}

// Respond returns the scripted answer after the think delay, or the context
// error if the caller goes away first.
func (a *Assistant) Respond(ctx context.Context, question string) (string, error) {
	if a.thinkDelay > 0 {
		timer := time.NewTimer(a.thinkDelay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-timer.C:
		}
	}
	return a.Reply(question), nil
}
