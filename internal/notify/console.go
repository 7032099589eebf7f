// ============================================================================
// internal/notify/console.go
// Console notifier for local development and tests
// ============================================================================

package notify

import (
	"context"
	"log"
	"sync"
)

// ConsoleNotifier logs events instead of delivering them
type ConsoleNotifier struct{}

// Send implements Port
func (ConsoleNotifier) Send(ctx context.Context, event Event) error {
	log.Printf("[Notify] -> %s [%s/%s] %s: %s", event.Recipient, event.Type, event.Priority, event.Title, event.Message)
	return nil
}

// RecordingNotifier captures events for test assertions
type RecordingNotifier struct {
	mu     sync.Mutex
	events []Event
}

// Send implements Port
func (n *RecordingNotifier) Send(ctx context.Context, event Event) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	return nil
}

// Events returns a snapshot of everything sent so far
func (n *RecordingNotifier) Events() []Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Event(nil), n.events...)
}

// EventsFor returns the events addressed to one recipient
func (n *RecordingNotifier) EventsFor(recipient string) []Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []Event
	for _, e := range n.events {
		if e.Recipient == recipient {
			out = append(out, e)
		}
	}
	return out
}
