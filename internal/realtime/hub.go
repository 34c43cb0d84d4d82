// Package realtime notifies clients that a family's data changed so they can
// refresh. Events carry no row data; subscribers re-read from storage.
package realtime

import (
	"context"
	"time"
)

// Op values used in events.
const (
	OpInsert = "insert"
	OpUpdate = "update"
	OpDelete = "delete"
	// OpResync means changes may have been missed and the subscriber should
	// reload everything.
	OpResync = "resync"
)

type Event struct {
	FamilyID string    `json:"family_id"`
	Table    string    `json:"table"`
	Op       string    `json:"op"`
	At       time.Time `json:"at"`
}

// Hub publishes change events and fans them out to subscribers.
type Hub interface {
	Publish(ctx context.Context, ev Event) error
	// Subscribe delivers events for familyID (all families when empty) until
	// ctx is done, then closes the channel. Slow subscribers may miss events.
	Subscribe(ctx context.Context, familyID string) (<-chan Event, error)
	Close() error
}

const subscriberBuffer = 16

func matches(familyID string, ev Event) bool {
	return familyID == "" || ev.FamilyID == "" || ev.FamilyID == familyID
}

// offer sends without blocking and reports whether the event was delivered.
func offer(ch chan<- Event, ev Event) bool {
	select {
	case ch <- ev:
		return true
	default:
		return false
	}
}
