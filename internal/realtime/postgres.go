package realtime

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/julianstephens/hearth/internal/constants"
	"github.com/julianstephens/hearth/internal/logger"
)

// PGHub carries events over PostgreSQL LISTEN/NOTIFY so every client
// connected to the same database sees them.
type PGHub struct {
	connStr string
	db      *sql.DB
	channel string
}

// NewPGHub publishes through db and opens a dedicated listener connection
// from connStr for each subscription.
func NewPGHub(connStr string, db *sql.DB) *PGHub {
	return &PGHub{
		connStr: connStr,
		db:      db,
		channel: constants.RealtimeChannel,
	}
}

func (h *PGHub) Publish(ctx context.Context, ev Event) error {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	if _, err := h.db.ExecContext(ctx, "SELECT pg_notify($1, $2)", h.channel, string(payload)); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

func (h *PGHub) Subscribe(ctx context.Context, familyID string) (<-chan Event, error) {
	log := logger.Component("realtime")

	listener := pq.NewListener(h.connStr, constants.ListenerMinReconnect, constants.ListenerMaxReconnect,
		func(ev pq.ListenerEventType, err error) {
			switch ev {
			case pq.ListenerEventDisconnected:
				log.Warn("listener disconnected", "error", err)
			case pq.ListenerEventReconnected:
				log.Info("listener reconnected")
			case pq.ListenerEventConnectionAttemptFailed:
				log.Warn("listener connection attempt failed", "error", err)
			}
		})
	if err := listener.Listen(h.channel); err != nil {
		listener.Close()
		return nil, fmt.Errorf("failed to listen on %s: %w", h.channel, err)
	}

	out := make(chan Event, subscriberBuffer)
	go func() {
		defer close(out)
		defer listener.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case n, ok := <-listener.Notify:
				if !ok {
					return
				}
				// A nil notification follows a reconnect; anything sent while
				// disconnected was lost.
				if n == nil {
					offer(out, Event{FamilyID: familyID, Op: OpResync, At: time.Now()})
					continue
				}
				var ev Event
				if err := json.Unmarshal([]byte(n.Extra), &ev); err != nil {
					log.Warn("dropping malformed notification", "payload", n.Extra, "error", err)
					continue
				}
				if matches(familyID, ev) && !offer(out, ev) {
					log.Debug("subscriber slow, event dropped", "family", familyID)
				}
			case <-time.After(90 * time.Second):
				go func() { _ = listener.Ping() }()
			}
		}
	}()
	return out, nil
}

// Close is a no-op; subscriptions end with their context and the shared
// database handle belongs to the store.
func (h *PGHub) Close() error {
	return nil
}
