package realtime

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/julianstephens/hearth/internal/logger"
)

// PollHub detects writes to a SQLite database from any connection or process
// by polling PRAGMA data_version on a pinned connection. Events it emits have
// no table or family; subscribers reload.
type PollHub struct {
	db       *sql.DB
	interval time.Duration
	local    *LocalHub
}

func NewPollHub(db *sql.DB, interval time.Duration) *PollHub {
	return &PollHub{
		db:       db,
		interval: interval,
		local:    NewLocalHub(),
	}
}

// Publish reaches subscribers in this process immediately; other processes
// pick the write up on their next poll.
func (h *PollHub) Publish(ctx context.Context, ev Event) error {
	return h.local.Publish(ctx, ev)
}

func (h *PollHub) Subscribe(ctx context.Context, familyID string) (<-chan Event, error) {
	if h.interval < time.Second {
		return nil, fmt.Errorf("poll interval must be at least 1s, got %s", h.interval)
	}

	conn, err := h.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to reserve polling connection: %w", err)
	}
	last, err := dataVersion(ctx, conn)
	if err != nil {
		conn.Close()
		return nil, err
	}

	localEvents, err := h.local.Subscribe(ctx, familyID)
	if err != nil {
		conn.Close()
		return nil, err
	}

	log := logger.Component("realtime")
	out := make(chan Event, subscriberBuffer)

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	_, err = c.AddFunc(fmt.Sprintf("@every %s", h.interval), func() {
		v, err := dataVersion(ctx, conn)
		if err != nil {
			if ctx.Err() == nil {
				log.Warn("data_version poll failed", "error", err)
			}
			return
		}
		if v != last {
			last = v
			offer(out, Event{FamilyID: familyID, Op: OpResync, At: time.Now()})
		}
	})
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to schedule poll: %w", err)
	}
	c.Start()

	// localEvents is closed by the local hub once ctx is done, which stops
	// the poller before out is closed.
	go func() {
		defer close(out)
		defer conn.Close()
		defer func() { <-c.Stop().Done() }()

		for ev := range localEvents {
			offer(out, ev)
		}
	}()

	return out, nil
}

func (h *PollHub) Close() error {
	return h.local.Close()
}

func dataVersion(ctx context.Context, conn *sql.Conn) (int64, error) {
	var v int64
	if err := conn.QueryRowContext(ctx, "PRAGMA data_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("failed to read data_version: %w", err)
	}
	return v, nil
}
