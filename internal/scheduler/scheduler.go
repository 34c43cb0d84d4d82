// Package scheduler is the application service behind the CLI. It turns task
// templates into stored occurrences, applies edits and status transitions,
// and assembles resolved task lists and monthly reports.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/hearth/internal/logger"
	"github.com/julianstephens/hearth/internal/models"
	"github.com/julianstephens/hearth/internal/realtime"
	"github.com/julianstephens/hearth/internal/status"
	"github.com/julianstephens/hearth/internal/storage"
)

var (
	// ErrPartialWrite means some occurrences were saved and some were not.
	// The saved rows are kept; retrying with the same series id fills the gaps.
	ErrPartialWrite  = errors.New("some occurrences could not be saved")
	ErrNoOccurrences = errors.New("template produces no occurrences")
	ErrForbidden     = errors.New("not permitted for this member")
)

type Scheduler struct {
	store storage.Provider
	clock status.Clock
	hub   realtime.Hub
	newID func() string
}

type Option func(*Scheduler)

func WithClock(c status.Clock) Option {
	return func(s *Scheduler) { s.clock = c }
}

// WithHub publishes a change event after every successful write.
func WithHub(h realtime.Hub) Option {
	return func(s *Scheduler) { s.hub = h }
}

func WithIDGenerator(fn func() string) Option {
	return func(s *Scheduler) { s.newID = fn }
}

func New(store storage.Provider, opts ...Option) *Scheduler {
	s := &Scheduler{
		store: store,
		clock: status.SystemClock{},
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Scheduler) now() time.Time {
	return s.clock.Now()
}

// Now is the scheduler's current time, as used for overdue resolution.
func (s *Scheduler) Now() time.Time {
	return s.now()
}

func (s *Scheduler) publish(familyID, table, op string) {
	if s.hub == nil {
		return
	}
	ev := realtime.Event{FamilyID: familyID, Table: table, Op: op, At: s.now()}
	if err := s.hub.Publish(context.Background(), ev); err != nil {
		logger.Warn("Failed to publish change event", "table", table, "op", op, "error", err)
	}
}

// authorize loads the acting member and checks that they belong to familyID
// and that allowed accepts their role. An empty actorID skips the check.
func (s *Scheduler) authorize(actorID, familyID string, allowed func(models.Role) bool) error {
	if actorID == "" {
		return nil
	}
	m, err := s.store.GetMember(actorID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%w: unknown member %s", ErrForbidden, actorID)
		}
		return err
	}
	if m.FamilyID != familyID {
		return fmt.Errorf("%w: %s is not in this family", ErrForbidden, m.Name)
	}
	if !allowed(m.Role) {
		return fmt.Errorf("%w: %s is a %s", ErrForbidden, m.Name, m.Role)
	}
	return nil
}

func canEditTasks(r models.Role) bool     { return r.CanEditTasks() }
func canManageMembers(r models.Role) bool { return r.CanManageMembers() }

// checkMembers fails if any id is not a member of familyID.
func (s *Scheduler) checkMembers(familyID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	members, err := s.store.ListMembers(familyID)
	if err != nil {
		return fmt.Errorf("failed to load members: %w", err)
	}
	for _, id := range ids {
		if !slices.ContainsFunc(members, func(m models.Member) bool { return m.ID == id }) {
			return fmt.Errorf("member %s is not in this family", id)
		}
	}
	return nil
}
