// Package momentum tracks the inbox triage streak: how many notes were
// assigned today and for how many consecutive days at least one was.
package momentum

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"navd/internal/storage"
)

// DayLayout is the calendar-day key format.
const DayLayout = "2006-01-02"

// DefaultTTL keeps a state long enough to be read on the following day.
const DefaultTTL = 72 * time.Hour

// State is the persisted momentum counter of one user.
type State struct {
	Day        string    `json:"day"`
	TodayCount int       `json:"today_count"`
	Streak     int       `json:"streak"`
	UpdatedAt  time.Time `json:"updated_at,omitempty"`
}

// Tracker records assignments and reports the current streak.
type Tracker struct {
	store    storage.Store
	logger   *slog.Logger
	clock    func() time.Time
	location *time.Location
	ttl      time.Duration

	mu    sync.Mutex
	locks map[string]*userLock
}

// userLock serializes read-modify-write cycles on one user's state.
type userLock struct {
	mu   sync.Mutex
	refs int
}

// lock acquires the lock for key and returns its release func. Entries are
// dropped once nobody holds or waits on them.
func (t *Tracker) lock(key string) func() {
	t.mu.Lock()
	l, ok := t.locks[key]
	if !ok {
		l = &userLock{}
		t.locks[key] = l
	}
	l.refs++
	t.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		t.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(t.locks, key)
		}
		t.mu.Unlock()
	}
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock overrides the time source.
func WithClock(clock func() time.Time) Option {
	return func(t *Tracker) {
		if clock != nil {
			t.clock = clock
		}
	}
}

// WithLocation sets the time zone calendar days are evaluated in.
func WithLocation(loc *time.Location) Option {
	return func(t *Tracker) {
		if loc != nil {
			t.location = loc
		}
	}
}

// WithTTL sets how long a state survives without activity.
func WithTTL(ttl time.Duration) Option {
	return func(t *Tracker) {
		if ttl > 0 {
			t.ttl = ttl
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tracker) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// NewTracker creates a Tracker over store.
func NewTracker(store storage.Store, opts ...Option) *Tracker {
	t := &Tracker{
		store:    store,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		clock:    time.Now,
		location: time.Local,
		ttl:      DefaultTTL,
		locks:    make(map[string]*userLock),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Key returns the storage key of a user's state.
func Key(user string) string {
	user = strings.TrimSpace(user)
	if user == "" {
		user = "anonymous"
	}
	return "momentum:" + user
}

// Record registers one successful note assignment and returns the new state.
// Concurrent calls for the same user are serialized within this Tracker.
func (t *Tracker) Record(ctx context.Context, user string) (State, error) {
	defer t.lock(Key(user))()

	now := t.clock().In(t.location)
	today := now.Format(DayLayout)

	prev, err := t.load(ctx, user)
	if err != nil {
		return State{}, err
	}

	next := State{Day: today, TodayCount: 1, Streak: 1, UpdatedAt: now}
	switch prev.Day {
	case today:
		next.TodayCount = prev.TodayCount + 1
		next.Streak = max(prev.Streak, 1)
	case yesterday(now):
		next.Streak = prev.Streak + 1
	}

	data, err := json.Marshal(next)
	if err != nil {
		return State{}, fmt.Errorf("marshal momentum state: %w", err)
	}
	if err := t.store.Set(ctx, Key(user), data, t.ttl); err != nil {
		return State{}, fmt.Errorf("save momentum state: %w", err)
	}

	t.logger.Debug("Recorded assignment", "user", user, "day", today, "today", next.TodayCount, "streak", next.Streak)
	return next, nil
}

// Snapshot returns the state as seen today. A streak from yesterday is still
// alive with a zero count for today; anything older is reset.
func (t *Tracker) Snapshot(ctx context.Context, user string) (State, error) {
	now := t.clock().In(t.location)
	today := now.Format(DayLayout)

	state, err := t.load(ctx, user)
	if err != nil {
		return State{}, err
	}

	switch state.Day {
	case today:
		return state, nil
	case yesterday(now):
		return State{Day: today, Streak: state.Streak, UpdatedAt: state.UpdatedAt}, nil
	default:
		return State{Day: today}, nil
	}
}

// Reset forgets a user's momentum.
func (t *Tracker) Reset(ctx context.Context, user string) error {
	defer t.lock(Key(user))()

	if err := t.store.Delete(ctx, Key(user)); err != nil {
		return fmt.Errorf("reset momentum state: %w", err)
	}
	return nil
}

// load returns the stored state, or the zero state when nothing usable is
// stored. A corrupt entry is treated as missing, matching a cleared browser
// storage on the client.
func (t *Tracker) load(ctx context.Context, user string) (State, error) {
	data, err := t.store.Get(ctx, Key(user))
	if errors.Is(err, storage.ErrNotFound) {
		return State{}, nil
	}
	if err != nil {
		return State{}, fmt.Errorf("load momentum state: %w", err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		t.logger.Warn("Discarding unreadable momentum state", "user", user, "error", err)
		return State{}, nil
	}
	if _, err := time.Parse(DayLayout, state.Day); err != nil {
		t.logger.Warn("Discarding momentum state with invalid day", "user", user, "day", state.Day)
		return State{}, nil
	}
	return state, nil
}

func yesterday(now time.Time) string {
	return now.AddDate(0, 0, -1).Format(DayLayout)
}
