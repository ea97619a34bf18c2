package workspace

import (
	"time"

	"github.com/bnema/termdeck/internal/domain/entity"
)

const (
	DefaultCwdDebounce     = 150 * time.Millisecond
	DefaultCwdPollInterval = 500 * time.Millisecond
)

// CwdFollower decides when the focused terminal's working directory is looked
// up. A focus change schedules one lookup after the debounce; a newer focus
// change replaces it. Between focus changes the focused pane is re-polled at
// a fixed interval.
type CwdFollower struct {
	debounce time.Duration
	poll     time.Duration

	pending  entity.PaneID
	due      time.Time
	nextPoll time.Time
}

// NewCwdFollower creates a follower. Non-positive durations take the defaults;
// a negative poll disables re-polling.
func NewCwdFollower(debounce, poll time.Duration) *CwdFollower {
	if debounce <= 0 {
		debounce = DefaultCwdDebounce
	}
	if poll == 0 {
		poll = DefaultCwdPollInterval
	}
	return &CwdFollower{debounce: debounce, poll: poll}
}

// FocusChanged schedules a lookup of id, replacing any pending one.
func (f *CwdFollower) FocusChanged(id entity.PaneID, now time.Time) {
	f.pending = id
	f.due = now.Add(f.debounce)
	f.nextPoll = time.Time{}
}

// Pending returns the pane whose lookup is scheduled, or entity.NoPane.
func (f *CwdFollower) Pending() entity.PaneID {
	return f.pending
}

// Due returns the pane to look up now, if any. focused is the pane focused at
// the time of the call; a pending lookup for any other pane is discarded.
func (f *CwdFollower) Due(focused entity.PaneID, now time.Time) (entity.PaneID, bool) {
	if f.pending.Valid() {
		if now.Before(f.due) {
			return entity.NoPane, false
		}
		id := f.pending
		f.pending = entity.NoPane
		f.schedulePoll(now)
		if id != focused {
			return entity.NoPane, false
		}
		return id, true
	}

	if f.poll < 0 || !focused.Valid() {
		return entity.NoPane, false
	}
	if f.nextPoll.IsZero() {
		f.schedulePoll(now)
		return entity.NoPane, false
	}
	if now.Before(f.nextPoll) {
		return entity.NoPane, false
	}
	f.schedulePoll(now)
	return focused, true
}

func (f *CwdFollower) schedulePoll(now time.Time) {
	if f.poll > 0 {
		f.nextPoll = now.Add(f.poll)
	}
}
