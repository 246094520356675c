package domain

import "time"

// Timeline holds the statuses retained for one account over a bounded
// lookback window. It is mutated only through Ingest while fetching and is
// treated as read-only afterwards.
type Timeline struct {
	Account string
	Start   time.Time
	Cutoff  time.Time

	loc      *time.Location
	data     map[string]*Status
	earliest *Status
}

// NewTimeline starts a timeline at the current instant with a cutoff the
// given number of hours into the past. The sign of hours is ignored; the
// window always reaches backwards.
func NewTimeline(account string, hours int, loc *time.Location) *Timeline {
	return NewTimelineAt(account, time.Now(), hours, loc)
}

// NewTimelineAt is NewTimeline with an explicit start instant.
func NewTimelineAt(account string, start time.Time, hours int, loc *time.Location) *Timeline {
	if loc == nil {
		loc = time.UTC
	}
	if hours < 0 {
		hours = -hours
	}
	start = start.In(loc)
	return &Timeline{
		Account: account,
		Start:   start,
		Cutoff:  start.Add(-time.Duration(hours) * time.Hour),
		loc:     loc,
		data:    make(map[string]*Status),
	}
}

// Location returns the timeline's display location.
func (t *Timeline) Location() *time.Location {
	return t.loc
}

// Ingest stores a status if its identifier is new and its creation time is
// strictly after the cutoff. The timestamp is converted to the display
// location on the way in. Returns the stored status, or nil when the status
// was a duplicate or too old. Re-ingesting a known identifier never changes
// the stored data.
func (t *Timeline) Ingest(s Status) *Status {
	if _, ok := t.data[s.ID]; ok {
		return nil
	}
	s.CreatedAt = s.CreatedAt.In(t.loc)
	if !s.CreatedAt.After(t.Cutoff) {
		return nil
	}
	stored := &s
	t.data[s.ID] = stored
	return stored
}

// Get returns the stored status for an identifier, or nil.
func (t *Timeline) Get(id string) *Status {
	return t.data[id]
}

// Total is the count of retained statuses.
func (t *Timeline) Total() int {
	return len(t.data)
}

// Statuses returns the retained statuses keyed by identifier. Callers must
// not mutate the map.
func (t *Timeline) Statuses() map[string]*Status {
	return t.data
}

// EarliestID returns the identifier of the recorded earliest status, used as
// the pagination cursor. Empty before the first Advance.
func (t *Timeline) EarliestID() string {
	if t.earliest == nil {
		return ""
	}
	return t.earliest.ID
}

// computeEarliest finds the oldest retained status. Ties on creation time
// break towards the smaller identifier so the result is deterministic.
func (t *Timeline) computeEarliest() *Status {
	var earliest *Status
	for _, s := range t.data {
		switch {
		case earliest == nil:
			earliest = s
		case s.CreatedAt.Before(earliest.CreatedAt):
			earliest = s
		case s.CreatedAt.Equal(earliest.CreatedAt) && IDBefore(s.ID, earliest.ID):
			earliest = s
		}
	}
	return earliest
}

// Advance recomputes the earliest retained status and decides whether
// another fetch iteration is worthwhile. It reports false when nothing was
// retained, when the earliest status has fallen past the cutoff (still
// recorded, but fetching stops), or when pagination made no progress since
// the previous earliest marker.
func (t *Timeline) Advance() bool {
	newEarliest := t.computeEarliest()
	if newEarliest == nil {
		return false
	}
	if newEarliest.CreatedAt.Before(t.Cutoff) {
		t.earliest = newEarliest
		return false
	}
	if t.earliest != nil && t.earliest.ID == newEarliest.ID {
		return false
	}
	t.earliest = newEarliest
	return true
}

// IDBefore compares two status identifiers numerically: shorter decimal
// strings sort first, equal lengths fall back to lexicographic order.
func IDBefore(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}
