package domain

import (
	"sort"
	"time"
)

// EmptyPeriodMessage is the placeholder text attached to periods that carry
// no statuses.
const EmptyPeriodMessage = "No updates."

// subtitleLayout renders e.g. "Tuesday, February 24, 2010 8AM".
const subtitleLayout = "Monday, January 2, 2006 3PM"

// Period is an hour-wide grouping of statuses prepared for display.
type Period struct {
	ID           int64 // seconds since the Unix epoch for the bucket's hour floor
	Subtitle     string
	Statuses     []*Status
	Empty        bool
	EmptyMessage string
}

// FloorHour truncates a wall-clock time to the top of its hour, keeping the
// location intact.
func FloorHour(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())
}

// HourlyCalendar maps hour-floored bucket keys to the statuses that fall
// inside each hour. Keys are RFC 3339 strings in the calendar's display
// location, so they stay stable and parse back to the bucket instant.
type HourlyCalendar struct {
	loc     *time.Location
	buckets map[string][]*Status
}

// NewHourlyCalendar builds an empty calendar with one bucket per whole hour
// walked from cutoff up to start. When cutoff is not before start the
// calendar starts out with no buckets at all.
func NewHourlyCalendar(start, cutoff time.Time, loc *time.Location) *HourlyCalendar {
	if loc == nil {
		loc = time.UTC
	}
	c := &HourlyCalendar{loc: loc, buckets: make(map[string][]*Status)}
	for active := cutoff.In(loc); active.Before(start); active = active.Add(time.Hour) {
		key := c.Key(active)
		if _, ok := c.buckets[key]; !ok {
			c.buckets[key] = nil
		}
	}
	return c
}

// Key returns the bucket key for a timestamp: the hour floor in the
// calendar's location, formatted as RFC 3339.
func (c *HourlyCalendar) Key(t time.Time) string {
	return FloorHour(t.In(c.loc)).Format(time.RFC3339)
}

// Assign places a status into its hour bucket. A status whose hour falls
// outside the precomputed range still gets a fresh bucket of its own; the
// calendar is built from nominal start/cutoff instants while statuses may
// arrive with slightly different bounds, and dropping them would lose data.
func (c *HourlyCalendar) Assign(s *Status) {
	key := c.Key(s.CreatedAt)
	c.buckets[key] = append(c.buckets[key], s)
}

// Len reports the number of buckets, empty ones included.
func (c *HourlyCalendar) Len() int {
	return len(c.buckets)
}

// Has reports whether a bucket exists for the given key.
func (c *HourlyCalendar) Has(key string) bool {
	_, ok := c.buckets[key]
	return ok
}

// Periods emits the non-empty buckets as display periods sorted ascending by
// id. Bucket insertion order is whatever the fetch produced, so statuses are
// re-sorted by creation time before emission. The period id is derived from
// the bucket instant itself: two calendars in different display zones
// referring to the same hour yield the same id.
func (c *HourlyCalendar) Periods() ([]Period, error) {
	periods := make([]Period, 0, len(c.buckets))
	for key, statuses := range c.buckets {
		if len(statuses) == 0 {
			continue
		}
		at, err := time.Parse(time.RFC3339, key)
		if err != nil {
			return nil, err
		}
		sorted := make([]*Status, len(statuses))
		copy(sorted, statuses)
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
		})
		periods = append(periods, Period{
			ID:           at.Unix(),
			Subtitle:     at.Format(subtitleLayout),
			Statuses:     sorted,
			Empty:        false,
			EmptyMessage: EmptyPeriodMessage,
		})
	}
	sort.Slice(periods, func(i, j int) bool { return periods[i].ID < periods[j].ID })
	return periods, nil
}
