package domain

import (
	"testing"
	"time"
)

func newTestTimeline(hours int) *Timeline {
	start := time.Date(2001, 2, 3, 4, 5, 6, 0, time.UTC)
	return NewTimelineAt("testuser", start, hours, time.UTC)
}

func TestNewTimelineAtNormalizesWindow(t *testing.T) {
	// Arrange / Act
	timeline := NewTimelineAt("testuser", time.Date(2001, 2, 3, 4, 0, 0, 0, time.UTC), -24, nil)

	// Assert
	if got := timeline.Start.Sub(timeline.Cutoff); got != 24*time.Hour {
		t.Errorf("expected a 24h window, got %s", got)
	}
	if timeline.Location() != time.UTC {
		t.Error("expected UTC as the default location")
	}
}

func TestIngestStoresNewStatus(t *testing.T) {
	// Arrange
	timeline := newTestTimeline(24)
	status := Status{ID: "10", Author: Author{Handle: "alice"}, CreatedAt: timeline.Start.Add(-time.Hour)}

	// Act
	stored := timeline.Ingest(status)

	// Assert
	if stored == nil {
		t.Fatal("expected the status to be stored")
	}
	if timeline.Total() != 1 {
		t.Errorf("expected 1 status, got %d", timeline.Total())
	}
	if timeline.Get("10") != stored {
		t.Error("expected Get to return the stored status")
	}
}

func TestIngestIsIdempotentPerID(t *testing.T) {
	// Arrange
	timeline := newTestTimeline(24)
	original := Status{ID: "10", Text: "original", CreatedAt: timeline.Start.Add(-time.Hour)}
	timeline.Ingest(original)

	// Act
	replay := timeline.Ingest(Status{ID: "10", Text: "changed", CreatedAt: timeline.Start.Add(-2 * time.Hour)})

	// Assert
	if replay != nil {
		t.Error("expected a duplicate ingest to return nil")
	}
	if got := timeline.Get("10").Text; got != "original" {
		t.Errorf("expected the original text to survive, got %q", got)
	}
	if timeline.Total() != 1 {
		t.Errorf("expected 1 status, got %d", timeline.Total())
	}
}

func TestIngestRejectsStatusesAtOrPastCutoff(t *testing.T) {
	// Arrange
	timeline := newTestTimeline(2)

	// Act
	atCutoff := timeline.Ingest(Status{ID: "1", CreatedAt: timeline.Cutoff})
	pastCutoff := timeline.Ingest(Status{ID: "2", CreatedAt: timeline.Cutoff.Add(-time.Minute)})
	inside := timeline.Ingest(Status{ID: "3", CreatedAt: timeline.Cutoff.Add(time.Minute)})

	// Assert
	if atCutoff != nil || pastCutoff != nil {
		t.Error("expected statuses at or before the cutoff to be dropped")
	}
	if inside == nil {
		t.Error("expected a status inside the window to be stored")
	}
	if timeline.Total() != 1 {
		t.Errorf("expected 1 status, got %d", timeline.Total())
	}
}

func TestIngestConvertsToDisplayLocation(t *testing.T) {
	// Arrange
	eastern := time.FixedZone("EST", -5*3600)
	timeline := NewTimelineAt("testuser", time.Date(2001, 2, 3, 4, 0, 0, 0, time.UTC), 24, eastern)

	// Act
	stored := timeline.Ingest(Status{ID: "1", CreatedAt: time.Date(2001, 2, 3, 3, 0, 0, 0, time.UTC)})

	// Assert
	if stored == nil {
		t.Fatal("expected the status to be stored")
	}
	if stored.CreatedAt.Location() != eastern {
		t.Errorf("expected the eastern location, got %v", stored.CreatedAt.Location())
	}
	if !stored.CreatedAt.Equal(time.Date(2001, 2, 3, 3, 0, 0, 0, time.UTC)) {
		t.Error("expected the instant to be unchanged by conversion")
	}
}

func TestAdvanceWithoutStatuses(t *testing.T) {
	timeline := newTestTimeline(24)
	if timeline.Advance() {
		t.Error("expected Advance to report false on an empty timeline")
	}
	if timeline.EarliestID() != "" {
		t.Errorf("expected no earliest id, got %q", timeline.EarliestID())
	}
}

func TestAdvanceTracksEarliestAcrossBatches(t *testing.T) {
	// Arrange
	timeline := newTestTimeline(24)
	timeline.Ingest(Status{ID: "30", CreatedAt: timeline.Start.Add(-time.Hour)})
	timeline.Ingest(Status{ID: "20", CreatedAt: timeline.Start.Add(-2 * time.Hour)})

	// Act / Assert
	if !timeline.Advance() {
		t.Fatal("expected Advance to report progress")
	}
	if timeline.EarliestID() != "20" {
		t.Errorf("expected earliest id 20, got %q", timeline.EarliestID())
	}

	timeline.Ingest(Status{ID: "10", CreatedAt: timeline.Start.Add(-3 * time.Hour)})
	if !timeline.Advance() {
		t.Fatal("expected Advance to report progress after a new batch")
	}
	if timeline.EarliestID() != "10" {
		t.Errorf("expected earliest id 10, got %q", timeline.EarliestID())
	}
}

func TestAdvanceStopsWhenPaginationStalls(t *testing.T) {
	// Arrange
	timeline := newTestTimeline(24)
	timeline.Ingest(Status{ID: "10", CreatedAt: timeline.Start.Add(-time.Hour)})
	if !timeline.Advance() {
		t.Fatal("expected the first Advance to report progress")
	}

	// Act: nothing new was ingested since the last marker.
	again := timeline.Advance()

	// Assert
	if again {
		t.Error("expected Advance to stop when the earliest status repeats")
	}
}

func TestAdvanceBreaksCreationTimeTiesBySmallerID(t *testing.T) {
	// Arrange
	timeline := newTestTimeline(24)
	at := timeline.Start.Add(-time.Hour)
	timeline.Ingest(Status{ID: "107", CreatedAt: at})
	timeline.Ingest(Status{ID: "104", CreatedAt: at})

	// Act
	timeline.Advance()

	// Assert
	if timeline.EarliestID() != "104" {
		t.Errorf("expected earliest id 104, got %q", timeline.EarliestID())
	}
}

func TestIDBefore(t *testing.T) {
	cases := []struct {
		a, b string
		want bool
	}{
		{"9", "10", true},
		{"10", "9", false},
		{"10", "11", true},
		{"11", "10", false},
		{"10", "10", false},
	}
	for _, c := range cases {
		if got := IDBefore(c.a, c.b); got != c.want {
			t.Errorf("IDBefore(%q, %q) = %v, want %v", c.a, c.b, got, c.want)
		}
	}
}
