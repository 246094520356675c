package usecases

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"conversationalist/internal/domain"
	"conversationalist/internal/exchange"
	"conversationalist/test/fixtures"
)

var buildStart = time.Date(2001, 2, 3, 4, 35, 6, 0, time.UTC)

func hourlyDocument() *exchange.Document {
	statuses := fixtures.Statuses(fixtures.HourlyOffsets(buildStart.Add(-30 * time.Minute)))
	return fixtures.Document(buildStart, buildStart.Add(-24*time.Hour), statuses, "UTC")
}

func TestBuildGroupsStatusesIntoHourlyPeriods(t *testing.T) {
	// Arrange
	builder := NewConversationBuilder("Test Story", time.UTC, nil, nil)

	// Act
	conv, err := builder.Build(hourlyDocument())

	// Assert
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if conv.Title != "Test Story" {
		t.Errorf("unexpected title %q", conv.Title)
	}
	if len(conv.Periods) != 7 {
		t.Fatalf("expected 7 periods, got %d", len(conv.Periods))
	}
	for i := 1; i < len(conv.Periods); i++ {
		if conv.Periods[i-1].ID >= conv.Periods[i].ID {
			t.Fatal("expected periods sorted ascending by id")
		}
	}
	first := time.Date(2001, 2, 2, 18, 0, 0, 0, time.UTC).Unix()
	last := time.Date(2001, 2, 3, 4, 0, 0, 0, time.UTC).Unix()
	if conv.Periods[0].ID != first {
		t.Errorf("expected first period id %d, got %d", first, conv.Periods[0].ID)
	}
	if conv.Periods[6].ID != last {
		t.Errorf("expected last period id %d, got %d", last, conv.Periods[6].ID)
	}
}

func TestBuildTalliesParticipation(t *testing.T) {
	// Arrange
	builder := NewConversationBuilder("Test Story", time.UTC, nil, nil)

	// Act
	conv, err := builder.Build(hourlyDocument())

	// Assert
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if conv.Participation.Len() != 1 {
		t.Fatalf("expected 1 participant, got %d", conv.Participation.Len())
	}
	if got := conv.Participation.Get("test_author").ExchangeCount; got != 7 {
		t.Errorf("expected 7 exchanges, got %d", got)
	}
}

func TestBuildCountsRepliesForBothAuthors(t *testing.T) {
	// Arrange
	reply := fixtures.Status(1, "replying now", buildStart.Add(-time.Hour))
	reply.InReplyTo = "9"
	reply.Origin = &domain.Origin{
		Author: domain.Author{ID: "9", Handle: "reply_user"},
		Text:   "the original",
	}
	doc := fixtures.Document(buildStart, buildStart.Add(-24*time.Hour), []domain.Status{reply}, "UTC")
	builder := NewConversationBuilder("Test Story", time.UTC, nil, nil)

	// Act
	conv, err := builder.Build(doc)

	// Assert
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if conv.Participation.Len() != 2 {
		t.Fatalf("expected 2 participants, got %d", conv.Participation.Len())
	}
	if got := conv.Participation.Get("test_author").ExchangeCount; got != 1 {
		t.Errorf("expected 1 exchange for the replier, got %d", got)
	}
	if got := conv.Participation.Get("reply_user").ExchangeCount; got != 1 {
		t.Errorf("expected 1 exchange for the origin author, got %d", got)
	}
}

func TestBuildCollectsTopicNavigation(t *testing.T) {
	// Arrange
	adapter, err := TopicHeaderAdapter(`\d+`, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	builder := NewConversationBuilder("Test Story", time.UTC, adapter, nil)

	// Act
	conv, err := builder.Build(hourlyDocument())

	// Assert
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"1", "2", "3", "4", "5", "6", "7"}
	if !reflect.DeepEqual(conv.Nav, want) {
		t.Errorf("expected nav %v, got %v", want, conv.Nav)
	}
	for _, period := range conv.Periods {
		for _, s := range period.Statuses {
			if s.TopicHeader != s.ID {
				t.Errorf("status %s: expected topic header %q, got %q", s.ID, s.ID, s.TopicHeader)
			}
		}
	}
}

func TestBuildDeduplicatesNavigation(t *testing.T) {
	// Arrange
	statuses := []domain.Status{
		fixtures.Status(1, "topic alpha again", buildStart.Add(-time.Hour)),
		fixtures.Status(2, "topic beta here", buildStart.Add(-2*time.Hour)),
		fixtures.Status(3, "topic alpha once more", buildStart.Add(-3*time.Hour)),
	}
	doc := fixtures.Document(buildStart, buildStart.Add(-24*time.Hour), statuses, "UTC")
	adapter, err := TopicHeaderAdapter(`topic (\w+)`, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	builder := NewConversationBuilder("Test Story", time.UTC, adapter, nil)

	// Act
	conv, err := builder.Build(doc)

	// Assert
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(conv.Nav, []string{"alpha", "beta"}) {
		t.Errorf("unexpected nav %v", conv.Nav)
	}
}

func TestBuildAppliesStyleClasses(t *testing.T) {
	// Arrange
	builder := NewConversationBuilder("Test Story", time.UTC, nil, []string{"mock", "status", "testing"})

	// Act
	conv, err := builder.Build(hourlyDocument())

	// Assert
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, period := range conv.Periods {
		for _, s := range period.Statuses {
			if s.StyleClasses != "mock status" {
				t.Errorf("status %s: unexpected style classes %q", s.ID, s.StyleClasses)
			}
		}
	}
}

func TestBuildStyleClassesMatchWholeWordsOnly(t *testing.T) {
	// Arrange
	statuses := []domain.Status{
		fixtures.Status(1, "a mockingbird has no Status today", buildStart.Add(-time.Hour)),
	}
	doc := fixtures.Document(buildStart, buildStart.Add(-24*time.Hour), statuses, "UTC")
	builder := NewConversationBuilder("Test Story", time.UTC, nil, []string{"mock", "status", "no status"})

	// Act
	conv, err := builder.Build(doc)

	// Assert
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := conv.Periods[0].Statuses[0].StyleClasses
	if got != "status no-status" {
		t.Errorf("unexpected style classes %q", got)
	}
}

func TestBuildAppliesTextReplacements(t *testing.T) {
	// Arrange
	statuses := []domain.Status{
		fixtures.Status(1, "hello old world", buildStart.Add(-time.Hour)),
	}
	doc := fixtures.Document(buildStart, buildStart.Add(-24*time.Hour), statuses, "UTC")
	adapter := TextReplaceAdapter(map[string]string{"old": "new"})
	builder := NewConversationBuilder("Test Story", time.UTC, adapter, nil)

	// Act
	conv, err := builder.Build(doc)

	// Assert
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := conv.Periods[0].Statuses[0].Text; got != "hello new world" {
		t.Errorf("unexpected text %q", got)
	}
}

func TestBuildNilDocumentYieldsEmptyConversation(t *testing.T) {
	// Arrange
	builder := NewConversationBuilder("Test Story", time.UTC, nil, nil)

	// Act
	conv, err := builder.Build(nil)

	// Assert
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(conv.Periods) != 0 || conv.Participation.Len() != 0 || len(conv.Nav) != 0 {
		t.Error("expected an empty conversation")
	}
}

func TestBuildRejectsMalformedTimestamps(t *testing.T) {
	// Arrange
	doc := hourlyDocument()
	record := doc.Data["1"]
	record.CreatedAt = "not a timestamp"
	doc.Data["1"] = record
	builder := NewConversationBuilder("Test Story", time.UTC, nil, nil)

	// Act
	_, err := builder.Build(doc)

	// Assert
	if !errors.Is(err, domain.ErrMalformedTimestamp) {
		t.Errorf("expected ErrMalformedTimestamp, got %v", err)
	}
}

func TestBuildFromFileRoundTrips(t *testing.T) {
	// Arrange
	timeline := domain.NewTimelineAt("testuser", buildStart, 24, time.UTC)
	for _, s := range fixtures.Statuses(fixtures.HourlyOffsets(buildStart.Add(-30 * time.Minute))) {
		timeline.Ingest(s)
	}
	path := filepath.Join(t.TempDir(), "timeline.json")
	if err := exchange.WriteFile(timeline, path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	builder := NewConversationBuilder("Test Story", time.UTC, nil, nil)

	// Act
	conv, err := builder.BuildFromFile(path)

	// Assert
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(conv.Periods) != 7 {
		t.Errorf("expected 7 periods, got %d", len(conv.Periods))
	}
}
