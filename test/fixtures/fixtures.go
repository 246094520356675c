// Package fixtures provides status, timeline and HTML fixtures for tests.
package fixtures

import (
	"fmt"
	"time"

	"conversationalist/internal/domain"
	"conversationalist/internal/exchange"
)

// Author returns the default test author.
func Author() domain.Author {
	return domain.Author{
		ID:     "1",
		Handle: "test_author",
		Avatar: "https://a1.twimg.com/profile_images/101/avatar_normal.png",
	}
}

// Status builds a status with the default author. An empty text defaults to
// "The text for mock status {id}".
func Status(id int, text string, createdAt time.Time) domain.Status {
	if text == "" {
		text = fmt.Sprintf("The text for mock status %d", id)
	}
	return domain.Status{
		ID:        fmt.Sprintf("%d", id),
		Author:    Author(),
		Text:      text,
		CreatedAt: createdAt,
	}
}

// HourlyOffsets returns seven instants at offsets 0, -1, -3, -5, -6, -7 and
// -10 hours from base, newest first.
func HourlyOffsets(base time.Time) []time.Time {
	offsets := []int{0, -1, -3, -5, -6, -7, -10}
	times := make([]time.Time, len(offsets))
	for i, h := range offsets {
		times[i] = base.Add(time.Duration(h) * time.Hour)
	}
	return times
}

// Statuses builds one status per instant with identifiers counting up
// from 1.
func Statuses(times []time.Time) []domain.Status {
	statuses := make([]domain.Status, len(times))
	for i, at := range times {
		statuses[i] = Status(i+1, "", at)
	}
	return statuses
}

// Document builds an exchange document for a set of statuses.
func Document(start, cutoff time.Time, statuses []domain.Status, timezone string) *exchange.Document {
	doc := &exchange.Document{
		Start:    exchange.FormatInstant(start),
		Cutoff:   exchange.FormatInstant(cutoff),
		Data:     make(map[string]exchange.StatusRecord, len(statuses)),
		Total:    len(statuses),
		Account:  "testuser",
		Timezone: timezone,
	}
	for i := range statuses {
		doc.Data[statuses[i].ID] = exchange.EncodeStatus(&statuses[i])
	}
	return doc
}

// Article renders the HTML of one timeline article the way x.com structures
// it, for parser tests.
func Article(handle, id, text, datetime string) string {
	return fmt.Sprintf(`
<article data-testid="tweet">
  <div data-testid="Tweet-User-Avatar">
    <img src="https://example.com/%s.jpg"/>
  </div>
  <div data-testid="User-Name">
    <span>%s</span>
    <a href="/%s">@%s</a>
  </div>
  <a href="/%s/status/%s"><time datetime="%s">now</time></a>
  <div data-testid="tweetText" dir="ltr">%s</div>
</article>`, handle, handle, handle, handle, handle, id, datetime, text)
}

// ReplyArticle is Article with an embedded permalink to the status being
// replied to.
func ReplyArticle(handle, id, text, datetime, originHandle, originID string) string {
	return Article(handle, id, text, datetime) + fmt.Sprintf(`
<div class="context">
  <a href="/%s/status/%s">show this thread</a>
</div>`, originHandle, originID)
}
