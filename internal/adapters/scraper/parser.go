package scraper

import (
	"regexp"
	"strings"
	"time"

	"conversationalist/internal/domain"
)

var (
	// permalinkRe matches the status permalink that wraps the <time>
	// element: href="/{handle}/status/{id}"><time ...
	permalinkRe = regexp.MustCompile(`<a[^>]*href="/([A-Za-z0-9_]+)/status/(\d+)"[^>]*>\s*<time`)

	// statusLinkRe matches any status link inside an article.
	statusLinkRe = regexp.MustCompile(`href="/([A-Za-z0-9_]+)/status/(\d+)"`)

	timestampRe = regexp.MustCompile(`<time[^>]*datetime="([^"]+)"`)
	avatarRe    = regexp.MustCompile(`data-testid="Tweet-User-Avatar"[^>]*>[\s\S]*?<img[^>]*src="([^"]+)"`)
	textRe      = regexp.MustCompile(`data-testid="tweetText"[^>]*>([\s\S]*?)</div>`)

	tagRe        = regexp.MustCompile(`<[^>]*>`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// ParseArticle extracts a status from one article's HTML. The permalink
// yields both the identifier and the author handle; before login walls the
// markup exposes no separate author id, so the handle doubles as the id.
func ParseArticle(html string) (domain.Status, error) {
	handle, id := extractPermalink(html)
	if id == "" {
		return domain.Status{}, domain.ErrScrapeFailed
	}

	s := domain.Status{
		ID: id,
		Author: domain.Author{
			ID:     handle,
			Handle: handle,
			Avatar: extractAvatar(html),
		},
		Text:      extractText(html),
		CreatedAt: extractTimestamp(html),
	}
	if s.CreatedAt.IsZero() {
		return domain.Status{}, domain.ErrScrapeFailed
	}

	// A second status permalink inside the article points at the status
	// being replied to or quoted. That is as much reply linkage as the
	// markup gives away.
	for _, match := range statusLinkRe.FindAllStringSubmatch(html, -1) {
		if match[2] != id {
			s.InReplyTo = match[2]
			break
		}
	}
	return s, nil
}

func extractPermalink(html string) (handle, id string) {
	if match := permalinkRe.FindStringSubmatch(html); match != nil {
		return match[1], match[2]
	}
	// Permalink pages wrap the time element differently; fall back to the
	// first status link in the article.
	if match := statusLinkRe.FindStringSubmatch(html); match != nil {
		return match[1], match[2]
	}
	return "", ""
}

func extractTimestamp(html string) time.Time {
	match := timestampRe.FindStringSubmatch(html)
	if match == nil {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, match[1])
	if err != nil {
		return time.Time{}
	}
	return t
}

func extractAvatar(html string) string {
	if match := avatarRe.FindStringSubmatch(html); match != nil {
		return match[1]
	}
	return ""
}

func extractText(html string) string {
	match := textRe.FindStringSubmatch(html)
	if match == nil {
		return ""
	}
	return cleanText(tagRe.ReplaceAllString(match[1], ""))
}

func cleanText(text string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
}
