// Package exchange is the persistence codec for timelines: it maps the
// domain types to a JSON document whose timestamps keep their timezone
// offsets, so a written timeline reloads to the same instants. Each type has
// its own encode/decode pair; nothing dispatches on runtime type inspection.
package exchange

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"conversationalist/internal/domain"
)

// Document is the on-disk form of a fetched timeline.
type Document struct {
	Start    string                  `json:"start"`
	Cutoff   string                  `json:"cutoff"`
	Data     map[string]StatusRecord `json:"data"`
	Total    int                     `json:"total"`
	Account  string                  `json:"username"`
	Timezone string                  `json:"timezone"`
}

// StatusRecord is the on-disk form of a single status.
type StatusRecord struct {
	Author    AuthorRecord  `json:"author"`
	Origin    *OriginRecord `json:"origin"`
	Text      string        `json:"text"`
	CreatedAt string        `json:"created_at"`
	InReplyTo string        `json:"in_reply_to_status_id"`
}

// AuthorRecord is the abbreviated author form: id, handle, avatar.
type AuthorRecord struct {
	ID     string `json:"id"`
	Handle string `json:"screen_name"`
	Avatar string `json:"profile_image_url"`
}

// OriginRecord carries only the author and text of a replied-to status.
type OriginRecord struct {
	Author AuthorRecord `json:"author"`
	Text   string       `json:"text"`
}

// instantLayouts are tried in order when parsing. The naive layout covers
// sources that deliver timestamps without offset information; those are
// taken as UTC.
var instantLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
}

// FormatInstant renders a timestamp with its offset intact.
func FormatInstant(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

// ParseInstant parses a document timestamp. Strings without an offset are
// treated as UTC. Unparseable input surfaces domain.ErrMalformedTimestamp.
func ParseInstant(s string) (time.Time, error) {
	for _, layout := range instantLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			if layout == instantLayouts[1] {
				t = t.UTC()
			}
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", domain.ErrMalformedTimestamp, s)
}

// EncodeAuthor converts a domain author to its record form.
func EncodeAuthor(a domain.Author) AuthorRecord {
	return AuthorRecord{ID: a.ID, Handle: a.Handle, Avatar: a.Avatar}
}

// DecodeAuthor converts an author record back to the domain form.
func DecodeAuthor(r AuthorRecord) domain.Author {
	return domain.Author{ID: r.ID, Handle: r.Handle, Avatar: r.Avatar}
}

// EncodeStatus converts a domain status to its record form.
func EncodeStatus(s *domain.Status) StatusRecord {
	rec := StatusRecord{
		Author:    EncodeAuthor(s.Author),
		Text:      s.Text,
		CreatedAt: FormatInstant(s.CreatedAt),
		InReplyTo: s.InReplyTo,
	}
	if s.Origin != nil {
		rec.Origin = &OriginRecord{
			Author: EncodeAuthor(s.Origin.Author),
			Text:   s.Origin.Text,
		}
	}
	return rec
}

// DecodeStatus converts a status record back to the domain form.
func DecodeStatus(id string, rec StatusRecord) (*domain.Status, error) {
	created, err := ParseInstant(rec.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("status %s: %w", id, err)
	}
	s := &domain.Status{
		ID:        id,
		Author:    DecodeAuthor(rec.Author),
		Text:      rec.Text,
		CreatedAt: created,
		InReplyTo: rec.InReplyTo,
	}
	if rec.Origin != nil {
		s.Origin = &domain.Origin{
			Author: DecodeAuthor(rec.Origin.Author),
			Text:   rec.Origin.Text,
		}
	}
	return s, nil
}

// EncodeTimeline converts a fetched timeline to a document.
func EncodeTimeline(t *domain.Timeline) *Document {
	doc := &Document{
		Start:    FormatInstant(t.Start),
		Cutoff:   FormatInstant(t.Cutoff),
		Data:     make(map[string]StatusRecord, t.Total()),
		Total:    t.Total(),
		Account:  t.Account,
		Timezone: t.Location().String(),
	}
	for id, s := range t.Statuses() {
		doc.Data[id] = EncodeStatus(s)
	}
	return doc
}

// Interval parses the document's start and cutoff instants.
func (d *Document) Interval() (start, cutoff time.Time, err error) {
	start, err = ParseInstant(d.Start)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("start: %w", err)
	}
	cutoff, err = ParseInstant(d.Cutoff)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("cutoff: %w", err)
	}
	return start, cutoff, nil
}

// WriteFile encodes a timeline and writes it to path as indented JSON.
func WriteFile(t *domain.Timeline, path string) error {
	data, err := json.MarshalIndent(EncodeTimeline(t), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadFile loads a document from path.
func ReadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a document from raw JSON.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			return nil, fmt.Errorf("timeline document at byte %d: %w", syntaxErr.Offset, err)
		}
		return nil, err
	}
	return &doc, nil
}
