package usecases

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"conversationalist/internal/domain"
	"conversationalist/internal/exchange"
)

// StatusAdapter is a pluggable per-status transform applied while building a
// conversation. It may mutate the status in place; a non-nil result is kept
// on the status, and its TopicHeader (if any) feeds the navigation list.
type StatusAdapter func(*domain.Status) *domain.Adaptation

// styleRule is one precompiled keyword matcher paired with the CSS-safe
// class it yields.
type styleRule struct {
	class string
	re    *regexp.Regexp
}

// ConversationBuilder turns a persisted timeline document into a
// display-ready conversation. Every build is a full rebuild; the builder
// itself holds no per-document state.
type ConversationBuilder struct {
	title   string
	loc     *time.Location
	adapter StatusAdapter
	styles  []styleRule
}

// NewConversationBuilder creates a builder. adapter may be nil for no
// transform, styleWords may be empty for no style tagging, loc nil means UTC.
func NewConversationBuilder(title string, loc *time.Location, adapter StatusAdapter, styleWords []string) *ConversationBuilder {
	if loc == nil {
		loc = time.UTC
	}
	b := &ConversationBuilder{title: title, loc: loc, adapter: adapter}
	for _, word := range styleWords {
		b.styles = append(b.styles, styleRule{
			class: strings.ReplaceAll(word, " ", "-"),
			re:    regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(word) + `\b`),
		})
	}
	return b
}

// BuildFromFile loads a timeline document from path and builds it.
func (b *ConversationBuilder) BuildFromFile(path string) (*domain.Conversation, error) {
	doc, err := exchange.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return b.Build(doc)
}

// Build assembles the conversation: participation tallies, adaptations,
// style classes and hourly bucketing, then the finalized periods and the
// sorted deduplicated navigation list. A nil or empty document yields an
// empty conversation, not an error.
func (b *ConversationBuilder) Build(doc *exchange.Document) (*domain.Conversation, error) {
	conv := &domain.Conversation{
		Title:         b.title,
		Participation: domain.NewParticipation(),
	}
	if doc == nil || doc.Start == "" {
		return conv, nil
	}

	start, cutoff, err := doc.Interval()
	if err != nil {
		return nil, err
	}
	calendar := domain.NewHourlyCalendar(start, cutoff, b.loc)

	// Statuses are processed in identifier order, which tracks arrival order
	// for the monotonically assigned identifiers the sources hand out.
	ids := make([]string, 0, len(doc.Data))
	for id := range doc.Data {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return domain.IDBefore(ids[i], ids[j]) })

	var topics []string
	for _, id := range ids {
		s, err := exchange.DecodeStatus(id, doc.Data[id])
		if err != nil {
			return nil, err
		}
		s.CreatedAt = s.CreatedAt.In(b.loc)

		conv.Participation.Record(s.Author)
		if s.Origin != nil {
			conv.Participation.Record(s.Origin.Author)
		}

		if b.adapter != nil {
			if ad := b.adapter(s); ad != nil {
				s.Adaptation = ad
				if ad.TopicHeader != "" {
					s.TopicHeader = ad.TopicHeader
					topics = append(topics, ad.TopicHeader)
				}
			}
		}

		if len(b.styles) > 0 {
			s.StyleClasses = b.styleClasses(s.Text)
		}

		calendar.Assign(s)
	}

	conv.Periods, err = calendar.Periods()
	if err != nil {
		return nil, err
	}
	conv.Nav = dedupSorted(topics)
	return conv, nil
}

// styleClasses returns the space-joined classes for every keyword with a
// whole-word, case-insensitive match in text. A keyword matching repeatedly
// still contributes one class.
func (b *ConversationBuilder) styleClasses(text string) string {
	var classes []string
	for _, rule := range b.styles {
		if rule.re.MatchString(text) {
			classes = append(classes, rule.class)
		}
	}
	return strings.Join(classes, " ")
}

func dedupSorted(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	sort.Strings(values)
	out := values[:1]
	for _, v := range values[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}
