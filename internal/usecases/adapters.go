package usecases

import (
	"fmt"
	"regexp"
	"strings"

	"conversationalist/internal/domain"
)

// TopicHeaderAdapter returns an adapter that extracts a topic header from
// the status text with a case-insensitive pattern. group selects which
// capture group becomes the header; 0 is the whole match.
func TopicHeaderAdapter(pattern string, group int) (StatusAdapter, error) {
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, fmt.Errorf("topic header pattern: %w", err)
	}
	return func(s *domain.Status) *domain.Adaptation {
		match := re.FindStringSubmatch(s.Text)
		if match == nil || group >= len(match) || match[group] == "" {
			return nil
		}
		return &domain.Adaptation{TopicHeader: match[group]}
	}, nil
}

// TextReplaceAdapter returns an adapter that applies literal text
// replacements to each status. It produces no adaptation record.
func TextReplaceAdapter(conversions map[string]string) StatusAdapter {
	return func(s *domain.Status) *domain.Adaptation {
		for original, replacement := range conversions {
			s.Text = strings.ReplaceAll(s.Text, original, replacement)
		}
		return nil
	}
}
