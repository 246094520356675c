package usecases

import (
	"context"
	"fmt"

	"conversationalist/internal/domain"
	"conversationalist/internal/exchange"
	"conversationalist/pkg/log"
)

// StoryRenderer renders a conversation to an HTML page at path and returns
// the written file's location.
type StoryRenderer interface {
	Render(conv *domain.Conversation, path string) (string, error)
}

// StoryNotifier delivers a finished story page, typically by email.
type StoryNotifier interface {
	Notify(storyPath string) error
}

// MakeStoryUseCase runs the whole pipeline: fetch the timeline, persist it
// as JSON, rebuild the conversation from the persisted file, render the
// story page and optionally notify.
type MakeStoryUseCase struct {
	fetch    *FetchTimelineUseCase
	builder  *ConversationBuilder
	renderer StoryRenderer
	notifier StoryNotifier
}

// NewMakeStoryUseCase creates a new MakeStoryUseCase. notifier may be nil.
func NewMakeStoryUseCase(fetch *FetchTimelineUseCase, builder *ConversationBuilder, renderer StoryRenderer, notifier StoryNotifier) *MakeStoryUseCase {
	return &MakeStoryUseCase{fetch: fetch, builder: builder, renderer: renderer, notifier: notifier}
}

// Execute produces a story page for account and returns its path. The
// conversation is deliberately rebuilt from the persisted timeline file
// rather than the in-memory timeline, so the round trip through the exchange
// format is exercised on every run.
func (uc *MakeStoryUseCase) Execute(ctx context.Context, account, timelineOut, storyOut string) (string, error) {
	log.GlobalInfoCtx(ctx, "fetching statuses", "account", account)
	timeline, err := uc.fetch.Execute(ctx, account)
	if err != nil {
		return "", err
	}
	log.GlobalInfoCtx(ctx, "timeline fetched", "account", account, "total", timeline.Total())

	if err := exchange.WriteFile(timeline, timelineOut); err != nil {
		return "", fmt.Errorf("writing timeline file: %w", err)
	}

	conv, err := uc.builder.BuildFromFile(timelineOut)
	if err != nil {
		return "", fmt.Errorf("building conversation: %w", err)
	}

	page, err := uc.renderer.Render(conv, storyOut)
	if err != nil {
		return "", fmt.Errorf("rendering story: %w", err)
	}
	log.GlobalInfoCtx(ctx, "story written", "path", page, "periods", len(conv.Periods))

	if uc.notifier != nil {
		if err := uc.notifier.Notify(page); err != nil {
			return page, fmt.Errorf("story written to %s but notification failed: %w", page, err)
		}
	}
	return page, nil
}
