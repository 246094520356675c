// Package app wires the story pipeline from configuration. Both entrypoints
// (one-shot CLI and serve mode) share this assembly.
package app

import (
	"fmt"
	"os"
	"time"

	"conversationalist/internal/adapters/cache"
	"conversationalist/internal/adapters/notify"
	"conversationalist/internal/adapters/render"
	"conversationalist/internal/adapters/scraper"
	"conversationalist/internal/adapters/source"
	"conversationalist/internal/config"
	"conversationalist/internal/usecases"
)

const lookupCacheTTL = 15 * time.Minute

// BuildStory assembles the pipeline for cfg. The returned cleanup releases
// the browser and selector watcher when the scraper source is in play; it is
// safe to call in every case.
func BuildStory(cfg *config.Config) (*usecases.MakeStoryUseCase, func(), error) {
	cleanup := func() {}

	var src usecases.StatusSource
	switch cfg.Source {
	case config.SourceAPI:
		src = source.NewAPI(cfg.APIBase, os.Getenv("API_TOKEN"))
	default:
		selectors, err := scraper.LoadSelectors(cfg.Selectors)
		if err != nil {
			return nil, nil, fmt.Errorf("loading selectors: %w", err)
		}
		pool, err := scraper.NewBrowserPool(os.Getenv("CHROME_PATH"))
		if err != nil {
			selectors.Close()
			return nil, nil, fmt.Errorf("starting browser: %w", err)
		}
		cleanup = func() {
			pool.Close()
			selectors.Close()
		}
		src = scraper.NewScraper(pool, selectors)
	}

	loc, err := cfg.Location()
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	var adapter usecases.StatusAdapter
	if cfg.TopicPattern != "" {
		adapter, err = usecases.TopicHeaderAdapter(cfg.TopicPattern, cfg.TopicGroup)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
	}

	renderer, err := render.NewHTMLRenderer()
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	var notifier usecases.StoryNotifier
	if cfg.Notify != nil {
		notifier = notify.NewEmail(notify.EmailConfig{
			Host:     cfg.Notify.SMTPHost,
			Port:     cfg.Notify.SMTPPort,
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     cfg.Notify.From,
			To:       cfg.Notify.To,
			Subject:  cfg.Notify.Subject,
			Body:     cfg.Notify.Body,
		})
	}

	fetch := usecases.NewFetchTimelineUseCase(cache.WrapSource(src, lookupCacheTTL), cfg.Hours, loc)
	builder := usecases.NewConversationBuilder(cfg.Title, loc, adapter, cfg.StyleWords)
	return usecases.NewMakeStoryUseCase(fetch, builder, renderer, notifier), cleanup, nil
}
