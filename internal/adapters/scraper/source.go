package scraper

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/chromedp/chromedp"

	"conversationalist/internal/domain"
	"conversationalist/pkg/log"
)

const (
	defaultBatchSize = 20
	scrapeTimeout    = 45 * time.Second
	scrollPause      = 1200 * time.Millisecond
)

// Scraper is a status source that drives a headless browser against x.com.
// Batch scrapes an account's profile timeline; Lookup scrapes a single
// status permalink.
type Scraper struct {
	pool      *BrowserPool
	selectors *SelectorConfig
	batchSize int
}

// NewScraper creates a scraper source over the given browser pool.
func NewScraper(pool *BrowserPool, selectors *SelectorConfig) *Scraper {
	return &Scraper{pool: pool, selectors: selectors, batchSize: defaultBatchSize}
}

// Lookup scrapes one status by identifier via the /i/status permalink, which
// resolves without knowing the author's handle.
func (s *Scraper) Lookup(ctx context.Context, id string) (domain.Status, error) {
	sel := s.selectors.Snapshot()
	var html string
	err := s.pool.WithTab(func(tab context.Context) error {
		tab, cancel := scrapeContext(ctx, tab)
		defer cancel()
		return chromedp.Run(tab,
			chromedp.Navigate("https://x.com/i/status/"+id),
			chromedp.WaitVisible(sel.Article, chromedp.ByQuery),
			chromedp.OuterHTML(sel.Article, &html, chromedp.ByQuery),
		)
	})
	if err != nil {
		return domain.Status{}, fmt.Errorf("looking up status %s: %w", id, domain.ErrStatusNotFound)
	}
	status, err := ParseArticle(html)
	if err != nil {
		return domain.Status{}, fmt.Errorf("parsing status %s: %w", id, domain.ErrStatusNotFound)
	}
	return status, nil
}

// Batch scrapes the account's profile page, scrolling until it has gathered
// a page of statuses older than beforeID (when given), the feed stops
// growing, or the page budget is reached. Results come back newest first.
func (s *Scraper) Batch(ctx context.Context, account, beforeID string) ([]domain.Status, error) {
	sel := s.selectors.Snapshot()
	collectJS := fmt.Sprintf(
		`Array.from(document.querySelectorAll(%q)).map(function(n) { return n.outerHTML; })`,
		sel.Article)

	found := make(map[string]domain.Status)
	err := s.pool.WithTab(func(tab context.Context) error {
		tab, cancel := scrapeContext(ctx, tab)
		defer cancel()

		if err := chromedp.Run(tab,
			chromedp.Navigate("https://x.com/"+account),
			chromedp.WaitVisible(sel.Article, chromedp.ByQuery),
		); err != nil {
			return err
		}

		stagnant := 0
		for len(found) < s.batchSize && stagnant < 2 {
			var articles []string
			if err := chromedp.Run(tab, chromedp.Evaluate(collectJS, &articles)); err != nil {
				return err
			}

			before := len(found)
			for _, html := range articles {
				status, err := ParseArticle(html)
				if err != nil {
					continue // pinned promos and malformed cards are expected
				}
				if beforeID != "" && !domain.IDBefore(status.ID, beforeID) {
					continue
				}
				found[status.ID] = status
			}
			if len(found) == before {
				stagnant++
			} else {
				stagnant = 0
			}

			if err := chromedp.Run(tab,
				chromedp.Evaluate(`window.scrollBy(0, window.innerHeight * 2)`, nil),
				chromedp.Sleep(scrollPause),
			); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scraping timeline for %s: %w", account, domain.ErrSourceUnavailable)
	}

	batch := make([]domain.Status, 0, len(found))
	for _, status := range found {
		batch = append(batch, status)
	}
	sort.Slice(batch, func(i, j int) bool { return domain.IDBefore(batch[j].ID, batch[i].ID) })
	if len(batch) > s.batchSize {
		batch = batch[:s.batchSize]
	}
	log.GlobalDebugCtx(ctx, "scraped timeline batch", "account", account, "size", len(batch))
	return batch, nil
}

// scrapeContext bounds a tab context by the caller's deadline when present,
// falling back to the scrape timeout.
func scrapeContext(caller, tab context.Context) (context.Context, context.CancelFunc) {
	if deadline, ok := caller.Deadline(); ok {
		return context.WithDeadline(tab, deadline)
	}
	return context.WithTimeout(tab, scrapeTimeout)
}
