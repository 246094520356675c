// Package scraper drives a headless browser against x.com and exposes the
// result as a status source.
package scraper

import (
	"context"
	"sync"

	"github.com/chromedp/chromedp"

	"conversationalist/pkg/log"
)

// BrowserPool manages a single Chrome process with one tab in flight at a
// time. Timeline runs are sequential anyway, and one tab keeps the memory
// footprint predictable on small hosts.
type BrowserPool struct {
	opts   []chromedp.ExecAllocatorOption
	tabSem chan struct{}

	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
}

// NewBrowserPool starts Chrome. chromePath overrides the binary location
// when non-empty.
func NewBrowserPool(chromePath string) (*BrowserPool, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("disable-notifications", true),
		chromedp.Flag("mute-audio", true),
		chromedp.Flag("no-first-run", true),
	)
	if chromePath != "" {
		log.GlobalInfo("browser pool using custom chrome path", "path", chromePath)
		opts = append(opts, chromedp.ExecPath(chromePath))
	}

	bp := &BrowserPool{
		opts:   opts,
		tabSem: make(chan struct{}, 1),
	}
	if err := bp.start(); err != nil {
		return nil, err
	}
	return bp, nil
}

// start launches or relaunches the Chrome process.
func (bp *BrowserPool) start() error {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	if bp.cancel != nil {
		bp.cancel()
	}

	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), bp.opts...)
	ctx, _ := chromedp.NewContext(allocCtx)
	if err := chromedp.Run(ctx); err != nil {
		cancel()
		return err
	}

	bp.ctx = ctx
	bp.cancel = cancel
	log.GlobalInfo("browser pool chrome started")
	return nil
}

// WithTab runs fn with exclusive access to a fresh browser tab, restarting
// Chrome first if the process has died.
func (bp *BrowserPool) WithTab(fn func(ctx context.Context) error) error {
	bp.tabSem <- struct{}{}
	defer func() { <-bp.tabSem }()

	tabCtx, tabCancel, err := bp.acquireTab()
	if err != nil {
		return err
	}
	defer tabCancel()

	return fn(tabCtx)
}

func (bp *BrowserPool) acquireTab() (context.Context, context.CancelFunc, error) {
	bp.mu.Lock()
	tabCtx, tabCancel := chromedp.NewContext(bp.ctx)
	bp.mu.Unlock()

	if err := chromedp.Run(tabCtx); err != nil {
		tabCancel()
		log.GlobalWarn("browser tab failed, restarting chrome", "error", err)
		if restartErr := bp.start(); restartErr != nil {
			return nil, nil, restartErr
		}
		bp.mu.Lock()
		tabCtx, tabCancel = chromedp.NewContext(bp.ctx)
		bp.mu.Unlock()
	}
	return tabCtx, tabCancel, nil
}

// Close shuts the browser down.
func (bp *BrowserPool) Close() {
	bp.mu.Lock()
	defer bp.mu.Unlock()
	if bp.cancel != nil {
		bp.cancel()
		log.GlobalInfo("browser pool chrome stopped")
	}
}
