package scraper

import (
	"context"
	"fmt"
	"sync"
	"time"

	"xembed/pkg/log"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/chromedp"
)

// BrowserPool manages a single Chrome process and enforces
// serialized tab usage (1 tab at a time).
type BrowserPool struct {
	newAllocator func() (context.Context, context.CancelFunc)

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	tabSem chan struct{}
}

// NewBrowserPool launches a local headless Chrome. execPath may be empty
// to let chromedp find the binary.
func NewBrowserPool(execPath string) (*BrowserPool, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("mute-audio", true),
		chromedp.Flag("no-first-run", true),
	)
	if execPath != "" {
		log.GlobalInfo("browser pool using custom chrome path", "path", execPath)
		opts = append(opts, chromedp.ExecPath(execPath))
	}

	return startPool(func() (context.Context, context.CancelFunc) {
		return chromedp.NewExecAllocator(context.Background(), opts...)
	})
}

// NewRemoteBrowserPool attaches to an already running Chrome through its
// DevTools websocket URL.
func NewRemoteBrowserPool(wsURL string) (*BrowserPool, error) {
	return startPool(func() (context.Context, context.CancelFunc) {
		return chromedp.NewRemoteAllocator(context.Background(), wsURL)
	})
}

func startPool(alloc func() (context.Context, context.CancelFunc)) (*BrowserPool, error) {
	bp := &BrowserPool{
		newAllocator: alloc,
		tabSem:       make(chan struct{}, 1),
	}
	if err := bp.start(); err != nil {
		return nil, err
	}
	return bp, nil
}

// start initializes or restarts the browser connection.
func (bp *BrowserPool) start() error {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	if bp.cancel != nil {
		bp.cancel()
	}

	allocCtx, cancel := bp.newAllocator()
	ctx, _ := chromedp.NewContext(allocCtx)

	// Force startup so a broken binary fails here, not on first request.
	if err := chromedp.Run(ctx); err != nil {
		cancel()
		return err
	}

	bp.ctx = ctx
	bp.cancel = cancel

	log.GlobalInfo("browser pool chrome started")
	return nil
}

// WithTab runs fn with exclusive access to a fresh tab. The tab is closed
// when fn returns or when parent is cancelled.
func (bp *BrowserPool) WithTab(parent context.Context, fn func(ctx context.Context) error) error {
	select {
	case bp.tabSem <- struct{}{}:
	case <-parent.Done():
		return parent.Err()
	}
	defer func() { <-bp.tabSem }()

	tabCtx, tabCancel, err := bp.acquireTab()
	if err != nil {
		return err
	}
	defer tabCancel()

	stop := context.AfterFunc(parent, tabCancel)
	defer stop()

	return fn(tabCtx)
}

// acquireTab creates a tab, restarting Chrome once if the health check fails.
func (bp *BrowserPool) acquireTab() (context.Context, context.CancelFunc, error) {
	bp.mu.Lock()
	tabCtx, tabCancel := chromedp.NewContext(bp.ctx)
	bp.mu.Unlock()

	if err := chromedp.Run(tabCtx); err != nil {
		tabCancel()

		log.GlobalWarn("browser pool tab failed, restarting chrome", "error", err)

		if restartErr := bp.start(); restartErr != nil {
			return nil, nil, restartErr
		}

		bp.mu.Lock()
		tabCtx, tabCancel = chromedp.NewContext(bp.ctx)
		bp.mu.Unlock()
	}

	return tabCtx, tabCancel, nil
}

// Close shuts down the browser completely.
func (bp *BrowserPool) Close() {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	if bp.cancel != nil {
		bp.cancel()
		bp.cancel = nil
		log.GlobalInfo("browser pool chrome stopped")
	}
}

// BrowserFetcher renders post pages in headless Chrome while presenting
// the same crawler identity as HTTPFetcher.
type BrowserFetcher struct {
	pool      *BrowserPool
	userAgent string
	timeout   time.Duration
}

// NewBrowserFetcher creates a fetcher backed by pool. timeout bounds each
// page, including the wait for the pool's tab.
func NewBrowserFetcher(pool *BrowserPool, timeout time.Duration) *BrowserFetcher {
	return &BrowserFetcher{pool: pool, userAgent: PreviewUserAgent, timeout: timeout}
}

// FetchPage implements PageFetcher.
func (f *BrowserFetcher) FetchPage(ctx context.Context, url string) (string, error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	var html string
	err := f.pool.WithTab(ctx, func(tabCtx context.Context) error {
		return chromedp.Run(tabCtx,
			emulation.SetUserAgentOverride(f.userAgent),
			chromedp.Navigate(url),
			chromedp.WaitReady("body", chromedp.ByQuery),
			chromedp.OuterHTML("html", &html, chromedp.ByQuery),
		)
	})
	if err != nil {
		return "", fmt.Errorf("render page: %w", err)
	}
	return html, nil
}
