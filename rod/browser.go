package rod

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// DefaultMaxPages is the number of pages opened on one Chrome process before
// it is replaced with a fresh instance.
const DefaultMaxPages = 75

// ErrBrowserClosed is returned by Acquire after Close.
var ErrBrowserClosed = errors.New("browser is closed")

// generation is one Chrome process. A retired generation keeps running until
// its last page is released.
type generation struct {
	browser  *rod.Browser
	shutdown func() error

	inflight int
	retired  bool
	done     bool
}

// stop closes the process once. Must be called with the owning Browser's mu held.
func (g *generation) stop() error {
	if g.done {
		return nil
	}
	g.done = true
	return g.shutdown()
}

// Browser owns headless Chrome and replaces it after a fixed number of pages.
// Chrome's memory baseline only grows under load, so a long-running server
// periodically starts over. Pages still open on a replaced process finish on
// it; the old process exits when the last of them is released.
//
// Browser is safe for concurrent use.
type Browser struct {
	mu       sync.Mutex
	current  *generation
	draining map[*generation]struct{}
	opened   int64
	closed   atomic.Bool

	maxPages int64
	bin      string
	launch   func() (*generation, error)
	pid      func() int
}

// BrowserOption configures a Browser.
type BrowserOption func(*Browser)

// WithMaxPages sets how many pages are opened before recycling.
func WithMaxPages(n int64) BrowserOption {
	return func(b *Browser) {
		b.maxPages = n
	}
}

// WithBin sets the Chrome executable. By default rod looks one up or
// downloads it.
func WithBin(path string) BrowserOption {
	return func(b *Browser) {
		b.bin = path
	}
}

// NewBrowser launches headless Chrome. Close must be called when the
// Browser is no longer needed.
func NewBrowser(opts ...BrowserOption) (*Browser, error) {
	b := newBrowser(nil, opts...)
	b.launch = b.launchChrome
	if err := b.start(); err != nil {
		return nil, err
	}
	return b, nil
}

func newBrowser(launch func() (*generation, error), opts ...BrowserOption) *Browser {
	b := &Browser{
		draining: make(map[*generation]struct{}),
		maxPages: DefaultMaxPages,
		launch:   launch,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Browser) start() error {
	g, err := b.launch()
	if err != nil {
		return err
	}
	b.current = g
	return nil
}

// Acquire reserves the live browser for one page, replacing the process first
// if it has served maxPages pages. The returned release func must be called
// once the page is closed.
func (b *Browser) Acquire() (*rod.Browser, func(), error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed.Load() || b.current == nil {
		return nil, nil, ErrBrowserClosed
	}
	if b.opened >= b.maxPages {
		b.recycle()
	}

	g := b.current
	g.inflight++
	b.opened++

	var once sync.Once
	release := func() {
		once.Do(func() { b.release(g) })
	}
	return g.browser, release, nil
}

func (b *Browser) release(g *generation) {
	b.mu.Lock()
	defer b.mu.Unlock()

	g.inflight--
	if g.retired && g.inflight == 0 {
		delete(b.draining, g)
		_ = g.stop()
	}
}

// recycle swaps in a fresh process. A failed launch keeps the old one.
// Must be called with mu held.
func (b *Browser) recycle() {
	next, err := b.launch()
	if err != nil {
		return
	}
	old := b.current
	b.current = next
	b.opened = 0

	old.retired = true
	if old.inflight == 0 {
		_ = old.stop()
		return
	}
	b.draining[old] = struct{}{}
}

// Closed reports whether Close has been called.
func (b *Browser) Closed() bool {
	return b.closed.Load()
}

// Close shuts every Chrome process down, including ones still draining.
// Close is safe to call multiple times.
func (b *Browser) Close() error {
	if !b.closed.CompareAndSwap(false, true) {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	var errs []error
	for g := range b.draining {
		errs = append(errs, g.stop())
		delete(b.draining, g)
	}
	if b.current != nil {
		errs = append(errs, b.current.stop())
		b.current = nil
	}
	b.pid = nil
	return errors.Join(errs...)
}

// PID returns the live Chrome process ID, or 0 once closed.
func (b *Browser) PID() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.pid == nil {
		return 0
	}
	return b.pid()
}

// launchChrome starts a Chrome process. Called with mu held or before the
// Browser is shared.
func (b *Browser) launchChrome() (*generation, error) {
	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Leakless(true).
		Headless(true)
	if b.bin != "" {
		l = l.Bin(b.bin)
	}

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}

	b.pid = l.PID
	return &generation{
		browser: browser,
		shutdown: func() error {
			err := browser.Close()
			l.Kill()
			return err
		},
	}, nil
}
