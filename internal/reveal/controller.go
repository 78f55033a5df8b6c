// Package reveal animates narration text with a progressive typewriter effect.
// The animation is purely cosmetic: it runs in the background, never gates the
// session's state transitions, and a new narration supersedes any reveal in
// progress with no visible artifact of the abandoned one.
package reveal

import (
	"context"
	"sync"
	"time"
)

// DefaultInterval paces the reveal at roughly 55 characters per second.
const DefaultInterval = 18 * time.Millisecond

// Controller reveals one narration at a time, one rune per tick. Each Start
// bumps a generation counter and cancels the previous goroutine; a superseded
// goroutine can never emit again because every emission re-checks the
// generation under the controller's lock.
type Controller struct {
	interval time.Duration
	sink     func(string)

	mu        sync.Mutex
	gen       int
	cancel    context.CancelFunc
	runes     []rune
	shown     int
	displayed string
}

// New creates a controller. sink, if non-nil, is invoked with each new prefix
// (including the final full text) while the controller's lock is held, so it
// must be quick and must not call back into the controller.
func New(interval time.Duration, sink func(string)) *Controller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Controller{interval: interval, sink: sink}
}

// Start begins revealing text, immediately superseding any reveal in progress.
func (c *Controller) Start(text string) {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	if c.cancel != nil {
		c.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.runes = []rune(text)
	c.shown = 0
	c.displayed = ""
	if c.sink != nil {
		c.sink(c.displayed)
	}
	done := len(c.runes) == 0
	c.mu.Unlock()

	if done {
		cancel()
		return
	}
	go c.run(ctx, gen)
}

// Stop abandons any reveal in progress, leaving the displayed prefix as-is.
// Safe to call multiple times and after teardown.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

// Displayed returns the currently revealed prefix.
func (c *Controller) Displayed() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.displayed
}

// Revealing reports whether a reveal is still in progress.
func (c *Controller) Revealing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cancel != nil && c.shown < len(c.runes)
}

func (c *Controller) run(ctx context.Context, gen int) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if c.step(gen) {
				return
			}
		}
	}
}

// step advances the reveal by one rune. It reports true when this goroutine
// should exit, either because the text is fully shown or because a newer
// generation took over.
func (c *Controller) step(gen int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return true
	}
	if c.shown >= len(c.runes) {
		return true
	}
	c.shown++
	c.displayed = string(c.runes[:c.shown])
	if c.sink != nil {
		c.sink(c.displayed)
	}
	return c.shown >= len(c.runes)
}
