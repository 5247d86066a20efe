// Package session owns the single browser/page pair every operation
// handler works against.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/NORMAL-EX/chrome-control/internal/application/port/input"
	"github.com/NORMAL-EX/chrome-control/internal/application/port/output"
	"github.com/NORMAL-EX/chrome-control/internal/domain/entity"
)

const defaultTimeout = 10 * time.Second

// openOverrideJS rewires script-initiated window.open calls to navigate
// the current page instead of spawning a second context. Popups that
// still surface at the browser level are handled by interceptTarget.
const openOverrideJS = `window.open = function (url) {
	if (url) { window.location.href = url; }
	return window;
};`

var _ input.SessionController = (*Controller)(nil)

type Controller struct {
	driver output.DriverPort
	logger output.LoggerPort

	mu           sync.Mutex
	cfg          input.SessionConfig
	browser      output.Browser
	page         output.Page
	pageID       string
	cancelEvents func()
	lifeCtx      context.Context
	lifeCancel   context.CancelFunc
}

func DefaultConfig() input.SessionConfig {
	return input.SessionConfig{
		Headless: false,
		Viewport: entity.DefaultViewport(),
		Timeout:  defaultTimeout,
	}
}

func NewController(
	driver output.DriverPort,
	logger output.LoggerPort,
) *Controller {
	return &Controller{
		driver: driver,
		logger: logger,
		cfg:    DefaultConfig(),
	}
}

func (c *Controller) Configure(cfg input.SessionConfig) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.Viewport.Width <= 0 || cfg.Viewport.Height <= 0 {
		cfg.Viewport = entity.DefaultViewport()
	}
	c.cfg = cfg
}

// Ensure is idempotent: a live browser is reused, a dead one is
// replaced by a fresh launch, and a missing or externally closed page
// is reacquired with viewport and open override reapplied.
func (c *Controller) Ensure(ctx context.Context) (output.Browser, output.Page, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.browser != nil && c.browser.Alive() {
		page, err := c.ensurePageLocked(ctx)
		if err != nil {
			return nil, nil, err
		}
		return c.browser, page, nil
	}

	c.releaseLocked()

	lifeCtx, cancel := context.WithCancel(context.Background())
	browser, err := c.driver.Launch(lifeCtx, entity.LaunchConfig{
		Headless: c.cfg.Headless,
		Bin:      c.cfg.Bin,
		Viewport: c.cfg.Viewport,
	})
	if err != nil {
		cancel()
		return nil, nil, err
	}

	c.browser = browser
	c.lifeCtx = lifeCtx
	c.lifeCancel = cancel
	c.cancelEvents = browser.OnTargetCreated(c.interceptTarget)
	c.logger.Info("Browser launched", "headless", c.cfg.Headless)

	page, err := c.ensurePageLocked(ctx)
	if err != nil {
		return nil, nil, err
	}
	return c.browser, page, nil
}

func (c *Controller) Browser() output.Browser {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.browser
}

func (c *Controller) Page() output.Page {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

func (c *Controller) SetViewport(v entity.Viewport) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if v.Scale <= 0 {
		v.Scale = entity.DefaultViewportScale
	}
	c.cfg.Viewport = v

	if c.page == nil {
		return entity.ErrNoSession
	}
	return c.page.SetViewport(v)
}

func (c *Controller) Timeout() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg.Timeout
}

// Close releases the browser unconditionally. Safe to call without a
// session; the next Ensure performs a fresh launch.
func (c *Controller) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.releaseLocked()
}

func (c *Controller) releaseLocked() error {
	if c.cancelEvents != nil {
		c.cancelEvents()
		c.cancelEvents = nil
	}

	var err error
	if c.browser != nil {
		err = c.browser.Close()
		c.logger.Info("Browser session closed")
	}
	if c.lifeCancel != nil {
		c.lifeCancel()
		c.lifeCancel = nil
	}

	c.browser = nil
	c.page = nil
	c.pageID = ""
	c.lifeCtx = nil
	return err
}

// ensurePageLocked reuses the tracked page when it still answers,
// otherwise adopts an existing page (tracked identity first, then the
// first listed) or creates a new one. Viewport and open override are
// reapplied on every reacquisition because they do not survive a page
// replacement.
func (c *Controller) ensurePageLocked(ctx context.Context) (output.Page, error) {
	if c.page != nil && pageAlive(c.page) {
		return c.page, nil
	}
	c.page = nil

	pages, err := c.browser.Pages()
	if err != nil {
		return nil, err
	}

	var page output.Page
	if c.pageID != "" {
		for _, p := range pages {
			if p.TargetID() == c.pageID {
				page = p
				break
			}
		}
	}
	if page == nil && len(pages) > 0 {
		page = pages[0]
	}
	if page == nil {
		page, err = c.browser.NewPage(ctx, "")
		if err != nil {
			return nil, err
		}
		c.logger.Debug("Created new page")
	}

	if err := c.setupPage(ctx, page); err != nil {
		return nil, err
	}

	c.page = page
	c.pageID = page.TargetID()
	return page, nil
}

func (c *Controller) setupPage(ctx context.Context, page output.Page) error {
	if err := page.SetViewport(c.cfg.Viewport); err != nil {
		return err
	}
	if err := page.EvalOnNewDocument(openOverrideJS); err != nil {
		return err
	}
	// the override above only reaches future documents
	if _, err := page.Eval(ctx, openOverrideJS); err != nil {
		c.logger.Debug("Apply open override to current document", "error", err)
	}
	return nil
}

// interceptTarget enforces the single-page invariant: a popup's URL is
// redirected onto the managed page and the extra context is closed no
// matter what. Runs on the driver's event goroutine.
func (c *Controller) interceptTarget(t entity.Target) {
	if t.Type != "page" || t.OpenerID == "" {
		return
	}

	c.mu.Lock()
	browser := c.browser
	page := c.page
	timeout := c.cfg.Timeout
	life := c.lifeCtx
	c.mu.Unlock()

	if browser == nil || life == nil {
		return
	}

	if t.URL != "" && t.URL != "about:blank" && page != nil {
		ctx, cancel := context.WithTimeout(life, timeout)
		if err := page.Navigate(ctx, t.URL); err != nil {
			c.logger.Warn("Popup redirect failed", "url", t.URL, "error", err)
		}
		cancel()
	}

	if err := browser.CloseTarget(t.ID); err != nil {
		c.logger.Warn("Close extra context failed", "target", t.ID, "error", err)
		return
	}
	c.logger.Info("Intercepted new browsing context", "url", t.URL)
}

func pageAlive(p output.Page) bool {
	_, err := p.Info()
	return err == nil
}
