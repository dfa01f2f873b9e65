// Package testutil provides browser automation utilities for E2E testing.
// It wraps Rod to provide Chrome instances sized for pointer interaction.
package testutil

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"
)

// BrowserConfig configures Chrome launch options.
type BrowserConfig struct {
	Headless     bool          // Run in headless mode (default: true)
	Timeout      time.Duration // Default operation timeout (default: 30s)
	WindowWidth  int           // Initial window width (default: 1280)
	WindowHeight int           // Initial window height (default: 1024)
}

// DefaultBrowserConfig returns sensible defaults for E2E testing.
func DefaultBrowserConfig() BrowserConfig {
	return BrowserConfig{
		Headless:     true,
		Timeout:      30 * time.Second,
		WindowWidth:  1280,
		WindowHeight: 1024,
	}
}

// BrowserClient wraps Rod with a fixed-size Chrome window.
type BrowserClient struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	page     *rod.Page
	timeout  time.Duration
}

// launched holds every launcher whose browser has not been closed yet.
var launched = struct {
	sync.Mutex
	set map[*launcher.Launcher]struct{}
}{set: map[*launcher.Launcher]struct{}{}}

func track(l *launcher.Launcher) {
	launched.Lock()
	launched.set[l] = struct{}{}
	launched.Unlock()
}

func untrack(l *launcher.Launcher) {
	launched.Lock()
	delete(launched.set, l)
	launched.Unlock()
}

// LaunchedCount returns how many browsers started by NewBrowserClient are
// still open.
func LaunchedCount() int {
	launched.Lock()
	defer launched.Unlock()
	return len(launched.set)
}

// KillLaunched kills every browser started by NewBrowserClient that was
// never closed, e.g. after a panic skipped its Close. Browsers started by
// anything else are left alone. Returns the number killed.
func KillLaunched() int {
	launched.Lock()
	defer launched.Unlock()
	n := 0
	for l := range launched.set {
		l.Kill()
		delete(launched.set, l)
		n++
	}
	return n
}

// NewBrowserClient launches Chrome and connects to it.
// The browser is configured with:
//   - A fixed window size, so pointer coordinates are reproducible
//   - No sandbox (for container compatibility)
//   - No GPU
func NewBrowserClient(cfg BrowserConfig) (*BrowserClient, error) {
	if cfg.WindowWidth <= 0 || cfg.WindowHeight <= 0 {
		return nil, fmt.Errorf("invalid window size %dx%d", cfg.WindowWidth, cfg.WindowHeight)
	}

	l := launcher.New().
		Headless(cfg.Headless).
		Set("no-sandbox").
		Set("disable-gpu").
		Set("window-size", fmt.Sprintf("%d,%d", cfg.WindowWidth, cfg.WindowHeight))

	url, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch Chrome: %w", err)
	}
	track(l)

	browser := rod.New().ControlURL(url)
	if err := browser.Connect(); err != nil {
		l.Kill()
		untrack(l)
		return nil, fmt.Errorf("failed to connect to Chrome: %w", err)
	}

	// Rod emulates a default viewport on new pages; use the real window.
	browser = browser.NoDefaultDevice()

	return &BrowserClient{
		browser:  browser,
		launcher: l,
		timeout:  cfg.Timeout,
	}, nil
}

// Navigate opens url in the current page, creating one on first use.
// Returns the page for further interaction.
func (c *BrowserClient) Navigate(url string) (*rod.Page, error) {
	if c.page == nil {
		page, err := c.browser.Page(proto.TargetCreateTarget{})
		if err != nil {
			return nil, fmt.Errorf("failed to open page: %w", err)
		}
		c.page = page
	}

	err := c.page.Timeout(c.timeout).Navigate(url)
	if err != nil {
		return nil, fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	if err := c.page.Timeout(c.timeout).WaitLoad(); err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", url, err)
	}
	return c.page, nil
}

// Page returns the current page, or nil if none open.
func (c *BrowserClient) Page() *rod.Page {
	return c.page
}

// Eval executes JavaScript in the current page and returns the result.
// Requires Navigate() to have been called first.
func (c *BrowserClient) Eval(js string, args ...interface{}) (gson.JSON, error) {
	if c.page == nil {
		return gson.JSON{}, errors.New("no page open, call Navigate first")
	}
	result, err := c.page.Eval(js, args...)
	if err != nil {
		return gson.JSON{}, fmt.Errorf("eval failed: %w", err)
	}
	return result.Value, nil
}

// Resize sets the page's viewport to width x height CSS pixels.
// window.resizeTo only affects popups, so this goes through device
// metrics emulation instead. The size persists across navigations.
func (c *BrowserClient) Resize(width, height int) error {
	if c.page == nil {
		return errors.New("no page open, call Navigate first")
	}
	err := c.page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             width,
		Height:            height,
		DeviceScaleFactor: 1,
	})
	if err != nil {
		return fmt.Errorf("failed to resize viewport: %w", err)
	}
	return nil
}

// WaitStable waits for the page to be stable (no DOM changes).
func (c *BrowserClient) WaitStable() error {
	if c.page == nil {
		return errors.New("no page open")
	}
	return c.page.WaitStable(c.timeout)
}

// Close cleans up browser resources.
// Always call this (via defer) to prevent orphaned Chrome processes.
func (c *BrowserClient) Close() error {
	var err error
	if c.browser != nil {
		err = c.browser.Close()
	}
	if c.launcher != nil {
		if err != nil {
			c.launcher.Kill()
		}
		untrack(c.launcher)
	}
	return err
}
