package browser

import (
	"fmt"
	"io"
	"time"

	"github.com/DaniellePashayan/post-rejections-idx/internal/infra/logger"
	"github.com/playwright-community/playwright-go"
)

const (
	// DefaultTimeout bounds individual element operations.
	DefaultTimeout = 10 * time.Second

	clickRetries     = 3
	clickTimeout     = 3 * time.Second
	valuePollEvery   = 250 * time.Millisecond
	scaleFactor      = "0.75"
	remoteDebugPort  = 9222
	viewportWidth    = 1920
	viewportHeight   = 1080
)

// Options configures a new browser session.
type Options struct {
	// Headless runs the browser without a visible window (production mode).
	Headless bool
}

// PlaywrightDriver implements Driver on top of a single Playwright Chromium
// page.
type PlaywrightDriver struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page
}

// NewPlaywrightDriver installs (if needed) and launches Chromium, returning
// a driver bound to one fresh page.
func NewPlaywrightDriver(opts Options) (*PlaywrightDriver, error) {
	runOpts := &playwright.RunOptions{
		Verbose: false,
		Stdout:  io.Discard,
		Stderr:  io.Discard,
	}
	if err := playwright.Install(runOpts); err != nil {
		return nil, fmt.Errorf("failed to install playwright: %w", err)
	}

	pw, err := playwright.Run(runOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	args := []string{
		"--force-device-scale-factor=" + scaleFactor,
		"--start-maximized",
	}
	if opts.Headless {
		args = append(args, "--no-sandbox", "--disable-dev-shm-usage")
	} else {
		args = append(args, fmt.Sprintf("--remote-debugging-port=%d", remoteDebugPort))
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
		Args:     args,
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	context, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{Width: viewportWidth, Height: viewportHeight},
	})
	if err != nil {
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create context: %w", err)
	}

	page, err := context.NewPage()
	if err != nil {
		context.Close()
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	page.SetDefaultTimeout(float64(DefaultTimeout.Milliseconds()))

	return &PlaywrightDriver{pw: pw, browser: browser, context: context, page: page}, nil
}

func (d *PlaywrightDriver) Goto(url string) error {
	if _, err := d.page.Goto(url); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	return nil
}

// Click attempts a normal click a bounded number of times, then falls back
// to a scripted click for elements the remote UI keeps behind transient
// overlays.
func (d *PlaywrightDriver) Click(sel string) error {
	var lastErr error
	for attempt := 1; attempt <= clickRetries; attempt++ {
		lastErr = d.page.Click(sel, playwright.PageClickOptions{
			Timeout: playwright.Float(float64(clickTimeout.Milliseconds())),
		})
		if lastErr == nil {
			return nil
		}
		logger.Log.Debugf("Click attempt %d on %s failed: %v", attempt, sel, lastErr)
	}

	if _, err := d.page.Evaluate(`sel => document.querySelector(sel).click()`, sel); err != nil {
		return fmt.Errorf("click failed after %d attempts and scripted fallback on %s: %w", clickRetries, sel, lastErr)
	}
	logger.Log.Debugf("Scripted click fallback used on %s", sel)
	return nil
}

func (d *PlaywrightDriver) SetText(sel, value string) error {
	if err := d.page.Fill(sel, value); err != nil {
		return fmt.Errorf("fill failed on %s: %w", sel, err)
	}
	return nil
}

func (d *PlaywrightDriver) Press(sel, key string) error {
	if err := d.page.Press(sel, key); err != nil {
		return fmt.Errorf("key press %q failed on %s: %w", key, sel, err)
	}
	return nil
}

func (d *PlaywrightDriver) ReadValue(sel string) (string, error) {
	value, err := d.page.InputValue(sel)
	if err != nil {
		return "", fmt.Errorf("value read failed on %s: %w", sel, err)
	}
	return value, nil
}

func (d *PlaywrightDriver) ReadText(sel string) (string, error) {
	text, err := d.page.TextContent(sel)
	if err != nil {
		return "", fmt.Errorf("text read failed on %s: %w", sel, err)
	}
	return text, nil
}

func (d *PlaywrightDriver) IsPresent(sel string) bool {
	handle, err := d.page.QuerySelector(sel)
	return err == nil && handle != nil
}

func (d *PlaywrightDriver) IsChecked(sel string) (bool, error) {
	checked, err := d.page.IsChecked(sel)
	if err != nil {
		return false, fmt.Errorf("checkbox read failed on %s: %w", sel, err)
	}
	return checked, nil
}

func (d *PlaywrightDriver) WaitVisible(sel string, timeout time.Duration) error {
	_, err := d.page.WaitForSelector(sel, playwright.PageWaitForSelectorOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
	if err != nil {
		return fmt.Errorf("element %s not visible within %s: %w", sel, timeout, err)
	}
	return nil
}

func (d *PlaywrightDriver) WaitStale(sel string, timeout time.Duration) error {
	_, err := d.page.WaitForSelector(sel, playwright.PageWaitForSelectorOptions{
		State:   playwright.WaitForSelectorStateDetached,
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
	if err != nil {
		return fmt.Errorf("element %s did not detach within %s: %w", sel, timeout, err)
	}
	return nil
}

func (d *PlaywrightDriver) WaitValue(sel, expected string, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for {
		value, err := d.ReadValue(sel)
		if err == nil && value == expected {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(valuePollEvery)
	}
}

func (d *PlaywrightDriver) Texts(sel string) ([]string, error) {
	handles, err := d.page.QuerySelectorAll(sel)
	if err != nil {
		return nil, fmt.Errorf("query failed on %s: %w", sel, err)
	}
	texts := make([]string, 0, len(handles))
	for _, handle := range handles {
		text, err := handle.TextContent()
		if err != nil {
			continue
		}
		texts = append(texts, text)
	}
	return texts, nil
}

func (d *PlaywrightDriver) GridCells(sel string) ([]Cell, error) {
	handles, err := d.page.QuerySelectorAll(sel)
	if err != nil {
		return nil, fmt.Errorf("grid query failed on %s: %w", sel, err)
	}
	cells := make([]Cell, 0, len(handles))
	for _, handle := range handles {
		text, err := handle.TextContent()
		if err != nil {
			continue
		}
		colID, _ := handle.GetAttribute("col-id")
		cells = append(cells, Cell{Text: text, ColID: colID})
	}
	return cells, nil
}

func (d *PlaywrightDriver) ScrollIntoView(sel string) error {
	handle, err := d.page.QuerySelector(sel)
	if err != nil || handle == nil {
		return fmt.Errorf("element %s not found for scroll", sel)
	}
	if err := handle.ScrollIntoViewIfNeeded(); err != nil {
		return fmt.Errorf("scroll failed on %s: %w", sel, err)
	}
	return nil
}

func (d *PlaywrightDriver) Screenshot(path string) error {
	_, err := d.page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("screenshot failed: %w", err)
	}
	return nil
}

// Close tears down the page, context, browser and the Playwright runtime.
// Errors are ignored so teardown always completes.
func (d *PlaywrightDriver) Close() error {
	if d.page != nil {
		_ = d.page.Close()
	}
	if d.context != nil {
		_ = d.context.Close()
	}
	if d.browser != nil {
		_ = d.browser.Close()
	}
	if d.pw != nil {
		return d.pw.Stop()
	}
	return nil
}
