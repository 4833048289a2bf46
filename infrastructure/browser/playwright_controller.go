package browser

import (
	"context"
	"fmt"
	"strings"
	"time"

	"portal_automation/domain/interfaces"

	"github.com/playwright-community/playwright-go"
	"github.com/sirupsen/logrus"
)

type playwrightController struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page
	logger  *logrus.Logger
}

// NewPlaywrightController - creates the default browser driver
func NewPlaywrightController(logger *logrus.Logger, headless bool) (interfaces.Browser, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(headless),
		Args: []string{
			"--disable-blink-features=AutomationControlled",
			"--disable-dev-shm-usage",
			"--no-sandbox",
			"--disable-notifications",
		},
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browserContext, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  1280,
			Height: 720,
		},
	})
	if err != nil {
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create context: %w", err)
	}

	page, err := browserContext.NewPage()
	if err != nil {
		browserContext.Close()
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	page.OnDialog(func(dialog playwright.Dialog) {
		dialog.Accept()
	})

	return &playwrightController{
		pw:      pw,
		browser: browser,
		context: browserContext,
		page:    page,
		logger:  logger,
	}, nil
}

// Navigate - navigates to the specified URL
func (b *playwrightController) Navigate(ctx context.Context, url string) error {
	b.logger.Infof("Navigating to: %s", url)

	_, err := b.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
		Timeout:   playwright.Float(30000),
	})
	return err
}

// Fill - types text into an input field
func (b *playwrightController) Fill(ctx context.Context, selector string, text string) error {
	b.logger.Infof("Filling field: %s", selector)

	locator := b.page.Locator(selector)

	err := locator.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(5000),
	})
	if err != nil {
		return fmt.Errorf("input field not found: %w", err)
	}

	locator.Clear()
	if err := locator.Fill(text); err != nil {
		return err
	}

	time.Sleep(200 * time.Millisecond)

	return nil
}

// Click - clicks on an element by CSS selector
func (b *playwrightController) Click(ctx context.Context, selector string) error {
	b.logger.Infof("Clicking on: %s", selector)

	locator := b.page.Locator(selector)

	err := locator.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(5000),
	})
	if err != nil {
		return fmt.Errorf("element not found or not visible: %w", err)
	}

	if err := locator.Click(); err != nil {
		return err
	}

	b.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateNetworkidle,
		Timeout: playwright.Float(5000),
	})

	time.Sleep(300 * time.Millisecond)

	return nil
}

// Check - checks a checkbox if it is not already checked
func (b *playwrightController) Check(ctx context.Context, selector string) error {
	b.logger.Infof("Checking checkbox: %s", selector)

	locator := b.page.Locator(selector)

	err := locator.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(5000),
	})
	if err != nil {
		return fmt.Errorf("checkbox not found: %w", err)
	}

	if err := locator.Check(); err != nil {
		return err
	}

	time.Sleep(200 * time.Millisecond)

	return nil
}

// WaitForElement - waits for an element to become visible
func (b *playwrightController) WaitForElement(ctx context.Context, selector string, timeout time.Duration) error {
	locator := b.page.Locator(selector)
	err := locator.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
	if err != nil {
		return fmt.Errorf("element '%s' not found after %s timeout: %w", selector, timeout, err)
	}
	return nil
}

// IsElementVisible - checks if an element is visible on the page
func (b *playwrightController) IsElementVisible(ctx context.Context, selector string) (bool, error) {
	visible, err := b.page.Locator(selector).First().IsVisible()
	if err != nil {
		return false, nil
	}
	return visible, nil
}

// WaitForIdle - waits for network activity to settle, best effort
func (b *playwrightController) WaitForIdle(ctx context.Context, timeout time.Duration) {
	b.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateNetworkidle,
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
}

// Screenshot - captures the current page as PNG
func (b *playwrightController) Screenshot(ctx context.Context) ([]byte, error) {
	return b.page.Screenshot(playwright.PageScreenshotOptions{
		Type: playwright.ScreenshotTypePng,
	})
}

// CurrentURL - returns the current page URL
func (b *playwrightController) CurrentURL(ctx context.Context) (string, error) {
	return b.page.URL(), nil
}

// Close - closes the browser and stops the playwright driver
func (b *playwrightController) Close() error {
	var closeErr error

	if b.context != nil {
		if err := b.context.Close(); err != nil && !isAlreadyClosed(err) {
			closeErr = fmt.Errorf("failed to close context: %w", err)
		}
		b.context = nil
	}

	if b.browser != nil {
		if err := b.browser.Close(); err != nil && !isAlreadyClosed(err) {
			if closeErr != nil {
				closeErr = fmt.Errorf("%v; failed to close browser: %w", closeErr, err)
			} else {
				closeErr = fmt.Errorf("failed to close browser: %w", err)
			}
		}
		b.browser = nil
	}

	if b.pw != nil {
		if err := b.pw.Stop(); err != nil && closeErr == nil {
			closeErr = fmt.Errorf("failed to stop playwright: %w", err)
		}
		b.pw = nil
	}

	return closeErr
}

// isAlreadyClosed - detects errors caused by an already closed target
func isAlreadyClosed(err error) bool {
	errStr := err.Error()
	return strings.Contains(errStr, "closed") || strings.Contains(errStr, "target closed")
}
