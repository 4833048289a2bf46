package interfaces

import (
	"context"
	"time"

	"portal_automation/domain/entities"
)

// Browser defines the interface for driving the portal UI. Both the
// Playwright and the Selenium backends implement it.
type Browser interface {
	// Navigate navigates to a URL and waits for the page to settle
	Navigate(ctx context.Context, url string) error

	// Fill clears an input field and types text into it
	Fill(ctx context.Context, selector string, text string) error

	// Click clicks on an element by selector, waiting for it first
	Click(ctx context.Context, selector string) error

	// Check checks a checkbox if it is not already checked
	Check(ctx context.Context, selector string) error

	// WaitForElement waits until an element is visible or the timeout elapses
	WaitForElement(ctx context.Context, selector string, timeout time.Duration) error

	// IsElementVisible checks if an element is currently visible
	IsElementVisible(ctx context.Context, selector string) (bool, error)

	// WaitForIdle waits for network activity to settle, best effort.
	// Timeouts here are tolerated and never reported as errors.
	WaitForIdle(ctx context.Context, timeout time.Duration)

	// Screenshot captures the current page as PNG bytes
	Screenshot(ctx context.Context) ([]byte, error)

	// CurrentURL returns the current page URL
	CurrentURL(ctx context.Context) (string, error)

	// Close releases the browser and driver resources
	Close() error
}

// ReportStore persists the diagnostic output of a run: checkpoint
// screenshots and the run report.
type ReportStore interface {
	// SaveScreenshot writes checkpoint image data and returns the file path
	SaveScreenshot(checkpoint entities.Checkpoint, data []byte) (string, error)

	// SaveReport writes the run report
	SaveReport(report *entities.RunReport) error
}
