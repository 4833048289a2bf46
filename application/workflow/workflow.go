package workflow

import (
	"context"
	"fmt"
	"time"

	"portal_automation/domain/entities"
	"portal_automation/domain/interfaces"

	"github.com/sirupsen/logrus"
)

// Selectors of the portal UI. The interstitial announcement dialog has
// shipped with several different markups over time, so its close button
// is resolved through a fallback list tried in priority order.
const (
	loginInputSelector    = `input[name="login"]`
	passwordInputSelector = `input[name="password"]`
	loginSubmitSelector   = `form button[type="submit"]`
	accountMenuSelector   = `.account-menu`
	selectAllSelector     = `input[data-role="select-all"]`
	selectAllFallback     = `thead input[type="checkbox"]`
	acceptSelectedButton  = `button.accept-selected`
	confirmModalSelector  = `.modal-confirm`
	confirmButtonSelector = `.modal-confirm button.btn-primary`
)

var interstitialCloseSelectors = []string{
	`.announcement-modal button[data-dismiss="modal"]`,
	`.popup-overlay .popup-close`,
	`.modal.show .btn-close`,
}

// Options configures a workflow run.
type Options struct {
	PortalURL   string
	OrdersURL   string
	Credentials entities.Credentials
	StepTimeout time.Duration
}

// Workflow drives the fixed order-accept sequence against the portal.
type Workflow struct {
	browser interfaces.Browser
	store   interfaces.ReportStore
	logger  *logrus.Logger
	opts    Options
	report  *entities.RunReport
}

// NewWorkflow - creates a workflow bound to a browser driver and a
// report store
func NewWorkflow(browser interfaces.Browser, store interfaces.ReportStore, logger *logrus.Logger, opts Options) *Workflow {
	if opts.StepTimeout <= 0 {
		opts.StepTimeout = 20 * time.Second
	}
	return &Workflow{
		browser: browser,
		store:   store,
		logger:  logger,
		opts:    opts,
	}
}

// Run executes the whole sequence: login, open the orders page, dismiss
// the optional interstitial, select all pending orders and confirm the
// bulk accept. The run report is saved regardless of the outcome.
func (w *Workflow) Run(ctx context.Context) error {
	w.report = &entities.RunReport{
		PortalURL: w.opts.PortalURL,
		Status:    entities.RunStatusInProgress,
		StartedAt: time.Now(),
	}

	err := w.run(ctx)

	w.report.FinishedAt = time.Now()
	if err != nil {
		w.report.Status = entities.RunStatusFailed
	} else {
		w.report.Status = entities.RunStatusCompleted
	}

	if saveErr := w.store.SaveReport(w.report); saveErr != nil {
		w.logger.Warnf("Failed to save run report: %v", saveErr)
	}

	return err
}

// Report returns the report of the last run.
func (w *Workflow) Report() *entities.RunReport {
	return w.report
}

func (w *Workflow) run(ctx context.Context) error {
	if err := w.step(ctx, "open_login_page", func(ctx context.Context) error {
		return w.browser.Navigate(ctx, w.opts.PortalURL)
	}); err != nil {
		return err
	}

	if err := w.step(ctx, "screenshot_login_page", func(ctx context.Context) error {
		return w.captureCheckpoint(ctx, entities.CheckpointLoginPage)
	}); err != nil {
		return err
	}

	if err := w.step(ctx, "submit_credentials", func(ctx context.Context) error {
		if err := w.browser.Fill(ctx, loginInputSelector, w.opts.Credentials.Login); err != nil {
			return err
		}
		if err := w.browser.Fill(ctx, passwordInputSelector, w.opts.Credentials.Password); err != nil {
			return err
		}
		return w.browser.Click(ctx, loginSubmitSelector)
	}); err != nil {
		return err
	}

	if err := w.step(ctx, "wait_post_login", func(ctx context.Context) error {
		if err := w.browser.WaitForElement(ctx, accountMenuSelector, w.opts.StepTimeout); err != nil {
			return fmt.Errorf("login did not complete: %w", err)
		}
		w.browser.WaitForIdle(ctx, 5*time.Second)
		return nil
	}); err != nil {
		return err
	}

	if err := w.step(ctx, "screenshot_after_login", func(ctx context.Context) error {
		return w.captureCheckpoint(ctx, entities.CheckpointAfterLogin)
	}); err != nil {
		return err
	}

	if err := w.step(ctx, "open_orders_page", func(ctx context.Context) error {
		return w.browser.Navigate(ctx, w.opts.OrdersURL)
	}); err != nil {
		return err
	}

	// The announcement popup only shows up occasionally, its absence is
	// recorded as a skipped step.
	w.dismissInterstitial(ctx)

	if err := w.step(ctx, "select_all_orders", func(ctx context.Context) error {
		if err := w.browser.WaitForElement(ctx, selectAllSelector, w.opts.StepTimeout); err == nil {
			return w.browser.Check(ctx, selectAllSelector)
		}
		w.logger.Infof("Primary select-all selector not found, trying fallback: %s", selectAllFallback)
		return w.browser.Check(ctx, selectAllFallback)
	}); err != nil {
		return err
	}

	if err := w.step(ctx, "confirm_accept", func(ctx context.Context) error {
		if err := w.browser.Click(ctx, acceptSelectedButton); err != nil {
			return err
		}
		if err := w.browser.WaitForElement(ctx, confirmModalSelector, w.opts.StepTimeout); err != nil {
			return fmt.Errorf("confirmation modal did not appear: %w", err)
		}
		if err := w.browser.Click(ctx, confirmButtonSelector); err != nil {
			return err
		}
		w.browser.WaitForIdle(ctx, 10*time.Second)
		return nil
	}); err != nil {
		return err
	}

	if err := w.step(ctx, "screenshot_after_accept", func(ctx context.Context) error {
		return w.captureCheckpoint(ctx, entities.CheckpointAfterAccept)
	}); err != nil {
		return err
	}

	return nil
}

// dismissInterstitial tries the known close-button selectors in priority
// order. The first visible one is clicked; when none matches the step is
// skipped.
func (w *Workflow) dismissInterstitial(ctx context.Context) {
	result := entities.StepResult{
		Name:      "dismiss_interstitial",
		StartedAt: time.Now(),
	}

	dismissed := false
	for _, selector := range interstitialCloseSelectors {
		visible, _ := w.browser.IsElementVisible(ctx, selector)
		if !visible {
			continue
		}
		if err := w.browser.Click(ctx, selector); err != nil {
			w.logger.Warnf("Failed to dismiss interstitial via %s: %v", selector, err)
			continue
		}
		w.logger.Infof("Dismissed interstitial dialog via: %s", selector)
		dismissed = true
		break
	}

	if dismissed {
		result.Status = entities.StepStatusOK
	} else {
		w.logger.Info("No interstitial dialog found, continuing")
		result.Status = entities.StepStatusSkipped
	}

	result.Duration = time.Since(result.StartedAt).String()
	w.report.AddStep(result)
}

// step executes a single step, records its result and stops the run on
// failure or cancellation.
func (w *Workflow) step(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("run canceled: %w", ctx.Err())
	default:
	}

	w.logger.Infof("Step: %s", name)

	result := entities.StepResult{
		Name:      name,
		StartedAt: time.Now(),
	}

	err := fn(ctx)

	result.Duration = time.Since(result.StartedAt).String()
	if err != nil {
		result.Status = entities.StepStatusFailed
		result.Error = err.Error()
		w.report.AddStep(result)
		w.logger.Errorf("Step %s failed: %v", name, err)
		return fmt.Errorf("step %s: %w", name, err)
	}

	result.Status = entities.StepStatusOK
	w.report.AddStep(result)
	return nil
}

// captureCheckpoint takes a screenshot and stores it under the
// checkpoint's file name.
func (w *Workflow) captureCheckpoint(ctx context.Context, checkpoint entities.Checkpoint) error {
	data, err := w.browser.Screenshot(ctx)
	if err != nil {
		return fmt.Errorf("failed to capture %s screenshot: %w", checkpoint, err)
	}

	path, err := w.store.SaveScreenshot(checkpoint, data)
	if err != nil {
		return err
	}

	w.logger.Infof("Saved screenshot: %s", path)
	w.report.AddScreenshot(path)
	return nil
}
