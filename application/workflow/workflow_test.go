package workflow

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"portal_automation/domain/entities"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBrowser records every call so tests can assert the exact action
// sequence without a real browser.
type fakeBrowser struct {
	calls      []string
	visible    map[string]bool
	waitErrors map[string]error
	clickErr   map[string]error
}

func newFakeBrowser() *fakeBrowser {
	return &fakeBrowser{
		visible:    map[string]bool{},
		waitErrors: map[string]error{},
		clickErr:   map[string]error{},
	}
}

func (f *fakeBrowser) Navigate(ctx context.Context, url string) error {
	f.calls = append(f.calls, "navigate:"+url)
	return nil
}

func (f *fakeBrowser) Fill(ctx context.Context, selector, text string) error {
	f.calls = append(f.calls, "fill:"+selector)
	return nil
}

func (f *fakeBrowser) Click(ctx context.Context, selector string) error {
	f.calls = append(f.calls, "click:"+selector)
	return f.clickErr[selector]
}

func (f *fakeBrowser) Check(ctx context.Context, selector string) error {
	f.calls = append(f.calls, "check:"+selector)
	return nil
}

func (f *fakeBrowser) WaitForElement(ctx context.Context, selector string, timeout time.Duration) error {
	f.calls = append(f.calls, "wait:"+selector)
	return f.waitErrors[selector]
}

func (f *fakeBrowser) IsElementVisible(ctx context.Context, selector string) (bool, error) {
	return f.visible[selector], nil
}

func (f *fakeBrowser) WaitForIdle(ctx context.Context, timeout time.Duration) {}

func (f *fakeBrowser) Screenshot(ctx context.Context) ([]byte, error) {
	f.calls = append(f.calls, "screenshot")
	return []byte("png"), nil
}

func (f *fakeBrowser) CurrentURL(ctx context.Context) (string, error) {
	return "about:blank", nil
}

func (f *fakeBrowser) Close() error { return nil }

// fakeStore captures what the workflow persists.
type fakeStore struct {
	screenshots []entities.Checkpoint
	reports     []*entities.RunReport
}

func (f *fakeStore) SaveScreenshot(checkpoint entities.Checkpoint, data []byte) (string, error) {
	f.screenshots = append(f.screenshots, checkpoint)
	return string(checkpoint) + ".png", nil
}

func (f *fakeStore) SaveReport(report *entities.RunReport) error {
	f.reports = append(f.reports, report)
	return nil
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testOptions() Options {
	return Options{
		PortalURL:   "https://portal.test",
		OrdersURL:   "https://portal.test/orders",
		Credentials: entities.Credentials{Login: "supplier", Password: "secret"},
		StepTimeout: time.Second,
	}
}

func stepByName(t *testing.T, report *entities.RunReport, name string) entities.StepResult {
	t.Helper()
	for _, step := range report.Steps {
		if step.Name == name {
			return step
		}
	}
	t.Fatalf("step %q not found in report", name)
	return entities.StepResult{}
}

func TestWorkflow_Run_HappyPath(t *testing.T) {
	browser := newFakeBrowser()
	store := &fakeStore{}
	wf := NewWorkflow(browser, store, testLogger(), testOptions())

	err := wf.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"navigate:https://portal.test",
		"screenshot",
		"fill:" + loginInputSelector,
		"fill:" + passwordInputSelector,
		"click:" + loginSubmitSelector,
		"wait:" + accountMenuSelector,
		"screenshot",
		"navigate:https://portal.test/orders",
		"wait:" + selectAllSelector,
		"check:" + selectAllSelector,
		"click:" + acceptSelectedButton,
		"wait:" + confirmModalSelector,
		"click:" + confirmButtonSelector,
		"screenshot",
	}, browser.calls)

	assert.Equal(t, []entities.Checkpoint{
		entities.CheckpointLoginPage,
		entities.CheckpointAfterLogin,
		entities.CheckpointAfterAccept,
	}, store.screenshots)

	require.Len(t, store.reports, 1)
	report := store.reports[0]
	assert.Equal(t, entities.RunStatusCompleted, report.Status)
	assert.Len(t, report.Screenshots, 3)

	// No popup on screen means the dismiss step is skipped, not failed
	assert.Equal(t, entities.StepStatusSkipped, stepByName(t, report, "dismiss_interstitial").Status)
}

func TestWorkflow_Run_InterstitialFallbackPriority(t *testing.T) {
	tests := []struct {
		name    string
		visible []string
		clicked string
	}{
		{
			name:    "primary selector wins",
			visible: interstitialCloseSelectors,
			clicked: interstitialCloseSelectors[0],
		},
		{
			name:    "second pattern used when first absent",
			visible: interstitialCloseSelectors[1:],
			clicked: interstitialCloseSelectors[1],
		},
		{
			name:    "last pattern as final fallback",
			visible: interstitialCloseSelectors[2:],
			clicked: interstitialCloseSelectors[2],
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			browser := newFakeBrowser()
			for _, selector := range tt.visible {
				browser.visible[selector] = true
			}
			store := &fakeStore{}
			wf := NewWorkflow(browser, store, testLogger(), testOptions())

			err := wf.Run(context.Background())
			require.NoError(t, err)

			assert.Contains(t, browser.calls, "click:"+tt.clicked)
			for _, selector := range interstitialCloseSelectors {
				if selector != tt.clicked {
					assert.NotContains(t, browser.calls, "click:"+selector)
				}
			}

			report := store.reports[0]
			assert.Equal(t, entities.StepStatusOK, stepByName(t, report, "dismiss_interstitial").Status)
		})
	}
}

func TestWorkflow_Run_LoginFailure(t *testing.T) {
	browser := newFakeBrowser()
	browser.waitErrors[accountMenuSelector] = fmt.Errorf("element '%s' not found after 1s timeout", accountMenuSelector)
	store := &fakeStore{}
	wf := NewWorkflow(browser, store, testLogger(), testOptions())

	err := wf.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "wait_post_login")
	assert.Contains(t, err.Error(), "login did not complete")

	// Report is still written on failure
	require.Len(t, store.reports, 1)
	report := store.reports[0]
	assert.Equal(t, entities.RunStatusFailed, report.Status)
	assert.Equal(t, entities.StepStatusFailed, stepByName(t, report, "wait_post_login").Status)

	// The run stops at the failing step
	assert.NotContains(t, browser.calls, "navigate:https://portal.test/orders")
}

func TestWorkflow_Run_SelectAllFallback(t *testing.T) {
	browser := newFakeBrowser()
	browser.waitErrors[selectAllSelector] = fmt.Errorf("element not found")
	store := &fakeStore{}
	wf := NewWorkflow(browser, store, testLogger(), testOptions())

	err := wf.Run(context.Background())
	require.NoError(t, err)

	assert.Contains(t, browser.calls, "check:"+selectAllFallback)
	assert.NotContains(t, browser.calls, "check:"+selectAllSelector)
}

func TestWorkflow_Run_ConfirmModalMissing(t *testing.T) {
	browser := newFakeBrowser()
	browser.waitErrors[confirmModalSelector] = fmt.Errorf("element not found")
	store := &fakeStore{}
	wf := NewWorkflow(browser, store, testLogger(), testOptions())

	err := wf.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "confirmation modal did not appear")

	report := store.reports[0]
	assert.Equal(t, entities.RunStatusFailed, report.Status)
	// The final checkpoint is never reached
	assert.NotContains(t, store.screenshots, entities.CheckpointAfterAccept)
}

func TestWorkflow_Run_Canceled(t *testing.T) {
	browser := newFakeBrowser()
	store := &fakeStore{}
	wf := NewWorkflow(browser, store, testLogger(), testOptions())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := wf.Run(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run canceled")
	assert.Empty(t, browser.calls)
}
