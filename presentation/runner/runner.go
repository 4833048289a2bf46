package runner

import (
	"context"
	"fmt"

	"portal_automation/application/workflow"
	"portal_automation/domain/interfaces"
	"portal_automation/infrastructure/browser"
	"portal_automation/infrastructure/config"
	"portal_automation/infrastructure/storage"

	"github.com/sirupsen/logrus"
)

// Runner wires configuration, logging, the browser driver and the
// workflow together for a single run.
type Runner struct {
	workflow    *workflow.Workflow
	browserCtrl interfaces.Browser
	logger      *logrus.Logger
}

func NewRunner() (*Runner, error) {
	// Setup logger
	logger := logrus.New()
	logger.SetLevel(logrus.InfoLevel)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	// Load configuration (.env is optional)
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if cfg.Headless {
		logger.Info("Running in headless mode")
	}

	// Initialize browser driver
	var browserCtrl interfaces.Browser
	switch cfg.Backend {
	case config.BackendSelenium:
		browserCtrl, err = browser.NewSeleniumController(logger, cfg.Headless)
	default:
		browserCtrl, err = browser.NewPlaywrightController(logger, cfg.Headless)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize browser: %w", err)
	}

	// Initialize report store
	store, err := storage.NewReportStore(cfg.ScreenshotDir)
	if err != nil {
		browserCtrl.Close()
		return nil, fmt.Errorf("failed to initialize report store: %w", err)
	}

	wf := workflow.NewWorkflow(browserCtrl, store, logger, workflow.Options{
		PortalURL:   cfg.PortalURL,
		OrdersURL:   cfg.OrdersURL(),
		Credentials: cfg.Credentials,
		StepTimeout: cfg.StepTimeout,
	})

	return &Runner{
		workflow:    wf,
		browserCtrl: browserCtrl,
		logger:      logger,
	}, nil
}

// Run executes the order-accept workflow once.
func (r *Runner) Run() error {
	defer r.browserCtrl.Close()

	ctx := context.Background()
	if err := r.workflow.Run(ctx); err != nil {
		return err
	}

	r.logger.Info("All pending orders accepted")
	return nil
}

func (r *Runner) Close() error {
	return r.browserCtrl.Close()
}
