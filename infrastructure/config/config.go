package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"portal_automation/domain/entities"

	"github.com/joho/godotenv"
)

// Backend selects the browser driver implementation.
type Backend string

const (
	BackendPlaywright Backend = "playwright"
	BackendSelenium   Backend = "selenium"
)

const (
	defaultPortalURL     = "https://partner-portal.example.com"
	defaultOrdersPath    = "/orders"
	defaultScreenshotDir = "screenshots"
	defaultStepTimeout   = 20 * time.Second
)

// Config holds everything the run needs, resolved from the environment.
type Config struct {
	PortalURL     string
	OrdersPath    string
	Credentials   entities.Credentials
	Headless      bool
	Backend       Backend
	ScreenshotDir string
	StepTimeout   time.Duration
}

// OrdersURL returns the absolute URL of the pending-orders page.
func (c *Config) OrdersURL() string {
	return strings.TrimRight(c.PortalURL, "/") + c.OrdersPath
}

// Load reads configuration from the environment. A .env file in the
// working directory is loaded first when present, it is optional.
func Load() (*Config, error) {
	// .env file is optional
	_ = godotenv.Load()

	creds := entities.Credentials{
		Login:    os.Getenv("PORTAL_LOGIN"),
		Password: os.Getenv("PORTAL_PASSWORD"),
	}
	if !creds.IsComplete() {
		return nil, fmt.Errorf("PORTAL_LOGIN and PORTAL_PASSWORD environment variables are required")
	}

	cfg := &Config{
		PortalURL:     envOrDefault("PORTAL_URL", defaultPortalURL),
		OrdersPath:    envOrDefault("PORTAL_ORDERS_PATH", defaultOrdersPath),
		Credentials:   creds,
		Headless:      resolveHeadless(),
		Backend:       BackendPlaywright,
		ScreenshotDir: envOrDefault("SCREENSHOT_DIR", defaultScreenshotDir),
		StepTimeout:   defaultStepTimeout,
	}

	if !strings.HasPrefix(cfg.OrdersPath, "/") {
		cfg.OrdersPath = "/" + cfg.OrdersPath
	}

	switch backend := strings.ToLower(os.Getenv("BROWSER_BACKEND")); backend {
	case "", string(BackendPlaywright):
	case string(BackendSelenium):
		cfg.Backend = BackendSelenium
	default:
		return nil, fmt.Errorf("unknown BROWSER_BACKEND: %q (expected playwright or selenium)", backend)
	}

	if raw := os.Getenv("STEP_TIMEOUT_SECONDS"); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil || seconds <= 0 {
			return nil, fmt.Errorf("invalid STEP_TIMEOUT_SECONDS: %q", raw)
		}
		cfg.StepTimeout = time.Duration(seconds) * time.Second
	}

	return cfg, nil
}

// resolveHeadless derives headless mode from the CI flag, with HEADLESS
// as an explicit override in either direction.
func resolveHeadless() bool {
	headless := isTruthy(os.Getenv("CI"))
	if raw := os.Getenv("HEADLESS"); raw != "" {
		headless = isTruthy(raw)
	}
	return headless
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func isTruthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
