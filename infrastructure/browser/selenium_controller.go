package browser

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"portal_automation/domain/interfaces"

	"github.com/sirupsen/logrus"
	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"
)

const chromeDriverPort = 9515

type seleniumController struct {
	wd      selenium.WebDriver
	service *selenium.Service
	logger  *logrus.Logger
}

// findChromeDriver - finds ChromeDriver executable path
func findChromeDriver() (string, error) {
	if path := os.Getenv("BROWSER_DRIVER_PATH"); path != "" {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	commonPaths := []string{
		"/usr/local/bin/chromedriver",
		"/usr/bin/chromedriver",
		"/opt/homebrew/bin/chromedriver",
		filepath.Join(os.Getenv("HOME"), "bin", "chromedriver"),
	}

	for _, path := range commonPaths {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	if path, err := exec.LookPath("chromedriver"); err == nil {
		return path, nil
	}

	return "", fmt.Errorf("chromedriver not found. Please install it or set BROWSER_DRIVER_PATH environment variable")
}

// findChromeBinary - finds Chrome/Chromium browser executable path
func findChromeBinary() string {
	if path := os.Getenv("CHROME_BINARY_PATH"); path != "" {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	chromePaths := []string{
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
		"/Applications/Chromium.app/Contents/MacOS/Chromium",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		`C:\Program Files\Google\Chrome\Application\chrome.exe`,
		`C:\Program Files (x86)\Google\Chrome\Application\chrome.exe`,
	}

	for _, path := range chromePaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	if path, err := exec.LookPath("google-chrome"); err == nil {
		return path
	}
	if path, err := exec.LookPath("chromium"); err == nil {
		return path
	}
	if path, err := exec.LookPath("chromium-browser"); err == nil {
		return path
	}

	return ""
}

// NewSeleniumController - creates the alternative chromedriver-based driver
func NewSeleniumController(logger *logrus.Logger, headless bool) (interfaces.Browser, error) {
	driverPath, err := findChromeDriver()
	if err != nil {
		return nil, fmt.Errorf("failed to find chromedriver: %w", err)
	}

	logger.Infof("Using ChromeDriver at: %s", driverPath)

	chromeBinary := findChromeBinary()
	if chromeBinary != "" {
		logger.Infof("Using Chrome binary at: %s", chromeBinary)
	}

	opts := []selenium.ServiceOption{}
	service, err := selenium.NewChromeDriverService(driverPath, chromeDriverPort, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to start chromedriver: %w", err)
	}

	caps := selenium.Capabilities{
		"browserName": "chrome",
	}

	chromeCaps := chrome.Capabilities{
		Args: []string{
			"--disable-blink-features=AutomationControlled",
			"--disable-dev-shm-usage",
			"--no-sandbox",
			"--window-size=1280,720",
		},
	}

	if headless {
		chromeCaps.Args = append(chromeCaps.Args, "--headless=new")
	}

	if chromeBinary != "" {
		chromeCaps.Path = chromeBinary
	}

	caps.AddChrome(chromeCaps)

	wd, err := selenium.NewRemote(caps, fmt.Sprintf("http://localhost:%d/wd/hub", chromeDriverPort))
	if err != nil {
		service.Stop()
		if strings.Contains(err.Error(), "cannot find Chrome binary") {
			return nil, fmt.Errorf("failed to create webdriver: Chrome browser not found. Please install Google Chrome or set CHROME_BINARY_PATH environment variable. Error: %w", err)
		}
		return nil, fmt.Errorf("failed to create webdriver: %w", err)
	}

	return &seleniumController{
		wd:      wd,
		service: service,
		logger:  logger,
	}, nil
}

// Navigate - navigates browser to specified URL
func (s *seleniumController) Navigate(ctx context.Context, url string) error {
	s.logger.Infof("Navigating to: %s", url)

	if err := s.wd.Get(url); err != nil {
		return err
	}

	s.WaitForIdle(ctx, 10*time.Second)
	return nil
}

// Fill - clears an input field and types text into it
func (s *seleniumController) Fill(ctx context.Context, selector string, text string) error {
	s.logger.Infof("Filling field: %s", selector)

	element, err := s.waitForDisplayed(selector, 5*time.Second)
	if err != nil {
		return fmt.Errorf("input field not found: %w", err)
	}

	if err := element.Clear(); err != nil {
		s.logger.Warnf("Failed to clear element: %v", err)
	}

	return element.SendKeys(text)
}

// Click - clicks on element identified by selector
func (s *seleniumController) Click(ctx context.Context, selector string) error {
	s.logger.Infof("Clicking on: %s", selector)

	element, err := s.waitForDisplayed(selector, 5*time.Second)
	if err != nil {
		return fmt.Errorf("element not found: %w", err)
	}

	script := `arguments[0].scrollIntoView({ block: 'center' });`
	if _, err := s.wd.ExecuteScript(script, []interface{}{element}); err != nil {
		s.logger.Warnf("Failed to scroll to element: %v", err)
	}

	time.Sleep(300 * time.Millisecond)
	return element.Click()
}

// Check - checks a checkbox if it is not already checked
func (s *seleniumController) Check(ctx context.Context, selector string) error {
	s.logger.Infof("Checking checkbox: %s", selector)

	element, err := s.waitForDisplayed(selector, 5*time.Second)
	if err != nil {
		return fmt.Errorf("checkbox not found: %w", err)
	}

	selected, err := element.IsSelected()
	if err != nil {
		return err
	}
	if selected {
		return nil
	}

	return element.Click()
}

// WaitForElement - waits until an element is visible or the timeout elapses
func (s *seleniumController) WaitForElement(ctx context.Context, selector string, timeout time.Duration) error {
	if _, err := s.waitForDisplayed(selector, timeout); err != nil {
		return fmt.Errorf("element '%s' not found after %s timeout: %w", selector, timeout, err)
	}
	return nil
}

// IsElementVisible - checks if element is visible on page
func (s *seleniumController) IsElementVisible(ctx context.Context, selector string) (bool, error) {
	element, err := s.wd.FindElement(selenium.ByCSSSelector, selector)
	if err != nil {
		return false, nil
	}

	displayed, err := element.IsDisplayed()
	if err != nil {
		return false, nil
	}
	return displayed, nil
}

// WaitForIdle - waits for document readiness, best effort
func (s *seleniumController) WaitForIdle(ctx context.Context, timeout time.Duration) {
	s.wd.WaitWithTimeout(func(wd selenium.WebDriver) (bool, error) {
		state, err := wd.ExecuteScript("return document.readyState;", nil)
		if err != nil {
			return false, nil
		}
		return state == "complete", nil
	}, timeout)
}

// Screenshot - takes screenshot of current page
func (s *seleniumController) Screenshot(ctx context.Context) ([]byte, error) {
	return s.wd.Screenshot()
}

// CurrentURL - returns current page URL
func (s *seleniumController) CurrentURL(ctx context.Context) (string, error) {
	return s.wd.CurrentURL()
}

// Close - closes browser and stops ChromeDriver service
func (s *seleniumController) Close() error {
	if s.wd != nil {
		s.wd.Quit()
		s.wd = nil
	}
	if s.service != nil {
		s.service.Stop()
		s.service = nil
	}
	return nil
}

// waitForDisplayed - polls until the element exists and is displayed
func (s *seleniumController) waitForDisplayed(selector string, timeout time.Duration) (selenium.WebElement, error) {
	err := s.wd.WaitWithTimeout(func(wd selenium.WebDriver) (bool, error) {
		element, err := wd.FindElement(selenium.ByCSSSelector, selector)
		if err != nil {
			return false, nil
		}
		displayed, err := element.IsDisplayed()
		if err != nil {
			return false, nil
		}
		return displayed, nil
	}, timeout)
	if err != nil {
		return nil, err
	}

	return s.wd.FindElement(selenium.ByCSSSelector, selector)
}

var _ interfaces.Browser = (*seleniumController)(nil)
var _ interfaces.Browser = (*playwrightController)(nil)
