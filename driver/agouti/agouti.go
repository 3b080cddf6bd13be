// Package agouti implements driver.Session on a locally spawned chromedriver.
package agouti

import (
	"context"
	"time"

	"github.com/gravitational/uitest/driver"
	"github.com/gravitational/uitest/lib/defaults"
	"github.com/gravitational/uitest/lib/wait"

	"github.com/gravitational/trace"
	log "github.com/sirupsen/logrus"
	web "github.com/sclevine/agouti"
)

// Config describes the chromedriver session to open
type Config struct {
	// Capabilities describes the requested browser
	Capabilities driver.Capabilities
	// Timeouts bounds element readiness waits
	Timeouts driver.Timeouts
	// StartTimeout bounds how long chromedriver may take to start
	StartTimeout time.Duration
}

// CheckAndSetDefaults fills in defaults
func (r *Config) CheckAndSetDefaults() error {
	if r.Capabilities.BrowserName == "" {
		r.Capabilities.BrowserName = defaults.BrowserName
	}
	if r.Timeouts.Timeout == 0 {
		r.Timeouts.Timeout = defaults.WaitTimeout
	}
	if r.Timeouts.Interval == 0 {
		r.Timeouts.Interval = defaults.PollInterval
	}
	if r.StartTimeout == 0 {
		r.StartTimeout = defaults.ConnectTimeout
	}
	if r.StartTimeout < time.Second {
		return trace.BadParameter("start timeout must be at least a second, got %v", r.StartTimeout)
	}
	return nil
}

// New starts chromedriver and opens a page
func New(ctx context.Context, config Config) (*Session, error) {
	if err := config.CheckAndSetDefaults(); err != nil {
		return nil, trace.Wrap(err)
	}

	wd := web.ChromeDriver(options(config)...)
	if err := wd.Start(); err != nil {
		return nil, trace.ConnectionProblem(err, "failed to start chromedriver")
	}

	page, err := wd.NewPage()
	if err != nil {
		wd.Stop()
		return nil, trace.Wrap(err)
	}

	logger := log.WithField(trace.Component, "agouti")
	logger.Info("session opened")
	return &Session{
		FieldLogger: logger,
		wd:          wd,
		page:        page,
		config:      config,
	}, nil
}

func options(config Config) []web.Option {
	caps := web.NewCapabilities().Browser(config.Capabilities.BrowserName)
	if config.Capabilities.AcceptInsecureCerts {
		caps = caps.With("acceptInsecureCerts")
	}
	return []web.Option{
		web.Desired(caps),
		web.ChromeOptions("args", config.Capabilities.Args),
		web.Timeout(int(config.StartTimeout / time.Second)),
	}
}

// Session is a driver.Session backed by an agouti page
type Session struct {
	log.FieldLogger
	wd     *web.WebDriver
	page   *web.Page
	config Config
}

// Find returns a lazy handle to the element matching locator
func (r *Session) Find(ctx context.Context, locator string) (driver.Element, error) {
	return &element{session: r, locator: locator}, nil
}

// FindAll returns handles to all elements currently matching locator
func (r *Session) FindAll(ctx context.Context, locator string) ([]driver.Element, error) {
	count, err := r.all(locator).Count()
	if err != nil {
		return nil, trace.Wrap(err)
	}
	elements := make([]driver.Element, 0, count)
	for i := 0; i < count; i++ {
		elements = append(elements, &element{session: r, locator: locator, index: i})
	}
	return elements, nil
}

// WaitUntil polls cond every configured interval
func (r *Session) WaitUntil(ctx context.Context, cond driver.Condition, timeout time.Duration, message func() string) error {
	return driver.Poll(ctx, cond, driver.Timeouts{Timeout: timeout, Interval: r.config.Timeouts.Interval}, message)
}

// Pause sleeps for d
func (r *Session) Pause(ctx context.Context, d time.Duration) error {
	return wait.Sleep(ctx, d)
}

// Navigate opens the URL
func (r *Session) Navigate(ctx context.Context, url string) error {
	return trace.Wrap(r.page.Navigate(url))
}

// URL returns the URL of the current page
func (r *Session) URL(ctx context.Context) (string, error) {
	url, err := r.page.URL()
	return url, trace.Wrap(err)
}

// Close destroys the page and stops chromedriver
func (r *Session) Close() error {
	r.Info("closing session")
	var errors []error
	if err := r.page.Destroy(); err != nil {
		errors = append(errors, err)
	}
	if err := r.wd.Stop(); err != nil {
		errors = append(errors, err)
	}
	return trace.NewAggregate(errors...)
}

func (r *Session) all(locator string) *web.MultiSelection {
	if driver.IsXPath(locator) {
		return r.page.AllByXPath(locator)
	}
	return r.page.All(locator)
}
