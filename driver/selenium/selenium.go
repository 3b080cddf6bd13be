// Package selenium implements driver.Session on top of a Selenium server.
package selenium

import (
	"context"
	"crypto/tls"
	"net/http"
	"strings"
	"time"

	"github.com/gravitational/uitest/driver"
	"github.com/gravitational/uitest/lib/constants"
	"github.com/gravitational/uitest/lib/defaults"
	"github.com/gravitational/uitest/lib/wait"

	"github.com/gravitational/trace"
	log "github.com/sirupsen/logrus"
	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"
)

// Config describes the Selenium session to open
type Config struct {
	// URL is the WebDriver endpoint of the Selenium server
	URL string `json:"url" validate:"required"`
	// Capabilities describes the requested browser
	Capabilities driver.Capabilities `json:"capabilities"`
	// Timeouts bounds element readiness waits
	Timeouts driver.Timeouts `json:"-"`
	// InsecureSkipVerify disables certificate verification of the server endpoint
	InsecureSkipVerify bool `json:"insecureSkipVerify"`
}

// CheckAndSetDefaults validates the configuration and fills in defaults
func (r *Config) CheckAndSetDefaults() error {
	if r.URL == "" {
		return trace.BadParameter("selenium server URL is required")
	}
	r.URL = strings.TrimSuffix(r.URL, "/")
	if r.Capabilities.BrowserName == "" {
		r.Capabilities.BrowserName = defaults.BrowserName
	}
	if r.Timeouts.Timeout == 0 {
		r.Timeouts.Timeout = defaults.WaitTimeout
	}
	if r.Timeouts.Interval == 0 {
		r.Timeouts.Interval = defaults.PollInterval
	}
	return nil
}

// New opens a remote browser session.
// Session creation is retried while the server is coming up
func New(ctx context.Context, config Config) (*Session, error) {
	err := config.CheckAndSetDefaults()
	if err != nil {
		return nil, trace.Wrap(err)
	}

	caps := capabilities(config.Capabilities)
	logger := log.WithFields(log.Fields{
		trace.Component:        "selenium",
		constants.FieldTarget: config.URL,
	})

	// the WebDriver client is package-wide, one session is open per process
	selenium.HTTPClient = httpClient(config.InsecureSkipVerify)

	var remote selenium.WebDriver
	err = wait.Retry(ctx, func() error {
		remote, err = selenium.NewRemote(caps, config.URL)
		if err != nil {
			return wait.Continue("selenium server not ready: %v", err)
		}
		return nil
	})
	if err != nil {
		return nil, trace.ConnectionProblem(err, "failed to open session at %v", config.URL)
	}

	// readiness is polled explicitly, lookups must not block
	if err := remote.SetImplicitWaitTimeout(0); err != nil {
		remote.Quit()
		return nil, trace.Wrap(err)
	}
	logger.Info("session opened")

	return &Session{
		WebDriver:   remote,
		FieldLogger: logger,
		config:      config,
	}, nil
}

func httpClient(insecureSkipVerify bool) *http.Client {
	if !insecureSkipVerify {
		return http.DefaultClient
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	return &http.Client{Transport: transport}
}

func capabilities(c driver.Capabilities) selenium.Capabilities {
	caps := selenium.Capabilities{
		"browserName":         c.BrowserName,
		"acceptInsecureCerts": c.AcceptInsecureCerts,
	}
	caps.AddChrome(chrome.Capabilities{Args: c.Args})
	return caps
}

// Session is a driver.Session backed by a Selenium WebDriver
type Session struct {
	selenium.WebDriver
	log.FieldLogger
	config Config
}

// Find returns a lazy handle to the element matching locator
func (r *Session) Find(ctx context.Context, locator string) (driver.Element, error) {
	return &element{session: r, locator: locator}, nil
}

// FindAll returns handles to all elements currently matching locator
func (r *Session) FindAll(ctx context.Context, locator string) ([]driver.Element, error) {
	found, err := r.FindElements(by(locator), locator)
	if err != nil {
		return nil, trace.Wrap(err)
	}
	elements := make([]driver.Element, 0, len(found))
	for i := range found {
		elements = append(elements, &element{session: r, locator: locator, index: i})
	}
	return elements, nil
}

// WaitUntil polls cond with the WebDriver wait loop.
// Condition errors count as not met
func (r *Session) WaitUntil(ctx context.Context, cond driver.Condition, timeout time.Duration, message func() string) error {
	var last error
	err := r.WaitWithTimeoutAndInterval(func(selenium.WebDriver) (bool, error) {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		ok, err := cond(ctx)
		if err != nil {
			last = err
			return false, nil
		}
		return ok, nil
	}, timeout, r.config.Timeouts.Interval)
	if err == nil {
		return nil
	}
	if last == nil {
		last = err
	}
	msg := err.Error()
	if message != nil {
		msg = message()
	}
	return &driver.TimeoutError{Message: msg, Last: last}
}

// Pause sleeps for d
func (r *Session) Pause(ctx context.Context, d time.Duration) error {
	return wait.Sleep(ctx, d)
}

// Navigate opens the URL
func (r *Session) Navigate(ctx context.Context, url string) error {
	return trace.Wrap(r.Get(url))
}

// URL returns the URL of the current page
func (r *Session) URL(ctx context.Context) (string, error) {
	url, err := r.CurrentURL()
	return url, trace.Wrap(err)
}

// Close ends the session
func (r *Session) Close() error {
	r.Info("closing session")
	return trace.Wrap(r.Quit())
}

func (r *Session) poll(ctx context.Context, cond driver.Condition, message func() string) error {
	return driver.Poll(ctx, cond, r.config.Timeouts, message)
}

func by(locator string) string {
	if driver.IsXPath(locator) {
		return selenium.ByXPATH
	}
	return selenium.ByCSSSelector
}
