// Package cdp implements driver.Session in-process over the Chrome DevTools Protocol.
package cdp

import (
	"context"
	"strings"
	"time"

	"github.com/gravitational/uitest/driver"
	"github.com/gravitational/uitest/lib/defaults"
	"github.com/gravitational/uitest/lib/wait"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
	"github.com/gravitational/trace"
	log "github.com/sirupsen/logrus"
)

// Config describes the browser to launch
type Config struct {
	// ExecPath overrides the browser binary lookup
	ExecPath string
	// Capabilities describes the requested browser
	Capabilities driver.Capabilities
	// Timeouts bounds element readiness waits and every protocol round trip
	Timeouts driver.Timeouts
}

// CheckAndSetDefaults fills in defaults
func (r *Config) CheckAndSetDefaults() error {
	if r.Capabilities.BrowserName == "" {
		r.Capabilities.BrowserName = defaults.BrowserName
	}
	if r.Capabilities.BrowserName != defaults.BrowserName {
		return trace.BadParameter("only %v can be driven over devtools, got %q",
			defaults.BrowserName, r.Capabilities.BrowserName)
	}
	if r.Timeouts.Timeout == 0 {
		r.Timeouts.Timeout = defaults.WaitTimeout
	}
	if r.Timeouts.Interval == 0 {
		r.Timeouts.Interval = defaults.PollInterval
	}
	return nil
}

// New launches the browser and opens a tab
func New(ctx context.Context, config Config) (*Session, error) {
	if err := config.CheckAndSetDefaults(); err != nil {
		return nil, trace.Wrap(err)
	}

	logger := log.WithField(trace.Component, "cdp")
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), allocatorOptions(config)...)
	tab, cancelTab := chromedp.NewContext(allocCtx, chromedp.WithLogf(logger.Debugf))

	s := &Session{
		FieldLogger: logger,
		tab:         tab,
		config:      config,
		cancel: func() {
			cancelTab()
			cancelAlloc()
		},
	}
	// the first run launches the browser
	if err := s.run(ctx, defaults.ConnectTimeout); err != nil {
		s.cancel()
		return nil, trace.ConnectionProblem(err, "failed to launch browser")
	}
	logger.Info("session opened")
	return s, nil
}

func allocatorOptions(config Config) []chromedp.ExecAllocatorOption {
	opts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
	}
	if config.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(config.ExecPath))
	}
	if config.Capabilities.Headless {
		opts = append(opts, chromedp.Headless)
	}
	if config.Capabilities.AcceptInsecureCerts {
		opts = append(opts, chromedp.IgnoreCertErrors)
	}
	for _, arg := range config.Capabilities.Args {
		name, value := parseFlag(arg)
		if name == "" {
			continue
		}
		opts = append(opts, chromedp.Flag(name, value))
	}
	return opts
}

// parseFlag splits a browser switch of the form --name or --name=value
func parseFlag(arg string) (name string, value interface{}) {
	arg = strings.TrimLeft(arg, "-")
	if i := strings.IndexByte(arg, '='); i >= 0 {
		return arg[:i], arg[i+1:]
	}
	return arg, true
}

// Session is a driver.Session over a single browser tab
type Session struct {
	log.FieldLogger
	tab    context.Context
	cancel context.CancelFunc
	config Config
}

// run executes actions in the tab bounded by timeout and by ctx
func (r *Session) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	cctx, cancel := context.WithTimeout(r.tab, timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()
	return chromedp.Run(cctx, actions...)
}

// nodes returns the nodes currently matching locator without waiting
func (r *Session) nodes(ctx context.Context, locator string) (nodes []*cdp.Node, err error) {
	err = r.run(ctx, r.config.Timeouts.Timeout,
		chromedp.Nodes(locator, &nodes, chromedp.BySearch, chromedp.AtLeast(0)))
	if err != nil {
		return nil, trace.Wrap(err)
	}
	return nodes, nil
}

// Find returns a lazy handle to the element matching locator
func (r *Session) Find(ctx context.Context, locator string) (driver.Element, error) {
	return &element{session: r, locator: locator}, nil
}

// FindAll returns handles to all elements currently matching locator
func (r *Session) FindAll(ctx context.Context, locator string) ([]driver.Element, error) {
	nodes, err := r.nodes(ctx, locator)
	if err != nil {
		return nil, trace.Wrap(err)
	}
	elements := make([]driver.Element, 0, len(nodes))
	for i := range nodes {
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

// Navigate opens the URL and waits for the load event
func (r *Session) Navigate(ctx context.Context, url string) error {
	return trace.Wrap(r.run(ctx, defaults.ConnectTimeout, chromedp.Navigate(url)))
}

// URL returns the URL of the current page
func (r *Session) URL(ctx context.Context) (url string, err error) {
	err = r.run(ctx, r.config.Timeouts.Timeout, chromedp.Location(&url))
	return url, trace.Wrap(err)
}

// Close closes the tab and terminates the browser
func (r *Session) Close() error {
	r.Info("closing session")
	err := chromedp.Cancel(r.tab)
	r.cancel()
	return trace.Wrap(err)
}
