// Package page implements resilient browser interactions shared by all page objects.
//
// Every operation wraps a single driver primitive (or a short fixed sequence of
// them) with a bounded retry budget and records one report step per attempt:
// passed on success, skipped for an attempt that is retried and failed once the
// budget is exhausted. Actions (click, move-and-click, send-keys) bracket their
// attempt with StartStep/EndStep, reads and waits record a single step carrying
// the value read.
package page

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gravitational/uitest/driver"
	"github.com/gravitational/uitest/e2e/uimodel/defaults"
	"github.com/gravitational/uitest/lib/constants"
	"github.com/gravitational/uitest/lib/report"
	"github.com/gravitational/uitest/lib/wait"

	"github.com/gravitational/trace"
	log "github.com/sirupsen/logrus"
)

// New returns a Page operating on the given session.
// A nil reporter discards step records
func New(session driver.Session, reporter report.Reporter, opts ...Option) *Page {
	if reporter == nil {
		reporter = report.Discard
	}
	p := &Page{
		session:      session,
		reporter:     reporter,
		FieldLogger:  log.WithField(trace.Component, "page"),
		countTimeout: defaults.CountTimeout,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Page is the interaction layer page objects are composed from.
// It keeps no state between operations
type Page struct {
	log.FieldLogger
	session      driver.Session
	reporter     report.Reporter
	countTimeout time.Duration
}

// Option configures a Page
type Option func(*Page)

// WithLogger sets the logger for retry diagnostics
func WithLogger(logger log.FieldLogger) Option {
	return func(p *Page) {
		p.FieldLogger = logger
	}
}

// WithCountTimeout sets how long WaitForCount waits for matching elements
func WithCountTimeout(timeout time.Duration) Option {
	return func(p *Page) {
		p.countTimeout = timeout
	}
}

// Session returns the browser session the page operates on
func (p *Page) Session() driver.Session {
	return p.session
}

// Reporter returns the step sink of the page
func (p *Page) Reporter() report.Reporter {
	return p.reporter
}

// Navigate opens url in the session
func (p *Page) Navigate(ctx context.Context, url string) error {
	if err := p.session.Navigate(ctx, url); err != nil {
		p.reporter.AddStep("Open "+url, report.Failed)
		return trace.Wrap(err)
	}
	p.reporter.AddStep("Open "+url, report.Passed)
	return nil
}

// CallOption customizes a single operation
type CallOption func(*callOptions)

// Retries overrides the retry budget of an operation.
// Zero means a single attempt. Negative budgets are rejected
func Retries(n int) CallOption {
	return func(o *callOptions) {
		o.retries = &n
	}
}

// Masked hides the typed text in step names and logs
func Masked() CallOption {
	return func(o *callOptions) {
		o.masked = true
	}
}

type callOptions struct {
	retries *int
	masked  bool
}

func newCallOptions(opts []CallOption) callOptions {
	var o callOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o callOptions) budget(def int) int {
	if o.retries == nil {
		return def
	}
	return *o.retries
}

// attempt describes a single retried operation
type attempt struct {
	// op names the operation in logs and errors
	op      string
	locator string
	// step is the report step name for every attempt
	step string
	// failure is the error message prefix once retries are exhausted
	failure string
	retries int
	backoff time.Duration
	// bracket reports the attempt as an open step closed with its status.
	// Otherwise a single step is added once the attempt completes
	bracket bool
}

// run executes fn at most a.retries+1 times
func (p *Page) run(ctx context.Context, a attempt, fn func() ([]report.Attachment, error)) error {
	if a.retries < 0 {
		return trace.BadParameter("retry budget for %v %q must be >= 0, got %v", a.op, a.locator, a.retries)
	}

	r := wait.Retryer{
		Delay:    a.backoff,
		Attempts: a.retries + 1,
		Fixed:    true,
		Sleep:    p.Sleep,
		FieldLogger: p.WithFields(log.Fields{
			constants.FieldOperation: a.op,
			constants.FieldLocator:   a.locator,
		}),
		OnFailure: func(_ int, _ error, last bool) {
			status := report.Skipped
			if last {
				status = report.Failed
			}
			if a.bracket {
				p.reporter.EndStep(status)
			} else {
				p.reporter.AddStep(a.step, status)
			}
		},
	}
	err := r.Do(ctx, func() error {
		if a.bracket {
			p.reporter.StartStep(a.step)
		}
		attachments, err := fn()
		if err != nil {
			return err
		}
		if a.bracket {
			p.reporter.EndStep(report.Passed)
		} else {
			p.reporter.AddStep(a.step, report.Passed, attachments...)
		}
		return nil
	})
	var interrupted *wait.InterruptedError
	if errors.As(err, &interrupted) {
		p.reporter.AddStep(fmt.Sprintf("%v: interrupted after attempt %v", a.step, interrupted.Attempt), report.Failed)
		return &InteractionError{
			Op:      a.op,
			Locator: a.locator,
			Message: fmt.Sprintf("Interrupted %v %v after attempt %v of %v", a.op, a.locator, interrupted.Attempt, a.retries+1),
			Err:     err,
		}
	}
	if err != nil {
		return &InteractionError{Op: a.op, Locator: a.locator, Message: a.failure, Err: err}
	}
	return nil
}
