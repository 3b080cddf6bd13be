package page

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gravitational/uitest/driver"
	"github.com/gravitational/uitest/e2e/uimodel/defaults"
	"github.com/gravitational/uitest/lib/report"

	"github.com/gravitational/trace"
)

// WaitForDisplayed waits until the element is rendered and visible and returns its visibility
func (p *Page) WaitForDisplayed(ctx context.Context, locator string, opts ...CallOption) (visible bool, err error) {
	o := newCallOptions(opts)
	err = p.run(ctx, attempt{
		op:      "wait-for-displayed",
		locator: locator,
		step:    fmt.Sprintf("Wait for element %q to be displayed", locator),
		failure: fmt.Sprintf("Element %v is not displayed after maximum retries", locator),
		retries: o.budget(defaults.WaitRetries),
	}, func() ([]report.Attachment, error) {
		el, err := p.session.Find(ctx, locator)
		if err != nil {
			return nil, err
		}
		if err := el.WaitForDisplayed(ctx); err != nil {
			return nil, err
		}
		visible, err = el.IsDisplayed(ctx)
		if err != nil {
			return nil, err
		}
		return []report.Attachment{report.Text("displayed", strconv.FormatBool(visible))}, nil
	})
	return visible, err
}

// WaitForExist waits until the element is present in the DOM and returns its handle
func (p *Page) WaitForExist(ctx context.Context, locator string, opts ...CallOption) (el driver.Element, err error) {
	o := newCallOptions(opts)
	err = p.run(ctx, attempt{
		op:      "wait-for-exist",
		locator: locator,
		step:    fmt.Sprintf("Wait for element %q to exist", locator),
		failure: fmt.Sprintf("Element %v does not exist after maximum retries", locator),
		retries: o.budget(defaults.WaitRetries),
	}, func() ([]report.Attachment, error) {
		el, err = p.findExisting(ctx, locator)
		return nil, err
	})
	if err != nil {
		return nil, err
	}
	return el, nil
}

// MoveToAndClick scrolls the element into view, moves the pointer to it, pauses briefly and clicks
func (p *Page) MoveToAndClick(ctx context.Context, locator string, opts ...CallOption) error {
	o := newCallOptions(opts)
	return p.run(ctx, attempt{
		op:      "move-and-click",
		locator: locator,
		step:    fmt.Sprintf("Move mouse and click element %q", locator),
		failure: fmt.Sprintf("Still not able to move to and click %v after maximum retries", locator),
		retries: o.budget(defaults.ClickRetries),
		backoff: defaults.ClickBackoff,
		bracket: true,
	}, func() ([]report.Attachment, error) {
		el, err := p.findExisting(ctx, locator)
		if err != nil {
			return nil, err
		}
		if err := el.ScrollIntoView(ctx); err != nil {
			return nil, err
		}
		if err := el.MoveTo(ctx); err != nil {
			return nil, err
		}
		if err := p.Sleep(ctx, defaults.HoverPause); err != nil {
			return nil, err
		}
		return nil, el.Click(ctx)
	})
}

// SendKeys clicks the input-like element, clears it and types keys
func (p *Page) SendKeys(ctx context.Context, locator, keys string, opts ...CallOption) error {
	o := newCallOptions(opts)
	shown := keys
	if o.masked {
		shown = strings.Repeat("*", utf8.RuneCountInString(keys))
	}
	return p.run(ctx, attempt{
		op:      "send-keys",
		locator: locator,
		step:    fmt.Sprintf("Type text: %q into element: %q", shown, locator),
		failure: fmt.Sprintf("Unable to send keys to %v after maximum retries", locator),
		retries: o.budget(defaults.SendKeysRetries),
		backoff: defaults.SendKeysBackoff,
		bracket: true,
	}, func() ([]report.Attachment, error) {
		el, err := p.session.Find(ctx, locator)
		if err != nil {
			return nil, err
		}
		if err := el.Click(ctx); err != nil {
			return nil, err
		}
		if err := el.Clear(ctx); err != nil {
			return nil, err
		}
		return nil, el.SetValue(ctx, keys)
	})
}

// Click locates the element and clicks it
func (p *Page) Click(ctx context.Context, locator string, opts ...CallOption) error {
	o := newCallOptions(opts)
	return p.run(ctx, attempt{
		op:      "click",
		locator: locator,
		step:    fmt.Sprintf("Click element %q", locator),
		failure: fmt.Sprintf("Still not able to click %v after maximum retries", locator),
		retries: o.budget(defaults.ClickRetries),
		backoff: defaults.ClickBackoff,
		bracket: true,
	}, func() ([]report.Attachment, error) {
		el, err := p.session.Find(ctx, locator)
		if err != nil {
			return nil, err
		}
		return nil, el.Click(ctx)
	})
}

// Text waits for the element to exist and returns its visible text
func (p *Page) Text(ctx context.Context, locator string, opts ...CallOption) (text string, err error) {
	o := newCallOptions(opts)
	err = p.run(ctx, attempt{
		op:      "get-text",
		locator: locator,
		step:    fmt.Sprintf("Get text from element:\n %q", locator),
		failure: fmt.Sprintf("Unable to get %v text after maximum retries", locator),
		retries: o.budget(defaults.ReadRetries),
		backoff: defaults.ReadBackoff,
	}, func() ([]report.Attachment, error) {
		el, err := p.findExisting(ctx, locator)
		if err != nil {
			return nil, err
		}
		text, err = el.Text(ctx)
		if err != nil {
			return nil, err
		}
		return []report.Attachment{report.Text("text", text)}, nil
	})
	return text, err
}

// Attribute waits for the element to exist and returns the value of the named attribute
func (p *Page) Attribute(ctx context.Context, locator, name string, opts ...CallOption) (value string, err error) {
	o := newCallOptions(opts)
	err = p.run(ctx, attempt{
		op:      "get-attribute",
		locator: locator,
		step:    fmt.Sprintf("Get %q attribute from element:\n %q", name, locator),
		failure: fmt.Sprintf("Unable to get %v attributes value after maximum retries", locator),
		retries: o.budget(defaults.ReadRetries),
		backoff: defaults.ReadBackoff,
	}, func() ([]report.Attachment, error) {
		el, err := p.findExisting(ctx, locator)
		if err != nil {
			return nil, err
		}
		value, err = el.Attribute(ctx, name)
		if err != nil {
			return nil, err
		}
		return []report.Attachment{report.Text("attribute value", value)}, nil
	})
	return value, err
}

// ValueAt waits until at least index+1 elements match locator and returns the value
// of the textarea, select or text input at index
func (p *Page) ValueAt(ctx context.Context, locator string, index int, opts ...CallOption) (value string, err error) {
	if index < 0 || index == math.MaxInt {
		return "", trace.BadParameter("element index must be in [0, %v), got %v", math.MaxInt, index)
	}
	o := newCallOptions(opts)
	err = p.run(ctx, attempt{
		op:      "get-value-at-index",
		locator: locator,
		step:    fmt.Sprintf("Get value from element:\n %q with index %v", locator, index),
		failure: fmt.Sprintf("Unable to get value of %v with index %v after maximum retries", locator, index),
		retries: o.budget(defaults.ReadRetries),
		backoff: defaults.ReadBackoff,
	}, func() ([]report.Attachment, error) {
		elements, err := p.waitForCount(ctx, locator, index+1)
		if err != nil {
			return nil, err
		}
		if index >= len(elements) {
			return nil, &CountTimeoutError{Locator: locator, Expected: index + 1, Actual: len(elements)}
		}
		value, err = elements[index].Value(ctx)
		if err != nil {
			return nil, err
		}
		return []report.Attachment{report.Text("value", value)}, nil
	})
	return value, err
}

// WaitForCount waits until at least n elements match locator and returns all of them.
// It relies on the polling primitive of the driver bounded by the page count timeout
func (p *Page) WaitForCount(ctx context.Context, locator string, n int) ([]driver.Element, error) {
	if n < 0 {
		return nil, trace.BadParameter("expected number of elements must be >= 0, got %v", n)
	}
	step := fmt.Sprintf("Wait for at least %v elements %q", n, locator)
	elements, err := p.waitForCount(ctx, locator, n)
	if err != nil {
		p.reporter.AddStep(step, report.Failed)
		return nil, err
	}
	p.reporter.AddStep(step, report.Passed, report.Text("count", strconv.Itoa(len(elements))))
	return elements, nil
}

// IsVisible reports whether the element is currently displayed, without waiting for it to exist
func (p *Page) IsVisible(ctx context.Context, locator string, opts ...CallOption) (visible bool, err error) {
	o := newCallOptions(opts)
	err = p.run(ctx, attempt{
		op:      "is-visible",
		locator: locator,
		step:    fmt.Sprintf("Check if element %q is visible", locator),
		failure: fmt.Sprintf("Unable to check %v visibility after maximum retries", locator),
		retries: o.budget(defaults.ReadRetries),
		backoff: defaults.ReadBackoff,
	}, func() ([]report.Attachment, error) {
		el, err := p.session.Find(ctx, locator)
		if err != nil {
			return nil, err
		}
		visible, err = el.IsDisplayed(ctx)
		if err != nil {
			return nil, err
		}
		return []report.Attachment{report.Text("visible", strconv.FormatBool(visible))}, nil
	})
	return visible, err
}

// Sleep pauses the session for d.
// Pauses longer than defaults.SleepReportThreshold are recorded as a step
func (p *Page) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	if d > defaults.SleepReportThreshold {
		seconds := strconv.FormatFloat(d.Seconds(), 'f', -1, 64)
		p.reporter.AddStep(fmt.Sprintf("Sleep for %v seconds", seconds), report.Passed)
	}
	return trace.Wrap(p.session.Pause(ctx, d))
}

func (p *Page) findExisting(ctx context.Context, locator string) (driver.Element, error) {
	el, err := p.session.Find(ctx, locator)
	if err != nil {
		return nil, err
	}
	if err := el.WaitForExist(ctx); err != nil {
		return nil, err
	}
	return el, nil
}

func (p *Page) waitForCount(ctx context.Context, locator string, n int) (elements []driver.Element, err error) {
	var actual int
	cond := func(ctx context.Context) (bool, error) {
		found, err := p.session.FindAll(ctx, locator)
		if err != nil {
			return false, err
		}
		actual = len(found)
		if actual < n {
			return false, nil
		}
		elements = found
		return true, nil
	}
	message := func() string {
		return (&CountTimeoutError{Locator: locator, Expected: n, Actual: actual}).Error()
	}
	err = p.session.WaitUntil(ctx, cond, p.countTimeout, message)
	if err != nil {
		return nil, &CountTimeoutError{Locator: locator, Expected: n, Actual: actual, Err: err}
	}
	return elements, nil
}
