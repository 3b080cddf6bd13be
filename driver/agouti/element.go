package agouti

import (
	"context"
	"fmt"

	"github.com/gravitational/uitest/driver"

	"github.com/gravitational/trace"
	web "github.com/sclevine/agouti"
)

// scrollScript scrolls the element at index matching locator into view
const scrollScript = `
	var node;
	if (xpath) {
		node = document.evaluate(locator, document, null, XPathResult.ORDERED_NODE_SNAPSHOT_TYPE, null).snapshotItem(index);
	} else {
		node = document.querySelectorAll(locator)[index];
	}
	if (!node) {
		return false;
	}
	node.scrollIntoView(true);
	return true;`

type element struct {
	session *Session
	locator string
	index   int
}

func (e *element) selection() *web.Selection {
	return e.session.all(e.locator).At(e.index)
}

func (e *element) exists() (bool, error) {
	count, err := e.session.all(e.locator).Count()
	if err != nil {
		return false, err
	}
	return count > e.index, nil
}

func (e *element) WaitForExist(ctx context.Context) error {
	return driver.Poll(ctx, func(context.Context) (bool, error) {
		return e.exists()
	}, e.session.config.Timeouts, e.describe("appear"))
}

func (e *element) WaitForDisplayed(ctx context.Context) error {
	return driver.Poll(ctx, func(context.Context) (bool, error) {
		return e.selection().Visible()
	}, e.session.config.Timeouts, e.describe("become visible"))
}

func (e *element) IsDisplayed(ctx context.Context) (bool, error) {
	ok, err := e.exists()
	if err != nil || !ok {
		return false, trace.Wrap(err)
	}
	visible, err := e.selection().Visible()
	return visible, trace.Wrap(err)
}

func (e *element) Click(ctx context.Context) error {
	return trace.Wrap(e.selection().Click())
}

func (e *element) ScrollIntoView(ctx context.Context) error {
	var found bool
	err := e.session.page.RunScript(scrollScript, map[string]interface{}{
		"locator": e.locator,
		"xpath":   driver.IsXPath(e.locator),
		"index":   e.index,
	}, &found)
	if err != nil {
		return trace.Wrap(err)
	}
	if !found {
		return trace.NotFound("no element %v at index %v to scroll to", e.locator, e.index)
	}
	return nil
}

func (e *element) MoveTo(ctx context.Context) error {
	return trace.Wrap(e.selection().MouseToElement())
}

func (e *element) Clear(ctx context.Context) error {
	return trace.Wrap(e.selection().Clear())
}

func (e *element) SetValue(ctx context.Context, value string) error {
	return trace.Wrap(e.selection().SendKeys(value))
}

func (e *element) Text(ctx context.Context) (string, error) {
	text, err := e.selection().Text()
	return text, trace.Wrap(err)
}

func (e *element) Attribute(ctx context.Context, name string) (string, error) {
	value, err := e.selection().Attribute(name)
	return value, trace.Wrap(err)
}

func (e *element) Value(ctx context.Context) (string, error) {
	return e.Attribute(ctx, "value")
}

func (e *element) describe(state string) func() string {
	return func() string {
		return fmt.Sprintf("element %v did not %v within %v", e.locator, state, e.session.config.Timeouts.Timeout)
	}
}
