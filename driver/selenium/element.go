package selenium

import (
	"context"
	"fmt"

	"github.com/gravitational/trace"
	"github.com/tebeka/selenium"
)

// element is resolved against the current DOM at every call
// so stale references never survive between primitives
type element struct {
	session *Session
	locator string
	index   int
}

func (e *element) resolve() (selenium.WebElement, error) {
	if e.index == 0 {
		return e.session.FindElement(by(e.locator), e.locator)
	}
	found, err := e.session.FindElements(by(e.locator), e.locator)
	if err != nil {
		return nil, err
	}
	if len(found) <= e.index {
		return nil, trace.NotFound("no element %v at index %v, found %v", e.locator, e.index, len(found))
	}
	return found[e.index], nil
}

func (e *element) WaitForExist(ctx context.Context) error {
	return e.session.poll(ctx, func(context.Context) (bool, error) {
		_, err := e.resolve()
		return err == nil, err
	}, e.describe("appear"))
}

func (e *element) WaitForDisplayed(ctx context.Context) error {
	return e.session.poll(ctx, func(context.Context) (bool, error) {
		el, err := e.resolve()
		if err != nil {
			return false, err
		}
		return el.IsDisplayed()
	}, e.describe("become visible"))
}

func (e *element) IsDisplayed(ctx context.Context) (bool, error) {
	found, err := e.session.FindElements(by(e.locator), e.locator)
	if err != nil {
		return false, trace.Wrap(err)
	}
	if len(found) <= e.index {
		return false, nil
	}
	displayed, err := found[e.index].IsDisplayed()
	return displayed, trace.Wrap(err)
}

func (e *element) Click(ctx context.Context) error {
	return e.do(func(el selenium.WebElement) error {
		return el.Click()
	})
}

func (e *element) ScrollIntoView(ctx context.Context) error {
	return e.do(func(el selenium.WebElement) error {
		_, err := e.session.ExecuteScript("arguments[0].scrollIntoView(true);", []interface{}{el})
		return err
	})
}

func (e *element) MoveTo(ctx context.Context) error {
	return e.do(func(el selenium.WebElement) error {
		return el.MoveTo(0, 0)
	})
}

func (e *element) Clear(ctx context.Context) error {
	return e.do(func(el selenium.WebElement) error {
		return el.Clear()
	})
}

func (e *element) SetValue(ctx context.Context, value string) error {
	return e.do(func(el selenium.WebElement) error {
		return el.SendKeys(value)
	})
}

func (e *element) Text(ctx context.Context) (text string, err error) {
	err = e.do(func(el selenium.WebElement) (err error) {
		text, err = el.Text()
		return err
	})
	return text, err
}

func (e *element) Attribute(ctx context.Context, name string) (value string, err error) {
	err = e.do(func(el selenium.WebElement) (err error) {
		value, err = el.GetAttribute(name)
		return err
	})
	return value, err
}

// Value reads the live value of a textarea, select or text input
func (e *element) Value(ctx context.Context) (string, error) {
	return e.Attribute(ctx, "value")
}

func (e *element) do(fn func(selenium.WebElement) error) error {
	el, err := e.resolve()
	if err != nil {
		return trace.Wrap(err)
	}
	return trace.Wrap(fn(el))
}

func (e *element) describe(state string) func() string {
	return func() string {
		return fmt.Sprintf("element %v did not %v within %v", e.locator, state, e.session.config.Timeouts.Timeout)
	}
}
