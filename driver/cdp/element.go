package cdp

import (
	"context"
	"fmt"

	"github.com/gravitational/uitest/driver"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/chromedp"
	"github.com/gravitational/trace"
)

type element struct {
	session *Session
	locator string
	index   int
}

func (e *element) resolve(ctx context.Context) (*cdp.Node, error) {
	nodes, err := e.session.nodes(ctx, e.locator)
	if err != nil {
		return nil, trace.Wrap(err)
	}
	if len(nodes) <= e.index {
		return nil, trace.NotFound("no element %v at index %v, found %v", e.locator, e.index, len(nodes))
	}
	return nodes[e.index], nil
}

// box returns the content box of the node or an error if it is not rendered
func (e *element) box(ctx context.Context, node *cdp.Node) (model *dom.BoxModel, err error) {
	err = e.session.run(ctx, e.session.config.Timeouts.Timeout, chromedp.ActionFunc(func(ctx context.Context) error {
		model, err = dom.GetBoxModel().WithNodeID(node.NodeID).Do(ctx)
		return err
	}))
	return model, err
}

func (e *element) WaitForExist(ctx context.Context) error {
	return driver.Poll(ctx, func(ctx context.Context) (bool, error) {
		_, err := e.resolve(ctx)
		return err == nil, err
	}, e.session.config.Timeouts, e.describe("appear"))
}

func (e *element) WaitForDisplayed(ctx context.Context) error {
	return driver.Poll(ctx, func(ctx context.Context) (bool, error) {
		node, err := e.resolve(ctx)
		if err != nil {
			return false, err
		}
		return e.visible(ctx, node), nil
	}, e.session.config.Timeouts, e.describe("become visible"))
}

func (e *element) IsDisplayed(ctx context.Context) (bool, error) {
	nodes, err := e.session.nodes(ctx, e.locator)
	if err != nil {
		return false, trace.Wrap(err)
	}
	if len(nodes) <= e.index {
		return false, nil
	}
	return e.visible(ctx, nodes[e.index]), nil
}

func (e *element) visible(ctx context.Context, node *cdp.Node) bool {
	model, err := e.box(ctx, node)
	if err != nil {
		return false
	}
	return model.Width > 0 && model.Height > 0
}

func (e *element) Click(ctx context.Context) error {
	return e.on(ctx, func(ids []cdp.NodeID) chromedp.Action {
		return chromedp.Click(ids, chromedp.ByNodeID)
	})
}

func (e *element) ScrollIntoView(ctx context.Context) error {
	return e.on(ctx, func(ids []cdp.NodeID) chromedp.Action {
		return chromedp.ScrollIntoView(ids, chromedp.ByNodeID)
	})
}

// MoveTo dispatches a pointer move to the center of the element
func (e *element) MoveTo(ctx context.Context) error {
	node, err := e.resolve(ctx)
	if err != nil {
		return trace.Wrap(err)
	}
	model, err := e.box(ctx, node)
	if err != nil {
		return trace.Wrap(err)
	}
	x, y := center(model.Content)
	return trace.Wrap(e.session.run(ctx, e.session.config.Timeouts.Timeout,
		chromedp.ActionFunc(func(ctx context.Context) error {
			return input.DispatchMouseEvent(input.MouseMoved, x, y).Do(ctx)
		})))
}

func (e *element) Clear(ctx context.Context) error {
	return e.on(ctx, func(ids []cdp.NodeID) chromedp.Action {
		return chromedp.Clear(ids, chromedp.ByNodeID)
	})
}

func (e *element) SetValue(ctx context.Context, value string) error {
	return e.on(ctx, func(ids []cdp.NodeID) chromedp.Action {
		return chromedp.SendKeys(ids, value, chromedp.ByNodeID)
	})
}

func (e *element) Text(ctx context.Context) (text string, err error) {
	err = e.on(ctx, func(ids []cdp.NodeID) chromedp.Action {
		return chromedp.Text(ids, &text, chromedp.ByNodeID)
	})
	return text, err
}

func (e *element) Attribute(ctx context.Context, name string) (value string, err error) {
	var ok bool
	err = e.on(ctx, func(ids []cdp.NodeID) chromedp.Action {
		return chromedp.AttributeValue(ids, name, &value, &ok, chromedp.ByNodeID)
	})
	return value, err
}

func (e *element) Value(ctx context.Context) (value string, err error) {
	err = e.on(ctx, func(ids []cdp.NodeID) chromedp.Action {
		return chromedp.Value(ids, &value, chromedp.ByNodeID)
	})
	return value, err
}

// on resolves the element and runs the action built for its node
func (e *element) on(ctx context.Context, action func([]cdp.NodeID) chromedp.Action) error {
	node, err := e.resolve(ctx)
	if err != nil {
		return trace.Wrap(err)
	}
	return trace.Wrap(e.session.run(ctx, e.session.config.Timeouts.Timeout, action([]cdp.NodeID{node.NodeID})))
}

func (e *element) describe(state string) func() string {
	return func() string {
		return fmt.Sprintf("element %v did not %v within %v", e.locator, state, e.session.config.Timeouts.Timeout)
	}
}

// center returns the center of a quad given as four x,y vertices
func center(quad dom.Quad) (x, y float64) {
	if len(quad) < 8 {
		return 0, 0
	}
	for i := 0; i < 8; i += 2 {
		x += quad[i]
		y += quad[i+1]
	}
	return x / 4, y / 4
}
