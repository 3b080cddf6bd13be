// Package driver defines the browser automation capability the UI model
// is built on. Adapters for concrete automation backends live in the
// sub-packages.
package driver

import (
	"context"
	"strings"
	"time"
)

// Session is a single browser session.
// Locators are passed through to the backend verbatim
type Session interface {
	// Find returns a lazy handle to the first element matching locator.
	// The element is not required to exist yet
	Find(ctx context.Context, locator string) (Element, error)
	// FindAll returns handles to all elements currently matching locator
	FindAll(ctx context.Context, locator string) ([]Element, error)
	// WaitUntil polls cond until it returns true or timeout expires.
	// On expiry it returns a *TimeoutError with the text produced by message
	WaitUntil(ctx context.Context, cond Condition, timeout time.Duration, message func() string) error
	// Pause pauses the session for the given duration
	Pause(ctx context.Context, d time.Duration) error
	// Navigate opens the given URL
	Navigate(ctx context.Context, url string) error
	// URL returns the URL of the current page
	URL(ctx context.Context) (string, error)
	// Close ends the session and releases the browser
	Close() error
}

// Element is a handle to a located UI element
type Element interface {
	// WaitForDisplayed blocks until the element is rendered and visible
	WaitForDisplayed(ctx context.Context) error
	// WaitForExist blocks until the element is present in the DOM
	WaitForExist(ctx context.Context) error
	// IsDisplayed reports the current visibility of the element without waiting.
	// An element that does not exist is not displayed
	IsDisplayed(ctx context.Context) (bool, error)
	Click(ctx context.Context) error
	ScrollIntoView(ctx context.Context) error
	// MoveTo moves the pointer to the element
	MoveTo(ctx context.Context) error
	// Clear clears the value of an input-like element
	Clear(ctx context.Context) error
	// SetValue types value into an input-like element
	SetValue(ctx context.Context, value string) error
	// Text returns the visible text of the element
	Text(ctx context.Context) (string, error)
	// Attribute returns the value of the named attribute
	Attribute(ctx context.Context, name string) (string, error)
	// Value returns the value of a textarea, select or text input
	Value(ctx context.Context) (string, error)
}

// Capabilities describes the browser a session is opened with
type Capabilities struct {
	BrowserName         string `json:"browserName"`
	AcceptInsecureCerts bool   `json:"acceptInsecureCerts"`
	// Headless runs the browser without a window
	Headless bool `json:"headless"`
	// Args lists additional browser command line switches
	Args []string `json:"args"`
}

// Condition is a poll predicate
type Condition func(ctx context.Context) (bool, error)

// Timeouts configures how long readiness waits poll and how often
type Timeouts struct {
	// Timeout is the total time to wait
	Timeout time.Duration
	// Interval is the delay between polls
	Interval time.Duration
}

// IsXPath returns true if locator reads as an XPath expression rather than a CSS selector
func IsXPath(locator string) bool {
	return strings.HasPrefix(locator, "/") || strings.HasPrefix(locator, "(")
}
