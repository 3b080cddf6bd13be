// Package drivertest provides a scripted in-memory driver.Session for tests.
package drivertest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gravitational/uitest/driver"
)

// Element primitive names as recorded in Call.Method
const (
	WaitForDisplayed = "WaitForDisplayed"
	WaitForExist     = "WaitForExist"
	IsDisplayed      = "IsDisplayed"
	Click            = "Click"
	ScrollIntoView   = "ScrollIntoView"
	MoveTo           = "MoveTo"
	Clear            = "Clear"
	SetValue         = "SetValue"
	Text             = "Text"
	Attribute        = "Attribute"
	Value            = "Value"
	FindAll          = "FindAll"
	WaitUntil        = "WaitUntil"
	Navigate         = "Navigate"
)

// Call is a recorded driver call
type Call struct {
	Locator string
	Method  string
	// Arg is the value typed, the attribute read or the URL opened
	Arg string
}

// NewSession returns an empty scripted session
func NewSession() *Session {
	return &Session{
		elements: make(map[string][]*Element),
		counts:   make(map[string][]int),
		MaxPolls: 10,
	}
}

// Session is a fake driver.Session.
// Elements are scripted per locator; every primitive call is recorded in order
type Session struct {
	// MaxPolls bounds how many times WaitUntil evaluates its condition before timing out
	MaxPolls int
	// NavigateErr is returned by Navigate
	NavigateErr error
	// OnPause is invoked by Pause after the pause is recorded, its error is returned
	OnPause func(time.Duration) error

	mu       sync.Mutex
	elements map[string][]*Element
	counts   map[string][]int
	calls    []Call
	pauses   []time.Duration
	url      string
	closed   bool
}

// Element returns the scripted first element for locator, creating it on first use
func (s *Session) Element(locator string) *Element {
	return s.Nth(locator, 0)
}

// Nth returns the scripted element at index for locator, creating it on first use
func (s *Session) Nth(locator string, index int) *Element {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nthLocked(locator, index)
}

func (s *Session) nthLocked(locator string, index int) *Element {
	for len(s.elements[locator]) <= index {
		s.elements[locator] = append(s.elements[locator], &Element{
			session:   s,
			locator:   locator,
			failures:  make(map[string][]error),
			Displayed: true,
			Attrs:     make(map[string]string),
		})
	}
	return s.elements[locator][index]
}

// SetCounts scripts the number of elements successive FindAll calls return for locator.
// The last count repeats once the sequence is exhausted
func (s *Session) SetCounts(locator string, counts ...int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[locator] = counts
}

// Calls returns all recorded calls in order
func (s *Session) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// CallCount returns the number of recorded calls of method against locator
func (s *Session) CallCount(locator, method string) (n int) {
	for _, call := range s.Calls() {
		if call.Locator == locator && call.Method == method {
			n++
		}
	}
	return n
}

// Pauses returns all durations passed to Pause in order
func (s *Session) Pauses() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]time.Duration(nil), s.pauses...)
}

// Closed returns true once Close has been called
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Session) record(call Call) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call)
}

// Find returns the scripted first element for locator
func (s *Session) Find(ctx context.Context, locator string) (driver.Element, error) {
	return s.Element(locator), nil
}

// FindAll returns as many elements as scripted by SetCounts.
// Without a script it returns the elements registered with Nth
func (s *Session) FindAll(ctx context.Context, locator string) ([]driver.Element, error) {
	s.mu.Lock()
	s.calls = append(s.calls, Call{Locator: locator, Method: FindAll})
	n := len(s.elements[locator])
	if counts := s.counts[locator]; len(counts) != 0 {
		n = counts[0]
		if len(counts) > 1 {
			s.counts[locator] = counts[1:]
		}
	}
	elements := make([]driver.Element, 0, n)
	for i := 0; i < n; i++ {
		elements = append(elements, s.nthLocked(locator, i))
	}
	s.mu.Unlock()
	return elements, nil
}

// WaitUntil evaluates cond up to MaxPolls times without real delays
func (s *Session) WaitUntil(ctx context.Context, cond driver.Condition, timeout time.Duration, message func() string) error {
	s.record(Call{Method: WaitUntil})
	var last error
	for i := 0; i < s.MaxPolls; i++ {
		ok, err := cond(ctx)
		if err != nil {
			last = err
			continue
		}
		if ok {
			return nil
		}
	}
	msg := fmt.Sprintf("condition not met after %v", timeout)
	if message != nil {
		msg = message()
	}
	return &driver.TimeoutError{Message: msg, Last: last}
}

// Pause records d and returns immediately
func (s *Session) Pause(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	s.pauses = append(s.pauses, d)
	hook := s.OnPause
	s.mu.Unlock()
	if hook != nil {
		return hook(d)
	}
	return nil
}

// Navigate records the URL.
// The current URL is kept when NavigateErr is set
func (s *Session) Navigate(ctx context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, Call{Method: Navigate, Arg: url})
	if s.NavigateErr != nil {
		return s.NavigateErr
	}
	s.url = url
	return nil
}

// URL returns the last URL passed to Navigate
func (s *Session) URL(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.url, nil
}

// Close marks the session closed
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Element is a scripted driver.Element
type Element struct {
	// Displayed is returned by IsDisplayed
	Displayed bool
	// TextValue is returned by Text
	TextValue string
	// Attrs holds values returned by Attribute
	Attrs map[string]string
	// Val is returned by Value and updated by Clear and SetValue
	Val string

	session  *Session
	locator  string
	failures map[string][]error
	missing  error
}

// FailNext makes the next times calls of method fail with err
func (e *Element) FailNext(method string, times int, err error) *Element {
	e.session.mu.Lock()
	defer e.session.mu.Unlock()
	for i := 0; i < times; i++ {
		e.failures[method] = append(e.failures[method], err)
	}
	return e
}

// Missing makes every readiness wait and action on the element fail
func (e *Element) Missing() *Element {
	err := fmt.Errorf("no such element: unable to locate element %v", e.locator)
	e.session.mu.Lock()
	defer e.session.mu.Unlock()
	e.missing = err
	return e
}

func (e *Element) call(method, arg string) error {
	s := e.session
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, Call{Locator: e.locator, Method: method, Arg: arg})
	if pending := e.failures[method]; len(pending) != 0 {
		e.failures[method] = pending[1:]
		return pending[0]
	}
	return e.missing
}

func (e *Element) WaitForDisplayed(ctx context.Context) error {
	return e.call(WaitForDisplayed, "")
}

func (e *Element) WaitForExist(ctx context.Context) error {
	return e.call(WaitForExist, "")
}

func (e *Element) IsDisplayed(ctx context.Context) (bool, error) {
	if err := e.call(IsDisplayed, ""); err != nil {
		return false, err
	}
	return e.Displayed, nil
}

func (e *Element) Click(ctx context.Context) error {
	return e.call(Click, "")
}

func (e *Element) ScrollIntoView(ctx context.Context) error {
	return e.call(ScrollIntoView, "")
}

func (e *Element) MoveTo(ctx context.Context) error {
	return e.call(MoveTo, "")
}

func (e *Element) Clear(ctx context.Context) error {
	if err := e.call(Clear, ""); err != nil {
		return err
	}
	e.session.mu.Lock()
	defer e.session.mu.Unlock()
	e.Val = ""
	return nil
}

func (e *Element) SetValue(ctx context.Context, value string) error {
	if err := e.call(SetValue, value); err != nil {
		return err
	}
	e.session.mu.Lock()
	defer e.session.mu.Unlock()
	e.Val = value
	return nil
}

func (e *Element) Text(ctx context.Context) (string, error) {
	if err := e.call(Text, ""); err != nil {
		return "", err
	}
	return e.TextValue, nil
}

func (e *Element) Attribute(ctx context.Context, name string) (string, error) {
	if err := e.call(Attribute, name); err != nil {
		return "", err
	}
	return e.Attrs[name], nil
}

func (e *Element) Value(ctx context.Context) (string, error) {
	if err := e.call(Value, ""); err != nil {
		return "", err
	}
	return e.Val, nil
}
