package driver

import (
	"context"
	"errors"
	"fmt"

	"github.com/cenkalti/backoff"
)

// TimeoutError is returned when a polled condition does not hold within the timeout
type TimeoutError struct {
	// Message describes what was waited for
	Message string
	// Last is the last error returned by the condition, if any
	Last error
}

// Error returns the wait description, followed by the last condition error when there was one
func (r *TimeoutError) Error() string {
	if r.Last != nil {
		return fmt.Sprintf("%v: %v", r.Message, r.Last)
	}
	return r.Message
}

// Unwrap returns the last condition error
func (r *TimeoutError) Unwrap() error {
	return r.Last
}

// IsTimeout returns true if err is or wraps a *TimeoutError
func IsTimeout(err error) bool {
	var timeout *TimeoutError
	return errors.As(err, &timeout)
}

var errNotYet = errors.New("condition not met")

// Poll evaluates cond every interval until it returns true or the timeout expires.
// Errors returned by cond count as not met and polling continues.
// message is rendered after the timeout so it can describe the final state
func Poll(ctx context.Context, cond Condition, timeouts Timeouts, message func() string) error {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Timeout)
	defer cancel()

	var last error
	b := backoff.WithContext(backoff.NewConstantBackOff(timeouts.Interval), ctx)
	err := backoff.Retry(func() error {
		ok, err := cond(ctx)
		if err != nil {
			last = err
			return err
		}
		if !ok {
			return errNotYet
		}
		return nil
	}, b)
	if err == nil {
		return nil
	}
	if message == nil {
		message = func() string {
			return fmt.Sprintf("condition not met after %v", timeouts.Timeout)
		}
	}
	return &TimeoutError{Message: message(), Last: last}
}
