package wait

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/gravitational/uitest/lib/constants"
	"github.com/gravitational/uitest/lib/defaults"

	"github.com/gravitational/trace"
	log "github.com/sirupsen/logrus"
)

// Abort causes Retry function to stop with error
func Abort(err error) AbortRetry {
	return AbortRetry{Err: err}
}

// Continue causes Retry function to continue trying and logging message
func Continue(format string, args ...interface{}) ContinueRetry {
	message := fmt.Sprintf(format, args...)
	return ContinueRetry{Message: message}
}

// AbortRetry if returned from Retry, will lead to retries to be stopped,
// but the Retry function will return internal Error
type AbortRetry struct {
	Err error
}

func (r AbortRetry) Error() string {
	return fmt.Sprintf("Abort(%v)", r.Err)
}

// ContinueRetry if returned from Retry, will be lead to retry next time
type ContinueRetry struct {
	Message string
}

func (r ContinueRetry) Error() string {
	return fmt.Sprintf("ContinueRetry(%v)", r.Message)
}

// InterruptedError is returned when the pause before the next attempt was interrupted
type InterruptedError struct {
	// Attempt is the number of attempts made
	Attempt int
	// Err is the error of the last attempt
	Err error
	// Cause is the error that interrupted the pause
	Cause error
}

func (r *InterruptedError) Error() string {
	return fmt.Sprintf("%v (retry interrupted: %v)", r.Err, r.Cause)
}

// Unwrap returns both the error of the last attempt and the interruption cause
func (r *InterruptedError) Unwrap() []error {
	return []error{r.Err, r.Cause}
}

// Retry attempts to execute fn with default delay retrying it for a default number of attempts.
// fn can return AbortRetry to abort or ContinueRetry to continue the execution.
func Retry(ctx context.Context, fn func() error) error {
	r := Retryer{
		Delay:    defaults.RetryDelay,
		Attempts: defaults.RetryAttempts,
	}
	return r.Do(ctx, fn)
}

// Retryer is a process that can retry a function
type Retryer struct {
	// Delay specifies the interval between retry attempts
	Delay time.Duration
	// Attempts specifies the number of attempts to execute before failing.
	// Must be >= 1
	Attempts int
	// Fixed keeps Delay constant between attempts.
	// Otherwise the delay doubles after every failed attempt up to defaults.RetryMaxDelay
	Fixed bool
	// Sleep pauses between attempts. Defaults to Sleep
	Sleep func(ctx context.Context, d time.Duration) error
	// OnFailure is called after every failed attempt.
	// last is set when no further attempt will be made
	OnFailure func(attempt int, err error, last bool)
	// FieldLogger specifies the log sink
	log.FieldLogger
}

// Do retries the given function fn for the configured number of attempts until it succeeds
// or all attempts have been exhausted.
// fn is invoked at most Attempts times
func (r Retryer) Do(ctx context.Context, fn func() error) (err error) {
	if r.Attempts < 1 {
		return trace.BadParameter("number of attempts must be positive, got %v", r.Attempts)
	}
	if r.FieldLogger == nil {
		r.FieldLogger = log.NewEntry(log.StandardLogger())
	}
	if r.Sleep == nil {
		r.Sleep = Sleep
	}

	if ctx.Err() != nil {
		return trace.Wrap(ctx.Err())
	}

	for i := 1; i <= r.Attempts; i += 1 {
		err = fn()
		if err == nil {
			r.WithField(constants.FieldAttempt, i).Debug("succeeded")
			return nil
		}

		last := i == r.Attempts
		le := r.WithField(constants.FieldAttempt, i)
		if deadline, ok := ctx.Deadline(); ok {
			le = le.WithField("timeout-in", fmt.Sprintf("%v", time.Until(deadline)))
		}
		switch origErr := err.(type) {
		case AbortRetry:
			le.WithError(origErr.Err).Error("aborted")
			r.failed(i, origErr.Err, true)
			return origErr.Err
		case ContinueRetry:
			le.Debugf("%v", origErr.Message)
		default:
			le.Debugf("unsuccessful attempt: %v", trace.UserMessage(err))
		}
		r.failed(i, err, last)
		if last {
			break
		}

		delay := r.delay(i)
		if delay <= 0 {
			continue
		}
		le.Debugf("retry in %v", delay)
		if sleepErr := r.Sleep(ctx, delay); sleepErr != nil {
			le.WithError(sleepErr).Error("interrupted")
			return &InterruptedError{Attempt: i, Err: err, Cause: sleepErr}
		}
	}
	r.Errorf("all %v attempts failed: %v", r.Attempts, trace.UserMessage(err))
	return err
}

func (r Retryer) failed(attempt int, err error, last bool) {
	if r.OnFailure != nil {
		r.OnFailure(attempt, err, last)
	}
}

func (r Retryer) delay(attempt int) time.Duration {
	if r.Fixed {
		return r.Delay
	}
	return backoff(r.Delay, attempt)
}

func backoff(baseDelay time.Duration, errCount int) time.Duration {
	delay := baseDelay * time.Duration(math.Pow(2, float64(errCount)-1))
	if delay > defaults.RetryMaxDelay {
		return defaults.RetryMaxDelay
	}
	return delay
}
