package page

import (
	"fmt"
)

// InteractionError is returned once an operation exhausted its retry budget
type InteractionError struct {
	// Op is the name of the operation
	Op string
	// Locator identifies the element the operation targeted
	Locator string
	// Message describes the failed action
	Message string
	// Err is the error of the last attempt
	Err error
}

// Error describes the failed action followed by the driver error text
func (e *InteractionError) Error() string {
	return fmt.Sprintf("%v, Error message: %v", e.Message, e.Err)
}

// Unwrap returns the error of the last attempt
func (e *InteractionError) Unwrap() error {
	return e.Err
}

// CountTimeoutError is returned when fewer matching elements than expected
// appeared before the timeout
type CountTimeoutError struct {
	Locator  string
	Expected int
	Actual   int
	// Err is the timeout error of the driver
	Err error
}

func (e *CountTimeoutError) Error() string {
	return fmt.Sprintf("Timeout waiting for number of elements with locator: %v to be at least %v.\n Actual number of elements: %v",
		e.Locator, e.Expected, e.Actual)
}

// Unwrap returns the timeout error of the driver
func (e *CountTimeoutError) Unwrap() error {
	return e.Err
}
