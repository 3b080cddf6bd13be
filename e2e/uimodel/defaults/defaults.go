package defaults

import "time"

const (
	// WaitRetries is the default retry budget of readiness waits (displayed, exists)
	WaitRetries = 1
	// ClickRetries is the default retry budget of click and move-and-click
	ClickRetries = 3
	// ClickBackoff is the pause between click attempts
	ClickBackoff = 250 * time.Millisecond
	// SendKeysRetries is the default retry budget of send-keys
	SendKeysRetries = 2
	// SendKeysBackoff is the pause between send-keys attempts
	SendKeysBackoff = 1000 * time.Millisecond
	// ReadRetries is the default retry budget of text, attribute, value and visibility reads
	ReadRetries = 1
	// ReadBackoff is the pause between read attempts
	ReadBackoff = 250 * time.Millisecond

	// HoverPause is the pause between moving the pointer to an element and clicking it
	HoverPause = 500 * time.Millisecond
	// SleepReportThreshold is the longest pause that is not recorded as a report step
	SleepReportThreshold = 999 * time.Millisecond

	// CountTimeout defines how long to wait for a minimum number of matching elements
	CountTimeout = 10 * time.Second

	// DescriptionLength is the length of generated form descriptions
	DescriptionLength = 15
	// LocaleLength is the length of generated description locales
	LocaleLength = 7
)
