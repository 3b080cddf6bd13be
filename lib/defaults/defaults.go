package defaults

import "time"

const (
	// RetryDelay defines the interval between retry attempts
	RetryDelay = 5 * time.Second
	// RetryAttempts defines the maximum number of retry attempts
	RetryAttempts = 10
	// RetryMaxDelay caps the exponential delay between retry attempts
	RetryMaxDelay = 30 * time.Second

	// WaitTimeout defines how long element readiness waits (displayed, exists) poll
	// before the driver gives up
	WaitTimeout = 10 * time.Second
	// PollInterval defines the frequency of readiness polling attempts
	PollInterval = 500 * time.Millisecond
	// CountTimeout defines how long to wait for a minimum number of matching elements
	CountTimeout = 10 * time.Second

	// ConnectTimeout defines the amount of time to wait for a browser session to start
	ConnectTimeout = 1 * time.Minute

	// SeleniumPort is the port Selenium servers listen on
	SeleniumPort = 4444
	// SeleniumPath is the URL path prefix of the Selenium endpoint
	SeleniumPath = "/"
	// LocalServer is the address of a Selenium server for local development
	LocalServer = "localhost"

	// BrowserName defines the browser to request from the driver
	BrowserName = "chrome"
	// WindowSize defines the browser viewport for every target
	WindowSize = "1920,1080"

	// ReportDir is the default directory for Allure result files
	ReportDir = "allure-results"

	// PublishConcurrency bounds the number of parallel report uploads
	PublishConcurrency = 8

	// LogName is the cloud log the suite writes to
	LogName = "uitest"

	// LogFileMaxSizeMB is the size at which the suite log file is rotated
	LogFileMaxSizeMB = 50
	// LogFileMaxBackups is the number of rotated suite log files to keep
	LogFileMaxBackups = 3
)
