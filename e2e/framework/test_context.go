package framework

import (
	"os"

	"github.com/gravitational/uitest/e2e/framework/defaults"
	"github.com/gravitational/uitest/lib/config"
	libdefaults "github.com/gravitational/uitest/lib/defaults"
	"github.com/gravitational/uitest/lib/report"

	"github.com/gravitational/trace"
)

// TestContext is the configuration of the running suite
var TestContext TestContextType

// TestContextType defines the suite configuration.
// It is read from a JSON or YAML file, then overridden from the environment
type TestContextType struct {
	// StartURL is the home page of the application under test
	StartURL string `json:"start_url" yaml:"start_url" env:"UITEST_START_URL" validate:"required,url"`
	// Login specifies the user to sign in with
	Login Login `json:"login" yaml:"login"`
	// Target selects the execution target
	Target TargetConfig `json:"target" yaml:"target"`
	// Timeouts overrides driver and interaction timeouts
	Timeouts Timeouts `json:"timeouts" yaml:"timeouts"`
	// ReportDir is the directory for Allure result files
	ReportDir string `json:"report_dir" yaml:"report_dir" env:"UITEST_REPORT_DIR"`
	// CleanReportDir removes previous results from ReportDir before the suite starts
	CleanReportDir bool `json:"clean_report_dir" yaml:"clean_report_dir"`
	// LogFile optionally receives the debug log of the suite
	LogFile string `json:"log_file" yaml:"log_file" env:"UITEST_LOG_FILE"`
	// CloudLoggingProject optionally forwards the log to Google Cloud Logging
	CloudLoggingProject string `json:"gcl_project" yaml:"gcl_project" env:"UITEST_GCL_PROJECT"`
	// Publish optionally uploads the report directory after the suite.
	// Publishing is disabled without a bucket
	Publish report.PublishConfig `json:"publish" yaml:"publish"`
}

// Login defines the user credentials
type Login struct {
	Username string `json:"username" yaml:"username" env:"UITEST_USERNAME" validate:"required"`
	Password string `json:"password" yaml:"password" env:"UITEST_PASSWORD" validate:"required"`
}

// TargetConfig selects where the browser runs
type TargetConfig struct {
	Mode Mode `json:"mode" yaml:"mode" env:"SELENIUM_SERVER"`
	// RemoteServer is the Selenium server host for REMOTE mode
	RemoteServer string `json:"remote_server" yaml:"remote_server" env:"SELENIUM_SERVER_URL"`
	// ExecPath optionally overrides the browser binary for CDP mode
	ExecPath string `json:"exec_path" yaml:"exec_path" env:"UITEST_BROWSER_PATH"`
}

// Timeouts groups timeout overrides
type Timeouts struct {
	// Wait bounds element readiness waits
	Wait config.Timeout `json:"wait" yaml:"wait"`
	// Poll is the interval between readiness polls
	Poll config.Timeout `json:"poll" yaml:"poll"`
	// Count bounds waits for a minimum number of elements
	Count config.Timeout `json:"count" yaml:"count"`
}

// CheckAndSetDefaults validates the configuration and fills in defaults
func (r *TestContextType) CheckAndSetDefaults() error {
	if _, err := r.ResolveTarget(); err != nil {
		return trace.Wrap(err)
	}
	if r.ReportDir == "" {
		r.ReportDir = libdefaults.ReportDir
	}
	if r.Publish.Bucket != "" {
		if err := r.Publish.Check(); err != nil {
			return trace.Wrap(err)
		}
	}
	return nil
}

// ResolveTarget resolves the configured execution target
func (r TestContextType) ResolveTarget() (*Target, error) {
	return ResolveTarget(r.Target.Mode, r.Target.RemoteServer)
}

// LoadTestContext reads the configuration file at path into TestContext
func LoadTestContext(path string) error {
	var ctx TestContextType
	if err := config.Load(path, &ctx); err != nil {
		return trace.Wrap(err)
	}
	TestContext = ctx
	return nil
}

// ConfigFile returns the configuration file set in the environment
func ConfigFile() string {
	return os.Getenv(defaults.ConfigFileEnv)
}
