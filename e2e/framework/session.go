package framework

import (
	"context"
	"io"

	"github.com/gravitational/uitest/driver"
	"github.com/gravitational/uitest/driver/agouti"
	"github.com/gravitational/uitest/driver/cdp"
	"github.com/gravitational/uitest/driver/selenium"
	"github.com/gravitational/uitest/e2e/uimodel/page"
	"github.com/gravitational/uitest/lib/constants"
	"github.com/gravitational/uitest/lib/defaults"
	"github.com/gravitational/uitest/lib/report"
	"github.com/gravitational/uitest/lib/system"
	"github.com/gravitational/uitest/lib/xlog"

	"github.com/gravitational/trace"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"
)

// Current is the global instance of the suite resources the specs run against
var Current *Suite

// Suite groups the resources of a running suite
type Suite struct {
	logrus.FieldLogger
	// Session is the browser session
	Session driver.Session
	// Allure writes the result files
	Allure *report.Allure
	// Page is the interaction layer bound to Session
	Page *page.Page
	// Target is the resolved execution target
	Target Target

	config  TestContextType
	closers []io.Closer
}

// OpenSession opens a browser session on target
func OpenSession(ctx context.Context, target Target, timeouts driver.Timeouts, execPath string) (driver.Session, error) {
	switch target.Mode {
	case Local, Headless, Remote:
		s, err := selenium.New(ctx, seleniumConfig(target, timeouts))
		if err != nil {
			return nil, trace.Wrap(err)
		}
		return s, nil
	case ChromeDriver:
		s, err := agouti.New(ctx, agouti.Config{
			Capabilities: target.Capabilities,
			Timeouts:     timeouts,
		})
		if err != nil {
			return nil, trace.Wrap(err)
		}
		return s, nil
	case CDP:
		s, err := cdp.New(ctx, cdp.Config{
			ExecPath:     execPath,
			Capabilities: target.Capabilities,
			Timeouts:     timeouts,
		})
		if err != nil {
			return nil, trace.Wrap(err)
		}
		return s, nil
	}
	return nil, trace.BadParameter("unknown target mode %q", target.Mode)
}

// seleniumConfig verifies the server certificate only for targets with StrictSSL
func seleniumConfig(target Target, timeouts driver.Timeouts) selenium.Config {
	return selenium.Config{
		URL:                target.URL(),
		Capabilities:       target.Capabilities,
		Timeouts:           timeouts,
		InsecureSkipVerify: !target.StrictSSL,
	}
}

// openSession is replaced in tests
var openSession = OpenSession

// NewSuite configures logging and reporting and opens the browser session.
// Step records go to the Allure writer, the log and the extra reporters
func NewSuite(ctx context.Context, config TestContextType, extra ...report.Reporter) (suite *Suite, err error) {
	target, err := config.ResolveTarget()
	if err != nil {
		return nil, trace.Wrap(err)
	}

	suite = &Suite{Target: *target, config: config}
	defer func() {
		if err != nil {
			suite.Close()
		}
	}()

	logger, err := suite.newLogger(ctx)
	if err != nil {
		return nil, trace.Wrap(err)
	}
	suite.FieldLogger = logger.WithField(constants.FieldTarget, target.Mode)

	suite.Allure, err = report.NewAllure(config.ReportDir)
	if err != nil {
		return nil, trace.Wrap(err)
	}
	if config.CleanReportDir {
		if err := system.RemoveContents(config.ReportDir); err != nil {
			return nil, trace.Wrap(err)
		}
	}

	timeouts := driver.Timeouts{
		Timeout:  config.Timeouts.Wait.Or(defaults.WaitTimeout),
		Interval: config.Timeouts.Poll.Or(defaults.PollInterval),
	}
	suite.Session, err = openSession(ctx, *target, timeouts, config.Target.ExecPath)
	if err != nil {
		return nil, trace.Wrap(err)
	}
	suite.closers = append(suite.closers, suite.Session)

	reporters := append([]report.Reporter{suite.Allure, report.NewLog(suite.FieldLogger)}, extra...)
	suite.Page = page.New(suite.Session,
		report.Multi(reporters...),
		page.WithLogger(suite.FieldLogger),
		page.WithCountTimeout(config.Timeouts.Count.Or(defaults.CountTimeout)))
	suite.Info("suite session ready")
	return suite, nil
}

func (r *Suite) newLogger(ctx context.Context) (*logrus.Logger, error) {
	var out io.Writer
	if r.config.LogFile != "" {
		file := xlog.FileOutput(r.config.LogFile)
		r.closers = append(r.closers, file)
		out = file
	}
	logger := xlog.ConsoleLogger(logrus.InfoLevel, out)
	if r.config.CloudLoggingProject == "" {
		return logger, nil
	}
	client, err := xlog.NewGCLClient(ctx, r.config.CloudLoggingProject)
	if err != nil {
		return nil, trace.Wrap(err)
	}
	r.closers = append(r.closers, client)
	logger.Hooks.Add(client.Hook(defaults.LogName, logrus.Fields{
		constants.FieldTarget: string(r.Target.Mode),
	}))
	return logger, nil
}

// Close ends the browser session and flushes the logs.
// Resources are released in reverse order of acquisition
func (r *Suite) Close() error {
	var errors []error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i].Close(); err != nil {
			errors = append(errors, err)
		}
	}
	r.closers = nil
	return trace.NewAggregate(errors...)
}

// Publish uploads the report directory if publishing is configured
func (r *Suite) Publish(ctx context.Context) error {
	if r.config.Publish.Bucket == "" {
		return nil
	}
	publisher, err := report.NewPublisher(r.config.Publish)
	if err != nil {
		return trace.Wrap(err)
	}
	_, err = publisher.Publish(ctx, r.config.ReportDir)
	return trace.Wrap(err)
}

// SetupSession opens the global suite session from TestContext
func SetupSession() {
	var err error
	Current, err = NewSuite(context.TODO(), TestContext)
	Expect(err).NotTo(HaveOccurred())
}

// TeardownSession closes the global suite session and publishes the report
func TeardownSession() {
	if Current == nil {
		return
	}
	Expect(Current.Close()).To(Succeed())
	Expect(Current.Publish(context.TODO())).To(Succeed())
	Current = nil
}
