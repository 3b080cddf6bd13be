package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/gravitational/uitest/e2e/framework"
	"github.com/gravitational/uitest/e2e/uimodel"
	"github.com/gravitational/uitest/lib/config"
	"github.com/gravitational/uitest/lib/report"

	"github.com/dustin/go-humanize"
	"github.com/gravitational/trace"
	log "github.com/sirupsen/logrus"
)

func printTarget(w io.Writer, mode framework.Mode, remoteServer string) error {
	target, err := framework.ResolveTarget(mode, remoteServer)
	if err != nil {
		return trace.Wrap(err)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return trace.Wrap(enc.Encode(target))
}

// check opens a session on the configured target and verifies the start page
// serves the login form. With login set it also signs in with the configured user
func check(w io.Writer, path string, login bool) error {
	var testContext framework.TestContextType
	if err := config.Load(path, &testContext); err != nil {
		return trace.Wrap(err)
	}

	ctx, cancel := signalContext()
	defer cancel()

	trail := &report.Trail{}
	suite, err := framework.NewSuite(ctx, testContext, trail)
	if err != nil {
		return trace.Wrap(err)
	}
	defer suite.Close()

	suite.Allure.StartTest("preflight check", "uitest check")
	err = runCheck(ctx, suite, testContext, login)
	status := report.Passed
	if err != nil {
		status = report.Failed
	}
	if errStop := suite.Allure.StopTest(status, err); errStop != nil {
		log.Warnf("Failed to write check result: %v.", errStop)
	}

	report.RenderTrail(w, trail)
	if err != nil {
		return trace.Wrap(err)
	}
	fmt.Fprintf(w, "%v is reachable on %v\n", testContext.StartURL, suite.Target.Mode)
	return nil
}

func runCheck(ctx context.Context, suite *framework.Suite, testContext framework.TestContextType, login bool) error {
	if login {
		_, err := uimodel.InitWithUser(ctx, suite.Page, testContext.StartURL, uimodel.Credentials{
			Username: testContext.Login.Username,
			Password: testContext.Login.Password,
		})
		return err
	}
	if err := suite.Page.Navigate(ctx, testContext.StartURL); err != nil {
		return err
	}
	return uimodel.New(suite.Page).Login().IsLoaded(ctx)
}

func publish(w io.Writer, cfg publishConfig) error {
	publisher, err := report.NewPublisher(cfg.PublishConfig)
	if err != nil {
		return trace.Wrap(err)
	}

	ctx, cancel := signalContext()
	defer cancel()

	summary, err := publisher.Publish(ctx, cfg.Dir)
	if err != nil {
		return trace.Wrap(err)
	}
	fmt.Fprintf(w, "uploaded %v files, %v to s3://%v/%v\n",
		summary.Files, humanize.Bytes(summary.Bytes), cfg.Bucket, cfg.Prefix)
	return nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
