package main

import (
	"context"
	"os"

	"github.com/gravitational/uitest/e2e/framework"
	"github.com/gravitational/uitest/e2e/framework/defaults"
	"github.com/gravitational/uitest/lib/debug"

	"github.com/gravitational/configure/cstrings"
	"github.com/gravitational/trace"
	log "github.com/sirupsen/logrus"
	"gopkg.in/alecthomas/kingpin.v2"
)

func main() {
	if err := run(); err != nil {
		log.Errorf(trace.DebugReport(err))
		os.Exit(255)
	}
}

func run() error {
	args, _ := cstrings.SplitAt(os.Args, "--")

	var (
		app      = kingpin.New("uitest", "UI acceptance suite tooling")
		appDebug = app.Flag("debug", "enable debug logging").Bool()
		appPprof = app.Flag("pprof", "serve runtime profiles on this address").String()

		ctarget       = app.Command("target", "print the resolved execution target as JSON")
		ctargetMode   = ctarget.Flag("mode", "execution target mode").Envar("SELENIUM_SERVER").Required().String()
		ctargetRemote = ctarget.Flag("remote", "Selenium server host for REMOTE mode").Envar("SELENIUM_SERVER_URL").String()

		ccheck       = app.Command("check", "open a session, go to the start page and wait for the login form")
		ccheckConfig = ccheck.Flag("config", "path to the suite configuration file").Envar(defaults.ConfigFileEnv).Required().String()
		ccheckLogin  = ccheck.Flag("login", "also sign in and wait for the dashboard").Bool()

		cpublish       = app.Command("publish", "upload a results directory to S3")
		cpublishConfig = cpublish.Flag("config", "path to the suite configuration file").Envar(defaults.ConfigFileEnv).String()
		cpublishDir    = cpublish.Flag("dir", "results directory").String()
		cpublishBucket = cpublish.Flag("bucket", "S3 bucket").String()
		cpublishRegion = cpublish.Flag("region", "AWS region of the bucket").String()
		cpublishPrefix = cpublish.Flag("prefix", "key prefix for uploaded files").String()
	)

	cmd, err := app.Parse(args[1:])
	if err != nil {
		return trace.Wrap(err)
	}

	if *appDebug {
		log.SetLevel(log.DebugLevel)
	}
	if *appPprof != "" {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		if _, err := debug.StartProfiling(ctx, *appPprof); err != nil {
			return trace.Wrap(err)
		}
	}

	switch cmd {
	case ctarget.FullCommand():
		return printTarget(os.Stdout, framework.Mode(*ctargetMode), *ctargetRemote)
	case ccheck.FullCommand():
		return check(os.Stdout, *ccheckConfig, *ccheckLogin)
	case cpublish.FullCommand():
		config, err := newPublishConfig(*cpublishConfig, publishFlags{
			dir:    *cpublishDir,
			bucket: *cpublishBucket,
			region: *cpublishRegion,
			prefix: *cpublishPrefix,
		})
		if err != nil {
			return trace.Wrap(err)
		}
		return publish(os.Stdout, *config)
	}

	return nil
}
