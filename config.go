package main

import (
	"github.com/gravitational/uitest/e2e/framework"
	"github.com/gravitational/uitest/lib/config"
	"github.com/gravitational/uitest/lib/defaults"
	"github.com/gravitational/uitest/lib/report"

	"github.com/gravitational/configure"
	"github.com/gravitational/trace"
)

// publishConfig defines a report upload
type publishConfig struct {
	report.PublishConfig
	// Dir is the results directory to upload
	Dir string
}

type publishFlags struct {
	dir, bucket, region, prefix string
}

// newPublishConfig layers the suite configuration file, the environment
// and the command line flags, in increasing order of precedence
func newPublishConfig(path string, flags publishFlags) (*publishConfig, error) {
	var cfg publishConfig
	if path != "" {
		var ctx framework.TestContextType
		if err := config.Load(path, &ctx); err != nil {
			return nil, trace.Wrap(err)
		}
		cfg.PublishConfig = ctx.Publish
		cfg.Dir = ctx.ReportDir
	} else if err := configure.ParseEnv(&cfg.PublishConfig); err != nil {
		return nil, trace.Wrap(err)
	}

	override(&cfg.Dir, flags.dir)
	override(&cfg.Bucket, flags.bucket)
	override(&cfg.Region, flags.region)
	override(&cfg.Prefix, flags.prefix)
	if cfg.Dir == "" {
		cfg.Dir = defaults.ReportDir
	}
	if err := cfg.Check(); err != nil {
		return nil, trace.Wrap(err)
	}
	return &cfg, nil
}

func override(field *string, value string) {
	if value != "" {
		*field = value
	}
}
