package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/gravitational/uitest/e2e/framework"
	"github.com/gravitational/uitest/lib/defaults"

	"github.com/gravitational/trace"
	"github.com/stretchr/testify/require"
)

func TestPrintTarget(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printTarget(&buf, framework.Remote, "grid.example.com"))

	var target framework.Target
	require.NoError(t, json.Unmarshal(buf.Bytes(), &target))
	require.Equal(t, framework.Remote, target.Mode)
	require.Equal(t, "grid.example.com", target.Server)
	require.Equal(t, 4444, target.Port)
	require.True(t, target.StrictSSL)

	err := printTarget(&buf, framework.Mode("SAFARI"), "")
	require.True(t, trace.IsBadParameter(err), "%v", err)
}

func TestPublishConfigFromEnvironment(t *testing.T) {
	t.Setenv("UITEST_PUBLISH_BUCKET", "reports")
	t.Setenv("UITEST_PUBLISH_REGION", "us-east-1")

	cfg, err := newPublishConfig("", publishFlags{prefix: "nightly"})
	require.NoError(t, err)
	require.Equal(t, "reports", cfg.Bucket)
	require.Equal(t, "us-east-1", cfg.Region)
	require.Equal(t, "nightly", cfg.Prefix)
	require.Equal(t, defaults.ReportDir, cfg.Dir)
}

func TestPublishConfigFlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	err := os.WriteFile(path, []byte(`
start_url: https://app.example.com/
login:
  username: alice
  password: secret
target:
  mode: HEADLESS
report_dir: results
publish:
  bucket: reports
  region: eu-west-1
`), 0644)
	require.NoError(t, err)

	cfg, err := newPublishConfig(path, publishFlags{bucket: "other"})
	require.NoError(t, err)
	require.Equal(t, "other", cfg.Bucket)
	require.Equal(t, "eu-west-1", cfg.Region)
	require.Equal(t, "results", cfg.Dir)
}

func TestPublishConfigRequiresBucket(t *testing.T) {
	t.Setenv("UITEST_PUBLISH_BUCKET", "")
	_, err := newPublishConfig("", publishFlags{region: "us-east-1"})
	require.Error(t, err)
}
