package framework

import (
	"io/ioutil"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
start_url: https://mdr.example.com/
login:
  username: alice
  password: secret
target:
  mode: LOCAL
timeouts:
  wait: 20s
publish:
  bucket: uitest-reports
  region: us-east-1
`

func TestLoadTestContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "uitest.yaml")
	require.NoError(t, ioutil.WriteFile(path, []byte(testConfig), 0644))

	require.NoError(t, LoadTestContext(path))

	assert.Equal(t, "https://mdr.example.com/", TestContext.StartURL)
	assert.Equal(t, Login{Username: "alice", Password: "secret"}, TestContext.Login)
	assert.Equal(t, Local, TestContext.Target.Mode)
	assert.Equal(t, 20*time.Second, TestContext.Timeouts.Wait.Duration)
	assert.Equal(t, "allure-results", TestContext.ReportDir)
	assert.Equal(t, "uitest-reports", TestContext.Publish.Bucket)
}

func TestLoadTestContextFromEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "uitest.yaml")
	require.NoError(t, ioutil.WriteFile(path, []byte(testConfig), 0644))
	t.Setenv("SELENIUM_SERVER", "REMOTE")
	t.Setenv("SELENIUM_SERVER_URL", "selenium.ci.internal")
	t.Setenv("UITEST_USERNAME", "bob")

	require.NoError(t, LoadTestContext(path))

	assert.Equal(t, Remote, TestContext.Target.Mode)
	assert.Equal(t, "bob", TestContext.Login.Username)
	target, err := TestContext.ResolveTarget()
	require.NoError(t, err)
	assert.Equal(t, "http://selenium.ci.internal:4444/", target.URL())
}

func TestLoadTestContextRejectsInvalid(t *testing.T) {
	var testCases = []struct {
		comment string
		config  string
	}{
		{"missing mode", `{"start_url":"https://mdr.example.com","login":{"username":"alice","password":"secret"}}`},
		{"unknown mode", `{"start_url":"https://mdr.example.com","login":{"username":"alice","password":"secret"},"target":{"mode":"SAUCE"}}`},
		{"missing login", `{"start_url":"https://mdr.example.com","target":{"mode":"LOCAL"}}`},
		{"missing start url", `{"login":{"username":"alice","password":"secret"},"target":{"mode":"LOCAL"}}`},
		{"incomplete publish", `{"start_url":"https://mdr.example.com","login":{"username":"alice","password":"secret"},"target":{"mode":"LOCAL"},"publish":{"bucket":"reports"}}`},
	}
	for _, tc := range testCases {
		t.Run(tc.comment, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "uitest.json")
			require.NoError(t, ioutil.WriteFile(path, []byte(tc.config), 0644))
			assert.Error(t, LoadTestContext(path))
		})
	}
}
