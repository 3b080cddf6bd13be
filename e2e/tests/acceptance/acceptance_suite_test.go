package acceptance

import (
	"testing"

	"github.com/gravitational/uitest/e2e/framework"
	"github.com/gravitational/uitest/e2e/framework/defaults"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

func TestAcceptance(t *testing.T) {
	if framework.ConfigFile() == "" {
		t.Skipf("set %v to the suite configuration file to run acceptance tests", defaults.ConfigFileEnv)
	}
	RegisterFailHandler(Fail)
	RunSpecs(t, "Acceptance Suite")
}

var _ = BeforeSuite(func() {
	Expect(framework.LoadTestContext(framework.ConfigFile())).To(Succeed())
	framework.SetupSession()
})

var _ = AfterSuite(func() {
	framework.TeardownSession()
})
