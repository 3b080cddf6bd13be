package framework

import (
	"context"
	"fmt"

	"github.com/gravitational/uitest/e2e/framework/defaults"
	"github.com/gravitational/uitest/lib/report"

	"github.com/gravitational/trace"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

// UIDescribe is local wrapper function for ginkgo.Describe.
// It adds test namespacing.
func UIDescribe(text string, body func()) bool {
	return Describe(defaults.DescribePrefix+text, body)
}

// Failf fails the current spec with a formatted message
func Failf(format string, args ...interface{}) {
	Fail(fmt.Sprintf(format, args...), 1)
}

// ReportHooks records every spec of the enclosing container as an Allure test
func ReportHooks() {
	BeforeEach(func() {
		if Current == nil {
			return
		}
		desc := CurrentGinkgoTestDescription()
		Current.Allure.StartTest(desc.TestText, desc.FullTestText, labels(desc)...)
	})

	AfterEach(func() {
		if Current == nil {
			return
		}
		desc := CurrentGinkgoTestDescription()
		status, err := report.Passed, error(nil)
		if desc.Failed {
			status = report.Failed
			err = trace.Errorf("%v failed at %v:%v", desc.TestText, desc.FileName, desc.LineNumber)
		}
		Expect(Current.Allure.StopTest(status, err)).To(Succeed())
	})
}

func labels(desc GinkgoTestDescription) []report.Label {
	labels := []report.Label{
		{Name: "suite", Value: defaults.SuiteLabel},
		{Name: "framework", Value: "ginkgo"},
	}
	if len(desc.ComponentTexts) > 1 {
		labels = append(labels, report.Label{Name: "feature", Value: desc.ComponentTexts[0]})
	}
	return labels
}

// GoToHome opens the start URL of the application
func GoToHome(ctx context.Context) {
	Expect(Current).NotTo(BeNil(), "browser session is not set up")
	Expect(Current.Page.Navigate(ctx, TestContext.StartURL)).To(Succeed())
}
