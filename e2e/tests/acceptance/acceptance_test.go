package acceptance

import (
	"context"

	"github.com/gravitational/uitest/e2e/framework"
	"github.com/gravitational/uitest/e2e/uimodel"
	"github.com/gravitational/uitest/e2e/uimodel/dashboard"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = framework.UIDescribe("Acceptance Tests - Login, navigate and logout feature", func() {
	framework.ReportHooks()

	var (
		ctx  = context.TODO()
		dash dashboard.Dashboard
	)

	BeforeEach(func() {
		dash = uimodel.New(framework.Current.Page).Dashboard()
	})

	It("Login, navigate and logout feature", func() {
		login := uimodel.New(framework.Current.Page).Login()
		framework.GoToHome(ctx)
		Expect(login.IsLoaded(ctx)).To(Succeed())
		Expect(login.LoginExistingUser(ctx,
			framework.TestContext.Login.Username,
			framework.TestContext.Login.Password)).To(Succeed())
		Expect(dash.IsLoaded(ctx)).To(Succeed())
	})

	It("Navigate to 'Repository->Studies' and perform the following actions", func() {
		Expect(dash.HoverRepositoryMenu(ctx)).To(Succeed())
		Expect(dash.TapRepositoryStudies(ctx)).To(Succeed())
		Expect(dash.HoverTechStudyMenuAndClickView(ctx)).To(Succeed())
		Expect(dash.TapDataAcquisition(ctx)).To(Succeed())
		Expect(dash.TapDataAcquisitionForms(ctx)).To(Succeed())
	})

	It("Perform the following user actions: Select to view the 'Medical History' form", func() {
		Expect(dash.TapMedicalHistory(ctx)).To(Succeed())
		Expect(dash.TapEditMedicalHistory(ctx)).To(Succeed())
		_, err := dash.EditOrAddDescription(ctx)
		Expect(err).NotTo(HaveOccurred())
	})

	It("Logout of the application", func() {
		Expect(dash.HoverUserMenuAndClickLogout(ctx)).To(Succeed())
		description, err := dash.DescriptionText(ctx)
		Expect(err).NotTo(HaveOccurred())
		label, err := dash.DescriptionLabel(ctx)
		Expect(err).NotTo(HaveOccurred())
		if description != label {
			framework.Failf("Label form description %q was not equal to the actual description %q", label, description)
		}
	})
})
