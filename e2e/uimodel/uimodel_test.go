package uimodel_test

import (
	"context"
	"errors"
	"strings"

	"github.com/gravitational/uitest/driver/drivertest"
	"github.com/gravitational/uitest/e2e/uimodel"
	"github.com/gravitational/uitest/e2e/uimodel/page"
	"github.com/gravitational/uitest/e2e/uimodel/utils"
	"github.com/gravitational/uitest/lib/report"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

const (
	existingDescription = `//*[starts-with(@id,"assetLocaleEditTextTextareadescriptionlocaletest")]`
	newDescription      = `//*[starts-with(@id,"assetLocaleEditTextTextareadescription")]`
)

// methods returns the recorded calls of method in order
func methods(session *drivertest.Session, method string) (locators []string) {
	for _, call := range session.Calls() {
		if call.Method == method {
			locators = append(locators, call.Locator)
		}
	}
	return locators
}

var _ = Describe("UI model", func() {
	var (
		ctx     context.Context
		session *drivertest.Session
		trail   *report.Trail
		ui      uimodel.UI
	)

	BeforeEach(func() {
		ctx = context.Background()
		session = drivertest.NewSession()
		trail = &report.Trail{}
		ui = uimodel.New(page.New(session, trail))
	})

	Describe("InitWithUser", func() {
		It("should sign in and wait for the dashboard", func() {
			p := page.New(session, trail)
			_, err := uimodel.InitWithUser(ctx, p, "https://mdr.example.com/", uimodel.Credentials{
				Username: "alice",
				Password: "secret",
			})
			Expect(err).NotTo(HaveOccurred())

			url, _ := session.URL(ctx)
			Expect(url).To(Equal("https://mdr.example.com/"))
			Expect(session.Element("#username").Val).To(Equal("alice"))
			Expect(session.Element("#password").Val).To(Equal("secret"))
			Expect(methods(session, drivertest.Click)).To(Equal([]string{"#username", "#password", "#btnSubmit"}))
			Expect(methods(session, drivertest.WaitForDisplayed)).To(Equal([]string{"#btnSubmit", "#fdxMainNavMenu"}))
			Expect(trail.Statuses()).NotTo(ContainElement(report.Failed))
		})

		It("should not reveal the password in step names", func() {
			_, err := uimodel.InitWithUser(ctx, page.New(session, trail), "https://mdr.example.com/", uimodel.Credentials{
				Username: "alice",
				Password: "secret",
			})
			Expect(err).NotTo(HaveOccurred())
			for _, line := range trail.Lines() {
				Expect(line.Name).NotTo(ContainSubstring("secret"))
			}
		})

		It("should fail when the login form never shows up", func() {
			session.Element("#btnSubmit").Missing()

			_, err := uimodel.InitWithUser(ctx, page.New(session, trail), "https://mdr.example.com/", uimodel.Credentials{})

			var ierr *page.InteractionError
			Expect(errors.As(err, &ierr)).To(BeTrue())
			Expect(ierr.Op).To(Equal("wait-for-displayed"))
			Expect(ierr.Locator).To(Equal("#btnSubmit"))
			Expect(session.CallCount("#username", drivertest.Click)).To(BeZero())
		})
	})

	Describe("Dashboard", func() {
		It("should navigate to the data acquisition forms", func() {
			dashboard := ui.Dashboard()
			Expect(dashboard.HoverRepositoryMenu(ctx)).To(Succeed())
			Expect(dashboard.TapRepositoryStudies(ctx)).To(Succeed())
			Expect(dashboard.HoverTechStudyMenuAndClickView(ctx)).To(Succeed())
			Expect(dashboard.TapDataAcquisition(ctx)).To(Succeed())
			Expect(dashboard.TapDataAcquisitionForms(ctx)).To(Succeed())
			Expect(dashboard.TapMedicalHistory(ctx)).To(Succeed())
			Expect(dashboard.TapEditMedicalHistory(ctx)).To(Succeed())

			Expect(methods(session, drivertest.Click)).To(Equal([]string{
				"#menuMdb",
				"#menuMdbStudies",
				`[id="fdxMdbContainerListItem0Wrapper"] .container-item-dropmenu`,
				"#fdxMdbContainerListItem0View",
				"#ViewAssetGroupdataAcquisition",
				"#FORMTypeView",
				`//*[@class="secondary"]/child::span[contains(text(),"Medical History")]`,
				"#switchEditMode",
			}))
			Expect(methods(session, drivertest.MoveTo)).To(Equal([]string{
				"#menuMdb",
				`[id="fdxMdbContainerListItem0Wrapper"] .container-item-dropmenu`,
			}))
		})

		It("should recover from a menu that is not yet interactable", func() {
			session.Element("#menuMdbStudies").FailNext(drivertest.Click, 2, errors.New("element click intercepted"))

			Expect(ui.Dashboard().TapRepositoryStudies(ctx)).To(Succeed())
			Expect(trail.Statuses()).To(Equal([]report.Status{report.Skipped, report.Skipped, report.Passed}))
		})

		It("should edit an existing description", func() {
			dashboard := ui.Dashboard()

			description, err := dashboard.EditOrAddDescription(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(description).To(HaveLen(15))
			Expect(session.Element(existingDescription).Val).To(Equal(description))
			Expect(session.CallCount("#editPropsAddEntrydescription", drivertest.Click)).To(BeZero())
			Expect(session.CallCount("#saveAsset", drivertest.Click)).To(Equal(1))

			text, err := dashboard.DescriptionText(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(text).To(Equal(description))
		})

		It("should add a description when the form has none", func() {
			session.Element(existingDescription).Displayed = false

			description, err := ui.Dashboard().EditOrAddDescription(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(methods(session, drivertest.Click)).To(Equal([]string{
				"#editPropsAddEntrydescription",
				newDescription,
				"#localeInputdescription",
				"#saveAsset",
			}))
			Expect(session.Element(newDescription).Val).To(Equal(description))
			Expect(session.Element("#localeInputdescription").Val).To(HaveLen(7))
		})

		It("should compare the saved description with the form label", func() {
			dashboard := ui.Dashboard()
			description, err := dashboard.EditOrAddDescription(ctx)
			Expect(err).NotTo(HaveOccurred())
			session.Element("#formDescription").TextValue = description

			Expect(dashboard.HoverUserMenuAndClickLogout(ctx)).To(Succeed())
			text, err := dashboard.DescriptionText(ctx)
			Expect(err).NotTo(HaveOccurred())
			label, err := dashboard.DescriptionLabel(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(text).To(Equal(label))
		})
	})

	Describe("RandomString", func() {
		It("should draw from the alphabet", func() {
			s := utils.RandomString(64)
			Expect(s).To(HaveLen(64))
			for _, c := range s {
				Expect(strings.ContainsRune(utils.Alphabet, c)).To(BeTrue())
			}
			Expect(utils.RandomString(0)).To(BeEmpty())
		})
	})
})
