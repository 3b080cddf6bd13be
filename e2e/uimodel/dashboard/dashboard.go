// Package dashboard models the main navigation and the form editor of the repository.
package dashboard

import (
	"context"

	"github.com/gravitational/uitest/e2e/uimodel/defaults"
	"github.com/gravitational/uitest/e2e/uimodel/page"
	"github.com/gravitational/uitest/e2e/uimodel/utils"
)

const (
	tabMenu             = "#fdxMainNavMenu"
	repositoryMenu      = "#menuMdb"
	repositoryStudies   = "#menuMdbStudies"
	techStudiesMenu     = `[id="fdxMdbContainerListItem0Wrapper"] .container-item-dropmenu`
	viewStudy           = "#fdxMdbContainerListItem0View"
	dataAcquisition     = "#ViewAssetGroupdataAcquisition"
	dataAcquisitionForm = "#FORMTypeView"
	medicalHistory      = `//*[@class="secondary"]/child::span[contains(text(),"Medical History")]`
	editMedicalHistory  = "#switchEditMode"
	descriptionLabel    = "#formDescription"
	existingDescription = `//*[starts-with(@id,"assetLocaleEditTextTextareadescriptionlocaletest")]`
	userMenu            = "#menuUser"
	userLogout          = "#menuUserLogout"
	addDescription      = "#editPropsAddEntrydescription"
	newDescription      = `//*[starts-with(@id,"assetLocaleEditTextTextareadescription")]`
	localeInput         = "#localeInputdescription"
	saveAsset           = "#saveAsset"
)

// Dashboard is the landing page after sign-in
type Dashboard struct {
	page *page.Page
}

// New returns the dashboard page object operating on p
func New(p *page.Page) Dashboard {
	return Dashboard{page: p}
}

// IsLoaded waits until the main navigation is displayed
func (d Dashboard) IsLoaded(ctx context.Context) error {
	_, err := d.page.WaitForDisplayed(ctx, tabMenu)
	return err
}

// HoverRepositoryMenu opens the repository menu
func (d Dashboard) HoverRepositoryMenu(ctx context.Context) error {
	return d.page.MoveToAndClick(ctx, repositoryMenu)
}

// HoverUserMenuAndClickLogout signs the user out
func (d Dashboard) HoverUserMenuAndClickLogout(ctx context.Context) error {
	if err := d.page.MoveToAndClick(ctx, userMenu); err != nil {
		return err
	}
	return d.page.Click(ctx, userLogout)
}

// HoverTechStudyMenuAndClickView opens the first study of the list
func (d Dashboard) HoverTechStudyMenuAndClickView(ctx context.Context) error {
	if err := d.page.MoveToAndClick(ctx, techStudiesMenu); err != nil {
		return err
	}
	return d.page.Click(ctx, viewStudy)
}

func (d Dashboard) TapRepositoryStudies(ctx context.Context) error {
	return d.page.Click(ctx, repositoryStudies)
}

func (d Dashboard) TapDataAcquisition(ctx context.Context) error {
	return d.page.Click(ctx, dataAcquisition)
}

func (d Dashboard) TapMedicalHistory(ctx context.Context) error {
	return d.page.Click(ctx, medicalHistory)
}

func (d Dashboard) TapEditMedicalHistory(ctx context.Context) error {
	return d.page.Click(ctx, editMedicalHistory)
}

func (d Dashboard) TapDataAcquisitionForms(ctx context.Context) error {
	return d.page.Click(ctx, dataAcquisitionForm)
}

// EditOrAddDescription replaces the form description with a random one,
// adding a description entry with a random locale if the form has none.
// It saves the form and returns the description typed
func (d Dashboard) EditOrAddDescription(ctx context.Context) (string, error) {
	description := utils.RandomString(defaults.DescriptionLength)
	existing, err := d.page.IsVisible(ctx, existingDescription)
	if err != nil {
		return "", err
	}
	if existing {
		if err := d.page.SendKeys(ctx, existingDescription, description); err != nil {
			return "", err
		}
	} else {
		if err := d.page.Click(ctx, addDescription); err != nil {
			return "", err
		}
		if err := d.page.SendKeys(ctx, newDescription, description); err != nil {
			return "", err
		}
		if err := d.page.SendKeys(ctx, localeInput, utils.RandomString(defaults.LocaleLength)); err != nil {
			return "", err
		}
	}
	if err := d.page.Click(ctx, saveAsset); err != nil {
		return "", err
	}
	return description, nil
}

// DescriptionText returns the value of the first description editor
func (d Dashboard) DescriptionText(ctx context.Context) (string, error) {
	return d.page.ValueAt(ctx, existingDescription, 0)
}

// DescriptionLabel returns the description shown on the form
func (d Dashboard) DescriptionLabel(ctx context.Context) (string, error) {
	return d.page.Text(ctx, descriptionLabel)
}
