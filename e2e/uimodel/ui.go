package uimodel

import (
	"context"

	"github.com/gravitational/uitest/e2e/uimodel/dashboard"
	"github.com/gravitational/uitest/e2e/uimodel/page"
	"github.com/gravitational/uitest/e2e/uimodel/user"

	log "github.com/sirupsen/logrus"
)

// Credentials identifies the user to sign in with
type Credentials struct {
	Username string
	Password string
}

// UI is a facade for accessing high level ui model objects
type UI struct {
	page *page.Page
}

// New returns the facade over p without navigating
func New(p *page.Page) UI {
	return UI{page: p}
}

// InitWithUser navigates to given URL, signs in and waits for the dashboard
func InitWithUser(ctx context.Context, p *page.Page, url string, login Credentials) (*UI, error) {
	log.Infof("ensuring a logged in user at %s", url)
	ui := New(p)
	if err := p.Navigate(ctx, url); err != nil {
		return nil, err
	}
	loginPage := ui.Login()
	if err := loginPage.IsLoaded(ctx); err != nil {
		return nil, err
	}
	if err := loginPage.LoginExistingUser(ctx, login.Username, login.Password); err != nil {
		return nil, err
	}
	if err := ui.Dashboard().IsLoaded(ctx); err != nil {
		return nil, err
	}
	return &ui, nil
}

// Login returns the login page object
func (u UI) Login() user.LoginPage {
	return user.NewLoginPage(u.page)
}

// Dashboard returns the dashboard page object
func (u UI) Dashboard() dashboard.Dashboard {
	return dashboard.New(u.page)
}
