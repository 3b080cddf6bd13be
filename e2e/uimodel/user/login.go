package user

import (
	"context"

	"github.com/gravitational/uitest/e2e/uimodel/page"

	log "github.com/sirupsen/logrus"
)

const (
	emailInput    = "#username"
	passwordInput = "#password"
	loginButton   = "#btnSubmit"
)

// LoginPage is the sign-in form of the application
type LoginPage struct {
	page *page.Page
}

// NewLoginPage returns the login page object operating on p
func NewLoginPage(p *page.Page) LoginPage {
	return LoginPage{page: p}
}

// IsLoaded waits until the login form can be submitted
func (u LoginPage) IsLoaded(ctx context.Context) error {
	_, err := u.page.WaitForDisplayed(ctx, loginButton)
	return err
}

// LoginExistingUser signs in with username and password
func (u LoginPage) LoginExistingUser(ctx context.Context, username, password string) error {
	log.Infof("logging in as %v", username)
	if err := u.page.SendKeys(ctx, emailInput, username); err != nil {
		return err
	}
	if err := u.page.SendKeys(ctx, passwordInput, password, page.Masked()); err != nil {
		return err
	}
	return u.page.Click(ctx, loginButton)
}
