package idx

import (
	"fmt"
	"time"

	"github.com/DaniellePashayan/post-rejections-idx/internal/infra/browser"
	"github.com/DaniellePashayan/post-rejections-idx/internal/infra/logger"
)

const (
	usernameSel    = "#username"
	passwordSel    = "#password"
	loginButtonSel = "#pfh-login-module-button-login"
)

// LoginPage drives the IDX sign-in screen.
type LoginPage struct {
	drv browser.Driver
	url string
}

func NewLoginPage(drv browser.Driver, url string) *LoginPage {
	return &LoginPage{drv: drv, url: url}
}

// Navigate opens the login URL.
func (p *LoginPage) Navigate() error {
	return p.drv.Goto(p.url)
}

// Login enters credentials and submits. Absence of the login fields at
// startup is fatal; failure to reach the application shell afterwards is
// reported as an error too.
func (p *LoginPage) Login(username, password string) error {
	if err := p.drv.WaitVisible(usernameSel, 10*time.Second); err != nil {
		return fmt.Errorf("login form not available: %w", err)
	}
	if err := p.drv.SetText(usernameSel, username); err != nil {
		return err
	}
	if err := p.drv.SetText(passwordSel, password); err != nil {
		return err
	}
	if err := p.drv.Click(loginButtonSel); err != nil {
		return err
	}

	if err := p.drv.WaitVisible(vtbButtonSel, 30*time.Second); err != nil {
		return fmt.Errorf("application shell did not load after login: %w", err)
	}
	logger.Log.Info("Logged in to IDX.")
	return nil
}
