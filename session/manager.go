// Package session establishes and persists the authenticated browser session.
package session

import (
	"context"
	"fmt"

	"shop-automation/adapters"
	"shop-automation/internal/prompt"
	"shop-automation/internal/types"
	"shop-automation/utils"
)

// Mode selects how Establish obtains a session
type Mode int

const (
	// ModeRestore reuses saved cookies and logs in only if they are stale
	ModeRestore Mode = iota
	// ModeForceLogin always performs a credential login
	ModeForceLogin
	// ModeManual lets a human log in through the visible browser
	ModeManual
)

func (m Mode) String() string {
	switch m {
	case ModeForceLogin:
		return "force-login"
	case ModeManual:
		return "manual"
	default:
		return "restore"
	}
}

// Manager is the only reader and writer of the session file at runtime
type Manager struct {
	adapter  *adapters.SuperValuAdapter
	store    *Store
	driver   types.Driver
	creds    types.Credentials
	prompter prompt.Prompter
	config   *types.Config
	logger   types.Logger
}

// NewManager creates a session manager working on driver's tab
func NewManager(config *types.Config, logger types.Logger, driver types.Driver, store *Store, creds types.Credentials, prompter prompt.Prompter) *Manager {
	return &Manager{
		adapter:  adapters.NewSuperValuAdapter(config, logger, driver),
		store:    store,
		driver:   driver,
		creds:    creds,
		prompter: prompter,
		config:   config,
		logger:   logger,
	}
}

// Establish leaves the tab on the storefront with an authenticated session
// and the session file updated. Errors are fatal to the calling command.
func (m *Manager) Establish(ctx context.Context, mode Mode) error {
	m.logger.Infof("Navigating to SuperValu (session mode: %s)...", mode)
	if err := m.adapter.Open(ctx, m.adapter.HomeURL()); err != nil {
		return fmt.Errorf("failed to open storefront: %w", err)
	}
	if err := m.adapter.DismissCookieConsent(ctx); err != nil {
		return err
	}

	switch mode {
	case ModeManual:
		if err := m.manualLogin(ctx); err != nil {
			return err
		}
	case ModeForceLogin:
		m.logger.Info("Forcing fresh login...")
		if err := m.login(ctx); err != nil {
			return err
		}
	default:
		if err := m.restore(ctx); err != nil {
			return err
		}
	}

	return m.persist(ctx)
}

func (m *Manager) restore(ctx context.Context) error {
	cookies, ok, err := m.store.Load()
	if err != nil {
		m.logger.Warnf("Ignoring saved session: %v", err)
	}
	if !ok {
		m.logger.Info("No valid cookies found, logging in...")
		return m.login(ctx)
	}

	m.logger.Info("Using saved cookies...")
	if err := m.driver.SetCookies(ctx, cookies); err != nil {
		return fmt.Errorf("failed to restore cookies: %w", err)
	}
	if err := m.driver.Reload(ctx); err != nil {
		return fmt.Errorf("failed to apply cookies: %w", err)
	}
	if err := utils.Sleep(ctx, m.config.SettleDelay); err != nil {
		return err
	}

	loggedIn, err := m.adapter.IsLoggedIn(ctx)
	if err != nil {
		return fmt.Errorf("failed to verify session: %w", err)
	}
	if !loggedIn {
		m.logger.Warn("Saved cookies expired, logging in again...")
		return m.login(ctx)
	}
	m.logger.Info("Successfully restored session")
	return nil
}

func (m *Manager) login(ctx context.Context) error {
	if m.creds.Empty() {
		return types.ErrNoCredentials
	}

	m.logger.Info("Logging in to SuperValu...")
	if err := m.adapter.Open(ctx, m.adapter.LoginURL()); err != nil {
		return fmt.Errorf("failed to open login page: %w", err)
	}
	if err := m.adapter.SubmitLogin(ctx, m.creds); err != nil {
		return err
	}
	if err := utils.Sleep(ctx, m.config.LoginSettleDelay); err != nil {
		return err
	}

	loggedIn, err := m.adapter.IsLoggedIn(ctx)
	if err != nil {
		return fmt.Errorf("failed to verify login: %w", err)
	}
	if !loggedIn {
		return types.ErrLoginFailed
	}
	m.logger.Info("Successfully logged in")
	return nil
}

func (m *Manager) manualLogin(ctx context.Context) error {
	if err := m.prompter.Acknowledge(ctx, "Please login to SuperValu manually in the browser window.\nWhen you're done logging in, press Enter here to save cookies..."); err != nil {
		return fmt.Errorf("failed to wait for manual login: %w", err)
	}
	loggedIn, err := m.adapter.IsLoggedIn(ctx)
	if err != nil {
		return fmt.Errorf("failed to verify login: %w", err)
	}
	if !loggedIn {
		m.logger.Warn("You don't appear to be logged in, saving cookies anyway")
	}
	return nil
}

func (m *Manager) persist(ctx context.Context) error {
	cookies, err := m.driver.Cookies(ctx)
	if err != nil {
		return fmt.Errorf("failed to read session cookies: %w", err)
	}
	if err := m.store.Save(cookies); err != nil {
		return err
	}
	m.logger.Infof("Cookies saved to: %s", m.store.Path())
	return nil
}
