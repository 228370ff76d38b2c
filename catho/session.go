// Package catho drives a logged-in Catho session: search, then apply to
// every eligible posting across the result pages.
package catho

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/use-agent/jobpilot/browser"
	"github.com/use-agent/jobpilot/config"
	"github.com/use-agent/jobpilot/models"
	"github.com/use-agent/jobpilot/site"
	"golang.org/x/time/rate"
)

// LaunchFunc opens the browser the session will own.
type LaunchFunc func(cfg config.BrowserConfig, navTimeout time.Duration) (browser.Driver, error)

// Session is the controller for one browser tab. It issues every command
// sequentially and is not safe for concurrent use.
type Session struct {
	driver   browser.Driver
	creds    config.Credentials
	timeouts config.TimeoutConfig
	pacer    *rate.Limiter
	progress io.Writer
}

// Open checks the credentials and only then launches the browser, so a
// configuration error never leaves a browser behind.
func Open(cfg *config.Config, launch LaunchFunc) (*Session, error) {
	if err := cfg.Credentials.Validate(); err != nil {
		return nil, err
	}
	d, err := launch(cfg.Browser, cfg.Timeouts.Navigation)
	if err != nil {
		return nil, err
	}
	return New(d, cfg), nil
}

// New wraps an already open driver.
func New(d browser.Driver, cfg *config.Config) *Session {
	return &Session{
		driver:   d,
		creds:    cfg.Credentials,
		timeouts: cfg.Timeouts,
		pacer:    newPacer(cfg.Pacing.ApplyInterval),
		progress: os.Stdout,
	}
}

// SetProgress redirects the per-posting progress lines.
func (s *Session) SetProgress(w io.Writer) {
	s.progress = w
}

// Close releases the browser.
func (s *Session) Close() error {
	return s.driver.Close()
}

func newPacer(interval time.Duration) *rate.Limiter {
	if interval <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}

// Login submits the credentials and waits for the candidate area to load.
func (s *Session) Login(ctx context.Context) error {
	slog.Info("logging in", "url", s.creds.LoginURL)
	if err := s.driver.Navigate(ctx, s.creds.LoginURL); err != nil {
		return err
	}

	email, err := s.driver.WaitVisible(ctx, site.EmailInput, s.timeouts.Login)
	if err != nil {
		return models.NewError(models.ErrCodeElementNotFound, "email field not found", err)
	}
	if err := email.Input(s.creds.Username, false); err != nil {
		return models.NewError(models.ErrCodeNavigation, "failed to type username", err)
	}

	pwd, err := s.driver.Element(ctx, site.PasswordInput)
	if err != nil {
		return models.NewError(models.ErrCodeElementNotFound, "password field not found", err)
	}
	if err := pwd.Input(s.creds.Password, true); err != nil {
		return models.NewError(models.ErrCodeNavigation, "failed to submit password", err)
	}

	landing := site.LandingURL(s.creds.BaseURL)
	if err := s.driver.WaitURL(ctx, landing, s.timeouts.Login); err != nil {
		if errors.Is(err, browser.ErrTimeout) {
			return models.NewError(models.ErrCodeLoginTimeout, "login did not reach "+landing, err)
		}
		return err
	}
	slog.Info("logged in")
	return nil
}

// Search opens the results page for term, optionally narrowed to location,
// and closes the app banner when it shows up.
func (s *Session) Search(ctx context.Context, term, location string) error {
	u := site.SearchURL(s.creds.BaseURL, term, location)
	slog.Info("searching", "term", term, "location", location, "url", u)
	if err := s.driver.Navigate(ctx, u); err != nil {
		return err
	}
	return s.closeBanner(ctx)
}

func (s *Session) closeBanner(ctx context.Context) error {
	btn, err := s.driver.Element(ctx, site.BannerClose)
	if errors.Is(err, browser.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	slog.Debug("closing app banner")
	return btn.Click()
}
