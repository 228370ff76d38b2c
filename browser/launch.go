package browser

import (
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/use-agent/jobpilot/config"
	"github.com/use-agent/jobpilot/models"
)

// Launch starts a Chromium under Rod control and opens the single tab the
// run works in. The returned driver owns the browser process.
func Launch(browserCfg config.BrowserConfig, navTimeout time.Duration) (*RodDriver, error) {
	l := launcher.New().
		Headless(browserCfg.Headless).
		NoSandbox(browserCfg.NoSandbox)

	if browserCfg.BrowserBin != "" {
		l = l.Bin(browserCfg.BrowserBin)
	}
	if browserCfg.Proxy != "" {
		l = l.Proxy(browserCfg.Proxy)
	}

	// ── Stealth flags ────────────────────────────────────────────────
	l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	l.Delete(flags.Flag("enable-automation"))
	l.Set(flags.Flag("disable-features"), "TranslateUI")
	l.Set(flags.Flag("disable-popup-blocking"))
	l.Set(flags.Flag("disable-default-apps"))
	l.Set(flags.Flag("disable-dev-shm-usage"))
	l.Set(flags.Flag("no-first-run"))

	controlURL, err := l.Launch()
	if err != nil {
		return nil, models.NewError(
			models.ErrCodeBrowserCrash,
			"failed to launch browser",
			err,
		)
	}
	slog.Info("browser launched", "controlURL", controlURL, "headless", browserCfg.Headless)

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		return nil, models.NewError(
			models.ErrCodeBrowserCrash,
			"failed to connect to browser",
			err,
		)
	}

	page, err := b.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = b.Close()
		return nil, models.NewError(
			models.ErrCodeBrowserCrash,
			"failed to open tab",
			err,
		)
	}

	// Stealth and hijacking only apply to navigations that happen after
	// they are installed.
	if browserCfg.Stealth {
		if _, evalErr := page.EvalOnNewDocument(stealth.JS); evalErr != nil {
			slog.Warn("stealth injection failed, proceeding without stealth",
				"error", evalErr,
			)
		}
	}

	if browserCfg.AcceptLanguage != "" {
		if hdrErr := (proto.NetworkSetExtraHTTPHeaders{
			Headers: toHeadersMap(map[string]string{"Accept-Language": browserCfg.AcceptLanguage}),
		}).Call(page); hdrErr != nil {
			slog.Warn("failed to set extra headers", "error", hdrErr)
		}
	}

	router := setupHijack(page, browserCfg.BlockedResourceTypes, browserCfg.BlockAds)

	return &RodDriver{
		browser:    b,
		page:       page,
		router:     router,
		navTimeout: navTimeout,
	}, nil
}

// Close stops request interception and kills the browser.
func (d *RodDriver) Close() error {
	if d.router != nil {
		_ = d.router.Stop()
	}
	slog.Info("closing browser")
	return d.browser.Close()
}
