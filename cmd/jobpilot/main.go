package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/use-agent/jobpilot/browser"
	"github.com/use-agent/jobpilot/catho"
	"github.com/use-agent/jobpilot/config"
	"github.com/use-agent/jobpilot/models"
	"github.com/use-agent/jobpilot/webhook"
)

var (
	envFile     = flag.String("env", ".env", "Path of the .env file holding the CATHO_* variables")
	profilePath = flag.String("profile", "", "YAML run profile (term, location, max_pages, blacklist)")
	term        = flag.String("term", "", "Search term; overrides the profile")
	location    = flag.String("location", "", "Location to narrow the search to; overrides the profile")
	pages       = flag.Int("pages", 0, "Maximum number of result pages; overrides the profile")
	blacklist   = flag.String("blacklist", "", "Comma separated employers to skip; added to the profile's list")
	output      = flag.String("out", "", "Write the application batch as JSON to this file")
)

func main() {
	flag.Parse()

	// ── 1. Load configuration (fails before any browser starts) ─────
	cfg, err := config.Load(*envFile)
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// ── 2. Initialise structured logging ────────────────────────────
	initLogger(cfg.Log)

	// ── 3. Resolve the run profile ──────────────────────────────────
	profile, err := config.LoadProfile(*profilePath)
	if err != nil {
		slog.Error("failed to load profile", "error", err)
		os.Exit(1)
	}
	profile = applyFlags(profile, *term, *location, *pages, *blacklist)
	if err := profile.Validate(); err != nil {
		slog.Error("invalid run profile", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	batch, runErr := run(ctx, cfg, profile)

	// ── 7. Report ───────────────────────────────────────────────────
	if *output != "" {
		if err := writeJSON(*output, batch); err != nil {
			slog.Error("failed to write batch", "path", *output, "error", err)
		} else {
			slog.Info("batch written", "path", *output)
		}
	}
	if cfg.Webhook.URL != "" {
		hookCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		if err := webhook.Deliver(hookCtx, cfg.Webhook.URL, cfg.Webhook.Secret, webhook.NewRunCompleted(batch, runErr)); err != nil {
			slog.Warn("webhook delivery failed", "url", cfg.Webhook.URL, "error", err)
		}
		cancel()
	}

	if runErr != nil {
		slog.Error("run failed", "runID", batch.RunID, "error", runErr)
		os.Exit(1)
	}
	slog.Info("run finished",
		"runID", batch.RunID,
		"records", len(batch.Applications),
		"applied", batch.Applied(),
		"cancelled", batch.Cancelled(),
	)
}

// run drives one session from launch to the last page. The returned batch
// is never nil, even when the run fails.
func run(ctx context.Context, cfg *config.Config, profile config.Profile) (*models.Batch, error) {
	batch := &models.Batch{
		RunID:     uuid.NewString(),
		Term:      profile.Term,
		Location:  profile.Location,
		Pages:     profile.MaxPages,
		StartedAt: time.Now(),
	}
	defer func() { batch.FinishedAt = time.Now() }()

	slog.Info("jobpilot starting",
		"runID", batch.RunID,
		"term", profile.Term,
		"location", profile.Location,
		"maxPages", profile.MaxPages,
		"blacklist", len(profile.Blacklist),
	)

	// ── 4. Launch the browser ───────────────────────────────────────
	session, err := catho.Open(cfg, func(bc config.BrowserConfig, nav time.Duration) (browser.Driver, error) {
		return browser.Launch(bc, nav)
	})
	if err != nil {
		return batch, err
	}
	defer func() {
		if err := session.Close(); err != nil {
			slog.Warn("failed to close browser", "error", err)
		}
	}()

	// ── 5. Login and search ─────────────────────────────────────────
	if err := session.Login(ctx); err != nil {
		return batch, err
	}
	if err := session.Search(ctx, profile.Term, profile.Location); err != nil {
		return batch, err
	}

	// ── 6. Apply ────────────────────────────────────────────────────
	apps, err := session.ApplyAll(ctx, profile.MaxPages, profile.BlacklistSet())
	if err != nil {
		return batch, err
	}
	batch.Applications = apps
	return batch, nil
}

// applyFlags overlays non-empty command line values on the profile.
func applyFlags(p config.Profile, term, location string, pages int, blacklist string) config.Profile {
	if term != "" {
		p.Term = term
	}
	if location != "" {
		p.Location = location
	}
	if pages > 0 {
		p.MaxPages = pages
	}
	for _, name := range strings.Split(blacklist, ",") {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			p.Blacklist = append(p.Blacklist, trimmed)
		}
	}
	return p
}

func writeJSON(path string, batch *models.Batch) error {
	data, err := json.MarshalIndent(batch, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// initLogger configures slog based on the LogConfig.
func initLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(handler))
}
