package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/use-agent/jobpilot/models"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "CATHO"

// Config holds all application configuration.
type Config struct {
	Credentials Credentials
	Browser     BrowserConfig
	Timeouts    TimeoutConfig
	Pacing      PacingConfig
	Log         LogConfig
	Webhook     WebhookConfig
}

// Credentials are the login values for the job site. All four are required.
type Credentials struct {
	Username string
	Password string
	// BaseURL is the site root, e.g. "https://www.catho.com.br".
	BaseURL  string
	LoginURL string
}

// BrowserConfig controls the Rod browser instance.
type BrowserConfig struct {
	// Headless controls whether the browser runs headless.
	Headless bool // default: false

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: false

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string

	// Proxy is the proxy URL for all requests.
	Proxy string

	// Stealth injects the stealth script before every navigation.
	Stealth bool // default: true

	// AcceptLanguage is sent on every request.
	AcceptLanguage string // default: "pt-BR,pt;q=0.9"

	// BlockedResourceTypes lists resource types to block.
	// Stylesheets stay enabled: visibility checks depend on them.
	BlockedResourceTypes []string // default: ["Image", "Font", "Media"]

	// BlockAds blocks requests to known ad and tracking domains.
	BlockAds bool // default: true
}

// TimeoutConfig holds the bounded waits of the run.
type TimeoutConfig struct {
	Login         time.Duration // default: 10s
	Dialog        time.Duration // default: 10s
	Questionnaire time.Duration // default: 5s
	Snackbar      time.Duration // default: 2s
	Close         time.Duration // default: 5s
	Navigation    time.Duration // default: 30s
}

// PacingConfig throttles application attempts.
type PacingConfig struct {
	// ApplyInterval is the minimum delay between two apply attempts.
	// Zero disables pacing.
	ApplyInterval time.Duration // default: 2s
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "text"
}

// WebhookConfig configures the optional run-completed notification.
type WebhookConfig struct {
	URL    string
	Secret string
}

// Load reads configuration from the .env file at envFile (if present) and the
// process environment. Process variables take precedence over the file.
// A missing credential yields a models.ErrCodeConfig error.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, models.NewError(models.ErrCodeConfig, "failed to read "+envFile, err)
		}
	}

	cfg := &Config{
		Credentials: Credentials{
			Username: os.Getenv(key("USERNAME")),
			Password: os.Getenv(key("PWD")),
			BaseURL:  strings.TrimRight(os.Getenv(key("URL")), "/"),
			LoginURL: os.Getenv(key("LOGIN_URL")),
		},
		Browser: BrowserConfig{
			Headless:       envBoolOr(key("HEADLESS"), false),
			NoSandbox:      envBoolOr(key("NO_SANDBOX"), false),
			BrowserBin:     os.Getenv(key("BROWSER_BIN")),
			Proxy:          os.Getenv(key("PROXY")),
			Stealth:        envBoolOr(key("STEALTH"), true),
			AcceptLanguage: envOr(key("ACCEPT_LANGUAGE"), "pt-BR,pt;q=0.9"),
			BlockedResourceTypes: envSliceOr(key("BLOCKED_RESOURCES"), []string{
				"Image", "Font", "Media",
			}),
			BlockAds: envBoolOr(key("BLOCK_ADS"), true),
		},
		Timeouts: TimeoutConfig{
			Login:         envDurationOr(key("LOGIN_TIMEOUT"), 10*time.Second),
			Dialog:        envDurationOr(key("DIALOG_TIMEOUT"), 10*time.Second),
			Questionnaire: envDurationOr(key("QUESTIONNAIRE_TIMEOUT"), 5*time.Second),
			Snackbar:      envDurationOr(key("SNACKBAR_TIMEOUT"), 2*time.Second),
			Close:         envDurationOr(key("CLOSE_TIMEOUT"), 5*time.Second),
			Navigation:    envDurationOr(key("NAV_TIMEOUT"), 30*time.Second),
		},
		Pacing: PacingConfig{
			ApplyInterval: envDurationOr(key("APPLY_INTERVAL"), 2*time.Second),
		},
		Log: LogConfig{
			Level:  envOr(key("LOG_LEVEL"), "info"),
			Format: envOr(key("LOG_FORMAT"), "text"),
		},
		Webhook: WebhookConfig{
			URL:    os.Getenv(key("WEBHOOK_URL")),
			Secret: os.Getenv(key("WEBHOOK_SECRET")),
		},
	}

	if err := cfg.Credentials.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that every credential is set.
func (c Credentials) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"USERNAME", c.Username},
		{"PWD", c.Password},
		{"URL", c.BaseURL},
		{"LOGIN_URL", c.LoginURL},
	}
	for _, r := range required {
		if r.value == "" {
			return models.NewError(models.ErrCodeConfig, key(r.name)+" not found in environment", nil)
		}
	}
	return nil
}

func key(name string) string {
	return EnvPrefix + "_" + name
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
