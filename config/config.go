package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultAPIBaseURL = "https://blogapp-backend-822d.onrender.com"
	DefaultPort       = "8080"
)

type Config struct {
	APIBaseURL   string   `yaml:"api_base_url"`
	AssetBaseURL string   `yaml:"asset_base_url"`
	Port         string   `yaml:"port"`
	GinMode      string   `yaml:"gin_mode"`
	AllowOrigins []string `yaml:"allow_origins"`
	// Proxies whose X-Forwarded-For is believed. Empty trusts none and the
	// client IP is the connection's remote address.
	TrustedProxies []string `yaml:"trusted_proxies"`

	SessionSecret string `yaml:"session_secret"`
	SecureCookies bool   `yaml:"secure_cookies"`

	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`

	// Requests per minute per client IP on the login and register forms.
	LoginRateLimit int `yaml:"login_rate_limit"`
	// Upper bound on concurrent author lookups in one post-list load.
	LookupConcurrency int `yaml:"lookup_concurrency"`

	ClearSessionOnLogoutFailure bool `yaml:"clear_session_on_logout_failure"`
}

func Default() *Config {
	return &Config{
		APIBaseURL:        DefaultAPIBaseURL,
		Port:              DefaultPort,
		GinMode:           "debug",
		AllowOrigins:      []string{"http://localhost:3000", "http://localhost:5173"},
		LogLevel:          "info",
		LoginRateLimit:    10,
		LookupConcurrency: 16,
	}
}

// Load builds the configuration from defaults, then the YAML file at path
// (skipped when path is empty), then .env, then the process environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("error parsing config file %s: %w", path, err)
		}
	}

	// .env is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")
	if cfg.AssetBaseURL == "" {
		cfg.AssetBaseURL = cfg.APIBaseURL + "/images"
	}
	cfg.AssetBaseURL = strings.TrimRight(cfg.AssetBaseURL, "/")

	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setString("BLOG_API_URL", &c.APIBaseURL)
	setString("BLOG_ASSET_URL", &c.AssetBaseURL)
	setString("PORT", &c.Port)
	setString("GIN_MODE", &c.GinMode)
	setString("SESSION_SECRET", &c.SessionSecret)
	setString("LOG_LEVEL", &c.LogLevel)
	setString("LOG_FILE", &c.LogFile)

	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		c.AllowOrigins = splitList(v)
	}
	if v := os.Getenv("TRUSTED_PROXIES"); v != "" {
		c.TrustedProxies = splitList(v)
	}

	ints := map[string]*int{
		"LOGIN_RATE_LIMIT":   &c.LoginRateLimit,
		"LOOKUP_CONCURRENCY": &c.LookupConcurrency,
	}
	for key, dst := range ints {
		if v := os.Getenv(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid %s %q: %w", key, v, err)
			}
			*dst = n
		}
	}

	bools := map[string]*bool{
		"SECURE_COOKIES":                  &c.SecureCookies,
		"CLEAR_SESSION_ON_LOGOUT_FAILURE": &c.ClearSessionOnLogoutFailure,
	}
	for key, dst := range bools {
		if v := os.Getenv(key); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid %s %q: %w", key, v, err)
			}
			*dst = b
		}
	}

	return nil
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// Validate checks the settings the web front cannot start without.
func (c *Config) Validate() error {
	if c.SessionSecret == "" {
		return errors.New("SESSION_SECRET must be set")
	}
	if c.APIBaseURL == "" {
		return errors.New("BLOG_API_URL must be set")
	}
	if c.LoginRateLimit <= 0 {
		return fmt.Errorf("login_rate_limit must be positive, got %d", c.LoginRateLimit)
	}
	return nil
}

// ImageURL resolves an image filename against the single configured asset base.
func (c *Config) ImageURL(name string) string {
	if name == "" {
		return ""
	}
	if strings.HasPrefix(name, "http://") || strings.HasPrefix(name, "https://") {
		return name
	}
	return c.AssetBaseURL + "/" + strings.TrimLeft(name, "/")
}
