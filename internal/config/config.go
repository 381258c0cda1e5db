package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	AppEnv string `mapstructure:"APP_ENV"`
	Port   string `mapstructure:"PORT"`

	// DBDriver is "mysql" or "sqlite".
	DBDriver     string `mapstructure:"DB_DRIVER"`
	DBUser       string `mapstructure:"DB_USER"`
	DBPassword   string `mapstructure:"DB_PASSWORD"`
	DBHost       string `mapstructure:"DB_HOST"`
	DBName       string `mapstructure:"DB_NAME"`
	DatabasePath string `mapstructure:"DATABASE_PATH"`

	JWTSecret     string        `mapstructure:"JWT_SECRET"`
	JWTExpiration time.Duration `mapstructure:"JWT_EXPIRATION"`

	OpenAIKey string `mapstructure:"OPENAI_KEY"`

	// RedisAddr empty disables token revocation and rate limiting.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	CORSOrigins string `mapstructure:"CORS_ORIGINS"`

	// TrustedProxies lists proxy IPs or CIDRs whose X-Forwarded-For is
	// used for rate limiting. Empty means the socket peer is the client.
	TrustedProxies string `mapstructure:"TRUSTED_PROXIES"`

	LoginRateLimit  int           `mapstructure:"LOGIN_RATE_LIMIT"`
	LoginRateWindow time.Duration `mapstructure:"LOGIN_RATE_WINDOW"`

	// StrictReminderDates turns malformed reminder dates into validation
	// errors instead of ignoring them.
	StrictReminderDates bool `mapstructure:"STRICT_REMINDER_DATES"`
}

var defaults = map[string]any{
	"APP_ENV":               "dev",
	"PORT":                  "8080",
	"DB_DRIVER":             "mysql",
	"DB_USER":               "root",
	"DB_PASSWORD":           "",
	"DB_HOST":               "localhost:3306",
	"DB_NAME":               "notes_app_db",
	"DATABASE_PATH":         "notes.db",
	"JWT_SECRET":            "",
	"JWT_EXPIRATION":        "72h",
	"OPENAI_KEY":            "",
	"REDIS_ADDR":            "",
	"REDIS_PASSWORD":        "",
	"REDIS_DB":              0,
	"CORS_ORIGINS":          "http://localhost:3000",
	"TRUSTED_PROXIES":       "",
	"LOGIN_RATE_LIMIT":      10,
	"LOGIN_RATE_WINDOW":     "1m",
	"STRICT_REMINDER_DATES": false,
}

// devJWTSecret is only accepted when APP_ENV=dev.
const devJWTSecret = "dev-secret-change-me"

// LoadConfig reads .env (if present) into the environment, then the
// environment over the defaults.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if cfg.JWTSecret == "" && cfg.AppEnv == "dev" {
		cfg.JWTSecret = devJWTSecret
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.DBDriver {
	case "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.AppEnv != "dev" && c.JWTSecret == devJWTSecret {
		return errors.New("JWT_SECRET must be set outside dev")
	}
	if c.LoginRateLimit <= 0 || c.LoginRateWindow <= 0 {
		return errors.New("LOGIN_RATE_LIMIT and LOGIN_RATE_WINDOW must be positive")
	}
	return nil
}

// AllowedOrigins splits CORS_ORIGINS on commas.
func (c *Config) AllowedOrigins() []string {
	return splitList(c.CORSOrigins)
}

func (c *Config) TrustedProxyList() []string {
	return splitList(c.TrustedProxies)
}

func splitList(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
