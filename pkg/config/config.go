package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config groups the application settings (read through Viper from env and an optional file).
type Config struct {
	App     AppConfig
	DB      DBConfig
	JWT     JWTConfig
	HTTP    HTTPConfig
	Sheets  SheetsConfig
	Catalog CatalogConfig
	Cache   CacheConfig
	Redis   RedisConfig
	Email   EmailConfig
	SMS     SMSConfig
	Farm    FarmConfig
}

// AppConfig general application settings.
type AppConfig struct {
	Env       string // development, staging, production
	Name      string
	LogLevel  string
	PublicURL string // base URL of the storefront, used in emails
}

// DBConfig PostgreSQL settings.
// When DatabaseURL is set it is used verbatim as the connection string.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
}

// ConnectionString returns DATABASE_URL when present, the DSN built from parts otherwise.
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN builds a postgres URL, escaping special characters in the password.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// JWTConfig token settings.
type JWTConfig struct {
	Secret     string
	Expiration int // minutes
	Issuer     string
}

// HTTPConfig listener settings.
type HTTPConfig struct {
	Host            string
	Port            int
	ShutdownTimeout time.Duration
	RevalidateToken string // shared secret accepted by POST /api/revalidate besides an admin token
}

// Addr returns host:port.
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// SheetsConfig credentials and ranges of the upstream spreadsheet.
type SheetsConfig struct {
	SpreadsheetID string
	ClientEmail   string
	PrivateKey    string
	ProduceRange  string
	SeedsRange    string
	Timeout       time.Duration
}

// Configured reports whether a service account is available.
func (c SheetsConfig) Configured() bool {
	return c.SpreadsheetID != "" && c.ClientEmail != "" && c.PrivateKey != ""
}

// CatalogConfig catalog sync tuning.
type CatalogConfig struct {
	CacheTTL time.Duration
}

// CacheConfig selects where catalog snapshots live: "memory" or "redis".
type CacheConfig struct {
	Backend string
}

// RedisConfig connection to Redis (only used with Cache.Backend == "redis").
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// EmailConfig SMTP transport.
type EmailConfig struct {
	Host       string
	Port       int
	User       string
	Password   string
	From       string
	AdminEmail string
}

// Configured reports whether SMTP is usable.
func (c EmailConfig) Configured() bool {
	return c.Host != "" && c.From != ""
}

// SMSConfig Twilio credentials.
type SMSConfig struct {
	AccountSID string
	AuthToken  string
	FromNumber string
	RatePerSec float64
}

// Configured reports whether Twilio is usable.
func (c SMSConfig) Configured() bool {
	return c.AccountSID != "" && c.AuthToken != "" && c.FromNumber != ""
}

// FarmConfig pickup information printed in emails, SMS and receipts.
type FarmConfig struct {
	Name    string
	Address string
	Hours   string
	Phone   string
}

// Load reads the configuration from environment variables (and optionally a .env / config.env file).
// Environment variables take precedence.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig()

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	emailFrom := getString(v, "EMAIL_FROM", "")

	cfg := &Config{
		App: AppConfig{
			Env:       getString(v, "APP_ENV", "development"),
			Name:      getString(v, "APP_NAME", "farmstand-api"),
			LogLevel:  getString(v, "LOG_LEVEL", "info"),
			PublicURL: getString(v, "PUBLIC_URL", "http://localhost:3000"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "farmstand"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60*24),
			Issuer:     getString(v, "JWT_ISSUER", "farmstand-api"),
		},
		HTTP: HTTPConfig{
			Host:            getString(v, "HTTP_HOST", "0.0.0.0"),
			Port:            getInt(v, "HTTP_PORT", 8080),
			ShutdownTimeout: getDuration(v, "SHUTDOWN_TIMEOUT", 10*time.Second),
			RevalidateToken: getString(v, "REVALIDATE_TOKEN", ""),
		},
		Sheets: SheetsConfig{
			SpreadsheetID: getString(v, "GOOGLE_SHEETS_SPREADSHEET_ID", ""),
			ClientEmail:   getString(v, "GOOGLE_SHEETS_CLIENT_EMAIL", ""),
			// keys pasted into env files usually carry literal "\n"
			PrivateKey:   strings.ReplaceAll(getString(v, "GOOGLE_SHEETS_PRIVATE_KEY", ""), `\n`, "\n"),
			ProduceRange: getString(v, "GOOGLE_SHEETS_PRODUCE_RANGE", "Produce!A2:F1000"),
			SeedsRange:   getString(v, "GOOGLE_SHEETS_SEEDS_RANGE", "Seeds!A2:G1000"),
			Timeout:      getDuration(v, "GOOGLE_SHEETS_TIMEOUT", 15*time.Second),
		},
		Catalog: CatalogConfig{
			CacheTTL: getDuration(v, "CATALOG_CACHE_TTL", time.Minute),
		},
		Cache: CacheConfig{
			Backend: getString(v, "CACHE_BACKEND", "memory"),
		},
		Redis: RedisConfig{
			Addr:     getString(v, "REDIS_ADDR", "localhost:6379"),
			Password: getString(v, "REDIS_PASSWORD", ""),
			DB:       getInt(v, "REDIS_DB", 0),
		},
		Email: EmailConfig{
			Host:       getString(v, "EMAIL_SERVER_HOST", ""),
			Port:       getInt(v, "EMAIL_SERVER_PORT", 587),
			User:       getString(v, "EMAIL_SERVER_USER", ""),
			Password:   getString(v, "EMAIL_SERVER_PASSWORD", ""),
			From:       emailFrom,
			AdminEmail: getString(v, "ADMIN_EMAIL", emailFrom),
		},
		SMS: SMSConfig{
			AccountSID: getString(v, "TWILIO_ACCOUNT_SID", ""),
			AuthToken:  getString(v, "TWILIO_AUTH_TOKEN", ""),
			FromNumber: getString(v, "TWILIO_PHONE_NUMBER", ""),
			RatePerSec: getFloat(v, "TWILIO_RATE_PER_SEC", 1),
		},
		Farm: FarmConfig{
			Name:    getString(v, "FARM_NAME", "Willow Trellis Farms"),
			Address: getString(v, "FARM_ADDRESS", "3013 Upper Otterson, Ottawa, ON"),
			Hours:   getString(v, "FARM_HOURS", "Tuesday-Sunday: 8AM-6PM"),
			Phone:   getString(v, "FARM_PHONE", "(613) 581-9303"),
		},
	}

	if cfg.Catalog.CacheTTL <= 0 {
		return nil, fmt.Errorf("CATALOG_CACHE_TTL must be positive, got %s", cfg.Catalog.CacheTTL)
	}
	switch cfg.Cache.Backend {
	case "memory", "redis":
	default:
		return nil, fmt.Errorf("CACHE_BACKEND must be memory or redis, got %q", cfg.Cache.Backend)
	}

	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getFloat(v *viper.Viper, key string, def float64) float64 {
	if v.IsSet(key) {
		f, err := strconv.ParseFloat(v.GetString(key), 64)
		if err != nil {
			return def
		}
		return f
	}
	return def
}

// getDuration accepts Go duration strings ("90s", "5m") or a bare number of seconds.
func getDuration(v *viper.Viper, key string, def time.Duration) time.Duration {
	if !v.IsSet(key) {
		return def
	}
	raw := strings.TrimSpace(v.GetString(key))
	if raw == "" {
		return def
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return def
	}
	return d
}
