package config

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// ErrNoSessionSecret is returned by Validate when no session signing secret is configured.
var ErrNoSessionSecret = errors.New("session secret is not configured")

// SysConfig system configuration
type SysConfig struct {
	Appid    string `yaml:"appid"`
	Location string `yaml:"location"`
	Workdir  string `yaml:"workdir"`
	Debug    bool   `yaml:"debug"`
}

// WebConfig web server configuration
type WebConfig struct {
	Host           string   `yaml:"host"`
	Port           int      `yaml:"port"`
	PublicURL      string   `yaml:"public_url"` // externally visible base URL, used for OAuth redirects
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// DBConfig database configuration
type DBConfig struct {
	Type     string `yaml:"type"` // postgres | sqlite
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Passwd   string `yaml:"passwd"`
	MaxConn  int    `yaml:"max_conn"`
	IdleConn int    `yaml:"idle_conn"`
	Debug    bool   `yaml:"debug"`
}

// LogConfig logger configuration
type LogConfig struct {
	Mode       string `yaml:"mode"`
	FileEnable bool   `yaml:"file_enable"`
	Filename   string `yaml:"filename"`
}

// AirtableConfig spreadsheet datastore backing the service catalog
type AirtableConfig struct {
	APIKey   string `yaml:"api_key"`
	BaseID   string `yaml:"base_id"`
	Table    string `yaml:"table"`
	Endpoint string `yaml:"endpoint"`
	Timeout  int    `yaml:"timeout"` // seconds
}

// Configured reports whether live catalog retrieval can be attempted.
func (c AirtableConfig) Configured() bool {
	return strings.TrimSpace(c.APIKey) != "" && strings.TrimSpace(c.BaseID) != ""
}

// AuthConfig identity provider and session settings
type AuthConfig struct {
	GoogleClientID     string `yaml:"google_client_id"`
	GoogleClientSecret string `yaml:"google_client_secret"`
	SessionSecret      string `yaml:"session_secret"`
	SessionMaxAge      int    `yaml:"session_max_age"` // seconds
	SecureCookie       bool   `yaml:"secure_cookie"`
}

// StripeConfig payment processor settings
type StripeConfig struct {
	SecretKey string `yaml:"secret_key"`
	Currency  string `yaml:"currency"`
}

// StorageConfig client state key-value store
type StorageConfig struct {
	Path string `yaml:"path"`
}

// ExchangeConfig simulated USDT/KRW exchange
type ExchangeConfig struct {
	BaseRate      float64 `yaml:"base_rate"`
	Fluctuation   float64 `yaml:"fluctuation"`
	FeeRate       float64 `yaml:"fee_rate"`
	UsdtBalance   float64 `yaml:"usdt_balance"`
	TickInterval  string  `yaml:"tick_interval"`  // cron descriptor, e.g. "@every 5s"
	SettleAfter   int     `yaml:"settle_after"`   // seconds an order stays processing
	RateRetention int     `yaml:"rate_retention"` // days of rate samples kept
}

type AppConfig struct {
	System   SysConfig      `yaml:"system"`
	Web      WebConfig      `yaml:"web"`
	Database DBConfig       `yaml:"database"`
	Logger   LogConfig      `yaml:"logger"`
	Airtable AirtableConfig `yaml:"airtable"`
	Auth     AuthConfig     `yaml:"auth"`
	Stripe   StripeConfig   `yaml:"stripe"`
	Storage  StorageConfig  `yaml:"storage"`
	Exchange ExchangeConfig `yaml:"exchange"`
}

func (c *AppConfig) GetLogDir() string {
	return path.Join(c.System.Workdir, "logs")
}

func (c *AppConfig) GetDataDir() string {
	return path.Join(c.System.Workdir, "data")
}

func (c *AppConfig) GetStoragePath() string {
	if c.Storage.Path != "" {
		return c.Storage.Path
	}
	return filepath.Join(c.GetDataDir(), "client_state.db")
}

func (c *AppConfig) GetRateDataDir() string {
	return filepath.Join(c.GetDataDir(), "rates")
}

// InitDirs creates the working directories
func (c *AppConfig) InitDirs() error {
	for _, dir := range []string{c.GetLogDir(), c.GetDataDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "create dir %s", dir)
		}
	}
	return nil
}

// Validate checks settings the process cannot run without.
// There is no fallback session secret: an empty one refuses startup.
func (c *AppConfig) Validate() error {
	if strings.TrimSpace(c.Auth.SessionSecret) == "" {
		return ErrNoSessionSecret
	}
	if c.Web.Port <= 0 || c.Web.Port > 65535 {
		return errors.Errorf("invalid web port %d", c.Web.Port)
	}
	switch c.Database.Type {
	case "postgres", "sqlite":
	default:
		return errors.Errorf("unsupported database type %q", c.Database.Type)
	}
	return nil
}

// DefaultAppConfig returns the built-in defaults, without any secret.
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		System: SysConfig{
			Appid:    "AITOPIA",
			Location: "Asia/Seoul",
			Workdir:  "/var/aitopia",
			Debug:    false,
		},
		Web: WebConfig{
			Host:      "0.0.0.0",
			Port:      3000,
			PublicURL: "http://localhost:3000",
		},
		Database: DBConfig{
			Type:     "postgres",
			Host:     "127.0.0.1",
			Port:     5432,
			Name:     "aitopia",
			User:     "postgres",
			Passwd:   "",
			MaxConn:  50,
			IdleConn: 10,
		},
		Logger: LogConfig{
			Mode:       "development",
			FileEnable: false,
			Filename:   "/var/aitopia/logs/aitopia.log",
		},
		Airtable: AirtableConfig{
			Table:    "AI_Services",
			Endpoint: "https://api.airtable.com/v0",
			Timeout:  10,
		},
		Auth: AuthConfig{
			SessionMaxAge: 30 * 24 * 3600,
		},
		Stripe: StripeConfig{
			Currency: "krw",
		},
		Exchange: ExchangeConfig{
			BaseRate:      1340,
			Fluctuation:   20,
			FeeRate:       0.005,
			UsdtBalance:   1247.85,
			TickInterval:  "@every 5s",
			SettleAfter:   600,
			RateRetention: 30,
		},
	}
}

// LoadConfig reads the YAML file (if any) over the defaults, then applies environment overrides.
func LoadConfig(cfile string) (*AppConfig, error) {
	cfg := DefaultAppConfig()
	if cfile != "" {
		data, err := os.ReadFile(cfile)
		if err != nil {
			return nil, errors.Wrapf(err, "read config %s", cfile)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrapf(err, "parse config %s", cfile)
		}
	}
	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *AppConfig) {
	setEnvValue("AITOPIA_WORKDIR", &cfg.System.Workdir)
	setEnvValue("AITOPIA_LOCATION", &cfg.System.Location)
	setEnvBoolValue("AITOPIA_DEBUG", &cfg.System.Debug)

	setEnvValue("AITOPIA_WEB_HOST", &cfg.Web.Host)
	setEnvIntValue("AITOPIA_WEB_PORT", &cfg.Web.Port)
	setEnvValue("NEXTAUTH_URL", &cfg.Web.PublicURL)
	setEnvValue("AITOPIA_PUBLIC_URL", &cfg.Web.PublicURL)

	setEnvValue("AITOPIA_DB_TYPE", &cfg.Database.Type)
	setEnvValue("AITOPIA_DB_HOST", &cfg.Database.Host)
	setEnvIntValue("AITOPIA_DB_PORT", &cfg.Database.Port)
	setEnvValue("AITOPIA_DB_NAME", &cfg.Database.Name)
	setEnvValue("AITOPIA_DB_USER", &cfg.Database.User)
	setEnvValue("AITOPIA_DB_PWD", &cfg.Database.Passwd)
	setEnvBoolValue("AITOPIA_DB_DEBUG", &cfg.Database.Debug)

	setEnvValue("AITOPIA_LOGGER_MODE", &cfg.Logger.Mode)
	setEnvBoolValue("AITOPIA_LOGGER_FILE_ENABLE", &cfg.Logger.FileEnable)

	setEnvValue("AIRTABLE_API_KEY", &cfg.Airtable.APIKey)
	setEnvValue("AIRTABLE_BASE_ID", &cfg.Airtable.BaseID)

	setEnvValue("GOOGLE_CLIENT_ID", &cfg.Auth.GoogleClientID)
	setEnvValue("GOOGLE_CLIENT_SECRET", &cfg.Auth.GoogleClientSecret)
	setEnvValue("NEXTAUTH_SECRET", &cfg.Auth.SessionSecret)
	setEnvValue("AITOPIA_SESSION_SECRET", &cfg.Auth.SessionSecret)

	setEnvValue("STRIPE_SECRET_KEY", &cfg.Stripe.SecretKey)

	setEnvValue("AITOPIA_STORAGE_PATH", &cfg.Storage.Path)
}

func setEnvValue(name string, val *string) {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		*val = v
	}
}

func setEnvBoolValue(name string, val *bool) {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		*val = cast.ToBool(v)
	}
}

func setEnvIntValue(name string, val *int) {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		if i, err := cast.ToIntE(v); err == nil {
			*val = i
		}
	}
}
