// Package config loads brightpath configuration.
//
// Sources, lowest precedence first: built-in defaults, brightpath.{toml,yaml}
// (working directory, then ~/.brightpath), a .env file, and BRIGHTPATH_*
// environment variables (api.url becomes BRIGHTPATH_API_URL).
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/justsurfingit/brightpath/internal/errors"
	"github.com/justsurfingit/brightpath/internal/storage"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

const (
	StrategyLocal  = "local"
	StrategyRemote = "remote"
)

type Config struct {
	Env         string            `mapstructure:"env"`
	API         APIConfig         `mapstructure:"api"`
	Features    FeaturesConfig    `mapstructure:"features"`
	Persistence PersistenceConfig `mapstructure:"persistence"`
	Storage     StorageConfig     `mapstructure:"storage"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	LLM         LLMConfig         `mapstructure:"llm"`
	Gmail       GmailConfig       `mapstructure:"gmail"`
	Inbox       InboxConfig       `mapstructure:"inbox"`
	Log         LogConfig         `mapstructure:"log"`
}

type APIConfig struct {
	URL     string        `mapstructure:"url"` // per-environment default when empty
	Timeout time.Duration `mapstructure:"timeout"`
}

type FeaturesConfig struct {
	MockMode bool `mapstructure:"mock_mode"` // development only: never touch the network
}

type PersistenceConfig struct {
	Strategy string `mapstructure:"strategy"` // local | remote
}

type StorageConfig struct {
	Driver   string `mapstructure:"driver"` // file | memory | redis
	Dir      string `mapstructure:"dir"`
	Key      string `mapstructure:"key"`
	TokenKey string `mapstructure:"token_key"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

type ServerConfig struct {
	Port            int      `mapstructure:"port"`
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
	AIRatePerMinute int      `mapstructure:"ai_rate_per_minute"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"` // postgres | memory
	DSN    string `mapstructure:"dsn"`
}

type LLMConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type GmailConfig struct {
	Credentials string `mapstructure:"credentials"`
	Token       string `mapstructure:"token"`
}

type InboxConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

type LogConfig struct {
	JSON  bool   `mapstructure:"json"`
	Level string `mapstructure:"level"`
}

// IsDevelopment reports whether connectivity failures may be served by mocks.
func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// UseMock reports whether every remote call is served by the mock.
func (c *Config) UseMock() bool {
	return c.IsDevelopment() && c.Features.MockMode
}

// StorageOptions returns the options storage.Open needs.
func (c *Config) StorageOptions() storage.Options {
	return storage.Options{
		Driver:        c.Storage.Driver,
		Dir:           c.Storage.Dir,
		RedisAddr:     c.Redis.Addr,
		RedisPassword: c.Redis.Password,
		RedisDB:       c.Redis.DB,
		RedisPrefix:   c.Redis.Prefix,
	}
}

// DefaultAPIURL returns the backend base URL for env.
func DefaultAPIURL(env string) string {
	if env == EnvProduction {
		return "https://api.brightpath.com/api"
	}
	return "http://localhost:3001/api"
}

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("env", EnvDevelopment)

	v.SetDefault("api.timeout", 30*time.Second)
	v.SetDefault("features.mock_mode", false)
	v.SetDefault("persistence.strategy", StrategyLocal)

	v.SetDefault("storage.driver", "file")
	v.SetDefault("storage.dir", "")
	v.SetDefault("storage.key", "brightpath_applications")
	v.SetDefault("storage.token_key", "authToken")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "brightpath:")

	v.SetDefault("server.port", 3001)
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.ai_rate_per_minute", 10)

	v.SetDefault("database.driver", "postgres")

	v.SetDefault("llm.model", "gemini-2.5-flash")

	v.SetDefault("gmail.credentials", "credentials.json")
	v.SetDefault("gmail.token", "token.json")
	v.SetDefault("inbox.interval", 10*time.Minute)

	v.SetDefault("log.json", false)
	v.SetDefault("log.level", "info")
}

// bindSecrets binds keys that have no default, so AutomaticEnv alone would not reach them.
func bindSecrets(v *viper.Viper) {
	_ = v.BindEnv("api.url", "BRIGHTPATH_API_URL")
	_ = v.BindEnv("redis.password", "BRIGHTPATH_REDIS_PASSWORD")
	_ = v.BindEnv("database.dsn", "BRIGHTPATH_DATABASE_DSN", "DATABASE_URL")
	_ = v.BindEnv("llm.api_key", "BRIGHTPATH_LLM_API_KEY", "GEMINI_API_KEY")
}

// Options selects the files Load reads. Zero values mean the usual locations.
type Options struct {
	ConfigFile string
	EnvFile    string
}

// Load reads configuration from every source and validates it.
func Load(opts Options) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "load %s", envFile)
	}

	v := viper.New()
	v.SetEnvPrefix("BRIGHTPATH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindSecrets(v)
	SetDefaults(v)

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.SetConfigName("brightpath")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".brightpath"))
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.ConfigFile != "" || !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "read config file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if cfg.API.URL == "" {
		cfg.API.URL = DefaultAPIURL(cfg.Env)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values no component can work with.
func (c *Config) Validate() error {
	switch c.Env {
	case EnvDevelopment, EnvProduction, EnvTest:
	default:
		return errors.Newf("env must be development, production or test, got %q", c.Env)
	}
	switch c.Persistence.Strategy {
	case StrategyLocal, StrategyRemote:
	default:
		return errors.Newf("persistence.strategy must be local or remote, got %q", c.Persistence.Strategy)
	}
	switch c.Database.Driver {
	case "postgres", "memory":
	default:
		return errors.Newf("database.driver must be postgres or memory, got %q", c.Database.Driver)
	}
	if c.API.Timeout <= 0 {
		return errors.Newf("api.timeout must be positive, got %s", c.API.Timeout)
	}
	return nil
}
