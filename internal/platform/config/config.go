// Package config loads runtime configuration from defaults, an optional YAML
// file and EVENTREG_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. EVENTREG_SERVER_ADDR.
const EnvPrefix = "EVENTREG"

// Values used only in development when nothing is configured.
const (
	DevSigningKey    = "dev-secret-key-change-in-production"
	DevAdminPassword = "admin123"
)

// Database drivers.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Env      string         `mapstructure:"env"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Admin    AdminConfig    `mapstructure:"admin"`
	Session  SessionConfig  `mapstructure:"session"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Log      LogConfig      `mapstructure:"log"`
	Tracing  TracingConfig  `mapstructure:"tracing"`
	App      AppConfig      `mapstructure:"app"`
}

// ServerConfig captures HTTP server level configuration. Port exists for
// platforms that only hand out a port number; Addr wins when both are set.
type ServerConfig struct {
	Addr              string        `mapstructure:"addr"`
	Port              string        `mapstructure:"port"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	RequestTimeout    time.Duration `mapstructure:"request_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	URL             string        `mapstructure:"url"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	MigrateOnStart  bool          `mapstructure:"migrate_on_start"`
}

// AdminConfig is the single operator identity. PasswordHash, a bcrypt hash,
// takes precedence over Password.
type AdminConfig struct {
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	PasswordHash string `mapstructure:"password_hash"`
}

type SessionConfig struct {
	TTL        time.Duration `mapstructure:"ttl"`
	SigningKey string        `mapstructure:"signing_key"`
	Issuer     string        `mapstructure:"issuer"`
	Audience   string        `mapstructure:"audience"`
}

// RedisConfig enables the shared token revocation list when URL is set.
type RedisConfig struct {
	URL          string        `mapstructure:"url"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type TracingConfig struct {
	Enabled      bool    `mapstructure:"enabled"`
	Exporter     string  `mapstructure:"exporter"`
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	SampleRate   float64 `mapstructure:"sample_rate"`
	ServiceName  string  `mapstructure:"service_name"`
}

// AppConfig holds event-level settings. Timezone decides where "today"
// starts in the dashboard stats.
type AppConfig struct {
	Timezone   string `mapstructure:"timezone"`
	TicketSize int    `mapstructure:"ticket_size"`
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("env", "development")

	v.SetDefault("server.port", "")
	v.SetDefault("server.read_header_timeout", 5*time.Second)
	v.SetDefault("server.request_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("database.driver", DriverMemory)
	v.SetDefault("database.url", "")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 30*time.Minute)
	v.SetDefault("database.migrate_on_start", true)

	v.SetDefault("admin.username", "admin")
	v.SetDefault("admin.password", "")
	v.SetDefault("admin.password_hash", "")

	v.SetDefault("session.ttl", 8*time.Hour)
	v.SetDefault("session.signing_key", "")
	v.SetDefault("session.issuer", "eventreg")
	v.SetDefault("session.audience", "eventreg-admin")

	v.SetDefault("redis.url", "")
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.min_idle_conns", 2)
	v.SetDefault("redis.dial_timeout", 5*time.Second)
	v.SetDefault("redis.read_timeout", 3*time.Second)
	v.SetDefault("redis.write_timeout", 3*time.Second)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.exporter", "stdout")
	v.SetDefault("tracing.otlp_endpoint", "localhost:4317")
	v.SetDefault("tracing.sample_rate", 1.0)
	v.SetDefault("tracing.service_name", "eventreg")

	v.SetDefault("app.timezone", "Local")
	v.SetDefault("app.ticket_size", 256)
}

// Load reads configuration into a Config. cfgFile may be empty.
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Names the original deployment used.
	_ = v.BindEnv("server.addr", EnvPrefix+"_SERVER_ADDR")
	_ = v.BindEnv("server.port", EnvPrefix+"_SERVER_PORT", "PORT")
	_ = v.BindEnv("database.url", EnvPrefix+"_DATABASE_URL", "DATABASE_URL")
	_ = v.BindEnv("admin.username", EnvPrefix+"_ADMIN_USERNAME", "ADMIN_USER")
	_ = v.BindEnv("admin.password", EnvPrefix+"_ADMIN_PASSWORD", "ADMIN_PASS")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Server.Addr == "" {
		port := cfg.Server.Port
		if port == "" {
			port = "3000"
		}
		cfg.Server.Addr = ":" + port
	}
	return &cfg, nil
}

// IsDevelopment reports whether development fallbacks are allowed.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development" || c.Env == "dev"
}

// Validate checks the configuration and fills development fallbacks. The
// returned warnings describe each fallback applied.
func (c *Config) Validate() ([]string, error) {
	var warnings []string
	var errs []error

	switch c.Database.Driver {
	case DriverMemory:
	case DriverPostgres, DriverSQLite:
		if c.Database.URL == "" {
			errs = append(errs, fmt.Errorf("database.url is required for driver %q", c.Database.Driver))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported database.driver %q", c.Database.Driver))
	}

	if c.Admin.Username == "" {
		errs = append(errs, errors.New("admin.username is required"))
	}
	if c.Admin.Password == "" && c.Admin.PasswordHash == "" {
		if c.IsDevelopment() {
			c.Admin.Password = DevAdminPassword
			warnings = append(warnings, "admin.password not set; using development default")
		} else {
			errs = append(errs, errors.New("admin.password or admin.password_hash is required"))
		}
	}

	if c.Session.TTL <= 0 {
		errs = append(errs, errors.New("session.ttl must be positive"))
	}
	if c.Session.SigningKey == "" {
		if c.IsDevelopment() {
			c.Session.SigningKey = DevSigningKey
			warnings = append(warnings, "session.signing_key not set; using development default")
		} else {
			errs = append(errs, errors.New("session.signing_key is required"))
		}
	}

	if _, err := c.App.Location(); err != nil {
		errs = append(errs, err)
	}

	return warnings, errors.Join(errs...)
}

// Location resolves the configured timezone.
func (a AppConfig) Location() (*time.Location, error) {
	if a.Timezone == "" || strings.EqualFold(a.Timezone, "Local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(a.Timezone)
	if err != nil {
		return nil, fmt.Errorf("app.timezone: %w", err)
	}
	return loc, nil
}
