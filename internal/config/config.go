package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

const envPrefix = "HOSPITAL"

type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Database     DatabaseConfig     `mapstructure:"database"`
	JWT          JWTConfig          `mapstructure:"jwt"`
	Redis        RedisConfig        `mapstructure:"redis"`
	SMTP         SMTPConfig         `mapstructure:"smtp"`
	Notification NotificationConfig `mapstructure:"notification"`
	Log          LogConfig          `mapstructure:"log"`
	RateLimit    RateLimitConfig    `mapstructure:"rate_limit"`
	CORS         CORSConfig         `mapstructure:"cors"`
	Clock        ClockConfig        `mapstructure:"clock"`
	Cache        CacheConfig        `mapstructure:"cache"`
	Phone        PhoneConfig        `mapstructure:"phone"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	MaxBodyBytes    int64         `mapstructure:"max_body_bytes"`
}

type DatabaseConfig struct {
	URL             string        `mapstructure:"url"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN prefers an explicit URL over the individual fields.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.Name,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	Issuer      string `mapstructure:"issuer"`
	Audience    string `mapstructure:"audience"`
	ExpiryHours int    `mapstructure:"expiry_hours"`
}

func (j JWTConfig) Expiry() time.Duration {
	return time.Duration(j.ExpiryHours) * time.Hour
}

type RedisConfig struct {
	URL          string        `mapstructure:"url"`
	MaxRetries   int           `mapstructure:"max_retries"`
	RetryBackoff time.Duration `mapstructure:"retry_backoff"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	PollTimeout  time.Duration `mapstructure:"poll_timeout"`
}

type SMTPConfig struct {
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	Username string        `mapstructure:"username"`
	Password string        `mapstructure:"password"`
	From     string        `mapstructure:"from"`
	UseTLS   bool          `mapstructure:"use_tls"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

const (
	NotificationModeEmail  = "email"
	NotificationModeBroker = "broker"
)

type NotificationConfig struct {
	Mode    string        `mapstructure:"mode"`
	Channel string        `mapstructure:"channel"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

type RateLimitConfig struct {
	Enabled           bool          `mapstructure:"enabled"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
	TTL               time.Duration `mapstructure:"ttl"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
}

type ClockConfig struct {
	Simulated bool   `mapstructure:"simulated"`
	Start     string `mapstructure:"start"`
}

// StartTime parses the optional RFC 3339 simulation start.
func (c ClockConfig) StartTime() (time.Time, bool, error) {
	if c.Start == "" {
		return time.Time{}, false, nil
	}
	t, err := time.Parse(time.RFC3339, c.Start)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("invalid clock.start: %w", err)
	}
	return t.UTC(), true, nil
}

type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

type PhoneConfig struct {
	DefaultRegion string `mapstructure:"default_region"`
}

// deployment holds the conventional variables platforms inject without a prefix.
type deployment struct {
	DatabaseURL  string `envconfig:"DATABASE_URL"`
	RedisURL     string `envconfig:"REDIS_URL"`
	JWTSecret    string `envconfig:"JWT_SECRET"`
	SMTPPassword string `envconfig:"SMTP_PASSWORD"`
	Port         int    `envconfig:"PORT"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.request_timeout", 30*time.Second)
	v.SetDefault("server.max_body_bytes", 1<<20)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.name", "hospital")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)

	v.SetDefault("jwt.issuer", "hospital-api")
	v.SetDefault("jwt.audience", "hospital-frontend")
	v.SetDefault("jwt.expiry_hours", 24)

	v.SetDefault("redis.url", "redis://localhost:6379/0")
	v.SetDefault("redis.max_retries", 3)
	v.SetDefault("redis.retry_backoff", 100*time.Millisecond)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.min_idle_conns", 2)
	v.SetDefault("redis.poll_timeout", 5*time.Second)

	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.from", "no-reply@hospital.local")
	v.SetDefault("smtp.timeout", 10*time.Second)

	v.SetDefault("notification.mode", NotificationModeEmail)
	v.SetDefault("notification.channel", "hospital:notifications")
	v.SetDefault("notification.timeout", 15*time.Second)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age_days", 28)

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests_per_second", 20.0)
	v.SetDefault("rate_limit.burst", 40)
	v.SetDefault("rate_limit.ttl", 10*time.Minute)

	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Authorization", "Content-Type", "X-Request-ID"})

	v.SetDefault("clock.simulated", false)
	v.SetDefault("cache.ttl", time.Minute)
	v.SetDefault("phone.default_region", "US")
}

// Load reads path (optional), HOSPITAL_* variables, then the deployment variables.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	var env deployment
	if err := envconfig.Process("", &env); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	cfg.applyDeployment(env)

	return &cfg, nil
}

func (c *Config) applyDeployment(env deployment) {
	if env.DatabaseURL != "" {
		c.Database.URL = env.DatabaseURL
	}
	if env.RedisURL != "" {
		c.Redis.URL = env.RedisURL
	}
	if env.JWTSecret != "" {
		c.JWT.Secret = env.JWTSecret
	}
	if env.SMTPPassword != "" {
		c.SMTP.Password = env.SMTPPassword
	}
	if env.Port != 0 {
		c.Server.Port = env.Port
	}
}

// Validate reports settings the server cannot start without.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.JWT.Secret) == "" {
		errs = append(errs, errors.New("jwt.secret is required"))
	}
	if c.JWT.ExpiryHours <= 0 {
		errs = append(errs, errors.New("jwt.expiry_hours must be positive"))
	}
	switch c.Notification.Mode {
	case NotificationModeEmail, NotificationModeBroker:
	default:
		errs = append(errs, fmt.Errorf("notification.mode must be %q or %q, got %q",
			NotificationModeEmail, NotificationModeBroker, c.Notification.Mode))
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if _, _, err := c.Clock.StartTime(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
