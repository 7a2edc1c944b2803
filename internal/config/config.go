package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const EnvProduction = "production"

type Config struct {
	AppEnv          string        `mapstructure:"APP_ENV"`
	HTTPPort        string        `mapstructure:"HTTP_PORT"`
	MongoURI        string        `mapstructure:"MONGO_URI"`
	MongoDBName     string        `mapstructure:"MONGO_DB_NAME"`
	JWTSecret       string        `mapstructure:"JWT_SECRET"`
	TokenTTL        time.Duration `mapstructure:"TOKEN_TTL"`
	RedisAddr       string        `mapstructure:"REDIS_ADDR"`
	RedisPassword   string        `mapstructure:"REDIS_PASSWORD"`
	CatalogCacheTTL time.Duration `mapstructure:"CATALOG_CACHE_TTL"`
	FeedURL         string        `mapstructure:"FEED_URL"`
	FeedLimit       int           `mapstructure:"FEED_LIMIT"`
	FeedTimeout     time.Duration `mapstructure:"FEED_TIMEOUT"`
	KafkaBrokers    string        `mapstructure:"KAFKA_BROKERS"`
	OrderTopic      string        `mapstructure:"ORDER_EVENTS_TOPIC"`
	CORSOrigin      string        `mapstructure:"CORS_ORIGIN"`
	AdminEmail      string        `mapstructure:"ADMIN_EMAIL"`
	LogLevel        string        `mapstructure:"LOG_LEVEL"`
	LogPretty       bool          `mapstructure:"LOG_PRETTY"`
	RequestTimeout  time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`
}

const devJWTSecret = "dev-secret-change-me"

var defaults = map[string]any{
	"APP_ENV":            "development",
	"HTTP_PORT":          "5000",
	"MONGO_URI":          "mongodb://localhost:27017",
	"MONGO_DB_NAME":      "storefront",
	"JWT_SECRET":         devJWTSecret,
	"TOKEN_TTL":          time.Hour,
	"REDIS_ADDR":         "",
	"REDIS_PASSWORD":     "",
	"CATALOG_CACHE_TTL":  10 * time.Minute,
	"FEED_URL":           "https://dummyjson.com/products",
	"FEED_LIMIT":         100,
	"FEED_TIMEOUT":       15 * time.Second,
	"KAFKA_BROKERS":      "",
	"ORDER_EVENTS_TOPIC": "order-events",
	"CORS_ORIGIN":        "",
	"ADMIN_EMAIL":        "",
	"LOG_LEVEL":          "info",
	"LOG_PRETTY":         false,
	"REQUEST_TIMEOUT":    30 * time.Second,
	"SHUTDOWN_TIMEOUT":   10 * time.Second,
}

// Load reads defaults, then the optional env file, then the process environment.
// envFile may be empty.
func Load(envFile string) (*Config, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.AutomaticEnv()

	if envFile != "" {
		v.SetConfigFile(envFile)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil && !isNotExist(err) {
			return nil, fmt.Errorf("read config file %s: %w", envFile, err)
		}
	}

	cf := &Config{}
	if err := v.Unmarshal(cf); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cf.validate(); err != nil {
		return nil, err
	}
	return cf, nil
}

func isNotExist(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
}

func (c *Config) validate() error {
	if c.IsProduction() && (c.JWTSecret == "" || c.JWTSecret == devJWTSecret) {
		return errors.New("JWT_SECRET must be set in production")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must not be empty")
	}
	if c.FeedLimit <= 0 {
		return fmt.Errorf("FEED_LIMIT must be positive, got %d", c.FeedLimit)
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, EnvProduction)
}

// Brokers splits KAFKA_BROKERS on commas; empty means events are not published.
func (c *Config) Brokers() []string {
	var out []string
	for _, b := range strings.Split(c.KafkaBrokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

// AllowedOrigins is the CORS allow-list.
func (c *Config) AllowedOrigins() []string {
	origins := []string{"http://localhost:5173", "http://localhost:3000"}
	if c.CORSOrigin != "" {
		origins = append(origins, c.CORSOrigin)
	}
	return origins
}
