package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	ErrMissingJWTSecret   = errors.New("JWT_SECRET must be set")
	ErrMissingDatabaseURL = errors.New("DATABASE_URL must be set when DB_DRIVER=postgres")
	ErrUnknownDriver      = errors.New("DB_DRIVER must be sqlite or postgres")
)

// Config holds the server configuration loaded from .env and the environment.
type Config struct {
	Env         string        `mapstructure:"app_env"`
	Port        string        `mapstructure:"port"`
	JWTSecret   string        `mapstructure:"jwt_secret"`
	TokenTTL    time.Duration `mapstructure:"token_ttl"`
	CORSOrigins []string      `mapstructure:"-"`
	DB          DB            `mapstructure:",squash"`
	Redis       Redis         `mapstructure:",squash"`
	Leaderboard Leaderboard   `mapstructure:",squash"`
}

type DB struct {
	Driver string `mapstructure:"db_driver"`
	Path   string `mapstructure:"db_path"`
	URL    string `mapstructure:"database_url"`
}

// Redis is optional; an empty Addr disables the leaderboard cache and the
// cross-instance feed relay.
type Redis struct {
	Addr     string `mapstructure:"redis_addr"`
	Username string `mapstructure:"redis_username"`
	Password string `mapstructure:"redis_password"`
	DB       int    `mapstructure:"redis_db"`
	TLS      bool   `mapstructure:"redis_tls"`
}

type Leaderboard struct {
	CacheTTL time.Duration `mapstructure:"leaderboard_cache_ttl"`
}

func (r Redis) Enabled() bool {
	return r.Addr != ""
}

func (c *Config) Production() bool {
	return c.Env == "production"
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️File .env not found, using system values")
	}
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	v.SetDefault("app_env", "local")
	v.SetDefault("port", "4000")
	v.SetDefault("jwt_secret", "")
	v.SetDefault("token_ttl", "168h")
	v.SetDefault("cors_origins", "*")
	v.SetDefault("db_driver", "sqlite")
	v.SetDefault("db_path", "database.sqlite")
	v.SetDefault("database_url", "")
	v.SetDefault("redis_addr", "")
	v.SetDefault("redis_username", "")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("redis_tls", false)
	v.SetDefault("leaderboard_cache_ttl", "30s")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}
	cfg.CORSOrigins = splitList(v.GetString("cors_origins"))

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		return ErrMissingJWTSecret
	}
	switch c.DB.Driver {
	case "sqlite":
	case "postgres":
		if c.DB.URL == "" {
			return ErrMissingDatabaseURL
		}
	default:
		return fmt.Errorf("%w: got %q", ErrUnknownDriver, c.DB.Driver)
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
