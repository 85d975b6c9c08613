package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	applog "draftshop/internal/log"
)

type Config struct {
	Port            string        `envconfig:"PORT"                default:"8080"`
	DBDriver        string        `envconfig:"DB_DRIVER"           default:"sqlite"`
	DBDSN           string        `envconfig:"DB_DSN"              default:"draftshop.db"`
	MediaDir        string        `envconfig:"MEDIA_DIR"           default:"./web/media"`
	LogFile         string        `envconfig:"LOG_FILE"            default:"./draftshop.log"`
	LogLevel        string        `envconfig:"LOG_LEVEL"           default:"info"`
	AdminUser       string        `envconfig:"ADMIN_USER"          default:"admin"`
	AdminHash       string        `envconfig:"ADMIN_PASSWORD_HASH"`
	SeedDemo        bool          `envconfig:"SEED_DEMO"           default:"true"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT"    default:"10s"`
}

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		applog.Logger().Warnf("[config] could not read .env (continuing): %v", err)
	}
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	applog.Logger().Infof("[config] PORT=%s DB_DRIVER=%s DB_DSN=%s MEDIA_DIR=%s LOG_FILE=%s ADMIN_USER=%s writes_enabled=%t",
		cfg.Port, cfg.DBDriver, cfg.DBDSN, cfg.MediaDir, cfg.LogFile, cfg.AdminUser, cfg.WritesEnabled())
	return cfg, nil
}

// WritesEnabled reports whether an admin password hash is configured.
func (c Config) WritesEnabled() bool { return c.AdminHash != "" }
