package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Drafts       DraftsConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"FEIRA_APP_ENV" required:"true"`
	Port         string `envconfig:"FEIRA_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"FEIRA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FEIRA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"FEIRA_DB_DSN"`

	Host     string `envconfig:"FEIRA_DB_HOST"`
	Port     int    `envconfig:"FEIRA_DB_PORT" default:"5432"`
	User     string `envconfig:"FEIRA_DB_USER"`
	Password string `envconfig:"FEIRA_DB_PASSWORD"`
	Name     string `envconfig:"FEIRA_DB_NAME"`
	SSLMode  string `envconfig:"FEIRA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FEIRA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FEIRA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FEIRA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FEIRA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"FEIRA_REDIS_URL" required:"true"`
	Address      string        `envconfig:"FEIRA_REDIS_ADDR"`
	Password     string        `envconfig:"FEIRA_REDIS_PASSWORD"`
	DB           int           `envconfig:"FEIRA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FEIRA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FEIRA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FEIRA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FEIRA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FEIRA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"FEIRA_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"FEIRA_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"FEIRA_JWT_EXPIRATION_MINUTES" default:"60"`
}

// DraftsConfig controls the composition draft cache. Drafts expire instead of
// accumulating per (cycle, market) without bound.
type DraftsConfig struct {
	TTL time.Duration `envconfig:"FEIRA_DRAFT_TTL" default:"336h"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"FEIRA_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range requiredDBEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
