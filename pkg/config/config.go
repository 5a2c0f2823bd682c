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
	FeatureFlags FeatureFlagsConfig
	Pricing      PricingConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Pricing.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SABU_APP_ENV" required:"true"`
	Port         string `envconfig:"SABU_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SABU_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SABU_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SABU_DB_DSN"`
	Driver string `envconfig:"SABU_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SABU_DB_HOST"`
	LegacyPort     int    `envconfig:"SABU_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SABU_DB_USER"`
	LegacyPassword string `envconfig:"SABU_DB_PASSWORD"`
	LegacyName     string `envconfig:"SABU_DB_NAME"`
	LegacySSLMode  string `envconfig:"SABU_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SABU_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SABU_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SABU_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SABU_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SABU_REDIS_URL"`
	Address      string        `envconfig:"SABU_REDIS_ADDR"`
	Password     string        `envconfig:"SABU_REDIS_PASSWORD"`
	DB           int           `envconfig:"SABU_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SABU_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SABU_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SABU_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SABU_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SABU_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"SABU_AUTO_MIGRATE" default:"false"`
}

// PricingConfig tunes the comparison engine and its catalog gateway.
type PricingConfig struct {
	GatewayTimeout       time.Duration `envconfig:"SABU_PRICING_GATEWAY_TIMEOUT" default:"5s"`
	GatewayRetries       int           `envconfig:"SABU_PRICING_GATEWAY_RETRIES" default:"2"`
	PromotionCacheTTL    time.Duration `envconfig:"SABU_PRICING_PROMOTION_CACHE_TTL" default:"5m"`
	DuplicateOfferPolicy string        `envconfig:"SABU_PRICING_DUPLICATE_OFFER_POLICY" default:"highest-price"`
}

func (p PricingConfig) validate() error {
	switch p.DuplicateOfferPolicy {
	case DuplicateOfferHighestPrice, DuplicateOfferLowestPrice:
		return nil
	}
	return fmt.Errorf("invalid duplicate offer policy %q", p.DuplicateOfferPolicy)
}

// PreferHighestPriceOnTie reports whether duplicate offers with equal
// availability resolve to the more expensive row.
func (p PricingConfig) PreferHighestPriceOnTie() bool {
	return p.DuplicateOfferPolicy != DuplicateOfferLowestPrice
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
