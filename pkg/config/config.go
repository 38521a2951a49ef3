package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App         AppConfig
	DB          DBConfig
	Redis       RedisConfig
	Admin       AdminConfig
	Repricer    RepricerConfig
	Supplier    SupplierConfig
	Discovery   DiscoveryConfig
	Cache       CacheConfig
	Fulfillment FulfillmentConfig
	Notify      NotifyConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.DB.DSN == "" {
		return nil, fmt.Errorf("DROPMASTERS_DB_DSN is required")
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"DROPMASTERS_APP_ENV" default:"dev"`
	Port         string `envconfig:"DROPMASTERS_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"DROPMASTERS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"DROPMASTERS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"DROPMASTERS_DB_DSN"`
	Driver string `envconfig:"DROPMASTERS_DB_DRIVER" default:"postgres"`

	MaxOpenConns    int           `envconfig:"DROPMASTERS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"DROPMASTERS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"DROPMASTERS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"DROPMASTERS_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	AutoMigrate bool `envconfig:"DROPMASTERS_DB_AUTO_MIGRATE" default:"false"`
}

type RedisConfig struct {
	URL          string        `envconfig:"DROPMASTERS_REDIS_URL" required:"true"`
	Password     string        `envconfig:"DROPMASTERS_REDIS_PASSWORD"`
	DB           int           `envconfig:"DROPMASTERS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"DROPMASTERS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"DROPMASTERS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"DROPMASTERS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"DROPMASTERS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"DROPMASTERS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type AdminConfig struct {
	Secret string `envconfig:"DROPMASTERS_ADMIN_SECRET" required:"true"`
}

type RepricerConfig struct {
	Interval             time.Duration `envconfig:"DROPMASTERS_REPRICER_INTERVAL" default:"5m"`
	ColdStartDelay       time.Duration `envconfig:"DROPMASTERS_REPRICER_COLD_START_DELAY" default:"15s"`
	Cooldown             time.Duration `envconfig:"DROPMASTERS_REPRICER_COOLDOWN" default:"5m"`
	RetryDelay           time.Duration `envconfig:"DROPMASTERS_REPRICER_RETRY_DELAY" default:"1m"`
	DissatisfactionDecay float64       `envconfig:"DROPMASTERS_REPRICER_DISSATISFACTION_DECAY" default:"0"`
	LockTTL              time.Duration `envconfig:"DROPMASTERS_REPRICER_LOCK_TTL" default:"10m"`
}

type SupplierConfig struct {
	// PressureDecay is the fraction of supply chain pressure released after
	// each cycle. Zero keeps pressure cumulative.
	PressureDecay float64 `envconfig:"DROPMASTERS_SUPPLIER_PRESSURE_DECAY" default:"0"`
}

type DiscoveryConfig struct {
	BaseURL        string        `envconfig:"DROPMASTERS_DISCOVERY_BASE_URL" default:"https://lista.mercadolivre.com.br"`
	RequestTimeout time.Duration `envconfig:"DROPMASTERS_DISCOVERY_TIMEOUT" default:"12s"`
	RatePerSecond  float64       `envconfig:"DROPMASTERS_DISCOVERY_RPS" default:"1"`
}

type CacheConfig struct {
	ProductsTTL time.Duration `envconfig:"DROPMASTERS_CACHE_PRODUCTS_TTL" default:"900s"`
}

type FulfillmentConfig struct {
	WebhookURL     string        `envconfig:"DROPMASTERS_FULFILLMENT_WEBHOOK_URL"`
	RequestTimeout time.Duration `envconfig:"DROPMASTERS_FULFILLMENT_TIMEOUT" default:"4s"`
}

type NotifyConfig struct {
	Workers   int `envconfig:"DROPMASTERS_NOTIFY_WORKERS" default:"4"`
	QueueSize int `envconfig:"DROPMASTERS_NOTIFY_QUEUE_SIZE" default:"64"`
}
