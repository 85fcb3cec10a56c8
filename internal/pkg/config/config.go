package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (timezone, timeout, etc.), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server   ServerConfig
	DB       DBConfig
	CORS     CORSConfig
	Log      LogConfig
	JWT      JWTConfig
	Cookie   CookieConfig
	Store    StoreConfig
	Catalog  CatalogConfig
	AutoShop AutoShopConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER"`
	Password string `envconfig:"DB_PASSWORD"`
	DBName   string `envconfig:"DB_NAME"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"Asia/Tokyo"`
	MaxConns int32  `envconfig:"DB_MAX_CONNS" default:"10"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"Asia/Tokyo"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"32400"` // 9*60*60
}

// JWTConfig only validates tokens; they are issued by the auth service.
type JWTConfig struct {
	Secret   string `envconfig:"JWT_SECRET" required:"true"`
	Duration string `envconfig:"JWT_DURATION" default:"24h"`
	Issuer   string `envconfig:"JWT_ISSUER" default:""`
}

type CookieConfig struct {
	Domain        string        `envconfig:"COOKIE_DOMAIN" default:""`
	Secure        bool          `envconfig:"COOKIE_SECURE" default:"false"`
	SameSite      string        `envconfig:"COOKIE_SAME_SITE" default:"Lax"`
	SessionMaxAge time.Duration `envconfig:"COOKIE_SESSION_MAX_AGE" default:"720h"`
}

type StoreConfig struct {
	// Driver selects the durable backend for authenticated users: postgres or bolt.
	Driver   string `envconfig:"STORE_DRIVER" default:"postgres"`
	BoltPath string `envconfig:"BOLT_PATH" default:"autoshop.db"`
}

type CatalogConfig struct {
	Source      string        `envconfig:"CATALOG_SOURCE" default:"http"` // http | file
	BaseURL     string        `envconfig:"CATALOG_BASE_URL" default:"http://localhost:8090"`
	FixturePath string        `envconfig:"CATALOG_FIXTURE_PATH" default:"catalog.yaml"`
	Timeout     time.Duration `envconfig:"CATALOG_TIMEOUT" default:"3s"`
	Watch       bool          `envconfig:"CATALOG_WATCH" default:"false"`
	// upper bound on one catalog response body
	MaxResponseBytes int64 `envconfig:"CATALOG_MAX_RESPONSE_BYTES" default:"1048576"`
}

type AutoShopConfig struct {
	InitialCoins           int64         `envconfig:"AUTOSHOP_INITIAL_COINS" default:"1000"`
	TickTimeout            time.Duration `envconfig:"AUTOSHOP_TICK_TIMEOUT" default:"10s"`
	DefaultTickInterval    time.Duration `envconfig:"AUTOSHOP_DEFAULT_TICK_INTERVAL" default:"60s"`
	MinTickInterval        time.Duration `envconfig:"AUTOSHOP_MIN_TICK_INTERVAL" default:"1s"`
	ReconcileConcurrency   int           `envconfig:"AUTOSHOP_RECONCILE_CONCURRENCY" default:"8"`
	ShutdownTimeout        time.Duration `envconfig:"AUTOSHOP_SHUTDOWN_TIMEOUT" default:"15s"`
	PendingCacheMaxEntries int           `envconfig:"AUTOSHOP_PENDING_CACHE_MAX_ENTRIES" default:"10000"`
}

const (
	StoreDriverPostgres = "postgres"
	StoreDriverBolt     = "bolt"

	CatalogSourceHTTP = "http"
	CatalogSourceFile = "file"
)

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadCLIConfig reads only what offline tooling needs; server-only settings
// such as PORT and JWT_SECRET are not required.
func LoadCLIConfig() (Config, error) {
	var cfg Config
	for _, part := range []any{&cfg.DB, &cfg.Log, &cfg.Store, &cfg.AutoShop} {
		if err := envconfig.Process("", part); err != nil {
			return Config{}, fmt.Errorf("failed to process env config: %w", err)
		}
	}
	cfg.Catalog.Source = CatalogSourceFile
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Store.Driver {
	case StoreDriverPostgres:
		if c.DB.User == "" || c.DB.DBName == "" {
			return fmt.Errorf("DB_USER and DB_NAME are required for STORE_DRIVER=%s", c.Store.Driver)
		}
	case StoreDriverBolt:
		if c.Store.BoltPath == "" {
			return fmt.Errorf("BOLT_PATH is required for STORE_DRIVER=%s", c.Store.Driver)
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver)
	}
	switch c.Catalog.Source {
	case CatalogSourceHTTP, CatalogSourceFile:
	default:
		return fmt.Errorf("unknown CATALOG_SOURCE %q", c.Catalog.Source)
	}
	if c.Catalog.Source == CatalogSourceHTTP && c.Catalog.MaxResponseBytes <= 0 {
		return fmt.Errorf("CATALOG_MAX_RESPONSE_BYTES must be positive")
	}
	if c.AutoShop.MinTickInterval <= 0 {
		return fmt.Errorf("AUTOSHOP_MIN_TICK_INTERVAL must be positive")
	}
	if c.AutoShop.InitialCoins < 0 {
		return fmt.Errorf("AUTOSHOP_INITIAL_COINS must not be negative")
	}
	return nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "Asia/Tokyo",
			MaxConns: 5,
		},
		CORS: CORSConfig{
			AllowOrigins: []string{"http://localhost:3000"},
			AllowMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
			MaxAge:       time.Hour,
		},
		Log: LogConfig{
			Level:          "error", // Error level only for tests
			TimeZone:       "Asia/Tokyo",
			TimeFormat:     "2006-01-02 15:04:05.000",
			TimeZoneOffset: 32400,
		},
		JWT: JWTConfig{
			Secret:   "test-secret",
			Duration: "1h",
		},
		Cookie: CookieConfig{
			SameSite:      "Lax",
			SessionMaxAge: time.Hour,
		},
		Store: StoreConfig{
			Driver: StoreDriverPostgres,
		},
		Catalog: CatalogConfig{
			Source:           CatalogSourceFile,
			Timeout:          time.Second,
			MaxResponseBytes: 1 << 20,
		},
		AutoShop: AutoShopConfig{
			InitialCoins:           1000,
			TickTimeout:            5 * time.Second,
			DefaultTickInterval:    time.Minute,
			MinTickInterval:        time.Second,
			ReconcileConcurrency:   4,
			ShutdownTimeout:        5 * time.Second,
			PendingCacheMaxEntries: 100,
		},
	}
}
