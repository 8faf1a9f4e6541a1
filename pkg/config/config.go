package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "vintagegrove"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "VINTAGEGROVE_DB_DSN"
	EnvDBHost = "VINTAGEGROVE_DB_HOST"
	EnvDBUser = "VINTAGEGROVE_DB_USER"
	EnvDBName = "VINTAGEGROVE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Cart         CartConfig
	Cache        CacheConfig
	Meta         MetaConfig
	Admin        AdminConfig
	Attribution  AttributionConfig
	CORS         CORSConfig
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
	Env          string `envconfig:"VINTAGEGROVE_APP_ENV" required:"true"`
	Port         string `envconfig:"VINTAGEGROVE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"VINTAGEGROVE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"VINTAGEGROVE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"VINTAGEGROVE_DB_DSN"`
	Driver string `envconfig:"VINTAGEGROVE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"VINTAGEGROVE_DB_HOST"`
	LegacyPort     int    `envconfig:"VINTAGEGROVE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"VINTAGEGROVE_DB_USER"`
	LegacyPassword string `envconfig:"VINTAGEGROVE_DB_PASSWORD"`
	LegacyName     string `envconfig:"VINTAGEGROVE_DB_NAME"`
	LegacySSLMode  string `envconfig:"VINTAGEGROVE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"VINTAGEGROVE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"VINTAGEGROVE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"VINTAGEGROVE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"VINTAGEGROVE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"VINTAGEGROVE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"VINTAGEGROVE_REDIS_ADDR"`
	Password     string        `envconfig:"VINTAGEGROVE_REDIS_PASSWORD"`
	DB           int           `envconfig:"VINTAGEGROVE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"VINTAGEGROVE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"VINTAGEGROVE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"VINTAGEGROVE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"VINTAGEGROVE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"VINTAGEGROVE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type CartConfig struct {
	SnapshotTTL time.Duration `envconfig:"VINTAGEGROVE_CART_SNAPSHOT_TTL" default:"720h"`
}

type CacheConfig struct {
	ProductTTL    time.Duration `envconfig:"VINTAGEGROVE_CACHE_PRODUCT_TTL" default:"5m"`
	SweepInterval time.Duration `envconfig:"VINTAGEGROVE_CACHE_SWEEP_INTERVAL" default:"1m"`
}

type MetaConfig struct {
	PixelID       string `envconfig:"VINTAGEGROVE_META_PIXEL_ID"`
	AccessToken   string `envconfig:"VINTAGEGROVE_META_ACCESS_TOKEN"`
	APIVersion    string `envconfig:"VINTAGEGROVE_META_API_VERSION" default:"v21.0"`
	TestEventCode string `envconfig:"VINTAGEGROVE_META_TEST_EVENT_CODE"`
	PixelEnabled  bool   `envconfig:"VINTAGEGROVE_META_PIXEL_ENABLED" default:"false"`
}

// Configured reports whether the server-side conversions leg can be wired.
func (m MetaConfig) Configured() bool {
	return strings.TrimSpace(m.PixelID) != "" && strings.TrimSpace(m.AccessToken) != ""
}

type AdminConfig struct {
	PasswordHash  string        `envconfig:"VINTAGEGROVE_ADMIN_PASSWORD_HASH"`
	SessionCookie string        `envconfig:"VINTAGEGROVE_ADMIN_SESSION_COOKIE" default:"admin_session"`
	SessionTTL    time.Duration `envconfig:"VINTAGEGROVE_ADMIN_SESSION_TTL" default:"24h"`

	ArgonMemoryKB    int `envconfig:"VINTAGEGROVE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"VINTAGEGROVE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"VINTAGEGROVE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"VINTAGEGROVE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"VINTAGEGROVE_ARGON_KEY_LEN" default:"32"`
}

type AttributionConfig struct {
	ClickIDCookieTTL time.Duration `envconfig:"VINTAGEGROVE_ATTRIBUTION_CLICK_ID_TTL" default:"2160h"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"VINTAGEGROVE_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"VINTAGEGROVE_FEATURE_AUTO_MIGRATE" default:"false"`
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
