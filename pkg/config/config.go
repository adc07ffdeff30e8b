package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
)

// defaultSQLiteDSN is used when SHOPCART_USE_SQLITE is set without a DSN.
const defaultSQLiteDSN = "file:shopcart.db?_busy_timeout=5000"

// Config is populated from SHOPCART_* environment variables.
type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Cart          CartConfig
	CORS          CORSConfig
}

// Load reads the environment, fills derived values and validates ranges.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.FeatureFlags.UseSQLite {
		cfg.DB.Driver = "sqlite"
		if cfg.DB.DSN == "" {
			cfg.DB.DSN = defaultSQLiteDSN
		}
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SHOPCART_APP_ENV" required:"true"`
	Port         string `envconfig:"SHOPCART_APP_PORT" default:"5000"`
	LogLevel     string `envconfig:"SHOPCART_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"SHOPCART_LOG_FORMAT" default:"json" validate:"oneof=json console"`
	LogWarnStack bool   `envconfig:"SHOPCART_LOG_WARN_STACK" default:"false"`

	// TrustProxyHeaders takes the client IP from X-Forwarded-For and friends.
	TrustProxyHeaders bool `envconfig:"SHOPCART_TRUST_PROXY_HEADERS" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SHOPCART_DB_DSN"`
	Driver string `envconfig:"SHOPCART_DB_DRIVER" default:"postgres" validate:"oneof=postgres sqlite"`

	LegacyHost     string `envconfig:"SHOPCART_DB_HOST"`
	LegacyPort     int    `envconfig:"SHOPCART_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SHOPCART_DB_USER"`
	LegacyPassword string `envconfig:"SHOPCART_DB_PASSWORD"`
	LegacyName     string `envconfig:"SHOPCART_DB_NAME"`
	LegacySSLMode  string `envconfig:"SHOPCART_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SHOPCART_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SHOPCART_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SHOPCART_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SHOPCART_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	// SlowQueryThreshold logs statements slower than this at warn. Zero disables.
	SlowQueryThreshold time.Duration `envconfig:"SHOPCART_DB_SLOW_QUERY_THRESHOLD" default:"200ms"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SHOPCART_REDIS_URL"`
	Address      string        `envconfig:"SHOPCART_REDIS_ADDR"`
	Password     string        `envconfig:"SHOPCART_REDIS_PASSWORD"`
	DB           int           `envconfig:"SHOPCART_REDIS_DB" default:"0"`
	KeyPrefix    string        `envconfig:"SHOPCART_REDIS_KEY_PREFIX" default:"sc"`
	PoolSize     int           `envconfig:"SHOPCART_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SHOPCART_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SHOPCART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SHOPCART_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SHOPCART_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"SHOPCART_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"SHOPCART_JWT_ISSUER" default:"shopcart"`
	ExpirationMinutes      int    `envconfig:"SHOPCART_JWT_EXPIRATION_MINUTES" default:"60" validate:"min=1"`
	RefreshTokenTTLMinutes int    `envconfig:"SHOPCART_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"SHOPCART_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"SHOPCART_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"SHOPCART_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"SHOPCART_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"SHOPCART_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"SHOPCART_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"SHOPCART_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"SHOPCART_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"SHOPCART_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"SHOPCART_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"SHOPCART_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"SHOPCART_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"SHOPCART_AUTO_MIGRATE" default:"false"`
}

// CartConfig tunes the cart engine and the HTTP replay of conflicting writes.
type CartConfig struct {
	ConflictRetries   int           `envconfig:"SHOPCART_CART_CONFLICT_RETRIES" default:"5" validate:"min=0,max=50"`
	ConflictBackoff   time.Duration `envconfig:"SHOPCART_CART_CONFLICT_BACKOFF" default:"20ms" validate:"min=0"`
	LookupConcurrency int           `envconfig:"SHOPCART_CART_LOOKUP_CONCURRENCY" default:"8" validate:"min=1,max=64"`
}

type CORSConfig struct {
	AllowedOrigins   []string      `envconfig:"SHOPCART_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
	AllowCredentials bool          `envconfig:"SHOPCART_CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"SHOPCART_CORS_MAX_AGE" default:"5m"`
}

// ensureDSN assembles a postgres URL from the split SHOPCART_DB_* parts when
// no DSN was given.
func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if strings.EqualFold(db.Driver, "sqlite") {
		return fmt.Errorf("%s is required for sqlite", EnvDBDSN)
	}

	var missing []string
	for env, value := range map[string]string{EnvDBHost: db.LegacyHost, EnvDBUser: db.LegacyUser, EnvDBName: db.LegacyName} {
		if value == "" {
			missing = append(missing, env)
		}
	}
	if len(missing) > 0 {
		slices.Sort(missing)
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
