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
	Cookie       CookieConfig
	Hash         HashConfig
	OTP          OTPConfig
	Mail         MailConfig
	RateLimit    RateLimitConfig
	Orders       OrdersConfig
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
	Env          string        `envconfig:"PLANTNET_APP_ENV" required:"true"`
	Port         string        `envconfig:"PLANTNET_APP_PORT" default:"5000"`
	LogLevel     string        `envconfig:"PLANTNET_LOG_LEVEL" default:"info"`
	LogFormat    string        `envconfig:"PLANTNET_LOG_FORMAT" default:"json"`
	LogWarnStack bool          `envconfig:"PLANTNET_LOG_WARN_STACK" default:"false"`
	ReadTimeout  time.Duration `envconfig:"PLANTNET_HTTP_READ_TIMEOUT" default:"15s"`
	WriteTimeout time.Duration `envconfig:"PLANTNET_HTTP_WRITE_TIMEOUT" default:"30s"`
	IdleTimeout  time.Duration `envconfig:"PLANTNET_HTTP_IDLE_TIMEOUT" default:"60s"`
	ShutdownWait time.Duration `envconfig:"PLANTNET_HTTP_SHUTDOWN_TIMEOUT" default:"10s"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

// IsProd accepts both "prod" and "production" so NODE_ENV-style values keep working.
func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd) || strings.EqualFold(a.Env, AppEnvProduction)
}

type DBConfig struct {
	DSN string `envconfig:"PLANTNET_DB_DSN"`
	// Driver is "postgres" or "sqlite". sqlite is meant for local runs only.
	Driver string `envconfig:"PLANTNET_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"PLANTNET_DB_HOST"`
	LegacyPort     int    `envconfig:"PLANTNET_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"PLANTNET_DB_USER"`
	LegacyPassword string `envconfig:"PLANTNET_DB_PASSWORD"`
	LegacyName     string `envconfig:"PLANTNET_DB_NAME"`
	LegacySSLMode  string `envconfig:"PLANTNET_DB_SSLMODE" default:"disable"`

	SQLitePath string `envconfig:"PLANTNET_SQLITE_PATH" default:"plantnet.db"`

	MaxOpenConns    int           `envconfig:"PLANTNET_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PLANTNET_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PLANTNET_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PLANTNET_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// RedisConfig is optional. Without a URL or address the API falls back to the
// in-memory OTP store and skips rate limiting.
type RedisConfig struct {
	URL          string        `envconfig:"PLANTNET_REDIS_URL"`
	Address      string        `envconfig:"PLANTNET_REDIS_ADDR"`
	Password     string        `envconfig:"PLANTNET_REDIS_PASSWORD"`
	DB           int           `envconfig:"PLANTNET_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PLANTNET_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PLANTNET_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PLANTNET_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PLANTNET_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PLANTNET_REDIS_WRITE_TIMEOUT" default:"5s"`
}

func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type JWTConfig struct {
	Secret     string        `envconfig:"PLANTNET_ACCESS_TOKEN_SECRET" required:"true"`
	Issuer     string        `envconfig:"PLANTNET_JWT_ISSUER" default:"plantnet"`
	Expiration time.Duration `envconfig:"PLANTNET_JWT_EXPIRATION" default:"168h"`
}

type CookieConfig struct {
	Name   string `envconfig:"PLANTNET_COOKIE_NAME" default:"token"`
	Domain string `envconfig:"PLANTNET_COOKIE_DOMAIN"`
	Path   string `envconfig:"PLANTNET_COOKIE_PATH" default:"/"`
}

// HashConfig tunes the argon2id parameters used to hash one-time codes at rest.
type HashConfig struct {
	ArgonMemoryKB    int `envconfig:"PLANTNET_ARGON_MEMORY_KB" default:"19456"`
	ArgonTime        int `envconfig:"PLANTNET_ARGON_TIME" default:"2"`
	ArgonParallelism int `envconfig:"PLANTNET_ARGON_PARALLELISM" default:"1"`
	ArgonSaltLen     int `envconfig:"PLANTNET_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"PLANTNET_ARGON_KEY_LEN" default:"32"`
}

type OTPConfig struct {
	TTL           time.Duration `envconfig:"PLANTNET_OTP_TTL" default:"5m"`
	Retention     time.Duration `envconfig:"PLANTNET_OTP_RETENTION" default:"10m"`
	SweepInterval time.Duration `envconfig:"PLANTNET_OTP_SWEEP_INTERVAL" default:"1m"`
	MaxEntries    int           `envconfig:"PLANTNET_OTP_MAX_ENTRIES" default:"10000"`
	// Store selects the OTP backend: "memory" or "redis". Empty picks redis when configured.
	Store string `envconfig:"PLANTNET_OTP_STORE"`
}

type MailConfig struct {
	Host     string        `envconfig:"PLANTNET_SMTP_HOST"`
	Port     int           `envconfig:"PLANTNET_SMTP_PORT" default:"587"`
	Username string        `envconfig:"PLANTNET_SMTP_USER"`
	Password string        `envconfig:"PLANTNET_SMTP_PASSWORD"`
	From     string        `envconfig:"PLANTNET_MAIL_FROM"`
	Timeout  time.Duration `envconfig:"PLANTNET_SMTP_TIMEOUT" default:"15s"`
	// TLSPolicy is one of "mandatory", "opportunistic" or "none".
	TLSPolicy string `envconfig:"PLANTNET_SMTP_TLS_POLICY" default:"mandatory"`
}

func (m MailConfig) Enabled() bool {
	return strings.TrimSpace(m.Host) != ""
}

type RateLimitConfig struct {
	TokenWindow     time.Duration `envconfig:"PLANTNET_RATE_LIMIT_TOKEN_WINDOW" default:"1m"`
	TokenIPLimit    int           `envconfig:"PLANTNET_RATE_LIMIT_TOKEN_IP_LIMIT" default:"30"`
	OTPSendWindow   time.Duration `envconfig:"PLANTNET_RATE_LIMIT_OTP_SEND_WINDOW" default:"5m"`
	OTPSendIPLimit  int           `envconfig:"PLANTNET_RATE_LIMIT_OTP_SEND_IP_LIMIT" default:"20"`
	OTPSendEmail    int           `envconfig:"PLANTNET_RATE_LIMIT_OTP_SEND_EMAIL_LIMIT" default:"3"`
	OTPVerifyWindow time.Duration `envconfig:"PLANTNET_RATE_LIMIT_OTP_VERIFY_WINDOW" default:"5m"`
	OTPVerifyIP     int           `envconfig:"PLANTNET_RATE_LIMIT_OTP_VERIFY_IP_LIMIT" default:"30"`
	OTPVerifyEmail  int           `envconfig:"PLANTNET_RATE_LIMIT_OTP_VERIFY_EMAIL_LIMIT" default:"5"`
}

type OrdersConfig struct {
	ConditionalStock bool `envconfig:"PLANTNET_ORDERS_CONDITIONAL_STOCK" default:"true"`
	SampleSize       int  `envconfig:"PLANTNET_PRODUCTS_SAMPLE_SIZE" default:"100"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"PLANTNET_CORS_ORIGINS" default:"http://localhost:5173,https://server.fastforwardlogistics.org,https://fastforwardlogistics.org"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"PLANTNET_AUTO_MIGRATE" default:"false"`
}

// IsSQLite reports whether the sqlite driver is selected.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(db.Driver, DBDriverSQLite)
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" || db.IsSQLite() {
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
