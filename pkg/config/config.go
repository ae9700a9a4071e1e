package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "ONBOARD_DB_DSN"
	EnvDBHost = "ONBOARD_DB_HOST"
	EnvDBUser = "ONBOARD_DB_USER"
	EnvDBName = "ONBOARD_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App             AppConfig
	DB              DBConfig
	Redis           RedisConfig
	JWT             JWTConfig
	Password        PasswordConfig
	Mail            MailConfig
	GCS             GCSConfig
	VAT             VATConfig
	PortalRateLimit PortalRateLimitConfig
	Reminder        ReminderConfig
	FeatureFlags    FeatureFlagsConfig
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
	Env          string `envconfig:"ONBOARD_APP_ENV" required:"true"`
	Port         string `envconfig:"ONBOARD_APP_PORT" required:"true"`
	BaseURL      string `envconfig:"ONBOARD_APP_BASE_URL" default:"http://localhost:3000"`
	LogLevel     string `envconfig:"ONBOARD_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"ONBOARD_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"ONBOARD_DB_DSN"`
	Driver string `envconfig:"ONBOARD_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"ONBOARD_DB_HOST"`
	LegacyPort     int    `envconfig:"ONBOARD_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"ONBOARD_DB_USER"`
	LegacyPassword string `envconfig:"ONBOARD_DB_PASSWORD"`
	LegacyName     string `envconfig:"ONBOARD_DB_NAME"`
	LegacySSLMode  string `envconfig:"ONBOARD_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"ONBOARD_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"ONBOARD_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"ONBOARD_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ONBOARD_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"ONBOARD_REDIS_URL" required:"true"`
	Address      string        `envconfig:"ONBOARD_REDIS_ADDR"`
	Password     string        `envconfig:"ONBOARD_REDIS_PASSWORD"`
	DB           int           `envconfig:"ONBOARD_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ONBOARD_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ONBOARD_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ONBOARD_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ONBOARD_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ONBOARD_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"ONBOARD_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"ONBOARD_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"ONBOARD_JWT_EXPIRATION_MINUTES" default:"480"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"ONBOARD_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"ONBOARD_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"ONBOARD_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"ONBOARD_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"ONBOARD_ARGON_KEY_LEN" default:"32"`
}

type MailConfig struct {
	Host        string        `envconfig:"ONBOARD_SMTP_HOST"`
	Port        int           `envconfig:"ONBOARD_SMTP_PORT" default:"587"`
	Username    string        `envconfig:"ONBOARD_SMTP_USERNAME"`
	Password    string        `envconfig:"ONBOARD_SMTP_PASSWORD"`
	From        string        `envconfig:"ONBOARD_MAIL_FROM" default:"noreply@coloriginz.com"`
	SendTimeout time.Duration `envconfig:"ONBOARD_MAIL_SEND_TIMEOUT" default:"10s"`
}

// Enabled reports whether outbound mail is configured. Dispatch degrades to
// log-only when it is not.
func (m MailConfig) Enabled() bool {
	return m.Host != ""
}

type GCSConfig struct {
	BucketName      string        `envconfig:"ONBOARD_GCS_BUCKET_NAME"`
	CredentialsJSON string        `envconfig:"ONBOARD_GCS_CREDENTIALS_JSON"`
	UploadTimeout   time.Duration `envconfig:"ONBOARD_GCS_UPLOAD_TIMEOUT" default:"30s"`
}

type VATConfig struct {
	BaseURL string        `envconfig:"ONBOARD_VAT_BASE_URL" default:"https://ec.europa.eu/taxation_customs/vies/rest-api"`
	Timeout time.Duration `envconfig:"ONBOARD_VAT_TIMEOUT" default:"5s"`
}

type PortalRateLimitConfig struct {
	Window     time.Duration `envconfig:"ONBOARD_PORTAL_RATE_LIMIT_WINDOW" default:"1m"`
	IPLimit    int           `envconfig:"ONBOARD_PORTAL_RATE_LIMIT_IP_LIMIT" default:"30"`
	TokenLimit int           `envconfig:"ONBOARD_PORTAL_RATE_LIMIT_TOKEN_LIMIT" default:"10"`
}

type ReminderConfig struct {
	Interval   time.Duration `envconfig:"ONBOARD_REMINDER_INTERVAL" default:"24h"`
	StaleAfter time.Duration `envconfig:"ONBOARD_REMINDER_STALE_AFTER" default:"168h"`
	LockTTL    time.Duration `envconfig:"ONBOARD_REMINDER_LOCK_TTL" default:"23h"`
	MetricsPort string       `envconfig:"ONBOARD_REMINDER_METRICS_PORT" default:"9090"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"ONBOARD_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"ONBOARD_AUTO_MIGRATE" default:"false"`
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
