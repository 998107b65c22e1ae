package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Sendgrid      SendgridConfig
	Cloudinary    CloudinaryConfig
	Marketplace   MarketplaceConfig
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
	Env          string `envconfig:"SOFTSELL_APP_ENV" required:"true"`
	Port         string `envconfig:"SOFTSELL_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SOFTSELL_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SOFTSELL_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SOFTSELL_DB_DSN"`
	Driver string `envconfig:"SOFTSELL_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SOFTSELL_DB_HOST"`
	LegacyPort     int    `envconfig:"SOFTSELL_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SOFTSELL_DB_USER"`
	LegacyPassword string `envconfig:"SOFTSELL_DB_PASSWORD"`
	LegacyName     string `envconfig:"SOFTSELL_DB_NAME"`
	LegacySSLMode  string `envconfig:"SOFTSELL_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SOFTSELL_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SOFTSELL_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SOFTSELL_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SOFTSELL_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SOFTSELL_REDIS_URL" required:"true"`
	Address      string        `envconfig:"SOFTSELL_REDIS_ADDR"`
	Password     string        `envconfig:"SOFTSELL_REDIS_PASSWORD"`
	DB           int           `envconfig:"SOFTSELL_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SOFTSELL_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SOFTSELL_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SOFTSELL_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SOFTSELL_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SOFTSELL_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"SOFTSELL_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"SOFTSELL_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"SOFTSELL_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"SOFTSELL_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"SOFTSELL_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"SOFTSELL_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"SOFTSELL_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"SOFTSELL_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"SOFTSELL_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"SOFTSELL_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"SOFTSELL_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"SOFTSELL_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"SOFTSELL_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"SOFTSELL_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"SOFTSELL_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"SOFTSELL_AUTO_MIGRATE" default:"false"`
}

type SendgridConfig struct {
	APIKey    string `envconfig:"SOFTSELL_SENDGRID_API_KEY"`
	FromEmail string `envconfig:"SOFTSELL_SENDGRID_FROM_EMAIL"`
	FromName  string `envconfig:"SOFTSELL_SENDGRID_FROM_NAME" default:"SoftSell"`
	Sandbox   bool   `envconfig:"SOFTSELL_SENDGRID_SANDBOX" default:"false"`
}

type CloudinaryConfig struct {
	CloudName string `envconfig:"SOFTSELL_CLOUDINARY_CLOUD_NAME"`
	APIKey    string `envconfig:"SOFTSELL_CLOUDINARY_API_KEY"`
	APISecret string `envconfig:"SOFTSELL_CLOUDINARY_API_SECRET"`
	Folder    string `envconfig:"SOFTSELL_CLOUDINARY_FOLDER" default:"transactions"`
}

type MarketplaceConfig struct {
	FeedbackBaseURL string `envconfig:"SOFTSELL_FEEDBACK_BASE_URL" default:"https://softsell.in"`
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
