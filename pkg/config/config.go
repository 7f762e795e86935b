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
	Password     PasswordConfig
	Cart         CartConfig
	Cron         CronConfig
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
	Env          string `envconfig:"PARFUMELLE_APP_ENV" required:"true"`
	Port         string `envconfig:"PARFUMELLE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"PARFUMELLE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PARFUMELLE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"PARFUMELLE_DB_DSN"`
	Driver string `envconfig:"PARFUMELLE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"PARFUMELLE_DB_HOST"`
	LegacyPort     int    `envconfig:"PARFUMELLE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"PARFUMELLE_DB_USER"`
	LegacyPassword string `envconfig:"PARFUMELLE_DB_PASSWORD"`
	LegacyName     string `envconfig:"PARFUMELLE_DB_NAME"`
	LegacySSLMode  string `envconfig:"PARFUMELLE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PARFUMELLE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PARFUMELLE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PARFUMELLE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PARFUMELLE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"PARFUMELLE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"PARFUMELLE_REDIS_ADDR"`
	Password     string        `envconfig:"PARFUMELLE_REDIS_PASSWORD"`
	DB           int           `envconfig:"PARFUMELLE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PARFUMELLE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PARFUMELLE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PARFUMELLE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PARFUMELLE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PARFUMELLE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"PARFUMELLE_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"PARFUMELLE_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"PARFUMELLE_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"PARFUMELLE_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"PARFUMELLE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"PARFUMELLE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"PARFUMELLE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"PARFUMELLE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"PARFUMELLE_ARGON_KEY_LEN" default:"32"`
}

type CartConfig struct {
	SessionTTL time.Duration `envconfig:"PARFUMELLE_CART_SESSION_TTL" default:"336h"`
}

type CronConfig struct {
	Interval          time.Duration `envconfig:"PARFUMELLE_CRON_INTERVAL" default:"24h"`
	LockTTL           time.Duration `envconfig:"PARFUMELLE_CRON_LOCK_TTL" default:"25h"`
	DiscountRetention time.Duration `envconfig:"PARFUMELLE_CRON_DISCOUNT_RETENTION" default:"720h"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"PARFUMELLE_AUTO_MIGRATE" default:"false"`
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
