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
	Session      SessionConfig
	Password     PasswordConfig
	Gateway      GatewayConfig
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
	Env          string `envconfig:"SHOPHUB_APP_ENV" required:"true"`
	Port         string `envconfig:"SHOPHUB_APP_PORT" required:"true"`
	BaseURL      string `envconfig:"SHOPHUB_APP_BASE_URL" default:"http://localhost:8080"`
	LogLevel     string `envconfig:"SHOPHUB_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SHOPHUB_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SHOPHUB_DB_DSN"`
	Driver string `envconfig:"SHOPHUB_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SHOPHUB_DB_HOST"`
	LegacyPort     int    `envconfig:"SHOPHUB_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SHOPHUB_DB_USER"`
	LegacyPassword string `envconfig:"SHOPHUB_DB_PASSWORD"`
	LegacyName     string `envconfig:"SHOPHUB_DB_NAME"`
	LegacySSLMode  string `envconfig:"SHOPHUB_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SHOPHUB_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SHOPHUB_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SHOPHUB_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SHOPHUB_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SHOPHUB_REDIS_URL" required:"true"`
	Address      string        `envconfig:"SHOPHUB_REDIS_ADDR"`
	Password     string        `envconfig:"SHOPHUB_REDIS_PASSWORD"`
	DB           int           `envconfig:"SHOPHUB_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SHOPHUB_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SHOPHUB_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SHOPHUB_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SHOPHUB_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SHOPHUB_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type SessionConfig struct {
	CookieName string        `envconfig:"SHOPHUB_SESSION_COOKIE" default:"shophub_session"`
	TTL        time.Duration `envconfig:"SHOPHUB_SESSION_TTL" default:"336h"`
	Secure     bool          `envconfig:"SHOPHUB_SESSION_SECURE" default:"false"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"SHOPHUB_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"SHOPHUB_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"SHOPHUB_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"SHOPHUB_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"SHOPHUB_ARGON_KEY_LEN" default:"32"`
}

// GatewayConfig carries credentials for the external payment gateway. The
// capture flow lives entirely on the gateway side; we only create payment
// references.
type GatewayConfig struct {
	AccessToken string `envconfig:"SHOPHUB_GATEWAY_ACCESS_TOKEN"`
	LocationID  string `envconfig:"SHOPHUB_GATEWAY_LOCATION_ID"`
	Env         string `envconfig:"SHOPHUB_GATEWAY_ENV" default:"sandbox"`
	Currency    string `envconfig:"SHOPHUB_GATEWAY_CURRENCY" default:"INR"`
}

// Environment returns the normalized gateway environment (sandbox/production).
func (g GatewayConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(g.Env))
	if env == "" {
		return "sandbox"
	}
	return env
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"SHOPHUB_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"SHOPHUB_AUTO_MIGRATE" default:"false"`
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
