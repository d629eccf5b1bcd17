package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "REELSMITH"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App      AppConfig
	Platform PlatformConfig
	Cache    CacheConfig
	Session  SessionConfig
	Guard    GuardConfig
	Redis    RedisConfig
	CORS     CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"REELSMITH_APP_ENV" default:"dev"`
	Port         string `envconfig:"REELSMITH_APP_PORT" default:"3000"`
	LogLevel     string `envconfig:"REELSMITH_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"REELSMITH_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// PlatformConfig points the client at the video-generation backend.
type PlatformConfig struct {
	BaseURL string        `envconfig:"REELSMITH_API_URL" default:"http://localhost:8000/api/v1"`
	Timeout time.Duration `envconfig:"REELSMITH_API_TIMEOUT" default:"30s"`
}

// CacheConfig tunes the query synchronization layer. Staleness windows are
// per resource domain: fast-moving domains refresh sooner.
type CacheConfig struct {
	DefaultStale     time.Duration `envconfig:"REELSMITH_CACHE_DEFAULT_STALE" default:"5m"`
	AuthStale        time.Duration `envconfig:"REELSMITH_CACHE_AUTH_STALE" default:"5m"`
	UsersStale       time.Duration `envconfig:"REELSMITH_CACHE_USERS_STALE" default:"5m"`
	ProjectsStale    time.Duration `envconfig:"REELSMITH_CACHE_PROJECTS_STALE" default:"2m"`
	StepsStale       time.Duration `envconfig:"REELSMITH_CACHE_STEPS_STALE" default:"1m"`
	AuditStale       time.Duration `envconfig:"REELSMITH_CACHE_AUDIT_STALE" default:"5m"`
	DashboardStale   time.Duration `envconfig:"REELSMITH_CACHE_DASHBOARD_STALE" default:"2m"`
	RetryAttempts    uint64        `envconfig:"REELSMITH_CACHE_RETRY_ATTEMPTS" default:"3"`
	RetryBaseBackoff time.Duration `envconfig:"REELSMITH_CACHE_RETRY_BACKOFF" default:"250ms"`
	RefreshInterval  time.Duration `envconfig:"REELSMITH_CACHE_REFRESH_INTERVAL" default:"30s"`
}

// StaleFor returns the staleness window for a query-key domain.
func (c CacheConfig) StaleFor(domain string) time.Duration {
	switch domain {
	case "auth":
		return c.AuthStale
	case "users":
		return c.UsersStale
	case "video-projects":
		return c.ProjectsStale
	case "processing-steps":
		return c.StepsStale
	case "api-responses":
		return c.AuditStale
	case "dashboard":
		return c.DashboardStale
	default:
		return c.DefaultStale
	}
}

// SessionConfig covers the dual token persistence: a server-side token file
// and a browser cookie readable by the pre-render guard.
type SessionConfig struct {
	CookieName   string        `envconfig:"REELSMITH_SESSION_COOKIE_NAME" default:"auth_token"`
	CookieMaxAge time.Duration `envconfig:"REELSMITH_SESSION_COOKIE_MAX_AGE" default:"168h"`
	CookieSecure bool          `envconfig:"REELSMITH_SESSION_COOKIE_SECURE" default:"false"`
	TokenFile    string        `envconfig:"REELSMITH_SESSION_TOKEN_FILE" default:".reelsmith/token"`
}

type GuardConfig struct {
	ProtectedPrefixes []string `envconfig:"REELSMITH_GUARD_PROTECTED_PREFIXES" default:"/overview,/details,/settings"`
	LoginPath         string   `envconfig:"REELSMITH_GUARD_LOGIN_PATH" default:"/login"`
	HomePath          string   `envconfig:"REELSMITH_GUARD_HOME_PATH" default:"/overview"`
}

// RedisConfig is optional: when URL is empty the gateway keeps its query
// cache in process memory.
type RedisConfig struct {
	URL          string        `envconfig:"REELSMITH_REDIS_URL"`
	Namespace    string        `envconfig:"REELSMITH_REDIS_NAMESPACE" default:"reelsmith"`
	DialTimeout  time.Duration `envconfig:"REELSMITH_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"REELSMITH_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"REELSMITH_REDIS_WRITE_TIMEOUT" default:"5s"`
}

func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != ""
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"REELSMITH_CORS_ORIGINS" default:"http://localhost:3000"`
}
