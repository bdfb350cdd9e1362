package config

import "strings"

// DBConfig contains PostgreSQL database configuration.
type DBConfig struct {
	Host     string `env:"HOST"     envDefault:"localhost"`
	Port     int    `env:"PORT"     envDefault:"5432"`
	User     string `env:"USER"     envDefault:"localauth"`
	Password string `env:"PASSWORD" envDefault:"localauth"`
	Name     string `env:"NAME"     envDefault:"localauth"`
	SSLMode  string `env:"SSL_MODE" envDefault:"disable"` // Use 'disable' for local dev, 'require' for production
	// MaxConns caps the pgx pool size.
	MaxConns int32 `env:"MAX_CONNS" envDefault:"10"`
	// RunMigrationsOnStart controls whether serve applies migrations during startup.
	RunMigrationsOnStart bool `env:"RUN_MIGRATIONS_ON_START" envDefault:"true"`
}

// RedisConfig contains Redis configuration. Redis is optional: when URI is
// empty and sentinel is disabled, revoked tokens are tracked in process memory.
type RedisConfig struct {
	URI                string   `env:"URI"                  envDefault:""`
	Password           string   `env:"PASSWORD"             envDefault:""`
	SentinelNodes      []string `env:"SENTINEL_NODES"       envDefault:""`
	SentinelMasterName string   `env:"SENTINEL_MASTER_NAME" envDefault:"mymaster"`
	SentinelPassword   string   `env:"SENTINEL_PASSWORD"    envDefault:""`
	UseSentinel        bool     `env:"USE_SENTINEL"         envDefault:"false"`
	KeyPrefix          string   `env:"KEY_PREFIX"           envDefault:"localauth:"`
}

// Sanitize trims whitespace from addresses.
func (r *RedisConfig) Sanitize() {
	r.URI = strings.TrimSpace(r.URI)
	nodes := r.SentinelNodes[:0]
	for _, n := range r.SentinelNodes {
		if t := strings.TrimSpace(n); t != "" {
			nodes = append(nodes, t)
		}
	}
	r.SentinelNodes = nodes
}

// Enabled reports whether a Redis connection is configured.
func (r *RedisConfig) Enabled() bool {
	if r.UseSentinel {
		return len(r.SentinelNodes) > 0
	}
	return r.URI != ""
}
