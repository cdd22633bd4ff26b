package store

import (
	"time"

	"filterdetect/internal/platform/config"
)

// Config aggregates backend settings
type Config struct {
	PG    PGConfig
	Redis RedisConfig
}

// PGConfig configures the registry pool
type PGConfig struct {
	Enabled     bool
	URL         string
	AppName     string
	MaxConns    int32
	LogSQL      bool
	SlowQueryMs int

	ConnectAttempts int
	PingTimeout     time.Duration
}

// RedisConfig configures the cache client
type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// ConfigFromEnv reads SERVICE_PGSQL_* and SERVICE_REDIS_*; a backend is enabled when its address is set
func ConfigFromEnv(cfg config.Conf, appName string) Config {
	pgc := cfg.Prefix("SERVICE_PGSQL_")
	rdc := cfg.Prefix("SERVICE_REDIS_")
	url := pgc.MayString("DBURL", "")
	addr := rdc.MayString("ADDR", "")
	return Config{
		PG: PGConfig{
			Enabled:         url != "",
			URL:             url,
			AppName:         appName,
			MaxConns:        int32(pgc.MayInt("MAX_CONNS", 8)),
			LogSQL:          pgc.MayBool("LOG_SQL", false),
			SlowQueryMs:     pgc.MayInt("SLOW_MS", 200),
			ConnectAttempts: pgc.MayInt("CONNECT_ATTEMPTS", 6),
			PingTimeout:     pgc.MayDuration("PING_TIMEOUT", 3*time.Second),
		},
		Redis: RedisConfig{
			Enabled:  addr != "",
			Addr:     addr,
			Password: rdc.MayString("PASSWORD", ""),
			DB:       rdc.MayInt("DB", 0),
			Prefix:   rdc.MayString("PREFIX", appName+":"),
		},
	}
}
