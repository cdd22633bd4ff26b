package httpkit

import (
	"net/http"
	"time"

	"filterdetect/internal/platform/config"
	"filterdetect/internal/platform/net/middleware"
)

// StackConfig tunes CommonStack
type StackConfig struct {
	RequestTimeout time.Duration
	CORSOrigins    []string
	MaxInFlight    int
}

// StackConfigFromEnv reads CORE_API_REQUEST_TIMEOUT, CORE_API_CORS_ORIGINS and CORE_API_MAX_INFLIGHT
func StackConfigFromEnv(cfg config.Conf) StackConfig {
	c := cfg.Prefix("CORE_API_")
	return StackConfig{
		RequestTimeout: c.MayDuration("REQUEST_TIMEOUT", 30*time.Second),
		CORSOrigins:    c.MayCSV("CORS_ORIGINS", nil),
		MaxInFlight:    c.MayInt("MAX_INFLIGHT", 0),
	}
}

// CommonStack is the baseline API middleware: platform defaults, CORS and an
// optional in-flight cap. The /health heartbeat belongs on the root router
func CommonStack(sc StackConfig) []func(http.Handler) http.Handler {
	mws := middleware.Defaults(sc.RequestTimeout)
	mws = append(mws, middleware.CORS(sc.CORSOrigins))
	if sc.MaxInFlight > 0 {
		mws = append(mws, middleware.Throttle(sc.MaxInFlight, sc.MaxInFlight*2, sc.RequestTimeout))
	}
	return mws
}
