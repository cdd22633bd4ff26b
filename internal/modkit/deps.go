// Package modkit wires API modules from shared dependencies and options
package modkit

import (
	"filterdetect/internal/modkit/repokit"
	"filterdetect/internal/platform/config"
	"filterdetect/internal/platform/logger"
	"filterdetect/internal/platform/store"
)

// Deps are the shared dependencies handed to every module.
// PG and KV are nil when the backend is not configured
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
	PG  repokit.Queryer
	KV  store.KV
}

// DepsFromStore fills the backend fields from an opened store
func DepsFromStore(cfg config.Conf, log logger.Logger, st *store.Store) Deps {
	d := Deps{Log: log, Cfg: cfg}
	if st != nil {
		d.PG = st.PG
		d.KV = st.Redis
	}
	return d
}
