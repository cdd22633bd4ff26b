// Command filterdetect-resolve resolves part-number queries from arguments or
// stdin (one per line) and prints one JSON record per line
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"filterdetect/internal/modkit"
	"filterdetect/internal/modkit/repokit"
	"filterdetect/internal/platform/config"
	"filterdetect/internal/platform/logger"
	"filterdetect/internal/platform/store"

	detectmod "filterdetect/internal/services/detect/module"
	drepo "filterdetect/internal/services/detect/repo"
)

func mustSetEnv(k, v string) {
	if v != "" {
		_ = os.Setenv(k, v)
	}
}

func main() {
	var (
		finderTimeout = flag.Duration("finder-timeout", 0, "per-call finder bound (default CORE_DETECT_FINDER_TIMEOUT)")
		workers       = flag.Int("workers", 0, "batch concurrency (default CORE_DETECT_BATCH_WORKERS)")
		migrate       = flag.Bool("migrate", false, "create the registry table before resolving")
		seed          = flag.String("seed", "", "upsert oem,donaldson,fram CSV rows into the registry before resolving")
		pretty        = flag.Bool("pretty", false, "indent JSON output")
	)
	flag.Parse()

	// Pass CLI flags into CORE_DETECT_* so the module reads its own config
	if *finderTimeout > 0 {
		mustSetEnv("CORE_DETECT_FINDER_TIMEOUT", finderTimeout.String())
	}
	if *workers > 0 {
		mustSetEnv("CORE_DETECT_BATCH_WORKERS", strconv.Itoa(*workers))
	}

	root := config.New()
	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, store.ConfigFromEnv(root, "filterdetect-resolve"), store.WithLogger(*l))
	if err != nil {
		l.Fatal().Err(err).Msg("store.Open failed")
	}
	defer func() { _ = st.Close(context.Background()) }()

	deps := modkit.DepsFromStore(root, *l, st)
	if *migrate || *seed != "" {
		reg, ok := repokit.BindOptional(drepo.NewPG(), deps.PG)
		if !ok {
			l.Fatal().Msg("-migrate and -seed need SERVICE_PGSQL_DBURL")
		}
		if *migrate {
			if err := reg.Migrate(ctx); err != nil {
				l.Fatal().Err(err).Msg("migrate failed")
			}
		}
		if *seed != "" {
			n, err := seedFile(ctx, reg, *seed)
			if err != nil {
				l.Fatal().Err(err).Str("file", *seed).Msg("seed failed")
			}
			l.Info().Int("rows", n).Str("file", *seed).Msg("registry seeded")
			if flag.NArg() == 0 {
				return
			}
		}
	}

	queries := flag.Args()
	if len(queries) == 0 {
		queries, err = readLines(os.Stdin)
		if err != nil {
			l.Fatal().Err(err).Msg("read stdin failed")
		}
	}
	if len(queries) == 0 {
		l.Fatal().Msg("no queries: pass them as arguments or on stdin")
	}

	res := detectmod.NewResolver(deps, detectmod.FromConfig(root), nil)
	enc := json.NewEncoder(os.Stdout)
	if *pretty {
		enc.SetIndent("", "  ")
	}
	for _, rec := range res.ResolveBatch(ctx, queries) {
		if err := enc.Encode(rec); err != nil {
			l.Fatal().Err(err).Msg("write failed")
		}
	}
}

// seedFile loads a seed CSV into reg
func seedFile(ctx context.Context, reg drepo.Registry, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer func() { _ = f.Close() }()
	return drepo.Seed(ctx, reg, f)
}

// readLines returns the non-empty lines of r
func readLines(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if line := sc.Text(); line != "" {
			out = append(out, line)
		}
	}
	return out, sc.Err()
}
