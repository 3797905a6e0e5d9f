package main

import (
	"flag"
	"os"
	"runtime"

	"github.com/rs/zerolog"

	"github.com/kestrel-engine/kestrel/internal/evalbuilder"
	"github.com/kestrel-engine/kestrel/pkg/engine"
	"github.com/kestrel-engine/kestrel/pkg/uci"
)

const (
	name   = "Kestrel"
	author = "Kestrel authors"
)

// Overridden at build time via -ldflags.
var (
	versionName = "dev"
	buildDate   = "(null)"
	gitRevision = "(null)"
)

func main() {
	var flgEval = flag.String("eval", "", "evaluation function")
	var flgDebug = flag.Bool("debug", false, "verbose logging")
	flag.Parse()

	if *flgDebug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	var logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().Timestamp().Logger()

	logger.Info().
		Str("version", versionName).
		Str("build_date", buildDate).
		Str("git_revision", gitRevision).
		Str("runtime", runtime.Version()).
		Str("arch", runtime.GOARCH).
		Str("os", runtime.GOOS).
		Int("num_cpu", runtime.NumCPU()).
		Msg(name)

	evalBuilder, err := evalbuilder.Get(*flgEval)
	if err != nil {
		logger.Fatal().Err(err).Msg("bad -eval flag")
	}

	var eng = engine.NewEngine(evalBuilder, logger)
	var protocol = uci.New(name, author, versionName, eng, logger,
		[]uci.Option{
			&uci.IntOption{Name: "Hash", Min: 1, Max: 1 << 16, Value: &eng.Options.Hash},
			&uci.IntOption{Name: "Threads", Min: 1, Max: runtime.NumCPU(), Value: &eng.Options.Threads},
			&uci.BoolOption{Name: "Ponder", Value: &eng.Options.Ponder},
			&uci.BoolOption{Name: "MutexHash", Value: &eng.Options.MutexHash},
			&uci.ButtonOption{Name: "Clear Hash", Action: eng.Clear},
		},
	)
	protocol.Run()
}
