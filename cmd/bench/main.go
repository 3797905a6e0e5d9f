// Command bench measures search speed over a position suite and solves
// tactic suites in EPD form.
//
//	bench [benchmark|tactic] [flags]
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pkg/profile"
	"github.com/rs/zerolog"

	"github.com/kestrel-engine/kestrel/internal/epd"
	"github.com/kestrel-engine/kestrel/internal/evalbuilder"
	"github.com/kestrel-engine/kestrel/pkg/common"
	"github.com/kestrel-engine/kestrel/pkg/engine"
)

var logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
	With().Timestamp().Logger()

func main() {
	if err := run(os.Args[1:]); err != nil {
		logger.Fatal().Err(err).Msg("bench failed")
	}
}

func run(args []string) error {
	var command = "benchmark"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		command = args[0]
		args = args[1:]
	}

	var flagset = flag.NewFlagSet(command, flag.ExitOnError)
	var (
		flgEpd      = flagset.String("epd", "", "EPD suite; built-in positions when empty")
		flgEval     = flagset.String("eval", "", "evaluation function")
		flgDepth    = flagset.Int("depth", 10, "benchmark search depth")
		flgMoveTime = flagset.Duration("movetime", 3*time.Second, "tactic time per position")
		flgHash     = flagset.Int("hash", 128, "transposition table megabytes")
		flgThreads  = flagset.Int("threads", 1, "search threads per engine")
		flgJobs     = flagset.Int("jobs", 1, "concurrent engines for benchmark")
		flgDebug    = flagset.Bool("debug", false, "verbose logging")
		flgProfile  = flagset.Bool("profile", false, "write a CPU profile")
	)
	flagset.Parse(args)

	if *flgDebug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if *flgProfile {
		defer profile.Start(profile.ProfilePath(".")).Stop()
	}

	switch command {
	case "benchmark":
		positions, err := loadPositions(*flgEpd)
		if err != nil {
			return err
		}
		return runBenchmark(positions, benchmarkConfig{
			evalName: *flgEval,
			depth:    *flgDepth,
			hash:     *flgHash,
			threads:  *flgThreads,
			jobs:     *flgJobs,
		})
	case "tactic":
		if *flgEpd == "" {
			return errors.New("tactic needs -epd")
		}
		items, err := epd.Load(*flgEpd)
		if err != nil {
			return err
		}
		eng, err := newEngine(*flgEval, *flgHash, *flgThreads)
		if err != nil {
			return err
		}
		return runTactic(items, eng, *flgMoveTime)
	}
	return fmt.Errorf("unknown command %q", command)
}

func loadPositions(path string) ([]common.Position, error) {
	if path == "" {
		var result = make([]common.Position, 0, len(benchmarkFens))
		for _, fen := range benchmarkFens {
			p, err := common.NewPositionFromFEN(fen)
			if err != nil {
				return nil, err
			}
			result = append(result, p)
		}
		return result, nil
	}
	items, err := epd.Load(path)
	if err != nil {
		return nil, err
	}
	var result = make([]common.Position, len(items))
	for i := range items {
		result[i] = items[i].Position
	}
	return result, nil
}

func newEngine(evalName string, hash, threads int) (*engine.Engine, error) {
	builder, err := evalbuilder.Get(evalName)
	if err != nil {
		return nil, err
	}
	var eng = engine.NewEngine(builder, logger)
	eng.Options.Hash = hash
	eng.Options.Threads = threads
	if err := eng.Prepare(); err != nil {
		return nil, err
	}
	return eng, nil
}
