package main

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/kestrel-engine/kestrel/pkg/common"
)

type benchmarkConfig struct {
	evalName string
	depth    int
	hash     int
	threads  int
	jobs     int
}

// runBenchmark searches every position to a fixed depth and reports the
// aggregate node count and speed. With jobs > 1 the suite is split across
// that many independent engines, each with its own transposition table.
func runBenchmark(positions []common.Position, cfg benchmarkConfig) error {
	var jobs = max(cfg.jobs, 1)
	jobs = min(jobs, len(positions))

	logger.Info().
		Int("positions", len(positions)).
		Int("depth", cfg.depth).
		Int("threads", cfg.threads).
		Int("jobs", jobs).
		Str("eval", cfg.evalName).
		Msg("benchmark started")
	defer logger.Info().Msg("benchmark finished")

	var chunks = lo.Chunk(positions, (len(positions)+jobs-1)/jobs)
	var nodes = make([]int64, len(chunks))

	var start = time.Now()
	var g errgroup.Group
	for i := range chunks {
		var i, chunk = i, chunks[i]
		g.Go(func() error {
			eng, err := newEngine(cfg.evalName, cfg.hash, cfg.threads)
			if err != nil {
				return err
			}
			for j := range chunk {
				search, err := eng.StartSearch(context.Background(), common.SearchParams{
					Positions: []common.Position{chunk[j]},
					Limits:    common.LimitsType{Depth: cfg.depth},
				})
				if err != nil {
					return err
				}
				var result = search.Wait()
				nodes[i] += result.Nodes
				logger.Debug().
					Int("depth", result.Depth).
					Int64("nodes", result.Nodes).
					Dur("time", result.Time).
					Msg("position done")
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var elapsed = time.Since(start)
	var total = lo.Sum(nodes)
	fmt.Println("Time", elapsed)
	fmt.Println("Nodes", total)
	fmt.Println("kNPS", total/max(elapsed.Milliseconds(), 1))
	return nil
}
