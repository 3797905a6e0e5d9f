package main

import (
	"context"
	"fmt"
	"time"

	"github.com/kestrel-engine/kestrel/internal/epd"
	"github.com/kestrel-engine/kestrel/pkg/common"
	"github.com/kestrel-engine/kestrel/pkg/engine"
)

// runTactic gives the engine a fixed time per position and counts how many
// suite items it solves. Failed items are printed as they happen.
func runTactic(items []epd.Item, eng *engine.Engine, moveTime time.Duration) error {
	logger.Info().
		Int("positions", len(items)).
		Dur("movetime", moveTime).
		Msg("tactic started")
	defer logger.Info().Msg("tactic finished")

	var solved = 0
	for i := range items {
		var item = &items[i]
		search, err := eng.StartSearch(context.Background(), common.SearchParams{
			Positions: []common.Position{item.Position},
			Limits:    common.LimitsType{MoveTime: int(moveTime.Milliseconds())},
		})
		if err != nil {
			return err
		}
		var result = search.Wait()
		var best = common.MoveEmpty
		if len(result.MainLine) != 0 {
			best = result.MainLine[0]
		}
		if item.Solved(best) {
			solved++
		} else {
			fmt.Println("failed:", item.Content)
		}
		fmt.Printf("#%v %v/%v %v\n", i+1, solved, i+1, best)
	}
	fmt.Println("Solved", solved, "of", len(items))
	return nil
}
