package engine

import (
	"time"

	"golang.org/x/sync/errgroup"
	"lukechampine.com/frand"

	"github.com/kestrel-engine/kestrel/pkg/common"
)

// A searchTask asks a worker for one full root search at a fixed depth,
// seeded with the best line known so far.
type searchTask struct {
	depth     int
	seedMove  common.Move
	seedScore int
}

type mainLine struct {
	moves []common.Move
	score int
	depth int
	nodes int64
}

// lazySmp runs Threads workers over the same root, sharing only the
// transposition table and the stop signal. The coordinator hands out depths;
// workers perturb their root-move order so they diverge early.
func lazySmp(e *Engine) {
	var rootMoves = e.genRootMoves()
	e.mainLine = mainLine{}
	if len(rootMoves) != 0 {
		e.mainLine.moves = []common.Move{rootMoves[0]}
	}
	if len(rootMoves) <= 1 {
		return
	}

	var tasks = make(chan searchTask)
	var taskResults = make(chan mainLine)

	var g errgroup.Group
	for i := 0; i < e.Options.Threads; i++ {
		var t = &e.threads[i]
		var moves = rootMovesForWorker(i, rootMoves)
		g.Go(func() error {
			searchDepth(t, moves, tasks, taskResults)
			return nil
		})
	}
	e.log.Debug().Int("workers", e.Options.Threads).Int("root_moves", len(rootMoves)).Msg("search workers started")

	go func() {
		g.Wait()
		close(taskResults)
	}()

	iterativeDeepening(e, tasks, taskResults)
}

// rootMovesForWorker returns the worker's private root-move order. Worker 0
// keeps the iterator order; odd helpers shuffle everything, even helpers keep
// the best move in front and shuffle the tail. Seeding by worker index keeps a
// run with a fixed thread count reproducible.
func rootMovesForWorker(index int, ml []common.Move) []common.Move {
	var moves = cloneMoves(ml)
	if index == 0 {
		return moves
	}
	var seed [32]byte
	seed[0] = byte(index)
	var rng = frand.NewCustom(seed[:], 1024, 12)
	if index%2 == 1 {
		rng.Shuffle(len(moves), func(i, j int) {
			moves[i], moves[j] = moves[j], moves[i]
		})
	} else {
		rng.Shuffle(len(moves)-1, func(i, j int) {
			moves[i+1], moves[j+1] = moves[j+1], moves[i+1]
		})
	}
	return moves
}

// iterativeDeepening hands out depths until the stop signal fires or the
// height cap is reached, folding worker results as they stream in. Roughly
// half the workers probe the next depth, the rest run two deeper.
func iterativeDeepening(
	e *Engine,
	tasks chan<- searchTask,
	taskResults <-chan mainLine,
) {
	var workersAtDepth [stackSize]int
	for {
		var next = e.mainLine.depth + 1
		if next < len(workersAtDepth) && workersAtDepth[next] >= (e.Options.Threads+1)/2 {
			next = e.mainLine.depth + 2
		}

		if next > maxHeight || e.timeManager.IsDone() {
			if tasks != nil {
				close(tasks)
				tasks = nil
			}
		}

		select {
		case result, ok := <-taskResults:
			if !ok {
				// all workers exited
				return
			}
			e.mainLine.nodes += result.nodes
			if result.depth <= e.mainLine.depth {
				break
			}
			e.mainLine.depth = result.depth
			e.mainLine.score = result.score
			e.mainLine.moves = result.moves
			e.timeManager.OnIterationComplete(e.mainLine)
			e.log.Debug().
				Int("depth", e.mainLine.depth).
				Int("score", e.mainLine.score).
				Int64("nodes", e.mainLine.nodes).
				Dur("elapsed", time.Since(e.start)).
				Msg("iteration complete")
			if e.progress != nil && e.mainLine.nodes >= int64(e.Options.ProgressMinNodes) {
				e.progress(e.currentSearchResult())
			}
		case tasks <- searchTask{
			depth:     next,
			seedMove:  e.mainLine.moves[0],
			seedScore: e.mainLine.score,
		}:
			workersAtDepth[next]++
		}
	}
}

func searchDepth(
	t *thread,
	rootMoves []common.Move,
	tasks <-chan searchTask,
	taskResults chan<- mainLine,
) {
	defer func() {
		var r = recover()
		if r != nil && r != errSearchTimeout {
			panic(r)
		}
	}()

	for h := 0; h <= 2; h++ {
		t.stack[h].killer1 = common.MoveEmpty
		t.stack[h].killer2 = common.MoveEmpty
	}

	for task := range tasks {
		if index := findMoveIndex(rootMoves, task.seedMove); index > 0 {
			moveToBegin(rootMoves, index)
		}
		var score = aspirationWindow(t, rootMoves, task.depth, task.seedScore)
		taskResults <- mainLine{
			depth: task.depth,
			score: score,
			moves: t.stack[0].pv.toSlice(),
			nodes: t.nodes,
		}
		t.nodes = 0
	}
}
