package engine

import (
	"runtime"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	. "github.com/kestrel-engine/kestrel/pkg/common"
)

type Evaluator interface {
	Evaluate(p *Position) int
}

// Engine owns the transposition table, the worker threads and their
// heuristic state. One search runs at a time; see StartSearch.
type Engine struct {
	Options     Options
	log         zerolog.Logger
	evalBuilder func() Evaluator
	timeManager *timeManager
	transTable  TransTable
	historyKeys map[uint64]int
	threads     []thread
	progress    func(SearchInfo)
	mainLine    mainLine
	start       time.Time
	searching   atomic.Bool
	ttMutex     bool
}

type thread struct {
	engine              *Engine
	evaluator           Evaluator
	nodes               int64
	ttHits              int64
	ttCuts              int64
	qsNodes             int64
	mainHistory         [mainHistorySize]int16
	continuationHistory [contHistorySize][contHistorySize]int16
	stack               [stackSize]struct {
		position       Position
		moveList       [MaxMoves]OrderedMove
		quietsSearched [MaxMoves]Move
		pv             pv
		staticEval     int
		killer1        Move
		killer2        Move
	}
}

type pv struct {
	items [stackSize]Move
	size  int
}

func NewEngine(evalBuilder func() Evaluator, logger zerolog.Logger) *Engine {
	return &Engine{
		Options:     NewOptions(),
		log:         logger,
		evalBuilder: evalBuilder,
	}
}

// Prepare validates the options and (re)allocates the transposition table and
// worker state to match them. Safe to call repeatedly; cheap when nothing
// changed.
func (e *Engine) Prepare() error {
	if e.Options.Hash < minHashMegabytes || e.Options.Hash > maxHashMegabytes {
		return &ConfigError{Option: "Hash", Value: e.Options.Hash, Reason: "out of range"}
	}
	if e.Options.Threads < 1 || e.Options.Threads > maxThreads {
		return &ConfigError{Option: "Threads", Value: e.Options.Threads, Reason: "out of range"}
	}
	if e.transTable == nil || e.ttMutex != e.Options.MutexHash {
		e.transTable = newTransTable(e.Options.Hash, e.Options.MutexHash)
		e.ttMutex = e.Options.MutexHash
	} else if e.transTable.Megabytes() != e.Options.Hash {
		e.transTable.Resize(e.Options.Hash)
		runtime.GC()
	}
	if len(e.threads) != e.Options.Threads {
		e.threads = make([]thread, e.Options.Threads)
		for i := range e.threads {
			var t = &e.threads[i]
			t.engine = e
			t.evaluator = e.evalBuilder()
		}
	}
	return nil
}

// run executes the prepared search to completion. The time manager must
// already be armed.
func (e *Engine) run(params SearchParams) SearchInfo {
	e.transTable.IncDate()
	e.historyKeys = getHistoryKeys(params.Positions)
	var p = &params.Positions[len(params.Positions)-1]
	for i := range e.threads {
		var t = &e.threads[i]
		t.nodes = 0
		t.ttHits, t.ttCuts, t.qsNodes = 0, 0, 0
		t.stack[0].position = *p
	}
	e.progress = params.Progress

	lazySmp(e)

	var ttHits, ttCuts, qsNodes int64
	for i := range e.threads {
		var t = &e.threads[i]
		e.mainLine.nodes += t.nodes
		t.nodes = 0
		ttHits += t.ttHits
		ttCuts += t.ttCuts
		qsNodes += t.qsNodes
	}
	e.log.Debug().
		Int64("nodes", e.mainLine.nodes).
		Int64("tt_hits", ttHits).
		Int64("tt_cuts", ttCuts).
		Int64("qs_nodes", qsNodes).
		Msg("search finished")
	return e.currentSearchResult()
}

// getHistoryKeys collects the keys of the game positions still relevant for
// repetition detection, stopping at the last irreversible move.
func getHistoryKeys(positions []Position) map[uint64]int {
	var result = make(map[uint64]int)
	for i := len(positions) - 1; i >= 0; i-- {
		var p = &positions[i]
		result[p.Key]++
		if p.Rule50 == 0 {
			break
		}
	}
	return result
}

// Clear wipes the transposition table and the per-thread heuristics, as for
// ucinewgame or the Clear Hash button.
func (e *Engine) Clear() {
	if e.transTable != nil {
		e.transTable.Clear()
	}
	for i := range e.threads {
		e.threads[i].clearHistory()
	}
}

func (e *Engine) currentSearchResult() SearchInfo {
	return SearchInfo{
		Depth:    e.mainLine.depth,
		MainLine: e.mainLine.moves,
		Score:    newUciScore(e.mainLine.score),
		Nodes:    e.mainLine.nodes,
		Time:     time.Since(e.start),
	}
}

func (pv *pv) clear() {
	pv.size = 0
}

func (pv *pv) assign(m Move, child *pv) {
	pv.size = 1
	pv.items[0] = m
	if child.size > 0 {
		pv.size += child.size
		copy(pv.items[1:], child.items[:child.size])
	}
}

func (pv *pv) toSlice() []Move {
	var result = make([]Move, pv.size)
	copy(result, pv.items[:pv.size])
	return result
}

func (t *thread) clearPV(height int) {
	t.stack[height].pv.clear()
}

func (t *thread) assignPV(height int, m Move) {
	t.stack[height].pv.assign(m, &t.stack[height+1].pv)
}
