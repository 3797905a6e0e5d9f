package engine

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	. "github.com/kestrel-engine/kestrel/pkg/common"
)

// Search is the handle of one in-flight search. It is created by StartSearch
// and stays valid after the search finishes.
type Search struct {
	id       uuid.UUID
	tm       *timeManager
	results  chan SearchInfo
	done     chan struct{}
	final    SearchInfo
	stopOnce sync.Once
}

// StartSearch begins searching the last of params.Positions and returns
// without blocking. Only one search may run at a time; a second call while
// the engine is busy fails with ErrSearchInProgress. Cancelling ctx stops
// the search like Stop does.
func (e *Engine) StartSearch(ctx context.Context, params SearchParams) (*Search, error) {
	if !e.searching.CompareAndSwap(false, true) {
		return nil, ErrSearchInProgress
	}
	var started = false
	defer func() {
		if !started {
			e.searching.Store(false)
		}
	}()

	if err := e.Prepare(); err != nil {
		return nil, err
	}
	if len(params.Positions) == 0 {
		return nil, &ConfigError{Option: "position", Reason: "empty"}
	}
	if params.Limits.Ponder && !e.Options.Ponder {
		return nil, &ConfigError{Option: "Ponder", Reason: "pondering disabled"}
	}

	e.start = time.Now()
	var p = &params.Positions[len(params.Positions)-1]
	tm, err := newTimeManager(ctx, e.start, params.Limits, p)
	if err != nil {
		return nil, err
	}
	e.timeManager = tm

	var s = &Search{
		id: uuid.New(),
		tm: tm,
		// One result per completed depth plus the final one, so the
		// searcher never blocks on a slow reader.
		results: make(chan SearchInfo, stackSize+1),
		done:    make(chan struct{}),
	}

	var callerProgress = params.Progress
	params.Progress = func(si SearchInfo) {
		select {
		case s.results <- si:
		default:
		}
		if callerProgress != nil {
			callerProgress(si)
		}
	}

	e.log.Debug().
		Stringer("search_id", s.id).
		Int("threads", e.Options.Threads).
		Msg("search started")

	started = true
	go func() {
		var result = e.run(params)
		tm.Close()
		s.final = result
		select {
		case s.results <- result:
		default:
		}
		close(s.results)
		e.searching.Store(false)
		close(s.done)
	}()
	return s, nil
}

// ID reports the unique identifier of this search.
func (s *Search) ID() string {
	return s.id.String()
}

// Results streams intermediate results, one per completed depth. The channel
// is closed after the final result.
func (s *Search) Results() <-chan SearchInfo {
	return s.results
}

// Wait blocks until the search finishes and returns the final result.
func (s *Search) Wait() SearchInfo {
	<-s.done
	return s.final
}

// Stop asks the search to finish as soon as possible. It does not wait.
// Repeated calls are no-ops.
func (s *Search) Stop() {
	s.stopOnce.Do(s.tm.cancel)
}

// PonderHit converts a pondering search into a normally timed one. The clock
// starts at the moment of the call.
func (s *Search) PonderHit() {
	s.tm.PonderHit()
}
