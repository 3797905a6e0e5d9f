package engine

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	. "github.com/kestrel-engine/kestrel/pkg/common"
)

// timeManager turns go limits into one monotonic stop signal. Workers poll
// IsDone; the signal fires on context cancellation, the hard deadline, the
// node budget, or an iteration-end soft check, and never resets mid-search.
type timeManager struct {
	limits       LimitsType
	softLimit    time.Duration
	hardLimit    time.Duration
	softDeadline atomic.Int64
	done         <-chan struct{}
	cancel       context.CancelFunc
	pondering    atomic.Bool
	mu           sync.Mutex
	timer        *time.Timer
}

func newTimeManager(ctx context.Context, start time.Time,
	limits LimitsType, p *Position) (*timeManager, error) {

	if err := validateLimits(limits); err != nil {
		return nil, err
	}

	var tm = &timeManager{limits: limits}

	if limits.MoveTime > 0 {
		tm.hardLimit = time.Duration(limits.MoveTime) * time.Millisecond
	} else if limits.WhiteTime > 0 || limits.BlackTime > 0 {
		var main, inc time.Duration
		if p.WhiteMove {
			main = time.Duration(limits.WhiteTime) * time.Millisecond
			inc = time.Duration(limits.WhiteIncrement) * time.Millisecond
		} else {
			main = time.Duration(limits.BlackTime) * time.Millisecond
			inc = time.Duration(limits.BlackIncrement) * time.Millisecond
		}
		tm.softLimit, tm.hardLimit = calcLimits(main, inc, limits.MovesToGo)
	}

	ctx, tm.cancel = context.WithCancel(ctx)
	tm.done = ctx.Done()

	tm.pondering.Store(limits.Ponder)
	if !limits.Ponder {
		tm.armDeadlines(start)
	}
	return tm, nil
}

func validateLimits(limits LimitsType) error {
	if limits.MoveTime < 0 {
		return &ConfigError{Option: "movetime", Value: limits.MoveTime, Reason: "negative"}
	}
	if limits.Depth < 0 {
		return &ConfigError{Option: "depth", Value: limits.Depth, Reason: "negative"}
	}
	if limits.Nodes < 0 {
		return &ConfigError{Option: "nodes", Value: limits.Nodes, Reason: "negative"}
	}
	if limits.Mate < 0 {
		return &ConfigError{Option: "mate", Value: limits.Mate, Reason: "negative"}
	}
	if limits.MovesToGo < 0 {
		return &ConfigError{Option: "movestogo", Value: limits.MovesToGo, Reason: "negative"}
	}
	return nil
}

func (tm *timeManager) armDeadlines(start time.Time) {
	if tm.softLimit > 0 {
		tm.softDeadline.Store(start.Add(tm.softLimit).UnixNano())
	}
	if tm.hardLimit > 0 {
		tm.mu.Lock()
		if tm.timer == nil {
			tm.timer = time.AfterFunc(time.Until(start.Add(tm.hardLimit)), tm.cancel)
		}
		tm.mu.Unlock()
	}
}

func (tm *timeManager) IsDone() bool {
	select {
	case <-tm.done:
		return true
	default:
		return false
	}
}

func (tm *timeManager) OnNodesChanged(nodes int) {
	if tm.limits.Nodes > 0 && nodes >= tm.limits.Nodes {
		tm.cancel()
	}
}

func (tm *timeManager) OnIterationComplete(line mainLine) {
	if tm.limits.Infinite || tm.pondering.Load() {
		return
	}
	if tm.limits.Depth != 0 && line.depth >= tm.limits.Depth {
		tm.cancel()
		return
	}
	if tm.limits.Mate != 0 && line.score >= valueMate-2*tm.limits.Mate {
		tm.cancel()
		return
	}
	if line.score >= winIn(line.depth-5) ||
		line.score <= lossIn(line.depth-5) {
		tm.cancel()
		return
	}
	if deadline := tm.softDeadline.Load(); deadline != 0 &&
		time.Now().UnixNano() >= deadline {
		tm.cancel()
		return
	}
}

// PonderHit starts the clock of a search launched with go ponder. The first
// call wins; later calls and calls on a non-pondering search do nothing.
func (tm *timeManager) PonderHit() {
	if !tm.pondering.CompareAndSwap(true, false) {
		return
	}
	tm.armDeadlines(time.Now())
}

func (tm *timeManager) Close() {
	tm.cancel()
	tm.mu.Lock()
	if tm.timer != nil {
		tm.timer.Stop()
	}
	tm.mu.Unlock()
}

func calcLimits(main, inc time.Duration, moves int) (soft, hard time.Duration) {
	const (
		defaultMovesToGo = 40
		moveOverhead     = 300 * time.Millisecond
		minTimeLimit     = 1 * time.Millisecond
	)

	main -= moveOverhead
	if main < minTimeLimit {
		main = minTimeLimit
	}

	if moves == 0 {
		var ideal = main/35 + inc/2
		soft = ideal * 7 / 10
		hard = ideal * 21 / 10
	} else {
		moves = min(moves, defaultMovesToGo)
		soft = (main/time.Duration(moves+1) + inc) * 7 / 10
		hard = (main/time.Duration(moves+1) + inc) * 21 / 10
	}

	hard = limitDuration(hard, minTimeLimit, main)
	soft = limitDuration(soft, minTimeLimit, main)

	return
}

func limitDuration(v, lo, hi time.Duration) time.Duration {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
