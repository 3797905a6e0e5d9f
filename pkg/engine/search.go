package engine

import (
	. "github.com/kestrel-engine/kestrel/pkg/common"
)

const pawnValue = 100

func aspirationWindow(t *thread, ml []Move, depth, prevScore int) int {
	if t.engine.Options.AspirationWindows &&
		depth >= 5 && !(prevScore <= valueLoss || prevScore >= valueWin) {
		const window = 25
		var alpha = max(-valueInfinity, prevScore-window)
		var beta = min(valueInfinity, prevScore+window)
		var score = searchRoot(t, ml, alpha, beta, depth)
		if score > alpha && score < beta {
			return score
		}
		if score >= beta {
			beta = valueInfinity
		}
		if score <= alpha {
			alpha = -valueInfinity
		}
		score = searchRoot(t, ml, alpha, beta, depth)
		if score > alpha && score < beta {
			return score
		}
	}
	return searchRoot(t, ml, -valueInfinity, valueInfinity, depth)
}

// searchRoot iterates the root moves in the order given, which lazy SMP
// perturbs per worker. The first move gets the full window, the rest a zero
// window with re-search on improvement.
func searchRoot(t *thread, ml []Move, alpha, beta, depth int) int {
	const height = 0
	t.clearPV(height)
	var position = &t.stack[height].position
	var child = &t.stack[height+1].position
	var options = &t.engine.Options
	var historyContext = t.getHistoryContext(height)
	var quietsSearched = t.stack[height].quietsSearched[:0]

	var best = -valueInfinity
	var bestMove Move
	var oldAlpha = alpha
	var movesSearched = 0

	for _, move := range ml {
		if !t.MakeMove(move, height) {
			continue
		}
		movesSearched++
		var isNoisy = isCaptureOrPromotion(move)
		if !isNoisy {
			quietsSearched = append(quietsSearched, move)
		}

		var extension = 0
		if child.IsCheck() && depth >= 3 {
			extension = 1
		}
		var newDepth = depth - 1 + extension

		var reduction = 0
		if depth >= 3 && movesSearched > 1 && !isNoisy && !child.IsCheck() {
			reduction = options.Lmr(depth, movesSearched) - 2
			reduction = max(0, min(depth-2, reduction))
		}

		var score = alpha + 1
		if reduction > 0 {
			score = -t.alphaBeta(-(alpha + 1), -alpha, newDepth-reduction, height+1)
		}
		if score > alpha && movesSearched > 1 && beta != alpha+1 {
			score = -t.alphaBeta(-(alpha + 1), -alpha, newDepth, height+1)
		}
		if score > alpha {
			score = -t.alphaBeta(-beta, -alpha, newDepth, height+1)
		}

		if score > best {
			best = score
			bestMove = move
		}
		if score > alpha {
			alpha = score
			t.assignPV(height, move)
			if alpha >= beta {
				break
			}
		}
	}

	if movesSearched == 0 {
		if position.IsCheck() {
			return lossIn(height)
		}
		return valueDraw
	}

	if alpha > oldAlpha && bestMove != MoveEmpty && !isCaptureOrPromotion(bestMove) {
		historyContext.Update(quietsSearched, bestMove, depth)
	}

	var ttBound = 0
	if best > oldAlpha {
		ttBound |= boundLower
	}
	if best < beta {
		ttBound |= boundUpper
	}
	// A root fail-low keeps whatever deeper entry is already stored.
	if ttBound != boundUpper {
		t.engine.transTable.Update(position.Key, depth, valueToTT(best, height), ttBound, bestMove)
	}

	return best
}

func (t *thread) alphaBeta(alpha, beta, depth, height int) int {
	if depth <= 0 {
		return t.quiescence(alpha, beta, height)
	}
	t.clearPV(height)

	var pvNode = beta != alpha+1
	var position = &t.stack[height].position
	var isCheck = position.IsCheck()

	if height >= maxHeight {
		return t.evaluator.Evaluate(position)
	}
	if t.isRepeat(height) {
		return valueDraw
	}
	if isDraw(position) {
		return valueDraw
	}
	// mate distance pruning
	if winIn(height+1) <= alpha {
		return alpha
	}
	if lossIn(height+2) >= beta && !isCheck {
		return beta
	}

	var ttDepth, ttValue, ttBound, ttMove, ttHit = t.engine.transTable.Read(position.Key)
	if ttHit {
		t.ttHits++
		ttValue = valueFromTT(ttValue, height)
		if ttDepth >= depth && !pvNode && position.LastMove != MoveEmpty {
			if ttValue >= beta && ttBound&boundLower != 0 {
				if ttMove != MoveEmpty && !isCaptureOrPromotion(ttMove) {
					t.updateKiller(ttMove, height)
				}
				t.ttCuts++
				return ttValue
			}
			if ttValue <= alpha && ttBound&boundUpper != 0 {
				t.ttCuts++
				return ttValue
			}
		}
	}

	var staticEval = t.evaluator.Evaluate(position)
	t.stack[height].staticEval = staticEval
	var improving = height < 2 || staticEval > t.stack[height-2].staticEval

	var options = &t.engine.Options
	if height+2 <= maxHeight {
		t.stack[height+2].killer1 = MoveEmpty
		t.stack[height+2].killer2 = MoveEmpty
	}
	var child = &t.stack[height+1].position

	// reverse futility pruning
	if !pvNode && depth <= 8 && !isCheck &&
		staticEval-pawnValue*depth >= beta {
		return staticEval
	}

	// null-move pruning
	if !pvNode && depth >= 2 && !isCheck &&
		position.LastMove != MoveEmpty &&
		(height <= 1 || t.stack[height-1].position.LastMove != MoveEmpty) &&
		beta < valueWin &&
		!(ttHit && ttValue < beta && ttBound&boundUpper != 0) &&
		!isLateEndgame(position, position.WhiteMove) &&
		staticEval >= beta {
		var reduction = 4 + depth/6 + min(2, (staticEval-beta)/200)
		t.MakeMove(MoveEmpty, height)
		var score = -t.alphaBeta(-beta, -(beta - 1), depth-reduction, height+1)
		if score >= beta {
			if score >= valueWin {
				score = beta
			}
			return score
		}
	}

	var historyContext = t.getHistoryContext(height)
	var mi = t.initMoveIterator(height, ttMove, historyContext)
	var killer1 = t.stack[height].killer1
	var killer2 = t.stack[height].killer2

	var movesSearched = 0
	var hasLegalMove = false
	var quietsSeen = 0
	var quietsSearched = t.stack[height].quietsSearched[:0]
	var bestMove Move

	var lmp = 5 + (depth-1)*depth
	if !improving {
		lmp /= 2
	}

	var best = -valueInfinity
	var oldAlpha = alpha

	for mi.Reset(); ; {
		var move = mi.Next()
		if move == MoveEmpty {
			break
		}
		var isNoisy = isCaptureOrPromotion(move)
		if !isNoisy {
			quietsSeen++
		}

		if depth <= 8 && best > valueLoss && hasLegalMove && !isCheck {
			if !isNoisy && move != killer1 && move != killer2 {
				// late-move pruning
				if quietsSeen > lmp {
					continue
				}
				// futility pruning
				if staticEval+100+pawnValue*depth <= alpha {
					continue
				}
			}
			// SEE pruning
			var seeMargin int
			if isNoisy {
				seeMargin = max(depth, (staticEval+pawnValue-alpha)/pawnValue)
			} else {
				seeMargin = depth / 2
			}
			if !SeeGE(position, move, -seeMargin) {
				continue
			}
		}

		if !t.MakeMove(move, height) {
			continue
		}
		hasLegalMove = true
		movesSearched++

		var extension, reduction int
		if child.IsCheck() && depth >= 3 {
			extension = 1
		}

		if depth >= 3 && movesSearched > 1 && !isNoisy {
			reduction = options.Lmr(depth, movesSearched)
			if move == killer1 || move == killer2 {
				reduction--
			}
			if !isCheck {
				reduction -= max(-2, min(2, historyContext.ReadTotal(move)/5000))
				if !improving {
					reduction++
				}
			}
			if pvNode {
				reduction -= 2
			}
			if isCheck || child.IsCheck() {
				reduction--
			}
			reduction = max(reduction, 0) + extension
			reduction = max(0, min(depth-2, reduction))
		}

		if !isNoisy {
			quietsSearched = append(quietsSearched, move)
		}

		var newDepth = depth - 1 + extension

		var score = alpha + 1
		// LMR
		if reduction > 0 {
			score = -t.alphaBeta(-(alpha + 1), -alpha, newDepth-reduction, height+1)
		}
		// PVS
		if score > alpha && beta != alpha+1 && movesSearched > 1 && newDepth > 0 {
			score = -t.alphaBeta(-(alpha + 1), -alpha, newDepth, height+1)
		}
		// full window
		if score > alpha {
			score = -t.alphaBeta(-beta, -alpha, newDepth, height+1)
		}

		if score > best {
			best = score
			bestMove = move
		}
		if score > alpha {
			alpha = score
			t.assignPV(height, move)
			if alpha >= beta {
				break
			}
		}
	}

	if !hasLegalMove {
		if !isCheck {
			return valueDraw
		}
		return lossIn(height)
	}

	if alpha > oldAlpha && bestMove != MoveEmpty && !isCaptureOrPromotion(bestMove) {
		historyContext.Update(quietsSearched, bestMove, depth)
		t.updateKiller(bestMove, height)
	}

	ttBound = 0
	if best > oldAlpha {
		ttBound |= boundLower
	}
	if best < beta {
		ttBound |= boundUpper
	}
	t.engine.transTable.Update(position.Key, depth, valueToTT(best, height), ttBound, bestMove)

	return best
}

func (t *thread) quiescence(alpha, beta, height int) int {
	t.qsNodes++
	t.clearPV(height)
	var position = &t.stack[height].position
	if isDraw(position) {
		return valueDraw
	}
	if height >= maxHeight {
		return t.evaluator.Evaluate(position)
	}
	if t.isRepeat(height) {
		return valueDraw
	}

	var _, ttValue, ttBound, _, ttHit = t.engine.transTable.Read(position.Key)
	if ttHit {
		t.ttHits++
		ttValue = valueFromTT(ttValue, height)
		if ttBound == boundExact ||
			ttBound == boundLower && ttValue >= beta ||
			ttBound == boundUpper && ttValue <= alpha {
			t.ttCuts++
			return ttValue
		}
	}

	var isCheck = position.IsCheck()
	var best = -valueInfinity
	if !isCheck {
		var eval = t.evaluator.Evaluate(position)
		best = max(best, eval)
		if eval > alpha {
			alpha = eval
			if alpha >= beta {
				return alpha
			}
		}
	}
	var mi = moveIteratorQS{
		position: position,
		buffer:   t.stack[height].moveList[:],
	}
	mi.Init()
	var hasLegalMove = false
	for mi.Reset(); ; {
		var move = mi.Next()
		if move == MoveEmpty {
			break
		}
		if !isCheck && !seeGEZero(position, move) {
			continue
		}
		if !t.MakeMove(move, height) {
			continue
		}
		hasLegalMove = true
		var score = -t.quiescence(-beta, -alpha, height+1)
		best = max(best, score)
		if score > alpha {
			alpha = score
			t.assignPV(height, move)
			if alpha >= beta {
				break
			}
		}
	}
	if isCheck && !hasLegalMove {
		return lossIn(height)
	}
	return best
}

func (t *thread) incNodes() {
	t.nodes++
	if t.nodes&255 == 0 {
		// A fixed node budget is only tracked single threaded.
		if t.engine.Options.Threads == 1 {
			t.engine.timeManager.OnNodesChanged(int(t.engine.mainLine.nodes + t.nodes))
		}
		if t.engine.timeManager.IsDone() {
			panic(errSearchTimeout)
		}
	}
}

func isDraw(p *Position) bool {
	if p.Rule50 > 100 {
		return true
	}
	if p.Pawns|p.Rooks|p.Queens == 0 &&
		!MoreThanOne(p.Knights|p.Bishops) {
		return true
	}
	return false
}

func (t *thread) isRepeat(height int) bool {
	var p = &t.stack[height].position

	if p.Rule50 == 0 || p.LastMove == MoveEmpty {
		return false
	}
	for i := height - 1; i >= 0; i-- {
		var temp = &t.stack[i].position
		if temp.Key == p.Key {
			return true
		}
		if temp.Rule50 == 0 || temp.LastMove == MoveEmpty {
			return false
		}
	}

	return t.engine.historyKeys[p.Key] >= 2
}

func findMoveIndex(ml []Move, move Move) int {
	for i := range ml {
		if ml[i] == move {
			return i
		}
	}
	return -1
}

func moveToBegin(ml []Move, index int) {
	if index == 0 {
		return
	}
	var item = ml[index]
	for i := index; i > 0; i-- {
		ml[i] = ml[i-1]
	}
	ml[0] = item
}

func cloneMoves(ml []Move) []Move {
	var result = make([]Move, len(ml))
	copy(result, ml)
	return result
}

func (e *Engine) genRootMoves() []Move {
	var t = &e.threads[0]
	const height = 0
	var p = &t.stack[height].position
	var _, _, _, transMove, _ = e.transTable.Read(p.Key)

	var mi = t.initMoveIterator(height, transMove, t.getHistoryContext(height))

	var result []Move
	var child = &t.stack[height+1].position
	for mi.Reset(); ; {
		var move = mi.Next()
		if move == MoveEmpty {
			break
		}
		if p.MakeMove(move, child) {
			result = append(result, move)
		}
	}
	return result
}

func (t *thread) initMoveIterator(height int, transMove Move, history historyContext) moveIterator {
	var mi = moveIterator{
		position:  &t.stack[height].position,
		buffer:    t.stack[height].moveList[:],
		history:   history,
		transMove: transMove,
		killer1:   t.stack[height].killer1,
		killer2:   t.stack[height].killer2,
	}
	mi.Init()
	return mi
}

func (t *thread) updateKiller(move Move, height int) {
	if t.stack[height].killer1 != move {
		t.stack[height].killer2 = t.stack[height].killer1
		t.stack[height].killer1 = move
	}
}

// MakeMove writes the child of stack[height] into stack[height+1], counting
// the node. MoveEmpty plays a null move.
func (t *thread) MakeMove(move Move, height int) bool {
	var pos = &t.stack[height].position
	var child = &t.stack[height+1].position
	if move == MoveEmpty {
		pos.MakeNullMove(child)
	} else if !pos.MakeMove(move, child) {
		return false
	}
	t.incNodes()
	return true
}
