package engine

import . "github.com/kestrel-engine/kestrel/pkg/common"

const historyMax = 1 << 14

const (
	mainHistorySize = 1 << 13
	contHistorySize = 1 << 10
)

// historyContext captures the slots the current node reads and updates: the
// side to move plus the continuation entries of the last one and two moves.
// A cont of -1 means that previous move does not exist.
type historyContext struct {
	thread     *thread
	sideToMove bool
	conts      [2]int
}

func (t *thread) getHistoryContext(height int) historyContext {
	var stm = t.stack[height].position.WhiteMove
	var hc = historyContext{thread: t, sideToMove: stm, conts: [2]int{-1, -1}}
	if prev := t.stack[height].position.LastMove; prev != MoveEmpty {
		hc.conts[0] = pieceSquareIndex(!stm, prev)
	}
	if height > 0 {
		if prev := t.stack[height-1].position.LastMove; prev != MoveEmpty {
			hc.conts[1] = pieceSquareIndex(stm, prev)
		}
	}
	return hc
}

func (h *historyContext) ReadTotal(m Move) int {
	var t = h.thread
	var total = int(t.mainHistory[sideFromToIndex(h.sideToMove, m)])
	var pieceTo = pieceSquareIndex(h.sideToMove, m)
	for _, cont := range h.conts {
		if cont >= 0 {
			total += int(t.continuationHistory[cont][pieceTo])
		}
	}
	return total
}

// Update rewards bestMove and punishes the quiets searched before it.
func (h *historyContext) Update(quietsSearched []Move, bestMove Move, depth int) {
	var bonus = min(depth*depth, 400)
	var t = h.thread

	for _, m := range quietsSearched {
		var goal = -historyMax
		if m == bestMove {
			goal = historyMax
		}
		adjustHistory(&t.mainHistory[sideFromToIndex(h.sideToMove, m)], goal, bonus)
		var pieceTo = pieceSquareIndex(h.sideToMove, m)
		for _, cont := range h.conts {
			if cont >= 0 {
				adjustHistory(&t.continuationHistory[cont][pieceTo], goal, bonus)
			}
		}
		if m == bestMove {
			break
		}
	}
}

// adjustHistory steps the counter towards goal; the decaying step keeps it
// within ±historyMax.
func adjustHistory(v *int16, goal, bonus int) {
	*v += int16((goal - int(*v)) * bonus / 512)
}

func (t *thread) clearHistory() {
	clear(t.mainHistory[:])
	for i := range t.continuationHistory {
		clear(t.continuationHistory[i][:])
	}
}

func pieceSquareIndex(side bool, move Move) int {
	var index = (move.MovingPiece() << 6) | move.To()
	if side {
		index |= 1 << 9
	}
	return index
}

func sideFromToIndex(side bool, move Move) int {
	var index = (move.From() << 6) | move.To()
	if side {
		index |= 1 << 12
	}
	return index
}
