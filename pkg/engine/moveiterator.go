package engine

import . "github.com/kestrel-engine/kestrel/pkg/common"

// Ordering keys are banded so move classes never interleave: the hash move
// outranks winning noisy moves, which outrank killers, which outrank the
// history-scored remainder. History totals stay well inside the quiet band.
const (
	orderKeyTrans   = 1 << 22
	orderKeyNoisy   = 1 << 21
	orderKeyKiller1 = 1<<20 + 1
	orderKeyKiller2 = 1 << 20
)

var victimRank = [King + 1]int{
	Pawn: 1, Knight: 2, Bishop: 3, Rook: 4, Queen: 5, King: 6,
}

// mvvlva prefers the most valuable victim and breaks ties by the least
// valuable attacker.
func mvvlva(move Move) int {
	return 8*(victimRank[move.CapturedPiece()]+victimRank[move.Promotion()]) -
		victimRank[move.MovingPiece()]
}

// pickBest swaps the move with the largest key to the front of the tail.
// When the front already holds the maximum, ties keep their generated order.
func pickBest(tail []OrderedMove) {
	var best = 0
	for i := 1; i < len(tail); i++ {
		if tail[i].Key > tail[best].Key {
			best = i
		}
	}
	if best != 0 {
		tail[0], tail[best] = tail[best], tail[0]
	}
}

// moveIterator yields the moves of an interior node, best guess first. Every
// move is scored once in Init; Next selects lazily, so nodes that cut on the
// first move never pay for sorting the rest.
type moveIterator struct {
	position  *Position
	buffer    []OrderedMove
	history   historyContext
	transMove Move
	killer1   Move
	killer2   Move
	index     int
}

func (mi *moveIterator) Init() {
	mi.buffer = mi.position.GenerateMoves(mi.buffer)
	for i := range mi.buffer {
		mi.buffer[i].Key = int32(mi.orderKey(mi.buffer[i].Move))
	}
}

func (mi *moveIterator) orderKey(move Move) int {
	if move == mi.transMove {
		return orderKeyTrans
	}
	if isCaptureOrPromotion(move) {
		if seeGEZero(mi.position, move) {
			return orderKeyNoisy + mvvlva(move)
		}
		// Losing captures compete with the quiets on plain mvvlva.
		return mvvlva(move)
	}
	if move == mi.killer1 {
		return orderKeyKiller1
	}
	if move == mi.killer2 {
		return orderKeyKiller2
	}
	return mi.history.ReadTotal(move)
}

func (mi *moveIterator) Reset() {
	mi.index = 0
}

func (mi *moveIterator) Next() Move {
	if mi.index == len(mi.buffer) {
		return MoveEmpty
	}
	pickBest(mi.buffer[mi.index:])
	var move = mi.buffer[mi.index].Move
	mi.index++
	return move
}

// moveIteratorQS yields evasions when in check, otherwise captures and queen
// promotions, best victim first.
type moveIteratorQS struct {
	position *Position
	buffer   []OrderedMove
	index    int
}

func (mi *moveIteratorQS) Init() {
	if mi.position.IsCheck() {
		mi.buffer = mi.position.GenerateMoves(mi.buffer)
	} else {
		mi.buffer = mi.position.GenerateCaptures(mi.buffer)
	}
	for i := range mi.buffer {
		var key int
		if move := mi.buffer[i].Move; isCaptureOrPromotion(move) {
			key = orderKeyNoisy + mvvlva(move)
		}
		mi.buffer[i].Key = int32(key)
	}
}

func (mi *moveIteratorQS) Reset() {
	mi.index = 0
}

func (mi *moveIteratorQS) Next() Move {
	if mi.index == len(mi.buffer) {
		return MoveEmpty
	}
	pickBest(mi.buffer[mi.index:])
	var move = mi.buffer[mi.index].Move
	mi.index++
	return move
}
