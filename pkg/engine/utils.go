package engine

import (
	. "github.com/kestrel-engine/kestrel/pkg/common"
)

const (
	stackSize     = 128
	maxHeight     = stackSize - 1
	valueDraw     = 0
	valueMate     = 30000
	valueInfinity = valueMate + 1
	valueWin      = valueMate - 2*maxHeight
	valueLoss     = -valueWin
)

func winIn(height int) int {
	return valueMate - height
}

func lossIn(height int) int {
	return -valueMate + height
}

// Mate scores are stored relative to the node, not to the root, so they stay
// valid when the position is reached again at a different height.
func valueToTT(v, height int) int {
	if v >= valueWin {
		return v + height
	}
	if v <= valueLoss {
		return v - height
	}
	return v
}

func valueFromTT(v, height int) int {
	if v >= valueWin {
		return v - height
	}
	if v <= valueLoss {
		return v + height
	}
	return v
}

func newUciScore(v int) UciScore {
	if v >= valueWin {
		return UciScore{Mate: (valueMate - v + 1) / 2}
	} else if v <= valueLoss {
		return UciScore{Mate: (-valueMate - v) / 2}
	}
	return UciScore{Centipawns: v}
}

// isLateEndgame holds when the side has no major pieces and at most one minor.
// A null move there is likely to hide zugzwang.
func isLateEndgame(p *Position, white bool) bool {
	var own = p.Black
	if white {
		own = p.White
	}
	return (p.Rooks|p.Queens)&own == 0 &&
		!MoreThanOne((p.Knights|p.Bishops)&own)
}

func isCaptureOrPromotion(move Move) bool {
	return move.CapturedPiece() != Empty ||
		move.Promotion() != Empty
}
