package eval

import (
	. "github.com/kestrel-engine/kestrel/pkg/common"
)

const (
	minorPhase = 4
	rookPhase  = 6
	queenPhase = 12
	totalPhase = 2 * (4*minorPhase + 2*rookPhase + queenPhase)
)

const darkSquares = uint64(0xAA55AA55AA55AA55)

// EvaluationService scores positions with tapered material plus
// piece-square tables. Values are centipawns from the mover's view.
type EvaluationService struct {
	Weights
	pieceCount [2][King + 1]int
	force      [2]int
}

func NewEvaluationService() *EvaluationService {
	var es = &EvaluationService{}
	es.Weights.init()
	return es
}

func (e *EvaluationService) Evaluate(p *Position) int {
	var s Score

	for piece := Pawn; piece <= King; piece++ {
		e.pieceCount[SideWhite][piece] = 0
		e.pieceCount[SideBlack][piece] = 0
	}

	for x := p.White; x != 0; x &= x - 1 {
		var sq = FirstOne(x)
		var piece = p.WhatPiece(sq)
		s += e.PST[SideWhite][piece][sq]
		e.pieceCount[SideWhite][piece]++
	}
	for x := p.Black; x != 0; x &= x - 1 {
		var sq = FirstOne(x)
		var piece = p.WhatPiece(sq)
		s += e.PST[SideBlack][piece][sq]
		e.pieceCount[SideBlack][piece]++
	}

	e.force[SideWhite] = minorPhase*(e.pieceCount[SideWhite][Knight]+e.pieceCount[SideWhite][Bishop]) +
		rookPhase*e.pieceCount[SideWhite][Rook] + queenPhase*e.pieceCount[SideWhite][Queen]
	e.force[SideBlack] = minorPhase*(e.pieceCount[SideBlack][Knight]+e.pieceCount[SideBlack][Bishop]) +
		rookPhase*e.pieceCount[SideBlack][Rook] + queenPhase*e.pieceCount[SideBlack][Queen]

	if e.pieceCount[SideWhite][Bishop] >= 2 {
		s += e.BishopPairMaterial
	}
	if e.pieceCount[SideBlack][Bishop] >= 2 {
		s -= e.BishopPairMaterial
	}

	var phase = e.force[SideWhite] + e.force[SideBlack]
	if phase > totalPhase {
		phase = totalPhase
	}
	var result = (int(s.Middle())*phase + int(s.End())*(totalPhase-phase)) / totalPhase

	var ocb = e.force[SideWhite] == minorPhase &&
		e.force[SideBlack] == minorPhase &&
		p.Bishops&darkSquares != 0 &&
		p.Bishops&^darkSquares != 0

	if result > 0 {
		result = result * e.scaleFactor(SideWhite, ocb) / scaleNormal
	} else {
		result = result * e.scaleFactor(SideBlack, ocb) / scaleNormal
	}

	if !p.WhiteMove {
		result = -result
	}
	return result
}

const (
	scaleHard   = 1
	scaleNormal = 2
)

// scaleFactor halves the score when the stronger side has little chance to
// convert: no pawns and at most a minor up, or opposite-coloured bishops.
func (e *EvaluationService) scaleFactor(strong int, ocb bool) int {
	if e.force[strong] >= queenPhase+rookPhase {
		return scaleNormal
	}
	if e.pieceCount[strong][Pawn] == 0 {
		if e.force[strong] <= minorPhase {
			return scaleHard
		}
		if e.force[strong]-e.force[strong^1] <= minorPhase {
			return scaleHard
		}
	} else if ocb && e.pieceCount[strong][Pawn]-e.pieceCount[strong^1][Pawn] <= 2 {
		return scaleHard
	}
	return scaleNormal
}
