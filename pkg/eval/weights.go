package eval

import (
	. "github.com/kestrel-engine/kestrel/pkg/common"
)

type Weights struct {
	PST                [2][King + 1][64]Score
	BishopPairMaterial Score
}

var materialScores = [King + 1]Score{
	Pawn:   S(90, 110),
	Knight: S(320, 300),
	Bishop: S(330, 320),
	Rook:   S(500, 540),
	Queen:  S(950, 990),
}

// centre grows towards the middle of a file or rank.
var centre = [8]int16{-3, -1, 0, 1, 1, 0, -1, -3}

// shelter prefers the castled king files in the middlegame.
var shelter = [8]int16{3, 4, 2, 0, 0, 1, 4, 3}

// init synthesizes the white tables square by square; the black tables are
// the negated vertical mirror, so evaluation is colour-symmetric by
// construction.
func (w *Weights) init() {
	w.BishopPairMaterial = S(25, 45)

	for sq := 0; sq < 64; sq++ {
		var file = centre[File(sq)]
		var rank = centre[Rank(sq)]
		var advance = int16(Rank(sq) - Rank2)

		w.PST[SideWhite][Pawn][sq] = materialScores[Pawn] +
			S(3*file+2*advance, 4*advance*advance)
		w.PST[SideWhite][Knight][sq] = materialScores[Knight] +
			S(8*(file+rank), 6*(file+rank))
		w.PST[SideWhite][Bishop][sq] = materialScores[Bishop] +
			S(5*(file+rank), 4*(file+rank))
		w.PST[SideWhite][Rook][sq] = materialScores[Rook] +
			S(3*file, 0)
		if Rank(sq) == Rank7 {
			w.PST[SideWhite][Rook][sq] += S(20, 25)
		}
		w.PST[SideWhite][Queen][sq] = materialScores[Queen] +
			S(2*(file+rank), 4*(file+rank))
		w.PST[SideWhite][King][sq] =
			S(8*shelter[File(sq)]-10*int16(Rank(sq)), 7*(file+rank))
	}

	// Pawns never stand on the first or last rank.
	for file := FileA; file <= FileH; file++ {
		w.PST[SideWhite][Pawn][MakeSquare(file, Rank1)] = 0
		w.PST[SideWhite][Pawn][MakeSquare(file, Rank8)] = 0
	}

	for piece := Pawn; piece <= King; piece++ {
		for sq := 0; sq < 64; sq++ {
			w.PST[SideBlack][piece][sq] = -w.PST[SideWhite][piece][FlipSquare(sq)]
		}
	}
}
