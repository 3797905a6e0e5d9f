package common

import "math/rand"

// Zobrist keys cover piece placement, side to move, castle rights and the
// en-passant file. The seed is fixed so keys are stable across runs.
var (
	pieceSquareKeys [2][King + 1][64]uint64
	castleKeys      [16]uint64
	enpassantKeys   [8]uint64
	sideKey         uint64
)

func init() {
	var r = rand.New(rand.NewSource(1070372))
	for side := range pieceSquareKeys {
		for piece := Pawn; piece <= King; piece++ {
			for sq := 0; sq < 64; sq++ {
				pieceSquareKeys[side][piece][sq] = r.Uint64()
			}
		}
	}
	for i := range castleKeys {
		castleKeys[i] = r.Uint64()
	}
	for i := range enpassantKeys {
		enpassantKeys[i] = r.Uint64()
	}
	sideKey = r.Uint64()
}

func computeZobrist(p *Position) uint64 {
	var key = castleKeys[p.CastleRights]
	if !p.WhiteMove {
		key ^= sideKey
	}
	if p.EpSquare != SquareNone {
		key ^= enpassantKeys[File(p.EpSquare)]
	}
	for x := p.White; x != 0; x &= x - 1 {
		var sq = FirstOne(x)
		key ^= pieceSquareKeys[SideWhite][p.WhatPiece(sq)][sq]
	}
	for x := p.Black; x != 0; x &= x - 1 {
		var sq = FirstOne(x)
		key ^= pieceSquareKeys[SideBlack][p.WhatPiece(sq)][sq]
	}
	return key
}
