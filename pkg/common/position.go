package common

func (p *Position) AllPieces() uint64 {
	return p.White | p.Black
}

func (p *Position) Colours(side int) uint64 {
	if side == SideWhite {
		return p.White
	}
	return p.Black
}

func (p *Position) SideToMove() int {
	if p.WhiteMove {
		return SideWhite
	}
	return SideBlack
}

func (p *Position) IsCheck() bool {
	return p.Checkers != 0
}

// IsDiscoveredCheck reports whether the side to move is checked by a piece
// other than the one that just moved.
func (p *Position) IsDiscoveredCheck() bool {
	return p.Checkers&^SquareMask[p.LastMove.To()] != 0
}

func (p *Position) WhatPiece(sq int) int {
	var b = SquareMask[sq]
	if p.AllPieces()&b == 0 {
		return Empty
	}
	switch {
	case p.Pawns&b != 0:
		return Pawn
	case p.Knights&b != 0:
		return Knight
	case p.Bishops&b != 0:
		return Bishop
	case p.Rooks&b != 0:
		return Rook
	case p.Queens&b != 0:
		return Queen
	default:
		return King
	}
}

func (p *Position) xorPiece(piece, sq int, white bool) {
	var b = SquareMask[sq]
	switch piece {
	case Pawn:
		p.Pawns ^= b
	case Knight:
		p.Knights ^= b
	case Bishop:
		p.Bishops ^= b
	case Rook:
		p.Rooks ^= b
	case Queen:
		p.Queens ^= b
	case King:
		p.Kings ^= b
	}
	if white {
		p.White ^= b
		p.Key ^= pieceSquareKeys[SideWhite][piece][sq]
	} else {
		p.Black ^= b
		p.Key ^= pieceSquareKeys[SideBlack][piece][sq]
	}
}

// attacked reports whether sq is attacked by the given colour.
func (p *Position) attacked(sq int, byWhite bool) bool {
	var enemy uint64
	if byWhite {
		enemy = p.White
	} else {
		enemy = p.Black
	}
	if KnightAttacks[sq]&p.Knights&enemy != 0 ||
		KingAttacks[sq]&p.Kings&enemy != 0 ||
		PawnAttacks(sq, !byWhite)&p.Pawns&enemy != 0 {
		return true
	}
	var occ = p.AllPieces()
	return BishopAttacks(sq, occ)&(p.Bishops|p.Queens)&enemy != 0 ||
		RookAttacks(sq, occ)&(p.Rooks|p.Queens)&enemy != 0
}

// AttackersTo returns all pieces of both colours attacking sq through occ.
func (p *Position) AttackersTo(sq int, occ uint64) uint64 {
	return (PawnAttacks(sq, true) & p.Pawns & p.Black) |
		(PawnAttacks(sq, false) & p.Pawns & p.White) |
		(KnightAttacks[sq] & p.Knights) |
		(KingAttacks[sq] & p.Kings) |
		(BishopAttacks(sq, occ) & (p.Bishops | p.Queens)) |
		(RookAttacks(sq, occ) & (p.Rooks | p.Queens))
}

func (p *Position) kingSq(white bool) int {
	if white {
		return FirstOne(p.Kings & p.White)
	}
	return FirstOne(p.Kings & p.Black)
}

func (p *Position) computeCheckers() uint64 {
	var enemy uint64
	if p.WhiteMove {
		enemy = p.Black
	} else {
		enemy = p.White
	}
	return p.AttackersTo(p.kingSq(p.WhiteMove), p.AllPieces()) & enemy
}

// castleRightsMask[sq] keeps the rights that survive a piece moving from or
// to sq. Filled in init below.
var castleRightsMask [64]int

// MakeMove applies move to p copy-make style, writing the child into result.
// It returns false when the move leaves the mover's king attacked; result is
// then unspecified.
func (p *Position) MakeMove(move Move, result *Position) bool {
	*result = *p
	var white = p.WhiteMove

	result.WhiteMove = !white
	result.Key ^= sideKey
	if result.EpSquare != SquareNone {
		result.Key ^= enpassantKeys[File(result.EpSquare)]
		result.EpSquare = SquareNone
	}
	result.Rule50++
	result.LastMove = move

	var from = move.From()
	var to = move.To()
	var piece = move.MovingPiece()
	var captured = move.CapturedPiece()

	if captured != Empty {
		result.Rule50 = 0
		if piece == Pawn && to == p.EpSquare {
			var capSq = to - 8
			if !white {
				capSq = to + 8
			}
			result.xorPiece(Pawn, capSq, !white)
		} else {
			result.xorPiece(captured, to, !white)
		}
	}

	result.xorPiece(piece, from, white)
	if promotion := move.Promotion(); promotion != Empty {
		result.xorPiece(promotion, to, white)
	} else {
		result.xorPiece(piece, to, white)
	}

	switch piece {
	case Pawn:
		result.Rule50 = 0
		if white && to == from+16 {
			result.EpSquare = from + 8
			result.Key ^= enpassantKeys[File(from)]
		} else if !white && to == from-16 {
			result.EpSquare = from - 8
			result.Key ^= enpassantKeys[File(from)]
		}
	case King:
		switch {
		case from == SquareE1 && to == SquareG1:
			result.xorPiece(Rook, SquareH1, true)
			result.xorPiece(Rook, SquareF1, true)
		case from == SquareE1 && to == SquareC1:
			result.xorPiece(Rook, SquareA1, true)
			result.xorPiece(Rook, SquareD1, true)
		case from == SquareE8 && to == SquareG8:
			result.xorPiece(Rook, SquareH8, false)
			result.xorPiece(Rook, SquareF8, false)
		case from == SquareE8 && to == SquareC8:
			result.xorPiece(Rook, SquareA8, false)
			result.xorPiece(Rook, SquareD8, false)
		}
	}

	result.Key ^= castleKeys[result.CastleRights]
	result.CastleRights &= castleRightsMask[from] & castleRightsMask[to]
	result.Key ^= castleKeys[result.CastleRights]

	if result.attacked(result.kingSq(white), !white) {
		return false
	}
	result.Checkers = result.computeCheckers()
	return true
}

// MakeNullMove passes the turn. Only meaningful when p is not in check.
func (p *Position) MakeNullMove(result *Position) {
	*result = *p
	result.WhiteMove = !p.WhiteMove
	result.Key ^= sideKey
	if result.EpSquare != SquareNone {
		result.Key ^= enpassantKeys[File(result.EpSquare)]
		result.EpSquare = SquareNone
	}
	result.Rule50++
	result.LastMove = MoveEmpty
	result.Checkers = result.computeCheckers()
}

// MirrorPosition swaps colours and flips the board vertically. The evaluation
// of the mirrored position must equal the original from the mover's view.
func MirrorPosition(p *Position) Position {
	var result = Position{
		WhiteMove: !p.WhiteMove,
		EpSquare:  SquareNone,
		Rule50:    p.Rule50,
	}
	for x := p.AllPieces(); x != 0; x &= x - 1 {
		var sq = FirstOne(x)
		result.xorPiece(p.WhatPiece(sq), FlipSquare(sq), p.Black&SquareMask[sq] != 0)
	}
	if p.EpSquare != SquareNone {
		result.EpSquare = FlipSquare(p.EpSquare)
	}
	if p.CastleRights&WhiteKingSide != 0 {
		result.CastleRights |= BlackKingSide
	}
	if p.CastleRights&WhiteQueenSide != 0 {
		result.CastleRights |= BlackQueenSide
	}
	if p.CastleRights&BlackKingSide != 0 {
		result.CastleRights |= WhiteKingSide
	}
	if p.CastleRights&BlackQueenSide != 0 {
		result.CastleRights |= WhiteQueenSide
	}
	result.Key = computeZobrist(&result)
	result.Checkers = result.computeCheckers()
	return result
}

func init() {
	for sq := range castleRightsMask {
		castleRightsMask[sq] = WhiteKingSide | WhiteQueenSide | BlackKingSide | BlackQueenSide
	}
	castleRightsMask[SquareE1] &^= WhiteKingSide | WhiteQueenSide
	castleRightsMask[SquareH1] &^= WhiteKingSide
	castleRightsMask[SquareA1] &^= WhiteQueenSide
	castleRightsMask[SquareE8] &^= BlackKingSide | BlackQueenSide
	castleRightsMask[SquareH8] &^= BlackKingSide
	castleRightsMask[SquareA8] &^= BlackQueenSide
}
