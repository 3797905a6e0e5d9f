package common

// GenerateMoves fills ml with pseudo-legal moves and returns the filled
// prefix. When the side to move is in check only evasions are produced.
// Moves may still leave the king attacked; MakeMove filters those.
func (p *Position) GenerateMoves(ml []OrderedMove) []OrderedMove {
	ml = ml[:0]

	var own, enemy uint64
	if p.WhiteMove {
		own, enemy = p.White, p.Black
	} else {
		own, enemy = p.Black, p.White
	}
	var occ = p.AllPieces()
	var kingFrom = FirstOne(p.Kings & own)

	// Non-king moves must capture the checker or block its line.
	var target = ^own
	if p.Checkers != 0 {
		if MoreThanOne(p.Checkers) {
			target = 0
		} else {
			target = p.Checkers | betweenMask[kingFrom][FirstOne(p.Checkers)]
		}
	}

	if target != 0 {
		ml = p.generatePawnMoves(ml, target, occ, enemy)
		for x := p.Knights & own; x != 0; x &= x - 1 {
			var from = FirstOne(x)
			ml = p.addTargets(ml, from, Knight, KnightAttacks[from]&target)
		}
		for x := p.Bishops & own; x != 0; x &= x - 1 {
			var from = FirstOne(x)
			ml = p.addTargets(ml, from, Bishop, BishopAttacks(from, occ)&target)
		}
		for x := p.Rooks & own; x != 0; x &= x - 1 {
			var from = FirstOne(x)
			ml = p.addTargets(ml, from, Rook, RookAttacks(from, occ)&target)
		}
		for x := p.Queens & own; x != 0; x &= x - 1 {
			var from = FirstOne(x)
			ml = p.addTargets(ml, from, Queen, QueenAttacks(from, occ)&target)
		}
	}

	ml = p.addTargets(ml, kingFrom, King, KingAttacks[kingFrom]&^own)

	if p.Checkers == 0 {
		if p.WhiteMove {
			if p.CastleRights&WhiteKingSide != 0 &&
				occ&(SquareMask[SquareF1]|SquareMask[SquareG1]) == 0 &&
				!p.attacked(SquareF1, false) {
				ml = append(ml, OrderedMove{Move: makeMove(SquareE1, SquareG1, King, Empty)})
			}
			if p.CastleRights&WhiteQueenSide != 0 &&
				occ&(SquareMask[SquareB1]|SquareMask[SquareC1]|SquareMask[SquareD1]) == 0 &&
				!p.attacked(SquareD1, false) {
				ml = append(ml, OrderedMove{Move: makeMove(SquareE1, SquareC1, King, Empty)})
			}
		} else {
			if p.CastleRights&BlackKingSide != 0 &&
				occ&(SquareMask[SquareF8]|SquareMask[SquareG8]) == 0 &&
				!p.attacked(SquareF8, true) {
				ml = append(ml, OrderedMove{Move: makeMove(SquareE8, SquareG8, King, Empty)})
			}
			if p.CastleRights&BlackQueenSide != 0 &&
				occ&(SquareMask[SquareB8]|SquareMask[SquareC8]|SquareMask[SquareD8]) == 0 &&
				!p.attacked(SquareD8, true) {
				ml = append(ml, OrderedMove{Move: makeMove(SquareE8, SquareC8, King, Empty)})
			}
		}
	}

	return ml
}

func (p *Position) generatePawnMoves(ml []OrderedMove, target, occ, enemy uint64) []OrderedMove {
	var own = p.Pawns & p.White
	var forward, promoRank, startRank = 8, Rank8, Rank2
	if !p.WhiteMove {
		own = p.Pawns & p.Black
		forward, promoRank, startRank = -8, Rank1, Rank7
	}

	for x := own; x != 0; x &= x - 1 {
		var from = FirstOne(x)

		var to = from + forward
		if occ&SquareMask[to] == 0 {
			if target&SquareMask[to] != 0 {
				if Rank(to) == promoRank {
					ml = addPromotions(ml, from, to, Empty)
				} else {
					ml = append(ml, OrderedMove{Move: makeMove(from, to, Pawn, Empty)})
				}
			}
			if Rank(from) == startRank {
				var jump = from + 2*forward
				if occ&SquareMask[jump] == 0 && target&SquareMask[jump] != 0 {
					ml = append(ml, OrderedMove{Move: makeMove(from, jump, Pawn, Empty)})
				}
			}
		}

		for caps := PawnAttacks(from, p.WhiteMove) & enemy & target; caps != 0; caps &= caps - 1 {
			to = FirstOne(caps)
			if Rank(to) == promoRank {
				ml = addPromotions(ml, from, to, p.WhatPiece(to))
			} else {
				ml = append(ml, OrderedMove{Move: makeMove(from, to, Pawn, p.WhatPiece(to))})
			}
		}

		// En-passant bypasses target filtering: the captured pawn does not
		// sit on the destination square, so legality is left to MakeMove.
		if p.EpSquare != SquareNone &&
			PawnAttacks(from, p.WhiteMove)&SquareMask[p.EpSquare] != 0 {
			ml = append(ml, OrderedMove{Move: makeMove(from, p.EpSquare, Pawn, Pawn)})
		}
	}
	return ml
}

func addPromotions(ml []OrderedMove, from, to, captured int) []OrderedMove {
	return append(ml,
		OrderedMove{Move: makePromotion(from, to, captured, Queen)},
		OrderedMove{Move: makePromotion(from, to, captured, Rook)},
		OrderedMove{Move: makePromotion(from, to, captured, Bishop)},
		OrderedMove{Move: makePromotion(from, to, captured, Knight)})
}

func (p *Position) addTargets(ml []OrderedMove, from, piece int, targets uint64) []OrderedMove {
	for x := targets; x != 0; x &= x - 1 {
		var to = FirstOne(x)
		ml = append(ml, OrderedMove{Move: makeMove(from, to, piece, p.WhatPiece(to))})
	}
	return ml
}

// GenerateCaptures fills ml with captures and queen promotions, the move set
// searched by quiescence. Under-promotions are skipped.
func (p *Position) GenerateCaptures(ml []OrderedMove) []OrderedMove {
	ml = ml[:0]

	var own, enemy uint64
	if p.WhiteMove {
		own, enemy = p.White, p.Black
	} else {
		own, enemy = p.Black, p.White
	}
	var occ = p.AllPieces()

	var forward, promoRank = 8, Rank8
	if !p.WhiteMove {
		forward, promoRank = -8, Rank1
	}
	for x := p.Pawns & own; x != 0; x &= x - 1 {
		var from = FirstOne(x)

		if to := from + forward; Rank(to) == promoRank && occ&SquareMask[to] == 0 {
			ml = append(ml, OrderedMove{Move: makePromotion(from, to, Empty, Queen)})
		}
		for caps := PawnAttacks(from, p.WhiteMove) & enemy; caps != 0; caps &= caps - 1 {
			var to = FirstOne(caps)
			if Rank(to) == promoRank {
				ml = append(ml, OrderedMove{Move: makePromotion(from, to, p.WhatPiece(to), Queen)})
			} else {
				ml = append(ml, OrderedMove{Move: makeMove(from, to, Pawn, p.WhatPiece(to))})
			}
		}
		if p.EpSquare != SquareNone &&
			PawnAttacks(from, p.WhiteMove)&SquareMask[p.EpSquare] != 0 {
			ml = append(ml, OrderedMove{Move: makeMove(from, p.EpSquare, Pawn, Pawn)})
		}
	}

	for x := p.Knights & own; x != 0; x &= x - 1 {
		var from = FirstOne(x)
		ml = p.addTargets(ml, from, Knight, KnightAttacks[from]&enemy)
	}
	for x := p.Bishops & own; x != 0; x &= x - 1 {
		var from = FirstOne(x)
		ml = p.addTargets(ml, from, Bishop, BishopAttacks(from, occ)&enemy)
	}
	for x := p.Rooks & own; x != 0; x &= x - 1 {
		var from = FirstOne(x)
		ml = p.addTargets(ml, from, Rook, RookAttacks(from, occ)&enemy)
	}
	for x := p.Queens & own; x != 0; x &= x - 1 {
		var from = FirstOne(x)
		ml = p.addTargets(ml, from, Queen, QueenAttacks(from, occ)&enemy)
	}
	var kingFrom = FirstOne(p.Kings & own)
	ml = p.addTargets(ml, kingFrom, King, KingAttacks[kingFrom]&enemy)

	return ml
}

// GenerateLegalMoves allocates and returns the strictly legal moves in p.
func (p *Position) GenerateLegalMoves() []Move {
	var buffer [MaxMoves]OrderedMove
	var child Position
	var result []Move
	for _, mv := range p.GenerateMoves(buffer[:]) {
		if p.MakeMove(mv.Move, &child) {
			result = append(result, mv.Move)
		}
	}
	return result
}
