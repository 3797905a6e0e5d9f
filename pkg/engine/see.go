package engine

import (
	. "github.com/kestrel-engine/kestrel/pkg/common"
)

var pieceValuesSEE = [King + 1]int{
	Pawn: 1, Knight: 4, Bishop: 4, Rook: 6, Queen: 12, King: 120,
}

func seeGEZero(p *Position, move Move) bool {
	return SeeGE(p, move, 0)
}

// SeeGE reports whether the static exchange on move's target square comes out
// at least threshold for the side to move, playing the cheapest attacker at
// every step.
func SeeGE(pos *Position, move Move, threshold int) bool {
	var from = move.From()
	var to = move.To()
	var movingPiece = move.MovingPiece()
	var promotionPiece = move.Promotion()

	var nextVictim = movingPiece
	if promotionPiece != Empty {
		nextVictim = promotionPiece
	}

	var balance = pieceValuesSEE[move.CapturedPiece()]
	if promotionPiece != Empty {
		balance += pieceValuesSEE[promotionPiece] - pieceValuesSEE[Pawn]
	}
	balance -= threshold

	if balance < 0 {
		return false
	}

	// Even losing the moved piece outright keeps the exchange good.
	balance -= pieceValuesSEE[nextVictim]
	if balance >= 0 {
		return true
	}

	var occupied = pos.AllPieces()&^SquareMask[from] | SquareMask[to]
	if movingPiece == Pawn && to == pos.EpSquare {
		var capSq = to - 8
		if !pos.WhiteMove {
			capSq = to + 8
		}
		occupied &^= SquareMask[capSq]
	}

	var attackers = pos.AttackersTo(to, occupied) & occupied

	var bishops = pos.Bishops | pos.Queens
	var rooks = pos.Rooks | pos.Queens

	var side = pos.SideToMove() ^ 1

	for {
		var myAttackers = attackers & pos.Colours(side)
		if myAttackers == 0 {
			break
		}

		var attackerType, attackerFrom = leastValuableAttacker(pos, myAttackers)

		occupied &^= SquareMask[attackerFrom]

		// Capturing may uncover a slider behind the attacker.
		if attackerType == Pawn || attackerType == Bishop || attackerType == Queen {
			attackers |= BishopAttacks(to, occupied) & bishops
		}
		if attackerType == Rook || attackerType == Queen {
			attackers |= RookAttacks(to, occupied) & rooks
		}

		attackers &= occupied
		side ^= 1

		balance = -balance - 1 - pieceValuesSEE[attackerType]
		if balance >= 0 {
			if attackerType == King && attackers&pos.Colours(side) != 0 {
				// The king cannot legally recapture into attackers.
				side ^= 1
			}
			break
		}
	}

	return side != pos.SideToMove()
}

func leastValuableAttacker(p *Position, attackers uint64) (attacker, from int) {
	if p.Pawns&attackers != 0 {
		return Pawn, FirstOne(p.Pawns & attackers)
	}
	if p.Knights&attackers != 0 {
		return Knight, FirstOne(p.Knights & attackers)
	}
	if p.Bishops&attackers != 0 {
		return Bishop, FirstOne(p.Bishops & attackers)
	}
	if p.Rooks&attackers != 0 {
		return Rook, FirstOne(p.Rooks & attackers)
	}
	if p.Queens&attackers != 0 {
		return Queen, FirstOne(p.Queens & attackers)
	}
	return King, FirstOne(p.Kings & attackers)
}
