package common

import "strings"

var sanPieceLetter = [King + 1]string{
	Knight: "N", Bishop: "B", Rook: "R", Queen: "Q", King: "K",
}

// moveToSAN renders mv in standard algebraic notation. ml must hold the legal
// moves of pos, which drive from-square disambiguation.
func moveToSAN(pos *Position, ml []Move, mv Move) string {
	var piece = mv.MovingPiece()
	if piece == King {
		switch mv.To() - mv.From() {
		case 2:
			return "O-O"
		case -2:
			return "O-O-O"
		}
	}

	var sb strings.Builder
	sb.WriteString(sanPieceLetter[piece])
	sb.WriteString(sanFromFragment(ml, mv))
	if mv.CapturedPiece() != Empty {
		sb.WriteString("x")
	}
	sb.WriteString(SquareName(mv.To()))
	if promo := mv.Promotion(); promo != Empty {
		sb.WriteString("=")
		sb.WriteString(sanPieceLetter[promo])
	}
	return sb.String()
}

// sanFromFragment returns the from-square part of the notation: the file for
// pawn captures, and for pieces as much of the from square as rival moves to
// the same target demand.
func sanFromFragment(ml []Move, mv Move) string {
	var from = SquareName(mv.From())
	if mv.MovingPiece() == Pawn {
		if mv.CapturedPiece() != Empty {
			return from[:1]
		}
		return ""
	}
	var clash, fileClash, rankClash bool
	for _, rival := range ml {
		if rival.From() == mv.From() || rival.To() != mv.To() ||
			rival.MovingPiece() != mv.MovingPiece() {
			continue
		}
		clash = true
		if File(rival.From()) == File(mv.From()) {
			fileClash = true
		}
		if Rank(rival.From()) == Rank(mv.From()) {
			rankClash = true
		}
	}
	switch {
	case !clash:
		return ""
	case !fileClash:
		return from[:1]
	case !rankClash:
		return from[1:2]
	}
	return from
}

// ParseMoveSAN matches san against the legal moves of pos. Check marks and
// annotation glyphs are ignored. Returns MoveEmpty when nothing matches.
func ParseMoveSAN(pos *Position, san string) Move {
	if cut := strings.IndexAny(san, "+#?!"); cut >= 0 {
		san = san[:cut]
	}
	var ml = pos.GenerateLegalMoves()
	for _, mv := range ml {
		if moveToSAN(pos, ml, mv) == san {
			return mv
		}
	}
	return MoveEmpty
}
