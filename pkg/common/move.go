package common

import "strings"

// Move packs from, to, moving piece, captured piece and promotion piece
// into the low 21 bits. MoveEmpty is the zero value.
type Move int32

const MoveEmpty Move = 0

type OrderedMove struct {
	Move Move
	Key  int32
}

func makeMove(from, to, movingPiece, capturedPiece int) Move {
	return Move(from | to<<6 | movingPiece<<12 | capturedPiece<<15)
}

func makePromotion(from, to, capturedPiece, promotionPiece int) Move {
	return Move(from | to<<6 | Pawn<<12 | capturedPiece<<15 | promotionPiece<<18)
}

func (m Move) From() int {
	return int(m & 63)
}

func (m Move) To() int {
	return int((m >> 6) & 63)
}

func (m Move) MovingPiece() int {
	return int((m >> 12) & 7)
}

func (m Move) CapturedPiece() int {
	return int((m >> 15) & 7)
}

func (m Move) Promotion() int {
	return int((m >> 18) & 7)
}

const promotionNames = "  nbrq"

// String formats a move as coordinate notation ("e2e4", "e7e8q").
func (m Move) String() string {
	if m == MoveEmpty {
		return "0000"
	}
	var s = SquareName(m.From()) + SquareName(m.To())
	if promotion := m.Promotion(); promotion != Empty {
		s += string(promotionNames[promotion])
	}
	return s
}

// MakeMoveLAN applies a move given in coordinate notation, returning false
// if it does not correspond to a legal move in p.
func (p *Position) MakeMoveLAN(lan string) (Position, bool) {
	var buffer [MaxMoves]OrderedMove
	var child Position
	for _, mv := range p.GenerateMoves(buffer[:]) {
		if strings.EqualFold(mv.Move.String(), lan) &&
			p.MakeMove(mv.Move, &child) {
			return child, true
		}
	}
	return Position{}, false
}
