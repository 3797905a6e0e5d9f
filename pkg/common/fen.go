package common

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

const pieceNames = " pnbrqk"

// NewPositionFromFEN parses the first four FEN fields; the halfmove clock is
// honoured when present, the fullmove number is not tracked.
func NewPositionFromFEN(fen string) (Position, error) {
	var tokens = strings.Fields(fen)
	if len(tokens) < 4 {
		return Position{}, fmt.Errorf("fen too short: %q", fen)
	}

	var p = Position{EpSquare: SquareNone}

	var ranks = strings.Split(tokens[0], "/")
	if len(ranks) != 8 {
		return Position{}, fmt.Errorf("fen board malformed: %q", fen)
	}
	for i, rankLine := range ranks {
		var file = FileA
		for _, ch := range rankLine {
			if unicode.IsDigit(ch) {
				file += int(ch - '0')
				continue
			}
			var piece = strings.IndexRune(pieceNames, unicode.ToLower(ch))
			if piece <= Empty || file > FileH {
				return Position{}, fmt.Errorf("fen board malformed: %q", fen)
			}
			p.xorPiece(piece, MakeSquare(file, Rank8-i), unicode.IsUpper(ch))
			file++
		}
		if file != FileH+1 {
			return Position{}, fmt.Errorf("fen board malformed: %q", fen)
		}
	}

	switch tokens[1] {
	case "w":
		p.WhiteMove = true
	case "b":
		p.WhiteMove = false
	default:
		return Position{}, fmt.Errorf("fen side malformed: %q", fen)
	}

	for _, ch := range tokens[2] {
		switch ch {
		case 'K':
			p.CastleRights |= WhiteKingSide
		case 'Q':
			p.CastleRights |= WhiteQueenSide
		case 'k':
			p.CastleRights |= BlackKingSide
		case 'q':
			p.CastleRights |= BlackQueenSide
		}
	}

	p.EpSquare = ParseSquare(tokens[3])

	if len(tokens) > 4 {
		p.Rule50, _ = strconv.Atoi(tokens[4])
	}

	if PopCount(p.Kings&p.White) != 1 || PopCount(p.Kings&p.Black) != 1 {
		return Position{}, fmt.Errorf("fen requires one king per side: %q", fen)
	}

	p.Key = computeZobrist(&p)
	p.Checkers = p.computeCheckers()
	return p, nil
}

func (p *Position) String() string {
	var sb strings.Builder

	for rank := Rank8; rank >= Rank1; rank-- {
		var empty = 0
		for file := FileA; file <= FileH; file++ {
			var sq = MakeSquare(file, rank)
			var piece = p.WhatPiece(sq)
			if piece == Empty {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			var ch = pieceNames[piece]
			if p.White&SquareMask[sq] != 0 {
				sb.WriteByte(byte(unicode.ToUpper(rune(ch))))
			} else {
				sb.WriteByte(ch)
			}
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank != Rank1 {
			sb.WriteByte('/')
		}
	}

	if p.WhiteMove {
		sb.WriteString(" w ")
	} else {
		sb.WriteString(" b ")
	}

	if p.CastleRights == 0 {
		sb.WriteByte('-')
	} else {
		for i, ch := range "KQkq" {
			if p.CastleRights&(1<<i) != 0 {
				sb.WriteRune(ch)
			}
		}
	}

	sb.WriteByte(' ')
	if p.EpSquare == SquareNone {
		sb.WriteByte('-')
	} else {
		sb.WriteString(SquareName(p.EpSquare))
	}

	fmt.Fprintf(&sb, " %v %v", p.Rule50, p.Rule50/2+1)
	return sb.String()
}
