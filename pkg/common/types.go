package common

import "time"

const (
	SideWhite = iota
	SideBlack
)

const (
	Empty = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

const (
	WhiteKingSide = 1 << iota
	WhiteQueenSide
	BlackKingSide
	BlackQueenSide
)

const MaxMoves = 256

const InitialPositionFen = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Position is an immutable board snapshot. Moves are applied copy-make via
// MakeMove into a caller-supplied destination.
type Position struct {
	Pawns, Knights, Bishops, Rooks, Queens, Kings uint64
	White, Black                                  uint64
	Checkers                                      uint64
	WhiteMove                                     bool
	CastleRights                                  int
	Rule50                                        int
	EpSquare                                      int
	Key                                           uint64
	LastMove                                      Move
}

type LimitsType struct {
	Ponder         bool
	Infinite       bool
	WhiteTime      int
	BlackTime      int
	WhiteIncrement int
	BlackIncrement int
	MoveTime       int
	MovesToGo      int
	Depth          int
	Nodes          int
	Mate           int
}

type SearchParams struct {
	Positions []Position
	Limits    LimitsType
	Progress  func(si SearchInfo)
}

type SearchInfo struct {
	Score    UciScore
	Depth    int
	Nodes    int64
	Time     time.Duration
	MainLine []Move
}

// UciScore is a centipawn score or a signed moves-to-mate distance.
type UciScore struct {
	Centipawns int
	Mate       int
}
