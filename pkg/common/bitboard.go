package common

import "math/bits"

var (
	SquareMask    [64]uint64
	KnightAttacks [64]uint64
	KingAttacks   [64]uint64

	pawnAttacks [2][64]uint64

	rookMasks    [64]uint64
	bishopMasks  [64]uint64
	rookTables   [64][]uint64
	bishopTables [64][]uint64

	betweenMask [64][64]uint64
)

func PopCount(b uint64) int {
	return bits.OnesCount64(b)
}

func FirstOne(b uint64) int {
	return bits.TrailingZeros64(b)
}

func MoreThanOne(b uint64) bool {
	return b&(b-1) != 0
}

func PawnAttacks(sq int, white bool) uint64 {
	if white {
		return pawnAttacks[SideWhite][sq]
	}
	return pawnAttacks[SideBlack][sq]
}

func RookAttacks(sq int, occ uint64) uint64 {
	return rookTables[sq][pext(occ, rookMasks[sq])]
}

func BishopAttacks(sq int, occ uint64) uint64 {
	return bishopTables[sq][pext(occ, bishopMasks[sq])]
}

func QueenAttacks(sq int, occ uint64) uint64 {
	return RookAttacks(sq, occ) | BishopAttacks(sq, occ)
}

// pext packs the bits of x selected by mask into the low bits of the result
// (software fallback for the BMI2 instruction).
func pext(x, mask uint64) uint64 {
	var result, i uint64
	for m := mask; m != 0; m &= m - 1 {
		if x&m&-m != 0 {
			result |= 1 << i
		}
		i++
	}
	return result
}

// pdep deposits the low bits of x into the positions selected by mask.
func pdep(x, mask uint64) uint64 {
	var result, i uint64
	for m := mask; m != 0; m &= m - 1 {
		if x&(1<<i) != 0 {
			result |= m & -m
		}
		i++
	}
	return result
}

var (
	rookDirections   = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	bishopDirections = [4][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	knightOffsets    = [8][2]int{{2, 1}, {2, -1}, {-2, 1}, {-2, -1}, {1, 2}, {1, -2}, {-1, 2}, {-1, -2}}
	kingOffsets      = [8][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}, {1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
)

func leaperAttacks(sq int, offsets *[8][2]int) uint64 {
	var result uint64
	for _, d := range offsets {
		var r, f = Rank(sq) + d[0], File(sq) + d[1]
		if r >= 0 && r < 8 && f >= 0 && f < 8 {
			result |= SquareMask[MakeSquare(f, r)]
		}
	}
	return result
}

func slideAttacks(sq int, occ uint64, directions *[4][2]int) uint64 {
	var result uint64
	for _, d := range directions {
		for r, f := Rank(sq)+d[0], File(sq)+d[1]; r >= 0 && r < 8 && f >= 0 && f < 8; r, f = r+d[0], f+d[1] {
			var to = MakeSquare(f, r)
			result |= SquareMask[to]
			if occ&SquareMask[to] != 0 {
				break
			}
		}
	}
	return result
}

// sliderMask is the relevant-occupancy mask: every ray square whose successor
// is still on the board. Edge squares never affect the attack set.
func sliderMask(sq int, directions *[4][2]int) uint64 {
	var result uint64
	for _, d := range directions {
		for r, f := Rank(sq)+d[0], File(sq)+d[1]; r+d[0] >= 0 && r+d[0] < 8 && f+d[1] >= 0 && f+d[1] < 8; r, f = r+d[0], f+d[1] {
			result |= SquareMask[MakeSquare(f, r)]
		}
	}
	return result
}

func sliderTable(sq int, mask uint64, directions *[4][2]int) []uint64 {
	var table = make([]uint64, 1<<uint(PopCount(mask)))
	for i := range table {
		table[i] = slideAttacks(sq, pdep(uint64(i), mask), directions)
	}
	return table
}

func init() {
	for sq := 0; sq < 64; sq++ {
		SquareMask[sq] = 1 << uint(sq)
	}

	for sq := 0; sq < 64; sq++ {
		KnightAttacks[sq] = leaperAttacks(sq, &knightOffsets)
		KingAttacks[sq] = leaperAttacks(sq, &kingOffsets)

		var f, r = File(sq), Rank(sq)
		if r < Rank8 {
			if f > FileA {
				pawnAttacks[SideWhite][sq] |= SquareMask[sq+7]
			}
			if f < FileH {
				pawnAttacks[SideWhite][sq] |= SquareMask[sq+9]
			}
		}
		if r > Rank1 {
			if f > FileA {
				pawnAttacks[SideBlack][sq] |= SquareMask[sq-9]
			}
			if f < FileH {
				pawnAttacks[SideBlack][sq] |= SquareMask[sq-7]
			}
		}
	}

	for sq := 0; sq < 64; sq++ {
		rookMasks[sq] = sliderMask(sq, &rookDirections)
		bishopMasks[sq] = sliderMask(sq, &bishopDirections)
		rookTables[sq] = sliderTable(sq, rookMasks[sq], &rookDirections)
		bishopTables[sq] = sliderTable(sq, bishopMasks[sq], &bishopDirections)
	}

	for a := 0; a < 64; a++ {
		for b := 0; b < 64; b++ {
			if RookAttacks(a, 0)&SquareMask[b] != 0 {
				betweenMask[a][b] = RookAttacks(a, SquareMask[b]) & RookAttacks(b, SquareMask[a])
			} else if BishopAttacks(a, 0)&SquareMask[b] != 0 {
				betweenMask[a][b] = BishopAttacks(a, SquareMask[b]) & BishopAttacks(b, SquareMask[a])
			}
		}
	}
}
