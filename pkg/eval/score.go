package eval

import "fmt"

// Score packs a middlegame value into the high 16 bits and an endgame value
// into the low 16 bits, so both phases accumulate in one addition.
type Score int32

func S(middle, end int16) Score {
	return Score(uint32(middle)<<16) + Score(end)
}

func (s Score) Middle() int16 {
	return int16(uint32(s+0x8000) >> 16)
}

func (s Score) End() int16 {
	return int16(s)
}

func (s Score) String() string {
	return fmt.Sprintf("Score(%d, %d)", s.Middle(), s.End())
}
