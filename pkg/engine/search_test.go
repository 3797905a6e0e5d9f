package engine

import (
	"testing"

	"github.com/matryer/is"

	. "github.com/kestrel-engine/kestrel/pkg/common"
)

func TestMateScoreConversion(t *testing.T) {
	var is = is.New(t)

	is.Equal(newUciScore(winIn(1)).Mate, 1)
	is.Equal(newUciScore(winIn(3)).Mate, 2)
	is.Equal(newUciScore(lossIn(2)).Mate, -1)
	is.Equal(newUciScore(lossIn(4)).Mate, -2)
	is.Equal(newUciScore(120).Centipawns, 120)
	is.Equal(newUciScore(120).Mate, 0)

	for _, v := range []int{0, 50, -300, winIn(4), lossIn(7)} {
		for _, height := range []int{0, 1, 10, 40} {
			if got := valueFromTT(valueToTT(v, height), height); got != v {
				t.Fatalf("value %v height %v round-trips to %v", v, height, got)
			}
		}
	}

	// A mate found at height 4 reads back one ply nearer from height 3.
	var stored = valueToTT(winIn(4), 4)
	is.Equal(valueFromTT(stored, 3), winIn(3))
}

func TestLmrTable(t *testing.T) {
	var is = is.New(t)
	var o = NewOptions()

	is.Equal(o.Lmr(1, 1), 0)
	is.Equal(o.Lmr(63, 63), 8)
	is.Equal(o.Lmr(200, 200), o.Lmr(63, 63)) // clamped

	for d := 1; d < 64; d++ {
		for m := 1; m < 64; m++ {
			var r = o.Lmr(d, m)
			if r < 0 || r > 8 {
				t.Fatalf("Lmr(%v,%v) = %v out of range", d, m, r)
			}
			if m > 1 && r < o.Lmr(d, m-1) {
				t.Fatalf("Lmr(%v,·) not monotone at %v", d, m)
			}
			if d > 1 && r < o.Lmr(d-1, m) {
				t.Fatalf("Lmr(·,%v) not monotone at %v", m, d)
			}
		}
	}
}

func TestHistoryUpdate(t *testing.T) {
	var is = is.New(t)
	var e = newTestEngine()
	is.NoErr(e.Prepare())
	var th = &e.threads[0]
	p, err := NewPositionFromFEN(InitialPositionFen)
	is.NoErr(err)
	th.stack[0].position = p
	var hc = th.getHistoryContext(0)

	var legal = p.GenerateLegalMoves()
	var quiets = legal[:3]
	var best = quiets[2]

	hc.Update(quiets, best, 10)
	is.True(hc.ReadTotal(best) > 0)
	is.True(hc.ReadTotal(quiets[0]) < 0)
	is.True(hc.ReadTotal(quiets[1]) < 0)

	// Repeated rewards saturate instead of overflowing.
	for i := 0; i < 1000; i++ {
		hc.Update([]Move{best}, best, 20)
	}
	is.True(hc.ReadTotal(best) <= historyMax)

	th.clearHistory()
	is.Equal(hc.ReadTotal(best), 0)
}

func TestMoveIteratorOrder(t *testing.T) {
	var is = is.New(t)
	var e = newTestEngine()
	is.NoErr(e.Prepare())
	var th = &e.threads[0]
	p, err := NewPositionFromFEN("1k6/8/8/4p3/8/5N2/8/1K6 w - - 0 1")
	is.NoErr(err)
	th.stack[0].position = p

	var transMove = findMove(t, &p, "b1c1")
	var killer = findMove(t, &p, "f3d4")
	th.stack[0].killer1 = killer

	var mi = th.initMoveIterator(0, transMove, th.getHistoryContext(0))
	var order []Move
	for mi.Reset(); ; {
		var move = mi.Next()
		if move == MoveEmpty {
			break
		}
		order = append(order, move)
	}

	is.Equal(len(order), len(p.GenerateLegalMoves()))
	is.Equal(order[0], transMove)
	is.Equal(order[1], findMove(t, &p, "f3e5")) // winning capture
	is.Equal(order[2], killer)
}

func TestIsDraw(t *testing.T) {
	var cases = []struct {
		fen  string
		want bool
	}{
		{"7k/8/8/8/8/8/8/K7 w - - 0 1", true},       // bare kings
		{"7k/8/8/8/8/8/8/KN6 w - - 0 1", true},      // lone knight
		{"7k/8/8/8/8/8/8/KB6 w - - 0 1", true},      // lone bishop
		{"7k/8/8/8/8/8/8/KNN5 w - - 0 1", false},    // two knights stay on
		{"7k/8/8/8/8/8/P7/K7 w - - 0 1", false},     // pawn can promote
		{"7k/8/8/8/8/8/8/KR6 w - - 0 1", false},     // rook mates
		{InitialPositionFen, false},                 //
		{"7k/8/8/8/8/8/8/K7 w - - 101 120", true},   // fifty moves passed
		{"rnbq1bnr/ppppkppp/8/4p3/4P3/8/PPPPKPPP/RNBQ1BNR w - - 99 60", false},
	}
	for _, c := range cases {
		var p, err = NewPositionFromFEN(c.fen)
		if err != nil {
			t.Fatal(err)
		}
		if got := isDraw(&p); got != c.want {
			t.Errorf("isDraw(%v) = %v, want %v", c.fen, got, c.want)
		}
	}
}

func TestIsLateEndgame(t *testing.T) {
	var is = is.New(t)
	p, err := NewPositionFromFEN("7k/8/8/8/8/8/5N2/K7 w - - 0 1")
	is.NoErr(err)
	is.True(isLateEndgame(&p, true))
	is.True(isLateEndgame(&p, false))

	p, err = NewPositionFromFEN("7k/8/8/8/8/8/5R2/K7 w - - 0 1")
	is.NoErr(err)
	is.True(!isLateEndgame(&p, true))

	p, err = NewPositionFromFEN(InitialPositionFen)
	is.NoErr(err)
	is.True(!isLateEndgame(&p, true))
}

func TestMoveListHelpers(t *testing.T) {
	var is = is.New(t)
	p, err := NewPositionFromFEN(InitialPositionFen)
	is.NoErr(err)
	var ml = p.GenerateLegalMoves()
	var target = ml[7]

	is.Equal(findMoveIndex(ml, target), 7)
	is.Equal(findMoveIndex(ml, MoveEmpty), -1)

	var clone = cloneMoves(ml)
	moveToBegin(clone, 7)
	is.Equal(clone[0], target)
	is.Equal(clone[1], ml[0])
	is.Equal(len(clone), len(ml))
	is.Equal(findMoveIndex(ml, target), 7) // original untouched
}
