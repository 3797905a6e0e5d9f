package eval

import (
	"testing"

	. "github.com/kestrel-engine/kestrel/pkg/common"
)

var testFENs = []string{
	InitialPositionFen,
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	"8/p1P5/P7/3p4/5p1p/3p1P1P/K2p2pp/3R2nk w - - 0 1",
	"8/7p/p5pb/4k3/P1pPn3/8/P5PP/1rB2RK1 b - d3 0 28",
	"1K1k4/8/5n2/3p4/8/1BN2B2/6b1/7b w - - 0 1",
	"6k1/5ppp/3r4/8/3R2b1/8/5PPP/R3qB1K b - - 0 1",
	"2rqkb1r/p1pnpppp/3p3n/3B4/2BPP3/1QP5/PP3PPP/RN2K1NR w KQk - 0 1",
	"8/8/8/5k2/8/3p4/3K4/8 b - - 0 1",
	"5k2/8/8/8/8/8/2Q5/5K2 w - - 0 1",
}

func TestEvalSymmetry(t *testing.T) {
	var e = NewEvaluationService()
	for _, test := range testFENs {
		var p1, err = NewPositionFromFEN(test)
		if err != nil {
			t.Fatal(err)
		}
		var score1 = e.Evaluate(&p1)
		var p2 = MirrorPosition(&p1)
		var score2 = e.Evaluate(&p2)
		if score1 != score2 {
			t.Error(test, p2.String(), score1, score2)
		}
	}
}

func TestEvalStartingPosition(t *testing.T) {
	var e = NewEvaluationService()
	var p, err = NewPositionFromFEN(InitialPositionFen)
	if err != nil {
		t.Fatal(err)
	}
	if score := e.Evaluate(&p); score != 0 {
		t.Errorf("starting position scored %v, want 0", score)
	}
}

func TestEvalMaterialOrder(t *testing.T) {
	// Each position adds a stronger white piece to a bare-kings endgame.
	var fens = []string{
		"5k2/8/8/8/8/8/2P5/5K2 w - - 0 1",
		"5k2/8/8/8/8/8/2N5/5K2 w - - 0 1",
		"5k2/8/8/8/8/8/2R5/5K2 w - - 0 1",
		"5k2/8/8/8/8/8/2Q5/5K2 w - - 0 1",
	}
	var e = NewEvaluationService()
	var prev = 0
	for _, fen := range fens {
		var p, err = NewPositionFromFEN(fen)
		if err != nil {
			t.Fatal(err)
		}
		var score = e.Evaluate(&p)
		if score <= prev {
			t.Errorf("%v scored %v, want above %v", fen, score, prev)
		}
		prev = score
	}
}
