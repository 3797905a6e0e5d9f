package engine

import (
	"testing"

	. "github.com/kestrel-engine/kestrel/pkg/common"
)

// findMove looks the move up among pseudo-legal moves so exchanges through
// pins and into defended squares stay testable.
func findMove(t *testing.T, p *Position, lan string) Move {
	t.Helper()
	var buffer [MaxMoves]OrderedMove
	for _, om := range p.GenerateMoves(buffer[:0]) {
		if om.Move.String() == lan {
			return om.Move
		}
	}
	t.Fatalf("move %v not found in %v", lan, p.String())
	return MoveEmpty
}

func TestSeeGE(t *testing.T) {
	var cases = []struct {
		fen       string
		move      string
		threshold int
		want      bool
	}{
		// Free pawn.
		{"1k6/8/8/4p3/8/5N2/8/1K6 w - - 0 1", "f3e5", 0, true},
		// Pawn is defended, knight for pawn loses.
		{"1k6/8/5p2/4p3/8/5N2/8/1K6 w - - 0 1", "f3e5", 0, false},
		// Even rook trade.
		{"1k2r3/8/8/8/8/8/8/1K2R3 w - - 0 1", "e1e8", 0, true},
		// Even pawn trade.
		{"1k6/8/3p4/4p3/3P4/8/8/1K6 w - - 0 1", "d4e5", 0, true},
		// Queen takes a pawn defended by a pawn.
		{"1k6/8/5p2/4p3/8/8/4Q3/1K6 w - - 0 1", "e2e5", 0, false},
		// X-ray: the doubled rook recaptures behind its sibling.
		{"k3r3/8/8/4p3/8/4R3/4R3/K7 w - - 0 1", "e3e5", 0, true},
		{"k3r3/8/8/4p3/8/4R3/4R3/K7 w - - 0 1", "e3e5", 1, true},
		{"k3r3/8/8/4p3/8/4R3/4R3/K7 w - - 0 1", "e3e5", 2, false},
		// A king cannot win an exchange on a defended square.
		{"1k6/8/8/8/8/5p2/4p3/4K3 w - - 0 1", "e1e2", 0, false},
		// The same capture is fine once nothing defends the pawn.
		{"1k6/8/8/8/8/8/4p3/4K3 w - - 0 1", "e1e2", 0, true},
		// En passant: the captured pawn sits one rank behind the target.
		{"1k6/8/8/3pP3/8/8/8/1K6 w - d6 0 1", "e5d6", 0, true},
		// Removing the d5 pawn opens the file, so the rook guards d6.
		{"1k6/8/8/3pP3/8/8/8/1K1r4 w - d6 0 1", "e5d6", 1, false},
		// Winning a pawn clears a one pawn threshold, not two.
		{"1k6/8/8/4p3/8/5N2/8/1K6 w - - 0 1", "f3e5", pieceValuesSEE[Pawn], true},
		{"1k6/8/8/4p3/8/5N2/8/1K6 w - - 0 1", "f3e5", pieceValuesSEE[Pawn] + 1, false},
	}
	for _, c := range cases {
		var p, err = NewPositionFromFEN(c.fen)
		if err != nil {
			t.Fatal(err)
		}
		var move = findMove(t, &p, c.move)
		if got := SeeGE(&p, move, c.threshold); got != c.want {
			t.Errorf("SeeGE(%v, %v, %v) = %v, want %v", c.fen, c.move, c.threshold, got, c.want)
		}
	}
}

// An exchange that clears a threshold clears every smaller one.
func TestSeeGEThresholdMonotone(t *testing.T) {
	var fens = []string{
		"r1bqkbnr/pppp1ppp/2n5/4p3/2B1P3/5N2/PPPP1PPP/RNBQK2R w KQkq - 0 1",
		"r2q1rk1/ppp2ppp/2np1n2/2b1p1B1/2B1P1b1/2NP1N2/PPP2PPP/R2Q1RK1 w - - 0 1",
		"rnbqkb1r/ppp1pppp/5n2/3p4/4P3/2N5/PPPP1PPP/R1BQKBNR w KQkq - 0 1",
	}
	var buffer [MaxMoves]OrderedMove
	for _, fen := range fens {
		var p, err = NewPositionFromFEN(fen)
		if err != nil {
			t.Fatal(err)
		}
		for _, om := range p.GenerateMoves(buffer[:0]) {
			var move = om.Move
			if !isCaptureOrPromotion(move) {
				continue
			}
			for threshold := -2; threshold <= 3; threshold++ {
				if SeeGE(&p, move, threshold) && !SeeGE(&p, move, threshold-1) {
					t.Errorf("SeeGE(%v, %v) holds at %v but not below", fen, move, threshold)
				}
			}
		}
	}
}
