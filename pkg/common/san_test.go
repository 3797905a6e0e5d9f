package common

import "testing"

func TestParseMoveSAN(t *testing.T) {
	var tests = []struct {
		fen string
		san string
		lan string
	}{
		{InitialPositionFen, "Nf3", "g1f3"},
		{InitialPositionFen, "e4", "e2e4"},
		// Castling both ways
		{"r3k2r/pppppppp/8/8/8/8/PPPPPPPP/R3K2R w KQkq - 0 1", "O-O", "e1g1"},
		{"r3k2r/pppppppp/8/8/8/8/PPPPPPPP/R3K2R b KQkq - 0 1", "O-O-O", "e8c8"},
		// File disambiguation
		{"4k3/8/8/8/8/8/4K3/R6R w - - 0 1", "Rab1", "a1b1"},
		// Rank disambiguation
		{"4k3/8/8/7R/8/8/4K3/7R w - - 0 1", "R1h3", "h1h3"},
		// Full square disambiguation: queens on e4, h4 and h1, target e1
		{"4k3/8/8/8/4Q2Q/8/K7/7Q w - - 0 1", "Qh4e1", "h4e1"},
		// Pawn capture keeps the from file
		{"4k3/8/8/3p4/4P3/8/8/4K3 w - - 0 1", "exd5", "e4d5"},
		// En passant is written as a plain pawn capture
		{"4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 1", "exd6", "e5d6"},
		// Promotion with capture
		{"1n2k3/P7/8/8/8/8/8/4K3 w - - 0 1", "axb8=Q", "a7b8q"},
		{"1n2k3/P7/8/8/8/8/8/4K3 w - - 0 1", "a8=N", "a7a8n"},
		// Decorations are ignored
		{"rnbqkbnr/ppppp1pp/8/5p2/4P3/8/PPPP1PPP/RNBQKBNR w KQkq - 0 2", "Qh5+!?", "d1h5"},
	}
	for _, test := range tests {
		var p, err = NewPositionFromFEN(test.fen)
		if err != nil {
			t.Fatal(test.fen, err)
		}
		var mv = ParseMoveSAN(&p, test.san)
		if mv == MoveEmpty {
			t.Error("not parsed", test.fen, test.san)
			continue
		}
		if mv.String() != test.lan {
			t.Error(test.fen, test.san, "want", test.lan, "got", mv.String())
		}
	}
}

func TestParseMoveSANRejects(t *testing.T) {
	var p, err = NewPositionFromFEN(InitialPositionFen)
	if err != nil {
		t.Fatal(err)
	}
	for _, san := range []string{"", "e5", "Nf6", "O-O", "Qh5"} {
		if mv := ParseMoveSAN(&p, san); mv != MoveEmpty {
			t.Error("accepted", san, mv.String())
		}
	}
}

// Every legal move must render to a SAN string that parses back to itself.
func TestSANRoundTrip(t *testing.T) {
	for _, fen := range testFENs {
		var p, err = NewPositionFromFEN(fen)
		if err != nil {
			t.Fatal(fen, err)
		}
		var ml = p.GenerateLegalMoves()
		for _, mv := range ml {
			var san = moveToSAN(&p, ml, mv)
			if parsed := ParseMoveSAN(&p, san); parsed != mv {
				t.Error(fen, mv.String(), san, parsed.String())
			}
		}
	}
}
