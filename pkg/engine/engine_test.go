package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"

	. "github.com/kestrel-engine/kestrel/pkg/common"
	"github.com/kestrel-engine/kestrel/pkg/eval"
)

func newTestEngine() *Engine {
	var e = NewEngine(func() Evaluator { return eval.NewEvaluationService() }, zerolog.Nop())
	e.Options.Hash = 4
	return e
}

func searchFEN(t *testing.T, e *Engine, fen string, limits LimitsType) SearchInfo {
	t.Helper()
	var p, err = NewPositionFromFEN(fen)
	if err != nil {
		t.Fatal(err)
	}
	s, err := e.StartSearch(context.Background(), SearchParams{
		Positions: []Position{p},
		Limits:    limits,
	})
	if err != nil {
		t.Fatal(err)
	}
	return s.Wait()
}

func TestSearchDepthOneStartingPosition(t *testing.T) {
	var is = is.New(t)
	var e = newTestEngine()
	var result = searchFEN(t, e, InitialPositionFen, LimitsType{Depth: 1})

	is.Equal(result.Depth, 1)
	is.Equal(result.Nodes, int64(20)) // one node per root move, no captures to extend
	is.Equal(result.Score.Mate, 0)
	is.True(result.Score.Centipawns > 0)
	is.True(result.Score.Centipawns < 150)
	is.True(len(result.MainLine) >= 1)

	var p, _ = NewPositionFromFEN(InitialPositionFen)
	if findMoveIndex(p.GenerateLegalMoves(), result.MainLine[0]) < 0 {
		t.Fatalf("best move %v is not legal", result.MainLine[0])
	}

	_, _, bound, move, ok := e.transTable.Read(p.Key)
	is.True(ok) // root entry stored
	is.Equal(bound, boundExact)
	is.Equal(move, result.MainLine[0])
}

// A deeper limit revisits every shallower iteration first, so the node count
// never shrinks as the limit grows.
func TestSearchNodesGrowWithDepth(t *testing.T) {
	var prev int64
	for depth := 1; depth <= 4; depth++ {
		var e = newTestEngine()
		var result = searchFEN(t, e, InitialPositionFen, LimitsType{Depth: depth})
		if result.Depth < depth {
			t.Fatalf("depth %v: searched only to %v", depth, result.Depth)
		}
		if result.Nodes <= prev {
			t.Fatalf("depth %v: %v nodes, not above %v", depth, result.Nodes, prev)
		}
		prev = result.Nodes
	}
}

// The score of a position equals the score of its colour-flipped twin.
func TestSearchMirrorSymmetry(t *testing.T) {
	var fens = []string{
		InitialPositionFen,
		"r1bqkbnr/pppp1ppp/2n5/4p3/2B1P3/5N2/PPPP1PPP/RNBQK2R w KQkq - 0 1",
		"rnbqkb1r/ppp1pppp/5n2/3p4/4P3/2N5/PPPP1PPP/R1BQKBNR w KQkq - 0 1",
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	}
	for _, fen := range fens {
		var p, err = NewPositionFromFEN(fen)
		if err != nil {
			t.Fatal(err)
		}
		var mirror = MirrorPosition(&p)
		var limits = LimitsType{Depth: 1}

		var e1 = newTestEngine()
		s1, err := e1.StartSearch(context.Background(), SearchParams{Positions: []Position{p}, Limits: limits})
		if err != nil {
			t.Fatal(err)
		}
		var e2 = newTestEngine()
		s2, err := e2.StartSearch(context.Background(), SearchParams{Positions: []Position{mirror}, Limits: limits})
		if err != nil {
			t.Fatal(err)
		}
		var r1, r2 = s1.Wait(), s2.Wait()
		if r1.Score != r2.Score {
			t.Errorf("%v: score %+v, mirrored %+v", fen, r1.Score, r2.Score)
		}
	}
}

func TestSearchMateInOne(t *testing.T) {
	var is = is.New(t)
	var e = newTestEngine()
	var result = searchFEN(t, e, "6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1", LimitsType{Depth: 5})

	is.Equal(result.Score.Mate, 1)
	is.Equal(result.Score.Centipawns, 0)
	is.True(len(result.MainLine) >= 1)
	is.Equal(result.MainLine[0].String(), "a1a8")
}

func TestSearchMatedPosition(t *testing.T) {
	var is = is.New(t)
	var e = newTestEngine()
	// Black is already checkmated.
	var result = searchFEN(t, e, "R5k1/5ppp/8/8/8/8/5PPP/6K1 b - - 0 1", LimitsType{Depth: 3})
	is.Equal(result.Depth, 0)
	is.Equal(len(result.MainLine), 0)
}

func TestSearchStalematePosition(t *testing.T) {
	var is = is.New(t)
	var e = newTestEngine()
	var result = searchFEN(t, e, "k7/2Q5/8/8/8/8/8/K7 b - - 0 1", LimitsType{Depth: 3})
	is.Equal(result.Depth, 0)
	is.Equal(len(result.MainLine), 0)
}

func TestSearchSingleReply(t *testing.T) {
	var is = is.New(t)
	var e = newTestEngine()
	// Only Kxb2 is legal; the engine answers without searching.
	var result = searchFEN(t, e, "k7/8/8/8/8/8/1q6/K7 w - - 0 1", LimitsType{Depth: 10})
	is.Equal(len(result.MainLine), 1)
	is.Equal(result.MainLine[0].String(), "a1b2")
}

func TestSearchMultiThreaded(t *testing.T) {
	var is = is.New(t)
	var e = newTestEngine()
	e.Options.Threads = 4
	var result = searchFEN(t, e, InitialPositionFen, LimitsType{Depth: 6})

	is.True(result.Depth >= 6)
	is.True(result.Nodes > 0)
	is.True(len(result.MainLine) >= 1)
	var p, _ = NewPositionFromFEN(InitialPositionFen)
	if findMoveIndex(p.GenerateLegalMoves(), result.MainLine[0]) < 0 {
		t.Fatalf("best move %v is not legal", result.MainLine[0])
	}
}

// Repetitions against game history score as draws. After 1.Nf3 Nf6 2.Ng1 the
// knight retreat offers black a repeat; with no other winning try for either
// side at low depth the search must see 2...Ng8 as heading for 0.00.
func TestSearchRepetitionDraw(t *testing.T) {
	var is = is.New(t)
	var positions = []Position{}
	p, err := NewPositionFromFEN("7k/8/8/8/8/8/R7/K7 w - - 0 1")
	is.NoErr(err)
	positions = append(positions, p)
	for _, lan := range []string{"a2b2", "h8g8", "b2a2", "g8h8"} {
		next, ok := positions[len(positions)-1].MakeMoveLAN(lan)
		if !ok {
			t.Fatalf("bad move %v", lan)
		}
		positions = append(positions, next)
	}
	// The start position now stands on the board for the second time.
	var e = newTestEngine()
	s, err := e.StartSearch(context.Background(), SearchParams{
		Positions: positions,
		Limits:    LimitsType{Depth: 6},
	})
	is.NoErr(err)
	var result = s.Wait()
	// White is a rook up and must avoid the repetition, not score it.
	is.True(result.Score.Centipawns > 100)
}

func TestRepetitionDetection(t *testing.T) {
	var is = is.New(t)
	var e = newTestEngine()
	is.NoErr(e.Prepare())
	e.historyKeys = map[uint64]int{}
	var th = &e.threads[0]

	p, err := NewPositionFromFEN("7k/8/8/8/8/8/R7/K7 w - - 0 1")
	is.NoErr(err)
	th.stack[0].position = p
	for i, lan := range []string{"a2b2", "h8g8", "b2a2", "g8h8"} {
		child, ok := th.stack[i].position.MakeMoveLAN(lan)
		if !ok {
			t.Fatalf("bad move %v", lan)
		}
		th.stack[i+1].position = child
	}

	is.True(th.isRepeat(4))  // the rook is back, the king is back
	is.True(!th.isRepeat(3)) // the king is still on g8

	// With the line exhausted, the game history decides.
	is.True(!th.isRepeat(1))
	th.stack[0].position.Rule50 = 10
	th.stack[0].position.LastMove = th.stack[1].position.LastMove
	e.historyKeys[th.stack[1].position.Key] = 2
	is.True(th.isRepeat(1))
}

func TestEngineClear(t *testing.T) {
	var is = is.New(t)
	var e = newTestEngine()
	searchFEN(t, e, InitialPositionFen, LimitsType{Depth: 3})

	var p, _ = NewPositionFromFEN(InitialPositionFen)
	_, _, _, _, ok := e.transTable.Read(p.Key)
	is.True(ok)
	e.Clear()
	_, _, _, _, ok = e.transTable.Read(p.Key)
	is.True(!ok) // ucinewgame forgets the previous game
}

func TestPrepareRejectsBadOptions(t *testing.T) {
	var cases = []struct {
		name   string
		adjust func(o *Options)
	}{
		{"Hash", func(o *Options) { o.Hash = 0 }},
		{"Hash", func(o *Options) { o.Hash = maxHashMegabytes + 1 }},
		{"Threads", func(o *Options) { o.Threads = 0 }},
		{"Threads", func(o *Options) { o.Threads = maxThreads + 1 }},
	}
	for _, c := range cases {
		var e = newTestEngine()
		c.adjust(&e.Options)
		var err = e.Prepare()
		var confErr *ConfigError
		if !errors.As(err, &confErr) {
			t.Fatalf("%v: want ConfigError, got %v", c.name, err)
		}
		if confErr.Option != c.name {
			t.Fatalf("want option %v, got %v", c.name, confErr.Option)
		}
	}
}

func TestPrepareSwitchesTableStrategy(t *testing.T) {
	var is = is.New(t)
	var e = newTestEngine()
	is.NoErr(e.Prepare())
	_, isAtomic := e.transTable.(*atomicTable)
	is.True(isAtomic)

	e.Options.MutexHash = true
	is.NoErr(e.Prepare())
	_, isLock := e.transTable.(*lockTable)
	is.True(isLock)

	// Same options keep the same table.
	var before = e.transTable
	is.NoErr(e.Prepare())
	is.True(e.transTable == before)
}

func TestSearchUsesMutexTable(t *testing.T) {
	var is = is.New(t)
	var e = newTestEngine()
	e.Options.MutexHash = true
	e.Options.Threads = 2
	var result = searchFEN(t, e, InitialPositionFen, LimitsType{Depth: 5})
	is.True(result.Depth >= 5)
	is.True(len(result.MainLine) >= 1)
}
