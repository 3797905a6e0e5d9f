package uci

import (
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/rs/zerolog"

	"github.com/kestrel-engine/kestrel/pkg/common"
	"github.com/kestrel-engine/kestrel/pkg/engine"
	"github.com/kestrel-engine/kestrel/pkg/eval"
)

func newTestProtocol(options ...Option) *Protocol {
	var eng = engine.NewEngine(func() engine.Evaluator {
		return eval.NewEvaluationService()
	}, zerolog.Nop())
	eng.Options.Hash = 4
	return New("Kestrel", "test", "dev", eng, zerolog.Nop(), options)
}

func TestParseLimits(t *testing.T) {
	var is = is.New(t)

	var limits = parseLimits([]string{"depth", "12"})
	is.Equal(limits.Depth, 12)

	limits = parseLimits([]string{"wtime", "300000", "btime", "290000", "winc", "2000", "binc", "1900", "movestogo", "40"})
	is.Equal(limits.WhiteTime, 300000)
	is.Equal(limits.BlackTime, 290000)
	is.Equal(limits.WhiteIncrement, 2000)
	is.Equal(limits.BlackIncrement, 1900)
	is.Equal(limits.MovesToGo, 40)

	limits = parseLimits([]string{"infinite"})
	is.True(limits.Infinite)

	limits = parseLimits([]string{"ponder", "wtime", "60000", "btime", "60000"})
	is.True(limits.Ponder)
	is.Equal(limits.WhiteTime, 60000)

	limits = parseLimits([]string{"movetime", "5000"})
	is.Equal(limits.MoveTime, 5000)

	limits = parseLimits([]string{"nodes", "100000", "mate", "3"})
	is.Equal(limits.Nodes, 100000)
	is.Equal(limits.Mate, 3)

	// A trailing keyword without a value must not panic.
	limits = parseLimits([]string{"wtime"})
	is.Equal(limits.WhiteTime, 0)
}

func lanMoves(t *testing.T, lans ...string) []common.Move {
	t.Helper()
	var result []common.Move
	var p, err = common.NewPositionFromFEN(common.InitialPositionFen)
	if err != nil {
		t.Fatal(err)
	}
	for _, lan := range lans {
		var found = common.MoveEmpty
		for _, m := range p.GenerateLegalMoves() {
			if m.String() == lan {
				found = m
				break
			}
		}
		if found == common.MoveEmpty {
			t.Fatalf("move %v not found", lan)
		}
		result = append(result, found)
		p, _ = p.MakeMoveLAN(lan)
	}
	return result
}

func TestSearchInfoToUci(t *testing.T) {
	var is = is.New(t)

	var si = common.SearchInfo{
		Depth:    8,
		Score:    common.UciScore{Centipawns: 13},
		Nodes:    1500000,
		Time:     2 * time.Second,
		MainLine: lanMoves(t, "e2e4", "e7e5"),
	}
	is.Equal(searchInfoToUci(si), "info depth 8 score cp 13 nodes 1500000 time 2000 nps 749625 pv e2e4 e7e5")

	si = common.SearchInfo{
		Depth: 20,
		Score: common.UciScore{Mate: -3},
		Nodes: 100,
		Time:  time.Millisecond,
	}
	is.Equal(searchInfoToUci(si), "info depth 20 score mate -3 nodes 100 time 1 nps 50000")
}

func TestSetOptionCommand(t *testing.T) {
	var is = is.New(t)
	var hash = 16
	var ponder = false
	var cleared = false
	var uci = newTestProtocol(
		&IntOption{Name: "Hash", Min: 1, Max: 1024, Value: &hash},
		&BoolOption{Name: "Ponder", Value: &ponder},
		&ButtonOption{Name: "Clear Hash", Action: func() { cleared = true }},
	)

	is.NoErr(uci.handle("setoption name Hash value 64"))
	is.Equal(hash, 64)

	is.NoErr(uci.handle("setoption name Ponder value true"))
	is.True(ponder)

	// Names are matched case-insensitively and may contain spaces.
	is.NoErr(uci.handle("setoption name clear hash"))
	is.True(cleared)

	is.True(uci.handle("setoption name Hash value 9999") != nil)
	is.Equal(hash, 64)
	is.True(uci.handle("setoption name Nonsense value 1") != nil)
	is.True(uci.handle("setoption Hash 64") != nil)
}

func TestOptionUciStrings(t *testing.T) {
	var is = is.New(t)
	var hash = 16
	var ponder = false

	var intOpt = &IntOption{Name: "Hash", Min: 1, Max: 1024, Value: &hash}
	is.Equal(intOpt.UciString(), "option name Hash type spin default 16 min 1 max 1024")

	var boolOpt = &BoolOption{Name: "Ponder", Value: &ponder}
	is.Equal(boolOpt.UciString(), "option name Ponder type check default false")

	var button = &ButtonOption{Name: "Clear Hash", Action: func() {}}
	is.Equal(button.UciString(), "option name Clear Hash type button")

	is.True(intOpt.Set("notanumber") != nil)
	is.True(boolOpt.Set("maybe") != nil)
}

func TestPositionCommand(t *testing.T) {
	var is = is.New(t)
	var uci = newTestProtocol()

	is.NoErr(uci.handle("position startpos"))
	is.Equal(len(uci.positions), 1)

	is.NoErr(uci.handle("position startpos moves e2e4 e7e5 g1f3"))
	is.Equal(len(uci.positions), 4)
	is.True(!uci.positions[3].WhiteMove)

	var kiwipete = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"
	is.NoErr(uci.handle("position fen " + kiwipete))
	is.Equal(len(uci.positions), 1)
	is.NoErr(uci.handle("position fen " + kiwipete + " moves e2a6 b4c3"))
	is.Equal(len(uci.positions), 3)

	is.True(uci.handle("position whatever") != nil)
	is.True(uci.handle("position startpos moves e2e5") != nil)
	is.True(uci.handle("position fen not a fen") != nil)
}

func TestGoAndStop(t *testing.T) {
	var is = is.New(t)
	var uci = newTestProtocol()

	is.NoErr(uci.handle("position startpos"))
	is.NoErr(uci.handle("go depth 2"))
	is.True(uci.search != nil)

	// While a search runs, only stop, ponderhit and isready are accepted.
	is.True(uci.handle("go depth 1") != nil)
	is.True(uci.handle("position startpos") != nil)
	is.NoErr(uci.handle("stop"))

	var result = uci.search.Wait()
	is.True(result.Depth >= 1)
	is.True(len(result.MainLine) >= 1)
}
