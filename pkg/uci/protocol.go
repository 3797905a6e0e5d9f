package uci

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/kestrel-engine/kestrel/pkg/common"
	"github.com/kestrel-engine/kestrel/pkg/engine"
)

var (
	errUnknownCommand = errors.New("unknown command")
	errSearchBusy     = errors.New("search is running")
)

// Protocol speaks UCI on stdin and stdout. Commands run on one goroutine;
// search output is drained from the running search's result stream, so the
// engine never blocks on a slow GUI.
type Protocol struct {
	name      string
	author    string
	version   string
	options   []Option
	engine    *engine.Engine
	log       zerolog.Logger
	positions []common.Position
	search    *engine.Search
}

func New(name, author, version string, eng *engine.Engine, logger zerolog.Logger, options []Option) *Protocol {
	var startpos, err = common.NewPositionFromFEN(common.InitialPositionFen)
	if err != nil {
		panic(err)
	}
	return &Protocol{
		name:      name,
		author:    author,
		version:   version,
		engine:    eng,
		log:       logger,
		options:   options,
		positions: []common.Position{startpos},
	}
}

func (uci *Protocol) Run() {
	var lines = make(chan string)

	go func() {
		defer close(lines)
		readInput(lines)
	}()

	var lastResult common.SearchInfo
	for {
		var output <-chan common.SearchInfo
		if uci.search != nil {
			output = uci.search.Results()
		}
		select {
		case si, ok := <-output:
			if ok {
				fmt.Println(searchInfoToUci(si))
				lastResult = si
			} else {
				uci.printBestMove(lastResult)
				uci.search = nil
				lastResult = common.SearchInfo{}
			}
		case line, ok := <-lines:
			if !ok {
				// quit: wind down any running search before exiting
				if uci.search != nil {
					uci.search.Stop()
					uci.search.Wait()
				}
				return
			}
			if err := uci.handle(line); err != nil {
				uci.log.Error().Err(err).Str("command", line).Msg("command failed")
				fmt.Println("info string", err)
			}
		}
	}
}

func readInput(lines chan<- string) {
	var scanner = bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		var line = scanner.Text()
		if line == "quit" {
			return
		}
		if line != "" {
			lines <- line
		}
	}
}

func (uci *Protocol) printBestMove(si common.SearchInfo) {
	if len(si.MainLine) == 0 {
		fmt.Println("bestmove (none)")
		return
	}
	if uci.engine.Options.Ponder && len(si.MainLine) >= 2 {
		fmt.Printf("bestmove %v ponder %v\n", si.MainLine[0], si.MainLine[1])
		return
	}
	fmt.Printf("bestmove %v\n", si.MainLine[0])
}

func (uci *Protocol) handle(line string) error {
	var tokens = strings.Fields(line)
	if len(tokens) == 0 {
		return nil
	}
	var name, args = tokens[0], tokens[1:]

	if uci.search != nil {
		switch name {
		case "stop":
			uci.search.Stop()
			return nil
		case "ponderhit":
			uci.search.PonderHit()
			return nil
		case "isready":
			fmt.Println("readyok")
			return nil
		}
		return errSearchBusy
	}

	switch name {
	case "uci":
		return uci.uciCommand(args)
	case "debug":
		return uci.debugCommand(args)
	case "setoption":
		return uci.setOptionCommand(args)
	case "isready":
		return uci.isReadyCommand(args)
	case "position":
		return uci.positionCommand(args)
	case "go":
		return uci.goCommand(args)
	case "ucinewgame":
		return uci.uciNewGameCommand(args)
	case "ponderhit":
		return uci.ponderhitCommand(args)
	}
	return errUnknownCommand
}

func (uci *Protocol) uciCommand(args []string) error {
	fmt.Printf("id name %s %s\n", uci.name, uci.version)
	fmt.Printf("id author %s\n", uci.author)
	for _, option := range uci.options {
		fmt.Println(option.UciString())
	}
	fmt.Println("uciok")
	return nil
}

func (uci *Protocol) debugCommand(args []string) error {
	if len(args) == 1 && args[0] == "on" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		return nil
	}
	if len(args) == 1 && args[0] == "off" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		return nil
	}
	return errors.New("debug expects on or off")
}

func (uci *Protocol) setOptionCommand(args []string) error {
	if len(args) == 0 || args[0] != "name" {
		return errors.New("setoption expects a name")
	}
	// Option names may contain spaces, as in "Clear Hash".
	var name, value string
	if valueAt := tokenIndex(args, "value"); valueAt >= 0 {
		name = strings.Join(args[1:valueAt], " ")
		value = strings.Join(args[valueAt+1:], " ")
	} else {
		name = strings.Join(args[1:], " ")
	}
	for _, option := range uci.options {
		if strings.EqualFold(option.UciName(), name) {
			return option.Set(value)
		}
	}
	return fmt.Errorf("no such option %q", name)
}

func (uci *Protocol) isReadyCommand(args []string) error {
	if err := uci.engine.Prepare(); err != nil {
		return err
	}
	fmt.Println("readyok")
	return nil
}

func (uci *Protocol) positionCommand(args []string) error {
	if len(args) == 0 {
		return errors.New("position expects startpos or fen")
	}
	var moveTokens []string
	if movesAt := tokenIndex(args, "moves"); movesAt >= 0 {
		moveTokens = args[movesAt+1:]
		args = args[:movesAt]
	}

	var fen string
	switch args[0] {
	case "startpos":
		fen = common.InitialPositionFen
	case "fen":
		fen = strings.Join(args[1:], " ")
	default:
		return errors.New("position expects startpos or fen")
	}
	var p, err = common.NewPositionFromFEN(fen)
	if err != nil {
		return err
	}

	var positions = []common.Position{p}
	for _, lan := range moveTokens {
		var next, ok = positions[len(positions)-1].MakeMoveLAN(lan)
		if !ok {
			return fmt.Errorf("illegal move %v", lan)
		}
		positions = append(positions, next)
	}
	uci.positions = positions
	return nil
}

func (uci *Protocol) goCommand(args []string) error {
	var limits = parseLimits(args)
	var search, err = uci.engine.StartSearch(context.Background(), common.SearchParams{
		Positions: uci.positions,
		Limits:    limits,
	})
	if err != nil {
		return err
	}
	uci.log.Debug().Str("search_id", search.ID()).Msg("go")
	uci.search = search
	return nil
}

func (uci *Protocol) uciNewGameCommand(args []string) error {
	uci.engine.Clear()
	return nil
}

func (uci *Protocol) ponderhitCommand(args []string) error {
	return errors.New("no search to ponder on")
}

func searchInfoToUci(si common.SearchInfo) string {
	var timeMs = si.Time.Milliseconds()
	var nps = si.Nodes * 1000 / (timeMs + 1)

	var parts = []string{"info depth", strconv.Itoa(si.Depth)}
	if si.Score.Mate != 0 {
		parts = append(parts, "score mate", strconv.Itoa(si.Score.Mate))
	} else {
		parts = append(parts, "score cp", strconv.Itoa(si.Score.Centipawns))
	}
	parts = append(parts,
		"nodes", strconv.FormatInt(si.Nodes, 10),
		"time", strconv.FormatInt(timeMs, 10),
		"nps", strconv.FormatInt(nps, 10))
	if len(si.MainLine) != 0 {
		parts = append(parts, "pv")
		for _, move := range si.MainLine {
			parts = append(parts, move.String())
		}
	}
	return strings.Join(parts, " ")
}

// parseLimits reads the go arguments in one pass. Keywords missing their
// value read as zero, matching a GUI that sends a bare keyword.
func parseLimits(args []string) (result common.LimitsType) {
	var i = 0
	var intArg = func() int {
		i++
		if i >= len(args) {
			return 0
		}
		var v, _ = strconv.Atoi(args[i])
		return v
	}
	for ; i < len(args); i++ {
		switch args[i] {
		case "ponder":
			result.Ponder = true
		case "infinite":
			result.Infinite = true
		case "wtime":
			result.WhiteTime = intArg()
		case "btime":
			result.BlackTime = intArg()
		case "winc":
			result.WhiteIncrement = intArg()
		case "binc":
			result.BlackIncrement = intArg()
		case "movestogo":
			result.MovesToGo = intArg()
		case "depth":
			result.Depth = intArg()
		case "nodes":
			result.Nodes = intArg()
		case "mate":
			result.Mate = intArg()
		case "movetime":
			result.MoveTime = intArg()
		}
	}
	return
}

func tokenIndex(tokens []string, needle string) int {
	for i, token := range tokens {
		if token == needle {
			return i
		}
	}
	return -1
}
