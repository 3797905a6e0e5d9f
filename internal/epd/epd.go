// Package epd reads Extended Position Description test suites: one position
// per line, four FEN fields followed by opcodes such as bm (best move),
// am (avoid move) and id, each terminated by a semicolon.
package epd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/kestrel-engine/kestrel/pkg/common"
)

type Item struct {
	Content    string
	ID         string
	Position   common.Position
	BestMoves  []common.Move
	AvoidMoves []common.Move
}

// Solved reports whether mv satisfies the item: it must be one of the best
// moves when any are given, otherwise it must not be an avoid move.
func (item *Item) Solved(mv common.Move) bool {
	if len(item.BestMoves) != 0 {
		return containsMove(item.BestMoves, mv)
	}
	return !containsMove(item.AvoidMoves, mv)
}

func containsMove(moves []common.Move, mv common.Move) bool {
	for _, m := range moves {
		if m == mv {
			return true
		}
	}
	return false
}

// Parse decodes a single EPD record. Lines carrying the two optional numeric
// FEN fields before the opcodes are accepted too. Unknown opcodes are
// ignored; a record without bm or am is an error.
func Parse(s string) (Item, error) {
	var fields = strings.Fields(s)
	if len(fields) < 4 {
		return Item{}, fmt.Errorf("epd record too short: %q", s)
	}
	var opsStart = len(fields)
	for i := 4; i < len(fields); i++ {
		if _, err := strconv.Atoi(fields[i]); err != nil {
			opsStart = i
			break
		}
	}

	var pos, err = common.NewPositionFromFEN(strings.Join(fields[:opsStart], " "))
	if err != nil {
		return Item{}, err
	}
	var item = Item{
		Content:  strings.TrimSpace(s),
		Position: pos,
	}

	for _, op := range strings.Split(strings.Join(fields[opsStart:], " "), ";") {
		var parts = strings.Fields(op)
		if len(parts) < 2 {
			continue
		}
		switch parts[0] {
		case "bm":
			item.BestMoves, err = parseSANMoves(&item.Position, parts[1:])
		case "am":
			item.AvoidMoves, err = parseSANMoves(&item.Position, parts[1:])
		case "id":
			item.ID = strings.Trim(strings.Join(parts[1:], " "), "\"")
		}
		if err != nil {
			return Item{}, fmt.Errorf("epd record %q: %w", s, err)
		}
	}
	if len(item.BestMoves) == 0 && len(item.AvoidMoves) == 0 {
		return Item{}, fmt.Errorf("epd record without bm or am: %q", s)
	}
	return item, nil
}

func parseSANMoves(pos *common.Position, sans []string) ([]common.Move, error) {
	var result []common.Move
	for _, san := range sans {
		var mv = common.ParseMoveSAN(pos, san)
		if mv == common.MoveEmpty {
			return nil, fmt.Errorf("illegal move %v", san)
		}
		result = append(result, mv)
	}
	return result, nil
}

// Load reads a suite from filePath. Blank lines and lines starting with #
// are skipped.
func Load(filePath string) ([]Item, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var result []Item
	var scanner = bufio.NewScanner(file)
	var lineNumber = 0
	for scanner.Scan() {
		lineNumber++
		var line = strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		item, err := Parse(line)
		if err != nil {
			return nil, fmt.Errorf("%v:%v: %w", filePath, lineNumber, err)
		}
		result = append(result, item)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
