package engine

import (
	"sync/atomic"

	. "github.com/kestrel-engine/kestrel/pkg/common"
)

const (
	boundLower = 1 << iota
	boundUpper
)

const boundExact = boundLower | boundUpper

// TransTable is a fixed-capacity shared cache of search results keyed by
// position hash. Each bucket holds a depth-preferred slot and an
// always-replace slot so deep entries survive shallow churn. Probes and
// stores never fail; a key mismatch or a torn read is a miss.
type TransTable interface {
	Megabytes() int
	Size() int
	IncDate()
	Clear()
	Resize(megabytes int)
	Read(key uint64) (depth, score, bound int, move Move, ok bool)
	Update(key uint64, depth, score, bound int, move Move)
}

func newTransTable(megabytes int, mutex bool) TransTable {
	if mutex {
		return newLockTable(megabytes)
	}
	return newAtomicTable(megabytes)
}

func roundPowerOfTwo(size int) int {
	var x = 1
	for (x << 1) <= size {
		x <<= 1
	}
	return x
}

// Entry data is packed into one word so a slot is a pair of uint64s accessed
// with plain atomic loads and stores. The second word holds key^data; a read
// that mixes words from two racing writers fails the xor test and misses.
const (
	entryMoveBits  = 21
	entryScoreBits = 16
	entryDepthBits = 8
	entryBoundBits = 2

	entryScoreShift = entryMoveBits
	entryDepthShift = entryScoreShift + entryScoreBits
	entryBoundShift = entryDepthShift + entryDepthBits
	entryDateShift  = entryBoundShift + entryBoundBits

	entryDateMask = 0x7ff
)

func packEntry(move Move, score, depth, bound int, date uint64) uint64 {
	return uint64(move)&(1<<entryMoveBits-1) |
		uint64(uint16(int16(score)))<<entryScoreShift |
		uint64(uint8(depth))<<entryDepthShift |
		uint64(bound)<<entryBoundShift |
		date<<entryDateShift
}

func entryMove(data uint64) Move {
	return Move(data & (1<<entryMoveBits - 1))
}

func entryScore(data uint64) int {
	return int(int16(uint16(data >> entryScoreShift)))
}

func entryDepth(data uint64) int {
	return int(uint8(data >> entryDepthShift))
}

func entryBound(data uint64) int {
	return int(data >> entryBoundShift & (1<<entryBoundBits - 1))
}

func entryDate(data uint64) uint64 {
	return data >> entryDateShift & entryDateMask
}

type atomicEntry struct {
	data  uint64
	check uint64
}

// A bucket is two adjacent entries: the depth-preferred slot first, the
// always-replace slot second. 32 bytes per bucket.
type atomicTable struct {
	megabytes int
	entries   []atomicEntry
	date      uint64
	mask      uint64
}

func newAtomicTable(megabytes int) *atomicTable {
	var t = &atomicTable{}
	t.Resize(megabytes)
	return t
}

func (t *atomicTable) Megabytes() int {
	return t.megabytes
}

func (t *atomicTable) Size() int {
	return len(t.entries)
}

func (t *atomicTable) Resize(megabytes int) {
	var buckets = roundPowerOfTwo(1024 * 1024 * megabytes / 32)
	t.megabytes = megabytes
	t.entries = make([]atomicEntry, 2*buckets)
	t.mask = uint64(buckets - 1)
	t.date = 0
}

func (t *atomicTable) IncDate() {
	t.date = (t.date + 1) & entryDateMask
}

func (t *atomicTable) Clear() {
	t.date = 0
	for i := range t.entries {
		t.entries[i] = atomicEntry{}
	}
}

func (t *atomicTable) Read(key uint64) (depth, score, bound int, move Move, ok bool) {
	var base = (key & t.mask) * 2
	for i := base; i < base+2; i++ {
		var entry = &t.entries[i]
		var data = atomic.LoadUint64(&entry.data)
		if data == 0 || atomic.LoadUint64(&entry.check)^data != key {
			continue
		}
		if entryDate(data) != t.date {
			data = data&^(entryDateMask<<entryDateShift) | t.date<<entryDateShift
			atomic.StoreUint64(&entry.data, data)
			atomic.StoreUint64(&entry.check, key^data)
		}
		return entryDepth(data), entryScore(data), entryBound(data), entryMove(data), true
	}
	return
}

func (t *atomicTable) Update(key uint64, depth, score, bound int, move Move) {
	var base = (key & t.mask) * 2
	var target = &t.entries[base]
	var data = atomic.LoadUint64(&target.data)
	if !(data == 0 ||
		atomic.LoadUint64(&target.check)^data == key ||
		entryDate(data) != t.date ||
		entryDepth(data) < depth) {
		target = &t.entries[base+1]
	}
	data = packEntry(move, score, depth, bound, t.date)
	atomic.StoreUint64(&target.data, data)
	atomic.StoreUint64(&target.check, key^data)
}
