package engine

import (
	"sync"

	. "github.com/kestrel-engine/kestrel/pkg/common"
)

type lockEntry struct {
	key   uint64
	move  Move
	score int16
	depth int8
	bound uint8
	date  uint16
}

type lockBucket struct {
	deep   lockEntry
	always lockEntry
}

// lockTable guards the whole table with one mutex. Correct under any thread
// count, contends under many. bound==0 marks an empty slot.
type lockTable struct {
	mu        sync.Mutex
	megabytes int
	buckets   []lockBucket
	date      uint16
	mask      uint64
}

func newLockTable(megabytes int) *lockTable {
	var t = &lockTable{}
	t.Resize(megabytes)
	return t
}

func (t *lockTable) Megabytes() int {
	return t.megabytes
}

func (t *lockTable) Size() int {
	return 2 * len(t.buckets)
}

func (t *lockTable) Resize(megabytes int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	var buckets = roundPowerOfTwo(1024 * 1024 * megabytes / 32)
	t.megabytes = megabytes
	t.buckets = make([]lockBucket, buckets)
	t.mask = uint64(buckets - 1)
	t.date = 0
}

func (t *lockTable) IncDate() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.date = (t.date + 1) & entryDateMask
}

func (t *lockTable) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.date = 0
	for i := range t.buckets {
		t.buckets[i] = lockBucket{}
	}
}

func (t *lockTable) Read(key uint64) (depth, score, bound int, move Move, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	var b = &t.buckets[key&t.mask]
	for _, entry := range [2]*lockEntry{&b.deep, &b.always} {
		if entry.bound == 0 || entry.key != key {
			continue
		}
		entry.date = t.date
		return int(entry.depth), int(entry.score), int(entry.bound), entry.move, true
	}
	return
}

func (t *lockTable) Update(key uint64, depth, score, bound int, move Move) {
	t.mu.Lock()
	defer t.mu.Unlock()
	var b = &t.buckets[key&t.mask]
	var target = &b.deep
	if !(target.bound == 0 ||
		target.key == key ||
		target.date != t.date ||
		int(target.depth) < depth) {
		target = &b.always
	}
	*target = lockEntry{
		key:   key,
		move:  move,
		score: int16(score),
		depth: int8(depth),
		bound: uint8(bound),
		date:  t.date,
	}
}
