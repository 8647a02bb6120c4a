package table

import (
	"iter"
	"slices"

	"github.com/dolthub/swiss"

	"github.com/arloliu/brc/internal/hash"
)

// DefaultCapacity is the number of distinct keys a table is sized for when
// no capacity hint is given.
const DefaultCapacity = 1024

// maxCapacityHint bounds the up-front allocation requested through New.
const maxCapacityHint = 1 << 20

const noNext = -1

type entry struct {
	key   string
	hash  uint64
	next  int32 // next entry with the same hash, or noNext
	stats Stats
}

// Table is the aggregation table: it maps each distinct key to the Stats of
// the measurements recorded for it.
//
// Keys are compared as raw bytes. The swiss index maps the xxHash64 of a key
// to the first entry with that hash; entries with colliding hashes are
// chained through entry.next, so distinct keys never share Stats.
//
// A Table is not safe for concurrent use. It is owned by a single goroutine
// at a time and handed off, never shared.
type Table struct {
	index   *swiss.Map[uint64, int32]
	entries []entry
	count   int64
}

// New creates an empty table sized for about capacity distinct keys.
// A non-positive capacity selects DefaultCapacity.
func New(capacity int) *Table {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	capacity = min(capacity, maxCapacityHint)

	return &Table{
		index:   swiss.NewMap[uint64, int32](uint32(capacity)), //nolint:gosec
		entries: make([]entry, 0, capacity),
	}
}

// Add records measurement v for key. The key bytes are copied on first insert,
// so callers may reuse the slice.
func (t *Table) Add(key []byte, v float64) {
	h := hash.Bytes(key)
	t.count++

	head, ok := t.index.Get(h)
	if ok {
		for i := head; i != noNext; i = t.entries[i].next {
			e := &t.entries[i]
			if e.key == string(key) {
				e.stats.Add(v)
				return
			}
		}
	} else {
		head = noNext
	}

	t.insert(h, string(key), head, NewStats(v))
}

// AddStats merges s into the record of key. A zero s is ignored.
func (t *Table) AddStats(key string, s Stats) {
	if s.Count == 0 {
		return
	}
	t.mergeEntry(hash.String(key), key, s)
}

func (t *Table) mergeEntry(h uint64, key string, s Stats) {
	t.count += s.Count

	head, ok := t.index.Get(h)
	if ok {
		for i := head; i != noNext; i = t.entries[i].next {
			e := &t.entries[i]
			if e.key == key {
				e.stats = e.stats.Merge(s)
				return
			}
		}
	} else {
		head = noNext
	}

	t.insert(h, key, head, s)
}

func (t *Table) insert(h uint64, key string, next int32, s Stats) {
	idx := int32(len(t.entries)) //nolint:gosec
	t.entries = append(t.entries, entry{key: key, hash: h, next: next, stats: s})
	t.index.Put(h, idx)
}

// Get returns the Stats of key and whether the key is present.
func (t *Table) Get(key string) (Stats, bool) {
	i, ok := t.lookup(hash.String(key), key)
	if !ok {
		return Stats{}, false
	}

	return t.entries[i].stats, true
}

func (t *Table) lookup(h uint64, key string) (int32, bool) {
	head, ok := t.index.Get(h)
	if !ok {
		return 0, false
	}
	for i := head; i != noNext; i = t.entries[i].next {
		if t.entries[i].key == key {
			return i, true
		}
	}

	return 0, false
}

// Len returns the number of distinct keys.
func (t *Table) Len() int {
	return len(t.entries)
}

// Count returns the total number of measurements recorded across all keys.
func (t *Table) Count() int64 {
	return t.count
}

// All iterates over every key and its Stats. The order is unspecified.
func (t *Table) All() iter.Seq2[string, Stats] {
	return func(yield func(string, Stats) bool) {
		for i := range t.entries {
			if !yield(t.entries[i].key, t.entries[i].stats) {
				return
			}
		}
	}
}

// Keys returns the keys in iteration order.
func (t *Table) Keys() []string {
	keys := make([]string, len(t.entries))
	for i := range t.entries {
		keys[i] = t.entries[i].key
	}

	return keys
}

// SortedKeys returns the keys sorted by their raw bytes.
func (t *Table) SortedKeys() []string {
	keys := t.Keys()
	slices.Sort(keys)

	return keys
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	c := New(len(t.entries))
	for i := range t.entries {
		e := &t.entries[i]
		c.mergeEntry(e.hash, e.key, e.stats)
	}

	return c
}
