// Package visitor defines the two access patterns the benchmark compares:
// one container lookup per generated key, and lookups batched into
// bulk-sized groups. Both patterns expose the same consume/flush contract,
// so the driver is indifferent to which one it is running.
package visitor

import (
	"github.com/weiihann/visitbench/keygen"
)

// Map is the container contract the visitors run against.
type Map interface {
	// Visit invokes fn with the value under key, if present, and
	// returns the number of keys found (0 or 1).
	Visit(key int64, fn func(val int64)) int
	// BulkVisit invokes fn once per present key and returns the
	// number of keys found.
	BulkVisit(keys []int64, fn func(val int64)) int
	// BulkSize reports the container's preferred bulk batch size.
	BulkSize() int
}

// Visitor consumes generated keys against a Map. Consume handles one key;
// Flush submits any pending work. Hits reports the running count of keys
// found, which the harness folds into its result so the lookups are
// observably used.
type Visitor interface {
	Consume(gen *keygen.Generator)
	Flush()
	Hits() int
	Name() string
}

// Regular issues one single-key visit per consumed key.
type Regular struct {
	m    Map
	hits int
}

// NewRegular creates a Regular visitor bound to m.
func NewRegular(m Map) *Regular {
	return &Regular{m: m}
}

// Consume draws one key and visits it immediately.
func (r *Regular) Consume(gen *keygen.Generator) {
	r.hits += r.m.Visit(gen.Key(), func(int64) {})
}

// Flush is a no-op: nothing is buffered.
func (*Regular) Flush() {}

// Hits returns the number of keys found so far.
func (r *Regular) Hits() int { return r.hits }

// Name returns the pattern name used in report headers.
func (*Regular) Name() string { return "regular" }

// Bulk accumulates consumed keys into a buffer of the container's
// preferred bulk size and submits each full buffer as one bulk visit.
type Bulk struct {
	m    Map
	keys []int64
	fill int
	hits int
}

// NewBulk creates a Bulk visitor bound to m, with its buffer sized to
// m.BulkSize().
func NewBulk(m Map) *Bulk {
	return &Bulk{
		m:    m,
		keys: make([]int64, m.BulkSize()),
	}
}

// Consume draws one key into the buffer, flushing when it fills.
func (b *Bulk) Consume(gen *keygen.Generator) {
	b.keys[b.fill] = gen.Key()
	b.fill++

	if b.fill == len(b.keys) {
		b.Flush()
	}
}

// Flush submits the buffered keys, if any, as one bulk visit and
// resets the buffer. Flushing an empty buffer is a no-op, so a manual
// Flush right after an automatic one is harmless.
func (b *Bulk) Flush() {
	if b.fill == 0 {
		return
	}

	b.hits += b.m.BulkVisit(b.keys[:b.fill], func(int64) {})
	b.fill = 0
}

// Hits returns the number of keys found so far.
func (b *Bulk) Hits() int { return b.hits }

// Name returns the pattern name used in report headers.
func (*Bulk) Name() string { return "bulk" }
