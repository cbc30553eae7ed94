// Package cmap implements the concurrent int64 map the visitation
// benchmark runs against: a fixed set of RWMutex-guarded shards backed by
// swiss-table maps, with single-key and bulk visitation.
package cmap

import (
	"sync"

	"github.com/cockroachdb/swiss"
)

const (
	shardCount = 64
	shardMask  = shardCount - 1

	// bulkSize is the preferred number of keys per BulkVisit call.
	// Shard-index computation and lock acquisition are amortized across
	// a group of this size.
	bulkSize = 16
)

type shard struct {
	mu sync.RWMutex
	m  *swiss.Map[int64, int64]
}

// Map is a thread-safe associative mapping from int64 keys to int64 values.
type Map struct {
	shards [shardCount]shard
}

// New creates a Map with capacity reserved for about n entries.
func New(n int) *Map {
	perShard := n / shardCount
	if perShard < 1 {
		perShard = 1
	}

	m := &Map{}
	for i := range m.shards {
		m.shards[i].m = swiss.New[int64, int64](perShard)
	}

	return m
}

// shardIndex mixes the key before taking the low bits, so sequential
// keys spread across shards. The mixer is the splitmix64 finalizer.
func shardIndex(key int64) uint64 {
	z := uint64(key)
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb

	return (z ^ (z >> 31)) & shardMask
}

// Put inserts or replaces the value for key.
func (m *Map) Put(key, val int64) {
	s := &m.shards[shardIndex(key)]

	s.mu.Lock()
	s.m.Put(key, val)
	s.mu.Unlock()
}

// Len returns the total number of entries.
func (m *Map) Len() int {
	n := 0

	for i := range m.shards {
		s := &m.shards[i]
		s.mu.RLock()
		n += s.m.Len()
		s.mu.RUnlock()
	}

	return n
}

// Visit invokes fn with the value stored under key, if present.
// It returns the number of keys found (0 or 1).
func (m *Map) Visit(key int64, fn func(val int64)) int {
	s := &m.shards[shardIndex(key)]

	s.mu.RLock()
	val, ok := s.m.Get(key)
	s.mu.RUnlock()

	if !ok {
		return 0
	}

	fn(val)

	return 1
}

// BulkVisit invokes fn once per present key in keys and returns the
// number of keys found. Keys are processed in groups of BulkSize():
// shard indexes for a whole group are computed up front and a shard's
// read lock is held across consecutive keys that land in it. fn runs
// with a shard read lock held and must not call back into the Map.
func (m *Map) BulkVisit(keys []int64, fn func(val int64)) int {
	found := 0

	for len(keys) > 0 {
		group := keys
		if len(group) > bulkSize {
			group = group[:bulkSize]
		}

		found += m.visitGroup(group, fn)
		keys = keys[len(group):]
	}

	return found
}

func (m *Map) visitGroup(group []int64, fn func(val int64)) int {
	var idx [bulkSize]uint64
	for i, key := range group {
		idx[i] = shardIndex(key)
	}

	found := 0
	held := uint64(shardCount) // no lock held yet

	for i, key := range group {
		if idx[i] != held {
			if held < shardCount {
				m.shards[held].mu.RUnlock()
			}

			held = idx[i]
			m.shards[held].mu.RLock()
		}

		if val, ok := m.shards[held].m.Get(key); ok {
			fn(val)

			found++
		}
	}

	if held < shardCount {
		m.shards[held].mu.RUnlock()
	}

	return found
}

// BulkSize reports the preferred number of keys per BulkVisit call.
func (*Map) BulkSize() int { return bulkSize }
