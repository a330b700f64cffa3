// Package registry maps half-open address ranges to type information.
// Ranges may nest and overlap freely.
package registry

import (
	"fmt"

	"github.com/google/btree"
)

// Range is the half-open interval [Start, End).
type Range struct {
	Start, End uint64
}

func (r Range) Contains(addr uint64) bool {
	return r.Start <= addr && addr < r.End
}

func (r Range) String() string {
	return fmt.Sprintf("0x%x-0x%x", r.Start, r.End)
}

type entry struct {
	end  uint64
	info TypeInfo
}

// bucket holds every entry sharing a start address, in insertion order.
type bucket struct {
	start   uint64
	entries []entry
}

func bucketLess(a, b *bucket) bool {
	return a.start < b.start
}

// TypeRegistry is not safe for concurrent use.
type TypeRegistry struct {
	lookup *btree.BTreeG[*bucket]
	count  int
}

func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{lookup: btree.NewG[*bucket](32, bucketLess)}
}

// Insert records info for r. Duplicate and overlapping ranges are kept.
func (t *TypeRegistry) Insert(r Range, info TypeInfo) {
	b, ok := t.lookup.Get(&bucket{start: r.Start})
	if !ok {
		b = &bucket{start: r.Start}
		t.lookup.ReplaceOrInsert(b)
	}
	b.entries = append(b.entries, entry{end: r.End, info: info})
	t.count++
}

// Lookup returns every type whose range contains addr, ordered by range
// start and then by insertion.
func (t *TypeRegistry) Lookup(addr uint64) []TypeInfo {
	var results []TypeInfo
	// only ranges starting at or below addr can contain it
	t.lookup.Ascend(func(b *bucket) bool {
		if b.start > addr {
			return false
		}
		for _, e := range b.entries {
			if addr < e.end {
				results = append(results, e.info)
			}
		}
		return true
	})
	return results
}

// Len is the number of inserted entries.
func (t *TypeRegistry) Len() int {
	return t.count
}

// Walk calls fn for every entry in start order until fn returns false.
func (t *TypeRegistry) Walk(fn func(r Range, info TypeInfo) bool) {
	t.lookup.Ascend(func(b *bucket) bool {
		for _, e := range b.entries {
			if !fn(Range{b.start, e.end}, e.info) {
				return false
			}
		}
		return true
	})
}
