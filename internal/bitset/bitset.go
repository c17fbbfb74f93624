// Package bitset implements the fixed-capacity word sets used to hold a
// cell's remaining pattern ids. Bit i of word i/64 represents id i.
package bitset

import (
	"math/bits"
	"strconv"
	"strings"
)

const wordBits = 64

// Set is a set of non-negative integers below the capacity it was created with.
// The zero value is an empty set of capacity zero.
type Set []uint64

// New returns an empty set able to hold ids in [0, n).
func New(n int) Set {
	return make(Set, words(n))
}

// Full returns a set containing every id in [0, n).
func Full(n int) Set {
	s := New(n)
	for i := range s {
		s[i] = ^uint64(0)
	}
	if rem := n % wordBits; rem != 0 {
		s[len(s)-1] = (uint64(1) << uint(rem)) - 1
	}
	return s
}

// Of returns a set of capacity n holding the given ids.
func Of(n int, ids ...int) Set {
	s := New(n)
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

func words(n int) int {
	return (n + wordBits - 1) / wordBits
}

// Has reports whether id is in the set. Out-of-range ids are never present.
func (s Set) Has(id int) bool {
	w := id / wordBits
	if id < 0 || w >= len(s) {
		return false
	}
	return s[w]&(uint64(1)<<uint(id%wordBits)) != 0
}

// Add inserts id. It panics if id is outside the set's capacity.
func (s Set) Add(id int) {
	s[id/wordBits] |= uint64(1) << uint(id%wordBits)
}

// Remove deletes id if present.
func (s Set) Remove(id int) {
	w := id / wordBits
	if id < 0 || w >= len(s) {
		return
	}
	s[w] &^= uint64(1) << uint(id%wordBits)
}

// Count returns the number of ids in the set.
func (s Set) Count() int {
	n := 0
	for _, w := range s {
		n += bits.OnesCount64(w)
	}
	return n
}

// Empty reports whether the set holds no ids.
func (s Set) Empty() bool {
	for _, w := range s {
		if w != 0 {
			return false
		}
	}
	return true
}

// First returns the smallest id in the set, or -1 when empty.
func (s Set) First() int {
	for i, w := range s {
		if w != 0 {
			return i*wordBits + bits.TrailingZeros64(w)
		}
	}
	return -1
}

// Clear removes every id.
func (s Set) Clear() {
	for i := range s {
		s[i] = 0
	}
}

// Clone returns an independent copy.
func (s Set) Clone() Set {
	c := make(Set, len(s))
	copy(c, s)
	return c
}

// CopyFrom overwrites s with the contents of o. Both must share capacity.
func (s Set) CopyFrom(o Set) {
	copy(s, o)
}

// Union adds every id of o to s.
func (s Set) Union(o Set) {
	for i := range s {
		s[i] |= o[i]
	}
}

// Intersect keeps only the ids also in o and reports whether s changed.
func (s Set) Intersect(o Set) bool {
	changed := false
	for i, w := range s {
		nw := w & o[i]
		if nw != w {
			s[i] = nw
			changed = true
		}
	}
	return changed
}

// Equal reports whether both sets hold the same ids.
func (s Set) Equal(o Set) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		if s[i] != o[i] {
			return false
		}
	}
	return true
}

// SubsetOf reports whether every id of s is also in o.
func (s Set) SubsetOf(o Set) bool {
	for i, w := range s {
		if w&^o[i] != 0 {
			return false
		}
	}
	return true
}

// ForEach calls fn for each id in ascending order.
func (s Set) ForEach(fn func(id int)) {
	for i, w := range s {
		for w != 0 {
			b := bits.TrailingZeros64(w)
			w &^= uint64(1) << uint(b)
			fn(i*wordBits + b)
		}
	}
}

// ForEachRemoved calls fn, in ascending order, for each id present in s
// but absent from keep. Neither set is modified.
func (s Set) ForEachRemoved(keep Set, fn func(id int)) {
	for i, w := range s {
		gone := w &^ keep[i]
		for gone != 0 {
			b := bits.TrailingZeros64(gone)
			gone &^= uint64(1) << uint(b)
			fn(i*wordBits + b)
		}
	}
}

// AppendTo appends the ids in ascending order to dst and returns it.
func (s Set) AppendTo(dst []int) []int {
	s.ForEach(func(id int) { dst = append(dst, id) })
	return dst
}

// String formats the set as {a b c}.
func (s Set) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	first := true
	s.ForEach(func(id int) {
		if !first {
			sb.WriteByte(' ')
		}
		first = false
		sb.WriteString(strconv.Itoa(id))
	})
	sb.WriteByte('}')
	return sb.String()
}
