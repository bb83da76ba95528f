// Package bitset provides a fixed-width bit vector used to represent
// subsets of a universe [0, n).
//
// Storage is delegated to github.com/bits-and-blooms/bitset. Unlike the
// upstream type, a BitSet never grows: its width is fixed by New and
// writes outside [0, Len()) panic.
package bitset

import (
	"fmt"
	"iter"
	"strings"

	bb "github.com/bits-and-blooms/bitset"
)

// BitSet is a bit vector over the universe [0, Len()).
//
// The zero value is an empty BitSet of width zero.
type BitSet struct {
	bits bb.BitSet
}

// New returns a BitSet of width n with no bits set.
func New(n uint) *BitSet {
	return &BitSet{bits: *bb.New(n)}
}

// Full returns a BitSet of width n with every bit set.
func Full(n uint) *BitSet {
	b := New(n)
	for i := uint(0); i < n; i++ {
		b.bits.Set(i)
	}
	return b
}

// Of returns a BitSet of width n with exactly the given bits set.
func Of(n uint, indices ...uint) *BitSet {
	b := New(n)
	for _, i := range indices {
		b.SetTo(i, true)
	}
	return b
}

// Len returns the width of the BitSet.
func (b *BitSet) Len() uint {
	return b.bits.Len()
}

// Test reports whether bit i is set.
func (b *BitSet) Test(i uint) bool {
	return b.bits.Test(i)
}

// SetTo sets bit i to value.
func (b *BitSet) SetTo(i uint, value bool) {
	if i >= b.bits.Len() {
		panic(fmt.Sprintf("bitset: index %d out of range [0, %d)", i, b.bits.Len()))
	}
	b.bits.SetTo(i, value)
}

// Count returns the number of set bits.
func (b *BitSet) Count() uint {
	return b.bits.Count()
}

// Any reports whether at least one bit is set.
func (b *BitSet) Any() bool {
	return b.bits.Any()
}

// IsSubsetOf reports whether every bit set in b is also set in other.
func (b *BitSet) IsSubsetOf(other *BitSet) bool {
	return other.bits.IsSuperSet(&b.bits)
}

// Equal reports whether b and other have the same width and bits.
func (b *BitSet) Equal(other *BitSet) bool {
	return b.bits.Equal(&other.bits)
}

// InPlaceDifference clears every bit of b that is set in other.
func (b *BitSet) InPlaceDifference(other *BitSet) {
	b.bits.InPlaceDifference(&other.bits)
}

// InPlaceUnion sets every bit of b that is set in other.
func (b *BitSet) InPlaceUnion(other *BitSet) {
	b.bits.InPlaceUnion(&other.bits)
}

// Clone returns an independent copy of b.
func (b *BitSet) Clone() *BitSet {
	return &BitSet{bits: *b.bits.Clone()}
}

// Ones iterates over the set bits in ascending order.
func (b *BitSet) Ones() iter.Seq[uint] {
	return func(yield func(uint) bool) {
		for i, ok := b.bits.NextSet(0); ok; i, ok = b.bits.NextSet(i + 1) {
			if !yield(i) {
				return
			}
		}
	}
}

// Slice returns the set bits in ascending order.
func (b *BitSet) Slice() []uint {
	result := make([]uint, 0, b.Count())
	for i := range b.Ones() {
		result = append(result, i)
	}
	return result
}

// String implements fmt.Stringer, e.g. "{0 3 7}".
func (b *BitSet) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	first := true
	for i := range b.Ones() {
		if !first {
			sb.WriteByte(' ')
		}
		first = false
		fmt.Fprintf(&sb, "%d", i)
	}
	sb.WriteByte('}')
	return sb.String()
}
