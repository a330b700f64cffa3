package models

import (
	"cmp"
	"fmt"

	"golang.org/x/exp/constraints"
	"golang.org/x/exp/slices"
)

// Address is the width of a target's address space.
type Address interface {
	~uint16 | ~uint32 | ~uint64
}

// SatAdd returns a+b, clamped to the maximum value of A instead of wrapping.
func SatAdd[A constraints.Unsigned](a, b A) A {
	s := a + b
	if s < a {
		return ^A(0)
	}
	return s
}

// Segment is a contiguous virtual address range. Off is the file offset
// of the initial contents, and is zero for PROT_UNINIT segments.
type Segment[A Address] struct {
	Addr, Size A
	Off        A
	Prot       Prot
}

func (s Segment[A]) End() A {
	return SatAdd(s.Addr, s.Size)
}

func (s Segment[A]) Contains(addr A) bool {
	return s.Addr <= addr && addr < s.End()
}

// Widen converts the segment into a 64-bit address space.
func (s Segment[A]) Widen() Segment[uint64] {
	return Segment[uint64]{
		Addr: uint64(s.Addr),
		Size: uint64(s.Size),
		Off:  uint64(s.Off),
		Prot: s.Prot,
	}
}

func (s Segment[A]) String() string {
	return fmt.Sprintf("0x%08x-0x%08x %s off=0x%x", uint64(s.Addr), uint64(s.End()), s.Prot, uint64(s.Off))
}

// SortSegments orders segments by address. Ties keep their relative order.
func SortSegments[A Address](segs []Segment[A]) {
	slices.SortStableFunc(segs, func(a, b Segment[A]) int {
		return cmp.Compare(a.Addr, b.Addr)
	})
}

func WidenSegments[A Address](segs []Segment[A]) []Segment[uint64] {
	out := make([]Segment[uint64], len(segs))
	for i, s := range segs {
		out[i] = s.Widen()
	}
	return out
}
