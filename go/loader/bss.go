package loader

import (
	"cmp"

	"golang.org/x/exp/slices"

	"github.com/ferrox-re/ferrox/go/models"
)

type transition[A models.Address] struct {
	point A
	delta int
}

// ReconcileBSS returns the parts of [addr, addr+size) not covered by any
// of segs as zero-filled PROT_RWU segments. Each maximal uncovered run
// becomes exactly one segment.
func ReconcileBSS[A models.Address](segs []models.Segment[A], addr, size A) []models.Segment[A] {
	if size == 0 {
		return nil
	}
	end := models.SatAdd(addr, size)

	// every declared segment opens (+1) and closes (-1) coverage; the BSS
	// edges are markers only
	points := make([]transition[A], 0, 2*len(segs)+2)
	for _, seg := range segs {
		if seg.Size == 0 {
			continue
		}
		points = append(points,
			transition[A]{seg.Addr, 1},
			transition[A]{seg.End(), -1},
		)
	}
	points = append(points, transition[A]{addr, 0}, transition[A]{end, 0})
	slices.SortFunc(points, func(a, b transition[A]) int {
		if c := cmp.Compare(a.point, b.point); c != 0 {
			return c
		}
		return cmp.Compare(a.delta, b.delta)
	})

	var gaps []models.Segment[A]
	covered := 0
	last := points[0].point
	for _, t := range points {
		// covered describes [last, t.point) until this point's deltas apply
		if t.point > last && covered == 0 && last >= addr && t.point <= end {
			gaps = append(gaps, models.Segment[A]{
				Addr: last,
				Size: t.point - last,
				Prot: models.PROT_RWU,
			})
		}
		covered += t.delta
		last = t.point
	}
	return gaps
}
