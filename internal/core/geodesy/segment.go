package geodesy

import (
	"fmt"
	"math"

	"github.com/samirrijal/geoseam/internal/core/domain"
)

// SegmentRing partitions a ring and its detected crossings into batches that
// are each safe to connect into a line without wrapping around the globe.
//
// With no crossings the whole ring is one batch. With exactly two crossings
// (entry and exit through the seam) the ring is cut into four batches in ring
// order: the points before the first crossing, the two halves of the region
// between the crossings, and the points after the second crossing. Each cut
// batch is terminated or led by the seam coordinate expressed with the
// longitude sign of its neighboring real point, so no batch ever spans the
// discontinuity.
//
// Rings crossing the antimeridian more than twice are rejected: the four-way
// partition does not generalize to them.
func SegmentRing(points []domain.GeoPoint, crossings []domain.Crossing) (domain.RingGeometry, error) {
	if len(crossings) == 0 {
		single := make(domain.Batch, len(points))
		copy(single, points)
		return domain.RingGeometry{Kind: domain.RingSingle, Single: single}, nil
	}
	if len(crossings) != 2 {
		return domain.RingGeometry{}, fmt.Errorf(
			"geodesy: ring crosses the antimeridian %d times, want 0 or 2", len(crossings))
	}

	entry, exit := crossings[0], crossings[1]
	a, b := entry.Index, exit.Index
	if a > b {
		entry, exit = exit, entry
		a, b = b, a
	}
	if a < 1 || b > len(points)-1 {
		return domain.RingGeometry{}, fmt.Errorf(
			"geodesy: crossing anchors %d, %d out of range for %d points", a, b, len(points))
	}

	// Midpoint of the far-side region, splitting it into the two
	// crossing-region batches.
	mid := a + (b-a)/2

	batch0 := make(domain.Batch, 0, a+1)
	batch0 = append(batch0, points[:a]...)
	batch0 = append(batch0, seamFor(points[a-1], entry))

	batch1 := make(domain.Batch, 0, mid-a+2)
	batch1 = append(batch1, seamFor(points[a], entry))
	batch1 = append(batch1, points[a:mid+1]...)

	batch2 := make(domain.Batch, 0, b-mid+1)
	batch2 = append(batch2, points[mid+1:b]...)
	batch2 = append(batch2, seamFor(points[b-1], exit))

	batch3 := make(domain.Batch, 0, len(points)-b+1)
	batch3 = append(batch3, seamFor(points[b], exit))
	batch3 = append(batch3, points[b:]...)

	ring := domain.RingGeometry{
		Kind:    domain.RingMulti,
		Batches: [4]domain.Batch{batch0, batch1, batch2, batch3},
	}
	for i, batch := range ring.Batches {
		if j := wrapIndex(batch); j >= 0 {
			return domain.RingGeometry{}, fmt.Errorf(
				"geodesy: batch %d wraps at point %d (Δlon %.3f)", i, j,
				math.Abs(batch[j].Lon-batch[j-1].Lon))
		}
	}
	return ring, nil
}

// seamFor picks the seam representation (+180 or −180) whose longitude sign
// matches the adjacent real point, keeping the joined pair non-wrapping.
func seamFor(neighbor domain.GeoPoint, c domain.Crossing) domain.GeoPoint {
	if (neighbor.Lon >= 0) == (c.Point.Lon >= 0) {
		return c.Point
	}
	return c.Mirror
}

// wrapIndex returns the first index whose longitude is more than 180° from
// its predecessor, or -1 when the batch is clean.
func wrapIndex(batch domain.Batch) int {
	for i := 1; i < len(batch); i++ {
		if math.Abs(batch[i].Lon-batch[i-1].Lon) > 180 {
			return i
		}
	}
	return -1
}

// Augment interleaves a ring's points with its synthesized seam points,
// assigning fractional sequence indices: real point i keeps index i, and a
// crossing anchored at i is inserted at i−0.5. Used for inspection output;
// segmentation works from the raw inputs.
func Augment(points []domain.GeoPoint, crossings []domain.Crossing) []domain.BoundaryPoint {
	byAnchor := make(map[int]domain.Crossing, len(crossings))
	for _, c := range crossings {
		byAnchor[c.Index] = c
	}

	out := make([]domain.BoundaryPoint, 0, len(points)+len(crossings))
	for i, p := range points {
		if c, ok := byAnchor[i]; ok {
			out = append(out, domain.BoundaryPoint{Seq: float64(i) - 0.5, Point: c.Point})
		}
		out = append(out, domain.BoundaryPoint{Seq: float64(i), Point: p})
	}
	return out
}
