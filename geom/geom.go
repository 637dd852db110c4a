/*
Package geom implements the geometry contract the static R-tree core is
built against: Point, MBR (minimum bounding rectangle) and the Shape
predicates minDist/isIntersect/contains.

It generalizes the <lat,long> geometry the teacher used for boat
positions (see the original AIS tree's geo package) to an arbitrary
number of dimensions D, taken at runtime from the length of a Point's
or MBR's coordinate slice. The approach is unchanged: find the relevant
MBR first, then derive area, margin, overlap and distance from it.
*/
package geom

import (
	"errors"
	"math"
)

// Shape is implemented by every geometry this package can reason
// about. MinDist and IsIntersect are double-dispatched over the
// concrete type of other via a type switch, since Go has no virtual
// dispatch across independent types the way the spec's contract
// assumes.
type Shape interface {
	// MinDist returns the minimum possible distance between this
	// shape and other. Zero if they touch or overlap.
	MinDist(other Shape) float64
	// IsIntersect reports whether this shape and other share any point.
	IsIntersect(other Shape) bool
	// Dim returns the dimensionality of the shape.
	Dim() int
}

// Point is a coordinate vector in D-dimensional space.
type Point struct {
	Coord []float64
}

// NewPoint builds a Point from its coordinates.
func NewPoint(coord ...float64) Point {
	c := make([]float64, len(coord))
	copy(c, coord)
	return Point{Coord: c}
}

// Dim returns the point's dimensionality.
func (p Point) Dim() int { return len(p.Coord) }

// DistanceTo returns the Euclidean distance between two points of the
// same dimension.
func (p Point) DistanceTo(o Point) float64 {
	var sum float64
	for i := range p.Coord {
		d := p.Coord[i] - o.Coord[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// MinDist returns the minimum distance from p to other.
func (p Point) MinDist(other Shape) float64 {
	switch o := other.(type) {
	case Point:
		return p.DistanceTo(o)
	case MBR:
		return o.MinDist(p)
	default:
		panic("geom: unsupported Shape in Point.MinDist")
	}
}

// IsIntersect reports whether p lies on/in other.
func (p Point) IsIntersect(other Shape) bool {
	switch o := other.(type) {
	case Point:
		return p.DistanceTo(o) == 0
	case MBR:
		return o.Contains(p)
	default:
		panic("geom: unsupported Shape in Point.IsIntersect")
	}
}

// MBR is an axis-aligned box [Low, High] in D dimensions, with
// Low[i] <= High[i] for every axis i.
type MBR struct {
	Low  []float64
	High []float64
}

// NewMBR builds an MBR from two corner points, reordering per-axis so
// Low holds the minimum and High the maximum on every axis. Returns an
// error if the two points have mismatched dimensions.
func NewMBR(a, b Point) (MBR, error) {
	if len(a.Coord) != len(b.Coord) {
		return MBR{}, errors.New("geom: mismatched point dimensions building MBR")
	}
	low := make([]float64, len(a.Coord))
	high := make([]float64, len(a.Coord))
	for i := range a.Coord {
		if a.Coord[i] <= b.Coord[i] {
			low[i], high[i] = a.Coord[i], b.Coord[i]
		} else {
			low[i], high[i] = b.Coord[i], a.Coord[i]
		}
	}
	return MBR{Low: low, High: high}, nil
}

// PointMBR returns the zero-area MBR around a single point, the same
// trick the teacher used to store boats ("zero-area rectangles instead
// of points") so a mixed point/box index can share one MBR type.
func PointMBR(p Point) MBR {
	low := make([]float64, len(p.Coord))
	high := make([]float64, len(p.Coord))
	copy(low, p.Coord)
	copy(high, p.Coord)
	return MBR{Low: low, High: high}
}

// Dim returns the MBR's dimensionality.
func (m MBR) Dim() int { return len(m.Low) }

// Center returns the center point of the MBR.
func (m MBR) Center() Point {
	c := make([]float64, len(m.Low))
	for i := range m.Low {
		c[i] = m.Low[i] + (m.High[i]-m.Low[i])/2
	}
	return Point{Coord: c}
}

// CenterKey returns low[d]+high[d], a monotone proxy for the center
// coordinate on axis d used by the STR builder to sort MBR entries
// without the division every Center() call would otherwise do.
func (m MBR) CenterKey(d int) float64 {
	return m.Low[d] + m.High[d]
}

// Area returns the MBR's D-dimensional volume.
func (m MBR) Area() float64 {
	area := 1.0
	for i := range m.Low {
		area *= m.High[i] - m.Low[i]
	}
	return area
}

// Margin returns the sum of the MBR's edge lengths (its "perimeter",
// generalized to D dimensions).
func (m MBR) Margin() float64 {
	var margin float64
	for i := range m.Low {
		margin += m.High[i] - m.Low[i]
	}
	return margin
}

// AreaDifference returns the absolute difference in area between m and o.
func (m MBR) AreaDifference(o MBR) float64 {
	return math.Abs(m.Area() - o.Area())
}

// Contains reports whether p lies within m on every axis, inclusive of
// the boundary.
func (m MBR) Contains(p Point) bool {
	for i := range m.Low {
		if p.Coord[i] < m.Low[i] || p.Coord[i] > m.High[i] {
			return false
		}
	}
	return true
}

// ContainsMBR reports whether m fully contains o.
func (m MBR) ContainsMBR(o MBR) bool {
	for i := range m.Low {
		if o.Low[i] < m.Low[i] || o.High[i] > m.High[i] {
			return false
		}
	}
	return true
}

// Overlaps reports whether m and o share any point. Boxes that merely
// touch count as overlapping.
func (m MBR) Overlaps(o MBR) bool {
	for i := range m.Low {
		if o.Low[i] > m.High[i] || m.Low[i] > o.High[i] {
			return false
		}
	}
	return true
}

// ExpandedWith returns the tight MBR covering both m and o.
func (m MBR) ExpandedWith(o MBR) MBR {
	if m.ContainsMBR(o) {
		return m
	}
	low := make([]float64, len(m.Low))
	high := make([]float64, len(m.Low))
	for i := range m.Low {
		low[i] = math.Min(m.Low[i], o.Low[i])
		high[i] = math.Max(m.High[i], o.High[i])
	}
	return MBR{Low: low, High: high}
}

// OverlapWith returns the area of the intersection of m and o, zero if
// they don't overlap.
func (m MBR) OverlapWith(o MBR) float64 {
	if !m.Overlaps(o) {
		return 0
	}
	area := 1.0
	for i := range m.Low {
		lo := math.Max(m.Low[i], o.Low[i])
		hi := math.Min(m.High[i], o.High[i])
		area *= hi - lo
	}
	return area
}

// MinDist returns the minimum distance from m to other: zero if other
// is inside or overlapping m, otherwise the Euclidean distance to the
// nearest point on m's boundary.
func (m MBR) MinDist(other Shape) float64 {
	switch o := other.(type) {
	case Point:
		var sum float64
		for i := range m.Low {
			if o.Coord[i] < m.Low[i] {
				d := m.Low[i] - o.Coord[i]
				sum += d * d
			} else if o.Coord[i] > m.High[i] {
				d := o.Coord[i] - m.High[i]
				sum += d * d
			}
		}
		return math.Sqrt(sum)
	case MBR:
		var sum float64
		for i := range m.Low {
			if o.Low[i] > m.High[i] {
				d := o.Low[i] - m.High[i]
				sum += d * d
			} else if m.Low[i] > o.High[i] {
				d := m.Low[i] - o.High[i]
				sum += d * d
			}
		}
		return math.Sqrt(sum)
	default:
		panic("geom: unsupported Shape in MBR.MinDist")
	}
}

// IsIntersect reports whether m shares any point with other.
func (m MBR) IsIntersect(other Shape) bool {
	switch o := other.(type) {
	case Point:
		return m.Contains(o)
	case MBR:
		return m.Overlaps(o)
	default:
		panic("geom: unsupported Shape in MBR.IsIntersect")
	}
}

// UnionOfPoints returns the tight MBR enclosing every point given.
// Panics if points is empty; callers are expected to have at least one
// entry (mirrors the builder's "empty input is a programming error"
// contract).
func UnionOfPoints(points ...Point) MBR {
	if len(points) == 0 {
		panic("geom: UnionOfPoints called with no points")
	}
	d := len(points[0].Coord)
	low := make([]float64, d)
	high := make([]float64, d)
	copy(low, points[0].Coord)
	copy(high, points[0].Coord)
	for _, p := range points[1:] {
		for i := 0; i < d; i++ {
			if p.Coord[i] < low[i] {
				low[i] = p.Coord[i]
			}
			if p.Coord[i] > high[i] {
				high[i] = p.Coord[i]
			}
		}
	}
	return MBR{Low: low, High: high}
}

// UnionOfMBRs returns the tight MBR enclosing every MBR given. Panics
// if mbrs is empty.
func UnionOfMBRs(mbrs ...MBR) MBR {
	if len(mbrs) == 0 {
		panic("geom: UnionOfMBRs called with no MBRs")
	}
	u := mbrs[0]
	for _, m := range mbrs[1:] {
		u = u.ExpandedWith(m)
	}
	return u
}
