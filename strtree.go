/*
Package strtree is the public entry point: build a static,
bulk-loaded R-tree from points or MBRs, then query it by range, circle,
conjunctive circle or nearest neighbors. It ties together internal/rtree
(node model + STR builder), query (traversal) and the optional
metrics/rtreelog instrumentation into the single facade a caller
imports, the same role storage.ShipDB played as the front door to the
teacher's R*-tree.
*/
package strtree

import (
	"time"

	"github.com/tormol/strtree/geom"
	"github.com/tormol/strtree/internal/rtree"
	"github.com/tormol/strtree/internal/rtreelog"
	"github.com/tormol/strtree/metrics"
	"github.com/tormol/strtree/query"
)

// Re-export the geometry and result types callers need, so most
// programs only ever import this one package.
type (
	Point       = geom.Point
	MBR         = geom.MBR
	Shape       = geom.Shape
	Result      = query.Result
	MBRResult   = query.MBRResult
	CircleQuery = query.CircleQuery
	PointEntry  = rtree.PointEntry
	MBREntry    = rtree.MBREntry
)

// Tree is a built, queryable static R-tree. The zero value is not
// usable; construct one with BuildPoints or BuildMBRs.
type Tree struct {
	tree     *rtree.Tree
	queries  query.Instrumented
	log      *rtreelog.Logger
	fanout   int
	dim      int
	pointKey bool
}

// Option configures optional ambient behavior of a build.
type Option func(*Tree)

// WithLogger reports a build summary (entry count, fanout, dimension,
// wall time) to log at rtreelog.Info.
func WithLogger(log *rtreelog.Logger) Option {
	return func(t *Tree) { t.log = log }
}

// WithMetrics records every query call (kind, result count, latency)
// to rec.
func WithMetrics(rec metrics.Recorder) Option {
	return func(t *Tree) { t.queries.Recorder = rec }
}

// BuildPoints bulk-loads a tree over point entries with fanout M
// (section 4.2). See rtree.BuildPoints for the validation rules.
func BuildPoints(entries []PointEntry, M int, opts ...Option) (*Tree, error) {
	t := &Tree{fanout: M, pointKey: true}
	for _, opt := range opts {
		opt(t)
	}
	start := time.Now()
	built, err := rtree.BuildPoints(entries, M)
	if err != nil {
		return nil, err
	}
	t.tree = built
	t.dim = built.Dim
	if t.log != nil {
		t.log.Info("built point tree: %d entries, M=%d, dim=%d in %s",
			len(entries), M, t.dim, rtreelog.RoundDuration(time.Since(start), time.Microsecond))
	}
	return t, nil
}

// BuildMBRs bulk-loads a tree over pre-aggregated MBR entries with
// fanout M (section 4.2).
func BuildMBRs(entries []MBREntry, M int, opts ...Option) (*Tree, error) {
	t := &Tree{fanout: M}
	for _, opt := range opts {
		opt(t)
	}
	start := time.Now()
	built, err := rtree.BuildMBRs(entries, M)
	if err != nil {
		return nil, err
	}
	t.tree = built
	t.dim = built.Dim
	if t.log != nil {
		t.log.Info("built MBR tree: %d entries, M=%d, dim=%d in %s",
			len(entries), M, t.dim, rtreelog.RoundDuration(time.Since(start), time.Microsecond))
	}
	return t, nil
}

// Dim returns the tree's coordinate dimensionality.
func (t *Tree) Dim() int { return t.dim }

// Range reports every entry whose geometry intersects q (section 4.3).
func (t *Tree) Range(q MBR) []Result {
	return t.queries.Range(t.tree, q)
}

// CircleRange reports every entry within radius r of origin (section 4.4).
func (t *Tree) CircleRange(origin Shape, r float64) []Result {
	return t.queries.CircleRange(t.tree, origin, r)
}

// CircleRangeConj reports every entry inside every circle in queries
// simultaneously (section 4.5).
func (t *Tree) CircleRangeConj(queries []CircleQuery) []Result {
	return t.queries.CircleRangeConj(t.tree, queries)
}

// KNN returns the k entries closest to q (section 4.6, point overload).
func (t *Tree) KNN(q Point, k int, keepSame bool) ([]Result, error) {
	return t.queries.KNN(t.tree, q, k, keepSame)
}

// KNNWithMBRLeaves returns the k closest MBR-leaf entries to point q
// using distFunc, counting each leaf's Size toward k (section 4.6,
// second overload).
func (t *Tree) KNNWithMBRLeaves(q Point, distFunc func(Point, MBR) float64, k int, keepSame bool) ([]MBRResult, error) {
	return t.queries.KNNWithMBRLeaves(t.tree, q, distFunc, k, keepSame)
}

// KNNFromMBR returns the k closest MBR-leaf entries to query box q
// using distFunc (section 4.6, third overload).
func (t *Tree) KNNFromMBR(q MBR, distFunc func(MBR, MBR) float64, k int, keepSame bool) ([]MBRResult, error) {
	return t.queries.KNNFromMBR(t.tree, q, distFunc, k, keepSame)
}
