package query

import (
	"time"

	"github.com/tormol/strtree/geom"
	"github.com/tormol/strtree/internal/rtree"
	"github.com/tormol/strtree/metrics"
)

// Instrumented wraps the package-level query functions with an
// optional metrics.Recorder. The zero value has a nil Recorder and
// behaves exactly like calling the package functions directly.
type Instrumented struct {
	Recorder metrics.Recorder
}

func (q Instrumented) observe(kind string, start time.Time, results int) {
	if q.Recorder == nil {
		return
	}
	q.Recorder.ObserveQuery(kind, results, time.Since(start))
}

func (q Instrumented) Range(tree *rtree.Tree, query geom.MBR) []Result {
	start := time.Now()
	results := Range(tree, query)
	q.observe("range", start, len(results))
	return results
}

func (q Instrumented) CircleRange(tree *rtree.Tree, origin geom.Shape, r float64) []Result {
	start := time.Now()
	results := CircleRange(tree, origin, r)
	q.observe("circle", start, len(results))
	return results
}

func (q Instrumented) CircleRangeConj(tree *rtree.Tree, queries []CircleQuery) []Result {
	start := time.Now()
	results := CircleRangeConj(tree, queries)
	q.observe("circleConj", start, len(results))
	return results
}

func (q Instrumented) KNN(tree *rtree.Tree, point geom.Point, k int, keepSame bool) ([]Result, error) {
	start := time.Now()
	results, err := KNN(tree, point, k, keepSame)
	q.observe("knn", start, len(results))
	return results, err
}

func (q Instrumented) KNNWithMBRLeaves(tree *rtree.Tree, point geom.Point, distFunc func(geom.Point, geom.MBR) float64, k int, keepSame bool) ([]MBRResult, error) {
	start := time.Now()
	results, err := KNNWithMBRLeaves(tree, point, distFunc, k, keepSame)
	q.observe("knnMBRLeaves", start, len(results))
	return results, err
}

func (q Instrumented) KNNFromMBR(tree *rtree.Tree, query geom.MBR, distFunc func(geom.MBR, geom.MBR) float64, k int, keepSame bool) ([]MBRResult, error) {
	start := time.Now()
	results, err := KNNFromMBR(tree, query, distFunc, k, keepSame)
	q.observe("knnFromMBR", start, len(results))
	return results, err
}
