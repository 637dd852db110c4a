/*
Package query implements the static tree's read-only query engine:
range, circle, conjunctive-circle and k-nearest-neighbor lookups
(sections 4.3-4.6).

Range, CircleRange and CircleRangeConj traverse with an explicit stack
rather than recursion, since a recursive walk's stack depth would track
the tree's height and an attacker- or data-controlled input could build
an unexpectedly tall tree (section 4.3, "recursion would exceed stack
depth on deep trees"). This mirrors the push/prune/collect shape of the
teacher's node.searchChildren (storage/rStarTree.go), restated with an
explicit []*rtree.Node stack instead of call-stack recursion.
*/
package query

import (
	"github.com/tormol/strtree/geom"
	"github.com/tormol/strtree/internal/rtree"
)

// Result is one reported match: either a Point or an MBR (whichever
// kind the tree's leaves hold), with its payload id.
type Result struct {
	Geometry geom.Shape
	ID       int
}

// MBRResult is one reported match from an MBR-leaf tree: the kNN
// overloads that accept a distance function report the leaf's box
// directly rather than through the Shape interface, since callers
// providing their own distFunc already know they're working with
// boxes.
type MBRResult struct {
	MBR geom.MBR
	ID  int
}

// CircleQuery is one (center, radius) constraint of a CircleRangeConj
// call.
type CircleQuery struct {
	Center geom.Point
	R      float64
}

func childResult(c *rtree.Child) Result {
	if c.Kind == rtree.KindPointLeaf {
		return Result{Geometry: c.Point, ID: c.ID}
	}
	return Result{Geometry: c.MBR, ID: c.ID}
}

// Range reports every leaf entry whose geometry intersects q: for
// point leaves, q.Contains(point); for MBR leaves, box-box overlap
// (section 4.3).
func Range(tree *rtree.Tree, q geom.MBR) []Result {
	root := tree.Root
	var results []Result
	if len(root.Children) == 0 || !root.MBR.IsIntersect(q) {
		return results
	}

	stack := []*rtree.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !n.Leaf {
			for i := range n.Children {
				c := &n.Children[i]
				if c.MBR.IsIntersect(q) {
					stack = append(stack, c.Subtree)
				}
			}
			continue
		}
		for i := range n.Children {
			c := &n.Children[i]
			switch c.Kind {
			case rtree.KindPointLeaf:
				if q.Contains(c.Point) {
					results = append(results, childResult(c))
				}
			case rtree.KindMBRLeaf:
				if q.IsIntersect(c.MBR) {
					results = append(results, childResult(c))
				}
			}
		}
	}
	return results
}

// CircleRange reports every leaf entry within radius r of origin,
// applying the same minDist(origin) <= r predicate uniformly to
// internal subtrees (pruning) and leaf entries (collecting) (section
// 4.4).
func CircleRange(tree *rtree.Tree, origin geom.Shape, r float64) []Result {
	root := tree.Root
	var results []Result
	if len(root.Children) == 0 || root.MBR.MinDist(origin) > r {
		return results
	}

	stack := []*rtree.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for i := range n.Children {
			c := &n.Children[i]
			if c.MinDist(origin) > r {
				continue
			}
			if n.Leaf {
				results = append(results, childResult(c))
			} else {
				stack = append(stack, c.Subtree)
			}
		}
	}
	return results
}

// CircleRangeConj reports every leaf entry that lies within every
// circle in queries simultaneously: a child is pruned as soon as it
// fails any one circle's radius, short-circuiting the rest (section
// 4.5).
func CircleRangeConj(tree *rtree.Tree, queries []CircleQuery) []Result {
	root := tree.Root
	var results []Result
	if len(root.Children) == 0 || !satisfiesAll(root.MBR, queries) {
		return results
	}

	stack := []*rtree.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for i := range n.Children {
			c := &n.Children[i]
			if !childSatisfiesAll(c, queries) {
				continue
			}
			if n.Leaf {
				results = append(results, childResult(c))
			} else {
				stack = append(stack, c.Subtree)
			}
		}
	}
	return results
}

func satisfiesAll(s geom.Shape, queries []CircleQuery) bool {
	for _, q := range queries {
		if s.MinDist(q.Center) > q.R {
			return false
		}
	}
	return true
}

func childSatisfiesAll(c *rtree.Child, queries []CircleQuery) bool {
	for _, q := range queries {
		if c.MinDist(q.Center) > q.R {
			return false
		}
	}
	return true
}
