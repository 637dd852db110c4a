/*
Package rtree implements the node/entry model and the Sort-Tile-Recursive
(STR) bulk-loading builder for a static, multi-dimensional R-tree.

The node and entry shapes are grounded on the teacher's dynamic R*-tree
(the original AIS tree's storage package: a node holding a fixed entry
array, entries that are either <mbr, child-node> or <mbr, payload>, and
helpers to recompute a node's covering MBR from its children), adapted
from a mutable insert/split tree to an immutable tree produced once by
bulk loading.
*/
package rtree

import (
	"errors"
	"math"
	"sort"

	"github.com/tormol/strtree/geom"
)

// ChildKind tags which of the three shapes (section 4.1 of the design)
// a Child holds. Modeled as a closed tagged variant rather than an
// interface with virtual dispatch, since the traversers already branch
// on kind and a closed variant is faster and clearer to read.
type ChildKind uint8

const (
	// KindInternal children point at a subtree; MBR is that subtree's
	// covering MBR.
	KindInternal ChildKind = iota
	// KindPointLeaf children carry a point and a payload id. Only
	// appears inside leaf nodes built by BuildPoints.
	KindPointLeaf
	// KindMBRLeaf children carry a pre-aggregated box, a payload id
	// and a size count. Only appears inside leaf nodes built by
	// BuildMBRs.
	KindMBRLeaf
)

// Child is one entry of a Node's child array. Which fields are
// meaningful depends on Kind: Subtree for KindInternal, Point for
// KindPointLeaf, MBR+Size for KindMBRLeaf; ID is set for both leaf
// kinds.
type Child struct {
	Kind    ChildKind
	MBR     geom.MBR
	Point   geom.Point
	ID      int
	Size    int
	Subtree *Node
}

// MinDist delegates to the child's own geometry: a point leaf's point,
// otherwise its MBR (the subtree's covering box for internal children,
// the aggregated box for MBR leaves).
func (c *Child) MinDist(s geom.Shape) float64 {
	if c.Kind == KindPointLeaf {
		return c.Point.MinDist(s)
	}
	return c.MBR.MinDist(s)
}

// IsIntersect delegates the same way MinDist does.
func (c *Child) IsIntersect(s geom.Shape) bool {
	if c.Kind == KindPointLeaf {
		return c.Point.IsIntersect(s)
	}
	return c.MBR.IsIntersect(s)
}

// Node is a tagged {Leaf, Internal} node: a covering MBR plus a fixed
// child array, built once by the STR builder and never mutated
// afterward. Every node, the root included, has between 1 and M
// children (see BuildPoints/BuildMBRs).
type Node struct {
	MBR      geom.MBR
	Leaf     bool
	Children []Child
}

// Tree is the immutable root handle returned by the builder.
type Tree struct {
	Root *Node
	Dim  int
}

// PointEntry is one (point, id) input to BuildPoints.
type PointEntry struct {
	Point geom.Point
	ID    int
}

// MBREntry is one (mbr, id, size) input to BuildMBRs.
type MBREntry struct {
	MBR  geom.MBR
	ID   int
	Size int
}

// candidate is one item of an in-progress level during the builder's
// iterative level-up loop: a node paired with its own covering MBR (so
// the next level's STR sort doesn't need to re-derive it from the
// node's children each time).
type candidate struct {
	mbr  geom.MBR
	node *Node
}

// BuildPoints bulk-loads a tree of point entries via STR packing
// (section 4.2). M is the maximum fanout per non-root node and must be
// at least 2. Entries must all share the same point dimension; a
// mismatch is reported as an error, since it's a condition a caller
// assembling entries from multiple sources could plausibly hit. An
// empty entries slice is a programming error and panics, per section 7
// ("empty entry array at build time" is listed alongside other
// contract violations, not recoverable conditions).
//
// The returned tree's root has at most M children: the STR level-up
// loop stops as soon as the current level already fits under one
// parent (every slab count is 1, which happens only once the level has
// at most M nodes), and that final level is wrapped as the root
// verbatim without being re-split (section 4.2, "Root").
func BuildPoints(entries []PointEntry, M int) (*Tree, error) {
	if len(entries) == 0 {
		panic("rtree: BuildPoints called with no entries")
	}
	if M < 2 {
		return nil, errors.New("rtree: fanout M must be >= 2")
	}
	dim := entries[0].Point.Dim()
	if dim == 0 {
		panic("rtree: BuildPoints entries have zero-dimensional points")
	}
	for _, e := range entries[1:] {
		if e.Point.Dim() != dim {
			return nil, errors.New("rtree: mismatched point dimensions in entries")
		}
	}

	key := func(i, d int) float64 { return entries[i].Point.Coord[d] }
	groups := strGroups(len(entries), dim, M, key)

	level := make([]candidate, len(groups))
	for i, group := range groups {
		children := make([]Child, len(group))
		points := make([]geom.Point, len(group))
		for j, idx := range group {
			children[j] = Child{Kind: KindPointLeaf, Point: entries[idx].Point, ID: entries[idx].ID}
			points[j] = entries[idx].Point
		}
		mbr := geom.UnionOfPoints(points...)
		level[i] = candidate{mbr: mbr, node: &Node{MBR: mbr, Leaf: true, Children: children}}
	}

	root := buildUpperLevels(level, dim, M)
	return &Tree{Root: root, Dim: dim}, nil
}

// BuildMBRs bulk-loads a tree of pre-aggregated MBR entries, each
// carrying a payload id and a size count (used by the kNN overloads
// that account for aggregated leaves, section 4.6). Same fanout,
// dimension and empty-input rules as BuildPoints.
func BuildMBRs(entries []MBREntry, M int) (*Tree, error) {
	if len(entries) == 0 {
		panic("rtree: BuildMBRs called with no entries")
	}
	if M < 2 {
		return nil, errors.New("rtree: fanout M must be >= 2")
	}
	dim := entries[0].MBR.Dim()
	if dim == 0 {
		panic("rtree: BuildMBRs entries have zero-dimensional MBRs")
	}
	for _, e := range entries[1:] {
		if e.MBR.Dim() != dim {
			return nil, errors.New("rtree: mismatched MBR dimensions in entries")
		}
	}

	key := func(i, d int) float64 { return entries[i].MBR.CenterKey(d) }
	groups := strGroups(len(entries), dim, M, key)

	level := make([]candidate, len(groups))
	for i, group := range groups {
		children := make([]Child, len(group))
		mbrs := make([]geom.MBR, len(group))
		for j, idx := range group {
			children[j] = Child{Kind: KindMBRLeaf, MBR: entries[idx].MBR, ID: entries[idx].ID, Size: entries[idx].Size}
			mbrs[j] = entries[idx].MBR
		}
		mbr := geom.UnionOfMBRs(mbrs...)
		level[i] = candidate{mbr: mbr, node: &Node{MBR: mbr, Leaf: true, Children: children}}
	}

	root := buildUpperLevels(level, dim, M)
	return &Tree{Root: root, Dim: dim}, nil
}

// buildUpperLevels repeats STR packing on the (MBR, subtree) pairs of
// the previous level until the per-dimension slab counts all come out
// to 1, i.e. the current level already fits under a single parent
// (section 4.2, "Upper levels"). The first call may receive a level
// that already satisfies this (N <= M at the leaf level), in which
// case the loop body never runs and the lone leaf node becomes the
// root directly.
func buildUpperLevels(level []candidate, dim, M int) *Node {
	for {
		s := slabCounts(len(level), dim, M)
		done := true
		for _, si := range s {
			if si != 1 {
				done = false
				break
			}
		}
		if done {
			break
		}

		key := func(i, d int) float64 { return level[i].mbr.CenterKey(d) }
		groups := strGroups(len(level), dim, M, key)

		next := make([]candidate, len(groups))
		for i, group := range groups {
			children := make([]Child, len(group))
			mbrs := make([]geom.MBR, len(group))
			for j, idx := range group {
				children[j] = Child{Kind: KindInternal, MBR: level[idx].mbr, Subtree: level[idx].node}
				mbrs[j] = level[idx].mbr
			}
			mbr := geom.UnionOfMBRs(mbrs...)
			next[i] = candidate{mbr: mbr, node: &Node{MBR: mbr, Leaf: false, Children: children}}
		}
		level = next
	}

	if len(level) == 1 {
		return level[0].node
	}
	children := make([]Child, len(level))
	mbrs := make([]geom.MBR, len(level))
	for i, c := range level {
		children[i] = Child{Kind: KindInternal, MBR: c.mbr, Subtree: c.node}
		mbrs[i] = c.mbr
	}
	return &Node{MBR: geom.UnionOfMBRs(mbrs...), Leaf: false, Children: children}
}

// slabCounts computes the per-dimension slab count vector s[0..dim-1]
// from the STR recurrence in section 4.2: the product of the slabs
// approximates P = ceil(n/M), distributed across dimensions by
// repeatedly taking the (dim-i)-th root of the remaining target count.
func slabCounts(n, dim, M int) []int {
	remaining := float64(n) / float64(M)
	s := make([]int, dim)
	for i := 0; i < dim; i++ {
		root := 1.0 / float64(dim-i)
		count := int(math.Ceil(math.Pow(remaining, root)))
		if count < 1 {
			count = 1
		}
		s[i] = count
		remaining = remaining / float64(count)
	}
	return s
}

// strGroups partitions n items into STR groups using the given
// per-item, per-dimension sort key. Dimension 0 is sliced first into
// s[0] contiguous, sorted groups; each of those is recursively sliced
// along dimension 1, and so on through dimension dim-1. The final flat
// list of groups is the packing for this level (section 4.2).
func strGroups(n, dim, M int, key func(i, d int) float64) [][]int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	s := slabCounts(n, dim, M)
	return partitionDim(idx, 0, dim, s, key)
}

func partitionDim(idx []int, d, dim int, s []int, key func(i, d int) float64) [][]int {
	sort.Slice(idx, func(i, j int) bool { return key(idx[i], d) < key(idx[j], d) })

	groupSize := int(math.Ceil(float64(len(idx)) / float64(s[d])))
	var groups [][]int
	for start := 0; start < len(idx); start += groupSize {
		end := start + groupSize
		if end > len(idx) {
			end = len(idx)
		}
		group := make([]int, end-start)
		copy(group, idx[start:end])
		groups = append(groups, group)
	}

	if d == dim-1 {
		return groups
	}
	var result [][]int
	for _, group := range groups {
		result = append(result, partitionDim(group, d+1, dim, s, key)...)
	}
	return result
}
