package query

import (
	"container/heap"
	"errors"
	"math"

	"github.com/tormol/strtree/geom"
	"github.com/tormol/strtree/internal/rtree"
)

// pqItem is one ticket in the kNN priority queue: either a subtree
// still to be expanded (node != nil) or a leaf entry ready to report
// (node == nil, leaf holds the entry). A single variant queued on a
// common key, rather than two separate queues, so the heap always pops
// whichever is closest regardless of kind (section 9's design note),
// the same trick packedrtree.ticketBag (gogama-flatgeobuf) uses to let
// one heap.Interface serve as either a stack or a priority queue.
type pqItem struct {
	key  float64
	node *rtree.Node
	leaf rtree.Child
}

type pq []pqItem

func (p pq) Len() int            { return len(p) }
func (p pq) Less(i, j int) bool  { return p[i].key < p[j].key }
func (p pq) Swap(i, j int)       { p[i], p[j] = p[j], p[i] }
func (p *pq) Push(x interface{}) { *p = append(*p, x.(pqItem)) }
func (p *pq) Pop() interface{} {
	old := *p
	n := len(old)
	item := old[n-1]
	*p = old[:n-1]
	return item
}

// bestFirst runs the shared best-first skeleton behind all three kNN
// overloads (section 4.6): expand the closest still-queued item,
// whether subtree or leaf entry, until the reported leaves count for at
// least k; with keepSame, the search then continues until the next
// item's key exceeds the last reported distance, so ties are kept.
//
// rootKey is the queue key for the whole tree; childKey computes a
// child's key during expansion; increment returns how much a leaf
// child counts toward k (1 per point, Size per aggregated MBR); report
// is called once per reported leaf, in non-decreasing key order.
func bestFirst(
	root *rtree.Node,
	k int,
	keepSame bool,
	rootKey float64,
	childKey func(c *rtree.Child) float64,
	increment func(c *rtree.Child) int,
	report func(c *rtree.Child),
) {
	if k <= 0 || len(root.Children) == 0 {
		return
	}

	q := &pq{}
	heap.Push(q, pqItem{key: rootKey, node: root})

	count := 0
	lastDist := math.Inf(1)
	for q.Len() > 0 {
		item := heap.Pop(q).(pqItem)
		if count >= k && (!keepSame || item.key > lastDist) {
			return
		}

		if item.node != nil {
			n := item.node
			for i := range n.Children {
				c := &n.Children[i]
				key := childKey(c)
				if n.Leaf {
					heap.Push(q, pqItem{key: key, leaf: *c})
				} else {
					heap.Push(q, pqItem{key: key, node: c.Subtree})
				}
			}
			continue
		}

		report(&item.leaf)
		count += increment(&item.leaf)
		lastDist = item.key
	}
}

// KNN returns the k entries closest to q (the first overload of
// section 4.6): distance is geom.MinDist against whatever geometry
// each leaf holds, and every reported leaf counts 1 toward k.
func KNN(tree *rtree.Tree, q geom.Point, k int, keepSame bool) ([]Result, error) {
	if k < 0 {
		return nil, errors.New("query: k must be >= 0")
	}
	var results []Result
	bestFirst(tree.Root, k, keepSame,
		tree.Root.MBR.MinDist(q),
		func(c *rtree.Child) float64 { return c.MinDist(q) },
		func(c *rtree.Child) int { return 1 },
		func(c *rtree.Child) { results = append(results, childResult(c)) },
	)
	return results, nil
}

// KNNWithMBRLeaves returns the k closest entries of an MBR-leaf tree
// to point q, using a caller-supplied distance function applied
// uniformly to internal subtree boxes and leaf boxes (the second
// overload of section 4.6). Each reported leaf counts its Size toward
// k, so an aggregated leaf can account for more than one logical
// member in a single report.
func KNNWithMBRLeaves(tree *rtree.Tree, q geom.Point, distFunc func(geom.Point, geom.MBR) float64, k int, keepSame bool) ([]MBRResult, error) {
	if k < 0 {
		return nil, errors.New("query: k must be >= 0")
	}
	if distFunc == nil {
		panic("query: KNNWithMBRLeaves requires a non-nil distFunc")
	}
	var results []MBRResult
	bestFirst(tree.Root, k, keepSame,
		distFunc(q, tree.Root.MBR),
		func(c *rtree.Child) float64 { return distFunc(q, c.MBR) },
		func(c *rtree.Child) int { return c.Size },
		func(c *rtree.Child) { results = append(results, MBRResult{MBR: c.MBR, ID: c.ID}) },
	)
	return results, nil
}

// KNNFromMBR returns the k closest entries of an MBR-leaf tree to
// query box q, using a caller-supplied box-to-box distance function
// (the third overload of section 4.6). Counting rules match
// KNNWithMBRLeaves.
func KNNFromMBR(tree *rtree.Tree, q geom.MBR, distFunc func(geom.MBR, geom.MBR) float64, k int, keepSame bool) ([]MBRResult, error) {
	if k < 0 {
		return nil, errors.New("query: k must be >= 0")
	}
	if distFunc == nil {
		panic("query: KNNFromMBR requires a non-nil distFunc")
	}
	var results []MBRResult
	bestFirst(tree.Root, k, keepSame,
		distFunc(q, tree.Root.MBR),
		func(c *rtree.Child) float64 { return distFunc(q, c.MBR) },
		func(c *rtree.Child) int { return c.Size },
		func(c *rtree.Child) { results = append(results, MBRResult{MBR: c.MBR, ID: c.ID}) },
	)
	return results, nil
}
