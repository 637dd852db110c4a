package rtree

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tormol/strtree/geom"
)

// randPoints generates n deterministic pseudo-random 2-D points, mirroring
// the teacher's randBoat generator (storage/rStarTree_test.go) but over
// plain coordinates instead of ship fields.
func randPoints(r *rand.Rand, n int) []PointEntry {
	entries := make([]PointEntry, n)
	for i := 0; i < n; i++ {
		entries[i] = PointEntry{
			Point: geom.NewPoint(r.Float64()*1000, r.Float64()*1000),
			ID:    i,
		}
	}
	return entries
}

func countLeafEntries(n *Node) int {
	if n.Leaf {
		return len(n.Children)
	}
	total := 0
	for i := range n.Children {
		total += countLeafEntries(n.Children[i].Subtree)
	}
	return total
}

// walk visits every node of the tree, checking that each node's MBR
// tightly covers its children's geometry (universal property: covering-MBR
// soundness) and that non-root nodes respect the fanout bound.
func walk(t *testing.T, n *Node, M int, isRoot bool) {
	t.Helper()
	if !isRoot {
		assert.LessOrEqual(t, len(n.Children), M, "non-root node exceeds fanout M")
	}
	assert.NotEmpty(t, n.Children)

	var mbrs []geom.MBR
	for i := range n.Children {
		c := &n.Children[i]
		switch c.Kind {
		case KindPointLeaf:
			mbrs = append(mbrs, geom.PointMBR(c.Point))
		case KindMBRLeaf:
			mbrs = append(mbrs, c.MBR)
			assert.True(t, n.MBR.ContainsMBR(c.MBR))
		case KindInternal:
			require.NotNil(t, c.Subtree)
			mbrs = append(mbrs, c.Subtree.MBR)
			assert.Equal(t, c.MBR, c.Subtree.MBR)
			walk(t, c.Subtree, M, false)
		}
	}
	want := geom.UnionOfMBRs(mbrs...)
	assert.Equal(t, want.Low, n.MBR.Low)
	assert.Equal(t, want.High, n.MBR.High)
}

func TestBuildPointsCoveringMBRAndFanout(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	entries := randPoints(r, 1000)
	tree, err := BuildPoints(entries, 25)
	require.NoError(t, err)

	walk(t, tree.Root, 25, true)
	assert.Equal(t, 1000, countLeafEntries(tree.Root))
}

func TestBuildPointsSmallerThanMIsSingleLeafRoot(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	entries := randPoints(r, 10)
	tree, err := BuildPoints(entries, 25)
	require.NoError(t, err)

	assert.True(t, tree.Root.Leaf)
	assert.Len(t, tree.Root.Children, 10)
}

func TestBuildPointsDeterministic(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	entries := randPoints(r, 500)

	treeA, err := BuildPoints(entries, 10)
	require.NoError(t, err)
	treeB, err := BuildPoints(entries, 10)
	require.NoError(t, err)

	assert.Equal(t, treeA.Root.MBR, treeB.Root.MBR)
	assert.Equal(t, countLeafEntries(treeA.Root), countLeafEntries(treeB.Root))
}

func TestBuildPointsRejectsBadFanout(t *testing.T) {
	entries := []PointEntry{{Point: geom.NewPoint(0, 0), ID: 0}}
	_, err := BuildPoints(entries, 1)
	require.Error(t, err)
}

func TestBuildPointsRejectsMismatchedDimensions(t *testing.T) {
	entries := []PointEntry{
		{Point: geom.NewPoint(0, 0), ID: 0},
		{Point: geom.NewPoint(0, 0, 0), ID: 1},
	}
	_, err := BuildPoints(entries, 4)
	require.Error(t, err)
}

func TestBuildPointsEmptyPanics(t *testing.T) {
	assert.Panics(t, func() {
		BuildPoints(nil, 4)
	})
}

func TestBuildMBRsAggregatesSizeAndID(t *testing.T) {
	entries := make([]MBREntry, 0, 200)
	r := rand.New(rand.NewSource(4))
	for i := 0; i < 200; i++ {
		a := geom.NewPoint(r.Float64()*100, r.Float64()*100)
		b := geom.NewPoint(a.Coord[0]+r.Float64()*5, a.Coord[1]+r.Float64()*5)
		mbr, err := geom.NewMBR(a, b)
		require.NoError(t, err)
		entries = append(entries, MBREntry{MBR: mbr, ID: i, Size: i % 3})
	}

	tree, err := BuildMBRs(entries, 16)
	require.NoError(t, err)
	walk(t, tree.Root, 16, true)

	seen := map[int]bool{}
	var collect func(n *Node)
	collect = func(n *Node) {
		if n.Leaf {
			for i := range n.Children {
				seen[n.Children[i].ID] = true
				assert.Equal(t, n.Children[i].ID%3, n.Children[i].Size)
			}
			return
		}
		for i := range n.Children {
			collect(n.Children[i].Subtree)
		}
	}
	collect(tree.Root)
	assert.Len(t, seen, 200)
}

func TestBuildMBRsHighDimensional(t *testing.T) {
	r := rand.New(rand.NewSource(5))
	entries := make([]MBREntry, 0, 300)
	for i := 0; i < 300; i++ {
		a := geom.NewPoint(r.Float64(), r.Float64(), r.Float64(), r.Float64())
		b := geom.NewPoint(a.Coord[0]+0.1, a.Coord[1]+0.1, a.Coord[2]+0.1, a.Coord[3]+0.1)
		mbr, err := geom.NewMBR(a, b)
		require.NoError(t, err)
		entries = append(entries, MBREntry{MBR: mbr, ID: i, Size: 1})
	}
	tree, err := BuildMBRs(entries, 12)
	require.NoError(t, err)
	assert.Equal(t, 4, tree.Dim)
	walk(t, tree.Root, 12, true)
}
