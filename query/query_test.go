package query

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tormol/strtree/geom"
	"github.com/tormol/strtree/internal/rtree"
)

func buildGridPoints(t *testing.T, M int) *rtree.Tree {
	t.Helper()
	var entries []rtree.PointEntry
	id := 0
	for x := 0; x < 10; x++ {
		for y := 0; y < 10; y++ {
			entries = append(entries, rtree.PointEntry{Point: geom.NewPoint(float64(x), float64(y)), ID: id})
			id++
		}
	}
	tree, err := rtree.BuildPoints(entries, M)
	require.NoError(t, err)
	return tree
}

func idsOf(results []Result) []int {
	ids := make([]int, len(results))
	for i, r := range results {
		ids[i] = r.ID
	}
	sort.Ints(ids)
	return ids
}

func TestRangeMatchesBruteForce(t *testing.T) {
	tree := buildGridPoints(t, 8)
	q, err := geom.NewMBR(geom.NewPoint(2, 2), geom.NewPoint(5, 6))
	require.NoError(t, err)

	got := idsOf(Range(tree, q))

	var want []int
	id := 0
	for x := 0; x < 10; x++ {
		for y := 0; y < 10; y++ {
			if q.Contains(geom.NewPoint(float64(x), float64(y))) {
				want = append(want, id)
			}
			id++
		}
	}
	sort.Ints(want)
	assert.Equal(t, want, got)
}

func TestRangeEmptyWhenDisjoint(t *testing.T) {
	tree := buildGridPoints(t, 8)
	q, err := geom.NewMBR(geom.NewPoint(100, 100), geom.NewPoint(200, 200))
	require.NoError(t, err)
	assert.Empty(t, Range(tree, q))
}

func TestCircleRangeMatchesBruteForce(t *testing.T) {
	tree := buildGridPoints(t, 6)
	origin := geom.NewPoint(4.5, 4.5)
	r := 3.0

	got := idsOf(CircleRange(tree, origin, r))

	var want []int
	id := 0
	for x := 0; x < 10; x++ {
		for y := 0; y < 10; y++ {
			p := geom.NewPoint(float64(x), float64(y))
			if p.DistanceTo(origin) <= r {
				want = append(want, id)
			}
			id++
		}
	}
	sort.Ints(want)
	assert.Equal(t, want, got)
}

func TestCircleRangeConjIsIntersectionOfCircles(t *testing.T) {
	tree := buildGridPoints(t, 6)
	queries := []CircleQuery{
		{Center: geom.NewPoint(3, 3), R: 4},
		{Center: geom.NewPoint(6, 6), R: 4},
	}

	got := idsOf(CircleRangeConj(tree, queries))

	single0 := idsOf(CircleRange(tree, queries[0].Center, queries[0].R))
	single1 := idsOf(CircleRange(tree, queries[1].Center, queries[1].R))
	set1 := map[int]bool{}
	for _, id := range single1 {
		set1[id] = true
	}
	var want []int
	for _, id := range single0 {
		if set1[id] {
			want = append(want, id)
		}
	}
	sort.Ints(want)
	assert.Equal(t, want, got)
}

func TestCircleRangeConjEmptyQueriesMatchesNothingPruned(t *testing.T) {
	tree := buildGridPoints(t, 6)
	got := CircleRangeConj(tree, nil)
	assert.Len(t, got, 100, "no constraints means every entry satisfies the (empty) conjunction")
}

func TestRangeOnRandomMBRLeafTree(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	entries := make([]rtree.MBREntry, 0, 300)
	for i := 0; i < 300; i++ {
		a := geom.NewPoint(r.Float64()*50, r.Float64()*50)
		b := geom.NewPoint(a.Coord[0]+r.Float64()*3, a.Coord[1]+r.Float64()*3)
		mbr, err := geom.NewMBR(a, b)
		require.NoError(t, err)
		entries = append(entries, rtree.MBREntry{MBR: mbr, ID: i, Size: 1})
	}
	tree, err := rtree.BuildMBRs(entries, 10)
	require.NoError(t, err)

	q, err := geom.NewMBR(geom.NewPoint(10, 10), geom.NewPoint(40, 40))
	require.NoError(t, err)
	got := idsOf(Range(tree, q))

	var want []int
	for _, e := range entries {
		if q.IsIntersect(e.MBR) {
			want = append(want, e.ID)
		}
	}
	sort.Ints(want)
	assert.Equal(t, want, got)
}
