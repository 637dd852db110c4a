/*
Command strtree-bench builds a random static R-tree and times a batch
of range, circle and kNN queries against it, the way server/main.go
wired up the teacher's AIS pipeline pieces and logged progress as it
ran. It optionally starts a gops agent so a running benchmark can be
inspected with `gops stack`/`gops memstats` from another terminal.
*/
package main

import (
	"flag"
	"math/rand"
	"os"
	"time"

	"github.com/google/gops/agent"

	"github.com/tormol/strtree"
	"github.com/tormol/strtree/geom"
	"github.com/tormol/strtree/internal/rtreelog"
	"github.com/tormol/strtree/metrics"
)

func main() {
	n := flag.Int("n", 100_000, "number of random points to index")
	m := flag.Int("m", 32, "maximum fanout per node")
	k := flag.Int("k", 10, "k for the kNN benchmark")
	queries := flag.Int("queries", 1000, "number of range/circle/kNN queries to run")
	seed := flag.Int64("seed", 1, "PRNG seed")
	gopsAgent := flag.Bool("gops", false, "start a gops diagnostics agent")
	flag.Parse()

	log := rtreelog.NewLogger(os.Stdout, rtreelog.Info)

	if *gopsAgent {
		if err := agent.Listen(agent.Options{}); err != nil {
			log.Warning("failed to start gops agent: %s", err)
		} else {
			log.Info("gops agent listening")
		}
	}

	log.Info("generating %d random points", *n)
	r := rand.New(rand.NewSource(*seed))
	entries := make([]strtree.PointEntry, *n)
	for i := range entries {
		entries[i] = strtree.PointEntry{
			Point: geom.NewPoint(r.Float64()*1000, r.Float64()*1000),
			ID:    i,
		}
	}

	rec := metrics.NopRecorder{}
	tree, err := strtree.BuildPoints(entries, *m, strtree.WithLogger(log), strtree.WithMetrics(rec))
	log.FatalIfErr(err, "build tree")

	log.Info("running %d range queries", *queries)
	start := time.Now()
	for i := 0; i < *queries; i++ {
		lo := geom.NewPoint(r.Float64()*900, r.Float64()*900)
		hi := geom.NewPoint(lo.Coord[0]+r.Float64()*100, lo.Coord[1]+r.Float64()*100)
		q, err := geom.NewMBR(lo, hi)
		log.FatalIfErr(err, "build query MBR")
		tree.Range(q)
	}
	log.Info("range: %s total, %s/query", rtreelog.RoundDuration(time.Since(start), time.Microsecond),
		rtreelog.RoundDuration(time.Since(start)/time.Duration(*queries), time.Microsecond))

	start = time.Now()
	for i := 0; i < *queries; i++ {
		origin := geom.NewPoint(r.Float64()*1000, r.Float64()*1000)
		tree.CircleRange(origin, 50)
	}
	log.Info("circle: %s total, %s/query", rtreelog.RoundDuration(time.Since(start), time.Microsecond),
		rtreelog.RoundDuration(time.Since(start)/time.Duration(*queries), time.Microsecond))

	start = time.Now()
	for i := 0; i < *queries; i++ {
		q := geom.NewPoint(r.Float64()*1000, r.Float64()*1000)
		if _, err := tree.KNN(q, *k, false); err != nil {
			log.Fatal("kNN: %s", err)
		}
	}
	log.Info("kNN(k=%d): %s total, %s/query", *k, rtreelog.RoundDuration(time.Since(start), time.Microsecond),
		rtreelog.RoundDuration(time.Since(start)/time.Duration(*queries), time.Microsecond))
}
