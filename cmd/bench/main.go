package main

import (
	"flag"
	"log"
	"time"

	"github.com/milk9111/impulse/common"
	"github.com/milk9111/impulse/prefabs"
)

type result struct {
	snapshot prefabs.Snapshot
	elapsed  time.Duration
	slowest  time.Duration
	events   int
}

func run(name string, ticks int, delta float64) (result, error) {
	scene, err := prefabs.LoadScene(name)
	if err != nil {
		return result{}, err
	}
	var r result
	start := time.Now()
	for i := 0; i < ticks; i++ {
		r.events += len(scene.Engine.Update(delta))
		if d := scene.Engine.Timing().LastElapsed; d > r.slowest {
			r.slowest = d
		}
	}
	r.elapsed = time.Since(start)
	r.snapshot = prefabs.TakeSnapshot(scene.Name, scene.Engine)
	return r, nil
}

func main() {
	sceneName := flag.String("scene", "pyramid", "scene name in prefabs/ (basename, .yaml optional)")
	ticks := flag.Int("ticks", 600, "number of engine updates")
	delta := flag.Float64("delta", common.BaseDelta, "tick length in milliseconds")
	checkDeterminism := flag.Bool("check-determinism", false, "run twice and compare the final state bit for bit")
	flag.Parse()

	if *ticks <= 0 {
		log.Fatalf("bench: -ticks must be positive, got %d", *ticks)
	}

	r, err := run(*sceneName, *ticks, *delta)
	if err != nil {
		log.Fatal(err)
	}
	perTick := r.elapsed / time.Duration(*ticks)
	log.Printf("bench: %s: %d bodies, %d ticks in %v (%v/tick, %.0f ticks/s, slowest %v), %d events",
		*sceneName, len(r.snapshot.Bodies), *ticks, r.elapsed, perTick,
		float64(*ticks)/r.elapsed.Seconds(), r.slowest, r.events)

	sleeping := 0
	for _, b := range r.snapshot.Bodies {
		if b.Sleeping {
			sleeping++
		}
	}
	digest := r.snapshot.Digest()
	log.Printf("bench: %d sleeping, digest %s", sleeping, digest)

	if !*checkDeterminism {
		return
	}
	again, err := run(*sceneName, *ticks, *delta)
	if err != nil {
		log.Fatal(err)
	}
	if other := again.snapshot.Digest(); other != digest {
		log.Fatalf("bench: runs diverged: %s != %s", digest, other)
	}
	log.Printf("bench: deterministic across two runs")
}
