// Stress test timing every broad-phase strategy against brute force and
// checking that none of them misses a pair.
package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"rigid3d/internal/physics"
)

const iterations = 10

func main() {
	testCounts := []int{100, 500, 1000, 2000, 5000}
	maxCount := testCounts[len(testCounts)-1]

	gpu := physics.NewGPUBroadphase(uint32(maxCount))
	defer gpu.Release()
	if !gpu.Available() {
		fmt.Println("GPU broad-phase unavailable, timing its CPU fallback")
	}

	strategies := []physics.Broadphase{
		physics.NewSortAndSweep(physics.AxisX),
		physics.NewOctree(8, 6, physics.NewSortAndSweep(physics.AxisX)),
		physics.NewOctree(8, 6, nil),
		gpu,
	}

	failed := false
	for _, count := range testCounts {
		if !testBroadPhase(count, strategies) {
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

// randomBodies scatters spheres and rotated boxes in a cube whose size grows
// with count to keep density reasonable. They are registered with an engine
// so pairs get real handles.
func randomBodies(count int) []*physics.Body {
	eng := physics.NewEngine(physics.DefaultConfig())
	rng := rand.New(rand.NewSource(42)) // Consistent results
	spawnSize := float32(50.0) + float32(count)/100.0

	for i := 0; i < count; i++ {
		b := physics.NewBody(fmt.Sprintf("body_%d", i))
		b.SetPosition(rl.Vector3{
			X: rng.Float32()*spawnSize - spawnSize/2,
			Y: rng.Float32()*spawnSize - spawnSize/2,
			Z: rng.Float32()*spawnSize - spawnSize/2,
		})
		if i%2 == 0 {
			b.AddShape(physics.NewSphere(0.5 + rng.Float32()*0.5))
		} else {
			half := 0.3 + rng.Float32()*0.7
			b.AddShape(physics.NewCuboid(rl.Vector3{X: half, Y: half, Z: half}))
			axis := rl.Vector3Normalize(rl.Vector3{X: rng.Float32() - 0.5, Y: rng.Float32() - 0.5, Z: rng.Float32() - 0.5 + 1e-3})
			b.SetOrientation(rl.QuaternionFromAxisAngle(axis, rng.Float32()*rl.Pi))
		}
		if _, err := eng.AddBody(b); err != nil {
			panic(err)
		}
	}
	return eng.Bodies().All()
}

func testBroadPhase(count int, strategies []physics.Broadphase) bool {
	bodies := randomBodies(count)

	reference := physics.BruteForce{}
	all, bruteTime := timePairs(reference, bodies)
	fmt.Printf("%5d objects: %-14s %10v (%5d pairs)\n", count, reference.Name(), bruteTime.Round(time.Microsecond), len(all))

	// Only pairs whose bounds overlap must be found.
	var want []physics.CollisionPair
	for _, p := range all {
		if p.A.WorldBounds().Intersects(p.B.WorldBounds()) {
			want = append(want, p)
		}
	}

	ok := true
	for _, bp := range strategies {
		got, elapsed := timePairs(bp, bodies)
		keys := make(map[physics.PairKey]bool, len(got))
		for _, p := range got {
			keys[p.Key()] = true
		}
		missing := 0
		for _, p := range want {
			if !keys[p.Key()] {
				missing++
			}
		}

		status := "ok"
		if missing > 0 {
			status = fmt.Sprintf("MISSED %d", missing)
			ok = false
		}
		speedup := float64(bruteTime) / float64(elapsed)
		fmt.Printf("%5d objects: %-14s %10v (%5d pairs) | %.1fx | %s\n",
			count, bp.Name(), elapsed.Round(time.Microsecond), len(keys), speedup, status)
	}
	fmt.Println()
	return ok
}

func timePairs(bp physics.Broadphase, bodies []*physics.Body) ([]physics.CollisionPair, time.Duration) {
	// Warm up
	pairs := bp.FindPairs(bodies)

	start := time.Now()
	for i := 0; i < iterations; i++ {
		pairs = bp.FindPairs(bodies)
	}
	return pairs, time.Since(start) / iterations
}
