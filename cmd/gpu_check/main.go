// GPU broad-phase smoke test: reports the adapter, runs the overlap shader on
// a grid of boxes and compares the pairs with a CPU pass.
package main

import (
	"fmt"
	"math/rand"
	"os"

	"rigid3d/internal/compute"
)

const boxCount = 512

func main() {
	// 1. Adapter
	info, err := compute.Initialize()
	if err != nil {
		fmt.Printf("No GPU compute available: %v\n", err)
		os.Exit(1)
	}
	defer compute.Get().Release()
	fmt.Printf("Using GPU: %s (%s, %s)\n", info.Name, info.Backend, info.DeviceType)
	if info.Driver != "" {
		fmt.Printf("Driver: %s\n", info.Driver)
	}

	// 2. Boxes scattered in a 30m cube
	rng := rand.New(rand.NewSource(7))
	boxes := make([]compute.Box, boxCount)
	for i := range boxes {
		x, y, z := rng.Float32()*30, rng.Float32()*30, rng.Float32()*30
		h := 0.25 + rng.Float32()
		boxes[i] = compute.NewBox(x-h, y-h, z-h, x+h, y+h, z+h)
	}

	// 3. GPU pass
	bp, err := compute.NewBroadPhase(boxCount, boxCount*20)
	if err != nil {
		fmt.Printf("Failed to create broad-phase: %v\n", err)
		os.Exit(1)
	}
	defer bp.Release()

	gpuPairs, err := bp.DetectPairs(boxes)
	if err != nil {
		fmt.Printf("Dispatch failed: %v\n", err)
		os.Exit(1)
	}

	// 4. CPU reference
	want := make(map[compute.Pair]bool)
	for i := range boxes {
		for j := i + 1; j < len(boxes); j++ {
			if overlaps(boxes[i], boxes[j]) {
				want[compute.Pair{A: uint32(i), B: uint32(j)}] = true
			}
		}
	}

	got := make(map[compute.Pair]bool, len(gpuPairs))
	for _, p := range gpuPairs {
		got[p] = true
	}
	missing := 0
	for p := range want {
		if !got[p] {
			missing++
		}
	}

	fmt.Printf("Boxes: %d  CPU pairs: %d  GPU pairs: %d\n", boxCount, len(want), len(got))
	if missing > 0 || len(got) != len(want) {
		fmt.Printf("FAIL: %d pairs missing, %d extra\n", missing, len(got)-(len(want)-missing))
		os.Exit(1)
	}
	fmt.Println("OK")
}

func overlaps(a, b compute.Box) bool {
	return a.MinX <= b.MaxX && a.MaxX >= b.MinX &&
		a.MinY <= b.MaxY && a.MaxY >= b.MinY &&
		a.MinZ <= b.MaxZ && a.MaxZ >= b.MinZ
}
