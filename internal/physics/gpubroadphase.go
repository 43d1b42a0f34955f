package physics

import (
	"cmp"
	"log"
	"slices"
	"time"

	"rigid3d/internal/compute"
)

// GPUBroadphase tests all bounding boxes against each other in a compute
// shader. Without a usable GPU, or when a dispatch fails, it hands the
// bodies to Fallback instead.
type GPUBroadphase struct {
	Fallback Broadphase

	gpu         *compute.BroadPhase
	boxes       []compute.Box
	index       []*Body
	lastLogTime time.Time
}

// NewGPUBroadphase initializes compute and allocates room for maxObjects
// bodies. It never fails; check Available to see whether the GPU is used.
func NewGPUBroadphase(maxObjects uint32) *GPUBroadphase {
	g := &GPUBroadphase{Fallback: NewSortAndSweep(AxisX)}

	info, err := compute.Initialize()
	if err != nil {
		log.Printf("Physics: GPU broad-phase unavailable (%v), using %s", err, g.Fallback.Name())
		return g
	}
	bp, err := compute.NewBroadPhase(maxObjects, maxObjects*20)
	if err != nil {
		log.Printf("Physics: GPU broad-phase setup failed (%v), using %s", err, g.Fallback.Name())
		return g
	}
	g.gpu = bp
	log.Printf("Physics: GPU broad-phase ready on %s (%s), capacity %d", info.Name, info.Backend, maxObjects)
	return g
}

func (g *GPUBroadphase) Name() string { return "gpu" }

// Available reports whether pairs come from the GPU.
func (g *GPUBroadphase) Available() bool { return g.gpu != nil }

func (g *GPUBroadphase) FindPairs(bodies []*Body) []CollisionPair {
	if g.gpu == nil {
		return g.Fallback.FindPairs(bodies)
	}

	g.boxes = g.boxes[:0]
	g.index = g.index[:0]
	for _, b := range bodies {
		if len(b.shapes) == 0 {
			continue
		}
		box := b.WorldBounds()
		g.boxes = append(g.boxes, compute.NewBox(box.Min.X, box.Min.Y, box.Min.Z, box.Max.X, box.Max.Y, box.Max.Z))
		g.index = append(g.index, b)
	}
	if uint32(len(g.boxes)) > g.gpu.MaxObjects() {
		return g.Fallback.FindPairs(bodies)
	}

	raw, err := g.gpu.DetectPairs(g.boxes)
	if err != nil {
		if time.Since(g.lastLogTime) >= time.Second {
			g.lastLogTime = time.Now()
			log.Printf("Physics: GPU broad-phase failed (%v), using %s for this step", err, g.Fallback.Name())
		}
		return g.Fallback.FindPairs(bodies)
	}

	// The shader appends in completion order; sort for a deterministic step.
	slices.SortFunc(raw, func(x, y compute.Pair) int {
		if c := cmp.Compare(x.A, y.A); c != 0 {
			return c
		}
		return cmp.Compare(x.B, y.B)
	})

	pairs := make([]CollisionPair, 0, len(raw))
	for _, p := range raw {
		a, b := g.index[p.A], g.index[p.B]
		if canPair(a, b) {
			pairs = append(pairs, CollisionPair{A: a, B: b})
		}
	}
	return pairs
}

// Release frees GPU resources.
func (g *GPUBroadphase) Release() {
	if g.gpu != nil {
		g.gpu.Release()
		g.gpu = nil
	}
}
