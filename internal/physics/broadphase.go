package physics

// CollisionPair is two bodies whose bounds may overlap this step.
type CollisionPair struct {
	A, B *Body
}

// PairKey identifies an unordered pair of bodies.
type PairKey struct {
	Lo, Hi BodyID
}

// makePairKey orders the handles so (a, b) and (b, a) share a key.
func makePairKey(a, b BodyID) PairKey {
	if b.less(a) {
		return PairKey{Lo: b, Hi: a}
	}
	return PairKey{Lo: a, Hi: b}
}

func (p CollisionPair) Key() PairKey {
	return makePairKey(p.A.id, p.B.id)
}

// Broadphase finds candidate pairs. Implementations may return pairs whose
// bounds don't overlap, but must never miss a pair whose bounds do.
type Broadphase interface {
	Name() string
	FindPairs(bodies []*Body) []CollisionPair
}

// canPair reports whether two bodies are worth testing at all: both need a
// shape, and at least one must be awake.
func canPair(a, b *Body) bool {
	if a == b || len(a.shapes) == 0 || len(b.shapes) == 0 {
		return false
	}
	return !(a.AtRest && b.AtRest)
}

// dedupePairs drops repeated pairs, keeping first occurrences in order.
func dedupePairs(pairs []CollisionPair) []CollisionPair {
	if len(pairs) < 2 {
		return pairs
	}
	seen := make(map[PairKey]bool, len(pairs))
	out := pairs[:0]
	for _, p := range pairs {
		k := p.Key()
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, p)
	}
	return out
}
