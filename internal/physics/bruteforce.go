package physics

// BruteForce emits every eligible pair. It is the reference the other
// strategies are checked against.
type BruteForce struct{}

func (BruteForce) Name() string { return "brute_force" }

func (BruteForce) FindPairs(bodies []*Body) []CollisionPair {
	var pairs []CollisionPair
	for i, a := range bodies {
		for _, b := range bodies[i+1:] {
			if canPair(a, b) {
				pairs = append(pairs, CollisionPair{A: a, B: b})
			}
		}
	}
	return pairs
}
