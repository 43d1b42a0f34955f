package physics

// Octree splits space at box midpoints until divisions are small enough,
// then lets Secondary find pairs inside each leaf. A body straddling several
// children is placed in all of them, so the same pair can come back more
// than once; callers must dedupe.
type Octree struct {
	MaxObjects int
	MaxDepth   int
	Secondary  Broadphase

	leaves []AABB
}

func NewOctree(maxObjects, maxDepth int, secondary Broadphase) *Octree {
	if secondary == nil {
		secondary = BruteForce{}
	}
	return &Octree{MaxObjects: maxObjects, MaxDepth: maxDepth, Secondary: secondary}
}

func (o *Octree) Name() string { return "octree" }

// Leaves returns the leaf boxes built by the last FindPairs call.
func (o *Octree) Leaves() []AABB { return o.leaves }

type octreeItem struct {
	body   *Body
	bounds AABB
}

func (o *Octree) FindPairs(bodies []*Body) []CollisionPair {
	o.leaves = o.leaves[:0]
	items := make([]octreeItem, 0, len(bodies))
	root := emptyAABB()
	for _, b := range bodies {
		if len(b.shapes) == 0 {
			continue
		}
		box := b.WorldBounds()
		items = append(items, octreeItem{body: b, bounds: box})
		root = root.Union(box)
	}
	if len(items) < 2 {
		return nil
	}

	var pairs []CollisionPair
	o.divide(root, items, 0, &pairs)
	return pairs
}

func (o *Octree) divide(box AABB, items []octreeItem, depth int, pairs *[]CollisionPair) {
	if len(items) > o.MaxObjects && depth < o.MaxDepth {
		children := o.split(box, items)
		// Stop when splitting doesn't shrink any division.
		shrinks := false
		for _, c := range children {
			if len(c.items) > 0 && len(c.items) < len(items) {
				shrinks = true
				break
			}
		}
		if shrinks {
			for _, c := range children {
				if len(c.items) > 1 {
					o.divide(c.box, c.items, depth+1, pairs)
				}
			}
			return
		}
	}

	o.leaves = append(o.leaves, box)
	leaf := make([]*Body, len(items))
	for i, it := range items {
		leaf[i] = it.body
	}
	secondary := o.Secondary
	if secondary == nil {
		secondary = BruteForce{}
	}
	*pairs = append(*pairs, secondary.FindPairs(leaf)...)
}

type octant struct {
	box   AABB
	items []octreeItem
}

func (o *Octree) split(box AABB, items []octreeItem) [8]octant {
	var out [8]octant
	mid := box.Center()
	for i := range out {
		lo, hi := box.Min, mid
		if i&1 != 0 {
			lo.X, hi.X = mid.X, box.Max.X
		}
		if i&2 != 0 {
			lo.Y, hi.Y = mid.Y, box.Max.Y
		}
		if i&4 != 0 {
			lo.Z, hi.Z = mid.Z, box.Max.Z
		}
		out[i].box = AABB{Min: lo, Max: hi}
	}
	for _, it := range items {
		for i := range out {
			if out[i].box.Intersects(it.bounds) {
				out[i].items = append(out[i].items, it)
			}
		}
	}
	return out
}
