package grid

import "github.com/zyedidia/generic/mapset"

// Region returns every non-wall cell 4-connected to p, as arena indices in
// BFS discovery order. A wall or out-of-bounds p yields nil.
//
// Time:   O(R·C).
// Memory: O(R·C) for the visited set and output.
func (g *Grid) Region(p Position) []int {
	if !g.InBounds(p) || g.nodes[g.index(p)].Wall {
		return nil
	}
	i0 := g.index(p)
	seen := mapset.New[int]()
	seen.Put(i0)
	queue := []int{i0}

	for qi := 0; qi < len(queue); qi++ {
		u := g.Position(queue[qi])
		for _, q := range g.Neighbors(u) {
			vi := g.index(q)
			if !seen.Has(vi) {
				seen.Put(vi)
				queue = append(queue, vi)
			}
		}
	}

	return queue
}

// Reachable reports whether a 4-connected path of non-wall cells joins from
// and to. It never touches search state, so it is safe on an idle grid
// between runs.
// Time: O(R·C).
func (g *Grid) Reachable(from, to Position) bool {
	if !g.InBounds(to) || g.nodes[g.index(to)].Wall {
		return false
	}
	target := g.index(to)
	for _, i := range g.Region(from) {
		if i == target {
			return true
		}
	}

	return false
}

// Components partitions all non-wall cells into 4-connected regions.
// Each region lists arena indices; regions appear in row-major order of their
// first cell.
func (g *Grid) Components() [][]int {
	seen := make([]bool, len(g.nodes))
	var comps [][]int
	for i := range g.nodes {
		if g.nodes[i].Wall || seen[i] {
			continue
		}
		comp := g.Region(g.Position(i))
		for _, j := range comp {
			seen[j] = true
		}
		comps = append(comps, comp)
	}

	return comps
}
