package astar

// openItem is an open-set entry. f and h mirror the node's keys at the time
// of the last push or fix, so heap order never reads live node fields.
type openItem struct {
	id    int     // arena index
	f     float64 // G + H
	h     int     // tie-break: lower h is closer to the goal
	index int     // position in the heap, maintained by Swap/Push/Pop
}

// openQueue is a min-heap of *openItem ordered by f, then h.
// An item whose key improves is repositioned with heap.Fix.
type openQueue []*openItem

// Len returns the number of items in the heap.
func (q openQueue) Len() int { return len(q) }

// Less orders by f ascending, ties by h ascending.
func (q openQueue) Less(i, j int) bool {
	if q[i].f != q[j].f {
		return q[i].f < q[j].f
	}
	return q[i].h < q[j].h
}

// Swap swaps two elements and keeps their heap indices current.
func (q openQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

// Push adds x, which must be *openItem. Called by heap.Push.
func (q *openQueue) Push(x interface{}) {
	it := x.(*openItem)
	it.index = len(*q)
	*q = append(*q, it)
}

// Pop removes the last element. Called by heap.Pop.
func (q *openQueue) Pop() interface{} {
	old := *q
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	it.index = -1
	*q = old[:n-1]

	return it
}
