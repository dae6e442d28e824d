package river

import "regionmap/internal/core"

type item struct {
	cell  core.Coord
	f     int
	g     int
	seq   int
	index int
}

// frontier is a min-heap on f; equal f values pop in insertion order.
type frontier []*item

func (pq frontier) Len() int { return len(pq) }

func (pq frontier) Less(i, j int) bool {
	if pq[i].f != pq[j].f {
		return pq[i].f < pq[j].f
	}
	return pq[i].seq < pq[j].seq
}

func (pq frontier) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *frontier) Push(x any) {
	it := x.(*item)
	it.index = len(*pq)
	*pq = append(*pq, it)
}

func (pq *frontier) Pop() any {
	old := *pq
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	it.index = -1
	*pq = old[:n-1]
	return it
}
