package routing

import "container/heap"

// entry is one candidate on the search frontier. PathVia holds the nodes
// already walked, starting at the sink, so its length is the number of
// flights between Node and the sink.
type entry struct {
	Node    string
	Cost    int
	PathVia []string
	Score   int

	seq uint64
}

// frontier orders entries by Score, then Cost, then Node, then insertion
// order, so equal-score searches are reproducible.
type frontier struct {
	items []*entry
	next  uint64
}

func (f *frontier) Len() int { return len(f.items) }

func (f *frontier) Less(i, j int) bool {
	a, b := f.items[i], f.items[j]
	if a.Score != b.Score {
		return a.Score < b.Score
	}
	if a.Cost != b.Cost {
		return a.Cost < b.Cost
	}
	if a.Node != b.Node {
		return a.Node < b.Node
	}
	return a.seq < b.seq
}

func (f *frontier) Swap(i, j int) { f.items[i], f.items[j] = f.items[j], f.items[i] }

func (f *frontier) Push(x interface{}) { f.items = append(f.items, x.(*entry)) }

func (f *frontier) Pop() interface{} {
	old := f.items
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	f.items = old[:n-1]
	return item
}

func (f *frontier) add(e *entry) {
	e.seq = f.next
	f.next++
	heap.Push(f, e)
}

func (f *frontier) shift() *entry {
	return heap.Pop(f).(*entry)
}

func (f *frontier) empty() bool { return len(f.items) == 0 }

// traceEntry records a popped frontier entry. Skipped entries exceeded the
// hop bound and were not expanded.
type traceEntry struct {
	*entry
	Skipped bool
}

// trace is the append-only log of popped entries for one search.
type trace []traceEntry

// lastAccepted returns the most recent unskipped entry at node.
func (t trace) lastAccepted(node string) *entry {
	for i := len(t) - 1; i >= 0; i-- {
		if !t[i].Skipped && t[i].Node == node {
			return t[i].entry
		}
	}
	return nil
}
