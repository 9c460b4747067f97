package search

import "container/heap"

type entry struct {
	priority float64
	seq      uint64
	plan     Plan
}

// frontier is a min-heap on priority. Equal priorities pop in insertion
// order.
type frontier struct {
	items []entry
	next  uint64
}

func (f *frontier) Len() int { return len(f.items) }

func (f *frontier) Less(i, j int) bool {
	if f.items[i].priority != f.items[j].priority {
		return f.items[i].priority < f.items[j].priority
	}
	return f.items[i].seq < f.items[j].seq
}

func (f *frontier) Swap(i, j int) { f.items[i], f.items[j] = f.items[j], f.items[i] }

func (f *frontier) Push(x any) { f.items = append(f.items, x.(entry)) }

func (f *frontier) Pop() any {
	old := f.items
	n := len(old)
	it := old[n-1]
	old[n-1] = entry{}
	f.items = old[:n-1]
	return it
}

func (f *frontier) push(priority float64, plan Plan) {
	heap.Push(f, entry{priority: priority, seq: f.next, plan: plan})
	f.next++
}

func (f *frontier) pop() entry {
	return heap.Pop(f).(entry)
}
