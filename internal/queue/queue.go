// Package queue provides a bounded top-k selector over (index, score) items.
package queue

// Item is a scored candidate. Value-based to avoid pointer indirection and
// per-item allocations on the selection hot path.
type Item struct {
	Index int64   // Index identifies the candidate key (or pair position).
	Score float32 // Score is the similarity; higher is better.
}

// TopK keeps the k highest-scoring items pushed into it. Internally it is a
// min-heap on score so the worst retained candidate is evicted in O(log k).
// Tie order among equal scores is unspecified.
type TopK struct {
	k     int
	items []Item
}

// NewTopK creates a selector retaining the k best items. k must be positive.
func NewTopK(k int) *TopK {
	return &TopK{k: k, items: make([]Item, 0, k)}
}

// Len returns the number of retained items.
func (q *TopK) Len() int { return len(q.items) }

// Push offers an item to the selector.
func (q *TopK) Push(item Item) {
	if len(q.items) < q.k {
		q.items = append(q.items, item)
		q.siftUp(len(q.items) - 1)
		return
	}
	if item.Score <= q.items[0].Score {
		return
	}
	q.items[0] = item
	q.siftDown(0)
}

// PopAscending removes and returns the lowest-scoring retained item.
func (q *TopK) PopAscending() (Item, bool) {
	n := len(q.items)
	if n == 0 {
		return Item{}, false
	}
	root := q.items[0]
	last := q.items[n-1]
	q.items[n-1] = Item{}
	q.items = q.items[:n-1]
	if n-1 > 0 {
		q.items[0] = last
		q.siftDown(0)
	}
	return root, true
}

// Descending drains the selector and returns the retained items ordered by
// score, highest first. The selector is empty afterwards.
func (q *TopK) Descending() []Item {
	out := make([]Item, len(q.items))
	for i := len(out) - 1; i >= 0; i-- {
		item, _ := q.PopAscending()
		out[i] = item
	}
	return out
}

func (q *TopK) less(i, j int) bool {
	return q.items[i].Score < q.items[j].Score
}

func (q *TopK) siftUp(i int) {
	for i > 0 {
		p := (i - 1) / 2
		if !q.less(i, p) {
			return
		}
		q.items[i], q.items[p] = q.items[p], q.items[i]
		i = p
	}
}

func (q *TopK) siftDown(i int) {
	n := len(q.items)
	for {
		l := 2*i + 1
		if l >= n {
			return
		}
		best := l
		if r := l + 1; r < n && q.less(r, l) {
			best = r
		}
		if !q.less(best, i) {
			return
		}
		q.items[i], q.items[best] = q.items[best], q.items[i]
		i = best
	}
}
