package crawl

import (
	"container/heap"
	"strings"
	"sync"

	"github.com/fwojciec/ramendb"
	"github.com/fwojciec/ramendb/bloom"
)

// DefaultMaxRefetch is how many times a mis-served page is fetched again
// before the frontier gives up on it.
const DefaultMaxRefetch = 5

var _ ramendb.URLFrontier = (*Frontier)(nil)

// Frontier is an in-memory URL frontier with a priority queue and Bloom
// filter deduplication. Links of equal priority pop in insertion order.
// It is safe for concurrent use by multiple goroutines.
type Frontier struct {
	mu         sync.Mutex
	seen       *bloom.Filter
	queue      *linkHeap
	seq        uint64
	refetches  map[string]int
	maxRefetch int
}

// NewFrontier creates a new Frontier sized for n expected URLs
// with the given false positive rate for deduplication.
func NewFrontier(n uint, fpRate float64) *Frontier {
	h := &linkHeap{}
	heap.Init(h)
	return &Frontier{
		seen:       bloom.NewFilter(n, fpRate),
		queue:      h,
		refetches:  make(map[string]int),
		maxRefetch: DefaultMaxRefetch,
	}
}

// SetMaxRefetch sets the per-URL re-fetch budget. Zero or less disables
// re-fetching.
func (f *Frontier) SetMaxRefetch(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.maxRefetch = n
}

// Push adds a link to the frontier.
// Returns false if the URL has already been seen. URLs differing only by
// fragment are duplicates.
func (f *Frontier) Push(link ramendb.DiscoveredLink) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	link.URL = stripFragment(link.URL)
	if f.seen.TestAndAdd(link.URL) {
		return false
	}
	f.enqueue(link)
	return true
}

// Requeue adds a link again without consulting the dedup filter.
// Returns false once the URL has used up its re-fetch budget.
func (f *Frontier) Requeue(link ramendb.DiscoveredLink) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	link.URL = stripFragment(link.URL)
	if f.refetches[link.URL] >= f.maxRefetch {
		return false
	}
	f.refetches[link.URL]++
	f.seen.Add(link.URL)
	f.enqueue(link)
	return true
}

func (f *Frontier) enqueue(link ramendb.DiscoveredLink) {
	f.seq++
	heap.Push(f.queue, queuedLink{link: link, seq: f.seq})
}

// Pop returns the next link by priority.
// The bool result is false if the frontier is empty.
func (f *Frontier) Pop() (ramendb.DiscoveredLink, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.queue.Len() == 0 {
		return ramendb.DiscoveredLink{}, false
	}
	q, _ := heap.Pop(f.queue).(queuedLink)
	return q.link, true
}

// Len returns the number of URLs in the queue.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queue.Len()
}

// Seen returns true if the URL has been processed or queued.
func (f *Frontier) Seen(rawURL string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seen.Test(stripFragment(rawURL))
}

// Discovered returns the approximate number of distinct URLs seen.
func (f *Frontier) Discovered() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int(f.seen.EstimatedCount())
}

func stripFragment(rawURL string) string {
	if idx := strings.Index(rawURL, "#"); idx != -1 {
		return rawURL[:idx]
	}
	return rawURL
}

type queuedLink struct {
	link ramendb.DiscoveredLink
	seq  uint64
}

// linkHeap implements heap.Interface as a max-heap on priority.
type linkHeap []queuedLink

func (h linkHeap) Len() int { return len(h) }

// Less orders by priority, then by insertion.
func (h linkHeap) Less(i, j int) bool {
	if h[i].link.Priority != h[j].link.Priority {
		return h[i].link.Priority > h[j].link.Priority
	}
	return h[i].seq < h[j].seq
}

func (h linkHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *linkHeap) Push(x any) {
	q, _ := x.(queuedLink)
	*h = append(*h, q)
}

func (h *linkHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}
