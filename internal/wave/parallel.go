package wave

import (
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/Mechazawa/wave-function-collapse/internal/bitset"
	"github.com/Mechazawa/wave-function-collapse/internal/grid"
	"github.com/Mechazawa/wave-function-collapse/internal/pattern"
)

// parallel spreads one cascade over a fixed pool of workers.
//
// Every cell has its own lock, held only while its set is copied or
// restricted; a worker never holds two at once, so there is no lock order to
// get wrong. The work queue is the only other shared state. Because Restrict
// is a monotone intersection the pass reaches the same fixed point as the
// sequential engine whatever the interleaving, though not in the same order.
type parallel struct {
	cells   *grid.Grid[Superstate]
	table   *pattern.Table
	workers int
	locks   []sync.Mutex
	queue   *workQueue
}

func newParallel(cells *grid.Grid[Superstate], table *pattern.Table, workers int) *parallel {
	return &parallel{
		cells:   cells,
		table:   table,
		workers: workers,
		locks:   make([]sync.Mutex, cells.Len()),
		queue:   newWorkQueue(cells.Len()),
	}
}

func (p *parallel) Propagate(seeds []int) (int, error) {
	p.queue.reset(seeds)

	var resolved atomic.Int64
	var g errgroup.Group
	for range p.workers {
		g.Go(func() error {
			src := bitset.New(p.table.Len())
			buf := bitset.New(p.table.Len())
			for {
				m, skip, ok := p.queue.pop()
				if !ok {
					return nil
				}
				err := p.process(m, skip, src, buf, &resolved)
				p.queue.done()
				if err != nil {
					p.queue.abort()
					return err
				}
			}
		})
	}
	err := g.Wait()
	return int(resolved.Load()), err
}

// process restricts every neighbour of m by m's current possibilities.
func (p *parallel) process(m int, skip uint8, src, buf bitset.Set, resolved *atomic.Int64) error {
	p.locks[m].Lock()
	cell := p.cells.Cell(m)
	src.CopyFrom(cell.possible)
	fixed, isFixed := cell.Collapsed()
	p.locks[m].Unlock()

	for _, d := range grid.Directions {
		if skip&d.Bit() != 0 {
			continue
		}
		n, ok := p.cells.Neighbor(m, d)
		if !ok {
			continue
		}

		var allowed bitset.Set
		if isFixed {
			allowed = p.table.Support(fixed, d)
		} else {
			p.table.SupportOf(src, d, buf)
			allowed = buf
		}

		p.locks[n].Lock()
		dst := p.cells.Cell(n)
		changed, empty := dst.Restrict(allowed)
		if changed {
			// Entropy must not depend on the order restrictions land in.
			dst.resum()
		}
		_, nowFixed := dst.Collapsed()
		p.locks[n].Unlock()

		if empty {
			x, y := p.cells.Coord(n)
			return &ContradictionError{X: x, Y: y}
		}
		if changed {
			if nowFixed {
				resolved.Add(1)
			}
			p.queue.push(n, d.Opposite().Bit())
		}
	}
	return nil
}

// workQueue is the shared dirty-cell queue of the parallel engine.
// pop blocks while the queue is empty but some worker may still add to it.
type workQueue struct {
	mu      sync.Mutex
	cond    *sync.Cond
	items   []int
	queued  []bool
	skip    []uint8
	active  int
	aborted bool
}

func newWorkQueue(n int) *workQueue {
	q := &workQueue{
		items:  make([]int, 0, n),
		queued: make([]bool, n),
		skip:   make([]uint8, n),
	}
	q.cond = sync.NewCond(&q.mu)
	return q
}

func (q *workQueue) reset(seeds []int) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, i := range q.items {
		q.queued[i] = false
	}
	q.items = q.items[:0]
	q.active = 0
	q.aborted = false
	for _, s := range seeds {
		q.pushLocked(s, 0)
	}
}

func (q *workQueue) push(i int, skip uint8) {
	q.mu.Lock()
	q.pushLocked(i, skip)
	q.mu.Unlock()
}

func (q *workQueue) pushLocked(i int, skip uint8) {
	if q.queued[i] {
		q.skip[i] &= skip
		return
	}
	q.queued[i] = true
	q.skip[i] = skip
	q.items = append(q.items, i)
	q.cond.Signal()
}

func (q *workQueue) pop() (int, uint8, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.items) == 0 && q.active > 0 && !q.aborted {
		q.cond.Wait()
	}
	if q.aborted || len(q.items) == 0 {
		return -1, 0, false
	}

	last := len(q.items) - 1
	i := q.items[last]
	q.items = q.items[:last]
	q.queued[i] = false
	q.active++
	return i, q.skip[i], true
}

// done marks the end of the item returned by the matching pop.
func (q *workQueue) done() {
	q.mu.Lock()
	q.active--
	if q.active == 0 && len(q.items) == 0 {
		q.cond.Broadcast()
	}
	q.mu.Unlock()
}

func (q *workQueue) abort() {
	q.mu.Lock()
	q.aborted = true
	q.cond.Broadcast()
	q.mu.Unlock()
}
