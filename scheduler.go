package compose

import (
	"github.com/gogpu/compose/internal/parallel"
)

// DefaultInlineThreshold is the subtree node count below which a child
// is not worth a pool task of its own. Dispatching tiny subtrees costs
// more in queue traffic than the measurement itself, so small siblings
// are batched into a single task.
const DefaultInlineThreshold = 16

// scheduler dispatches independent subtree measurements across the
// worker pool with a strict fork-join discipline: the parent derives
// every child's constraints before anything is dispatched, and the
// join completes before the parent computes its own size. A child's
// result is therefore always visible to the parent's subsequent steps.
type scheduler struct {
	pool        *parallel.Pool
	inlineBelow int
}

func newScheduler(pool *parallel.Pool, inlineBelow int) *scheduler {
	if inlineBelow <= 0 {
		inlineBelow = DefaultInlineThreshold
	}
	return &scheduler{pool: pool, inlineBelow: inlineBelow}
}

// measureChildren measures the children selected by idxs and writes
// their sizes into sizes[i]. Large subtrees become one pool task each;
// small subtrees share a single task. Each selected child lands in
// exactly one task, so no node is ever measured concurrently with
// itself. The pool's fork-join runs tasks that fit no queue on the
// forking goroutine, which keeps a fixed-size pool deadlock-free under
// recursive forks.
func (s *scheduler) measureChildren(p *measurePass, children []NodeID, idxs []int, sizes []Size, derive func(i int) Constraints) {
	// Constraint derivation happens before any dispatch.
	derived := make([]Constraints, len(idxs))
	for j, i := range idxs {
		derived[j] = derive(i)
	}

	if s.pool == nil || s.pool.Workers() == 1 || len(idxs) == 1 {
		for j, i := range idxs {
			sizes[i] = p.measure(children[i], derived[j])
		}
		return
	}

	tasks := make([]func(), 0, len(idxs))
	var small []int
	for j, i := range idxs {
		if p.arena.SubtreeLen(children[i]) < s.inlineBelow {
			small = append(small, j)
			continue
		}
		j, i := j, i
		tasks = append(tasks, func() {
			sizes[i] = p.measure(children[i], derived[j])
		})
	}
	if len(small) > 0 {
		tasks = append(tasks, func() {
			for _, j := range small {
				i := idxs[j]
				sizes[i] = p.measure(children[i], derived[j])
			}
		})
	}

	// A cancelled pass surfaces through the pass context in runMeasure;
	// skipped tasks leave zero sizes in a frame that is discarded anyway.
	_ = s.pool.Fork(p.ctx, tasks)
}
