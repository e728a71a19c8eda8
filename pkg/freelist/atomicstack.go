package freelist

import (
	"sync/atomic"

	"github.com/iamNilotpal/tupleflow/pkg/stack"
)

// atomicStack is the global lock-free backend, spec.md §4.6 backend 3,
// built directly on the C8 Treiber stack (pkg/stack).
type atomicStack struct {
	s         *stack.Stack
	cap       int64
	allocated atomic.Int64
}

func newAtomicStack(cap int) *atomicStack {
	return &atomicStack{s: stack.New(), cap: int64(cap)}
}

func (l *atomicStack) Alloc(newFn func() any) (any, bool) {
	if v, ok := l.s.Pop(); ok {
		return v, true
	}
	if l.cap > 0 {
		for {
			cur := l.allocated.Load()
			if cur >= l.cap {
				return nil, false
			}
			if l.allocated.CompareAndSwap(cur, cur+1) {
				break
			}
		}
	} else {
		l.allocated.Add(1)
	}
	return newFn(), true
}

func (l *atomicStack) Release(v any) {
	l.s.Push(v)
}

func (l *atomicStack) Size() int {
	return int(l.s.Size())
}

func (l *atomicStack) Allocated() int {
	return int(l.allocated.Load())
}
