package freelist

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// mutexHomed is spec.md §4.6 backend 4 — the default for multi-threaded
// builds: a fixed set of per-shard caches, each guarded by its own mutex
// standing in for the original's per-cache spinlock, plus a coarse lock
// guarding the central overflow list and aggregate sizing. A real
// OS-thread-local cache has no portable Go equivalent (goroutines carry no
// stable identity to hang a cache off), so every Alloc and Release call
// picks the next shard round-robin instead of by thread affinity. A value
// does not remember a home shard: Release puts it in whichever shard that
// call picked.
type mutexHomed struct {
	shards []*shard

	next atomic.Uint64

	blockSize int
	cap       int

	coarse    sync.Mutex
	central   []any
	allocated atomic.Int64
}

type shard struct {
	mu    sync.Mutex
	items []homedValue
}

type homedValue struct {
	value any
	home  int
}

const maxShards = 32

func newMutexHomed(cap int, blockSize int) *mutexHomed {
	n := runtime.GOMAXPROCS(0) * 2
	if n < 2 {
		n = 2
	}
	if n > maxShards {
		n = maxShards
	}
	if blockSize <= 0 {
		blockSize = 16
	}

	m := &mutexHomed{shards: make([]*shard, n), blockSize: blockSize, cap: cap}
	for i := range m.shards {
		m.shards[i] = &shard{}
	}
	return m
}

func (m *mutexHomed) pick() int {
	return int(m.next.Add(1)-1) % len(m.shards)
}

func (m *mutexHomed) Alloc(newFn func() any) (any, bool) {
	idx := m.pick()
	sh := m.shards[idx]

	sh.mu.Lock()
	if n := len(sh.items); n > 0 {
		hv := sh.items[n-1]
		sh.items = sh.items[:n-1]
		sh.mu.Unlock()
		return hv.value, true
	}
	sh.mu.Unlock()

	// The shard is empty; check the coarse-locked central list (refilled
	// by drainBlock's overflow) before constructing a brand new value.
	if v, ok := m.takeCentral(); ok {
		return v, true
	}

	// Then take an idle value from any other shard, so a value released to
	// a different shard than this call picked is reused, not replaced.
	for i := 1; i < len(m.shards); i++ {
		other := m.shards[(idx+i)%len(m.shards)]
		other.mu.Lock()
		if n := len(other.items); n > 0 {
			hv := other.items[n-1]
			other.items = other.items[:n-1]
			other.mu.Unlock()
			return hv.value, true
		}
		other.mu.Unlock()
	}

	if m.cap > 0 {
		for {
			cur := m.allocated.Load()
			if cur >= int64(m.cap) {
				return nil, false
			}
			if m.allocated.CompareAndSwap(cur, cur+1) {
				break
			}
		}
	} else {
		m.allocated.Add(1)
	}
	return newFn(), true
}

// Release puts v in the cache of the shard picked round-robin for this
// call. The shard index is stored beside v, but nothing records which
// shard v was allocated from, so v is not sent back to that shard.
func (m *mutexHomed) Release(v any) {
	idx := m.pick()
	sh := m.shards[idx]
	sh.mu.Lock()
	sh.items = append(sh.items, homedValue{value: v, home: idx})
	drain := len(sh.items) >= 2*m.blockSize
	sh.mu.Unlock()

	if drain {
		m.drainBlock(sh)
	}
}

// drainBlock trims an overfull shard cache back down to blockSize,
// mirroring the release-overflow trigger of spec.md §4.6 backend 2 (cache
// >= 2*BLOCK_SIZE). spec.md §4.6 describes backend 4's coarse lock as used
// "only on destruction and aggregate sizing," with no license to discard
// cached values, so the excess moves to the coarse-lock-guarded central
// list instead of being dropped — Alloc checks that list before
// constructing a new value, keeping allocated(L) conserved across any
// sequence of releases and allocations.
func (m *mutexHomed) drainBlock(sh *shard) {
	m.coarse.Lock()
	defer m.coarse.Unlock()

	sh.mu.Lock()
	if len(sh.items) <= m.blockSize {
		sh.mu.Unlock()
		return
	}
	excess := len(sh.items) - m.blockSize
	overflow := make([]any, excess)
	for i, hv := range sh.items[m.blockSize:] {
		overflow[i] = hv.value
	}
	sh.items = sh.items[:m.blockSize]
	sh.mu.Unlock()

	m.central = append(m.central, overflow...)
}

// takeCentral pops one value from the coarse-locked central list, if any.
func (m *mutexHomed) takeCentral() (any, bool) {
	m.coarse.Lock()
	defer m.coarse.Unlock()
	n := len(m.central)
	if n == 0 {
		return nil, false
	}
	v := m.central[n-1]
	m.central = m.central[:n-1]
	return v, true
}

func (m *mutexHomed) Size() int {
	m.coarse.Lock()
	total := len(m.central)
	m.coarse.Unlock()
	for _, sh := range m.shards {
		sh.mu.Lock()
		total += len(sh.items)
		sh.mu.Unlock()
	}
	return total
}

func (m *mutexHomed) Allocated() int {
	return int(m.allocated.Load())
}
