// Package rbtree implements the ordered key index spec.md §4.9 (C9)
// describes: a red-black tree of (key, record, origin-channel) entries used
// by sort/eviction operators, backed by a preallocated node pool rather
// than per-node heap allocation on the hot path.
//
// Nodes live in a flat slice addressed by index instead of pointers — the
// idiomatic Go rendition of original_source's node-pool-by-index pattern
// (see spec.md §9's design note): index 0 is reserved as the permanent
// sentinel "nil" node, so every rotation and fix-up can dereference a
// child or parent without a nil check, exactly as the original's sentinel
// node does.
//
// Tree is not safe for concurrent use; spec.md §4.9/§5 call this out
// explicitly — "operations are single-threaded and expect the caller to
// serialize" — so callers embed one Tree per worker, or guard it with
// their own lock.
package rbtree

import wserrors "github.com/iamNilotpal/tupleflow/pkg/errors"

// Comparator orders two keys: -1 if a < b, 0 if equal, +1 if a > b.
// Implementations must be strict total orders; Tree never calls it with
// either argument nil.
type Comparator func(a, b any) int

const nilIdx = 0

type color bool

const (
	red   color = true
	black color = false
)

type node struct {
	key     any
	record  any
	channel int

	left, right, parent int
	c                    color
	inUse                bool
}

// Tree is a red-black tree with a bounded, preallocated node arena.
type Tree struct {
	cmp Comparator

	nodes   []node
	freeIdx []int
	cap     int

	root int
	min  int
	max  int
	last int
}

// Config configures a new Tree.
type Config struct {
	// Comparator orders keys; required.
	Comparator Comparator

	// NodePoolSize bounds how many entries the tree may hold at once.
	// Zero means the arena grows without a hard cap.
	NodePoolSize int
}

// New constructs an empty Tree.
func New(config Config) (*Tree, error) {
	if config.Comparator == nil {
		return nil, wserrors.NewRequiredFieldError("Comparator")
	}

	t := &Tree{cmp: config.Comparator, cap: config.NodePoolSize}
	arena := 16
	if config.NodePoolSize > 0 {
		arena = config.NodePoolSize + 1
	}
	t.nodes = make([]node, 1, arena)
	t.nodes[nilIdx] = node{c: black}
	t.root, t.min, t.max, t.last = nilIdx, nilIdx, nilIdx, nilIdx
	return t, nil
}

// Len returns the number of keys currently held.
func (t *Tree) Len() int {
	n := 0
	for i := 1; i < len(t.nodes); i++ {
		if t.nodes[i].inUse {
			n++
		}
	}
	return n
}

func (t *Tree) allocNode(key, record any, channel int) (int, bool) {
	if len(t.freeIdx) > 0 {
		idx := t.freeIdx[len(t.freeIdx)-1]
		t.freeIdx = t.freeIdx[:len(t.freeIdx)-1]
		t.nodes[idx] = node{key: key, record: record, channel: channel, c: red, inUse: true}
		return idx, true
	}

	if t.cap > 0 && len(t.nodes)-1 >= t.cap {
		return nilIdx, false
	}

	t.nodes = append(t.nodes, node{key: key, record: record, channel: channel, c: red, inUse: true})
	return len(t.nodes) - 1, true
}

func (t *Tree) freeNode(idx int) {
	t.nodes[idx] = node{}
	t.freeIdx = append(t.freeIdx, idx)
}

func (t *Tree) n(idx int) *node { return &t.nodes[idx] }

// Insert adds (key, record, channel) to the tree, maintaining both the
// minimum and maximum caches — spec.md §4.9's "initial path," meant for
// warm-up before the tree has a stable working set. Returns false only
// when the node pool is exhausted.
func (t *Tree) Insert(key, record any, channel int) bool {
	return t.insert(key, record, channel, t.root, true)
}

// InsertAfterLast adds (key, record, channel), starting the search from the
// last-inserted node instead of the root — spec.md §4.9's steady-state
// path, which assumes the minimum is never displaced by anything but
// DeleteMin and so skips re-checking it. Near-sorted input (the common
// case for a sort/eviction operator) turns into a short local walk instead
// of a full root-to-leaf descent.
func (t *Tree) InsertAfterLast(key, record any, channel int) bool {
	start := t.last
	if start == nilIdx {
		start = t.root
	}
	return t.insert(key, record, channel, start, false)
}

func (t *Tree) insert(key, record any, channel int, hint int, maintainMin bool) bool {
	idx, ok := t.allocNode(key, record, channel)
	if !ok {
		return false
	}

	if t.root == nilIdx {
		t.n(idx).c = black
		t.root, t.min, t.max, t.last = idx, idx, idx, idx
		return true
	}

	// Fast path: when hint is the current maximum (resp. minimum) and key
	// continues the ascending (resp. descending) run, the insertion point
	// must lie along hint's right (resp. left) spine — no need to touch
	// the root at all. This is the local walk spec.md §4.9 describes for
	// near-sorted input; anything else falls back to a root descent,
	// which is always correct regardless of where hint points.
	var parent int
	cur := nilIdx
	if hint == t.max && t.cmp(key, t.n(hint).key) > 0 {
		cur = hint
		for t.n(cur).right != nilIdx {
			cur = t.n(cur).right
		}
		parent = cur
		cur = nilIdx
	} else if hint == t.min && t.cmp(key, t.n(hint).key) < 0 {
		cur = hint
		for t.n(cur).left != nilIdx {
			cur = t.n(cur).left
		}
		parent = cur
		cur = nilIdx
	} else {
		cur = t.root
		for cur != nilIdx {
			parent = cur
			if t.cmp(key, t.n(cur).key) < 0 {
				cur = t.n(cur).left
			} else {
				cur = t.n(cur).right
			}
		}
	}

	t.n(idx).parent = parent
	if t.cmp(key, t.n(parent).key) < 0 {
		t.n(parent).left = idx
	} else {
		t.n(parent).right = idx
	}

	if maintainMin && t.cmp(key, t.n(t.min).key) < 0 {
		t.min = idx
	}
	if t.cmp(key, t.n(t.max).key) > 0 {
		t.max = idx
	}
	t.last = idx

	t.insertFixup(idx)
	return true
}

func (t *Tree) rotateLeft(x int) {
	y := t.n(x).right
	t.n(x).right = t.n(y).left
	if t.n(y).left != nilIdx {
		t.n(t.n(y).left).parent = x
	}
	t.n(y).parent = t.n(x).parent
	if t.n(x).parent == nilIdx {
		t.root = y
	} else if x == t.n(t.n(x).parent).left {
		t.n(t.n(x).parent).left = y
	} else {
		t.n(t.n(x).parent).right = y
	}
	t.n(y).left = x
	t.n(x).parent = y
}

func (t *Tree) rotateRight(x int) {
	y := t.n(x).left
	t.n(x).left = t.n(y).right
	if t.n(y).right != nilIdx {
		t.n(t.n(y).right).parent = x
	}
	t.n(y).parent = t.n(x).parent
	if t.n(x).parent == nilIdx {
		t.root = y
	} else if x == t.n(t.n(x).parent).right {
		t.n(t.n(x).parent).right = y
	} else {
		t.n(t.n(x).parent).left = y
	}
	t.n(y).right = x
	t.n(x).parent = y
}

func (t *Tree) insertFixup(z int) {
	for t.n(t.n(z).parent).c == red {
		parent := t.n(z).parent
		grandparent := t.n(parent).parent
		if parent == t.n(grandparent).left {
			uncle := t.n(grandparent).right
			if t.n(uncle).c == red {
				t.n(parent).c = black
				t.n(uncle).c = black
				t.n(grandparent).c = red
				z = grandparent
				continue
			}
			if z == t.n(parent).right {
				z = parent
				t.rotateLeft(z)
				parent = t.n(z).parent
				grandparent = t.n(parent).parent
			}
			t.n(parent).c = black
			t.n(grandparent).c = red
			t.rotateRight(grandparent)
		} else {
			uncle := t.n(grandparent).left
			if t.n(uncle).c == red {
				t.n(parent).c = black
				t.n(uncle).c = black
				t.n(grandparent).c = red
				z = grandparent
				continue
			}
			if z == t.n(parent).left {
				z = parent
				t.rotateRight(z)
				parent = t.n(z).parent
				grandparent = t.n(parent).parent
			}
			t.n(parent).c = black
			t.n(grandparent).c = red
			t.rotateLeft(grandparent)
		}
	}
	t.n(t.root).c = black
}

func (t *Tree) minimumFrom(x int) int {
	for t.n(x).left != nilIdx {
		x = t.n(x).left
	}
	return x
}

func (t *Tree) maximumFrom(x int) int {
	for t.n(x).right != nilIdx {
		x = t.n(x).right
	}
	return x
}

func (t *Tree) transplant(u, v int) {
	if t.n(u).parent == nilIdx {
		t.root = v
	} else if u == t.n(t.n(u).parent).left {
		t.n(t.n(u).parent).left = v
	} else {
		t.n(t.n(u).parent).right = v
	}
	t.n(v).parent = t.n(u).parent
}

// DeleteMin removes and returns the minimum entry, or ok=false if the tree
// is empty. Per spec.md §4.9, DeleteMin is the only operation allowed to
// displace the cached minimum in the steady-state path.
func (t *Tree) DeleteMin() (record any, channel int, ok bool) {
	if t.root == nilIdx {
		return nil, 0, false
	}
	z := t.min
	record, channel = t.n(z).record, t.n(z).channel
	t.deleteNode(z)
	return record, channel, true
}

// Delete removes the entry with the given key, if present.
func (t *Tree) Delete(key any) (record any, channel int, ok bool) {
	z := t.find(key)
	if z == nilIdx {
		return nil, 0, false
	}
	record, channel = t.n(z).record, t.n(z).channel
	t.deleteNode(z)
	return record, channel, true
}

func (t *Tree) find(key any) int {
	cur := t.root
	for cur != nilIdx {
		c := t.cmp(key, t.n(cur).key)
		if c == 0 {
			return cur
		}
		if c < 0 {
			cur = t.n(cur).left
		} else {
			cur = t.n(cur).right
		}
	}
	return nilIdx
}

func (t *Tree) deleteNode(z int) {
	y := z
	yOriginalColor := t.n(y).c
	var x int

	if t.n(z).left == nilIdx {
		x = t.n(z).right
		t.transplant(z, t.n(z).right)
	} else if t.n(z).right == nilIdx {
		x = t.n(z).left
		t.transplant(z, t.n(z).left)
	} else {
		y = t.minimumFrom(t.n(z).right)
		yOriginalColor = t.n(y).c
		x = t.n(y).right
		if t.n(y).parent == z {
			t.n(x).parent = y
		} else {
			t.transplant(y, t.n(y).right)
			t.n(y).right = t.n(z).right
			t.n(t.n(y).right).parent = y
		}
		t.transplant(z, y)
		t.n(y).left = t.n(z).left
		t.n(t.n(y).left).parent = y
		t.n(y).c = t.n(z).c
	}

	if yOriginalColor == black {
		t.deleteFixup(x)
	}

	if t.min == z {
		if t.root == nilIdx {
			t.min = nilIdx
		} else {
			t.min = t.minimumFrom(t.root)
		}
	}
	if t.max == z {
		if t.root == nilIdx {
			t.max = nilIdx
		} else {
			t.max = t.maximumFrom(t.root)
		}
	}
	if t.last == z {
		t.last = t.root
	}

	t.freeNode(z)
}

func (t *Tree) deleteFixup(x int) {
	for x != t.root && t.n(x).c == black {
		parent := t.n(x).parent
		if x == t.n(parent).left {
			w := t.n(parent).right
			if t.n(w).c == red {
				t.n(w).c = black
				t.n(parent).c = red
				t.rotateLeft(parent)
				parent = t.n(x).parent
				w = t.n(parent).right
			}
			if t.n(t.n(w).left).c == black && t.n(t.n(w).right).c == black {
				t.n(w).c = red
				x = parent
				continue
			}
			if t.n(t.n(w).right).c == black {
				t.n(t.n(w).left).c = black
				t.n(w).c = red
				t.rotateRight(w)
				parent = t.n(x).parent
				w = t.n(parent).right
			}
			t.n(w).c = t.n(parent).c
			t.n(parent).c = black
			t.n(t.n(w).right).c = black
			t.rotateLeft(parent)
			x = t.root
		} else {
			w := t.n(parent).left
			if t.n(w).c == red {
				t.n(w).c = black
				t.n(parent).c = red
				t.rotateRight(parent)
				parent = t.n(x).parent
				w = t.n(parent).left
			}
			if t.n(t.n(w).right).c == black && t.n(t.n(w).left).c == black {
				t.n(w).c = red
				x = parent
				continue
			}
			if t.n(t.n(w).left).c == black {
				t.n(t.n(w).right).c = black
				t.n(w).c = red
				t.rotateLeft(w)
				parent = t.n(x).parent
				w = t.n(parent).left
			}
			t.n(w).c = t.n(parent).c
			t.n(parent).c = black
			t.n(t.n(w).left).c = black
			t.rotateRight(parent)
			x = t.root
		}
	}
	t.n(x).c = black
}

// Entry is one (key, record, channel) tuple returned by Enumerate.
type Entry struct {
	Key     any
	Record  any
	Channel int
}

// Enumerate returns every entry with a key in the closed range [low, high],
// in ascending key order, mirroring spec.md §4.9's "returns a stack of
// nodes in a closed key range."
func (t *Tree) Enumerate(low, high any) []Entry {
	var out []Entry
	t.enumerate(t.root, low, high, &out)
	return out
}

func (t *Tree) enumerate(x int, low, high any, out *[]Entry) {
	if x == nilIdx {
		return
	}
	if t.cmp(t.n(x).key, low) > 0 {
		t.enumerate(t.n(x).left, low, high, out)
	}
	if t.cmp(t.n(x).key, low) >= 0 && t.cmp(t.n(x).key, high) <= 0 {
		*out = append(*out, Entry{Key: t.n(x).key, Record: t.n(x).record, Channel: t.n(x).channel})
	}
	if t.cmp(t.n(x).key, high) < 0 {
		t.enumerate(t.n(x).right, low, high, out)
	}
}

// Min returns the minimum entry, if any.
func (t *Tree) Min() (Entry, bool) {
	if t.min == nilIdx {
		return Entry{}, false
	}
	n := t.n(t.min)
	return Entry{Key: n.key, Record: n.record, Channel: n.channel}, true
}

// Max returns the maximum entry, if any.
func (t *Tree) Max() (Entry, bool) {
	if t.max == nilIdx {
		return Entry{}, false
	}
	n := t.n(t.max)
	return Entry{Key: n.key, Record: n.record, Channel: n.channel}, true
}
