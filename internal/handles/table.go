// Package handles provides an arena of values addressed by stable,
// generation-checked keys.
//
// A [Key] stays valid until the value it names is removed. Removing a value
// bumps the generation of its slot, so a stale key never resolves again even
// after the slot has been recycled for a new value. Live values are linked in
// insertion order, which makes [Table.Next] and [Table.Prev] O(1).
//
// # Thread Safety
//
// A Table is not safe for concurrent use. Callers that share one across
// goroutines must serialise access themselves.
package handles

import (
	"fmt"
	"iter"
)

// Key identifies a value in a [Table]. The zero Key is [None].
type Key uint64

// None is the before-first / after-last sentinel and the "no value" key.
const None Key = 0

func makeKey(index, gen uint32) Key { return Key(uint64(gen)<<32 | uint64(index)) }

func (k Key) index() uint32      { return uint32(k) }
func (k Key) generation() uint32 { return uint32(k >> 32) }

func (k Key) String() string {
	if k == None {
		return "none"
	}
	return fmt.Sprintf("%d:%d", k.index(), k.generation())
}

type slot[T any] struct {
	value      T
	gen        uint32
	live       bool
	prev, next uint32
}

// Table is a generational arena. The zero value is ready to use.
type Table[T any] struct {
	// slots[0] is never handed out so that index 0 can mean "no link".
	slots      []slot[T]
	free       []uint32
	head, tail uint32
	count      int
}

func New[T any]() *Table[T] {
	return &Table[T]{slots: make([]slot[T], 1)}
}

// Add stores v and returns its key. Freed slots are reused before the arena
// grows; the new value is appended to the iteration order.
func (t *Table[T]) Add(v T) Key {
	if len(t.slots) == 0 {
		t.slots = make([]slot[T], 1)
	}

	var idx uint32
	if n := len(t.free); n > 0 {
		idx = t.free[n-1]
		t.free = t.free[:n-1]
	} else {
		t.slots = append(t.slots, slot[T]{gen: 1})
		idx = uint32(len(t.slots) - 1)
	}

	s := &t.slots[idx]
	s.value = v
	s.live = true
	s.next = 0
	s.prev = t.tail
	if t.tail != 0 {
		t.slots[t.tail].next = idx
	} else {
		t.head = idx
	}
	t.tail = idx
	t.count++

	return makeKey(idx, s.gen)
}

func (t *Table[T]) lookup(k Key) (uint32, bool) {
	idx := k.index()
	if idx == 0 || int(idx) >= len(t.slots) {
		return 0, false
	}
	s := &t.slots[idx]
	if !s.live || s.gen != k.generation() {
		return 0, false
	}
	return idx, true
}

// Remove deletes the value named by k. It reports false, and changes
// nothing, when k is stale or unknown.
func (t *Table[T]) Remove(k Key) bool {
	idx, ok := t.lookup(k)
	if !ok {
		return false
	}
	t.release(idx)
	return true
}

func (t *Table[T]) release(idx uint32) {
	s := &t.slots[idx]
	if s.prev != 0 {
		t.slots[s.prev].next = s.next
	} else {
		t.head = s.next
	}
	if s.next != 0 {
		t.slots[s.next].prev = s.prev
	} else {
		t.tail = s.prev
	}

	var zero T
	s.value = zero
	s.live = false
	s.prev, s.next = 0, 0
	s.gen++
	if s.gen == 0 {
		s.gen = 1
	}
	t.free = append(t.free, idx)
	t.count--
}

// Get returns a pointer to the value named by k. The pointer is only valid
// until the next Add or Remove.
func (t *Table[T]) Get(k Key) (*T, bool) {
	idx, ok := t.lookup(k)
	if !ok {
		return nil, false
	}
	return &t.slots[idx].value, true
}

func (t *Table[T]) Contains(k Key) bool {
	_, ok := t.lookup(k)
	return ok
}

func (t *Table[T]) Len() int { return t.count }

// Clear removes every value. Keys issued before Clear stay stale forever.
func (t *Table[T]) Clear() {
	for idx := t.head; idx != 0; {
		next := t.slots[idx].next
		t.release(idx)
		idx = next
	}
}

func (t *Table[T]) keyAt(idx uint32) Key {
	if idx == 0 {
		return None
	}
	return makeKey(idx, t.slots[idx].gen)
}

// Next returns the key after k in insertion order. Next(None) is the first
// key, the last key is followed by None, and a stale k yields None.
func (t *Table[T]) Next(k Key) Key {
	if k == None {
		return t.keyAt(t.head)
	}
	idx, ok := t.lookup(k)
	if !ok {
		return None
	}
	return t.keyAt(t.slots[idx].next)
}

// Prev mirrors Next: Prev(None) is the last key.
func (t *Table[T]) Prev(k Key) Key {
	if k == None {
		return t.keyAt(t.tail)
	}
	idx, ok := t.lookup(k)
	if !ok {
		return None
	}
	return t.keyAt(t.slots[idx].prev)
}

// All iterates live values in insertion order. The loop body may add or
// remove values; it never sees a key that is no longer live.
func (t *Table[T]) All() iter.Seq2[Key, *T] {
	return func(yield func(Key, *T) bool) {
		for idx := t.head; idx != 0; {
			next := t.slots[idx].next
			key := t.keyAt(idx)
			if !yield(key, &t.slots[idx].value) {
				return
			}
			if t.slots[idx].live && t.keyAt(idx) == key {
				next = t.slots[idx].next
			}
			if next != 0 && !t.slots[next].live {
				return
			}
			idx = next
		}
	}
}

// Keys returns a snapshot of the live keys in insertion order.
func (t *Table[T]) Keys() []Key {
	keys := make([]Key, 0, t.count)
	for idx := t.head; idx != 0; idx = t.slots[idx].next {
		keys = append(keys, t.keyAt(idx))
	}
	return keys
}
