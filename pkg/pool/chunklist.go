package pool

// chunkList is a circular doubly-linked list of chunks, anchored by a
// sentinel chunk that never holds any nodes (its zero capacity and empty
// address range make it harmless to treat like any other chunk during a
// traversal). Insert and spliceOne run in O(1).
type chunkList struct {
	sentinel chunk
}

func (l *chunkList) init() {
	l.sentinel.next = &l.sentinel
	l.sentinel.prev = &l.sentinel
}

func (l *chunkList) empty() bool {
	return l.sentinel.next == &l.sentinel
}

// first returns the chunk nearest the front of the list, or nil if empty.
func (l *chunkList) first() *chunk {
	if l.empty() {
		return nil
	}
	return l.sentinel.next
}

// insert splices c in at the front of the list.
func (l *chunkList) insert(c *chunk) {
	c.next = l.sentinel.next
	c.prev = &l.sentinel
	l.sentinel.next.prev = c
	l.sentinel.next = c
}

// remove detaches c from whichever list it is currently linked into.
func (l *chunkList) remove(c *chunk) {
	c.prev.next = c.next
	c.next.prev = c.prev
}

// spliceOne detaches the chunk at the head of other and splices it into the
// front of l, returning it. Returns nil if other is empty.
func (l *chunkList) spliceOne(other *chunkList) *chunk {
	c := other.first()
	if c == nil {
		return nil
	}
	other.remove(c)
	l.insert(c)
	return c
}

// fixup repairs the sentinel's neighbors' back/forward links after l's
// struct value has been relocated (e.g. by a field-wise swap): the
// sentinel's own address changed, but the first and last real chunks still
// point at the old one.
func (l *chunkList) fixup() {
	if l.empty() {
		return
	}
	l.sentinel.next.prev = &l.sentinel
	l.sentinel.prev.next = &l.sentinel
}

// walk performs a bidirectional simultaneous walk of the circular list that
// pivot belongs to: one cursor advances via next, the other via prev, one
// step each iteration, until either matches or both cursors arrive back at
// pivot having covered every other chunk exactly once. This gives
// locality-friendly search — chunks near pivot are examined first — while
// bounding the walk to O(n) over the n chunks in the list.
func walk(pivot *chunk, match func(*chunk) bool) *chunk {
	next, prev := pivot.next, pivot.prev
	for next != pivot || prev != pivot {
		if match(next) {
			return next
		}
		if match(prev) {
			return prev
		}
		next = next.next
		prev = prev.prev
	}
	return nil
}
