package recency

const nilSlot int32 = -1

// handle locates an entry in the list arena. gen tells a live entry apart
// from a later tenant of the same slot.
type handle struct {
	slot int32
	gen  uint32
}

type node struct {
	key  string
	prev int32
	next int32
	gen  uint32
	live bool
}

// recencyList is a doubly linked list whose nodes live in a slice and link to
// each other by slot number. Front = most recently touched.
//
// Slots freed by remove/popBack are reused, so the arena never grows past the
// largest size the list has reached.
type recencyList struct {
	nodes []node
	free  []int32
	head  int32
	tail  int32
	n     int
}

func newRecencyList(sizeHint int) *recencyList {
	return &recencyList{
		nodes: make([]node, 0, sizeHint),
		head:  nilSlot,
		tail:  nilSlot,
	}
}

func (l *recencyList) len() int { return l.n }

// pushFront stores key in a fresh entry at the front. The caller guarantees
// key is not already present.
func (l *recencyList) pushFront(key string) handle {
	slot := l.alloc(key)
	l.linkFront(slot)
	l.n++
	return handle{slot: slot, gen: l.nodes[slot].gen}
}

// remove detaches the entry behind h and returns its key.
func (l *recencyList) remove(h handle) string {
	key := l.resolve(h).key
	l.unlink(h.slot)
	l.release(h.slot)
	l.n--
	return key
}

// moveToFront repositions the entry behind h. The entry keeps its slot, so
// the returned handle is h itself.
func (l *recencyList) moveToFront(h handle) handle {
	l.resolve(h)
	if h.slot == l.head {
		return h
	}
	l.unlink(h.slot)
	l.linkFront(h.slot)
	return h
}

// popBack removes the least recent entry and returns its key.
func (l *recencyList) popBack() string {
	if l.tail == nilSlot {
		panic("recency: popBack on empty list")
	}
	slot := l.tail
	return l.remove(handle{slot: slot, gen: l.nodes[slot].gen})
}

func (l *recencyList) isFront(h handle) bool {
	return h.slot == l.head && h.slot != nilSlot && l.nodes[h.slot].gen == h.gen
}

func (l *recencyList) frontKey() (string, bool) {
	if l.head == nilSlot {
		return "", false
	}
	return l.nodes[l.head].key, true
}

func (l *recencyList) backKey() (string, bool) {
	if l.tail == nilSlot {
		return "", false
	}
	return l.nodes[l.tail].key, true
}

// walk visits entries front to back until fn returns false. It stops after
// len(nodes) steps so a corrupted link cycle cannot hang it.
func (l *recencyList) walk(fn func(key string, h handle) bool) {
	steps := 0
	for slot := l.head; slot != nilSlot && steps <= len(l.nodes); slot = l.nodes[slot].next {
		nd := &l.nodes[slot]
		if !fn(nd.key, handle{slot: slot, gen: nd.gen}) {
			return
		}
		steps++
	}
}

func (l *recencyList) keys() []string {
	out := make([]string, 0, l.n)
	l.walk(func(key string, _ handle) bool {
		out = append(out, key)
		return true
	})
	return out
}

func (l *recencyList) resolve(h handle) *node {
	if h.slot < 0 || int(h.slot) >= len(l.nodes) {
		panic("recency: handle out of range")
	}
	nd := &l.nodes[h.slot]
	if !nd.live || nd.gen != h.gen {
		panic("recency: stale handle")
	}
	return nd
}

func (l *recencyList) alloc(key string) int32 {
	if k := len(l.free); k > 0 {
		slot := l.free[k-1]
		l.free = l.free[:k-1]
		nd := &l.nodes[slot]
		nd.key = key
		nd.live = true
		return slot
	}
	l.nodes = append(l.nodes, node{key: key, prev: nilSlot, next: nilSlot, live: true})
	return int32(len(l.nodes) - 1)
}

func (l *recencyList) release(slot int32) {
	nd := &l.nodes[slot]
	nd.key = ""
	nd.live = false
	nd.gen++
	l.free = append(l.free, slot)
}

func (l *recencyList) linkFront(slot int32) {
	nd := &l.nodes[slot]
	nd.prev = nilSlot
	nd.next = l.head
	if l.head != nilSlot {
		l.nodes[l.head].prev = slot
	} else {
		l.tail = slot
	}
	l.head = slot
}

func (l *recencyList) unlink(slot int32) {
	nd := &l.nodes[slot]
	if nd.prev != nilSlot {
		l.nodes[nd.prev].next = nd.next
	} else {
		l.head = nd.next
	}
	if nd.next != nilSlot {
		l.nodes[nd.next].prev = nd.prev
	} else {
		l.tail = nd.prev
	}
	nd.prev, nd.next = nilSlot, nilSlot
}
