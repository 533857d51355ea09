package recency

import "strconv"

type treeNode struct {
	key    string
	h      handle
	left   *treeNode
	right  *treeNode
	height int8
}

// keyIndex maps keys to list handles with an AVL tree, so lookups stay
// O(log n) even when keys arrive in sorted order.
type keyIndex struct {
	root *treeNode
	n    int
}

func (t *keyIndex) len() int { return t.n }

func (t *keyIndex) lookup(key string) (handle, bool) {
	if n := t.find(key); n != nil {
		return n.h, true
	}
	return handle{}, false
}

// insert panics if key is already present.
func (t *keyIndex) insert(key string, h handle) {
	t.root = insertAt(t.root, key, h)
	t.n++
}

// update panics if key is absent.
func (t *keyIndex) update(key string, h handle) {
	n := t.find(key)
	if n == nil {
		panic("recency: update of absent key " + strconv.Quote(key))
	}
	n.h = h
}

// remove panics if key is absent.
func (t *keyIndex) remove(key string) {
	t.root = removeAt(t.root, key)
	t.n--
}

// ascend visits keys in increasing order until fn returns false.
func (t *keyIndex) ascend(fn func(key string, h handle) bool) {
	var stack []*treeNode
	n := t.root
	for n != nil || len(stack) > 0 {
		for n != nil {
			stack = append(stack, n)
			n = n.left
		}
		n = stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(n.key, n.h) {
			return
		}
		n = n.right
	}
}

func (t *keyIndex) depth() int { return int(height(t.root)) }

func (t *keyIndex) find(key string) *treeNode {
	n := t.root
	for n != nil {
		switch {
		case key < n.key:
			n = n.left
		case key > n.key:
			n = n.right
		default:
			return n
		}
	}
	return nil
}

func insertAt(n *treeNode, key string, h handle) *treeNode {
	if n == nil {
		return &treeNode{key: key, h: h, height: 1}
	}
	switch {
	case key < n.key:
		n.left = insertAt(n.left, key, h)
	case key > n.key:
		n.right = insertAt(n.right, key, h)
	default:
		panic("recency: duplicate key " + strconv.Quote(key))
	}
	return rebalance(n)
}

func removeAt(n *treeNode, key string) *treeNode {
	if n == nil {
		panic("recency: remove of absent key " + strconv.Quote(key))
	}
	switch {
	case key < n.key:
		n.left = removeAt(n.left, key)
	case key > n.key:
		n.right = removeAt(n.right, key)
	default:
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		right, succ := removeMin(n.right)
		succ.left, succ.right = n.left, right
		return rebalance(succ)
	}
	return rebalance(n)
}

// removeMin detaches the smallest node of the subtree and returns the new
// subtree root along with the detached node.
func removeMin(n *treeNode) (*treeNode, *treeNode) {
	if n.left == nil {
		return n.right, n
	}
	var m *treeNode
	n.left, m = removeMin(n.left)
	return rebalance(n), m
}

func height(n *treeNode) int8 {
	if n == nil {
		return 0
	}
	return n.height
}

func fixHeight(n *treeNode) {
	n.height = 1 + max(height(n.left), height(n.right))
}

func balanceFactor(n *treeNode) int8 {
	return height(n.left) - height(n.right)
}

func rotateRight(n *treeNode) *treeNode {
	l := n.left
	n.left = l.right
	l.right = n
	fixHeight(n)
	fixHeight(l)
	return l
}

func rotateLeft(n *treeNode) *treeNode {
	r := n.right
	n.right = r.left
	r.left = n
	fixHeight(n)
	fixHeight(r)
	return r
}

func rebalance(n *treeNode) *treeNode {
	fixHeight(n)
	switch bf := balanceFactor(n); {
	case bf > 1:
		if balanceFactor(n.left) < 0 {
			n.left = rotateLeft(n.left)
		}
		return rotateRight(n)
	case bf < -1:
		if balanceFactor(n.right) > 0 {
			n.right = rotateRight(n.right)
		}
		return rotateLeft(n)
	}
	return n
}
