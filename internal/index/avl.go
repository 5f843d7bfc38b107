package index

import "strings"

// avlNode is a node of the balanced title tree. Each node is owned by
// exactly one parent slot; the tree owns the whole graph.
type avlNode struct {
	key    string
	left   *avlNode
	right  *avlNode
	height int
}

// AVLTree is a self-balancing binary search tree over title strings.
// Ordering is raw byte-wise string comparison; duplicates are rejected.
// Reads are safe to share between goroutines as long as no writer is
// active; the service container serializes rebuilds.
type AVLTree struct {
	root *avlNode
	size int
}

// NewAVLTree creates an empty tree.
func NewAVLTree() *AVLTree {
	return &AVLTree{}
}

// Len returns the number of keys in the tree.
func (t *AVLTree) Len() int {
	return t.size
}

// Height returns the height of the tree, 0 when empty.
func (t *AVLTree) Height() int {
	return height(t.root)
}

// Insert adds a key to the tree. It returns false for empty keys and for
// keys already present; the tree is unchanged in both cases.
func (t *AVLTree) Insert(key string) bool {
	key = strings.TrimSpace(key)
	if key == "" {
		return false
	}
	var inserted bool
	t.root, inserted = insert(t.root, key)
	if inserted {
		t.size++
	}
	return inserted
}

// Delete removes a key from the tree, returning false when it is absent.
func (t *AVLTree) Delete(key string) bool {
	key = strings.TrimSpace(key)
	if key == "" {
		return false
	}
	var deleted bool
	t.root, deleted = remove(t.root, key)
	if deleted {
		t.size--
	}
	return deleted
}

// Search reports whether a key is present.
func (t *AVLTree) Search(key string) bool {
	n := t.root
	key = strings.TrimSpace(key)
	for n != nil {
		switch {
		case key == n.key:
			return true
		case key < n.key:
			n = n.left
		default:
			n = n.right
		}
	}
	return false
}

// OrderedKeys returns every key in ascending order.
func (t *AVLTree) OrderedKeys() []string {
	keys := make([]string, 0, t.size)
	inorder(t.root, &keys)
	return keys
}

// SuggestPrefix returns up to max keys that start with prefix, compared
// case-insensitively, in ascending order.
func (t *AVLTree) SuggestPrefix(prefix string, max int) []string {
	if prefix == "" || max <= 0 {
		return nil
	}
	prefix = strings.ToLower(prefix)
	var out []string
	collectPrefix(t.root, prefix, max, &out)
	return out
}

func collectPrefix(n *avlNode, prefix string, max int, out *[]string) {
	if n == nil || len(*out) >= max {
		return
	}
	collectPrefix(n.left, prefix, max, out)
	if len(*out) < max && strings.HasPrefix(strings.ToLower(n.key), prefix) {
		*out = append(*out, n.key)
	}
	collectPrefix(n.right, prefix, max, out)
}

func inorder(n *avlNode, out *[]string) {
	if n == nil {
		return
	}
	inorder(n.left, out)
	*out = append(*out, n.key)
	inorder(n.right, out)
}

func height(n *avlNode) int {
	if n == nil {
		return 0
	}
	return n.height
}

func balanceFactor(n *avlNode) int {
	if n == nil {
		return 0
	}
	return height(n.left) - height(n.right)
}

func updateHeight(n *avlNode) {
	hl, hr := height(n.left), height(n.right)
	if hl > hr {
		n.height = hl + 1
	} else {
		n.height = hr + 1
	}
}

func rotateLeft(y *avlNode) *avlNode {
	x := y.right
	y.right = x.left
	x.left = y
	updateHeight(y)
	updateHeight(x)
	return x
}

func rotateRight(x *avlNode) *avlNode {
	y := x.left
	x.left = y.right
	y.right = x
	updateHeight(x)
	updateHeight(y)
	return y
}

// rebalance recomputes the height of n and applies the rotation matching
// its balance factor: LL and RR take a single rotation, LR and RL rotate
// the child first.
func rebalance(n *avlNode) *avlNode {
	updateHeight(n)
	bf := balanceFactor(n)
	if bf > 1 {
		if balanceFactor(n.left) < 0 {
			n.left = rotateLeft(n.left)
		}
		return rotateRight(n)
	}
	if bf < -1 {
		if balanceFactor(n.right) > 0 {
			n.right = rotateRight(n.right)
		}
		return rotateLeft(n)
	}
	return n
}

func insert(n *avlNode, key string) (*avlNode, bool) {
	if n == nil {
		return &avlNode{key: key, height: 1}, true
	}
	var inserted bool
	switch {
	case key == n.key:
		return n, false
	case key < n.key:
		n.left, inserted = insert(n.left, key)
	default:
		n.right, inserted = insert(n.right, key)
	}
	if !inserted {
		return n, false
	}
	return rebalance(n), true
}

func remove(n *avlNode, key string) (*avlNode, bool) {
	if n == nil {
		return nil, false
	}
	var deleted bool
	switch {
	case key < n.key:
		n.left, deleted = remove(n.left, key)
	case key > n.key:
		n.right, deleted = remove(n.right, key)
	default:
		deleted = true
		if n.left == nil {
			return n.right, true
		}
		if n.right == nil {
			return n.left, true
		}
		// Two children: splice in the in-order successor.
		succ := n.right
		for succ.left != nil {
			succ = succ.left
		}
		n.key = succ.key
		n.right, _ = remove(n.right, succ.key)
	}
	if !deleted {
		return n, false
	}
	return rebalance(n), true
}
