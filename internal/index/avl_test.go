package index

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checkBalanced(t *testing.T, n *avlNode) int {
	t.Helper()
	if n == nil {
		return 0
	}
	hl := checkBalanced(t, n.left)
	hr := checkBalanced(t, n.right)
	bf := hl - hr
	require.True(t, bf >= -1 && bf <= 1, "balance factor %d at %q", bf, n.key)
	h := hl
	if hr > hl {
		h = hr
	}
	require.Equal(t, h+1, n.height, "stale height at %q", n.key)
	return h + 1
}

func TestAVLTree_InsertSearchDelete(t *testing.T) {
	tree := NewAVLTree()

	assert.True(t, tree.Insert("Batman"))
	assert.True(t, tree.Insert("Avatar"))
	assert.True(t, tree.Insert("Catwoman"))
	assert.Equal(t, 3, tree.Len())

	assert.True(t, tree.Search("Avatar"))
	assert.False(t, tree.Search("Dune"))

	assert.True(t, tree.Delete("Avatar"))
	assert.False(t, tree.Search("Avatar"))
	assert.False(t, tree.Delete("Avatar"))
	assert.Equal(t, 2, tree.Len())
}

func TestAVLTree_RejectsEmptyAndDuplicate(t *testing.T) {
	tree := NewAVLTree()

	assert.False(t, tree.Insert(""))
	assert.False(t, tree.Insert("   "))

	require.True(t, tree.Insert("Avatar"))
	before := tree.OrderedKeys()

	assert.False(t, tree.Insert("Avatar"))
	assert.Equal(t, before, tree.OrderedKeys())
	assert.Equal(t, 1, tree.Len())
}

func TestAVLTree_DeleteFromEmpty(t *testing.T) {
	tree := NewAVLTree()
	assert.False(t, tree.Delete("Avatar"))
}

func TestAVLTree_BalancedAfterEveryOperation(t *testing.T) {
	tree := NewAVLTree()
	rng := rand.New(rand.NewSource(42))

	keys := make([]string, 200)
	for i := range keys {
		keys[i] = fmt.Sprintf("title-%03d", i)
	}
	rng.Shuffle(len(keys), func(i, j int) { keys[i], keys[j] = keys[j], keys[i] })

	for _, k := range keys {
		require.True(t, tree.Insert(k))
		checkBalanced(t, tree.root)
	}

	ordered := tree.OrderedKeys()
	require.Len(t, ordered, len(keys))
	assert.True(t, sort.StringsAreSorted(ordered))
	for i := 1; i < len(ordered); i++ {
		assert.Less(t, ordered[i-1], ordered[i], "keys must be strictly ascending")
	}

	rng.Shuffle(len(keys), func(i, j int) { keys[i], keys[j] = keys[j], keys[i] })
	for _, k := range keys[:100] {
		require.True(t, tree.Delete(k))
		checkBalanced(t, tree.root)
	}
	assert.Equal(t, 100, tree.Len())
	assert.True(t, sort.StringsAreSorted(tree.OrderedKeys()))
}

func TestAVLTree_DeleteNodeWithTwoChildren(t *testing.T) {
	tree := NewAVLTree()
	for _, k := range []string{"m", "d", "t", "b", "f", "p", "x"} {
		require.True(t, tree.Insert(k))
	}

	require.True(t, tree.Delete("m"))
	checkBalanced(t, tree.root)
	assert.Equal(t, []string{"b", "d", "f", "p", "t", "x"}, tree.OrderedKeys())
}

func TestAVLTree_SuggestPrefix(t *testing.T) {
	tree := NewAVLTree()
	for _, k := range []string{"Avatar", "Avengers", "Batman", "avalanche"} {
		require.True(t, tree.Insert(k))
	}

	got := tree.SuggestPrefix("AV", 10)
	assert.Equal(t, []string{"Avatar", "Avengers", "avalanche"}, got)

	got = tree.SuggestPrefix("av", 2)
	assert.Len(t, got, 2)

	assert.Empty(t, tree.SuggestPrefix("zz", 10))
	assert.Empty(t, tree.SuggestPrefix("", 10))
}
