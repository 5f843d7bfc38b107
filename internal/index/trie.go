package index

import "strings"

// SuggestOutcome distinguishes the three results of a prefix lookup.
type SuggestOutcome int

const (
	// SuggestFound means the prefix exists and completions were collected.
	SuggestFound SuggestOutcome = iota
	// SuggestNotFound means the prefix path does not exist in the trie.
	SuggestNotFound
	// SuggestNoCompletions means the prefix is itself a leaf word with
	// nothing beyond it.
	SuggestNoCompletions
)

func (o SuggestOutcome) String() string {
	switch o {
	case SuggestFound:
		return "found"
	case SuggestNotFound:
		return "not_found"
	case SuggestNoCompletions:
		return "no_completions"
	default:
		return "unknown"
	}
}

// trieNode keeps its children in an ordered slice rather than a map: the
// suggestion contract fixes sibling traversal to insertion order, and Go
// map iteration is randomized.
type trieNode struct {
	children []trieEdge
	terminal bool
}

type trieEdge struct {
	r    rune
	node *trieNode
}

func (n *trieNode) child(r rune) *trieNode {
	for _, e := range n.children {
		if e.r == r {
			return e.node
		}
	}
	return nil
}

func (n *trieNode) ensureChild(r rune) *trieNode {
	if c := n.child(r); c != nil {
		return c
	}
	c := &trieNode{}
	n.children = append(n.children, trieEdge{r: r, node: c})
	return c
}

// Trie is a character-indexed prefix tree over lowercased words. It is
// built once from all titles at load time and rebuilt wholesale on
// reload; concurrent reads need no locking.
type Trie struct {
	root *trieNode
	size int
}

// NewTrie creates an empty trie.
func NewTrie() *Trie {
	return &Trie{root: &trieNode{}}
}

// Len returns the number of distinct words inserted.
func (t *Trie) Len() int {
	return t.size
}

// Insert adds a word to the trie. Words are lowercased; empty words are
// ignored.
func (t *Trie) Insert(word string) {
	word = strings.TrimSpace(word)
	if word == "" {
		return
	}
	n := t.root
	for _, r := range strings.ToLower(word) {
		n = n.ensureChild(r)
	}
	if !n.terminal {
		n.terminal = true
		t.size++
	}
}

// Build inserts every word of the given list.
func (t *Trie) Build(words []string) {
	for _, w := range words {
		t.Insert(w)
	}
}

// Search reports whether the exact word was inserted.
func (t *Trie) Search(word string) bool {
	if word == "" {
		return false
	}
	n := t.root
	for _, r := range strings.ToLower(strings.TrimSpace(word)) {
		if n = n.child(r); n == nil {
			return false
		}
	}
	return n.terminal
}

// Suggest returns up to max completions of prefix, collected by
// depth-first traversal from the prefix node. Siblings are visited in
// insertion order, not alphabetically; callers must not assume sorted
// suggestions. An empty prefix and a prefix whose path is absent both
// yield SuggestNotFound; a prefix that is a leaf word with no branches
// yields SuggestNoCompletions.
func (t *Trie) Suggest(prefix string, max int) ([]string, SuggestOutcome) {
	if prefix == "" {
		return nil, SuggestNotFound
	}
	lowered := strings.ToLower(prefix)
	n := t.root
	for _, r := range lowered {
		if n = n.child(r); n == nil {
			return nil, SuggestNotFound
		}
	}
	if len(n.children) == 0 {
		return nil, SuggestNoCompletions
	}
	out := make([]string, 0, max)
	collect(n, lowered, max, &out)
	return out, SuggestFound
}

func collect(n *trieNode, word string, max int, out *[]string) {
	if len(*out) >= max {
		return
	}
	if n.terminal {
		*out = append(*out, word)
	}
	for _, e := range n.children {
		if len(*out) >= max {
			return
		}
		collect(e.node, word+string(e.r), max, out)
	}
}
