// Package trie implements the dual n-gram trie that backs the Markov model:
// a forward tree predicting the next symbol from the preceding context, and
// a backward tree predicting the preceding symbol from what follows.
//
// Each node owns its children outright; trees never share nodes, and nodes
// are never removed once created.
package trie

import (
	"sort"

	"megahal/internal/symbol"
)

// maxCount is the saturation ceiling for Node.Count. Once reached, further
// observations are dropped without incrementing Count or the parent's Usage.
const maxCount = 65535

// Node is one point in an n-gram path. Symbol is the id that was observed to
// reach this node from its parent; Count is how often that happened; Usage
// is the sum of the (possibly saturated) counts of this node's children.
type Node struct {
	Symbol   symbol.ID
	Count    uint16
	Usage    uint32
	children []*Node // kept sorted by Symbol for O(log b) lookup
}

// NewRoot returns a fresh root node: Symbol/Count/Usage all zero.
func NewRoot() *Node {
	return &Node{}
}

// NewNode constructs a node with an explicit symbol, count, and usage,
// bypassing the Observe saturation logic. This is for rehydrating a node from
// a serialized snapshot, where the counts were already computed by whatever
// learning produced the original trie; it must not be used for learning.
func NewNode(sym symbol.ID, count uint16, usage uint32) *Node {
	return &Node{Symbol: sym, Count: count, Usage: usage}
}

// AppendChild attaches child to n without upserting or sorting. Callers must
// append children in increasing Symbol order, matching the invariant
// maintained by UpsertChild; this is satisfied when children are replayed in
// the order a prior Children() call produced them.
func (n *Node) AppendChild(child *Node) {
	n.children = append(n.children, child)
}

// Children returns the node's children in symbol order. The returned slice
// must not be mutated by the caller.
func (n *Node) Children() []*Node { return n.children }

// Branch reports how many distinct children n has.
func (n *Node) Branch() int { return len(n.children) }

func (n *Node) search(sym symbol.ID) (int, bool) {
	i := sort.Search(len(n.children), func(i int) bool { return n.children[i].Symbol >= sym })
	if i < len(n.children) && n.children[i].Symbol == sym {
		return i, true
	}
	return i, false
}

// Child returns the child of n reached via sym, or nil if none exists.
func (n *Node) Child(sym symbol.ID) *Node {
	if n == nil {
		return nil
	}
	if i, ok := n.search(sym); ok {
		return n.children[i]
	}
	return nil
}

// UpsertChild returns the existing child of n reached via sym, creating it
// (with Count=0, Usage=0) if it does not already exist.
func (n *Node) UpsertChild(sym symbol.ID) *Node {
	i, ok := n.search(sym)
	if ok {
		return n.children[i]
	}
	child := &Node{Symbol: sym}
	n.children = append(n.children, nil)
	copy(n.children[i+1:], n.children[i:])
	n.children[i] = child
	return child
}

// Observe upserts the child of n reached via sym and records one more
// observation of it, saturating at maxCount. When the child is already
// saturated neither its Count nor n's Usage changes, per the count/usage
// invariant.
func (n *Node) Observe(sym symbol.ID) *Node {
	child := n.UpsertChild(sym)
	if child.Count < maxCount {
		child.Count++
		n.Usage++
	}
	return child
}

// Tree is one of the model's two n-gram trees.
type Tree struct {
	Root *Node
}

// NewTree returns an empty tree with a fresh root.
func NewTree() *Tree { return &Tree{Root: NewRoot()} }

// Context is the sliding window of trie-node references maintained during
// learning, generation, and scoring. Context[0] is always the tree's root;
// Context[d] for d>0 is the node reached by the last d observed symbols, or
// nil once a depth has no matching path.
type Context []*Node

// NewContext returns a context window of length order+2, pinned at the
// given root.
func NewContext(root *Node, order int) Context {
	ctx := make(Context, order+2)
	ctx[0] = root
	return ctx
}

// Reset re-pins ctx at root and clears every deeper slot.
func (ctx Context) Reset(root *Node) {
	ctx[0] = root
	for i := 1; i < len(ctx); i++ {
		ctx[i] = nil
	}
}

// Walk advances ctx by one observed symbol without mutating the trie: for
// each depth d from len(ctx)-1 down to 1, Context[d] becomes the child of
// Context[d-1] reached via sym (or nil if Context[d-1] is nil or has no such
// child).
func (ctx Context) Walk(sym symbol.ID) {
	for d := len(ctx) - 1; d >= 1; d-- {
		if ctx[d-1] != nil {
			ctx[d] = ctx[d-1].Child(sym)
		} else {
			ctx[d] = nil
		}
	}
}

// WalkObserve advances ctx by one symbol while extending the trie: for each
// depth d from len(ctx)-1 down to 1, Context[d] becomes the observed child
// of Context[d-1] (upserted and incremented), provided Context[d-1] is
// non-nil. This is the learning primitive; it extends every depth 1..order+1
// in one pass.
func (ctx Context) WalkObserve(sym symbol.ID) {
	for d := len(ctx) - 1; d >= 1; d-- {
		if ctx[d-1] != nil {
			ctx[d] = ctx[d-1].Observe(sym)
		} else {
			ctx[d] = nil
		}
	}
}

// Deepest returns the deepest non-nil node in ctx at depth <= maxDepth,
// along with its depth.
func (ctx Context) Deepest(maxDepth int) (*Node, int) {
	for d := maxDepth; d >= 0; d-- {
		if d < len(ctx) && ctx[d] != nil {
			return ctx[d], d
		}
	}
	return nil, -1
}
