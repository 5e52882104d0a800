package trie

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"megahal/internal/symbol"
)

func TestUpsertChildCreatesOnce(t *testing.T) {
	root := NewRoot()
	a := root.UpsertChild(5)
	b := root.UpsertChild(5)
	assert.Same(t, a, b)
	assert.Equal(t, 1, root.Branch())
}

func TestChildLookupMissingReturnsNil(t *testing.T) {
	root := NewRoot()
	root.UpsertChild(1)
	assert.Nil(t, root.Child(99))
}

func TestObserveIncrementsCountAndParentUsage(t *testing.T) {
	root := NewRoot()
	child := root.Observe(7)
	assert.EqualValues(t, 1, child.Count)
	assert.EqualValues(t, 1, root.Usage)

	root.Observe(7)
	assert.EqualValues(t, 2, child.Count)
	assert.EqualValues(t, 2, root.Usage)
}

func TestUsageEqualsSumOfChildCounts(t *testing.T) {
	root := NewRoot()
	for i := 0; i < 3; i++ {
		root.Observe(symbol.ID(10))
	}
	for i := 0; i < 5; i++ {
		root.Observe(symbol.ID(11))
	}
	var sum uint32
	for _, c := range root.Children() {
		sum += uint32(c.Count)
	}
	assert.Equal(t, sum, root.Usage)
}

func TestSaturationDropsCountAndUsageIncrements(t *testing.T) {
	root := NewRoot()
	child := root.UpsertChild(3)
	child.Count = 65535
	root.Usage = 65535

	root.Observe(3)
	assert.EqualValues(t, 65535, child.Count)
	assert.EqualValues(t, 65535, root.Usage)
}

func TestChildrenKeptInSymbolOrder(t *testing.T) {
	root := NewRoot()
	for _, s := range []symbol.ID{50, 10, 30, 20, 40} {
		root.UpsertChild(s)
	}
	var prev symbol.ID
	for i, c := range root.Children() {
		if i > 0 {
			assert.Greater(t, c.Symbol, prev)
		}
		prev = c.Symbol
	}
}

func TestWalkObserveExtendsAllDepths(t *testing.T) {
	tree := NewTree()
	order := 3
	ctx := NewContext(tree.Root, order)

	syms := []symbol.ID{2, 3, 4, 5}
	for _, s := range syms {
		ctx.WalkObserve(s)
	}

	// depth 1 after 4 observations should hold the last symbol observed
	// directly off the root.
	require.NotNil(t, ctx[1])
	assert.Equal(t, syms[len(syms)-1], ctx[1].Symbol)
}

func TestWalkDoesNotMutateTrie(t *testing.T) {
	tree := NewTree()
	order := 2
	ctx := NewContext(tree.Root, order)
	ctx.WalkObserve(1)

	before := tree.Root.Usage
	readCtx := NewContext(tree.Root, order)
	readCtx.Walk(1)
	assert.Equal(t, before, tree.Root.Usage)
}

func TestWalkThroughNilStaysNil(t *testing.T) {
	tree := NewTree()
	ctx := NewContext(tree.Root, 4)
	// No child "9" exists yet, so ctx[1] becomes nil; deeper depths must
	// stay nil too even though Context[0] is still the root.
	ctx.Walk(9)
	assert.Nil(t, ctx[1])
	ctx.Walk(1)
	assert.Nil(t, ctx[2])
}

func TestDeepestFindsLastNonNil(t *testing.T) {
	tree := NewTree()
	ctx := NewContext(tree.Root, 4)
	ctx.WalkObserve(1)
	ctx.WalkObserve(2)

	node, depth := ctx.Deepest(4)
	require.NotNil(t, node)
	assert.Equal(t, 2, depth)
	assert.Equal(t, symbol.ID(2), node.Symbol)
}

func TestResetClearsDeeperDepths(t *testing.T) {
	tree := NewTree()
	ctx := NewContext(tree.Root, 3)
	ctx.WalkObserve(1)
	ctx.Reset(tree.Root)
	assert.Same(t, tree.Root, ctx[0])
	for i := 1; i < len(ctx); i++ {
		assert.Nil(t, ctx[i])
	}
}
