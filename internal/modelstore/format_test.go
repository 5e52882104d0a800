package modelstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"megahal/internal/engine"
	"megahal/internal/trie"
)

func trainedModel(t *testing.T, order int, corpus ...string) *engine.Model {
	t.Helper()
	m := engine.NewModel(order)
	for _, line := range corpus {
		_, err := m.Learn(line)
		require.NoError(t, err)
	}
	return m
}

func TestEncodeDecodeRoundTripsSymbolsAndTries(t *testing.T) {
	m := trainedModel(t, 5,
		"THE QUICK BROWN FOX JUMPS OVER THE LAZY DOG",
		"THE DOG BARKS AT THE FOX",
	)

	data, err := Encode(m)
	require.NoError(t, err)

	got, err := Decode(data)
	require.NoError(t, err)

	assert.Equal(t, m.Order, got.Order)
	assert.Equal(t, m.Symbols.Words(), got.Symbols.Words())
	assertTreesEqual(t, m.Forward.Root, got.Forward.Root)
	assertTreesEqual(t, m.Backward.Root, got.Backward.Root)
}

func assertTreesEqual(t *testing.T, want, got *trie.Node) {
	t.Helper()
	require.Equal(t, want.Symbol, got.Symbol)
	assert.Equal(t, want.Count, got.Count)
	assert.Equal(t, want.Usage, got.Usage)
	require.Equal(t, want.Branch(), got.Branch())
	for i, wantChild := range want.Children() {
		assertTreesEqual(t, wantChild, got.Children()[i])
	}
}

func TestDecodeRejectsBadMagic(t *testing.T) {
	_, err := Decode([]byte("not-a-model-at-all"))
	assert.ErrorIs(t, err, ErrBadMagic)
}

func TestEncodeDecodeEmptyModel(t *testing.T) {
	m := engine.NewModel(5)

	data, err := Encode(m)
	require.NoError(t, err)

	got, err := Decode(data)
	require.NoError(t, err)

	assert.Equal(t, 0, got.Forward.Root.Branch())
	assert.Equal(t, 0, got.Backward.Root.Branch())
	assert.Equal(t, 2, got.Symbols.Len())
}
