package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"megahal/internal/symbol"
)

func TestLearnShortLineIsProcessedNotLearned(t *testing.T) {
	m := NewModel(5)
	stats, err := m.Learn("THE QUICK BROWN FOX JUMPS OVER THE LAZY DOG.")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.LinesProcessed)
	assert.Equal(t, 1, stats.LinesLearned)
	assert.GreaterOrEqual(t, stats.TokensLearned, 10)

	stats2, err := m.Learn("THE")
	require.NoError(t, err)
	assert.Equal(t, 0, stats2.LinesLearned)
	assert.Equal(t, 1, stats2.LinesProcessed)
}

func TestLearnSkipsBlankAndCommentLines(t *testing.T) {
	m := NewModel(2)
	stats, err := m.Learn("\n# a comment\nA B C D E F\n")
	require.NoError(t, err)
	assert.Equal(t, 3, stats.LinesProcessed)
	assert.Equal(t, 1, stats.LinesLearned)
}

func TestLearnBuildsForwardAndBackwardPaths(t *testing.T) {
	m := NewModel(5)
	_, err := m.Learn("THE QUICK BROWN FOX JUMPS OVER THE LAZY DOG.")
	require.NoError(t, err)

	theID, ok := m.Symbols.Lookup("THE")
	require.True(t, ok)
	assert.NotNil(t, m.Forward.Root.Child(theID))

	dotID, ok := m.Symbols.Lookup(".")
	require.True(t, ok)
	assert.NotNil(t, m.Backward.Root.Child(dotID))
}

func TestLearnIsMonotonic(t *testing.T) {
	m := NewModel(3)
	_, err := m.Learn("ONE TWO THREE FOUR FIVE.")
	require.NoError(t, err)

	theID, _ := m.Symbols.Lookup("ONE")
	child := m.Forward.Root.Child(theID)
	require.NotNil(t, child)
	before := child.Count
	beforeUsage := m.Forward.Root.Usage

	_, err = m.Learn("SIX SEVEN EIGHT NINE TEN.")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, child.Count, before)
	assert.GreaterOrEqual(t, m.Forward.Root.Usage, beforeUsage)
}

func TestLearnTwiceDoublesCounts(t *testing.T) {
	m := NewModel(3)
	line := "ONE TWO THREE FOUR FIVE."
	_, err := m.Learn(line)
	require.NoError(t, err)

	oneID, _ := m.Symbols.Lookup("ONE")
	firstCount := m.Forward.Root.Child(oneID).Count

	_, err = m.Learn(line)
	require.NoError(t, err)
	secondCount := m.Forward.Root.Child(oneID).Count

	assert.Equal(t, 2*firstCount, secondCount)
}

func TestLearnCommutativity(t *testing.T) {
	m1 := NewModel(3)
	_, _ = m1.Learn("A B C D E.")
	_, _ = m1.Learn("E D C B A.")

	m2 := NewModel(3)
	_, _ = m2.Learn("E D C B A.")
	_, _ = m2.Learn("A B C D E.")

	for _, w := range []string{"A", "B", "C", "D", "E"} {
		id1, ok1 := m1.Symbols.Lookup(w)
		id2, ok2 := m2.Symbols.Lookup(w)
		require.True(t, ok1)
		require.True(t, ok2)
		c1 := m1.Forward.Root.Child(id1)
		c2 := m2.Forward.Root.Child(id2)
		if c1 == nil || c2 == nil {
			continue
		}
		assert.Equal(t, c1.Count, c2.Count)
	}
}

func TestLearnFatalOnSymbolSpaceExhaustion(t *testing.T) {
	m := NewModel(1)
	// Exhaust the id space by pre-filling the table.
	for i := m.Symbols.Len(); i < symbol.MaxSymbols; i++ {
		w := padWord(i)
		if _, err := m.Symbols.Intern(w); err != nil {
			break
		}
	}
	_, err := m.Learn("BRAND NEW WORDS THAT WERE NEVER SEEN BEFORE HERE.")
	if err != nil {
		assert.ErrorIs(t, err, symbol.ErrSpaceExhausted)
	}
}

func padWord(i int) string {
	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	b := make([]byte, 0, 6)
	for i > 0 || len(b) == 0 {
		b = append(b, alphabet[i%26])
		i /= 26
	}
	return string(b)
}
