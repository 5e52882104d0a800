// Package engine implements the MegaHAL-derived dual-trie Markov model: the
// learner that extends forward and backward n-gram tries from text, and the
// reply engine that babbles context-weighted, keyword-biased replies from
// them.
package engine

import (
	"errors"
	"math/rand"
	"time"

	"megahal/internal/symbol"
	"megahal/internal/trie"
)

// DefaultOrder is the Markov depth used when a caller does not override it.
const DefaultOrder = 5

// ErrEmptyVocabulary names the condition of a model with no usable content
// to generate from. No function in this package returns it: Reply, Greet
// and Converse answer that condition with the canned fallback reply.
var ErrEmptyVocabulary = errors.New("engine: no trained content to reply from")

// Model owns the symbol table and both n-gram tries. A Model is not safe for
// concurrent learning; concurrent reads (Reply/Greet) are safe provided no
// Learn call is in flight, per the single-writer discipline in spec.md §5.
type Model struct {
	Order    int
	Symbols  *symbol.Table
	Forward  *trie.Tree
	Backward *trie.Tree

	// Lexicon supplies the banned/aux/swap/greeting word lists. It is
	// optional: a nil Lexicon behaves as if all four lists were empty.
	Lexicon *Lexicon

	rng *rand.Rand
}

// NewModel returns a fresh model at the given order (DefaultOrder if order
// <= 0), with an empty symbol table and empty forward/backward tries.
func NewModel(order int) *Model {
	if order <= 0 {
		order = DefaultOrder
	}
	return &Model{
		Order:    order,
		Symbols:  symbol.New(),
		Forward:  trie.NewTree(),
		Backward: trie.NewTree(),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SetRand overrides the model's random source. Useful for deterministic
// tests; production callers may leave the default time-seeded source.
func (m *Model) SetRand(rng *rand.Rand) { m.rng = rng }
