// Package symbol interns byte-strings into stable 16-bit identifiers.
//
// The table is the only authoritative word<->id mapping in the engine; the
// trie stores symbol ids only. Ids 0 and 1 are reserved for the control
// words <ERROR> and <FIN> and are assigned at construction time.
package symbol

import (
	"errors"
	"fmt"
	"sort"
)

// ID identifies an interned word. Zero and one are reserved.
type ID uint16

const (
	// Error is returned by Lookup for a word that was never interned, and is
	// never itself interned as the reply to a user.
	Error ID = 0
	// Fin marks the end of a learned line. Generation treats it as a stop.
	Fin ID = 1
)

const (
	errorWord = "<ERROR>"
	finWord   = "<FIN>"
	// MaxWordLen is the maximum number of bytes a single interned word may hold.
	MaxWordLen = 255
	// MaxSymbols bounds the id space; Intern fails once it would be exceeded.
	MaxSymbols = 1 << 16
)

// ErrSpaceExhausted is returned by Intern when all 65536 ids are in use.
var ErrSpaceExhausted = errors.New("symbol: id space exhausted")

// ErrWordTooLong is returned by Intern when a word exceeds MaxWordLen bytes.
var ErrWordTooLong = errors.New("symbol: word exceeds maximum length")

// Table is a monotonically growing word<->id mapping. The zero value is not
// usable; construct with New.
type Table struct {
	words   []string // index by ID
	sorted  []string // words, kept sorted for binary-search Lookup
	sortIdx []ID     // parallel to sorted: the ID of sorted[i]
}

// New returns a Table with the two reserved control words pre-interned.
func New() *Table {
	t := &Table{
		words: []string{errorWord, finWord},
	}
	t.sorted = []string{errorWord, finWord}
	t.sortIdx = []ID{Error, Fin}
	sort.Sort(bySortedWord{t.sorted, t.sortIdx})
	return t
}

type bySortedWord struct {
	words []string
	ids   []ID
}

func (b bySortedWord) Len() int      { return len(b.words) }
func (b bySortedWord) Swap(i, j int) { b.words[i], b.words[j] = b.words[j], b.words[i]; b.ids[i], b.ids[j] = b.ids[j], b.ids[i] }
func (b bySortedWord) Less(i, j int) bool { return b.words[i] < b.words[j] }

// search returns the index into t.sorted where word is, or would be inserted.
func (t *Table) search(word string) int {
	return sort.Search(len(t.sorted), func(i int) bool { return t.sorted[i] >= word })
}

// Lookup returns the id for word, or (Error, false) if word was never interned.
// word must already be in the table's canonical (uppercased) form.
func (t *Table) Lookup(word string) (ID, bool) {
	i := t.search(word)
	if i < len(t.sorted) && t.sorted[i] == word {
		return t.sortIdx[i], true
	}
	return Error, false
}

// Intern returns the existing id for word, assigning the next free id if this
// is the first time word has been seen.
func (t *Table) Intern(word string) (ID, error) {
	if len(word) > MaxWordLen {
		return Error, fmt.Errorf("%w: %q (%d bytes)", ErrWordTooLong, word, len(word))
	}
	if id, ok := t.Lookup(word); ok {
		return id, nil
	}
	if len(t.words) >= MaxSymbols {
		return Error, ErrSpaceExhausted
	}
	id := ID(len(t.words))
	t.words = append(t.words, word)

	i := t.search(word)
	t.sorted = append(t.sorted, "")
	copy(t.sorted[i+1:], t.sorted[i:])
	t.sorted[i] = word
	t.sortIdx = append(t.sortIdx, 0)
	copy(t.sortIdx[i+1:], t.sortIdx[i:])
	t.sortIdx[i] = id

	return id, nil
}

// WordOf returns the word for id. It returns false if id was never assigned.
func (t *Table) WordOf(id ID) (string, bool) {
	if int(id) >= len(t.words) {
		return "", false
	}
	return t.words[id], true
}

// Len returns the number of interned words, including the two reserved ones.
func (t *Table) Len() int { return len(t.words) }

// Words returns every interned word in id order (index i holds the word for
// ID(i)), including the two reserved control words at indices 0 and 1. The
// returned slice is a copy; callers may not mutate the table through it.
func (t *Table) Words() []string {
	out := make([]string, len(t.words))
	copy(out, t.words)
	return out
}

// FromWords rebuilds a Table from a word list in id order, as produced by
// Words. words[0] and words[1] must be the reserved control words.
func FromWords(words []string) (*Table, error) {
	if len(words) < 2 || words[0] != errorWord || words[1] != finWord {
		return nil, errors.New("symbol: word list missing reserved control words")
	}
	t := &Table{words: append([]string(nil), words...)}
	t.sorted = append([]string(nil), words...)
	t.sortIdx = make([]ID, len(words))
	for i := range words {
		t.sortIdx[i] = ID(i)
	}
	sort.Sort(bySortedWord{t.sorted, t.sortIdx})
	return t, nil
}
