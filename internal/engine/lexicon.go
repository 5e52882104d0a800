package engine

// Lexicon holds the four support word lists a host supplies at
// initialization: words banned from keyword extraction, auxiliary
// (low-priority) keywords, from->to swap pairs applied during keyword
// extraction, and greeting words for Greet. All four are optional; an empty
// Lexicon (or a nil *Lexicon on Model) behaves as if none were configured.
// Entries are uppercase byte-strings, matching the symbol table's
// canonical form.
type Lexicon struct {
	Banned   map[string]struct{}
	Aux      map[string]struct{}
	Swap     map[string][]string
	Greeting []string
}

// NewLexicon returns an empty, ready-to-use Lexicon.
func NewLexicon() *Lexicon {
	return &Lexicon{
		Banned: map[string]struct{}{},
		Aux:    map[string]struct{}{},
		Swap:   map[string][]string{},
	}
}

func (l *Lexicon) isBanned(word string) bool {
	if l == nil {
		return false
	}
	_, ok := l.Banned[word]
	return ok
}

func (l *Lexicon) isAux(word string) bool {
	if l == nil {
		return false
	}
	_, ok := l.Aux[word]
	return ok
}

// swapsFor returns the swap targets for word, or (nil, false) if word has no
// swap entry.
func (l *Lexicon) swapsFor(word string) ([]string, bool) {
	if l == nil {
		return nil, false
	}
	to, ok := l.Swap[word]
	return to, ok
}
