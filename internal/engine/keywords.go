package engine

import "megahal/internal/symbol"

// keywordSet is a small ordered set of symbol ids, used for both the
// primary and auxiliary keyword collections. Order is insertion order;
// duplicates collapse.
type keywordSet struct {
	ids  []symbol.ID
	seen map[symbol.ID]struct{}
}

func newKeywordSet() *keywordSet {
	return &keywordSet{seen: map[symbol.ID]struct{}{}}
}

func (k *keywordSet) add(id symbol.ID) {
	if _, ok := k.seen[id]; ok {
		return
	}
	k.seen[id] = struct{}{}
	k.ids = append(k.ids, id)
}

func (k *keywordSet) has(id symbol.ID) bool {
	_, ok := k.seen[id]
	return ok
}

func (k *keywordSet) Len() int { return len(k.ids) }

// extractKeywords implements spec.md §4.5 "Keyword extraction": for each
// token, expand it through the swap lexicon (or take it verbatim), reject
// candidates absent from the symbol table, starting with a non-alphanumeric
// byte, or in the banned list, then split survivors into primary keywords
// (not in the aux list) and auxiliary keywords (in the aux list, kept only
// if at least one primary keyword exists).
func (m *Model) extractKeywords(tokens []string) (primary, aux *keywordSet) {
	primary, aux = newKeywordSet(), newKeywordSet()
	var auxCandidates []symbol.ID

	for _, tok := range tokens {
		candidates := []string{tok}
		if to, ok := m.Lexicon.swapsFor(tok); ok {
			candidates = to
		}
		for _, word := range candidates {
			id, ok := m.Symbols.Lookup(word)
			if !ok {
				continue
			}
			if len(word) == 0 || !isAlnumByte(word[0]) {
				continue
			}
			if m.Lexicon.isBanned(word) {
				continue
			}
			if m.Lexicon.isAux(word) {
				auxCandidates = append(auxCandidates, id)
				continue
			}
			primary.add(id)
		}
	}

	if primary.Len() > 0 {
		for _, id := range auxCandidates {
			aux.add(id)
		}
	}
	return primary, aux
}

func isAlnumByte(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9')
}
