package engine

import (
	"math"
	"strings"

	"megahal/internal/symbol"
	"megahal/internal/token"
	"megahal/internal/trie"
)

// maxBabbleSteps caps forward/backward generation so a pathological chain
// (e.g. a trie with a long low-branching tail) cannot run forever.
const maxBabbleSteps = 200

const fallbackReply = "I don't know enough to answer you yet!"

// candidate is one generated reply together with the symbol path that
// produced it and its surprise score.
type candidate struct {
	symbols []symbol.ID
	score   float64
}

// Reply runs one conversational turn without learning: keyword extraction,
// seed selection, forward+backward babble for a baseline candidate and
// numCandidates keyword-biased candidates, then returns the best
// non-echoing candidate formatted as text. It never errors; an engine with
// no usable content returns the canned fallback string.
func (m *Model) Reply(text string, numCandidates int) string {
	reply, _ := m.ReplyScored(text, numCandidates)
	return reply
}

// ReplyScored runs the same turn as Reply, additionally returning the
// winning candidate's surprise score (0 for the canned fallback), so a
// caller instrumenting telemetry can record it alongside the reply text.
func (m *Model) ReplyScored(text string, numCandidates int) (string, float64) {
	tokens := token.Tokenize(text)
	inputIDs := m.internExisting(tokens)

	primary, aux := m.extractKeywords(tokens)
	all := newKeywordSet()
	for _, id := range primary.ids {
		all.add(id)
	}
	for _, id := range aux.ids {
		all.add(id)
	}

	candidates := make([]candidate, 0, numCandidates+1)
	candidates = append(candidates, m.generateCandidate(newKeywordSet(), newKeywordSet()))
	for i := 0; i < numCandidates; i++ {
		candidates = append(candidates, m.generateCandidate(all, aux))
	}

	best, ok := selectBest(candidates, inputIDs)
	if !ok {
		return fallbackReply, 0
	}
	return m.format(best.symbols), best.score
}

// Greet picks a random word from the greeting list and replies to it. With
// no greeting list configured it falls back to an empty-input reply.
func (m *Model) Greet(numCandidates int) string {
	reply, _ := m.GreetScored(numCandidates)
	return reply
}

// GreetScored runs the same turn as Greet, additionally returning the
// winning candidate's surprise score.
func (m *Model) GreetScored(numCandidates int) (string, float64) {
	if m.Lexicon == nil || len(m.Lexicon.Greeting) == 0 {
		return m.ReplyScored("", numCandidates)
	}
	word := m.Lexicon.Greeting[m.rng.Intn(len(m.Lexicon.Greeting))]
	return m.ReplyScored(word, numCandidates)
}

// Converse learns from text, then replies to it.
func (m *Model) Converse(text string, numCandidates int) (Stats, string) {
	stats, reply, _ := m.ConverseScored(text, numCandidates)
	return stats, reply
}

// ConverseScored runs the same turn as Converse, additionally returning the
// winning candidate's surprise score.
func (m *Model) ConverseScored(text string, numCandidates int) (Stats, string, float64) {
	stats, _ := m.Learn(text)
	reply, score := m.ReplyScored(text, numCandidates)
	return stats, reply, score
}

// internExisting returns the symbol ids for tokens that are already in the
// table (skipping unknown words), used only for the non-echo comparison.
func (m *Model) internExisting(tokens []string) []symbol.ID {
	ids := make([]symbol.ID, 0, len(tokens))
	for _, tok := range tokens {
		if id, ok := m.Symbols.Lookup(tok); ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// generateCandidate seeds, babbles forward and backward, and scores one
// candidate reply against the given keyword/aux sets.
func (m *Model) generateCandidate(keywords, aux *keywordSet) candidate {
	reply := m.seed(keywords)
	usedKey := false
	if keywords.Len() > 0 && len(reply) == 1 {
		// A successful primary-keyword seed counts as the first keyword use.
		if keywords.has(reply[0]) {
			usedKey = true
		}
	}

	reply = m.babbleForward(reply, keywords, aux, &usedKey)
	reply = m.babbleBackward(reply, keywords, aux, &usedKey)

	score := m.evaluate(reply, keywords)
	return candidate{symbols: reply, score: score}
}

// seed implements spec.md §4.5 "Seed selection". It returns a single-symbol
// slice to start the reply from.
func (m *Model) seed(keywords *keywordSet) []symbol.ID {
	if keywords.Len() > 0 {
		start := m.rng.Intn(keywords.Len())
		for i := 0; i < keywords.Len(); i++ {
			idx := (start + i) % keywords.Len()
			id := keywords.ids[idx]
			if _, ok := m.Symbols.WordOf(id); ok && !m.Lexicon.isAux(wordOrEmpty(m.Symbols, id)) {
				return []symbol.ID{id}
			}
		}
	}

	children := m.Forward.Root.Children()
	var candidates []symbol.ID
	for _, c := range children {
		if c.Symbol != symbol.Error && c.Symbol != symbol.Fin {
			candidates = append(candidates, c.Symbol)
		}
	}
	if len(candidates) == 0 {
		return []symbol.ID{symbol.Fin}
	}
	return []symbol.ID{candidates[m.rng.Intn(len(candidates))]}
}

func wordOrEmpty(tbl *symbol.Table, id symbol.ID) string {
	w, _ := tbl.WordOf(id)
	return w
}

// babble implements spec.md §4.5 "Babble": a single weighted-random draw
// from node's children, with keyword priority gated by usedKey and the aux
// rule. It returns (0, false) when node has no children (terminate).
func (m *Model) babble(node *trie.Node, keywords, aux *keywordSet, reply []symbol.ID, usedKey *bool) (symbol.ID, bool) {
	if node == nil || node.Branch() == 0 {
		return 0, false
	}
	children := node.Children()
	branch := len(children)
	i := m.rng.Intn(branch)
	c := m.rng.Int63n(int64(node.Usage))

	for step := 0; step < branch; step++ {
		child := children[(i+step)%branch]
		sym := child.Symbol
		if keywords.has(sym) && (*usedKey || !aux.has(sym)) && !containsSymbol(reply, sym) {
			*usedKey = true
			return sym, true
		}
		c -= int64(child.Count)
		if c < 0 {
			return sym, true
		}
	}
	// Cumulative count equals usage, so the loop above always returns; this
	// is unreachable but kept as a safe terminate.
	return 0, false
}

func containsSymbol(xs []symbol.ID, sym symbol.ID) bool {
	for _, x := range xs {
		if x == sym {
			return true
		}
	}
	return false
}

// babbleForward extends reply to the right using the forward trie. usedKey
// is shared with the caller's backward pass so a keyword accepted here
// keeps aux keywords eligible for the rest of the candidate.
func (m *Model) babbleForward(reply []symbol.ID, keywords, aux *keywordSet, usedKey *bool) []symbol.ID {
	ctx := trie.NewContext(m.Forward.Root, m.Order)
	for _, sym := range reply {
		ctx.Walk(sym)
	}

	for steps := 0; steps < maxBabbleSteps; steps++ {
		node, depth := ctx.Deepest(m.Order)
		_ = depth
		sym, ok := m.babble(node, keywords, aux, reply, usedKey)
		if !ok || sym == symbol.Error || sym == symbol.Fin {
			break
		}
		reply = append(reply, sym)
		ctx.Walk(sym)
	}
	return reply
}

// babbleBackward re-establishes the backward context at the reply's left
// edge, then extends reply to the left using the backward trie.
func (m *Model) babbleBackward(reply []symbol.ID, keywords, aux *keywordSet, usedKey *bool) []symbol.ID {
	ctx := trie.NewContext(m.Backward.Root, m.Order)

	start := len(reply) - 1
	if start > m.Order {
		start = m.Order
	}
	for i := start; i >= 0; i-- {
		ctx.Walk(reply[i])
	}

	for steps := 0; steps < maxBabbleSteps; steps++ {
		node, depth := ctx.Deepest(m.Order)
		_ = depth
		sym, ok := m.babble(node, keywords, aux, reply, usedKey)
		if !ok || sym == symbol.Error || sym == symbol.Fin {
			break
		}
		reply = append([]symbol.ID{sym}, reply...)
		ctx.Walk(sym)
	}
	return reply
}

// evaluate implements spec.md §4.5 "Surprise evaluation": it sums
// length-penalized entropy across independent forward and backward passes
// over reply's keyword symbols.
func (m *Model) evaluate(reply []symbol.ID, keywords *keywordSet) float64 {
	fwd, fn := m.evaluateDirection(reply, keywords, m.Forward.Root, false)
	bwd, bn := m.evaluateDirection(reply, keywords, m.Backward.Root, true)

	entropy := fwd + bwd
	num := fn + bn
	if num >= 8 {
		entropy /= math.Sqrt(float64(num - 1))
	}
	if num >= 16 {
		entropy /= float64(num)
	}
	return entropy
}

func (m *Model) evaluateDirection(reply []symbol.ID, keywords *keywordSet, root *trie.Node, reverse bool) (float64, int) {
	ctx := trie.NewContext(root, m.Order)
	var entropy float64
	var num int

	order := reverseOrder(reply, reverse)
	for _, sym := range order {
		if keywords.has(sym) {
			var prob float64
			var n int
			for j := 0; j < m.Order; j++ {
				if j >= len(ctx) || ctx[j] == nil {
					continue
				}
				child := ctx[j].Child(sym)
				if child == nil || ctx[j].Usage == 0 {
					continue
				}
				prob += float64(child.Count) / float64(ctx[j].Usage)
				n++
			}
			if n > 0 {
				entropy -= math.Log(prob / float64(n))
				num++
			}
		}
		ctx.Walk(sym)
	}
	return entropy, num
}

func reverseOrder(reply []symbol.ID, reverse bool) []symbol.ID {
	if !reverse {
		return reply
	}
	out := make([]symbol.ID, len(reply))
	for i, sym := range reply {
		out[len(reply)-1-i] = sym
	}
	return out
}

// selectBest applies the non-echo filter and returns the highest-scoring
// surviving candidate with more than one symbol.
func selectBest(candidates []candidate, inputIDs []symbol.ID) (candidate, bool) {
	var best candidate
	found := false
	for _, c := range candidates {
		if len(c.symbols) <= 1 {
			continue
		}
		if sameSymbols(c.symbols, inputIDs) {
			continue
		}
		if !found || c.score > best.score {
			best = c
			found = true
		}
	}
	return best, found
}

func sameSymbols(a, b []symbol.ID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// format implements spec.md §4.5 "Output formatting": concatenate the
// reply's words with no extra separators, then normalize capitalization.
func (m *Model) format(reply []symbol.ID) string {
	var sb strings.Builder
	for _, sym := range reply {
		if w, ok := m.Symbols.WordOf(sym); ok {
			sb.WriteString(w)
		}
	}
	return capitalize(sb.String())
}

func capitalize(s string) string {
	b := []byte(s)
	capNext := true
	afterTerminator := false
	for i := range b {
		c := b[i]
		switch {
		case isUpperAlpha(c) || isLowerAlpha(c):
			if capNext {
				b[i] = toUpper(c)
				capNext = false
			} else {
				b[i] = toLower(c)
			}
			afterTerminator = false
		case c == '!' || c == '.' || c == '?':
			afterTerminator = true
		case c == ' ' || c == '\t':
			if afterTerminator {
				capNext = true
			}
		default:
			afterTerminator = false
		}
	}
	return string(b)
}

func isUpperAlpha(b byte) bool { return b >= 'A' && b <= 'Z' }
func isLowerAlpha(b byte) bool { return b >= 'a' && b <= 'z' }
func toUpper(b byte) byte {
	if isLowerAlpha(b) {
		return b - ('a' - 'A')
	}
	return b
}
func toLower(b byte) byte {
	if isUpperAlpha(b) {
		return b + ('a' - 'A')
	}
	return b
}
