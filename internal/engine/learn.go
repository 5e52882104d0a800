package engine

import (
	"megahal/internal/symbol"
	"megahal/internal/token"
	"megahal/internal/trie"
)

// Stats summarizes one or more Learn calls.
type Stats struct {
	TokensLearned  int
	LinesLearned   int
	LinesProcessed int
}

// Add accumulates another Stats into s.
func (s *Stats) Add(o Stats) {
	s.TokensLearned += o.TokensLearned
	s.LinesLearned += o.LinesLearned
	s.LinesProcessed += o.LinesProcessed
}

// Learn extends both tries from text. text is split on newlines; blank
// lines and lines starting with "#" are counted as processed but never
// learned. Each surviving line is tokenized and learned independently: a
// line with order or fewer tokens is processed but not learned, since it
// cannot seed a full-depth path, and so is a line holding a token longer
// than symbol.MaxWordLen bytes. A trailing newline does not start a further
// line.
//
// Learn only fails on symbol.ErrSpaceExhausted, at which point the engine
// must refuse further learning; any other condition (short lines, blank
// lines) is handled silently and reflected only in the returned Stats.
func (m *Model) Learn(text string) (Stats, error) {
	var total Stats
	for _, line := range splitLines(text) {
		total.LinesProcessed++
		if !learnable(line) {
			continue
		}

		tokens := token.Tokenize(line)
		if len(tokens) <= m.Order {
			continue
		}
		tooLong := false
		for _, tok := range tokens {
			if len(tok) > symbol.MaxWordLen {
				tooLong = true
				break
			}
		}
		if tooLong {
			continue
		}

		n, err := m.learnLine(tokens)
		if err != nil {
			return total, err
		}
		total.TokensLearned += n
		total.LinesLearned++
	}
	return total, nil
}

func splitLines(text string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			lines = append(lines, text[start:i])
			start = i + 1
		}
	}
	if start < len(text) || len(lines) == 0 {
		lines = append(lines, text[start:])
	}
	return lines
}

// learnable reports whether a raw line should be tokenized at all: blank
// lines and comment lines are processed but never learned.
func learnable(line string) bool {
	trimmed := trimSpace(line)
	if trimmed == "" {
		return false
	}
	return trimmed[0] != '#'
}

func trimSpace(s string) string {
	start, end := 0, len(s)
	for start < end && isSpaceByte(s[start]) {
		start++
	}
	for end > start && isSpaceByte(s[end-1]) {
		end--
	}
	return s[start:end]
}

func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n'
}

// learnLine interns every token and performs the forward and backward
// observe-cascades, each terminated with <FIN>. It returns the number of
// tokens learned; the <FIN> sentinels are not counted.
func (m *Model) learnLine(tokens []string) (int, error) {
	ids := make([]symbol.ID, len(tokens))
	for i, w := range tokens {
		id, err := m.Symbols.Intern(w)
		if err != nil {
			return 0, err
		}
		ids[i] = id
	}

	fctx := trie.NewContext(m.Forward.Root, m.Order)
	for _, id := range ids {
		fctx.WalkObserve(id)
	}
	fctx.WalkObserve(symbol.Fin)

	bctx := trie.NewContext(m.Backward.Root, m.Order)
	for i := len(ids) - 1; i >= 0; i-- {
		bctx.WalkObserve(ids[i])
	}
	bctx.WalkObserve(symbol.Fin)

	return len(ids), nil
}
