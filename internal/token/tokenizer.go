// Package token splits uppercased byte input into an alternating stream of
// word and separator tokens, and enforces a sentence-terminal final token.
//
// Tokenization operates on ASCII letter/digit classes only: input is never
// treated as Unicode text, matching the engine's byte-oriented data model.
package token

import "strings"

func isAlpha(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// Tokenize uppercases text and splits it into words and separators per the
// boundary rule: a position is a boundary when the alpha-class or
// digit-class changes, except across an apostrophe joining two alpha runs
// (DON'T, I'M, YOU'RE stay single tokens). The final token is normalized so
// every tokenized line ends on a sentence terminator.
func Tokenize(text string) []string {
	s := strings.ToUpper(text)
	if s == "" {
		return []string{"."}
	}

	var tokens []string
	start := 0
	for p := 1; p < len(s); p++ {
		if isApostropheJoin(s, p) {
			continue
		}
		if isBoundary(s, p) {
			tokens = append(tokens, s[start:p])
			start = p
		}
	}
	tokens = append(tokens, s[start:])

	return terminate(tokens)
}

// isApostropheJoin reports whether byte position p is an apostrophe (or the
// byte just after one) that should NOT be treated as a token boundary
// because it joins two alphabetic runs, e.g. DON'T.
func isApostropheJoin(s string, p int) bool {
	if s[p] == '\'' && p > 0 && p+1 < len(s) && isAlpha(s[p-1]) && isAlpha(s[p+1]) {
		return true
	}
	if s[p-1] == '\'' && p >= 2 && isAlpha(s[p-2]) && isAlpha(s[p]) {
		return true
	}
	return false
}

func isBoundary(s string, p int) bool {
	alphaChange := isAlpha(s[p]) != isAlpha(s[p-1])
	digitChange := isDigit(s[p]) != isDigit(s[p-1])
	return alphaChange || digitChange
}

// terminate applies the sentence-terminal rule to the last token in place.
func terminate(tokens []string) []string {
	if len(tokens) == 0 {
		return []string{"."}
	}
	last := tokens[len(tokens)-1]
	switch {
	case isAlnum(last[0]):
		tokens = append(tokens, ".")
	case !isTerminalByte(last[len(last)-1]):
		tokens[len(tokens)-1] = "."
	}
	return tokens
}

func isAlnum(b byte) bool { return isAlpha(b) || isDigit(b) }

func isTerminalByte(b byte) bool {
	return b == '!' || b == '.' || b == '?'
}
