package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"megahal/internal/engine"
)

// LoadLexicon reads the four word lists named in cfg into an engine.Lexicon.
// Any path left empty contributes an empty list, per LexiconConfig's
// zero-value contract. Banned, aux, and greeting files hold one word per
// line; the swap file holds one "FROM TO" pair per line, the two words
// separated by any whitespace. Every word is uppercased on load. Blank
// lines and lines starting with "#" are skipped in every file.
func LoadLexicon(cfg LexiconConfig) (*engine.Lexicon, error) {
	lex := engine.NewLexicon()

	banned, err := loadWordList(cfg.BannedPath)
	if err != nil {
		return nil, fmt.Errorf("config: load banned list: %w", err)
	}
	for _, w := range banned {
		lex.Banned[w] = struct{}{}
	}

	aux, err := loadWordList(cfg.AuxPath)
	if err != nil {
		return nil, fmt.Errorf("config: load aux list: %w", err)
	}
	for _, w := range aux {
		lex.Aux[w] = struct{}{}
	}

	greeting, err := loadWordList(cfg.GreetingPath)
	if err != nil {
		return nil, fmt.Errorf("config: load greeting list: %w", err)
	}
	lex.Greeting = greeting

	swaps, err := loadSwapList(cfg.SwapPath)
	if err != nil {
		return nil, fmt.Errorf("config: load swap list: %w", err)
	}
	for from, to := range swaps {
		lex.Swap[from] = append(lex.Swap[from], to)
	}

	return lex, nil
}

func loadWordList(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var words []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.ToUpper(strings.TrimSpace(scanner.Text()))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	return words, scanner.Err()
}

func loadSwapList(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	swaps := make(map[string]string)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(strings.ToUpper(line))
		if len(fields) != 2 {
			return nil, fmt.Errorf("config: malformed swap line %q", line)
		}
		swaps[fields[0]] = fields[1]
	}
	return swaps, scanner.Err()
}
