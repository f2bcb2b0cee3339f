package analyzer

import (
	"strings"
	"unicode"
)

// Tokenizer splits sentences into word tokens: whitespace separates words,
// punctuation is split off, and English clitics are separated from their stem.
type Tokenizer struct {
	lowercase  bool
	splitPunct bool
	clitics    []string
}

// NewTokenizer creates a new Tokenizer.
func NewTokenizer(lowercase, splitPunct bool) *Tokenizer {
	return &Tokenizer{
		lowercase:  lowercase,
		splitPunct: splitPunct,
		clitics:    defaultClitics(),
	}
}

// Tokenize splits text into tokens.
func (t *Tokenizer) Tokenize(text string) []string {
	fields := strings.Fields(text)
	tokens := make([]string, 0, len(fields))

	for _, field := range fields {
		if t.lowercase {
			field = strings.ToLower(field)
		}
		if !t.splitPunct {
			tokens = append(tokens, field)
			continue
		}
		tokens = t.appendWord(tokens, field)
	}

	return tokens
}

// appendWord splits leading and trailing punctuation and a trailing clitic
// off field and appends the pieces in order.
func (t *Tokenizer) appendWord(tokens []string, field string) []string {
	runes := []rune(field)

	start := 0
	for start < len(runes) && isPunct(runes[start]) {
		tokens = append(tokens, string(runes[start]))
		start++
	}

	end := len(runes)
	var trailing []string
	for end > start && isPunct(runes[end-1]) {
		trailing = append(trailing, string(runes[end-1]))
		end--
	}

	if start < end {
		word := string(runes[start:end])
		stem, clitic := t.splitClitic(word)
		if stem != "" {
			tokens = append(tokens, stem)
		}
		if clitic != "" {
			tokens = append(tokens, clitic)
		}
	}

	for i := len(trailing) - 1; i >= 0; i-- {
		tokens = append(tokens, trailing[i])
	}
	return tokens
}

// splitClitic separates a known clitic suffix such as "n't" or "'s".
func (t *Tokenizer) splitClitic(word string) (string, string) {
	lower := strings.ToLower(word)
	for _, c := range t.clitics {
		if len(lower) > len(c) && strings.HasSuffix(lower, c) {
			cut := len(word) - len(c)
			return word[:cut], word[cut:]
		}
	}
	return word, ""
}

// isPunct reports whether r is split off as a token of its own.
// Apostrophes and hyphens stay inside words.
func isPunct(r rune) bool {
	switch r {
	case '\'', '-', '_':
		return false
	}
	return unicode.IsPunct(r) || unicode.IsSymbol(r)
}

// defaultClitics returns English clitics, longest first.
func defaultClitics() []string {
	return []string{"n't", "'ll", "'re", "'ve", "'s", "'d", "'m"}
}
