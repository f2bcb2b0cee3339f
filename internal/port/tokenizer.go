package port

// Tokenizer splits a raw sentence into word tokens.
type Tokenizer interface {
	Tokenize(text string) []string
}
