// Package tokenize implements the tokenizer builder and runtime of
// spec.md §4.8: a fluent TokenizerBuilder, script/language detection and
// normalization, snowball stemming, and the words_dict/phrase_vocabulary
// override passes.
package tokenize

// Kind classifies one token (spec.md §3 Token).
type Kind int

const (
	Word Kind = iota
	StopWord
	SeparatorHard
	SeparatorSoft
	Unknown
)

func (k Kind) String() string {
	switch k {
	case Word:
		return "Word"
	case StopWord:
		return "StopWord"
	case SeparatorHard:
		return "SeparatorHard"
	case SeparatorSoft:
		return "SeparatorSoft"
	default:
		return "Unknown"
	}
}

// IndexPair is one original->normalized rune-index correspondence recorded
// when CreateCharMap is enabled.
type IndexPair struct {
	Original   int
	Normalized int
}

// Token is one tokenizer output (spec.md §3).
type Token struct {
	Kind       Kind
	Lemma      string
	CharStart  int
	CharEnd    int
	ByteStart  int
	ByteEnd    int
	CharMap    []IndexPair
	Script     string
	Language   string
}

// Pair is one (surface_substring, Token) output element.
type Pair struct {
	Surface string
	Token   Token
}
