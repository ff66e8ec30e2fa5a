package tokenize

import lru "github.com/hashicorp/golang-lru/v2"

// TokenizerBuilder is the fluent configuration surface of spec.md §4.8; every
// setter returns the builder so calls chain.
type TokenizerBuilder struct {
	unicodeSegmentation bool
	stemmerAlg          string
	stemmerSmart        bool
	stopWords           map[string]struct{}
	separators          map[string]struct{}
	wordsDict           map[string]struct{}
	createCharMap       bool
	lossyNormalization  bool
	allowList           map[string][]string // script -> allowed languages
	phraseVocabulary    []string
}

// NewTokenizerBuilder returns a builder with no stemmer, no overrides, and
// language-based segmentation enabled.
func NewTokenizerBuilder() *TokenizerBuilder {
	return &TokenizerBuilder{
		stopWords:  make(map[string]struct{}),
		separators: make(map[string]struct{}),
		wordsDict:  make(map[string]struct{}),
		allowList:  make(map[string][]string),
	}
}

// UnicodeSegmentation disables language-based segmentation when enabled.
func (b *TokenizerBuilder) UnicodeSegmentation(enabled bool) *TokenizerBuilder {
	b.unicodeSegmentation = enabled
	return b
}

// Stemmer selects a snowball algorithm by name; smart=true picks the
// per-token stemmer matching the detected language, falling back to alg.
func (b *TokenizerBuilder) Stemmer(alg string, smart bool) *TokenizerBuilder {
	b.stemmerAlg = alg
	b.stemmerSmart = smart
	return b
}

// StopWords sets the stopword set (lowercased at lookup time).
func (b *TokenizerBuilder) StopWords(set []string) *TokenizerBuilder {
	b.stopWords = toSet(set)
	return b
}

// Separators sets the explicit hard-separator token set, in addition to the
// built-in punctuation-run classification.
func (b *TokenizerBuilder) Separators(set []string) *TokenizerBuilder {
	b.separators = toSet(set)
	return b
}

// WordsDict sets the override dictionary consulted first during
// tokenization (spec.md §4.8).
func (b *TokenizerBuilder) WordsDict(set []string) *TokenizerBuilder {
	b.wordsDict = toSet(set)
	return b
}

// CreateCharMap enables recording of original->normalized index
// correspondences on Word and StopWord tokens; the map is only produced
// when LossyNormalization is also enabled.
func (b *TokenizerBuilder) CreateCharMap(enabled bool) *TokenizerBuilder {
	b.createCharMap = enabled
	return b
}

// LossyNormalization enables NFKD+case-fold normalization of lemmas.
func (b *TokenizerBuilder) LossyNormalization(enabled bool) *TokenizerBuilder {
	b.lossyNormalization = enabled
	return b
}

// AllowList constrains language detection for a given script to a specific
// candidate set.
func (b *TokenizerBuilder) AllowList(script string, languages []string) *TokenizerBuilder {
	b.allowList[script] = append([]string(nil), languages...)
	return b
}

// PhraseVocabulary sets the multi-word phrase set collapsed during the
// tokenizer's post-pass; each phrase is a sequence of lowercase words
// joined by single spaces.
func (b *TokenizerBuilder) PhraseVocabulary(phrases []string) *TokenizerBuilder {
	b.phraseVocabulary = append([]string(nil), phrases...)
	return b
}

// CreateStopwordFilter returns the configured stopwords set.
func (b *TokenizerBuilder) CreateStopwordFilter() map[string]struct{} {
	out := make(map[string]struct{}, len(b.stopWords))
	for w := range b.stopWords {
		out[w] = struct{}{}
	}
	return out
}

// Build finalizes the configuration into a runtime Tokenizer.
func (b *TokenizerBuilder) Build() (*Tokenizer, error) {
	cache, err := lru.New[string, string](4096)
	if err != nil {
		return nil, err
	}
	phraseIndex := buildPhraseIndex(b.phraseVocabulary)
	return &Tokenizer{
		unicodeSegmentation: b.unicodeSegmentation,
		stemmerAlg:          b.stemmerAlg,
		stemmerSmart:        b.stemmerSmart,
		stopWords:           b.CreateStopwordFilter(),
		separators:          cloneSet(b.separators),
		wordsDict:           cloneSet(b.wordsDict),
		createCharMap:       b.createCharMap,
		lossyNormalization:  b.lossyNormalization,
		allowList:           b.allowList,
		phrases:             phraseIndex,
		stemCache:           cache,
	}, nil
}

func toSet(items []string) map[string]struct{} {
	out := make(map[string]struct{}, len(items))
	for _, s := range items {
		out[s] = struct{}{}
	}
	return out
}

func cloneSet(m map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(m))
	for k := range m {
		out[k] = struct{}{}
	}
	return out
}
