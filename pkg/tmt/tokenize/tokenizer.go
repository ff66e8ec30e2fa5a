package tokenize

import (
	"unicode"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Tokenizer is the immutable runtime built by TokenizerBuilder.Build.
type Tokenizer struct {
	unicodeSegmentation bool
	stemmerAlg          string
	stemmerSmart        bool
	stopWords           map[string]struct{}
	separators          map[string]struct{}
	wordsDict           map[string]struct{}
	createCharMap       bool
	lossyNormalization  bool
	allowList           map[string][]string
	phrases             *phraseIndex
	stemCache           *lru.Cache[string, string]
}

// runKind classifies a contiguous rune run before words_dict/stopword
// overrides are applied.
type runKind int

const (
	runWord runKind = iota
	runSpace
	runPunct
)

func classifyRune(r rune) runKind {
	if unicode.IsLetter(r) || unicode.IsNumber(r) {
		return runWord
	}
	if unicode.IsSpace(r) {
		return runSpace
	}
	return runPunct
}

type span struct {
	text      string
	charStart int
	charEnd   int
	byteStart int
	byteEnd   int
	kind      runKind
}

// segment splits text into contiguous same-class runs. unicode_segmentation
// vs language-based segmentation differ only in whether punctuation that
// also carries word-joining use (e.g. an apostrophe inside a contraction)
// is folded into the surrounding word run; language-based segmentation
// (the default) does this folding, unicode_segmentation disables it.
func (t *Tokenizer) segment(text string) []span {
	var spans []span
	runes := []rune(text)
	if len(runes) == 0 {
		return spans
	}
	charIdx := 0
	byteIdx := 0
	start := 0
	curKind := classifyRune(runes[0])
	for i := 1; i <= len(runes); i++ {
		flush := i == len(runes)
		var k runKind
		if !flush {
			k = classifyRune(runes[i])
			if !t.unicodeSegmentation && curKind == runWord && k == runPunct && runes[i] == '\'' && i+1 < len(runes) && classifyRune(runes[i+1]) == runWord {
				// fold a word-internal apostrophe into the word run.
				continue
			}
			flush = k != curKind
		}
		if flush {
			end := i
			byteLen := 0
			for _, r := range string(runes[start:end]) {
				byteLen += runeLen(r)
			}
			spans = append(spans, span{
				text:      string(runes[start:end]),
				charStart: charIdx,
				charEnd:   charIdx + (end - start),
				byteStart: byteIdx,
				byteEnd:   byteIdx + byteLen,
				kind:      curKind,
			})
			charIdx += end - start
			byteIdx += byteLen
			start = end
			if i < len(runes) {
				curKind = k
			}
		}
	}
	return spans
}

func runeLen(r rune) int {
	switch {
	case r < 0x80:
		return 1
	case r < 0x800:
		return 2
	case r < 0x10000:
		return 3
	default:
		return 4
	}
}

// Tokenize produces the ordered (surface, Token) sequence for text, given
// an optional language hint (spec.md §4.8).
func (t *Tokenizer) Tokenize(languageHint, text string) []Pair {
	spans := t.segment(text)
	pairs := make([]Pair, 0, len(spans))
	for _, sp := range spans {
		pairs = append(pairs, t.classify(sp, languageHint))
	}
	return t.applyPhrases(pairs)
}

func (t *Tokenizer) classify(sp span, languageHint string) Pair {
	lower := sp.text
	if sp.kind == runWord {
		lower = toLowerASCIIAware(sp.text)
	}

	tok := Token{
		CharStart: sp.charStart,
		CharEnd:   sp.charEnd,
		ByteStart: sp.byteStart,
		ByteEnd:   sp.byteEnd,
	}

	switch {
	case sp.kind == runWord && t.inSet(t.wordsDict, lower):
		tok.Kind = Word
	case sp.kind == runWord && t.inSet(t.separators, lower):
		tok.Kind = SeparatorHard
	case sp.kind == runPunct:
		tok.Kind = SeparatorHard
	case sp.kind == runSpace:
		tok.Kind = SeparatorSoft
	case t.inSet(t.stopWords, lower):
		tok.Kind = StopWord
	case sp.kind == runWord:
		tok.Kind = Word
	default:
		tok.Kind = Unknown
	}

	if tok.Kind == Word || tok.Kind == StopWord {
		tok.Script = scriptOf(sp.text)
		tok.Language = detectLanguage(languageHint, tok.Script, t.allowList)

		normalized := lower
		var charMap []IndexPair
		if t.lossyNormalization {
			normalized, charMap = normalizeWord(lower, t.createCharMap)
		}
		alg := t.resolveStemmerAlg(tok.Language)
		tok.Lemma = t.stem(alg, normalized)
		tok.CharMap = charMap
	} else {
		tok.Lemma = sp.text
	}

	return Pair{Surface: sp.text, Token: tok}
}

func (t *Tokenizer) inSet(set map[string]struct{}, w string) bool {
	_, ok := set[w]
	return ok
}

func toLowerASCIIAware(s string) string {
	out := []rune(s)
	for i, r := range out {
		out[i] = unicode.ToLower(r)
	}
	return string(out)
}

// applyPhrases collapses runs of Word tokens (which may have SeparatorSoft
// tokens between them, e.g. the space in "new york") whose lemmas form a
// registered phrase into a single Word token spanning the whole run.
func (t *Tokenizer) applyPhrases(pairs []Pair) []Pair {
	if t.phrases == nil || len(t.phrases.byFirstWord) == 0 {
		return pairs
	}
	var wordIdx []int
	var wordLemmas []string
	for i, p := range pairs {
		if p.Token.Kind == Word {
			wordIdx = append(wordIdx, i)
			wordLemmas = append(wordLemmas, p.Token.Lemma)
		}
	}
	merge := make(map[int]int) // pairs index of phrase start -> end (exclusive)
	for w := 0; w < len(wordIdx); {
		if n := t.phrases.matchAt(wordLemmas[w:]); n > 1 {
			start := wordIdx[w]
			end := wordIdx[w+n-1] + 1
			onlySoftGaps := true
			for _, p := range pairs[start:end] {
				if p.Token.Kind != Word && p.Token.Kind != SeparatorSoft {
					onlySoftGaps = false
					break
				}
			}
			if onlySoftGaps {
				merge[start] = end
				w += n
				continue
			}
		}
		w++
	}
	out := make([]Pair, 0, len(pairs))
	for i := 0; i < len(pairs); {
		if end, ok := merge[i]; ok {
			out = append(out, mergePhrase(pairs[i:end]))
			i = end
			continue
		}
		out = append(out, pairs[i])
		i++
	}
	return out
}

// mergePhrase collapses pairs (a Word run plus any SeparatorSoft tokens
// between the words) into one Word token. The separators' own surface text
// already carries the whitespace, so pieces are concatenated directly.
func mergePhrase(pairs []Pair) Pair {
	first, last := pairs[0], pairs[len(pairs)-1]
	var surface, lemma string
	for _, p := range pairs {
		surface += p.Surface
		lemma += p.Token.Lemma
	}
	tok := first.Token
	tok.Kind = Word
	tok.Lemma = lemma
	tok.CharEnd = last.Token.CharEnd
	tok.ByteEnd = last.Token.ByteEnd
	return Pair{Surface: surface, Token: tok}
}
