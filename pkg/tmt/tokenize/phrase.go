package tokenize

import "strings"

// phraseIndex groups phrases by their first word so the tokenizer's
// post-pass only has to try matches starting at words that could plausibly
// begin one.
type phraseIndex struct {
	byFirstWord map[string][][]string // first word -> candidate word sequences, longest first
}

func buildPhraseIndex(phrases []string) *phraseIndex {
	idx := &phraseIndex{byFirstWord: make(map[string][][]string)}
	for _, p := range phrases {
		words := strings.Fields(p)
		if len(words) < 2 {
			continue
		}
		idx.byFirstWord[words[0]] = append(idx.byFirstWord[words[0]], words)
	}
	for k, seqs := range idx.byFirstWord {
		// longest-match-first: try longer phrases before shorter ones that
		// share the same starting word.
		for i := 1; i < len(seqs); i++ {
			for j := i; j > 0 && len(seqs[j-1]) < len(seqs[j]); j-- {
				seqs[j-1], seqs[j] = seqs[j], seqs[j-1]
			}
		}
		idx.byFirstWord[k] = seqs
	}
	return idx
}

// matchAt returns the length (in tokens) of the longest phrase starting at
// words[0], or 0 if none matches.
func (idx *phraseIndex) matchAt(words []string) int {
	if idx == nil || len(words) == 0 {
		return 0
	}
	candidates := idx.byFirstWord[words[0]]
	for _, seq := range candidates {
		if len(seq) > len(words) {
			continue
		}
		match := true
		for i, w := range seq {
			if words[i] != w {
				match = false
				break
			}
		}
		if match {
			return len(seq)
		}
	}
	return 0
}
