package topicmodel

import "github.com/cognicore/tmt/pkg/tmt/internalerr"

// TranslateByProvidedWordLists projects the model onto a target vocabulary
// using a caller-supplied, per-topic word mapping instead of the voting
// engine: wordLists[t][w] names the target-language word that source word
// id w's probability mass is attributed to within topic t. Multiple source
// words mapping to the same target word within a topic have their mass
// summed (the same aggregation CombSum performs), then every row is
// renormalized. usedVocabFrequency for the target vocabulary sums the
// source frequencies of every word that contributed to it.
func (tm *TopicModel) TranslateByProvidedWordLists(langB string, wordLists [][]string) (*TopicModel, error) {
	if len(wordLists) != tm.K() {
		return nil, internalerr.New(internalerr.InvalidInput, "word_lists has %d rows, want %d (k)", len(wordLists), tm.K())
	}
	for t, row := range wordLists {
		if len(row) != tm.voc.Len() {
			return nil, internalerr.New(internalerr.InvalidInput, "word_lists[%d] has %d entries, want %d (vocabulary size)", t, len(row), tm.voc.Len())
		}
	}

	b := NewBuilder(langB)
	for t, row := range wordLists {
		srcRow, _ := tm.GetTopic(t)
		for srcID, targetWord := range row {
			mass := srcRow[srcID]
			if mass == 0 {
				continue
			}
			existing := 0.0
			if id, ok := b.voc.WordToID(targetWord); ok {
				existing = b.cells[t][id]
			}
			var srcFreq int
			if tm.usedVocabFrequency != nil {
				srcFreq = tm.usedVocabFrequency[srcID]
			}
			b.AddWord(t, targetWord, existing+mass, srcFreq)
		}
	}

	built, err := b.Build()
	if err != nil {
		return nil, err
	}
	return built.Normalize(), nil
}
