// Package topicmodel implements the k x |V| LDA topic-word matrix: its
// invariants, top-N queries, row-stochastic normalization, persistence, and
// a simplified variational document-topic inference pass modeled on
// Gensim's get_document_topics contract (spec.md §4.3).
package topicmodel

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cognicore/tmt/pkg/tmt/internalerr"
	"github.com/cognicore/tmt/pkg/tmt/vocab"
)

// TopicModel is an LDA model already trained elsewhere: a probability
// matrix, its vocabulary, per-word frequencies, and optionally per-document
// topic distributions and lengths.
type TopicModel struct {
	topics                [][]float64
	voc                   *vocab.Vocabulary
	usedVocabFrequency    []int
	docTopicDistributions [][]float64 // optional, nil if never set
	documentLengths       []int       // optional, nil if never set
}

// New wraps an already-built topic matrix. Prefer Builder for incremental
// construction; New is for callers that already have a complete, validated
// matrix (e.g. a deserializer).
func New(topics [][]float64, voc *vocab.Vocabulary, usedVocabFrequency []int, docTopicDistributions [][]float64, documentLengths []int) (*TopicModel, error) {
	for t, row := range topics {
		if len(row) != voc.Len() {
			return nil, internalerr.New(internalerr.InvalidInput, "topic %d has %d entries, want %d (vocabulary size)", t, len(row), voc.Len())
		}
	}
	if usedVocabFrequency != nil && len(usedVocabFrequency) != voc.Len() {
		return nil, internalerr.New(internalerr.InvalidInput, "used_vocab_frequency has %d entries, want %d", len(usedVocabFrequency), voc.Len())
	}
	return &TopicModel{
		topics:                topics,
		voc:                   voc,
		usedVocabFrequency:    usedVocabFrequency,
		docTopicDistributions: docTopicDistributions,
		documentLengths:       documentLengths,
	}, nil
}

// K returns the number of topics.
func (tm *TopicModel) K() int { return len(tm.topics) }

// Vocabulary returns the model's vocabulary.
func (tm *TopicModel) Vocabulary() *vocab.Vocabulary { return tm.voc }

// UsedVocabFrequency returns the per-word frequency row, or nil if unset.
func (tm *TopicModel) UsedVocabFrequency() []int { return tm.usedVocabFrequency }

// DocTopicDistributions returns the optional per-document topic
// distributions, or nil if never set.
func (tm *TopicModel) DocTopicDistributions() [][]float64 { return tm.docTopicDistributions }

// DocumentLengths returns the optional per-document lengths, or nil.
func (tm *TopicModel) DocumentLengths() []int { return tm.documentLengths }

// GetTopic returns topic t's raw probability row.
func (tm *TopicModel) GetTopic(t int) ([]float64, bool) {
	if t < 0 || t >= len(tm.topics) {
		return nil, false
	}
	return tm.topics[t], true
}

// WordProb is a (word, probability) pair.
type WordProb struct {
	Word        string
	Probability float64
}

// GetWordsOfTopicSorted returns topic t's words sorted by probability
// descending, with lexicographic tie-break.
func (tm *TopicModel) GetWordsOfTopicSorted(t int) ([]WordProb, bool) {
	row, ok := tm.GetTopic(t)
	if !ok {
		return nil, false
	}
	out := make([]WordProb, 0, len(row))
	for id, p := range row {
		word, _ := tm.voc.IDToWord(id)
		out = append(out, WordProb{Word: word, Probability: p})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Probability != out[j].Probability {
			return out[i].Probability > out[j].Probability
		}
		return out[i].Word < out[j].Word
	})
	return out, true
}

// IDWordProb is an (id, word, probability) triple.
type IDWordProb struct {
	ID          int
	Word        string
	Probability float64
}

// GetTopicAsWords returns topic t as (id, word, probability) triples in
// vocabulary-id order.
func (tm *TopicModel) GetTopicAsWords(t int) ([]IDWordProb, bool) {
	row, ok := tm.GetTopic(t)
	if !ok {
		return nil, false
	}
	out := make([]IDWordProb, len(row))
	for id, p := range row {
		word, _ := tm.voc.IDToWord(id)
		out[id] = IDWordProb{ID: id, Word: word, Probability: p}
	}
	return out, true
}

// ShowTop renders a human-readable top-n summary of every topic.
func (tm *TopicModel) ShowTop(n int) string {
	if n <= 0 {
		n = 10
	}
	var b strings.Builder
	for t := range tm.topics {
		words, _ := tm.GetWordsOfTopicSorted(t)
		if n < len(words) {
			words = words[:n]
		}
		fmt.Fprintf(&b, "topic %d:", t)
		for _, wp := range words {
			fmt.Fprintf(&b, " %s(%.4f)", wp.Word, wp.Probability)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Normalize returns a new model whose rows each sum to 1. A topic whose row
// sums to zero is replaced with a uniform distribution, so the invariant
// "every row sums to 1" holds unconditionally rather than only on
// already-nonzero rows.
func (tm *TopicModel) Normalize() *TopicModel {
	out := make([][]float64, len(tm.topics))
	uniform := 1.0 / float64(tm.voc.Len())
	for t, row := range tm.topics {
		sum := 0.0
		for _, p := range row {
			sum += p
		}
		newRow := make([]float64, len(row))
		if sum == 0 {
			for i := range newRow {
				newRow[i] = uniform
			}
		} else {
			for i, p := range row {
				newRow[i] = p / sum
			}
		}
		out[t] = newRow
	}
	return &TopicModel{
		topics:                out,
		voc:                   tm.voc,
		usedVocabFrequency:    tm.usedVocabFrequency,
		docTopicDistributions: tm.docTopicDistributions,
		documentLengths:       tm.documentLengths,
	}
}
