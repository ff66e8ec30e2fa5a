package topicmodel

import (
	"github.com/cognicore/tmt/pkg/tmt/internalerr"
	"github.com/cognicore/tmt/pkg/tmt/vocab"
)

// Builder incrementally constructs a TopicModel, growing the vocabulary as
// words are added and filling absent cells with 0 at Build time.
type Builder struct {
	voc                   *vocab.Vocabulary
	frequency             map[string]int
	cells                 map[int]map[int]float64 // topic -> word id -> probability
	k                     int
	docTopicDistributions [][]float64
	documentLengths       []int
}

// NewBuilder starts a builder, optionally tagging the vocabulary's language.
func NewBuilder(lang string) *Builder {
	return &Builder{
		voc:       vocab.New(lang),
		frequency: make(map[string]int),
		cells:     make(map[int]map[int]float64),
	}
}

// SetFrequency records (or overwrites) the raw corpus frequency of w.
func (b *Builder) SetFrequency(w string, freq int) *Builder {
	b.frequency[w] = freq
	return b
}

// AddWord inserts w into the vocabulary if absent, sets topics[t][id(w)]=p,
// and — if freq is given — accumulates it into w's frequency.
func (b *Builder) AddWord(t int, w string, p float64, freq ...int) *Builder {
	id := b.voc.Add(w)
	if t+1 > b.k {
		b.k = t + 1
	}
	row, ok := b.cells[t]
	if !ok {
		row = make(map[int]float64)
		b.cells[t] = row
	}
	row[id] = p
	if len(freq) > 0 {
		b.frequency[w] += freq[0]
	}
	return b
}

// AccumulateWord is AddWord but adds addend to whatever mass w already
// carries in topic t instead of overwriting it — the merge semantics
// keep_original_word and multi-candidate translation both need when two
// separate contributions land on the same target word.
func (b *Builder) AccumulateWord(t int, w string, addend float64, freq ...int) *Builder {
	id := b.voc.Add(w)
	if t+1 > b.k {
		b.k = t + 1
	}
	row, ok := b.cells[t]
	if !ok {
		row = make(map[int]float64)
		b.cells[t] = row
	}
	row[id] += addend
	if len(freq) > 0 {
		b.frequency[w] += freq[0]
	}
	return b
}

// SetDocTopicDistributions sets (or clears, with nil) the optional
// per-document topic distributions.
func (b *Builder) SetDocTopicDistributions(dists [][]float64) *Builder {
	b.docTopicDistributions = dists
	return b
}

// SetDocumentLengths sets (or clears, with nil) the optional per-document
// lengths.
func (b *Builder) SetDocumentLengths(lens []int) *Builder {
	b.documentLengths = lens
	return b
}

// Build validates that every topic row covers the whole vocabulary (absent
// cells default to 0) and returns the finished TopicModel.
func (b *Builder) Build() (*TopicModel, error) {
	if b.k == 0 {
		return nil, internalerr.New(internalerr.InvalidInput, "cannot build a topic model with zero topics")
	}
	vlen := b.voc.Len()
	topics := make([][]float64, b.k)
	for t := 0; t < b.k; t++ {
		row := make([]float64, vlen)
		for id, p := range b.cells[t] {
			row[id] = p
		}
		topics[t] = row
	}

	freq := make([]int, vlen)
	for w, f := range b.frequency {
		id, ok := b.voc.WordToID(w)
		if !ok {
			continue // frequency set for a word never added to a topic row
		}
		freq[id] = f
	}

	return New(topics, b.voc, freq, b.docTopicDistributions, b.documentLengths)
}
