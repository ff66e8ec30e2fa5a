// Package translate implements the translation engine (spec.md §4.7): it
// derives a topic-specific sub-dictionary, aggregates per-topic candidate
// scores through a pluggable voting, applies the keep-original-word policy,
// and renormalizes into a fresh TopicModel over the target vocabulary.
package translate

import (
	"math"
	"sync"

	"github.com/cognicore/tmt/pkg/tmt/dict"
	"github.com/cognicore/tmt/pkg/tmt/internalerr"
	"github.com/cognicore/tmt/pkg/tmt/topicmodel"
	"github.com/cognicore/tmt/pkg/tmt/variables"
	"github.com/cognicore/tmt/pkg/tmt/vocab"
	"github.com/cognicore/tmt/pkg/tmt/voting"
)

// candidate is one output-vocabulary slot: either a translated target word
// (voters drawn from the sub-dictionary) or a kept-original source word
// (mass carried through directly, no voting).
type candidate struct {
	word       string
	voterIDs   []int // source ids that translate to this candidate; empty for a kept-original slot
	keptOrigin bool
	originID   int // valid when keptOrigin
}

// Translate runs the full pipeline of spec.md §4.7 and returns a fresh,
// normalized TopicModel over the target vocabulary. tm and d are never
// mutated.
func Translate(tm *topicmodel.TopicModel, d *dict.Dictionary, v voting.Voting, cfg Config, provider *variables.Provider) (*topicmodel.TopicModel, error) {
	if tm.Vocabulary().Len() == 0 {
		return nil, internalerr.New(internalerr.InvalidInput, "topic model vocabulary is empty")
	}
	if v == nil {
		return nil, internalerr.New(internalerr.InvalidInput, "voting must not be nil")
	}
	if err := validateProbabilities(tm); err != nil {
		return nil, err
	}

	subDict := dict.CreateTopicModelSpecificDictionary(d, tm.Vocabulary())
	if subDict.VocB().Len() == 0 && cfg.KeepOriginalWord == Never {
		return nil, internalerr.New(internalerr.InvalidInput, "dictionary has no edges intersecting the model vocabulary")
	}

	candidates := buildCandidates(tm, subDict, cfg)
	if len(candidates) == 0 {
		return nil, internalerr.New(internalerr.InvalidInput, "dictionary has no edges intersecting the model vocabulary")
	}

	freq := computeFrequency(tm, candidates)

	k := tm.K()
	rows := make([][]float64, k)
	errs := make([]error, k)
	var wg sync.WaitGroup
	for t := 0; t < k; t++ {
		wg.Add(1)
		go func(topic int) {
			defer wg.Done()
			row, err := computeTopicRow(tm, candidates, v, cfg, provider, topic)
			rows[topic] = row
			errs[topic] = err
		}(t)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	zeroFill := zeroFillValue(rows, cfg)
	for _, row := range rows {
		normalizeRowInPlace(row, zeroFill)
	}

	outVoc := vocab.New(subDict.LangB())
	for _, c := range candidates {
		outVoc.Add(c.word)
	}

	return topicmodel.New(rows, outVoc, freq, tm.DocTopicDistributions(), tm.DocumentLengths())
}

// buildCandidates assembles the deterministic, insertion-ordered list of
// output-vocabulary slots: every sub-dictionary target word first (in the
// sub-dictionary's own compacted order), then any keep_original_word
// additions in source-vocabulary id order, skipping words already present.
func buildCandidates(tm *topicmodel.TopicModel, subDict *dict.Dictionary, cfg Config) []candidate {
	vocB := subDict.VocB()
	words := vocB.Iter()
	candidates := make([]candidate, 0, len(words))
	wordToOutID := make(map[string]int, len(words))

	// group source ids by target word, preserving the order they first
	// appear across subDict's edges.
	voterIDsByWord := make(map[string][]int, len(words))
	for _, edge := range subDict.Iter() {
		voterIDsByWord[edge.B.Word] = append(voterIDsByWord[edge.B.Word], edge.A.ID)
	}

	for _, w := range words {
		wordToOutID[w] = len(candidates)
		candidates = append(candidates, candidate{word: w, voterIDs: voterIDsByWord[w]})
	}

	if cfg.KeepOriginalWord != Never {
		srcVoc := tm.Vocabulary()
		srcWords := srcVoc.Iter()
		for id, w := range srcWords {
			if cfg.KeepOriginalWord == IfNoTranslation && len(subDict.GetTranslationAToB(w)) > 0 {
				continue
			}
			if _, exists := wordToOutID[w]; exists {
				// merge into the existing slot instead of duplicating it
				idx := wordToOutID[w]
				candidates[idx].keptOrigin = true
				candidates[idx].originID = id
				continue
			}
			wordToOutID[w] = len(candidates)
			candidates = append(candidates, candidate{word: w, keptOrigin: true, originID: id})
		}
	}

	return candidates
}

func computeFrequency(tm *topicmodel.TopicModel, candidates []candidate) []int {
	srcFreq := tm.UsedVocabFrequency()
	if srcFreq == nil {
		return nil
	}
	out := make([]int, len(candidates))
	for i, c := range candidates {
		sum := 0
		for _, id := range c.voterIDs {
			sum += srcFreq[id]
		}
		if c.keptOrigin {
			sum += srcFreq[c.originID]
		}
		out[i] = sum
	}
	return out
}

func computeTopicRow(tm *topicmodel.TopicModel, candidates []candidate, v voting.Voting, cfg Config, provider *variables.Provider, topic int) ([]float64, error) {
	srcRow, _ := tm.GetTopic(topic)
	row := make([]float64, len(candidates))

	stats := topicStats(srcRow)
	epsilon := cfg.epsilonOrDefault()

	baseGlobal := voting.NewContext()
	baseGlobal.Set(voting.VarEpsilon, epsilon)
	baseGlobal.Set(voting.VarVocabularySizeA, float64(tm.Vocabulary().Len()))
	baseGlobal.Set(voting.VarVocabularySizeB, float64(len(candidates)))
	baseGlobal.Set(voting.VarTopicID, float64(topic))
	baseGlobal.Set(voting.VarTopicMaxProbability, stats.max)
	baseGlobal.Set(voting.VarTopicMinProbability, stats.min)
	baseGlobal.Set(voting.VarTopicAvgProbability, stats.avg)
	baseGlobal.Set(voting.VarTopicSumProbability, stats.sum)
	provider.ApplyGlobal(baseGlobal, topic)

	for i, c := range candidates {
		if len(c.voterIDs) > 0 {
			voters := voting.AssembleVoterContexts(c.voterIDs,
				func(id int) float64 { return srcRow[id] },
				func(int) bool { return true },
				func(int) bool { return false },
				func(int) float64 { return 1.0 },
			)
			for _, voter := range voters {
				word, _ := tm.Vocabulary().IDToWord(voter.ID)
				provider.ApplyVoter(voter.Ctx, topic, variables.A, word)
			}
			if cfg.TopCandidateLimit != nil {
				voters = voting.LimitVoters(voters, *cfg.TopCandidateLimit)
			}

			candidateGlobal := cloneWithCount(baseGlobal, len(voters))
			score, _, err := v.Evaluate(candidateGlobal, voters)
			if err != nil {
				return nil, err
			}
			if cfg.Threshold != nil && score < *cfg.Threshold {
				score = 0
			}
			row[i] += score
		}
		if c.keptOrigin {
			row[i] += srcRow[c.originID]
		}
	}
	return row, nil
}

func cloneWithCount(base *voting.Context, n int) *voting.Context {
	c := base.Clone()
	c.Set(voting.VarCountOfVoters, float64(n))
	c.Set(voting.VarNumberOfVoters, float64(n))
	return c
}

// validateProbabilities enforces the spec's "negative or non-finite input
// probabilities" failure mode up front, before any topic is processed.
func validateProbabilities(tm *topicmodel.TopicModel) error {
	for t := 0; t < tm.K(); t++ {
		row, _ := tm.GetTopic(t)
		for _, p := range row {
			if p < 0 || math.IsNaN(p) || math.IsInf(p, 0) {
				return internalerr.New(internalerr.InvalidInput, "topic %d contains an invalid probability %v", t, p)
			}
		}
	}
	return nil
}

type rowStats struct{ max, min, avg, sum float64 }

func topicStats(row []float64) rowStats {
	if len(row) == 0 {
		return rowStats{}
	}
	s := rowStats{max: row[0], min: row[0]}
	for _, p := range row {
		if p > s.max {
			s.max = p
		}
		if p < s.min {
			s.min = p
		}
		s.sum += p
	}
	s.avg = s.sum / float64(len(row))
	return s
}

// zeroFillValue is the engine's step-5 zero-replacement value: the caller's
// explicit epsilon if set, otherwise the minimum positive mass across the
// whole matrix minus a machine delta, clamped to a small positive value.
func zeroFillValue(rows [][]float64, cfg Config) float64 {
	if cfg.Epsilon > 0 {
		return cfg.Epsilon
	}
	minPositive := math.Inf(1)
	for _, row := range rows {
		for _, p := range row {
			if p > 0 && p < minPositive {
				minPositive = p
			}
		}
	}
	if math.IsInf(minPositive, 1) {
		return 1e-12
	}
	v := minPositive - 1e-15
	if v <= 0 {
		return minPositive / 2
	}
	return v
}

func normalizeRowInPlace(row []float64, zeroFill float64) {
	for i, p := range row {
		if p == 0 {
			row[i] = zeroFill
		}
	}
	// pairwise summation in vocabulary-id order keeps parallel topic
	// computation bit-identical to a sequential run (spec.md §5).
	sum := pairwiseSum(row)
	if sum == 0 {
		uniform := 1.0 / float64(len(row))
		for i := range row {
			row[i] = uniform
		}
		return
	}
	for i, p := range row {
		row[i] = p / sum
	}
}

func pairwiseSum(xs []float64) float64 {
	n := len(xs)
	if n == 0 {
		return 0
	}
	if n <= 8 {
		sum := 0.0
		for _, x := range xs {
			sum += x
		}
		return sum
	}
	mid := n / 2
	return pairwiseSum(xs[:mid]) + pairwiseSum(xs[mid:])
}
