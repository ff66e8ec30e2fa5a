package topicmodel

import (
	"math"
	"sort"

	"github.com/cognicore/tmt/pkg/tmt/internalerr"
)

// BowTerm is one (word id, count) entry of a bag-of-words document, the
// same representation Gensim's get_document_topics expects.
type BowTerm struct {
	ID    int
	Count float64
}

// TopicProb is a (topic, probability) pair surfaced from inference.
type TopicProb struct {
	Topic       int
	Probability float64
}

// PhiTopic is a (topic, phi) pair: the per-word variational assignment
// weight to a topic.
type PhiTopic struct {
	Topic int
	Phi   float64
}

// DocProbabilityResult is the result of GetDocProbability.
type DocProbabilityResult struct {
	TopicProbabilities []TopicProb
	WordTopics         map[int][]int        // only populated when perWordTopics is true
	WordPhiTopics      map[int][]PhiTopic   // only populated when perWordTopics is true
}

const defaultMinimumProbability = 0.01
const defaultMinimumPhiValue = 0.01
const maxInferenceIterations = 50

// GetDocProbability performs variational inference of a single document's
// topic distribution against the stored model, following the same
// E-step structure as Gensim's LdaModel.get_document_topics: iteratively
// refine gamma (the document's Dirichlet topic posterior) via digamma-based
// coordinate ascent until the mean absolute change falls below
// gammaThreshold or maxInferenceIterations is reached.
//
// This model stores point-estimate topic-word probabilities rather than a
// trained Dirichlet lambda matrix, so topics[t][w] is used directly in
// place of Gensim's expElogbeta (see DESIGN.md) — the iteration structure
// and stopping rule match the reference contract; the per-word-under-topic
// likelihood term is a simplification appropriate to a model re-projected
// by translation rather than freshly trained.
func (tm *TopicModel) GetDocProbability(doc []BowTerm, alpha []float64, gammaThreshold float64, minimumProbability, minimumPhiValue *float64, perWordTopics bool) (DocProbabilityResult, error) {
	k := tm.K()
	if k == 0 {
		return DocProbabilityResult{}, internalerr.New(internalerr.InvalidInput, "topic model has no topics")
	}
	if len(alpha) != k {
		return DocProbabilityResult{}, internalerr.New(internalerr.InvalidInput, "alpha has %d entries, want %d (k)", len(alpha), k)
	}
	if gammaThreshold <= 0 {
		gammaThreshold = 0.001
	}
	minProb := defaultMinimumProbability
	if minimumProbability != nil {
		minProb = *minimumProbability
	}
	minPhi := defaultMinimumPhiValue
	if minimumPhiValue != nil {
		minPhi = *minimumPhiValue
	}

	gamma := make([]float64, k)
	for t := range gamma {
		gamma[t] = alpha[t] + float64(len(doc))/float64(k)
	}

	expElogtheta := make([]float64, k)
	phi := make([][]float64, len(doc)) // [term][topic]
	for i := range phi {
		phi[i] = make([]float64, k)
	}

	for iter := 0; iter < maxInferenceIterations; iter++ {
		gammaSum := 0.0
		for _, g := range gamma {
			gammaSum += g
		}
		digammaSum := digamma(gammaSum)
		for t := range gamma {
			expElogtheta[t] = math.Exp(digamma(gamma[t]) - digammaSum)
		}

		newGamma := make([]float64, k)
		copy(newGamma, alpha)

		for i, term := range doc {
			rowSum := 0.0
			for t := 0; t < k; t++ {
				row, _ := tm.GetTopic(t)
				beta := 0.0
				if term.ID >= 0 && term.ID < len(row) {
					beta = row[term.ID]
				}
				v := expElogtheta[t] * (beta + 1e-12)
				phi[i][t] = v
				rowSum += v
			}
			if rowSum == 0 {
				rowSum = 1
			}
			for t := 0; t < k; t++ {
				phi[i][t] /= rowSum
				newGamma[t] += phi[i][t] * term.Count
			}
		}

		delta := 0.0
		for t := range gamma {
			delta += math.Abs(newGamma[t] - gamma[t])
		}
		gamma = newGamma
		if delta/float64(k) < gammaThreshold {
			break
		}
	}

	gammaSum := 0.0
	for _, g := range gamma {
		gammaSum += g
	}
	result := DocProbabilityResult{}
	for t, g := range gamma {
		p := g / gammaSum
		if p >= minProb {
			result.TopicProbabilities = append(result.TopicProbabilities, TopicProb{Topic: t, Probability: p})
		}
	}

	if perWordTopics {
		result.WordTopics = make(map[int][]int, len(doc))
		result.WordPhiTopics = make(map[int][]PhiTopic, len(doc))
		for i, term := range doc {
			var topics []PhiTopic
			for t := 0; t < k; t++ {
				if phi[i][t] >= minPhi {
					topics = append(topics, PhiTopic{Topic: t, Phi: phi[i][t]})
				}
			}
			sort.Slice(topics, func(a, b int) bool { return topics[a].Phi > topics[b].Phi })
			ids := make([]int, len(topics))
			for j, pt := range topics {
				ids[j] = pt.Topic
			}
			result.WordTopics[term.ID] = ids
			result.WordPhiTopics[term.ID] = topics
		}
	}

	return result, nil
}

// digamma approximates the digamma function (d/dx ln Gamma(x)) via the
// standard recurrence + asymptotic expansion. No third-party numeric
// library is used here: spec.md §1 explicitly treats numeric math
// libraries as an external collaborator, and the stdlib math package has
// no digamma of its own, so this hand-rolled approximation stands in for
// it (see DESIGN.md).
func digamma(x float64) float64 {
	var result float64
	for x < 6 {
		result -= 1 / x
		x++
	}
	f := 1 / (x * x)
	result += math.Log(x) - 0.5/x -
		f*(1.0/12-f*(1.0/120-f*(1.0/252-f*(1.0/240-f*(1.0/132)))))
	return result
}
