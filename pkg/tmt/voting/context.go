package voting

import "github.com/cognicore/tmt/pkg/tmt/internalerr"

// Context is the mutable string-keyed map of PyExprValue presented to every
// voting call: one shared global context, plus one per voter. Reading an
// unset key is an error; setting an unrecognized key is legal (votings may
// stash bookkeeping under custom names).
type Context struct {
	values map[string]Value
}

// NewContext returns an empty context.
func NewContext() *Context {
	return &Context{values: make(map[string]Value)}
}

// Set assigns key, overwriting any previous value.
func (c *Context) Set(key string, v Value) {
	c.values[key] = v
}

// Get reads key, returning an Eval error if it has never been set.
func (c *Context) Get(key string) (Value, error) {
	v, ok := c.values[key]
	if !ok {
		return nil, internalerr.New(internalerr.Eval, "undefined variable %q", key)
	}
	return v, nil
}

// Has reports whether key has been set.
func (c *Context) Has(key string) bool {
	_, ok := c.values[key]
	return ok
}

// Clone returns a shallow copy safe for a votings to mutate without
// affecting the original.
func (c *Context) Clone() *Context {
	out := make(map[string]Value, len(c.values))
	for k, v := range c.values {
		out[k] = v
	}
	return &Context{values: out}
}

// Keys the engine pre-populates. Named as constants so built-ins and the
// translation engine (§4.6) share one source of truth for the spelling.
const (
	VarEpsilon            = "EPSILON"
	VarVocabularySizeA     = "VOCABULARY_SIZE_A"
	VarVocabularySizeB     = "VOCABULARY_SIZE_B"
	VarTopicID             = "TOPIC_ID"
	VarTopicMaxProbability = "TOPIC_MAX_PROBABILITY"
	VarTopicMinProbability = "TOPIC_MIN_PROBABILITY"
	VarTopicAvgProbability = "TOPIC_AVG_PROBABILITY"
	VarTopicSumProbability = "TOPIC_SUM_PROBABILITY"
	VarCountOfVoters       = "COUNT_OF_VOTERS"
	VarNumberOfVoters      = "NUMBER_OF_VOTERS"

	VarVoterID              = "VOTER_ID"
	VarCandidateID           = "CANDIDATE_ID"
	VarHasTranslation        = "HAS_TRANSLATION"
	VarIsOriginWord          = "IS_ORIGIN_WORD"
	VarScoreCandidate        = "SCORE_CANDIDATE"
	VarRank                  = "RANK"
	VarReciprocalRank        = "RECIPROCAL_RANK"
	VarRealReciprocalRank    = "REAL_RECIPROCAL_RANK"
	VarImportance            = "IMPORTANCE"
	VarScore                 = "SCORE"
)
