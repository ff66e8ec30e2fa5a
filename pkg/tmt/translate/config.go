package translate

// KeepOriginalWord controls whether (and when) a source word's own mass is
// carried through to the output vocabulary verbatim (spec.md §4.7 step 4).
type KeepOriginalWord int

const (
	// Never: the output vocabulary only ever contains dictionary targets.
	Never KeepOriginalWord = iota
	// Always: every source word's mass is additionally placed under its
	// own surface string in the output vocabulary.
	Always
	// IfNoTranslation: only source words with no edge in the derived
	// sub-dictionary get their own mass carried through.
	IfNoTranslation
)

// Config configures one Translate invocation (spec.md §4.7 "Inputs").
type Config struct {
	// Epsilon is both the value the voting DSL's zero-guard yields for a
	// division by zero and, when
	// set (> 0), the explicit fill value for zero cells in step 5. Zero
	// means "compute the engine default" in both roles.
	Epsilon float64
	// Threshold, if set, zeroes any candidate score below it before
	// zero-replacement/renormalization.
	Threshold *float64
	// KeepOriginalWord is Never unless explicitly set.
	KeepOriginalWord KeepOriginalWord
	// TopCandidateLimit, if set, caps each candidate's voters to the
	// top-n by SCORE_CANDIDATE before the voting runs.
	TopCandidateLimit *int
}

func (c Config) epsilonOrDefault() float64 {
	if c.Epsilon > 0 {
		return c.Epsilon
	}
	return 1e-12
}
