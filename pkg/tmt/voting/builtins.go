package voting

import "math"

// Builtin names the closed set of library votings spec.md §4.5 enumerates.
// Reference definitions there are given as illustrative math; Builtins below
// pins them down exactly, per the open question in §9.
type Builtin int

const (
	OriginalScore Builtin = iota
	Voters
	CombSum
	GCombSum
	CombSumTop
	CombSumPow2
	CombMax
	RR
	RRPow2
	CombSumRR
	CombSumRRPow2
	CombSumPow2RR
	CombSumPow2RRPow2
	ExpCombMnz
	WCombSum
	WCombSumG
	WGCombSum
	PCombSum
)

var builtinNames = map[Builtin]string{
	OriginalScore:      "OriginalScore",
	Voters:             "Voters",
	CombSum:            "CombSum",
	GCombSum:           "GCombSum",
	CombSumTop:         "CombSumTop",
	CombSumPow2:        "CombSumPow2",
	CombMax:            "CombMax",
	RR:                 "RR",
	RRPow2:             "RRPow2",
	CombSumRR:          "CombSumRR",
	CombSumRRPow2:      "CombSumRRPow2",
	CombSumPow2RR:      "CombSumPow2RR",
	CombSumPow2RRPow2:  "CombSumPow2RRPow2",
	ExpCombMnz:         "ExpCombMnz",
	WCombSum:           "WCombSum",
	WCombSumG:          "WCombSumG",
	WGCombSum:          "WGCombSum",
	PCombSum:           "PCombSum",
}

// String returns the library's declared name for b.
func (b Builtin) String() string {
	if s, ok := builtinNames[b]; ok {
		return s
	}
	return "unknown"
}

// BuiltinByName resolves a built-in by its declared name, for config files
// and CLIs that name a voting as a plain string.
func BuiltinByName(name string) (Voting, bool) {
	for b, n := range builtinNames {
		if n == name {
			return Builtin(b).Voting(), true
		}
	}
	return nil, false
}

// Voting returns the Voting implementation for b.
func (b Builtin) Voting() Voting {
	return Func(func(global *Context, voters []*Voter) (float64, []*Voter, error) {
		switch b {
		case OriginalScore:
			return originalScoreOfTopVoter(voters), all(voters), nil
		case Voters:
			return float64(len(voters)), all(voters), nil
		case CombSum:
			return sumBy(voters, scoreCandidate), all(voters), nil
		case GCombSum:
			// Generalized CombSum weighted by REAL_RECIPROCAL_RANK, folding
			// the G-variant's reciprocal-rank weighting directly into the sum.
			return sumBy(voters, func(v *Voter) float64 { return scoreCandidate(v) * realReciprocalRank(v) }), all(voters), nil
		case CombSumTop:
			// Restricts CombSum to voters that actually carry a translation
			// (HAS_TRANSLATION), so untranslated placeholders never inflate
			// the sum; see DESIGN.md for the open-question resolution.
			used := make([]*Voter, 0, len(voters))
			for _, v := range voters {
				if hasTranslation(v) {
					used = append(used, v)
				}
			}
			return sumBy(used, scoreCandidate), used, nil
		case CombSumPow2:
			return sumBy(voters, func(v *Voter) float64 { s := scoreCandidate(v); return s * s }), all(voters), nil
		case CombMax:
			return maxBy(voters, scoreCandidate), all(voters), nil
		case RR:
			return sumBy(voters, func(v *Voter) float64 { return 1.0 / rank(v) }), all(voters), nil
		case RRPow2:
			return sumBy(voters, func(v *Voter) float64 { r := 1.0 / rank(v); return r * r }), all(voters), nil
		case CombSumRR:
			comb := sumBy(voters, scoreCandidate)
			rr := sumBy(voters, func(v *Voter) float64 { return 1.0 / rank(v) })
			return comb * rr, all(voters), nil
		case CombSumRRPow2:
			comb := sumBy(voters, scoreCandidate)
			rr := sumBy(voters, func(v *Voter) float64 { r := 1.0 / rank(v); return r * r })
			return comb * rr, all(voters), nil
		case CombSumPow2RR:
			comb := sumBy(voters, func(v *Voter) float64 { s := scoreCandidate(v); return s * s })
			rr := sumBy(voters, func(v *Voter) float64 { return 1.0 / rank(v) })
			return comb * rr, all(voters), nil
		case CombSumPow2RRPow2:
			comb := sumBy(voters, func(v *Voter) float64 { s := scoreCandidate(v); return s * s })
			rr := sumBy(voters, func(v *Voter) float64 { r := 1.0 / rank(v); return r * r })
			return comb * rr, all(voters), nil
		case ExpCombMnz:
			expSum := sumBy(voters, func(v *Voter) float64 { return math.Exp(scoreCandidate(v)) })
			return expSum * countTranslated(voters), all(voters), nil
		case WCombSum:
			return sumBy(voters, func(v *Voter) float64 { return scoreCandidate(v) * importance(v) }), all(voters), nil
		case WCombSumG:
			return sumBy(voters, func(v *Voter) float64 { return scoreCandidate(v) * realReciprocalRank(v) }), all(voters), nil
		case WGCombSum:
			// Combines both weighting signals: importance and the
			// reciprocal-rank-among-translated-voters factor.
			return sumBy(voters, func(v *Voter) float64 { return scoreCandidate(v) * importance(v) * realReciprocalRank(v) }), all(voters), nil
		case PCombSum:
			// A probability-normalized CombSum: each voter's contribution is
			// weighted by its share of the total incoming mass, so PCombSum
			// always returns a value in [0, max(SCORE_CANDIDATE)].
			total := sumBy(voters, scoreCandidate)
			eps := epsilonOf(global)
			return sumBy(voters, func(v *Voter) float64 {
				s := scoreCandidate(v)
				return s * safeDiv(s, total, eps)
			}), all(voters), nil
		default:
			return 0, nil, nil
		}
	})
}
