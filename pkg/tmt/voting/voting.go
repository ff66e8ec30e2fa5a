package voting

// Voting is the closed tagged-variant of spec.md §9: a built-in, a parsed
// expression, or a host callback all satisfy this same interface so the
// translation engine never has to branch on which kind it was given.
// Evaluate returns the aggregated score for one candidate word plus the
// ordered subset of voters that contributed non-vacuously.
type Voting interface {
	Evaluate(global *Context, voters []*Voter) (float64, []*Voter, error)
}

// Func adapts a plain Go function into a Voting, for host callbacks.
type Func func(global *Context, voters []*Voter) (float64, []*Voter, error)

// Evaluate implements Voting.
func (f Func) Evaluate(global *Context, voters []*Voter) (float64, []*Voter, error) {
	return f(global, voters)
}

// Limited wraps a Voting with the `.limit(n)` decorator: voters are capped
// to the top-n by SCORE_CANDIDATE before the wrapped voting runs.
type Limited struct {
	Inner Voting
	N     int
}

// Limit returns v decorated with a top-n voter cap.
func Limit(v Voting, n int) Voting {
	return &Limited{Inner: v, N: n}
}

// Evaluate implements Voting.
func (l *Limited) Evaluate(global *Context, voters []*Voter) (float64, []*Voter, error) {
	return l.Inner.Evaluate(global, LimitVoters(voters, l.N))
}

func epsilonOf(global *Context) float64 {
	if v, err := global.Get(VarEpsilon); err == nil {
		if f, err := asFloat(v); err == nil {
			return f
		}
	}
	return 1e-12
}

func scoreCandidate(v *Voter) float64 {
	val, _ := v.Ctx.Get(VarScoreCandidate)
	f, _ := asFloat(val)
	return f
}

func rank(v *Voter) float64 {
	val, _ := v.Ctx.Get(VarRank)
	f, _ := asFloat(val)
	return f
}

func realReciprocalRank(v *Voter) float64 {
	val, _ := v.Ctx.Get(VarRealReciprocalRank)
	f, _ := asFloat(val)
	return f
}

func importance(v *Voter) float64 {
	val, _ := v.Ctx.Get(VarImportance)
	f, _ := asFloat(val)
	return f
}

func hasTranslation(v *Voter) bool {
	val, _ := v.Ctx.Get(VarHasTranslation)
	b, _ := asBool(val)
	return b
}

func isOriginWord(v *Voter) bool {
	val, _ := v.Ctx.Get(VarIsOriginWord)
	b, _ := asBool(val)
	return b
}

func originalScoreOfTopVoter(voters []*Voter) float64 {
	if len(voters) == 0 {
		return 0
	}
	best := voters[0]
	for _, v := range voters[1:] {
		if isOriginWord(v) {
			best = v
			break
		}
	}
	return scoreCandidate(best)
}

func countTranslated(voters []*Voter) float64 {
	n := 0.0
	for _, v := range voters {
		if hasTranslation(v) {
			n++
		}
	}
	return n
}

func sumBy(voters []*Voter, f func(*Voter) float64) float64 {
	sum := 0.0
	for _, v := range voters {
		sum += f(v)
	}
	return sum
}

func maxBy(voters []*Voter, f func(*Voter) float64) float64 {
	if len(voters) == 0 {
		return 0
	}
	m := f(voters[0])
	for _, v := range voters[1:] {
		if x := f(v); x > m {
			m = x
		}
	}
	return m
}

// all returns the full voter list unchanged; every built-in except
// CombSumTop consults the whole input set, so its used_voters equals voters
// unless a `.limit` already trimmed it upstream.
func all(voters []*Voter) []*Voter { return voters }
