package voting

import (
	"errors"
	"math"
	"testing"

	"github.com/cognicore/tmt/pkg/tmt/internalerr"
)

func mkGlobal() *Context {
	g := NewContext()
	g.Set(VarEpsilon, 1e-12)
	g.Set(VarTopicID, 0.0)
	return g
}

func mkVoters(scores map[int]float64, translated map[int]bool) []*Voter {
	ids := make([]int, 0, len(scores))
	for id := range scores {
		ids = append(ids, id)
	}
	return AssembleVoterContexts(ids,
		func(id int) float64 { return scores[id] },
		func(id int) bool { return translated[id] },
		func(id int) bool { return false },
		nil,
	)
}

func TestCombSumScenarioTwoToOneMerge(t *testing.T) {
	// cat(id 0)=0.3, kitten(id 1)=0.7, both map to "chat".
	voters := mkVoters(map[int]float64{0: 0.3, 1: 0.7}, map[int]bool{0: true, 1: true})
	score, used, err := CombSum.Voting().Evaluate(mkGlobal(), voters)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if math.Abs(score-1.0) > 1e-9 {
		t.Fatalf("CombSum = %f, want 1.0", score)
	}
	if len(used) != 2 {
		t.Fatalf("used voters = %d, want 2", len(used))
	}
}

func TestCombMaxVsCombSum(t *testing.T) {
	voters := mkVoters(map[int]float64{0: 0.4, 1: 0.6}, map[int]bool{0: true, 1: true})
	sum, _, _ := CombSum.Voting().Evaluate(mkGlobal(), voters)
	max, _, _ := CombMax.Voting().Evaluate(mkGlobal(), voters)
	if math.Abs(sum-1.0) > 1e-9 {
		t.Fatalf("CombSum = %f, want 1.0", sum)
	}
	if math.Abs(max-0.6) > 1e-9 {
		t.Fatalf("CombMax = %f, want 0.6", max)
	}
}

func TestZeroGuardDivision(t *testing.T) {
	global := mkGlobal()
	global.Set(VarEpsilon, 0.0001)
	v, err := Parse("1 / 0", nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	score, _, err := v.Evaluate(global, nil)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if math.Abs(score-0.0001) > 1e-12 {
		t.Fatalf("1/0 = %f, want epsilon 0.0001", score)
	}
}

func TestParseArithmeticAndTernary(t *testing.T) {
	v, err := Parse("(2 + 3) * 2 > 5 ? 1 : 0", nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	score, _, err := v.Evaluate(mkGlobal(), nil)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if score != 1 {
		t.Fatalf("score = %f, want 1", score)
	}
}

func TestParseSumAggregate(t *testing.T) {
	voters := mkVoters(map[int]float64{0: 1, 1: 2, 2: 3}, map[int]bool{0: true, 1: true, 2: true})
	v, err := Parse("sum(SCORE_CANDIDATE)", nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	score, _, err := v.Evaluate(mkGlobal(), voters)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if math.Abs(score-6) > 1e-9 {
		t.Fatalf("sum = %f, want 6", score)
	}
}

func TestRegistryNamedDeclarationAndLookup(t *testing.T) {
	reg := NewRegistry()
	name, err := reg.Register("Double = sum(SCORE_CANDIDATE) * 2")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if name != "Double" {
		t.Fatalf("declared name = %q, want Double", name)
	}
	got, ok := reg.GetRegistered("Double")
	if !ok {
		t.Fatal("GetRegistered(Double) not found")
	}
	voters := mkVoters(map[int]float64{0: 1, 1: 2}, map[int]bool{0: true, 1: true})
	score, _, err := got.Evaluate(mkGlobal(), voters)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if math.Abs(score-6) > 1e-9 {
		t.Fatalf("score = %f, want 6", score)
	}
}

func TestRegistrySubVotingComposition(t *testing.T) {
	reg := NewRegistry()
	if err := reg.RegisterAt("Combo", "CombSum + 1"); err != nil {
		t.Fatalf("RegisterAt: %v", err)
	}
	voters := mkVoters(map[int]float64{0: 0.5, 1: 0.5}, map[int]bool{0: true, 1: true})
	v, _ := reg.GetRegistered("Combo")
	score, _, err := v.Evaluate(mkGlobal(), voters)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if math.Abs(score-2.0) > 1e-9 {
		t.Fatalf("score = %f, want 2.0 (CombSum=1 + 1)", score)
	}
}

func TestCyclicSelfReferenceRejected(t *testing.T) {
	reg := NewRegistry()
	if err := reg.RegisterAt("Loop", "Loop + 1"); err != nil {
		t.Fatalf("RegisterAt: %v", err)
	}
	v, _ := reg.GetRegistered("Loop")
	_, _, err := v.Evaluate(mkGlobal(), nil)
	if err == nil {
		t.Fatal("expected cyclic-reference error, got nil")
	}
}

func TestLimitDecorator(t *testing.T) {
	voters := mkVoters(map[int]float64{0: 0.1, 1: 0.5, 2: 0.9}, map[int]bool{0: true, 1: true, 2: true})
	limited := Limit(CombSum.Voting(), 2)
	score, used, err := limited.Evaluate(mkGlobal(), voters)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(used) != 2 {
		t.Fatalf("used voters = %d, want 2", len(used))
	}
	if math.Abs(score-1.4) > 1e-9 {
		t.Fatalf("score = %f, want 1.4 (0.9+0.5)", score)
	}
}

func TestUndefinedIdentifierIsEvalError(t *testing.T) {
	v, err := Parse("NOT_A_VARIABLE", nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	_, _, err = v.Evaluate(mkGlobal(), nil)
	if err == nil {
		t.Fatal("expected eval error for undefined identifier")
	}
}

func TestParseErrorHasSpan(t *testing.T) {
	_, _, err := ParseSource("1 + ")
	if err == nil {
		t.Fatal("expected parse error")
	}
	var ierr *internalerr.Error
	if !errors.As(err, &ierr) || ierr.Span == nil {
		t.Fatalf("parse error %v carries no span", err)
	}
}

func TestRankAssignmentTieBreak(t *testing.T) {
	voters := mkVoters(map[int]float64{5: 0.5, 2: 0.5, 9: 0.1}, map[int]bool{5: true, 2: true, 9: true})
	byID := make(map[int]*Voter, len(voters))
	for _, v := range voters {
		byID[v.ID] = v
	}
	r2, _ := byID[2].Ctx.Get(VarRank)
	r5, _ := byID[5].Ctx.Get(VarRank)
	r9, _ := byID[9].Ctx.Get(VarRank)
	if r2.(float64) != 1 || r5.(float64) != 2 || r9.(float64) != 3 {
		t.Fatalf("ranks = id2:%v id5:%v id9:%v, want 1,2,3 (tie broken by ascending id)", r2, r5, r9)
	}
}
