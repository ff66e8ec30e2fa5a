package variables

import (
	"testing"

	"github.com/cognicore/tmt/pkg/tmt/voting"
)

func TestPrecedenceTopicWordBeatsWordBeatsTopicBeatsGlobal(t *testing.T) {
	p := NewProvider()
	p.SetGlobal("IMPORTANCE", 1.0)
	p.SetTopic(0, "IMPORTANCE", 2.0)
	p.SetWord(A, "cat", "IMPORTANCE", 3.0)
	p.SetTopicWord(0, A, "cat", "IMPORTANCE", 4.0)

	ctx := voting.NewContext()
	ctx.Set("IMPORTANCE", 0.5) // engine-computed default
	p.ApplyVoter(ctx, 0, A, "cat")
	// The engine applies ApplyGlobal to the global context and ApplyVoter to
	// each voter's context; here both run on one ctx, and the final
	// ApplyVoter call leaves the voter-scoped value in place.
	p.ApplyGlobal(ctx, 0)
	p.ApplyVoter(ctx, 0, A, "cat")

	got, err := ctx.Get("IMPORTANCE")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.(float64) != 4.0 {
		t.Fatalf("IMPORTANCE = %v, want 4.0 (per-topic-word wins)", got)
	}
}

func TestWordOverrideAppliesAcrossTopicsWithoutTopicSpecificOverride(t *testing.T) {
	p := NewProvider()
	p.SetWord(B, "chat", "IMPORTANCE", 5.0)

	ctx := voting.NewContext()
	ctx.Set("IMPORTANCE", 1.0)
	p.ApplyVoter(ctx, 7, B, "chat")

	got, _ := ctx.Get("IMPORTANCE")
	if got.(float64) != 5.0 {
		t.Fatalf("IMPORTANCE = %v, want 5.0", got)
	}
}

func TestGlobalScopeAppliesAtEveryTopic(t *testing.T) {
	p := NewProvider()
	p.SetGlobal("EPSILON", 1e-6)

	ctx := voting.NewContext()
	ctx.Set("EPSILON", 1e-12)
	p.ApplyGlobal(ctx, 3)

	got, _ := ctx.Get("EPSILON")
	if got.(float64) != 1e-6 {
		t.Fatalf("EPSILON = %v, want 1e-6", got)
	}
}

func TestNilProviderLeavesDefaultsUntouched(t *testing.T) {
	var p *Provider
	ctx := voting.NewContext()
	ctx.Set("SCORE_CANDIDATE", 0.42)
	p.ApplyVoter(ctx, 0, A, "x")
	p.ApplyGlobal(ctx, 0)

	got, _ := ctx.Get("SCORE_CANDIDATE")
	if got.(float64) != 0.42 {
		t.Fatalf("SCORE_CANDIDATE = %v, want unchanged 0.42", got)
	}
}

func TestNoOverrideLeavesEngineDefault(t *testing.T) {
	p := NewProvider()
	ctx := voting.NewContext()
	ctx.Set("RANK", 1.0)
	p.ApplyVoter(ctx, 0, A, "unmentioned")
	got, _ := ctx.Get("RANK")
	if got.(float64) != 1.0 {
		t.Fatalf("RANK = %v, want unchanged 1.0", got)
	}
}
