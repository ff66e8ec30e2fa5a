// Package variables implements the VariableProvider and context-layering
// rules of spec.md §4.6: pre-materialized overrides keyed by scope (global,
// per-topic, per-word-a, per-word-b, per-topic-word-a, per-topic-word-b),
// applied on top of the translation engine's computed defaults with the
// precedence per-topic-word > per-word > per-topic > global > engine default.
package variables

import "github.com/cognicore/tmt/pkg/tmt/voting"

// LanguageKind picks which side of a dictionary a per-word override applies
// to (spec.md §6).
type LanguageKind int

const (
	A LanguageKind = iota
	B
)

// Provider holds layered variable overrides. A zero-value Provider has no
// overrides at any scope and simply leaves the engine's computed defaults
// untouched.
type Provider struct {
	global        map[string]voting.Value
	perTopic      map[int]map[string]voting.Value
	perWordA      map[string]map[string]voting.Value
	perWordB      map[string]map[string]voting.Value
	perTopicWordA map[int]map[string]map[string]voting.Value
	perTopicWordB map[int]map[string]map[string]voting.Value
}

// NewProvider returns an empty provider.
func NewProvider() *Provider {
	return &Provider{
		global:        make(map[string]voting.Value),
		perTopic:      make(map[int]map[string]voting.Value),
		perWordA:      make(map[string]map[string]voting.Value),
		perWordB:      make(map[string]map[string]voting.Value),
		perTopicWordA: make(map[int]map[string]map[string]voting.Value),
		perTopicWordB: make(map[int]map[string]map[string]voting.Value),
	}
}

// SetGlobal overrides key at the global scope.
func (p *Provider) SetGlobal(key string, v voting.Value) { p.global[key] = v }

// SetTopic overrides key for every word in topic t.
func (p *Provider) SetTopic(t int, key string, v voting.Value) {
	m, ok := p.perTopic[t]
	if !ok {
		m = make(map[string]voting.Value)
		p.perTopic[t] = m
	}
	m[key] = v
}

// SetWord overrides key for word on the given side, across every topic.
func (p *Provider) SetWord(side LanguageKind, word, key string, v voting.Value) {
	table := p.perWordA
	if side == B {
		table = p.perWordB
	}
	m, ok := table[word]
	if !ok {
		m = make(map[string]voting.Value)
		table[word] = m
	}
	m[key] = v
}

// SetTopicWord overrides key for word on the given side, within topic t
// only — the most specific, highest-precedence scope.
func (p *Provider) SetTopicWord(t int, side LanguageKind, word, key string, v voting.Value) {
	table := p.perTopicWordA
	if side == B {
		table = p.perTopicWordB
	}
	byTopic, ok := table[t]
	if !ok {
		byTopic = make(map[string]map[string]voting.Value)
		table[t] = byTopic
	}
	m, ok := byTopic[word]
	if !ok {
		m = make(map[string]voting.Value)
		byTopic[word] = m
	}
	m[key] = v
}

// ApplyGlobal overlays provider globals and then provider per-topic values
// onto ctx, which the caller has already pre-populated with engine-computed
// defaults (EPSILON, VOCABULARY_SIZE_A, TOPIC_ID, ...).
func (p *Provider) ApplyGlobal(ctx *voting.Context, topic int) {
	if p == nil {
		return
	}
	for k, v := range p.global {
		ctx.Set(k, v)
	}
	if m, ok := p.perTopic[topic]; ok {
		for k, v := range m {
			ctx.Set(k, v)
		}
	}
}

// ApplyVoter overlays provider per-word and then provider per-topic-word
// values onto ctx, which the caller has already pre-populated with the
// engine-computed voter defaults (VOTER_ID, SCORE_CANDIDATE, RANK, ...).
func (p *Provider) ApplyVoter(ctx *voting.Context, topic int, side LanguageKind, word string) {
	if p == nil {
		return
	}
	table := p.perWordA
	topicTable := p.perTopicWordA
	if side == B {
		table = p.perWordB
		topicTable = p.perTopicWordB
	}
	if m, ok := table[word]; ok {
		for k, v := range m {
			ctx.Set(k, v)
		}
	}
	if byTopic, ok := topicTable[topic]; ok {
		if m, ok := byTopic[word]; ok {
			for k, v := range m {
				ctx.Set(k, v)
			}
		}
	}
}
