package topicmodel

import (
	"bytes"
	"math"
	"testing"
)

func buildSample(t *testing.T) *TopicModel {
	t.Helper()
	b := NewBuilder("en")
	b.AddWord(0, "cat", 0.5, 10)
	b.AddWord(0, "dog", 0.3, 5)
	b.AddWord(0, "fish", 0.2, 2)
	b.AddWord(1, "cat", 0.1, 10)
	b.AddWord(1, "dog", 0.1, 5)
	b.AddWord(1, "fish", 0.8, 2)
	tm, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return tm
}

func TestBuilderBuild(t *testing.T) {
	tm := buildSample(t)
	if tm.K() != 2 {
		t.Fatalf("K() = %d, want 2", tm.K())
	}
	if tm.Vocabulary().Len() != 3 {
		t.Fatalf("vocabulary len = %d, want 3", tm.Vocabulary().Len())
	}
	row, ok := tm.GetTopic(0)
	if !ok || len(row) != 3 {
		t.Fatalf("GetTopic(0) = %v, %v", row, ok)
	}
}

func TestGetWordsOfTopicSorted(t *testing.T) {
	tm := buildSample(t)
	words, ok := tm.GetWordsOfTopicSorted(0)
	if !ok {
		t.Fatal("GetWordsOfTopicSorted(0) ok = false")
	}
	if words[0].Word != "cat" || words[1].Word != "dog" || words[2].Word != "fish" {
		t.Fatalf("unexpected order: %+v", words)
	}
}

func TestNormalizeRowsSumToOne(t *testing.T) {
	tm := buildSample(t).Normalize()
	for topic := 0; topic < tm.K(); topic++ {
		row, _ := tm.GetTopic(topic)
		sum := 0.0
		for _, p := range row {
			sum += p
		}
		if math.Abs(sum-1) > 1e-9 {
			t.Fatalf("topic %d sums to %f, want 1", topic, sum)
		}
	}
}

func TestNormalizeZeroRowUniform(t *testing.T) {
	b := NewBuilder("en")
	b.AddWord(0, "a", 0)
	b.AddWord(0, "b", 0)
	tm, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	norm := tm.Normalize()
	row, _ := norm.GetTopic(0)
	for _, p := range row {
		if math.Abs(p-0.5) > 1e-9 {
			t.Fatalf("expected uniform row, got %v", row)
		}
	}
}

func TestShowTopRendersEveryTopic(t *testing.T) {
	tm := buildSample(t)
	out := tm.ShowTop(2)
	if !bytes.Contains([]byte(out), []byte("topic 0:")) || !bytes.Contains([]byte(out), []byte("topic 1:")) {
		t.Fatalf("ShowTop missing a topic line: %q", out)
	}
}

func TestTranslateByProvidedWordLists(t *testing.T) {
	tm := buildSample(t)
	wordLists := [][]string{
		{"gato", "perro", "pez"},
		{"gato", "perro", "pez"},
	}
	translated, err := tm.TranslateByProvidedWordLists("es", wordLists)
	if err != nil {
		t.Fatalf("TranslateByProvidedWordLists: %v", err)
	}
	if translated.Vocabulary().Lang() != "es" {
		t.Fatalf("lang = %q, want es", translated.Vocabulary().Lang())
	}
	row, _ := translated.GetTopic(0)
	sum := 0.0
	for _, p := range row {
		sum += p
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Fatalf("translated topic 0 not normalized: %v", row)
	}
}

func TestTranslateByProvidedWordListsMergesDuplicateTargets(t *testing.T) {
	b := NewBuilder("en")
	b.AddWord(0, "cat", 0.5)
	b.AddWord(0, "kitten", 0.5)
	tm, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	translated, err := tm.TranslateByProvidedWordLists("es", [][]string{{"gato", "gato"}})
	if err != nil {
		t.Fatalf("TranslateByProvidedWordLists: %v", err)
	}
	if translated.Vocabulary().Len() != 1 {
		t.Fatalf("expected merged single word, vocab len = %d", translated.Vocabulary().Len())
	}
	row, _ := translated.GetTopic(0)
	if math.Abs(row[0]-1) > 1e-9 {
		t.Fatalf("expected merged mass normalized to 1, got %v", row)
	}
}

func TestSaveLoadJSONRoundTrip(t *testing.T) {
	tm := buildSample(t)
	var buf bytes.Buffer
	if err := tm.SaveJSON(&buf); err != nil {
		t.Fatalf("SaveJSON: %v", err)
	}
	loaded, err := LoadJSONFrom(&buf)
	if err != nil {
		t.Fatalf("LoadJSONFrom: %v", err)
	}
	assertModelsEqual(t, tm, loaded)
}

func TestSaveLoadBinaryRoundTrip(t *testing.T) {
	tm := buildSample(t)
	var buf bytes.Buffer
	if err := tm.SaveBinary(&buf); err != nil {
		t.Fatalf("SaveBinary: %v", err)
	}
	loaded, err := LoadBinaryFrom(&buf)
	if err != nil {
		t.Fatalf("LoadBinaryFrom: %v", err)
	}
	assertModelsEqual(t, tm, loaded)
}

func assertModelsEqual(t *testing.T, a, b *TopicModel) {
	t.Helper()
	if a.K() != b.K() {
		t.Fatalf("K mismatch: %d vs %d", a.K(), b.K())
	}
	if !a.Vocabulary().Equal(b.Vocabulary()) {
		t.Fatalf("vocabulary mismatch")
	}
	for topic := 0; topic < a.K(); topic++ {
		rowA, _ := a.GetTopic(topic)
		rowB, _ := b.GetTopic(topic)
		for i := range rowA {
			if math.Abs(rowA[i]-rowB[i]) > 1e-12 {
				t.Fatalf("topic %d id %d mismatch: %f vs %f", topic, i, rowA[i], rowB[i])
			}
		}
	}
}

func TestGetDocProbability(t *testing.T) {
	tm := buildSample(t).Normalize()
	doc := []BowTerm{{ID: 0, Count: 3}, {ID: 1, Count: 1}}
	alpha := []float64{0.1, 0.1}
	result, err := tm.GetDocProbability(doc, alpha, 0.001, nil, nil, true)
	if err != nil {
		t.Fatalf("GetDocProbability: %v", err)
	}
	if len(result.TopicProbabilities) == 0 {
		t.Fatal("expected at least one topic probability above threshold")
	}
	sum := 0.0
	best := result.TopicProbabilities[0]
	for _, tp := range result.TopicProbabilities {
		sum += tp.Probability
		if tp.Probability > best.Probability {
			best = tp
		}
	}
	if best.Topic != 0 {
		t.Fatalf("expected topic 0 (cat/dog-heavy) to dominate a cat-heavy doc, got topic %d", best.Topic)
	}
	if sum > 1.0001 {
		t.Fatalf("topic probabilities sum to %f > 1", sum)
	}
	if result.WordTopics == nil || result.WordPhiTopics == nil {
		t.Fatal("perWordTopics requested but per-word maps are nil")
	}
}

func TestNewRejectsMismatchedRowLength(t *testing.T) {
	b := NewBuilder("en")
	b.AddWord(0, "a", 1)
	tm, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	bad := append([]float64{}, tm.topics[0]...)
	bad = append(bad, 0.5)
	if _, err := New([][]float64{bad}, tm.voc, nil, nil, nil); err == nil {
		t.Fatal("expected error for mismatched row length")
	}
}
