package translate

import (
	"math"
	"testing"

	"github.com/cognicore/tmt/pkg/tmt/dict"
	"github.com/cognicore/tmt/pkg/tmt/topicmodel"
	"github.com/cognicore/tmt/pkg/tmt/vocab"
	"github.com/cognicore/tmt/pkg/tmt/voting"
)

func buildModel(t *testing.T, lang string, words []string, topics [][]float64) *topicmodel.TopicModel {
	t.Helper()
	b := topicmodel.NewBuilder(lang)
	for ti, row := range topics {
		for wi, p := range row {
			b.AddWord(ti, words[wi], p)
		}
	}
	tm, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return tm
}

func rowOf(t *testing.T, tm *topicmodel.TopicModel, topic int) map[string]float64 {
	t.Helper()
	words, ok := tm.GetTopicAsWords(topic)
	if !ok {
		t.Fatalf("topic %d not found", topic)
	}
	out := make(map[string]float64, len(words))
	for _, wp := range words {
		out[wp.Word] = wp.Probability
	}
	return out
}

func TestTranslateTrivialIdentity(t *testing.T) {
	tm := buildModel(t, "en", []string{"cat"}, [][]float64{{1.0}})
	d := dict.New("en", "fr")
	d.AddWordPair("cat", "chat", nil, nil, nil, nil)

	out, err := Translate(tm, d, voting.CombSum.Voting(), Config{}, nil)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if out.K() != 1 {
		t.Fatalf("K = %d, want 1", out.K())
	}
	if out.Vocabulary().Len() != 1 || !out.Vocabulary().Contains("chat") {
		t.Fatalf("vocabulary = %v, want [chat]", out.Vocabulary().Iter())
	}
	row := rowOf(t, out, 0)
	if math.Abs(row["chat"]-1.0) > 1e-9 {
		t.Fatalf("chat = %v, want 1.0", row["chat"])
	}
}

func TestTranslateTwoToOneMerge(t *testing.T) {
	tm := buildModel(t, "en", []string{"cat", "kitten"}, [][]float64{{0.3, 0.7}})
	d := dict.New("en", "fr")
	d.AddWordPair("cat", "chat", nil, nil, nil, nil)
	d.AddWordPair("kitten", "chat", nil, nil, nil, nil)

	out, err := Translate(tm, d, voting.CombSum.Voting(), Config{}, nil)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	row := rowOf(t, out, 0)
	if math.Abs(row["chat"]-1.0) > 1e-9 {
		t.Fatalf("chat = %v, want 1.0", row["chat"])
	}
}

func TestTranslateOneToTwoSplit(t *testing.T) {
	tm := buildModel(t, "en", []string{"big"}, [][]float64{{1.0}})
	d := dict.New("en", "fr")
	d.AddWordPair("big", "grand", nil, nil, nil, nil)
	d.AddWordPair("big", "gros", nil, nil, nil, nil)

	out, err := Translate(tm, d, voting.CombSum.Voting(), Config{}, nil)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	row := rowOf(t, out, 0)
	if math.Abs(row["grand"]-0.5) > 1e-9 || math.Abs(row["gros"]-0.5) > 1e-9 {
		t.Fatalf("row = %v, want {grand:0.5, gros:0.5}", row)
	}
}

func TestTranslateCombMaxVsCombSum(t *testing.T) {
	tm := buildModel(t, "en", []string{"a", "b"}, [][]float64{{0.4, 0.6}})
	d := dict.New("en", "fr")
	d.AddWordPair("a", "x", nil, nil, nil, nil)
	d.AddWordPair("b", "x", nil, nil, nil, nil)
	// give x a second target so the two votings diverge post-normalization:
	// without a second candidate CombMax would also collapse to 1.0.
	d.AddWordPair("a", "y", nil, nil, nil, nil)

	sumOut, err := Translate(tm, d, voting.CombSum.Voting(), Config{}, nil)
	if err != nil {
		t.Fatalf("Translate(CombSum): %v", err)
	}
	maxOut, err := Translate(tm, d, voting.CombMax.Voting(), Config{}, nil)
	if err != nil {
		t.Fatalf("Translate(CombMax): %v", err)
	}

	sumRow := rowOf(t, sumOut, 0)
	maxRow := rowOf(t, maxOut, 0)
	if sumRow["x"] == maxRow["x"] {
		t.Fatalf("expected CombSum and CombMax to diverge on x, got %v both", sumRow["x"])
	}
	// CombSum pre-norm: x=1.0, y=0.4 -> x post-norm = 1/1.4
	wantSumX := 1.0 / 1.4
	if math.Abs(sumRow["x"]-wantSumX) > 1e-9 {
		t.Fatalf("CombSum x = %v, want %v", sumRow["x"], wantSumX)
	}
	// CombMax pre-norm: x=0.6, y=0.4 -> x post-norm = 0.6
	wantMaxX := 0.6
	if math.Abs(maxRow["x"]-wantMaxX) > 1e-9 {
		t.Fatalf("CombMax x = %v, want %v", maxRow["x"], wantMaxX)
	}
}

func TestTranslateKeepIfNoTranslation(t *testing.T) {
	tm := buildModel(t, "en", []string{"cat", "xyz"}, [][]float64{{0.3, 0.7}})
	d := dict.New("en", "fr")
	d.AddWordPair("cat", "chat", nil, nil, nil, nil)

	out, err := Translate(tm, d, voting.CombSum.Voting(), Config{KeepOriginalWord: IfNoTranslation}, nil)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if !out.Vocabulary().Contains("chat") || !out.Vocabulary().Contains("xyz") {
		t.Fatalf("vocabulary = %v, want [chat xyz]", out.Vocabulary().Iter())
	}
	row := rowOf(t, out, 0)
	if math.Abs(row["chat"]-0.3) > 1e-9 || math.Abs(row["xyz"]-0.7) > 1e-9 {
		t.Fatalf("row = %v, want {chat:0.3, xyz:0.7}", row)
	}
}

func TestTranslateKeepNeverExcludesUntranslatedWords(t *testing.T) {
	tm := buildModel(t, "en", []string{"cat", "xyz"}, [][]float64{{0.3, 0.7}})
	d := dict.New("en", "fr")
	d.AddWordPair("cat", "chat", nil, nil, nil, nil)

	out, err := Translate(tm, d, voting.CombSum.Voting(), Config{KeepOriginalWord: Never}, nil)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if out.Vocabulary().Contains("xyz") {
		t.Fatalf("vocabulary = %v, must not contain xyz under Never", out.Vocabulary().Iter())
	}
}

func TestTranslateKeepAlwaysAddsEveryWord(t *testing.T) {
	tm := buildModel(t, "en", []string{"cat"}, [][]float64{{1.0}})
	d := dict.New("en", "fr")
	d.AddWordPair("cat", "chat", nil, nil, nil, nil)

	out, err := Translate(tm, d, voting.CombSum.Voting(), Config{KeepOriginalWord: Always}, nil)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if !out.Vocabulary().Contains("chat") || !out.Vocabulary().Contains("cat") {
		t.Fatalf("vocabulary = %v, want both chat and cat", out.Vocabulary().Iter())
	}
}

func TestTranslateRowsSumToOneWithinEpsilon(t *testing.T) {
	tm := buildModel(t, "en", []string{"cat", "kitten", "dog"}, [][]float64{
		{0.2, 0.3, 0.5},
		{0.6, 0.1, 0.3},
	})
	d := dict.New("en", "fr")
	d.AddWordPair("cat", "chat", nil, nil, nil, nil)
	d.AddWordPair("kitten", "chat", nil, nil, nil, nil)
	d.AddWordPair("dog", "chien", nil, nil, nil, nil)

	out, err := Translate(tm, d, voting.CombSum.Voting(), Config{}, nil)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	for topic := 0; topic < out.K(); topic++ {
		row := rowOf(t, out, topic)
		sum := 0.0
		for _, p := range row {
			if p < 0 || math.IsNaN(p) || math.IsInf(p, 0) {
				t.Fatalf("topic %d has invalid probability %v", topic, p)
			}
			sum += p
		}
		if math.Abs(sum-1.0) > 1e-9 {
			t.Fatalf("topic %d sums to %v, want 1.0", topic, sum)
		}
	}
}

func TestTranslateDeterministicAcrossRuns(t *testing.T) {
	tm := buildModel(t, "en", []string{"cat", "kitten", "dog", "puppy"}, [][]float64{
		{0.1, 0.2, 0.3, 0.4},
		{0.4, 0.3, 0.2, 0.1},
		{0.25, 0.25, 0.25, 0.25},
	})
	d := dict.New("en", "fr")
	d.AddWordPair("cat", "chat", nil, nil, nil, nil)
	d.AddWordPair("kitten", "chat", nil, nil, nil, nil)
	d.AddWordPair("dog", "chien", nil, nil, nil, nil)
	d.AddWordPair("puppy", "chien", nil, nil, nil, nil)

	var first map[string]float64
	for i := 0; i < 5; i++ {
		out, err := Translate(tm, d, voting.CombSum.Voting(), Config{}, nil)
		if err != nil {
			t.Fatalf("Translate: %v", err)
		}
		row := rowOf(t, out, 1)
		if first == nil {
			first = row
			continue
		}
		for w, p := range row {
			if first[w] != p {
				t.Fatalf("run %d: topic 1 word %q = %v, want bit-identical %v", i, w, p, first[w])
			}
		}
	}
}

func TestTranslateRejectsEmptyVocabulary(t *testing.T) {
	emptyTM, err := topicmodel.New(nil, vocab.New("en"), nil, nil, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	d := dict.New("en", "fr")
	d.AddWordPair("cat", "chat", nil, nil, nil, nil)

	_, err = Translate(emptyTM, d, voting.CombSum.Voting(), Config{}, nil)
	if err == nil {
		t.Fatal("expected error for empty topic model vocabulary")
	}
}

func TestTranslateRejectsDictionaryWithNoIntersectingEdges(t *testing.T) {
	tm := buildModel(t, "en", []string{"cat"}, [][]float64{{1.0}})
	_, err := Translate(tm, dict.New("en", "fr"), voting.CombSum.Voting(), Config{}, nil)
	if err == nil {
		t.Fatal("expected error for dictionary with no intersecting edges")
	}
}

func TestTranslateRejectsNilVoting(t *testing.T) {
	tm := buildModel(t, "en", []string{"cat"}, [][]float64{{1.0}})
	d := dict.New("en", "fr")
	d.AddWordPair("cat", "chat", nil, nil, nil, nil)

	_, err := Translate(tm, d, nil, Config{}, nil)
	if err == nil {
		t.Fatal("expected error for nil voting")
	}
}
