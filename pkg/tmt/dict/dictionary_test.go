package dict

import (
	"bytes"
	"testing"

	"github.com/cognicore/tmt/pkg/tmt/vocab"
)

func TestAddDirectionKindNewPair(t *testing.T) {
	d := New("en", "fr")
	_, _, dir := d.AddWordPair("cat", "chat", nil, nil, nil, nil)
	if dir != AToB {
		t.Errorf("brand new pair should classify AToB, got %v", dir)
	}
}

func TestAddDirectionKindOnlyBNew(t *testing.T) {
	d := New("en", "fr")
	d.AddWordPair("cat", "chat", nil, nil, nil, nil)
	_, _, dir := d.AddWordPair("cat", "minou", nil, nil, nil, nil)
	if dir != AToB {
		t.Errorf("only-B-new insert should classify AToB, got %v", dir)
	}
}

func TestAddDirectionKindOnlyANew(t *testing.T) {
	d := New("en", "fr")
	d.AddWordPair("cat", "chat", nil, nil, nil, nil)
	_, _, dir := d.AddWordPair("kitten", "chat", nil, nil, nil, nil)
	if dir != BToA {
		t.Errorf("only-A-new insert should classify BToA, got %v", dir)
	}
}

func TestAddDirectionKindInvariantOnRepeat(t *testing.T) {
	d := New("en", "fr")
	d.AddWordPair("cat", "chat", []string{"wikt"}, nil, nil, nil)
	_, _, dir := d.AddWordPair("cat", "chat", []string{"babelnet"}, nil, nil, nil)
	if dir != Invariant {
		t.Errorf("re-adding an existing edge should classify Invariant, got %v", dir)
	}
	meta, ok := d.GetMetaAOf("cat")
	if !ok {
		t.Fatalf("expected metadata for cat")
	}
	if len(meta.Dictionaries) != 2 {
		t.Errorf("metadata should merge by union, got %v", meta.Dictionaries)
	}
}

func TestSymmetricLookup(t *testing.T) {
	d := New("en", "fr")
	d.AddWordPair("cat", "chat", nil, nil, nil, nil)

	aToB := d.GetTranslationAToB("cat")
	if len(aToB) != 1 || aToB[0] != "chat" {
		t.Errorf("a->b lookup wrong: %v", aToB)
	}
	bToA := d.GetTranslationBToA("chat")
	if len(bToA) != 1 || bToA[0] != "cat" {
		t.Errorf("b->a lookup wrong: %v", bToA)
	}
}

func TestSwitchAToBIsAView(t *testing.T) {
	d := New("en", "fr")
	d.AddWordPair("cat", "chat", nil, nil, nil, nil)

	swapped := d.SwitchAToB()
	if swapped.VocA() != d.VocB() {
		t.Errorf("switch_a_to_b should share the same underlying vocabulary, not copy it")
	}
	got := swapped.GetTranslationAToB("chat")
	if len(got) != 1 || got[0] != "cat" {
		t.Errorf("swapped view lookup wrong: %v", got)
	}
}

func TestIterYieldsEachEdgeOnceInInsertionOrder(t *testing.T) {
	d := New("en", "fr")
	d.AddWordPair("cat", "chat", nil, nil, nil, nil)
	d.AddWordPair("dog", "chien", nil, nil, nil, nil)
	d.AddWordPair("cat", "chat", nil, nil, nil, nil) // repeat

	edges := d.Iter()
	if len(edges) != 2 {
		t.Fatalf("expected 2 distinct edges, got %d", len(edges))
	}
	if edges[0].A.Word != "cat" || edges[1].A.Word != "dog" {
		t.Errorf("iter should preserve insertion order, got %v / %v", edges[0].A.Word, edges[1].A.Word)
	}
}

func TestFilterRetainsBothSidesSatisfying(t *testing.T) {
	d := New("en", "fr")
	d.AddWordPair("cat", "chat", []string{"core"}, nil, nil, nil)
	d.AddWordPair("dog", "chien", []string{"extra"}, nil, nil, nil)

	filtered := d.Filter(func(word string, meta SolvedMetadata, hasMeta bool) bool {
		for _, tag := range meta.Dictionaries {
			if tag == "core" {
				return true
			}
		}
		return false
	}, nil)

	if filtered.VocA().Len() != 1 || !filtered.VocAContains("cat") {
		t.Errorf("filter should have kept only cat, got %v", filtered.VocA().Iter())
	}
}

func TestSubDictionaryRestrictsToVocAndCompactsB(t *testing.T) {
	d := New("en", "fr")
	d.AddWordPair("cat", "chat", nil, nil, nil, nil)
	d.AddWordPair("dog", "chien", nil, nil, nil, nil)
	d.AddWordPair("xyz", "zzz", nil, nil, nil, nil)

	restriction := vocab.New("en")
	restriction.Add("dog")
	restriction.Add("cat")

	sub := CreateTopicModelSpecificDictionary(d, restriction)

	if sub.VocA().Len() != 2 {
		t.Fatalf("expected sub-dict vocA len 2, got %d", sub.VocA().Len())
	}
	// Same ids as the restriction vocabulary.
	dogID, _ := sub.VocA().WordToID("dog")
	if dogID != 0 {
		t.Errorf("expected dog id 0 (matching restriction vocab), got %d", dogID)
	}
	if sub.VocB().Len() != 2 {
		t.Errorf("expected compacted vocB len 2 (chat, chien), got %d: %v", sub.VocB().Len(), sub.VocB().Iter())
	}
	if got := sub.GetTranslationAToB("xyz"); got != nil {
		t.Errorf("xyz should have been dropped from sub-dictionary, got %v", got)
	}
}

func TestDictionaryJSONRoundTrip(t *testing.T) {
	d := New("en", "fr")
	d.AddWordPair("cat", "chat", []string{"wikt"}, []string{"wikt"}, []string{"noun"}, []string{"noun"})

	var buf bytes.Buffer
	if err := d.SaveJSON(&buf); err != nil {
		t.Fatalf("SaveJSON: %v", err)
	}
	got, err := LoadJSON(&buf)
	if err != nil {
		t.Fatalf("LoadJSON: %v", err)
	}
	if got.GetTranslationAToB("cat")[0] != "chat" {
		t.Errorf("round-tripped dictionary lost the cat->chat edge")
	}
	meta, ok := got.GetMetaAOf("cat")
	if !ok || len(meta.Dictionaries) != 1 || meta.Dictionaries[0] != "wikt" {
		t.Errorf("round-tripped dictionary lost metadata: %+v, %v", meta, ok)
	}
}

func TestDictionaryBinaryRoundTrip(t *testing.T) {
	d := New("en", "fr")
	d.AddWordPair("big", "grand", nil, nil, nil, nil)
	d.AddWordPair("big", "gros", nil, nil, nil, nil)

	var buf bytes.Buffer
	if err := d.SaveBinary(&buf); err != nil {
		t.Fatalf("SaveBinary: %v", err)
	}
	got, err := LoadBinary(&buf)
	if err != nil {
		t.Fatalf("LoadBinary: %v", err)
	}
	translations := got.GetTranslationAToB("big")
	if len(translations) != 2 {
		t.Fatalf("expected 2 translations for big, got %v", translations)
	}
}
