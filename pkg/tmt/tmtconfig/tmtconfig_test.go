package tmtconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cognicore/tmt/pkg/tmt/translate"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestLoadTranslationConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "translation.yaml")
	writeFile(t, path, `
voting_name: CombSum
epsilon: 0.001
keep_original_word: always
top_candidate_limit: 3
`)

	cfg, err := LoadTranslationConfig(path)
	if err != nil {
		t.Fatalf("LoadTranslationConfig: %v", err)
	}
	if cfg.VotingName != "CombSum" {
		t.Errorf("VotingName = %q, want CombSum", cfg.VotingName)
	}
	if cfg.TopCandidateLimit == nil || *cfg.TopCandidateLimit != 3 {
		t.Errorf("TopCandidateLimit = %v, want 3", cfg.TopCandidateLimit)
	}

	conv := cfg.ToConfig()
	if conv.KeepOriginalWord != translate.Always {
		t.Errorf("ToConfig().KeepOriginalWord = %v, want Always", conv.KeepOriginalWord)
	}
	if conv.Epsilon != 0.001 {
		t.Errorf("ToConfig().Epsilon = %v, want 0.001", conv.Epsilon)
	}
}

func TestLoadTokenizerConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tokenizer.yaml")
	writeFile(t, path, `
stemmer_alg: english
stemmer_smart: true
stop_words: [the, a]
lossy_normalization: true
allow_list:
  Latin: [en, fr]
`)

	cfg, err := LoadTokenizerConfig(path)
	if err != nil {
		t.Fatalf("LoadTokenizerConfig: %v", err)
	}
	if len(cfg.StopWords) != 2 {
		t.Fatalf("StopWords = %v, want 2 entries", cfg.StopWords)
	}
	if !cfg.StemmerSmart {
		t.Errorf("StemmerSmart = false, want true")
	}

	tok, err := cfg.Builder().Build()
	if err != nil {
		t.Fatalf("Builder().Build(): %v", err)
	}
	pairs := tok.Tokenize("en", "the cat")
	if len(pairs) == 0 {
		t.Fatalf("Tokenize produced no tokens")
	}
}

func TestLoadVotingRegistryRegistersUnderConfiguredName(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "voting.yaml")
	writeFile(t, path, `
votings:
  my_sum: "my_sum = CombSum"
`)

	reg, err := LoadVotingRegistry(path)
	if err != nil {
		t.Fatalf("LoadVotingRegistry: %v", err)
	}
	if _, ok := reg.GetRegistered("my_sum"); !ok {
		t.Fatalf("expected my_sum to be registered")
	}
}

func TestLoadTranslationConfigMissingFile(t *testing.T) {
	if _, err := LoadTranslationConfig("/nonexistent/path.yaml"); err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}
