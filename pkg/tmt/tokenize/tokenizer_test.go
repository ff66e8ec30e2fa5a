package tokenize

import "testing"

func wordsOf(t *testing.T, pairs []Pair, kind Kind) []string {
	t.Helper()
	var out []string
	for _, p := range pairs {
		if p.Token.Kind == kind {
			out = append(out, p.Surface)
		}
	}
	return out
}

func TestTokenizeSplitsWordsAndSeparators(t *testing.T) {
	tok, err := NewTokenizerBuilder().Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	pairs := tok.Tokenize("en", "cats, dogs.")
	words := wordsOf(t, pairs, Word)
	if len(words) != 2 || words[0] != "cats" || words[1] != "dogs" {
		t.Fatalf("words = %v, want [cats dogs]", words)
	}
	hard := wordsOf(t, pairs, SeparatorHard)
	if len(hard) == 0 {
		t.Fatalf("expected at least one hard separator, got %v", pairs)
	}
}

func TestTokenizeStopwordsReclassify(t *testing.T) {
	tok, err := NewTokenizerBuilder().StopWords([]string{"the"}).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	pairs := tok.Tokenize("en", "the cat")
	if pairs[0].Token.Kind != StopWord {
		t.Fatalf("first token kind = %v, want StopWord", pairs[0].Token.Kind)
	}
}

func TestTokenizeWordsDictOverridesDefaultClassification(t *testing.T) {
	tok, err := NewTokenizerBuilder().WordsDict([]string{"utf8"}).StopWords([]string{"utf8"}).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	pairs := tok.Tokenize("en", "utf8")
	if pairs[0].Token.Kind != Word {
		t.Fatalf("kind = %v, want Word", pairs[0].Token.Kind)
	}
}

func TestTokenizeCharAndByteOffsets(t *testing.T) {
	tok, err := NewTokenizerBuilder().Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	// "café" has a multi-byte 'é'; the following space starts at char 4,
	// byte 5.
	pairs := tok.Tokenize("fr", "café x")
	if pairs[0].Token.CharStart != 0 || pairs[0].Token.CharEnd != 4 {
		t.Fatalf("char span = [%d,%d), want [0,4)", pairs[0].Token.CharStart, pairs[0].Token.CharEnd)
	}
	if pairs[0].Token.ByteStart != 0 || pairs[0].Token.ByteEnd != 5 {
		t.Fatalf("byte span = [%d,%d), want [0,5)", pairs[0].Token.ByteStart, pairs[0].Token.ByteEnd)
	}
}

func TestTokenizePhraseVocabularyCollapsesRun(t *testing.T) {
	tok, err := NewTokenizerBuilder().PhraseVocabulary([]string{"new york"}).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	pairs := tok.Tokenize("en", "new york city")
	words := wordsOf(t, pairs, Word)
	if len(words) != 2 || words[0] != "new york" || words[1] != "city" {
		t.Fatalf("words = %v, want [\"new york\" city]", words)
	}
}

func TestTokenizeStemmerAppliesSnowball(t *testing.T) {
	tok, err := NewTokenizerBuilder().Stemmer("english", false).LossyNormalization(true).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	pairs := tok.Tokenize("en", "running")
	if pairs[0].Token.Lemma == "running" {
		t.Fatalf("lemma unchanged, want a stemmed form, got %q", pairs[0].Token.Lemma)
	}
}

func TestTokenizeUnsupportedLanguageFallsBackToSuffixStrip(t *testing.T) {
	tok, err := NewTokenizerBuilder().Stemmer("arabic", false).LossyNormalization(true).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	pairs := tok.Tokenize("ar", "cats")
	if pairs[0].Token.Lemma != "cat" {
		t.Fatalf("lemma = %q, want \"cat\" via fallback stemmer", pairs[0].Token.Lemma)
	}
}

func TestTokenizeEmptyInputProducesNoTokens(t *testing.T) {
	tok, err := NewTokenizerBuilder().Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	pairs := tok.Tokenize("en", "")
	if len(pairs) != 0 {
		t.Fatalf("pairs = %v, want empty", pairs)
	}
}

func TestTokenizeAllowListConstrainsLanguage(t *testing.T) {
	tok, err := NewTokenizerBuilder().AllowList("Latin", []string{"fr"}).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	pairs := tok.Tokenize("de", "chat")
	if pairs[0].Token.Language != "fr" {
		t.Fatalf("language = %q, want constrained to fr", pairs[0].Token.Language)
	}
}
