// Package aligned implements the multilingual aligned-article tokenization
// pipeline: per-language tokenizer dispatch, lazy streaming readers, a
// token-count filter, and bulk packaging with controlled temp-file behavior
// (spec.md §4.9).
package aligned

import (
	"encoding/json"
	"strings"

	"github.com/cognicore/tmt/pkg/tmt/internalerr"
	"github.com/cognicore/tmt/pkg/tmt/tokenize"
)

// Article is one language's rendering of an aligned story.
type Article struct {
	LanguageHint string   `json:"language_hint"`
	Content      string   `json:"content"`
	Categories   []string `json:"categories,omitempty"`
	IsList       bool     `json:"is_list,omitempty"`
}

// AlignedArticle pairs an article id with every language's Article, keyed
// by normalized language hint.
type AlignedArticle struct {
	ArticleID int                `json:"article_id"`
	Articles  map[string]Article `json:"articles"`
}

// Get looks up an article by raw language hint, equivalent under hint
// normalization (spec.md §3: "lookup by LanguageHint or raw string is
// equivalent under hint normalization").
func (a AlignedArticle) Get(languageHint string) (Article, bool) {
	art, ok := a.Articles[normalizeHint(languageHint)]
	return art, ok
}

func normalizeHint(hint string) string {
	return strings.ToLower(strings.TrimSpace(hint))
}

// TokenizedArticle is one language's Article after tokenization.
type TokenizedArticle struct {
	LanguageHint string          `json:"language_hint"`
	Categories   []string        `json:"categories,omitempty"`
	IsList       bool            `json:"is_list,omitempty"`
	Tokens       []tokenize.Pair `json:"tokens"`
}

// TokenizedAlignedArticle is the tokenized counterpart of AlignedArticle.
type TokenizedAlignedArticle struct {
	ArticleID int                         `json:"article_id"`
	Articles  map[string]TokenizedArticle `json:"articles"`
}

// ToJSON serializes a (round-trippable) AlignedArticle (spec.md §6).
func (a AlignedArticle) ToJSON() ([]byte, error) {
	b, err := json.Marshal(a)
	if err != nil {
		return nil, internalerr.Wrap(internalerr.Io, err, "encoding aligned article json")
	}
	return b, nil
}

// AlignedArticleFromJSON deserializes bytes produced by ToJSON.
func AlignedArticleFromJSON(b []byte) (AlignedArticle, error) {
	var a AlignedArticle
	if err := json.Unmarshal(b, &a); err != nil {
		return AlignedArticle{}, internalerr.Wrap(internalerr.Io, err, "decoding aligned article json")
	}
	return a, nil
}

// ToJSON serializes a TokenizedAlignedArticle.
func (a TokenizedAlignedArticle) ToJSON() ([]byte, error) {
	b, err := json.Marshal(a)
	if err != nil {
		return nil, internalerr.Wrap(internalerr.Io, err, "encoding tokenized aligned article json")
	}
	return b, nil
}

// TokenizedAlignedArticleFromJSON deserializes bytes produced by ToJSON.
func TokenizedAlignedArticleFromJSON(b []byte) (TokenizedAlignedArticle, error) {
	var a TokenizedAlignedArticle
	if err := json.Unmarshal(b, &a); err != nil {
		return TokenizedAlignedArticle{}, internalerr.Wrap(internalerr.Io, err, "decoding tokenized aligned article json")
	}
	return a, nil
}

// TokenCount returns the number of Word/StopWord tokens produced for the
// given language, or 0 if that language is absent.
func (a TokenizedAlignedArticle) TokenCount(languageHint string) int {
	art, ok := a.Articles[normalizeHint(languageHint)]
	if !ok {
		return 0
	}
	n := 0
	for _, p := range art.Tokens {
		if p.Token.Kind == tokenize.Word || p.Token.Kind == tokenize.StopWord {
			n++
		}
	}
	return n
}
