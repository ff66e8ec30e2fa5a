package aligned

import (
	"github.com/cognicore/tmt/pkg/tmt/internalerr"
	"github.com/cognicore/tmt/pkg/tmt/tokenize"
)

// AlignedArticleProcessor builds one Tokenizer per language and dispatches
// each AlignedArticle's per-language Article to the matching tokenizer
// (spec.md §4.9).
type AlignedArticleProcessor struct {
	tokenizers map[string]*tokenize.Tokenizer
}

// NewAlignedArticleProcessor builds a tokenizer for every entry in builders
// (keyed by language hint) up front, so per-article processing never pays
// build cost.
func NewAlignedArticleProcessor(builders map[string]*tokenize.TokenizerBuilder) (*AlignedArticleProcessor, error) {
	tokenizers := make(map[string]*tokenize.Tokenizer, len(builders))
	for lang, b := range builders {
		tok, err := b.Build()
		if err != nil {
			return nil, internalerr.Wrap(internalerr.Io, err, "building tokenizer for language %q", lang)
		}
		tokenizers[normalizeHint(lang)] = tok
	}
	return &AlignedArticleProcessor{tokenizers: tokenizers}, nil
}

// Process tokenizes every language present in a, skipping languages with no
// configured tokenizer.
func (p *AlignedArticleProcessor) Process(a AlignedArticle) (TokenizedAlignedArticle, error) {
	out := TokenizedAlignedArticle{
		ArticleID: a.ArticleID,
		Articles:  make(map[string]TokenizedArticle, len(a.Articles)),
	}
	for lang, art := range a.Articles {
		tok, ok := p.tokenizers[normalizeHint(lang)]
		if !ok {
			continue
		}
		pairs := tok.Tokenize(art.LanguageHint, art.Content)
		out.Articles[lang] = TokenizedArticle{
			LanguageHint: art.LanguageHint,
			Categories:   art.Categories,
			IsList:       art.IsList,
			Tokens:       pairs,
		}
	}
	return out, nil
}

// ProcessString exposes single-string tokenization for one language.
func (p *AlignedArticleProcessor) ProcessString(languageHint, s string) ([]tokenize.Pair, error) {
	tok, ok := p.tokenizers[normalizeHint(languageHint)]
	if !ok {
		return nil, internalerr.New(internalerr.NotFound, "no tokenizer configured for language %q", languageHint)
	}
	return tok.Tokenize(languageHint, s), nil
}
