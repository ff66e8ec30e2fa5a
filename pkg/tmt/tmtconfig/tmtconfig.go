// Package tmtconfig loads the YAML-backed configuration structs that
// parameterize a translation run, a tokenizer build, and a voting registry
// (SPEC_FULL.md §3c), mirroring pkg/korel/config's flat
// "read file, unmarshal into a small struct, return" pattern.
package tmtconfig

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/tmt/pkg/tmt/internalerr"
	"github.com/cognicore/tmt/pkg/tmt/tokenize"
	"github.com/cognicore/tmt/pkg/tmt/translate"
	"github.com/cognicore/tmt/pkg/tmt/voting"
)

// TranslationConfig is the YAML shape of a translate.Config plus the
// voting selection, since a config file names a voting by registry name
// rather than embedding a Voting value.
type TranslationConfig struct {
	VotingName        string   `yaml:"voting_name"`
	Epsilon           float64  `yaml:"epsilon"`
	Threshold         *float64 `yaml:"threshold"`
	KeepOriginalWord  string   `yaml:"keep_original_word"` // "never" | "always" | "if_no_translation"
	TopCandidateLimit *int     `yaml:"top_candidate_limit"`
}

// LoadTranslationConfig reads and parses a translation config file.
func LoadTranslationConfig(path string) (*TranslationConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, internalerr.Wrap(internalerr.Io, err, "reading translation config %s", path)
	}
	var cfg TranslationConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, internalerr.Wrap(internalerr.Io, err, "parsing translation config %s", path)
	}
	return &cfg, nil
}

// ToConfig converts the YAML shape into translate.Config; VotingName is
// resolved separately by the caller against a voting.Registry, since
// resolution can fail independently of the rest of the config.
func (c *TranslationConfig) ToConfig() translate.Config {
	keep := translate.Never
	switch c.KeepOriginalWord {
	case "always":
		keep = translate.Always
	case "if_no_translation":
		keep = translate.IfNoTranslation
	}
	return translate.Config{
		Epsilon:           c.Epsilon,
		Threshold:         c.Threshold,
		KeepOriginalWord:  keep,
		TopCandidateLimit: c.TopCandidateLimit,
	}
}

// TokenizerConfig is the YAML shape of a tokenize.TokenizerBuilder.
type TokenizerConfig struct {
	UnicodeSegmentation bool                `yaml:"unicode_segmentation"`
	StemmerAlg          string              `yaml:"stemmer_alg"`
	StemmerSmart        bool                `yaml:"stemmer_smart"`
	StopWords           []string            `yaml:"stop_words"`
	Separators          []string            `yaml:"separators"`
	WordsDict           []string            `yaml:"words_dict"`
	CreateCharMap       bool                `yaml:"create_char_map"`
	LossyNormalization  bool                `yaml:"lossy_normalization"`
	AllowList           map[string][]string `yaml:"allow_list"`
	PhraseVocabulary    []string            `yaml:"phrase_vocabulary"`
}

// LoadTokenizerConfig reads and parses a tokenizer config file.
func LoadTokenizerConfig(path string) (*TokenizerConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, internalerr.Wrap(internalerr.Io, err, "reading tokenizer config %s", path)
	}
	var cfg TokenizerConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, internalerr.Wrap(internalerr.Io, err, "parsing tokenizer config %s", path)
	}
	return &cfg, nil
}

// Builder materializes the config into a ready-to-build TokenizerBuilder.
func (c *TokenizerConfig) Builder() *tokenize.TokenizerBuilder {
	b := tokenize.NewTokenizerBuilder().
		UnicodeSegmentation(c.UnicodeSegmentation).
		Stemmer(c.StemmerAlg, c.StemmerSmart).
		StopWords(c.StopWords).
		Separators(c.Separators).
		WordsDict(c.WordsDict).
		CreateCharMap(c.CreateCharMap).
		LossyNormalization(c.LossyNormalization).
		PhraseVocabulary(c.PhraseVocabulary)
	for script, langs := range c.AllowList {
		b = b.AllowList(script, langs)
	}
	return b
}

// VotingRegistryConfig is the YAML shape of a set of named voting
// expression sources to register up front.
type VotingRegistryConfig struct {
	// Votings maps registry name -> voting expression source.
	Votings map[string]string `yaml:"votings"`
}

// LoadVotingRegistry reads a voting registry config file and returns a
// voting.Registry with every declared expression registered under its
// config-file name (via RegisterAt, so the file's name always wins over
// whatever name the expression itself declares).
func LoadVotingRegistry(path string) (*voting.Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, internalerr.Wrap(internalerr.Io, err, "reading voting registry config %s", path)
	}
	var cfg VotingRegistryConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, internalerr.Wrap(internalerr.Io, err, "parsing voting registry config %s", path)
	}
	reg := voting.NewRegistry()
	for name, source := range cfg.Votings {
		if err := reg.RegisterAt(name, source); err != nil {
			return nil, err
		}
	}
	return reg, nil
}
