package tokenize

import (
	"strings"

	"github.com/kljensen/snowball"
)

// snowballLanguages is the set of algorithm names github.com/kljensen/snowball
// actually implements (spec.md §6's closed stemming-algorithm list minus
// Arabic, Greek, and Tamil, which snowball does not cover).
var snowballLanguages = map[string]bool{
	"danish": true, "dutch": true, "english": true, "finnish": true,
	"french": true, "german": true, "hungarian": true, "italian": true,
	"norwegian": true, "portuguese": true, "romanian": true, "russian": true,
	"spanish": true, "swedish": true, "turkish": true,
}

// snowballByLanguageCode maps the BCP-47 base codes detectLanguage produces
// to the snowball algorithm names above.
var snowballByLanguageCode = map[string]string{
	"da": "danish", "nl": "dutch", "en": "english", "fi": "finnish",
	"fr": "french", "de": "german", "hu": "hungarian", "it": "italian",
	"no": "norwegian", "nb": "norwegian", "pt": "portuguese", "ro": "romanian",
	"ru": "russian", "es": "spanish", "sv": "swedish", "tr": "turkish",
}

// stem returns word's stemmed form under alg, using a per-(alg,word) cache.
// Languages outside snowball's coverage (arabic, greek, tamil) fall back to
// a minimal suffix-fold stemmer rather than failing the whole tokenization.
func (t *Tokenizer) stem(alg, word string) string {
	if alg == "" {
		return word
	}
	key := alg + "\x00" + word
	if cached, ok := t.stemCache.Get(key); ok {
		return cached
	}
	var out string
	if snowballLanguages[alg] {
		if s, err := snowball.Stem(word, alg, false); err == nil {
			out = s
		} else {
			out = word
		}
	} else {
		out = fallbackStem(word)
	}
	t.stemCache.Add(key, out)
	return out
}

// fallbackStem is a minimal, linguistically-incomplete stopgap for the
// three closed-set languages snowball does not implement: fold case and
// trim one short suffix from the default (grave) declension/tense-marker
// suffix set. It is not a substitute for a real Arabic/Greek/Tamil stemmer.
func fallbackStem(word string) string {
	w := strings.ToLower(word)
	for _, suffix := range []string{"ing", "ed", "es", "s"} {
		if strings.HasSuffix(w, suffix) && len(w) > len(suffix)+2 {
			return strings.TrimSuffix(w, suffix)
		}
	}
	return w
}

// resolveStemmerAlg picks the stemming algorithm for one token: when smart
// is set, the detected language wins if snowball supports it; otherwise the
// builder's configured default algorithm applies.
func (t *Tokenizer) resolveStemmerAlg(detectedLanguage string) string {
	if t.stemmerSmart && detectedLanguage != "" {
		if snowballLanguages[detectedLanguage] {
			return detectedLanguage
		}
		if alg, ok := snowballByLanguageCode[detectedLanguage]; ok {
			return alg
		}
	}
	return t.stemmerAlg
}
