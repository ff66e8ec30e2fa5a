package tokenize

import (
	"sort"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

var foldCaser = cases.Fold()

// scriptNames is a fixed, sorted iteration order over unicode.Scripts so
// scriptOf is deterministic regardless of Go's randomized map order.
var scriptNames = sortedScriptNames()

func sortedScriptNames() []string {
	names := make([]string, 0, len(unicode.Scripts))
	for name := range unicode.Scripts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// normalizeWord applies lossy_normalization (NFKD then case fold) and
// records the resulting original->normalized rune-index correspondence
// when withCharMap is set. The correspondence is best-effort: when input
// and output have the same rune count each output rune maps to the input
// rune at the same index; otherwise output index i maps proportionally to
// input index i*len(in)/len(out), clamped to the last input rune.
func normalizeWord(word string, withCharMap bool) (string, []IndexPair) {
	decomposed := norm.NFKD.String(word)
	folded := foldCaser.String(decomposed)
	if !withCharMap {
		return folded, nil
	}
	in := []rune(word)
	out := []rune(folded)
	charMap := make([]IndexPair, len(out))
	// best-effort uniform scaling when lengths diverge; exact when they match.
	for i := range out {
		srcIdx := i
		if len(out) != len(in) && len(out) > 0 {
			srcIdx = i * len(in) / len(out)
		}
		if srcIdx >= len(in) {
			srcIdx = len(in) - 1
		}
		charMap[i] = IndexPair{Original: srcIdx, Normalized: i}
	}
	return folded, charMap
}

// scriptOf returns the Unicode script name of the word's first rune that
// belongs to any script table (digits, for instance, resolve to "Common"),
// or "" if it contains none.
func scriptOf(word string) string {
	for _, r := range word {
		for _, name := range scriptNames {
			if unicode.Is(unicode.Scripts[name], r) {
				return name
			}
		}
	}
	return ""
}

// detectLanguage canonicalizes hint to a BCP-47 tag string, constrained by
// allowList[script] when set: the hint wins if it appears in the allowed
// set (after canonicalization), otherwise the allowed set's first entry is
// used as the script's default language.
func detectLanguage(hint, script string, allowList map[string][]string) string {
	canon := canonicalizeLanguage(hint)
	allowed, constrained := allowList[script]
	if !constrained {
		return canon
	}
	for _, lang := range allowed {
		if canonicalizeLanguage(lang) == canon {
			return canon
		}
	}
	if len(allowed) > 0 {
		return canonicalizeLanguage(allowed[0])
	}
	return canon
}

func canonicalizeLanguage(hint string) string {
	if hint == "" {
		return ""
	}
	tag, err := language.Parse(hint)
	if err != nil {
		return hint
	}
	base, conf := tag.Base()
	if conf == language.No {
		return tag.String()
	}
	return base.String()
}
