package dict

// Entry is a single bilingual translation pair with per-side provenance.
// Every set-valued field merges by union on repeated insertion; Entry
// itself is a plain value the caller builds up before calling
// Dictionary.Add — there is no dynamic single/list/tuple argument form in
// Go, so the With* builders take variadic strings instead.
type Entry struct {
	WordA, WordB string

	DictionaryA, DictionaryB []string
	MetaA, MetaB             []string

	// UnstemmedA/B map an unstemmed surface form to its per-surface meta tags.
	UnstemmedA, UnstemmedB map[string][]string
}

// NewEntry starts a bare translation pair.
func NewEntry(wordA, wordB string) *Entry {
	return &Entry{WordA: wordA, WordB: wordB}
}

// WithDictionaries tags the entry's provenance on both sides.
func (e *Entry) WithDictionaries(a, b []string) *Entry {
	e.DictionaryA = append(e.DictionaryA, a...)
	e.DictionaryB = append(e.DictionaryB, b...)
	return e
}

// WithMeta tags the entry's free-form metadata on both sides.
func (e *Entry) WithMeta(a, b []string) *Entry {
	e.MetaA = append(e.MetaA, a...)
	e.MetaB = append(e.MetaB, b...)
	return e
}

// WithUnstemmedA records an unstemmed surface form for the A side with its
// per-surface meta tags.
func (e *Entry) WithUnstemmedA(surface string, tags ...string) *Entry {
	if e.UnstemmedA == nil {
		e.UnstemmedA = make(map[string][]string)
	}
	e.UnstemmedA[surface] = append(e.UnstemmedA[surface], tags...)
	return e
}

// WithUnstemmedB is the B-side counterpart of WithUnstemmedA.
func (e *Entry) WithUnstemmedB(surface string, tags ...string) *Entry {
	if e.UnstemmedB == nil {
		e.UnstemmedB = make(map[string][]string)
	}
	e.UnstemmedB[surface] = append(e.UnstemmedB[surface], tags...)
	return e
}
