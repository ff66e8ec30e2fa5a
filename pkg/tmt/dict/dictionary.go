// Package dict implements the bilingual dictionary model: entries with
// per-side provenance and metadata, directional A<->B lookup, a
// zero-copy A<->B swapped view, predicate-based filtering, and the
// topic-model-specific sub-dictionary restriction used by the translation
// engine (spec.md §4.4).
package dict

import (
	"github.com/cognicore/tmt/pkg/tmt/internalerr"
	"github.com/cognicore/tmt/pkg/tmt/vocab"
)

// edgeRecord is one A<->B translation edge, recorded once in insertion
// order regardless of how many times it is subsequently re-added.
type edgeRecord struct {
	idA, idB int
	dir      DirectionKind
}

// dictCore holds the actual storage; Dictionary is a thin, possibly-swapped
// view over a shared core (spec.md §9: switch_a_to_b is a view, not a copy).
type dictCore struct {
	vocA, vocB   *vocab.Vocabulary
	langA, langB string

	aToB map[int][]int // idA -> ordered, deduped list of idB
	bToA map[int][]int // idB -> ordered, deduped list of idA

	metaA map[int]*metadata // keyed by idA
	metaB map[int]*metadata // keyed by idB

	unstemmedVoc *vocab.Vocabulary // implicit vocabulary of every unstemmed surface form seen

	edges []edgeRecord

	knownDictionaries *orderedSet
	knownTags         *orderedSet
}

// Dictionary is a bilingual translation index over two vocabularies.
type Dictionary struct {
	core    *dictCore
	swapped bool
}

// New creates an empty dictionary for the given (lang_a, lang_b) direction.
func New(langA, langB string) *Dictionary {
	return &Dictionary{
		core: &dictCore{
			vocA:              vocab.New(langA),
			vocB:              vocab.New(langB),
			langA:             langA,
			langB:             langB,
			aToB:              make(map[int][]int),
			bToA:              make(map[int][]int),
			metaA:             make(map[int]*metadata),
			metaB:             make(map[int]*metadata),
			unstemmedVoc:      vocab.New(""),
			knownDictionaries: newOrderedSet(),
			knownTags:         newOrderedSet(),
		},
	}
}

// VocA / VocB return this view's source/target vocabularies.
func (d *Dictionary) VocA() *vocab.Vocabulary {
	if d.swapped {
		return d.core.vocB
	}
	return d.core.vocA
}

func (d *Dictionary) VocB() *vocab.Vocabulary {
	if d.swapped {
		return d.core.vocA
	}
	return d.core.vocB
}

// LangA / LangB return the view's direction tags.
func (d *Dictionary) LangA() string {
	if d.swapped {
		return d.core.langB
	}
	return d.core.langA
}

func (d *Dictionary) LangB() string {
	if d.swapped {
		return d.core.langA
	}
	return d.core.langB
}

func (d *Dictionary) fwdEdges() map[int][]int {
	if d.swapped {
		return d.core.bToA
	}
	return d.core.aToB
}

func (d *Dictionary) bwdEdges() map[int][]int {
	if d.swapped {
		return d.core.aToB
	}
	return d.core.bToA
}

func (d *Dictionary) metaSrc() map[int]*metadata {
	if d.swapped {
		return d.core.metaB
	}
	return d.core.metaA
}

func (d *Dictionary) metaDst() map[int]*metadata {
	if d.swapped {
		return d.core.metaA
	}
	return d.core.metaB
}

// SwitchAToB returns a view with A and B roles swapped, sharing all
// underlying storage with d — no word tables are copied.
func (d *Dictionary) SwitchAToB() *Dictionary {
	return &Dictionary{core: d.core, swapped: !d.swapped}
}

func addOrdered(m map[int][]int, from, to int) bool {
	for _, existing := range m[from] {
		if existing == to {
			return false
		}
	}
	m[from] = append(m[from], to)
	return true
}

// Add inserts e, merging metadata if the pair already existed, and reports
// which direction acquired a genuinely new endpoint.
func (d *Dictionary) Add(e *Entry) (idA, idB int, dir DirectionKind) {
	vocA, vocB := d.VocA(), d.VocB()

	existedA := vocA.Contains(e.WordA)
	existedB := vocB.Contains(e.WordB)
	idA = vocA.Add(e.WordA)
	idB = vocB.Add(e.WordB)

	switch {
	case !existedA && !existedB:
		dir = AToB // tie-break per spec.md §9 Open Questions
	case existedA && !existedB:
		dir = AToB
	case !existedA && existedB:
		dir = BToA
	default:
		dir = Invariant
	}

	fwd, bwd := d.fwdEdges(), d.bwdEdges()
	isNewEdge := addOrdered(fwd, idA, idB)
	if isNewEdge {
		addOrdered(bwd, idB, idA)
		recordDir := dir
		if d.swapped {
			recordDir = recordDir.swap()
		}
		recA, recB := idA, idB
		if d.swapped {
			recA, recB = idB, idA
		}
		d.core.edges = append(d.core.edges, edgeRecord{idA: recA, idB: recB, dir: recordDir})
	} else {
		dir = Invariant // re-adding an existing edge only ever merges metadata
	}

	metaSrc, metaDst := d.metaSrc(), d.metaDst()
	ms, ok := metaSrc[idA]
	if !ok {
		ms = newMetadata()
		metaSrc[idA] = ms
	}
	ms.merge(e.DictionaryA, e.MetaA, e.UnstemmedA)

	md, ok := metaDst[idB]
	if !ok {
		md = newMetadata()
		metaDst[idB] = md
	}
	md.merge(e.DictionaryB, e.MetaB, e.UnstemmedB)

	d.core.knownDictionaries.addAll(e.DictionaryA)
	d.core.knownDictionaries.addAll(e.DictionaryB)
	d.core.knownTags.addAll(e.MetaA)
	d.core.knownTags.addAll(e.MetaB)
	for surface := range e.UnstemmedA {
		d.core.unstemmedVoc.Add(surface)
	}
	for surface := range e.UnstemmedB {
		d.core.unstemmedVoc.Add(surface)
	}

	return idA, idB, dir
}

// AddWordPair is Add with inline arguments instead of a pre-built Entry.
func (d *Dictionary) AddWordPair(wordA, wordB string, dictA, dictB, metaA, metaB []string) (int, int, DirectionKind) {
	e := NewEntry(wordA, wordB).WithDictionaries(dictA, dictB).WithMeta(metaA, metaB)
	return d.Add(e)
}

// GetTranslationAToB returns every B-side word w translates to, or nil if
// w is unknown on the A side.
func (d *Dictionary) GetTranslationAToB(w string) []string {
	id, ok := d.VocA().WordToID(w)
	if !ok {
		return nil
	}
	ids := d.fwdEdges()[id]
	out := make([]string, 0, len(ids))
	for _, tid := range ids {
		word, _ := d.VocB().IDToWord(tid)
		out = append(out, word)
	}
	return out
}

// GetTranslationBToA is the B->A symmetric counterpart.
func (d *Dictionary) GetTranslationBToA(w string) []string {
	return d.SwitchAToB().GetTranslationAToB(w)
}

func (d *Dictionary) VocAContains(w string) bool { return d.VocA().Contains(w) }
func (d *Dictionary) VocBContains(w string) bool { return d.VocB().Contains(w) }
func (d *Dictionary) Contains(w string) bool     { return d.VocAContains(w) || d.VocBContains(w) }

// KnownDictionaries returns the union of every provenance dictionary tag
// encountered across all entries.
func (d *Dictionary) KnownDictionaries() []string { return d.core.knownDictionaries.slice() }

// Tags returns the union of every meta tag encountered across all entries.
func (d *Dictionary) Tags() []string { return d.core.knownTags.slice() }

// GetMetaAOf resolves the metadata associated with a known A-side word.
func (d *Dictionary) GetMetaAOf(w string) (SolvedMetadata, bool) {
	id, ok := d.VocA().WordToID(w)
	if !ok {
		return SolvedMetadata{}, false
	}
	m, ok := d.metaSrc()[id]
	if !ok {
		return SolvedMetadata{}, false
	}
	return m.solve(), true
}

// GetMetaBOf resolves the metadata associated with a known B-side word.
func (d *Dictionary) GetMetaBOf(w string) (SolvedMetadata, bool) {
	id, ok := d.VocB().WordToID(w)
	if !ok {
		return SolvedMetadata{}, false
	}
	m, ok := d.metaDst()[id]
	if !ok {
		return SolvedMetadata{}, false
	}
	return m.solve(), true
}

// Endpoint describes one side of an edge as yielded by Iter.
type Endpoint struct {
	ID       int
	Word     string
	Metadata SolvedMetadata
	HasMeta  bool
}

// Edge is one A<->B translation pair as yielded by Iter.
type Edge struct {
	A, B      Endpoint
	Direction DirectionKind
}

// Iter yields every edge exactly once, in insertion order.
func (d *Dictionary) Iter() []Edge {
	out := make([]Edge, 0, len(d.core.edges))
	for _, rec := range d.core.edges {
		idA, idB, dir := rec.idA, rec.idB, rec.dir
		if d.swapped {
			idA, idB = idB, idA
			dir = dir.swap()
		}
		wordA, _ := d.VocA().IDToWord(idA)
		wordB, _ := d.VocB().IDToWord(idB)

		a := Endpoint{ID: idA, Word: wordA}
		if m, ok := d.metaSrc()[idA]; ok {
			a.Metadata, a.HasMeta = m.solve(), true
		}
		b := Endpoint{ID: idB, Word: wordB}
		if m, ok := d.metaDst()[idB]; ok {
			b.Metadata, b.HasMeta = m.solve(), true
		}
		out = append(out, Edge{A: a, B: b, Direction: dir})
	}
	return out
}

// Predicate tests a word's solved metadata, e.g. for Filter.
type Predicate func(word string, meta SolvedMetadata, hasMeta bool) bool

// Filter retains only edges whose both endpoints satisfy their respective
// predicate, returning a freshly built Dictionary (not a view).
func (d *Dictionary) Filter(predA, predB Predicate) *Dictionary {
	out := New(d.LangA(), d.LangB())
	for _, edge := range d.Iter() {
		if predA != nil && !predA(edge.A.Word, edge.A.Metadata, edge.A.HasMeta) {
			continue
		}
		if predB != nil && !predB(edge.B.Word, edge.B.Metadata, edge.B.HasMeta) {
			continue
		}
		entry := NewEntry(edge.A.Word, edge.B.Word)
		if edge.A.HasMeta {
			entry.WithDictionaries(edge.A.Metadata.Dictionaries, nil).WithMeta(edge.A.Metadata.Meta, nil)
			for surface, tags := range edge.A.Metadata.Unstemmed {
				entry.WithUnstemmedA(surface, tags...)
			}
		}
		if edge.B.HasMeta {
			entry.WithDictionaries(nil, edge.B.Metadata.Dictionaries).WithMeta(nil, edge.B.Metadata.Meta)
			for surface, tags := range edge.B.Metadata.Unstemmed {
				entry.WithUnstemmedB(surface, tags...)
			}
		}
		out.Add(entry)
	}
	return out
}

func (k DirectionKind) swap() DirectionKind {
	switch k {
	case AToB:
		return BToA
	case BToA:
		return AToB
	default:
		return Invariant
	}
}

// errNotFound is a convenience for callers that want the internalerr taxonomy.
func errNotFound(what, w string) error {
	return internalerr.New(internalerr.NotFound, "%s %q not found in dictionary", what, w)
}

// MustGetMetaAOf is GetMetaAOf but returns internalerr.NotFound on miss,
// matching the error-taxonomy contract of spec.md §7 for host callers that
// prefer an error return over an (value, ok) pair.
func (d *Dictionary) MustGetMetaAOf(w string) (SolvedMetadata, error) {
	m, ok := d.GetMetaAOf(w)
	if !ok {
		return SolvedMetadata{}, errNotFound("word_a", w)
	}
	return m, nil
}
