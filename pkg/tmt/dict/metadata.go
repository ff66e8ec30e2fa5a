package dict

// metadata is the mutable per-id bookkeeping the dictionary keeps on one
// side of the translation relation: which source dictionaries contributed
// it, what free-form meta tags it carries, and which unstemmed surface
// forms (with their own per-form tags) stem to it.
type metadata struct {
	dictionaries *orderedSet
	meta         *orderedSet
	unstemmed    map[string]*orderedSet // surface -> tags
}

func newMetadata() *metadata {
	return &metadata{
		dictionaries: newOrderedSet(),
		meta:         newOrderedSet(),
		unstemmed:    make(map[string]*orderedSet),
	}
}

// merge unions in new provenance, additive only, never removing.
func (m *metadata) merge(dictionaries, meta []string, unstemmed map[string][]string) {
	m.dictionaries.addAll(dictionaries)
	m.meta.addAll(meta)
	for surface, tags := range unstemmed {
		set, ok := m.unstemmed[surface]
		if !ok {
			set = newOrderedSet()
			m.unstemmed[surface] = set
		}
		set.addAll(tags)
	}
}

// SolvedMetadata is the resolved, read-only view of a word's metadata
// handed back to callers and to filter predicates.
type SolvedMetadata struct {
	Dictionaries []string
	Meta         []string
	Unstemmed    map[string][]string
}

func (m *metadata) solve() SolvedMetadata {
	unstemmed := make(map[string][]string, len(m.unstemmed))
	for surface, tags := range m.unstemmed {
		unstemmed[surface] = tags.slice()
	}
	return SolvedMetadata{
		Dictionaries: m.dictionaries.slice(),
		Meta:         m.meta.slice(),
		Unstemmed:    unstemmed,
	}
}

func (m *metadata) clone() *metadata {
	c := newMetadata()
	c.dictionaries = m.dictionaries.clone()
	c.meta = m.meta.clone()
	for surface, tags := range m.unstemmed {
		c.unstemmed[surface] = tags.clone()
	}
	return c
}
