package dict

import "github.com/cognicore/tmt/pkg/tmt/vocab"

// CreateTopicModelSpecificDictionary restricts dict to the edges whose
// A-side word is in voc, matched by surface form (case-sensitive; callers
// whose vocabularies already normalize consistently may rely on that
// agreement, spec.md §4.4). The result's A vocabulary is exactly voc (same
// ids, words from dict.VocA() absent from voc are dropped); its B
// vocabulary keeps only ids referenced by a surviving edge, re-compacted to
// [0, size) preserving relative order of first appearance. Metadata is
// carried across unchanged.
func CreateTopicModelSpecificDictionary(d *Dictionary, voc *vocab.Vocabulary) *Dictionary {
	vocACopy := vocab.New(voc.Lang())
	for _, w := range voc.Iter() {
		vocACopy.Add(w)
	}

	core := &dictCore{
		vocA:              vocACopy,
		vocB:              vocab.New(d.VocB().Lang()),
		langA:             d.LangA(),
		langB:             d.LangB(),
		aToB:              make(map[int][]int),
		bToA:              make(map[int][]int),
		metaA:             make(map[int]*metadata),
		metaB:             make(map[int]*metadata),
		unstemmedVoc:      vocab.New(""),
		knownDictionaries: newOrderedSet(),
		knownTags:         newOrderedSet(),
	}
	out := &Dictionary{core: core}

	for _, edge := range d.Iter() {
		if !voc.Contains(edge.A.Word) {
			continue
		}
		idA, ok := vocACopy.WordToID(edge.A.Word)
		if !ok {
			continue
		}
		idB := core.vocB.Add(edge.B.Word)

		addOrdered(core.aToB, idA, idB)
		addOrdered(core.bToA, idB, idA)
		core.edges = append(core.edges, edgeRecord{idA: idA, idB: idB, dir: edge.Direction})

		if edge.A.HasMeta {
			mm, ok := core.metaA[idA]
			if !ok {
				mm = newMetadata()
				core.metaA[idA] = mm
			}
			mm.merge(edge.A.Metadata.Dictionaries, edge.A.Metadata.Meta, edge.A.Metadata.Unstemmed)
			core.knownDictionaries.addAll(edge.A.Metadata.Dictionaries)
			core.knownTags.addAll(edge.A.Metadata.Meta)
		}
		if edge.B.HasMeta {
			mm, ok := core.metaB[idB]
			if !ok {
				mm = newMetadata()
				core.metaB[idB] = mm
			}
			mm.merge(edge.B.Metadata.Dictionaries, edge.B.Metadata.Meta, edge.B.Metadata.Unstemmed)
			core.knownDictionaries.addAll(edge.B.Metadata.Dictionaries)
			core.knownTags.addAll(edge.B.Metadata.Meta)
		}
	}

	return out
}
