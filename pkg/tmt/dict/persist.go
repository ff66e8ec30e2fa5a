package dict

import (
	"encoding/binary"
	"encoding/json"
	"io"

	"github.com/cognicore/tmt/pkg/tmt/internalerr"
	"github.com/cognicore/tmt/pkg/tmt/vocab"
)

const binaryMagic uint32 = 0x44494331 // "DIC1"

type jsonMetadata struct {
	Dictionaries []string            `json:"dictionaries,omitempty"`
	Meta         []string            `json:"meta,omitempty"`
	Unstemmed    map[string][]string `json:"unstemmed,omitempty"`
}

type jsonEdge struct {
	IDA int `json:"id_a"`
	IDB int `json:"id_b"`
	Dir int `json:"dir"`
}

type jsonForm struct {
	LangA, LangB string
	WordsA       []string             `json:"words_a"`
	WordsB       []string             `json:"words_b"`
	Edges        []jsonEdge           `json:"edges"`
	MetaA        map[int]jsonMetadata `json:"meta_a,omitempty"`
	MetaB        map[int]jsonMetadata `json:"meta_b,omitempty"`
}

func toJSONMetadata(m map[int]*metadata) map[int]jsonMetadata {
	out := make(map[int]jsonMetadata, len(m))
	for id, mm := range m {
		s := mm.solve()
		out[id] = jsonMetadata{Dictionaries: s.Dictionaries, Meta: s.Meta, Unstemmed: s.Unstemmed}
	}
	return out
}

func fromJSONMetadata(m map[int]jsonMetadata) map[int]*metadata {
	out := make(map[int]*metadata, len(m))
	for id, jm := range m {
		mm := newMetadata()
		mm.merge(jm.Dictionaries, jm.Meta, jm.Unstemmed)
		out[id] = mm
	}
	return out
}

// SaveJSON writes a lossless JSON encoding of d's underlying core. Note:
// this always serializes the canonical (unswapped) orientation of the
// core, matching how switch_a_to_b is documented as a view rather than
// independent state.
func (d *Dictionary) SaveJSON(w io.Writer) error {
	c := d.core
	edges := make([]jsonEdge, 0, len(c.edges))
	for _, e := range c.edges {
		edges = append(edges, jsonEdge{IDA: e.idA, IDB: e.idB, Dir: int(e.dir)})
	}
	jf := jsonForm{
		LangA: c.langA, LangB: c.langB,
		WordsA: c.vocA.Iter(), WordsB: c.vocB.Iter(),
		Edges: edges,
		MetaA: toJSONMetadata(c.metaA), MetaB: toJSONMetadata(c.metaB),
	}
	if err := json.NewEncoder(w).Encode(jf); err != nil {
		return internalerr.Wrap(internalerr.Io, err, "encoding dictionary json")
	}
	return nil
}

// LoadJSON reads back a dictionary written by SaveJSON.
func LoadJSON(r io.Reader) (*Dictionary, error) {
	var jf jsonForm
	if err := json.NewDecoder(r).Decode(&jf); err != nil {
		return nil, internalerr.Wrap(internalerr.Io, err, "decoding dictionary json")
	}
	c := &dictCore{
		vocA: vocab.New(jf.LangA), vocB: vocab.New(jf.LangB),
		langA: jf.LangA, langB: jf.LangB,
		aToB: make(map[int][]int), bToA: make(map[int][]int),
		unstemmedVoc:      vocab.New(""),
		knownDictionaries: newOrderedSet(),
		knownTags:         newOrderedSet(),
	}
	for _, w := range jf.WordsA {
		c.vocA.Add(w)
	}
	for _, w := range jf.WordsB {
		c.vocB.Add(w)
	}
	c.metaA = fromJSONMetadata(jf.MetaA)
	c.metaB = fromJSONMetadata(jf.MetaB)
	for id, m := range c.metaA {
		_ = id
		c.knownDictionaries.addAll(m.dictionaries.slice())
		c.knownTags.addAll(m.meta.slice())
	}
	for _, m := range c.metaB {
		c.knownDictionaries.addAll(m.dictionaries.slice())
		c.knownTags.addAll(m.meta.slice())
	}
	for _, e := range jf.Edges {
		addOrdered(c.aToB, e.IDA, e.IDB)
		addOrdered(c.bToA, e.IDB, e.IDA)
		c.edges = append(c.edges, edgeRecord{idA: e.IDA, idB: e.IDB, dir: DirectionKind(e.Dir)})
	}
	return &Dictionary{core: c}, nil
}

// --- compact binary form: magic, version, vocabularies, edges, metadata ---

func (d *Dictionary) SaveBinary(w io.Writer) error {
	bw := &binWriter{w: w}
	bw.u32(binaryMagic)
	bw.u32(1)
	c := d.core
	bw.str(c.langA)
	bw.str(c.langB)
	writeWords(bw, c.vocA.Iter())
	writeWords(bw, c.vocB.Iter())
	bw.u32(uint32(len(c.edges)))
	for _, e := range c.edges {
		bw.u32(uint32(e.idA))
		bw.u32(uint32(e.idB))
		bw.u32(uint32(e.dir))
	}
	writeMetaMap(bw, c.metaA)
	writeMetaMap(bw, c.metaB)
	if bw.err != nil {
		return internalerr.Wrap(internalerr.Io, bw.err, "writing dictionary binary")
	}
	return nil
}

func LoadBinary(r io.Reader) (*Dictionary, error) {
	br := &binReader{r: r}
	magic := br.u32()
	if br.err == nil && magic != binaryMagic {
		return nil, internalerr.New(internalerr.Io, "bad dictionary magic %x", magic)
	}
	_ = br.u32() // version
	langA := br.str()
	langB := br.str()
	wordsA := readWords(br)
	wordsB := readWords(br)

	c := &dictCore{
		vocA: vocab.New(langA), vocB: vocab.New(langB),
		langA: langA, langB: langB,
		aToB: make(map[int][]int), bToA: make(map[int][]int),
		unstemmedVoc:      vocab.New(""),
		knownDictionaries: newOrderedSet(),
		knownTags:         newOrderedSet(),
	}
	for _, w := range wordsA {
		c.vocA.Add(w)
	}
	for _, w := range wordsB {
		c.vocB.Add(w)
	}

	n := br.u32()
	for i := uint32(0); i < n && br.err == nil; i++ {
		idA := int(br.u32())
		idB := int(br.u32())
		dir := DirectionKind(br.u32())
		addOrdered(c.aToB, idA, idB)
		addOrdered(c.bToA, idB, idA)
		c.edges = append(c.edges, edgeRecord{idA: idA, idB: idB, dir: dir})
	}

	c.metaA = readMetaMap(br)
	c.metaB = readMetaMap(br)
	for _, m := range c.metaA {
		c.knownDictionaries.addAll(m.dictionaries.slice())
		c.knownTags.addAll(m.meta.slice())
	}
	for _, m := range c.metaB {
		c.knownDictionaries.addAll(m.dictionaries.slice())
		c.knownTags.addAll(m.meta.slice())
	}

	if br.err != nil {
		return nil, internalerr.Wrap(internalerr.Io, br.err, "reading dictionary binary")
	}
	return &Dictionary{core: c}, nil
}

func writeWords(bw *binWriter, words []string) {
	bw.u32(uint32(len(words)))
	for _, w := range words {
		bw.str(w)
	}
}

func readWords(br *binReader) []string {
	n := br.u32()
	out := make([]string, 0, n)
	for i := uint32(0); i < n && br.err == nil; i++ {
		out = append(out, br.str())
	}
	return out
}

func writeMetaMap(bw *binWriter, m map[int]*metadata) {
	bw.u32(uint32(len(m)))
	for id, mm := range m {
		bw.u32(uint32(id))
		s := mm.solve()
		writeWords(bw, s.Dictionaries)
		writeWords(bw, s.Meta)
		bw.u32(uint32(len(s.Unstemmed)))
		for surface, tags := range s.Unstemmed {
			bw.str(surface)
			writeWords(bw, tags)
		}
	}
}

func readMetaMap(br *binReader) map[int]*metadata {
	n := br.u32()
	out := make(map[int]*metadata, n)
	for i := uint32(0); i < n && br.err == nil; i++ {
		id := int(br.u32())
		dicts := readWords(br)
		metaTags := readWords(br)
		uCount := br.u32()
		unstemmed := make(map[string][]string, uCount)
		for j := uint32(0); j < uCount && br.err == nil; j++ {
			surface := br.str()
			unstemmed[surface] = readWords(br)
		}
		mm := newMetadata()
		mm.merge(dicts, metaTags, unstemmed)
		out[id] = mm
	}
	return out
}

type binWriter struct {
	w   io.Writer
	err error
}

func (bw *binWriter) u32(v uint32) {
	if bw.err != nil {
		return
	}
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	_, bw.err = bw.w.Write(buf[:])
}

func (bw *binWriter) str(s string) {
	bw.u32(uint32(len(s)))
	if bw.err != nil {
		return
	}
	_, bw.err = io.WriteString(bw.w, s)
}

type binReader struct {
	r   io.Reader
	err error
}

func (br *binReader) u32() uint32 {
	if br.err != nil {
		return 0
	}
	var buf [4]byte
	if _, err := io.ReadFull(br.r, buf[:]); err != nil {
		br.err = err
		return 0
	}
	return binary.LittleEndian.Uint32(buf[:])
}

func (br *binReader) str() string {
	n := br.u32()
	if br.err != nil {
		return ""
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(br.r, buf); err != nil {
		br.err = err
		return ""
	}
	return string(buf)
}
