// Package vocab implements the bijective word<->id index shared by
// dictionaries and topic models: every inserted token gets a stable,
// insertion-ranked integer id; ids are contiguous and never reused.
package vocab

import (
	"encoding/binary"
	"encoding/json"
	"io"

	"github.com/cognicore/tmt/pkg/tmt/internalerr"
)

const binaryMagic uint32 = 0x564f4331 // "VOC1"

// Vocabulary is an ordered set of tokens with an optional language hint.
type Vocabulary struct {
	lang  string
	words []string
	idOf  map[string]int
}

// New creates an empty vocabulary, optionally tagged with a language hint.
func New(lang string) *Vocabulary {
	return &Vocabulary{
		lang: lang,
		idOf: make(map[string]int),
	}
}

// Lang returns the vocabulary's language hint, or "" if unset.
func (v *Vocabulary) Lang() string { return v.lang }

// Add inserts w if absent and returns its id. Re-adding an existing token is
// idempotent and returns the existing id.
func (v *Vocabulary) Add(w string) int {
	if id, ok := v.idOf[w]; ok {
		return id
	}
	id := len(v.words)
	v.words = append(v.words, w)
	v.idOf[w] = id
	return id
}

// WordToID returns the id of w, if present.
func (v *Vocabulary) WordToID(w string) (int, bool) {
	id, ok := v.idOf[w]
	return id, ok
}

// IDToWord returns the word at id, if present.
func (v *Vocabulary) IDToWord(id int) (string, bool) {
	if id < 0 || id >= len(v.words) {
		return "", false
	}
	return v.words[id], true
}

// Contains reports whether w has been inserted.
func (v *Vocabulary) Contains(w string) bool {
	_, ok := v.idOf[w]
	return ok
}

// Len returns the number of distinct tokens inserted.
func (v *Vocabulary) Len() int { return len(v.words) }

// Iter returns the tokens in id order. The returned slice must not be
// mutated by callers; it aliases the vocabulary's internal storage.
func (v *Vocabulary) Iter() []string { return v.words }

// Equal reports whether v and o have identical (id -> word) assignments and
// language hints.
func (v *Vocabulary) Equal(o *Vocabulary) bool {
	if o == nil || v.lang != o.lang || len(v.words) != len(o.words) {
		return false
	}
	for i, w := range v.words {
		if o.words[i] != w {
			return false
		}
	}
	return true
}

// jsonForm is the lossless JSON round-trip representation.
type jsonForm struct {
	Lang  string   `json:"lang"`
	Words []string `json:"words"`
}

// SaveJSON writes a self-describing JSON encoding of v.
func (v *Vocabulary) SaveJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	if err := enc.Encode(jsonForm{Lang: v.lang, Words: v.words}); err != nil {
		return internalerr.Wrap(internalerr.Io, err, "encoding vocabulary json")
	}
	return nil
}

// LoadJSON reads back a vocabulary written by SaveJSON.
func LoadJSON(r io.Reader) (*Vocabulary, error) {
	var jf jsonForm
	if err := json.NewDecoder(r).Decode(&jf); err != nil {
		return nil, internalerr.Wrap(internalerr.Io, err, "decoding vocabulary json")
	}
	v := New(jf.Lang)
	for _, w := range jf.Words {
		v.Add(w)
	}
	return v, nil
}

// SaveBinary writes a compact binary encoding: magic, version, language
// hint length-prefixed, word count, then each word length-prefixed.
func (v *Vocabulary) SaveBinary(w io.Writer) error {
	bw := newByteWriter(w)
	bw.u32(binaryMagic)
	bw.u32(1) // version
	bw.str(v.lang)
	bw.u32(uint32(len(v.words)))
	for _, word := range v.words {
		bw.str(word)
	}
	if bw.err != nil {
		return internalerr.Wrap(internalerr.Io, bw.err, "writing vocabulary binary")
	}
	return nil
}

// LoadBinary reads back a vocabulary written by SaveBinary.
func LoadBinary(r io.Reader) (*Vocabulary, error) {
	br := newByteReader(r)
	magic := br.u32()
	if br.err == nil && magic != binaryMagic {
		return nil, internalerr.New(internalerr.Io, "bad vocabulary magic %x", magic)
	}
	_ = br.u32() // version, currently unused
	lang := br.str()
	n := br.u32()
	v := New(lang)
	for i := uint32(0); i < n && br.err == nil; i++ {
		v.Add(br.str())
	}
	if br.err != nil {
		return nil, internalerr.Wrap(internalerr.Io, br.err, "reading vocabulary binary")
	}
	return v, nil
}

// --- small length-prefixed primitive codec for vocab's binary format (dict and topicmodel define their own) ---

type byteWriter struct {
	w   io.Writer
	err error
}

func newByteWriter(w io.Writer) *byteWriter { return &byteWriter{w: w} }

func (bw *byteWriter) u32(v uint32) {
	if bw.err != nil {
		return
	}
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	_, bw.err = bw.w.Write(buf[:])
}

func (bw *byteWriter) str(s string) {
	if bw.err != nil {
		return
	}
	bw.u32(uint32(len(s)))
	if bw.err != nil {
		return
	}
	_, bw.err = io.WriteString(bw.w, s)
}

type byteReader struct {
	r   io.Reader
	err error
}

func newByteReader(r io.Reader) *byteReader { return &byteReader{r: r} }

func (br *byteReader) u32() uint32 {
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

func (br *byteReader) str() string {
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
