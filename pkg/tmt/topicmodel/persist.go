package topicmodel

import (
	"encoding/binary"
	"encoding/json"
	"io"
	"math"
	"os"
	"strings"

	"github.com/cognicore/tmt/pkg/tmt/internalerr"
	"github.com/cognicore/tmt/pkg/tmt/vocab"
)

const binaryMagic uint32 = 0x544d4331 // "TMC1"

type jsonForm struct {
	Lang                  string      `json:"lang"`
	Words                 []string    `json:"words"`
	Topics                [][]float64 `json:"topics"`
	UsedVocabFrequency    []int       `json:"used_vocab_frequency,omitempty"`
	DocTopicDistributions [][]float64 `json:"doc_topic_distributions,omitempty"`
	DocumentLengths       []int       `json:"document_lengths,omitempty"`
}

// SaveJSON writes a lossless JSON encoding of tm.
func (tm *TopicModel) SaveJSON(w io.Writer) error {
	jf := jsonForm{
		Lang: tm.voc.Lang(), Words: tm.voc.Iter(), Topics: tm.topics,
		UsedVocabFrequency: tm.usedVocabFrequency,
		DocTopicDistributions: tm.docTopicDistributions, DocumentLengths: tm.documentLengths,
	}
	if err := json.NewEncoder(w).Encode(jf); err != nil {
		return internalerr.Wrap(internalerr.Io, err, "encoding topic model json")
	}
	return nil
}

// LoadJSONFrom reads back a model written by SaveJSON.
func LoadJSONFrom(r io.Reader) (*TopicModel, error) {
	var jf jsonForm
	if err := json.NewDecoder(r).Decode(&jf); err != nil {
		return nil, internalerr.Wrap(internalerr.Io, err, "decoding topic model json")
	}
	v := vocab.New(jf.Lang)
	for _, w := range jf.Words {
		v.Add(w)
	}
	return New(jf.Topics, v, jf.UsedVocabFrequency, jf.DocTopicDistributions, jf.DocumentLengths)
}

// SaveBinary writes a compact binary encoding.
func (tm *TopicModel) SaveBinary(w io.Writer) error {
	bw := &binWriter{w: w}
	bw.u32(binaryMagic)
	bw.u32(1)
	bw.str(tm.voc.Lang())
	words := tm.voc.Iter()
	bw.u32(uint32(len(words)))
	for _, word := range words {
		bw.str(word)
	}
	bw.u32(uint32(len(tm.topics)))
	for _, row := range tm.topics {
		for _, p := range row {
			bw.f64(p)
		}
	}
	bw.u32(boolToU32(tm.usedVocabFrequency != nil))
	for _, f := range tm.usedVocabFrequency {
		bw.u32(uint32(f))
	}
	bw.u32(boolToU32(tm.docTopicDistributions != nil))
	bw.u32(uint32(len(tm.docTopicDistributions)))
	for _, row := range tm.docTopicDistributions {
		bw.u32(uint32(len(row)))
		for _, p := range row {
			bw.f64(p)
		}
	}
	bw.u32(boolToU32(tm.documentLengths != nil))
	bw.u32(uint32(len(tm.documentLengths)))
	for _, l := range tm.documentLengths {
		bw.u32(uint32(l))
	}
	if bw.err != nil {
		return internalerr.Wrap(internalerr.Io, bw.err, "writing topic model binary")
	}
	return nil
}

func boolToU32(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

// LoadBinaryFrom reads back a model written by SaveBinary.
func LoadBinaryFrom(r io.Reader) (*TopicModel, error) {
	br := &binReader{r: r}
	magic := br.u32()
	if br.err == nil && magic != binaryMagic {
		return nil, internalerr.New(internalerr.Io, "bad topic model magic %x", magic)
	}
	_ = br.u32() // version
	lang := br.str()
	wordCount := br.u32()
	v := vocab.New(lang)
	for i := uint32(0); i < wordCount && br.err == nil; i++ {
		v.Add(br.str())
	}
	k := br.u32()
	topics := make([][]float64, k)
	for t := uint32(0); t < k && br.err == nil; t++ {
		row := make([]float64, wordCount)
		for i := range row {
			row[i] = br.f64()
		}
		topics[t] = row
	}

	var freq []int
	if br.u32() == 1 {
		freq = make([]int, wordCount)
		for i := range freq {
			freq[i] = int(br.u32())
		}
	}

	var docDists [][]float64
	hasDocDists := br.u32() == 1
	docCount := br.u32()
	if hasDocDists {
		docDists = make([][]float64, docCount)
		for d := uint32(0); d < docCount && br.err == nil; d++ {
			n := br.u32()
			row := make([]float64, n)
			for i := range row {
				row[i] = br.f64()
			}
			docDists[d] = row
		}
	} else {
		for d := uint32(0); d < docCount && br.err == nil; d++ {
			n := br.u32()
			for i := uint32(0); i < n; i++ {
				br.f64()
			}
		}
	}

	var docLens []int
	hasDocLens := br.u32() == 1
	lensCount := br.u32()
	if hasDocLens {
		docLens = make([]int, lensCount)
		for i := range docLens {
			docLens[i] = int(br.u32())
		}
	} else {
		for i := uint32(0); i < lensCount; i++ {
			br.u32()
		}
	}

	if br.err != nil {
		return nil, internalerr.Wrap(internalerr.Io, br.err, "reading topic model binary")
	}
	return New(topics, v, freq, docDists, docLens)
}

// Save picks JSON or binary based on path's extension (".json" => JSON,
// anything else => binary), mirroring the generic save/load convenience
// spec.md §6 calls for alongside the explicit SaveJSON/SaveBinary.
func (tm *TopicModel) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return internalerr.Wrap(internalerr.Io, err, "creating %s", path)
	}
	defer f.Close()
	if strings.EqualFold(ext(path), ".json") {
		return tm.SaveJSON(f)
	}
	return tm.SaveBinary(f)
}

// Load picks JSON or binary based on path's extension, or by sniffing the
// binary magic if the extension is unrecognized.
func Load(path string) (*TopicModel, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, internalerr.Wrap(internalerr.Io, err, "opening %s", path)
	}
	defer f.Close()
	if strings.EqualFold(ext(path), ".json") {
		return LoadJSONFrom(f)
	}
	var head [4]byte
	n, _ := io.ReadFull(f, head[:])
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, internalerr.Wrap(internalerr.Io, err, "seeking %s", path)
	}
	if n == 4 && binary.LittleEndian.Uint32(head[:]) != binaryMagic {
		return LoadJSONFrom(f)
	}
	return LoadBinaryFrom(f)
}

func ext(path string) string {
	if i := strings.LastIndexByte(path, '.'); i >= 0 {
		return path[i:]
	}
	return ""
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

func (bw *binWriter) f64(v float64) {
	if bw.err != nil {
		return
	}
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
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

func (br *binReader) f64() float64 {
	if br.err != nil {
		return 0
	}
	var buf [8]byte
	if _, err := io.ReadFull(br.r, buf[:]); err != nil {
		br.err = err
		return 0
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(buf[:]))
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
