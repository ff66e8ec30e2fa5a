package aligned

import (
	"bufio"
	"io"
	"os"

	"github.com/cognicore/tmt/pkg/tmt/internalerr"
)

// AlignedArticleReader is a restartable lazy sequence over a newline-
// delimited JSON file of AlignedArticle records: the underlying file is
// opened on the first Next call and released once Next reports the end of
// the source (ok=false) or Close is called; a Next call after that reopens
// the file from the start (spec.md §4.9 "Streaming readers").
type AlignedArticleReader struct {
	path    string
	file    *os.File
	scanner *bufio.Scanner
}

// ReadAlignedArticles returns a lazy reader over path; no I/O happens until
// the first call to Next.
func ReadAlignedArticles(path string) *AlignedArticleReader {
	return &AlignedArticleReader{path: path}
}

func (r *AlignedArticleReader) ensureOpen() error {
	if r.file != nil {
		return nil
	}
	f, err := os.Open(r.path)
	if err != nil {
		return internalerr.Wrap(internalerr.Io, err, "opening %s", r.path)
	}
	r.file = f
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	r.scanner = scanner
	return nil
}

// Next yields the next AlignedArticle, or ok=false once the source is
// exhausted. Blank lines are skipped.
func (r *AlignedArticleReader) Next() (article AlignedArticle, ok bool, err error) {
	if err := r.ensureOpen(); err != nil {
		return AlignedArticle{}, false, err
	}
	for r.scanner.Scan() {
		line := r.scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		a, perr := AlignedArticleFromJSON(line)
		if perr != nil {
			r.Close()
			return AlignedArticle{}, false, perr
		}
		return a, true, nil
	}
	if serr := r.scanner.Err(); serr != nil {
		r.Close()
		return AlignedArticle{}, false, internalerr.Wrap(internalerr.Io, serr, "scanning %s", r.path)
	}
	r.Close()
	return AlignedArticle{}, false, nil
}

// Close releases the underlying file handle if open. Safe to call more
// than once.
func (r *AlignedArticleReader) Close() error {
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	r.scanner = nil
	if err != nil {
		return internalerr.Wrap(internalerr.Io, err, "closing %s", r.path)
	}
	return nil
}

// ParsedArticleReader is a lazy sequence over the frame-encoded,
// already-tokenized output of the bulk pipeline (read_aligned_parsed_articles).
type ParsedArticleReader struct {
	path string
	r    io.ReadCloser
}

// ReadAlignedParsedArticles returns a lazy reader over a bulk-pipeline
// output file at path (opened via openBulkOutput so zstd-wrapped files are
// transparently decompressed).
func ReadAlignedParsedArticles(path string) *ParsedArticleReader {
	return &ParsedArticleReader{path: path}
}

func (r *ParsedArticleReader) ensureOpen() error {
	if r.r != nil {
		return nil
	}
	rc, err := openBulkOutput(r.path)
	if err != nil {
		return err
	}
	r.r = rc
	return nil
}

// Next yields the next TokenizedAlignedArticle, or ok=false at end of
// stream.
func (r *ParsedArticleReader) Next() (article TokenizedAlignedArticle, ok bool, err error) {
	if err := r.ensureOpen(); err != nil {
		return TokenizedAlignedArticle{}, false, err
	}
	payload, ferr := readFrame(r.r)
	if ferr == io.EOF {
		r.Close()
		return TokenizedAlignedArticle{}, false, nil
	}
	if ferr != nil {
		r.Close()
		return TokenizedAlignedArticle{}, false, ferr
	}
	a, perr := TokenizedAlignedArticleFromJSON(payload)
	if perr != nil {
		r.Close()
		return TokenizedAlignedArticle{}, false, perr
	}
	return a, true, nil
}

// Close releases the underlying reader if open.
func (r *ParsedArticleReader) Close() error {
	if r.r == nil {
		return nil
	}
	err := r.r.Close()
	r.r = nil
	if err != nil {
		return internalerr.Wrap(internalerr.Io, err, "closing %s", r.path)
	}
	return nil
}

// AndParseReader is a lazy sequence that reads raw AlignedArticle records
// and tokenizes each on the fly via processor
// (read_and_parse_aligned_articles).
type AndParseReader struct {
	inner     *AlignedArticleReader
	processor *AlignedArticleProcessor
}

// ReadAndParseAlignedArticles composes a raw reader with a processor so
// each Next call yields an already-tokenized article.
func ReadAndParseAlignedArticles(path string, processor *AlignedArticleProcessor) *AndParseReader {
	return &AndParseReader{inner: ReadAlignedArticles(path), processor: processor}
}

// Next yields the next TokenizedAlignedArticle, or ok=false at end of
// stream.
func (r *AndParseReader) Next() (article TokenizedAlignedArticle, ok bool, err error) {
	raw, ok, err := r.inner.Next()
	if err != nil || !ok {
		return TokenizedAlignedArticle{}, ok, err
	}
	parsed, perr := r.processor.Process(raw)
	if perr != nil {
		return TokenizedAlignedArticle{}, false, perr
	}
	return parsed, true, nil
}

// Close releases the underlying raw reader.
func (r *AndParseReader) Close() error {
	return r.inner.Close()
}
