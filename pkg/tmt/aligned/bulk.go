package aligned

import (
	"bytes"
	"compress/flate"
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"github.com/cognicore/tmt/pkg/tmt/internalerr"
)

// StoreOptions controls bulk-pipeline temp-file and output behavior
// (spec.md §4.9 "Bulk processing" step 3-4).
type StoreOptions struct {
	// TempFolder is where per-article temp files are written. Empty means
	// the system temp directory.
	TempFolder string
	// DeflateTempFiles compresses each temp file with DEFLATE
	// (compress/flate: a stdlib format, no third-party codec adds value
	// for a single-block in-process compress/decompress roundtrip).
	DeflateTempFiles bool
	// DeleteTempFilesImmediately unlinks each temp file right after its
	// contents are appended to the bulk output.
	DeleteTempFilesImmediately bool
	// CompressResult wraps the final concatenated output in zstd framing.
	// The source specification calls for LZMA; no LZMA implementation
	// exists anywhere in the retrieval pack, so this substitutes
	// github.com/klauspost/compress/zstd, the closest-fitting streaming
	// codec actually present in it (documented in DESIGN.md, not a silent
	// rename of "LZMA").
	CompressResult bool
}

func (o StoreOptions) tempFolder() string {
	if o.TempFolder != "" {
		return o.TempFolder
	}
	return os.TempDir()
}

// ReadAndParseAlignedArticlesInto runs the full bulk pipeline: streams
// pathIn, tokenizes and optionally filters each article, stages surviving
// articles through per-article temp files, and concatenates the survivors
// into pathOut (spec.md §4.9 "Bulk processing"). Returns the number of
// surviving articles. Any I/O error aborts the run after best-effort temp
// file cleanup; partially written temp files recorded in the manifest
// before the crash are left for the caller to reconcile.
func ReadAndParseAlignedArticlesInto(
	pathIn, pathOut string,
	processor *AlignedArticleProcessor,
	filter *TokenCountFilter,
	opts StoreOptions,
) (survivors int, err error) {
	ctx := context.Background()
	tempFolder := opts.tempFolder()
	if err := os.MkdirAll(tempFolder, 0o755); err != nil {
		return 0, internalerr.Wrap(internalerr.Io, err, "creating temp folder %s", tempFolder)
	}

	mf, err := openManifest(ctx, tempFolder)
	if err != nil {
		return 0, err
	}
	defer mf.close()

	outFile, err := os.Create(pathOut)
	if err != nil {
		return 0, internalerr.Wrap(internalerr.Io, err, "creating %s", pathOut)
	}
	defer outFile.Close()

	var out io.Writer = outFile
	var zw *zstd.Encoder
	if opts.CompressResult {
		zw, err = zstd.NewWriter(outFile)
		if err != nil {
			return 0, internalerr.Wrap(internalerr.Io, err, "opening zstd writer for %s", pathOut)
		}
		out = zw
	}

	reader := ReadAndParseAlignedArticles(pathIn, processor)
	defer reader.Close()

	var writtenTemps []string
	cleanup := func() {
		for _, p := range writtenTemps {
			os.Remove(p)
		}
	}

	for {
		article, ok, nerr := reader.Next()
		if nerr != nil {
			cleanup()
			return survivors, nerr
		}
		if !ok {
			break
		}
		if !filter.Keep(article) {
			continue
		}

		payload, perr := article.ToJSON()
		if perr != nil {
			cleanup()
			return survivors, perr
		}

		id := mf.newID()
		tempPath := filepath.Join(tempFolder, id+".tmp")
		if err := writeTempFile(tempPath, payload, opts.DeflateTempFiles); err != nil {
			cleanup()
			return survivors, err
		}
		writtenTemps = append(writtenTemps, tempPath)
		if err := mf.recordWritten(ctx, id, tempPath, article.ArticleID); err != nil {
			cleanup()
			return survivors, err
		}

		restored, rerr := readTempFile(tempPath, opts.DeflateTempFiles)
		if rerr != nil {
			cleanup()
			return survivors, rerr
		}
		if err := writeFrame(out, restored); err != nil {
			cleanup()
			return survivors, err
		}
		if err := mf.recordCommitted(ctx, id); err != nil {
			cleanup()
			return survivors, err
		}

		if opts.DeleteTempFilesImmediately {
			os.Remove(tempPath)
		}
		survivors++
	}

	if zw != nil {
		if err := zw.Close(); err != nil {
			return survivors, internalerr.Wrap(internalerr.Io, err, "closing zstd writer for %s", pathOut)
		}
	}
	return survivors, nil
}

// writeTempFile writes payload to path, optionally DEFLATE-compressed.
func writeTempFile(path string, payload []byte, deflate bool) error {
	f, err := os.Create(path)
	if err != nil {
		return internalerr.Wrap(internalerr.Io, err, "creating temp file %s", path)
	}
	defer f.Close()
	if !deflate {
		if _, err := f.Write(payload); err != nil {
			return internalerr.Wrap(internalerr.Io, err, "writing temp file %s", path)
		}
		return nil
	}
	fw, err := flate.NewWriter(f, flate.DefaultCompression)
	if err != nil {
		return internalerr.Wrap(internalerr.Io, err, "opening deflate writer for %s", path)
	}
	if _, err := fw.Write(payload); err != nil {
		return internalerr.Wrap(internalerr.Io, err, "deflating temp file %s", path)
	}
	if err := fw.Close(); err != nil {
		return internalerr.Wrap(internalerr.Io, err, "closing deflate writer for %s", path)
	}
	return nil
}

// readTempFile reads back a file written by writeTempFile.
func readTempFile(path string, deflate bool) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, internalerr.Wrap(internalerr.Io, err, "reading temp file %s", path)
	}
	if !deflate {
		return raw, nil
	}
	fr := flate.NewReader(bytes.NewReader(raw))
	defer fr.Close()
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, fr); err != nil {
		return nil, internalerr.Wrap(internalerr.Io, err, "inflating temp file %s", path)
	}
	return buf.Bytes(), nil
}

// zstdMagic is the four-byte frame magic github.com/klauspost/compress/zstd
// writes at the start of every stream it produces.
var zstdMagic = [4]byte{0x28, 0xb5, 0x2f, 0xfd}

// openBulkOutput opens a bulk-pipeline output file for reading, peeling
// off zstd framing when the file starts with zstd's magic number.
func openBulkOutput(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, internalerr.Wrap(internalerr.Io, err, "opening %s", path)
	}
	var head [4]byte
	n, _ := io.ReadFull(f, head[:])
	if _, serr := f.Seek(0, io.SeekStart); serr != nil {
		f.Close()
		return nil, internalerr.Wrap(internalerr.Io, serr, "seeking %s", path)
	}
	if n == 4 && head == zstdMagic {
		zr, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, internalerr.Wrap(internalerr.Io, err, "opening zstd reader for %s", path)
		}
		return &zstdReadCloser{zr: zr, f: f}, nil
	}
	return f, nil
}

type zstdReadCloser struct {
	zr *zstd.Decoder
	f  *os.File
}

func (z *zstdReadCloser) Read(p []byte) (int, error) { return z.zr.Read(p) }

func (z *zstdReadCloser) Close() error {
	z.zr.Close()
	return z.f.Close()
}
