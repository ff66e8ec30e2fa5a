package aligned

import (
	"encoding/binary"
	"io"

	"github.com/cognicore/tmt/pkg/tmt/internalerr"
)

// writeFrame writes a uint32-length-prefixed payload, the same
// length-prefixed-section idiom topicmodel's binary format uses.
func writeFrame(w io.Writer, payload []byte) error {
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(payload)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return internalerr.Wrap(internalerr.Io, err, "writing frame length")
	}
	if _, err := w.Write(payload); err != nil {
		return internalerr.Wrap(internalerr.Io, err, "writing frame payload")
	}
	return nil
}

// readFrame reads one writeFrame-encoded payload, or returns io.EOF if the
// stream is exhausted exactly at a frame boundary.
func readFrame(r io.Reader) ([]byte, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, internalerr.Wrap(internalerr.Io, err, "reading frame length")
	}
	n := binary.LittleEndian.Uint32(lenBuf[:])
	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, internalerr.Wrap(internalerr.Io, err, "reading frame payload")
	}
	return payload, nil
}
