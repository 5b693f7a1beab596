package bio

import (
	"encoding/binary"
	"errors"

	"github.com/spiretrading/beam-sub006/beamerr"
)

var errFrameTooLarge = errors.New("bio: frame exceeds uint32 length prefix")

// Reader is Beam's read-side I/O contract, ported from Beam/IO/Reader.hpp.
// Read never returns (0, nil): either it reports n>0 bytes read, or a
// non-nil error (beamerr.EndOfFile at end of stream). Poll advisory-reports
// whether a Read is expected to return immediately, without guaranteeing
// it - the same advisory-only contract as the reference's IsDataAvailable.
type Reader interface {
	Poll() bool
	Read(destination []byte) (int, error)
}

// Writer is Beam's write-side I/O contract, ported from Beam/IO/Writer.hpp.
// Write either transfers all of data or returns a non-nil error; there is
// no partial-write return count, matching the reference's void-returning
// Write(const void*, size_t).
type Writer interface {
	Write(data []byte) error
}

// ReadExactSize reads exactly len(destination) bytes from reader, looping
// over short reads, ported from Beam::IO::ReadExactSize.
func ReadExactSize(reader Reader, destination []byte) error {
	for len(destination) != 0 {
		n, err := reader.Read(destination)
		if n == 0 && err != nil {
			return err
		}
		destination = destination[n:]
	}
	return nil
}

// SizeDeclarativeReader reads frames whose size is declared by a
// little-endian uint32 prefix, ported from Beam/IO/SizeDeclarativeReader.hpp.
// A zero-length frame is legal: it is a valid prefix of 0 followed by no
// payload bytes; Read on a zero-length frame returns (0, nil) after consuming
// its prefix, the one case where it departs from the Reader contract's
// never-(0, nil) rule. Otherwise Read implements the Reader contract directly:
// partial reads are permitted and never cross a frame boundary (a caller wanting the next
// frame's bytes must issue another Read once the current one is exhausted),
// mirroring m_read_size/m_total_size in the reference. Any error from the
// underlying source resets both counters, so a failed frame leaves no stale
// partial state behind.
type SizeDeclarativeReader struct {
	source    Reader
	readSize  uint32
	totalSize uint32
}

// NewSizeDeclarativeReader wraps source with length-prefix framing.
func NewSizeDeclarativeReader(source Reader) *SizeDeclarativeReader {
	return &SizeDeclarativeReader{source: source}
}

// Poll is always false: framing requires reading the size prefix, which
// Beam's reference implementation never treats as available without a
// blocking read, so this simply preserves that contract.
func (r *SizeDeclarativeReader) Poll() bool { return false }

// Read fills destination with bytes from the current frame, reading a new
// frame's size prefix first if the previous one is exhausted. It returns
// fewer bytes than len(destination) if the current frame ends first; it
// never reads past that boundary into the next frame's size prefix.
func (r *SizeDeclarativeReader) Read(destination []byte) (int, error) {
	if r.readSize == r.totalSize {
		if err := r.primeFrame(); err != nil {
			return 0, err
		}
	}
	return r.readWithinFrame(destination)
}

// primeFrame reads the next frame's little-endian uint32 length prefix.
func (r *SizeDeclarativeReader) primeFrame() error {
	var sizePrefix [4]byte
	if err := ReadExactSize(r.source, sizePrefix[:]); err != nil {
		r.readSize = 0
		r.totalSize = 0
		return err
	}
	r.totalSize = binary.LittleEndian.Uint32(sizePrefix[:])
	r.readSize = 0
	return nil
}

// readWithinFrame reads into destination without crossing r.totalSize,
// assuming a frame is already primed.
func (r *SizeDeclarativeReader) readWithinFrame(destination []byte) (int, error) {
	offset := 0
	remaining := len(destination)
	for remaining > 0 && r.readSize != r.totalSize {
		next := remaining
		if left := int(r.totalSize - r.readSize); left < next {
			next = left
		}
		n, err := r.source.Read(destination[offset : offset+next])
		offset += n
		r.readSize += uint32(n)
		remaining -= n
		if err != nil {
			r.readSize = 0
			r.totalSize = 0
			return offset, err
		}
	}
	return offset, nil
}

// ReadFrame reads one complete length-prefixed frame and returns its
// payload, looping Read until the frame is fully consumed.
func (r *SizeDeclarativeReader) ReadFrame() ([]byte, error) {
	if r.readSize == r.totalSize {
		if err := r.primeFrame(); err != nil {
			return nil, err
		}
	}
	payload := make([]byte, r.totalSize)
	for r.readSize < r.totalSize {
		if _, err := r.readWithinFrame(payload[r.readSize:]); err != nil {
			return nil, err
		}
	}
	return payload, nil
}

// SizeDeclarativeWriter writes frames with a little-endian uint32 length
// prefix, ported from the write side Beam pairs with
// SizeDeclarativeReader.
type SizeDeclarativeWriter struct {
	target Writer
}

// NewSizeDeclarativeWriter wraps target with length-prefix framing.
func NewSizeDeclarativeWriter(target Writer) *SizeDeclarativeWriter {
	return &SizeDeclarativeWriter{target: target}
}

// WriteFrame writes payload prefixed by its little-endian uint32 length.
// payload may be empty, producing a legal zero-length frame.
func (w *SizeDeclarativeWriter) WriteFrame(payload []byte) error {
	if len(payload) > int(^uint32(0)) {
		return &beamerr.SerializationError{Cause: errFrameTooLarge}
	}
	var sizePrefix [4]byte
	binary.LittleEndian.PutUint32(sizePrefix[:], uint32(len(payload)))
	if err := w.target.Write(sizePrefix[:]); err != nil {
		return err
	}
	if len(payload) == 0 {
		return nil
	}
	return w.target.Write(payload)
}
