package pbp

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

var (
	ErrInvalidMagic   = errors.New("invalid magic number")
	ErrInvalidVersion = errors.New("unsupported version")
	ErrInvalidOffsets = errors.New("invalid segment offsets")
	ErrTooLarge       = errors.New("container exceeds 4 GiB")
)

// Header is the fixed-size record at the start of a container.
type Header struct {
	Magic   [4]byte
	Version uint32
	Offsets [SlotCount]uint32
}

func newHeader() Header {
	return Header{Magic: magic, Version: Version}
}

// MarshalBinary encodes the header in its little-endian on-disk form.
func (h Header) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(HeaderSize)
	if err := binary.Write(&buf, binary.LittleEndian, h); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ReadHeader decodes and checks a header. It does not check offsets against
// the container size; see Header.Validate.
func ReadHeader(r io.Reader) (Header, error) {
	var h Header
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return h, errors.Wrap(err, "failed to read header")
	}
	if h.Magic != magic {
		return h, errors.Wrapf(ErrInvalidMagic, "%q", h.Magic[:])
	}
	if h.Version != Version {
		return h, errors.Wrapf(ErrInvalidVersion, "expected %#08x, got %#08x", Version, h.Version)
	}
	return h, nil
}

// Validate checks that the offsets are non-decreasing and lie between the
// end of the header and size.
func (h Header) Validate(size int64) error {
	prev := uint32(HeaderSize)
	for i, off := range h.Offsets {
		if off < prev {
			return errors.Wrapf(ErrInvalidOffsets, "%s starts at %#x, before %#x", Slot(i), off, prev)
		}
		if int64(off) > size {
			return errors.Wrapf(ErrInvalidOffsets, "%s starts at %#x, past the end of the container (%#x)", Slot(i), off, size)
		}
		prev = off
	}
	return nil
}

// Span returns the byte range of slot within a container of the given size.
func (h Header) Span(slot Slot, size int64) (start, end int64) {
	start = int64(h.Offsets[slot])
	end = size
	if slot+1 < SlotCount {
		end = int64(h.Offsets[slot+1])
	}
	return start, end
}
