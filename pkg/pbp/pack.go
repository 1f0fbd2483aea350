// Package pbp builds and reads PBP containers: a fixed header recording the
// start of eight optional segments, followed by the segments themselves.
package pbp

import (
	"bytes"
	"io"
	"math"

	"github.com/dustin/go-humanize"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/pspdev/psptools/pkg/fsutil"
)

// Inputs holds the source of every slot, in container order.
type Inputs [SlotCount]Input

// ParseInputs maps command line arguments to inputs, see ParseInput.
func ParseInputs(args [SlotCount]string) Inputs {
	var in Inputs
	for i, arg := range args {
		in[i] = ParseInput(arg)
	}
	return in
}

type writerOffset struct {
	io.Writer
	offset int64
}

func withWriterOffset(w io.Writer, offset int64) *writerOffset {
	return &writerOffset{Writer: w, offset: offset}
}

func (w *writerOffset) Write(p []byte) (n int, err error) {
	n, err = w.Writer.Write(p)
	w.offset += int64(n)
	return n, err
}

// headerOffset narrows a write cursor to a header offset.
func headerOffset(offset int64) (uint32, error) {
	if offset < 0 || offset > math.MaxUint32 {
		return 0, errors.Wrapf(ErrTooLarge, "offset %d", offset)
	}
	return uint32(offset), nil
}

// concatFile appends the file at path to w.
func concatFile(fs afero.Fs, w *writerOffset, path string) error {
	file, err := fsutil.Open(fs, path)
	if err != nil {
		return err
	}
	defer file.Close()
	if _, err = io.Copy(w, file); err != nil {
		return &fsutil.IOError{Op: "read", Path: path, Err: err}
	}
	return nil
}

// Packer assembles containers on a file system.
type Packer struct {
	fs     afero.Fs
	logger log.Logger
}

func NewPacker(fs afero.Fs, logger log.Logger) *Packer {
	return &Packer{fs: fs, logger: logger}
}

// Pack writes a container to output holding every present input. Each slot's
// offset is the write cursor when the slot is reached, so an absent slot
// shares its offset with the following one. All inputs are read before the
// output is created; every unreadable input is reported. A container that
// cannot be addressed with 32-bit offsets fails with ErrTooLarge.
func (p *Packer) Pack(output string, inputs Inputs) (Header, error) {
	var (
		hdr     = newHeader()
		payload bytes.Buffer
		w       = withWriterOffset(&payload, HeaderSize)
		errs    error
	)
	for i, in := range inputs {
		slot := Slot(i)
		start, err := headerOffset(w.offset)
		if err != nil {
			return Header{}, errors.Wrapf(err, "slot %s", slot)
		}
		hdr.Offsets[slot] = start
		path, ok := in.Path()
		if !ok {
			level.Debug(p.logger).Log("msg", "slot absent", "slot", slot, "input", in, "offset", start)
			continue
		}
		if err := concatFile(p.fs, w, path); err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		level.Debug(p.logger).Log("msg", "slot added", "slot", slot, "input", in, "offset", start, "size", humanize.Bytes(uint64(w.offset)-uint64(start)))
	}
	if errs != nil {
		return Header{}, errs
	}
	if _, err := headerOffset(w.offset); err != nil {
		return Header{}, errors.Wrap(err, output)
	}

	head, err := hdr.MarshalBinary()
	if err != nil {
		return Header{}, err
	}
	if err := fsutil.WriteFile(p.fs, output, append(head, payload.Bytes()...)); err != nil {
		return Header{}, err
	}
	level.Debug(p.logger).Log("msg", "container written", "path", output, "size", humanize.Bytes(uint64(w.offset)))
	return hdr, nil
}
