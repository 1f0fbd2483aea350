package pbp

import (
	"bytes"
	"path/filepath"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/spf13/afero"

	"github.com/pspdev/psptools/pkg/fsutil"
)

// Container is a container loaded in memory.
type Container struct {
	Header Header
	data   []byte
}

// Decode checks data and returns the container it holds.
func Decode(data []byte) (*Container, error) {
	hdr, err := ReadHeader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if err = hdr.Validate(int64(len(data))); err != nil {
		return nil, err
	}
	return &Container{Header: hdr, data: data}, nil
}

// Open reads and decodes the container at path.
func Open(fs afero.Fs, path string) (*Container, error) {
	data, err := fsutil.ReadFile(fs, path)
	if err != nil {
		return nil, err
	}
	c, err := Decode(data)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return c, nil
}

// Size is the total size of the container in bytes.
func (c *Container) Size() int64 { return int64(len(c.data)) }

// Segment returns the bytes of slot. An absent slot yields an empty slice.
func (c *Container) Segment(slot Slot) []byte {
	start, end := c.Header.Span(slot, c.Size())
	return c.data[start:end]
}

// Present lists the slots holding at least one byte.
func (c *Container) Present() []Slot {
	return lo.Filter(Slots(), func(s Slot, _ int) bool {
		return len(c.Segment(s)) > 0
	})
}

// Unpack writes every non-empty segment of the container at path into dir,
// one file per slot named after it. It returns the written file paths.
func Unpack(fs afero.Fs, logger log.Logger, path, dir string) ([]string, error) {
	c, err := Open(fs, path)
	if err != nil {
		return nil, err
	}
	if err = fsutil.MkdirAll(fs, dir); err != nil {
		return nil, err
	}
	var written []string
	for _, slot := range c.Present() {
		out := filepath.Join(dir, slot.String())
		if err = fsutil.WriteFile(fs, out, c.Segment(slot)); err != nil {
			return written, err
		}
		level.Debug(logger).Log("msg", "segment extracted", "slot", slot, "path", out, "size", len(c.Segment(slot)))
		written = append(written, out)
	}
	return written, nil
}
