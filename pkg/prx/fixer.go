// Package prx repairs the import stub metadata of a linked PSP module.
//
// The linker may drop or reorder stub entries without updating how many
// imported functions each one covers. Every entry's NID block starts where
// the previous one, in address order, ends, so the true counts can be
// recovered from the NID addresses alone.
package prx

import (
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/pspdev/psptools/pkg/fsutil"
)

// Result summarises one Fix run.
type Result struct {
	// Stubs is false when the image has no stub section and was left alone.
	Stubs   bool
	Entries int
	Changed int
}

// Fixer rewrites stub counts of images stored on fs.
type Fixer struct {
	fs     afero.Fs
	logger log.Logger
}

func NewFixer(fs afero.Fs, logger log.Logger) *Fixer {
	return &Fixer{fs: fs, logger: logger}
}

// Plan reads the image at path and returns its stub table along with the
// recomputed counts, without modifying anything. The table is nil when the
// image has no stub section.
func (f *Fixer) Plan(path string) (*StubTable, []uint16, error) {
	image, err := fsutil.ReadFile(f.fs, path)
	if err != nil {
		return nil, nil, err
	}
	table, counts, err := plan(image)
	if err != nil {
		return nil, nil, errors.Wrap(err, path)
	}
	return table, counts, nil
}

func plan(image []byte) (*StubTable, []uint16, error) {
	table, sections, err := ReadStubs(image)
	if err != nil || table == nil {
		return nil, nil, err
	}
	nids, err := sections.Require(NIDTableSection)
	if err != nil {
		return nil, nil, err
	}
	counts, err := Recount(table.Entries, nids)
	if err != nil {
		return nil, nil, err
	}
	return table, counts, nil
}

// Fix recomputes the stub count of every entry of the image at path and
// writes the image back in place. Images without a stub section are not
// written at all. Nothing is written if any step fails.
func (f *Fixer) Fix(path string) (Result, error) {
	image, err := fsutil.ReadFile(f.fs, path)
	if err != nil {
		return Result{}, err
	}
	table, counts, err := plan(image)
	if err != nil {
		return Result{}, errors.Wrap(err, path)
	}
	if table == nil {
		level.Debug(f.logger).Log("msg", "no stub section, leaving image untouched", "path", path)
		return Result{}, nil
	}

	res := Result{Stubs: true, Entries: len(table.Entries)}
	for i := range table.Entries {
		e := &table.Entries[i]
		if e.StubCount != counts[i] {
			res.Changed++
			level.Debug(f.logger).Log("msg", "stub count changed", "entry", i, "stub", e, "new", counts[i])
		}
		e.StubCount = counts[i]
	}
	table.Encode(image)

	if err := fsutil.WriteFile(f.fs, path, image); err != nil {
		return Result{}, err
	}
	level.Debug(f.logger).Log("msg", "stub table fixed", "path", path, "entries", res.Entries, "changed", res.Changed)
	return res, nil
}
