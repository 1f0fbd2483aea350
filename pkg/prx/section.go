package prx

import (
	"bytes"
	"debug/elf"

	"github.com/pkg/errors"
)

// Section names the fixer looks up.
const (
	StubSection     = ".lib.stub"
	StubEndSection  = ".lib.stub.btm"
	NIDTableSection = ".rodata.sceNid"
)

// Section is the subset of a section header the fixer works with.
type Section struct {
	Name   string
	Offset uint64
	Addr   uint64
	Size   uint64
}

// End is the virtual address right after the section.
func (s Section) End() uint64 { return s.Addr + s.Size }

// Sections maps section names to their descriptors.
type Sections map[string]Section

// ReadSections parses the section table of an ELF image.
func ReadSections(image []byte) (Sections, error) {
	f, err := elf.NewFile(bytes.NewReader(image))
	if err != nil {
		return nil, errors.Wrapf(ErrDecode, "parse ELF image: %v", err)
	}
	defer f.Close()

	sections := make(Sections, len(f.Sections))
	for _, s := range f.Sections {
		if s.Name == "" {
			continue
		}
		sections[s.Name] = Section{
			Name:   s.Name,
			Offset: s.Offset,
			Addr:   s.Addr,
			Size:   s.Size,
		}
	}
	return sections, nil
}

// Require returns the named section or ErrMissingSection.
func (s Sections) Require(name string) (Section, error) {
	sec, ok := s[name]
	if !ok {
		return Section{}, errors.Wrapf(ErrMissingSection, "%s", name)
	}
	return sec, nil
}
