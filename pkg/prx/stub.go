package prx

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"sort"

	"github.com/pkg/errors"
)

// StubEntrySize is the on-disk size of a StubEntry.
const StubEntrySize = 20

// nidSize is the size of one imported function identifier.
const nidSize = 4

// StubEntry is the linkage block of one imported library. The address fields
// hold target virtual addresses, not host pointers.
type StubEntry struct {
	Name       uint32
	Version    [2]byte
	Flags      uint16
	Len        uint8
	VStubCount uint8
	StubCount  uint16
	NIDTable   uint32
	StubTable  uint32
}

func (e StubEntry) String() string {
	return fmt.Sprintf("name: %#08x, flags: %#04x, stubs: %d, nids: %#08x", e.Name, e.Flags, e.StubCount, e.NIDTable)
}

// DecodeStubEntry decodes one little-endian entry from b.
func DecodeStubEntry(b []byte) (StubEntry, error) {
	var e StubEntry
	if len(b) < StubEntrySize {
		return e, errors.Wrapf(ErrDecode, "stub entry: need %d bytes, got %d", StubEntrySize, len(b))
	}
	if err := binary.Read(bytes.NewReader(b[:StubEntrySize]), binary.LittleEndian, &e); err != nil {
		return e, errors.Wrapf(ErrDecode, "stub entry: %v", err)
	}
	return e, nil
}

// Encode writes e into the first StubEntrySize bytes of b.
func (e StubEntry) Encode(b []byte) {
	le := binary.LittleEndian
	le.PutUint32(b[0:], e.Name)
	copy(b[4:6], e.Version[:])
	le.PutUint16(b[6:], e.Flags)
	b[8] = e.Len
	b[9] = e.VStubCount
	le.PutUint16(b[10:], e.StubCount)
	le.PutUint32(b[12:], e.NIDTable)
	le.PutUint32(b[16:], e.StubTable)
}

// StubTable is the decoded stub entry region of an image.
type StubTable struct {
	// Start and End delimit the region in the file.
	Start, End uint64
	// Entries in the order they appear in the region.
	Entries []StubEntry
}

// DecodeStubTable decodes the region [start, end) of image.
func DecodeStubTable(image []byte, start, end uint64) (*StubTable, error) {
	if end < start || end > uint64(len(image)) {
		return nil, errors.Wrapf(ErrMalformedRegion, "stub region [%#x, %#x) outside of image of %d bytes", start, end, len(image))
	}
	if (end-start)%StubEntrySize != 0 {
		return nil, errors.Wrapf(ErrMalformedRegion, "stub region of %d bytes is not a multiple of %d", end-start, StubEntrySize)
	}
	t := &StubTable{
		Start:   start,
		End:     end,
		Entries: make([]StubEntry, 0, (end-start)/StubEntrySize),
	}
	for off := start; off < end; off += StubEntrySize {
		e, err := DecodeStubEntry(image[off : off+StubEntrySize])
		if err != nil {
			return nil, errors.Wrapf(err, "at offset %#x", off)
		}
		t.Entries = append(t.Entries, e)
	}
	return t, nil
}

// Encode writes the entries back into the region they were decoded from.
func (t *StubTable) Encode(image []byte) {
	for i, e := range t.Entries {
		off := t.Start + uint64(i)*StubEntrySize
		e.Encode(image[off : off+StubEntrySize])
	}
}

// Recount computes the true stub count of every entry. Each entry's NID block
// runs up to the start of the next block in address order; the last one runs
// to the end of the NID section. Counts are returned in positional order.
//
// Entries sharing a NID address keep their positional order in the ranking,
// which leaves their counts meaningless: the first one gets zero.
func Recount(entries []StubEntry, nids Section) ([]uint16, error) {
	ranked := make([]int, len(entries))
	for i := range ranked {
		ranked[i] = i
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		return entries[ranked[a]].NIDTable < entries[ranked[b]].NIDTable
	})
	rank := make([]int, len(entries))
	for r, i := range ranked {
		rank[i] = r
	}

	counts := make([]uint16, len(entries))
	for i, e := range entries {
		upper := nids.End()
		if next := rank[i] + 1; next < len(ranked) {
			upper = uint64(entries[ranked[next]].NIDTable)
		}
		lower := uint64(e.NIDTable)
		if upper < lower {
			return nil, errors.Wrapf(ErrMalformedRegion, "NID table %#08x of entry %d lies past the end of %s (%#x)", lower, i, nids.Name, upper)
		}
		n := (upper - lower) / nidSize
		if n > math.MaxUint16 {
			return nil, errors.Wrapf(ErrMalformedRegion, "entry %d spans %d NIDs", i, n)
		}
		counts[i] = uint16(n)
	}
	return counts, nil
}

// ReadStubs locates and decodes the stub entry region of image. It returns a
// nil table and no error when the image has no stub section.
func ReadStubs(image []byte) (*StubTable, Sections, error) {
	sections, err := ReadSections(image)
	if err != nil {
		return nil, nil, err
	}
	stub, ok := sections[StubSection]
	if !ok {
		return nil, sections, nil
	}
	end, err := sections.Require(StubEndSection)
	if err != nil {
		return nil, nil, err
	}
	table, err := DecodeStubTable(image, stub.Offset, end.Offset)
	if err != nil {
		return nil, nil, errors.Wrap(err, StubSection)
	}
	return table, sections, nil
}
