// Package sfo reads and writes PARAM.SFO system file objects, the key/value
// descriptor stored in the first slot of a PBP container.
package sfo

import (
	"bytes"
	"encoding/binary"
	"sort"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

const (
	version    uint32 = 0x00000101
	headerSize        = 20
	indexSize         = 16
	alignment  uint8  = 4
)

var magic = [4]byte{0x00, 'P', 'S', 'F'}

var (
	ErrInvalidMagic   = errors.New("invalid magic number")
	ErrInvalidVersion = errors.New("unsupported version")
	ErrValueTooLong   = errors.New("value too long")
	ErrCorrupt        = errors.New("corrupt descriptor")
)

// Kind is the type of a value.
type Kind uint8

const (
	KindString Kind = 2
	KindInt    Kind = 4
)

// Reserved lengths of the well-known string keys, terminator included.
var reservedLengths = map[string]uint32{
	"CATEGORY":       4,
	"DISC_ID":        16,
	"DISC_VERSION":   8,
	"PSP_SYSTEM_VER": 8,
	"TITLE":          128,
}

// Value is one entry. Strings occupy Reserved bytes in the data table.
type Value struct {
	Kind     Kind
	Str      string
	Int      uint32
	Reserved uint32
}

// File is a set of keyed values.
type File struct {
	values map[string]Value
}

// New returns a descriptor carrying the values the firmware expects from a
// bootable homebrew application.
func New(title string) *File {
	f := &File{values: map[string]Value{}}
	f.SetInt("BOOTABLE", 1)
	f.SetString("CATEGORY", "MG")
	f.SetString("DISC_ID", "UCJS10041")
	f.SetString("DISC_VERSION", "1.00")
	f.SetInt("PARENTAL_LEVEL", 1)
	f.SetString("PSP_SYSTEM_VER", "1.00")
	f.SetInt("REGION", 0x8000)
	f.SetString("TITLE", title)
	return f
}

// SetString stores a string value. Well-known keys keep their fixed reserved
// length; other keys reserve the value plus terminator, rounded up to 4.
func (f *File) SetString(key, value string) {
	reserved, ok := reservedLengths[key]
	if !ok {
		reserved = align(uint32(len(value)) + 1)
	}
	f.values[key] = Value{Kind: KindString, Str: value, Reserved: reserved}
}

// SetInt stores a 32-bit value.
func (f *File) SetInt(key string, value uint32) {
	f.values[key] = Value{Kind: KindInt, Int: value, Reserved: 4}
}

func (f *File) Get(key string) (Value, bool) {
	v, ok := f.values[key]
	return v, ok
}

// Keys returns the keys in the order they are encoded.
func (f *File) Keys() []string {
	keys := lo.Keys(f.values)
	sort.Strings(keys)
	return keys
}

func align(n uint32) uint32 {
	return (n + 3) &^ 3
}

type header struct {
	Magic          [4]byte
	Version        uint32
	KeyTableStart  uint32
	DataTableStart uint32
	Count          uint32
}

type index struct {
	KeyOffset  uint16
	Alignment  uint8
	Kind       Kind
	Length     uint32
	Reserved   uint32
	DataOffset uint32
}

// Encode serialises the descriptor. Keys are written in ascending order.
func (f *File) Encode() ([]byte, error) {
	keys := f.Keys()

	var keyTable, dataTable bytes.Buffer
	indexes := make([]index, 0, len(keys))
	for _, key := range keys {
		v := f.values[key]
		idx := index{
			KeyOffset:  uint16(keyTable.Len()),
			Alignment:  alignment,
			Kind:       v.Kind,
			Reserved:   v.Reserved,
			DataOffset: uint32(dataTable.Len()),
		}
		keyTable.WriteString(key)
		keyTable.WriteByte(0)

		switch v.Kind {
		case KindString:
			idx.Length = uint32(len(v.Str)) + 1
			if idx.Length > v.Reserved {
				return nil, errors.Wrapf(ErrValueTooLong, "%s: %d bytes, %d reserved", key, idx.Length, v.Reserved)
			}
			data := make([]byte, v.Reserved)
			copy(data, v.Str)
			dataTable.Write(data)
		case KindInt:
			idx.Length = 4
			_ = binary.Write(&dataTable, binary.LittleEndian, v.Int)
		default:
			return nil, errors.Errorf("%s: unknown kind %d", key, v.Kind)
		}
		indexes = append(indexes, idx)
	}
	for keyTable.Len()%int(alignment) != 0 {
		keyTable.WriteByte(0)
	}

	hdr := header{
		Magic:         magic,
		Version:       version,
		KeyTableStart: uint32(headerSize + indexSize*len(keys)),
		Count:         uint32(len(keys)),
	}
	hdr.DataTableStart = hdr.KeyTableStart + uint32(keyTable.Len())

	var out bytes.Buffer
	_ = binary.Write(&out, binary.LittleEndian, hdr)
	_ = binary.Write(&out, binary.LittleEndian, indexes)
	out.Write(keyTable.Bytes())
	out.Write(dataTable.Bytes())
	return out.Bytes(), nil
}

// Decode parses a descriptor.
func Decode(data []byte) (*File, error) {
	r := bytes.NewReader(data)
	var hdr header
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return nil, errors.Wrap(err, "failed to read header")
	}
	if hdr.Magic != magic {
		return nil, errors.Wrapf(ErrInvalidMagic, "%q", hdr.Magic[:])
	}
	if hdr.Version != version {
		return nil, errors.Wrapf(ErrInvalidVersion, "expected %#x, got %#x", version, hdr.Version)
	}
	if uint64(hdr.Count)*indexSize > uint64(len(data)) {
		return nil, errors.Wrapf(ErrCorrupt, "%d entries do not fit in %d bytes", hdr.Count, len(data))
	}
	indexes := make([]index, hdr.Count)
	if err := binary.Read(r, binary.LittleEndian, indexes); err != nil {
		return nil, errors.Wrap(err, "failed to read index table")
	}

	f := &File{values: make(map[string]Value, len(indexes))}
	for i, idx := range indexes {
		keyStart := uint64(hdr.KeyTableStart) + uint64(idx.KeyOffset)
		if keyStart >= uint64(len(data)) {
			return nil, errors.Wrapf(ErrCorrupt, "entry %d: key offset out of range", i)
		}
		keyLen := bytes.IndexByte(data[keyStart:], 0)
		if keyLen < 0 {
			return nil, errors.Wrapf(ErrCorrupt, "entry %d: unterminated key", i)
		}
		key := string(data[keyStart : keyStart+uint64(keyLen)])

		start := uint64(hdr.DataTableStart) + uint64(idx.DataOffset)
		if idx.Length > idx.Reserved || start+uint64(idx.Reserved) > uint64(len(data)) {
			return nil, errors.Wrapf(ErrCorrupt, "%s: data out of range", key)
		}
		raw := data[start : start+uint64(idx.Length)]

		switch idx.Kind {
		case KindString:
			f.values[key] = Value{Kind: KindString, Str: string(bytes.TrimRight(raw, "\x00")), Reserved: idx.Reserved}
		case KindInt:
			if idx.Length != 4 {
				return nil, errors.Wrapf(ErrCorrupt, "%s: integer of %d bytes", key, idx.Length)
			}
			f.values[key] = Value{Kind: KindInt, Int: binary.LittleEndian.Uint32(raw), Reserved: idx.Reserved}
		default:
			return nil, errors.Wrapf(ErrCorrupt, "%s: unknown kind %d", key, idx.Kind)
		}
	}
	return f, nil
}
