package test

import (
	"bytes"
	"debug/elf"
	"encoding/binary"
)

const (
	elf32HeaderSize  = 52
	elf32SectionSize = 40
)

// Section describes one section of a synthetic image.
type Section struct {
	Name string
	Type elf.SectionType
	Addr uint32
	Data []byte
}

// ProgBits is a shorthand for an allocated SHT_PROGBITS section.
func ProgBits(name string, addr uint32, data []byte) Section {
	return Section{Name: name, Type: elf.SHT_PROGBITS, Addr: addr, Data: data}
}

// BuildELF32 lays out a little-endian MIPS ELF32 relocatable image holding
// the given sections, in order, followed by the section name table and the
// section header table. Section data is 4-byte aligned in the file.
func BuildELF32(sections ...Section) []byte {
	var (
		body    bytes.Buffer
		offsets = make([]uint32, len(sections))
		shstr   = []byte{0}
		names   = make([]uint32, len(sections))
	)
	align := func() {
		for body.Len()%4 != 0 {
			body.WriteByte(0)
		}
	}

	for i, s := range sections {
		align()
		offsets[i] = uint32(elf32HeaderSize + body.Len())
		body.Write(s.Data)
		names[i] = uint32(len(shstr))
		shstr = append(append(shstr, s.Name...), 0)
	}
	shstrName := uint32(len(shstr))
	shstr = append(append(shstr, ".shstrtab"...), 0)

	align()
	shstrOff := uint32(elf32HeaderSize + body.Len())
	body.Write(shstr)
	align()
	shoff := uint32(elf32HeaderSize + body.Len())

	var out bytes.Buffer
	le := binary.LittleEndian
	ident := [elf.EI_NIDENT]byte{0x7f, 'E', 'L', 'F', byte(elf.ELFCLASS32), byte(elf.ELFDATA2LSB), byte(elf.EV_CURRENT)}
	out.Write(ident[:])
	_ = binary.Write(&out, le, uint16(elf.ET_REL))
	_ = binary.Write(&out, le, uint16(elf.EM_MIPS))
	_ = binary.Write(&out, le, uint32(elf.EV_CURRENT))
	_ = binary.Write(&out, le, uint32(0)) // entry
	_ = binary.Write(&out, le, uint32(0)) // phoff
	_ = binary.Write(&out, le, shoff)
	_ = binary.Write(&out, le, uint32(0)) // flags
	_ = binary.Write(&out, le, uint16(elf32HeaderSize))
	_ = binary.Write(&out, le, uint16(0)) // phentsize
	_ = binary.Write(&out, le, uint16(0)) // phnum
	_ = binary.Write(&out, le, uint16(elf32SectionSize))
	_ = binary.Write(&out, le, uint16(len(sections)+2))
	_ = binary.Write(&out, le, uint16(len(sections)+1))
	out.Write(body.Bytes())

	writeSection := func(name uint32, typ elf.SectionType, flags elf.SectionFlag, addr, off, size uint32) {
		_ = binary.Write(&out, le, [10]uint32{name, uint32(typ), uint32(flags), addr, off, size, 0, 0, 4, 0})
	}
	writeSection(0, elf.SHT_NULL, 0, 0, 0, 0)
	for i, s := range sections {
		writeSection(names[i], s.Type, elf.SHF_ALLOC, s.Addr, offsets[i], uint32(len(s.Data)))
	}
	writeSection(shstrName, elf.SHT_STRTAB, 0, 0, shstrOff, uint32(len(shstr)))
	return out.Bytes()
}
