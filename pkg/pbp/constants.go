package pbp

// Container format constants
const (
	// Version 1.0, major in the high half.
	Version uint32 = 0x00010000

	// Size of the header: magic, version and one offset per slot.
	HeaderSize = 4 + 4 + SlotCount*4

	// Absent is the command line value standing for a missing input.
	Absent = "NULL"
)

var magic = [4]byte{0x00, 'P', 'B', 'P'}

// Slot is one of the fixed segment roles of a container.
type Slot int

const (
	SlotParamSFO Slot = iota
	SlotIcon0
	SlotIcon1
	SlotPic0
	SlotPic1
	SlotSnd0
	SlotDataPSP
	SlotDataPSAR

	SlotCount = 8
)

var slotNames = [SlotCount]string{
	"PARAM.SFO",
	"ICON0.PNG",
	"ICON1.PMF",
	"PIC0.PNG",
	"PIC1.PNG",
	"SND0.AT3",
	"DATA.PSP",
	"DATA.PSAR",
}

// String returns the conventional file name of the slot's segment.
func (s Slot) String() string {
	if s < 0 || s >= SlotCount {
		return "UNKNOWN"
	}
	return slotNames[s]
}

// Slots lists every slot in container order.
func Slots() []Slot {
	s := make([]Slot, SlotCount)
	for i := range s {
		s[i] = Slot(i)
	}
	return s
}
