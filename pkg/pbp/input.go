package pbp

// Input is the source of one slot: either a file or nothing at all. The zero
// value is absent. A present input with an empty path is still present, and
// fails when read.
type Input struct {
	path    string
	present bool
}

// None returns an absent input.
func None() Input { return Input{} }

// File returns an input reading the file at path.
func File(path string) Input { return Input{path: path, present: true} }

// ParseInput maps the command line sentinel Absent to an absent input and
// anything else to a file.
func ParseInput(arg string) Input {
	if arg == Absent {
		return None()
	}
	return File(arg)
}

// Path returns the file path and whether the input is present.
func (in Input) Path() (string, bool) { return in.path, in.present }

func (in Input) String() string {
	if !in.present {
		return Absent
	}
	return in.path
}
