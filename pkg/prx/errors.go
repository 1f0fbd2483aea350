package prx

import "github.com/pkg/errors"

var (
	// ErrMissingSection is returned when a section the fixer depends on is
	// not present in the image.
	ErrMissingSection = errors.New("missing section")
	// ErrMalformedRegion is returned when a region does not hold a whole
	// number of records, or its bounds are inconsistent.
	ErrMalformedRegion = errors.New("malformed region")
	// ErrDecode is returned when the image or one of its records cannot be
	// decoded.
	ErrDecode = errors.New("decode error")
)
