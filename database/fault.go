package database

import (
	"errors"
	"fmt"
)

type FaultKind int

const (
	FaultMissing FaultKind = iota
	FaultMalformed
	FaultIO
)

func (k FaultKind) String() string {
	switch k {
	case FaultMissing:
		return "missing"
	case FaultMalformed:
		return "malformed"
	default:
		return "io"
	}
}

// ReadFault is the failure side of a storage read. Readers never propagate
// it: each call site substitutes its documented default (zero, empty list).
type ReadFault struct {
	Name string
	Kind FaultKind
	Err  error
}

func (f *ReadFault) Error() string {
	return fmt.Sprintf("read %s (%s): %v", f.Name, f.Kind, f.Err)
}

func (f *ReadFault) Unwrap() error {
	return f.Err
}

// AsReadFault reports whether err is (or wraps) a *ReadFault.
func AsReadFault(err error) (*ReadFault, bool) {
	var fault *ReadFault
	if errors.As(err, &fault) {
		return fault, true
	}
	return nil, false
}
