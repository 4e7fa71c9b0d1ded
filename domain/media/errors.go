package media

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures of a remux run
type ErrorKind int

const (
	// InitFailure means the media library could not be initialized
	InitFailure ErrorKind = iota + 1

	// OpenInputFailure means the input container could not be opened
	OpenInputFailure

	// OpenOutputFailure means an output container could not be created
	OpenOutputFailure

	// HeaderWriteFailure means an output header could not be written
	HeaderWriteFailure

	// TrailerWriteFailure means an output trailer could not be written
	TrailerWriteFailure

	// PacketWriteFailure means a single packet was not written; the run continues
	PacketWriteFailure
)

// String returns the name of the kind
func (k ErrorKind) String() string {
	switch k {
	case InitFailure:
		return "InitFailure"
	case OpenInputFailure:
		return "OpenInputFailure"
	case OpenOutputFailure:
		return "OpenOutputFailure"
	case HeaderWriteFailure:
		return "HeaderWriteFailure"
	case TrailerWriteFailure:
		return "TrailerWriteFailure"
	case PacketWriteFailure:
		return "PacketWriteFailure"
	default:
		return "UnknownFailure"
	}
}

// Fatal returns false only for failures the run recovers from
func (k ErrorKind) Fatal() bool {
	return k != PacketWriteFailure
}

// Error is a classified remux failure
type Error struct {
	Kind ErrorKind
	Op   string
	Path string
	Err  error
}

// NewError creates a classified error
func NewError(kind ErrorKind, op, path string, err error) *Error {
	return &Error{Kind: kind, Op: op, Path: path, Err: err}
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of a classified error anywhere in the chain, or 0
func KindOf(err error) ErrorKind {
	var me *Error
	if errors.As(err, &me) {
		return me.Kind
	}
	return 0
}

// IsFatal returns true if err must stop the run.
// Unclassified errors are treated as fatal.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	kind := KindOf(err)
	if kind == 0 {
		return true
	}
	return kind.Fatal()
}
