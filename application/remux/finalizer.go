package remux

import (
	"errors"
	"fmt"

	"tscut/domain/remux"
)

// ErrIncompleteOutputs is returned by Commit when an output has not been
// marked complete
var ErrIncompleteOutputs = errors.New("not every output completed")

type stagedOutput struct {
	temp     string
	final    string
	complete bool
}

// Finalizer publishes outputs written under temporary names. Nothing is
// renamed unless every staged output was marked complete.
type Finalizer struct {
	renamer remux.Renamer
	staged  []stagedOutput
}

// NewFinalizer creates a Finalizer that moves files with renamer
func NewFinalizer(renamer remux.Renamer) *Finalizer {
	return &Finalizer{renamer: renamer}
}

// Stage registers an output and returns its handle
func (f *Finalizer) Stage(temp, final string) int {
	f.staged = append(f.staged, stagedOutput{temp: temp, final: final})
	return len(f.staged) - 1
}

// MarkComplete records that the trailer of an output was written
func (f *Finalizer) MarkComplete(handle int) {
	if handle >= 0 && handle < len(f.staged) {
		f.staged[handle].complete = true
	}
}

// Commit renames every staged output to its final path
func (f *Finalizer) Commit() ([]string, error) {
	for _, s := range f.staged {
		if !s.complete {
			return nil, fmt.Errorf("%w: %s", ErrIncompleteOutputs, s.temp)
		}
	}

	finals := make([]string, 0, len(f.staged))
	for _, s := range f.staged {
		if err := f.renamer.Rename(s.temp, s.final); err != nil {
			return finals, fmt.Errorf("failed to finalize %s: %w", s.temp, err)
		}
		finals = append(finals, s.final)
	}
	return finals, nil
}
