//go:build !ffmpeg

package avformat

import (
	"context"
	"errors"
	"testing"

	"tscut/domain/media"
)

func TestStubLibrary_Unavailable(t *testing.T) {
	lib := NewLibrary(nil)

	if lib.Name() != "ffmpeg" {
		t.Errorf("Name() = %q", lib.Name())
	}
	if err := lib.Init(media.LogWarning); !errors.Is(err, media.ErrLibraryUnavailable) {
		t.Errorf("Init() = %v, want ErrLibraryUnavailable", err)
	}
	if _, err := lib.OpenInput(context.Background(), "in.ts"); !errors.Is(err, media.ErrLibraryUnavailable) {
		t.Errorf("OpenInput() = %v, want ErrLibraryUnavailable", err)
	}
	if _, err := lib.CreateOutput(context.Background(), "out.ts"); !errors.Is(err, media.ErrLibraryUnavailable) {
		t.Errorf("CreateOutput() = %v, want ErrLibraryUnavailable", err)
	}
}
