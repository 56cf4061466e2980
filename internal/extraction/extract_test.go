package extraction

import (
	"context"
	"errors"
	"image"
	"strings"
	"testing"

	"github.com/bookshelf-labs/shelfscan/internal/providers"
)

type fakeVision struct {
	response string
	err      error
	prompt   string
}

func (f *fakeVision) GenerateFromImage(ctx context.Context, imageData []byte, prompt string, config providers.Config) (string, error) {
	f.prompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func testCrop() image.Image {
	return image.NewRGBA(image.Rect(0, 0, 50, 200))
}

func TestExtractSpine(t *testing.T) {
	vision := &fakeVision{response: `TITLE: Dune
AUTHOR: Frank Herbert
GENRE: [Science Fiction]
SPINE_APPEARANCE: Orange spine
REASONING: The largest text reads Dune, author in smaller print near the top.
UNCERTAINTY_NOTES: None`}

	rec := NewClient(vision).ExtractSpine(context.Background(), testCrop(), 1)

	if !rec.IsValid {
		t.Error("record should be valid")
	}
	if rec.Title != "Dune" {
		t.Errorf("title = %q, want Dune", rec.Title)
	}
	if !strings.Contains(vision.prompt, "TITLE:") {
		t.Error("vision provider did not receive the spine prompt")
	}
}

func TestExtractSpineProviderFailure(t *testing.T) {
	vision := &fakeVision{err: errors.New("model unavailable")}

	rec := NewClient(vision).ExtractSpine(context.Background(), testCrop(), 3)

	if rec.IsValid {
		t.Error("failed extraction must produce an invalid record")
	}
	if !strings.Contains(rec.UncertaintyNotes, "model unavailable") {
		t.Errorf("uncertainty notes = %q, want the provider error recorded", rec.UncertaintyNotes)
	}
}
