package extraction

import (
	"testing"

	"github.com/bookshelf-labs/shelfscan/internal/models"
)

// goodRecord passes every validation condition.
func goodRecord() models.SpineRecord {
	return models.SpineRecord{
		Title:            "The Name of the Wind",
		Author:           "Patrick Rothfuss",
		PrimaryGenre:     "Fantasy",
		Reasoning:        "Title is the largest text on the spine, author printed below it.",
		UncertaintyNotes: "None",
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.SpineRecord)
		want   bool
	}{
		{"all conditions hold", func(r *models.SpineRecord) {}, true},
		{"validation marker", func(r *models.SpineRecord) {
			r.UncertaintyNotes = "Top of spine cut off. Need Validation."
		}, false},
		{"high-risk phrase cannot determine", func(r *models.SpineRecord) {
			r.UncertaintyNotes = "I Cannot Determine the author name"
		}, false},
		{"high-risk phrase not visible", func(r *models.SpineRecord) {
			r.UncertaintyNotes = "author NOT VISIBLE on spine"
		}, false},
		{"high-risk phrase ambiguous", func(r *models.SpineRecord) {
			r.UncertaintyNotes = "the second word is ambiguous"
		}, false},
		{"short reasoning", func(r *models.SpineRecord) {
			r.Reasoning = "largest text"
		}, false},
		{"empty title", func(r *models.SpineRecord) {
			r.Title = ""
		}, false},
		{"whitespace title", func(r *models.SpineRecord) {
			r.Title = "   "
		}, false},
		{"empty genre", func(r *models.SpineRecord) {
			r.PrimaryGenre = ""
		}, false},
		{"placeholder title unknown", func(r *models.SpineRecord) {
			r.Title = "Unknown Title"
		}, false},
		{"placeholder title n/a", func(r *models.SpineRecord) {
			r.Title = "N/A"
		}, false},
		{"placeholder title unclear", func(r *models.SpineRecord) {
			r.Title = "unclear text"
		}, false},
		{"missing author is fine", func(r *models.SpineRecord) {
			r.Author = ""
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := goodRecord()
			tt.mutate(&rec)
			if got := Validate(rec); got != tt.want {
				t.Errorf("Validate() = %v, want %v", got, tt.want)
			}
		})
	}
}
