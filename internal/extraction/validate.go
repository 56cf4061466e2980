package extraction

import (
	"strings"

	"github.com/bookshelf-labs/shelfscan/internal/models"
)

// needValidationMarker is the literal escape hatch the prompt offers the
// model. Its presence anywhere in the uncertainty notes fails the record.
const needValidationMarker = "Need Validation"

// highRiskPhrases mark extractions the model itself hedged on. Matched
// case-insensitively against the uncertainty notes.
var highRiskPhrases = []string{
	"cannot determine",
	"unclear",
	"not visible",
	"multiple possibilities",
	"completely obscured",
	"low confidence",
	"uncertain",
	"ambiguous",
}

// placeholderTerms are non-answers that sometimes show up in the title
// field. Matched case-insensitively as substrings.
var placeholderTerms = []string{
	"unknown",
	"n/a",
	"not available",
	"unclear",
}

// minReasoningLen guards against rubber-stamp reasoning.
const minReasoningLen = 20

// Validate applies the acceptance conditions to an extracted record.
// Every condition must hold for the record to be valid.
func Validate(rec models.SpineRecord) bool {
	if strings.Contains(rec.UncertaintyNotes, needValidationMarker) {
		return false
	}

	notes := strings.ToLower(rec.UncertaintyNotes)
	for _, phrase := range highRiskPhrases {
		if strings.Contains(notes, phrase) {
			return false
		}
	}

	if len(rec.Reasoning) < minReasoningLen {
		return false
	}

	if strings.TrimSpace(rec.Title) == "" {
		return false
	}
	if strings.TrimSpace(rec.PrimaryGenre) == "" {
		return false
	}

	title := strings.ToLower(rec.Title)
	for _, term := range placeholderTerms {
		if strings.Contains(title, term) {
			return false
		}
	}

	return true
}
