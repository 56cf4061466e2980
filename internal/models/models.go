package models

import "time"

// Confidence labels attached to spine records.
const (
	ConfidenceHigh = "high"
	ConfidenceLow  = "low"
)

// Point is a pixel coordinate in the source photo.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DetectedRegion is one candidate book spine reported by the detector:
// an oriented quadrilateral (corners in order around the box) plus the
// detector's confidence.
type DetectedRegion struct {
	Corners    [4]Point `json:"corners"`
	Confidence float64  `json:"confidence"`
}

// CropBounds is the axis-aligned box cut from the rotated canvas for a
// single spine.
type CropBounds struct {
	XMin int `json:"x_min"`
	YMin int `json:"y_min"`
	XMax int `json:"x_max"`
	YMax int `json:"y_max"`
}

// SpineRecord is everything the pipeline knows about one detected spine:
// the six extracted fields, the validation verdict, the categorizer's
// genre fields, and the geometry that produced the crop.
type SpineRecord struct {
	BookNumber       int    `json:"book_number"`
	Title            string `json:"title"`
	Author           string `json:"author"`
	Genre            string `json:"genre"`
	PrimaryGenre     string `json:"primary_genre"`
	SecondaryGenre   string `json:"secondary_genre"`
	TertiaryGenre    string `json:"tertiary_genre"`
	SpineAppearance  string `json:"spine_appearance"`
	Reasoning        string `json:"reasoning"`
	UncertaintyNotes string `json:"uncertainty_notes"`
	IsValid          bool   `json:"is_valid"`
	Confidence       string `json:"confidence"`
	GenreConfidence  string `json:"genre_confidence,omitempty"`
	GenreError       string `json:"genre_error,omitempty"`

	BBox         [4]Point   `json:"bbox"`
	Center       Point      `json:"center"`
	Width        float64    `json:"width"`
	Height       float64    `json:"height"`
	AngleDegrees float64    `json:"angle_degrees"`
	CropBounds   CropBounds `json:"crop_bounds"`

	// Set by preference matching only.
	MatchingGenres []string `json:"matching_genres,omitempty"`
	MatchScore     float64  `json:"match_score,omitempty"`
}

// GenreFields returns the record's non-empty genre fields in
// primary/secondary/tertiary order.
func (r SpineRecord) GenreFields() []string {
	var out []string
	for _, g := range []string{r.PrimaryGenre, r.SecondaryGenre, r.TertiaryGenre} {
		if g != "" {
			out = append(out, g)
		}
	}
	return out
}

// MinX returns the leftmost x coordinate of the record's bounding box.
// Detected books are presented left to right by this value.
func (r SpineRecord) MinX() float64 {
	min := r.BBox[0].X
	for _, p := range r.BBox[1:] {
		if p.X < min {
			min = p.X
		}
	}
	return min
}

// EnrichedBook is a title/author pair merged with bibliographic metadata
// from the external book APIs.
type EnrichedBook struct {
	Title         string   `json:"title"`
	Author        string   `json:"author"`
	Authors       []string `json:"authors,omitempty"`
	PublishedDate string   `json:"published_date,omitempty"`
	Description   string   `json:"description,omitempty"`
	PageCount     int      `json:"page_count,omitempty"`
	Categories    []string `json:"categories,omitempty"`
	Subjects      []string `json:"subjects,omitempty"`
	ISBN10        string   `json:"isbn_10,omitempty"`
	ISBN13        string   `json:"isbn_13,omitempty"`
	CoverURL      string   `json:"cover_url,omitempty"`
	AverageRating float64  `json:"average_rating,omitempty"`
	RatingsCount  int      `json:"ratings_count,omitempty"`
	Source        string   `json:"source"`
}

// RecommendationCandidate is one entry of the curated catalog.
type RecommendationCandidate struct {
	Title  string  `json:"title" yaml:"title"`
	Author string  `json:"author" yaml:"author"`
	Genre  string  `json:"genre" yaml:"genre"`
	Rating float64 `json:"rating" yaml:"rating"`
	Reason string  `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// Annotation is one drawable box for the frontend: the spine corners, a
// display color and a short label.
type Annotation struct {
	BBox  [4]Point `json:"bbox"`
	Color string   `json:"color"`
	Label string   `json:"label"`
}

// AnalysisResult is the per-request artifact persisted after analyzing
// one uploaded photo.
type AnalysisResult struct {
	RequestID       string         `json:"request_id"`
	FileID          string         `json:"file_id,omitempty"`
	Books           []SpineRecord  `json:"books"`
	FilteredBooks   []SpineRecord  `json:"filtered_books,omitempty"`
	SelectedGenres  []string       `json:"selected_genres,omitempty"`
	GenreMatches    map[string]int `json:"genre_matches,omitempty"`
	GenreStatistics map[string]int `json:"genre_statistics"`
	Annotations     []Annotation   `json:"annotations,omitempty"`
	TotalDetected   int            `json:"total_detected"`
	TotalValid      int            `json:"total_valid"`
	CreatedAt       time.Time      `json:"created_at"`
}
