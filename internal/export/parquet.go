package export

import (
	"fmt"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/bookshelf-labs/shelfscan/internal/models"
)

// BookRow is one analyzed spine flattened for the parquet dataset.
type BookRow struct {
	RequestID       string  `parquet:"request_id"`
	BookNumber      int32   `parquet:"book_number"`
	Title           string  `parquet:"title"`
	Author          string  `parquet:"author"`
	Genre           string  `parquet:"genre"`
	PrimaryGenre    string  `parquet:"primary_genre"`
	IsValid         bool    `parquet:"is_valid"`
	Confidence      string  `parquet:"confidence"`
	GenreConfidence string  `parquet:"genre_confidence"`
	AngleDegrees    float64 `parquet:"angle_degrees"`
	MatchScore      float64 `parquet:"match_score"`
	CreatedAt       int64   `parquet:"created_at,timestamp(millisecond)"`
}

// Rows flattens stored analysis results into per-book rows.
func Rows(results []*models.AnalysisResult) []BookRow {
	var rows []BookRow
	for _, result := range results {
		for _, book := range result.Books {
			rows = append(rows, BookRow{
				RequestID:       result.RequestID,
				BookNumber:      int32(book.BookNumber),
				Title:           book.Title,
				Author:          book.Author,
				Genre:           book.Genre,
				PrimaryGenre:    book.PrimaryGenre,
				IsValid:         book.IsValid,
				Confidence:      book.Confidence,
				GenreConfidence: book.GenreConfidence,
				AngleDegrees:    book.AngleDegrees,
				MatchScore:      book.MatchScore,
				CreatedAt:       result.CreatedAt.UnixMilli(),
			})
		}
	}
	return rows
}

// WriteParquet writes the flattened rows to a parquet file and returns
// how many rows were written.
func WriteParquet(results []*models.AnalysisResult, path string) (int, error) {
	rows := Rows(results)

	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	writer := parquet.NewGenericWriter[BookRow](f)
	if len(rows) > 0 {
		if _, err := writer.Write(rows); err != nil {
			return 0, fmt.Errorf("failed to write rows: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return 0, fmt.Errorf("failed to close writer: %w", err)
	}

	return len(rows), nil
}
