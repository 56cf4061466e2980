package recommend

import (
	_ "embed"

	"gopkg.in/yaml.v3"

	"github.com/bookshelf-labs/shelfscan/internal/models"
)

//go:embed catalog.yaml
var catalogYAML []byte

var catalog = loadCatalog()

func loadCatalog() []models.RecommendationCandidate {
	var c []models.RecommendationCandidate
	if err := yaml.Unmarshal(catalogYAML, &c); err != nil {
		panic("recommend: embedded catalog is malformed: " + err.Error())
	}
	return c
}

// Catalog returns a copy of the curated candidate list.
func Catalog() []models.RecommendationCandidate {
	out := make([]models.RecommendationCandidate, len(catalog))
	copy(out, catalog)
	return out
}
