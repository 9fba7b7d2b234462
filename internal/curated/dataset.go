// Package curated holds the bundled supplemental dataset of known
// pet-friendly venues. The dataset doubles as the keyword list the batch
// fetcher probes the upstream API with.
package curated

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/user/petplaces-service/internal/entity"
)

//go:embed curated_places.json
var rawDataset []byte

// Dataset is the loaded supplemental dataset. Read-only after Load.
type Dataset struct {
	places  []entity.CuratedPlace
	byTitle map[string]*entity.CuratedPlace
}

// Load parses the bundled dataset. Called once at process start.
func Load() (*Dataset, error) {
	return loadFrom(rawDataset)
}

func loadFrom(data []byte) (*Dataset, error) {
	var places []entity.CuratedPlace
	if err := json.Unmarshal(data, &places); err != nil {
		return nil, fmt.Errorf("failed to parse curated dataset: %w", err)
	}
	return FromPlaces(places), nil
}

// FromPlaces builds a dataset from an in-memory slice, used by tests and
// fixtures.
func FromPlaces(places []entity.CuratedPlace) *Dataset {
	d := &Dataset{
		places:  places,
		byTitle: make(map[string]*entity.CuratedPlace, len(places)),
	}
	for i := range d.places {
		d.byTitle[d.places[i].Title] = &d.places[i]
	}
	return d
}

// Keywords returns the ordered curated venue names used as upstream search
// keywords.
func (d *Dataset) Keywords() []string {
	keywords := make([]string, len(d.places))
	for i, p := range d.places {
		keywords[i] = p.Title
	}
	return keywords
}

// ByTitle looks up a curated entry by exact title match.
func (d *Dataset) ByTitle(title string) (*entity.CuratedPlace, bool) {
	p, ok := d.byTitle[title]
	return p, ok
}

// Places returns all curated entries in dataset order.
func (d *Dataset) Places() []entity.CuratedPlace {
	return d.places
}

// Len returns the number of curated entries.
func (d *Dataset) Len() int {
	return len(d.places)
}
