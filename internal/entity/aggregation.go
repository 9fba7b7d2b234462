package entity

import "time"

// Per-source outcome tags. A caller must be able to tell "this source was
// not exercised" apart from "this source was attempted and failed"; an
// empty record list alone is a valid successful outcome.
const (
	StatusSuccess      = "success"
	StatusFailed       = "failed"
	StatusNotRequested = "not_requested"
)

// Aggregation modes.
const (
	ModeGeneral = "general"
	ModePet     = "pet"
)

// AggregationQuery is the logical request the aggregator serves.
type AggregationQuery struct {
	Region          string `json:"region"`
	RowsPerPage     string `json:"rowsPerPage"`
	PageNo          string `json:"pageNo"`
	Keyword         string `json:"keyword,omitempty"`
	Mode            string `json:"mode"`
	LoadAllKeywords bool   `json:"loadAllKeywords"`
}

// AggregationStatus carries one outcome tag per logical source.
type AggregationStatus struct {
	Tourism    string `json:"tourism"`
	PetTourism string `json:"petTourism"`
}

// AggregationResult is the response envelope. It is constructed fresh per
// request (or taken from cache) and immutable once returned.
type AggregationResult struct {
	TourismData         []PlaceRecord     `json:"tourismData,omitempty"`
	PetTourismData      []PlaceRecord     `json:"petTourismData,omitempty"`
	AdditionalPetPlaces []PlaceRecord     `json:"additionalPetPlaces,omitempty"`
	RequestParams       AggregationQuery  `json:"requestParams"`
	Timestamp           time.Time         `json:"timestamp"`
	Status              AggregationStatus `json:"status"`
}
