package entity

import (
	"fmt"
	"strconv"
)

// Record provenance values. Earlier sources win identity collisions during
// a merge, so the order in which the aggregator lists them matters.
const (
	SourceAreaList = "area_list"
	SourceKeyword  = "keyword"
	SourceCurated  = "curated"
)

// PlaceRecord is the canonical place unit flowing through the pipeline.
// Field names mirror the upstream tourism API's XML tags; coordinates stay
// string-encoded because the upstream emits "0" or garbage for missing
// locations and parsing must never be fatal.
type PlaceRecord struct {
	ContentID     string `json:"contentid"`
	ContentTypeID string `json:"contenttypeid,omitempty"`
	Title         string `json:"title"`
	Addr1         string `json:"addr1,omitempty"`
	Addr2         string `json:"addr2,omitempty"`
	MapX          string `json:"mapx,omitempty"`
	MapY          string `json:"mapy,omitempty"`
	Tel           string `json:"tel,omitempty"`
	Cat1          string `json:"cat1,omitempty"`
	Cat2          string `json:"cat2,omitempty"`
	Cat3          string `json:"cat3,omitempty"`
	FirstImage    string `json:"firstimage,omitempty"`
	FirstImage2   string `json:"firstimage2,omitempty"`
	AreaCode      string `json:"areacode,omitempty"`
	CreatedTime   string `json:"createdtime,omitempty"`
	ModifiedTime  string `json:"modifiedtime,omitempty"`

	// SourceKeyword records which curated keyword search produced the
	// record; empty for area-list and curated-append records.
	SourceKeyword string `json:"sourceKeyword,omitempty"`

	// Source tags the query family that produced the record.
	Source string `json:"source,omitempty"`

	// Enrichment fields attached from the curated dataset; absent when the
	// title has no curated counterpart, which is expected.
	LocationGubun string `json:"locationGubun,omitempty"`
	WithGubun     string `json:"withGubun,omitempty"`
	HolidayOpen   *bool  `json:"holidayOpen,omitempty"`

	// Extra preserves upstream tags the pipeline does not model. Consumers
	// only read known field names, so this never crosses the HTTP boundary.
	Extra map[string]string `json:"-"`
}

// Identity returns the dedup key: the upstream content id when present,
// otherwise a composite of title and raw coordinates. Two records with the
// same identity are the same place.
func (p *PlaceRecord) Identity() string {
	if p.ContentID != "" {
		return p.ContentID
	}
	return fmt.Sprintf("%s|%s|%s", p.Title, p.MapX, p.MapY)
}

// Coordinates parses the string-encoded location. ok is false for missing
// or malformed values; callers treat that as an absent location.
func (p *PlaceRecord) Coordinates() (lat, lon float64, ok bool) {
	lat, errY := strconv.ParseFloat(p.MapY, 64)
	lon, errX := strconv.ParseFloat(p.MapX, 64)
	if errX != nil || errY != nil || (lat == 0 && lon == 0) {
		return 0, 0, false
	}
	return lat, lon, true
}
