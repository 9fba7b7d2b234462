package entity

// CuratedPlace is a bundled supplemental dataset entry, keyed by exact
// title. It carries classification fields the upstream API does not have.
// The dataset is loaded once at startup and never mutated.
type CuratedPlace struct {
	Title         string `json:"title"`
	Addr          string `json:"addr,omitempty"`
	LocationGubun string `json:"locationGubun,omitempty"`
	WithGubun     string `json:"withGubun,omitempty"`
	HolidayOpen   bool   `json:"holidayOpen"`
}

// Record converts a curated entry into a standalone PlaceRecord, used when
// the upstream API failed to return a known-good place.
func (c *CuratedPlace) Record() PlaceRecord {
	holiday := c.HolidayOpen
	return PlaceRecord{
		Title:         c.Title,
		Addr1:         c.Addr,
		Source:        SourceCurated,
		LocationGubun: c.LocationGubun,
		WithGubun:     c.WithGubun,
		HolidayOpen:   &holiday,
	}
}
