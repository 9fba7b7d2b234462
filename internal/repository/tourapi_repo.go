package repository

import (
	"context"
	"errors"

	"github.com/user/petplaces-service/internal/entity"
)

// Upstream failure taxonomy. Callers distinguish these with errors.Is; none
// of them is fatal to a batch.
var (
	// ErrTransport covers DNS, connect and timeout failures, after the
	// one-shot protocol-downgrade retry has also failed.
	ErrTransport = errors.New("tour api: transport failure")
	// ErrUpstreamService marks an HTTP 200 response carrying an embedded
	// service-error payload.
	ErrUpstreamService = errors.New("tour api: upstream service error")
	// ErrParse marks an irrecoverably malformed XML body.
	ErrParse = errors.New("tour api: response parse failure")
)

// Endpoint families exposed by the upstream tourism API.
const (
	FamilyGeneral = "general"
	FamilyPet     = "pet"
)

// TourAPIQuery describes one logical upstream query.
type TourAPIQuery struct {
	// Family selects the general or pet endpoint family.
	Family string
	// Region is the upstream area code the query is scoped to.
	Region string
	// Keyword, when non-empty, selects the keyword-search endpoint;
	// otherwise the paged area-based listing is used.
	Keyword string
	PageNo  string
	Rows    string
}

// TourAPIRepository performs a single logical query against the upstream
// tourism API. Implementations hold no state beyond the network call.
type TourAPIRepository interface {
	// AreaList fetches the paged area-based listing.
	AreaList(ctx context.Context, q TourAPIQuery) ([]entity.PlaceRecord, error)
	// KeywordSearch fetches the area-scoped free-text search.
	KeywordSearch(ctx context.Context, q TourAPIQuery) ([]entity.PlaceRecord, error)
}
