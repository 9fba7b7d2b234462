package request

// AggregateRequest is the inbound JSON body for the aggregation endpoint.
// Paging fields travel as strings because the upstream API takes them as
// query-string values unchanged.
type AggregateRequest struct {
	Region          string `json:"region"`
	RowsPerPage     string `json:"rowsPerPage"`
	PageNo          string `json:"pageNo"`
	Keyword         string `json:"keyword"`
	Mode            string `json:"mode"` // "general" or "pet"
	LoadAllKeywords bool   `json:"loadAllKeywords"`
}
