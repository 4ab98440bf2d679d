package stat

// VisitorCount is the key of the singleton site visit counter.
const VisitorCount = "visitor_count"

type VisitorCountResponse struct {
	VisitorCount int64 `json:"visitor_count"`
}
