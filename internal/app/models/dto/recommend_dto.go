package dto

// RecommendRequest asks for a ranked list of action ids for a free-text query
type RecommendRequest struct {
	Query         string   `json:"query"`
	InterestedIDs []string `json:"interestedIds"`
}

// RecommendResponse carries the ranked ids. Source tells the client whether
// the ranking came from the external model or a fallback; failures never
// surface as errors here.
type RecommendResponse struct {
	IDs    []string `json:"ids"`
	Source string   `json:"source,omitempty"`
}
