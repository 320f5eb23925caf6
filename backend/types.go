package backend

// Wire types for the external search/summarization service. Field names
// mirror the backend's JSON exactly.

type SearchRequest struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results,omitempty"`
	Page       int    `json:"page,omitempty"`
	PerPage    int    `json:"per_page,omitempty"`
}

type SearchResult struct {
	Title        string `json:"title"`
	Link         string `json:"link"`
	Snippet      string `json:"snippet"`
	SourceNumber int    `json:"source_number"`
}

type AIOverview struct {
	Summary         string   `json:"summary"`
	KeyPoints       []string `json:"key_points"`
	ConfidenceScore float64  `json:"confidence_score"`
}

type SearchResponse struct {
	Query          string         `json:"query"`
	SearchResults  []SearchResult `json:"search_results"`
	AIOverview     AIOverview     `json:"ai_overview"`
	Sources        []SearchResult `json:"sources"`
	TotalResults   int            `json:"total_results"`
	ProcessingTime float64        `json:"processing_time"`
	CurrentPage    int            `json:"current_page"`
	PerPage        int            `json:"per_page"`
	TotalAvailable int            `json:"total_available"`
	HasNextPage    bool           `json:"has_next_page"`
}

type SummarizeRequest struct {
	SourceURL     string `json:"source_url"`
	OriginalQuery string `json:"original_query"`
}

type Statistic struct {
	Value          string  `json:"value"`
	Unit           string  `json:"unit,omitempty"`
	Context        string  `json:"context"`
	SourceCitation string  `json:"source_citation"`
	Confidence     float64 `json:"confidence"`
}

type SourceSummary struct {
	Summary          string      `json:"summary"`
	KeyPoints        []string    `json:"key_points"`
	Statistics       []Statistic `json:"statistics"`
	RelevanceToQuery string      `json:"relevance_to_query"`
	ContentType      string      `json:"content_type"`
	ConfidenceScore  float64     `json:"confidence_score"`
}

type HealthStatus struct {
	Status       string         `json:"status"`
	Message      string         `json:"message"`
	SystemHealth map[string]any `json:"system_health"`
}
