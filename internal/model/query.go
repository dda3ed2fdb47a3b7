package model

// PredictRequest represents a free-text query, optionally with a city already known to the caller
type PredictRequest struct {
	Text string  `json:"text" binding:"required"`
	City *string `json:"city,omitempty"`
}

// Response sources
const (
	SourceProvider = "provider"
	SourceCache    = "cache"
	SourceFallback = "fallback"
)

// PredictResponse represents the assembled answer to a query
type PredictResponse struct {
	QueryID         string      `json:"query_id"`
	Intent          string      `json:"intent"`           // Effective intent after the confidence policy
	PredictedIntent string      `json:"predicted_intent"` // Raw classifier label
	Confidence      float64     `json:"confidence"`
	Confident       bool        `json:"confident"`
	Entities        EntitySet   `json:"entities"`
	Suggestions     Suggestions `json:"suggestions"`
	LLMResponse     *string     `json:"llm_response"`
	LLMAvailable    bool        `json:"llm_available"`
	ResponseSource  string      `json:"response_source"`
	Took            int64       `json:"took_ms"`
}

// SuggestRequest represents a structured suggestion lookup
type SuggestRequest struct {
	Intent string  `json:"intent" binding:"required"`
	City   *string `json:"city,omitempty"`
}

// PlanRequest represents a structured trip plan request
type PlanRequest struct {
	City    *string `json:"city,omitempty"`
	Days    int     `json:"days" binding:"omitempty,min=1,max=14"`
	Profile *string `json:"profile,omitempty"` // solo, family, business, couple, backpacker
	Pax     int     `json:"pax" binding:"omitempty,min=1,max=12"`
	Budget  string  `json:"budget,omitempty"` // budget, mid, luxury
}

// Plan represents an assembled day-by-day trip plan
type Plan struct {
	Title   string    `json:"title"`
	Summary string    `json:"summary"`
	City    string    `json:"city"`
	Days    int       `json:"days"`
	Profile *string   `json:"profile"`
	Pax     int       `json:"pax"`
	Budget  string    `json:"budget"`
	Detail  []PlanDay `json:"days_detail"`
	Tips    []string  `json:"tips,omitempty"`
	Cost    string    `json:"average_cost_per_day,omitempty"`
}

// PlanDay represents one day of a plan
type PlanDay struct {
	Day        int      `json:"day"`
	Activities []string `json:"activities"`
	Food       []string `json:"food"`
}

// FeedbackRequest represents a user correction of a predicted intent
type FeedbackRequest struct {
	QueryID string `json:"query_id" binding:"required"`
	Intent  string `json:"intent" binding:"required"`
}

// FeedbackResponse represents feedback response
type FeedbackResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// ReloadResponse reports the content snapshot now being served
type ReloadResponse struct {
	Cities       int `json:"cities"`
	Destinations int `json:"destinations"`
}
