package api

import "time"

type RefineRequest struct {
	Prompt    string `json:"prompt"`
	VisitorID string `json:"visitorId"`
}

// StreamChunk is a single newline-delimited JSON frame of the /refine
// response. Exactly one of Content, Done, or Error is meaningful per frame.
type StreamChunk struct {
	Content      string `json:"content,omitempty"`
	Done         bool   `json:"done,omitempty"`
	SubmissionID string `json:"submissionId,omitempty"`
	Error        string `json:"error,omitempty"`
}

// RefineResponse is the non-streaming fallback response.
type RefineResponse struct {
	RefinedPrompt string `json:"refinedPrompt"`
	SubmissionID  string `json:"submissionId"`
}

type Submission struct {
	ID             string    `json:"id"`
	VisitorID      string    `json:"visitorId"`
	OriginalPrompt string    `json:"originalPrompt"`
	RefinedPrompt  string    `json:"refinedPrompt"`
	CreatedAt      time.Time `json:"createdAt"`
}

type HistoryResponse struct {
	Submissions []Submission `json:"submissions"`
}

type HistoryQuery struct {
	VisitorID string `schema:"visitorId"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
