// Package types holds the domain records shared across the retrieval
// pipeline: staff profiles, retrieval results, live queue status, and the
// merged evidence consumed by the response synthesizer.
package types

// RetrievalMethod identifies which strategy produced a retrieval result.
type RetrievalMethod string

const (
	MethodKeyword RetrievalMethod = "keyword"
	MethodVector  RetrievalMethod = "vector"
)

// LiveStatusSource marks whether a live-status record was scraped or is a
// degraded placeholder.
type LiveStatusSource string

const (
	SourceLive        LiveStatusSource = "live"
	SourcePlaceholder LiveStatusSource = "placeholder"
)

// StaffRecord is one entry of the static staff directory. Loaded once at
// startup and never mutated afterwards.
type StaffRecord struct {
	Name           string   `json:"name"`
	Department     string   `json:"department"`
	Specialty      []string `json:"specialty"`
	Title          []string `json:"title"`
	Experience     []string `json:"experience"`
	Education      []string `json:"education"`
	Certifications []string `json:"certifications"`
}

// RetrievalMatch is a staff record scored against one query.
type RetrievalMatch struct {
	Record        StaffRecord     `json:"record"`
	Relevance     float64         `json:"relevance"` // normalized, 1.0 = most relevant
	Method        RetrievalMethod `json:"method"`
	MatchedFields []string        `json:"matched_fields,omitempty"`
}

// RetrievalResult is the outcome of one retrieval strategy for one query.
// Matches are rank-ordered, highest relevance first.
type RetrievalResult struct {
	Success bool             `json:"success"`
	Matches []RetrievalMatch `json:"results"`
	Count   int              `json:"count"`
	Method  RetrievalMethod  `json:"method"`
}

// WebSnippet is one web-search hit.
type WebSnippet struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// LiveStatusRecord reports the currently served queue number for one
// department/staff row, or a placeholder when extraction failed.
//
// Invariant: Success=false implies CurrentNumber carries the unavailable
// sentinel, never an empty string.
type LiveStatusRecord struct {
	Hospital      string           `json:"hospital"`
	Department    string           `json:"department"`
	StaffName     string           `json:"staff_name"`
	CurrentNumber string           `json:"current_number"`
	Timestamp     string           `json:"timestamp"`
	Success       bool             `json:"success"`
	Source        LiveStatusSource `json:"source"`
	Message       string           `json:"message,omitempty"`
}

// MergedEvidence is the union of whatever the orchestrator gathered: at most
// one winning staff result, an optional live-status record, and up to three
// web snippets. Consumed once by the synthesizer.
type MergedEvidence struct {
	Staff *RetrievalResult  `json:"staff,omitempty"`
	Live  *LiveStatusRecord `json:"live,omitempty"`
	Web   []WebSnippet      `json:"web,omitempty"`
}

// Answer is the final response returned to the caller. Timestamp is
// RFC 3339, like LiveStatusRecord.Timestamp.
type Answer struct {
	Text      string         `json:"response"`
	Evidence  MergedEvidence `json:"evidence"`
	Timestamp string         `json:"timestamp"`
}
