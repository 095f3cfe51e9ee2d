package directory

import (
	"sort"
	"strings"

	"mediq/internal/types"
)

// Per-field match weights. A field category contributes its weight at most
// once per record, no matter how many of its values appear in the query.
const (
	weightName          = 10
	weightDepartment    = 8
	weightSpecialty     = 6
	weightTitle         = 4
	weightExperience    = 3
	weightEducation     = 2
	weightCertification = 2
)

// maxKeywordMatches caps the ranked output.
const maxKeywordMatches = 3

// scoreNormalizer maps raw scores onto [0,1]: min(score/20, 1).
const scoreNormalizer = 20.0

// KeywordRetriever scores the staff directory with weighted field matching.
// It never fails: an empty directory simply yields an empty result.
type KeywordRetriever struct {
	dir *Directory
}

// NewKeywordRetriever builds a retriever over the given directory.
func NewKeywordRetriever(dir *Directory) *KeywordRetriever {
	return &KeywordRetriever{dir: dir}
}

// Search ranks the directory against the query. Deterministic: repeated
// calls with the same directory and query return an identical list.
func (r *KeywordRetriever) Search(query string) types.RetrievalResult {
	lowerQuery := strings.ToLower(query)

	type scored struct {
		match types.RetrievalMatch
		score int
		index int // directory position, stabilizes equal scores
	}

	var hits []scored
	for i, rec := range r.dir.Records() {
		score, fields := scoreRecord(lowerQuery, rec)
		if score == 0 {
			continue
		}
		relevance := float64(score) / scoreNormalizer
		if relevance > 1 {
			relevance = 1
		}
		hits = append(hits, scored{
			match: types.RetrievalMatch{
				Record:        rec,
				Relevance:     relevance,
				Method:        types.MethodKeyword,
				MatchedFields: fields,
			},
			score: score,
			index: i,
		})
	}

	sort.SliceStable(hits, func(a, b int) bool {
		if hits[a].score != hits[b].score {
			return hits[a].score > hits[b].score
		}
		return hits[a].index < hits[b].index
	})

	if len(hits) > maxKeywordMatches {
		hits = hits[:maxKeywordMatches]
	}

	matches := make([]types.RetrievalMatch, len(hits))
	for i, h := range hits {
		matches[i] = h.match
	}

	return types.RetrievalResult{
		Success: true,
		Matches: matches,
		Count:   len(matches),
		Method:  types.MethodKeyword,
	}
}

func scoreRecord(lowerQuery string, rec types.StaffRecord) (int, []string) {
	score := 0
	var fields []string

	if rec.Name != "" && strings.Contains(lowerQuery, strings.ToLower(rec.Name)) {
		score += weightName
		fields = append(fields, "name")
	}
	if rec.Department != "" && strings.Contains(lowerQuery, strings.ToLower(rec.Department)) {
		score += weightDepartment
		fields = append(fields, "department")
	}
	if anyContained(lowerQuery, rec.Specialty) {
		score += weightSpecialty
		fields = append(fields, "specialty")
	}
	if anyContained(lowerQuery, rec.Title) {
		score += weightTitle
		fields = append(fields, "title")
	}
	if anyContained(lowerQuery, rec.Experience) {
		score += weightExperience
		fields = append(fields, "experience")
	}
	if anyContained(lowerQuery, rec.Education) {
		score += weightEducation
		fields = append(fields, "education")
	}
	if anyContained(lowerQuery, rec.Certifications) {
		score += weightCertification
		fields = append(fields, "certifications")
	}

	return score, fields
}

func anyContained(lowerQuery string, values []string) bool {
	for _, v := range values {
		if v != "" && strings.Contains(lowerQuery, strings.ToLower(v)) {
			return true
		}
	}
	return false
}
