package rag

import (
	"context"
	"strings"

	"mediq/internal/observability"
	"mediq/internal/types"
)

// maxVectorMatches caps the ranked output.
const maxVectorMatches = 3

// VectorRetriever searches the staff vector store. A failed call never
// propagates: it degrades to Success=false with zero matches, so retrieval
// failures cannot abort the overall query.
type VectorRetriever struct {
	store  *Store
	logger *observability.Logger
}

// NewVectorRetriever builds a retriever over an indexed store.
func NewVectorRetriever(store *Store, logger *observability.Logger) *VectorRetriever {
	return &VectorRetriever{
		store:  store,
		logger: observability.OrNop(logger).WithComponent("vector-retriever"),
	}
}

// Search ranks staff profiles by cosine similarity, top 3 descending.
func (r *VectorRetriever) Search(ctx context.Context, query string) types.RetrievalResult {
	failed := types.RetrievalResult{Success: false, Method: types.MethodVector}

	if r.store == nil {
		return failed
	}

	results, err := r.store.Query(ctx, query, maxVectorMatches)
	if err != nil {
		r.logger.Warn("vector retrieval degraded", "error", err)
		return failed
	}

	matches := make([]types.RetrievalMatch, 0, len(results))
	for _, res := range results {
		matches = append(matches, types.RetrievalMatch{
			Record:    recordFromMetadata(res.Document.Metadata),
			Relevance: float64(res.Similarity),
			Method:    types.MethodVector,
		})
	}

	return types.RetrievalResult{
		Success: true,
		Matches: matches,
		Count:   len(matches),
		Method:  types.MethodVector,
	}
}

func recordFromMetadata(meta map[string]string) types.StaffRecord {
	return types.StaffRecord{
		Name:       meta[metaName],
		Department: meta[metaDepartment],
		Specialty:  splitList(meta[metaSpecialty]),
		Title:      splitList(meta[metaTitle]),
	}
}

func splitList(joined string) []string {
	if joined == "" {
		return nil
	}
	return strings.Split(joined, listSeparator)
}
