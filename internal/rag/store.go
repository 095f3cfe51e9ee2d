package rag

import (
	"context"
	"fmt"

	chromem "github.com/philippgille/chromem-go"
)

// Metadata keys for staff-profile documents.
const (
	metaName       = "name"
	metaDepartment = "department"
	metaSpecialty  = "specialty"
	metaTitle      = "title"
)

// Document is a staff profile prepared for indexing.
type Document struct {
	ID       string
	Content  string
	Metadata map[string]string
}

// SearchResult is one similarity hit. Similarity is cosine similarity in
// [0,1] with 1.0 = most relevant, so it is used directly as relevance.
type SearchResult struct {
	Document   Document
	Similarity float32
}

// Store is the in-memory vector store over the staff directory. The
// directory is static, so nothing is persisted.
type Store struct {
	collection *chromem.Collection
}

// NewStore creates an empty store whose collection embeds via embedder.
func NewStore(collection string, embedder Embedder) (*Store, error) {
	if collection == "" {
		collection = "staff"
	}

	db := chromem.NewDB()
	embeddingFunc := func(ctx context.Context, text string) ([]float32, error) {
		return embedder.Embed(ctx, text)
	}

	col, err := db.GetOrCreateCollection(collection, nil, embeddingFunc)
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}

	return &Store{collection: col}, nil
}

// Add indexes documents.
func (s *Store) Add(ctx context.Context, docs []Document) error {
	for _, doc := range docs {
		err := s.collection.AddDocument(ctx, chromem.Document{
			ID:       doc.ID,
			Content:  doc.Content,
			Metadata: doc.Metadata,
		})
		if err != nil {
			return fmt.Errorf("add document %s: %w", doc.ID, err)
		}
	}
	return nil
}

// Query runs a similarity search for the query text. chromem generates the
// query embedding internally through the collection's embedding function.
func (s *Store) Query(ctx context.Context, queryText string, topK int) ([]SearchResult, error) {
	if topK <= 0 {
		topK = 3
	}
	// chromem rejects nResults above the collection size.
	if count := s.collection.Count(); topK > count {
		topK = count
	}
	if topK == 0 {
		return nil, fmt.Errorf("empty collection")
	}

	results, err := s.collection.Query(ctx, queryText, topK, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("query collection: %w", err)
	}

	searchResults := make([]SearchResult, 0, len(results))
	for _, r := range results {
		searchResults = append(searchResults, SearchResult{
			Document: Document{
				ID:       r.ID,
				Content:  r.Content,
				Metadata: r.Metadata,
			},
			Similarity: r.Similarity,
		})
	}
	return searchResults, nil
}

// Count returns the number of indexed documents.
func (s *Store) Count() int {
	return s.collection.Count()
}
