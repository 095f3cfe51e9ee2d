package rag

import (
	"context"
	"fmt"
	"strings"

	"mediq/internal/directory"
	"mediq/internal/types"
)

const listSeparator = "、"

// IndexDirectory embeds every staff record into the store. Called once at
// startup, before the store serves queries.
func IndexDirectory(ctx context.Context, store *Store, dir *directory.Directory) error {
	records := dir.Records()
	docs := make([]Document, 0, len(records))
	for i, rec := range records {
		docs = append(docs, Document{
			ID:      fmt.Sprintf("staff-%d", i),
			Content: profileText(rec),
			Metadata: map[string]string{
				metaName:       rec.Name,
				metaDepartment: rec.Department,
				metaSpecialty:  strings.Join(rec.Specialty, listSeparator),
				metaTitle:      strings.Join(rec.Title, listSeparator),
			},
		})
	}
	return store.Add(ctx, docs)
}

// profileText flattens a staff record into one embeddable profile line.
func profileText(rec types.StaffRecord) string {
	parts := []string{rec.Name, rec.Department}
	parts = append(parts, rec.Specialty...)
	parts = append(parts, rec.Title...)
	parts = append(parts, rec.Experience...)
	return strings.Join(nonEmpty(parts), "，")
}

func nonEmpty(values []string) []string {
	out := values[:0]
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
