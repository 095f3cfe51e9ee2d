// Package directory holds the static staff reference data and the weighted
// keyword retriever that scores it against query text.
package directory

import (
	"encoding/json"
	"os"

	"mediq/internal/observability"
	"mediq/internal/types"
)

// Directory is the read-only staff directory, loaded once at process start.
// Safe for concurrent reads.
type Directory struct {
	records []types.StaffRecord
}

// Load reads the staff directory from a JSON file. Absence or a parse
// failure degrades to an empty directory rather than aborting startup.
func Load(path string, logger *observability.Logger) *Directory {
	logger = observability.OrNop(logger).WithComponent("directory")

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("staff directory unavailable, using empty directory", "path", path, "error", err)
		return &Directory{}
	}

	var records []types.StaffRecord
	if err := json.Unmarshal(data, &records); err != nil {
		logger.Warn("staff directory unreadable, using empty directory", "path", path, "error", err)
		return &Directory{}
	}

	logger.Info("staff directory loaded", "path", path, "records", len(records))
	return &Directory{records: records}
}

// NewDirectory wraps an in-memory record set. Used by tests and the indexer.
func NewDirectory(records []types.StaffRecord) *Directory {
	return &Directory{records: records}
}

// Records returns the directory contents. Callers must not mutate them.
func (d *Directory) Records() []types.StaffRecord {
	return d.records
}

// Len returns the number of staff records.
func (d *Directory) Len() int {
	return len(d.records)
}
