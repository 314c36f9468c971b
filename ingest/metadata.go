package ingest

import (
	"encoding/json"
	"os"
	"path/filepath"
)

const metadataFile = "index.json"

// metadata is the record stored alongside the article files.
type metadata struct {
	Count int    `json:"count"`
	Lang  string `json:"lang"`
}

// writeMetadata rewrites the metadata record kept beside the articles
// directory. The record is only updated when it already exists; a build
// of a bare tree does not introduce one.
func (b *Builder) writeMetadata(articlesDir string, count int) error {
	path := filepath.Join(filepath.Dir(articlesDir), metadataFile)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	data, err := json.MarshalIndent(metadata{Count: count, Lang: b.lang}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
