package exporter

import (
	"encoding/json"
	"os"
	"path/filepath"

	"tidymark/internal/model"
)

// WriteJSON writes the export snapshot to path as indented JSON, creating
// the directory if needed.
func WriteJSON(export *model.Export, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
