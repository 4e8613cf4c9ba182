// Package manifest loads the package manifest build consumes: the JSON
// record naming the package, its main source file, and packaging metadata
// to carry into the compiled image.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
)

// Manifest is the `build` input record, ordinarily read from
// ./manifest.json.
type Manifest struct {
	Package     string  `json:"package"`
	Version     *string `json:"version,omitempty"`
	Author      *string `json:"author,omitempty"`
	MainFile    string  `json:"main_file"`
	Description *string `json:"description,omitempty"`
	License     string  `json:"license"`
}

// Load reads and decodes the manifest at path.
func Load(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("manifest: reading %s: %w", path, err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("manifest: parsing %s: %w", path, err)
	}
	if m.Package == "" {
		return Manifest{}, fmt.Errorf("manifest: %s: missing required field `package`", path)
	}
	if m.MainFile == "" {
		return Manifest{}, fmt.Errorf("manifest: %s: missing required field `main_file`", path)
	}
	return m, nil
}
