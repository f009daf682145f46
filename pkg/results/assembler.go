package results

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/menta2k/photo-screener/pkg/types"
)

// Meta is the run context the assembler merges into the final result. Every
// field here overwrites whatever the provider may have echoed back.
type Meta struct {
	Criterion string
	Prompt    string
	Model     string
	Provider  string
	InputDir  string
	Photos    []types.Photo
	Timestamp time.Time
}

// Assemble produces the persisted run result from a normalized decision and
// freshly computed run metadata. The photo manifest is always present, empty
// when no photos were found.
func Assemble(dec types.DecisionRecord, meta Meta) *types.RunResult {
	manifest := make([]types.PhotoSummary, 0, len(meta.Photos))
	for _, photo := range meta.Photos {
		manifest = append(manifest, types.PhotoSummary{
			Filename:  photo.Filename,
			SizeBytes: photo.SizeBytes,
		})
	}

	return &types.RunResult{
		DecisionRecord:  dec,
		Criterion:       meta.Criterion,
		Prompt:          meta.Prompt,
		Model:           meta.Model,
		APIProvider:     meta.Provider,
		PhotosProcessed: manifest,
		Timestamp:       meta.Timestamp.UTC().Format(time.RFC3339),
		InputPhotosDir:  meta.InputDir,
	}
}

// Save writes the run result as an indented JSON document. Callers treat a
// failure as recoverable: the in-memory result remains valid.
func Save(res *types.RunResult, path string) error {
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}
	return nil
}
