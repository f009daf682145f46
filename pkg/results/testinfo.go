package results

import (
	"encoding/json"
	"fmt"
	"os"
)

// TestInfo summarizes a test-session replay next to its analysis result.
type TestInfo struct {
	TestTimestamp     string `json:"test_timestamp"`
	OriginalSessionID string `json:"original_session_id"`
	PhotosAnalyzed    int    `json:"photos_analyzed"`
	Decision          string `json:"decision"`
	CriterionUsed     string `json:"criterion_used"`
	ModelUsed         string `json:"model_used"`
	APIProvider       string `json:"api_provider"`
	TestMode          bool   `json:"test_mode"`
	Notes             string `json:"notes"`
}

// SaveTestInfo writes the test summary as an indented JSON document.
func SaveTestInfo(info *TestInfo, path string) error {
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal test info: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write test info: %w", err)
	}
	return nil
}
