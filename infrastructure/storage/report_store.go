package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"portal_automation/domain/entities"
	"portal_automation/domain/interfaces"
)

const reportFile = "report.json"

type reportStore struct {
	dir string
}

// NewReportStore - creates a store writing screenshots and the run
// report into the given directory, creating it if needed
func NewReportStore(dir string) (interfaces.ReportStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create screenshot directory: %w", err)
	}

	return &reportStore{dir: dir}, nil
}

// SaveScreenshot - writes checkpoint image data to a numbered PNG file
func (s *reportStore) SaveScreenshot(checkpoint entities.Checkpoint, data []byte) (string, error) {
	path := filepath.Join(s.dir, checkpoint.Filename())
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to save screenshot %s: %w", checkpoint, err)
	}
	return path, nil
}

// SaveReport - writes the run report as JSON
func (s *reportStore) SaveReport(report *entities.RunReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.dir, reportFile), data, 0644)
}
