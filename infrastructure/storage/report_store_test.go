package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"portal_automation/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReportStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "screenshots")

	_, err := NewReportStore(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestReportStore_SaveScreenshot(t *testing.T) {
	dir := t.TempDir()
	store, err := NewReportStore(dir)
	require.NoError(t, err)

	path, err := store.SaveScreenshot(entities.CheckpointLoginPage, []byte("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "01_login_page.png"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)
}

func TestReportStore_SaveReport(t *testing.T) {
	dir := t.TempDir()
	store, err := NewReportStore(dir)
	require.NoError(t, err)

	report := &entities.RunReport{
		PortalURL: "https://portal.test",
		Status:    entities.RunStatusCompleted,
		Steps: []entities.StepResult{
			{Name: "open_login_page", Status: entities.StepStatusOK, StartedAt: time.Now(), Duration: "1s"},
		},
		StartedAt:  time.Now(),
		FinishedAt: time.Now(),
	}

	require.NoError(t, store.SaveReport(report))

	data, err := os.ReadFile(filepath.Join(dir, "report.json"))
	require.NoError(t, err)

	var decoded entities.RunReport
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, entities.RunStatusCompleted, decoded.Status)
	require.Len(t, decoded.Steps, 1)
	assert.Equal(t, "open_login_page", decoded.Steps[0].Name)
}
