package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/clinical-dashboard/internal/model"
)

const testConfig = `
log:
  level: error
dataset:
  seed: 7
  count: 50
  start: "2023-01-01"
  end: "2023-12-31"
`

func configDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(testConfig), 0o600))
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestGenerate_CSV(t *testing.T) {
	out, err := run(t, "generate", "--config", configDir(t), "--format", "csv")
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewBufferString(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 51)
	assert.Equal(t, "patient_id", rows[0][0])
	assert.Equal(t, "P0000", rows[1][0])
	assert.Equal(t, "P0049", rows[50][0])
}

func TestGenerate_JSONDeterministic(t *testing.T) {
	dir := configDir(t)

	first, err := run(t, "generate", "--config", dir, "--format", "json", "--count", "10")
	require.NoError(t, err)
	second, err := run(t, "generate", "--config", dir, "--format", "json", "--count", "10")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	var records []model.AdmissionRecord
	require.NoError(t, json.Unmarshal([]byte(first), &records))
	assert.Len(t, records, 10)
}

func TestGenerate_ToFile(t *testing.T) {
	dir := configDir(t)
	path := filepath.Join(t.TempDir(), "admissions.csv")

	_, err := run(t, "generate", "--config", dir, "-o", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "P0049")
}

func TestGenerate_Errors(t *testing.T) {
	dir := configDir(t)

	_, err := run(t, "generate", "--config", dir, "--format", "xml")
	assert.ErrorContains(t, err, "unsupported format")

	_, err = run(t, "generate", "--config", dir, "--count", "0")
	assert.Error(t, err)
}

func TestSummary(t *testing.T) {
	dir := configDir(t)

	out, err := run(t, "summary", "--config", dir)
	require.NoError(t, err)
	var all model.Metrics
	require.NoError(t, json.Unmarshal([]byte(out), &all))
	assert.Equal(t, 50, all.TotalDeliveries)

	out, err = run(t, "summary", "--config", dir, "--service", "Emergency,Surgery", "--from", "2023-06-01")
	require.NoError(t, err)
	var some model.Metrics
	require.NoError(t, json.Unmarshal([]byte(out), &some))
	assert.Less(t, some.TotalDeliveries, all.TotalDeliveries)

	out, err = run(t, "summary", "--config", dir, "--service=")
	require.NoError(t, err)
	var none model.Metrics
	require.NoError(t, json.Unmarshal([]byte(out), &none))
	assert.Equal(t, model.Metrics{}, none)
}

func TestSummary_InvalidFilter(t *testing.T) {
	_, err := run(t, "summary", "--config", configDir(t), "--physician", "Dr. Who")
	assert.ErrorContains(t, err, "unknown physician")
}

func TestEventsTail_UnreachableBroker(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig + `
events:
  redis_url: redis://127.0.0.1:1/0
  channel: dashboard-events
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(cfg), 0o600))

	_, err := run(t, "events", "tail", "--config", dir)
	assert.ErrorContains(t, err, "failed to connect to Redis")
}
