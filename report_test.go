package microbench

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportFor(t *testing.T) {
	r := ReportFor(filepath.Join("src", "pkg", "sort_test.go"))

	assert.Equal(t, filepath.Join("src", "pkg", "bench"), r.Dir)
	assert.Equal(t, "sort_test", r.Name)
	assert.Equal(t, "sort_test.go", r.Title)
	assert.Equal(t, filepath.Join("src", "pkg", "bench", "sort_test.txt"), r.Path())
}

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "bench")

	require.NoError(t, ensureDir(dir))
	require.NoError(t, ensureDir(dir))

	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	assert.Error(t, ensureDir(blocker))
}

func TestReportWriteOverwrites(t *testing.T) {
	r := ReportFor(filepath.Join(t.TempDir(), "main.go"))

	require.NoError(t, r.Write(nil, []Result{Summarize("first", []float64{1})}, false))
	require.NoError(t, r.Write(nil, []Result{Summarize("second", []float64{2})}, false))

	data, err := os.ReadFile(r.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "second")
	assert.NotContains(t, string(data), "first")
}

func TestReportFileIsUncolored(t *testing.T) {
	r := ReportFor(filepath.Join(t.TempDir(), "main.go"))
	result := Summarize("valid", []float64{1})
	result.Validity, result.Valid = true, true

	var console bytes.Buffer
	require.NoError(t, r.Write(&console, []Result{result}, true))

	data, err := os.ReadFile(r.Path())
	require.NoError(t, err)
	assert.Contains(t, console.String(), "\x1b[")
	assert.NotContains(t, string(data), "\x1b[")
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, []Result{Summarize("json", []float64{1, 3})}))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "json", decoded[0]["name"])
	assert.Equal(t, 2.0, decoded[0]["avg"])
}
