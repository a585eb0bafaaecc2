package microbench

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// ReportDir is the directory, next to the calling file, holding reports.
const ReportDir = "bench"

// Report locates the persisted copy of a results table.
type Report struct {
	// Dir is created on demand.
	Dir string
	// Name is the report file name without the .txt extension.
	Name string
	// Title names the source of the results in the table heading.
	Title string
}

// ReportFor keys a report by file: <dir>/bench/<base without ext>.txt.
func ReportFor(file string) Report {
	base := filepath.Base(file)
	return Report{
		Dir:   filepath.Join(filepath.Dir(file), ReportDir),
		Name:  strings.TrimSuffix(base, filepath.Ext(base)),
		Title: base,
	}
}

// Path returns the report file path.
func (r Report) Path() string {
	return filepath.Join(r.Dir, r.Name+".txt")
}

// Write prints the table to console, optionally colored, then persists an
// uncolored copy to Path, replacing any previous report.
func (r Report) Write(console io.Writer, results []Result, colored bool) error {
	if console != nil {
		if _, err := fmt.Fprintln(console, Format(results, r.Title, colored)); err != nil {
			return errors.Wrap(err, "failed to print report")
		}
	}
	if err := ensureDir(r.Dir); err != nil {
		return err
	}
	if err := os.WriteFile(r.Path(), []byte(Format(results, r.Title, false)), 0o644); err != nil {
		return errors.Wrapf(err, "failed to write report %s", r.Path())
	}
	return nil
}

// ensureDir creates dir and its parents. An existing directory is not an
// error.
func ensureDir(dir string) error {
	err := os.MkdirAll(dir, 0o755)
	if err == nil || errors.Is(err, os.ErrExist) {
		return nil
	}
	return errors.Wrapf(err, "failed to create report directory %s", dir)
}

// WriteJSON encodes results as indented JSON.
func WriteJSON(w io.Writer, results []Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(results), "failed to encode results")
}
