// Package results serializes aggregated batch output: one analysis record
// per input file, plus per-file artifacts (function listings, rewritten
// sources) in the shape downstream tooling expects.
package results

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"licenseflow/internal/license"
	"licenseflow/internal/sigscan"
	"licenseflow/internal/solve"
)

// Record is the serialized form of one TaskResult.
type Record struct {
	FilePath        string              `json:"file_path"`
	LicenseKind     license.Kind        `json:"license_kind"`
	LicenseName     string              `json:"license_name,omitempty"`
	CopyrightHolder string              `json:"copyright_holder,omitempty"`
	Action          solve.Action        `json:"action_taken"`
	FunctionCount   *int                `json:"function_count,omitempty"`
	Functions       []sigscan.Signature `json:"functions,omitempty"`
	RewrittenText   string              `json:"rewritten_text,omitempty"`
	Error           string              `json:"error,omitempty"`
	ErrorKind       string              `json:"error_kind,omitempty"`
}

// ToRecord flattens a TaskResult for output.
func ToRecord(r solve.TaskResult) Record {
	rec := Record{
		FilePath:        r.Path,
		LicenseKind:     r.LicenseKind,
		LicenseName:     r.LicenseName,
		CopyrightHolder: r.CopyrightHolder,
		Action:          r.Action,
		Functions:       r.Functions,
		RewrittenText:   r.RewrittenText,
	}
	if r.Action == solve.ActionListFunctions {
		n := len(r.Functions)
		rec.FunctionCount = &n
	}
	if r.Err != nil {
		rec.Error = r.Err.Error()
		rec.ErrorKind = string(r.Err.Kind)
	}
	return rec
}

// Writer persists a run under OutDir. Written paths are returned so the
// caller can upload or log them.
type Writer struct {
	OutDir string
}

func NewWriter(outDir string) *Writer {
	return &Writer{OutDir: outDir}
}

// Write stores the aggregated analysis.json plus per-file artifacts:
// <stem>_functions.json for listed functions and <stem>.rs for successful
// rewrites. Artifacts mirror the input directory layout under OutDir so
// distinct inputs never share an artifact path. Results arrive and are
// written in discovery order.
func (w *Writer) Write(results []solve.TaskResult) ([]string, error) {
	if err := os.MkdirAll(w.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("results: create output dir: %w", err)
	}

	var written []string
	records := make([]Record, 0, len(results))
	for _, r := range results {
		records = append(records, ToRecord(r))

		if r.Action == solve.ActionListFunctions && len(r.Functions) > 0 {
			stem, err := w.artifactStem(r.Path)
			if err != nil {
				return written, err
			}
			p := stem + "_functions.json"
			if err := writeJSON(p, map[string]any{
				"file_path": r.Path,
				"functions": r.Functions,
			}); err != nil {
				return written, err
			}
			written = append(written, p)
		}
		if r.Action == solve.ActionRewrite && r.RewrittenText != "" {
			stem, err := w.artifactStem(r.Path)
			if err != nil {
				return written, err
			}
			p := stem + ".rs"
			if err := os.WriteFile(p, []byte(r.RewrittenText), 0o644); err != nil {
				return written, fmt.Errorf("results: write %s: %w", p, err)
			}
			written = append(written, p)
		}
	}

	p := filepath.Join(w.OutDir, "analysis.json")
	if err := writeJSON(p, records); err != nil {
		return written, err
	}
	written = append(written, p)
	return written, nil
}

func writeJSON(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("results: marshal %s: %w", path, err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("results: write %s: %w", path, err)
	}
	return nil
}

// artifactStem maps an input-relative path to its extensionless artifact
// path under OutDir, creating parent directories as needed:
// "pkg/util.py" -> "<out>/pkg/util".
func (w *Writer) artifactStem(rel string) (string, error) {
	base := strings.TrimSuffix(filepath.FromSlash(rel), filepath.Ext(rel))
	p := filepath.Join(w.OutDir, base)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return "", fmt.Errorf("results: create artifact dir for %s: %w", rel, err)
	}
	return p, nil
}
