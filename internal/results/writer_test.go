package results

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"licenseflow/internal/license"
	"licenseflow/internal/sigscan"
	"licenseflow/internal/solve"
)

func sampleResults() []solve.TaskResult {
	return []solve.TaskResult{
		{
			Path:            "pkg/util.py",
			LicenseKind:     license.Permissive,
			LicenseName:     "MIT License",
			CopyrightHolder: "Jane Roe",
			Action:          solve.ActionListFunctions,
			Functions: []sigscan.Signature{
				{Name: "add", ArgCount: 2},
				{Name: "sub", ArgCount: 2},
			},
		},
		{
			Path:          "legacy.py",
			LicenseKind:   license.Copyleft,
			LicenseName:   "GNU GPL v3",
			Action:        solve.ActionRewrite,
			RewrittenText: "fn main() {}\n",
		},
		{
			Path:        "mystery.py",
			LicenseKind: license.Unknown,
			Action:      solve.ActionNone,
		},
	}
}

func TestWriteProducesAggregateAndArtifacts(t *testing.T) {
	out := t.TempDir()
	written, err := NewWriter(filepath.Join(out, "run")).Write(sampleResults())
	require.NoError(t, err)

	// functions listing + rewritten source + aggregate
	assert.Len(t, written, 3)

	b, err := os.ReadFile(filepath.Join(out, "run", "analysis.json"))
	require.NoError(t, err)
	var records []Record
	require.NoError(t, json.Unmarshal(b, &records))
	require.Len(t, records, 3)

	assert.Equal(t, "pkg/util.py", records[0].FilePath)
	require.NotNil(t, records[0].FunctionCount)
	assert.Equal(t, 2, *records[0].FunctionCount)
	assert.Equal(t, solve.ActionRewrite, records[1].Action)
	assert.Equal(t, solve.ActionNone, records[2].Action)

	rust, err := os.ReadFile(filepath.Join(out, "run", "legacy.rs"))
	require.NoError(t, err)
	assert.Equal(t, "fn main() {}\n", string(rust))

	fns, err := os.ReadFile(filepath.Join(out, "run", "pkg", "util_functions.json"))
	require.NoError(t, err)
	assert.Contains(t, string(fns), `"add"`)
}

func TestWriteKeepsArtifactsApartForSimilarPaths(t *testing.T) {
	// "pkg/util.py" and "pkg_util.py" must not clobber each other's listing.
	rs := []solve.TaskResult{
		{
			Path:        "pkg/util.py",
			LicenseKind: license.Permissive,
			Action:      solve.ActionListFunctions,
			Functions:   []sigscan.Signature{{Name: "nested", ArgCount: 1}},
		},
		{
			Path:        "pkg_util.py",
			LicenseKind: license.Permissive,
			Action:      solve.ActionListFunctions,
			Functions:   []sigscan.Signature{{Name: "flat", ArgCount: 2}},
		},
	}

	out := t.TempDir()
	written, err := NewWriter(out).Write(rs)
	require.NoError(t, err)
	assert.Len(t, written, 3)

	nested, err := os.ReadFile(filepath.Join(out, "pkg", "util_functions.json"))
	require.NoError(t, err)
	assert.Contains(t, string(nested), `"nested"`)

	flat, err := os.ReadFile(filepath.Join(out, "pkg_util_functions.json"))
	require.NoError(t, err)
	assert.Contains(t, string(flat), `"flat"`)
}

func TestToRecordCarriesErrorFields(t *testing.T) {
	r := solve.TaskResult{
		Path:        "bad.py",
		LicenseKind: license.Copyleft,
		Action:      solve.ActionRewrite,
		Err:         &solve.TaskError{Kind: solve.KindRewrite, Err: assert.AnError},
	}
	rec := ToRecord(r)
	assert.Equal(t, "rewrite", rec.ErrorKind)
	assert.NotEmpty(t, rec.Error)
	assert.Nil(t, rec.FunctionCount)
}
