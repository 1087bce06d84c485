package batch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"licenseflow/internal/license"
	"licenseflow/internal/rewrite"
	"licenseflow/internal/sigscan"
	"licenseflow/internal/solve"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestDiscoverFiltersAndSorts(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "b.py", "def b(): pass")
	writeFile(t, root, "a.py", "def a(): pass")
	writeFile(t, root, "lib/c.go", "package lib\nfunc C() {}")
	writeFile(t, root, "notes.txt", "not source")
	writeFile(t, root, ".hidden.py", "def h(): pass")
	writeFile(t, root, "node_modules/dep.js", "function d() {}")
	writeFile(t, root, "ignored.py", "def i(): pass")
	writeFile(t, root, ".gitignore", "ignored.py\n")

	files, err := discover(root)
	require.NoError(t, err)

	var paths []string
	for _, f := range files {
		paths = append(paths, f.Path)
	}
	assert.Equal(t, []string{"a.py", "b.py", "lib/c.go"}, paths)
}

func TestDiscoverEmptyDirIsNotAnError(t *testing.T) {
	files, err := discover(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, files)
}

// TestRunEndToEndOffline drives the full pipeline with the heuristic
// classifier and no provider: MIT files get listed, GPL files with few
// functions attempt (and fail) a rewrite, unlicensed files take no action.
func TestRunEndToEndOffline(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "mit.py", `# MIT License
# Copyright (c) 2021 Jane Roe
def a(x): pass
def b(x, y): pass
def c(): pass
def d(x): pass
`)
	writeFile(t, root, "gpl_small.py", `# GNU General Public License v3
def only(x): pass
`)
	writeFile(t, root, "gpl_big.py", `# GNU General Public License v3
def f1(): pass
def f2(): pass
def f3(): pass
def f4(): pass
def f5(): pass
`)
	writeFile(t, root, "bare.py", "def mystery(): pass\n")

	solver := solve.New(
		license.NewClassifier(nil),
		solve.ExtractorFunc(sigscan.Extract),
		rewrite.New(nil),
		"Rust",
	)
	o := New(solver, 2)

	results, err := o.Run(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, results, 4)

	byPath := map[string]solve.TaskResult{}
	for _, r := range results {
		byPath[r.Path] = r
	}

	mit := byPath["mit.py"]
	assert.Equal(t, license.Permissive, mit.LicenseKind)
	assert.Equal(t, solve.ActionListFunctions, mit.Action)
	assert.Len(t, mit.Functions, 4)
	assert.Equal(t, "Jane Roe", mit.CopyrightHolder)

	small := byPath["gpl_small.py"]
	assert.Equal(t, license.Copyleft, small.LicenseKind)
	assert.Equal(t, solve.ActionRewrite, small.Action)
	// No provider configured: the rewrite was attempted and failed.
	require.NotNil(t, small.Err)
	assert.Equal(t, solve.KindRewrite, small.Err.Kind)

	big := byPath["gpl_big.py"]
	assert.Equal(t, solve.ActionListFunctions, big.Action)
	assert.Len(t, big.Functions, 5)

	bare := byPath["bare.py"]
	assert.Equal(t, license.Unknown, bare.LicenseKind)
	assert.Equal(t, solve.ActionNone, bare.Action)
	assert.Nil(t, bare.Err)
}

// flakyClassifier fails for files carrying a marker and defers to the
// heuristic for everything else.
type flakyClassifier struct{}

func (flakyClassifier) Classify(ctx context.Context, text string) (license.Info, error) {
	if strings.Contains(text, "unreachable-provider") {
		return license.Info{Kind: license.Unknown}, errors.New("provider down")
	}
	return license.ClassifyHeuristic(text), nil
}

func TestClassifierFailureForOneFileLeavesOthersIntact(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "good1.py", "# MIT License\ndef a(): pass\n")
	writeFile(t, root, "bad.py", "# unreachable-provider\ndef b(): pass\n")
	writeFile(t, root, "good2.py", "# MIT License\ndef c(): pass\n")

	solver := solve.New(flakyClassifier{}, solve.ExtractorFunc(sigscan.Extract), rewrite.New(nil), "Rust")
	o := New(solver, 2)

	results, err := o.Run(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, results, 3)

	byPath := map[string]solve.TaskResult{}
	for _, r := range results {
		byPath[r.Path] = r
	}

	bad := byPath["bad.py"]
	require.NotNil(t, bad.Err)
	assert.Equal(t, solve.KindClassification, bad.Err.Kind)
	assert.Equal(t, solve.ActionNone, bad.Action)
	assert.Equal(t, license.Unknown, bad.LicenseKind)

	for _, p := range []string{"good1.py", "good2.py"} {
		r := byPath[p]
		assert.Nil(t, r.Err, p)
		assert.Equal(t, license.Permissive, r.LicenseKind, p)
		assert.Equal(t, solve.ActionListFunctions, r.Action, p)
		assert.Len(t, r.Functions, 1, p)
	}
}
