package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"licenseflow/internal/safeio"
	"licenseflow/internal/sigscan"
	"licenseflow/internal/solve"
)

// DiscoveryError is fatal: the batch aborts before any file is processed.
type DiscoveryError struct {
	Dir string
	Err error
}

func (e *DiscoveryError) Error() string { return fmt.Sprintf("discover %s: %v", e.Dir, e.Err) }
func (e *DiscoveryError) Unwrap() error { return e.Err }

var skipDirs = map[string]struct{}{
	".git":         {},
	".hg":          {},
	".svn":         {},
	"node_modules": {},
	"vendor":       {},
	"target":       {},
	"build":        {},
	"dist":         {},
	"__pycache__":  {},
	".venv":        {},
	"venv":         {},
}

// discover walks inputDir and reads every supported source file, in
// deterministic (sorted path) order. A .gitignore at the root is honored.
// File contents are read through a root-locked filesystem.
func discover(inputDir string) ([]solve.SourceFile, error) {
	sfs, err := safeio.NewSafeFS(inputDir)
	if err != nil {
		return nil, &DiscoveryError{Dir: inputDir, Err: err}
	}

	var gi *ignore.GitIgnore
	if g, err := ignore.CompileIgnoreFile(filepath.Join(sfs.Root(), ".gitignore")); err == nil {
		gi = g
	}

	var paths []string
	walkErr := filepath.WalkDir(sfs.Root(), func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if path == sfs.Root() {
				return err
			}
			return nil
		}
		name := d.Name()
		if d.IsDir() {
			if path == sfs.Root() {
				return nil
			}
			if _, skip := skipDirs[name]; skip || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") || d.Type()&os.ModeSymlink != 0 {
			return nil
		}
		rel, err := filepath.Rel(sfs.Root(), path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if gi != nil && gi.MatchesPath(rel) {
			return nil
		}
		if !sigscan.Supported(filepath.Ext(name)) {
			return nil
		}
		paths = append(paths, rel)
		return nil
	})
	if walkErr != nil {
		return nil, &DiscoveryError{Dir: inputDir, Err: walkErr}
	}
	sort.Strings(paths)

	files := make([]solve.SourceFile, 0, len(paths))
	for _, rel := range paths {
		b, err := sfs.SafeReadFile(filepath.FromSlash(rel))
		if err != nil {
			// A file that vanished between walk and read is skipped, not fatal.
			continue
		}
		files = append(files, solve.SourceFile{Path: rel, Text: string(b)})
	}
	return files, nil
}
