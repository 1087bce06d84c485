// Package solve holds the task-selection rule: given a file's license kind
// and function count, decide whether to list signatures, rewrite the file,
// or do nothing. This package is the single source of truth for that rule;
// nothing else re-implements or overrides it.
package solve

import (
	"context"
	"fmt"

	"licenseflow/internal/license"
	"licenseflow/internal/safety"
	"licenseflow/internal/sigscan"
)

// rewriteMaxFunctions is the inclusive function-count ceiling below which a
// copyleft file is rewritten instead of summarized. Zero functions still
// qualifies: the rule is taken literally.
const rewriteMaxFunctions = 2

// Screener vets file content before any analysis prompt sees it.
type Screener interface {
	Screen(ctx context.Context, text string) (safety.Verdict, error)
}

// Classifier resolves license info for file text.
type Classifier interface {
	Classify(ctx context.Context, text string) (license.Info, error)
}

// Extractor returns function signatures in definition order. Pure; returns
// an empty sequence on malformed or unsupported input.
type Extractor interface {
	Extract(path, text string) []sigscan.Signature
}

// ExtractorFunc adapts a plain extraction function to Extractor.
type ExtractorFunc func(path, text string) []sigscan.Signature

func (f ExtractorFunc) Extract(path, text string) []sigscan.Signature { return f(path, text) }

// Rewriter translates file text into the target language.
type Rewriter interface {
	Rewrite(ctx context.Context, text, targetLang string) (string, error)
}

// Solver applies the decision table to one file at a time. It holds no
// mutable state and is safe for concurrent use.
type Solver struct {
	screener   Screener // nil => no pre-analysis screen
	classifier Classifier
	extractor  Extractor
	rewriter   Rewriter
	targetLang string
}

func New(classifier Classifier, extractor Extractor, rewriter Rewriter, targetLang string) *Solver {
	if targetLang == "" {
		targetLang = "Rust"
	}
	return &Solver{
		classifier: classifier,
		extractor:  extractor,
		rewriter:   rewriter,
		targetLang: targetLang,
	}
}

// WithScreener enables the content-safety gate: flagged files are never
// classified or rewritten.
func (s *Solver) WithScreener(scr Screener) *Solver {
	s.screener = scr
	return s
}

// Solve never fails past its boundary: every error is captured into the
// returned TaskResult. Per file it makes at most one screening call, at
// most one classification call and, only in the rewrite branch, exactly
// one rewrite call.
func (s *Solver) Solve(ctx context.Context, file SourceFile) TaskResult {
	res := TaskResult{Path: file.Path, Action: ActionNone}

	if s.screener != nil {
		v, err := s.screener.Screen(ctx, file.Text)
		if err != nil {
			res.LicenseKind = license.Unknown
			res.Err = newTaskError(KindSafety, err)
			return res
		}
		if !v.Safe {
			res.LicenseKind = license.Unknown
			res.Err = newTaskError(KindSafety, fmt.Errorf("content flagged (%s): %s", v.Severity, v.Reason))
			return res
		}
	}

	info, err := s.classifier.Classify(ctx, file.Text)
	res.LicenseKind = info.Kind
	res.LicenseName = info.Name
	res.CopyrightHolder = info.Holder
	if err != nil {
		res.LicenseKind = license.Unknown
		res.Err = newTaskError(KindClassification, err)
		return res
	}
	if info.Kind == license.Unknown {
		return res
	}

	funcs := s.extractor.Extract(file.Path, file.Text)

	switch {
	case info.Kind == license.Permissive:
		res.Action = ActionListFunctions
		res.Functions = funcs
	case len(funcs) > rewriteMaxFunctions:
		res.Action = ActionListFunctions
		res.Functions = funcs
	default:
		res.Action = ActionRewrite
		text, err := s.rewriter.Rewrite(ctx, file.Text, s.targetLang)
		if err != nil {
			res.Err = newTaskError(KindRewrite, err)
			return res
		}
		res.RewrittenText = text
	}
	return res
}
