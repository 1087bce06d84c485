package solve

import (
	"licenseflow/internal/license"
	"licenseflow/internal/sigscan"
)

// SourceFile is one discovered input, immutable once read.
type SourceFile struct {
	// Path is the input-dir-relative path using forward slashes.
	Path string
	// Text is the raw file content.
	Text string
}

// Action is what the decision table chose for a file.
type Action string

const (
	ActionListFunctions Action = "list_functions"
	ActionRewrite       Action = "rewrite"
	ActionNone          Action = "none"
)

// TaskResult is the structured outcome for one file. Exactly one of
// Functions, RewrittenText, or Err is populated, consistent with Action:
// a rewrite that was attempted but failed keeps ActionRewrite with Err set,
// which distinguishes it from never-attempted.
type TaskResult struct {
	Path            string
	LicenseKind     license.Kind
	LicenseName     string
	CopyrightHolder string
	Action          Action
	Functions       []sigscan.Signature
	RewrittenText   string
	Err             *TaskError
}
