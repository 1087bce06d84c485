// Package rewrite translates a source file into another language via an
// LLM provider. The call is the slow path of a batch: it is asynchronous
// from the orchestrator's point of view and may fail.
package rewrite

import (
	"context"
	"fmt"
	"strings"

	"licenseflow/internal/llm"
)

const systemPromptFmt = `You are an expert programmer. Convert the provided source code to
equivalent %s. Produce clean, idiomatic %s that captures the same
functionality, with appropriate error handling. The output must be
complete and ready to compile.`

const promptFmt = "Convert the following code to equivalent %s code:\n\n```\n%s\n```\n\nProvide only the %s code, without any explanations."

// Rewriter asks the provider for a translation of file text.
type Rewriter struct {
	cli llm.Client
}

func New(cli llm.Client) *Rewriter {
	return &Rewriter{cli: cli}
}

// Rewrite translates text into targetLang. The reply is defenced so the
// caller always receives bare source text.
func (r *Rewriter) Rewrite(ctx context.Context, text, targetLang string) (string, error) {
	if r.cli == nil {
		return "", fmt.Errorf("rewrite: no LLM client configured")
	}
	if targetLang == "" {
		targetLang = "Rust"
	}
	ctx = llm.WithTask(ctx, "rewrite")
	system := fmt.Sprintf(systemPromptFmt, targetLang, targetLang)
	out, err := r.cli.Complete(ctx, system, fmt.Sprintf(promptFmt, targetLang, text, targetLang))
	if err != nil {
		return "", err
	}
	out = stripCodeFence(out)
	if strings.TrimSpace(out) == "" {
		return "", llm.ErrEmptyResponse
	}
	return out, nil
}

// stripCodeFence removes a single surrounding markdown fence, with or
// without a language tag.
func stripCodeFence(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return s
	}
	lines := strings.Split(trimmed, "\n")
	if len(lines) < 2 {
		return s
	}
	lines = lines[1:]
	if strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}
