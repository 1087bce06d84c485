package llm

import (
	"context"
	"strings"
)

// FakeClient returns deterministic replies per task for offline/testing runs.
// Classification verdicts are derived from license markers visible in the
// prompt, so an offline batch still exercises every solver branch.
type FakeClient struct{}

func NewFakeClient() *FakeClient { return &FakeClient{} }

func (f *FakeClient) Name() string { return "FakeLLM" }
func (f *FakeClient) Close() error { return nil }

func (f *FakeClient) Complete(ctx context.Context, system, prompt string) (string, error) {
	switch TaskFrom(ctx) {
	case "classify":
		up := strings.ToUpper(prompt)
		switch {
		case strings.Contains(up, "GPL") || strings.Contains(up, "GENERAL PUBLIC LICENSE"):
			return `{"license_type":"COPYLEFT","license_name":"GNU GPL","copyright_holder":""}`, nil
		case strings.Contains(up, "MIT") || strings.Contains(up, "APACHE") || strings.Contains(up, "BSD"):
			return `{"license_type":"PERMISSIVE","license_name":"MIT License","copyright_holder":""}`, nil
		default:
			return `{"license_type":"UNKNOWN","license_name":"Unknown License","copyright_holder":""}`, nil
		}
	case "safety":
		up := strings.ToUpper(prompt)
		if strings.Contains(up, "IGNORE ALL PREVIOUS INSTRUCTIONS") || strings.Contains(up, "DAN MODE") {
			return `{"is_safe":false,"reason":"prompt injection attempt","severity":"high"}`, nil
		}
		return `{"is_safe":true,"reason":"","severity":"none"}`, nil
	case "rewrite":
		return "fn main() {\n    // fake translation\n}\n", nil
	default:
		return "{}", nil
	}
}
