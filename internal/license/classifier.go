package license

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"licenseflow/internal/llm"
)

const classifySystemPrompt = `You are an expert in software licensing and copyright law.
Analyze code file headers to identify the license category, the specific license
name, and the copyright holder. Categories:
1. PERMISSIVE - licenses allowing reuse with minimal restrictions (MIT, Apache, BSD, ISC)
2. COPYLEFT - licenses requiring derivative works to stay under compatible terms (GPL, LGPL, AGPL, MPL)
3. UNKNOWN - when the license cannot be determined
Respond ONLY with a JSON object, no explanations.`

const classifyPromptFmt = `Analyze the following code file header. Respond ONLY with a JSON object
with three fields:
1. "license_type": one of "PERMISSIVE", "COPYLEFT", "UNKNOWN"
2. "license_name": the specific license name (e.g., "MIT License", "GNU GPL v3")
3. "copyright_holder": the copyright holder, or "" when absent

Header:
` + "```\n%s\n```"

// llmVerdict mirrors the JSON shape the classification prompt asks for.
type llmVerdict struct {
	LicenseType     string `json:"license_type"`
	LicenseName     string `json:"license_name"`
	CopyrightHolder string `json:"copyright_holder"`
}

// Classifier resolves license info for file content. With a client it asks
// the provider and falls back to Unknown on unusable answers; without one
// it runs the heuristic only. Identical headers are classified once per
// run via an LRU cache keyed by header hash.
type Classifier struct {
	cli   llm.Client // nil => heuristic only
	cache *lru.Cache[string, Info]
}

func NewClassifier(cli llm.Client) *Classifier {
	cache, _ := lru.New[string, Info](1024)
	return &Classifier{cli: cli, cache: cache}
}

// Classify returns license info for the given file text. The error is
// non-nil only when a provider call was attempted and failed; the caller
// records it as a classification failure.
func (c *Classifier) Classify(ctx context.Context, text string) (Info, error) {
	head := Header(text)
	key := hashKey(head)
	if info, ok := c.cache.Get(key); ok {
		return info, nil
	}

	if c.cli == nil {
		info := ClassifyHeuristic(text)
		c.cache.Add(key, info)
		return info, nil
	}

	ctx = llm.WithTask(ctx, "classify")
	raw, err := c.cli.Complete(ctx, classifySystemPrompt, fmt.Sprintf(classifyPromptFmt, head))
	if err != nil {
		return Info{Kind: Unknown, Name: "Unknown License"}, fmt.Errorf("license classification: %w", err)
	}

	info := parseVerdict(raw)
	if info.Holder == "" {
		info.Holder = ExtractHolder(head)
	}
	c.cache.Add(key, info)
	return info, nil
}

// parseVerdict decodes the model's JSON answer, tolerating markdown fences.
// Anything unparseable degrades to Unknown rather than failing the file.
func parseVerdict(raw string) Info {
	var v llmVerdict
	if err := json.Unmarshal([]byte(stripFences(raw)), &v); err != nil {
		return Info{Kind: Unknown, Name: "Unknown License"}
	}
	info := Info{Name: v.LicenseName, Holder: strings.TrimSpace(v.CopyrightHolder)}
	switch strings.ToUpper(strings.TrimSpace(v.LicenseType)) {
	case "PERMISSIVE":
		info.Kind = Permissive
	case "COPYLEFT":
		info.Kind = Copyleft
	default:
		info.Kind = Unknown
	}
	if info.Name == "" {
		info.Name = "Unknown License"
	}
	return info
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func hashKey(head string) string {
	sum := sha256.Sum256([]byte(head))
	return hex.EncodeToString(sum[:])
}
