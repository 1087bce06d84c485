// Package license classifies the license of a source file and extracts the
// copyright holder. Classification is LLM-backed with a deterministic
// heuristic fallback for offline and test contexts.
package license

import (
	"regexp"
	"strings"
)

// Kind is the coarse license category the task rules branch on.
type Kind string

const (
	Permissive Kind = "permissive"
	Copyleft   Kind = "copyleft"
	Unknown    Kind = "unknown"
)

// Info is the typed result contract of classification.
type Info struct {
	Kind   Kind   `json:"license_kind"`
	Name   string `json:"license_name"`
	Holder string `json:"copyright_holder,omitempty"`
}

// headerLimit bounds how much of the file is inspected; license headers
// live at the top of the file.
const headerLimit = 1000

var (
	rePermissive = regexp.MustCompile(`(?i)\b(MIT License|MIT\b|Apache License|BSD [23]-Clause|BSD License|ISC License|Permission is hereby granted, free of charge)`)
	reCopyleft   = regexp.MustCompile(`(?i)\b(GNU (Affero |Lesser )?General Public License|GPL-?[23]|LGPL|AGPL|Mozilla Public License|MPL-2\.0)`)
	reHolder     = regexp.MustCompile(`(?i)copyright\s*(?:\(c\)|©)?\s*[\d,\s-]*\s*([^\n]+)`)
)

// Header returns the slice of text that classification inspects.
func Header(text string) string {
	if len(text) > headerLimit {
		return text[:headerLimit]
	}
	return text
}

// ClassifyHeuristic pattern-matches the file header. It is deterministic
// and never fails; unrecognized headers come back Unknown.
func ClassifyHeuristic(text string) Info {
	head := Header(text)
	info := Info{Kind: Unknown, Name: "Unknown License", Holder: ExtractHolder(head)}
	// Copyleft first: GPL texts mention "free software" wording that
	// permissive patterns must not claim.
	if reCopyleft.MatchString(head) {
		info.Kind = Copyleft
		info.Name = copyleftName(head)
		return info
	}
	if rePermissive.MatchString(head) {
		info.Kind = Permissive
		info.Name = permissiveName(head)
		return info
	}
	return info
}

// ExtractHolder pulls the copyright holder out of a
// "Copyright (c) 2024 Holder" style line. Empty when absent.
func ExtractHolder(text string) string {
	m := reHolder.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	holder := strings.TrimSpace(m[1])
	holder = strings.TrimRight(holder, ".,;*/ \t")
	holder = strings.TrimSuffix(holder, "All rights reserved")
	return strings.TrimSpace(strings.TrimRight(holder, ".,;"))
}

func copyleftName(head string) string {
	up := strings.ToUpper(head)
	switch {
	case strings.Contains(up, "AFFERO"):
		return "GNU AGPL"
	case strings.Contains(up, "LESSER"), strings.Contains(up, "LGPL"):
		return "GNU LGPL"
	case strings.Contains(up, "MOZILLA"), strings.Contains(up, "MPL"):
		return "Mozilla Public License 2.0"
	case strings.Contains(up, "GPL-3"), strings.Contains(up, "VERSION 3"):
		return "GNU GPL v3"
	case strings.Contains(up, "GPL-2"), strings.Contains(up, "VERSION 2"):
		return "GNU GPL v2"
	default:
		return "GNU GPL"
	}
}

func permissiveName(head string) string {
	up := strings.ToUpper(head)
	switch {
	case strings.Contains(up, "APACHE"):
		return "Apache License 2.0"
	case strings.Contains(up, "BSD"):
		return "BSD License"
	case strings.Contains(up, "ISC"):
		return "ISC License"
	default:
		return "MIT License"
	}
}
