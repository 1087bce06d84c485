package license

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const mitHeader = `// MIT License
//
// Copyright (c) 2020 John Doe
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files...
`

const gplHeader = `# This program is free software: you can redistribute it and/or modify
# it under the terms of the GNU General Public License as published by
# the Free Software Foundation, either version 3 of the License, or
# (at your option) any later version.
`

func TestClassifyHeuristic(t *testing.T) {
	cases := []struct {
		name string
		text string
		kind Kind
	}{
		{"mit", mitHeader, Permissive},
		{"gpl v3", gplHeader, Copyleft},
		{"apache", "Licensed under the Apache License, Version 2.0", Permissive},
		{"lgpl", "// SPDX-License-Identifier: LGPL-2.1", Copyleft},
		{"agpl", "GNU Affero General Public License", Copyleft},
		{"no header", "def add(a, b):\n    return a + b\n", Unknown},
		{"empty", "", Unknown},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ClassifyHeuristic(tc.text)
			assert.Equal(t, tc.kind, got.Kind)
		})
	}
}

func TestClassifyHeuristicPrefersCopyleftOverPermissiveWording(t *testing.T) {
	// GPL preambles mention "free" liberally; they must not classify as MIT.
	got := ClassifyHeuristic(gplHeader)
	assert.Equal(t, Copyleft, got.Kind)
	assert.Equal(t, "GNU GPL v3", got.Name)
}

func TestExtractHolder(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"Copyright (c) 2020 John Doe", "John Doe"},
		{"Copyright 2019-2021 Acme Corp.", "Acme Corp"},
		{"copyright © 2023 Example Inc.", "Example Inc"},
		{"no copyright line here", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ExtractHolder(tc.text), "text=%q", tc.text)
	}
}

func TestHeaderTruncates(t *testing.T) {
	long := make([]byte, 5000)
	for i := range long {
		long[i] = 'a'
	}
	assert.Len(t, Header(string(long)), 1000)
	assert.Equal(t, "short", Header("short"))
}
