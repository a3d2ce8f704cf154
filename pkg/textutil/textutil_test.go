// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package textutil_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/kigo/pkg/textutil"
)

func TestClip(t *testing.T) {
	tests := []struct {
		name  string
		input string
		max   int
		want  string
	}{
		{"trims", "  hello  ", 10, "hello"},
		{"cuts", "abcdef", 3, "abc"},
		{"counts_runes", "日本語のテキスト", 3, "日本語"},
		{"exact", "abc", 3, "abc"},
		{"empty", "   ", 5, ""},
		{"long", strings.Repeat("x", 300), 200, strings.Repeat("x", 200)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, textutil.Clip(tt.input, tt.max))
		})
	}
}

func TestClipPtr(t *testing.T) {
	assert.Nil(t, textutil.ClipPtr(nil, 5))

	in := " bio "
	assert.Equal(t, "bio", *textutil.ClipPtr(&in, 5))
}
