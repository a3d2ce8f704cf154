// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package haiku_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/kigo/internal/content/haiku"
)

func TestSuggestHashtags(t *testing.T) {
	cases := []struct {
		name    string
		theme   string
		content string
		want    []string
	}{
		{
			name:    "base and theme",
			theme:   "Quiet Mind",
			content: "breath in, breath out",
			want:    []string{"#haiku", "#poetry", "#mindfulness", "#quietmind"},
		},
		{
			name:    "capped at five",
			theme:   "",
			content: "Cherry blossom under the moon",
			want:    []string{"#haiku", "#poetry", "#mindfulness", "#cherry", "#blossom"},
		},
		{
			name:    "season without nature word",
			theme:   "",
			content: "golden harvest",
			want:    []string{"#haiku", "#poetry", "#mindfulness", "#autumn"},
		},
		{
			name:    "theme duplicates base",
			theme:   "haiku",
			content: "frost",
			want:    []string{"#haiku", "#poetry", "#mindfulness", "#winter"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, haiku.SuggestHashtags(tc.theme, tc.content))
		})
	}
}
