// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package haiku

import (
	"strings"

	"github.com/taibuivan/kigo/pkg/slug"
)

// MaxHashtags bounds [SuggestHashtags].
const MaxHashtags = 5

var baseHashtags = []string{"#haiku", "#poetry", "#mindfulness"}

var natureKeywords = []string{
	"cherry", "blossom", "moon", "mountain", "river", "ocean",
	"forest", "snow", "rain", "sunset", "sunrise", "flower",
}

// seasons is ordered; the first matching seasons win when the list is capped.
var seasons = []struct {
	name  string
	words []string
}{
	{"spring", []string{"cherry", "blossom", "bloom", "fresh"}},
	{"summer", []string{"sun", "warm", "heat", "beach"}},
	{"autumn", []string{"fall", "leaves", "harvest", "golden"}},
	{"winter", []string{"snow", "cold", "frost", "ice"}},
}

// SuggestHashtags derives hashtags from a theme and the haiku text.
//
// The base tags come first, then the folded theme, nature words found in the
// content, and seasons whose cue words appear. Matching is by substring, so
// "sunset" also cues summer. Duplicates are dropped and at most
// [MaxHashtags] are returned.
func SuggestHashtags(theme, content string) []string {
	candidates := append([]string{}, baseHashtags...)

	if folded := slug.Compact(theme); folded != "" {
		candidates = append(candidates, "#"+folded)
	}

	lowered := strings.ToLower(content)

	for _, keyword := range natureKeywords {
		if strings.Contains(lowered, keyword) {
			candidates = append(candidates, "#"+keyword)
		}
	}

	for _, season := range seasons {
		for _, word := range season.words {
			if strings.Contains(lowered, word) {
				candidates = append(candidates, "#"+season.name)
				break
			}
		}
	}

	seen := make(map[string]struct{}, len(candidates))
	tags := make([]string, 0, MaxHashtags)
	for _, tag := range candidates {
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
		if len(tags) == MaxHashtags {
			break
		}
	}

	return tags
}
