// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package textutil normalizes free-form user text before it is stored.
package textutil

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Clip trims surrounding whitespace, normalizes to NFC and keeps at most max
// characters. Cutting happens after trimming, so the result may end in a
// space that was interior to the input.
func Clip(s string, max int) string {
	s = norm.NFC.String(strings.TrimSpace(s))

	count := 0
	for index := range s {
		if count == max {
			return s[:index]
		}
		count++
	}
	return s
}

// ClipPtr applies [Clip] to an optional value, returning nil for nil.
func ClipPtr(s *string, max int) *string {
	if s == nil {
		return nil
	}
	clipped := Clip(*s, max)
	return &clipped
}
