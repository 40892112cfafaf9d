/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package impostor

import "strings"

const MaxWords = 50

// fallbackWords is drawn from when a room's owner has not set a pool.
var fallbackWords = []string{
	"car",
	"sea",
	"book",
	"coffee",
	"ant",
	"pen",
	"apple",
	"sun",
	"moon",
	"bee",
}

// NormalizeWords trims each entry, drops empty ones, and caps the result at
// MaxWords. Duplicates are kept.
func NormalizeWords(words []string) []string {
	out := make([]string, 0, min(len(words), MaxWords))
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		out = append(out, w)
		if len(out) == MaxWords {
			break
		}
	}
	return out
}

// StringsOnly keeps the string entries of a decoded JSON array.
func StringsOnly(raw []any) []string {
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
