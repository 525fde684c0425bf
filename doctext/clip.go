package doctext

import "github.com/rivo/uniseg"

// Clip returns the first n grapheme clusters of s. Clipping on
// cluster boundaries keeps context windows from splitting combined
// characters.
func Clip(s string, n int) string {
	if n <= 0 {
		return ""
	}
	rest := s
	state := -1
	bytes := 0
	var cluster string
	for i := 0; i < n && len(rest) > 0; i++ {
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		bytes += len(cluster)
	}
	return s[:bytes]
}

// ClipTail returns the last n grapheme clusters of s.
func ClipTail(s string, n int) string {
	if n <= 0 {
		return ""
	}
	total := uniseg.GraphemeClusterCount(s)
	if total <= n {
		return s
	}
	skip := total - n
	rest := s
	state := -1
	cut := 0
	var cluster string
	for i := 0; i < skip && len(rest) > 0; i++ {
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		cut += len(cluster)
	}
	return s[cut:]
}
