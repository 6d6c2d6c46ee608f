package matching

import "strings"

// Match reports whether key matches pattern under shell wildcard rules:
// '*' matches any sequence of characters including the empty one, '?'
// matches exactly one character and every other character matches itself.
// Matching is case-sensitive, works on Unicode code points and gives no
// special meaning to separators or brackets.
func Match(pattern, key string) bool {
	if !strings.ContainsAny(pattern, "*?") {
		return pattern == key
	}
	return matchRunes([]rune(pattern), []rune(key))
}

func matchRunes(p, k []rune) bool {
	pi, ki := 0, 0
	// Position of the last '*' seen and the key index it is currently absorbing up to.
	star, mark := -1, 0

	for ki < len(k) {
		switch {
		case pi < len(p) && (p[pi] == '?' || p[pi] == k[ki]):
			pi++
			ki++
		case pi < len(p) && p[pi] == '*':
			star = pi
			mark = ki
			pi++
		case star >= 0:
			// Let the last '*' absorb one more character and retry.
			mark++
			ki = mark
			pi = star + 1
		default:
			return false
		}
	}

	for pi < len(p) && p[pi] == '*' {
		pi++
	}
	return pi == len(p)
}
