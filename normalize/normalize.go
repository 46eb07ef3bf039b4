// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package normalize

import "strings"

// Normalize turns a raw input line into a canonical probe target: it trims
// surrounding whitespace, lower-cases, strips a leading "http://" or
// "https://" scheme, and cuts everything from the first "/" onward. If nothing
// remains, ok is false and the line must be treated as malformed input; such
// lines never reach a resolver.
//
// Normalize is pure and total; it never fails for any input string. Applying
// it to an already canonical target returns that target unchanged.
func Normalize(raw string) (target string, ok bool) {
	target = strings.ToLower(strings.TrimSpace(raw))
	if rest, found := strings.CutPrefix(target, "http://"); found {
		target = rest
	} else if rest, found := strings.CutPrefix(target, "https://"); found {
		target = rest
	}
	if idx := strings.IndexByte(target, '/'); idx >= 0 {
		target = target[:idx]
	}
	if target == "" {
		return "", false
	}
	return target, true
}
