package schemair

import (
	"strings"
	"unicode"
)

// ToSnakeCase converts an identifier to lowercase words joined by
// underscores. Word boundaries are detected scanning right to left so that
// a run of uppercase letters splits correctly ahead of a trailing
// lowercase run:
//
//	ToSnakeCase("HTTPServer") == "http_server"
//	ToSnakeCase("A7Aa")       == "a7_aa"
//	ToSnakeCase("RAM")        == "ram"
//
// The result contains no leading, trailing, or consecutive underscores.
//
// The reference implementation applies this as an Oniguruma regex with
// lookaround over the reversed string; Go's regexp engine (RE2) has no
// lookaround, so the same three zero-width boundary rules are reproduced
// here with a direct rune scan instead.
func ToSnakeCase(input string) string {
	subbed := make([]rune, 0, len(input))
	for _, r := range input {
		if r == '_' || !isAlnum(r) {
			subbed = append(subbed, ' ')
			continue
		}

		subbed = append(subbed, r)
	}

	rev := reverseRunes(subbed)

	var words []string

	for _, chunk := range splitOnSpace(rev) {
		words = append(words, splitWordBoundaries(chunk)...)
	}

	joined := strings.ToLower(strings.Join(words, "_"))

	return string(reverseRunes([]rune(joined)))
}

func isAlnum(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func reverseRunes(rs []rune) []rune {
	out := make([]rune, len(rs))
	for i, r := range rs {
		out[len(rs)-1-i] = r
	}

	return out
}

// splitOnSpace splits rs on runs of whitespace, discarding empty chunks.
func splitOnSpace(rs []rune) [][]rune {
	var chunks [][]rune

	start := -1

	for i, r := range rs {
		if unicode.IsSpace(r) {
			if start >= 0 {
				chunks = append(chunks, rs[start:i])
				start = -1
			}

			continue
		}

		if start < 0 {
			start = i
		}
	}

	if start >= 0 {
		chunks = append(chunks, rs[start:])
	}

	return chunks
}

// splitWordBoundaries splits a single alnum run (as found in the reversed,
// symbol-stripped input) into the reversed-orientation word pieces implied
// by the three uppercase/lowercase/digit boundary rules from 4.A, applied
// in the same left-to-right order a regex engine would scan them in.
func splitWordBoundaries(chunk []rune) []string {
	n := len(chunk)
	if n == 0 {
		return nil
	}

	var pieces []string

	start := 0

	for k := 1; k < n; k++ {
		if isWordBoundary(chunk, k) {
			pieces = append(pieces, string(chunk[start:k]))
			start = k
		}
	}

	pieces = append(pieces, string(chunk[start:]))

	return pieces
}

// isWordBoundary reports whether there is a zero-width word boundary in
// chunk immediately before index k, under the three rules (in the
// reversed-string orientation chunk is already in):
//
//   - ends with an uppercase letter, followed by zero-or-more digits then a
//     lowercase letter;
//   - a lowercase-then-uppercase pair, followed by zero-or-more digits then
//     an uppercase letter;
//   - a lowercase-then-uppercase pair, followed by zero-or-more digits then
//     a lowercase letter.
func isWordBoundary(chunk []rune, k int) bool {
	if unicode.IsUpper(chunk[k-1]) && lookaheadDigitsThen(chunk, k, unicode.IsLower) {
		return true
	}

	if k >= 2 && unicode.IsLower(chunk[k-2]) && unicode.IsUpper(chunk[k-1]) {
		if lookaheadDigitsThen(chunk, k, unicode.IsUpper) {
			return true
		}

		if lookaheadDigitsThen(chunk, k, unicode.IsLower) {
			return true
		}
	}

	return false
}

// lookaheadDigitsThen reports whether, starting at index k, chunk contains
// zero or more digits immediately followed by a rune satisfying class.
func lookaheadDigitsThen(chunk []rune, k int, class func(rune) bool) bool {
	i := k
	for i < len(chunk) && unicode.IsDigit(chunk[i]) {
		i++
	}

	if i >= len(chunk) {
		return false
	}

	return class(chunk[i])
}
