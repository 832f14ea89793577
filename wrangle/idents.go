package main

import (
	"strings"
	"unicode"

	"github.com/cockroachdb/errors"
)

// makeIdentLower lower-cases a kind name for use inside a C function name,
// replacing anything that isn't a letter or digit with an underscore.
func makeIdentLower(inp string) string {
	var b strings.Builder
	for _, r := range inp {
		switch {
		case unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsLetter(r):
			b.WriteString(strings.ToLower(string(r)))
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// isIdentFragment reports whether s can be pasted into the middle of a C
// identifier. Leading digits are fine since every generated symbol has a
// prefix (Dim's "1D" becomes SpvDim1D).
func isIdentFragment(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r == '_':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

// validateCollected rejects anything that would render into C that doesn't
// compile: names that aren't identifiers, and a scalar enumerant called
// "Max" which would duplicate the sentinel case.
func validateCollected(ck CollectedKind) error {
	if !isIdentFragment(ck.Kind) {
		return errors.Wrapf(errInvalidIdentifier, "kind name %q", ck.Kind)
	}
	for _, name := range ck.Names {
		if !isIdentFragment(name) {
			return errors.Wrapf(errInvalidIdentifier, "%s name %q", ck.Kind, name)
		}
		if name == maxSentinel && !ck.Category.IsBitEnum() {
			return errors.WithHintf(
				errors.Wrapf(errInvalidIdentifier, "%s name %q", ck.Kind, name),
				"%s%s%s is reserved for the sentinel case of every scalar lookup",
				symbolPrefix, ck.Kind, maxSentinel,
			)
		}
	}
	return nil
}
