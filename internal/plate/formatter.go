// Package plate implements Turkish civilian license-plate normalization,
// validation and display formatting. It is pure and stateless: grounded on
// original_source/backend/app/utils/plate_formatter.py, reimplemented as
// precompiled regexps instead of per-call re.compile.
package plate

import "regexp"

var (
	stripPattern = regexp.MustCompile(`[^A-Z0-9]`)

	// Two to three letters, two to four trailing digits: "34ABC123".
	longPattern = regexp.MustCompile(`^([0-9]{2})([A-Z]{2,3})([0-9]{2,4})$`)
	// A single letter, four to five trailing digits: "34A12345".
	shortPattern = regexp.MustCompile(`^([0-9]{2})([A-Z])([0-9]{4,5})$`)
)

// Normalize uppercases the input and strips everything outside [A-Z0-9].
func Normalize(raw string) string {
	return stripPattern.ReplaceAllString(upper(raw), "")
}

// Format returns the canonical form of raw: uppercase, separator-free. If
// raw does not validate it is still normalized (uppercased, stripped) but
// returned as-is beyond that — callers must check Validate separately.
func Format(raw string) string {
	return Normalize(raw)
}

// Validate reports whether raw, once normalized, matches one of the two
// Turkish civilian plate patterns.
func Validate(raw string) bool {
	if raw == "" {
		return false
	}
	n := Normalize(raw)
	if n == "" {
		return false
	}
	return longPattern.MatchString(n) || shortPattern.MatchString(n)
}

// Beautify renders the canonical form with spaces for display:
// "34ABC123" -> "34 ABC 123". Never used as the stored/canonical value.
func Beautify(raw string) string {
	f := Format(raw)
	if len(f) < 7 {
		return f
	}
	i := 2
	for i < len(f) && f[i] >= 'A' && f[i] <= 'Z' {
		i++
	}
	return f[:2] + " " + f[2:i] + " " + f[i:]
}

func upper(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - ('a' - 'A')
		}
	}
	return string(b)
}
