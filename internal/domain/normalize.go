package domain

import "strings"

// Normalization happens when a value enters the form, so stored state is
// always pre-normalized.

func NormalizeName(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), " "))
}

func NormalizeAddress(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), " "))
}

func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizePhone keeps digits only and drops the Peru country prefix, so a
// number entered as +51 9xx xxx xxx stores as the local 9 digits.
func NormalizePhone(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	d := b.String()
	if len(d) == 11 && strings.HasPrefix(d, "51") {
		return d[2:]
	}
	return d
}
