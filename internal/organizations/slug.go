package organizations

import "strings"

// Slugify derives the URL-safe identifier for an organization from its
// display name: lowercase, runs of non-alphanumerics collapsed to a single
// "-", no leading or trailing separator. Deterministic, so the uniqueness
// check stays meaningful across retries of the same name.
func Slugify(name string) string {
	var b strings.Builder
	pending := false
	for _, r := range strings.ToLower(name) {
		alnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !alnum {
			pending = b.Len() > 0
			continue
		}
		if pending {
			b.WriteByte('-')
			pending = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
