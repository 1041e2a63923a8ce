package auth

import (
	"regexp"
	"strings"
)

// emailShapeRe is a conservative RFC-5322-like grammar limited to a fixed
// allow-list of top-level domains plus generic two-letter ccTLDs. It gates
// raw input before canonicalization; it is not the canonicalization path.
var emailShapeRe = regexp.MustCompile(`(?i)^[a-z0-9!#$%&'*+/=?^_` + "`" + `{|}~.-]+@[a-z0-9](?:[a-z0-9-]*[a-z0-9])?(?:\.[a-z0-9](?:[a-z0-9-]*[a-z0-9])?)*\.(?:com|net|org|edu|gov|mil|int|biz|info|name|io|dev|app|co|[a-z]{2})$`)

// MatchesEmailShape reports whether s looks like a deliverable address.
// Used as a pre-validation gate only.
func MatchesEmailShape(s string) bool {
	return emailShapeRe.MatchString(s)
}

// CanonicalizeEmail normalizes an address into the canonical identity key:
// lowercase, strip a +tag from the local part, drop dots in the local part.
// Returns false when the input does not split into exactly local@domain.
//
// A leading "+" is part of the local part, not a tag delimiter: only a "+"
// after at least one character truncates. Callers depend on this, do not
// "fix" it.
func CanonicalizeEmail(email string) (string, bool) {
	parts := strings.Split(strings.ToLower(email), "@")
	if len(parts) != 2 {
		return "", false
	}
	local, domain := parts[0], parts[1]
	if i := strings.Index(local, "+"); i > 0 {
		local = local[:i]
	}
	local = strings.ReplaceAll(local, ".", "")
	return local + "@" + domain, true
}
