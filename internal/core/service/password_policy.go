package service

import (
	"strings"
	"unicode"
)

const minPasswordLength = 6

// commonPasswords is a short deny-list of passwords seen at the top of
// public breach corpora. Checked case-insensitively at password-change time.
var commonPasswords = map[string]struct{}{
	"password":  {},
	"passw0rd":  {},
	"password1": {},
	"123456":    {},
	"1234567":   {},
	"12345678":  {},
	"123456789": {},
	"qwerty":    {},
	"qwerty123": {},
	"abc123":    {},
	"letmein":   {},
	"welcome":   {},
	"monkey":    {},
	"dragon":    {},
	"iloveyou":  {},
	"admin":     {},
	"login":     {},
	"princess":  {},
	"sunshine":  {},
	"football":  {},
}

// PasswordContext gives the policy the identity attributes a password must
// not resemble.
type PasswordContext struct {
	Username string
	Email    string
}

// PasswordPolicy checks candidate passwords against strength rules. All
// violations are returned together, as human-readable reasons, so a client
// can show the complete list instead of fixing one problem per round trip.
type PasswordPolicy struct{}

func NewPasswordPolicy() *PasswordPolicy {
	return &PasswordPolicy{}
}

// Validate applies the registration-time rules. An empty slice means the
// candidate is acceptable.
func (p *PasswordPolicy) Validate(candidate string) []string {
	var reasons []string
	if len(candidate) < minPasswordLength {
		reasons = append(reasons, "Password must be at least 6 characters long")
	}
	return reasons
}

// ValidateChange applies the stricter change-time rules on top of the
// registration-time ones.
func (p *PasswordPolicy) ValidateChange(candidate string, uc PasswordContext) []string {
	reasons := p.Validate(candidate)

	lower := strings.ToLower(candidate)
	if _, ok := commonPasswords[lower]; ok {
		reasons = append(reasons, "Password is too common")
	}
	if allNumeric(candidate) && candidate != "" {
		reasons = append(reasons, "Password cannot be entirely numeric")
	}
	if similarToIdentity(lower, uc) {
		reasons = append(reasons, "Password is too similar to your username or email")
	}
	return reasons
}

func allNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// similarToIdentity reports whether the candidate contains (or is contained
// in) the username or the local part of the email, case-insensitively.
// Attributes shorter than 4 runes are ignored to avoid trivial matches.
func similarToIdentity(lowerCandidate string, uc PasswordContext) bool {
	attrs := []string{strings.ToLower(uc.Username)}
	if at := strings.IndexByte(uc.Email, '@'); at > 0 {
		attrs = append(attrs, strings.ToLower(uc.Email[:at]))
	}

	for _, attr := range attrs {
		if len(attr) < 4 {
			continue
		}
		if strings.Contains(lowerCandidate, attr) || strings.Contains(attr, lowerCandidate) {
			return true
		}
	}
	return false
}
