package validation

import "strings"

// Providers whose mailboxes ignore a sub-address suffix. The value is the
// separator that starts the suffix.
var subaddressSeparators = map[string]string{
	"gmail.com":      "+",
	"googlemail.com": "+",
	"outlook.com":    "+",
	"hotmail.com":    "+",
	"live.com":       "+",
	"icloud.com":     "+",
	"me.com":         "+",
	"yahoo.com":      "-",
}

// NormalizeEmail lower-cases and trims an address and strips sub-addressing
// for providers known to ignore it. Gmail addresses also lose dots in the
// local part and fold googlemail.com into gmail.com. Input without exactly
// one "@" is returned trimmed and lower-cased only.
func NormalizeEmail(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))

	local, domain, ok := strings.Cut(email, "@")
	if !ok || local == "" || domain == "" || strings.Contains(domain, "@") {
		return email
	}

	if sep, known := subaddressSeparators[domain]; known {
		if i := strings.Index(local, sep); i > 0 {
			local = local[:i]
		}
	}

	if domain == "gmail.com" || domain == "googlemail.com" {
		local = strings.ReplaceAll(local, ".", "")
		domain = "gmail.com"
	}

	return local + "@" + domain
}
