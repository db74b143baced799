// Package util holds small helpers for masking personal data in log output.
package util

import "strings"

// MaskEmail obscures an email address for logging, keeping just enough of
// the local part to correlate log lines with a user.
func MaskEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.Index(email, "@")
	if at <= 0 {
		return maskToken(email)
	}
	return maskToken(email[:at]) + email[at:]
}

// MaskPhone obscures a phone number, showing only the trailing digits.
func MaskPhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if len(phone) > 4 {
		return strings.Repeat("*", len(phone)-4) + phone[len(phone)-4:]
	}
	return strings.Repeat("*", len(phone))
}

func maskToken(s string) string {
	if len(s) > 8 {
		return s[:4] + "..." + s[len(s)-4:]
	} else if len(s) > 4 {
		return s[:2] + "..." + s[len(s)-2:]
	} else if len(s) > 2 {
		return s[:1] + "..." + s[len(s)-1:]
	}
	return s
}
