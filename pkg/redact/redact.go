// Package redact маскирует чувствительные значения перед записью в лог.
package redact

import "strings"

// Email оставляет два первых символа локальной части и домен.
func Email(s string) string {
	local, domain, ok := strings.Cut(s, "@")
	if !ok || domain == "" || strings.Contains(domain, "@") {
		return "***"
	}

	if len(local) > 2 {
		local = local[:2] + "***"
	} else {
		local = "***"
	}

	return local + "@" + domain
}

// Token показывает только факт наличия токена и его последние 4 символа.
func Token(tok string) string {
	if len(tok) <= 8 {
		return "[REDACTED_TOKEN]"
	}

	return "[REDACTED_TOKEN…" + tok[len(tok)-4:] + "]"
}

func Password() string { return "[REDACTED_PASSWORD]" }
