package logger

import (
	"log/slog"
	"strings"
)

// Keystrokes are logged under "key" or "keycode"; typed text must never
// reach a log sink.
var defaultSensitive = []string{
	"key",
	"password",
	"secret",
	"token",
	"credential",
}

// redactedValue is the placeholder for redacted sensitive data.
const redactedValue = "***REDACTED***"

// redactor replaces the value of attributes whose key contains one of
// its patterns.
type redactor struct {
	patterns []string
}

func newRedactor(extra []string) redactor {
	patterns := make([]string, 0, len(defaultSensitive)+len(extra))
	patterns = append(patterns, defaultSensitive...)
	for _, p := range extra {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			patterns = append(patterns, p)
		}
	}
	return redactor{patterns: patterns}
}

// replace is a slog.HandlerOptions.ReplaceAttr hook.
func (r redactor) replace(_ []string, a slog.Attr) slog.Attr {
	return r.redact(a)
}

// redact replaces any non-empty sensitive value; groups are walked.
func (r redactor) redact(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		out := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			out[i] = r.redact(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(out...)}
	}

	if !r.sensitive(a.Key) || isEmpty(a.Value) {
		return a
	}
	return slog.String(a.Key, redactedValue)
}

func (r redactor) sensitive(key string) bool {
	key = strings.ToLower(key)
	for _, p := range r.patterns {
		if strings.Contains(key, p) {
			return true
		}
	}
	return false
}

func isEmpty(v slog.Value) bool {
	switch v.Kind() {
	case slog.KindString:
		return v.String() == ""
	case slog.KindAny:
		return v.Any() == nil
	}
	return false
}
