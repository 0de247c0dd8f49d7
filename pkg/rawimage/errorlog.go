package rawimage

import "log/slog"

// ErrorLog accumulates non-fatal warnings encountered while decoding an
// image. Unlike the sentinel errors in errors.go, entries logged here
// never abort the decode — they travel with the resulting Image so a
// caller can inspect what was approximate or recovered-from about it.
type ErrorLog struct {
	errors []string
}

// LogWarning records a non-fatal problem and also emits it through
// slog, mirroring the teacher's "log it, then carry on with a partial
// result" idiom (pkg/dicos/decode.go's dimension-mismatch handling).
func (e *ErrorLog) LogWarning(msg string, args ...any) {
	e.errors = append(e.errors, msg)
	slog.Warn(msg, args...)
}

// Warnings returns every warning logged so far, in order.
func (e *ErrorLog) Warnings() []string {
	out := make([]string, len(e.errors))
	copy(out, e.errors)
	return out
}

// HasWarnings reports whether any warning was logged.
func (e *ErrorLog) HasWarnings() bool {
	return len(e.errors) > 0
}
