// Package logger provides structured logging for ScreenMesh.
//
// It wraps the standard library log/slog behind the Logger interface:
//
//   - logger.go: handler construction (JSON or text), the screen
//     attribute and a global level that can be changed at runtime
//   - context.go: request and admin client IDs carried by a context and
//     added to records by the handler
//   - redact.go: keystroke and secret redaction applied to every record
//
// Redaction runs inside the handler's ReplaceAttr hook, so no call site
// can leak a typed key by mistake.
package logger
