// Package logger builds the zap logger shared by every component.
//
// Level "debug" selects zap's development preset; any other level uses the
// production preset at that level. Format "console" gives colored, human
// readable lines for the CLI, "json" is meant for log shippers.
//
// HTTP handlers derive a request scoped logger with WithRayID, which copies
// the ray id stored by the rayid middleware onto every entry:
//
//	l := logger.WithRayID(base, c)
//	l.Warn("Report not cached", zap.String("id", id))
package logger
