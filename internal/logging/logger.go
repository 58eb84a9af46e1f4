// Package logging provides a logging abstraction layer. Components receive a
// Logger through their constructors and never import logrus directly, which
// lets tests swap in MockLogger and inspect what was logged.
package logging

// Logger is the structured logger passed to every component.
//
// Messages are short and constant ("Parsed export", "Rates cache miss");
// everything variable goes into fields, keyed by the Field* constants so that
// JSON output can be filtered by file, category, currency or import ID.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	// Warn is for recoverable problems: skipped files, keyword collisions,
	// unavailable exchange rates.
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// The With* methods return a derived logger; the receiver is left
	// unchanged.
	WithError(err error) Logger
	WithField(key string, value interface{}) Logger
	WithFields(fields ...Field) Logger
}

// Field is one structured key/value pair.
type Field struct {
	Key   string
	Value interface{}
}
