package logging

import "github.com/rs/zerolog"

// Component returns a structured zerolog logger tagged with a component
// field, for packages that log fields rather than formatted lines. A nil
// *Logger yields a no-op logger.
func (l *Logger) Component(name string) zerolog.Logger {
	if l == nil {
		return zerolog.Nop()
	}
	return l.zl.With().Str("component", name).Logger()
}

// Video returns a component logger that also carries the video path.
func (l *Logger) Video(component, path string) zerolog.Logger {
	if l == nil {
		return zerolog.Nop()
	}
	return l.zl.With().Str("component", component).Str("video", path).Logger()
}

// Zerolog returns the underlying logger for packages that attach their own
// component field.
func (l *Logger) Zerolog() zerolog.Logger {
	if l == nil {
		return zerolog.Nop()
	}
	return l.zl
}
