// Package logging builds the slog loggers used by the strtmpl command.
//
// Library packages never create loggers themselves; they accept a
// *slog.Logger and stay silent when it is nil. This package is the one
// place that turns user-facing settings into a logger:
//
//	logger := logging.New(logging.Config{
//	    Level:  logging.ParseLevel("debug"),
//	    Format: logging.ParseFormat("json"),
//	})
//
// Output goes to stderr unless Config.Output says otherwise, so substituted
// text written to stdout is never mixed with log lines.
package logging
