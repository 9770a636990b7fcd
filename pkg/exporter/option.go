package exporter

import (
	"github.com/hashicorp/go-hclog"
)

// An Option configures an Exporter.
type Option func(e *Exporter)

// WithLogger configures the logging instance for this exporter.
func WithLogger(l hclog.Logger) Option {
	return func(e *Exporter) { e.l = l.Named("exporter") }
}

// WithCommand overrides the external tool that performs the export.
// The default is the marimo CLI found on the PATH.
func WithCommand(cmd string) Option {
	return func(e *Exporter) { e.cmd = cmd }
}

// WithMode selects the bundle interaction mode passed to the export
// tool, normally "edit" or "run".
func WithMode(mode string) Option {
	return func(e *Exporter) { e.mode = mode }
}
