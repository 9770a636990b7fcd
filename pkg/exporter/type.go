package exporter

// Result captures the outcome of a single notebook export.  Results
// are immutable once returned; a failed result is logged and skipped,
// never retried, since failures are a deterministic function of the
// notebook content and tool availability.
type Result struct {
	// Source is the notebook file that was exported.
	Source string

	// OutputDir is where the bundle was placed.
	OutputDir string

	// OutputFile is the bundle entrypoint inside OutputDir.
	OutputFile string

	// OK is true when the external tool exited zero and the bundle
	// exists.
	OK bool

	// Diagnostic holds the tool's combined output when OK is false.
	Diagnostic string
}
