package report

import "fmt"

// IntegrityError reports remote data that arrived intact but is
// internally inconsistent: zero-duration phase totals, or a run that
// has readings without a matching phase breakdown.
type IntegrityError struct {
	Reason string
}

func (e *IntegrityError) Error() string { return "data integrity: " + e.Reason }

// RenderError reports a failure to write the assembled report document.
type RenderError struct {
	Path string
	Err  error
}

func (e *RenderError) Error() string { return fmt.Sprintf("render %s: %v", e.Path, e.Err) }

func (e *RenderError) Unwrap() error { return e.Err }
