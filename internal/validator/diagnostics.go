package validator

import (
	"fmt"

	"github.com/rezonia/fiscal-validator/internal/model"
)

// Diagnostics accumulates ordered issues and warnings across phases.
// Hard errors and advisory notes both land in issues, but only hard
// errors force the error status.
type Diagnostics struct {
	issues   []string
	warnings []string
	hard     int
	advisory int
}

// Error records a hard validation error
func (d *Diagnostics) Error(format string, args ...interface{}) {
	d.issues = append(d.issues, fmt.Sprintf(format, args...))
	d.hard++
}

// Warn records a soft validation warning
func (d *Diagnostics) Warn(format string, args ...interface{}) {
	d.warnings = append(d.warnings, fmt.Sprintf(format, args...))
}

// Note records an advisory issue that raises the status to warning only
func (d *Diagnostics) Note(format string, args ...interface{}) {
	d.issues = append(d.issues, fmt.Sprintf(format, args...))
	d.advisory++
}

// Merge appends another accumulator, preserving order
func (d *Diagnostics) Merge(other Diagnostics) {
	d.issues = append(d.issues, other.issues...)
	d.warnings = append(d.warnings, other.warnings...)
	d.hard += other.hard
	d.advisory += other.advisory
}

// HasErrors reports whether a hard error was recorded
func (d *Diagnostics) HasErrors() bool {
	return d.hard > 0
}

// Issues returns the recorded issues, never nil
func (d *Diagnostics) Issues() []string {
	if d.issues == nil {
		return []string{}
	}
	return d.issues
}

// Warnings returns the recorded warnings, never nil
func (d *Diagnostics) Warnings() []string {
	if d.warnings == nil {
		return []string{}
	}
	return d.warnings
}

// Status derives the aggregate status: error beats warning beats success
func (d *Diagnostics) Status() model.Status {
	switch {
	case d.hard > 0:
		return model.StatusError
	case d.advisory > 0 || len(d.warnings) > 0:
		return model.StatusWarning
	}
	return model.StatusSuccess
}
