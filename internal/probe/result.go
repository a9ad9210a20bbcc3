package probe

import "fmt"

// Result is the outcome of evaluating a probe.
//
// A Result is immutable once constructed. Absence is a normal outcome,
// not a fault: Present is false and Reason explains why, in text
// suitable for direct display to the user.
type Result struct {
	// Name is the name of the probe that produced this result.
	Name string `json:"capability"`

	// Present reports whether the capability was found (or, for a
	// functional evaluation, found and working).
	Present bool `json:"present"`

	// Reason is non-empty exactly when Present is false.
	Reason string `json:"reason,omitempty"`
}

// Equal reports whether two results describe the same verdict for the
// same capability. Reasons are display text and do not participate.
func (r Result) Equal(other Result) bool {
	return r.Name == other.Name && r.Present == other.Present
}

func (r Result) String() string {
	if r.Present {
		return fmt.Sprintf("Result(%s, present)", r.Name)
	}
	return fmt.Sprintf("Result(%s, absent: %s)", r.Name, r.Reason)
}

// NotPresentError is returned by queries whose contract promises a
// value, such as [Probe.AbsolutePath], when the underlying capability
// is absent. It carries the same reason text the corresponding
// negative Result would.
type NotPresentError struct {
	// Name is the name of the absent capability.
	Name string

	// Reason explains the absence.
	Reason string
}

func (e *NotPresentError) Error() string {
	return fmt.Sprintf("capability %q is not present: %s", e.Name, e.Reason)
}
