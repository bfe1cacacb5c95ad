package policy

// Severity grades a policy violation.
type Severity string

const (
	// SeverityInfo is informational only.
	SeverityInfo Severity = "info"

	// SeverityWarning should be reviewed but does not block.
	SeverityWarning Severity = "warning"

	// SeverityError blocks the change that triggered it.
	SeverityError Severity = "error"
)

// Policy is one Rego rule set evaluated over planned changes.
type Policy struct {
	// Name is the unique policy name.
	Name string `json:"name"`

	// Description is a human-readable summary.
	Description string `json:"description"`

	// Rego holds the policy source. The package must export a `deny` set
	// of objects with `message` and optional `severity` fields.
	Rego string `json:"rego"`

	// Severity is the default severity for violations that do not carry
	// their own.
	Severity Severity `json:"severity"`

	// Enabled gates evaluation.
	Enabled bool `json:"enabled"`
}

// ChangeInput is the evaluation input describing one planned change.
type ChangeInput struct {
	// Kind is the resource kind, e.g. "symlink" or "filemode".
	Kind string `json:"kind"`

	// Operation is "apply" or "remove".
	Operation string `json:"operation"`

	// Resource is the resource description for messages.
	Resource string `json:"resource"`

	// Path is the filesystem path the change touches, if any.
	Path string `json:"path,omitempty"`

	// Target is the symlink target, if any.
	Target string `json:"target,omitempty"`

	// Mode is the octal mode string, if any.
	Mode string `json:"mode,omitempty"`

	// Home is the user's home directory.
	Home string `json:"home"`
}

// Violation is one denied planned change.
type Violation struct {
	// Policy is the violated policy name.
	Policy string `json:"policy"`

	// Resource is the description of the offending change.
	Resource string `json:"resource,omitempty"`

	// Message explains the violation.
	Message string `json:"message"`

	// Severity grades the violation.
	Severity Severity `json:"severity"`
}

// Result aggregates the violations for one evaluated change.
type Result struct {
	// Allowed is false when any violation carries error severity.
	Allowed bool `json:"allowed"`

	// Violations lists every violation regardless of severity.
	Violations []Violation `json:"violations,omitempty"`
}
