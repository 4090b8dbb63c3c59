package zpool

import "fmt"

// DiagnosticKind classifies a recoverable parse anomaly.
type DiagnosticKind string

const (
	// UnknownState: a state keyword that is not in the vocabulary. The
	// affected value defaults to StateOnline.
	UnknownState DiagnosticKind = "unknown_state"
	// UnexpectedLine: a line that matches no pattern of the current section.
	UnexpectedLine DiagnosticKind = "unexpected_line"
	// BadScanField: a duration or timestamp in a scan block that did not
	// parse. The affected field keeps its previous value.
	BadScanField DiagnosticKind = "bad_scan_field"
	// TruncatedSection: input ended inside a multi-line section.
	TruncatedSection DiagnosticKind = "truncated_section"
	// SingleDriveVdev: a bare drive at subpool level, kept as a
	// single-drive subpool. Informational only.
	SingleDriveVdev DiagnosticKind = "single_drive_vdev"
)

// Informational reports whether the kind marks a tolerated layout rather
// than damaged input.
func (k DiagnosticKind) Informational() bool {
	return k == SingleDriveVdev
}

// Diagnostic records one anomaly found while parsing.
type Diagnostic struct {
	Kind    DiagnosticKind
	Line    int    // 1-based line number in the report
	Text    string // offending token or line, trimmed
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("line %d: %s: %s (%q)", d.Line, d.Kind, d.Message, d.Text)
}
