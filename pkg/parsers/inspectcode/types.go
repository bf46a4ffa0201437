package inspectcode

import "strings"

// ProviderName identifies this translator as the source of emitted issues.
const ProviderName = "InspectCode"

// Priority is the normalized severity used by downstream aggregation.
type Priority string

const (
	PriorityUndefined  Priority = "undefined"
	PriorityHint       Priority = "hint"
	PrioritySuggestion Priority = "suggestion"
	PriorityWarning    Priority = "warning"
	PriorityError      Priority = "error"
)

// IsValid checks if the priority is valid.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityUndefined, PriorityHint, PrioritySuggestion, PriorityWarning, PriorityError, "":
		return true
	default:
		return false
	}
}

// rank orders priorities for filtering. Undefined sorts below everything.
func (p Priority) rank() int {
	switch p {
	case PriorityHint:
		return 1
	case PrioritySuggestion:
		return 2
	case PriorityWarning:
		return 3
	case PriorityError:
		return 4
	default:
		return 0
	}
}

// PriorityForSeverity maps an InspectCode severity string to a Priority.
// Matching is case-insensitive; unrecognized values (including newer severity
// labels this package does not know about) map to PriorityUndefined rather
// than failing.
func PriorityForSeverity(severity string) Priority {
	switch strings.ToLower(severity) {
	case "hint":
		return PriorityHint
	case "suggestion":
		return PrioritySuggestion
	case "warning":
		return PriorityWarning
	case "error":
		return PriorityError
	default:
		return PriorityUndefined
	}
}

// MessageFormat declares how embedded code references in issue messages
// should be rendered downstream. It is carried through onto every issue
// verbatim; this package does not interpret it.
type MessageFormat string

const (
	MessageFormatPlain    MessageFormat = "plain"
	MessageFormatMarkdown MessageFormat = "markdown"
	MessageFormatHTML     MessageFormat = "html"
)

// IsValid checks if the message format is valid.
func (f MessageFormat) IsValid() bool {
	switch f {
	case MessageFormatPlain, MessageFormatMarkdown, MessageFormatHTML, "":
		return true
	default:
		return false
	}
}

// IssueType is one rule declaration from the report's issue-type table,
// keyed by its identifier.
type IssueType struct {
	// ID is the rule identifier, unique within one report.
	ID string `json:"id"`

	// Severity is the raw severity string, stored verbatim. Case folding
	// happens at priority derivation, not here.
	Severity string `json:"severity"`

	// Category is the human-readable rule category, if declared.
	Category string `json:"category,omitempty"`

	// Description is the rule description, if declared.
	Description string `json:"description,omitempty"`

	// WikiURL is the rule documentation link. Empty when the report declares
	// none or when the declared value is not an absolute URI.
	WikiURL string `json:"wikiUrl,omitempty"`
}

// Issue is the normalized output record for one finding.
type Issue struct {
	// Provider identifies the translator that produced this issue.
	Provider string `json:"provider"`

	// Project is the name of the project the finding belongs to.
	Project string `json:"project"`

	// FilePath is the file path resolved against the solution directory,
	// with separators normalized to forward slashes.
	FilePath string `json:"filePath"`

	// Line is the 1-based line number.
	Line int `json:"line"`

	// RuleID is the identifier of the issue type that produced this finding.
	RuleID string `json:"ruleId"`

	// RuleURL is the documentation link of the issue type, if any.
	RuleURL string `json:"ruleUrl,omitempty"`

	// Message is the finding message.
	Message string `json:"message"`

	// MessageFormat is the caller-declared rendering preference for the
	// message, passed through unmodified.
	MessageFormat MessageFormat `json:"messageFormat,omitempty"`

	// Severity is the raw severity string of the issue type.
	Severity string `json:"severity,omitempty"`

	// Priority is the normalized severity.
	Priority Priority `json:"priority"`
}
