/*
Package inspectcode converts JetBrains InspectCode XML reports into a
normalized sequence of issues suitable for aggregation with the output of
other analyzers.

The report format is attribute-driven and loosely structured: issue-type
declarations carry severity and documentation metadata in a lookup table,
findings sit nested under project declarations, and file paths are relative
to the directory of the single declared solution. This package resolves all
of those cross-references per finding.

# Basic Usage

Parse a report and extract the normalized issues:

	parser := inspectcode.NewParser(nil)
	report, err := parser.ParseFile("inspectcode.xml")
	if err != nil {
		// report could not be parsed at all
	}
	issues, err := report.Issues()

ParseBytes and Parse variants accept in-memory content and readers.

# Error Model

Two tiers of failure. Conversion-fatal errors abort the call and surface to
the caller:

  - ErrMalformedReport: the content is not well-formed XML
  - ErrMissingSolution / ErrMultipleSolutions: the report does not declare
    exactly one solution
  - ErrInvalidLine: a finding's line attribute is present but not numeric
  - ErrUnknownIssueType: a finding references a rule absent from the
    issue-type table

A finding that lacks a project ancestor, file, line, rule id or message is
silently skipped; the rest of the report still converts. Callers that need
to distinguish "no findings" from "all findings skipped" must diff against
the raw report themselves.

# Priorities

InspectCode severities map case-insensitively onto hint, suggestion, warning
and error priorities. Unrecognized severities degrade to PriorityUndefined so
reports from newer tool versions keep converting.

# Options

Options control encoding, an opaque message-format tag carried onto every
issue, and optional min-priority / max-issues filtering:

	parser := inspectcode.NewParser(&inspectcode.Options{
		Encoding:      "windows-1251",
		MessageFormat: inspectcode.MessageFormatMarkdown,
		MinPriority:   inspectcode.PriorityWarning,
	})
*/
package inspectcode
