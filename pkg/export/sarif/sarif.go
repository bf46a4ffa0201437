// Package sarif renders normalized InspectCode issues as a SARIF 2.1.0 log
// so converted reports can feed SARIF-consuming aggregators and code hosts.
package sarif

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/openctemio/inspectcode/pkg/parsers/inspectcode"
)

// SchemaURI is the SARIF 2.1.0 schema recognized by GitHub and VS Code.
const SchemaURI = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json"

// Version is the SARIF version this package emits.
const Version = "2.1.0"

// Log represents the root SARIF log object.
type Log struct {
	Version string `json:"version"`
	Schema  string `json:"$schema"`
	Runs    []Run  `json:"runs"`
}

// Run represents a single run of an analysis tool.
type Run struct {
	Tool    Tool     `json:"tool"`
	Results []Result `json:"results"`
}

// Tool describes the analysis tool that produced the results.
type Tool struct {
	Driver Driver `json:"driver"`
}

// Driver identifies the tool driver and its rules.
type Driver struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
	Rules   []Rule `json:"rules,omitempty"`
}

// Rule describes one reporting rule referenced by results.
type Rule struct {
	ID      string `json:"id"`
	HelpURI string `json:"helpUri,omitempty"`
}

// Result represents a single normalized issue.
type Result struct {
	RuleID    string     `json:"ruleId"`
	Level     string     `json:"level"`
	Message   Message    `json:"message"`
	Locations []Location `json:"locations"`
}

// Message represents a result message.
type Message struct {
	Text string `json:"text"`
}

// Location represents a location in an artifact.
type Location struct {
	PhysicalLocation PhysicalLocation `json:"physicalLocation"`
}

// PhysicalLocation represents a physical location in an artifact.
type PhysicalLocation struct {
	ArtifactLocation ArtifactLocation `json:"artifactLocation"`
	Region           Region           `json:"region"`
}

// ArtifactLocation represents the location of an artifact.
type ArtifactLocation struct {
	URI string `json:"uri"`
}

// Region represents a region within an artifact.
type Region struct {
	StartLine int `json:"startLine"`
}

// FromIssues builds a single-run SARIF log from normalized issues. Rules are
// deduplicated from the issues themselves in first-seen order.
func FromIssues(issues []inspectcode.Issue, toolVersion string) *Log {
	seen := make(map[string]bool)
	var rules []Rule
	results := make([]Result, 0, len(issues))

	for _, issue := range issues {
		if !seen[issue.RuleID] {
			seen[issue.RuleID] = true
			rules = append(rules, Rule{ID: issue.RuleID, HelpURI: issue.RuleURL})
		}

		line := issue.Line
		if line <= 0 {
			line = 1
		}

		results = append(results, Result{
			RuleID:  issue.RuleID,
			Level:   priorityToLevel(issue.Priority),
			Message: Message{Text: issue.Message},
			Locations: []Location{
				{
					PhysicalLocation: PhysicalLocation{
						ArtifactLocation: ArtifactLocation{URI: issue.FilePath},
						Region:           Region{StartLine: line},
					},
				},
			},
		})
	}

	return &Log{
		Version: Version,
		Schema:  SchemaURI,
		Runs: []Run{
			{
				Tool: Tool{
					Driver: Driver{
						Name:    inspectcode.ProviderName,
						Version: toolVersion,
						Rules:   rules,
					},
				},
				Results: results,
			},
		},
	}
}

// Write encodes the log as indented JSON.
func (l *Log) Write(w io.Writer) error {
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal sarif: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write sarif: %w", err)
	}
	return nil
}

// priorityToLevel maps normalized priorities onto the SARIF level set.
func priorityToLevel(p inspectcode.Priority) string {
	switch p {
	case inspectcode.PriorityError:
		return "error"
	case inspectcode.PriorityWarning:
		return "warning"
	case inspectcode.PriorityHint, inspectcode.PrioritySuggestion:
		return "note"
	default:
		return "none"
	}
}
