package inspectcode

import (
	"errors"
	"strings"
	"testing"
)

// Sample report data for testing.
var validReport = `<?xml version="1.0" encoding="utf-8"?>
<Report ToolsVersion="2023.2">
  <Information>
    <Solution>C:\proj\proj.sln</Solution>
  </Information>
  <IssueTypes>
    <IssueType Id="X" Category="Style" Description="Test rule" Severity="Warning" WikiUrl="https://example.com/rules/X" />
    <IssueType Id="Y" Severity="ERROR" />
    <IssueType Id="Z" Severity="cosmetic" />
  </IssueTypes>
  <Issues>
    <Project Name="P">
      <Issue TypeId="X" File="src\a.cs" Line="10" Message="bad" />
      <Issue TypeId="Y" File="src\b.cs" Line="20" Message="worse" />
    </Project>
    <Project Name="Q">
      <Issue TypeId="Z" File="c.cs" Line="3" Message="meh" />
    </Project>
  </Issues>
</Report>`

var invalidXML = `<Report><Issues>`

func mustParse(t *testing.T, data string, opts *Options) *Report {
	t.Helper()
	report, err := NewParser(opts).ParseBytes([]byte(data))
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	return report
}

func mustIssues(t *testing.T, data string, opts *Options) []Issue {
	t.Helper()
	issues, err := mustParse(t, data, opts).Issues()
	if err != nil {
		t.Fatalf("unexpected extraction error: %v", err)
	}
	return issues
}

func TestNewParser(t *testing.T) {
	t.Run("with nil options uses defaults", func(t *testing.T) {
		p := NewParser(nil)
		if p == nil {
			t.Fatal("expected parser, got nil")
		}
		if p.opts.MessageFormat != MessageFormatPlain {
			t.Errorf("expected plain message format, got %s", p.opts.MessageFormat)
		}
	})

	t.Run("with custom options", func(t *testing.T) {
		p := NewParser(&Options{MinPriority: PriorityWarning, MaxIssues: 5})
		if p.opts.MinPriority != PriorityWarning {
			t.Errorf("expected MinPriority %s, got %s", PriorityWarning, p.opts.MinPriority)
		}
		if p.opts.MaxIssues != 5 {
			t.Errorf("expected MaxIssues 5, got %d", p.opts.MaxIssues)
		}
	})
}

func TestParser_ParseBytes(t *testing.T) {
	t.Run("valid report", func(t *testing.T) {
		report := mustParse(t, validReport, nil)
		if report.SolutionDir() != "C:/proj" {
			t.Errorf("expected solution dir C:/proj, got %s", report.SolutionDir())
		}
		if len(report.IssueTypes()) != 3 {
			t.Errorf("expected 3 issue types, got %d", len(report.IssueTypes()))
		}
	})

	t.Run("invalid XML", func(t *testing.T) {
		_, err := NewParser(nil).ParseBytes([]byte(invalidXML))
		if !errors.Is(err, ErrMalformedReport) {
			t.Fatalf("expected ErrMalformedReport, got: %v", err)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := NewParser(nil).ParseBytes(nil)
		if !errors.Is(err, ErrMalformedReport) {
			t.Fatalf("expected ErrMalformedReport, got: %v", err)
		}
	})

	t.Run("missing solution", func(t *testing.T) {
		data := `<Report><Issues><Project Name="P"/></Issues></Report>`
		_, err := NewParser(nil).ParseBytes([]byte(data))
		if !errors.Is(err, ErrMissingSolution) {
			t.Fatalf("expected ErrMissingSolution, got: %v", err)
		}
	})

	t.Run("multiple solutions", func(t *testing.T) {
		data := `<Report>
			<Information><Solution>a\a.sln</Solution><Solution>b\b.sln</Solution></Information>
		</Report>`
		_, err := NewParser(nil).ParseBytes([]byte(data))
		if !errors.Is(err, ErrMultipleSolutions) {
			t.Fatalf("expected ErrMultipleSolutions, got: %v", err)
		}
	})

	t.Run("unknown encoding override", func(t *testing.T) {
		_, err := NewParser(&Options{Encoding: "no-such-charset"}).ParseBytes([]byte(validReport))
		if !errors.Is(err, ErrMalformedReport) {
			t.Fatalf("expected ErrMalformedReport, got: %v", err)
		}
	})
}

func TestParser_NonUTF8Reports(t *testing.T) {
	// "привет" encoded as windows-1251.
	cp1251Message := "\xef\xf0\xe8\xe2\xe5\xf2"
	body := `<Report>
		<Information><Solution>C:\proj\proj.sln</Solution></Information>
		<IssueTypes><IssueType Id="X" Severity="Warning" /></IssueTypes>
		<Issues>
			<Project Name="P">
				<Issue TypeId="X" File="a.cs" Line="1" Message="` + cp1251Message + `" />
			</Project>
		</Issues>
	</Report>`

	assertDecoded := func(t *testing.T, issues []Issue) {
		t.Helper()
		if len(issues) != 1 {
			t.Fatalf("expected 1 issue, got %d", len(issues))
		}
		if issues[0].Message != "привет" {
			t.Errorf("expected transcoded message %q, got %q", "привет", issues[0].Message)
		}
	}

	t.Run("charset from XML declaration", func(t *testing.T) {
		data := `<?xml version="1.0" encoding="windows-1251"?>` + "\n" + body
		assertDecoded(t, mustIssues(t, data, nil))
	})

	t.Run("charset from encoding override", func(t *testing.T) {
		assertDecoded(t, mustIssues(t, body, &Options{Encoding: "windows-1251"}))
	})

	t.Run("override beats a wrong declaration", func(t *testing.T) {
		// The override transcodes up front; the stale label in the
		// declaration must not trigger a second conversion.
		data := `<?xml version="1.0" encoding="utf-8"?>` + "\n" + body
		assertDecoded(t, mustIssues(t, data, &Options{Encoding: "windows-1251"}))
	})
}

func TestParser_Parse(t *testing.T) {
	report, err := NewParser(nil).Parse(strings.NewReader(validReport))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.SolutionDir() != "C:/proj" {
		t.Errorf("expected solution dir C:/proj, got %s", report.SolutionDir())
	}
}

// Emitted paths use forward slashes on every host platform; solution-dir
// resolution deliberately goes through path, not filepath.
func TestReport_Issues_RoundTrip(t *testing.T) {
	data := `<Report>
		<Information><Solution>C:\proj\proj.sln</Solution></Information>
		<IssueTypes><IssueType Id="X" Severity="Warning" /></IssueTypes>
		<Issues>
			<Project Name="P">
				<Issue TypeId="X" File="src/a.cs" Line="10" Message="bad" />
			</Project>
		</Issues>
	</Report>`

	issues := mustIssues(t, data, nil)
	if len(issues) != 1 {
		t.Fatalf("expected exactly 1 issue, got %d", len(issues))
	}

	issue := issues[0]
	if issue.Provider != ProviderName {
		t.Errorf("expected provider %s, got %s", ProviderName, issue.Provider)
	}
	if issue.Project != "P" {
		t.Errorf("expected project P, got %s", issue.Project)
	}
	if issue.FilePath != "C:/proj/src/a.cs" {
		t.Errorf("expected file C:/proj/src/a.cs, got %s", issue.FilePath)
	}
	if issue.Line != 10 {
		t.Errorf("expected line 10, got %d", issue.Line)
	}
	if issue.RuleID != "X" {
		t.Errorf("expected rule X, got %s", issue.RuleID)
	}
	if issue.Priority != PriorityWarning {
		t.Errorf("expected warning priority, got %s", issue.Priority)
	}
	if issue.Message != "bad" {
		t.Errorf("expected message bad, got %s", issue.Message)
	}
}

func TestReport_Issues_RootedFilePaths(t *testing.T) {
	// Rooted file attributes must not be joined onto the solution
	// directory a second time.
	data := `<Report>
		<Information><Solution>C:\proj\proj.sln</Solution></Information>
		<IssueTypes><IssueType Id="X" Severity="Warning" /></IssueTypes>
		<Issues>
			<Project Name="P">
				<Issue TypeId="X" File="C:\proj\src\a.cs" Line="1" Message="drive rooted" />
				<Issue TypeId="X" File="D:\other\b.cs" Line="2" Message="outside solution" />
				<Issue TypeId="X" File="/opt/src/c.cs" Line="3" Message="unix rooted" />
				<Issue TypeId="X" File="src\d.cs" Line="4" Message="relative" />
			</Project>
		</Issues>
	</Report>`

	issues := mustIssues(t, data, nil)
	if len(issues) != 4 {
		t.Fatalf("expected 4 issues, got %d", len(issues))
	}

	wantPaths := []string{
		"C:/proj/src/a.cs",
		"D:/other/b.cs",
		"/opt/src/c.cs",
		"C:/proj/src/d.cs",
	}
	for i, want := range wantPaths {
		if issues[i].FilePath != want {
			t.Errorf("issue %d: expected file %s, got %s", i, want, issues[i].FilePath)
		}
	}
}

func TestReport_Issues_Order(t *testing.T) {
	issues := mustIssues(t, validReport, nil)
	if len(issues) != 3 {
		t.Fatalf("expected 3 issues, got %d", len(issues))
	}
	wantRules := []string{"X", "Y", "Z"}
	for i, issue := range issues {
		if issue.RuleID != wantRules[i] {
			t.Errorf("issue %d: expected rule %s, got %s", i, wantRules[i], issue.RuleID)
		}
	}
	if issues[0].Project != "P" || issues[2].Project != "Q" {
		t.Error("expected document order across projects")
	}
}

func TestReport_Issues_SkipIncomplete(t *testing.T) {
	// Each variant breaks exactly one guarded field of the middle finding;
	// the surrounding findings must be unaffected.
	cases := []struct {
		name   string
		broken string
	}{
		{"missing file", `<Issue TypeId="X" Line="2" Message="m" />`},
		{"blank file", `<Issue TypeId="X" File="  " Line="2" Message="m" />`},
		{"missing line", `<Issue TypeId="X" File="b.cs" Message="m" />`},
		{"missing rule", `<Issue File="b.cs" Line="2" Message="m" />`},
		{"missing message", `<Issue TypeId="X" File="b.cs" Line="2" />`},
		{"blank message", `<Issue TypeId="X" File="b.cs" Line="2" Message="   " />`},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			data := `<Report>
				<Information><Solution>s\s.sln</Solution></Information>
				<IssueTypes><IssueType Id="X" Severity="Warning" /></IssueTypes>
				<Issues>
					<Project Name="P">
						<Issue TypeId="X" File="a.cs" Line="1" Message="first" />
						` + tt.broken + `
						<Issue TypeId="X" File="c.cs" Line="3" Message="last" />
					</Project>
				</Issues>
			</Report>`

			issues := mustIssues(t, data, nil)
			if len(issues) != 2 {
				t.Fatalf("expected 2 issues, got %d", len(issues))
			}
			if issues[0].Message != "first" || issues[1].Message != "last" {
				t.Errorf("expected surrounding issues untouched, got %q and %q",
					issues[0].Message, issues[1].Message)
			}
		})
	}
}

func TestReport_Issues_ProjectResolution(t *testing.T) {
	t.Run("no project ancestor skips finding", func(t *testing.T) {
		data := `<Report>
			<Information><Solution>s\s.sln</Solution></Information>
			<IssueTypes><IssueType Id="X" Severity="Warning" /></IssueTypes>
			<Issues>
				<Issue TypeId="X" File="a.cs" Line="1" Message="orphan" />
			</Issues>
		</Report>`
		if issues := mustIssues(t, data, nil); len(issues) != 0 {
			t.Errorf("expected 0 issues, got %d", len(issues))
		}
	})

	t.Run("blank project name skips finding", func(t *testing.T) {
		data := `<Report>
			<Information><Solution>s\s.sln</Solution></Information>
			<IssueTypes><IssueType Id="X" Severity="Warning" /></IssueTypes>
			<Issues>
				<Project Name="  ">
					<Issue TypeId="X" File="a.cs" Line="1" Message="m" />
				</Project>
			</Issues>
		</Report>`
		if issues := mustIssues(t, data, nil); len(issues) != 0 {
			t.Errorf("expected 0 issues, got %d", len(issues))
		}
	})

	t.Run("nearest ancestor wins for nested projects", func(t *testing.T) {
		data := `<Report>
			<Information><Solution>s\s.sln</Solution></Information>
			<IssueTypes><IssueType Id="X" Severity="Warning" /></IssueTypes>
			<Issues>
				<Project Name="Outer">
					<Project Name="Inner">
						<Issue TypeId="X" File="a.cs" Line="1" Message="m" />
					</Project>
				</Project>
			</Issues>
		</Report>`
		issues := mustIssues(t, data, nil)
		if len(issues) != 1 || issues[0].Project != "Inner" {
			t.Fatalf("expected 1 issue owned by Inner, got %+v", issues)
		}
	})
}

func TestReport_Issues_InvalidLineIsFatal(t *testing.T) {
	data := `<Report>
		<Information><Solution>s\s.sln</Solution></Information>
		<IssueTypes><IssueType Id="X" Severity="Warning" /></IssueTypes>
		<Issues>
			<Project Name="P">
				<Issue TypeId="X" File="a.cs" Line="abc" Message="m" />
				<Issue TypeId="X" File="b.cs" Line="2" Message="valid" />
			</Project>
		</Issues>
	</Report>`

	_, err := mustParse(t, data, nil).Issues()
	if !errors.Is(err, ErrInvalidLine) {
		t.Fatalf("expected ErrInvalidLine, got: %v", err)
	}
}

func TestReport_Issues_UnknownTypeIsFatal(t *testing.T) {
	data := `<Report>
		<Information><Solution>s\s.sln</Solution></Information>
		<IssueTypes><IssueType Id="X" Severity="Warning" /></IssueTypes>
		<Issues>
			<Project Name="P">
				<Issue TypeId="NOPE" File="a.cs" Line="1" Message="m" />
			</Project>
		</Issues>
	</Report>`

	_, err := mustParse(t, data, nil).Issues()
	if !errors.Is(err, ErrUnknownIssueType) {
		t.Fatalf("expected ErrUnknownIssueType, got: %v", err)
	}
}

func TestReport_Issues_SeverityMapping(t *testing.T) {
	issues := mustIssues(t, validReport, nil)
	if issues[0].Priority != PriorityWarning {
		t.Errorf("expected warning, got %s", issues[0].Priority)
	}
	if issues[1].Priority != PriorityError {
		t.Errorf("expected error for severity ERROR, got %s", issues[1].Priority)
	}
	// Unknown severity degrades, never fails.
	if issues[2].Priority != PriorityUndefined {
		t.Errorf("expected undefined for severity cosmetic, got %s", issues[2].Priority)
	}
}

func TestReport_Issues_RuleURL(t *testing.T) {
	issues := mustIssues(t, validReport, nil)
	if issues[0].RuleURL != "https://example.com/rules/X" {
		t.Errorf("expected wiki url, got %q", issues[0].RuleURL)
	}
	if issues[1].RuleURL != "" {
		t.Errorf("expected empty rule url, got %q", issues[1].RuleURL)
	}
}

func TestReport_Issues_MessageFormatPassThrough(t *testing.T) {
	issues := mustIssues(t, validReport, &Options{MessageFormat: MessageFormatMarkdown})
	for _, issue := range issues {
		if issue.MessageFormat != MessageFormatMarkdown {
			t.Fatalf("expected markdown format on every issue, got %s", issue.MessageFormat)
		}
	}
}

func TestReport_Issues_MinPriority(t *testing.T) {
	issues := mustIssues(t, validReport, &Options{MinPriority: PriorityError})
	if len(issues) != 1 || issues[0].RuleID != "Y" {
		t.Fatalf("expected only the error issue, got %+v", issues)
	}
}

func TestReport_Issues_MaxIssues(t *testing.T) {
	issues := mustIssues(t, validReport, &Options{MaxIssues: 2})
	if len(issues) != 2 {
		t.Fatalf("expected 2 issues, got %d", len(issues))
	}
}

func TestBuildTypeIndex(t *testing.T) {
	t.Run("malformed wiki url treated as absent", func(t *testing.T) {
		data := `<Report>
			<Information><Solution>s\s.sln</Solution></Information>
			<IssueTypes><IssueType Id="X" Severity="Warning" WikiUrl="not a uri" /></IssueTypes>
			<Issues>
				<Project Name="P">
					<Issue TypeId="X" File="a.cs" Line="1" Message="m" />
				</Project>
			</Issues>
		</Report>`
		issues := mustIssues(t, data, nil)
		if len(issues) != 1 {
			t.Fatalf("expected 1 issue, got %d", len(issues))
		}
		if issues[0].RuleURL != "" {
			t.Errorf("expected absent rule url, got %q", issues[0].RuleURL)
		}
	})

	t.Run("duplicate identifier last one wins", func(t *testing.T) {
		data := `<Report>
			<Information><Solution>s\s.sln</Solution></Information>
			<IssueTypes>
				<IssueType Id="X" Severity="Hint" />
				<IssueType Id="X" Severity="Error" />
			</IssueTypes>
			<Issues>
				<Project Name="P">
					<Issue TypeId="X" File="a.cs" Line="1" Message="m" />
				</Project>
			</Issues>
		</Report>`
		issues := mustIssues(t, data, nil)
		if len(issues) != 1 || issues[0].Priority != PriorityError {
			t.Fatalf("expected last declaration to win, got %+v", issues)
		}
	})

	t.Run("zero declarations is not itself an error", func(t *testing.T) {
		data := `<Report>
			<Information><Solution>s\s.sln</Solution></Information>
			<Issues><Project Name="P"></Project></Issues>
		</Report>`
		if issues := mustIssues(t, data, nil); len(issues) != 0 {
			t.Errorf("expected 0 issues, got %d", len(issues))
		}
	})
}

func TestPriorityForSeverity(t *testing.T) {
	tests := []struct {
		severity string
		want     Priority
	}{
		{"hint", PriorityHint},
		{"HINT", PriorityHint},
		{"suggestion", PrioritySuggestion},
		{"Suggestion", PrioritySuggestion},
		{"warning", PriorityWarning},
		{"Warning", PriorityWarning},
		{"WARNING", PriorityWarning},
		{"error", PriorityError},
		{"Error", PriorityError},
		{"cosmetic", PriorityUndefined},
		{"", PriorityUndefined},
	}

	for _, tt := range tests {
		t.Run(tt.severity, func(t *testing.T) {
			if got := PriorityForSeverity(tt.severity); got != tt.want {
				t.Errorf("PriorityForSeverity(%q) = %s, want %s", tt.severity, got, tt.want)
			}
		})
	}
}

func TestPriority_IsValid(t *testing.T) {
	tests := []struct {
		priority Priority
		valid    bool
	}{
		{PriorityUndefined, true},
		{PriorityHint, true},
		{PrioritySuggestion, true},
		{PriorityWarning, true},
		{PriorityError, true},
		{"", true},
		{"critical", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.priority), func(t *testing.T) {
			if got := tt.priority.IsValid(); got != tt.valid {
				t.Errorf("Priority(%q).IsValid() = %v, want %v", tt.priority, got, tt.valid)
			}
		})
	}
}

func TestNode_Navigation(t *testing.T) {
	report := mustParse(t, validReport, nil)

	issues := report.root.Descendants("Issue")
	if len(issues) != 3 {
		t.Fatalf("expected 3 issue nodes, got %d", len(issues))
	}

	project := issues[0].FindAncestor("Project")
	if project == nil || project.Attr("Name") != "P" {
		t.Fatal("expected nearest Project ancestor named P")
	}
	if issues[0].FindAncestor("Report") == nil {
		t.Error("expected Report ancestor")
	}
	if issues[0].FindAncestor("Nope") != nil {
		t.Error("expected nil for missing ancestor tag")
	}

	solutions := report.root.Descendants("Solution")
	if len(solutions) != 1 || solutions[0].Text() != `C:\proj\proj.sln` {
		t.Fatalf("expected solution text, got %+v", solutions)
	}
}
