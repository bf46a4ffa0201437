package inspectcode

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"strconv"
	"strings"

	"golang.org/x/net/html/charset"
)

// Parser errors. ErrMalformedReport, the solution-count errors, ErrInvalidLine
// and ErrUnknownIssueType abort the whole conversion; everything else about a
// single finding is recovered by skipping that finding.
var (
	ErrMalformedReport   = errors.New("malformed InspectCode report")
	ErrMissingSolution   = errors.New("report declares no solution")
	ErrMultipleSolutions = errors.New("report declares more than one solution")
	ErrInvalidLine       = errors.New("invalid line number")
	ErrUnknownIssueType  = errors.New("unknown issue type")
)

// Parser parses InspectCode XML report files.
type Parser struct {
	opts *Options
}

// Options configures the parser behavior.
type Options struct {
	// Encoding overrides the charset declared by the report itself.
	// Accepts IANA labels such as "utf-8" or "windows-1251". Empty means
	// the report's own XML declaration decides.
	Encoding string

	// MessageFormat is attached verbatim to every emitted issue.
	MessageFormat MessageFormat

	// MinPriority drops issues below this priority. Empty disables the
	// filter; the plain conversion then preserves every valid finding.
	MinPriority Priority

	// MaxIssues limits the number of issues returned (0 = unlimited).
	MaxIssues int
}

// DefaultOptions returns the default parser options.
func DefaultOptions() *Options {
	return &Options{
		MessageFormat: MessageFormatPlain,
	}
}

// NewParser creates a new InspectCode report parser with the given options.
// If opts is nil, default options are used.
func NewParser(opts *Options) *Parser {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &Parser{opts: opts}
}

// ParseFile parses an InspectCode report from the given path.
func (p *Parser) ParseFile(path string) (*Report, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return p.Parse(file)
}

// Parse parses report content from a reader.
func (p *Parser) Parse(r io.Reader) (*Report, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read content: %w", err)
	}

	return p.ParseBytes(data)
}

// ParseBytes parses report content from bytes. It builds the report tree,
// verifies the single-solution precondition and builds the issue-type index.
// Individual findings are not touched until Issues is called.
func (p *Parser) ParseBytes(data []byte) (*Report, error) {
	dec, err := p.newDecoder(data)
	if err != nil {
		return nil, err
	}

	root, err := decodeTree(dec)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedReport, err)
	}

	solutionDir, err := solutionDirectory(root)
	if err != nil {
		return nil, err
	}

	return &Report{
		root:        root,
		types:       buildTypeIndex(root),
		solutionDir: solutionDir,
		opts:        p.opts,
	}, nil
}

// newDecoder sets up an XML decoder honoring either the caller-supplied
// encoding override or the charset the document declares.
func (p *Parser) newDecoder(data []byte) (*xml.Decoder, error) {
	if p.opts.Encoding == "" {
		dec := xml.NewDecoder(bytes.NewReader(data))
		dec.CharsetReader = charset.NewReaderLabel
		return dec, nil
	}

	r, err := charset.NewReaderLabel(p.opts.Encoding, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: encoding %q: %v", ErrMalformedReport, p.opts.Encoding, err)
	}
	dec := xml.NewDecoder(r)
	// Input is already transcoded; ignore whatever the XML declaration says.
	dec.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) {
		return input, nil
	}
	return dec, nil
}

// solutionDirectory reads the unique Solution declaration and strips its
// final path segment. Zero or multiple declarations are structural errors
// that fail the whole conversion.
func solutionDirectory(root *Node) (string, error) {
	solutions := root.Descendants("Solution")
	switch len(solutions) {
	case 0:
		return "", ErrMissingSolution
	case 1:
		return path.Dir(toSlash(solutions[0].Text())), nil
	default:
		return "", fmt.Errorf("%w: found %d", ErrMultipleSolutions, len(solutions))
	}
}

// buildTypeIndex scans every IssueType declaration into a lookup table keyed
// by rule identifier. Duplicate identifiers overwrite: last one wins.
func buildTypeIndex(root *Node) map[string]IssueType {
	index := make(map[string]IssueType)
	for _, node := range root.Descendants("IssueType") {
		id := node.Attr("Id")
		if id == "" {
			continue
		}
		entry := IssueType{
			ID:          id,
			Severity:    node.Attr("Severity"),
			Category:    node.Attr("Category"),
			Description: node.Attr("Description"),
		}
		if raw := node.Attr("WikiUrl"); raw != "" {
			// A WikiUrl that does not parse as an absolute URI is treated
			// as absent, not as an error.
			if u, err := url.Parse(raw); err == nil && u.IsAbs() {
				entry.WikiURL = u.String()
			}
		}
		index[id] = entry
	}
	return index
}

// Report is one parsed InspectCode report: the element tree, the issue-type
// index and the resolved solution directory. A Report is freshly built per
// conversion and safe for concurrent reads.
type Report struct {
	root        *Node
	types       map[string]IssueType
	solutionDir string
	opts        *Options
}

// SolutionDir returns the directory of the declared solution, the root
// against which finding file paths are resolved.
func (r *Report) SolutionDir() string {
	return r.solutionDir
}

// IssueTypes returns the issue-type index keyed by rule identifier.
// The returned map must not be modified.
func (r *Report) IssueTypes() map[string]IssueType {
	return r.types
}

// Issues extracts every finding into a normalized issue, preserving the
// report's document order. A finding missing its project ancestor, file,
// line, rule id or message is silently skipped; a non-numeric line or a rule
// id absent from the issue-type index fails the whole conversion.
func (r *Report) Issues() ([]Issue, error) {
	var issues []Issue
	for _, node := range r.root.Descendants("Issue") {
		issue, ok, err := r.extractIssue(node)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if r.opts.MinPriority != "" && issue.Priority.rank() < r.opts.MinPriority.rank() {
			continue
		}
		issues = append(issues, issue)
		if r.opts.MaxIssues > 0 && len(issues) >= r.opts.MaxIssues {
			break
		}
	}
	return issues, nil
}

// extractIssue resolves one finding node. ok reports whether the finding had
// every guarded field; a false return with nil error means skip.
func (r *Report) extractIssue(node *Node) (Issue, bool, error) {
	project := node.FindAncestor("Project")
	if project == nil {
		return Issue{}, false, nil
	}
	projectName := strings.TrimSpace(project.Attr("Name"))
	if projectName == "" {
		return Issue{}, false, nil
	}

	file := strings.TrimSpace(node.Attr("File"))
	if file == "" {
		return Issue{}, false, nil
	}
	filePath := resolvePath(r.solutionDir, toSlash(file))

	rawLine := strings.TrimSpace(node.Attr("Line"))
	if rawLine == "" {
		return Issue{}, false, nil
	}
	line, err := strconv.Atoi(rawLine)
	if err != nil {
		// Presence is guarded, the numeric format is not: a line attribute
		// that exists but does not parse fails the whole conversion.
		return Issue{}, false, fmt.Errorf("%w: %q", ErrInvalidLine, rawLine)
	}

	ruleID := strings.TrimSpace(node.Attr("TypeId"))
	if ruleID == "" {
		return Issue{}, false, nil
	}

	message := strings.TrimSpace(node.Attr("Message"))
	if message == "" {
		return Issue{}, false, nil
	}

	entry, ok := r.types[ruleID]
	if !ok {
		// Unlike the guarded attribute lookups above, an index miss is
		// conversion-fatal.
		return Issue{}, false, fmt.Errorf("%w: %q", ErrUnknownIssueType, ruleID)
	}

	return Issue{
		Provider:      ProviderName,
		Project:       projectName,
		FilePath:      filePath,
		Line:          line,
		RuleID:        ruleID,
		RuleURL:       entry.WikiURL,
		Message:       message,
		MessageFormat: r.opts.MessageFormat,
		Severity:      entry.Severity,
		Priority:      PriorityForSeverity(entry.Severity),
	}, true, nil
}

// toSlash normalizes Windows path separators; InspectCode reports carry
// backslashed paths even for relative files.
func toSlash(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}

// resolvePath joins a finding's file attribute onto the solution directory.
// File attributes are normally solution-relative, but reports can carry
// rooted paths too; those are kept as-is rather than joined a second time.
func resolvePath(solutionDir, file string) string {
	if isRooted(file) {
		return path.Clean(file)
	}
	return path.Join(solutionDir, file)
}

// isRooted reports whether p (already slash-normalized) is absolute, either
// Unix-style or with a Windows drive letter.
func isRooted(p string) bool {
	if strings.HasPrefix(p, "/") {
		return true
	}
	if len(p) >= 2 && p[1] == ':' {
		c := p[0]
		return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
	}
	return false
}
