package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/openctemio/inspectcode/internal/app/convert"
	"github.com/openctemio/inspectcode/pkg/export/sarif"
	"github.com/openctemio/inspectcode/pkg/logger"
	"github.com/openctemio/inspectcode/pkg/parsers/inspectcode"
)

var (
	flagOutput        string
	flagOutFile       string
	flagEncoding      string
	flagMinPriority   string
	flagMessageFormat string
	flagMaxIssues     int
	flagVerbose       bool
)

var convertCmd = &cobra.Command{
	Use:   "convert <report.xml>",
	Short: "Convert an InspectCode report to normalized issues",
	Long: `Convert reads an InspectCode XML report and emits the normalized issues.

Pass "-" as the report path to read from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringVarP(&flagOutput, "output", "o", outputJSON, "Output format: json, yaml, sarif")
	convertCmd.Flags().StringVar(&flagOutFile, "out", "", "Write output to file instead of stdout")
	convertCmd.Flags().StringVar(&flagEncoding, "encoding", "", "Override the report's character encoding (e.g. utf-16)")
	convertCmd.Flags().StringVar(&flagMinPriority, "min-priority", "", "Drop issues below this priority: hint, suggestion, warning, error")
	convertCmd.Flags().StringVar(&flagMessageFormat, "message-format", "plain", "Message format to stamp on issues: plain, markdown, html")
	convertCmd.Flags().IntVar(&flagMaxIssues, "max-issues", 0, "Cap the number of emitted issues (0 = unlimited)")
	convertCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable verbose logging")
}

func runConvert(cmd *cobra.Command, args []string) error {
	opts, err := parserOptions()
	if err != nil {
		return err
	}

	log := logger.NewNop()
	if flagVerbose {
		log = logger.NewDevelopment()
	}
	svc := convert.NewService(opts, log)

	data, err := readReport(args[0])
	if err != nil {
		return err
	}

	result, err := svc.Convert(cmd.Context(), data)
	if err != nil {
		return err
	}

	out, closeOut, err := openOutput()
	if err != nil {
		return err
	}
	defer closeOut()

	switch flagOutput {
	case outputJSON:
		return writeJSON(out, result)
	case outputYAML:
		return writeYAML(out, result)
	case outputSARIF:
		return sarif.FromIssues(result.Issues, version).Write(out)
	default:
		return fmt.Errorf("unknown output format %q (expected json, yaml, or sarif)", flagOutput)
	}
}

func parserOptions() (*inspectcode.Options, error) {
	mf := inspectcode.MessageFormat(flagMessageFormat)
	if !mf.IsValid() {
		return nil, fmt.Errorf("invalid message format %q (expected plain, markdown, or html)", flagMessageFormat)
	}

	var min inspectcode.Priority
	if flagMinPriority != "" {
		min = inspectcode.Priority(flagMinPriority)
		if !min.IsValid() {
			return nil, fmt.Errorf("invalid priority %q (expected hint, suggestion, warning, or error)", flagMinPriority)
		}
	}

	return &inspectcode.Options{
		Encoding:      flagEncoding,
		MessageFormat: mf,
		MinPriority:   min,
		MaxIssues:     flagMaxIssues,
	}, nil
}

func readReport(path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	return data, nil
}

func openOutput() (io.Writer, func(), error) {
	if flagOutFile == "" {
		return os.Stdout, func() {}, nil
	}

	f, err := os.Create(flagOutFile)
	if err != nil {
		return nil, nil, fmt.Errorf("create output file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}
