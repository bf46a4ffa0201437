// Package convert orchestrates report conversion for the CLI and HTTP
// surfaces: parsing, issue extraction, instrumentation and logging. The
// parser package itself stays silent; everything observable happens here.
package convert

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/openctemio/inspectcode/internal/metrics"
	"github.com/openctemio/inspectcode/pkg/logger"
	"github.com/openctemio/inspectcode/pkg/parsers/inspectcode"
)

// Service converts raw InspectCode reports into normalized issues.
type Service struct {
	parser *inspectcode.Parser
	log    *logger.Logger
}

// NewService creates a conversion service. A nil opts uses parser defaults;
// a nil log discards output.
func NewService(opts *inspectcode.Options, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{
		parser: inspectcode.NewParser(opts),
		log:    log,
	}
}

// Result holds the outcome of one conversion.
type Result struct {
	Issues      []inspectcode.Issue `json:"issues"`
	SolutionDir string              `json:"solutionDir"`
	Stats       inspectcode.Stats   `json:"stats"`
}

// Convert parses the report bytes and extracts normalized issues.
func (s *Service) Convert(ctx context.Context, data []byte) (*Result, error) {
	log := s.log.WithContext(ctx)
	start := time.Now()

	metrics.ReportSizeBytes.Observe(float64(len(data)))

	report, err := s.parser.ParseBytes(data)
	if err != nil {
		metrics.ConversionsTotal.WithLabelValues(metrics.StatusParseError).Inc()
		log.Error("report parse failed", "error", err)
		return nil, fmt.Errorf("parse report: %w", err)
	}

	issues, err := report.Issues()
	if err != nil {
		metrics.ConversionsTotal.WithLabelValues(metrics.StatusExtractError).Inc()
		log.Error("issue extraction failed", "error", err)
		return nil, fmt.Errorf("extract issues: %w", err)
	}

	metrics.ConversionsTotal.WithLabelValues(metrics.StatusOK).Inc()
	for _, issue := range issues {
		metrics.IssuesTotal.WithLabelValues(string(issue.Priority)).Inc()
	}
	duration := time.Since(start)
	metrics.ConversionDuration.Observe(duration.Seconds())

	log.Info("report converted",
		"issues", len(issues),
		"solution_dir", report.SolutionDir(),
		"duration", duration,
	)

	return &Result{
		Issues:      issues,
		SolutionDir: report.SolutionDir(),
		Stats:       inspectcode.CalculateStats(issues),
	}, nil
}

// ConvertFile reads the report at path and converts it.
func (s *Service) ConvertFile(ctx context.Context, path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	return s.Convert(ctx, data)
}
