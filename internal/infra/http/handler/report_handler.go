// Package handler implements the converter's HTTP handlers.
package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/openctemio/inspectcode/internal/app/convert"
	"github.com/openctemio/inspectcode/internal/infra/http/middleware"
	"github.com/openctemio/inspectcode/pkg/apierror"
	"github.com/openctemio/inspectcode/pkg/export/sarif"
	"github.com/openctemio/inspectcode/pkg/logger"
	"github.com/openctemio/inspectcode/pkg/parsers/inspectcode"
	"github.com/openctemio/inspectcode/pkg/validator"
)

// Output format constants.
const (
	formatJSON  = "json"
	formatSARIF = "sarif"
)

// ReportHandler converts posted InspectCode reports.
type ReportHandler struct {
	service  *convert.Service
	validate *validator.Validator
	log      *logger.Logger
}

// NewReportHandler creates a new report handler.
func NewReportHandler(svc *convert.Service, v *validator.Validator, log *logger.Logger) *ReportHandler {
	return &ReportHandler{
		service:  svc,
		validate: v,
		log:      log,
	}
}

// ConvertOptions are the caller-controlled knobs of one conversion request,
// bound from query parameters.
type ConvertOptions struct {
	Format      string `json:"format" validate:"omitempty,oneof=json sarif"`
	MinPriority string `json:"min_priority" validate:"omitempty,priority"`
	MaxIssues   int    `json:"max_issues" validate:"omitempty,min=1"`
}

// ConvertResponse is the JSON response for a successful conversion.
type ConvertResponse struct {
	Provider    string              `json:"provider"`
	SolutionDir string              `json:"solution_dir"`
	Count       int                 `json:"count"`
	Issues      []inspectcode.Issue `json:"issues"`
	Stats       inspectcode.Stats   `json:"stats"`
}

// Convert handles POST /api/v1/reports. The body is one raw InspectCode XML
// report; the response is the normalized issue sequence as JSON or SARIF.
func (h *ReportHandler) Convert(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	opts, err := h.bindOptions(r)
	if err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			apierror.ValidationFailed("invalid conversion options", verrs).WriteJSONWithRequestID(w, requestID)
			return
		}
		apierror.BadRequest(err.Error()).WriteJSONWithRequestID(w, requestID)
		return
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		apierror.BadRequest("failed to read request body").WithError(err).WriteJSONWithRequestID(w, requestID)
		return
	}
	if len(data) == 0 {
		apierror.BadRequest("request body is empty").WriteJSONWithRequestID(w, requestID)
		return
	}

	result, err := h.service.Convert(r.Context(), data)
	if err != nil {
		h.writeConvertError(w, requestID, err)
		return
	}

	issues := inspectcode.FilterByMinPriority(result.Issues, inspectcode.Priority(opts.MinPriority))
	if opts.MaxIssues > 0 && len(issues) > opts.MaxIssues {
		issues = issues[:opts.MaxIssues]
	}

	switch opts.Format {
	case formatSARIF:
		w.Header().Set("Content-Type", "application/sarif+json")
		w.Header().Set("X-Request-ID", requestID)
		if err := sarif.FromIssues(issues, "").Write(w); err != nil {
			h.log.WithContext(r.Context()).Error("failed to write sarif response", "error", err)
		}
	default:
		writeJSON(w, http.StatusOK, requestID, ConvertResponse{
			Provider:    inspectcode.ProviderName,
			SolutionDir: result.SolutionDir,
			Count:       len(issues),
			Issues:      issues,
			Stats:       inspectcode.CalculateStats(issues),
		})
	}
}

// bindOptions parses and validates conversion options from query parameters.
func (h *ReportHandler) bindOptions(r *http.Request) (ConvertOptions, error) {
	q := r.URL.Query()
	opts := ConvertOptions{
		Format:      q.Get("format"),
		MinPriority: q.Get("min_priority"),
	}
	if raw := q.Get("max_issues"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return opts, errors.New("max_issues must be an integer")
		}
		opts.MaxIssues = n
	}

	if err := h.validate.ValidateStruct(opts); err != nil {
		return opts, err
	}
	return opts, nil
}

// writeConvertError maps conversion failures onto API errors. Every fatal
// conversion error here is a defect in the posted report, not in the server.
func (h *ReportHandler) writeConvertError(w http.ResponseWriter, requestID string, err error) {
	switch {
	case errors.Is(err, inspectcode.ErrMalformedReport):
		apierror.BadRequest("report is not well-formed XML").WithError(err).WriteJSONWithRequestID(w, requestID)
	case errors.Is(err, inspectcode.ErrMissingSolution),
		errors.Is(err, inspectcode.ErrMultipleSolutions),
		errors.Is(err, inspectcode.ErrInvalidLine),
		errors.Is(err, inspectcode.ErrUnknownIssueType):
		apierror.ValidationFailed("report failed conversion", err.Error()).WriteJSONWithRequestID(w, requestID)
	default:
		apierror.InternalError(err).WriteJSONWithRequestID(w, requestID)
	}
}
