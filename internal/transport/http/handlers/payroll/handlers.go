package payrollhandler

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"hrpayroll/internal/domain/employee"
	"hrpayroll/internal/domain/payroll"
	"hrpayroll/internal/requestctx"
	"hrpayroll/internal/transport/http/api"
	"hrpayroll/internal/transport/http/middleware"
	"hrpayroll/internal/transport/http/shared"
)

const maxMultipartMemory = 8 << 20

type Service interface {
	Create(ctx context.Context, in payroll.Input) (*payroll.Record, error)
	Get(ctx context.Context, id int64) (*payroll.Record, error)
	Update(ctx context.Context, id int64, patch payroll.Patch) (*payroll.Record, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter payroll.Filter) ([]payroll.Record, int, error)
	Summary(ctx context.Context, employeeID int64, rng payroll.Range) (*payroll.Summary, error)
	Payslip(ctx context.Context, employeeID int64, rng payroll.Range, company payroll.Company) (*payroll.Payslip, error)
}

type Importer interface {
	Import(ctx context.Context, r io.Reader, filename string) (*payroll.ImportResult, error)
}

type Handler struct {
	Service  Service
	Importer Importer
	Company  payroll.Company
}

func NewHandler(service Service, importer Importer, company payroll.Company) *Handler {
	return &Handler{Service: service, Importer: importer, Company: company}
}

type recordPayload struct {
	EmployeeID            int64    `json:"employee_id" validate:"required,gt=0"`
	TimeIn                string   `json:"time_in" validate:"required"`
	TimeOut               string   `json:"time_out" validate:"required"`
	Date                  string   `json:"date"`
	TotalHoursWorked      *float64 `json:"total_hours_worked" validate:"omitempty,gte=0"`
	OvertimeHour          *float64 `json:"overtime_hour" validate:"omitempty,gte=0"`
	OvertimePay           *float64 `json:"overtime_pay"`
	NightDifferentialHour *float64 `json:"night_differential_hour" validate:"omitempty,gte=0"`
	NightDifferentialPay  *float64 `json:"night_differential_pay"`
	Deductions            *float64 `json:"deductions"`
	Allowance             *float64 `json:"allowance"`
	Subtotal              *float64 `json:"subtotal"`
	NetSalary             *float64 `json:"net_salary"`
	DeductionRemarks      string   `json:"deduction_remarks" validate:"max=1000"`
	Project               string   `json:"project" validate:"max=255"`
}

type patchPayload struct {
	EmployeeID            *int64   `json:"employee_id" validate:"omitempty,gt=0"`
	TimeIn                *string  `json:"time_in"`
	TimeOut               *string  `json:"time_out"`
	Date                  *string  `json:"date"`
	TotalHoursWorked      *float64 `json:"total_hours_worked" validate:"omitempty,gte=0"`
	OvertimeHour          *float64 `json:"overtime_hour" validate:"omitempty,gte=0"`
	OvertimePay           *float64 `json:"overtime_pay"`
	NightDifferentialHour *float64 `json:"night_differential_hour" validate:"omitempty,gte=0"`
	NightDifferentialPay  *float64 `json:"night_differential_pay"`
	Deductions            *float64 `json:"deductions"`
	Allowance             *float64 `json:"allowance"`
	Subtotal              *float64 `json:"subtotal"`
	NetSalary             *float64 `json:"net_salary"`
	DeductionRemarks      *string  `json:"deduction_remarks" validate:"omitempty,max=1000"`
	Project               *string  `json:"project" validate:"omitempty,max=255"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/payroll", func(r chi.Router) {
		r.Get("/", h.handleListRecords)
		r.Post("/", h.handleCreateRecord)
		r.Get("/summary", h.handleSummary)
		r.Get("/payslip/pdf", h.handlePayslipPDF)
		r.Get("/payslip/excel", h.handlePayslipExcel)
		r.Post("/import", h.handleImport)
		r.Get("/import/template", h.handleTemplate)
		r.Get("/export", h.handleExport)
		r.Route("/{payrollID}", func(r chi.Router) {
			r.Get("/", h.handleGetRecord)
			r.Put("/", h.handleUpdateRecord)
			r.Delete("/", h.handleDeleteRecord)
		})
	})
}

func (h *Handler) handleListRecords(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	v := shared.NewValidator()
	page := v.Page(r.URL.Query(), 100, 500)
	filter := payroll.Filter{
		EmployeeID: optionalEmployee(v, r),
		Range:      dateRange(v, r),
		Limit:      page.Limit,
		Offset:     page.Offset,
	}
	if v.Reject(w, reqID) {
		return
	}

	records, total, err := h.Service.List(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("X-Total-Count", strconv.Itoa(total))
	api.Success(w, records, reqID)
}

func (h *Handler) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload recordPayload
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	v.Struct(payload)
	in := payroll.Input{
		EmployeeID:            payload.EmployeeID,
		TotalHoursWorked:      payload.TotalHoursWorked,
		OvertimeHour:          payload.OvertimeHour,
		OvertimePay:           payload.OvertimePay,
		NightDifferentialHour: payload.NightDifferentialHour,
		NightDifferentialPay:  payload.NightDifferentialPay,
		Deductions:            payload.Deductions,
		Allowance:             payload.Allowance,
		Subtotal:              payload.Subtotal,
		NetSalary:             payload.NetSalary,
		DeductionRemarks:      payload.DeductionRemarks,
		Project:               payload.Project,
	}
	if payload.TimeIn != "" {
		in.TimeIn, _ = timestamp(v, "time_in", payload.TimeIn)
	}
	if payload.TimeOut != "" {
		in.TimeOut, _ = timestamp(v, "time_out", payload.TimeOut)
	}
	if day, ok := v.OptionalDate("date", payload.Date); ok {
		in.Date = &day
	}
	if v.Reject(w, reqID) {
		return
	}

	rec, err := h.Service.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	requestctx.Logger(r.Context()).Info("payroll record created",
		zap.Int64("payroll_id", rec.ID),
		zap.Int64("employee_id", rec.EmployeeID),
	)
	api.Created(w, rec, reqID)
}

func (h *Handler) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	id, ok := recordID(w, r)
	if !ok {
		return
	}
	rec, err := h.Service.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.Success(w, rec, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateRecord(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id, ok := recordID(w, r)
	if !ok {
		return
	}
	var payload patchPayload
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	v.Struct(payload)
	patch := payroll.Patch{
		EmployeeID:            payload.EmployeeID,
		TotalHoursWorked:      payload.TotalHoursWorked,
		OvertimeHour:          payload.OvertimeHour,
		OvertimePay:           payload.OvertimePay,
		NightDifferentialHour: payload.NightDifferentialHour,
		NightDifferentialPay:  payload.NightDifferentialPay,
		Deductions:            payload.Deductions,
		Allowance:             payload.Allowance,
		Subtotal:              payload.Subtotal,
		NetSalary:             payload.NetSalary,
		DeductionRemarks:      payload.DeductionRemarks,
		Project:               payload.Project,
	}
	if payload.TimeIn != nil {
		if t, ok := timestamp(v, "time_in", *payload.TimeIn); ok {
			patch.TimeIn = &t
		}
	}
	if payload.TimeOut != nil {
		if t, ok := timestamp(v, "time_out", *payload.TimeOut); ok {
			patch.TimeOut = &t
		}
	}
	if payload.Date != nil {
		if day, ok := v.Date("date", *payload.Date); ok {
			patch.Date = &day
		}
	}
	if v.Reject(w, reqID) {
		return
	}

	rec, err := h.Service.Update(r.Context(), id, patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.Success(w, rec, reqID)
}

func (h *Handler) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	id, ok := recordID(w, r)
	if !ok {
		return
	}
	if err := h.Service.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	requestctx.Logger(r.Context()).Info("payroll record deleted", zap.Int64("payroll_id", id))
	api.Success(w, map[string]int64{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	v := shared.NewValidator()
	empID := requiredEmployee(v, r)
	rng := dateRange(v, r)
	if v.Reject(w, reqID) {
		return
	}

	summary, err := h.Service.Summary(r.Context(), empID, rng)
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.Success(w, summary, reqID)
}

func (h *Handler) handlePayslipPDF(w http.ResponseWriter, r *http.Request) {
	h.renderPayslip(w, r, "pdf", payroll.ContentTypePDF, payroll.RenderPayslipPDF)
}

func (h *Handler) handlePayslipExcel(w http.ResponseWriter, r *http.Request) {
	h.renderPayslip(w, r, "xlsx", payroll.ContentTypeXLSX, payroll.RenderPayslipExcel)
}

func (h *Handler) renderPayslip(w http.ResponseWriter, r *http.Request, ext, contentType string, render func(payroll.Payslip) ([]byte, error)) {
	reqID := middleware.GetRequestID(r.Context())
	v := shared.NewValidator()
	empID := requiredEmployee(v, r)
	rng := dateRange(v, r)
	if v.Reject(w, reqID) {
		return
	}

	slip, err := h.Service.Payslip(r.Context(), empID, rng, h.Company)
	if err != nil {
		writeError(w, r, err)
		return
	}
	data, err := render(*slip)
	if err != nil {
		requestctx.Logger(r.Context()).Error("payslip render failed", zap.String("format", ext), zap.Error(err))
		api.Fail(w, http.StatusInternalServerError, "render_failed", "failed to render payslip", reqID)
		return
	}
	api.Attachment(w, contentType, slip.Filename(ext), data)
}

func (h *Handler) handleImport(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_file", "expected a multipart upload with a file field", reqID)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_file", "file is required", reqID)
		return
	}
	defer func() { _ = file.Close() }()

	result, err := h.Importer.Import(r.Context(), file, header.Filename)
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.Created(w, result, reqID)
}

func (h *Handler) handleTemplate(w http.ResponseWriter, r *http.Request) {
	data, err := payroll.Template()
	if err != nil {
		requestctx.Logger(r.Context()).Error("template render failed", zap.Error(err))
		api.Fail(w, http.StatusInternalServerError, "render_failed", "failed to build import template", middleware.GetRequestID(r.Context()))
		return
	}
	api.Attachment(w, payroll.ContentTypeXLSX, "payroll_template.xlsx", data)
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	v := shared.NewValidator()
	filter := payroll.Filter{
		EmployeeID: optionalEmployee(v, r),
		Range:      dateRange(v, r),
	}
	if v.Reject(w, reqID) {
		return
	}

	records, _, err := h.Service.List(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := payroll.WriteCSV(&buf, records); err != nil {
		requestctx.Logger(r.Context()).Error("payroll export failed", zap.Error(err))
		api.Fail(w, http.StatusInternalServerError, "export_failed", "failed to export payroll", reqID)
		return
	}
	api.Attachment(w, payroll.ContentTypeCSV, "payroll_export.csv", buf.Bytes())
}

func recordID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := shared.IDParam(r, "payrollID")
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "payroll id must be a positive integer", middleware.GetRequestID(r.Context()))
		return 0, false
	}
	return id, true
}

func optionalEmployee(v *shared.Validator, r *http.Request) int64 {
	raw := strings.TrimSpace(r.URL.Query().Get("employee_id"))
	if raw == "" {
		return 0
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		v.Add("employee_id", "must be a positive integer")
		return 0
	}
	return id
}

func requiredEmployee(v *shared.Validator, r *http.Request) int64 {
	if strings.TrimSpace(r.URL.Query().Get("employee_id")) == "" {
		v.Add("employee_id", "is required")
		return 0
	}
	return optionalEmployee(v, r)
}

func dateRange(v *shared.Validator, r *http.Request) payroll.Range {
	var rng payroll.Range
	query := r.URL.Query()
	if from, ok := v.OptionalDate("from", query.Get("from")); ok {
		rng.From = &from
	}
	if to, ok := v.OptionalDate("to", query.Get("to")); ok {
		rng.To = &to
	}
	if rng.From != nil && rng.To != nil {
		v.DateOrder("from", *rng.From, "to", *rng.To)
	}
	return rng
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// timestamp keeps the wall clock as written; offsets are dropped so the work
// date never shifts.
func timestamp(v *shared.Validator, field, raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC), true
		}
	}
	v.Add(field, "must be a timestamp like 2006-01-02T15:04:05")
	return time.Time{}, false
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	reqID := middleware.GetRequestID(r.Context())
	var (
		impErr *payroll.ImportError
		vErr   *payroll.ValidationError
		eErr   *employee.ValidationError
	)
	switch {
	case errors.As(err, &impErr):
		writeImportError(w, r, impErr)
	case errors.As(err, &vErr):
		api.FailWithDetails(w, http.StatusBadRequest, "validation_error", vErr.Message,
			map[string]any{"rule": vErr.Rule, "field": vErr.Field}, reqID)
	case errors.As(err, &eErr):
		shared.FailValidation(w, reqID, []shared.ValidationIssue{{Field: eErr.Field, Reason: eErr.Message}})
	case errors.Is(err, payroll.ErrDuplicateRecord):
		api.Fail(w, http.StatusBadRequest, "duplicate_payroll", "a payroll record already exists for this employee on that date", reqID)
	case errors.Is(err, payroll.ErrRecordNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "payroll record not found", reqID)
	case errors.Is(err, payroll.ErrNoRecordsFound):
		api.Fail(w, http.StatusNotFound, "no_records", "no payroll records found for this employee in the selected period", reqID)
	case errors.Is(err, employee.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", reqID)
	default:
		requestctx.Logger(r.Context()).Error("payroll request failed", zap.Error(err))
		api.Fail(w, http.StatusInternalServerError, "storage_failure", "failed to process payroll request", reqID)
	}
}

func writeImportError(w http.ResponseWriter, r *http.Request, impErr *payroll.ImportError) {
	reqID := middleware.GetRequestID(r.Context())
	details := map[string]any{}
	if impErr.Row > 0 {
		details["row"] = impErr.Row
	}
	if impErr.Column != "" {
		details["column"] = impErr.Column
	}

	status := http.StatusBadRequest
	switch impErr.Kind {
	case payroll.ImportMissingColumns:
		details["columns"] = impErr.Columns
	case payroll.ImportRowInvalid:
		var vErr *payroll.ValidationError
		if errors.As(impErr, &vErr) {
			details["rule"] = vErr.Rule
		}
	case payroll.ImportUnknownEmployee:
		status = http.StatusNotFound
		details["employee_id"] = impErr.EmployeeID
	case payroll.ImportStorageFailure:
		requestctx.Logger(r.Context()).Error("payroll import storage failure", zap.Error(impErr))
		api.Fail(w, http.StatusInternalServerError, string(payroll.ImportStorageFailure), "failed to store payroll batch", reqID)
		return
	}
	api.FailWithDetails(w, status, string(impErr.Kind), impErr.Error(), details, reqID)
}
