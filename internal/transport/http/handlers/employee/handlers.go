package employeehandler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"hrpayroll/internal/domain/employee"
	"hrpayroll/internal/requestctx"
	"hrpayroll/internal/transport/http/api"
	"hrpayroll/internal/transport/http/middleware"
	"hrpayroll/internal/transport/http/shared"
)

type Service interface {
	Create(ctx context.Context, input employee.Input) (*employee.Employee, error)
	Get(ctx context.Context, id int64) (*employee.Employee, error)
	Update(ctx context.Context, id int64, input employee.Input) (*employee.Employee, error)
	UpdateStatus(ctx context.Context, id int64, status string) (*employee.Employee, error)
	List(ctx context.Context, filter employee.Filter) ([]employee.Employee, int, error)
	Delete(ctx context.Context, id int64) error
}

type Handler struct {
	Service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{Service: service}
}

type employeePayload struct {
	FirstName string  `json:"first_name" validate:"required,max=100"`
	LastName  string  `json:"last_name" validate:"required,max=100"`
	Email     string  `json:"email" validate:"required,email,max=100"`
	HireDate  string  `json:"hire_date" validate:"required"`
	Position  string  `json:"position" validate:"required,max=100"`
	Salary    float64 `json:"salary" validate:"gte=0"`
	Status    string  `json:"status" validate:"omitempty,oneof=Active Inactive"`
}

type statusPayload struct {
	Status string `json:"status" validate:"omitempty,oneof=Active Inactive"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/employees", func(r chi.Router) {
		r.Get("/", h.handleListEmployees)
		r.Post("/", h.handleCreateEmployee)
		r.Route("/{employeeID}", func(r chi.Router) {
			r.Get("/", h.handleGetEmployee)
			r.Put("/", h.handleUpdateEmployee)
			r.Delete("/", h.handleDeleteEmployee)
			r.Put("/status", h.handleUpdateStatus)
		})
	})
}

func (h *Handler) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	query := r.URL.Query()

	v := shared.NewValidator()
	page := v.Page(query, 100, 500)
	v.Enum("status", query.Get("status"), employee.Statuses, "must be one of: Active, Inactive")
	filter := employee.Filter{
		Search: strings.TrimSpace(query.Get("search")),
		Status: strings.TrimSpace(query.Get("status")),
		Limit:  page.Limit,
		Offset: page.Offset,
	}
	if from, ok := v.OptionalDate("hire_date_from", query.Get("hire_date_from")); ok {
		filter.HireDateFrom = &from
	}
	if to, ok := v.OptionalDate("hire_date_to", query.Get("hire_date_to")); ok {
		filter.HireDateTo = &to
	}
	if filter.HireDateFrom != nil && filter.HireDateTo != nil {
		v.DateOrder("hire_date_from", *filter.HireDateFrom, "hire_date_to", *filter.HireDateTo)
	}
	if v.Reject(w, reqID) {
		return
	}

	employees, total, err := h.Service.List(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("X-Total-Count", strconv.Itoa(total))
	api.Success(w, employees, reqID)
}

func (h *Handler) handleCreateEmployee(w http.ResponseWriter, r *http.Request) {
	input, ok := decodeEmployee(w, r)
	if !ok {
		return
	}
	emp, err := h.Service.Create(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	requestctx.Logger(r.Context()).Info("employee created", zap.Int64("employee_id", emp.ID))
	api.Created(w, emp, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := employeeID(w, r)
	if !ok {
		return
	}
	emp, err := h.Service.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.Success(w, emp, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := employeeID(w, r)
	if !ok {
		return
	}
	input, ok := decodeEmployee(w, r)
	if !ok {
		return
	}
	emp, err := h.Service.Update(r.Context(), id, input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.Success(w, emp, middleware.GetRequestID(r.Context()))
}

// handleUpdateStatus sets the status given in the body, or flips it when the
// body is empty or carries no status.
func (h *Handler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id, ok := employeeID(w, r)
	if !ok {
		return
	}

	var payload statusPayload
	if err := shared.DecodeJSON(r, &payload); err != nil && !errors.Is(err, io.EOF) {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	if v.Reject(w, reqID) {
		return
	}

	emp, err := h.Service.UpdateStatus(r.Context(), id, payload.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	requestctx.Logger(r.Context()).Info("employee status changed", zap.Int64("employee_id", emp.ID), zap.String("status", emp.Status))
	api.Success(w, emp, reqID)
}

func (h *Handler) handleDeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := employeeID(w, r)
	if !ok {
		return
	}
	if err := h.Service.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	requestctx.Logger(r.Context()).Info("employee deleted", zap.Int64("employee_id", id))
	api.Success(w, map[string]int64{"id": id}, middleware.GetRequestID(r.Context()))
}

func employeeID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := shared.IDParam(r, "employeeID")
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "employee id must be a positive integer", middleware.GetRequestID(r.Context()))
		return 0, false
	}
	return id, true
}

func decodeEmployee(w http.ResponseWriter, r *http.Request) (employee.Input, bool) {
	reqID := middleware.GetRequestID(r.Context())
	var payload employeePayload
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return employee.Input{}, false
	}

	v := shared.NewValidator()
	v.Struct(payload)
	input := employee.Input{
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Email:     payload.Email,
		Position:  payload.Position,
		Salary:    payload.Salary,
		Status:    payload.Status,
	}
	if payload.HireDate != "" {
		input.HireDate, _ = v.Date("hire_date", payload.HireDate)
	}
	if v.Reject(w, reqID) {
		return employee.Input{}, false
	}
	return input, true
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	reqID := middleware.GetRequestID(r.Context())
	var vErr *employee.ValidationError
	switch {
	case errors.As(err, &vErr):
		shared.FailValidation(w, reqID, []shared.ValidationIssue{{Field: vErr.Field, Reason: vErr.Message}})
	case errors.Is(err, employee.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", reqID)
	case errors.Is(err, employee.ErrEmailTaken):
		api.Fail(w, http.StatusBadRequest, "duplicate_email", "an employee with this email already exists", reqID)
	default:
		requestctx.Logger(r.Context()).Error("employee request failed", zap.Error(err))
		api.Fail(w, http.StatusInternalServerError, "storage_failure", "failed to process employee request", reqID)
	}
}
