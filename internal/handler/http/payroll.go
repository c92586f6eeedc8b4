package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/worktally/attendance-backend-go/internal/domain/payroll"
	"github.com/worktally/attendance-backend-go/internal/handler/http/response"
	"github.com/worktally/attendance-backend-go/internal/pkg/clock"
)

type PayrollHandler interface {
	GetSummary(w http.ResponseWriter, r *http.Request)
	GetMonthlyReport(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.Service
	clk            clock.Clock
}

func NewPayrollHandler(payrollService payroll.Service, clk clock.Clock) PayrollHandler {
	return &payrollHandlerImpl{
		payrollService: payrollService,
		clk:            clk,
	}
}

// GetSummary implements PayrollHandler. The optional 'date' query parameter
// (YYYY-MM-DD) moves the reference date; it defaults to today.
func (h *payrollHandlerImpl) GetSummary(w http.ResponseWriter, r *http.Request) {
	req := payroll.SummaryRequest{
		EmployeeID: r.URL.Query().Get("employee_id"),
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	ref := h.clk.Now()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.BadRequest(w, "Query parameter 'date' must be YYYY-MM-DD", nil)
			return
		}
		ref = parsed
	}

	result, err := h.payrollService.CalculatePayroll(r.Context(), req.EmployeeID, ref)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetMonthlyReport implements PayrollHandler.
func (h *payrollHandlerImpl) GetMonthlyReport(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		response.BadRequest(w, "Query parameter 'year' must be a number", nil)
		return
	}
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil {
		response.BadRequest(w, "Query parameter 'month' must be a number", nil)
		return
	}

	req := payroll.MonthlyReportRequest{Year: year, Month: month}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.payrollService.MonthlyPayrollReport(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
