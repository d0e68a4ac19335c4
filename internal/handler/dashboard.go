package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/loan-servicing/internal/domain"
)

type dashboardService interface {
	Metrics(ctx context.Context, userID uuid.UUID) (*domain.DashboardMetrics, error)
	RecentContracts(ctx context.Context, userID uuid.UUID) ([]domain.Contract, error)
	UpcomingPayments(ctx context.Context, userID uuid.UUID, days int) ([]domain.UpcomingPayment, error)
	MonthlyPayments(ctx context.Context, userID uuid.UUID, months int) ([]domain.MonthlyTotal, error)
	LatePayments(ctx context.Context, userID uuid.UUID) ([]domain.LatePayment, error)
	Report(ctx context.Context, userID uuid.UUID, from, to time.Time) (*domain.Report, error)
}

type DashboardHandler struct {
	dashboard dashboardService
}

func NewDashboardHandler(dashboard dashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

type upcomingPaymentDTO struct {
	ContractID     uuid.UUID       `json:"contract_id"`
	ContractNumber string          `json:"contract_number"`
	ClientName     string          `json:"client_name"`
	DueDate        string          `json:"due_date"`
	ExpectedAmount decimal.Decimal `json:"expected_amount"`
	Status         string          `json:"status"`
}

type monthlyTotalDTO struct {
	Month    string          `json:"month"`
	Total    decimal.Decimal `json:"total"`
	Interest decimal.Decimal `json:"interest"`
	Count    int             `json:"count"`
}

type latePaymentDTO struct {
	ContractID     uuid.UUID       `json:"contract_id"`
	ContractNumber string          `json:"contract_number"`
	ClientName     string          `json:"client_name"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	DueDate        string          `json:"due_date"`
	DaysOverdue    int             `json:"days_overdue"`
	AmountDue      decimal.Decimal `json:"amount_due"`
	Fees           decimal.Decimal `json:"fees"`
}

type reportSummaryDTO struct {
	TotalLent       decimal.Decimal `json:"total_lent"`
	TotalReceived   decimal.Decimal `json:"total_received"`
	TotalInterest   decimal.Decimal `json:"total_interest"`
	NewClients      int             `json:"new_clients"`
	ActiveContracts int             `json:"active_contracts"`
}

type topClientDTO struct {
	ClientID      uuid.UUID       `json:"client_id"`
	Name          string          `json:"name"`
	TotalBorrowed decimal.Decimal `json:"total_borrowed"`
	Contracts     int             `json:"contracts"`
}

type statusCountDTO struct {
	Status     string          `json:"status"`
	Count      int             `json:"count"`
	Percentage decimal.Decimal `json:"percentage"`
}

type reportDTO struct {
	StartDate         string           `json:"start_date"`
	EndDate           string           `json:"end_date"`
	Summary           reportSummaryDTO `json:"summary"`
	TopClients        []topClientDTO   `json:"top_clients"`
	ContractsByStatus []statusCountDTO `json:"contracts_by_status"`
}

func (h *DashboardHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	m, err := h.dashboard.Metrics(r.Context(), userID)
	if err != nil {
		RespondDomainError(w, r, err)
		return
	}
	RespondSuccess(w, http.StatusOK, m)
}

func (h *DashboardHandler) RecentContracts(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	contracts, err := h.dashboard.RecentContracts(r.Context(), userID)
	if err != nil {
		RespondDomainError(w, r, err)
		return
	}

	items := make([]contractDTO, len(contracts))
	for i := range contracts {
		items[i] = toContractDTO(&contracts[i])
	}
	RespondSuccess(w, http.StatusOK, items)
}

func (h *DashboardHandler) UpcomingPayments(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	days, ok := queryInt(r, "days", 30)
	if !ok || days < 1 || days > 366 {
		RespondValidationError(w, []FieldError{{Field: "days", Message: "must be between 1 and 366"}})
		return
	}

	upcoming, err := h.dashboard.UpcomingPayments(r.Context(), userID, days)
	if err != nil {
		RespondDomainError(w, r, err)
		return
	}

	items := make([]upcomingPaymentDTO, len(upcoming))
	for i, u := range upcoming {
		items[i] = upcomingPaymentDTO{
			ContractID:     u.ContractID,
			ContractNumber: u.ContractNumber,
			ClientName:     u.ClientName,
			DueDate:        u.DueDate.Format(dateLayout),
			ExpectedAmount: u.ExpectedAmount,
			Status:         string(u.Status),
		}
	}
	RespondSuccess(w, http.StatusOK, items)
}

func (h *DashboardHandler) MonthlyPayments(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	months, ok := queryInt(r, "months", 12)
	if !ok || months < 1 || months > 60 {
		RespondValidationError(w, []FieldError{{Field: "months", Message: "must be between 1 and 60"}})
		return
	}

	totals, err := h.dashboard.MonthlyPayments(r.Context(), userID, months)
	if err != nil {
		RespondDomainError(w, r, err)
		return
	}

	items := make([]monthlyTotalDTO, len(totals))
	for i, t := range totals {
		items[i] = monthlyTotalDTO(t)
	}
	RespondSuccess(w, http.StatusOK, items)
}

func (h *DashboardHandler) LatePayments(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	late, err := h.dashboard.LatePayments(r.Context(), userID)
	if err != nil {
		RespondDomainError(w, r, err)
		return
	}

	items := make([]latePaymentDTO, len(late))
	for i, l := range late {
		items[i] = latePaymentDTO{
			ContractID:     l.ContractID,
			ContractNumber: l.ContractNumber,
			ClientName:     l.ClientName,
			CurrentBalance: l.CurrentBalance,
			DueDate:        l.DueDate.Format(dateLayout),
			DaysOverdue:    l.DaysOverdue,
			AmountDue:      l.AmountDue,
			Fees:           l.Fees,
		}
	}
	RespondSuccess(w, http.StatusOK, items)
}

// Report defaults to the current calendar month when no range is given.
func (h *DashboardHandler) Report(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var fields []FieldError
	from, ok := queryDate(r, "start_date")
	if !ok {
		fields = append(fields, FieldError{Field: "start_date", Message: "must be a date in YYYY-MM-DD format"})
	}
	to, ok := queryDate(r, "end_date")
	if !ok {
		fields = append(fields, FieldError{Field: "end_date", Message: "must be a date in YYYY-MM-DD format"})
	}
	if len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	now := time.Now().UTC()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	if from != nil {
		start = *from
	}
	if to != nil {
		end = *to
	}

	report, err := h.dashboard.Report(r.Context(), userID, start, end)
	if err != nil {
		RespondDomainError(w, r, err)
		return
	}
	RespondSuccess(w, http.StatusOK, toReportDTO(report))
}

func toReportDTO(rep *domain.Report) reportDTO {
	dto := reportDTO{
		StartDate:         rep.From.Format(dateLayout),
		EndDate:           rep.To.Format(dateLayout),
		Summary:           reportSummaryDTO(rep.Summary),
		TopClients:        make([]topClientDTO, len(rep.TopClients)),
		ContractsByStatus: make([]statusCountDTO, len(rep.ContractsByStatus)),
	}
	for i, c := range rep.TopClients {
		dto.TopClients[i] = topClientDTO(c)
	}
	for i, sc := range rep.ContractsByStatus {
		dto.ContractsByStatus[i] = statusCountDTO{Status: string(sc.Status), Count: sc.Count, Percentage: sc.Percentage}
	}
	return dto
}
