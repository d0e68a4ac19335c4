package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type DashboardMetrics struct {
	ReceivedToday         decimal.Decimal `json:"received_today"`
	ReceivedThisMonth     decimal.Decimal `json:"received_this_month"`
	OverdueAmount         decimal.Decimal `json:"overdue_amount"`
	ExpectedThisMonth     decimal.Decimal `json:"expected_this_month"`
	ActiveContracts       int             `json:"active_contracts"`
	TotalLent             decimal.Decimal `json:"total_lent"`
	TotalInterestReceived decimal.Decimal `json:"total_interest_received"`
	TotalClients          int             `json:"total_clients"`
	GeneratedAt           time.Time       `json:"generated_at"`
}

// ContractTotals aggregates a lender's portfolio in a single pass.
type ContractTotals struct {
	TotalLent       decimal.Decimal
	OverdueAmount   decimal.Decimal
	ExpectedMonthly decimal.Decimal
	OpenContracts   int
}

type UpcomingPayment struct {
	ContractID     uuid.UUID
	ContractNumber string
	ClientName     string
	DueDate        time.Time
	ExpectedAmount decimal.Decimal
	Status         ContractStatus
}

type MonthlyTotal struct {
	Month    string
	Total    decimal.Decimal
	Interest decimal.Decimal
	Count    int
}

type LatePayment struct {
	ContractID     uuid.UUID
	ContractNumber string
	ClientName     string
	CurrentBalance decimal.Decimal
	DueDate        time.Time
	DaysOverdue    int
	AmountDue      decimal.Decimal
	Fees           decimal.Decimal
}

type ReportSummary struct {
	TotalLent       decimal.Decimal
	TotalReceived   decimal.Decimal
	TotalInterest   decimal.Decimal
	NewClients      int
	ActiveContracts int
}

type TopClient struct {
	ClientID      uuid.UUID
	Name          string
	TotalBorrowed decimal.Decimal
	Contracts     int
}

type StatusCount struct {
	Status     ContractStatus
	Count      int
	Percentage decimal.Decimal
}

type Report struct {
	From              time.Time
	To                time.Time
	Summary           ReportSummary
	TopClients        []TopClient
	ContractsByStatus []StatusCount
}

// ImportResult summarises a spreadsheet import. Rows are processed
// independently; a failed row does not undo the others.
type ImportResult struct {
	Total     int
	Succeeded int
	Failed    int
	Details   []ImportRowError
}

type ImportRowError struct {
	Row    int
	Client string
	Error  string
}
