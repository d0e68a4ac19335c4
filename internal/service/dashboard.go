package service

//go:generate mockgen -source=dashboard.go -destination=mocks/dashboard_mocks.go -package=mocks DashboardStore,DashboardCache,ContractReader

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/josh-kwaku/loan-servicing/internal/allocation"
	"github.com/josh-kwaku/loan-servicing/internal/domain"
	"github.com/josh-kwaku/loan-servicing/internal/logging"
	"github.com/josh-kwaku/loan-servicing/internal/metrics"
)

const (
	recentContractsLimit = 5
	topClientsLimit      = 5
)

// DashboardStore runs the portfolio aggregates.
type DashboardStore interface {
	SumPayments(ctx context.Context, userID uuid.UUID, from, to time.Time) (decimal.Decimal, error)
	SumInterestReceived(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error)
	ContractTotals(ctx context.Context, userID uuid.UUID) (domain.ContractTotals, error)
	CountClients(ctx context.Context, userID uuid.UUID) (int, error)
	MonthlyPayments(ctx context.Context, userID uuid.UUID, since time.Time) ([]domain.MonthlyTotal, error)
	ReportSummary(ctx context.Context, userID uuid.UUID, from, to time.Time) (domain.ReportSummary, error)
	TopClients(ctx context.Context, userID uuid.UUID, from, to time.Time, limit int) ([]domain.TopClient, error)
	ContractsByStatus(ctx context.Context, userID uuid.UUID, from, to time.Time) (map[domain.ContractStatus]int, error)
}

// DashboardCache keeps computed metrics per lender. Get reports a miss as (nil, nil).
type DashboardCache interface {
	Get(ctx context.Context, userID uuid.UUID) (*domain.DashboardMetrics, error)
	Set(ctx context.Context, userID uuid.UUID, snapshot *domain.DashboardMetrics) error
}

type ContractReader interface {
	List(ctx context.Context, userID uuid.UUID, f domain.ContractFilter) ([]domain.Contract, int, error)
	ListOpen(ctx context.Context, userID uuid.UUID) ([]domain.OpenContract, error)
}

type DashboardService struct {
	store     DashboardStore
	cache     DashboardCache
	contracts ContractReader
	metrics   *metrics.Metrics
	now       func() time.Time
}

func NewDashboardService(store DashboardStore, cache DashboardCache, contracts ContractReader, m *metrics.Metrics) *DashboardService {
	return &DashboardService{
		store:     store,
		cache:     cache,
		contracts: contracts,
		metrics:   m,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *DashboardService) Metrics(ctx context.Context, userID uuid.UUID) (*domain.DashboardMetrics, error) {
	log := logging.FromContext(ctx)

	cached, err := s.cache.Get(ctx, userID)
	switch {
	case err != nil:
		s.metrics.DashboardCacheLookup("error")
		log.Warn("dashboard cache read failed", "user_id", userID, "error", err)
	case cached != nil:
		s.metrics.DashboardCacheLookup("hit")
		return cached, nil
	default:
		s.metrics.DashboardCacheLookup("miss")
	}

	m, err := s.computeMetrics(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("Metrics: %w", err)
	}

	if err := s.cache.Set(ctx, userID, m); err != nil {
		log.Warn("dashboard cache write failed", "user_id", userID, "error", err)
	}
	return m, nil
}

func (s *DashboardService) computeMetrics(ctx context.Context, userID uuid.UUID) (*domain.DashboardMetrics, error) {
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	m := &domain.DashboardMetrics{GeneratedAt: now}
	var totals domain.ContractTotals

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := s.store.SumPayments(gctx, userID, today, today.AddDate(0, 0, 1))
		m.ReceivedToday = v
		return err
	})
	g.Go(func() error {
		v, err := s.store.SumPayments(gctx, userID, monthStart, monthStart.AddDate(0, 1, 0))
		m.ReceivedThisMonth = v
		return err
	})
	g.Go(func() error {
		v, err := s.store.SumInterestReceived(gctx, userID)
		m.TotalInterestReceived = v
		return err
	})
	g.Go(func() error {
		v, err := s.store.ContractTotals(gctx, userID)
		totals = v
		return err
	})
	g.Go(func() error {
		v, err := s.store.CountClients(gctx, userID)
		m.TotalClients = v
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("computeMetrics: %w", err)
	}

	m.OverdueAmount = totals.OverdueAmount
	m.ExpectedThisMonth = totals.ExpectedMonthly
	m.ActiveContracts = totals.OpenContracts
	m.TotalLent = totals.TotalLent
	return m, nil
}

func (s *DashboardService) RecentContracts(ctx context.Context, userID uuid.UUID) ([]domain.Contract, error) {
	contracts, _, err := s.contracts.List(ctx, userID, domain.ContractFilter{Limit: recentContractsLimit})
	if err != nil {
		return nil, fmt.Errorf("RecentContracts: %w", err)
	}
	return contracts, nil
}

// UpcomingPayments lists the next due date of every open contract falling
// within the coming days, soonest first.
func (s *DashboardService) UpcomingPayments(ctx context.Context, userID uuid.UUID, days int) ([]domain.UpcomingPayment, error) {
	open, err := s.contracts.ListOpen(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("UpcomingPayments: %w", err)
	}

	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	horizon := today.AddDate(0, 0, days)

	var out []domain.UpcomingPayment
	for _, oc := range open {
		due := allocation.NextDueDate(now, oc.PaymentDay)
		if due.After(horizon) {
			continue
		}
		out = append(out, domain.UpcomingPayment{
			ContractID:     oc.ID,
			ContractNumber: oc.ContractNumber,
			ClientName:     oc.ClientName,
			DueDate:        due,
			ExpectedAmount: oc.MonthlyInterest(),
			Status:         oc.Status,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return out, nil
}

// MonthlyPayments returns one entry per calendar month, oldest first, with
// months without receipts reported as zero.
func (s *DashboardService) MonthlyPayments(ctx context.Context, userID uuid.UUID, months int) ([]domain.MonthlyTotal, error) {
	now := s.now()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(months - 1), 0)

	rows, err := s.store.MonthlyPayments(ctx, userID, first)
	if err != nil {
		return nil, fmt.Errorf("MonthlyPayments: %w", err)
	}
	byMonth := make(map[string]domain.MonthlyTotal, len(rows))
	for _, r := range rows {
		byMonth[r.Month] = r
	}

	out := make([]domain.MonthlyTotal, 0, months)
	for i := range months {
		key := first.AddDate(0, i, 0).Format("2006-01")
		if r, ok := byMonth[key]; ok {
			out = append(out, r)
			continue
		}
		out = append(out, domain.MonthlyTotal{Month: key, Total: decimal.Zero, Interest: decimal.Zero})
	}
	return out, nil
}

// LatePayments lists overdue contracts with the installment owed since the
// last due date and the fees it has accrued, most overdue first.
func (s *DashboardService) LatePayments(ctx context.Context, userID uuid.UUID) ([]domain.LatePayment, error) {
	open, err := s.contracts.ListOpen(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("LatePayments: %w", err)
	}

	now := s.now()
	var out []domain.LatePayment
	for _, oc := range open {
		if oc.Status != domain.ContractStatusOverdue {
			continue
		}
		due := allocation.LastDueDate(now, oc.PaymentDay)
		days := allocation.DaysOverdue(due, now)
		amount := oc.MonthlyInterest()
		fees := allocation.OverdueFees(amount, oc.LateFeePct, oc.DailyPenaltyPct, days)

		out = append(out, domain.LatePayment{
			ContractID:     oc.ID,
			ContractNumber: oc.ContractNumber,
			ClientName:     oc.ClientName,
			CurrentBalance: oc.CurrentBalance,
			DueDate:        due,
			DaysOverdue:    days,
			AmountDue:      amount,
			Fees:           fees.Total,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DaysOverdue > out[j].DaysOverdue })
	return out, nil
}

// Report summarises the period [from, to], both dates inclusive.
func (s *DashboardService) Report(ctx context.Context, userID uuid.UUID, from, to time.Time) (*domain.Report, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("Report: end date before start date: %w", domain.ErrInvalidRequest)
	}

	r := &domain.Report{From: from, To: to}
	var byStatus map[domain.ContractStatus]int

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := s.store.ReportSummary(gctx, userID, from, to)
		r.Summary = v
		return err
	})
	g.Go(func() error {
		v, err := s.store.TopClients(gctx, userID, from, to, topClientsLimit)
		r.TopClients = v
		return err
	})
	g.Go(func() error {
		v, err := s.store.ContractsByStatus(gctx, userID, from, to)
		byStatus = v
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("Report: %w", err)
	}

	r.ContractsByStatus = statusBreakdown(byStatus)
	return r, nil
}

var reportStatuses = []domain.ContractStatus{
	domain.ContractStatusActive,
	domain.ContractStatusOverdue,
	domain.ContractStatusPaid,
	domain.ContractStatusRefinanced,
}

func statusBreakdown(counts map[domain.ContractStatus]int) []domain.StatusCount {
	total := 0
	for _, n := range counts {
		total += n
	}

	out := make([]domain.StatusCount, 0, len(reportStatuses))
	for _, st := range reportStatuses {
		pct := decimal.Zero
		if total > 0 {
			pct = decimal.NewFromInt(int64(counts[st] * 100)).Div(decimal.NewFromInt(int64(total))).Round(2)
		}
		out = append(out, domain.StatusCount{Status: st, Count: counts[st], Percentage: pct})
	}
	return out
}
