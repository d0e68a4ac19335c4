package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/josh-kwaku/loan-servicing/internal/domain"
	"github.com/josh-kwaku/loan-servicing/internal/service/mocks"
)

var dashboardNow = time.Date(2026, time.March, 20, 15, 0, 0, 0, time.UTC)

type dashboardMocks struct {
	store     *mocks.MockDashboardStore
	cache     *mocks.MockDashboardCache
	contracts *mocks.MockContractReader
}

func newTestDashboardService(t *testing.T) (*DashboardService, dashboardMocks) {
	ctrl := gomock.NewController(t)
	m := dashboardMocks{
		store:     mocks.NewMockDashboardStore(ctrl),
		cache:     mocks.NewMockDashboardCache(ctrl),
		contracts: mocks.NewMockContractReader(ctrl),
	}
	s := NewDashboardService(m.store, m.cache, m.contracts, nil)
	s.now = func() time.Time { return dashboardNow }
	return s, m
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func expectAggregates(m dashboardMocks, userID uuid.UUID) {
	today := time.Date(2026, time.March, 20, 0, 0, 0, 0, time.UTC)
	monthStart := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	m.store.EXPECT().SumPayments(gomock.Any(), userID, today, today.AddDate(0, 0, 1)).Return(dec("150.25"), nil)
	m.store.EXPECT().SumPayments(gomock.Any(), userID, monthStart, monthStart.AddDate(0, 1, 0)).Return(dec("3200"), nil)
	m.store.EXPECT().SumInterestReceived(gomock.Any(), userID).Return(dec("900"), nil)
	m.store.EXPECT().ContractTotals(gomock.Any(), userID).Return(domain.ContractTotals{
		TotalLent:       dec("25000"),
		OverdueAmount:   dec("4000"),
		ExpectedMonthly: dec("1100"),
		OpenContracts:   4,
	}, nil)
	m.store.EXPECT().CountClients(gomock.Any(), userID).Return(3, nil)
}

func TestDashboardService_Metrics_CacheHit(t *testing.T) {
	s, m := newTestDashboardService(t)
	userID := uuid.New()
	cached := &domain.DashboardMetrics{TotalClients: 7}

	m.cache.EXPECT().Get(gomock.Any(), userID).Return(cached, nil)

	got, err := s.Metrics(context.Background(), userID)
	require.NoError(t, err)
	assert.Same(t, cached, got)
}

func TestDashboardService_Metrics_CacheMiss(t *testing.T) {
	s, m := newTestDashboardService(t)
	userID := uuid.New()

	m.cache.EXPECT().Get(gomock.Any(), userID).Return(nil, nil)
	expectAggregates(m, userID)

	var stored *domain.DashboardMetrics
	m.cache.EXPECT().Set(gomock.Any(), userID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, dm *domain.DashboardMetrics) error {
			stored = dm
			return nil
		})

	got, err := s.Metrics(context.Background(), userID)
	require.NoError(t, err)

	assert.True(t, dec("150.25").Equal(got.ReceivedToday))
	assert.True(t, dec("3200").Equal(got.ReceivedThisMonth))
	assert.True(t, dec("4000").Equal(got.OverdueAmount))
	assert.True(t, dec("1100").Equal(got.ExpectedThisMonth))
	assert.True(t, dec("25000").Equal(got.TotalLent))
	assert.True(t, dec("900").Equal(got.TotalInterestReceived))
	assert.Equal(t, 4, got.ActiveContracts)
	assert.Equal(t, 3, got.TotalClients)
	assert.Equal(t, dashboardNow, got.GeneratedAt)
	assert.Same(t, got, stored)
}

func TestDashboardService_Metrics_CacheFailureFallsThrough(t *testing.T) {
	s, m := newTestDashboardService(t)
	userID := uuid.New()

	m.cache.EXPECT().Get(gomock.Any(), userID).Return(nil, errors.New("connection refused"))
	expectAggregates(m, userID)
	m.cache.EXPECT().Set(gomock.Any(), userID, gomock.Any()).Return(errors.New("connection refused"))

	got, err := s.Metrics(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.TotalClients)
}

func TestDashboardService_Metrics_StoreFailure(t *testing.T) {
	s, m := newTestDashboardService(t)
	userID := uuid.New()

	m.cache.EXPECT().Get(gomock.Any(), userID).Return(nil, nil)
	m.store.EXPECT().SumPayments(gomock.Any(), userID, gomock.Any(), gomock.Any()).Return(decimal.Zero, nil).AnyTimes()
	m.store.EXPECT().SumInterestReceived(gomock.Any(), userID).Return(decimal.Zero, nil).AnyTimes()
	m.store.EXPECT().ContractTotals(gomock.Any(), userID).Return(domain.ContractTotals{}, errors.New("timeout")).AnyTimes()
	m.store.EXPECT().CountClients(gomock.Any(), userID).Return(0, nil).AnyTimes()

	_, err := s.Metrics(context.Background(), userID)
	require.Error(t, err)
}

func TestDashboardService_MonthlyPayments_FillsGaps(t *testing.T) {
	s, m := newTestDashboardService(t)
	userID := uuid.New()

	m.store.EXPECT().
		MonthlyPayments(gomock.Any(), userID, time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)).
		Return([]domain.MonthlyTotal{{Month: "2026-02", Total: dec("500"), Interest: dec("50"), Count: 2}}, nil)

	got, err := s.MonthlyPayments(context.Background(), userID, 3)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "2026-01", got[0].Month)
	assert.True(t, got[0].Total.IsZero())
	assert.Equal(t, "2026-02", got[1].Month)
	assert.Equal(t, 2, got[1].Count)
	assert.Equal(t, "2026-03", got[2].Month)
}

func TestDashboardService_UpcomingPayments(t *testing.T) {
	s, m := newTestDashboardService(t)
	userID := uuid.New()

	soon := openContract(domain.ContractStatusActive, 25, day(2026, time.January, 1), nil)
	soon.CurrentBalance = dec("1000")
	soon.InterestRate = dec("10")
	later := openContract(domain.ContractStatusActive, 10, day(2026, time.January, 1), nil)

	m.contracts.EXPECT().ListOpen(gomock.Any(), userID).Return([]domain.OpenContract{later, soon}, nil)

	got, err := s.UpcomingPayments(context.Background(), userID, 7)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, soon.ID, got[0].ContractID)
	assert.Equal(t, day(2026, time.March, 25), got[0].DueDate)
	assert.True(t, dec("100").Equal(got[0].ExpectedAmount))
}

func TestDashboardService_LatePayments(t *testing.T) {
	s, m := newTestDashboardService(t)
	userID := uuid.New()

	late := openContract(domain.ContractStatusOverdue, 15, day(2026, time.January, 1), nil)
	late.CurrentBalance = dec("1000")
	late.InterestRate = dec("10")
	late.LateFeePct = dec("2")
	late.DailyPenaltyPct = dec("0.1")
	onTime := openContract(domain.ContractStatusActive, 15, day(2026, time.January, 1), nil)

	m.contracts.EXPECT().ListOpen(gomock.Any(), userID).Return([]domain.OpenContract{onTime, late}, nil)

	got, err := s.LatePayments(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, late.ID, got[0].ContractID)
	assert.Equal(t, 6, got[0].DaysOverdue)
	assert.True(t, dec("100").Equal(got[0].AmountDue))
	assert.True(t, dec("2.6").Equal(got[0].Fees), "got %s", got[0].Fees)
}

func TestDashboardService_Report(t *testing.T) {
	s, m := newTestDashboardService(t)
	userID := uuid.New()
	from := day(2026, time.January, 1)
	to := day(2026, time.March, 31)

	m.store.EXPECT().ReportSummary(gomock.Any(), userID, from, to).Return(domain.ReportSummary{TotalLent: dec("10000"), NewClients: 2}, nil)
	m.store.EXPECT().TopClients(gomock.Any(), userID, from, to, topClientsLimit).Return([]domain.TopClient{{Name: "Maria", TotalBorrowed: dec("6000")}}, nil)
	m.store.EXPECT().ContractsByStatus(gomock.Any(), userID, from, to).Return(map[domain.ContractStatus]int{
		domain.ContractStatusActive: 3,
		domain.ContractStatusPaid:   1,
	}, nil)

	r, err := s.Report(context.Background(), userID, from, to)
	require.NoError(t, err)

	assert.True(t, dec("10000").Equal(r.Summary.TotalLent))
	require.Len(t, r.TopClients, 1)
	require.Len(t, r.ContractsByStatus, 4)
	assert.Equal(t, domain.ContractStatusActive, r.ContractsByStatus[0].Status)
	assert.True(t, dec("75").Equal(r.ContractsByStatus[0].Percentage))
	assert.True(t, dec("25").Equal(r.ContractsByStatus[2].Percentage))
	assert.True(t, r.ContractsByStatus[1].Percentage.IsZero())
}

func TestDashboardService_Report_RejectsInvertedRange(t *testing.T) {
	s, _ := newTestDashboardService(t)

	_, err := s.Report(context.Background(), uuid.New(), day(2026, time.March, 1), day(2026, time.February, 1))
	require.ErrorIs(t, err, domain.ErrInvalidRequest)
}
