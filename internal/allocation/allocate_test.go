package allocation

import (
	"math/rand/v2"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josh-kwaku/loan-servicing/internal/domain"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func activeContract(balance, rate string) ContractSnapshot {
	return ContractSnapshot{
		CurrentBalance: dec(balance),
		InterestRate:   dec(rate),
		Status:         domain.ContractStatusActive,
	}
}

func TestAllocate(t *testing.T) {
	tests := []struct {
		name          string
		contract      ContractSnapshot
		amount        string
		wantDue       string
		wantInterest  string
		wantPrincipal string
		wantBalance   string
		wantStatus    domain.ContractStatus
	}{
		{
			name:          "payment below interest due covers interest only",
			contract:      activeContract("4200", "5"),
			amount:        "100",
			wantDue:       "210",
			wantInterest:  "100",
			wantPrincipal: "0",
			wantBalance:   "4200",
			wantStatus:    domain.ContractStatusActive,
		},
		{
			name:          "payment above interest due reduces principal",
			contract:      activeContract("4200", "5"),
			amount:        "500",
			wantDue:       "210",
			wantInterest:  "210",
			wantPrincipal: "290",
			wantBalance:   "3910",
			wantStatus:    domain.ContractStatusActive,
		},
		{
			name:          "exact payoff marks contract paid",
			contract:      activeContract("1000", "5"),
			amount:        "1050",
			wantDue:       "50",
			wantInterest:  "50",
			wantPrincipal: "1000",
			wantBalance:   "0",
			wantStatus:    domain.ContractStatusPaid,
		},
		{
			name:          "over-payment keeps uncapped principal portion",
			contract:      activeContract("1000", "5"),
			amount:        "2000",
			wantDue:       "50",
			wantInterest:  "50",
			wantPrincipal: "1950",
			wantBalance:   "0",
			wantStatus:    domain.ContractStatusPaid,
		},
		{
			name:          "payment equal to interest due leaves balance unchanged",
			contract:      activeContract("4200", "5"),
			amount:        "210",
			wantDue:       "210",
			wantInterest:  "210",
			wantPrincipal: "0",
			wantBalance:   "4200",
			wantStatus:    domain.ContractStatusActive,
		},
		{
			name:          "zero rate applies whole payment to principal",
			contract:      activeContract("800", "0"),
			amount:        "300",
			wantDue:       "0",
			wantInterest:  "0",
			wantPrincipal: "300",
			wantBalance:   "500",
			wantStatus:    domain.ContractStatusActive,
		},
		{
			name: "overdue status is preserved when balance remains",
			contract: ContractSnapshot{
				CurrentBalance: dec("4200"),
				InterestRate:   dec("5"),
				Status:         domain.ContractStatusOverdue,
			},
			amount:        "500",
			wantDue:       "210",
			wantInterest:  "210",
			wantPrincipal: "290",
			wantBalance:   "3910",
			wantStatus:    domain.ContractStatusOverdue,
		},
		{
			name:          "zero balance contract becomes paid",
			contract:      activeContract("0", "5"),
			amount:        "10",
			wantDue:       "0",
			wantInterest:  "0",
			wantPrincipal: "10",
			wantBalance:   "0",
			wantStatus:    domain.ContractStatusPaid,
		},
		{
			name:          "fractional rate stays exact",
			contract:      activeContract("1234.56", "3.7"),
			amount:        "100",
			wantDue:       "45.67872",
			wantInterest:  "45.67872",
			wantPrincipal: "54.32128",
			wantBalance:   "1180.23872",
			wantStatus:    domain.ContractStatusActive,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res, err := Allocate(tc.contract, dec(tc.amount))
			require.NoError(t, err)

			assert.True(t, dec(tc.wantDue).Equal(res.InterestDue), "interest due: got %s", res.InterestDue)
			assert.True(t, dec(tc.wantInterest).Equal(res.InterestPortion), "interest: got %s", res.InterestPortion)
			assert.True(t, dec(tc.wantPrincipal).Equal(res.PrincipalPortion), "principal: got %s", res.PrincipalPortion)
			assert.True(t, dec(tc.wantBalance).Equal(res.NewBalance), "balance: got %s", res.NewBalance)
			assert.Equal(t, tc.wantStatus, res.NewStatus)
		})
	}
}

func TestAllocate_Errors(t *testing.T) {
	tests := []struct {
		name     string
		contract ContractSnapshot
		amount   string
		wantErr  error
	}{
		{
			name:     "zero amount",
			contract: activeContract("4200", "5"),
			amount:   "0",
			wantErr:  domain.ErrInvalidPaymentAmount,
		},
		{
			name:     "negative amount",
			contract: activeContract("4200", "5"),
			amount:   "-50",
			wantErr:  domain.ErrInvalidPaymentAmount,
		},
		{
			name:     "negative balance",
			contract: activeContract("-1", "5"),
			amount:   "100",
			wantErr:  domain.ErrInvalidContractState,
		},
		{
			name:     "negative rate",
			contract: activeContract("4200", "-5"),
			amount:   "100",
			wantErr:  domain.ErrInvalidContractState,
		},
		{
			name:     "amount checked before contract state",
			contract: activeContract("-1", "-1"),
			amount:   "0",
			wantErr:  domain.ErrInvalidPaymentAmount,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res, err := Allocate(tc.contract, dec(tc.amount))
			require.ErrorIs(t, err, tc.wantErr)
			assert.Equal(t, Result{}, res)
		})
	}
}

func TestAllocate_Invariants(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 7))

	for i := range 2000 {
		// Cents for money, hundredths of a percent for rates.
		balance := decimal.New(rng.Int64N(10_000_000), -2)
		rate := decimal.New(rng.Int64N(3000), -2)
		amount := decimal.New(rng.Int64N(2_000_000)+1, -2)
		status := domain.ContractStatusActive
		if i%3 == 0 {
			status = domain.ContractStatusOverdue
		}
		c := ContractSnapshot{CurrentBalance: balance, InterestRate: rate, Status: status}

		res, err := Allocate(c, amount)
		require.NoError(t, err)

		require.True(t, res.InterestPortion.Add(res.PrincipalPortion).Equal(amount),
			"partition: %s + %s != %s", res.InterestPortion, res.PrincipalPortion, amount)
		require.False(t, res.InterestPortion.IsNegative())
		require.False(t, res.PrincipalPortion.IsNegative())
		require.True(t, res.NewBalance.LessThanOrEqual(balance))
		require.Equal(t, res.NewBalance.IsZero(), res.NewStatus == domain.ContractStatusPaid)

		again, err := Allocate(c, amount)
		require.NoError(t, err)
		require.Equal(t, res, again)
	}
}

func TestInterestDue_KeepsEveryDigit(t *testing.T) {
	balance := dec("1234.5678901234567891")
	rate := dec("3.33")

	due := InterestDue(balance, rate)
	assert.True(t, dec("41.11111074111111107703").Equal(due), "got %s", due)

	amount := due.Add(dec("1"))
	res, err := Allocate(ContractSnapshot{CurrentBalance: balance, InterestRate: rate, Status: domain.ContractStatusActive}, amount)
	require.NoError(t, err)
	assert.True(t, res.InterestPortion.Equal(due))
	assert.True(t, dec("1").Equal(res.PrincipalPortion), "got %s", res.PrincipalPortion)
	assert.True(t, balance.Sub(dec("1")).Equal(res.NewBalance))
}
