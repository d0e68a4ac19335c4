package allocation

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordedHistory(t *testing.T, principal, rate string, amounts ...string) []ReplayEntry {
	t.Helper()

	snap := activeContract(principal, rate)
	entries := make([]ReplayEntry, 0, len(amounts))
	for _, a := range amounts {
		res, err := Allocate(snap, dec(a))
		require.NoError(t, err)
		entries = append(entries, ReplayEntry{
			PaymentID:           uuid.New(),
			Amount:              dec(a),
			InterestPortion:     res.InterestPortion,
			PrincipalPortion:    res.PrincipalPortion,
			BalanceAfterPayment: res.NewBalance,
		})
		snap.CurrentBalance = res.NewBalance
		snap.Status = res.NewStatus
	}
	return entries
}

func TestReplay_ConsistentHistory(t *testing.T) {
	entries := recordedHistory(t, "4200", "5", "100", "500", "1000")

	mismatches, balance := Replay(dec("4200"), dec("5"), entries)

	assert.Empty(t, mismatches)
	assert.True(t, dec("3105.5").Equal(balance), "got %s", balance)
}

func TestReplay_DetectsTamperedBalance(t *testing.T) {
	entries := recordedHistory(t, "4200", "5", "500", "500")
	entries[1].BalanceAfterPayment = entries[1].BalanceAfterPayment.Add(decimal.NewFromInt(1))

	mismatches, _ := Replay(dec("4200"), dec("5"), entries)

	require.Len(t, mismatches, 1)
	assert.Equal(t, entries[1].PaymentID, mismatches[0].PaymentID)
	assert.Equal(t, "balance_after_payment", mismatches[0].Field)
}

func TestReplay_DetectsWrongSplit(t *testing.T) {
	entries := recordedHistory(t, "1000", "5", "300")
	entries[0].InterestPortion = dec("0")
	entries[0].PrincipalPortion = dec("300")

	mismatches, _ := Replay(dec("1000"), dec("5"), entries)

	require.Len(t, mismatches, 2)
	assert.Equal(t, "interest_portion", mismatches[0].Field)
	assert.Equal(t, "principal_portion", mismatches[1].Field)
}

func TestReplay_Empty(t *testing.T) {
	mismatches, balance := Replay(dec("1000"), dec("5"), nil)
	assert.Empty(t, mismatches)
	assert.True(t, dec("1000").Equal(balance))
}
