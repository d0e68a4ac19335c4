package allocation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOverdueFees(t *testing.T) {
	tests := []struct {
		name        string
		amount      string
		lateFee     string
		dailyRate   string
		days        int
		wantLate    string
		wantPenalty string
		wantTotal   string
	}{
		{
			name:        "ten days overdue",
			amount:      "1000",
			lateFee:     "2",
			dailyRate:   "0.033",
			days:        10,
			wantLate:    "20",
			wantPenalty: "3.3",
			wantTotal:   "23.3",
		},
		{
			name:        "not overdue",
			amount:      "1000",
			lateFee:     "2",
			dailyRate:   "0.033",
			days:        0,
			wantLate:    "0",
			wantPenalty: "0",
			wantTotal:   "0",
		},
		{
			name:        "no penalty configured",
			amount:      "500",
			lateFee:     "0",
			dailyRate:   "0",
			days:        30,
			wantLate:    "0",
			wantPenalty: "0",
			wantTotal:   "0",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fees := OverdueFees(dec(tc.amount), dec(tc.lateFee), dec(tc.dailyRate), tc.days)
			assert.True(t, dec(tc.wantLate).Equal(fees.LateFee), "late fee: got %s", fees.LateFee)
			assert.True(t, dec(tc.wantPenalty).Equal(fees.PenaltyInterest), "penalty: got %s", fees.PenaltyInterest)
			assert.True(t, dec(tc.wantTotal).Equal(fees.Total), "total: got %s", fees.Total)
		})
	}
}

func TestDaysOverdue(t *testing.T) {
	due := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		now  time.Time
		want int
	}{
		{"before due", due.Add(-time.Hour), 0},
		{"exactly due", due, 0},
		{"one hour late counts as a day", due.Add(time.Hour), 1},
		{"fifteen days", due.AddDate(0, 0, 15), 15},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DaysOverdue(due, tc.now))
		})
	}
}
