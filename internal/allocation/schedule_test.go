package allocation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDueDate_ClampsToMonthEnd(t *testing.T) {
	assert.Equal(t, day(2026, 2, 28), DueDate(2026, time.February, 31, time.UTC))
	assert.Equal(t, day(2028, 2, 29), DueDate(2028, time.February, 30, time.UTC))
	assert.Equal(t, day(2026, 4, 30), DueDate(2026, time.April, 31, time.UTC))
	assert.Equal(t, day(2026, 12, 15), DueDate(2026, time.December, 15, time.UTC))
}

func TestLastDueDate(t *testing.T) {
	tests := []struct {
		name       string
		now        time.Time
		paymentDay int
		want       time.Time
	}{
		{"due later this month", day(2026, 3, 5).Add(10 * time.Hour), 10, day(2026, 2, 10)},
		{"due earlier this month", day(2026, 3, 20), 10, day(2026, 3, 10)},
		{"due today", day(2026, 3, 10).Add(time.Hour), 10, day(2026, 3, 10)},
		{"january rolls back to december", day(2026, 1, 2), 15, day(2025, 12, 15)},
		{"previous month clamped", day(2026, 3, 1), 31, day(2026, 2, 28)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, LastDueDate(tc.now, tc.paymentDay))
		})
	}
}

func TestNextDueDate(t *testing.T) {
	tests := []struct {
		name       string
		now        time.Time
		paymentDay int
		want       time.Time
	}{
		{"later this month", day(2026, 3, 5), 10, day(2026, 3, 10)},
		{"today counts", day(2026, 3, 10).Add(15 * time.Hour), 10, day(2026, 3, 10)},
		{"already passed", day(2026, 3, 11), 10, day(2026, 4, 10)},
		{"december rolls into january", day(2026, 12, 20), 5, day(2027, 1, 5)},
		{"clamped next month", day(2026, 1, 31).Add(time.Hour), 30, day(2026, 2, 28)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NextDueDate(tc.now, tc.paymentDay))
		})
	}
}
