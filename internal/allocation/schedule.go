package allocation

import "time"

// DueDate is the payment day in the given month, clamped to the month's last
// day for payment days 29-31.
func DueDate(year int, month time.Month, paymentDay int, loc *time.Location) time.Time {
	last := time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
	day := min(max(paymentDay, 1), last)
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

// LastDueDate is the most recent due date on or before now.
func LastDueDate(now time.Time, paymentDay int) time.Time {
	due := DueDate(now.Year(), now.Month(), paymentDay, now.Location())
	if due.After(now) {
		prev := now.AddDate(0, 0, -now.Day()+1).AddDate(0, -1, 0)
		due = DueDate(prev.Year(), prev.Month(), paymentDay, now.Location())
	}
	return due
}

// NextDueDate is the first due date on or after the start of now's day.
func NextDueDate(now time.Time, paymentDay int) time.Time {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	due := DueDate(now.Year(), now.Month(), paymentDay, now.Location())
	if due.Before(today) {
		next := today.AddDate(0, 0, -today.Day()+1).AddDate(0, 1, 0)
		due = DueDate(next.Year(), next.Month(), paymentDay, now.Location())
	}
	return due
}
