// Package token computes the daily order token printed on receipt slips.
package token

// Max is the top of the human-friendly token range; the sequence wraps past
// it rather than growing unbounded across a long day.
const Max = 100

// Next returns the token for the order about to be created: the count of
// orders already created today (confirmed or pending) plus the count still
// waiting in the offline queue, folded into [1, Max].
//
// Callers must recompute this at creation time, never cache it: concurrent
// submissions from other terminals move the counts between reads.
func Next(todayCount, pendingOffline int) int {
	if todayCount < 0 {
		todayCount = 0
	}
	if pendingOffline < 0 {
		pendingOffline = 0
	}
	return (todayCount+pendingOffline)%Max + 1
}
