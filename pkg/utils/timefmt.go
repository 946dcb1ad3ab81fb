package utils

import "time"

// TimeLayout is the timestamp format the ledger store uses for every
// created_at / paid_at column.
const TimeLayout = "2006-01-02 15:04:05"

// NowStamp returns the current UTC time in the store's timestamp format.
func NowStamp() string {
	return time.Now().UTC().Format(TimeLayout)
}
