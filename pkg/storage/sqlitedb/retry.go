package sqlitedb

import (
	"strings"
	"time"
)

const maxBusyRetries = 3

// WithBusyRetry runs fn, retrying a bounded number of times with a short
// backoff when the store reports lock contention, then surfaces the error.
func WithBusyRetry(fn func() error) error {
	var err error
	for attempt := 0; attempt < maxBusyRetries; attempt++ {
		if err = fn(); err == nil || !IsBusy(err) {
			return err
		}
		time.Sleep(time.Duration(50*(attempt+1)) * time.Millisecond)
	}
	return err
}

// IsBusy reports whether err is SQLite lock contention.
func IsBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}
