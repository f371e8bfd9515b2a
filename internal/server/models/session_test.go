package models

import (
	"testing"
	"time"
)

func TestSessionRecord_IsExpiredAt(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	rec := &SessionRecord{ExpiresAt: now}

	if !rec.IsExpiredAt(now) {
		t.Fatal("record must be expired at its exact expiry instant")
	}
	if rec.IsExpiredAt(now.Add(-time.Nanosecond)) {
		t.Fatal("record must not be expired just before its expiry instant")
	}
	if !rec.IsExpiredAt(now.Add(time.Nanosecond)) {
		t.Fatal("record must be expired after its expiry instant")
	}
	if rec.IsExpiredAt(now.Add(-time.Hour)) {
		t.Fatal("record must not be expired before its expiry instant")
	}
}
