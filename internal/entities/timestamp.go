package entities

import "time"

// Timestamp is a point in time stored as unix milliseconds, the format used by
// the persisted snapshot document.
type Timestamp int64

// Now returns the current time truncated to millisecond precision.
func Now() Timestamp {
	return FromTime(time.Now())
}

// FromTime converts t to a Timestamp, dropping sub-millisecond precision.
func FromTime(t time.Time) Timestamp {
	return Timestamp(t.UnixMilli())
}

// Time returns the timestamp as a time.Time in UTC.
func (t Timestamp) Time() time.Time {
	return time.UnixMilli(int64(t)).UTC()
}

// Before reports whether t is strictly before u.
func (t Timestamp) Before(u Timestamp) bool {
	return t < u
}

// After reports whether t is strictly after u.
func (t Timestamp) After(u Timestamp) bool {
	return t > u
}
