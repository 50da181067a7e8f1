package domain

import "time"

// CoalesceStr returns the first non-empty string from vals.
func CoalesceStr(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// StrFromPtr returns *p, or the fallback when p is nil.
func StrFromPtr(p *string, fallback string) string {
	if p == nil {
		return fallback
	}
	return *p
}

// EarliestTime returns the earliest non-nil time, or nil if all are nil.
func EarliestTime(ts ...*time.Time) *time.Time {
	var out *time.Time
	for _, t := range ts {
		if t != nil && (out == nil || t.Before(*out)) {
			out = t
		}
	}
	return out
}

// LatestTime returns the latest non-nil time, or nil if all are nil.
func LatestTime(ts ...*time.Time) *time.Time {
	var out *time.Time
	for _, t := range ts {
		if t != nil && (out == nil || t.After(*out)) {
			out = t
		}
	}
	return out
}
