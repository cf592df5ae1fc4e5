package models

import (
	"fmt"
	"strings"
	"time"
)

// QueryState is a temporal/status bucket for booking listings.
type QueryState string

const (
	QueryAll      QueryState = "ALL"
	QueryCurrent  QueryState = "CURRENT"
	QueryPast     QueryState = "PAST"
	QueryFuture   QueryState = "FUTURE"
	QueryWaiting  QueryState = "WAITING"
	QueryRejected QueryState = "REJECTED"
)

// ParseQueryState разбирает state из запроса; пустая строка означает ALL.
func ParseQueryState(s string) (QueryState, error) {
	if strings.TrimSpace(s) == "" {
		return QueryAll, nil
	}
	state := QueryState(strings.ToUpper(strings.TrimSpace(s)))
	switch state {
	case QueryAll, QueryCurrent, QueryPast, QueryFuture, QueryWaiting, QueryRejected:
		return state, nil
	}
	return "", fmt.Errorf("unknown booking query state: %s", s)
}

// Matches reports whether the booking falls into the bucket at the given
// moment: CURRENT is start <= now < end, PAST is end <= now, FUTURE is
// start > now.
func (q QueryState) Matches(b *Booking, now time.Time) bool {
	switch q {
	case QueryAll:
		return true
	case QueryCurrent:
		return !b.Start.After(now) && b.End.After(now)
	case QueryPast:
		return !b.End.After(now)
	case QueryFuture:
		return b.Start.After(now)
	case QueryWaiting:
		return b.Status == StatusWaiting
	case QueryRejected:
		return b.Status == StatusRejected
	}
	return false
}

// Ascending reports the ordering direction for the bucket: the full listing
// goes oldest-first, filtered buckets go most-recent-first.
func (q QueryState) Ascending() bool {
	return q == QueryAll
}
