package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQueryState(t *testing.T) {
	tests := []struct {
		in      string
		want    QueryState
		wantErr bool
	}{
		{in: "", want: QueryAll},
		{in: "ALL", want: QueryAll},
		{in: "current", want: QueryCurrent},
		{in: "Past", want: QueryPast},
		{in: "FUTURE", want: QueryFuture},
		{in: "waiting", want: QueryWaiting},
		{in: "REJECTED", want: QueryRejected},
		{in: "  all  ", want: QueryAll},
		{in: "UNKNOWN", wantErr: true},
		{in: "approved", wantErr: true},
	}

	for _, tt := range tests {
		t.Run("in="+tt.in, func(t *testing.T) {
			got, err := ParseQueryState(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQueryStateMatches(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	current := &Booking{Start: now.Add(-time.Hour), End: now.Add(time.Hour), Status: StatusApproved}
	past := &Booking{Start: now.Add(-3 * time.Hour), End: now.Add(-time.Hour), Status: StatusApproved}
	future := &Booking{Start: now.Add(time.Hour), End: now.Add(2 * time.Hour), Status: StatusWaiting}
	// Граница: бронь закончилась ровно сейчас — уже прошлое, не текущее.
	justEnded := &Booking{Start: now.Add(-time.Hour), End: now, Status: StatusApproved}

	assert.True(t, QueryCurrent.Matches(current, now))
	assert.False(t, QueryCurrent.Matches(past, now))
	assert.False(t, QueryCurrent.Matches(future, now))
	assert.False(t, QueryCurrent.Matches(justEnded, now))

	assert.True(t, QueryPast.Matches(past, now))
	assert.True(t, QueryPast.Matches(justEnded, now))
	assert.False(t, QueryPast.Matches(current, now))

	assert.True(t, QueryFuture.Matches(future, now))
	assert.False(t, QueryFuture.Matches(current, now))

	assert.True(t, QueryWaiting.Matches(future, now))
	assert.False(t, QueryWaiting.Matches(current, now))

	assert.True(t, QueryAll.Matches(past, now))
	assert.True(t, QueryAll.Matches(current, now))
	assert.True(t, QueryAll.Matches(future, now))
}

func TestQueryStateAscending(t *testing.T) {
	assert.True(t, QueryAll.Ascending())
	for _, q := range []QueryState{QueryCurrent, QueryPast, QueryFuture, QueryWaiting, QueryRejected} {
		assert.False(t, q.Ascending(), string(q))
	}
}
