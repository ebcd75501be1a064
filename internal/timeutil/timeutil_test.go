package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, time.March, 14, 15, 30, 0, 0, time.UTC)

func TestFromStr(t *testing.T) {
	testCases := []struct {
		Want time.Time
		Name string
		In   string
	}{
		{
			Name: "rfc3339",
			In:   "2024-03-01T09:00:00Z",
			Want: time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC),
		},
		{
			Name: "relative days",
			In:   "2 days ago",
			Want: now.AddDate(0, 0, -2),
		},
		{
			Name: "relative hours",
			In:   "3 hours ago",
			Want: now.Add(-3 * time.Hour),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			got, err := FromStr(tc.In, now)
			require.NoError(t, err)
			assert.True(t, tc.Want.Equal(got), "want %v, got %v", tc.Want, got)
		})
	}
}

func TestFromStrEmpty(t *testing.T) {
	_, err := FromStr("   ", now)
	assert.ErrorIs(t, err, errEmptyTime)
}

func TestRoundDay(t *testing.T) {
	assert.Equal(t, time.Date(2024, time.March, 14, 0, 0, 0, 0, time.UTC), RoundToStart(now))
	assert.Equal(t, time.Date(2024, time.March, 14, 23, 59, 59, 0, time.UTC), RoundToEnd(now))
}
