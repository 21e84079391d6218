package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupDateRange(t *testing.T) {
	tests := []struct {
		key     string
		want    DateRange
		wantErr bool
	}{
		{key: "7D", want: RangeWeek},
		{key: "1m", want: RangeMonth},
		{key: " 3M ", want: RangeQuarter},
		{key: "6M", want: RangeHalfYear},
		{key: "all", want: RangeAllTime},
		{key: "2Y", wantErr: true},
		{key: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, err := LookupDateRange(tt.key)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDateRange_Resolve(t *testing.T) {
	now := time.Date(2024, 3, 15, 16, 30, 0, 0, time.UTC)

	t.Run("bounded window starts at midnight", func(t *testing.T) {
		p := RangeWeek.Resolve(now)

		assert.Equal(t, time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC), p.Start)
		assert.Equal(t, time.Date(2024, 3, 15, 23, 59, 59, 999999999, time.UTC), p.End)
	})

	t.Run("all time starts at epoch", func(t *testing.T) {
		p := RangeAllTime.Resolve(now)

		assert.True(t, p.Start.Equal(time.Unix(0, 0)))
		assert.True(t, p.Contains(time.Unix(0, 0)))
	})

	t.Run("all time starts at midnight of the epoch's local day", func(t *testing.T) {
		west := time.FixedZone("UTC-5", -5*60*60)
		p := RangeAllTime.Resolve(now.In(west))

		assert.Equal(t, time.Date(1969, 12, 31, 0, 0, 0, 0, west), p.Start)
		assert.True(t, p.Contains(time.Date(1969, 12, 31, 9, 0, 0, 0, west)))
	})

	t.Run("keeps now's location", func(t *testing.T) {
		loc := time.FixedZone("UTC-5", -5*60*60)
		p := RangeMonth.Resolve(now.In(loc))

		assert.Equal(t, loc, p.Start.Location())
		assert.Equal(t, 0, p.Start.Hour())
	})
}

func TestPeriod_ContainsIsInclusive(t *testing.T) {
	p := RangeWeek.Resolve(time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC))

	assert.True(t, p.Contains(p.Start))
	assert.True(t, p.Contains(p.End))
	assert.False(t, p.Contains(p.Start.Add(-time.Millisecond)))
	assert.False(t, p.Contains(p.End.Add(time.Nanosecond)))
}

func TestCurrentMonth(t *testing.T) {
	p := CurrentMonth(time.Date(2024, 2, 29, 10, 0, 0, 0, time.UTC))

	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), p.Start)
	assert.Equal(t, 29, p.End.Day())
	assert.False(t, p.Contains(time.Date(2024, 1, 31, 23, 0, 0, 0, time.UTC)))
}
