package worktime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestHoursBetween(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
		want       float64
	}{
		{"full day", "09:00", "17:00", 8},
		{"with seconds", "09:00:00", "17:30:00", 8.5},
		{"mixed layouts", "09:00", "18:15:00", 9.25},
		{"rounded to two decimals", "09:00", "09:20", 0.33},
		{"rounds half up", "09:00:00", "09:00:18", 0.01},
		{"same time", "10:00", "10:00", 0},
		{"rollover past midnight", "22:00", "06:00", 8},
		{"rollover one minute", "23:59", "00:00", 0.02},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HoursBetween(tt.start, tt.end)
			require.NotNil(t, got)
			assert.InDelta(t, tt.want, *got, 0.0001)
		})
	}
}

func TestHoursBetween_NoValue(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
	}{
		{"empty start", "", "17:00"},
		{"empty end", "09:00", ""},
		{"both empty", "", ""},
		{"blank", "  ", "17:00"},
		{"garbage", "nine", "17:00"},
		{"out of range", "09:00", "25:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, HoursBetween(tt.start, tt.end))
		})
	}
}

func TestOvertimeHours(t *testing.T) {
	assert.Equal(t, 0.0, OvertimeHours(7.5, 8))
	assert.Equal(t, 0.0, OvertimeHours(8, 8))
	assert.Equal(t, 0.0, OvertimeHours(0, 8))
	assert.InDelta(t, 1.5, OvertimeHours(9.5, 8), 0.0001)
	assert.InDelta(t, 0.33, OvertimeHours(8.333, 8), 0.0001)
}

func TestIsOvertime(t *testing.T) {
	assert.False(t, IsOvertime(8, 8))
	assert.False(t, IsOvertime(7.99, 8))
	assert.True(t, IsOvertime(8.01, 8))
}

func TestStandardHours(t *testing.T) {
	assert.Equal(t, 6.0, StandardHours(6, 8))
	assert.Equal(t, 7.5, StandardHours(0, 7.5))
	assert.Equal(t, DefaultStandardHours, StandardHours(0, 0))
	assert.Equal(t, DefaultStandardHours, StandardHours(-1, -1))
}

func TestDerive(t *testing.T) {
	t.Run("overtime day", func(t *testing.T) {
		d := Derive(strPtr("09:00"), strPtr("19:00"), 8)
		require.True(t, d.Computed())
		assert.InDelta(t, 10, *d.WorkHours, 0.0001)
		assert.True(t, d.IsOvertime)
		assert.InDelta(t, 2, d.OvertimeHours, 0.0001)
	})

	t.Run("short day", func(t *testing.T) {
		d := Derive(strPtr("09:00"), strPtr("13:00"), 8)
		require.True(t, d.Computed())
		assert.False(t, d.IsOvertime)
		assert.Equal(t, 0.0, d.OvertimeHours)
	})

	t.Run("missing check-out", func(t *testing.T) {
		d := Derive(strPtr("09:00"), nil, 8)
		assert.False(t, d.Computed())
		assert.False(t, d.IsOvertime)
		assert.Equal(t, 0.0, d.OvertimeHours)
	})

	t.Run("unparseable", func(t *testing.T) {
		d := Derive(strPtr("later"), strPtr("17:00"), 8)
		assert.False(t, d.Computed())
	})
}
