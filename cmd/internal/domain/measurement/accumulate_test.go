package measurement

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestAccumulate(t *testing.T) {
	history := []Entry{
		{BulletinNumber: 1, Quantity: d("10")},
		{BulletinNumber: 2, Quantity: d("15.5")},
		{BulletinNumber: 3, Quantity: d("4")},
	}

	tests := []struct {
		name       string
		number     int
		current    string
		wantBefore string
		wantAfter  string
		wantBal    string
		exceeded   bool
	}{
		{"first bulletin", 1, "10", "0", "10", "40", false},
		{"second bulletin", 2, "15.5", "10", "25.5", "24.5", false},
		{"later entries ignored", 3, "4", "25.5", "29.5", "20.5", false},
		{"new bulletin", 4, "20.5", "29.5", "50", "0", false},
		{"overage is flagged", 4, "30", "29.5", "59.5", "-9.5", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := Accumulate(history, tt.number, d(tt.current), d("50"))
			assert.True(t, acc.Before.Equal(d(tt.wantBefore)), "before: %s", acc.Before)
			assert.True(t, acc.After.Equal(d(tt.wantAfter)), "after: %s", acc.After)
			assert.True(t, acc.Balance.Equal(d(tt.wantBal)), "balance: %s", acc.Balance)
			assert.Equal(t, tt.exceeded, acc.Exceeded)
		})
	}
}

func TestSeriesIsMonotonic(t *testing.T) {
	history := []Entry{
		{BulletinNumber: 3, Quantity: d("0")},
		{BulletinNumber: 1, Quantity: d("2.25")},
		{BulletinNumber: 5, Quantity: d("7")},
		{BulletinNumber: 2, Quantity: d("1")},
		{BulletinNumber: 4, Quantity: d("0.75")},
	}

	series := Series(history, d("5"))
	require.Len(t, series, 5)
	assert.Equal(t, 1, series[0].BulletinNumber)
	assert.Equal(t, 5, series[4].BulletinNumber)

	prev := decimal.Zero
	for i, acc := range series {
		assert.True(t, acc.After.GreaterThanOrEqual(prev), "bulletin %d went backwards", i+1)
		assert.True(t, acc.Before.Equal(prev))
		prev = acc.After
	}
	assert.True(t, prev.Equal(d("11")))
	assert.True(t, series[4].Exceeded)
	assert.False(t, series[3].Exceeded)
}

func TestAdditive(t *testing.T) {
	acc := Additive(d("3"), d("2"))
	assert.True(t, acc.Before.IsZero())
	assert.True(t, acc.After.Equal(d("3")))
	assert.True(t, acc.Exceeded)
}

func TestMoney(t *testing.T) {
	acc := Accumulate([]Entry{{BulletinNumber: 1, Quantity: d("1.3333")}}, 2, d("2"), d("10"))
	m := acc.Money(d("12.50"))

	assert.Equal(t, "16.67", m.Before.StringFixed(2))
	assert.Equal(t, "25.00", m.ThisPeriod.StringFixed(2))
	assert.Equal(t, "41.67", m.After.StringFixed(2))
	assert.Equal(t, "125.00", m.Contracted.StringFixed(2))
}
