package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("creates money with valid amount and currency", func(t *testing.T) {
		m, err := NewMoney(decimal.NewFromFloat(100.50), EUR)
		require.NoError(t, err)
		assert.Equal(t, EUR, m.Currency())
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(100.50)))
	})

	t.Run("returns error for empty currency", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromFloat(100), "")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "currency cannot be empty")
	})
}

func TestParseCurrency(t *testing.T) {
	tests := []struct {
		input   string
		want    Currency
		wantErr bool
	}{
		{input: "eur", want: EUR},
		{input: " usd ", want: USD},
		{input: "", want: ""},
		{input: "EURO", wantErr: true},
		{input: "E1R", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCurrency(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCurrency_Digits(t *testing.T) {
	assert.Equal(t, int32(2), EUR.Digits())
	assert.Equal(t, int32(0), JPY.Digits())
}

func TestCurrency_OrDefault(t *testing.T) {
	assert.Equal(t, USD, Currency("").OrDefault(USD))
	assert.Equal(t, EUR, EUR.OrDefault(USD))
}

func TestMoney_Add(t *testing.T) {
	a, _ := NewMoney(decimal.NewFromInt(10), EUR)
	b, _ := NewMoney(decimal.NewFromInt(5), EUR)
	c, _ := NewMoney(decimal.NewFromInt(5), USD)

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.True(t, sum.Amount().Equal(decimal.NewFromInt(15)))

	_, err = a.Add(c)
	assert.Error(t, err)
}

func TestMoney_RoundToCurrency(t *testing.T) {
	m, _ := NewMoney(decimal.RequireFromString("12.3456"), EUR)
	assert.Equal(t, "12.35", m.RoundToCurrency().Amount().String())

	y, _ := NewMoney(decimal.RequireFromString("12.5"), JPY)
	assert.Equal(t, "13", y.RoundToCurrency().Amount().String())
}

func TestMoney_MarshalJSON(t *testing.T) {
	m, _ := NewMoney(decimal.RequireFromString("9.5"), EUR)
	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":"9.5","currency":"EUR"}`, string(data))
}
