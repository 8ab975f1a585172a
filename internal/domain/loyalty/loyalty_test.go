package loyalty

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeRedemption(t *testing.T) {
	tests := []struct {
		name         string
		requested    int
		balance      int
		payable      string
		wantCoins    int
		wantDiscount string
		wantErr      error
	}{
		{
			name:      "zero coins rejected",
			requested: 0, balance: 100, payable: "500",
			wantErr: ErrInvalidCoinCount,
		},
		{
			name:      "negative coins rejected",
			requested: -5, balance: 100, payable: "500",
			wantErr: ErrInvalidCoinCount,
		},
		{
			name:      "request above balance rejected",
			requested: 101, balance: 100, payable: "500",
			wantErr: ErrInsufficientCoins,
		},
		{
			name:      "ten coins equal one rupee",
			requested: 10, balance: 10, payable: "10000",
			wantCoins: 10, wantDiscount: "1.00",
		},
		{
			name:      "uncapped redemption",
			requested: 55, balance: 80, payable: "200.00",
			wantCoins: 55, wantDiscount: "5.50",
		},
		{
			name: "capped at bill value recomputes coins",
			// 25 coins would be 2.50, but the bill is only worth 1.50:
			// grant 1.50 and consume only 15 coins.
			requested: 25, balance: 25, payable: "1.50",
			wantCoins: 15, wantDiscount: "1.50",
		},
		{
			name: "cap with sub-coin remainder floors",
			// 1.55 payable: floor(15.5) = 15 coins, worth exactly 1.50.
			requested: 25, balance: 25, payable: "1.55",
			wantCoins: 15, wantDiscount: "1.50",
		},
		{
			name:      "zero payable grants nothing",
			requested: 25, balance: 25, payable: "0",
			wantCoins: 0, wantDiscount: "0",
		},
		{
			name:      "apply max coins self-limits",
			requested: 500, balance: 500, payable: "12.30",
			wantCoins: 123, wantDiscount: "12.30",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeRedemption(tt.requested, tt.balance, decimal.RequireFromString(tt.payable))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Zero(t, got.CoinsApplied)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCoins, got.CoinsApplied)
			assert.True(t, got.CoinDiscount.Equal(decimal.RequireFromString(tt.wantDiscount)),
				"got %s, want %s", got.CoinDiscount, tt.wantDiscount)
		})
	}
}

// Coins consumed must always match the value granted: discount == coins/10.
func TestComputeRedemption_ConsumedMatchesGranted(t *testing.T) {
	payables := []string{"0.05", "1.50", "1.55", "7.23", "100.00"}
	for _, p := range payables {
		got, err := ComputeRedemption(1000, 1000, decimal.RequireFromString(p))
		require.NoError(t, err)
		assert.True(t, got.CoinDiscount.Equal(Value(got.CoinsApplied)),
			"payable %s: discount %s for %d coins", p, got.CoinDiscount, got.CoinsApplied)
	}
}

func TestValue(t *testing.T) {
	assert.True(t, Value(10).Equal(decimal.RequireFromString("1")))
	assert.True(t, Value(7).Equal(decimal.RequireFromString("0.70")))
	assert.True(t, Value(0).IsZero())
}
