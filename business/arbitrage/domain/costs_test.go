package domain

import (
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
)

func TestNewGasCost(t *testing.T) {
	tests := []struct {
		name       string
		gasLimit   uint64
		gasGwei    int64
		nativeUSD  string
		wantNative string
		wantUSD    string
	}{
		{
			name:       "typical polygon round trip",
			gasLimit:   450_000,
			gasGwei:    30,
			nativeUSD:  "0.52",
			wantNative: "0.0135",
			wantUSD:    "0.00702",
		},
		{
			name:       "congested chain",
			gasLimit:   600_000,
			gasGwei:    200,
			nativeUSD:  "0.50",
			wantNative: "0.12",
			wantUSD:    "0.06",
		},
		{
			name:       "zero gas price",
			gasLimit:   450_000,
			gasGwei:    0,
			nativeUSD:  "0.52",
			wantNative: "0",
			wantUSD:    "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gasPriceWei := new(big.Int).Mul(big.NewInt(tt.gasGwei), big.NewInt(1_000_000_000))

			cost := NewGasCost(tt.gasLimit, gasPriceWei, decimal.RequireFromString(tt.nativeUSD))

			if cost.GasLimit != tt.gasLimit {
				t.Errorf("gas limit = %d, want %d", cost.GasLimit, tt.gasLimit)
			}
			if !cost.Native.Equal(decimal.RequireFromString(tt.wantNative)) {
				t.Errorf("native cost = %s, want %s", cost.Native, tt.wantNative)
			}
			if !cost.USD.Equal(decimal.RequireFromString(tt.wantUSD)) {
				t.Errorf("usd cost = %s, want %s", cost.USD, tt.wantUSD)
			}

			wantWei := new(big.Int).Mul(gasPriceWei, new(big.Int).SetUint64(tt.gasLimit))
			if cost.TotalWei.Cmp(wantWei) != 0 {
				t.Errorf("total wei = %s, want %s", cost.TotalWei, wantWei)
			}
		})
	}
}

func TestNewGasCost_CopiesGasPrice(t *testing.T) {
	gasPriceWei := big.NewInt(30_000_000_000)
	cost := NewGasCost(450_000, gasPriceWei, decimal.RequireFromString("0.52"))

	gasPriceWei.SetInt64(0)

	if cost.GasPrice.Sign() == 0 {
		t.Error("GasCost must not alias the caller's gas price")
	}
}
