package domain_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/scribe/internal/core/domain"
)

func TestRequiredDeposit(t *testing.T) {
	cost := domain.DefaultCostPerByte()

	tests := []struct {
		name   string
		bytes  int64
		funded int64
		want   *big.Int
	}{
		{"covered by balance", 800, 1000, big.NewInt(0)},
		{"exactly covered", 1000, 1000, big.NewInt(0)},
		{"growth is charged", 1500, 1000, new(big.Int).Mul(big.NewInt(500), cost)},
		{"no balance", 10, 0, new(big.Int).Mul(big.NewInt(10), cost)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := domain.RequiredDeposit(tt.bytes, tt.funded, cost)
			assert.Equal(t, 0, tt.want.Cmp(got), "got %s", got)
		})
	}
}

func TestRequiredDeposit_Monotonic(t *testing.T) {
	cost := domain.DefaultCostPerByte()
	prev := new(big.Int)
	for n := int64(0); n <= 3000; n += 100 {
		d := domain.RequiredDeposit(n, 1000, cost)
		assert.GreaterOrEqual(t, d.Cmp(prev), 0)
		prev = d
	}
}

func TestExtraDeposit(t *testing.T) {
	cost := domain.DefaultCostPerByte()
	opts := domain.DefaultExtraStorageOptions()

	d, err := domain.ExtraDeposit(5000, opts, cost)
	require.NoError(t, err)
	assert.Equal(t, "0.05 NEAR", domain.FormatNear(d))

	d, err = domain.ExtraDeposit(0, opts, cost)
	require.NoError(t, err)
	assert.Zero(t, d.Sign())

	_, err = domain.ExtraDeposit(1234, opts, cost)
	require.ErrorContains(t, err, domain.ErrInvalidExtraStorage.Error())

	_, err = domain.ExtraDeposit(-5000, opts, cost)
	require.Error(t, err)
}

func TestFormatNear(t *testing.T) {
	assert.Equal(t, "0 NEAR", domain.FormatNear(nil))
	assert.Equal(t, "1 NEAR", domain.FormatNear(new(big.Int).Exp(big.NewInt(10), big.NewInt(24), nil)))
	assert.Equal(t, "0.001 NEAR", domain.FormatNear(domain.RequiredDeposit(100, 0, domain.DefaultCostPerByte())))
}

func TestParseCostPerByte(t *testing.T) {
	v, err := domain.ParseCostPerByte("10000000000000000000")
	require.NoError(t, err)
	assert.Equal(t, 0, v.Cmp(domain.DefaultCostPerByte()))

	_, err = domain.ParseCostPerByte("-1")
	require.Error(t, err)
	_, err = domain.ParseCostPerByte("abc")
	require.Error(t, err)

	assert.Equal(t, int64(500), domain.DepositBytes(domain.RequiredDeposit(1500, 1000, v), v))
}
