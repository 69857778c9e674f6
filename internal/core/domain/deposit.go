package domain

import (
	"math/big"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// yoctoPerNear is the number of yoctoNEAR in one NEAR.
var yoctoPerNear = new(big.Int).Exp(big.NewInt(10), big.NewInt(24), nil)

// DefaultCostPerByte is the storage price of one byte in yoctoNEAR (1e19).
func DefaultCostPerByte() *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(19), nil)
}

// DefaultExtraStorageOptions is the menu of optional prepaid byte budgets.
func DefaultExtraStorageOptions() []int64 {
	return []int64{0, 5000, 20000, 100000}
}

// RequiredDeposit returns max(0, newBytes-fundedBytes) * costPerByte.
func RequiredDeposit(newBytes, fundedBytes int64, costPerByte *big.Int) *big.Int {
	growth := newBytes - fundedBytes
	if growth <= 0 || costPerByte == nil {
		return new(big.Int)
	}
	return new(big.Int).Mul(big.NewInt(growth), costPerByte)
}

// ExtraDeposit prices an author-chosen extra storage budget.
// The budget must be one of the offered options.
func ExtraDeposit(extraBytes int64, options []int64, costPerByte *big.Int) (*big.Int, error) {
	if extraBytes < 0 || !slices.Contains(options, extraBytes) {
		return nil, zerr.With(ErrInvalidExtraStorage, "bytes", extraBytes)
	}
	if extraBytes == 0 || costPerByte == nil {
		return new(big.Int), nil
	}
	return new(big.Int).Mul(big.NewInt(extraBytes), costPerByte), nil
}

// DepositBytes converts a deposit back into the number of bytes it pays for.
func DepositBytes(deposit, costPerByte *big.Int) int64 {
	if deposit == nil || costPerByte == nil || costPerByte.Sign() == 0 {
		return 0
	}
	return new(big.Int).Quo(deposit, costPerByte).Int64()
}

// ParseCostPerByte parses a decimal yoctoNEAR amount.
func ParseCostPerByte(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(strings.TrimSpace(s), 10)
	if !ok || v.Sign() < 0 {
		return nil, zerr.With(ErrInvalidCostPerByte, "value", s)
	}
	return v, nil
}

// FormatNear renders a yoctoNEAR amount as NEAR, e.g. "0.05 NEAR".
func FormatNear(yocto *big.Int) string {
	if yocto == nil {
		yocto = new(big.Int)
	}
	s := new(big.Rat).SetFrac(yocto, yoctoPerNear).FloatString(5)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	}
	return s + " NEAR"
}
