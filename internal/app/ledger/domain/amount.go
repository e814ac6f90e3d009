package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// AmountScale 金額精度：小數點後 2 位 (分)。
const AmountScale = 2

// Amount 是一筆操作的金額：嚴格為正的定點數，精度到分。
// 內部使用 decimal 做精確運算，金額絕不經過 float64，避免二進位浮點數的累積誤差。
type Amount struct {
	d decimal.Decimal
}

// ParseAmount 從十進位字串建立 Amount。
// 非數字、非正數、或精度超過分的輸入回傳 ErrInvalidAmount。
func ParseAmount(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return NewAmount(d)
}

// NewAmount 從 decimal 建立 Amount，套用同樣的正數與精度檢查。
func NewAmount(d decimal.Decimal) (Amount, error) {
	if !d.IsPositive() {
		return Amount{}, fmt.Errorf("%w: must be positive, got %s", ErrInvalidAmount, d)
	}
	if !d.Equal(d.Truncate(AmountScale)) {
		return Amount{}, fmt.Errorf("%w: more than %d decimal places: %s", ErrInvalidAmount, AmountScale, d)
	}
	return Amount{d: d}, nil
}

// MustAmount 等同 ParseAmount，但解析失敗直接 panic。只給常量與測試使用。
func MustAmount(s string) Amount {
	a, err := ParseAmount(s)
	if err != nil {
		panic(err)
	}
	return a
}

// Decimal 回傳底層的 decimal 值 (正數)。
func (a Amount) Decimal() decimal.Decimal {
	return a.d
}

// LessThan 回傳 a < b。
func (a Amount) LessThan(b Amount) bool {
	return a.d.LessThan(b.d)
}

// IsMultipleOf 回傳 a 是否為 unit 的整數倍 (面額檢查)。
func (a Amount) IsMultipleOf(unit Amount) bool {
	return a.d.Mod(unit.d).IsZero()
}

// IsZero 回傳 Amount 是否為零值 (未初始化)。
func (a Amount) IsZero() bool {
	return a.d.IsZero()
}

// String 以固定兩位小數輸出，例如 "50000.00"。
func (a Amount) String() string {
	return a.d.StringFixed(AmountScale)
}
