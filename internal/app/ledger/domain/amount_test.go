package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{name: "integer", input: "50000", want: "50000.00"},
		{name: "two decimal places", input: "123.45", want: "123.45"},
		{name: "zero", input: "0", wantErr: ErrInvalidAmount},
		{name: "negative", input: "-10", wantErr: ErrInvalidAmount},
		{name: "three decimal places", input: "10.555", wantErr: ErrInvalidAmount},
		{name: "not a number", input: "abc", wantErr: ErrInvalidAmount},
		{name: "empty", input: "", wantErr: ErrInvalidAmount},
		{name: "nan", input: "NaN", wantErr: ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestAmountIsMultipleOf(t *testing.T) {
	unit := MustAmount("50000")

	assert.True(t, MustAmount("50000").IsMultipleOf(unit))
	assert.True(t, MustAmount("150000").IsMultipleOf(unit))
	assert.False(t, MustAmount("30000").IsMultipleOf(unit))
	assert.False(t, MustAmount("50000.50").IsMultipleOf(unit))
}

func TestAmountLessThan(t *testing.T) {
	assert.True(t, MustAmount("5000").LessThan(MustAmount("10000")))
	assert.False(t, MustAmount("10000").LessThan(MustAmount("10000")))
}

func TestAccountApplyDelta(t *testing.T) {
	acct := NewAccount("100", "Alice", MustAmount("100").Decimal())

	got, err := acct.ApplyDelta(MustAmount("50").Decimal().Neg())
	require.NoError(t, err)
	assert.Equal(t, "50.00", got.StringFixed(2))

	// 透支被拒，餘額不變
	_, err = acct.ApplyDelta(MustAmount("50.01").Decimal().Neg())
	require.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, "50.00", acct.Balance.StringFixed(2))
}

func TestRecordDelta(t *testing.T) {
	amount := MustAmount("100").Decimal()

	for kind, sign := range map[RecordKind]string{
		KindDeposit:     "100.00",
		KindTransferIn:  "100.00",
		KindWithdrawal:  "-100.00",
		KindTransferOut: "-100.00",
	} {
		rec := TransactionRecord{Kind: kind, Amount: amount}
		assert.Equal(t, sign, rec.Delta().StringFixed(2), kind.String())
	}
}
