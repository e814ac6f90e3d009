package postgres

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/averho/go-bank-ledger/internal/app/ledger/domain"
)

func TestWrapCommitErr(t *testing.T) {
	err := wrapCommitErr(errors.New("bad connection"))
	require.ErrorIs(t, err, domain.ErrInconsistency)
	assert.Contains(t, err.Error(), "bad connection")
}

func TestPGTxStagesOnLockedRows(t *testing.T) {
	tx := &pgTx{rows: map[string]*domain.Account{
		"1": domain.NewAccount("1", "Alice", decimal.NewFromInt(100)),
	}}

	next, err := tx.ApplyDelta("1", decimal.NewFromInt(-30))
	require.NoError(t, err)
	assert.Equal(t, "70", next.String())

	_, err = tx.ApplyDelta("1", decimal.NewFromInt(-30))
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, tx.dirty)

	_, err = tx.ApplyDelta("1", decimal.NewFromInt(-100))
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)

	_, err = tx.Account("ghost")
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}
