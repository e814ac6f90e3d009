package mysql

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/averho/go-bank-ledger/internal/app/ledger/domain"
)

func TestWrapCommitErr(t *testing.T) {
	err := wrapCommitErr(errors.New("invalid connection"))
	require.ErrorIs(t, err, domain.ErrInconsistency)
	assert.Contains(t, err.Error(), "invalid connection")
}

func TestSQLTxStagesOnLockedRows(t *testing.T) {
	tx := &sqlTx{rows: map[string]*sqlAccount{
		"1": {ID: "1", Name: "Alice", Balance: decimal.NewFromInt(100)},
	}}

	next, err := tx.ApplyDelta("1", decimal.NewFromInt(-30))
	require.NoError(t, err)
	assert.Equal(t, "70", next.String())

	// 同一列改兩次只記一次 dirty
	_, err = tx.ApplyDelta("1", decimal.NewFromInt(-30))
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, tx.dirty)
	assert.Equal(t, "40", tx.rows["1"].Balance.String())

	_, err = tx.ApplyDelta("1", decimal.NewFromInt(-100))
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)

	_, err = tx.ApplyDelta("ghost", decimal.NewFromInt(1))
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}
