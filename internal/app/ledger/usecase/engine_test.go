package usecase_test

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/averho/go-bank-ledger/internal/app/ledger/adapter/out/memory"
	"github.com/averho/go-bank-ledger/internal/app/ledger/domain"
	"github.com/averho/go-bank-ledger/internal/app/ledger/usecase"
)

func newTestEngine(t *testing.T) (*usecase.Engine, usecase.Store) {
	t.Helper()
	store, err := memory.NewStore(nil)
	require.NoError(t, err)
	return usecase.NewEngine(store, nil, usecase.DefaultPolicy()), store
}

func mustCreate(t *testing.T, store usecase.Store, id, name, balance string) {
	t.Helper()
	b, err := decimal.NewFromString(balance)
	require.NoError(t, err)
	require.NoError(t, store.CreateAccount(context.Background(), domain.NewAccount(id, name, b)))
}

func balanceOf(t *testing.T, store usecase.Store, id string) string {
	t.Helper()
	acct, err := store.Account(context.Background(), id)
	require.NoError(t, err)
	return acct.Balance.StringFixed(2)
}

func TestDeposit(t *testing.T) {
	engine, store := newTestEngine(t)
	mustCreate(t, store, "1000000001", "Alice", "0")
	ctx := context.Background()

	got, err := engine.Deposit(ctx, "1000000001", domain.MustAmount("10000"))
	require.NoError(t, err)
	assert.Equal(t, "10000.00", got.StringFixed(2))

	got, err = engine.Deposit(ctx, "1000000001", domain.MustAmount("25000"))
	require.NoError(t, err)
	assert.Equal(t, "35000.00", got.StringFixed(2))

	records, err := engine.History(ctx, "1000000001", 0)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, domain.KindDeposit, records[0].Kind)
	assert.Equal(t, "25000.00", records[0].Amount.StringFixed(2)) // 新的在前
}

func TestDepositBelowMinimum(t *testing.T) {
	engine, store := newTestEngine(t)
	mustCreate(t, store, "1000000001", "Alice", "0")

	_, err := engine.Deposit(context.Background(), "1000000001", domain.MustAmount("5000"))
	require.ErrorIs(t, err, domain.ErrBelowMinimum)
	assert.Equal(t, "0.00", balanceOf(t, store, "1000000001"))

	records, err := engine.History(context.Background(), "1000000001", 0)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestDepositUnknownAccount(t *testing.T) {
	engine, _ := newTestEngine(t)

	_, err := engine.Deposit(context.Background(), "9999999999", domain.MustAmount("10000"))
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestWithdraw(t *testing.T) {
	engine, store := newTestEngine(t)
	mustCreate(t, store, "1000000001", "Alice", "100000")
	ctx := context.Background()

	got, err := engine.Withdraw(ctx, "1000000001", domain.MustAmount("50000"))
	require.NoError(t, err)
	assert.Equal(t, "50000.00", got.StringFixed(2))

	records, err := engine.History(ctx, "1000000001", 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, domain.KindWithdrawal, records[0].Kind)
	assert.Equal(t, "50000.00", records[0].Amount.StringFixed(2))

	// 不是面額的整數倍：失敗且餘額不變
	_, err = engine.Withdraw(ctx, "1000000001", domain.MustAmount("30000"))
	require.ErrorIs(t, err, domain.ErrInvalidDenomination)
	assert.Equal(t, "50000.00", balanceOf(t, store, "1000000001"))
}

func TestWithdrawInsufficientFunds(t *testing.T) {
	engine, store := newTestEngine(t)
	mustCreate(t, store, "1000000001", "Alice", "40000")
	ctx := context.Background()

	_, err := engine.Withdraw(ctx, "1000000001", domain.MustAmount("50000"))
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)
	assert.Equal(t, "40000.00", balanceOf(t, store, "1000000001"))

	// 失敗的提款不留任何紀錄
	records, err := engine.History(ctx, "1000000001", 0)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestTransfer(t *testing.T) {
	engine, store := newTestEngine(t)
	mustCreate(t, store, "1000000001", "Alice", "100000")
	mustCreate(t, store, "1000000002", "Bob", "0")
	ctx := context.Background()

	receipt, err := engine.Transfer(ctx, "1000000001", "1000000002", domain.MustAmount("20000"))
	require.NoError(t, err)
	assert.Equal(t, "80000.00", receipt.NewBalance.StringFixed(2))
	assert.Equal(t, "1000000002", receipt.CounterpartyID)
	assert.Equal(t, "Bob", receipt.CounterpartyName)
	assert.Equal(t, "20000.00", receipt.Amount.String())

	// 總和守恆
	assert.Equal(t, "80000.00", balanceOf(t, store, "1000000001"))
	assert.Equal(t, "20000.00", balanceOf(t, store, "1000000002"))

	// 兩側各恰好一筆配對紀錄
	outRecs, err := engine.History(ctx, "1000000001", 0)
	require.NoError(t, err)
	require.Len(t, outRecs, 1)
	assert.Equal(t, domain.KindTransferOut, outRecs[0].Kind)
	assert.Equal(t, "20000.00", outRecs[0].Amount.StringFixed(2))
	assert.Equal(t, "1000000002", outRecs[0].Counterparty)
	assert.Equal(t, "Bob", outRecs[0].Note)

	inRecs, err := engine.History(ctx, "1000000002", 0)
	require.NoError(t, err)
	require.Len(t, inRecs, 1)
	assert.Equal(t, domain.KindTransferIn, inRecs[0].Kind)
	assert.Equal(t, "20000.00", inRecs[0].Amount.StringFixed(2))
	assert.Equal(t, "1000000001", inRecs[0].Counterparty)
	assert.Equal(t, "Alice", inRecs[0].Note)
}

func TestTransferValidation(t *testing.T) {
	engine, store := newTestEngine(t)
	mustCreate(t, store, "1000000001", "Alice", "100000")
	mustCreate(t, store, "1000000002", "Bob", "0")
	ctx := context.Background()

	_, err := engine.Transfer(ctx, "1000000001", "1000000001", domain.MustAmount("20000"))
	require.ErrorIs(t, err, domain.ErrSelfTransfer)

	_, err = engine.Transfer(ctx, "1000000001", "1000000002", domain.MustAmount("5000"))
	require.ErrorIs(t, err, domain.ErrBelowMinimum)

	_, err = engine.Transfer(ctx, "1000000001", "9999999999", domain.MustAmount("20000"))
	require.ErrorIs(t, err, domain.ErrAccountNotFound)

	// 驗證失敗不留任何副作用
	assert.Equal(t, "100000.00", balanceOf(t, store, "1000000001"))
	assert.Equal(t, "0.00", balanceOf(t, store, "1000000002"))
}

func TestTransferInsufficientFundsRollsBack(t *testing.T) {
	engine, store := newTestEngine(t)
	mustCreate(t, store, "1000000001", "Alice", "10000")
	mustCreate(t, store, "1000000002", "Bob", "5000")
	ctx := context.Background()

	_, err := engine.Transfer(ctx, "1000000001", "1000000002", domain.MustAmount("20000"))
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)

	// 整筆作廢：兩側餘額與紀錄都不變
	assert.Equal(t, "10000.00", balanceOf(t, store, "1000000001"))
	assert.Equal(t, "5000.00", balanceOf(t, store, "1000000002"))

	for _, id := range []string{"1000000001", "1000000002"} {
		records, err := engine.History(ctx, id, 0)
		require.NoError(t, err)
		assert.Empty(t, records)
	}
}

func TestConcurrentDepositsNoLostUpdate(t *testing.T) {
	engine, store := newTestEngine(t)
	mustCreate(t, store, "1000000001", "Alice", "0")
	ctx := context.Background()

	const n = 64
	amount := domain.MustAmount("10000")

	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, err := engine.Deposit(ctx, "1000000001", amount)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	want := amount.Decimal().Mul(decimal.NewFromInt(n))
	assert.Equal(t, want.StringFixed(2), balanceOf(t, store, "1000000001"))

	records, err := engine.History(ctx, "1000000001", n)
	require.NoError(t, err)
	assert.Len(t, records, n)
}

func TestConcurrentDepositTimestampsFollowCommitOrder(t *testing.T) {
	engine, store := newTestEngine(t)
	mustCreate(t, store, "1000000001", "Alice", "0")
	ctx := context.Background()

	const n = 200
	amount := domain.MustAmount("10000")

	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, err := engine.Deposit(ctx, "1000000001", amount)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	records, err := engine.History(ctx, "1000000001", n)
	require.NoError(t, err)
	require.Len(t, records, n)

	// 新的在前：Seq 遞減，而且時間戳沿提交順序不可回頭
	for i := 1; i < len(records); i++ {
		assert.Greater(t, records[i-1].Seq, records[i].Seq)
		assert.False(t, records[i-1].Timestamp.Before(records[i].Timestamp),
			"seq %d 的時間戳早於前一筆 seq %d", records[i-1].Seq, records[i].Seq)
	}
}

func TestConcurrentOppositeTransfersNoDeadlock(t *testing.T) {
	engine, store := newTestEngine(t)
	mustCreate(t, store, "1000000001", "Alice", "500000")
	mustCreate(t, store, "1000000002", "Bob", "500000")
	ctx := context.Background()

	const rounds = 50
	amount := domain.MustAmount("10000")

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			_, err := engine.Transfer(ctx, "1000000001", "1000000002", amount)
			assert.NoError(t, err)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			_, err := engine.Transfer(ctx, "1000000002", "1000000001", amount)
			assert.NoError(t, err)
		}
	}()
	wg.Wait()

	// 等量對轉，總和與各自餘額都不變
	assert.Equal(t, "500000.00", balanceOf(t, store, "1000000001"))
	assert.Equal(t, "500000.00", balanceOf(t, store, "1000000002"))
}

func TestHistoryOrderAndLimit(t *testing.T) {
	engine, store := newTestEngine(t)
	mustCreate(t, store, "1000000001", "Alice", "0")
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		_, err := engine.Deposit(ctx, "1000000001", domain.MustAmount("10000"))
		require.NoError(t, err)
	}

	// 未指定筆數時預設 10 筆
	records, err := engine.History(ctx, "1000000001", 0)
	require.NoError(t, err)
	require.Len(t, records, usecase.DefaultHistoryLimit)

	// 新的在前：Seq 嚴格遞減
	for i := 1; i < len(records); i++ {
		assert.Greater(t, records[i-1].Seq, records[i].Seq)
	}

	records, err = engine.History(ctx, "1000000001", 3)
	require.NoError(t, err)
	assert.Len(t, records, 3)

	_, err = engine.History(ctx, "9999999999", 0)
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestBalance(t *testing.T) {
	engine, store := newTestEngine(t)
	mustCreate(t, store, "1000000001", "Alice", "12345.67")

	got, err := engine.Balance(context.Background(), "1000000001")
	require.NoError(t, err)
	assert.Equal(t, "12345.67", got.StringFixed(2))

	_, err = engine.Balance(context.Background(), "9999999999")
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}
