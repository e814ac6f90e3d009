package usecase

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/averho/go-bank-ledger/internal/app/ledger/domain"
)

// Engine 是帳本引擎：驗證並原子套用所有會動到餘額的操作，
// 同時保證每筆異動都有恰好一筆配對的交易紀錄。
// 呼叫端身分已在上游驗證完畢，這裡信任傳入的帳戶 ID。
type Engine struct {
	store  Store
	events EventPublisher
	policy Policy
	now    func() time.Time
}

// Receipt 轉帳收據，供顯示層使用。
type Receipt struct {
	NewBalance       decimal.Decimal
	Amount           domain.Amount
	CounterpartyID   string
	CounterpartyName string
	Timestamp        time.Time
}

// TransactionCommitted 是一筆操作成功提交後對外發布的事件。
type TransactionCommitted struct {
	Kind         string    `json:"kind"`
	AccountID    string    `json:"account_id"`
	Counterparty string    `json:"counterparty,omitempty"`
	Amount       string    `json:"amount"`
	RecordIDs    []string  `json:"record_ids"`
	OccurredAt   time.Time `json:"occurred_at"`
}

func NewEngine(store Store, events EventPublisher, policy Policy) *Engine {
	if events == nil {
		events = NopPublisher{}
	}
	return &Engine{
		store:  store,
		events: events,
		policy: policy,
		now:    time.Now,
	}
}

// Deposit 存款。金額需達 MinDeposit。
// 餘額異動與 Deposit 紀錄在同一原子單元內提交，回傳新餘額。
func (e *Engine) Deposit(ctx context.Context, accountID string, amount domain.Amount) (decimal.Decimal, error) {
	if amount.LessThan(e.policy.MinDeposit) {
		return decimal.Zero, domain.ErrBelowMinimum
	}

	rec := e.newRecord(accountID, domain.KindDeposit, amount)
	var newBalance decimal.Decimal
	err := e.store.Update(ctx, []string{accountID}, func(tx Tx) error {
		// 持鎖後才蓋時間戳：同帳戶的紀錄時間戳跟著提交順序走，不會回頭
		rec.Timestamp = e.now()
		var err error
		if newBalance, err = tx.ApplyDelta(accountID, amount.Decimal()); err != nil {
			return err
		}
		return tx.Append(rec)
	})
	if err != nil {
		return decimal.Zero, err
	}

	e.publish(ctx, rec, "")
	return newBalance, nil
}

// Withdraw 提款。金額需達 MinWithdraw 且為 WithdrawUnit 的整數倍。
// 餘額不足回傳 ErrInsufficientFunds，狀態不變。
func (e *Engine) Withdraw(ctx context.Context, accountID string, amount domain.Amount) (decimal.Decimal, error) {
	if amount.LessThan(e.policy.MinWithdraw) {
		return decimal.Zero, domain.ErrBelowMinimum
	}
	if !amount.IsMultipleOf(e.policy.WithdrawUnit) {
		return decimal.Zero, domain.ErrInvalidDenomination
	}

	rec := e.newRecord(accountID, domain.KindWithdrawal, amount)
	var newBalance decimal.Decimal
	err := e.store.Update(ctx, []string{accountID}, func(tx Tx) error {
		rec.Timestamp = e.now()
		var err error
		if newBalance, err = tx.ApplyDelta(accountID, amount.Decimal().Neg()); err != nil {
			return err
		}
		return tx.Append(rec)
	})
	if err != nil {
		return decimal.Zero, err
	}

	e.publish(ctx, rec, "")
	return newBalance, nil
}

// Transfer 轉帳：來源扣款、目標入帳、兩側各一筆紀錄，全部在同一原子單元內。
// 任一步失敗整筆作廢，不會出現只扣款不入帳 (或反過來) 的狀態。
func (e *Engine) Transfer(ctx context.Context, sourceID, targetID string, amount domain.Amount) (*Receipt, error) {
	if sourceID == targetID {
		return nil, domain.ErrSelfTransfer
	}
	if amount.LessThan(e.policy.MinTransfer) {
		return nil, domain.ErrBelowMinimum
	}

	// 先確認目標帳戶存在，讓「目標不存在」與來源端的錯誤可以區分。
	target, err := e.store.Account(ctx, targetID)
	if err != nil {
		return nil, err
	}

	outRec := e.newRecord(sourceID, domain.KindTransferOut, amount)
	outRec.Counterparty = targetID
	outRec.Note = target.Name

	inRec := e.newRecord(targetID, domain.KindTransferIn, amount)
	inRec.Counterparty = sourceID

	var (
		newBalance decimal.Decimal
		ts         time.Time
	)
	err = e.store.Update(ctx, lockOrder(sourceID, targetID), func(tx Tx) error {
		source, err := tx.Account(sourceID)
		if err != nil {
			return err
		}
		inRec.Note = source.Name

		// 兩側共用同一個時間戳，且在持有兩把鎖之後才蓋
		ts = e.now()
		outRec.Timestamp = ts
		inRec.Timestamp = ts

		if newBalance, err = tx.ApplyDelta(sourceID, amount.Decimal().Neg()); err != nil {
			return err
		}
		if _, err = tx.ApplyDelta(targetID, amount.Decimal()); err != nil {
			return err
		}
		if err = tx.Append(outRec); err != nil {
			return err
		}
		return tx.Append(inRec)
	})
	if err != nil {
		return nil, err
	}

	e.publish(ctx, outRec, inRec.ID.String())
	return &Receipt{
		NewBalance:       newBalance,
		Amount:           amount,
		CounterpartyID:   targetID,
		CounterpartyName: target.Name,
		Timestamp:        ts,
	}, nil
}

// Balance 查詢帳戶餘額。
func (e *Engine) Balance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	acct, err := e.store.Account(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	return acct.Balance, nil
}

// DefaultHistoryLimit History 未指定筆數時的預設值。
const DefaultHistoryLimit = 10

// History 回傳帳戶最近的交易紀錄，新的在前。純讀取，不動任何狀態。
func (e *Engine) History(ctx context.Context, accountID string, limit int) ([]domain.TransactionRecord, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if _, err := e.store.Account(ctx, accountID); err != nil {
		return nil, err
	}
	return e.store.RecentHistory(ctx, accountID, limit)
}

// newRecord 產生一筆尚未提交的交易紀錄。
// 時間戳等到 Update 持有帳戶鎖之後才蓋，保證同帳戶內隨提交順序遞增。
func (e *Engine) newRecord(accountID string, kind domain.RecordKind, amount domain.Amount) *domain.TransactionRecord {
	return &domain.TransactionRecord{
		ID:        uuid.New(),
		AccountID: accountID,
		Kind:      kind,
		Amount:    amount.Decimal(),
	}
}

// publish 發布提交事件，失敗只記 log，不影響已提交的帳本狀態。
func (e *Engine) publish(ctx context.Context, rec *domain.TransactionRecord, pairedID string) {
	ids := []string{rec.ID.String()}
	if pairedID != "" {
		ids = append(ids, pairedID)
	}
	event := TransactionCommitted{
		Kind:         rec.Kind.String(),
		AccountID:    rec.AccountID,
		Counterparty: rec.Counterparty,
		Amount:       rec.Amount.StringFixed(domain.AmountScale),
		RecordIDs:    ids,
		OccurredAt:   rec.Timestamp,
	}
	if err := e.events.Publish(ctx, event); err != nil {
		log.Printf("publish %s event for account %s failed: %v", event.Kind, event.AccountID, err)
	}
}

// lockOrder 回傳需要鎖定的帳號 ID，並確保順序以避免死鎖。
func lockOrder(a, b string) []string {
	// 預先宣告一個容量為 2 的 slice，避免多次分配
	ids := make([]string, 0, 2)
	if a < b {
		ids = append(ids, a, b)
	} else {
		ids = append(ids, b, a)
	}
	return ids
}
