package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/averho/go-bank-ledger/internal/app/ledger/domain"
	"github.com/averho/go-bank-ledger/internal/app/ledger/usecase"
)

// uniqueViolation PostgreSQL 唯一鍵衝突的 SQLSTATE
const uniqueViolation = "23505"

// Store 是 PostgreSQL 版的帳戶儲存 + 交易紀錄，
// 走 database/sql 原生交易：BeginTx -> FOR UPDATE 鎖列 -> 寫回 -> Commit。
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Account(ctx context.Context, id string) (*domain.Account, error) {
	const query = `SELECT id, name, balance FROM accounts WHERE id = $1`

	var acct domain.Account
	err := s.db.QueryRowContext(ctx, query, id).Scan(&acct.ID, &acct.Name, &acct.Balance)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select account: %w", err)
	}
	return &acct, nil
}

func (s *Store) CreateAccount(ctx context.Context, acct *domain.Account) error {
	if acct.Balance.IsNegative() {
		return domain.ErrInvalidAmount
	}
	const query = `INSERT INTO accounts (id, name, balance) VALUES ($1, $2, $3)`

	_, err := s.db.ExecContext(ctx, query, acct.ID, acct.Name, acct.Balance)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return domain.ErrAccountAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

func (s *Store) RecentHistory(ctx context.Context, id string, limit int) ([]domain.TransactionRecord, error) {
	const query = `SELECT seq, ref_id, account_id, kind, amount, counterparty, note, created_at
	FROM transaction_records WHERE account_id = $1 ORDER BY seq DESC LIMIT $2`

	rows, err := s.db.QueryContext(ctx, query, id, limit)
	if err != nil {
		return nil, fmt.Errorf("select records: %w", err)
	}
	defer rows.Close()

	var out []domain.TransactionRecord
	for rows.Next() {
		var rec domain.TransactionRecord
		var refID string
		var kind uint8
		if err := rows.Scan(&rec.Seq, &refID, &rec.AccountID, &kind,
			&rec.Amount, &rec.Counterparty, &rec.Note, &rec.Timestamp); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		if rec.ID, err = uuid.Parse(refID); err != nil {
			return nil, fmt.Errorf("parse record ref_id: %w", err)
		}
		rec.Kind = domain.RecordKind(kind)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return out, nil
}

// Update 以單一資料庫交易執行 fn。
// commit 前的錯誤一律回滾；commit 或回滾本身失敗時無法確認落地狀態，
// 錯誤會帶上 domain.ErrInconsistency。
func (s *Store) Update(ctx context.Context, lockIDs []string, fn func(tx usecase.Tx) error) (err error) {
	ids := append([]string(nil), lockIDs...)
	sort.Strings(ids)

	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err == nil {
			return
		}
		if rbErr := dbTx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			err = fmt.Errorf("%w: %v (rollback failed: %v)", domain.ErrInconsistency, err, rbErr)
		}
	}()

	// FOR UPDATE 鎖列；ORDER BY id 讓鎖的取得順序全局一致
	const query = `SELECT id, name, balance FROM accounts WHERE id = ANY($1) ORDER BY id FOR UPDATE`
	rows, err := dbTx.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("lock accounts: %w", err)
	}

	tx := &pgTx{rows: make(map[string]*domain.Account, len(ids))}
	for rows.Next() {
		var acct domain.Account
		if err = rows.Scan(&acct.ID, &acct.Name, &acct.Balance); err != nil {
			rows.Close()
			return fmt.Errorf("scan account: %w", err)
		}
		tx.rows[acct.ID] = &acct
	}
	if err = rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("iterate accounts: %w", err)
	}
	rows.Close()

	if err = fn(tx); err != nil {
		return err
	}

	const updateBalance = `UPDATE accounts SET balance = $1 WHERE id = $2`
	for _, id := range tx.dirty {
		if _, err = dbTx.ExecContext(ctx, updateBalance, tx.rows[id].Balance, id); err != nil {
			return fmt.Errorf("update balance: %w", err)
		}
	}

	const insertRecord = `INSERT INTO transaction_records
	(ref_id, account_id, kind, amount, counterparty, note, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for i := range tx.recs {
		rec := &tx.recs[i]
		if _, err = dbTx.ExecContext(ctx, insertRecord, rec.ID.String(), rec.AccountID,
			uint8(rec.Kind), rec.Amount, rec.Counterparty, rec.Note, rec.Timestamp); err != nil {
			return fmt.Errorf("insert record: %w", err)
		}
	}

	if commitErr := dbTx.Commit(); commitErr != nil {
		err = wrapCommitErr(commitErr)
		return err
	}
	return nil
}

// wrapCommitErr 包裝 commit 階段的錯誤。回應在途中遺失時無從得知
// 交易是否已落地，依一致性契約升級為 Inconsistency，交人工對帳。
func wrapCommitErr(err error) error {
	return fmt.Errorf("%w: transaction commit: %v", domain.ErrInconsistency, err)
}

// pgTx 是交易內的暫存視圖，異動先記在鎖定的列快取上。
type pgTx struct {
	rows  map[string]*domain.Account
	dirty []string
	recs  []domain.TransactionRecord
}

func (tx *pgTx) Account(id string) (*domain.Account, error) {
	acct, ok := tx.rows[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return acct.Clone(), nil
}

func (tx *pgTx) ApplyDelta(id string, delta decimal.Decimal) (decimal.Decimal, error) {
	acct, ok := tx.rows[id]
	if !ok {
		return decimal.Zero, domain.ErrAccountNotFound
	}
	next := acct.Balance.Add(delta)
	if next.IsNegative() {
		return decimal.Zero, domain.ErrInsufficientFunds
	}
	if !tx.isDirty(id) {
		tx.dirty = append(tx.dirty, id)
	}
	acct.Balance = next
	return next, nil
}

func (tx *pgTx) Append(rec *domain.TransactionRecord) error {
	tx.recs = append(tx.recs, *rec)
	return nil
}

func (tx *pgTx) isDirty(id string) bool {
	for _, d := range tx.dirty {
		if d == id {
			return true
		}
	}
	return false
}

var _ usecase.Store = (*Store)(nil)
