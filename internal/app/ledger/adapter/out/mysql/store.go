package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/averho/go-bank-ledger/internal/app/ledger/domain"
	"github.com/averho/go-bank-ledger/internal/app/ledger/usecase"
	"github.com/averho/go-bank-ledger/pkg/mysql"
)

// sqlAccount 對應資料庫的 accounts 表
type sqlAccount struct {
	ID        string          `gorm:"primaryKey;size:64"`
	Name      string          `gorm:"size:128"`
	Balance   decimal.Decimal `gorm:"type:decimal(20,2)"`
	UpdatedAt int64           `gorm:"autoUpdateTime:milli"`
}

func (*sqlAccount) TableName() string {
	return "accounts"
}

// sqlRecord 對應資料庫的 transaction_records 表
// Seq 由資料庫遞增分配，同一帳戶內的排序以它為準
type sqlRecord struct {
	Seq          uint64          `gorm:"primaryKey;autoIncrement"`
	RefID        []byte          `gorm:"column:ref_id;type:binary(16);uniqueIndex"`
	AccountID    string          `gorm:"size:64;index"`
	Kind         uint8           `gorm:""`
	Amount       decimal.Decimal `gorm:"type:decimal(20,2)"`
	Counterparty string          `gorm:"size:64"`
	Note         string          `gorm:"size:255"`
	CreatedAt    time.Time       // 引擎提交時的時間戳，不用 autoCreateTime
}

func (*sqlRecord) TableName() string {
	return "transaction_records"
}

// Store 是 MySQL 版的帳戶儲存 + 交易紀錄，
// 以資料庫交易 + SELECT ... FOR UPDATE 悲觀鎖實現原子更新單元。
type Store struct {
	client *mysql.Client
}

func NewStore(client *mysql.Client) *Store {
	return &Store{client: client}
}

func (s *Store) Account(ctx context.Context, id string) (*domain.Account, error) {
	var row sqlAccount
	err := s.client.DB().WithContext(ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select account: %w", err)
	}
	return domain.NewAccount(row.ID, row.Name, row.Balance), nil
}

func (s *Store) CreateAccount(ctx context.Context, acct *domain.Account) error {
	if acct.Balance.IsNegative() {
		return domain.ErrInvalidAmount
	}
	row := sqlAccount{ID: acct.ID, Name: acct.Name, Balance: acct.Balance}
	err := s.client.DB().WithContext(ctx).Create(&row).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrAccountAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

func (s *Store) RecentHistory(ctx context.Context, id string, limit int) ([]domain.TransactionRecord, error) {
	var rows []sqlRecord
	err := s.client.DB().WithContext(ctx).
		Where("account_id = ?", id).
		Order("seq DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("select records: %w", err)
	}

	out := make([]domain.TransactionRecord, 0, len(rows))
	for i := range rows {
		rec, err := rows[i].toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// Update 以單一資料庫交易執行 fn：
// 先依排序後的 lockIDs 鎖定帳戶列 (FOR UPDATE)，fn 的餘額異動暫存在
// 列快取上，fn 成功後一次寫回並插入交易紀錄，由資料庫保證全有或全無。
// commit 前的錯誤一律回滾；commit 或回滾本身失敗時無法確認落地狀態，
// 錯誤會帶上 domain.ErrInconsistency。
func (s *Store) Update(ctx context.Context, lockIDs []string, fn func(tx usecase.Tx) error) (err error) {
	ids := append([]string(nil), lockIDs...)
	sort.Strings(ids)

	dbtx := s.client.DB().WithContext(ctx).Begin()
	if dbtx.Error != nil {
		return fmt.Errorf("begin tx: %w", dbtx.Error)
	}
	defer func() {
		if err == nil {
			return
		}
		if rbErr := dbtx.Rollback().Error; rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			err = fmt.Errorf("%w: %v (rollback failed: %v)", domain.ErrInconsistency, err, rbErr)
		}
	}()

	var rows []sqlAccount
	if err = dbtx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Order("id").
		Find(&rows).Error; err != nil {
		return fmt.Errorf("lock accounts: %w", err)
	}

	tx := &sqlTx{rows: make(map[string]*sqlAccount, len(rows))}
	for i := range rows {
		tx.rows[rows[i].ID] = &rows[i]
	}

	if err = fn(tx); err != nil {
		return err
	}

	for _, id := range tx.dirty {
		row := tx.rows[id]
		if err = dbtx.Model(&sqlAccount{}).Where("id = ?", id).
			Update("balance", row.Balance).Error; err != nil {
			return fmt.Errorf("update balance: %w", err)
		}
	}
	for i := range tx.recs {
		row := toRow(&tx.recs[i])
		if err = dbtx.Create(&row).Error; err != nil {
			return fmt.Errorf("insert record: %w", err)
		}
	}

	if commitErr := dbtx.Commit().Error; commitErr != nil {
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

// sqlTx 是交易內的暫存視圖，餘額異動先記在鎖定的列快取上。
type sqlTx struct {
	rows  map[string]*sqlAccount
	dirty []string
	recs  []domain.TransactionRecord
}

func (tx *sqlTx) Account(id string) (*domain.Account, error) {
	row, ok := tx.rows[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return domain.NewAccount(row.ID, row.Name, row.Balance), nil
}

func (tx *sqlTx) ApplyDelta(id string, delta decimal.Decimal) (decimal.Decimal, error) {
	row, ok := tx.rows[id]
	if !ok {
		return decimal.Zero, domain.ErrAccountNotFound
	}
	next := row.Balance.Add(delta)
	if next.IsNegative() {
		return decimal.Zero, domain.ErrInsufficientFunds
	}
	if !tx.isDirty(id) {
		tx.dirty = append(tx.dirty, id)
	}
	row.Balance = next
	return next, nil
}

func (tx *sqlTx) Append(rec *domain.TransactionRecord) error {
	tx.recs = append(tx.recs, *rec)
	return nil
}

func (tx *sqlTx) isDirty(id string) bool {
	for _, d := range tx.dirty {
		if d == id {
			return true
		}
	}
	return false
}

func toRow(rec *domain.TransactionRecord) sqlRecord {
	return sqlRecord{
		RefID:        rec.ID[:],
		AccountID:    rec.AccountID,
		Kind:         uint8(rec.Kind),
		Amount:       rec.Amount,
		Counterparty: rec.Counterparty,
		Note:         rec.Note,
		CreatedAt:    rec.Timestamp,
	}
}

func (row *sqlRecord) toDomain() (domain.TransactionRecord, error) {
	id, err := uuid.FromBytes(row.RefID)
	if err != nil {
		return domain.TransactionRecord{}, fmt.Errorf("parse record ref_id: %w", err)
	}
	return domain.TransactionRecord{
		ID:           id,
		AccountID:    row.AccountID,
		Kind:         domain.RecordKind(row.Kind),
		Amount:       row.Amount,
		Counterparty: row.Counterparty,
		Note:         row.Note,
		Timestamp:    row.CreatedAt,
		Seq:          row.Seq,
	}, nil
}

var _ usecase.Store = (*Store)(nil)
