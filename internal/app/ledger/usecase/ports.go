package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/averho/go-bank-ledger/internal/app/ledger/domain"
)

// Tx 是一次原子更新單元內可用的操作。
// 實作必須保證：fn 內的所有異動與紀錄要嘛全部提交，要嘛全部丟棄，
// 外部觀察者看不到中間狀態。
type Tx interface {
	// Account 取得帳戶目前 (含本單元內已暫存異動) 的狀態複本。
	Account(id string) (*domain.Account, error)
	// ApplyDelta 對帳戶餘額套用帶正負號的異動，回傳新餘額。
	// 結果為負回傳 ErrInsufficientFunds，帳戶不存在回傳 ErrAccountNotFound，
	// 兩者都不留下任何已暫存以外的副作用。
	ApplyDelta(id string, delta decimal.Decimal) (decimal.Decimal, error)
	// Append 將一筆交易紀錄排入本單元，於提交時一併寫入。
	Append(rec *domain.TransactionRecord) error
}

// Store 是帳戶儲存與交易紀錄的出站 Port。
// Update 是唯一的變更入口：實作必須依 lockIDs 的順序取得各帳戶的
// 互斥存取權 (避免反向轉帳死鎖)，並保證 fn 成功時原子提交、失敗時零副作用。
// 提交階段若可能留下部分效果，錯誤必須包含 domain.ErrInconsistency。
type Store interface {
	// Account 讀取單一帳戶。
	Account(ctx context.Context, id string) (*domain.Account, error)
	// CreateAccount 建立帳戶 (註冊流程使用，引擎本身不呼叫)。
	CreateAccount(ctx context.Context, acct *domain.Account) error
	// RecentHistory 回傳帳戶最近的交易紀錄，新的在前。
	RecentHistory(ctx context.Context, id string, limit int) ([]domain.TransactionRecord, error)
	// Update 以原子單元執行 fn，鎖定 lockIDs 列出的帳戶。
	Update(ctx context.Context, lockIDs []string, fn func(tx Tx) error) error
}

// EventPublisher 對外發布已提交的交易事件。
// 發布失敗只記 log，絕不回滾帳本。
type EventPublisher interface {
	Publish(ctx context.Context, event any) error
}

// NopPublisher 是不做事的 EventPublisher，未設定訊息佇列時使用。
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, any) error { return nil }
