package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecordKind 交易紀錄類型
// 為了極致節省記憶體，使用 uint8
type RecordKind uint8

const (
	// 存款
	KindDeposit RecordKind = 1
	// 提款
	KindWithdrawal RecordKind = 2
	// 轉出 (紀錄在來源帳戶)
	KindTransferOut RecordKind = 3
	// 轉入 (紀錄在目標帳戶)
	KindTransferIn RecordKind = 4
)

func (k RecordKind) String() string {
	switch k {
	case KindDeposit:
		return "deposit"
	case KindWithdrawal:
		return "withdrawal"
	case KindTransferOut:
		return "transfer_out"
	case KindTransferIn:
		return "transfer_in"
	default:
		return "unknown"
	}
}

// TransactionRecord 交易紀錄：每一筆餘額異動對應恰好一筆紀錄。
// 建立後不可變，只會 append，不會更新或刪除。
type TransactionRecord struct {
	// ID: 外部追蹤號 (UUID)，每筆紀錄唯一
	ID uuid.UUID `json:"id"`
	// AccountID: 此紀錄歸檔在哪個帳戶底下
	AccountID string `json:"account_id"`
	// Kind: 類型；方向由 Kind 表達，Amount 恆為正
	Kind RecordKind `json:"kind"`
	// Amount: 異動幅度 (正數)
	Amount decimal.Decimal `json:"amount"`
	// Counterparty: 對手帳戶 ID，只有轉出/轉入才有
	Counterparty string `json:"counterparty,omitempty"`
	// Note: 顯示用備註 (例如對手帳戶名稱)，不參與計算
	Note string `json:"note,omitempty"`
	// Timestamp: 引擎在提交當下設定；同一帳戶內單調不遞減
	Timestamp time.Time `json:"timestamp"`
	// Seq: 帳本內的全局寫入順序，由儲存層在提交時分配，
	// Timestamp 相同時用來決定先後
	Seq uint64 `json:"seq"`
}

// Delta 回傳此紀錄對其帳戶餘額的帶正負號影響。
func (r *TransactionRecord) Delta() decimal.Decimal {
	switch r.Kind {
	case KindDeposit, KindTransferIn:
		return r.Amount
	case KindWithdrawal, KindTransferOut:
		return r.Amount.Neg()
	default:
		return decimal.Zero
	}
}
