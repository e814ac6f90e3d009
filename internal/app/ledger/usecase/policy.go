package usecase

import "github.com/averho/go-bank-ledger/internal/app/ledger/domain"

// Policy 各操作的限額與面額。這些是營運政策而非不變量，可由設定檔覆寫。
type Policy struct {
	// MinDeposit 單筆存款下限
	MinDeposit domain.Amount
	// MinWithdraw 單筆提款下限
	MinWithdraw domain.Amount
	// WithdrawUnit 提款面額：提款金額必須是它的整數倍
	WithdrawUnit domain.Amount
	// MinTransfer 單筆轉帳下限
	MinTransfer domain.Amount
}

// DefaultPolicy 預設限額，沿用原系統的常數。
func DefaultPolicy() Policy {
	return Policy{
		MinDeposit:   domain.MustAmount("10000"),
		MinWithdraw:  domain.MustAmount("10000"),
		WithdrawUnit: domain.MustAmount("50000"),
		MinTransfer:  domain.MustAmount("10000"),
	}
}
