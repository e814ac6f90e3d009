package domain

import "github.com/shopspring/decimal"

// Account 帳戶：餘額的唯一真相來源。
// ID 由註冊流程產生後不再變動；Name 僅供轉帳收據與紀錄備註顯示。
type Account struct {
	ID      string
	Name    string
	Balance decimal.Decimal
}

func NewAccount(id, name string, balance decimal.Decimal) *Account {
	return &Account{
		ID:      id,
		Name:    name,
		Balance: balance,
	}
}

// ApplyDelta 對餘額套用一筆帶正負號的異動。
// 結果為負時回傳 ErrInsufficientFunds 且餘額不變 (不可部分套用)。
func (a *Account) ApplyDelta(delta decimal.Decimal) (decimal.Decimal, error) {
	next := a.Balance.Add(delta)
	if next.IsNegative() {
		return a.Balance, ErrInsufficientFunds
	}
	a.Balance = next
	return a.Balance, nil
}

// Clone 回傳帳戶的複本，避免呼叫端拿到內部指標後繞過鎖修改餘額。
func (a *Account) Clone() *Account {
	cp := *a
	return &cp
}
