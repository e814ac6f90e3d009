package domain

import "errors"

var (
	// ErrInvalidAmount 表示金額無法解析或不是合法的定點數 (非正數、精度超過分)。
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrBelowMinimum 表示金額低於該操作的最低限額。
	ErrBelowMinimum = errors.New("amount below minimum")

	// ErrInvalidDenomination 表示金額不是要求面額的整數倍。
	ErrInvalidDenomination = errors.New("amount not a multiple of required denomination")

	// ErrSelfTransfer 表示轉出與轉入帳戶相同。
	ErrSelfTransfer = errors.New("cannot transfer to the same account")

	// ErrInsufficientFunds 餘額不足，操作不會留下任何副作用。
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrAccountNotFound 找不到帳戶。
	ErrAccountNotFound = errors.New("account not found")

	// ErrAccountAlreadyExists 帳戶已存在。
	ErrAccountAlreadyExists = errors.New("account already exists")

	// ErrInconsistency 表示帳本可能處於部分提交狀態：餘額異動與其配對的
	// 交易紀錄未能一起提交。這一類錯誤絕不能被吞掉，受影響的帳戶需要人工對帳。
	ErrInconsistency = errors.New("ledger inconsistency: balance mutation and transaction record out of sync")
)
