// Package accountid 產生帳戶號碼。
// 開戶在本引擎之外，但種子資料與測試需要可靠的號碼來源，
// 所以碰撞處理放在這裡：呼叫端提供存在性檢查，衝突就重抽。
package accountid

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
)

// Digits 帳戶號碼固定 10 位數字。
const Digits = 10

// ErrExhausted 重試多次仍然碰撞 (帳號空間接近用盡或 exists 實作有誤)。
var ErrExhausted = errors.New("account id generation: too many collisions")

const maxAttempts = 5

var upper = new(big.Int).Exp(big.NewInt(10), big.NewInt(Digits), nil)

// New 回傳一個隨機 10 位數帳號 (允許前導零)。
func New() (string, error) {
	n, err := rand.Int(rand.Reader, upper)
	if err != nil {
		return "", fmt.Errorf("account id generation: %w", err)
	}
	return fmt.Sprintf("%0*d", Digits, n), nil
}

// Generate 產生一個未被使用的帳號。
// exists 回報帳號是否已存在；連續 maxAttempts 次碰撞回傳 ErrExhausted。
func Generate(exists func(id string) (bool, error)) (string, error) {
	for i := 0; i < maxAttempts; i++ {
		id, err := New()
		if err != nil {
			return "", err
		}
		taken, err := exists(id)
		if err != nil {
			return "", err
		}
		if !taken {
			return id, nil
		}
	}
	return "", ErrExhausted
}
