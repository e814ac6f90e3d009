package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/averho/go-bank-ledger/internal/app/ledger/domain"
	"github.com/averho/go-bank-ledger/internal/app/ledger/usecase"
	"github.com/averho/go-bank-ledger/pkg/wal"
)

// Store 是記憶體版的帳戶儲存 + 交易紀錄。
//
// 結構:
//
//	accounts: 帳戶資料 Map
//	locks: 每個帳戶一把互斥鎖；不同帳戶的操作可以並行
//	records: 全帳本的交易紀錄，依提交順序 append
//	journal: Write-Ahead Log；提交前先落地，重啟時重放復原
type Store struct {
	mu       sync.Mutex // 保護 accounts 與 locks 兩個 map 本身
	accounts map[string]*domain.Account
	locks    map[string]*sync.Mutex

	logMu   sync.RWMutex
	records []domain.TransactionRecord
	seq     uint64

	journal *wal.WAL // nil 表示純記憶體，不落地
}

// journalEntry 是 WAL 裡的一筆資料：開戶或一個提交單元 (餘額快照 + 紀錄)。
type journalEntry struct {
	Account  *domain.Account            `json:"account,omitempty"`
	Balances map[string]decimal.Decimal `json:"balances,omitempty"`
	Records  []domain.TransactionRecord `json:"records,omitempty"`
}

// NewStore 建立記憶體儲存。journal 非 nil 時先重放既有日誌復原狀態。
func NewStore(journal *wal.WAL) (*Store, error) {
	s := &Store{
		accounts: make(map[string]*domain.Account),
		locks:    make(map[string]*sync.Mutex),
		journal:  journal,
	}
	if journal != nil {
		if err := s.recover(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// recover 從 WAL 重放所有提交單元。
// 日誌描述的狀態自相矛盾 (未知帳戶、負餘額) 代表原子性契約曾被違反，
// 以 ErrInconsistency 中止啟動，交給人工對帳。
func (s *Store) recover() error {
	return s.journal.Replay(func(jsonRaw []byte) error {
		var entry journalEntry
		if err := json.Unmarshal(jsonRaw, &entry); err != nil {
			return fmt.Errorf("journal replay: %w", err)
		}

		if entry.Account != nil {
			if _, ok := s.accounts[entry.Account.ID]; ok {
				return fmt.Errorf("%w: duplicate account %s in journal", domain.ErrInconsistency, entry.Account.ID)
			}
			s.accounts[entry.Account.ID] = entry.Account.Clone()
			s.locks[entry.Account.ID] = &sync.Mutex{}
		}

		for id, balance := range entry.Balances {
			acct, ok := s.accounts[id]
			if !ok {
				return fmt.Errorf("%w: journal references unknown account %s", domain.ErrInconsistency, id)
			}
			if balance.IsNegative() {
				return fmt.Errorf("%w: journal drives account %s negative", domain.ErrInconsistency, id)
			}
			acct.Balance = balance
		}
		for _, rec := range entry.Records {
			s.records = append(s.records, rec)
			if rec.Seq > s.seq {
				s.seq = rec.Seq
			}
		}
		return nil
	})
}

// getLock 取得帳戶的互斥鎖，不存在就建立。
func (s *Store) getLock(id string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}

func (s *Store) lookup(id string) (*domain.Account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.accounts[id]
	return acct, ok
}

// Account 讀取帳戶複本。讀取也走帳戶鎖，保證看到的是某個完整提交後的餘額。
func (s *Store) Account(ctx context.Context, id string) (*domain.Account, error) {
	l := s.getLock(id)
	l.Lock()
	defer l.Unlock()

	acct, ok := s.lookup(id)
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return acct.Clone(), nil
}

// CreateAccount 建立帳戶並寫入日誌。餘額不可為負。
func (s *Store) CreateAccount(ctx context.Context, acct *domain.Account) error {
	if acct.ID == "" {
		return fmt.Errorf("account id must not be empty")
	}
	if acct.Balance.IsNegative() {
		return domain.ErrInvalidAmount
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[acct.ID]; ok {
		return domain.ErrAccountAlreadyExists
	}
	if s.journal != nil {
		if err := s.journal.Append(journalEntry{Account: acct}); err != nil {
			return fmt.Errorf("journal write: %w", err)
		}
	}
	s.accounts[acct.ID] = acct.Clone()
	s.locks[acct.ID] = &sync.Mutex{}
	return nil
}

// RecentHistory 回傳帳戶最近 limit 筆紀錄，新的在前 (提交順序的反向)。
func (s *Store) RecentHistory(ctx context.Context, id string, limit int) ([]domain.TransactionRecord, error) {
	s.logMu.RLock()
	defer s.logMu.RUnlock()

	out := make([]domain.TransactionRecord, 0, limit)
	for i := len(s.records) - 1; i >= 0 && len(out) < limit; i-- {
		if s.records[i].AccountID == id {
			out = append(out, s.records[i])
		}
	}
	return out, nil
}

// Update 以原子單元執行 fn。
//
// 協定:
//  1. 依 lockIDs 的全序逐一取鎖 (反向轉帳也不會死鎖)
//  2. fn 內的異動先暫存在 tx，live 狀態完全不動
//  3. fn 成功後先寫 WAL (fsync)，再把暫存套用到 live 狀態
//
// fn 或 WAL 寫入失敗時暫存直接丟棄，零副作用。
func (s *Store) Update(ctx context.Context, lockIDs []string, fn func(tx usecase.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	ids := dedupeSorted(lockIDs)
	held := make([]*sync.Mutex, 0, len(ids))
	for _, id := range ids {
		l := s.getLock(id)
		l.Lock()
		held = append(held, l)
	}
	defer func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}()

	tx := &memTx{store: s, staged: make(map[string]decimal.Decimal)}
	if err := fn(tx); err != nil {
		return err
	}
	return s.commit(tx)
}

// commit 把暫存單元落地：WAL 先行，成功後才動 live 狀態。
// WAL 寫入成功之後的套用不可能失敗，所以不存在半提交窗口。
func (s *Store) commit(tx *memTx) error {
	s.logMu.Lock()
	defer s.logMu.Unlock()

	// 套用前先確認暫存觸及的帳戶都存在，WAL 寫入後的套用不能再失敗
	staged := make(map[string]*domain.Account, len(tx.staged))
	for id := range tx.staged {
		acct, ok := s.lookup(id)
		if !ok {
			return fmt.Errorf("%w: staged balance references unknown account %s", domain.ErrInconsistency, id)
		}
		staged[id] = acct
	}

	seq := s.seq
	for i := range tx.recs {
		seq++
		tx.recs[i].Seq = seq
	}

	if s.journal != nil {
		entry := journalEntry{Balances: tx.staged, Records: tx.recs}
		if err := s.journal.Append(entry); err != nil {
			return fmt.Errorf("journal write: %w", err)
		}
	}

	for id, balance := range tx.staged {
		staged[id].Balance = balance
	}
	s.records = append(s.records, tx.recs...)
	s.seq = seq
	return nil
}

// memTx 是一個未提交的更新單元。呼叫端必須已透過 Update 持有
// 其觸及帳戶的鎖，這裡不再加鎖。
type memTx struct {
	store  *Store
	staged map[string]decimal.Decimal
	recs   []domain.TransactionRecord
}

func (tx *memTx) Account(id string) (*domain.Account, error) {
	acct, ok := tx.store.lookup(id)
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	cp := acct.Clone()
	if staged, ok := tx.staged[id]; ok {
		cp.Balance = staged
	}
	return cp, nil
}

func (tx *memTx) ApplyDelta(id string, delta decimal.Decimal) (decimal.Decimal, error) {
	acct, ok := tx.store.lookup(id)
	if !ok {
		return decimal.Zero, domain.ErrAccountNotFound
	}
	base := acct.Balance
	if staged, ok := tx.staged[id]; ok {
		base = staged
	}
	next := base.Add(delta)
	if next.IsNegative() {
		return decimal.Zero, domain.ErrInsufficientFunds
	}
	tx.staged[id] = next
	return next, nil
}

func (tx *memTx) Append(rec *domain.TransactionRecord) error {
	tx.recs = append(tx.recs, *rec)
	return nil
}

// dedupeSorted 回傳去重後依字典序排序的複本，作為全局一致的取鎖順序。
func dedupeSorted(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

var _ usecase.Store = (*Store)(nil)
