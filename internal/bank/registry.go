// internal/bank/registry.go

package bank

import (
	"fmt"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"ledger/internal/cpf"
)

// firstAccountNumber 以下的帳號保留不用；第一個帳戶為 1001。
const firstAccountNumber = 1000

// entry 為 Registry 內部持有的帳戶正本。
//   - mu：保護 acct.Balance 與 logs，同一帳戶的所有變更在此序列化。
//   - seq：帳號的數值形式，轉帳時用來決定固定的加鎖順序。
//   - cpf：正規化後的 CPF，建立後不再變動，可不加鎖讀取。
type entry struct {
	mu   sync.Mutex
	seq  int64
	cpf  string
	acct Account
	logs []Log
}

// snapshot 回傳帳戶值拷貝。
func (e *entry) snapshot() Account {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.acct
}

// Registry 管理帳戶身分與建立。
// 帳號由原子遞增計數器產生，帳戶表為分段鎖的雜湊表，沒有全域鎖。
type Registry struct {
	next     atomic.Int64
	accounts *shardMap[*entry]
	now      func() time.Time
}

// NewRegistry 建立空白 Registry。now 為 nil 時使用 time.Now。
func NewRegistry(shards int, now func() time.Time) *Registry {
	if now == nil {
		now = time.Now
	}
	r := &Registry{accounts: newShardMap[*entry](shards), now: now}
	r.next.Store(firstAccountNumber)
	return r
}

// Create 建立新帳戶：餘額 0、啟用中、開戶時間為目前時間。
// CPF 是否重複由上層驗證負責（IdentityAlreadyRegistered），此處一律成功。
func (r *Registry) Create(holderName, identity string, kind Kind) Account {
	seq := r.next.Add(1)
	e := &entry{
		seq: seq,
		cpf: cpf.Normalize(identity),
		acct: Account{
			Number:     strconv.FormatInt(seq, 10),
			HolderName: holderName,
			CPF:        identity,
			Balance:    decimal.Zero,
			Kind:       kind,
			OpenedAt:   r.now(),
			Active:     true,
		},
	}
	// 發布後其他 goroutine 即可對 e.acct 加鎖寫入，拷貝須在 store 之前取得。
	a := e.acct
	r.accounts.store(a.Number, e)
	return a
}

// Get 依帳號取得目前快照；不存在時回傳 ErrAccountNotFound。
func (r *Registry) Get(number string) (Account, error) {
	e, err := r.lookup(number)
	if err != nil {
		return Account{}, err
	}
	return e.snapshot(), nil
}

// Exists 回報帳號是否存在。
func (r *Registry) Exists(number string) bool {
	_, ok := r.accounts.load(number)
	return ok
}

// IdentityAlreadyRegistered 線性掃描所有帳戶，比對正規化後的 CPF。
// 僅供低頻率的驗證呼叫使用。
func (r *Registry) IdentityAlreadyRegistered(identity string) bool {
	target := cpf.Normalize(identity)
	found := false
	r.accounts.each(func(e *entry) bool {
		if e.cpf == target {
			found = true
			return false
		}
		return true
	})
	return found
}

// List 回傳所有帳戶快照，依帳號遞增排序。
func (r *Registry) List() []Account {
	var entries []*entry
	r.accounts.each(func(e *entry) bool {
		entries = append(entries, e)
		return true
	})
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })

	out := make([]Account, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.snapshot())
	}
	return out
}

// Logs 回傳指定帳戶交易日誌的拷貝。
func (r *Registry) Logs(number string) ([]Log, error) {
	e, err := r.lookup(number)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Log, len(e.logs))
	copy(out, e.logs)
	return out, nil
}

func (r *Registry) lookup(number string) (*entry, error) {
	e, ok := r.accounts.load(number)
	if !ok {
		return nil, fmt.Errorf("account %s: %w", number, ErrAccountNotFound)
	}
	return e, nil
}
