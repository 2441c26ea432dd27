// internal/bank/bank.go

// Package bank 定義核心商業邏輯：帳戶建立、存款、提款、轉帳、查詢、每日轉出累計與交易日誌。
// 不使用單一全域鎖：帳戶表與每日累計表皆為分段鎖雜湊表，
// 餘額變更以「每帳戶一把鎖」序列化，轉帳依帳號順序同時持有雙方的鎖。
// 金額一律以 decimal.Decimal 表示，避免浮點誤差。
package bank

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Bank 為聚合根 (Aggregate Root)，也是外部唯一的寫入入口：
// 每個請求依序執行 Registry 查詢 → Ledger 變更 → DailyAggregator 累加。
type Bank struct {
	registry *Registry
	ledger   *Ledger
	daily    *DailyAggregator

	limit  decimal.Decimal
	now    func() time.Time
	logger *zap.Logger
	shards int
}

// Option 設定 Bank 的可選參數。
type Option func(*Bank)

// WithClock 替換時間來源；決定開戶時間、日誌時間與每日累計的日期。
func WithClock(now func() time.Time) Option {
	return func(b *Bank) { b.now = now }
}

// WithDailyLimit 設定每日轉出上限；<= 0 代表不限制。
func WithDailyLimit(limit decimal.Decimal) Option {
	return func(b *Bank) { b.limit = limit }
}

// WithLogger 注入 zap logger。
func WithLogger(logger *zap.Logger) Option {
	return func(b *Bank) { b.logger = logger }
}

// WithShards 設定帳戶表與每日累計表的分段數。
func WithShards(n int) Option {
	return func(b *Bank) { b.shards = n }
}

// NewBank 建立空白銀行實例（僅 in-memory 狀態，無外部依賴）。
func NewBank(opts ...Option) *Bank {
	b := &Bank{
		limit:  decimal.Zero,
		now:    time.Now,
		logger: zap.NewNop(),
		shards: defaultShards,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.registry = NewRegistry(b.shards, b.now)
	b.ledger = NewLedger(b.registry, b.now, b.logger)
	b.daily = NewDailyAggregator(b.shards)
	return b
}

// CreateAccount 開立新帳戶並回傳快照。
func (b *Bank) CreateAccount(holderName, identity string, kind Kind) Account {
	a := b.registry.Create(holderName, identity, kind)
	b.logger.Info("account created",
		zap.String("account", a.Number),
		zap.Stringer("kind", a.Kind),
	)
	return a
}

// Deposit 存款：確認帳戶存在後交由 Ledger 變更，回傳更新後快照。
func (b *Bank) Deposit(number string, amount decimal.Decimal) (Account, error) {
	if _, err := b.registry.Get(number); err != nil {
		return Account{}, err
	}
	a, err := b.ledger.Deposit(number, amount)
	if err != nil {
		return Account{}, err
	}
	b.logger.Debug("deposit",
		zap.String("account", number),
		zap.String("amount", amount.StringFixed(2)),
	)
	return a, nil
}

// Withdraw 提款：金額需 > 0 且不得超過餘額。
func (b *Bank) Withdraw(number string, amount decimal.Decimal) (Account, error) {
	if _, err := b.registry.Get(number); err != nil {
		return Account{}, err
	}
	a, err := b.ledger.Withdraw(number, amount)
	if err != nil {
		return Account{}, err
	}
	b.logger.Debug("withdraw",
		zap.String("account", number),
		zap.String("amount", amount.StringFixed(2)),
	)
	return a, nil
}

// Transfer 轉帳：
// 1) 確認雙方帳戶存在 → 2) Ledger 原子扣款入帳 → 3) 來源帳戶當日轉出累加。
// 設有每日上限時，2) 與 3) 在同一把 (帳號, 日期) 鎖內完成，檢查與累加不會被並行請求穿插。
// 任一步驟失敗皆不改變任何狀態。
func (b *Bank) Transfer(source, destination string, amount decimal.Decimal, note string) error {
	if _, err := b.registry.Get(source); err != nil {
		return fmt.Errorf("source: %w", err)
	}
	if _, err := b.registry.Get(destination); err != nil {
		return fmt.Errorf("destination: %w", err)
	}

	today := b.now()
	commit := func() error {
		return b.ledger.TransferNote(source, destination, amount, note)
	}

	var err error
	if b.limit.IsPositive() {
		err = b.daily.Reserve(source, amount, b.limit, today, commit)
	} else if err = commit(); err == nil {
		// Ledger 已提交；在此之前中斷只會少算，不會多算。
		b.daily.RecordOutbound(source, amount, today)
	}
	if err != nil {
		return err
	}

	b.logger.Debug("transfer",
		zap.String("source", source),
		zap.String("destination", destination),
		zap.String("amount", amount.StringFixed(2)),
	)
	return nil
}

// Get 依帳號取得帳戶快照。
func (b *Bank) Get(number string) (Account, error) {
	return b.registry.Get(number)
}

// Exists 回報帳號是否存在。
func (b *Bank) Exists(number string) bool {
	return b.registry.Exists(number)
}

// IdentityAlreadyRegistered 回報 CPF 是否已有帳戶。
func (b *Bank) IdentityAlreadyRegistered(identity string) bool {
	return b.registry.IdentityAlreadyRegistered(identity)
}

// GetBalance 回傳目前餘額。
func (b *Bank) GetBalance(number string) (decimal.Decimal, error) {
	return b.ledger.Balance(number)
}

// GetDailyTotal 回傳今日（依 Bank 的時鐘）已轉出總額。
func (b *Bank) GetDailyTotal(number string) decimal.Decimal {
	return b.daily.GetTotal(number, b.now())
}

// DailyTotalOn 回傳指定日期的轉出總額。
func (b *Bank) DailyTotalOn(number string, day time.Time) decimal.Decimal {
	return b.daily.GetTotal(number, day)
}

// DailyLimit 回傳設定的每日轉出上限；0 代表不限制。
func (b *Bank) DailyLimit() decimal.Decimal {
	return b.limit
}

// Now 回傳 Bank 的目前時間，供驗證層判斷營業時間與日期。
func (b *Bank) Now() time.Time {
	return b.now()
}

// List 回傳所有帳戶快照（依帳號排序）。
func (b *Bank) List() []Account {
	return b.registry.List()
}

// Logs 回傳指定帳戶的交易日誌（值拷貝）。
func (b *Bank) Logs(number string) ([]Log, error) {
	return b.registry.Logs(number)
}
