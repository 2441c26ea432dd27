// internal/bank/ledger.go

package bank

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Ledger 負責餘額變更：存款、提款與成對轉帳。
// 每個帳戶由其 entry.mu 序列化；轉帳依 seq 由小到大加鎖，
// 相反方向的並行轉帳因此不會死結，且外部讀取只會看到「轉帳前」或「轉帳後」兩種狀態。
type Ledger struct {
	reg    *Registry
	now    func() time.Time
	logger *zap.Logger
}

// NewLedger 建立綁定 reg 的 Ledger。
func NewLedger(reg *Registry, now func() time.Time, logger *zap.Logger) *Ledger {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ledger{reg: reg, now: now, logger: logger}
}

// checkAmount 要求金額 > 0 且最多兩位小數。
func checkAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("amount %s must be > 0: %w", amount, ErrInvalidArgument)
	}
	if !amount.Equal(amount.Round(2)) {
		return fmt.Errorf("amount %s has more than 2 fractional digits: %w", amount, ErrInvalidArgument)
	}
	return nil
}

// Deposit 存款並回傳更新後的帳戶快照。
func (l *Ledger) Deposit(number string, amount decimal.Decimal) (Account, error) {
	if err := checkAmount(amount); err != nil {
		return Account{}, err
	}
	e, err := l.reg.lookup(number)
	if err != nil {
		return Account{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	next := e.acct.Balance.Add(amount)
	if err := l.assertNonNegative(number, next); err != nil {
		return Account{}, err
	}
	e.acct.Balance = next
	e.logs = append(e.logs, Log{
		ID: uuid.New(), Time: l.now(), Operation: OpDeposit, Direction: DirectionIn,
		Amount: amount, BalanceAfter: next,
	})
	return e.acct, nil
}

// Withdraw 提款；餘額檢查與扣款在同一臨界區內完成，
// 兩筆並行提款不可能同時通過同一個舊餘額的檢查。
func (l *Ledger) Withdraw(number string, amount decimal.Decimal) (Account, error) {
	if err := checkAmount(amount); err != nil {
		return Account{}, err
	}
	e, err := l.reg.lookup(number)
	if err != nil {
		return Account{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.acct.Balance.LessThan(amount) {
		return Account{}, fmt.Errorf("account %s balance %s < %s: %w",
			number, e.acct.Balance.StringFixed(2), amount.StringFixed(2), ErrInsufficientFunds)
	}
	next := e.acct.Balance.Sub(amount)
	if err := l.assertNonNegative(number, next); err != nil {
		return Account{}, err
	}
	e.acct.Balance = next
	e.logs = append(e.logs, Log{
		ID: uuid.New(), Time: l.now(), Operation: OpWithdraw, Direction: DirectionOut,
		Amount: amount, BalanceAfter: next,
	})
	return e.acct, nil
}

// Transfer 將 amount 由 source 轉至 destination，扣款與入帳原子完成。
func (l *Ledger) Transfer(source, destination string, amount decimal.Decimal) error {
	return l.TransferNote(source, destination, amount, "")
}

// TransferNote 同 Transfer，並在雙方日誌記錄 note。
func (l *Ledger) TransferNote(source, destination string, amount decimal.Decimal, note string) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	if source == destination {
		return fmt.Errorf("transfer to the same account %s: %w", source, ErrInvalidArgument)
	}
	from, err := l.reg.lookup(source)
	if err != nil {
		return err
	}
	to, err := l.reg.lookup(destination)
	if err != nil {
		return err
	}

	first, second := from, to
	if second.seq < first.seq {
		first, second = second, first
	}
	first.mu.Lock()
	defer first.mu.Unlock()
	second.mu.Lock()
	defer second.mu.Unlock()

	if from.acct.Balance.LessThan(amount) {
		return fmt.Errorf("account %s balance %s < %s: %w",
			source, from.acct.Balance.StringFixed(2), amount.StringFixed(2), ErrInsufficientFunds)
	}
	fromNext := from.acct.Balance.Sub(amount)
	toNext := to.acct.Balance.Add(amount)
	if err := l.assertNonNegative(source, fromNext); err != nil {
		return err
	}
	if err := l.assertNonNegative(destination, toNext); err != nil {
		return err
	}

	from.acct.Balance = fromNext
	to.acct.Balance = toNext

	now := l.now()
	tid := uuid.New()
	from.logs = append(from.logs, Log{
		ID: uuid.New(), TransferID: tid, Time: now, Operation: OpTransfer, Direction: DirectionOut,
		Amount: amount, BalanceAfter: fromNext, CounterID: destination, Note: note,
	})
	to.logs = append(to.logs, Log{
		ID: uuid.New(), TransferID: tid, Time: now, Operation: OpTransfer, Direction: DirectionIn,
		Amount: amount, BalanceAfter: toNext, CounterID: source, Note: note,
	})
	return nil
}

// Balance 回傳目前餘額。
func (l *Ledger) Balance(number string) (decimal.Decimal, error) {
	e, err := l.reg.lookup(number)
	if err != nil {
		return decimal.Zero, err
	}
	return e.snapshot().Balance, nil
}

// assertNonNegative 在寫入前確認餘額不為負；呼叫端必須持有該帳戶的鎖。
func (l *Ledger) assertNonNegative(number string, next decimal.Decimal) error {
	if !next.IsNegative() {
		return nil
	}
	l.logger.Error("balance would become negative",
		zap.String("account", number),
		zap.String("balance", next.String()),
	)
	return fmt.Errorf("account %s balance %s: %w", number, next.String(), ErrInvariantViolation)
}
