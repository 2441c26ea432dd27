// Package bank 定義核心領域模型與業務規則。
// 本檔定義 Account、帳戶類型與交易 Log 結構，不含任何 HTTP 或驗證細節。

package bank

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Kind 為帳戶類型。數值與對外 API 一致，0 保留為「未指定」。
type Kind int

const (
	KindChecking Kind = iota + 1
	KindSavings
	KindBusiness
)

// Valid 回報 k 是否為已知的帳戶類型。
func (k Kind) Valid() bool {
	return k >= KindChecking && k <= KindBusiness
}

func (k Kind) String() string {
	switch k {
	case KindChecking:
		return "checking"
	case KindSavings:
		return "savings"
	case KindBusiness:
		return "business"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Account represents a bank account.
// 對外只回傳值拷貝；正本由 Registry 持有。
type Account struct {
	Number     string          `json:"number"`
	HolderName string          `json:"holder_name"`
	CPF        string          `json:"cpf"`
	Balance    decimal.Decimal `json:"balance"`
	Kind       Kind            `json:"kind"`
	OpenedAt   time.Time       `json:"opened_at"`
	Active     bool            `json:"active"`
}

// Direction 表示資金相對於帳戶的方向。
type Direction string

const (
	DirectionIn  Direction = "in"
	DirectionOut Direction = "out"
)

// Operation 為產生 Log 的操作種類。
type Operation string

const (
	OpDeposit  Operation = "deposit"
	OpWithdraw Operation = "withdraw"
	OpTransfer Operation = "transfer"
)

// Log represents a transaction record.
// 轉帳時雙方各寫一筆，以相同 TransferID 串接。
type Log struct {
	ID           uuid.UUID       `json:"id"`
	TransferID   uuid.UUID       `json:"transfer_id"`
	Time         time.Time       `json:"time"`
	Operation    Operation       `json:"operation"`
	Direction    Direction       `json:"direction"`
	Amount       decimal.Decimal `json:"amount"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
	CounterID    string          `json:"counter_account,omitempty"`
	Note         string          `json:"note,omitempty"`
}
