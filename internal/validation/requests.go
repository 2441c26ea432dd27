package validation

import (
	"github.com/shopspring/decimal"

	"ledger/internal/bank"
)

// CreateAccountRequest 為開戶請求。
type CreateAccountRequest struct {
	HolderName string    `json:"holder_name" validate:"required,min=2,max=100"`
	CPF        string    `json:"cpf" validate:"required"`
	Kind       bank.Kind `json:"kind" validate:"required"`
}

// DepositRequest 為存款請求；Account 來自路徑參數。
type DepositRequest struct {
	Account string          `json:"account" validate:"required"`
	Amount  decimal.Decimal `json:"amount" validate:"positive_decimal"`
}

// WithdrawRequest 為提款請求；Account 來自路徑參數。
type WithdrawRequest struct {
	Account string          `json:"account" validate:"required"`
	Amount  decimal.Decimal `json:"amount" validate:"positive_decimal"`
}

// TransferRequest 為轉帳請求。
type TransferRequest struct {
	Source      string          `json:"source" validate:"required"`
	Destination string          `json:"destination" validate:"required"`
	Amount      decimal.Decimal `json:"amount" validate:"positive_decimal"`
	Description string          `json:"description" validate:"max=100"`
}
