package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"ledger/internal/bank"
	"ledger/internal/cpf"
)

// Reader 為驗證所需的 bank 唯讀查詢介面；*bank.Bank 即滿足此介面。
type Reader interface {
	Get(number string) (bank.Account, error)
	Exists(number string) bool
	IdentityAlreadyRegistered(identity string) bool
	GetBalance(number string) (decimal.Decimal, error)
	GetDailyTotal(number string) decimal.Decimal
	Now() time.Time
}

// Rules 為可設定的業務上限。
type Rules struct {
	MaxDeposit           decimal.Decimal
	SavingsWithdrawLimit decimal.Decimal
	// DailyTransferLimit <= 0 代表不檢查每日上限。
	DailyTransferLimit   decimal.Decimal
	EnforceBusinessHours bool
	// 營業時間為 [OpenHour, CloseHour]，含 CloseHour 整個小時。
	OpenHour  int
	CloseHour int
}

// DefaultRules 回傳預設上限：存款 50 000、儲蓄帳戶單筆提款 1 000、每日轉出 5 000、6 點至 22 點。
func DefaultRules() Rules {
	return Rules{
		MaxDeposit:           decimal.NewFromInt(50000),
		SavingsWithdrawLimit: decimal.NewFromInt(1000),
		DailyTransferLimit:   decimal.NewFromInt(5000),
		EnforceBusinessHours: true,
		OpenHour:             6,
		CloseHour:            22,
	}
}

// holderNamePattern 只允許英文字母、Latin-1 重音字母與空白。
var holderNamePattern = regexp.MustCompile(`^[a-zA-ZÀ-ÿ\s]+$`)

// Validator 組合結構檢查與各請求的業務規則。
type Validator struct {
	reader Reader
	rules  Rules
	shape  *validator.Validate

	create   Pipeline[CreateAccountRequest]
	deposit  Pipeline[DepositRequest]
	withdraw Pipeline[WithdrawRequest]
	transfer Pipeline[TransferRequest]
}

// New 建立 Validator；自訂 tag 註冊失敗時回傳錯誤。
func New(reader Reader, rules Rules) (*Validator, error) {
	shape, err := newShapeValidator()
	if err != nil {
		return nil, err
	}
	v := &Validator{reader: reader, rules: rules, shape: shape}
	v.create = v.createChecks()
	v.deposit = v.depositChecks()
	v.withdraw = v.withdrawChecks()
	v.transfer = v.transferChecks()
	return v, nil
}

func newShapeValidator() (*validator.Validate, error) {
	vld := validator.New(validator.WithRequiredStructEnabled())

	vld.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	if err := vld.RegisterValidation("positive_decimal", func(fl validator.FieldLevel) bool {
		value, ok := fl.Field().Interface().(decimal.Decimal)
		return ok && value.IsPositive()
	}); err != nil {
		return nil, fmt.Errorf("register positive_decimal: %w", err)
	}
	return vld, nil
}

// CreateAccount 驗證開戶請求。
func (v *Validator) CreateAccount(req CreateAccountRequest) error {
	return validate(v, req, v.create)
}

// Deposit 驗證存款請求。
func (v *Validator) Deposit(req DepositRequest) error {
	return validate(v, req, v.deposit)
}

// Withdraw 驗證提款請求。
func (v *Validator) Withdraw(req WithdrawRequest) error {
	return validate(v, req, v.withdraw)
}

// Transfer 驗證轉帳請求。
func (v *Validator) Transfer(req TransferRequest) error {
	return validate(v, req, v.transfer)
}

func validate[T any](v *Validator, req T, p Pipeline[T]) error {
	errs := FieldErrors{}
	if err := v.shape.Struct(req); err != nil {
		var ves validator.ValidationErrors
		if !errors.As(err, &ves) {
			return fmt.Errorf("validate %T: %w", req, err)
		}
		for _, fe := range ves {
			errs.add(fe.Field(), shapeMessage(fe))
		}
	}
	p.Run(req, errs)
	return errs.orNil()
}

func shapeMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must have at least " + fe.Param() + " characters"
	case "max":
		return "must have at most " + fe.Param() + " characters"
	case "positive_decimal":
		return "must be greater than zero"
	default:
		return "failed " + fe.Tag()
	}
}

// twoDecimals 要求最多兩位小數。
func twoDecimals(amount decimal.Decimal) bool {
	return amount.Equal(amount.Round(2))
}

func (v *Validator) withinBusinessHours() bool {
	if !v.rules.EnforceBusinessHours {
		return true
	}
	h := v.reader.Now().Hour()
	return h >= v.rules.OpenHour && h <= v.rules.CloseHour
}

func (v *Validator) hoursMessage(op string) string {
	return fmt.Sprintf("%s only allowed between %02d:00 and %02d:59", op, v.rules.OpenHour, v.rules.CloseHour)
}

func (v *Validator) createChecks() Pipeline[CreateAccountRequest] {
	return Pipeline[CreateAccountRequest]{
		{Field: "holder_name", Message: "must contain only letters and spaces",
			Pass: func(r CreateAccountRequest) bool { return holderNamePattern.MatchString(r.HolderName) }},
		{Field: "cpf", Message: "is not a valid CPF",
			Pass: func(r CreateAccountRequest) bool { return cpf.IsValid(r.CPF) }},
		{Field: "cpf", Message: "already has an account",
			Pass: func(r CreateAccountRequest) bool { return !v.reader.IdentityAlreadyRegistered(r.CPF) }},
		{Field: "kind", Message: "is not a valid account kind",
			Pass: func(r CreateAccountRequest) bool { return r.Kind.Valid() }},
		{Field: "kind", Message: "business accounts require additional verification",
			Pass: func(r CreateAccountRequest) bool { return r.Kind != bank.KindBusiness }},
	}
}

func (v *Validator) depositChecks() Pipeline[DepositRequest] {
	return Pipeline[DepositRequest]{
		{Field: "account", Message: "account not found",
			Pass: func(r DepositRequest) bool { return v.reader.Exists(r.Account) }},
		{Field: "amount", Message: "must have at most 2 decimal places",
			Pass: func(r DepositRequest) bool { return twoDecimals(r.Amount) }},
		{Field: "amount", Message: "must not exceed " + v.rules.MaxDeposit.StringFixed(2) + " per deposit",
			Pass: func(r DepositRequest) bool { return r.Amount.LessThanOrEqual(v.rules.MaxDeposit) }},
	}
}

func (v *Validator) withdrawChecks() Pipeline[WithdrawRequest] {
	needAccount := []string{"account"}
	return Pipeline[WithdrawRequest]{
		{Field: "account", Message: "account not found",
			Pass: func(r WithdrawRequest) bool { return v.reader.Exists(r.Account) }},
		{Field: "amount", Message: "must have at most 2 decimal places",
			Pass: func(r WithdrawRequest) bool { return twoDecimals(r.Amount) }},
		{Field: "amount", Needs: needAccount,
			Message: "savings accounts allow at most " + v.rules.SavingsWithdrawLimit.StringFixed(2) + " per withdrawal",
			Pass: func(r WithdrawRequest) bool {
				a, err := v.reader.Get(r.Account)
				if err != nil || a.Kind != bank.KindSavings {
					return true
				}
				return r.Amount.LessThanOrEqual(v.rules.SavingsWithdrawLimit)
			}},
		{Field: "amount", Needs: needAccount, Message: "insufficient balance",
			Pass: func(r WithdrawRequest) bool {
				bal, err := v.reader.GetBalance(r.Account)
				return err == nil && bal.GreaterThanOrEqual(r.Amount)
			}},
		{Field: "request", Message: v.hoursMessage("withdrawals"),
			Pass: func(WithdrawRequest) bool { return v.withinBusinessHours() }},
	}
}

func (v *Validator) transferChecks() Pipeline[TransferRequest] {
	needSource := []string{"source"}
	return Pipeline[TransferRequest]{
		{Field: "source", Message: "source account not found",
			Pass: func(r TransferRequest) bool { return v.reader.Exists(r.Source) }},
		{Field: "destination", Message: "destination account not found",
			Pass: func(r TransferRequest) bool { return v.reader.Exists(r.Destination) }},
		{Field: "destination", Message: "cannot transfer to the same account",
			Pass: func(r TransferRequest) bool { return r.Source != r.Destination }},
		{Field: "amount", Message: "must have at most 2 decimal places",
			Pass: func(r TransferRequest) bool { return twoDecimals(r.Amount) }},
		{Field: "amount", Needs: needSource,
			Message: "exceeds daily transfer limit of " + v.rules.DailyTransferLimit.StringFixed(2),
			Pass: func(r TransferRequest) bool {
				if !v.rules.DailyTransferLimit.IsPositive() {
					return true
				}
				return v.reader.GetDailyTotal(r.Source).Add(r.Amount).LessThanOrEqual(v.rules.DailyTransferLimit)
			}},
		{Field: "amount", Needs: needSource, Message: "insufficient balance in source account",
			Pass: func(r TransferRequest) bool {
				bal, err := v.reader.GetBalance(r.Source)
				return err == nil && bal.GreaterThanOrEqual(r.Amount)
			}},
		{Field: "request", Message: v.hoursMessage("transfers"),
			Pass: func(TransferRequest) bool { return v.withinBusinessHours() }},
	}
}
