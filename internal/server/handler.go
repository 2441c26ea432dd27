// internal/server/handler.go
//
// 各端點的處理函式。寫入類請求一律先經 validation，再呼叫 bank；
// 驗證通過後 bank 仍可能因並行請求回傳領域錯誤（例如餘額已被其他請求用掉），
// 這類錯誤同樣由 writeErr 轉換。
package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"ledger/internal/bank"
	"ledger/internal/validation"
)

// amountBody 為存款 / 提款的請求本文。
type amountBody struct {
	Amount decimal.Decimal `json:"amount"`
}

// bodyError 回應無法解析的請求本文。
func bodyError(c *fiber.Ctx, err error) error {
	return writeError(c, fiber.StatusBadRequest, "invalid_body", err.Error())
}

// createAccount 處理 POST /accounts。
func (s *Server) createAccount(c *fiber.Ctx) error {
	var req validation.CreateAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return bodyError(c, err)
	}
	if err := s.validator.CreateAccount(req); err != nil {
		s.observe(c.UserContext(), "create_account", err)
		return writeErr(c, err)
	}

	a := s.Bank.CreateAccount(req.HolderName, req.CPF, req.Kind)
	s.observe(c.UserContext(), "create_account", nil)
	c.Location(c.BaseURL() + "/accounts/" + a.Number)
	return writeJSON(c, fiber.StatusCreated, a)
}

// listAccounts 處理 GET /accounts。
func (s *Server) listAccounts(c *fiber.Ctx) error {
	return writeJSON(c, fiber.StatusOK, s.Bank.List())
}

// getAccount 處理 GET /accounts/:number。
func (s *Server) getAccount(c *fiber.Ctx) error {
	a, err := s.Bank.Get(c.Params("number"))
	if err != nil {
		return writeErr(c, err)
	}
	return writeJSON(c, fiber.StatusOK, a)
}

// deposit 處理 POST /accounts/:number/deposit。
func (s *Server) deposit(c *fiber.Ctx) error {
	var body amountBody
	if err := c.BodyParser(&body); err != nil {
		return bodyError(c, err)
	}
	req := validation.DepositRequest{Account: c.Params("number"), Amount: body.Amount}

	a, err := func() (bank.Account, error) {
		if err := s.validator.Deposit(req); err != nil {
			return bank.Account{}, err
		}
		return s.Bank.Deposit(req.Account, req.Amount)
	}()
	s.observe(c.UserContext(), "deposit", err)
	if err != nil {
		return writeErr(c, err)
	}
	return writeJSON(c, fiber.StatusOK, a)
}

// withdraw 處理 POST /accounts/:number/withdraw。
func (s *Server) withdraw(c *fiber.Ctx) error {
	var body amountBody
	if err := c.BodyParser(&body); err != nil {
		return bodyError(c, err)
	}
	req := validation.WithdrawRequest{Account: c.Params("number"), Amount: body.Amount}

	a, err := func() (bank.Account, error) {
		if err := s.validator.Withdraw(req); err != nil {
			return bank.Account{}, err
		}
		return s.Bank.Withdraw(req.Account, req.Amount)
	}()
	s.observe(c.UserContext(), "withdraw", err)
	if err != nil {
		return writeErr(c, err)
	}
	return writeJSON(c, fiber.StatusOK, a)
}

// logs 處理 GET /accounts/:number/logs。
func (s *Server) logs(c *fiber.Ctx) error {
	logs, err := s.Bank.Logs(c.Params("number"))
	if err != nil {
		return writeErr(c, err)
	}
	return writeJSON(c, fiber.StatusOK, logs)
}

// dailyTotalResponse 為當日轉出累計查詢結果；Limit 為 0 時代表不設上限。
type dailyTotalResponse struct {
	Account   string          `json:"account"`
	Date      string          `json:"date"`
	Total     decimal.Decimal `json:"total"`
	Limit     decimal.Decimal `json:"limit"`
	Remaining decimal.Decimal `json:"remaining"`
}

// dailyTotal 處理 GET /accounts/:number/daily-total。
func (s *Server) dailyTotal(c *fiber.Ctx) error {
	number := c.Params("number")
	if !s.Bank.Exists(number) {
		return writeError(c, fiber.StatusNotFound, "account_not_found", "account "+number+" not found")
	}

	total := s.Bank.GetDailyTotal(number)
	limit := s.Bank.DailyLimit()
	remaining := decimal.Zero
	if limit.IsPositive() && limit.GreaterThan(total) {
		remaining = limit.Sub(total)
	}
	return writeJSON(c, fiber.StatusOK, dailyTotalResponse{
		Account:   number,
		Date:      s.Bank.Now().Local().Format("2006-01-02"),
		Total:     total,
		Limit:     limit,
		Remaining: remaining,
	})
}

// transfer 處理 POST /transfers，成功後回傳雙方最新帳戶狀態。
func (s *Server) transfer(c *fiber.Ctx) error {
	var req validation.TransferRequest
	if err := c.BodyParser(&req); err != nil {
		return bodyError(c, err)
	}

	err := s.validator.Transfer(req)
	if err == nil {
		err = s.Bank.Transfer(req.Source, req.Destination, req.Amount, req.Description)
	}
	s.observe(c.UserContext(), "transfer", err)
	if err != nil {
		return writeErr(c, err)
	}

	from, err := s.Bank.Get(req.Source)
	if err != nil {
		return writeErr(c, err)
	}
	to, err := s.Bank.Get(req.Destination)
	if err != nil {
		return writeErr(c, err)
	}
	s.logger.Info("transfer completed",
		zap.String("request_id", requestID(c)),
		zap.String("source", req.Source),
		zap.String("destination", req.Destination),
		zap.String("amount", req.Amount.StringFixed(2)),
	)
	return writeJSON(c, fiber.StatusOK, fiber.Map{
		"message": "transfer completed",
		"from":    from,
		"to":      to,
	})
}

// health 提供健康檢查端點：GET /health。
func (s *Server) health(c *fiber.Ctx) error {
	return writeJSON(c, fiber.StatusOK, fiber.Map{"status": "ok"})
}
