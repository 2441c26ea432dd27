// internal/server/response.go
//
// 本檔負責統一 HTTP 回應格式。
// 成功回應直接輸出 JSON；錯誤回應一律為 ErrorResponse，
// 並在 writeErr 集中完成「領域錯誤 → HTTP 狀態碼」的對應。
package server

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"ledger/internal/bank"
	"ledger/internal/validation"
)

// ErrorResponse 為所有錯誤回應的 JSON 結構。
type ErrorResponse struct {
	Code    string              `json:"code"`
	Title   string              `json:"title"`
	Message string              `json:"message"`
	Fields  map[string][]string `json:"fields,omitempty"`
}

// writeJSON 統一輸出成功回應。
func writeJSON(c *fiber.Ctx, code int, v any) error {
	return c.Status(code).JSON(v)
}

// writeError 以 status 與 title 輸出錯誤。
func writeError(c *fiber.Ctx, status int, title, message string) error {
	return c.Status(status).JSON(ErrorResponse{
		Code:    strconv.Itoa(status),
		Title:   title,
		Message: message,
	})
}

// writeErr 將 bank / validation 錯誤轉為 HTTP 回應：
//   - validation.FieldErrors → 400，附欄位明細
//   - ErrAccountNotFound → 404
//   - ErrInsufficientFunds、ErrDailyLimitExceeded → 409
//   - ErrInvalidArgument → 400
//   - 其他（含 ErrInvariantViolation）→ 500，不外洩內部訊息
func writeErr(c *fiber.Ctx, err error) error {
	var fe validation.FieldErrors
	switch {
	case errors.As(err, &fe):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Code:    strconv.Itoa(fiber.StatusBadRequest),
			Title:   "validation_failed",
			Message: "one or more fields are invalid",
			Fields:  fe,
		})
	case errors.Is(err, bank.ErrAccountNotFound):
		return writeError(c, fiber.StatusNotFound, "account_not_found", err.Error())
	case errors.Is(err, bank.ErrInsufficientFunds):
		return writeError(c, fiber.StatusConflict, "insufficient_funds", err.Error())
	case errors.Is(err, bank.ErrDailyLimitExceeded):
		return writeError(c, fiber.StatusConflict, "daily_limit_exceeded", err.Error())
	case errors.Is(err, bank.ErrInvalidArgument):
		return writeError(c, fiber.StatusBadRequest, "invalid_argument", err.Error())
	default:
		return writeError(c, fiber.StatusInternalServerError, "internal_error", "internal server error")
	}
}
