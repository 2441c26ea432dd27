// internal/bank/errors.go
//
// 本檔集中定義「領域錯誤（domain errors）」。
// 回傳時以 fmt.Errorf("%w") 包上帳號等上下文，呼叫端一律用 errors.Is 判斷種類，
// 再由 HTTP 層轉換成對應的狀態碼。

package bank

import "errors"

var (
	// ErrAccountNotFound 代表帳戶不存在。
	// 對應 HTTP 狀態碼 404 Not Found。
	ErrAccountNotFound = errors.New("account not found")

	// ErrInsufficientFunds 代表餘額不足，導致提款或轉帳失敗。
	// 對應 HTTP 狀態碼 409 Conflict。
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInvalidArgument 代表金額非法（<=0、超過兩位小數）或轉帳雙方相同。
	// 屬於呼叫端程式錯誤；對應 HTTP 狀態碼 400 Bad Request。
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrDailyLimitExceeded 代表本筆轉帳會使當日轉出總額超過上限。
	// 對應 HTTP 狀態碼 409 Conflict。
	ErrDailyLimitExceeded = errors.New("daily transfer limit exceeded")

	// ErrInvariantViolation 代表變更後餘額將為負。
	// 正常情況下不可能發生；出現即代表並行控制有缺陷。
	ErrInvariantViolation = errors.New("balance invariant violated")
)
