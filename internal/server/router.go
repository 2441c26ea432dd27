// internal/server/router.go
//
// 本檔負責 HTTP 路由註冊，與 handler.go 分離：
//   - handler.go 定義「如何處理請求」
//   - router.go 定義「請求如何被導向」
//   - main.go 組裝整體應用（注入 Bank、Validator、Logger）
package server

import "github.com/gofiber/fiber/v2"

// Router 建立並回傳整個 fiber 應用。
// 所有端點同時掛在根路徑與 /api/v1 下；若未來有 /api/v2，只需再呼叫一次 mount。
func (s *Server) Router() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "ledger",
		DisableStartupMessage: true,
		ErrorHandler:          s.errorHandler,
	})
	app.Use(s.withRequestID, s.withLogging)

	s.mount(app.Group("/api/v1"))
	s.mount(app)
	return app
}

func (s *Server) mount(r fiber.Router) {
	// 健康檢查：可供監控或 liveness probe 使用。
	r.Get("/health", s.health)

	// 帳戶操作
	r.Post("/accounts", s.createAccount)
	r.Get("/accounts", s.listAccounts)
	r.Get("/accounts/:number", s.getAccount)
	r.Post("/accounts/:number/deposit", s.deposit)
	r.Post("/accounts/:number/withdraw", s.withdraw)
	r.Get("/accounts/:number/logs", s.logs)
	r.Get("/accounts/:number/daily-total", s.dailyTotal)

	// 轉帳
	r.Post("/transfers", s.transfer)
}
