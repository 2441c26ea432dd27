// Package server
// ─────────────────────────────────────────────
// 提供 HTTP 介面，作為 bank 模組的應用層 (Application Layer)。
// 每個 handler 僅負責：
//  1. 解析請求
//  2. 呼叫 validation 檢查格式與業務規則
//  3. 呼叫 bank 執行狀態變更
//  4. 回傳標準化 JSON 回應
//
// bank 不依賴 HTTP；server 依賴 bank 與 validation。
package server

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"ledger/internal/bank"
	"ledger/internal/validation"
)

const meterName = "ledger/internal/server"

// Server 為 HTTP 層核心結構。
type Server struct {
	Bank      *bank.Bank
	validator *validation.Validator
	logger    *zap.Logger

	requests   metric.Int64Counter
	duration   metric.Float64Histogram
	operations metric.Int64Counter
}

// NewServer 建立 HTTP 伺服器；logger 可為 nil。
// 指標使用全域 MeterProvider，未設定時為 no-op。
func NewServer(b *bank.Bank, v *validation.Validator, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{Bank: b, validator: v, logger: logger}

	meter := otel.Meter(meterName)
	var err error
	if s.requests, err = meter.Int64Counter("http.server.requests",
		metric.WithDescription("HTTP requests handled"), metric.WithUnit("{request}")); err != nil {
		return nil, fmt.Errorf("create requests counter: %w", err)
	}
	if s.duration, err = meter.Float64Histogram("http.server.duration",
		metric.WithDescription("HTTP request latency"), metric.WithUnit("s")); err != nil {
		return nil, fmt.Errorf("create duration histogram: %w", err)
	}
	if s.operations, err = meter.Int64Counter("ledger.operations",
		metric.WithDescription("Ledger operations by outcome"), metric.WithUnit("{operation}")); err != nil {
		return nil, fmt.Errorf("create operations counter: %w", err)
	}
	return s, nil
}

// observe 記錄一次 ledger 操作結果。
func (s *Server) observe(ctx context.Context, op string, err error) {
	s.operations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", op),
		attribute.String("outcome", outcome(err)),
	))
}

func outcome(err error) string {
	var fe validation.FieldErrors
	switch {
	case err == nil:
		return "success"
	case errors.As(err, &fe):
		return "rejected"
	case errors.Is(err, bank.ErrAccountNotFound):
		return "not_found"
	case errors.Is(err, bank.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, bank.ErrDailyLimitExceeded):
		return "daily_limit"
	case errors.Is(err, bank.ErrInvalidArgument):
		return "invalid_argument"
	default:
		return "error"
	}
}
