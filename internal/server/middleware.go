package server

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

const (
	headerRequestID = "X-Request-Id"
	localRequestID  = "request_id"
)

// withRequestID 沿用呼叫端提供的 X-Request-Id，沒有時產生新的 UUID，並回寫到回應標頭。
func (s *Server) withRequestID(c *fiber.Ctx) error {
	id := c.Get(headerRequestID)
	if id == "" {
		id = uuid.NewString()
	}
	c.Locals(localRequestID, id)
	c.Set(headerRequestID, id)
	return c.Next()
}

func requestID(c *fiber.Ctx) string {
	id, _ := c.Locals(localRequestID).(string)
	return id
}

// withLogging 記錄存取日誌並更新 HTTP 指標。
func (s *Server) withLogging(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	if err != nil {
		// 交給 errorHandler 寫入回應，確保狀態碼在記錄前已決定
		if herr := s.errorHandler(c, err); herr != nil {
			return herr
		}
	}
	elapsed := time.Since(start)
	status := c.Response().StatusCode()

	attrs := metric.WithAttributes(
		attribute.String("http.method", c.Method()),
		attribute.String("http.route", c.Route().Path),
		attribute.Int("http.status_code", status),
	)
	s.requests.Add(c.UserContext(), 1, attrs)
	s.duration.Record(c.UserContext(), elapsed.Seconds(), attrs)

	fields := []zap.Field{
		zap.String("request_id", requestID(c)),
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Int("status", status),
		zap.Duration("duration", elapsed),
	}
	if status >= fiber.StatusInternalServerError {
		s.logger.Error("request", fields...)
	} else {
		s.logger.Debug("request", fields...)
	}
	return nil
}

// errorHandler 將 fiber 自身的錯誤（404、405、body 過大等）轉為 ErrorResponse。
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return writeError(c, fe.Code, "http_error", fe.Message)
	}
	s.logger.Error("unhandled error", zap.String("request_id", requestID(c)), zap.Error(err))
	return writeError(c, fiber.StatusInternalServerError, "internal_error", "internal server error")
}
