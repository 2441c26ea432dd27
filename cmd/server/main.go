// cmd/server/main.go

// 本服務提供帳戶建立、存提款、轉帳與每日轉出查詢的 HTTP API。
// 此檔案負責載入設定、初始化模組（logging, bank, validation, server），
// 啟動 HTTP 伺服器，並在收到 SIGINT/SIGTERM 時優雅關閉。
// 帳戶資料只存在記憶體中，程序結束即消失。

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"ledger/internal/bank"
	"ledger/internal/config"
	"ledger/internal/logging"
	"ledger/internal/server"
	"ledger/internal/validation"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "ledger: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.Development())
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	// 初始化銀行核心模組
	b := bank.NewBank(
		bank.WithDailyLimit(cfg.DailyTransferLimit),
		bank.WithLogger(logger.Named("bank")),
	)

	v, err := validation.New(b, validation.Rules{
		MaxDeposit:           cfg.MaxDeposit,
		SavingsWithdrawLimit: cfg.SavingsWithdrawLimit,
		DailyTransferLimit:   cfg.DailyTransferLimit,
		EnforceBusinessHours: cfg.EnforceBusinessHours,
		OpenHour:             cfg.BusinessHoursStart,
		CloseHour:            cfg.BusinessHoursEnd,
	})
	if err != nil {
		return fmt.Errorf("init validation: %w", err)
	}

	s, err := server.NewServer(b, v, logger.Named("http"))
	if err != nil {
		return fmt.Errorf("init server: %w", err)
	}
	app := s.Router()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("ledger server listening", zap.String("address", cfg.ServerAddress))
		return app.Listen(cfg.ServerAddress)
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down", zap.Duration("timeout", cfg.ShutdownTimeout))
		return app.ShutdownWithTimeout(cfg.ShutdownTimeout)
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
