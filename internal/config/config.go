// Package config 讀取服務設定。
// 先以 godotenv 載入（可選的）.env 檔，再由環境變數覆寫預設值。
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config 為服務啟動所需的全部設定。
type Config struct {
	ServerAddress   string
	EnvName         string
	LogLevel        string
	ShutdownTimeout time.Duration

	DailyTransferLimit   decimal.Decimal
	MaxDeposit           decimal.Decimal
	SavingsWithdrawLimit decimal.Decimal

	EnforceBusinessHours bool
	BusinessHoursStart   int
	BusinessHoursEnd     int
}

// Development 回報是否為開發環境（影響 log 格式）。
func (c Config) Development() bool {
	return c.EnvName == "development" || c.EnvName == "local"
}

// Load 載入 files 指定的 .env 檔（預設 ".env"，不存在時略過），再讀取環境變數。
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return FromEnv(os.Getenv)
}

// FromEnv 以 getenv 取值建立 Config；未設定的鍵使用預設值。
func FromEnv(getenv func(string) string) (Config, error) {
	p := parser{getenv: getenv}
	c := Config{
		ServerAddress:   p.str("SERVER_ADDRESS", ":8080"),
		EnvName:         p.str("ENV_NAME", "production"),
		LogLevel:        strings.ToLower(p.str("LOG_LEVEL", "info")),
		ShutdownTimeout: p.duration("SHUTDOWN_TIMEOUT", 10*time.Second),

		DailyTransferLimit:   p.money("DAILY_TRANSFER_LIMIT", "5000.00"),
		MaxDeposit:           p.money("MAX_DEPOSIT", "50000.00"),
		SavingsWithdrawLimit: p.money("SAVINGS_WITHDRAW_LIMIT", "1000.00"),

		EnforceBusinessHours: p.boolean("ENFORCE_BUSINESS_HOURS", true),
		BusinessHoursStart:   p.integer("BUSINESS_HOURS_START", 6),
		BusinessHoursEnd:     p.integer("BUSINESS_HOURS_END", 22),
	}
	if err := errors.Join(p.errs...); err != nil {
		return Config{}, err
	}
	if err := c.validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) validate() error {
	var errs []error
	if c.BusinessHoursStart < 0 || c.BusinessHoursStart > 23 {
		errs = append(errs, fmt.Errorf("BUSINESS_HOURS_START %d out of range 0-23", c.BusinessHoursStart))
	}
	if c.BusinessHoursEnd < 0 || c.BusinessHoursEnd > 23 {
		errs = append(errs, fmt.Errorf("BUSINESS_HOURS_END %d out of range 0-23", c.BusinessHoursEnd))
	}
	if c.BusinessHoursStart > c.BusinessHoursEnd {
		errs = append(errs, fmt.Errorf("BUSINESS_HOURS_START %d after BUSINESS_HOURS_END %d",
			c.BusinessHoursStart, c.BusinessHoursEnd))
	}
	if c.DailyTransferLimit.IsNegative() {
		errs = append(errs, errors.New("DAILY_TRANSFER_LIMIT must not be negative"))
	}
	if !c.MaxDeposit.IsPositive() {
		errs = append(errs, errors.New("MAX_DEPOSIT must be > 0"))
	}
	if !c.SavingsWithdrawLimit.IsPositive() {
		errs = append(errs, errors.New("SAVINGS_WITHDRAW_LIMIT must be > 0"))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("SHUTDOWN_TIMEOUT must be > 0"))
	}
	return errors.Join(errs...)
}

// parser 收集所有解析錯誤，一次回報。
type parser struct {
	getenv func(string) string
	errs   []error
}

func (p *parser) str(key, def string) string {
	if v := strings.TrimSpace(p.getenv(key)); v != "" {
		return v
	}
	return def
}

func (p *parser) integer(key string, def int) int {
	v := p.str(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return n
}

func (p *parser) boolean(key string, def bool) bool {
	v := p.str(key, "")
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return b
}

func (p *parser) duration(key string, def time.Duration) time.Duration {
	v := p.str(key, "")
	if v == "" {
		return def
	}
	dur, err := time.ParseDuration(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return dur
}

func (p *parser) money(key, def string) decimal.Decimal {
	v := p.str(key, def)
	m, err := decimal.NewFromString(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return decimal.RequireFromString(def)
	}
	return m
}
