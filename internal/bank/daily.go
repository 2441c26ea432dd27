// internal/bank/daily.go

package bank

import (
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// dailyRecord 為 (帳號, 日期) 的當日轉出累計。
type dailyRecord struct {
	mu    sync.Mutex
	total decimal.Decimal
}

// DailyAggregator 追蹤每個帳戶每個日曆日（本機時區）已成功的轉出總額。
// 紀錄在當日第一次轉出時建立，只增不減，不會過期清除。
type DailyAggregator struct {
	records *shardMap[*dailyRecord]
}

// NewDailyAggregator 建立空白的每日累計器。
func NewDailyAggregator(shards int) *DailyAggregator {
	return &DailyAggregator{records: newShardMap[*dailyRecord](shards)}
}

func dailyKey(number string, day time.Time) string {
	return number + "_" + day.Local().Format(dateLayout)
}

func (d *DailyAggregator) record(number string, day time.Time) *dailyRecord {
	return d.records.loadOrStore(dailyKey(number, day), func() *dailyRecord {
		return &dailyRecord{total: decimal.Zero}
	})
}

// RecordOutbound 將 amount 累加到 (number, day) 的紀錄。
// 只能在 Ledger 已成功提交轉帳之後呼叫。
func (d *DailyAggregator) RecordOutbound(number string, amount decimal.Decimal, day time.Time) {
	rec := d.record(number, day)
	rec.mu.Lock()
	rec.total = rec.total.Add(amount)
	rec.mu.Unlock()
}

// GetTotal 回傳 (number, day) 目前累計；沒有紀錄時為 0。
func (d *DailyAggregator) GetTotal(number string, day time.Time) decimal.Decimal {
	rec, ok := d.records.load(dailyKey(number, day))
	if !ok {
		return decimal.Zero
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return rec.total
}

// Reserve 以 (number, day) 的鎖包住「檢查上限 → commit → 累加」三步。
// 同一帳戶同一天的並行轉帳因此不會各自讀到舊累計而共同超過上限。
// 超過上限時回傳 ErrDailyLimitExceeded 且不呼叫 commit；
// commit 失敗時不累加並原樣回傳其錯誤。limit <= 0 代表不設上限。
// 當天尚無紀錄且單筆即超過上限時直接拒絕，不建立紀錄。
func (d *DailyAggregator) Reserve(number string, amount, limit decimal.Decimal, day time.Time, commit func() error) error {
	if _, ok := d.records.load(dailyKey(number, day)); !ok && limit.IsPositive() && amount.GreaterThan(limit) {
		return limitError(number, decimal.Zero, amount, limit)
	}

	rec := d.record(number, day)
	rec.mu.Lock()
	defer rec.mu.Unlock()

	if limit.IsPositive() {
		if after := rec.total.Add(amount); after.GreaterThan(limit) {
			return limitError(number, rec.total, amount, limit)
		}
	}
	if err := commit(); err != nil {
		return err
	}
	rec.total = rec.total.Add(amount)
	return nil
}

func limitError(number string, total, amount, limit decimal.Decimal) error {
	return fmt.Errorf("account %s: today %s + %s > %s: %w",
		number, total.StringFixed(2), amount.StringFixed(2), limit.StringFixed(2), ErrDailyLimitExceeded)
}
