package bank

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDailyAggregatorRecordAndTotal(t *testing.T) {
	agg := NewDailyAggregator(4)
	day := time.Date(2026, 7, 1, 12, 0, 0, 0, time.Local)

	assert.True(t, agg.GetTotal("1001", day).IsZero())

	agg.RecordOutbound("1001", d("10.25"), day)
	agg.RecordOutbound("1001", d("0.75"), day.Add(6*time.Hour))
	assert.True(t, agg.GetTotal("1001", day).Equal(d("11")))
	assert.True(t, agg.GetTotal("1001", day.AddDate(0, 0, 1)).IsZero())
	assert.True(t, agg.GetTotal("1002", day).IsZero())
}

func TestDailyAggregatorConcurrentRecords(t *testing.T) {
	agg := NewDailyAggregator(0)
	day := time.Date(2026, 7, 1, 12, 0, 0, 0, time.Local)

	const workers = 100
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			agg.RecordOutbound("1001", d("1.01"), day)
		}()
	}
	wg.Wait()
	assert.True(t, agg.GetTotal("1001", day).Equal(d("101")))
}

func TestDailyAggregatorReserve(t *testing.T) {
	agg := NewDailyAggregator(4)
	day := time.Date(2026, 7, 1, 12, 0, 0, 0, time.Local)
	limit := d("100")

	calls := 0
	commit := func() error { calls++; return nil }

	require.NoError(t, agg.Reserve("1001", d("60"), limit, day, commit))
	require.NoError(t, agg.Reserve("1001", d("40"), limit, day, commit))
	err := agg.Reserve("1001", d("0.01"), limit, day, commit)
	assert.ErrorIs(t, err, ErrDailyLimitExceeded)
	assert.Equal(t, 2, calls, "commit must not run once the limit is reached")
	assert.True(t, agg.GetTotal("1001", day).Equal(limit))

	// commit 失敗時不累加
	boom := errors.New("boom")
	err = agg.Reserve("1002", d("5"), limit, day, func() error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.True(t, agg.GetTotal("1002", day).IsZero())

	// limit <= 0 不檢查上限
	require.NoError(t, agg.Reserve("1003", d("1000000"), decimal.Zero, day, commit))
	assert.True(t, agg.GetTotal("1003", day).Equal(d("1000000")))
}

// TestDailyAggregatorReserveRejectsWithoutRecord 驗證當天首筆即超過上限時不留下空紀錄。
func TestDailyAggregatorReserveRejectsWithoutRecord(t *testing.T) {
	agg := NewDailyAggregator(4)
	day := time.Date(2026, 7, 1, 12, 0, 0, 0, time.Local)

	called := false
	err := agg.Reserve("1001", d("150"), d("100"), day, func() error { called = true; return nil })
	assert.ErrorIs(t, err, ErrDailyLimitExceeded)
	assert.False(t, called)

	_, ok := agg.records.load(dailyKey("1001", day))
	assert.False(t, ok, "rejected first transfer must not create a daily record")

	// 之後的合法轉出才建立紀錄
	require.NoError(t, agg.Reserve("1001", d("100"), d("100"), day, func() error { return nil }))
	_, ok = agg.records.load(dailyKey("1001", day))
	assert.True(t, ok)
	assert.True(t, agg.GetTotal("1001", day).Equal(d("100")))
}

func TestLedgerDirect(t *testing.T) {
	reg := NewRegistry(2, nil)
	l := NewLedger(reg, nil, nil)
	a := reg.Create("A", "529.982.247-25", KindChecking)
	c := reg.Create("C", "111.444.777-35", KindBusiness)

	_, err := l.Deposit(a.Number, d("10"))
	require.NoError(t, err)
	require.NoError(t, l.Transfer(a.Number, c.Number, d("4")))

	bal, err := l.Balance(c.Number)
	require.NoError(t, err)
	assert.True(t, bal.Equal(d("4")))

	// 不變量檢查：負餘額一律拒絕
	assert.ErrorIs(t, l.assertNonNegative(a.Number, d("-0.01")), ErrInvariantViolation)
	assert.NoError(t, l.assertNonNegative(a.Number, decimal.Zero))
}
