package bank

import (
	"hash/fnv"
	"sync"
)

const defaultShards = 32

// shardMap 為以字串為鍵的分段雜湊表。
// 每個 shard 各自一把 RWMutex，不同 shard 的讀寫互不阻塞；
// 值本身（*entry、*dailyRecord）的欄位由其自身的鎖保護。
type shardMap[V any] struct {
	shards []*shard[V]
}

type shard[V any] struct {
	mu sync.RWMutex
	m  map[string]V
}

func newShardMap[V any](n int) *shardMap[V] {
	if n <= 0 {
		n = defaultShards
	}
	sm := &shardMap[V]{shards: make([]*shard[V], n)}
	for i := range sm.shards {
		sm.shards[i] = &shard[V]{m: make(map[string]V)}
	}
	return sm
}

func (sm *shardMap[V]) shardFor(key string) *shard[V] {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return sm.shards[h.Sum32()%uint32(len(sm.shards))]
}

func (sm *shardMap[V]) load(key string) (V, bool) {
	s := sm.shardFor(key)
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.m[key]
	return v, ok
}

// loadOrStore 回傳既有值；不存在時以 create() 建立並寫入。
// create 只會在持有 shard 寫鎖時被呼叫一次。
func (sm *shardMap[V]) loadOrStore(key string, create func() V) V {
	if v, ok := sm.load(key); ok {
		return v
	}
	s := sm.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.m[key]; ok {
		return v
	}
	v := create()
	s.m[key] = v
	return v
}

// store 寫入新鍵；鍵已存在時覆蓋。
func (sm *shardMap[V]) store(key string, v V) {
	s := sm.shardFor(key)
	s.mu.Lock()
	s.m[key] = v
	s.mu.Unlock()
}

// each 依序走訪所有 shard 的值；fn 回傳 false 時提前結束。
// 走訪期間只持有單一 shard 的讀鎖。
func (sm *shardMap[V]) each(fn func(V) bool) {
	for _, s := range sm.shards {
		s.mu.RLock()
		vals := make([]V, 0, len(s.m))
		for _, v := range s.m {
			vals = append(vals, v)
		}
		s.mu.RUnlock()
		for _, v := range vals {
			if !fn(v) {
				return
			}
		}
	}
}
