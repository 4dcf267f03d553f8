package orderbook

import (
	"sync"

	"github.com/ProjectsTask/EasySwapEngine/order"
)

// Record 订单存储记录
// Next 为预留的订单链指针，当前版本不参与任何逻辑
type Record struct {
	Order order.Order
	Next  order.Key
}

// Store 订单持久化接口
// 订单记录在取消/替换时删除，但 FilledAmount 计数永久保留:
// 已成交过的 Key 即使记录被删除也不允许复用 (墓碑语义)
type Store interface {
	Get(key order.Key) (Record, bool)
	Add(key order.Key, rec Record)
	Delete(key order.Key)
	// Filled 返回该 Key 累计成交数量，只增不减
	Filled(key order.Key) int64
	AddFilled(key order.Key, delta int64)
}

// MemoryStore Store 的内存实现，作为引擎的权威状态
// 引擎入口串行执行，锁仅保护旁路只读访问 (API 查询)
type MemoryStore struct {
	mu     sync.RWMutex
	orders map[order.Key]Record
	filled map[order.Key]int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		orders: make(map[order.Key]Record),
		filled: make(map[order.Key]int64),
	}
}

func (s *MemoryStore) Get(key order.Key) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.orders[key]
	return rec, ok
}

func (s *MemoryStore) Add(key order.Key, rec Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[key] = rec
}

func (s *MemoryStore) Delete(key order.Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.orders, key)
}

func (s *MemoryStore) Filled(key order.Key) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filled[key]
}

func (s *MemoryStore) AddFilled(key order.Key, delta int64) {
	if delta <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filled[key] += delta
}
