// Package xkv 在 go-zero kv 之上的轻量包装
package xkv

import (
	"strconv"

	"github.com/zeromicro/go-zero/core/stores/kv"
)

// Store KV 存储 (Redis)
type Store struct {
	kv.Store
}

func NewStore(c kv.KvConf) *Store {
	return &Store{Store: kv.NewStore(c)}
}

// GetInt64 读取整型值，键不存在返回 0
func (s *Store) GetInt64(key string) (int64, error) {
	val, err := s.Get(key)
	if err != nil || val == "" {
		return 0, err
	}
	return strconv.ParseInt(val, 10, 64)
}

// SetInt64 写入整型值
func (s *Store) SetInt64(key string, val int64) error {
	return s.Set(key, strconv.FormatInt(val, 10))
}
