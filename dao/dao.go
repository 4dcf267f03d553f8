package dao

import (
	"context"

	"gorm.io/gorm"

	"github.com/ProjectsTask/EasySwapEngine/stores/xkv"
)

// Dao 数据访问对象
// 封装数据库 (GORM) 与 Redis (KvStore) 的读写
// 数据库交互逻辑统一在本层实现，Service 层不直接操作 DB
type Dao struct {
	ctx context.Context

	DB      *gorm.DB
	KvStore *xkv.Store
}

func New(ctx context.Context, db *gorm.DB, kvStore *xkv.Store) *Dao {
	return &Dao{
		ctx:     ctx,
		DB:      db,
		KvStore: kvStore,
	}
}
