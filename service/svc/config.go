package svc

import (
	"gorm.io/gorm"

	"github.com/ProjectsTask/EasySwapEngine/dao"
	"github.com/ProjectsTask/EasySwapEngine/orderbook"
	"github.com/ProjectsTask/EasySwapEngine/stores/xkv"
)

// CtxConfig 服务上下文配置构建器
// 使用 Option 模式构建 ServerCtx
type CtxConfig struct {
	db      *gorm.DB
	dao     *dao.Dao
	KvStore *xkv.Store
	engine  *orderbook.OrderBook
}

type CtxOption func(conf *CtxConfig)

func NewServerCtx(options ...CtxOption) *ServerCtx {
	c := &CtxConfig{}
	for _, opt := range options {
		opt(c)
	}
	return &ServerCtx{
		DB:      c.db,
		KvStore: c.KvStore,
		Dao:     c.dao,
		Engine:  c.engine,
	}
}

func WithKv(kv *xkv.Store) CtxOption {
	return func(conf *CtxConfig) {
		conf.KvStore = kv
	}
}

func WithDB(db *gorm.DB) CtxOption {
	return func(conf *CtxConfig) {
		conf.db = db
	}
}

func WithDao(dao *dao.Dao) CtxOption {
	return func(conf *CtxConfig) {
		conf.dao = dao
	}
}

func WithEngine(engine *orderbook.OrderBook) CtxOption {
	return func(conf *CtxConfig) {
		conf.engine = engine
	}
}
