package svc

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/zeromicro/go-zero/core/stores/cache"
	"github.com/zeromicro/go-zero/core/stores/kv"
	"github.com/zeromicro/go-zero/core/stores/redis"
	"gorm.io/gorm"

	"github.com/ProjectsTask/EasySwapEngine/assets"
	"github.com/ProjectsTask/EasySwapEngine/dao"
	"github.com/ProjectsTask/EasySwapEngine/logger/xzap"
	"github.com/ProjectsTask/EasySwapEngine/model"
	"github.com/ProjectsTask/EasySwapEngine/orderbook"
	"github.com/ProjectsTask/EasySwapEngine/service/config"
	"github.com/ProjectsTask/EasySwapEngine/stores/xkv"
)

type ServerCtx struct {
	C       *config.Config
	DB      *gorm.DB
	Dao     *dao.Dao
	KvStore *xkv.Store

	Ledger    *assets.Ledger
	Royalties *assets.RoyaltyRegistry
	Engine    *orderbook.OrderBook
}

// NewServiceContext 初始化服务上下文
// 依次初始化日志、Redis、数据库、资产账本与撮合引擎
func NewServiceContext(c *config.Config) (*ServerCtx, error) {
	// 1. 初始化日志系统
	_, err := xzap.SetUp(*c.Log)
	if err != nil {
		return nil, err
	}

	// 2. 构造 Redis 配置并初始化 KV 存储
	var kvConf kv.KvConf
	for _, con := range c.Kv.Redis {
		kvConf = append(kvConf, cache.NodeConf{
			RedisConf: redis.RedisConf{
				Host: con.Host,
				Type: con.Type,
				Pass: con.Pass,
			},
			Weight: 1,
		})
	}
	store := xkv.NewStore(kvConf)

	// 3. 初始化数据库连接
	db, err := model.NewDB(c.DB)
	if err != nil {
		return nil, err
	}

	// 4. 初始化资产账本与版税注册表
	ledger := assets.NewLedger()
	royalties := assets.NewRoyaltyRegistry()

	// 5. 初始化撮合引擎
	adminCfg := orderbook.NewAdminConfig(
		common.HexToAddress(c.EngineCfg.AdminAddress),
		common.HexToAddress(c.EngineCfg.VaultAddress),
		c.EngineCfg.ProtocolShare,
	)
	engine := orderbook.New(adminCfg, ledger, ledger, royalties)

	// 6. 初始化数据访问层
	d := dao.New(context.Background(), db, store)

	serverCtx := NewServerCtx(
		WithDB(db),
		WithKv(store),
		WithDao(d),
		WithEngine(engine),
	)
	serverCtx.C = c
	serverCtx.Ledger = ledger
	serverCtx.Royalties = royalties

	return serverCtx, nil
}
