package service

import (
	"context"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/zeromicro/go-zero/core/threading"
	"go.uber.org/zap"

	"github.com/ProjectsTask/EasySwapEngine/api/router"
	"github.com/ProjectsTask/EasySwapEngine/logger/xzap"
	"github.com/ProjectsTask/EasySwapEngine/service/config"
	"github.com/ProjectsTask/EasySwapEngine/service/marketindexer"
	"github.com/ProjectsTask/EasySwapEngine/service/svc"
)

// Service 撮合引擎后台服务
// 组合撮合引擎、事件镜像索引器和对外 HTTP 接口
type Service struct {
	ctx           context.Context
	config        *config.Config
	serverCtx     *svc.ServerCtx
	router        *gin.Engine
	marketIndexer *marketindexer.Service
	wg            *sync.WaitGroup
}

// New 初始化服务实例
func New(ctx context.Context, cfg *config.Config) (*Service, error) {
	// 1. 初始化服务上下文 (日志 / Redis / MySQL / 撮合引擎)
	serverCtx, err := svc.NewServiceContext(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "failed on create server context")
	}

	// 2. 初始化事件镜像索引器
	indexer := marketindexer.New(ctx, cfg, serverCtx.DB, serverCtx.Engine)

	// 3. 初始化 HTTP 路由
	r := router.NewRouter(serverCtx)

	s := Service{
		ctx:           ctx,
		config:        cfg,
		serverCtx:     serverCtx,
		router:        r,
		marketIndexer: indexer,
		wg:            &sync.WaitGroup{},
	}
	return &s, nil
}

// Start 启动服务
func (s *Service) Start() error {
	// 1. 先启动索引器，确保引擎事件从一开始就被消费
	s.marketIndexer.Start()

	// 2. 启动 HTTP 服务 (异步，阻塞调用放到 goroutine 里)
	threading.GoSafe(func() {
		xzap.WithContext(s.ctx).Info("EasySwapEngine run", zap.String("port", s.config.Api.Port))
		if err := s.router.Run(s.config.Api.Port); err != nil {
			xzap.WithContext(s.ctx).Error("api server exit", zap.Error(err))
		}
	})
	return nil
}
