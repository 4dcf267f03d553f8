package cmd

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ProjectsTask/EasySwapEngine/logger/xzap"
	"github.com/ProjectsTask/EasySwapEngine/service"
	"github.com/ProjectsTask/EasySwapEngine/service/config"
)

// DaemonCmd daemon 子命令，启动撮合引擎和 HTTP 服务
var DaemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "run easy swap order book engine.",
	Long:  "run easy swap order book engine.",
	Run: func(cmd *cobra.Command, args []string) {
		wg := &sync.WaitGroup{}
		wg.Add(1)

		ctx := context.Background()
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		// 服务启动或运行过程中的错误通过该 chan 通知主流程退出
		onSvcExit := make(chan error, 1)

		go func() {
			defer wg.Done()

			// 1. 读取和解析配置文件
			cfg, err := config.UnmarshalCmdConfig()
			if err != nil {
				xzap.WithContext(ctx).Error("Failed to unmarshal config", zap.Error(err))
				onSvcExit <- err
				return
			}

			// 2. 初始化日志模块
			_, err = xzap.SetUp(*cfg.Log)
			if err != nil {
				xzap.WithContext(ctx).Error("Failed to set up logger", zap.Error(err))
				onSvcExit <- err
				return
			}

			xzap.WithContext(ctx).Info("engine server start", zap.Any("config", cfg))

			// 3. 初始化服务 (撮合引擎 / 镜像索引 / HTTP)
			s, err := service.New(ctx, cfg)
			if err != nil {
				xzap.WithContext(ctx).Error("Failed to create engine server", zap.Error(err))
				onSvcExit <- err
				return
			}

			// 4. 启动服务
			if err := s.Start(); err != nil {
				xzap.WithContext(ctx).Error("Failed to start engine server", zap.Error(err))
				onSvcExit <- err
				return
			}

			// 5. 可选开启 pprof 性能监控
			if cfg.Monitor != nil && cfg.Monitor.PprofEnable {
				http.ListenAndServe(fmt.Sprintf("0.0.0.0:%d", cfg.Monitor.PprofPort), nil)
			}
		}()

		onSignal := make(chan os.Signal, 1)
		signal.Notify(onSignal, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-onSignal:
			switch sig {
			case syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM:
				cancel()
				xzap.WithContext(ctx).Info("Exit by signal", zap.String("signal", sig.String()))
			}
		case err := <-onSvcExit:
			cancel()
			xzap.WithContext(ctx).Error("Exit by error", zap.Error(err))
		}

		wg.Wait()
	},
}

func init() {
	rootCmd.AddCommand(DaemonCmd)
}
