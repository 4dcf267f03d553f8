// Package xzap 在 zap 之上包一层带 context 的结构化日志
// 统一走 SetUp 初始化，业务侧通过 WithContext(ctx) 打日志，
// 请求链路上的 trace id 会自动附加到每条日志
package xzap

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ProjectsTask/EasySwapEngine/logger"
)

// CtxKeyTraceId trace id 在 context 中的键
type ctxKey string

const CtxKeyTraceId ctxKey = "trace_id"

var (
	mu     sync.RWMutex
	global = zap.NewNop()
)

// Logger 绑定了 context 信息的日志器
type Logger struct {
	l *zap.Logger
}

// SetUp 初始化全局日志器
func SetUp(c logger.LogConf) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if err := level.Set(c.Level); err != nil && c.Level != "" {
		return nil, err
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var ws zapcore.WriteSyncer
	if c.Mode == "file" && c.Path != "" {
		ws = zapcore.AddSync(&lumberjack.Logger{
			Filename: filepath.Join(c.Path, c.ServiceName+".log"),
			MaxSize:  c.MaxSize,
			MaxAge:   c.KeepDays,
			Compress: c.Compress,
		})
	} else {
		ws = zapcore.AddSync(os.Stdout)
	}

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), ws, level)
	l := zap.New(core, zap.AddCaller())
	if c.ServiceName != "" {
		l = l.With(zap.String("service", c.ServiceName))
	}

	mu.Lock()
	global = l
	mu.Unlock()
	return l, nil
}

// WithContext 取出全局日志器并附加 context 中的 trace id
func WithContext(ctx context.Context) *Logger {
	mu.RLock()
	l := global
	mu.RUnlock()
	if ctx != nil {
		if traceId, ok := ctx.Value(CtxKeyTraceId).(string); ok && traceId != "" {
			l = l.With(zap.String("trace_id", traceId))
		}
	}
	return &Logger{l: l}
}

// WithTraceId 把 trace id 写入 context
func WithTraceId(ctx context.Context, traceId string) context.Context {
	return context.WithValue(ctx, CtxKeyTraceId, traceId)
}

func (x *Logger) Debug(msg string, fields ...zap.Field) { x.l.Debug(msg, fields...) }
func (x *Logger) Info(msg string, fields ...zap.Field)  { x.l.Info(msg, fields...) }
func (x *Logger) Warn(msg string, fields ...zap.Field)  { x.l.Warn(msg, fields...) }
func (x *Logger) Error(msg string, fields ...zap.Field) { x.l.Error(msg, fields...) }
