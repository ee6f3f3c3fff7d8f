package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Options struct {
	Level      string // debug / info / warn / error
	JSON       bool   // JSON 还是控制台格式
	File       string // 非空则同时写文件并按大小切割
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

func New(o Options) (*zap.Logger, func()) {
	var lvl zapcore.Level
	if err := lvl.Set(o.Level); err != nil {
		lvl = zapcore.InfoLevel
	}

	var enc zapcore.Encoder
	if o.JSON {
		cfg := zap.NewProductionEncoderConfig()
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.TimeKey = "ts"
		cfg.EncodeCaller = zapcore.ShortCallerEncoder
		enc = zapcore.NewJSONEncoder(cfg)
	} else {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000")
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cfg.EncodeCaller = zapcore.ShortCallerEncoder
		enc = zapcore.NewConsoleEncoder(cfg)
	}

	sinks := []zapcore.Core{
		zapcore.NewCore(enc, zapcore.AddSync(os.Stdout), lvl),
	}
	if o.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   o.File,
			MaxSize:    max(1, o.MaxSizeMB),
			MaxBackups: max(0, o.MaxBackups),
			MaxAge:     max(0, o.MaxAgeDays),
			Compress:   o.Compress,
		}
		sinks = append(sinks, zapcore.NewCore(enc, zapcore.AddSync(rotWriter{rotator}), lvl))
	}

	// 高频日志采样，避免刷屏拖慢请求
	core := zapcore.NewSamplerWithOptions(zapcore.NewTee(sinks...), time.Second, 100, 100)

	opts := []zap.Option{zap.AddCaller()}
	if !o.JSON {
		opts = append(opts, zap.Development())
	}
	l := zap.New(core, opts...)
	return l, func() { _ = l.Sync() }
}

type rotWriter struct{ *lumberjack.Logger }

func (w rotWriter) Write(p []byte) (n int, err error) { return w.Logger.Write(p) }
func (w rotWriter) Sync() error                       { return nil }

type zapIOWriter struct {
	l     *zap.Logger
	level zapcore.Level
}

func (w *zapIOWriter) Write(p []byte) (int, error) {
	msg := strings.TrimRight(string(p), "\r\n")
	if ce := w.l.Check(w.level, msg); ce != nil {
		ce.Write()
	}
	return len(p), nil
}

// ToWriter 把 zap 适配成 io.Writer（gin 的默认输出等场景）
func ToWriter(l *zap.Logger, level zapcore.Level) io.Writer {
	return &zapIOWriter{l: l, level: level}
}

// RedirectStdLog 把标准库 log 重定向到 zap
func RedirectStdLog(l *zap.Logger, level zapcore.Level) func() {
	undo, _ := zap.RedirectStdLogAt(l, level)
	return func() { undo() }
}
